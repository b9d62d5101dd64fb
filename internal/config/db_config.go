package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type DBConfig struct {
	ConnectionString string        `mapstructure:"connection_string"`
	BusyTimeout      time.Duration `mapstructure:"busy_timeout"`
}

func (config DBConfig) setDefaults() {
	viper.SetDefault("db.busy_timeout", 5*time.Second)
}

func (config DBConfig) validate() error {
	if config.ConnectionString == "" {
		return fmt.Errorf("missing variable: db connection string")
	}
	if config.BusyTimeout < 0 {
		return fmt.Errorf("db busy timeout can't be negative")
	}
	return nil
}

func (config DBConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("db.connection_string", "DB_CONNECTION_STRING")
}

// DSN adds the busy timeout pragma so that the session snapshot and the favorites
// writers wait for each other instead of failing with SQLITE_BUSY.
func (config DBConfig) DSN() string {
	if config.BusyTimeout <= 0 || strings.Contains(config.ConnectionString, "busy_timeout") {
		return config.ConnectionString
	}

	separator := "?"
	if strings.Contains(config.ConnectionString, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", config.ConnectionString, separator,
		config.BusyTimeout.Milliseconds())
}

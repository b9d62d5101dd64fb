package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type BotConfig struct {
	Token    string  `mapstructure:"token"`
	AdminIDs []int64 `mapstructure:"admin_ids"`
}

func (config BotConfig) validate() error {
	if config.Token == "" {
		return fmt.Errorf("missing required variables: token")
	}
	return nil
}

func (config BotConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("bot.token", "TOKEN")
}

func (config BotConfig) IsAdmin(userID int64) bool {
	for _, id := range config.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

type BoardConfig struct {
	Source          Source        `mapstructure:"source"`
	DatasetFile     string        `mapstructure:"dataset_file"`
	SearchDebounce  time.Duration `mapstructure:"search_debounce"`
	FavoritesKey    string        `mapstructure:"favorites_key"`
	RefreshSchedule string        `mapstructure:"refresh_schedule"`
	DetailCacheTTL  time.Duration `mapstructure:"detail_cache_ttl"`
}

func (config BoardConfig) setDefaults() {
	viper.SetDefault("board.source", string(SourceRemote))
	viper.SetDefault("board.search_debounce", 500*time.Millisecond)
	viper.SetDefault("board.favorites_key", "job-favorites")
	viper.SetDefault("board.detail_cache_ttl", time.Minute)
}

func (config BoardConfig) validate() error {
	if config.Source != SourceLocal && config.Source != SourceRemote {
		return fmt.Errorf("unknown source %q, expected %q or %q", config.Source, SourceLocal, SourceRemote)
	}
	if config.SearchDebounce < 0 {
		return fmt.Errorf("search_debounce must not be negative")
	}
	if config.FavoritesKey == "" {
		return fmt.Errorf("missing variable: favorites_key")
	}
	return nil
}

func (config BoardConfig) bindEnvironmentVariables() error {
	if err := viper.BindEnv("board.source", "BOARD_SOURCE"); err != nil {
		return err
	}
	return viper.BindEnv("board.dataset_file", "BOARD_DATASET_FILE")
}

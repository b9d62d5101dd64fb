package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxRequestsPerSecond float32       `mapstructure:"max_requests_per_second"`
	PageSize             int           `mapstructure:"page_size"`
	ManagementPageSize   int           `mapstructure:"management_page_size"`
}

func (config APIConfig) setDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:3001")
	viper.SetDefault("api.timeout", 5*time.Second)
	viper.SetDefault("api.page_size", 10)
	viper.SetDefault("api.management_page_size", 5)
}

func (config APIConfig) validate() error {
	var errs []error

	if _, err := url.ParseRequestURI(config.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("invalid base_url %q: %w", config.BaseURL, err))
	}
	if config.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}
	if config.PageSize < 1 || config.ManagementPageSize < 1 {
		errs = append(errs, fmt.Errorf("page sizes must be positive"))
	}
	if config.MaxRequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("max_requests_per_second must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config APIConfig) bindEnvironmentVariables() error {
	var errs []error
	if err := viper.BindEnv("api.base_url", "API_BASE_URL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("api.timeout", "API_TIMEOUT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("api.max_requests_per_second", "API_MAX_REQUESTS_PER_SECOND"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func createMultiError(errs []error) error {
	return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
}

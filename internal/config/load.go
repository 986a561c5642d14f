package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence and use the GRATITUDE_ prefix with underscores for nesting,
// e.g. GRATITUDE_AUTH_JWT_SECRET maps to auth.jwt_secret.
//
// Returns a populated Config or an error if loading or validation fails.
// Callers must treat an error as fatal: the server never starts with a
// partial or invalid configuration.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.token_lifetime_hours", 24)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GRATITUDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars alone may be enough.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind the keys we care about so AutomaticEnv sees them even when no
	// config file set them.
	for _, key := range []string{
		"env",
		"server.port",
		"server.log_level",
		"database.url",
		"auth.jwt_secret",
		"auth.bcrypt_cost",
		"auth.token_lifetime_hours",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags. It is split
// out from Load so tests can validate hand-built configs.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

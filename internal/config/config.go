// Package config loads and validates application configuration. The
// configuration is constructed once at process start and passed explicitly
// to every component that needs it; there is no ambient global lookup.
package config

// Environment names accepted for Config.Env.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all application configuration.
type Config struct {
	Env      string         `mapstructure:"env"      validate:"required,oneof=development production test"`
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains server-related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	// JWTSecret signs bearer tokens. Must be at least 16 characters.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=16"`

	// BcryptCost is the bcrypt cost factor used when hashing passwords.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=8,lte=20"`

	// TokenLifetimeHours is the bearer token lifetime from issuance.
	TokenLifetimeHours int `mapstructure:"token_lifetime_hours" validate:"required,gt=0"`
}

// Development reports whether the process runs in development mode.
// Internal error messages and stack traces are only surfaced to clients
// in development.
func (c *Config) Development() bool {
	return c.Env == EnvDevelopment
}

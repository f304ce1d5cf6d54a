// Package config defines the application configuration and its loading
// rules.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`

	// MaxOpenConns bounds the connection pool; the per-entity
	// transactions the engine runs are short, so a small pool suffices.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int `mapstructure:"max_idle_conns" validate:"gte=0"`
}

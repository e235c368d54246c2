package config

import "time"

// Config is the root configuration for applications embedding the library.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Pagination PaginationConfig `mapstructure:"pagination"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig holds MongoDB connection settings.
type DatabaseConfig struct {
	URL              string        `mapstructure:"url"`
	Database         string        `mapstructure:"database"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// PaginationConfig holds page size policy applied when requests leave the
// limit unset or ask for more than the deployment allows.
type PaginationConfig struct {
	DefaultLimit int64 `mapstructure:"default_limit"`
	MaxLimit     int64 `mapstructure:"max_limit"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			URL:              "mongodb://localhost:27017",
			Database:         "app",
			ConnectTimeout:   5 * time.Second,
			OperationTimeout: 5 * time.Second,
		},
		Pagination: PaginationConfig{
			DefaultLimit: 25,
			MaxLimit:     500,
		},
	}
}

// ClampLimit applies the pagination limit policy to a requested page size.
func (p PaginationConfig) ClampLimit(limit int64) int64 {
	if limit <= 0 {
		return p.DefaultLimit
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		return p.MaxLimit
	}
	return limit
}

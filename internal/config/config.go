package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"haloscope/internal/errors"
)

// Store backends
const (
	StoreSQL  = "sql"
	StoreFile = "file"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Store     StoreConfig
	Server    ServerConfig
	Explore   ExploreConfig
	Profiling ProfilingConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string
	URL    string
}

// StoreConfig selects where the catalogs are read from
type StoreConfig struct {
	Backend string
	// DataDir holds dmo.csv/disk.csv (or .xlsx) for the file backend
	DataDir string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port       string
	GinMode    string
	SessionTTL time.Duration
}

// ExploreConfig holds the explorer defaults
type ExploreConfig struct {
	DefaultFilter string
	HistogramBins int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database:  *loadDatabaseConfig(),
		Store:     *loadStoreConfig(),
		Server:    *loadServerConfig(),
		Explore:   *loadExploreConfig(),
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", "sqlite3")),
		URL:    getEnvOrDefault("DATABASE_URL", "./test.db"),
	}
}

func loadStoreConfig() *StoreConfig {
	return &StoreConfig{
		Backend: strings.ToLower(getEnvOrDefault("STORE", StoreSQL)),
		DataDir: getEnvOrDefault("DATA_DIR", "./data"),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:       getEnvOrDefault("PORT", "8080"),
		GinMode:    getEnvOrDefault("GIN_MODE", "release"),
		SessionTTL: getEnvDurationOrDefault("SESSION_TTL", 24*time.Hour),
	}
}

func loadExploreConfig() *ExploreConfig {
	return &ExploreConfig{
		DefaultFilter: getEnvOrDefault("DEFAULT_FILTER", "where vmax > 10 and dist < 100"),
		HistogramBins: getEnvIntOrDefault("HISTOGRAM_BINS", 100),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	switch config.Store.Backend {
	case StoreSQL:
		switch config.Database.Driver {
		case "sqlite3", "postgres":
		default:
			return errors.ConfigInvalid("DATABASE_DRIVER must be sqlite3 or postgres")
		}
		if config.Database.URL == "" {
			return errors.ConfigInvalid("database URL is required")
		}
	case StoreFile:
		if config.Store.DataDir == "" {
			return errors.ConfigInvalid("DATA_DIR is required for the file store")
		}
	default:
		return errors.ConfigInvalid("STORE must be sql or file")
	}
	if config.Explore.HistogramBins <= 0 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be positive")
	}
	if config.Server.SessionTTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

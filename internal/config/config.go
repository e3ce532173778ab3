// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mindfeed/internal/observability"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags   string `mapstructure:"FEATURE_FLAGS"`

	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	RedisKeyPrefix string `mapstructure:"REDIS_KEY_PREFIX"`
	SQLitePath     string `mapstructure:"SQLITE_PATH"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`

	DirectoryFetchLatency  time.Duration `mapstructure:"DIRECTORY_FETCH_LATENCY"`
	DirectoryUpdateLatency time.Duration `mapstructure:"DIRECTORY_UPDATE_LATENCY"`
	// SessionUserID is signed in on boot when no session was persisted.
	SessionUserID string `mapstructure:"SESSION_USER_ID"`

	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampler  float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads .env, then config.yml (and config.<env>.yml outside
// development), then environment variables.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env != "" && env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	viper.SetDefault("FEATURE_FLAGS", "")
	viper.SetDefault("STORAGE_BACKEND", BackendMemory)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("REDIS_KEY_PREFIX", "mindfeed:")
	viper.SetDefault("SQLITE_PATH", "mindfeed.db")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DIRECTORY_FETCH_LATENCY", "800ms")
	viper.SetDefault("DIRECTORY_UPDATE_LATENCY", "1s")
	viper.SetDefault("SESSION_USER_ID", "user-001")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.StorageBackend = strings.ToLower(strings.TrimSpace(config.StorageBackend))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Validate checks required values and backend-specific settings.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	switch c.StorageBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.DirectoryFetchLatency < 0 || c.DirectoryUpdateLatency < 0 {
		return errors.New("directory latencies must not be negative")
	}
	if c.TracingSampler < 0 || c.TracingSampler > 1 {
		return errors.New("TRACING_SAMPLER_RATIO must be between 0 and 1")
	}

	if c.IsProduction() {
		if c.StorageBackend == BackendMemory {
			observability.GlobalLogger.Warn("STORAGE_BACKEND is 'memory' in production; state is lost on restart")
		}
		if c.AllowedOrigins == "*" {
			observability.GlobalLogger.Warn("ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Tracing maps the tracing settings onto the observability config.
func (c *Config) Tracing(serviceName, version string) observability.TracingConfig {
	return observability.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    c.Env,
		Enabled:        c.TracingEnabled,
		Exporter:       c.TracingExporter,
		OTLPEndpoint:   c.OTLPEndpoint,
		SamplerRatio:   c.TracingSampler,
	}
}

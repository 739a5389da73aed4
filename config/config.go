package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/smartbasket/basket-service/internal/comparison"
	"github.com/smartbasket/basket-service/internal/middleware"
	"github.com/smartbasket/basket-service/internal/telemetry"
)

// Catalog sources
const (
	CatalogSourcePostgres = "postgres"
	CatalogSourceFile     = "file"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig                 `mapstructure:"server"`
	Database   DatabaseConfig               `mapstructure:"database"`
	Redis      RedisConfig                  `mapstructure:"redis"`
	Logging    LoggingConfig                `mapstructure:"logging"`
	Comparison comparison.Config            `mapstructure:"comparison"`
	Cache      CacheConfig                  `mapstructure:"cache"`
	RateLimit  middleware.RateLimiterConfig `mapstructure:"rate_limit"`
	Catalog    CatalogConfig                `mapstructure:"catalog"`
	Telemetry  telemetry.Config             `mapstructure:"telemetry"`
	Auth       AuthConfig                   `mapstructure:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// RedisConfig holds the Redis connection used by the comparison cache
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// CacheConfig controls comparison response caching
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// CatalogConfig selects where catalog data is read from
type CatalogConfig struct {
	Source string `mapstructure:"source"`
	File   string `mapstructure:"file"`
}

// AuthConfig holds admin authentication settings
type AuthConfig struct {
	InternalAPIKey string `mapstructure:"internal_api_key"`
}

// ErrInvalidConfig is returned when the configuration is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return "invalid config " + e.Field + ": " + e.Reason
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := loadEnvFile(); err != nil {
		// .env is optional
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.SetEnvPrefix("BASKET_SERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if err := c.Comparison.Validate(); err != nil {
		return fmt.Errorf("invalid comparison config: %w", err)
	}
	switch c.Catalog.Source {
	case CatalogSourcePostgres:
	case CatalogSourceFile:
		if c.Catalog.File == "" {
			return ErrInvalidConfig{Field: "catalog.file", Reason: "required when catalog.source is file"}
		}
	default:
		return ErrInvalidConfig{Field: "catalog.source", Reason: fmt.Sprintf("unknown source %q", c.Catalog.Source)}
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return ErrInvalidConfig{Field: "cache.ttl", Reason: "must be positive when caching is enabled"}
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstSize < 1 {
		return ErrInvalidConfig{Field: "rate_limit", Reason: "requests_per_second and burst must be positive"}
	}
	return nil
}

// loadEnvFile loads the first .env file found into the process environment
func loadEnvFile() error {
	envPaths := []string{
		".",
		"./config",
	}

	for _, path := range envPaths {
		envFile := fmt.Sprintf("%s/.env", path)
		if _, err := os.Stat(envFile); err == nil {
			if err := loadDotEnvFile(envFile); err == nil {
				return nil
			}
		}
	}
	return fmt.Errorf("no .env file found")
}

// loadDotEnvFile reads KEY=VALUE lines into the environment. Variables that
// are already set win.
func loadDotEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.Trim(strings.TrimSpace(parts[1]), "\"'")
			if _, exists := os.LookupEnv(key); !exists {
				os.Setenv(key, value)
			}
		}
	}
	return scanner.Err()
}

// bindEnvVars binds conventional unprefixed variables to config keys
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("database.url", "BASKET_SERVICE_DATABASE_URL", "DATABASE_URL")
	v.BindEnv("server.port", "BASKET_SERVICE_SERVER_PORT", "PORT")
	v.BindEnv("server.host", "BASKET_SERVICE_SERVER_HOST", "HOST")
	v.BindEnv("logging.level", "BASKET_SERVICE_LOGGING_LEVEL", "LOG_LEVEL")
	v.BindEnv("redis.addr", "BASKET_SERVICE_REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("auth.internal_api_key", "BASKET_SERVICE_AUTH_INTERNAL_API_KEY", "INTERNAL_API_KEY")
	v.BindEnv("comparison.default_currency", "BASKET_SERVICE_COMPARISON_DEFAULT_CURRENCY", "DEFAULT_CURRENCY")
	v.BindEnv("telemetry.endpoint", "BASKET_SERVICE_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.min_connections", 5)
	v.SetDefault("database.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	comparisonDefaults := comparison.DefaultConfig()
	v.SetDefault("comparison.default_currency", comparisonDefaults.DefaultCurrency)
	v.SetDefault("comparison.parallelism", comparisonDefaults.Parallelism)
	v.SetDefault("comparison.max_basket_items", comparisonDefaults.MaxBasketItems)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", 5*time.Minute)

	rateDefaults := middleware.DefaultRateLimiterConfig()
	v.SetDefault("rate_limit.requests_per_second", rateDefaults.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", rateDefaults.BurstSize)
	v.SetDefault("rate_limit.idle_timeout", rateDefaults.IdleTimeout)

	v.SetDefault("catalog.source", CatalogSourcePostgres)
	v.SetDefault("catalog.file", "")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", telemetry.DefaultEndpoint)
	v.SetDefault("telemetry.service_name", telemetry.DefaultServiceName)
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// GetDatabaseURL returns the database URL from config or environment
func GetDatabaseURL() string {
	if cfg := Get(); cfg != nil && cfg.Database.URL != "" {
		return cfg.Database.URL
	}
	return os.Getenv("DATABASE_URL")
}

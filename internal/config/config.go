// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env string `mapstructure:"APP_ENV"`

	DBDriver                      string `mapstructure:"DB_DRIVER"`
	DBHost                        string `mapstructure:"DB_HOST"`
	DBPort                        string `mapstructure:"DB_PORT"`
	DBUser                        string `mapstructure:"DB_USER"`
	DBPassword                    string `mapstructure:"DB_PASSWORD"`
	DBName                        string `mapstructure:"DB_NAME"`
	DBSSLMode                     string `mapstructure:"DB_SSLMODE"`
	DBSQLitePath                  string `mapstructure:"DB_SQLITE_PATH"`
	DBSchemaMode                  string `mapstructure:"DB_SCHEMA_MODE"`
	DBAutoMigrateAllowDestructive bool   `mapstructure:"DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE"`
	DBMaxOpenConns                int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns                int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes      int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSlowQueryMS                 int    `mapstructure:"DB_SLOW_QUERY_MS"`

	RedisURL     string `mapstructure:"REDIS_URL"`
	CacheEnabled bool   `mapstructure:"CACHE_ENABLED"`

	LogLevel     string `mapstructure:"LOG_LEVEL"`
	LogFormat    string `mapstructure:"LOG_FORMAT"`
	LogFile      string `mapstructure:"LOG_FILE"`
	LogMaxSizeMB int    `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxFiles  int    `mapstructure:"LOG_MAX_FILES"`

	BcryptCost int `mapstructure:"BCRYPT_COST"`

	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint        string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`

	MetricsPushgatewayURL string `mapstructure:"METRICS_PUSHGATEWAY_URL"`
	MetricsJob            string `mapstructure:"METRICS_JOB"`
	MetricsTextfile       string `mapstructure:"METRICS_TEXTFILE"`
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// We intentionally ignore this error as the config file may not exist yet
	_ = v.ReadInConfig()

	env := v.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "user")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "social_network")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "socialnet.db")
	v.SetDefault("DB_SCHEMA_MODE", "hybrid")
	v.SetDefault("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE", false)
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	v.SetDefault("DB_SLOW_QUERY_MS", 200)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 10)
	v.SetDefault("LOG_MAX_FILES", 5)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
	v.SetDefault("METRICS_PUSHGATEWAY_URL", "")
	v.SetDefault("METRICS_JOB", "socialnet")
	v.SetDefault("METRICS_TEXTFILE", "")
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.DBSchemaMode = strings.ToLower(strings.TrimSpace(c.DBSchemaMode))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.TracingExporter = strings.ToLower(strings.TrimSpace(c.TracingExporter))
}

// IsProduction reports whether the config targets a production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required for the postgres driver")
		}
	case DriverSQLite:
		if c.DBSQLitePath == "" {
			return errors.New("DB_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.DBMaxOpenConns < 0 || c.DBMaxIdleConns < 0 {
		return errors.New("DB pool sizes must not be negative")
	}
	if c.DBConnMaxLifetimeMinutes < 0 {
		return errors.New("DB_CONN_MAX_LIFETIME_MINUTES must not be negative")
	}
	if c.CacheEnabled && c.RedisURL == "" {
		return errors.New("REDIS_URL is required when CACHE_ENABLED is true")
	}
	if c.BcryptCost != 0 && (c.BcryptCost < 4 || c.BcryptCost > 31) {
		return fmt.Errorf("BCRYPT_COST %d is outside the supported range 4-31", c.BcryptCost)
	}
	if c.TracingEnabled {
		if c.TracingExporter != "stdout" && c.TracingExporter != "otlp" {
			return fmt.Errorf("unsupported TRACING_EXPORTER %q", c.TracingExporter)
		}
		if c.TracingSamplerRatio <= 0 || c.TracingSamplerRatio > 1 {
			return errors.New("TRACING_SAMPLER_RATIO must be in (0, 1]")
		}
	}

	if c.MetricsPushgatewayURL != "" {
		u, err := url.Parse(c.MetricsPushgatewayURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("METRICS_PUSHGATEWAY_URL %q must be an http(s) URL", c.MetricsPushgatewayURL)
		}
	}

	// Strict checks for production
	if c.IsProduction() {
		if c.DBDriver == DriverSQLite {
			return errors.New("the sqlite driver is not supported in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must enable SSL in production")
		}
	}

	return nil
}

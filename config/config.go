package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Merchant   MerchantConfig   `mapstructure:"merchant"`
	Validation ValidationConfig `mapstructure:"validation"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	History    HistoryConfig    `mapstructure:"history"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	APIKey         string        `mapstructure:"api_key"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	MaxSessions    int           `mapstructure:"max_sessions"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// RateLimitConfig holds the inbound API rate limit
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type     string `mapstructure:"type"`
	BasePath string `mapstructure:"base_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// MerchantConfig configures the external feed validator
type MerchantConfig struct {
	// Mode is local or remote
	Mode              string        `mapstructure:"mode"`
	Endpoint          string        `mapstructure:"endpoint"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxConcurrent     int64         `mapstructure:"max_concurrent"`
}

// ValidationConfig holds parse and reconciliation settings
type ValidationConfig struct {
	RequiredHeaders []string      `mapstructure:"required_headers"`
	TitleMin        int           `mapstructure:"title_min"`
	TitleMax        int           `mapstructure:"title_max"`
	DescriptionMin  int           `mapstructure:"description_min"`
	DescriptionMax  int           `mapstructure:"description_max"`
	Debounce        time.Duration `mapstructure:"debounce"`
	Sheet           string        `mapstructure:"sheet"`
}

// TelemetryConfig holds OpenTelemetry export settings
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
}

// HistoryConfig selects where validation runs are recorded
type HistoryConfig struct {
	// Backend is file or postgres
	Backend string `mapstructure:"backend"`
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
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.SetEnvPrefix("FEEDCHECK")
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

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	switch c.Merchant.Mode {
	case "local", "remote":
	default:
		return fmt.Errorf("invalid merchant.mode %q: want local or remote", c.Merchant.Mode)
	}
	if c.Merchant.Mode == "remote" && c.Merchant.Endpoint == "" {
		return fmt.Errorf("merchant.endpoint is required in remote mode")
	}
	switch c.History.Backend {
	case "file", "postgres", "none":
	default:
		return fmt.Errorf("invalid history.backend %q: want file, postgres or none", c.History.Backend)
	}
	if c.Validation.TitleMin > c.Validation.TitleMax {
		return fmt.Errorf("validation.title_min %d exceeds title_max %d", c.Validation.TitleMin, c.Validation.TitleMax)
	}
	if c.Validation.DescriptionMin > c.Validation.DescriptionMax {
		return fmt.Errorf("validation.description_min %d exceeds description_max %d", c.Validation.DescriptionMin, c.Validation.DescriptionMax)
	}
	return nil
}

// loadEnvFile loads the first .env file found
func loadEnvFile() error {
	for _, path := range []string{".", "./config"} {
		envFile := fmt.Sprintf("%s/.env", path)
		if _, err := os.Stat(envFile); err == nil {
			if err := loadDotEnvFile(envFile); err == nil {
				return nil
			}
		}
	}
	return fmt.Errorf("no .env file found")
}

// loadDotEnvFile reads KEY=VALUE lines; variables already set win
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
			if _, set := os.LookupEnv(key); !set {
				os.Setenv(key, value)
			}
		}
	}
	return scanner.Err()
}

// bindEnvVars binds unprefixed environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("database.url", "FEEDCHECK_DATABASE_URL", "DATABASE_URL")
	v.BindEnv("server.port", "FEEDCHECK_SERVER_PORT", "PORT")
	v.BindEnv("server.api_key", "FEEDCHECK_SERVER_API_KEY", "INTERNAL_API_KEY")
	v.BindEnv("logging.level", "FEEDCHECK_LOGGING_LEVEL", "LOG_LEVEL")
	v.BindEnv("storage.base_path", "FEEDCHECK_STORAGE_BASE_PATH", "STORAGE_PATH")
	v.BindEnv("merchant.endpoint", "FEEDCHECK_MERCHANT_ENDPOINT", "MERCHANT_ENDPOINT")
	v.BindEnv("merchant.api_key", "FEEDCHECK_MERCHANT_API_KEY", "MERCHANT_API_KEY")
	v.BindEnv("telemetry.endpoint", "FEEDCHECK_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_upload_bytes", 50<<20)
	v.SetDefault("server.max_sessions", 100)

	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 1)
	v.SetDefault("database.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)

	v.SetDefault("rate_limit.requests_per_second", 50)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.base_path", "./data")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	v.SetDefault("merchant.mode", "local")
	v.SetDefault("merchant.timeout", 30*time.Second)
	v.SetDefault("merchant.requests_per_second", 2)
	v.SetDefault("merchant.burst", 1)
	v.SetDefault("merchant.max_concurrent", 4)

	v.SetDefault("validation.required_headers", []string{"id", "title", "description", "link", "image_link"})
	v.SetDefault("validation.title_min", 30)
	v.SetDefault("validation.title_max", 150)
	v.SetDefault("validation.description_min", 90)
	v.SetDefault("validation.description_max", 5000)
	v.SetDefault("validation.debounce", 300*time.Millisecond)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "feedcheck")
	v.SetDefault("telemetry.environment", "development")

	v.SetDefault("history.backend", "file")
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

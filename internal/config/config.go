package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SMS       SMSConfig       `mapstructure:"sms"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Business  BusinessConfig  `mapstructure:"business"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SMSConfig struct {
	GatewayURL string        `mapstructure:"SMS_GATEWAY_URL"`
	APIKey     string        `mapstructure:"SMS_API_KEY"`
	Timeout    time.Duration `mapstructure:"SMS_TIMEOUT"`
	Enabled    bool          `mapstructure:"SMS_ENABLED"`
}

type SchedulerConfig struct {
	ReminderSpec string `mapstructure:"SCHEDULER_REMINDER_SPEC"`
	WarmupSpec   string `mapstructure:"SCHEDULER_WARMUP_SPEC"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	// Timezone is the cooperative's single local calendar. Every due date
	// and collection date is resolved against it.
	Timezone            string `mapstructure:"BUSINESS_TIMEZONE"`
	DueTodayCacheTTL    string `mapstructure:"DUE_TODAY_CACHE_TTL"`
	DefaultDividendType string `mapstructure:"DEFAULT_DIVIDEND_TYPE"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SMS_TIMEOUT", "10s")
	viper.SetDefault("SMS_ENABLED", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("BUSINESS_TIMEZONE", "Asia/Dhaka")
	viper.SetDefault("DUE_TODAY_CACHE_TTL", "10m")
	viper.SetDefault("DEFAULT_DIVIDEND_TYPE", "%")
	viper.SetDefault("SCHEDULER_REMINDER_SPEC", "0 0 9 * * *")
	viper.SetDefault("SCHEDULER_WARMUP_SPEC", "0 0 0 * * *")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Populate the process environment from .env first so AutomaticEnv
	// sees it; missing files are fine.
	_ = godotenv.Load(".env")
	_ = godotenv.Load("deployments/.env")

	// Read from environment variables
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if _, err := time.LoadLocation(c.Business.Timezone); err != nil {
		return fmt.Errorf("BUSINESS_TIMEZONE must be a valid IANA zone: %w", err)
	}

	if _, err := time.ParseDuration(c.Business.DueTodayCacheTTL); err != nil {
		return fmt.Errorf("DUE_TODAY_CACHE_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	if c.SMS.Enabled && c.SMS.GatewayURL == "" {
		return fmt.Errorf("SMS_GATEWAY_URL is required when SMS_ENABLED is true")
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetTimezone returns the cooperative's local calendar location.
func (c *Config) GetTimezone() *time.Location {
	loc, err := time.LoadLocation(c.Business.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDueTodayCacheTTL returns the due-today cache TTL as duration
func (c *Config) GetDueTodayCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Business.DueTodayCacheTTL)
	return ttl
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Batch     BatchConfig     `mapstructure:"batch"`
	Scrape    ScrapeConfig    `mapstructure:"scrape"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"` // IPs or CIDRs; empty trusts no proxy
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// BatchConfig holds batch dispatch configuration
type BatchConfig struct {
	MaxItems  int           `mapstructure:"max_items"`
	ItemDelay time.Duration `mapstructure:"item_delay"`
}

// ScrapeConfig holds single-item scrape configuration
type ScrapeConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
	Store       string        `mapstructure:"store"` // "memory" or "redis"
	RedisURL    string        `mapstructure:"redis_url"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// IsDevelopment reports whether internal error details may be exposed
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/product-scraper/")

	// Environment variable settings
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// PaaS hosts inject a bare PORT
	if err := v.BindEnv("server.port", "SCRAPER_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("error binding port: %w", err)
	}
	if err := v.BindEnv("server.allowed_origins", "SCRAPER_SERVER_ALLOWED_ORIGINS", "FRONTEND_URL"); err != nil {
		return nil, fmt.Errorf("error binding allowed origins: %w", err)
	}

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")

	// Batch defaults
	v.SetDefault("batch.max_items", 5)
	v.SetDefault("batch.item_delay", "800ms")

	// Scrape defaults
	v.SetDefault("scrape.delay", "1500ms")

	// Rate limit defaults: 50 requests per 15 minutes per client
	v.SetDefault("ratelimit.max_requests", 50)
	v.SetDefault("ratelimit.window", "15m")
	v.SetDefault("ratelimit.store", "memory")
	v.SetDefault("ratelimit.redis_url", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set SCRAPER_SERVER_PORT or PORT)")
	}

	for _, proxy := range config.Server.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("invalid trusted proxy %q: must be an IP or CIDR", proxy)
			}
		}
	}

	if config.Batch.MaxItems <= 0 {
		return fmt.Errorf("batch max_items must be positive, got: %d", config.Batch.MaxItems)
	}

	if config.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("ratelimit max_requests must be positive, got: %d", config.RateLimit.MaxRequests)
	}

	if config.RateLimit.Window <= 0 {
		return fmt.Errorf("ratelimit window must be positive, got: %s", config.RateLimit.Window)
	}

	if config.RateLimit.Store != "memory" && config.RateLimit.Store != "redis" {
		return fmt.Errorf("ratelimit store must be 'memory' or 'redis', got: %s", config.RateLimit.Store)
	}

	if config.RateLimit.Store == "redis" && config.RateLimit.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when ratelimit store is 'redis'")
	}

	return nil
}

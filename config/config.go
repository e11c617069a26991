package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	GoldAPI   GoldAPIConfig `mapstructure:"goldapi"`
	Catalog   CatalogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GoldAPIConfig holds goldapi.io configuration
type GoldAPIConfig struct {
	AccessToken string        `mapstructure:"access_token"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// CatalogConfig holds the static product catalog location
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig holds price cache configuration
type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	FallbackPrice float64       `mapstructure:"fallback_price"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	GoldAPI int `mapstructure:"goldapi"` // requests per hour
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/goldleaf/")

	// Environment variable settings
	v.SetEnvPrefix("GOLDLEAF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The upstream token is also accepted under its conventional name
	// so deployments can reuse an existing GOLDAPI_KEY secret.
	_ = v.BindEnv("goldapi.access_token", "GOLDLEAF_GOLDAPI_ACCESS_TOKEN", "GOLDAPI_KEY")

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	// goldapi.io defaults
	v.SetDefault("goldapi.base_url", "https://www.goldapi.io/api")
	v.SetDefault("goldapi.timeout", "10s")

	// Catalog defaults
	v.SetDefault("catalog.path", "data/products.json")

	// Price cache defaults
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.fallback_price", 60.0)

	// Rate limit defaults
	v.SetDefault("ratelimit.goldapi", 300)
}

// validate validates the configuration. A missing goldapi token is
// deliberately not an error: the price oracle degrades to its
// fallback, and the catalog must stay browsable regardless.
func validate(config *Config) error {
	if config.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required")
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.Cache.FallbackPrice <= 0 {
		return fmt.Errorf("fallback price must be positive, got: %g", config.Cache.FallbackPrice)
	}

	if config.RateLimit.GoldAPI <= 0 {
		return fmt.Errorf("goldapi rate limit must be positive, got: %d", config.RateLimit.GoldAPI)
	}

	return nil
}

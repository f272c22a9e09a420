package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	OpenFoodFacts OpenFoodFactsConfig
	Search        SearchConfig
	Cache         CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OpenFoodFactsConfig holds Open Food Facts API configuration
type OpenFoodFactsConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// SearchConfig holds tuning for the search pipeline
type SearchConfig struct {
	PageSize   int           `mapstructure:"page_size"`
	MaxPages   int           `mapstructure:"max_pages"`
	PageDelay  time.Duration `mapstructure:"page_delay"`
	Debounce   time.Duration `mapstructure:"debounce"`
	WindowSize int           `mapstructure:"window_size"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/foodexplorer/")

	// Environment variable settings
	v.SetEnvPrefix("FOODEXPLORER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

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
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Open Food Facts defaults
	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "FoodExplorer/1.0")
	v.SetDefault("openfoodfacts.timeout", "30s")
	v.SetDefault("openfoodfacts.requests_per_second", 2.0)
	v.SetDefault("openfoodfacts.burst", 5)

	// Search defaults
	v.SetDefault("search.page_size", 50)
	v.SetDefault("search.max_pages", 3)
	v.SetDefault("search.page_delay", "300ms")
	v.SetDefault("search.debounce", "800ms")
	v.SetDefault("search.window_size", 16)

	// Cache defaults
	v.SetDefault("cache.ttl", "5m")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.OpenFoodFacts.BaseURL == "" {
		return fmt.Errorf("Open Food Facts base URL is required (set FOODEXPLORER_OPENFOODFACTS_BASE_URL)")
	}

	if config.Search.PageSize <= 0 {
		return fmt.Errorf("search page size must be positive, got: %d", config.Search.PageSize)
	}

	if config.Search.MaxPages <= 0 {
		return fmt.Errorf("search max pages must be positive, got: %d", config.Search.MaxPages)
	}

	if config.Search.WindowSize <= 0 {
		return fmt.Errorf("search window size must be positive, got: %d", config.Search.WindowSize)
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Places    PlacesConfig    `mapstructure:"places"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Locator   LocatorConfig   `mapstructure:"locator"`
	Cache     CacheConfig     `mapstructure:"cache"`
	History   HistoryConfig   `mapstructure:"history"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PlacesConfig holds Google Maps web services configuration
type PlacesConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries uint          `mapstructure:"max_retries"`
}

// AssistantConfig holds the question-answering / voice API configuration
type AssistantConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	TopK    int           `mapstructure:"top_k"`
}

// LocatorConfig holds the nearby search tuning
type LocatorConfig struct {
	InitialRadius  int           `mapstructure:"initial_radius"`  // meters
	FallbackRadius int           `mapstructure:"fallback_radius"` // meters
	GeocodeTimeout time.Duration `mapstructure:"geocode_timeout"`
	Region         string        `mapstructure:"region"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // only "memory" for now
	TTL  time.Duration `mapstructure:"ttl"`  // 0 keeps entries for the process lifetime
}

// HistoryConfig holds chat history persistence configuration
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP  int     `mapstructure:"per_ip"` // requests per minute
	Places float64 `mapstructure:"places"` // requests per second to the provider
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cyberlegal/")

	// CYBERLEGAL_PLACES_API_KEY -> places.api_key
	v.SetEnvPrefix("CYBERLEGAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// loadEnvFile loads a local .env file into the process environment.
// Variables that are already set are left untouched.
func loadEnvFile() error {
	err := godotenv.Load(".env")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Places defaults
	v.SetDefault("places.api_key", "")
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api")
	v.SetDefault("places.timeout", "10s")
	v.SetDefault("places.max_retries", 3)

	// Assistant defaults
	v.SetDefault("assistant.base_url", "http://localhost:8000")
	v.SetDefault("assistant.timeout", "60s")
	v.SetDefault("assistant.top_k", 5)

	// Locator defaults
	v.SetDefault("locator.initial_radius", 10000)
	v.SetDefault("locator.fallback_radius", 30000)
	v.SetDefault("locator.geocode_timeout", "10s")
	v.SetDefault("locator.region", "India")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "0s")

	// History defaults
	v.SetDefault("history.path", "data/chat_history.json")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.places", 10)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Places.APIKey == "" {
		return fmt.Errorf("places API key is required (set CYBERLEGAL_PLACES_API_KEY)")
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	if config.Locator.InitialRadius <= 0 {
		return fmt.Errorf("locator initial radius must be positive, got: %d", config.Locator.InitialRadius)
	}

	if config.Locator.FallbackRadius <= config.Locator.InitialRadius {
		return fmt.Errorf("locator fallback radius (%d) must be larger than initial radius (%d)",
			config.Locator.FallbackRadius, config.Locator.InitialRadius)
	}

	if config.Assistant.TopK <= 0 {
		return fmt.Errorf("assistant top_k must be positive, got: %d", config.Assistant.TopK)
	}

	if config.History.Path == "" {
		return fmt.Errorf("history path is required")
	}

	return nil
}

package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("CYBERLEGAL_SERVER_PORT")
		os.Unsetenv("CYBERLEGAL_SERVER_ENVIRONMENT")
		os.Unsetenv("CYBERLEGAL_PLACES_API_KEY")
		os.Unsetenv("CYBERLEGAL_PLACES_BASE_URL")
		os.Unsetenv("CYBERLEGAL_ASSISTANT_BASE_URL")
		os.Unsetenv("CYBERLEGAL_ASSISTANT_TOP_K")
		os.Unsetenv("CYBERLEGAL_LOCATOR_INITIAL_RADIUS")
		os.Unsetenv("CYBERLEGAL_LOCATOR_FALLBACK_RADIUS")
		os.Unsetenv("CYBERLEGAL_CACHE_TYPE")
		os.Unsetenv("CYBERLEGAL_CACHE_TTL")
		os.Unsetenv("CYBERLEGAL_HISTORY_PATH")
		os.Unsetenv("CYBERLEGAL_RATELIMIT_PER_IP")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		// Set required API key
		os.Setenv("CYBERLEGAL_PLACES_API_KEY", "test-key")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Places.BaseURL != "https://maps.googleapis.com/maps/api" {
			t.Errorf("Places.BaseURL = %s, want https://maps.googleapis.com/maps/api", cfg.Places.BaseURL)
		}
		if cfg.Places.Timeout != 10*time.Second {
			t.Errorf("Places.Timeout = %v, want 10s", cfg.Places.Timeout)
		}
		if cfg.Assistant.TopK != 5 {
			t.Errorf("Assistant.TopK = %d, want 5", cfg.Assistant.TopK)
		}
		if cfg.Locator.InitialRadius != 10000 {
			t.Errorf("Locator.InitialRadius = %d, want 10000", cfg.Locator.InitialRadius)
		}
		if cfg.Locator.FallbackRadius != 30000 {
			t.Errorf("Locator.FallbackRadius = %d, want 30000", cfg.Locator.FallbackRadius)
		}
		if cfg.Locator.Region != "India" {
			t.Errorf("Locator.Region = %s, want India", cfg.Locator.Region)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 0 {
			t.Errorf("Cache.TTL = %v, want 0", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 60 {
			t.Errorf("RateLimit.PerIP = %d, want 60", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CYBERLEGAL_SERVER_PORT", "9090")
		os.Setenv("CYBERLEGAL_SERVER_ENVIRONMENT", "production")
		os.Setenv("CYBERLEGAL_PLACES_API_KEY", "custom-api-key")
		os.Setenv("CYBERLEGAL_PLACES_BASE_URL", "https://custom.maps.com")
		os.Setenv("CYBERLEGAL_ASSISTANT_BASE_URL", "https://rag.example.com")
		os.Setenv("CYBERLEGAL_ASSISTANT_TOP_K", "8")
		os.Setenv("CYBERLEGAL_LOCATOR_INITIAL_RADIUS", "5000")
		os.Setenv("CYBERLEGAL_LOCATOR_FALLBACK_RADIUS", "20000")
		os.Setenv("CYBERLEGAL_CACHE_TTL", "24h")
		os.Setenv("CYBERLEGAL_HISTORY_PATH", "/tmp/history.json")
		os.Setenv("CYBERLEGAL_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Places.APIKey != "custom-api-key" {
			t.Errorf("Places.APIKey = %s, want custom-api-key", cfg.Places.APIKey)
		}
		if cfg.Places.BaseURL != "https://custom.maps.com" {
			t.Errorf("Places.BaseURL = %s, want https://custom.maps.com", cfg.Places.BaseURL)
		}
		if cfg.Assistant.BaseURL != "https://rag.example.com" {
			t.Errorf("Assistant.BaseURL = %s, want https://rag.example.com", cfg.Assistant.BaseURL)
		}
		if cfg.Assistant.TopK != 8 {
			t.Errorf("Assistant.TopK = %d, want 8", cfg.Assistant.TopK)
		}
		if cfg.Locator.InitialRadius != 5000 {
			t.Errorf("Locator.InitialRadius = %d, want 5000", cfg.Locator.InitialRadius)
		}
		if cfg.Locator.FallbackRadius != 20000 {
			t.Errorf("Locator.FallbackRadius = %d, want 20000", cfg.Locator.FallbackRadius)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.History.Path != "/tmp/history.json" {
			t.Errorf("History.Path = %s, want /tmp/history.json", cfg.History.Path)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("fails validation when API key is missing", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing API key")
		}
		if err != nil && err.Error() != "invalid configuration: places API key is required (set CYBERLEGAL_PLACES_API_KEY)" {
			t.Errorf("Load() error = %v, want 'places API key is required'", err)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CYBERLEGAL_PLACES_API_KEY", "test-key")
		os.Setenv("CYBERLEGAL_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for unsupported cache type")
		}
	})

	t.Run("fails validation when fallback radius is not larger", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("CYBERLEGAL_PLACES_API_KEY", "test-key")
		os.Setenv("CYBERLEGAL_LOCATOR_FALLBACK_RADIUS", "10000")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for fallback radius equal to initial radius")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		err := loadEnvFile()
		if err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file
		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2

# Another comment
TEST_VAR_3=value3
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		// Clear any existing values
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_VAR_3") != "value3" {
			t.Errorf("TEST_VAR_3 = %s, want value3", os.Getenv("TEST_VAR_3"))
		}

		// Cleanup
		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_VAR_3")
	})

	t.Run("skips empty lines and comments", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Create .env file with various formats
		envContent := `
# This is a comment
   # This is also a comment

TEST_SKIP_1=value1

TEST_SKIP_2=value2
# TEST_COMMENTED=should_not_load
`
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_SKIP_1")
		os.Unsetenv("TEST_SKIP_2")
		os.Unsetenv("TEST_COMMENTED")

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_SKIP_1") != "value1" {
			t.Errorf("TEST_SKIP_1 not loaded correctly")
		}
		if os.Getenv("TEST_SKIP_2") != "value2" {
			t.Errorf("TEST_SKIP_2 not loaded correctly")
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}

		os.Unsetenv("TEST_SKIP_1")
		os.Unsetenv("TEST_SKIP_2")
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		// Save current directory
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		// Create temp directory
		tempDir := t.TempDir()
		os.Chdir(tempDir)

		// Set existing env var
		os.Setenv("TEST_OVERRIDE", "existing-value")

		// Create .env file that tries to override
		envContent := "TEST_OVERRIDE=new-value"
		err := os.WriteFile(".env", []byte(envContent), 0644)
		if err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		err = loadEnvFile()
		if err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		// Should still have original value
		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}

		os.Unsetenv("TEST_OVERRIDE")
	})
}

func validConfig() *Config {
	return &Config{
		Places: PlacesConfig{
			APIKey:  "test-key",
			BaseURL: "https://maps.googleapis.com/maps/api",
		},
		Assistant: AssistantConfig{TopK: 5},
		Locator: LocatorConfig{
			InitialRadius:  10000,
			FallbackRadius: 30000,
		},
		Cache:   CacheConfig{Type: "memory"},
		History: HistoryConfig{Path: "data/chat_history.json"},
	}
}

func TestValidate(t *testing.T) {
	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(validConfig()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when API key is empty", func(t *testing.T) {
		cfg := validConfig()
		cfg.Places.APIKey = ""

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty API key")
		}
	})

	t.Run("fails for invalid cache type", func(t *testing.T) {
		cfg := validConfig()
		cfg.Cache.Type = "invalid-type"

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails for non-positive initial radius", func(t *testing.T) {
		cfg := validConfig()
		cfg.Locator.InitialRadius = 0

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero radius")
		}
	})

	t.Run("fails when fallback radius is smaller than initial", func(t *testing.T) {
		cfg := validConfig()
		cfg.Locator.FallbackRadius = 5000

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for shrinking fallback radius")
		}
	})

	t.Run("fails for non-positive top_k", func(t *testing.T) {
		cfg := validConfig()
		cfg.Assistant.TopK = 0

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero top_k")
		}
	})

	t.Run("fails without history path", func(t *testing.T) {
		cfg := validConfig()
		cfg.History.Path = ""

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty history path")
		}
	})
}

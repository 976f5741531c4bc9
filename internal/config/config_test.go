package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:        "gemini",
			Model:           "gemini-2.0-flash",
			Timeout:         60 * time.Second,
			APIKey:          "test-api-key",
			MaxOutputTokens: 1000,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxUploadSize:    10 * 1024 * 1024,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "missing api key",
			mutate:      func(c *Config) { c.AI.APIKey = "" },
			expectError: "AI API key is required",
		},
		{
			name: "missing api key allowed when vault can supply it",
			mutate: func(c *Config) {
				c.AI.APIKey = ""
				c.Vault.Enabled = true
				c.Vault.Secrets.GeminiKey = "secret/data/skillparse/gemini"
			},
		},
		{
			name: "vault enabled without gemini path still requires key",
			mutate: func(c *Config) {
				c.AI.APIKey = ""
				c.Vault.Enabled = true
			},
			expectError: "AI API key is required",
		},
		{
			name:        "non-positive timeout",
			mutate:      func(c *Config) { c.AI.Timeout = 0 },
			expectError: "AI timeout must be positive",
		},
		{
			name:        "non-positive max output tokens",
			mutate:      func(c *Config) { c.AI.MaxOutputTokens = 0 },
			expectError: "max output tokens must be positive",
		},
		{
			name:        "missing server port",
			mutate:      func(c *Config) { c.Server.Port = "" },
			expectError: "server port is required",
		},
		{
			name:        "non-positive upload size",
			mutate:      func(c *Config) { c.App.MaxUploadSize = 0 },
			expectError: "max upload size must be positive",
		},
		{
			name:        "unsupported default format",
			mutate:      func(c *Config) { c.App.DefaultFormat = "yaml" },
			expectError: "invalid default format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validTestConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.expectError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStorageConfigDSN(t *testing.T) {
	storage := StorageConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "skillparse",
		Password: "hunter2",
		Database: "candidates",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=skillparse password=hunter2 dbname=candidates sslmode=require",
		storage.DSN())
}

func TestApplyFallbacks(t *testing.T) {
	t.Run("legacy gemini key env", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "legacy-key")

		config := &Config{}
		config.applyFallbacks()

		assert.Equal(t, "legacy-key", config.AI.APIKey)
	})

	t.Run("configured key wins over legacy env", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "legacy-key")

		config := &Config{AI: AIConfig{APIKey: "configured-key"}}
		config.applyFallbacks()

		assert.Equal(t, "configured-key", config.AI.APIKey)
	})

	t.Run("api keys parsed from env", func(t *testing.T) {
		t.Setenv("SKILLPARSE_SERVER_APIKEYS", "key-one, key-two ,key-three")

		config := &Config{}
		config.applyFallbacks()

		assert.Equal(t, []string{"key-one", "key-two", "key-three"}, config.Server.APIKeys)
	})

	t.Run("service instance derived from hostname", func(t *testing.T) {
		config := &Config{
			Observability: ObservabilityConfig{ServiceName: "skillparse"},
		}
		config.applyFallbacks()

		assert.NotEmpty(t, config.Observability.ServiceInstance)
		assert.Contains(t, config.Observability.ServiceInstance, "skillparse-")
	})

	t.Run("debug log level enables console output", func(t *testing.T) {
		config := &Config{App: AppConfig{LogLevel: "debug"}}
		config.applyFallbacks()

		assert.True(t, config.Observability.ConsoleOutput)
	})
}

func TestRateLimitSnapshot(t *testing.T) {
	t.Run("falls back to startup values before first publish", func(t *testing.T) {
		config := validTestConfig()
		config.Server.RateLimit = RateLimitConfig{Enabled: true, RequestsPerMin: 60}

		rl := config.RateLimitSnapshot()
		assert.True(t, rl.Enabled)
		assert.Equal(t, 60, rl.RequestsPerMin)
	})

	t.Run("publish swaps the snapshot without touching the struct", func(t *testing.T) {
		config := validTestConfig()
		config.Server.RateLimit = RateLimitConfig{Enabled: false, RequestsPerMin: 60}
		config.applyReloadable(config)

		updated := validTestConfig()
		updated.Server.RateLimit = RateLimitConfig{Enabled: true, RequestsPerMin: 120, ByIP: true}
		config.applyReloadable(updated)

		rl := config.RateLimitSnapshot()
		assert.True(t, rl.Enabled)
		assert.Equal(t, 120, rl.RequestsPerMin)
		assert.True(t, rl.ByIP)

		// The startup struct stays as loaded; only the snapshot moves.
		assert.False(t, config.Server.RateLimit.Enabled)
		assert.Equal(t, 60, config.Server.RateLimit.RequestsPerMin)
	})

	t.Run("snapshot is stable across publishes", func(t *testing.T) {
		config := validTestConfig()
		config.Server.RateLimit = RateLimitConfig{RequestsPerMin: 60}
		config.applyReloadable(config)

		held := config.RateLimitSnapshot()

		updated := validTestConfig()
		updated.Server.RateLimit = RateLimitConfig{RequestsPerMin: 120}
		config.applyReloadable(updated)

		// A reader that took a snapshot before the publish keeps a coherent view.
		assert.Equal(t, 60, held.RequestsPerMin)
		assert.Equal(t, 120, config.RateLimitSnapshot().RequestsPerMin)
	})
}

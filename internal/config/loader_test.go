package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoading(t *testing.T) {
	// Test loading from file
	t.Run("load from file", func(t *testing.T) {
		configContent := `
environment: test
port: 9999
log_level: debug

definitions:
  paths:
    - "./testdata/alarms.json"
    - "./testdata/extra.yaml"
  watch: false

cache:
  nodes:
    - "test-valkey:6379"
  ttl: 30
`
		tmpFile, err := os.CreateTemp("", "test-config-*.yaml")
		require.NoError(t, err)
		defer os.Remove(tmpFile.Name())

		_, err = tmpFile.WriteString(configContent)
		require.NoError(t, err)
		tmpFile.Close()

		os.Setenv("KLAXON_CONFIG_PATH", tmpFile.Name())
		defer os.Unsetenv("KLAXON_CONFIG_PATH")

		config, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test", config.Environment)
		assert.Equal(t, 9999, config.Port)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, []string{"./testdata/alarms.json", "./testdata/extra.yaml"}, config.Definitions.Paths)
		assert.False(t, config.Definitions.Watch)
		assert.Contains(t, config.Cache.Nodes, "test-valkey:6379")
		assert.Equal(t, 30, config.Cache.TTL)
	})

	// Test defaults
	t.Run("defaults", func(t *testing.T) {
		config, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "development", config.Environment)
		assert.Equal(t, 8080, config.Port)
		assert.True(t, config.Definitions.Watch)
		assert.True(t, config.Cache.Enabled)
		assert.False(t, config.Auth.Enabled)
		assert.Equal(t, 1000, config.RateLimit.RequestsPerMinute)
		assert.Equal(t, 50, config.Search.MaxResults)
	})

	// Test environment variable precedence
	t.Run("env var precedence", func(t *testing.T) {
		os.Setenv("KLAXON_PORT", "7777")
		os.Setenv("KLAXON_LOG_LEVEL", "warn")
		defer func() {
			os.Unsetenv("KLAXON_PORT")
			os.Unsetenv("KLAXON_LOG_LEVEL")
		}()

		config, err := Load()
		require.NoError(t, err)

		// Environment variables should override file/defaults
		assert.Equal(t, 7777, config.Port)
		assert.Equal(t, "warn", config.LogLevel)
	})

	// Test dedicated override variables
	t.Run("definition paths from env", func(t *testing.T) {
		os.Setenv("KLAXON_DEFINITIONS_PATHS", "/etc/klaxon/a.json, /etc/klaxon/b.yaml")
		defer os.Unsetenv("KLAXON_DEFINITIONS_PATHS")

		config, err := Load()
		require.NoError(t, err)

		assert.Equal(t, []string{"/etc/klaxon/a.json", "/etc/klaxon/b.yaml"}, config.Definitions.Paths)
	})

	t.Run("jwt secret enables auth", func(t *testing.T) {
		os.Setenv("JWT_SECRET", "test-secret-123")
		defer os.Unsetenv("JWT_SECRET")

		config, err := Load()
		require.NoError(t, err)

		assert.True(t, config.Auth.Enabled)
		assert.Equal(t, "test-secret-123", config.Auth.JWTSecret)
	})
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	t.Run("rejects missing definition paths", func(t *testing.T) {
		cfg := base()
		cfg.Definitions.Paths = nil
		err := validateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "definitions source path")
	})

	t.Run("rejects out-of-range port", func(t *testing.T) {
		cfg := base()
		cfg.Port = 70000
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("rejects auth without secret", func(t *testing.T) {
		cfg := base()
		cfg.Auth.Enabled = true
		cfg.Auth.JWTSecret = ""
		err := validateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT secret")
	})

	t.Run("allows disabled cache without nodes", func(t *testing.T) {
		cfg := base()
		cfg.Cache.Enabled = false
		cfg.Cache.Nodes = nil
		assert.NoError(t, validateConfig(cfg))
	})
}

func BenchmarkConfigLoad(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Load()
		if err != nil {
			b.Fatal(err)
		}
	}
}

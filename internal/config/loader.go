package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from various sources with priority order:
// 1. Environment variables
// 2. Configuration file (config.yaml)
// 3. Default values
func Load() (*Config, error) {
	// Initialize Viper
	v := viper.New()

	// Set configuration file details
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/klaxon/")
	v.AddConfigPath("./configs/")
	v.AddConfigPath(".")

	// An explicit config file path wins over the search paths
	if path := os.Getenv("KLAXON_CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	}

	// Enable environment variable support
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("KLAXON")

	// Set default values
	setDefaults(v)

	// Read configuration file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars and defaults
	}

	// Override with environment variables
	overrideWithEnvVars(v)

	// Unmarshal to config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets reasonable default values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("environment", "development")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")

	// Definition source defaults
	v.SetDefault("definitions.paths", []string{"./definitions/alarms.json"})
	v.SetDefault("definitions.watch", true)

	// Cache defaults (Valkey)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.nodes", []string{"localhost:6379"})
	v.SetDefault("cache.ttl", 300) // 5 minutes
	v.SetDefault("cache.db", 0)

	// Auth defaults
	v.SetDefault("auth.enabled", false)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization", "X-Tenant-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Cache", "X-Rate-Limit-Remaining"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 3600)

	// Search defaults
	v.SetDefault("search.enabled", true)
	v.SetDefault("search.index_path", "")
	v.SetDefault("search.max_results", 50)

	// Rate limit defaults
	v.SetDefault("rate_limit.requests_per_minute", 1000)

	// WebSocket defaults
	v.SetDefault("websocket.enabled", true)
	v.SetDefault("websocket.max_connections", 1000)
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.ping_interval", 30)

	// Monitoring defaults
	v.SetDefault("monitoring.enabled", true)
	v.SetDefault("monitoring.metrics_path", "/metrics")
	v.SetDefault("monitoring.prometheus_enabled", true)
	v.SetDefault("monitoring.tracing_enabled", false)
	v.SetDefault("monitoring.otlp_endpoint", "localhost:4317")
}

// overrideWithEnvVars explicitly handles environment variable overrides
func overrideWithEnvVars(v *viper.Viper) {
	// Server configuration
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("port", p)
		}
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		v.Set("environment", env)
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		v.Set("log_level", logLevel)
	}

	// Definition source documents
	if paths := os.Getenv("KLAXON_DEFINITIONS_PATHS"); paths != "" {
		parts := strings.Split(paths, ",")
		for i, part := range parts {
			parts[i] = strings.TrimSpace(part)
		}
		v.Set("definitions.paths", parts)
	}

	// Valkey cache nodes
	if cacheNodes := os.Getenv("VALKEY_CACHE_NODES"); cacheNodes != "" {
		nodes := strings.Split(cacheNodes, ",")
		for i, node := range nodes {
			nodes[i] = strings.TrimSpace(node)
		}
		v.Set("cache.nodes", nodes)
	}

	if cacheTTL := os.Getenv("CACHE_TTL"); cacheTTL != "" {
		if ttl, err := strconv.Atoi(cacheTTL); err == nil {
			v.Set("cache.ttl", ttl)
		}
	}

	// JWT configuration
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		v.Set("auth.jwt_secret", jwtSecret)
		v.Set("auth.enabled", true)
	}

	// Tracing
	if otlp := os.Getenv("OTLP_ENDPOINT"); otlp != "" {
		v.Set("monitoring.otlp_endpoint", otlp)
		v.Set("monitoring.tracing_enabled", true)
	}
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	// Validate required fields
	if len(config.Definitions.Paths) == 0 {
		return fmt.Errorf("at least one definitions source path is required")
	}

	if config.Cache.Enabled && len(config.Cache.Nodes) == 0 {
		return fmt.Errorf("at least one Valkey cache node is required when the cache is enabled")
	}

	// Validate port range
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Port)
	}

	// Validate log level
	validLogLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !contains(validLogLevels, config.LogLevel) {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	// Validate environment
	validEnvironments := []string{"development", "staging", "production", "test"}
	if !contains(validEnvironments, config.Environment) {
		return fmt.Errorf("invalid environment: %s", config.Environment)
	}

	// Validate cache TTL
	if config.Cache.Enabled && config.Cache.TTL < 1 {
		return fmt.Errorf("cache TTL must be at least 1 second")
	}

	// Validate JWT configuration if authentication is enabled
	if config.Auth.Enabled && config.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required when auth is enabled")
	}

	// Validate rate limit
	if config.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("rate limit must allow at least 1 request per minute")
	}

	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

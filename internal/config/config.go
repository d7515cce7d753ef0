package config

type Config struct {
	Environment string `mapstructure:"environment" yaml:"environment"`
	Port        int    `mapstructure:"port" yaml:"port"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`

	Definitions DefinitionsConfig `mapstructure:"definitions" yaml:"definitions"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Auth        AuthConfig        `mapstructure:"auth" yaml:"auth"`
	CORS        CORSConfig        `mapstructure:"cors" yaml:"cors"`
	Search      SearchConfig      `mapstructure:"search" yaml:"search"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit" yaml:"rate_limit"`
	WebSocket   WebSocketConfig   `mapstructure:"websocket" yaml:"websocket"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring" yaml:"monitoring"`
}

// DefinitionsConfig locates the alarm definition source documents
type DefinitionsConfig struct {
	// Paths lists the definition documents loaded into the catalog,
	// in catalog order. JSON or YAML, decided by file extension.
	Paths []string `mapstructure:"paths" yaml:"paths"`
	// Watch reloads the catalog when a source document changes on disk.
	Watch bool `mapstructure:"watch" yaml:"watch"`
}

// CacheConfig handles Valkey caching configuration
type CacheConfig struct {
	Enabled  bool     `mapstructure:"enabled" yaml:"enabled"`
	Nodes    []string `mapstructure:"nodes" yaml:"nodes"`
	TTL      int      `mapstructure:"ttl" yaml:"ttl"` // seconds
	Password string   `mapstructure:"password" yaml:"password"`
	DB       int      `mapstructure:"db" yaml:"db"`
}

// AuthConfig handles bearer-token authentication
type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
}

// CORSConfig handles Cross-Origin Resource Sharing
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

// SearchConfig holds the Bleve alarm index configuration
type SearchConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// IndexPath is the on-disk Bleve index location; empty selects an
	// in-memory index rebuilt on every reload.
	IndexPath  string `mapstructure:"index_path" yaml:"index_path"`
	MaxResults int    `mapstructure:"max_results" yaml:"max_results"`
}

// RateLimitConfig bounds per-tenant request rates
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// WebSocketConfig handles the catalog event stream configuration
type WebSocketConfig struct {
	Enabled         bool `mapstructure:"enabled" yaml:"enabled"`
	MaxConnections  int  `mapstructure:"max_connections" yaml:"max_connections"`
	ReadBufferSize  int  `mapstructure:"read_buffer_size" yaml:"read_buffer_size"`
	WriteBufferSize int  `mapstructure:"write_buffer_size" yaml:"write_buffer_size"`
	PingInterval    int  `mapstructure:"ping_interval" yaml:"ping_interval"` // seconds
}

// MonitoringConfig handles self-monitoring configuration
type MonitoringConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	MetricsPath       string `mapstructure:"metrics_path" yaml:"metrics_path"`
	PrometheusEnabled bool   `mapstructure:"prometheus_enabled" yaml:"prometheus_enabled"`
	TracingEnabled    bool   `mapstructure:"tracing_enabled" yaml:"tracing_enabled"`
	OTLPEndpoint      string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
}

package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Anonymizer AnonymizerConfig `yaml:"anonymizer" mapstructure:"anonymizer"`
	Detector   DetectorConfig   `yaml:"detector" mapstructure:"detector"`
	Extract    ExtractConfig    `yaml:"extract" mapstructure:"extract"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig contains HTTP API server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// AnonymizerConfig contains anonymization pipeline configuration
type AnonymizerConfig struct {
	// EntityTypes is the allow-list of entity types to act on.
	// "all" enables the full closed set.
	EntityTypes []string `yaml:"entity_types" mapstructure:"entity_types"`
	// ScoreThreshold discards detections below this confidence.
	ScoreThreshold float64 `yaml:"score_threshold" mapstructure:"score_threshold"`
	// DateShiftDays bounds the random per-batch date offset.
	DateShiftDays int `yaml:"date_shift_days" mapstructure:"date_shift_days"`
}

// DetectorConfig selects and configures the entity detector
type DetectorConfig struct {
	Mode     string        `yaml:"mode" mapstructure:"mode"` // builtin or http
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ExtractConfig contains document extraction connector configuration
type ExtractConfig struct {
	Docling    ConnectorConfig `yaml:"docling" mapstructure:"docling"`
	MinerU     ConnectorConfig `yaml:"mineru" mapstructure:"mineru"`
	AzureDI    ConnectorConfig `yaml:"azure_di" mapstructure:"azure_di"`
	LlamaParse ConnectorConfig `yaml:"llamaparse" mapstructure:"llamaparse"`
	Timeout    time.Duration   `yaml:"timeout" mapstructure:"timeout"`
}

// ConnectorConfig configures one extraction connector. Cloud connectors
// require an API key; local connectors only an endpoint.
type ConnectorConfig struct {
	Endpoint  string  `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey    string  `yaml:"api_key" mapstructure:"api_key"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
}

// CacheConfig contains extraction cache configuration
type CacheConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	RedisURL       string        `yaml:"redis_url" mapstructure:"redis_url"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns   int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DefaultTTL     time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
	KeyPrefix      string        `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string     `yaml:"level" mapstructure:"level"`
	Format string     `yaml:"format" mapstructure:"format"` // json or console
	File   FileConfig `yaml:"file" mapstructure:"file"`
}

// FileConfig contains file logging configuration
type FileConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Path     string `yaml:"path" mapstructure:"path"`
	MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
	MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
	Compress bool   `yaml:"compress" mapstructure:"compress"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Anonymizer: AnonymizerConfig{
			EntityTypes:    []string{"all"},
			ScoreThreshold: 0.5,
			DateShiftDays:  365,
		},
		Detector: DetectorConfig{
			Mode:    "builtin",
			Timeout: 30 * time.Second,
		},
		Extract: ExtractConfig{
			Docling: ConnectorConfig{
				Endpoint: "http://localhost:5001",
			},
			MinerU: ConnectorConfig{
				Endpoint: "http://localhost:8888",
			},
			AzureDI: ConnectorConfig{
				RateLimit: 10,
			},
			LlamaParse: ConnectorConfig{
				Endpoint:  "https://api.cloud.llamaindex.ai",
				RateLimit: 5,
			},
			Timeout: 5 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled:        false,
			RedisURL:       "redis://localhost:6379/0",
			MaxConnections: 10,
			MinIdleConns:   2,
			DefaultTTL:     24 * time.Hour,
			KeyPrefix:      "inkognito:extract:",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File: FileConfig{
				Enabled:  false,
				Path:     "logs/inkognito.log",
				MaxSize:  100, // MB
				MaxAge:   30,  // days
				Compress: true,
			},
		},
	}
}

package config

import "time"

// Strategy selects how detected PII spans are rewritten.
type Strategy string

const (
	StrategyReplace  Strategy = "replace"  // mask characters, format-aware
	StrategyRedact   Strategy = "redact"   // fixed [REDACTED] literal
	StrategyEncrypt  Strategy = "encrypt"  // reversible fernet token
	StrategyTokenize Strategy = "tokenize" // deterministic placeholder
	StrategyFaker    Strategy = "faker"    // synthetic replacement value
)

// Strategies lists every valid strategy value, for validation and CLI help.
var Strategies = []Strategy{StrategyReplace, StrategyRedact, StrategyEncrypt, StrategyTokenize, StrategyFaker}

// Config represents the main configuration structure
type Config struct {
	Masking MaskingConfig `yaml:"masking" mapstructure:"masking"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Events  EventsConfig  `yaml:"events" mapstructure:"events"`
}

// MaskingConfig contains PII detection and masking configuration. It is
// fixed at masker construction; changing options means building a new masker.
type MaskingConfig struct {
	Strategy            Strategy          `yaml:"strategy" mapstructure:"strategy"`
	PreserveFormat      bool              `yaml:"preserve_format" mapstructure:"preserve_format"`
	MaskCharacter       string            `yaml:"mask_character" mapstructure:"mask_character"`
	PartialMask         bool              `yaml:"partial_mask" mapstructure:"partial_mask"`
	EncryptionKey       string            `yaml:"encryption_key,omitempty" mapstructure:"encryption_key"`
	CustomPatterns      map[string]string `yaml:"custom_patterns" mapstructure:"custom_patterns"`
	Locale              string            `yaml:"locale" mapstructure:"locale"`
	ConfidenceThreshold float64           `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
	PreserveDomains     bool              `yaml:"preserve_domains" mapstructure:"preserve_domains"`
	Whitelist           []string          `yaml:"whitelist" mapstructure:"whitelist"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
		Path     string `yaml:"path" mapstructure:"path"`
		MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
		MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
		Compress bool   `yaml:"compress" mapstructure:"compress"`
	} `yaml:"file" mapstructure:"file"`
}

// ServerConfig contains HTTP API server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RateLimit    struct {
		Enabled        bool `yaml:"enabled" mapstructure:"enabled"`
		RequestsPerMin int  `yaml:"requests_per_min" mapstructure:"requests_per_min"`
		Burst          int  `yaml:"burst" mapstructure:"burst"`
	} `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CacheConfig contains the optional Redis result cache configuration used in
// server mode.
type CacheConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	RedisURL       string        `yaml:"redis_url" mapstructure:"redis_url"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns   int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DefaultTTL     time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
	KeyPrefix      string        `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// EventsConfig contains the websocket event feed configuration
type EventsConfig struct {
	Enabled              bool     `yaml:"enabled" mapstructure:"enabled"`
	Path                 string   `yaml:"path" mapstructure:"path"`
	AllowedOrigins       []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	BroadcastDetections  bool     `yaml:"broadcast_detections" mapstructure:"broadcast_detections"`
	BroadcastRequests    bool     `yaml:"broadcast_requests" mapstructure:"broadcast_requests"`
	BroadcastSystem      bool     `yaml:"broadcast_system" mapstructure:"broadcast_system"`
	BroadcastConnections bool     `yaml:"broadcast_connections" mapstructure:"broadcast_connections"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	cfg := &Config{
		Masking: MaskingConfig{
			Strategy:            StrategyReplace,
			PreserveFormat:      true,
			MaskCharacter:       "█",
			PartialMask:         true,
			CustomPatterns:      map[string]string{},
			Locale:              "en_US",
			ConfidenceThreshold: 0.8,
			PreserveDomains:     true,
			Whitelist:           []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			MaxBodyBytes: 10 << 20,
		},
		Cache: CacheConfig{
			Enabled:        false,
			RedisURL:       "redis://localhost:6379/0",
			MaxConnections: 10,
			MinIdleConns:   2,
			DefaultTTL:     time.Hour,
			KeyPrefix:      "maskd",
		},
		Events: EventsConfig{
			Enabled:              true,
			Path:                 "/ws",
			AllowedOrigins:       []string{"*"},
			BroadcastDetections:  true,
			BroadcastRequests:    true,
			BroadcastSystem:      true,
			BroadcastConnections: true,
		},
	}
	cfg.Logging.File.Path = "logs/maskd.log"
	cfg.Logging.File.MaxSize = 100 // MB
	cfg.Logging.File.MaxAge = 30   // days
	cfg.Logging.File.Compress = true
	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.RequestsPerMin = 600
	cfg.Server.RateLimit.Burst = 20
	return cfg
}

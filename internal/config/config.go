package config

import "github.com/zgsm-ai/tool-reply/internal/types"

// LLMConfig holds the generation backend configuration
type LLMConfig struct {
	Endpoint   string
	Model      string
	TimeoutSec int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig selects and sizes the response cache backend
type CacheConfig struct {
	// Backend is "memory" or "redis"
	Backend string
	// Memory backend sizing
	NumCounters int64
	MaxCostMB   int64
	// Key prefix for the redis backend
	KeyPrefix string
}

// ResponseDefaults holds the default response configuration applied when a
// request carries no explicit config
type ResponseDefaults struct {
	EnableLLMFormatting bool
	MaxResponseLength   int
	IncludeEmojis       bool
	IncludeNextSteps    bool
	IncludeMetrics      bool
	ResponseStyle       string
	EnableCaching       bool
	CacheTTLSeconds     int
}

// ToResponseConfig converts the defaults into a types.ResponseConfig
func (d ResponseDefaults) ToResponseConfig() types.ResponseConfig {
	style := types.ResponseStyle(d.ResponseStyle)
	if style == "" {
		style = types.StyleConversational
	}
	return types.ResponseConfig{
		EnableLLMFormatting: d.EnableLLMFormatting,
		MaxResponseLength:   d.MaxResponseLength,
		IncludeEmojis:       d.IncludeEmojis,
		IncludeNextSteps:    d.IncludeNextSteps,
		IncludeMetrics:      d.IncludeMetrics,
		ResponseStyle:       style,
		EnableCaching:       d.EnableCaching,
		CacheTTLSeconds:     d.CacheTTLSeconds,
	}
}

// MonitorConfig holds performance monitoring configuration
type MonitorConfig struct {
	Enabled bool
	// StageThresholds maps stage name to threshold in milliseconds.
	// Stages absent here use the built-in defaults.
	StageThresholds map[string]int64
	// AlertHistoryLimit bounds retained alerts, most recent first
	AlertHistoryLimit int
	// AlertTTLSec is the lifetime of a raised alert
	AlertTTLSec int
}

// LogConfig holds request log recording configuration
type LogConfig struct {
	LogFilePath        string
	LokiEndpoint       string
	LogScanIntervalSec int
}

// NacosConfig holds the configuration-center connection settings
type NacosConfig struct {
	Enabled    bool
	ServerAddr string
	ServerPort int
	GrpcPort   int
	Namespace  string
	Group      string
	TimeoutSec int
	LogDir     string
	CacheDir   string
	// DataId watched for monitor threshold updates
	MonitorDataId string
}

// Config holds all service configuration
type Config struct {
	// Server configuration
	Host string
	Port int

	// Generation backend
	LLM LLMConfig

	// Response cache
	Cache CacheConfig
	Redis RedisConfig

	// Formatting defaults
	Response ResponseDefaults

	// Performance monitoring
	Monitor MonitorConfig

	// Request logging
	Log LogConfig

	// Configuration center (optional)
	Nacos NacosConfig
}

// Package config provides configuration management for the hedge-bets service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App            AppConfig            `mapstructure:"app" validate:"required"`
	Database       DatabaseConfig       `mapstructure:"database" validate:"required"`
	Secrets        SecretsConfig        `mapstructure:"secrets"`
	Predictor      PredictorConfig      `mapstructure:"predictor" validate:"required"`
	Evaluator      EvaluatorConfig      `mapstructure:"evaluator" validate:"required"`
	Recommendation RecommendationConfig `mapstructure:"recommendation" validate:"required"`
	History        HistoryConfig        `mapstructure:"history" validate:"required"`
	Server         ServerConfig         `mapstructure:"server" validate:"required"`
	Health         HealthConfig         `mapstructure:"health" validate:"required"`
	Metrics        MetricsConfig        `mapstructure:"metrics" validate:"required"`
	Scheduler      SchedulerConfig      `mapstructure:"scheduler" validate:"required"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// SecretsConfig points at the AWS Secrets Manager secret overlaid on startup
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// PredictorConfig selects and tunes the quantile model
type PredictorConfig struct {
	Kind              string             `mapstructure:"kind" validate:"required,predictor"`
	TimeoutMs         int                `mapstructure:"timeout_ms" validate:"required,gt=0"`
	MinGamesWarning   int                `mapstructure:"min_games_warning" validate:"required,gt=0"`
	HalfLife          float64            `mapstructure:"half_life" validate:"required,gt=0"`
	PriorSeasonWeight float64            `mapstructure:"prior_season_weight" validate:"required,gt=0,lte=1"`
	PriorWeight       float64            `mapstructure:"prior_weight" validate:"required,gt=0"`
	PlayoffMultiplier float64            `mapstructure:"playoff_multiplier" validate:"required,gt=0"`
	TeamMultipliers   map[string]float64 `mapstructure:"team_multipliers"`
	Remote            RemoteConfig       `mapstructure:"remote"`
	Cache             CacheConfig        `mapstructure:"cache"`
}

// RemoteConfig represents the external quantile model service
type RemoteConfig struct {
	URL                    string  `mapstructure:"url" validate:"omitempty,url"`
	APIKey                 string  `mapstructure:"api_key"`
	TimeoutSeconds         int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	RetryAttempts          int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimit              float64 `mapstructure:"rate_limit" validate:"gte=0"`
	Burst                  int     `mapstructure:"burst" validate:"gte=0"`
	CircuitBreakerMax      int     `mapstructure:"circuit_breaker_max" validate:"gte=0"`
	CircuitCooldownSeconds int     `mapstructure:"circuit_cooldown_seconds" validate:"gte=0"`
}

// CacheConfig represents the in-process quantile cache
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"gte=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"gte=0"`
}

// EvaluatorConfig represents the probability clamp and confidence cut-offs
type EvaluatorConfig struct {
	MinProbability          float64 `mapstructure:"min_probability" validate:"gte=0,lt=0.5"`
	HighConfidenceMaxSpread float64 `mapstructure:"high_confidence_max_spread" validate:"required,gt=0"`
	LowConfidenceMinSpread  float64 `mapstructure:"low_confidence_min_spread" validate:"required,gt=0"`
}

// RecommendationConfig represents the recommendation band thresholds
type RecommendationConfig struct {
	StrongProbability float64 `mapstructure:"strong_probability" validate:"required,gt=0,lt=1"`
	WeakProbability   float64 `mapstructure:"weak_probability" validate:"required,gt=0,lt=1"`
	EVEpsilon         float64 `mapstructure:"ev_epsilon" validate:"gte=0"`
}

// HistoryConfig selects where game history is read from
type HistoryConfig struct {
	Source   string `mapstructure:"source" validate:"required,oneof=postgres file"`
	FilePath string `mapstructure:"file_path"`
	Games    int    `mapstructure:"games" validate:"required,gt=0"`
}

// ServerConfig represents the HTTP API
type ServerConfig struct {
	Address             string   `mapstructure:"address" validate:"required"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	RateLimit           float64  `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst           int      `mapstructure:"rate_burst" validate:"gte=0"`
	AllowedOrigins      []string `mapstructure:"allowed_origins"`
}

// HealthConfig represents the health check listeners
type HealthConfig struct {
	Address     string `mapstructure:"address" validate:"required"`
	GRPCAddress string `mapstructure:"grpc_address"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents the prediction context refresh job
type SchedulerConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ContextRefresh string `mapstructure:"context_refresh" validate:"required"`
	FallbackSeason int    `mapstructure:"fallback_season" validate:"required,gte=1920"`
	FallbackWeek   int    `mapstructure:"fallback_week" validate:"required,min=1,max=22"`
}

// TracingConfig represents AWS X-Ray tracing
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	DaemonAddr   string  `mapstructure:"daemon_addr"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// PredictorTimeout returns the inference budget as a duration
func (c *Config) PredictorTimeout() time.Duration {
	return time.Duration(c.Predictor.TimeoutMs) * time.Millisecond
}

// CacheTTL returns the quantile cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Predictor.Cache.TTLSeconds) * time.Second
}

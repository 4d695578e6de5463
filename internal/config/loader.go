package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "HEDGE_BETS"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// ReloadFromEnv replaces cfg with the file named by HEDGE_BETS_CONFIG_PATH, if set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "hedge-bets")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "hedge_bets")
	v.SetDefault("database.user", "hedge_bets")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("predictor.kind", "weighted")
	v.SetDefault("predictor.timeout_ms", 2000)
	v.SetDefault("predictor.min_games_warning", 3)
	v.SetDefault("predictor.half_life", 4.0)
	v.SetDefault("predictor.prior_season_weight", 0.75)
	v.SetDefault("predictor.prior_weight", 2.0)
	v.SetDefault("predictor.playoff_multiplier", 0.97)
	v.SetDefault("predictor.remote.timeout_seconds", 5)
	v.SetDefault("predictor.remote.retry_attempts", 2)
	v.SetDefault("predictor.remote.rate_limit", 10.0)
	v.SetDefault("predictor.remote.burst", 5)
	v.SetDefault("predictor.remote.circuit_breaker_max", 5)
	v.SetDefault("predictor.remote.circuit_cooldown_seconds", 30)
	v.SetDefault("predictor.cache.enabled", true)
	v.SetDefault("predictor.cache.ttl_seconds", 300)
	v.SetDefault("predictor.cache.max_size", 10000)

	v.SetDefault("evaluator.min_probability", 0.01)
	v.SetDefault("evaluator.high_confidence_max_spread", 0.30)
	v.SetDefault("evaluator.low_confidence_min_spread", 0.60)

	v.SetDefault("recommendation.strong_probability", 0.60)
	v.SetDefault("recommendation.weak_probability", 0.40)
	v.SetDefault("recommendation.ev_epsilon", 0.02)

	v.SetDefault("history.source", "file")
	v.SetDefault("history.file_path", "data/history.json")
	v.SetDefault("history.games", 8)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout_seconds", 10)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)

	v.SetDefault("health.address", ":8081")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.context_refresh", "0 */6 * * *")
	v.SetDefault("scheduler.fallback_season", 2025)
	v.SetDefault("scheduler.fallback_week", 8)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.daemon_addr", "127.0.0.1:2000")
	v.SetDefault("tracing.sampling_rate", 0.05)
}

// Package config loads and hot-reloads this library's tunables: the
// dispatcher's algorithm-selection thresholds, cache/log/tracing/metrics
// settings. None of it affects algorithmic correctness — only the heuristic
// constants and the observability side channels.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wyfcoding/scc/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// DispatchConfig tunes the dispatcher's algorithm-selection heuristic.
// The defaults are (1000, 0.1); the density cutoff is a tuning knob, not
// load-bearing for correctness.
type DispatchConfig struct {
	VertexThreshold int     `mapstructure:"vertex_threshold" toml:"vertex_threshold" validate:"min=1"`
	DensityCutoff   float64 `mapstructure:"density_cutoff"   toml:"density_cutoff"   validate:"gt=0,lt=1"`
	// BreakerEnabled wraps engine invocation in a circuit breaker (package
	// breaker), which trips once the ratio of failed invocations (any error)
	// crosses its threshold.
	BreakerEnabled bool `mapstructure:"breaker_enabled" toml:"breaker_enabled"`
}

// CacheConfig tunes the ephemeral result-acceleration cache (package cache).
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"     toml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl"         toml:"ttl"`
	MaxSizeMB int           `mapstructure:"max_size_mb" toml:"max_size_mb" validate:"min=1"`
	RedisAddr string        `mapstructure:"redis_addr"  toml:"redis_addr"`
}

// LogConfig configures package logging.
type LogConfig struct {
	Level      string `mapstructure:"level"       toml:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"        toml:"file"`
	MaxSize    int    `mapstructure:"max_size"    toml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"     toml:"max_age"`
	Compress   bool   `mapstructure:"compress"    toml:"compress"`
}

// TracingConfig configures package tracing.
type TracingConfig struct {
	Enabled      bool   `mapstructure:"enabled"       toml:"enabled"`
	ServiceName  string `mapstructure:"service_name"  toml:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint" toml:"otlp_endpoint"`
}

// MetricsConfig configures package metrics.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"   toml:"enabled"`
	Namespace string `mapstructure:"namespace" toml:"namespace"`
}

// Config is the top-level configuration for a host process embedding this
// library (e.g. cmd/sccbench).
type Config struct {
	Dispatch DispatchConfig `mapstructure:"dispatch" toml:"dispatch"`
	Cache    CacheConfig    `mapstructure:"cache"    toml:"cache"`
	Log      LogConfig      `mapstructure:"log"      toml:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"  toml:"tracing"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  toml:"metrics"`
}

// Default returns the built-in defaults: vertex threshold 1000, density
// cutoff 0.1, info logging, cache on, tracing off.
func Default() *Config {
	return &Config{
		Dispatch: DispatchConfig{
			VertexThreshold: 1000,
			DensityCutoff:   0.1,
			BreakerEnabled:  true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			TTL:       5 * time.Minute,
			MaxSizeMB: 64,
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Namespace: "scc",
		},
	}
}

var (
	vInstance = viper.New()
	onReload  []func(*Config)
)

// RegisterReloadHook registers a callback invoked after a successful
// hot-reload of a Config loaded through Load.
func RegisterReloadHook(hook func(*Config)) {
	if hook == nil {
		return
	}
	onReload = append(onReload, hook)
}

// Load reads a TOML file at path into a Config seeded with Default(),
// validates it, and watches it for further changes.
func Load(path string) (*Config, error) {
	cfg := Default()

	vInstance.SetConfigFile(path)
	vInstance.SetConfigType("toml")
	vInstance.SetEnvPrefix("SCC")
	vInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vInstance.AutomaticEnv()

	if err := vInstance.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := vInstance.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	vInstance.WatchConfig()
	vInstance.OnConfigChange(func(event fsnotify.Event) {
		const debounce = 300 * time.Millisecond
		time.Sleep(debounce)

		reloaded := Default()
		if err := vInstance.Unmarshal(reloaded); err != nil {
			logging.Error(context.Background(), "config hot-reload unmarshal failed", "error", err)
			return
		}
		if err := validate.Struct(reloaded); err != nil {
			logging.Error(context.Background(), "config hot-reload validation failed", "error", err)
			return
		}

		logging.SetLevel(reloaded.Log.Level)
		*cfg = *reloaded

		for _, hook := range onReload {
			hook(cfg)
		}
	})

	return cfg, nil
}

// Bool coerces v (as read from an untyped viper key) to bool via
// github.com/spf13/cast, so loosely typed environment-variable values
// ("1", "yes", "true") all resolve.
func Bool(v any) bool {
	return cast.ToBool(v)
}

// GetViper returns the underlying Viper instance.
func GetViper() *viper.Viper {
	return vInstance
}

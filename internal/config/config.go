// Package config loads process-wide configuration the way the teacher's
// internal/config loads ServiceConfig: environment variables with sane
// defaults, here via github.com/spf13/viper instead of a hand-rolled env
// reader, plus an optional TOML overlay via github.com/BurntSushi/toml
// for local development.
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "SUBX"

// LogConfig controls the zerolog setup (cmd/root.go configureLogging).
type LogConfig struct {
	Level              string `mapstructure:"level" toml:"level"`
	PrettyPrintConsole bool   `mapstructure:"pretty_print_console" toml:"pretty_print_console"`
}

// EraConfig carries a default mortal-era period (SPEC_FULL §4.8). It is
// loaded but not read by any command: cmd/submit takes its era period
// from the request, where 0 means immortal.
type EraConfig struct {
	DefaultPeriod uint64 `mapstructure:"default_period" toml:"default_period"`
}

// ChainHeadConfig carries an advisory unpin batch size. It is loaded but
// not read by chainhead.Session, which never limits Unpin calls.
type ChainHeadConfig struct {
	UnpinBatchSize int `mapstructure:"unpin_batch_size" toml:"unpin_batch_size"`
}

// MetricsConfig names a prometheus namespace. It is loaded but not read by
// any command; chainhead.NewMetrics takes its namespace as an argument.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" toml:"namespace"`
}

// Config is the root configuration object, mirroring the teacher's
// ServiceConfig shape.
type Config struct {
	Log       LogConfig       `mapstructure:"log" toml:"log"`
	Era       EraConfig       `mapstructure:"era" toml:"era"`
	ChainHead ChainHeadConfig `mapstructure:"chain_head" toml:"chain_head"`
	Metrics   MetricsConfig   `mapstructure:"metrics" toml:"metrics"`
}

func defaults() Config {
	return Config{
		Log:       LogConfig{Level: "info", PrettyPrintConsole: false},
		Era:       EraConfig{DefaultPeriod: 64},
		ChainHead: ChainHeadConfig{UnpinBatchSize: 32},
		Metrics:   MetricsConfig{Namespace: "substrate_client"},
	}
}

// Load reads configuration from SUBX_-prefixed environment variables
// (or built-in defaults), then overlays a TOML file named by
// SUBX_CONFIG_FILE on top when set — the file wins over env/defaults for
// whichever fields it sets, since it is decoded into cfg last.
func Load() (*Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.pretty_print_console", cfg.Log.PrettyPrintConsole)
	v.SetDefault("era.default_period", cfg.Era.DefaultPeriod)
	v.SetDefault("chain_head.unpin_batch_size", cfg.ChainHead.UnpinBatchSize)
	v.SetDefault("metrics.namespace", cfg.Metrics.Namespace)

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if path := os.Getenv(envPrefix + "_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to decode config file %s", path)
		}
	}

	return &cfg, nil
}

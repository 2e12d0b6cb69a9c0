// Package config resolves all engine settings once at startup. Nothing else
// in the engine re-derives defaults mid-computation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved engine configuration
type Config struct {
	// TickInterval is the period of the reconciler's drift/window tick
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// Timezone is the IANA reference timezone for daily-range sync windows
	Timezone string `mapstructure:"timezone"`
	// HookDuration is the simulated latency of one hook execution
	HookDuration time.Duration `mapstructure:"hook_duration"`
	// ApplyDuration is the simulated latency of one manifest apply
	ApplyDuration time.Duration `mapstructure:"apply_duration"`
	// OperationTimeout bounds a whole sync operation; an operation still
	// running past it is force-failed
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
	// HistoryLimit caps the per-application deployment history depth
	HistoryLimit int `mapstructure:"history_limit"`
	// DeployedBy is recorded in history entries for automated syncs
	DeployedBy string `mapstructure:"deployed_by"`
	// SeedFile is the declarative seed-state YAML path; empty starts clean
	SeedFile string `mapstructure:"seed_file"`

	location *time.Location
}

// Load resolves configuration from defaults, an optional config file named by
// ARGOCD_EMU_CONFIG, and ARGOCD_EMU_* environment variables, in ascending
// precedence.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("argocd_emu")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("tick_interval", 10*time.Second)
	v.SetDefault("timezone", "UTC")
	v.SetDefault("hook_duration", 200*time.Millisecond)
	v.SetDefault("apply_duration", 500*time.Millisecond)
	v.SetDefault("operation_timeout", 2*time.Minute)
	v.SetDefault("history_limit", 10)
	v.SetDefault("deployed_by", "argocd-emulator")
	v.SetDefault("seed_file", "")

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden; handy
// for tests that want instantaneous simulated steps.
func Default() *Config {
	return &Config{
		TickInterval:     10 * time.Second,
		Timezone:         "UTC",
		HookDuration:     0,
		ApplyDuration:    0,
		OperationTimeout: 2 * time.Minute,
		HistoryLimit:     10,
		DeployedBy:       "argocd-emulator",
		location:         time.UTC,
	}
}

func (c *Config) validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("operation_timeout must be positive, got %s", c.OperationTimeout)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be at least 1, got %d", c.HistoryLimit)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// Location returns the resolved reference timezone
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Package config loads Knight Swap's run parameters from CLI flags,
// environment variables (KNIGHTSWAP_* prefix), and sane defaults, using
// viper/pflag in the manner common across the retrieved example corpus's
// CLI tools.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds one run's tunable parameters (spec.md §6's CLI flags plus
// SPEC_FULL.md's fallback-ceiling addition).
type Config struct {
	InstancePath string

	Workers                   int
	ThreadsPerWorker          int
	SplitFactor               int
	FallbackCeilingMultiplier float64
	MaxCeilingDoublings       int

	LogLevel  string
	LogFormat string
}

// Defaults matches SPEC_FULL.md §6.1: worker count defaults to
// runtime.NumCPU(), a conservative split-factor, and the fallback
// ceiling feature disabled (multiplier 0 means "never invoke it", per
// the Open Question resolution in SPEC_FULL.md §9).
func Defaults() Config {
	return Config{
		Workers:                   runtime.NumCPU(),
		ThreadsPerWorker:          runtime.NumCPU(),
		SplitFactor:               3,
		FallbackCeilingMultiplier: 0,
		MaxCeilingDoublings:       0,
		LogLevel:                  "info",
		LogFormat:                 "console",
	}
}

// Bind registers the CLI flags on fs and binds them, plus their
// KNIGHTSWAP_* environment equivalents, onto v.
func Bind(fs *pflag.FlagSet, v *viper.Viper) {
	d := Defaults()

	fs.Int("workers", d.Workers, "number of search workers (goroutine ranks)")
	fs.Int("threads-per-worker", d.ThreadsPerWorker, "size of each worker's intra-worker task pool")
	fs.Int("split-factor", d.SplitFactor, "root-split frontier size multiplier across all worker threads")
	fs.Float64("fallback-ceiling-multiplier", d.FallbackCeilingMultiplier, "if >0, multiplies the search ceiling by this factor, up to max-ceiling-doublings times, when no solution is found")
	fs.Int("max-ceiling-doublings", d.MaxCeilingDoublings, "maximum number of ceiling doublings when fallback-ceiling-multiplier is set")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.String("log-format", d.LogFormat, "log format: console or json")

	v.SetEnvPrefix("KNIGHTSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	_ = v.BindPFlags(fs)
}

// Load materializes a Config from a bound viper instance, given the
// single positional instance-path argument.
func Load(v *viper.Viper, instancePath string) (Config, error) {
	cfg := Config{
		InstancePath:              instancePath,
		Workers:                   v.GetInt("workers"),
		ThreadsPerWorker:          v.GetInt("threads-per-worker"),
		SplitFactor:               v.GetInt("split-factor"),
		FallbackCeilingMultiplier: v.GetFloat64("fallback-ceiling-multiplier"),
		MaxCeilingDoublings:       v.GetInt("max-ceiling-doublings"),
		LogLevel:                  v.GetString("log-level"),
		LogFormat:                 v.GetString("log-format"),
	}

	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("config: workers must be >= 1, got %d", cfg.Workers)
	}
	if cfg.ThreadsPerWorker < 1 {
		return Config{}, fmt.Errorf("config: threads-per-worker must be >= 1, got %d", cfg.ThreadsPerWorker)
	}
	if cfg.SplitFactor < 1 {
		return Config{}, fmt.Errorf("config: split-factor must be >= 1, got %d", cfg.SplitFactor)
	}
	if cfg.FallbackCeilingMultiplier < 0 {
		return Config{}, fmt.Errorf("config: fallback-ceiling-multiplier must be >= 0, got %f", cfg.FallbackCeilingMultiplier)
	}

	return cfg, nil
}

// Package config loads the hybrid integrator's runtime configuration
// with viper, mirroring the teacher's smdConfig() singleton in
// config.go: a TOML file whose directory comes from an environment
// variable, read once and cached for the life of the process.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/viper"

	"github.com/rabotin-collab/hybridnbody"
)

// EnvVar is the environment variable naming the directory that holds
// conf.toml, the same convention as the teacher's SMD_CONFIG.
const EnvVar = "HYBRIDNBODY_CONFIG"

// Config holds the hybrid integrator's tunable runtime parameters. Zero
// value is usable; Load only overrides fields actually present in
// conf.toml.
type Config struct {
	// Hillfac scales the Hill-radius criterion in the DcritTable.
	Hillfac float64
	// SafeMode mirrors System.SafeMode's default.
	SafeMode bool
	// OutputPath is the configured directory for CSV output
	// (general.output_path). Apply does not use it, and cmd/nbody takes
	// its output directory from the -out flag.
	OutputPath string
	// AdaptiveTolerance is the configured adaptive tolerance
	// (adaptive.tolerance). Apply does not copy it onto the System's
	// AdaptiveCore.
	AdaptiveTolerance float64
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string
}

var (
	mu     sync.Mutex
	loaded bool
	cached Config
)

// defaults mirrors the Mercurius defaults wired into hybrid.NewSystem,
// kept in one place so config.Load and hybrid.NewSystem never disagree
// silently.
func defaults() Config {
	return Config{
		Hillfac:           3,
		SafeMode:          true,
		OutputPath:        ".",
		AdaptiveTolerance: 1e-9,
		LogLevel:          "info",
	}
}

// Load returns the process-wide configuration, reading conf.toml from
// the directory named by the HYBRIDNBODY_CONFIG environment variable on
// first call and caching the result afterward (smdConfig()'s
// once-loaded discipline). If the environment variable is unset, Load
// returns defaults() without error, unlike the teacher's panic-on-missing
// behavior: a library used both as a CLI and embedded in tests should
// not require an environment variable just to construct a System.
func Load() (Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cached, nil
	}

	cfg := defaults()
	confPath := os.Getenv(EnvVar)
	if confPath == "" {
		cached = cfg
		loaded = true
		return cached, nil
	}

	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%s/conf.toml not found: %w", confPath, err)
	}

	if viper.IsSet("hybrid.hillfac") {
		cfg.Hillfac = viper.GetFloat64("hybrid.hillfac")
	}
	if viper.IsSet("hybrid.safe_mode") {
		cfg.SafeMode = viper.GetBool("hybrid.safe_mode")
	}
	if viper.IsSet("general.output_path") {
		cfg.OutputPath = viper.GetString("general.output_path")
	}
	if viper.IsSet("adaptive.tolerance") {
		cfg.AdaptiveTolerance = viper.GetFloat64("adaptive.tolerance")
	}
	if viper.IsSet("general.log_level") {
		cfg.LogLevel = viper.GetString("general.log_level")
	}

	cached = cfg
	loaded = true
	return cached, nil
}

// Apply copies cfg's System-facing knobs (Hillfac, SafeMode) onto sys.
// cmd/nbody uses it after Load, and anything embedding the hybrid
// integrator as a library can likewise build a Config (by hand or via
// Load) and apply it to a System in one call instead of assigning fields
// directly.
func Apply(sys *hybrid.System, cfg Config) {
	sys.Hillfac = cfg.Hillfac
	sys.SafeMode = cfg.SafeMode
}

// Reset clears the cached configuration; intended for tests that need
// to exercise Load under different environment variable values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	loaded = false
	cached = Config{}
}

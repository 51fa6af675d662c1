// Package config provides configuration loading and access for the
// estimator tools.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/circkde/kde"
	"github.com/pthm-cable/circkde/vonmises"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all tool configuration parameters.
type Config struct {
	Estimator EstimatorConfig `yaml:"estimator"`
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
	Preview   PreviewConfig   `yaml:"preview"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// EstimatorConfig holds density estimation parameters.
type EstimatorConfig struct {
	Kappas            []float64 `yaml:"kappas"`             // One fit per kappa
	GridSize          int       `yaml:"grid_size"`          // Evaluation grid points over [-π, π]
	Workers           int       `yaml:"workers"`            // Kernel goroutines (0 = GOMAXPROCS)
	ParallelThreshold int       `yaml:"parallel_threshold"` // Samples below this run single-threaded
}

// InputConfig describes the sample CSV.
type InputConfig struct {
	Degrees bool `yaml:"degrees"` // Angles are in degrees rather than radians
}

// OutputConfig holds density table output parameters.
type OutputConfig struct {
	Points  int  `yaml:"points"`
	Degrees bool `yaml:"degrees"`
}

// LogConfig holds logging parameters.
type LogConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	PerfWindow int    `yaml:"perf_window"`
}

// PreviewConfig holds preview window parameters.
type PreviewConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	KappaMin  float64 `yaml:"kappa_min"`
	KappaMax  float64 `yaml:"kappa_max"`
	LogSlider bool    `yaml:"log_slider"` // Slider moves in log(kappa)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	LogLevel slog.Level
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a fit.
func (c *Config) Validate() error {
	if len(c.Estimator.Kappas) == 0 {
		return fmt.Errorf("estimator.kappas: at least one kappa required")
	}
	for i, k := range c.Estimator.Kappas {
		if !vonmises.ValidKappa(k) {
			return fmt.Errorf("estimator.kappas[%d]: %w: got %v", i, kde.ErrInvalidKappa, k)
		}
	}
	if c.Estimator.GridSize < 2 {
		return fmt.Errorf("estimator.grid_size: %w: got %d", kde.ErrInvalidGrid, c.Estimator.GridSize)
	}
	if c.Output.Points < 1 {
		return fmt.Errorf("output.points must be positive, got %d", c.Output.Points)
	}
	if c.Preview.KappaMin < 0 || c.Preview.KappaMax <= c.Preview.KappaMin {
		return fmt.Errorf("preview: need 0 <= kappa_min < kappa_max, got %v, %v", c.Preview.KappaMin, c.Preview.KappaMax)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.LogLevel, _ = parseLevel(c.Log.Level)
	if c.Log.PerfWindow < 1 {
		c.Log.PerfWindow = 1
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// KDEOptions returns estimator options for the given kappa.
func (c *Config) KDEOptions(kappa float64, w kde.Weights) kde.Options {
	return kde.Options{
		Weights:           w,
		Kappa:             kappa,
		GridSize:          c.Estimator.GridSize,
		Workers:           c.Estimator.Workers,
		ParallelThreshold: c.Estimator.ParallelThreshold,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Package config loads and validates the experiment configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownWine is returned when a dataset name has no entry in Wines.
	ErrUnknownWine = errors.New("unknown wine dataset")

	// ErrInvalid is returned by Validate.
	ErrInvalid = errors.New("invalid config")
)

// Config holds the whole experiment configuration.
type Config struct {
	// Directory layout
	DataDir    string `yaml:"data_dir"`
	ResultsDir string `yaml:"results_dir"`
	TimeLogDir string `yaml:"time_log_dir"`

	// Repetitions and randomness
	Runs         int     `yaml:"runs"`
	Workers      int     `yaml:"workers"` // concurrent runs; 0 = one per CPU
	Seed         uint64  `yaml:"seed"`
	TestFraction float64 `yaml:"test_fraction"`

	// Dataset name -> files
	Wines map[string]WineConfig `yaml:"wines"`

	Ridge    RidgeConfig    `yaml:"ridge"`
	Attacker AttackerConfig `yaml:"attacker"`
	Nash     NashConfig     `yaml:"nash"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WineConfig locates one dataset and its result directory.
type WineConfig struct {
	File      string `yaml:"file"`       // relative to DataDir
	OutputDir string `yaml:"output_dir"` // relative to ResultsDir
	Separator string `yaml:"separator"`
	Target    string `yaml:"target"`
}

// RidgeConfig configures the non-adversarial baseline.
type RidgeConfig struct {
	Enabled bool    `yaml:"enabled"`
	Epochs  int     `yaml:"epochs"`
	LR      float64 `yaml:"lr"`
	Lambda  float64 `yaml:"lambda"`
}

// AttackerConfig sets the uniform attacker cost c and target z for the
// training and test sides.
type AttackerConfig struct {
	TrainCost   float64 `yaml:"train_cost"`
	TrainTarget float64 `yaml:"train_target"`
	TestCost    float64 `yaml:"test_cost"`
	TestTarget  float64 `yaml:"test_target"`
}

// NashConfig configures the bilevel trainer.
type NashConfig struct {
	Lambda      float64 `yaml:"lambda"`
	OuterLR     float64 `yaml:"outer_lr"`
	InnerLR     float64 `yaml:"inner_lr"`
	OuterEpochs int     `yaml:"outer_epochs"`
	InnerEpochs int     `yaml:"inner_epochs"`
	Truncation  int     `yaml:"truncation"` // 0 = full reverse sweep
	Optimizer   string  `yaml:"optimizer"`  // sgd, adam
	Momentum    float64 `yaml:"momentum"`
	ColdStart   bool    `yaml:"cold_start"`
	// LinearizePostStep evaluates each reverse-sweep step at its output
	// iterate, matching the reference curves instead of the exact derivative.
	LinearizePostStep bool `yaml:"linearize_post_step"`
	LogEvery          int  `yaml:"log_every"`
}

// OutputConfig toggles the optional artifacts.
type OutputConfig struct {
	Plot    bool `yaml:"plot"`    // convergence.png
	Summary bool `yaml:"summary"` // summary.csv
	Models  bool `yaml:"models"`  // model{i}.born and ridge.born checkpoints
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the parameters of the wine convergence experiment.
func DefaultConfig() *Config {
	return &Config{
		DataDir:      "data",
		ResultsDir:   "results",
		TimeLogDir:   ".",
		Runs:         20,
		Workers:      1,
		Seed:         1,
		TestFraction: 0.3,
		Wines: map[string]WineConfig{
			"white": {
				File:      "winequality-white.csv",
				OutputDir: "exp_convergence",
				Separator: ";",
				Target:    "quality",
			},
			"red": {
				File:      "winequality-red.csv",
				OutputDir: "exp_convergence_red",
				Separator: ";",
				Target:    "quality",
			},
		},
		Ridge: RidgeConfig{
			Enabled: true,
			Epochs:  1000,
			LR:      0.01,
			Lambda:  0,
		},
		Attacker: AttackerConfig{
			TrainCost:   0.5,
			TrainTarget: 0,
			TestCost:    0.5,
			TestTarget:  0,
		},
		Nash: NashConfig{
			Lambda:      0,
			OuterLR:     1e-5,
			InnerLR:     0.01,
			OuterEpochs: 500,
			InnerEpochs: 100,
			Optimizer:   "sgd",
			LogEvery:    10,
		},
		Output: OutputConfig{
			Plot:    true,
			Summary: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("NASH_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if dir := os.Getenv("NASH_RESULTS_DIR"); dir != "" {
		c.ResultsDir = dir
	}
	if level := os.Getenv("NASH_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
}

// WineNames returns the configured dataset names in sorted order.
func (c *Config) WineNames() []string {
	names := make([]string, 0, len(c.Wines))
	for name := range c.Wines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Wine returns the dataset entry for name with paths resolved against
// DataDir and ResultsDir.
func (c *Config) Wine(name string) (WineConfig, error) {
	w, ok := c.Wines[name]
	if !ok {
		return WineConfig{}, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownWine, name, c.WineNames())
	}
	w.File = filepath.Join(c.DataDir, w.File)
	w.OutputDir = filepath.Join(c.ResultsDir, w.OutputDir)
	if w.Separator == "" {
		w.Separator = ","
	}
	if w.Target == "" {
		w.Target = "quality"
	}
	return w, nil
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Runs >= 0, "runs must be non-negative, got %d", c.Runs)
	check(c.Workers >= 0, "workers must be non-negative, got %d", c.Workers)
	check(c.TestFraction > 0 && c.TestFraction < 1, "test_fraction must be in (0, 1), got %g", c.TestFraction)
	check(len(c.Wines) > 0, "no wine datasets configured")
	for name, w := range c.Wines {
		check(w.File != "", "wines.%s.file is empty", name)
		check(len([]rune(w.Separator)) <= 1, "wines.%s.separator must be a single character, got %q", name, w.Separator)
	}

	if c.Ridge.Enabled {
		check(c.Ridge.Epochs >= 0, "ridge.epochs must be non-negative, got %d", c.Ridge.Epochs)
		check(c.Ridge.LR > 0, "ridge.lr must be positive, got %g", c.Ridge.LR)
		check(c.Ridge.Lambda >= 0, "ridge.lambda must be non-negative, got %g", c.Ridge.Lambda)
	}

	check(c.Attacker.TrainCost >= 0, "attacker.train_cost must be non-negative, got %g", c.Attacker.TrainCost)
	check(c.Attacker.TestCost >= 0, "attacker.test_cost must be non-negative, got %g", c.Attacker.TestCost)

	check(c.Nash.OuterLR > 0, "nash.outer_lr must be positive, got %g", c.Nash.OuterLR)
	check(c.Nash.InnerLR > 0, "nash.inner_lr must be positive, got %g", c.Nash.InnerLR)
	check(c.Nash.OuterEpochs >= 0, "nash.outer_epochs must be non-negative, got %d", c.Nash.OuterEpochs)
	check(c.Nash.InnerEpochs >= 0, "nash.inner_epochs must be non-negative, got %d", c.Nash.InnerEpochs)
	check(c.Nash.Truncation >= 0, "nash.truncation must be non-negative, got %d", c.Nash.Truncation)
	check(c.Nash.Lambda >= 0, "nash.lambda must be non-negative, got %g", c.Nash.Lambda)

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	check(validLevel, "logging.level %q (valid: %v)", c.Logging.Level, ValidLogLevels)
	check(c.Logging.Format == "json" || c.Logging.Format == "console",
		"logging.format %q (valid: json, console)", c.Logging.Format)

	return errors.Join(errs...)
}

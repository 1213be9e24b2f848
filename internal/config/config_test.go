package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 20, cfg.Runs)
	assert.Equal(t, 1000, cfg.Ridge.Epochs)
	assert.Equal(t, 0.01, cfg.Ridge.LR)
	assert.Equal(t, 0.5, cfg.Attacker.TrainCost)
	assert.Equal(t, 0.0, cfg.Attacker.TrainTarget)
	assert.Equal(t, 1e-5, cfg.Nash.OuterLR)
	assert.Equal(t, 0.01, cfg.Nash.InnerLR)
	assert.Equal(t, 500, cfg.Nash.OuterEpochs)
	assert.Equal(t, 100, cfg.Nash.InnerEpochs)
	assert.Equal(t, []string{"red", "white"}, cfg.WineNames())
}

func TestWine(t *testing.T) {
	cfg := DefaultConfig()

	white, err := cfg.Wine("white")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("data", "winequality-white.csv"), white.File)
	assert.Equal(t, filepath.Join("results", "exp_convergence"), white.OutputDir)
	assert.Equal(t, ";", white.Separator)
	assert.Equal(t, "quality", white.Target)

	red, err := cfg.Wine("red")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("data", "winequality-red.csv"), red.File)
	assert.Equal(t, filepath.Join("results", "exp_convergence_red"), red.OutputDir)

	_, err = cfg.Wine("rose")
	assert.ErrorIs(t, err, ErrUnknownWine)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("NASH_DATA_DIR", "")
	t.Setenv("NASH_RESULTS_DIR", "")
	t.Setenv("NASH_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("NASH_DATA_DIR", "")
	t.Setenv("NASH_RESULTS_DIR", "")
	t.Setenv("NASH_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "nash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs: 3\nnash:\n  outer_epochs: 7\n  optimizer: adam\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Runs)
	assert.Equal(t, 7, cfg.Nash.OuterEpochs)
	assert.Equal(t, "adam", cfg.Nash.Optimizer)
	assert.Equal(t, 100, cfg.Nash.InnerEpochs)
	assert.Equal(t, 1e-5, cfg.Nash.OuterLR)
	assert.Len(t, cfg.Wines, 2)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs: [1, 2"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("NASH_DATA_DIR", "")
	t.Setenv("NASH_RESULTS_DIR", "")
	t.Setenv("NASH_LOG_LEVEL", "")

	cfg := DefaultConfig()
	cfg.Runs = 4
	cfg.Nash.Truncation = 10
	cfg.Output.Plot = false

	path := filepath.Join(t.TempDir(), "nested", "nash.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NASH_DATA_DIR", "/srv/wine")
	t.Setenv("NASH_RESULTS_DIR", "/tmp/out")
	t.Setenv("NASH_LOG_LEVEL", "DEBUG")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "/srv/wine", cfg.DataDir)
	assert.Equal(t, "/tmp/out", cfg.ResultsDir)
	assert.Equal(t, "debug", cfg.Logging.Level)

	white, err := cfg.Wine("white")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/wine", "winequality-white.csv"), white.File)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative runs", func(c *Config) { c.Runs = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"test fraction", func(c *Config) { c.TestFraction = 1 }},
		{"no wines", func(c *Config) { c.Wines = nil }},
		{"empty file", func(c *Config) { c.Wines["white"] = WineConfig{} }},
		{"long separator", func(c *Config) { c.Wines["red"] = WineConfig{File: "x.csv", Separator: ";;"} }},
		{"ridge lr", func(c *Config) { c.Ridge.LR = 0 }},
		{"attacker cost", func(c *Config) { c.Attacker.TestCost = -1 }},
		{"outer lr", func(c *Config) { c.Nash.OuterLR = 0 }},
		{"inner lr", func(c *Config) { c.Nash.InnerLR = -1 }},
		{"inner epochs", func(c *Config) { c.Nash.InnerEpochs = -1 }},
		{"truncation", func(c *Config) { c.Nash.Truncation = -1 }},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestValidate_RidgeDisabledSkipsRidgeChecks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ridge.Enabled = false
	cfg.Ridge.LR = 0
	assert.NoError(t, cfg.Validate())
}

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/nash/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version", "-c", filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "nash "+version+"\n", out)
}

func TestConfigCmd_PrintsDefaults(t *testing.T) {
	t.Setenv("NASH_RESULTS_DIR", "/tmp/nash-results")

	out, err := execute(t, "config", "-c", filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 500, cfg.Nash.OuterEpochs)
	assert.Equal(t, "/tmp/nash-results", cfg.ResultsDir)
}

func TestConfigCmd_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nash.yaml")
	out, err := execute(t, "config", "-c", path, "--write", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)
}

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	var b strings.Builder
	b.WriteString(`"x1";"x2";"quality"` + "\n")
	for i := range 30 {
		x1, x2 := float64(i%7)-3, float64(i%5)-2
		fmt.Fprintf(&b, "%g;%g;%g\n", x1, x2, 5+0.5*x1-0.2*x2)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "winequality-white.csv"), []byte(b.String()), 0o600))

	cfg := config.DefaultConfig()
	cfg.TimeLogDir = dir
	cfg.Ridge.Epochs = 10
	cfg.Nash.OuterEpochs = 3
	cfg.Nash.InnerEpochs = 2
	cfg.Logging.Format = "json"
	cfgPath := filepath.Join(dir, "nash.yaml")
	require.NoError(t, cfg.Save(cfgPath))

	outDir := filepath.Join(dir, "curves")
	out, err := execute(t, "run", "-c", cfgPath, "--wine", "white", "--runs", "2",
		"--data-dir", dataDir, "--out", outDir, "--no-plot", "--save-models")
	require.NoError(t, err)

	assert.Contains(t, out, "2 runs written to "+outDir)
	assert.FileExists(t, filepath.Join(outDir, "convergence0.csv"))
	assert.FileExists(t, filepath.Join(outDir, "convergence1.csv"))
	assert.NoFileExists(t, filepath.Join(outDir, "convergence.png"))

	out, err = execute(t, "inspect", "-c", cfgPath, filepath.Join(outDir, "model1.born"))
	require.NoError(t, err)
	assert.Contains(t, out, "nash")
	assert.Contains(t, out, "wine")
	assert.Contains(t, out, "v2")
	assert.Regexp(t, `epochs\s+3\n`, out)
}

func TestInspectCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "inspect", "-c", filepath.Join(t.TempDir(), "none.yaml"), "missing.born")
	assert.Error(t, err)
}

func TestRunCmd_UnknownWine(t *testing.T) {
	_, err := execute(t, "run", "-c", filepath.Join(t.TempDir(), "none.yaml"), "--wine", "rose")
	assert.ErrorIs(t, err, config.ErrUnknownWine)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger(config.LoggingConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)

	_, err = newLogger(config.LoggingConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

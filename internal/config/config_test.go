package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestfire/internal/sweep"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "sweep.yaml", `
width: 30
height: 20
trials: 50
workers: 5
density_start: 10
density_end: 90
density_step: 5
seed: 7
timeout: 90s
output: out
chart: false
`)
	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sweep.Config{
		Width: 30, Height: 20, Trials: 50, Workers: 5,
		DensityStart: 10, DensityEnd: 90, DensityStep: 5,
		Seed: 7, Timeout: 90 * time.Second,
	}, f.Sweep)
	assert.Equal(t, "out", f.Output)
	assert.False(t, f.Chart)
}

func TestLoadYAMLPartialKeepsDefaults(t *testing.T) {
	f, err := Load(writeConfig(t, "sweep.yml", "trials: 40\n"))
	require.NoError(t, err)
	want := Default()
	want.Sweep.Trials = 40
	assert.Equal(t, want, f)
}

func TestLoadYAMLEmptyFile(t *testing.T) {
	f, err := Load(writeConfig(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "sweep.yaml", "wind: 3\n"))
	assert.Error(t, err)
}

func TestLoadHCL(t *testing.T) {
	path := writeConfig(t, "sweep.hcl", `
width         = 40
height        = 40
trials        = 64
workers       = cpus
density_start = 0
density_end   = 100
density_step  = 2.5
seed          = 99
timeout       = "1m"
output        = "hcl-out"
`)
	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, f.Sweep.Width)
	assert.Equal(t, 64, f.Sweep.Trials)
	assert.Equal(t, runtime.NumCPU(), f.Sweep.Workers)
	assert.Equal(t, 2.5, f.Sweep.DensityStep)
	assert.Equal(t, int64(99), f.Sweep.Seed)
	assert.Equal(t, time.Minute, f.Sweep.Timeout)
	assert.Equal(t, "hcl-out", f.Output)
	assert.True(t, f.Chart, "chart keeps its default when omitted")
}

func TestLoadHCLInvalidSyntax(t *testing.T) {
	_, err := Load(writeConfig(t, "bad.hcl", "width = \n"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "bad.yaml", "density_end: 120\n"))
	assert.ErrorIs(t, err, sweep.ErrInvalidConfig)

	_, err = Load(writeConfig(t, "bad.hcl", "workers = 0\n"))
	assert.ErrorIs(t, err, sweep.ErrInvalidConfig)

	_, err = Load(writeConfig(t, "bad-timeout.yaml", "timeout: soon\n"))
	assert.ErrorIs(t, err, sweep.ErrInvalidConfig)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeConfig(t, "sweep.toml", "trials = 1\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestfire/internal/settings"
	"forestfire/internal/sims/forest"
	"forestfire/internal/ui"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) Config {
	cfg := NewConfig(settings.Default())
	cfg.Width, cfg.Height = 12, 12
	cfg.Density = 100
	cfg.FramesPerSpread = 3
	cfg.ResultsLog = filepath.Join(t.TempDir(), "runs.csv")
	return cfg
}

func TestControllerWaitsForIgnition(t *testing.T) {
	c := NewController(testConfig(t), quietLogger())
	before := c.Sim().Forest().Snapshot()
	for i := 0; i < 30; i++ {
		c.Advance()
	}
	assert.Equal(t, forest.PhaseIgnitable, c.Phase())
	assert.Equal(t, before, c.Sim().Forest().Snapshot())
}

func TestControllerSpreadsOnPacerTicks(t *testing.T) {
	c := NewController(testConfig(t), quietLogger())
	require.True(t, c.Ignite())
	assert.False(t, c.Ignite(), "second ignition must be ignored")

	// The pacer fires on frames 0, 3, 6, ...
	c.Advance()
	assert.Equal(t, 1, c.steps)
	c.Advance()
	c.Advance()
	assert.Equal(t, 1, c.steps)
	c.Advance()
	assert.Equal(t, 2, c.steps)
}

func TestControllerRecordsFinishedRun(t *testing.T) {
	cfg := testConfig(t)
	c := NewController(cfg, quietLogger())
	require.True(t, c.Ignite())
	for i := 0; i < 1000 && c.Phase() != forest.PhaseTerminal; i++ {
		c.Advance()
	}
	require.Equal(t, forest.PhaseTerminal, c.Phase())
	c.Advance()
	c.Advance()

	r := c.Report()
	assert.Equal(t, 100.0, r.Burned)
	assert.Equal(t, cfg.ResultsLog, r.Saved)

	data, err := os.ReadFile(cfg.ResultsLog)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{"density,burned_percentage", "100.00,100.00"}, lines)
}

func TestControllerAdjustDensityBeforeIgnitionOnly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Density = 40
	c := NewController(cfg, quietLogger())

	require.True(t, c.AdjustDensity(DensityStep))
	assert.Equal(t, 41.0, c.Density())
	assert.Equal(t, forest.TargetTrees(12, 12, 41), c.Sim().Forest().Counts().Tree)

	require.True(t, c.Ignite())
	assert.False(t, c.AdjustDensity(DensityStep))
	assert.Equal(t, 41.0, c.Density())
}

func TestControllerRegrowResets(t *testing.T) {
	c := NewController(testConfig(t), quietLogger())
	require.True(t, c.Ignite())
	c.Advance()
	c.Regrow()
	assert.Equal(t, forest.PhaseIgnitable, c.Phase())
	assert.Equal(t, 0, c.steps)
	assert.Equal(t, 0, c.Sim().Forest().Counts().Burning)
}

func TestConfigSettingsNormalized(t *testing.T) {
	cfg := NewConfig(settings.Settings{})
	cfg.Density = 250
	s := cfg.Settings()
	assert.Equal(t, 100.0, s.Density)
	assert.Equal(t, settings.Default().Width, s.Width)
}

func TestControllerReportCarriesSimParameters(t *testing.T) {
	cfg := testConfig(t)
	cfg.Density = 30
	c := NewController(cfg, quietLogger())
	require.True(t, c.AdjustDensity(-DensityStep))

	groups := c.Report().Params.Groups
	require.Len(t, groups, 1)
	var density string
	for _, p := range groups[0].Params {
		if p.Key == "density" {
			density = p.Value
		}
	}
	assert.Equal(t, "29.00", density)
	assert.Equal(t, "Forest: Width 12  Height 12  Tree density % 29.00", ui.ParameterLine(groups[0]))
}

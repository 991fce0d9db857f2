package app

import (
	"log/slog"

	"forestfire/internal/core"
	"forestfire/internal/results"
	"forestfire/internal/sims/forest"
	"forestfire/internal/ui"
)

// DensityStep is the change applied by one density key press.
const DensityStep = 1.0

// Controller drives one forest through grow, ignite and spread, one frame
// at a time. It holds no rendering state.
type Controller struct {
	sim        *forest.Sim
	setter     core.FloatParameterSetter
	params     core.ParameterProvider
	pacer      *core.FramePacer
	seed       int64
	steps      int
	finished   bool
	resultsLog string
	saved      string
	logger     *slog.Logger
}

// NewController grows a forest for cfg.
func NewController(cfg Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	sim := forest.NewSim(forest.Config{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Seed:    cfg.Seed,
		Density: cfg.Density,
	})
	c := &Controller{
		sim:        sim,
		pacer:      core.NewFramePacer(cfg.FramesPerSpread),
		seed:       sim.Config().Seed,
		resultsLog: cfg.ResultsLog,
		logger:     logger,
	}
	var s core.Sim = sim
	c.setter, _ = s.(core.FloatParameterSetter)
	c.params, _ = s.(core.ParameterProvider)
	return c
}

// Sim exposes the driven simulation.
func (c *Controller) Sim() *forest.Sim { return c.sim }

// Phase reports the forest lifecycle stage.
func (c *Controller) Phase() forest.Phase { return c.sim.Forest().Phase() }

// Density reports the density used for the next regrow.
func (c *Controller) Density() float64 { return c.sim.Config().Density }

// Ignite starts the fire. It only acts while the forest awaits ignition.
func (c *Controller) Ignite() bool {
	if c.Phase() != forest.PhaseIgnitable {
		return false
	}
	c.sim.Ignite()
	c.pacer.Reset()
	c.logger.Debug("fire started", "density", c.Density(), "seed", c.seed)
	return true
}

// Regrow grows a fresh forest from the next seed.
func (c *Controller) Regrow() {
	c.seed++
	c.reset()
}

// AdjustDensity changes the density by delta and regrows with the same
// seed. It is ignored once the fire has started.
func (c *Controller) AdjustDensity(delta float64) bool {
	if c.Phase() != forest.PhaseIgnitable || c.setter == nil {
		return false
	}
	if !c.setter.SetFloatParameter("density", c.Density()+delta) {
		return false
	}
	c.reset()
	return true
}

func (c *Controller) reset() {
	c.sim.Reset(c.seed)
	c.pacer.Reset()
	c.steps = 0
	c.finished = false
	c.saved = ""
}

// Advance processes one frame: the fire spreads on pacer ticks, and the
// outcome is logged once when it burns out.
func (c *Controller) Advance() {
	switch c.Phase() {
	case forest.PhaseSpreading:
		if c.pacer.Tick() {
			c.sim.Step()
			c.steps++
		}
	case forest.PhaseTerminal:
		if !c.finished {
			c.finish()
		}
	}
}

func (c *Controller) finish() {
	c.finished = true
	burned := c.sim.BurnedPercentage()
	c.logger.Info("fire burned out",
		"density", c.Density(),
		"steps", c.steps,
		"burned", results.FormatPercent(burned))
	if c.resultsLog == "" {
		return
	}
	if err := results.AppendRun(c.resultsLog, c.Density(), burned); err != nil {
		c.logger.Error("append run", "path", c.resultsLog, "error", err)
		return
	}
	c.saved = c.resultsLog
}

// Report summarizes the state for the status panel.
func (c *Controller) Report() ui.Report {
	var params core.ParameterSnapshot
	if c.params != nil {
		params = c.params.Parameters()
	}
	return ui.Report{
		Params:  params,
		Phase:   c.Phase(),
		Density: c.Density(),
		Counts:  c.sim.Forest().Counts(),
		Steps:   c.steps,
		Burned:  c.sim.BurnedPercentage(),
		Saved:   c.saved,
	}
}

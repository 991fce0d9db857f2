package forest

import (
	"image/color"
	"strconv"

	"forestfire/internal/core"
	pcore "forestfire/pkg/core"
)

// Sim adapts a Forest to the core.Sim contract so a frame-paced driver can
// grow, ignite and step it.
type Sim struct {
	cfg    Config
	forest *Forest
}

// NewSim returns a Sim for cfg. Invalid dimensions fall back to the defaults
// and the density is clamped to [0, 100].
func NewSim(cfg Config) *Sim {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	cfg.Density = ClampDensity(cfg.Density)
	s := &Sim{cfg: cfg}
	s.Reset(0)
	return s
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return "forest" }

// Size reports the grid dimensions.
func (s *Sim) Size() core.Size { return core.Size{W: s.cfg.Width, H: s.cfg.Height} }

// Config returns the active configuration.
func (s *Sim) Config() Config { return s.cfg }

// Forest exposes the underlying engine.
func (s *Sim) Forest() *Forest { return s.forest }

// Cells exposes the current grid values.
func (s *Sim) Cells() []uint8 { return s.forest.Cells() }

// Palette returns the colors for each cell value.
func (s *Sim) Palette() []color.RGBA { return Palette() }

// Reset grows a fresh forest. A zero seed reuses the configured seed.
func (s *Sim) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = s.cfg.Seed
	}
	s.forest = MustNew(s.cfg.Width, s.cfg.Height, pcore.NewRand(effective))
	if err := s.forest.Grow(s.cfg.Density); err != nil {
		panic(err)
	}
}

// Ignite starts the fire on a random tree.
func (s *Sim) Ignite() bool { return s.forest.StartFire() }

// Step advances the fire by one ring. It does nothing before ignition.
func (s *Sim) Step() {
	if s.forest.Phase() != PhaseSpreading {
		return
	}
	s.forest.SpreadFire()
}

// Done reports whether the fire has been started and has burned out.
func (s *Sim) Done() bool { return s.forest.Phase() == PhaseTerminal }

// BurnedPercentage reports the burned share of the flammable cells.
func (s *Sim) BurnedPercentage() float64 { return s.forest.BurnedPercentage() }

// Parameters reports the tunables shown by the viewer.
func (s *Sim) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Forest",
			Params: []core.Parameter{
				intParam("w", "Width", s.cfg.Width),
				intParam("h", "Height", s.cfg.Height),
				floatParam("density", "Tree density %", s.cfg.Density),
			},
		},
	}}
}

// SetFloatParameter updates a float tunable. Density changes take effect on
// the next Reset.
func (s *Sim) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "density":
		s.cfg.Density = ClampDensity(value)
		return true
	default:
		return false
	}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', 2, 64),
	}
}

func init() {
	core.Register("forest", func(cfg map[string]string) core.Sim {
		return NewSim(FromMap(cfg))
	})
}

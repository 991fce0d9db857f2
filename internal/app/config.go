package app

import (
	"flag"

	"forestfire/internal/settings"
)

// Config captures the viewer's command-line options.
type Config struct {
	Width           int
	Height          int
	Density         float64
	Seed            int64
	Scale           int
	FramesPerSpread int
	TPS             int
	ResultsLog      string
}

// NewConfig returns viewer defaults seeded from the saved settings.
func NewConfig(s settings.Settings) Config {
	s = s.Normalize()
	return Config{
		Width:           s.Width,
		Height:          s.Height,
		Density:         s.Density,
		Seed:            1337,
		Scale:           s.Scale,
		FramesPerSpread: s.FramesPerSpread,
		TPS:             60,
		ResultsLog:      "runs.csv",
	}
}

// Bind registers the viewer flags on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "grid width")
	fs.IntVar(&c.Height, "h", c.Height, "grid height")
	fs.Float64Var(&c.Density, "density", c.Density, "tree density percentage")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale")
	fs.IntVar(&c.FramesPerSpread, "frames", c.FramesPerSpread, "frames between spread steps")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.StringVar(&c.ResultsLog, "log", c.ResultsLog, "CSV file finished runs are appended to (empty disables)")
}

// Settings returns the subset of c worth remembering between launches.
func (c Config) Settings() settings.Settings {
	return settings.Settings{
		Width:           c.Width,
		Height:          c.Height,
		Density:         c.Density,
		FramesPerSpread: c.FramesPerSpread,
		Scale:           c.Scale,
	}.Normalize()
}

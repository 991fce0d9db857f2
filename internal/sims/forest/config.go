package forest

import "strconv"

// Config controls a single interactive forest run.
type Config struct {
	Width  int
	Height int

	Seed int64

	// Density is the initial tree coverage in percent.
	Density float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:   50,
		Height:  50,
		Seed:    1337,
		Density: 50.13,
	}
}

// ClampDensity limits a density to [0, 100]. NaN maps to 0.
func ClampDensity(d float64) float64 {
	if d != d || d < 0 {
		return 0
	}
	if d > 100 {
		return 100
	}
	return d
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Density = ClampDensity(parsed)
		}
	}
	return c
}

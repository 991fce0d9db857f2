package sweep

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is returned by Validate for settings that would make a
// sweep meaningless or non-terminating.
var ErrInvalidConfig = errors.New("sweep: invalid config")

// Config describes a density sweep.
type Config struct {
	Width  int
	Height int

	// Trials is the number of independent simulations per density.
	Trials int
	// Workers is the size of the goroutine pool spawned for each density.
	Workers int

	DensityStart float64
	DensityEnd   float64
	DensityStep  float64

	Seed int64

	// Timeout bounds the wait for one density's results. Zero disables it.
	Timeout time.Duration
}

// DefaultConfig returns the standard sweep: 50x50 forests, 100 trials on 8
// workers for every whole percent from 1 to 100.
func DefaultConfig() Config {
	return Config{
		Width:        50,
		Height:       50,
		Trials:       100,
		Workers:      8,
		DensityStart: 1,
		DensityEnd:   100,
		DensityStep:  1,
		Seed:         1337,
		Timeout:      5 * time.Minute,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "forest width in cells")
	fs.IntVar(&c.Height, "height", c.Height, "forest height in cells")
	fs.IntVar(&c.Trials, "trials", c.Trials, "simulations per density")
	fs.IntVar(&c.Workers, "workers", c.Workers, "worker goroutines per density")
	fs.Float64Var(&c.DensityStart, "density-start", c.DensityStart, "first tree density in percent")
	fs.Float64Var(&c.DensityEnd, "density-end", c.DensityEnd, "last tree density in percent (inclusive)")
	fs.Float64Var(&c.DensityStep, "density-step", c.DensityStep, "density increment in percent")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "base seed for all trials")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "maximum wait for one density (0 disables)")
}

// Validate rejects configurations that cannot run.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.Trials <= 0 {
		errs = append(errs, fmt.Errorf("trials must be positive, got %d", c.Trials))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if !inPercentRange(c.DensityStart) || !inPercentRange(c.DensityEnd) {
		errs = append(errs, fmt.Errorf("densities must be within [0, 100], got %v..%v", c.DensityStart, c.DensityEnd))
	} else if c.DensityStart > c.DensityEnd {
		errs = append(errs, fmt.Errorf("density start %v exceeds end %v", c.DensityStart, c.DensityEnd))
	}
	if math.IsNaN(c.DensityStep) || c.DensityStep <= 0 {
		errs = append(errs, fmt.Errorf("density step must be positive, got %v", c.DensityStep))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func inPercentRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

// Densities lists the swept densities in order, end inclusive. Values are
// computed by index so long sweeps do not accumulate float drift.
func (c Config) Densities() []float64 {
	if c.DensityStep <= 0 || c.DensityStart > c.DensityEnd {
		return nil
	}
	n := int(math.Floor((c.DensityEnd-c.DensityStart)/c.DensityStep+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		d := c.DensityStart + float64(i)*c.DensityStep
		out[i] = math.Round(d*1e9) / 1e9
	}
	return out
}

package sweep

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DensityResult holds every trial outcome for one density plus summary
// statistics.
type DensityResult struct {
	Density float64
	// Trials is indexed by trial number.
	Trials  []float64
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	Elapsed time.Duration
}

// Point is one (density, mean burned) pair of the sweep curve.
type Point struct {
	Density float64
	Mean    float64
}

// Summary is the ordered result of a full sweep.
type Summary struct {
	Points  []Point
	Elapsed time.Duration
}

// Aggregate computes the statistics for a set of trial results.
func Aggregate(density float64, trials []float64) DensityResult {
	res := DensityResult{Density: density, Trials: trials}
	if len(trials) == 0 {
		return res
	}
	res.Mean = stat.Mean(trials, nil)
	if len(trials) > 1 {
		res.StdDev = stat.StdDev(trials, nil)
	}
	res.Min = floats.Min(trials)
	res.Max = floats.Max(trials)
	return res
}

// Round2 rounds to two decimal places, the precision results are reported at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CriticalDensity returns the first density whose mean burned percentage
// reaches threshold, an estimate of the percolation threshold.
func CriticalDensity(s Summary, threshold float64) (float64, bool) {
	for _, p := range s.Points {
		if p.Mean >= threshold {
			return p.Density, true
		}
	}
	return 0, false
}

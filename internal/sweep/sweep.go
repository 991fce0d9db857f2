package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"forestfire/internal/ctxlog"
	"forestfire/internal/sims/forest"
	pcore "forestfire/pkg/core"
)

// ErrIncomplete is returned when a density's collection ends before every
// trial reported a result.
var ErrIncomplete = errors.New("sweep: incomplete trial collection")

// JoinGrace is how long RunDensity waits for its workers to exit once the
// density's deadline or the caller's context has expired.
var JoinGrace = 250 * time.Millisecond

// Recorder persists sweep results as they are produced.
type Recorder interface {
	RecordDensity(ctx context.Context, res DensityResult) error
	RecordSummary(ctx context.Context, s Summary) error
}

type trialFunc func(w, h int, density float64, rng *rand.Rand) (float64, error)

// runTrial is swapped out by tests to simulate misbehaving workers.
var runTrial trialFunc = forest.Trial

type trialResult struct {
	index  int
	burned float64
}

// TrialSeed returns the seed used for one trial. It depends only on the base
// seed, the density and the trial index, so results do not change with the
// worker count or goroutine scheduling.
func TrialSeed(base int64, density float64, trial int) int64 {
	return pcore.DeriveSeed(base, int(math.Round(density*1e4)), trial)
}

// RunDensity runs cfg.Trials independent simulations at density on a fresh
// pool of cfg.Workers goroutines and aggregates them. The pool is joined
// before RunDensity returns, except when the context expires and a worker is
// still inside a trial after JoinGrace; that worker is abandoned.
func RunDensity(ctx context.Context, cfg Config, density float64) (DensityResult, error) {
	if err := cfg.Validate(); err != nil {
		return DensityResult{}, err
	}
	if density < 0 || density > 100 || math.IsNaN(density) {
		return DensityResult{}, fmt.Errorf("%w: density %v outside [0, 100]", ErrInvalidConfig, density)
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	// Buffered for every trial so producers never block on a slow collector.
	results := make(chan trialResult, cfg.Trials)
	g, gctx := errgroup.WithContext(ctx)
	for _, span := range Partition(cfg.Trials, cfg.Workers) {
		if span.Len() == 0 {
			continue
		}
		g.Go(func() error {
			logger.Debug("worker started", "density", density, "worker", span.Worker, "start", span.Start, "end", span.End)
			for trial := span.Start; trial < span.End; trial++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				rng := pcore.NewRand(TrialSeed(cfg.Seed, density, trial))
				burned, err := runTrial(cfg.Width, cfg.Height, density, rng)
				if err != nil {
					return fmt.Errorf("trial %d: %w", trial, err)
				}
				results <- trialResult{index: trial, burned: burned}
			}
			return nil
		})
	}

	joined := make(chan error, 1)
	go func() {
		joined <- g.Wait()
		close(results)
	}()

	trials := make([]float64, cfg.Trials)
	received := 0
	var waitErr error
collect:
	for received < cfg.Trials {
		select {
		case r, ok := <-results:
			if !ok {
				break collect
			}
			trials[r.index] = r.burned
			received++
		case <-ctx.Done():
			waitErr = ctx.Err()
			break collect
		}
	}

	var workerErr error
	if waitErr != nil {
		// A trial that never returns must not hold the caller. Stragglers
		// finish into the buffered channel and the joiner exits on its own.
		select {
		case workerErr = <-joined:
		case <-time.After(JoinGrace):
			logger.Warn("workers still running after deadline; not waiting for them",
				"density", density, "received", received, "trials", cfg.Trials)
			return DensityResult{}, fmt.Errorf("%w: density %.2f: received %d of %d results: %w", ErrIncomplete, density, received, cfg.Trials, waitErr)
		}
	} else {
		workerErr = <-joined
	}
	switch {
	case workerErr != nil && !errors.Is(workerErr, context.Canceled) && !errors.Is(workerErr, context.DeadlineExceeded):
		return DensityResult{}, fmt.Errorf("%w: density %.2f: %w", ErrIncomplete, density, workerErr)
	case received < cfg.Trials:
		if waitErr == nil {
			waitErr = workerErr
		}
		if waitErr != nil {
			return DensityResult{}, fmt.Errorf("%w: density %.2f: received %d of %d results: %w", ErrIncomplete, density, received, cfg.Trials, waitErr)
		}
		return DensityResult{}, fmt.Errorf("%w: density %.2f: received %d of %d results", ErrIncomplete, density, received, cfg.Trials)
	}

	res := Aggregate(density, trials)
	res.Elapsed = time.Since(start)
	return res, nil
}

// Run sweeps every density of cfg in order. Each density gets its own worker
// pool which is joined before the next density starts. Results are
// handed to rec as they complete; rec may be nil.
func Run(ctx context.Context, cfg Config, rec Recorder) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	logger := ctxlog.FromContext(ctx)
	densities := cfg.Densities()
	if cfg.Trials%cfg.Workers != 0 {
		logger.Info("trials do not divide evenly; first workers take one extra trial",
			"trials", cfg.Trials, "workers", cfg.Workers)
	}
	logger.Info("sweep started",
		"densities", len(densities), "trials", cfg.Trials, "workers", cfg.Workers,
		"width", cfg.Width, "height", cfg.Height, "seed", cfg.Seed)

	start := time.Now()
	summary := Summary{Points: make([]Point, 0, len(densities))}
	for _, d := range densities {
		res, err := RunDensity(ctx, cfg, d)
		if err != nil {
			return summary, err
		}
		if rec != nil {
			if err := rec.RecordDensity(ctx, res); err != nil {
				return summary, fmt.Errorf("record density %.2f: %w", d, err)
			}
		}
		summary.Points = append(summary.Points, Point{Density: d, Mean: res.Mean})
		logger.Info("density complete",
			"density", d, "mean", Round2(res.Mean), "stddev", Round2(res.StdDev),
			"min", Round2(res.Min), "max", Round2(res.Max), "elapsed", res.Elapsed)
	}
	summary.Elapsed = time.Since(start)

	if rec != nil {
		if err := rec.RecordSummary(ctx, summary); err != nil {
			return summary, fmt.Errorf("record summary: %w", err)
		}
	}
	if crit, ok := CriticalDensity(summary, 50); ok {
		logger.Info("half of the forest burns on average", "from_density", crit)
	}
	logger.Info("sweep finished", "elapsed", summary.Elapsed)
	return summary, nil
}

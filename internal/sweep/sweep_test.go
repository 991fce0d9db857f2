package sweep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestfire/internal/ctxlog"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 12
	cfg.Height = 12
	cfg.Trials = 10
	cfg.Workers = 3
	cfg.DensityStart = 0
	cfg.DensityEnd = 100
	cfg.DensityStep = 25
	cfg.Timeout = 0
	return cfg
}

// withTrial swaps the trial function for the duration of a test.
func withTrial(t *testing.T, fn trialFunc) {
	t.Helper()
	prev := runTrial
	runTrial = fn
	t.Cleanup(func() { runTrial = prev })
}

type memRecorder struct {
	mu        sync.Mutex
	densities []DensityResult
	summary   *Summary
	failAfter int
}

func (m *memRecorder) RecordDensity(_ context.Context, res DensityResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && len(m.densities) >= m.failAfter {
		return errors.New("disk full")
	}
	m.densities = append(m.densities, res)
	return nil
}

func (m *memRecorder) RecordSummary(_ context.Context, s Summary) error {
	m.summary = &s
	return nil
}

func TestPartitionEven(t *testing.T) {
	spans := Partition(100, 8)
	require.Len(t, spans, 8)
	assert.Equal(t, Span{Worker: 0, Start: 0, End: 13}, spans[0])
	assert.Equal(t, Span{Worker: 7, Start: 88, End: 100}, spans[7])
}

func TestPartitionCoversEveryTrialOnce(t *testing.T) {
	for trials := 1; trials <= 40; trials++ {
		for workers := 1; workers <= 12; workers++ {
			spans := Partition(trials, workers)
			require.Len(t, spans, workers)
			next := 0
			for _, s := range spans {
				assert.Equal(t, next, s.Start, "spans must be contiguous")
				assert.GreaterOrEqual(t, s.Len(), 0)
				next = s.End
			}
			assert.Equal(t, trials, next, "trials=%d workers=%d", trials, workers)
			// Spans differ in size by at most one.
			assert.LessOrEqual(t, spans[0].Len()-spans[workers-1].Len(), 1)
		}
	}
	assert.Nil(t, Partition(0, 4))
	assert.Nil(t, Partition(4, 0))
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cases := map[string]func(*Config){
		"zero width":     func(c *Config) { c.Width = 0 },
		"negative trial": func(c *Config) { c.Trials = -1 },
		"no workers":     func(c *Config) { c.Workers = 0 },
		"density > 100":  func(c *Config) { c.DensityEnd = 101 },
		"density < 0":    func(c *Config) { c.DensityStart = -1 },
		"start > end":    func(c *Config) { c.DensityStart = 60; c.DensityEnd = 40 },
		"zero step":      func(c *Config) { c.DensityStep = 0 },
		"neg timeout":    func(c *Config) { c.Timeout = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDensities(t *testing.T) {
	def := DefaultConfig().Densities()
	require.Len(t, def, 100)
	assert.Equal(t, 1.0, def[0])
	assert.Equal(t, 100.0, def[99])

	cfg := Config{DensityStart: 0, DensityEnd: 1, DensityStep: 0.1}
	ds := cfg.Densities()
	require.Len(t, ds, 11)
	assert.Equal(t, 0.3, ds[3])
	assert.Equal(t, 1.0, ds[10])

	cfg = Config{DensityStart: 10, DensityEnd: 25, DensityStep: 10}
	assert.Equal(t, []float64{10, 20}, cfg.Densities())
}

func TestAggregateFixedResults(t *testing.T) {
	res := Aggregate(42, []float64{10, 20, 30})
	assert.Equal(t, 20.0, res.Mean)
	assert.Equal(t, "20.00", fmt.Sprintf("%.2f", res.Mean))
	assert.InDelta(t, 10.0, res.StdDev, 1e-9)
	assert.Equal(t, 10.0, res.Min)
	assert.Equal(t, 30.0, res.Max)

	single := Aggregate(1, []float64{7})
	assert.Equal(t, 0.0, single.StdDev)
	empty := Aggregate(1, nil)
	assert.Equal(t, 0.0, empty.Mean)
}

func TestRunDensityCollectsEveryTrial(t *testing.T) {
	var calls atomic.Int64
	withTrial(t, func(w, h int, density float64, rng *rand.Rand) (float64, error) {
		calls.Add(1)
		return density / 2, nil
	})
	cfg := smallConfig()
	cfg.Trials = 11
	cfg.Workers = 4

	res, err := RunDensity(context.Background(), cfg, 40)
	require.NoError(t, err)
	assert.EqualValues(t, 11, calls.Load(), "remainder trials must run too")
	require.Len(t, res.Trials, 11)
	assert.Equal(t, 20.0, res.Mean)
}

func TestRunDensityIndependentOfWorkerCount(t *testing.T) {
	cfg := smallConfig()
	cfg.Trials = 12
	cfg.Workers = 1
	one, err := RunDensity(context.Background(), cfg, 60)
	require.NoError(t, err)

	cfg.Workers = 5
	five, err := RunDensity(context.Background(), cfg, 60)
	require.NoError(t, err)

	assert.Equal(t, one.Trials, five.Trials)
	assert.Equal(t, one.Mean, five.Mean)
}

func TestRunDensityBounds(t *testing.T) {
	cfg := smallConfig()
	cfg.Trials = 4

	full, err := RunDensity(context.Background(), cfg, 100)
	require.NoError(t, err)
	for _, v := range full.Trials {
		assert.Equal(t, 100.0, v)
	}

	empty, err := RunDensity(context.Background(), cfg, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.Mean)

	_, err = RunDensity(context.Background(), cfg, 101)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunDensityWorkerFailure(t *testing.T) {
	withTrial(t, func(w, h int, density float64, rng *rand.Rand) (float64, error) {
		return 0, errors.New("boom")
	})
	_, err := RunDensity(context.Background(), smallConfig(), 50)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "boom")
}

func TestRunDensityTimeout(t *testing.T) {
	withTrial(t, func(w, h int, density float64, rng *rand.Rand) (float64, error) {
		time.Sleep(30 * time.Millisecond)
		return 1, nil
	})
	cfg := smallConfig()
	cfg.Trials = 40
	cfg.Workers = 2
	cfg.Timeout = 10 * time.Millisecond

	start := time.Now()
	_, err := RunDensity(context.Background(), cfg, 50)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "timeout must not wait for every trial")
}

func TestRunDensityDoesNotWaitForStuckTrial(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	withTrial(t, func(w, h int, density float64, rng *rand.Rand) (float64, error) {
		<-release
		return 0, nil
	})
	cfg := smallConfig()
	cfg.Trials = 2
	cfg.Workers = 2
	cfg.Timeout = 50 * time.Millisecond

	done := make(chan error, 1)
	go func() {
		_, err := RunDensity(context.Background(), cfg, 50)
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrIncomplete)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("RunDensity blocked on a trial that never returns")
	}
}

func TestRunLogsUnevenSplitAtInfo(t *testing.T) {
	withTrial(t, func(w, h int, density float64, rng *rand.Rand) (float64, error) {
		return 0, nil
	})
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := smallConfig()
	cfg.Trials = 10
	cfg.Workers = 3

	_, err := Run(ctxlog.WithLogger(context.Background(), logger), cfg, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "trials do not divide evenly")
}

func TestRunDensityCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunDensity(ctx, smallConfig(), 50)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRecordsInOrder(t *testing.T) {
	rec := &memRecorder{}
	cfg := smallConfig()

	summary, err := Run(context.Background(), cfg, rec)
	require.NoError(t, err)

	want := []float64{0, 25, 50, 75, 100}
	require.Len(t, summary.Points, len(want))
	require.Len(t, rec.densities, len(want))
	for i, d := range want {
		assert.Equal(t, d, summary.Points[i].Density)
		assert.Equal(t, d, rec.densities[i].Density)
		assert.Len(t, rec.densities[i].Trials, cfg.Trials)
		assert.Equal(t, rec.densities[i].Mean, summary.Points[i].Mean)
	}
	assert.Equal(t, 0.0, summary.Points[0].Mean)
	assert.Equal(t, 100.0, summary.Points[4].Mean)
	require.NotNil(t, rec.summary)
	assert.Equal(t, summary.Points, rec.summary.Points)
}

func TestRunRejectsInvalidConfigBeforeWork(t *testing.T) {
	withTrial(t, func(w, h int, density float64, rng *rand.Rand) (float64, error) {
		t.Fatal("no trial may run for an invalid config")
		return 0, nil
	})
	rec := &memRecorder{}
	cfg := smallConfig()
	cfg.DensityEnd = 150
	_, err := Run(context.Background(), cfg, rec)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Empty(t, rec.densities)
}

func TestRunPropagatesRecorderError(t *testing.T) {
	rec := &memRecorder{failAfter: 2}
	_, err := Run(context.Background(), smallConfig(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Len(t, rec.densities, 2)
}

func TestCriticalDensity(t *testing.T) {
	s := Summary{Points: []Point{{10, 1}, {50, 30}, {60, 70}, {70, 95}}}
	d, ok := CriticalDensity(s, 50)
	require.True(t, ok)
	assert.Equal(t, 60.0, d)

	_, ok = CriticalDensity(s, 99)
	assert.False(t, ok)
}

func TestTrialSeedStable(t *testing.T) {
	assert.Equal(t, TrialSeed(1, 45, 3), TrialSeed(1, 45, 3))
	assert.NotEqual(t, TrialSeed(1, 45, 3), TrialSeed(1, 46, 3))
	assert.NotEqual(t, TrialSeed(1, 45, 3), TrialSeed(2, 45, 3))
}

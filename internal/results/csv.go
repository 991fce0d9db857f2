// Package results persists sweep and single-run outcomes as CSV tables and
// renders the density curve as a chart.
package results

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"forestfire/internal/sweep"
)

const (
	// SummaryFile is the name of the per-sweep summary table.
	SummaryFile = "results.csv"
	// ChartFile is the name of the rendered density curve.
	ChartFile = "results.png"
)

var (
	summaryHeader = []string{"density", "average_burned"}
	trialHeader   = []string{"trial", "burned_percentage"}
	runHeader     = []string{"density", "burned_percentage"}
)

// FormatPercent renders a value with the two decimals used in every table.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// DensityFile returns the per-density table name, e.g. results_42.00.csv.
func DensityFile(density float64) string {
	return fmt.Sprintf("results_%.2f.csv", density)
}

// CSVRecorder writes one summary table plus one trial table per density
// into Dir. Nothing is created until the first density is recorded.
type CSVRecorder struct {
	Dir string
	// Chart additionally renders results.png when the sweep finishes.
	Chart bool

	mu      sync.Mutex
	summary *os.File
	writer  *csv.Writer
}

// NewCSVRecorder returns a recorder writing into dir.
func NewCSVRecorder(dir string, chart bool) *CSVRecorder {
	return &CSVRecorder{Dir: dir, Chart: chart}
}

// RecordDensity writes the trial table for res and appends its mean to the
// summary table.
func (r *CSVRecorder) RecordDensity(_ context.Context, res sweep.DensityResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.openSummary(); err != nil {
		return err
	}
	if err := writeTrials(filepath.Join(r.Dir, DensityFile(res.Density)), res.Trials); err != nil {
		return err
	}
	if err := r.writer.Write([]string{FormatPercent(res.Density), FormatPercent(res.Mean)}); err != nil {
		return fmt.Errorf("write summary row: %w", err)
	}
	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		return fmt.Errorf("flush summary: %w", err)
	}
	return nil
}

// RecordSummary closes the summary table and renders the chart if enabled.
func (r *CSVRecorder) RecordSummary(_ context.Context, s sweep.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.closeSummary(); err != nil {
		return err
	}
	// A curve needs at least two densities.
	if !r.Chart || len(s.Points) < 2 {
		return nil
	}
	return SaveChart(filepath.Join(r.Dir, ChartFile), s)
}

// Close releases the summary file if a sweep ended early.
func (r *CSVRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeSummary()
}

func (r *CSVRecorder) openSummary() error {
	if r.summary != nil {
		return nil
	}
	if r.Dir != "" {
		if err := os.MkdirAll(r.Dir, 0o755); err != nil {
			return fmt.Errorf("create results dir: %w", err)
		}
	}
	f, err := os.Create(filepath.Join(r.Dir, SummaryFile))
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		f.Close()
		return fmt.Errorf("write summary header: %w", err)
	}
	r.summary, r.writer = f, w
	return nil
}

func (r *CSVRecorder) closeSummary() error {
	if r.summary == nil {
		return nil
	}
	r.writer.Flush()
	werr := r.writer.Error()
	cerr := r.summary.Close()
	r.summary, r.writer = nil, nil
	if werr != nil {
		return fmt.Errorf("flush summary: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("close summary: %w", cerr)
	}
	return nil
}

func writeTrials(path string, trials []float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trial table: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close trial table: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(trialHeader); err != nil {
		return fmt.Errorf("write trial header: %w", err)
	}
	for i, v := range trials {
		if err := w.Write([]string{strconv.Itoa(i + 1), FormatPercent(v)}); err != nil {
			return fmt.Errorf("write trial %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush trial table: %w", err)
	}
	return nil
}

// AppendRun appends a single interactive run to the log at path, writing
// the header first when the file is new or empty.
func AppendRun(path string, density, burned float64) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close run log: %w", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat run log: %w", err)
	}
	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(runHeader); err != nil {
			return fmt.Errorf("write run header: %w", err)
		}
	}
	if err := w.Write([]string{FormatPercent(density), FormatPercent(burned)}); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	w.Flush()
	return w.Error()
}

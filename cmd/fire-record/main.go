// Command fire-record runs a single forest fire without a window. It prints
// the burned percentage and can save the run as an MJPEG video.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"

	"forestfire/internal/core"
	"forestfire/internal/ctxlog"
	"forestfire/internal/logging"
	"forestfire/internal/record"
	"forestfire/internal/results"
	"forestfire/internal/sims/forest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := forest.DefaultConfig()
	opts := record.DefaultOptions()
	var video, appendPath, logLevel string

	fs := flag.NewFlagSet("fire-record", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.Width, "w", cfg.Width, "grid width")
	fs.IntVar(&cfg.Height, "h", cfg.Height, "grid height")
	fs.Float64Var(&cfg.Density, "density", cfg.Density, "tree density percentage")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	fs.StringVar(&video, "video", "", "write the run to this .avi file")
	fs.IntVar(&opts.Scale, "scale", opts.Scale, "video pixels per cell")
	fs.IntVar(&opts.FPS, "fps", opts.FPS, "video frames per second")
	fs.StringVar(&appendPath, "append", "", "append the result to this CSV run log")
	fs.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(logLevel); err != nil {
		return err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", forest.ErrInvalidSize, cfg.Width, cfg.Height)
	}
	if math.IsNaN(cfg.Density) || cfg.Density < 0 || cfg.Density > 100 {
		return fmt.Errorf("%w: %v", forest.ErrInvalidDensity, cfg.Density)
	}
	logger := logging.New(logLevel, "text", stderr)
	ctx = ctxlog.WithLogger(ctx, logger)

	factory, ok := core.Sims()["forest"]
	if !ok {
		return errors.New("forest simulation not registered")
	}
	sim := factory(map[string]string{
		"w":       strconv.Itoa(cfg.Width),
		"h":       strconv.Itoa(cfg.Height),
		"seed":    strconv.FormatInt(cfg.Seed, 10),
		"density": strconv.FormatFloat(cfg.Density, 'f', -1, 64),
	})

	burned, steps, err := burn(ctx, sim, video, opts)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("run finished", "steps", steps, "burned", results.FormatPercent(burned))

	if appendPath != "" {
		if err := results.AppendRun(appendPath, cfg.Density, burned); err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "Density %s%%: burned %s%% in %d steps\n",
		results.FormatPercent(cfg.Density), results.FormatPercent(burned), steps)
	return nil
}

type burnReporter interface {
	BurnedPercentage() float64
}

// burn ignites sim and runs it to completion, recording a video when path
// is set.
func burn(ctx context.Context, sim core.Sim, path string, opts record.Options) (float64, int, error) {
	if path != "" {
		res, err := record.Run(ctx, sim, path, opts)
		if err != nil {
			return 0, res.Steps, err
		}
		ctxlog.FromContext(ctx).Debug("video written", "path", path, "frames", res.Frames)
		return res.Burned, res.Steps, nil
	}

	if ig, ok := sim.(core.Igniter); ok {
		ig.Ignite()
	}
	steps := 0
	for !sim.Done() {
		if err := ctx.Err(); err != nil {
			return 0, steps, err
		}
		sim.Step()
		steps++
	}
	var burned float64
	if br, ok := sim.(burnReporter); ok {
		burned = br.BurnedPercentage()
	}
	return burned, steps, nil
}

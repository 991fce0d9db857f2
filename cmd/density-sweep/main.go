// Command density-sweep estimates the burned fraction of a forest across a
// range of tree densities by running many fires per density in parallel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"forestfire/internal/config"
	"forestfire/internal/ctxlog"
	"forestfire/internal/logging"
	"forestfire/internal/results"
	"forestfire/internal/sweep"
)

// exitError carries the process exit code for a failed run.
type exitError struct {
	Code    int
	Message string
}

func (e *exitError) Error() string { return e.Message }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err == nil {
		return
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(os.Stderr, exitErr.Message)
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

type options struct {
	file      config.File
	logLevel  string
	logFormat string
}

// parseArgs resolves the effective settings. A -config file supplies the
// defaults and explicit flags override it.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	configPath, err := findConfigPath(args)
	if err != nil {
		return options{}, &exitError{Code: 2, Message: err.Error()}
	}
	file := config.Default()
	if configPath != "" {
		file, err = config.Load(configPath)
		if err != nil {
			return options{}, &exitError{Code: 2, Message: err.Error()}
		}
	}

	opts := options{file: file, logLevel: "info", logFormat: "text"}
	fs := flag.NewFlagSet("density-sweep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts.file.Sweep.Bind(fs)
	fs.String("config", configPath, "YAML or HCL file with sweep settings")
	fs.StringVar(&opts.file.Output, "out", opts.file.Output, "directory for result tables")
	fs.BoolVar(&opts.file.Chart, "chart", opts.file.Chart, "render results.png when the sweep finishes")
	fs.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level: debug, info, warn or error")
	fs.StringVar(&opts.logFormat, "log-format", opts.logFormat, "log format: text or json")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return options{}, &exitError{Code: 0}
		}
		return options{}, &exitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return options{}, &exitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(fs.Args(), " "))}
	}

	if _, err := logging.ParseLevel(opts.logLevel); err != nil {
		return options{}, &exitError{Code: 2, Message: err.Error()}
	}
	if err := logging.ValidateFormat(opts.logFormat); err != nil {
		return options{}, &exitError{Code: 2, Message: err.Error()}
	}
	if err := opts.file.Sweep.Validate(); err != nil {
		return options{}, &exitError{Code: 2, Message: err.Error()}
	}
	return opts, nil
}

// findConfigPath pulls -config out of args ahead of the full parse.
func findConfigPath(args []string) (string, error) {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if len(arg)-len(name) == 0 || len(arg)-len(name) > 2 {
			continue
		}
		if name == "config" {
			if i+1 >= len(args) {
				return "", errors.New("flag needs an argument: -config")
			}
			return args[i+1], nil
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v, nil
		}
	}
	return "", nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	logger := logging.New(opts.logLevel, opts.logFormat, stderr)
	ctx = ctxlog.WithLogger(ctx, logger)

	rec := results.NewCSVRecorder(opts.file.Output, opts.file.Chart)
	defer func() {
		if cerr := rec.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	summary, err := sweep.Run(ctx, opts.file.Sweep, rec)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	fmt.Fprintf(stdout, "Swept %d densities (%d trials each) in %s\n",
		len(summary.Points), opts.file.Sweep.Trials, summary.Elapsed.Round(time.Millisecond))
	if crit, ok := sweep.CriticalDensity(summary, 50); ok {
		fmt.Fprintf(stdout, "Average burn reaches 50%% at density %s%%\n", results.FormatPercent(crit))
	}
	fmt.Fprintf(stdout, "Results written to %s\n", filepath.Join(opts.file.Output, results.SummaryFile))
	return nil
}

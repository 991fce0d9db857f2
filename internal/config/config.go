package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"forestfire/internal/sweep"
)

// File is the decoded content of a sweep config file.
type File struct {
	Sweep sweep.Config
	// Output is the directory result tables are written to.
	Output string
	// Chart enables rendering the density curve.
	Chart bool
}

// Default returns the settings used when no file is given.
func Default() File {
	return File{Sweep: sweep.DefaultConfig(), Output: "results", Chart: true}
}

type fileConfig struct {
	Width        int     `yaml:"width" hcl:"width,optional"`
	Height       int     `yaml:"height" hcl:"height,optional"`
	Trials       int     `yaml:"trials" hcl:"trials,optional"`
	Workers      int     `yaml:"workers" hcl:"workers,optional"`
	DensityStart float64 `yaml:"density_start" hcl:"density_start,optional"`
	DensityEnd   float64 `yaml:"density_end" hcl:"density_end,optional"`
	DensityStep  float64 `yaml:"density_step" hcl:"density_step,optional"`
	Seed         int64   `yaml:"seed" hcl:"seed,optional"`
	Timeout      string  `yaml:"timeout" hcl:"timeout,optional"`
	Output       string  `yaml:"output" hcl:"output,optional"`
	Chart        bool    `yaml:"chart" hcl:"chart,optional"`
}

func fromFile(f File) fileConfig {
	c := f.Sweep
	return fileConfig{
		Width:        c.Width,
		Height:       c.Height,
		Trials:       c.Trials,
		Workers:      c.Workers,
		DensityStart: c.DensityStart,
		DensityEnd:   c.DensityEnd,
		DensityStep:  c.DensityStep,
		Seed:         c.Seed,
		Timeout:      c.Timeout.String(),
		Output:       f.Output,
		Chart:        f.Chart,
	}
}

func (fc fileConfig) toFile() (File, error) {
	timeout, err := time.ParseDuration(fc.Timeout)
	if err != nil {
		return File{}, fmt.Errorf("%w: timeout: %w", sweep.ErrInvalidConfig, err)
	}
	out := File{
		Sweep: sweep.Config{
			Width:        fc.Width,
			Height:       fc.Height,
			Trials:       fc.Trials,
			Workers:      fc.Workers,
			DensityStart: fc.DensityStart,
			DensityEnd:   fc.DensityEnd,
			DensityStep:  fc.DensityStep,
			Seed:         fc.Seed,
			Timeout:      timeout,
		},
		Output: fc.Output,
		Chart:  fc.Chart,
	}
	if err := out.Sweep.Validate(); err != nil {
		return File{}, err
	}
	return out, nil
}

// Load reads and validates the config file at path. The decoder is chosen by
// extension: .yaml/.yml or .hcl.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".hcl":
		return ParseHCL(data, path)
	default:
		return File{}, fmt.Errorf("unsupported config format %q: use .yaml, .yml or .hcl", filepath.Ext(path))
	}
}

// ParseYAML decodes a YAML sweep config. Unknown keys are rejected.
func ParseYAML(data []byte) (File, error) {
	fc := fromFile(Default())
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode yaml config: %w", err)
	}
	return fc.toFile()
}

// EvalContext returns the variables available to HCL config expressions.
func EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"cpus": cty.NumberIntVal(int64(runtime.NumCPU())),
		},
	}
}

// ParseHCL decodes an HCL sweep config. filename is only used in
// diagnostics.
func ParseHCL(data []byte, filename string) (File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return File{}, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	fc := fromFile(Default())
	if diags := gohcl.DecodeBody(file.Body, EvalContext(), &fc); diags.HasErrors() {
		return File{}, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	return fc.toFile()
}

// Package record writes a simulation run to an MJPEG AVI file, one frame
// per step.
package record

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"forestfire/internal/core"
	"forestfire/internal/render"
)

// Options controls the video output.
type Options struct {
	Scale   int
	FPS     int
	Quality int
	// HoldFrames repeats the final state so the outcome stays on screen.
	HoldFrames int
}

// DefaultOptions returns 8x scaling at 6 frames per second.
func DefaultOptions() Options {
	return Options{Scale: 8, FPS: 6, Quality: 80, HoldFrames: 12}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Scale <= 0 {
		o.Scale = def.Scale
	}
	if o.FPS <= 0 {
		o.FPS = def.FPS
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = def.Quality
	}
	if o.HoldFrames < 0 {
		o.HoldFrames = 0
	}
	return o
}

var grayPalette = []color.RGBA{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// Recorder encodes grid states as JPEG frames into an AVI container.
type Recorder struct {
	w, h    int
	opts    Options
	palette []color.RGBA
	avi     mjpeg.AviWriter
	buf     bytes.Buffer
	frames  int
}

// NewRecorder creates the video file at path for a grid of the given size.
func NewRecorder(path string, size core.Size, palette []color.RGBA, opts Options) (*Recorder, error) {
	opts = opts.normalized()
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("record: invalid grid size %dx%d", size.W, size.H)
	}
	if len(palette) == 0 {
		palette = grayPalette
	}
	avi, err := mjpeg.New(path, int32(size.W*opts.Scale), int32(size.H*opts.Scale), int32(opts.FPS))
	if err != nil {
		return nil, fmt.Errorf("record: create %s: %w", path, err)
	}
	return &Recorder{w: size.W, h: size.H, opts: opts, palette: palette, avi: avi}, nil
}

// AddFrame encodes one grid state.
func (r *Recorder) AddFrame(cells []uint8) error {
	img := render.Frame(cells, r.w, r.h, r.palette, r.opts.Scale)
	r.buf.Reset()
	if err := jpeg.Encode(&r.buf, img, &jpeg.Options{Quality: r.opts.Quality}); err != nil {
		return fmt.Errorf("record: encode frame %d: %w", r.frames, err)
	}
	if err := r.avi.AddFrame(r.buf.Bytes()); err != nil {
		return fmt.Errorf("record: add frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Frames reports how many frames were written.
func (r *Recorder) Frames() int { return r.frames }

// Close finalizes the AVI index.
func (r *Recorder) Close() error { return r.avi.Close() }

// Result summarizes a recorded run.
type Result struct {
	Steps  int
	Frames int
	// Burned is the burned share of flammable cells, when the sim reports one.
	Burned float64
}

type burnReporter interface {
	BurnedPercentage() float64
}

// Run ignites sim (when it supports ignition), steps it until it reports
// Done and records every state into a new video at path. sim must already
// be Reset.
func Run(ctx context.Context, sim core.Sim, path string, opts Options) (res Result, err error) {
	var palette []color.RGBA
	if p, ok := sim.(core.PaletteProvider); ok {
		palette = p.Palette()
	}
	rec, err := NewRecorder(path, sim.Size(), palette, opts)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := rec.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("record: close: %w", cerr)
		}
	}()

	if err := rec.AddFrame(sim.Cells()); err != nil {
		return Result{}, err
	}
	if ig, ok := sim.(core.Igniter); ok {
		ig.Ignite()
		if err := rec.AddFrame(sim.Cells()); err != nil {
			return Result{}, err
		}
	}

	// A fire cannot outlast one step per cell.
	limit := sim.Size().Area() + 1
	for !sim.Done() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if res.Steps >= limit {
			return res, errors.New("record: simulation did not terminate")
		}
		sim.Step()
		res.Steps++
		if err := rec.AddFrame(sim.Cells()); err != nil {
			return res, err
		}
	}
	for i := 0; i < rec.opts.HoldFrames; i++ {
		if err := rec.AddFrame(sim.Cells()); err != nil {
			return res, err
		}
	}
	res.Frames = rec.Frames()
	if br, ok := sim.(burnReporter); ok {
		res.Burned = br.BurnedPercentage()
	}
	return res, nil
}

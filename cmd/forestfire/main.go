//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"forestfire/internal/app"
	"forestfire/internal/logging"
	"forestfire/internal/settings"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	logger := logging.New("info", "text", os.Stderr)

	store, err := settings.Open("forestfire")
	if err != nil {
		logger.Warn("settings storage unavailable, using defaults", "error", err)
	}
	saved, err := store.Load()
	if err != nil {
		logger.Warn("saved settings ignored", "error", err)
	}

	cfg := app.NewConfig(saved)
	cfg.Bind(flag.CommandLine)
	flag.Parse()
	logger = logging.New(*logLevel, "text", os.Stderr)

	game := app.New(cfg, logger)
	w, h := game.WindowSize()

	ebiten.SetWindowTitle(fmt.Sprintf("forestfire %dx%d", cfg.Width, cfg.Height))
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}

	cfg.Density = game.Controller().Density()
	store.Set(cfg.Settings())
	if err := store.Save(); err != nil {
		logger.Warn("settings not saved", "error", err)
	}
}

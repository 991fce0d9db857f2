// Package settings remembers the viewer's last grid size and density
// between launches.
package settings

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"forestfire/internal/sims/forest"
)

const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// Settings holds the persisted viewer preferences.
type Settings struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Density         float64 `yaml:"density"`
	FramesPerSpread int     `yaml:"framesPerSpread"`
	Scale           int     `yaml:"scale"`
}

// Default returns the preferences used on first launch.
func Default() Settings {
	cfg := forest.DefaultConfig()
	return Settings{
		Width:           cfg.Width,
		Height:          cfg.Height,
		Density:         cfg.Density,
		FramesPerSpread: 10,
		Scale:           12,
	}
}

// Normalize replaces out-of-range values with defaults.
func (s Settings) Normalize() Settings {
	def := Default()
	if s.Width <= 0 {
		s.Width = def.Width
	}
	if s.Height <= 0 {
		s.Height = def.Height
	}
	if s.FramesPerSpread <= 0 {
		s.FramesPerSpread = def.FramesPerSpread
	}
	if s.Scale <= 0 {
		s.Scale = def.Scale
	}
	s.Density = forest.ClampDensity(s.Density)
	return s
}

// Store loads and saves Settings through a gdata manager. A Store with a
// nil manager keeps settings in memory only.
type Store struct {
	m       *gdata.Manager
	current Settings
}

// Open creates the platform data directory for app and returns a Store
// backed by it.
func Open(app string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		return NewStore(nil), fmt.Errorf("settings: open storage: %w", err)
	}
	return NewStore(m), nil
}

// NewStore wraps m, which may be nil.
func NewStore(m *gdata.Manager) *Store {
	return &Store{m: m, current: Default()}
}

// Persistent reports whether saves reach disk.
func (s *Store) Persistent() bool { return s.m != nil }

// Current returns the in-memory settings.
func (s *Store) Current() Settings { return s.current }

// Set replaces the in-memory settings. Call Save to persist them.
func (s *Store) Set(v Settings) { s.current = v.Normalize() }

// Load reads the saved settings. Missing data leaves the defaults in place;
// corrupt data resets to defaults and returns an error.
func (s *Store) Load() (Settings, error) {
	if s.m == nil || !s.m.ObjectPropExists(settingsObject, settingsProperty) {
		s.current = Default()
		return s.current, nil
	}
	data, err := s.m.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		s.current = Default()
		return s.current, fmt.Errorf("settings: load: %w", err)
	}
	loaded := Default()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		s.current = Default()
		return s.current, fmt.Errorf("settings: decode: %w", err)
	}
	s.current = loaded.Normalize()
	return s.current, nil
}

// Save persists the in-memory settings. It is a no-op without a manager.
func (s *Store) Save() error {
	if s.m == nil {
		return nil
	}
	data, err := yaml.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := s.m.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}

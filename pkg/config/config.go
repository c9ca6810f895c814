// Package config loads seatmap's TOML configuration.
//
// Values are layered: built-in defaults, then the config file, then
// environment variables. Command-line flags are applied on top by the CLI.
// A missing config file is not an error.
//
// Example file:
//
//	[api]
//	url = "http://localhost:8080/api"
//	timeout = "10s"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[view]
//	min_scale = 0.1
//	max_scale = 4.0
//
//	[floors.2]
//	info_box_threshold = 400
//
//	[floors.2.initial_view]
//	x = 100
//	y = 100
//	k = 0.8
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/scene"
)

// EnvAPIURL overrides [APIConfig.URL].
const EnvAPIURL = "SEATMAP_API_URL"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Duration is a time.Duration that decodes from strings like "750ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full configuration.
type Config struct {
	API    APIConfig              `toml:"api"`
	Cache  CacheConfig            `toml:"cache"`
	View   ViewConfig             `toml:"view"`
	Floors map[string]FloorConfig `toml:"floors"`
}

// APIConfig locates the persistence service.
type APIConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// CacheConfig selects where fetched diagrams and employees are kept.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	TTL     Duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ViewConfig holds view settings shared by every floor.
type ViewConfig struct {
	MinScale           float64   `toml:"min_scale"`
	MaxScale           float64   `toml:"max_scale"`
	TransitionDuration Duration  `toml:"transition_duration"`
	InfoBoxThreshold   float64   `toml:"info_box_threshold"`
	InitialView        ViewValue `toml:"initial_view"`
	Frame              RectValue `toml:"frame"`
}

// FloorConfig overrides view settings for one floor. Unset fields fall
// back to [ViewConfig]. A [floors.N] table in a file replaces the built-in
// entry for floor N as a whole.
type FloorConfig struct {
	InfoBoxThreshold *float64   `toml:"info_box_threshold"`
	InitialView      *ViewValue `toml:"initial_view"`
	Frame            *RectValue `toml:"frame"`
}

// ViewValue is a pan/zoom transform: translate(x, y) scale(k).
type ViewValue struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
	K float64 `toml:"k"`
}

// Zoom converts v.
func (v ViewValue) Zoom() geom.Zoom { return geom.Zoom{K: v.K, X: v.X, Y: v.Y} }

// RectValue is a rectangle in diagram units.
type RectValue struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Rect converts r.
func (r RectValue) Rect() geom.Rect { return geom.Rect{X: r.X, Y: r.Y, W: r.Width, H: r.Height} }

// Default returns the built-in configuration.
func Default() Config {
	floor2 := 400.0
	return Config{
		API: APIConfig{
			URL:     "http://localhost:8080/api",
			Timeout: Duration{10 * time.Second},
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{24 * time.Hour},
		},
		View: ViewConfig{
			MinScale:           scene.DefaultZoomBehavior.MinScale,
			MaxScale:           scene.DefaultZoomBehavior.MaxScale,
			TransitionDuration: Duration{scene.DefaultTransitionDuration},
			InfoBoxThreshold:   scene.DefaultInfoBoxThreshold,
			InitialView: ViewValue{
				X: scene.DefaultInitialView.X,
				Y: scene.DefaultInitialView.Y,
				K: scene.DefaultInitialView.K,
			},
			Frame: RectValue{
				X:      scene.DefaultFrame.X,
				Y:      scene.DefaultFrame.Y,
				Width:  scene.DefaultFrame.W,
				Height: scene.DefaultFrame.H,
			},
		},
		Floors: map[string]FloorConfig{
			"2": {InfoBoxThreshold: &floor2},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/seatmap/config.toml, falling back
// to ~/.config/seatmap/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "seatmap", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "seatmap", "config.toml"), nil
}

// Load reads path over the defaults and applies environment overrides.
// An empty path or a missing file yields the defaults. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return Config{}, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
			}
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides values from environment variables read with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		c.API.URL = v
	}
}

// Validate checks the configuration for values the editor cannot use.
func (c Config) Validate() error {
	if err := errs.ValidateURL(c.API.URL); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "api.url")
	}
	if c.API.Timeout.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "api.timeout must not be negative")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend must be %q, %q or %q, got %q", CacheFile, CacheRedis, CacheNone, c.Cache.Backend)
	}
	if c.View.MinScale <= 0 || c.View.MaxScale < c.View.MinScale {
		return errs.New(errs.ErrCodeInvalidConfig, "view scale extent [%v, %v] is invalid", c.View.MinScale, c.View.MaxScale)
	}
	if err := validateView("view.initial_view", c.View.InitialView); err != nil {
		return err
	}
	for _, key := range c.floorKeys() {
		n, err := strconv.Atoi(key)
		if err != nil || errs.ValidateFloorNumber(n) != nil {
			return errs.New(errs.ErrCodeInvalidConfig, "floors.%s: floor keys must be non-negative integers", key)
		}
		f := c.Floors[key]
		if f.InitialView != nil {
			if err := validateView("floors."+key+".initial_view", *f.InitialView); err != nil {
				return err
			}
		}
		if f.Frame != nil && f.Frame.Rect().IsEmpty() {
			return errs.New(errs.ErrCodeInvalidConfig, "floors.%s.frame must have positive width and height", key)
		}
	}
	return nil
}

func validateView(name string, v ViewValue) error {
	if v.K <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "%s.k must be positive, got %v", name, v.K)
	}
	return nil
}

func (c Config) floorKeys() []string {
	keys := make([]string, 0, len(c.Floors))
	for k := range c.Floors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Layout returns the scene layout for a floor.
func (c Config) Layout(floor int) scene.FloorLayout {
	l := scene.FloorLayout{
		Floor:            floor,
		InfoBoxThreshold: c.View.InfoBoxThreshold,
		InitialView:      c.View.InitialView.Zoom(),
		Frame:            c.View.Frame.Rect(),
	}
	f, ok := c.Floors[strconv.Itoa(floor)]
	if !ok {
		return l
	}
	if f.InfoBoxThreshold != nil {
		l.InfoBoxThreshold = *f.InfoBoxThreshold
	}
	if f.InitialView != nil {
		l.InitialView = f.InitialView.Zoom()
	}
	if f.Frame != nil {
		l.Frame = f.Frame.Rect()
	}
	return l
}

// ZoomBehavior returns the configured scale extent.
func (c Config) ZoomBehavior() scene.ZoomBehavior {
	return scene.ZoomBehavior{MinScale: c.View.MinScale, MaxScale: c.View.MaxScale}
}

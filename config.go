package marquee

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/marquee/tw"
)

// Defaults for the configuration surface. Durations are in seconds,
// lengths in pixels unless a CSS length string is given.
const (
	DefaultDurationSeconds = 30.0
	DefaultSpeedMultiplier = 1.0
	DefaultBaseWidthPixels = 5000.0
	DefaultGap             = "3rem" // 48px
	DefaultProximityMargin = "50px"
)

// Config configures a Marquee. The zero value of every field maps to its
// documented default, so callers only set what they need.
type Config struct {
	// Items is the ordered list of entries to render. Required.
	Items []Item `toml:"-"`

	// DurationSeconds is the base duration of one loop cycle at
	// BaseWidthPixels of content. Default 30.
	DurationSeconds float64 `toml:"duration_seconds"`

	// SpeedMultiplier scales the cycle duration linearly. Default 1.
	SpeedMultiplier float64 `toml:"speed_multiplier"`

	// BaseWidthPixels is the normalization constant in the duration
	// formula: a strip exactly this wide runs for DurationSeconds.
	// Default 5000.
	BaseWidthPixels float64 `toml:"base_width_pixels"`

	// Gap is the spacing between items: a CSS length string ("3rem",
	// "24px") or a bare number of pixels. It affects both the visual
	// spacing and the measurement fallback tiers. Default "3rem".
	Gap string `toml:"gap"`

	// DisableLazyGating starts loading immediately instead of waiting
	// for the strip to approach the viewport. Default false (lazy).
	DisableLazyGating bool `toml:"disable_lazy_gating"`

	// ProximityMargin is the region around the viewport within which the
	// strip counts as about to be visible. Default "50px".
	ProximityMargin string `toml:"proximity_margin"`

	// OnItemActivated is invoked when a rendered item is interacted
	// with. index is the position within one copy of the sequence
	// (0-based), never the doubled-buffer position.
	OnItemActivated func(item Item, index int) `toml:"-"`
}

// DefaultConfig returns the default configuration with no items.
func DefaultConfig() Config {
	return Config{
		DurationSeconds: DefaultDurationSeconds,
		SpeedMultiplier: DefaultSpeedMultiplier,
		BaseWidthPixels: DefaultBaseWidthPixels,
		Gap:             DefaultGap,
		ProximityMargin: DefaultProximityMargin,
	}
}

// normalized fills zero-valued fields with their defaults.
func (c Config) normalized() Config {
	if c.DurationSeconds == 0 {
		c.DurationSeconds = DefaultDurationSeconds
	}
	if c.SpeedMultiplier == 0 {
		c.SpeedMultiplier = DefaultSpeedMultiplier
	}
	if c.BaseWidthPixels == 0 {
		c.BaseWidthPixels = DefaultBaseWidthPixels
	}
	if c.Gap == "" {
		c.Gap = DefaultGap
	}
	if c.ProximityMargin == "" {
		c.ProximityMargin = DefaultProximityMargin
	}
	return c
}

// gapPixels resolves the configured gap to pixels, or ok=false if the
// value does not parse as a CSS length.
func (c Config) gapPixels() (float64, bool) {
	if v := tw.ParseLength(c.Gap); v != nil {
		return float64(*v), true
	}
	return 0, false
}

// proximityMarginPixels resolves the proximity margin to pixels, falling
// back to the default margin for unparseable values.
func (c Config) proximityMarginPixels() float64 {
	if v := tw.ParseLength(c.ProximityMargin); v != nil {
		return float64(*v)
	}
	v := tw.ParseLength(DefaultProximityMargin)
	return float64(*v)
}

// tomlItem is the TOML shape of one item in a config file.
type tomlItem struct {
	ID             string `toml:"id"`
	Image          string `toml:"image"`
	Label          string `toml:"label"`
	AccessibleName string `toml:"accessible_name"`
	InvertForDark  bool   `toml:"invert_for_dark"`
	Classes        string `toml:"classes"`
}

// tomlConfig is the top-level TOML shape.
type tomlConfig struct {
	Config
	Items []tomlItem `toml:"items"`
}

// LoadConfig parses a TOML configuration. Callbacks cannot be configured
// from TOML; set OnItemActivated on the returned Config before use.
//
// Example:
//
//	duration_seconds = 20
//	gap = "2rem"
//
//	[[items]]
//	image = "https://example.com/logo.png"
//	label = "Example"
func LoadConfig(data []byte) (Config, error) {
	var tc tomlConfig
	if err := toml.Unmarshal(data, &tc); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := tc.Config
	for _, it := range tc.Items {
		cfg.Items = append(cfg.Items, Item{
			ID:             it.ID,
			ImageSource:    it.Image,
			Label:          it.Label,
			AccessibleName: it.AccessibleName,
			InvertForDark:  it.InvertForDark,
			Classes:        it.Classes,
		})
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a TOML configuration file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadConfig(data)
}

package marquee

import "testing"

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.normalized()

	if cfg.DurationSeconds != 30 {
		t.Errorf("DurationSeconds = %v, want 30", cfg.DurationSeconds)
	}
	if cfg.SpeedMultiplier != 1 {
		t.Errorf("SpeedMultiplier = %v, want 1", cfg.SpeedMultiplier)
	}
	if cfg.BaseWidthPixels != 5000 {
		t.Errorf("BaseWidthPixels = %v, want 5000", cfg.BaseWidthPixels)
	}
	if cfg.Gap != "3rem" {
		t.Errorf("Gap = %q, want 3rem", cfg.Gap)
	}
	if cfg.DisableLazyGating {
		t.Error("lazy gating must default to enabled")
	}
	if cfg.ProximityMargin != "50px" {
		t.Errorf("ProximityMargin = %q, want 50px", cfg.ProximityMargin)
	}
}

func TestConfigGapPixels(t *testing.T) {
	tests := []struct {
		gap  string
		want float64
		ok   bool
	}{
		{"3rem", 48, true},
		{"24px", 24, true},
		{"24", 24, true},
		{"wide", 0, false},
	}
	for _, tt := range tests {
		cfg := Config{Gap: tt.gap}
		got, ok := cfg.gapPixels()
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("gapPixels(%q) = %v %v, want %v %v", tt.gap, got, ok, tt.want, tt.ok)
		}
	}
}

func TestConfigProximityMarginFallback(t *testing.T) {
	if got := (Config{ProximityMargin: "2rem"}).proximityMarginPixels(); got != 32 {
		t.Errorf("margin = %v, want 32", got)
	}
	if got := (Config{ProximityMargin: "nonsense"}).proximityMarginPixels(); got != 50 {
		t.Errorf("unparseable margin = %v, want default 50", got)
	}
}

func TestLoadConfig(t *testing.T) {
	data := []byte(`
duration_seconds = 20
speed_multiplier = 1.5
gap = "2rem"
disable_lazy_gating = true

[[items]]
id = "acme"
image = "https://example.com/acme.png"
label = "Acme"
invert_for_dark = true

[[items]]
label = "Plain text"
`)

	cfg, err := LoadConfig(data)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.DurationSeconds != 20 {
		t.Errorf("DurationSeconds = %v, want 20", cfg.DurationSeconds)
	}
	if cfg.SpeedMultiplier != 1.5 {
		t.Errorf("SpeedMultiplier = %v, want 1.5", cfg.SpeedMultiplier)
	}
	if cfg.Gap != "2rem" {
		t.Errorf("Gap = %q, want 2rem", cfg.Gap)
	}
	if !cfg.DisableLazyGating {
		t.Error("expected lazy gating disabled")
	}
	if len(cfg.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(cfg.Items))
	}
	first := cfg.Items[0]
	if first.ID != "acme" || first.ImageSource != "https://example.com/acme.png" ||
		first.Label != "Acme" || !first.InvertForDark {
		t.Errorf("first item = %+v", first)
	}
	if cfg.Items[1].Label != "Plain text" {
		t.Errorf("second item = %+v", cfg.Items[1])
	}
}

func TestLoadConfigRejectsBadTOML(t *testing.T) {
	if _, err := LoadConfig([]byte("duration_seconds = [broken")); err == nil {
		t.Error("expected parse error")
	}
}

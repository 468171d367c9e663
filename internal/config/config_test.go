package config

import (
	"testing"

	"github.com/vovakirdan/klondike/internal/games/klondike/core"
)

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset     Preset
		draw       int
		solvable   bool
		thoughtful bool
	}{
		{PresetClassic, 3, false, false},
		{PresetEasy, 1, false, true},
		{PresetOrdered, 3, true, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultKlondikeConfig()
			if err := ApplyPreset(&cfg, tc.preset); err != nil {
				t.Fatalf("ApplyPreset() failed: %v", err)
			}
			if cfg.Deal.DrawCount != tc.draw || cfg.Deal.Solvable != tc.solvable || cfg.Options.Thoughtful != tc.thoughtful {
				t.Errorf("got %+v", cfg)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset produced an invalid config: %v", err)
			}
		})
	}

	cfg := DefaultKlondikeConfig()
	if err := ApplyPreset(&cfg, "vegas"); err == nil {
		t.Error("unknown preset accepted")
	}
}

func TestSessionOptions(t *testing.T) {
	cfg := DefaultKlondikeConfig()
	cfg.Options.AllowFaceDownCheat = true
	cfg.Deal.DrawCount = 1

	opts := cfg.SessionOptions()
	want := core.Options{AllowFaceDownCheat: true, DrawCount: 1}
	if opts != want {
		t.Errorf("SessionOptions() = %+v, want %+v", opts, want)
	}
	if cfg.ScoringTable() != core.DefaultScoring() {
		t.Errorf("ScoringTable() = %+v", cfg.ScoringTable())
	}
}

// Package config provides YAML-based game configuration loading and the
// named variant presets of the card table.
package config

import (
	"fmt"

	"github.com/vovakirdan/klondike/internal/games/klondike/core"
)

// KlondikeConfig contains all configuration for a Klondike game.
type KlondikeConfig struct {
	Deal    DealConfig    `yaml:"deal"`
	Options OptionsConfig `yaml:"options"`
	Scoring ScoringConfig `yaml:"scoring"`
}

// DealConfig controls how a game is laid out.
type DealConfig struct {
	Solvable  bool `yaml:"solvable"`   // factory-order deal instead of a shuffle
	DrawCount int  `yaml:"draw_count"` // cards turned per draw, 1 to 3
}

// OptionsConfig holds the player aids.
type OptionsConfig struct {
	Thoughtful         bool `yaml:"thoughtful"`            // show face-down cards dimmed
	AllowFaceDownCheat bool `yaml:"allow_face_down_cheat"` // face-down cards can be picked up
}

// ScoringConfig is the points table.
type ScoringConfig struct {
	ToFoundation        int `yaml:"to_foundation"`
	WasteToTableau      int `yaml:"waste_to_tableau"`
	FoundationToTableau int `yaml:"foundation_to_tableau"`
	Uncover             int `yaml:"uncover"`
}

// Validate reports settings the engine cannot honor.
func (c KlondikeConfig) Validate() error {
	if c.Deal.DrawCount < 1 || c.Deal.DrawCount > core.DefaultDrawCount {
		return fmt.Errorf("deal.draw_count must be between 1 and %d, got %d", core.DefaultDrawCount, c.Deal.DrawCount)
	}
	return nil
}

// SessionOptions converts the config to engine options.
func (c KlondikeConfig) SessionOptions() core.Options {
	return core.Options{
		Solvable:           c.Deal.Solvable,
		AllowFaceDownCheat: c.Options.AllowFaceDownCheat,
		Thoughtful:         c.Options.Thoughtful,
		DrawCount:          c.Deal.DrawCount,
	}
}

// ScoringTable converts the config to the engine's scoring table.
func (c KlondikeConfig) ScoringTable() core.Scoring {
	return core.Scoring{
		ToFoundation:        c.Scoring.ToFoundation,
		WasteToTableau:      c.Scoring.WasteToTableau,
		FoundationToTableau: c.Scoring.FoundationToTableau,
		Uncover:             c.Scoring.Uncover,
	}
}

// Preset represents a named game variant.
type Preset string

const (
	PresetClassic Preset = "classic" // draw three, shuffled
	PresetEasy    Preset = "easy"    // draw one, face-down cards visible
	PresetOrdered Preset = "ordered" // draw three, factory-order deal
)

// Presets lists the known presets in menu order.
var Presets = []Preset{PresetClassic, PresetEasy, PresetOrdered}

// ApplyPreset modifies the config to match a preset.
func ApplyPreset(cfg *KlondikeConfig, preset Preset) error {
	switch preset {
	case PresetClassic:
		cfg.Deal.DrawCount = 3
		cfg.Deal.Solvable = false
		cfg.Options.Thoughtful = false
	case PresetEasy:
		cfg.Deal.DrawCount = 1
		cfg.Deal.Solvable = false
		cfg.Options.Thoughtful = true
	case PresetOrdered:
		cfg.Deal.DrawCount = 3
		cfg.Deal.Solvable = true
	default:
		return fmt.Errorf("unknown preset %q", preset)
	}
	return nil
}

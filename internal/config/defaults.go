package config

import (
	_ "embed"

	"github.com/vovakirdan/klondike/internal/games/klondike/core"
)

//go:embed defaults/klondike.yaml
var defaultKlondikeYAML []byte

// DefaultKlondikeConfig returns the hardcoded Klondike configuration.
func DefaultKlondikeConfig() KlondikeConfig {
	sc := core.DefaultScoring()
	return KlondikeConfig{
		Deal: DealConfig{
			Solvable:  false,
			DrawCount: core.DefaultDrawCount,
		},
		Options: OptionsConfig{
			Thoughtful:         false,
			AllowFaceDownCheat: false,
		},
		Scoring: ScoringConfig{
			ToFoundation:        sc.ToFoundation,
			WasteToTableau:      sc.WasteToTableau,
			FoundationToTableau: sc.FoundationToTableau,
			Uncover:             sc.Uncover,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultKlondikeYAML
}

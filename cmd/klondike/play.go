package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/klondike/internal/config"
	"github.com/vovakirdan/klondike/internal/games/klondike"
	"github.com/vovakirdan/klondike/internal/platform/tui"
	"github.com/vovakirdan/klondike/internal/registry"
)

var (
	flagPreset     string
	flagDraw       int
	flagSolvable   bool
	flagThoughtful bool
	flagCheat      bool
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Deal a game",
	Long: `Deal a game of Klondike.

Controls:
  Arrows/hjkl  - Move between piles and along a column
  Space/Enter  - Pick up cards, or drop them on the pile under the cursor
  T            - Send the card under the cursor to its best pile
  D            - Draw from the stock
  U            - Undo
  F            - Finish once every card is face up
  R / N        - Replay this deal / deal a new game
  P            - Pause
  Esc          - Drop held cards, or leave
  Q/Ctrl+C     - Quit
  ?            - All keys

The mouse works too: click a card to pick it up, click a pile to drop.

Presets:
  classic  - Draw three, random deal
  easy     - Draw one, face-down cards shown
  ordered  - Draw three, deck dealt in factory order

Examples:
  klondike play
  klondike play klondike_ordered
  klondike play --preset easy
  klondike play --draw 1 --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPreset, "preset", "", "Table preset: classic, easy, ordered")
	playCmd.Flags().IntVar(&flagDraw, "draw", 0, "Cards turned per draw, 1 to 3")
	playCmd.Flags().BoolVar(&flagSolvable, "solvable", false, "Deal the deck in factory order")
	playCmd.Flags().BoolVar(&flagThoughtful, "thoughtful", false, "Show face-down cards")
	playCmd.Flags().BoolVar(&flagCheat, "cheat", false, "Allow picking up face-down cards")
}

// applyFlags layers the preset and explicit flags over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.KlondikeConfig) error {
	if flagPreset != "" {
		if err := config.ApplyPreset(cfg, config.Preset(flagPreset)); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("draw") {
		cfg.Deal.DrawCount = flagDraw
	}
	if flags.Changed("solvable") {
		cfg.Deal.Solvable = flagSolvable
	}
	if flags.Changed("thoughtful") {
		cfg.Options.Thoughtful = flagThoughtful
	}
	if flags.Changed("cheat") {
		cfg.Options.AllowFaceDownCheat = flagCheat
	}
	return cfg.Validate()
}

func runPlay(cmd *cobra.Command, args []string) {
	variant := klondike.IDRandom
	if len(args) == 1 {
		variant = args[0]
	}

	if !registry.Exists(variant) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", variant)
		fmt.Fprintln(os.Stderr, "Run 'klondike list' to see available variants.")
		os.Exit(1)
	}

	gameCfg := loadGameConfig()
	if err := applyFlags(cmd, &gameCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game, err := registry.Create(variant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, tui.ModelOptions{
		Store:   store,
		Runtime: runtimeConfig(),
		Game:    gameCfg,
		Logger:  logger,
		Player:  playerName(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

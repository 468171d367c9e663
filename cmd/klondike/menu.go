package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/klondike/internal/platform/tui"
	"github.com/vovakirdan/klondike/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a variant and table options interactively",
	Long: `Start in menu mode.

Use arrow keys or j/k to navigate, Left/Right to change an option,
Enter to deal. Leaving a game returns to the menu.

Controls:
  Up/Down/j/k     - Navigate menu
  Left/Right/h/l  - Change option
  Enter/Space     - Deal the selected variant
  Tab             - Scoreboard
  Q               - Quit

Examples:
  klondike menu
  klondike menu --config ./table.yaml
  klondike menu --db ./klondike.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	gameCfg := loadGameConfig()

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

	cfg := runtimeConfig()
	player := playerName()

	for {
		menuResult, err := tui.RunMenu(store, cfg, gameCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Keep size and option changes made in the menu
		cfg = menuResult.Config
		gameCfg = menuResult.Game

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		if menuResult.GameID == "" {
			break
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// A fresh deal every time unless --seed pins it
		runtime := cfg
		if flagSeed == 0 {
			runtime.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, tui.ModelOptions{
			Store:   store,
			Runtime: runtime,
			Game:    gameCfg,
			Logger:  logger,
			Player:  player,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}

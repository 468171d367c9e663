// klondike is a terminal Klondike solitaire table.
//
// Usage:
//
//	klondike play [variant]  - Deal a game (default: klondike)
//	klondike menu            - Pick a variant and options interactively
//	klondike list            - List available variants
//	klondike scores [variant] - Show best scores and win rate
//	klondike serve           - Start SSH server for remote play
//	klondike config          - Write the default config file
//
// Global flags:
//
//	--seed <value>    - Set RNG seed for a reproducible deal
//	--db <path>       - Set database path (default: ~/.klondike/klondike.db)
//	--config <path>   - Use a custom config YAML
//	--log-file <path> - Write logs to a file
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/klondike/internal/config"
	"github.com/vovakirdan/klondike/internal/core"
	// Import the game to register its variants
	_ "github.com/vovakirdan/klondike/internal/games/klondike"
	"github.com/vovakirdan/klondike/internal/storage"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogFile string
	flagDebug   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "klondike",
	Short: "Klondike solitaire in your terminal",
	Long: `Klondike is the classic patience game for the terminal.

Available commands:
  play     - Deal a game directly
  menu     - Pick a variant and table options
  list     - Show the available variants
  scores   - View best scores and win rates
  serve    - Start SSH server for remote play
  config   - Write the default config file

Examples:
  klondike play
  klondike play klondike_ordered
  klondike play --draw 1 --thoughtful
  klondike menu
  klondike serve --ssh :2222
  klondike scores`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 10, "Tick rate (refreshes per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.klondike/klondike.db", "Path to games database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log debug messages")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// runtimeConfig sizes the table to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// newLogger returns a file logger when --log-file is set. The terminal
// belongs to the table while a game runs, so there is no stderr fallback.
func newLogger() (*log.Logger, func(), error) {
	if flagLogFile == "" {
		return nil, func() {}, nil
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "klondike",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, func() { f.Close() }, nil
}

// loadGameConfig reads the table options from --config or the search path.
func loadGameConfig() config.KlondikeConfig {
	cfg, err := config.LoadKlondike(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openStore opens the games database, or returns nil so play can go on
// without records.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open games database: %v\n", err)
		return nil
	}
	return store
}

func playerName() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

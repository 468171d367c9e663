package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/klondike/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Write the default config file",
	Long: `Write the built-in defaults to a YAML file you can edit.

Without a path the file goes to ~/.klondike/configs/klondike.yaml,
which every command reads on start. Existing files are never replaced.

Examples:
  klondike config
  klondike config ./table.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfig,
}

func runConfig(_ *cobra.Command, args []string) {
	path := config.UserConfigPath()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot find home directory, pass a path")
		os.Exit(1)
	}

	if err := config.WriteDefault(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

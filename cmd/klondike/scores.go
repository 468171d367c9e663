package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/klondike/internal/games/klondike"
	"github.com/vovakirdan/klondike/internal/registry"
	"github.com/vovakirdan/klondike/internal/storage"
)

var (
	flagLimit  int
	flagClear  bool
	flagRecent bool
	flagPlayer string
	flagGameID string
	flagAll    bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show best scores for a variant",
	Long: `Display the best scores and the win rate for a variant.

Other views:
  --recent         latest games of every variant
  --player <name>  latest games of one player
  --game <id>      one recorded game
  --all            statistics for every variant played

Examples:
  klondike scores
  klondike scores klondike_ordered
  klondike scores --limit 20
  klondike scores --limit 0        # every game
  klondike scores --recent
  klondike scores --player alice
  klondike scores --all
  klondike scores klondike --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of games to show (0 = all)")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every record of the variant")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the latest games of every variant")
	scoresCmd.Flags().StringVar(&flagPlayer, "player", "", "Show the latest games of a player")
	scoresCmd.Flags().StringVar(&flagGameID, "game", "", "Show one game by its ID")
	scoresCmd.Flags().BoolVar(&flagAll, "all", false, "Show statistics for every variant")
}

func runScores(_ *cobra.Command, args []string) {
	variant := klondike.IDRandom
	if len(args) == 1 {
		variant = args[0]
	}

	if !registry.Exists(variant) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", variant)
		fmt.Fprintln(os.Stderr, "Run 'klondike list' to see available variants.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening games database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagGameID != "":
		err = showGame(os.Stdout, store, flagGameID)
	case flagAll:
		err = showAllStats(os.Stdout, store)
	case flagRecent:
		err = showRecent(os.Stdout, store, flagLimit)
	case flagPlayer != "":
		err = showPlayer(os.Stdout, store, flagPlayer, flagLimit)
	case flagClear:
		err = clearScores(os.Stdout, store, variant)
	default:
		err = showTopScores(os.Stdout, store, variant, flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func variantTitle(id string) string {
	for _, g := range registry.List() {
		if g.ID == id {
			return g.Title
		}
	}
	return id
}

func result(won bool) string {
	if won {
		return "won"
	}
	return "lost"
}

// printGames writes one row per game, ranked when rank is true.
func printGames(w io.Writer, games []storage.GameRecord, rank bool) {
	first := "ID"
	if rank {
		first = "Rank"
	}
	fmt.Fprintf(w, "  %-26s  %-6s  %-6s  %-5s  %-8s  %-12s  %s\n", first, "Score", "Result", "Moves", "Time", "Player", "Date")
	fmt.Fprintf(w, "  %-26s  %-6s  %-6s  %-5s  %-8s  %-12s  %s\n", "----", "-----", "------", "-----", "----", "------", "----")

	for i, g := range games {
		lead := g.ID
		if rank {
			lead = fmt.Sprint(i + 1)
		}
		fmt.Fprintf(w, "  %-26s  %-6d  %-6s  %-5d  %-8s  %-12s  %s\n",
			lead, g.Score, result(g.Won), g.Moves, g.Duration.Round(time.Second), g.Player,
			g.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

func showTopScores(w io.Writer, store *storage.Store, variant string, limit int) error {
	title := variantTitle(variant)

	var (
		scores []storage.GameRecord
		err    error
	)
	if limit <= 0 {
		scores, err = store.AllScores(variant)
	} else {
		scores, err = store.TopScores(variant, limit)
	}
	if err != nil {
		return fmt.Errorf("cannot retrieve scores: %w", err)
	}

	fmt.Fprintf(w, "High Scores - %s\n", title)
	fmt.Fprintln(w)

	if len(scores) == 0 {
		fmt.Fprintln(w, "No games recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Play 'klondike play %s' to set the first score!\n", variant)
		return nil
	}

	printGames(w, scores, true)

	fmt.Fprintln(w)
	if rate, played, err := store.WinRate(variant); err == nil {
		fmt.Fprintf(w, "Won %.0f%% of %d games\n", rate*100, played)
	}
	if stats, err := store.GetGameStats(variant); err == nil && stats.BestTime > 0 {
		fmt.Fprintf(w, "Best: %d  Fastest win: %s\n", stats.HighScore, stats.BestTime.Round(time.Second))
	}
	return nil
}

func showRecent(w io.Writer, store *storage.Store, limit int) error {
	games, err := store.RecentGames(limit)
	if err != nil {
		return fmt.Errorf("cannot retrieve games: %w", err)
	}
	fmt.Fprintln(w, "Recent games")
	fmt.Fprintln(w)
	if len(games) == 0 {
		fmt.Fprintln(w, "No games recorded yet.")
		return nil
	}
	printGames(w, games, false)
	return nil
}

func showPlayer(w io.Writer, store *storage.Store, player string, limit int) error {
	games, err := store.PlayerGames(player, limit)
	if err != nil {
		return fmt.Errorf("cannot retrieve games: %w", err)
	}
	fmt.Fprintf(w, "Games of %s\n", player)
	fmt.Fprintln(w)
	if len(games) == 0 {
		fmt.Fprintln(w, "No games recorded for this player.")
		return nil
	}
	printGames(w, games, false)
	return nil
}

func showGame(w io.Writer, store *storage.Store, id string) error {
	g, err := store.GameByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no game with ID %s", id)
	}
	if err != nil {
		return err
	}

	draw := fmt.Sprintf("draw %d", g.DrawCount)
	if g.Solvable {
		draw += ", ordered deal"
	}
	fmt.Fprintf(w, "Game %s\n\n", g.ID)
	fmt.Fprintf(w, "  Variant  %s (%s)\n", variantTitle(g.Variant), draw)
	fmt.Fprintf(w, "  Result   %s\n", result(g.Won))
	fmt.Fprintf(w, "  Score    %d\n", g.Score)
	fmt.Fprintf(w, "  Moves    %d\n", g.Moves)
	fmt.Fprintf(w, "  Time     %s\n", g.Duration.Round(time.Second))
	fmt.Fprintf(w, "  Player   %s\n", g.Player)
	fmt.Fprintf(w, "  Played   %s\n", g.CreatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func showAllStats(w io.Writer, store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return fmt.Errorf("cannot retrieve stats: %w", err)
	}
	fmt.Fprintln(w, "Statistics")
	fmt.Fprintln(w)
	if len(all) == 0 {
		fmt.Fprintln(w, "No games recorded yet.")
		return nil
	}

	variants := make([]string, 0, len(all))
	for v := range all {
		variants = append(variants, v)
	}
	sort.Strings(variants)

	fmt.Fprintf(w, "  %-24s  %-5s  %-5s  %-6s  %-6s  %-6s  %s\n", "Variant", "Games", "Wins", "Rate", "Best", "Avg", "Fastest")
	fmt.Fprintf(w, "  %-24s  %-5s  %-5s  %-6s  %-6s  %-6s  %s\n", "-------", "-----", "----", "----", "----", "---", "-------")
	for _, v := range variants {
		st := all[v]
		fastest := "-"
		if st.BestTime > 0 {
			fastest = st.BestTime.Round(time.Second).String()
		}
		fmt.Fprintf(w, "  %-24s  %-5d  %-5d  %-6s  %-6d  %-6.0f  %s\n",
			variantTitle(v), st.GamesCount, st.Wins, fmt.Sprintf("%.0f%%", st.WinRate()*100),
			st.HighScore, st.AvgScore, fastest)
	}
	return nil
}

func clearScores(w io.Writer, store *storage.Store, variant string) error {
	if err := store.ClearScores(variant); err != nil {
		return fmt.Errorf("cannot clear scores: %w", err)
	}
	fmt.Fprintf(w, "Cleared all records for %s.\n", variantTitle(variant))
	return nil
}

package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/klondike/internal/config"
	"github.com/vovakirdan/klondike/internal/core"
	_ "github.com/vovakirdan/klondike/internal/games/klondike"
	"github.com/vovakirdan/klondike/internal/registry"
	"github.com/vovakirdan/klondike/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
		quit bool
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"vim right", runes("l"), core.ActionRight, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionSelect, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionSelect, false},
		{"tap", runes("t"), core.ActionTap, false},
		{"draw", runes("d"), core.ActionDraw, false},
		{"undo", runes("u"), core.ActionUndo, false},
		{"finish", runes("f"), core.ActionAutoComplete, false},
		{"restart", runes("r"), core.ActionRestart, false},
		{"new", runes("n"), core.ActionNewGame, false},
		{"pause", runes("p"), core.ActionPause, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"quit", runes("q"), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runes("z"), core.ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, quit := km.MapKey(tt.msg)
			if got != tt.want || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), got, quit, tt.want, tt.quit)
			}
		})
	}
}

func TestMapMouse(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	km.MapMouseToFrame(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, &frame)
	km.MapMouseToFrame(tea.MouseMsg{X: 9, Y: 9, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, &frame)
	km.MapMouseToFrame(tea.MouseMsg{X: 9, Y: 9, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, &frame)

	if len(frame.Clicks) != 1 || frame.Clicks[0] != (core.Point{X: 3, Y: 4}) {
		t.Errorf("Clicks = %v, want one at (3,4)", frame.Clicks)
	}
}

func newTestModel(t *testing.T, embedded bool) (Model, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	game, err := registry.Create("klondike_ordered")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	m := NewModel(game, ModelOptions{
		Store:    store,
		Runtime:  core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 1},
		Game:     config.DefaultKlondikeConfig(),
		Player:   "tester",
		Embedded: embedded,
	})
	if err := m.Err(); err != nil {
		t.Fatalf("NewModel() error: %v", err)
	}
	m.Init()
	return m, store
}

// press sends a key followed by a tick.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	next, _ = next.(Model).Update(TickMsg{})
	return next.(Model)
}

func TestAbandonedGameIsRecorded(t *testing.T) {
	m, store := newTestModel(t, false)

	m = press(t, m, runes("d"))
	if m.gameState.Moves != 1 {
		t.Fatalf("Moves = %d after draw", m.gameState.Moves)
	}
	m = press(t, m, runes("n"))
	if m.gameState.Moves != 0 {
		t.Fatalf("Moves = %d after new deal", m.gameState.Moves)
	}

	games, err := store.RecentGames(10)
	if err != nil {
		t.Fatalf("RecentGames() failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("recorded %d games, want 1", len(games))
	}
	g := games[0]
	if g.Variant != "klondike_ordered" || g.Won || g.Moves != 1 || !g.Solvable || g.DrawCount != 3 || g.Player != "tester" {
		t.Errorf("record = %+v", g)
	}

	// An untouched deal is not recorded on quit.
	next, cmd := m.Update(runes("q"))
	if cmd == nil || !next.(Model).IsQuitting() {
		t.Error("q did not quit")
	}
	if games, _ := store.RecentGames(10); len(games) != 1 {
		t.Errorf("quitting a fresh deal recorded it: %d games", len(games))
	}
}

func TestEmbeddedBackToMenu(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("Esc did not return to the menu")
	}
	if m.IsQuitting() {
		t.Error("embedded model quit the program")
	}
	if m.View() != "" {
		t.Error("view should be empty after leaving")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, false)
	next, _ := m.Update(runes("?"))
	m = next.(Model)
	if !m.showHelp {
		t.Fatal("? did not open help")
	}
	next, _ = m.Update(runes("d"))
	m = next.(Model)
	if m.showHelp || !m.inputFrame.Empty() {
		t.Error("key on the help page should only close it")
	}
}

func TestMenuOptions(t *testing.T) {
	m := NewMenuModel(nil, core.DefaultConfig(), config.DefaultKlondikeConfig())
	if len(m.items) < 2 {
		t.Fatalf("menu lists %d games", len(m.items))
	}

	// Move to the draw option.
	m.cursor = len(m.items) + int(optionDraw)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(MenuModel)
	if got := m.GameConfig().Deal.DrawCount; got != 1 {
		t.Errorf("draw 3 + right = %d, want wrap to 1", got)
	}

	m.cursor = len(m.items) + int(optionPreset)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(MenuModel)
	cfg := m.GameConfig()
	if cfg.Deal.DrawCount != 1 || !cfg.Options.Thoughtful {
		t.Errorf("easy preset gave %+v", cfg)
	}

	m.cursor = 0
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if m.Selected() == nil || m.Selected().GameID != "klondike" {
		t.Errorf("Selected() = %+v", m.Selected())
	}
}

func TestRenderScreenColors(t *testing.T) {
	s := core.NewScreen(4, 1)
	s.DrawTextColor(0, 0, "A♥", core.ColorRed)
	if out := RenderScreen(s); !strings.Contains(out, "A♥") {
		t.Errorf("RenderScreen() = %q", out)
	}
}

func TestScoreboardSwitchesVariant(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for _, rec := range []storage.GameRecord{
		{Variant: "klondike", Won: true, Score: 120, Moves: 90},
		{Variant: "klondike", Score: 40, Moves: 30},
		{Variant: "klondike_ordered", Won: true, Score: 300, Moves: 100},
	} {
		if _, err := store.SaveGame(rec); err != nil {
			t.Fatalf("SaveGame() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	if len(m.scores) != 2 || m.scores[0].Score != 120 {
		t.Fatalf("klondike scores = %+v", m.scores)
	}
	if m.stats == nil || m.stats.Wins != 1 || m.stats.GamesCount != 2 {
		t.Errorf("klondike stats = %+v", m.stats)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if len(m.scores) != 1 || m.scores[0].Score != 300 {
		t.Errorf("klondike_ordered scores = %+v", m.scores)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("Esc did not go back")
	}
}

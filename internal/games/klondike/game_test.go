package klondike

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/klondike/internal/config"
	platformcore "github.com/vovakirdan/klondike/internal/core"
	"github.com/vovakirdan/klondike/internal/games/klondike/core"
	"github.com/vovakirdan/klondike/internal/registry"
)

// newOrdered returns an ordered-deal game on an 80x24 screen.
// Columns top out at A♥ 2♥ 4♥ 7♥ J♥ 3♣ 9♣ and the stock top is 3♠.
func newOrdered(t *testing.T, mutate func(*config.KlondikeConfig)) *Game {
	t.Helper()
	g := NewOrdered()
	cfg := config.DefaultKlondikeConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	if err := g.Configure(cfg); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 1})
	return g
}

func step(g *Game, actions ...platformcore.Action) platformcore.StepResult {
	in := platformcore.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

func click(g *Game, x, y int) platformcore.StepResult {
	in := platformcore.NewInputFrame()
	in.Click(x, y)
	return g.Step(in)
}

func TestRegistered(t *testing.T) {
	tests := []struct {
		id    string
		title string
	}{
		{IDRandom, "Klondike"},
		{IDOrdered, "Klondike (Ordered Deal)"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			g, err := registry.Create(tt.id)
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			if g.ID() != tt.id || g.Title() != tt.title {
				t.Errorf("got %q/%q, want %q/%q", g.ID(), g.Title(), tt.id, tt.title)
			}
			if _, ok := g.(registry.Configurable); !ok {
				t.Error("game does not take config")
			}
		})
	}
}

func TestOrderedDeal(t *testing.T) {
	g := newOrdered(t, nil)
	snap := g.Snapshot()

	if snap.Phase != "playing" || snap.Stock != 24 || len(snap.Waste) != 0 {
		t.Errorf("snapshot = %+v", snap)
	}
	if want := []string{"A♥"}; !reflect.DeepEqual(snap.Tableau[0], want) {
		t.Errorf("column 0 = %v, want %v", snap.Tableau[0], want)
	}
	if want := []string{"##", "2♥"}; !reflect.DeepEqual(snap.Tableau[1], want) {
		t.Errorf("column 1 = %v, want %v", snap.Tableau[1], want)
	}
	if snap.Cursor != (Cursor{Pile: core.PileStock}) {
		t.Errorf("cursor starts at %+v", snap.Cursor)
	}
}

func TestOrderedIgnoresSolvableSetting(t *testing.T) {
	g := newOrdered(t, func(c *config.KlondikeConfig) { c.Deal.Solvable = false })
	if !g.Options().Solvable {
		t.Error("ordered variant dealt a shuffled game")
	}
}

func TestConfigureRejectsBadDrawCount(t *testing.T) {
	cfg := config.DefaultKlondikeConfig()
	cfg.Deal.DrawCount = 5
	if err := New().Configure(cfg); err == nil {
		t.Error("Configure() accepted draw count 5")
	}
}

func TestTapToFoundation(t *testing.T) {
	g := newOrdered(t, nil)

	step(g, platformcore.ActionDown) // stock -> column 0
	step(g, platformcore.ActionTap)  // A♥ -> foundation
	step(g, platformcore.ActionRight)
	step(g, platformcore.ActionTap) // 2♥ -> foundation, uncovers 3♥

	snap := g.Snapshot()
	if snap.Foundation[0] != 2 {
		t.Errorf("foundation 0 has %d cards, want 2", snap.Foundation[0])
	}
	if want := []string{"3♥"}; !reflect.DeepEqual(snap.Tableau[1], want) {
		t.Errorf("column 1 = %v, want %v", snap.Tableau[1], want)
	}
	if snap.Score != 25 || snap.Moves != 2 {
		t.Errorf("score %d moves %d, want 25 and 2", snap.Score, snap.Moves)
	}

	step(g, platformcore.ActionUndo)
	if got := g.State().Score; got != 10 {
		t.Errorf("score after undo = %d, want 10", got)
	}
}

func TestDrawTurnsCardsOneByOne(t *testing.T) {
	g := newOrdered(t, nil)
	step(g, platformcore.ActionDraw)

	snap := g.Snapshot()
	if want := []string{"3♠", "4♠", "5♠"}; !reflect.DeepEqual(snap.Waste, want) {
		t.Errorf("waste = %v, want %v", snap.Waste, want)
	}
	if snap.Stock != 21 {
		t.Errorf("stock = %d, want 21", snap.Stock)
	}

	// Select on the stock draws too.
	step(g, platformcore.ActionSelect)
	if snap := g.Snapshot(); snap.Stock != 18 {
		t.Errorf("stock after select = %d, want 18", snap.Stock)
	}
}

func TestFaceDownCursor(t *testing.T) {
	tests := []struct {
		name  string
		cheat bool
		want  Cursor
	}{
		{"blocked", false, Cursor{Pile: core.PileFoundation, Index: 1}},
		{"cheat", true, Cursor{Pile: core.PileTableau, Index: 4, Depth: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newOrdered(t, func(c *config.KlondikeConfig) { c.Options.AllowFaceDownCheat = tt.cheat })
			step(g, platformcore.ActionDown)
			for range 4 {
				step(g, platformcore.ActionRight)
			}
			step(g, platformcore.ActionUp)
			if !tt.cheat {
				if got := g.Cursor(); got != tt.want {
					t.Errorf("cursor = %+v, want %+v", got, tt.want)
				}
				return
			}
			step(g, platformcore.ActionUp)
			if got := g.Cursor(); got != tt.want {
				t.Errorf("cursor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCheatRunToEmptyColumn(t *testing.T) {
	g := newOrdered(t, func(c *config.KlondikeConfig) { c.Options.AllowFaceDownCheat = true })

	step(g, platformcore.ActionDown)
	step(g, platformcore.ActionTap) // empty column 0
	for range 4 {
		step(g, platformcore.ActionRight)
	}
	step(g, platformcore.ActionUp)
	step(g, platformcore.ActionUp)
	step(g, platformcore.ActionSelect)
	if card, ok := g.Held(); !ok || card.Rank != core.King {
		t.Fatalf("Held() = %s, %v, want K♥", card, ok)
	}
	for range 3 {
		step(g, platformcore.ActionRight)
	}
	step(g, platformcore.ActionSelect)

	snap := g.Snapshot()
	if len(snap.Tableau[0]) != 3 {
		t.Errorf("column 0 = %v, want the K♥ run", snap.Tableau[0])
	}
	if want := []string{"##", "A♣"}; !reflect.DeepEqual(snap.Tableau[4], want) {
		t.Errorf("column 4 = %v, want %v", snap.Tableau[4], want)
	}
	if snap.Held != "" {
		t.Errorf("still holding %s", snap.Held)
	}
}

func TestFailedDropReleases(t *testing.T) {
	g := newOrdered(t, nil)
	step(g, platformcore.ActionDown)
	step(g, platformcore.ActionSelect) // A♥
	step(g, platformcore.ActionRight)
	step(g, platformcore.ActionSelect) // onto 2♥: rejected

	if _, ok := g.Held(); ok {
		t.Error("card still held after a rejected drop")
	}
	if g.State().Moves != 0 {
		t.Error("rejected drop recorded a move")
	}
	if !strings.Contains(g.status, "Can't move") {
		t.Errorf("status = %q", g.status)
	}
}

func TestClicks(t *testing.T) {
	g := newOrdered(t, nil)
	x0 := g.layout.slotX(0)

	click(g, x0+1, tabY)
	if card, ok := g.Held(); !ok || card.String() != "A♥" {
		t.Fatalf("click did not pick up A♥: %s %v", card, ok)
	}
	click(g, x0+1, tabY+3) // below the column lands on its top card
	if g.Snapshot().Foundation[0] != 1 {
		t.Error("second click on the held card did not tap it")
	}

	click(g, x0, topY)
	if g.Snapshot().Stock != 21 {
		t.Error("click on the stock did not draw")
	}

	click(g, 0, 0) // outside every pile
	if _, ok := g.Held(); ok {
		t.Error("stray click picked something up")
	}
}

func TestBackAndQuit(t *testing.T) {
	g := newOrdered(t, nil)
	step(g, platformcore.ActionDown)
	step(g, platformcore.ActionSelect)

	if res := step(g, platformcore.ActionBack); res.Quit {
		t.Error("Back while holding should only drop the card")
	}
	if _, ok := g.Held(); ok {
		t.Error("Back did not drop the card")
	}
	if res := step(g, platformcore.ActionBack); !res.Quit {
		t.Error("Back with empty hands should leave")
	}
	if res := step(g, platformcore.ActionQuit); !res.Quit {
		t.Error("Quit did not leave")
	}
}

func TestPauseBlocksInput(t *testing.T) {
	g := newOrdered(t, nil)
	res := step(g, platformcore.ActionPause)
	if !res.State.Paused {
		t.Fatal("Pause did not pause")
	}
	step(g, platformcore.ActionDraw)
	if g.Snapshot().Stock != 24 {
		t.Error("draw accepted while paused")
	}
	if res := step(g, platformcore.ActionPause); res.State.Paused {
		t.Error("second Pause did not resume")
	}
}

func TestRestartAndNewGame(t *testing.T) {
	g := newOrdered(t, nil)
	step(g, platformcore.ActionDraw)
	step(g, platformcore.ActionRestart)
	if snap := g.Snapshot(); snap.Stock != 24 || snap.Moves != 0 {
		t.Errorf("restart left %+v", snap)
	}

	step(g, platformcore.ActionDraw)
	step(g, platformcore.ActionNewGame)
	if snap := g.Snapshot(); snap.Stock != 24 || snap.Moves != 0 {
		t.Errorf("new game left %+v", snap)
	}
}

func nearlyWon() *core.State {
	st := &core.State{}
	for i, suit := range core.Suits {
		for r := core.Ace; r < core.King; r++ {
			st.Foundation[i] = append(st.Foundation[i], core.NewCard(suit, r))
		}
		st.Tableau[i] = []core.Card{core.NewCard(suit, core.King)}
	}
	return st
}

func TestAutoCompleteWins(t *testing.T) {
	g := newOrdered(t, nil)
	if err := g.Session().NewGameFrom(nearlyWon(), g.Options()); err != nil {
		t.Fatalf("NewGameFrom() failed: %v", err)
	}
	if !g.Snapshot().Sortable {
		t.Fatal("four kings on the tableau should be sortable")
	}

	res := step(g, platformcore.ActionAutoComplete)
	if !res.State.GameOver {
		t.Fatal("auto-complete did not win")
	}
	if res.State.Score != 40 || res.State.Moves != 4 {
		t.Errorf("score %d moves %d, want 40 and 4", res.State.Score, res.State.Moves)
	}
	if g.status != "You won!" {
		t.Errorf("status = %q", g.status)
	}

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "YOU WON!") {
		t.Error("win overlay missing")
	}
}

func TestAutoCompleteNotReady(t *testing.T) {
	g := newOrdered(t, nil)
	step(g, platformcore.ActionAutoComplete)
	if g.State().Moves != 0 {
		t.Error("auto-complete moved cards in a covered game")
	}
	if g.status == "" {
		t.Error("no hint after a refused auto-complete")
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name       string
		thoughtful bool
		col1       string
	}{
		{"backs", false, "[###]"},
		{"thoughtful", true, "[3♥ ]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newOrdered(t, func(c *config.KlondikeConfig) { c.Options.Thoughtful = tt.thoughtful })
			screen := platformcore.NewScreen(80, 24)
			g.Render(screen)

			x := g.layout.slotX(1)
			row := []rune(screen.Row(tabY))
			if got := string(row[x : x+cardW]); got != tt.col1 {
				t.Errorf("column 1 bottom = %q, want %q", got, tt.col1)
			}
			if !strings.Contains(screen.Row(tabY), "[A♥ ]") {
				t.Errorf("row %d = %q, want A♥", tabY, screen.Row(tabY))
			}
			if !strings.Contains(screen.Row(topY), "[###]") {
				t.Errorf("stock missing from %q", screen.Row(topY))
			}
		})
	}
}

func TestTooSmall(t *testing.T) {
	g := New()
	g.Reset(platformcore.RuntimeConfig{ScreenW: 30, ScreenH: 10, Seed: 3})
	if !g.State().Paused {
		t.Error("tiny screen should report paused")
	}
	screen := platformcore.NewScreen(30, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("missing size warning")
	}

	g.Resize(80, 24)
	if g.State().Paused {
		t.Error("resize did not lift the size pause")
	}
	if g.Snapshot().Stock != 24 {
		t.Error("resize redealt the game")
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{65*time.Second + 900*time.Millisecond, "01:05"},
		{time.Hour + 2*time.Minute + 5*time.Second, "1:02:05"},
	}
	for _, tt := range tests {
		if got := clock(tt.d); got != tt.want {
			t.Errorf("clock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// Package klondike provides the Klondike solitaire table for the platform.
// It drives a core.Session from platform actions and draws the table.
package klondike

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/klondike/internal/config"
	platformcore "github.com/vovakirdan/klondike/internal/core"
	"github.com/vovakirdan/klondike/internal/games/klondike/core"
	"github.com/vovakirdan/klondike/internal/registry"
)

// Variant IDs.
const (
	IDRandom  = "klondike"
	IDOrdered = "klondike_ordered"
)

// Game implements registry.Game for Klondike.
type Game struct {
	ordered bool
	opts    core.Options
	scoring core.Scoring
	logger  *log.Logger
	clock   core.Clock

	session *core.Session
	seed    int64

	cursor  Cursor
	held    core.Card
	holding bool
	status  string

	// Screen dimensions
	screenW  int
	screenH  int
	tooSmall bool
	layout   layout
}

func init() {
	registry.Register(IDRandom, func() registry.Game {
		return New()
	})
	registry.Register(IDOrdered, func() registry.Game {
		return NewOrdered()
	})
}

// New creates a game with shuffled deals.
func New() *Game {
	return &Game{
		opts:    core.DefaultOptions(),
		scoring: core.DefaultScoring(),
	}
}

// NewOrdered creates a game that always deals the solvable factory-order layout.
func NewOrdered() *Game {
	g := New()
	g.ordered = true
	g.opts.Solvable = true
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.ordered {
		return IDOrdered
	}
	return IDRandom
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.ordered {
		return "Klondike (Ordered Deal)"
	}
	return "Klondike"
}

// Configure takes deal options, player aids and scoring from cfg.
func (g *Game) Configure(cfg config.KlondikeConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.opts = cfg.SessionOptions()
	if g.ordered {
		g.opts.Solvable = true
	}
	g.scoring = cfg.ScoringTable()
	return nil
}

// SetLogger routes session logs to l.
func (g *Game) SetLogger(l *log.Logger) {
	g.logger = l
}

// SetClock replaces the play clock's time source.
func (g *Game) SetClock(c core.Clock) {
	g.clock = c
}

// Options returns the options new deals use.
func (g *Game) Options() core.Options {
	return g.opts
}

// Session exposes the running session.
func (g *Game) Session() *core.Session {
	return g.session
}

// Reset deals a new game.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.seed = cfg.Seed
	if g.seed == 0 {
		g.seed = time.Now().UnixNano()
	}

	opts := []core.SessionOption{
		core.WithSeed(g.seed),
		core.WithScoring(g.scoring),
		core.WithListener(core.ListenerFuncs{Won: g.onWon}),
	}
	if g.logger != nil {
		opts = append(opts, core.WithLogger(g.logger))
	}
	if g.clock != nil {
		opts = append(opts, core.WithClock(g.clock))
	}
	g.session = core.NewSession(opts...)

	g.Resize(cfg.ScreenW, cfg.ScreenH)
	g.deal()
}

// Resize adapts the layout without touching the game.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.layout = newLayout(w, h)
	g.tooSmall = !g.layout.fits
}

func (g *Game) deal() {
	//nolint:errcheck // Step never re-enters a deal
	g.session.NewGame(g.opts)
	g.afterDeal()
}

func (g *Game) afterDeal() {
	g.cursor = Cursor{Pile: core.PileStock}
	g.holding = false
	g.status = ""
}

func (g *Game) onWon() {
	g.holding = false
	g.status = "You won!"
}

// Step applies one frame of input.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if in.Has(platformcore.ActionQuit) {
		return platformcore.StepResult{State: g.State(), Quit: true}
	}
	if in.Has(platformcore.ActionBack) {
		if !g.holding {
			return platformcore.StepResult{State: g.State(), Quit: true}
		}
		g.holding = false
	}

	if g.tooSmall {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionPause) {
		//nolint:errcheck // Pausing a won game is a no-op
		g.session.TogglePause()
		g.holding = false
	}
	if in.Has(platformcore.ActionNewGame) {
		g.deal()
	}
	if in.Has(platformcore.ActionRestart) {
		if err := g.session.Restart(); err == nil {
			g.afterDeal()
		}
	}

	if g.session.Phase() != core.PhasePlaying {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionLeft) {
		g.cursor = g.cursor.Left(g.session.State())
	}
	if in.Has(platformcore.ActionRight) {
		g.cursor = g.cursor.Right(g.session.State())
	}
	if in.Has(platformcore.ActionUp) {
		g.cursor = g.cursor.Up(g.session.State(), g.opts.AllowFaceDownCheat)
	}
	if in.Has(platformcore.ActionDown) {
		g.cursor = g.cursor.Down(g.session.State())
	}

	if in.Has(platformcore.ActionDraw) {
		g.draw()
	}
	if in.Has(platformcore.ActionSelect) {
		g.selectAt(g.cursor.Location(g.session.State()))
	}
	if in.Has(platformcore.ActionTap) {
		g.tap(g.cursor.Location(g.session.State()))
	}
	if in.Has(platformcore.ActionUndo) {
		g.holding = false
		if !g.session.Undo() {
			g.status = "Nothing to undo"
		}
	}
	if in.Has(platformcore.ActionAutoComplete) {
		g.holding = false
		if g.session.AutoComplete() == 0 {
			g.status = "Uncover every card first"
		}
	}

	for _, p := range in.Clicks {
		if loc, ok := g.layout.hit(g.session.State(), p.X, p.Y); ok {
			g.click(loc)
		}
	}

	g.cursor = g.cursor.Clamp(g.session.State())
	return platformcore.StepResult{State: g.State()}
}

func (g *Game) draw() {
	g.holding = false
	g.status = ""
	if !g.session.Draw() {
		g.status = "Stock and waste are empty"
	}
}

// selectAt picks up the card at loc, or drops the held cards onto loc's pile.
func (g *Game) selectAt(loc core.Location) {
	if loc.Pile == core.PileStock {
		g.draw()
		return
	}
	if g.holding {
		g.holding = false
		if !g.session.TryMoveCardTo(g.held, core.Target{Pile: loc.Pile, Index: loc.Index}) {
			g.status = "Can't move " + g.held.String() + " there"
		} else {
			g.status = ""
		}
		return
	}
	card, ok := g.session.State().At(loc)
	if !ok {
		return
	}
	if !card.FaceUp && !g.opts.AllowFaceDownCheat {
		return
	}
	g.held, g.holding = card, true
	g.status = ""
}

// tap sends the card at loc to the first pile that takes it.
func (g *Game) tap(loc core.Location) {
	if loc.Pile == core.PileStock {
		g.draw()
		return
	}
	g.holding = false
	card, ok := g.session.State().At(loc)
	if !ok {
		return
	}
	if !g.session.TryAutoMove(card) {
		g.status = "No move for " + card.String()
		return
	}
	g.status = ""
}

// click moves the cursor to loc and selects there. Clicking the held card
// again taps it.
func (g *Game) click(loc core.Location) {
	g.cursor = CursorAt(loc)
	if g.holding {
		if held, ok := g.session.State().Locate(g.held); ok && held == loc {
			g.tap(loc)
			return
		}
	}
	g.selectAt(loc)
}

// Held returns the card being carried, if any.
func (g *Game) Held() (core.Card, bool) {
	return g.held, g.holding
}

// Cursor returns the cursor position.
func (g *Game) Cursor() Cursor {
	return g.cursor
}

// State returns the current platform-level state.
func (g *Game) State() platformcore.GameState {
	if g.session == nil {
		return platformcore.GameState{}
	}
	phase := g.session.Phase()
	return platformcore.GameState{
		Score:    g.session.Score(),
		Moves:    g.session.MoveCount(),
		Elapsed:  g.session.Elapsed(),
		GameOver: phase == core.PhaseWon,
		Paused:   phase == core.PhasePaused || g.tooSmall,
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows Move  Space Pick/Drop  T Tap  D Draw  U Undo  F Finish  P Pause  Q Quit"
}

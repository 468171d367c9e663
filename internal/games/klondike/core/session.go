package core

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Session lifecycle errors.
var (
	ErrInvalidTransition = errors.New("klondike: invalid session transition")
	ErrDealInProgress    = errors.New("klondike: deal in progress")
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseDealing
	PhasePlaying
	PhasePaused
	PhaseWon
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseDealing:
		return "dealing"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseWon:
		return "won"
	default:
		return "unknown"
	}
}

// DefaultDrawCount is the number of cards a draw turns over.
const DefaultDrawCount = 3

// Options configure a single game.
type Options struct {
	// Solvable deals the deck in factory order instead of shuffling it.
	Solvable bool
	// AllowFaceDownCheat lets the player pick up face-down tableau cards.
	AllowFaceDownCheat bool
	// Thoughtful shows face-down cards to the player. The engine only carries
	// the flag; renderers act on it.
	Thoughtful bool
	// DrawCount is how many cards Draw turns over, 1 to 3.
	DrawCount int
}

// DefaultOptions returns a shuffled draw-three game.
func DefaultOptions() Options {
	return Options{DrawCount: DefaultDrawCount}
}

func (o Options) drawCount() int {
	if o.DrawCount < 1 || o.DrawCount > DefaultDrawCount {
		return DefaultDrawCount
	}
	return o.DrawCount
}

// Clock supplies the current time to the play clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Listener receives session notifications after every state change.
type Listener interface {
	OnStateChanged(s *State)
	OnScoreChanged(score int)
	OnWon()
}

// ListenerFuncs adapts optional callbacks to a Listener. Nil fields are skipped.
type ListenerFuncs struct {
	StateChanged func(s *State)
	ScoreChanged func(score int)
	Won          func()
}

func (l ListenerFuncs) OnStateChanged(s *State) {
	if l.StateChanged != nil {
		l.StateChanged(s)
	}
}

func (l ListenerFuncs) OnScoreChanged(score int) {
	if l.ScoreChanged != nil {
		l.ScoreChanged(score)
	}
}

func (l ListenerFuncs) OnWon() {
	if l.Won != nil {
		l.Won()
	}
}

// Target names a destination pile for a requested move.
type Target struct {
	Pile  PileKind
	Index int
}

// FoundationTarget addresses foundation i.
func FoundationTarget(i int) Target { return Target{Pile: PileFoundation, Index: i} }

// TableauTarget addresses tableau column i.
func TableauTarget(i int) Target { return Target{Pile: PileTableau, Index: i} }

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSeed seeds the shuffle RNG.
func WithSeed(seed int64) SessionOption {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithClock sets the play clock's time source.
func WithClock(c Clock) SessionOption {
	return func(s *Session) { s.clock = c }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithScoring sets the scoring table.
func WithScoring(sc Scoring) SessionOption {
	return func(s *Session) { s.scoring = sc }
}

// WithListener registers a listener.
func WithListener(l Listener) SessionOption {
	return func(s *Session) { s.listeners = append(s.listeners, l) }
}

// Session owns the current state of one game and drives it through the
// lifecycle NotStarted -> Dealing -> Playing <-> Paused, ending in Won.
// A Session is not safe for concurrent use.
type Session struct {
	state   *State
	initial *State
	phase   Phase
	opts    Options
	scoring Scoring

	rng       *rand.Rand
	clock     Clock
	logger    *log.Logger
	listeners []Listener

	// Play clock. It starts on the first accepted move.
	started   bool
	running   bool
	startedAt time.Time
	elapsed   time.Duration
}

// NewSession returns a session in PhaseNotStarted.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		state:   NewState(),
		opts:    DefaultOptions(),
		scoring: DefaultScoring(),
		clock:   systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// AddListener registers a listener after construction.
func (s *Session) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

// NewGame deals a fresh game with opts. The layout is announced to listeners
// while the session is still dealing; it enters PhasePlaying afterwards.
func (s *Session) NewGame(opts Options) error {
	if s.phase == PhaseDealing {
		return ErrDealInProgress
	}
	s.phase = PhaseDealing
	s.logger.Debug("dealing", "solvable", opts.Solvable, "draw", opts.drawCount())
	s.begin(Deal(opts.Solvable, s.rng), opts)
	return nil
}

// NewGameFrom starts play from a copy of st, which must hold a complete deck.
func (s *Session) NewGameFrom(st *State, opts Options) error {
	if s.phase == PhaseDealing {
		return ErrDealInProgress
	}
	if st == nil {
		return fmt.Errorf("new game from nil state: %w", ErrInvalidTransition)
	}
	if err := st.CheckInvariants(); err != nil {
		return fmt.Errorf("new game from state: %w", err)
	}
	s.phase = PhaseDealing
	s.begin(st.Copy(), opts)
	return nil
}

// Restart replays the layout the current game started from.
func (s *Session) Restart() error {
	if s.initial == nil {
		return fmt.Errorf("restart while %s: %w", s.phase, ErrInvalidTransition)
	}
	return s.NewGameFrom(s.initial, s.opts)
}

func (s *Session) begin(st *State, opts Options) {
	opts.DrawCount = opts.drawCount()
	s.opts = opts
	s.state = st
	s.initial = st.Copy()
	s.started, s.running = false, false
	s.elapsed = 0

	s.notify()
	if st.Won() {
		s.phase = PhaseWon
		return
	}
	s.phase = PhasePlaying
}

// State returns the current state. It must not be modified.
func (s *Session) State() *State { return s.state }

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Options returns the options of the current game.
func (s *Session) Options() Options { return s.opts }

// Score returns the current score under the session's scoring table.
func (s *Session) Score() int { return s.state.ScoreWith(s.scoring) }

// MoveCount returns the number of moves in the history.
func (s *Session) MoveCount() int { return len(s.state.History) }

// Elapsed returns the play time, excluding pauses.
func (s *Session) Elapsed() time.Duration {
	if s.running {
		return s.elapsed + s.clock.Now().Sub(s.startedAt)
	}
	return s.elapsed
}

// Draw turns cards from the stock onto the waste, or turns the waste back
// over when the stock is empty.
func (s *Session) Draw() bool {
	if n := len(s.state.Stock); n > 0 {
		return s.apply(NewRevealFromDraw(min(s.opts.drawCount(), n)))
	}
	return s.apply(NewResetWaste())
}

// TryMoveCardTo moves card, and every card above it in a tableau column, to
// the target pile. It reports whether the move was accepted.
func (s *Session) TryMoveCardTo(card Card, to Target) bool {
	if s.phase != PhasePlaying {
		return false
	}
	m, ok := s.moveFor(card, to)
	if !ok {
		return false
	}
	return s.apply(m)
}

// TryAutoMove moves card to the first pile that accepts it, trying the
// foundations before the tableau.
func (s *Session) TryAutoMove(card Card) bool {
	if s.phase != PhasePlaying {
		return false
	}
	for _, to := range autoTargets() {
		m, ok := s.moveFor(card, to)
		if ok && m.Valid(s.state) {
			return s.apply(m)
		}
	}
	return false
}

// RequestMove is TryMoveCardTo.
func (s *Session) RequestMove(card Card, to Target) bool { return s.TryMoveCardTo(card, to) }

// RequestTap is TryAutoMove.
func (s *Session) RequestTap(card Card) bool { return s.TryAutoMove(card) }

func autoTargets() []Target {
	targets := make([]Target, 0, FoundationCount+TableauCount)
	for i := 0; i < FoundationCount; i++ {
		targets = append(targets, FoundationTarget(i))
	}
	for i := 0; i < TableauCount; i++ {
		targets = append(targets, TableauTarget(i))
	}
	return targets
}

// MoveFor builds the move that takes the card at loc to target, without
// validating it against the rules. It fails when no move kind connects the
// two piles or the card is buried where only the top card may leave.
func MoveFor(st *State, loc Location, to Target) (*Move, bool) {
	size := len(st.Pile(loc.Pile, loc.Index))
	if loc.Position < 0 || loc.Position >= size {
		return nil, false
	}
	top := loc.Position == size-1

	switch loc.Pile {
	case PileWaste:
		if !top {
			return nil, false
		}
		switch to.Pile {
		case PileFoundation:
			return NewWasteToFoundation(to.Index), true
		case PileTableau:
			return NewWasteToTableau(to.Index), true
		}
	case PileTableau:
		switch to.Pile {
		case PileFoundation:
			if top {
				return NewTableauToFoundation(loc.Index, to.Index), true
			}
		case PileTableau:
			if top {
				return NewTableauToTableau(loc.Index, to.Index), true
			}
			return NewRunToTableau(loc.Index, loc.Position, to.Index), true
		}
	case PileFoundation:
		if top && to.Pile == PileTableau {
			return NewFoundationToTableau(loc.Index, to.Index), true
		}
	}
	return nil, false
}

// moveFor resolves card on the table and builds its move. Face-down cards
// only move when the cheat is on.
func (s *Session) moveFor(card Card, to Target) (*Move, bool) {
	loc, ok := s.state.Locate(card)
	if !ok {
		return nil, false
	}
	current, _ := s.state.At(loc)
	if !current.FaceUp && !s.opts.AllowFaceDownCheat {
		return nil, false
	}
	return MoveFor(s.state, loc, to)
}

// Undo reverses the last move. It does nothing before the first move or
// while the game is not being played.
func (s *Session) Undo() bool {
	if s.phase != PhasePlaying || len(s.state.History) == 0 {
		return false
	}
	last := s.state.History[len(s.state.History)-1]
	next, err := last.Reverse(s.state)
	if err != nil {
		s.logger.Warn("undo failed", "move", last, "error", err)
		return false
	}
	s.state = next
	s.logger.Debug("undo", "move", last)
	s.notify()
	return true
}

// Pause stops the play clock.
func (s *Session) Pause() error {
	if s.phase != PhasePlaying {
		return fmt.Errorf("pause while %s: %w", s.phase, ErrInvalidTransition)
	}
	s.phase = PhasePaused
	s.stopClock()
	return nil
}

// Resume restarts the play clock after Pause.
func (s *Session) Resume() error {
	if s.phase != PhasePaused {
		return fmt.Errorf("resume while %s: %w", s.phase, ErrInvalidTransition)
	}
	s.phase = PhasePlaying
	if s.started {
		s.startClock()
	}
	return nil
}

// TogglePause pauses a running game or resumes a paused one.
func (s *Session) TogglePause() error {
	if s.phase == PhasePaused {
		return s.Resume()
	}
	return s.Pause()
}

// AutoComplete plays cards to the foundations while the game is sortable,
// always taking the lowest-ranked card that fits. It returns the number of
// moves made.
func (s *Session) AutoComplete() int {
	moves := 0
	for s.phase == PhasePlaying && s.state.Sortable() {
		m := s.lowestFoundationMove()
		if m == nil || !s.apply(m) {
			break
		}
		moves++
	}
	return moves
}

func (s *Session) lowestFoundationMove() *Move {
	var best *Move
	bestRank := King + 1
	for col := range s.state.Tableau {
		card, ok := s.state.Top(PileTableau, col)
		if !ok || card.Rank >= bestRank {
			continue
		}
		for f := 0; f < FoundationCount; f++ {
			m := NewTableauToFoundation(col, f)
			if m.Valid(s.state) {
				best, bestRank = m, card.Rank
				break
			}
		}
	}
	return best
}

func (s *Session) apply(m *Move) bool {
	if s.phase != PhasePlaying {
		return false
	}
	next, ok := m.Apply(s.state)
	if !ok {
		return false
	}
	s.state = next
	if !s.started {
		s.started = true
		s.startClock()
	}
	s.logger.Debug("move", "move", m, "score", s.Score())
	s.notify()

	if s.state.Won() {
		s.phase = PhaseWon
		s.stopClock()
		s.logger.Info("game won", "score", s.Score(), "moves", s.MoveCount(), "elapsed", s.Elapsed())
		for _, l := range s.listeners {
			l.OnWon()
		}
	}
	return true
}

func (s *Session) notify() {
	score := s.Score()
	for _, l := range s.listeners {
		l.OnStateChanged(s.state)
		l.OnScoreChanged(score)
	}
}

func (s *Session) startClock() {
	if !s.running {
		s.running = true
		s.startedAt = s.clock.Now()
	}
}

func (s *Session) stopClock() {
	if s.running {
		s.elapsed += s.clock.Now().Sub(s.startedAt)
		s.running = false
	}
}

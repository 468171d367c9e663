package core

import (
	"errors"
	"fmt"
)

// ErrHistoryMismatch is returned by Reverse when the move being reversed is
// not the most recent entry of the state's history.
var ErrHistoryMismatch = errors.New("klondike: move is not the last history entry")

// MoveKind discriminates the move variants.
type MoveKind int

const (
	RevealFromDraw MoveKind = iota
	ResetWaste
	WasteToFoundation
	TableauToFoundation
	FoundationToTableau
	WasteToTableau
	TableauToTableau
	RunToTableau
)

// String returns the move kind name.
func (k MoveKind) String() string {
	if k < 0 || int(k) >= len(moveTable) {
		return "Unknown"
	}
	return moveTable[k].name
}

// Move is one player action. Construct it with one of the New* functions,
// then Apply it once. Apply latches Uncovered and Moved; Reverse reads them.
// A move belongs to a single history: once applied, Apply refuses it.
type Move struct {
	Kind MoveKind

	// Count is the number of cards RevealFromDraw takes from the stock.
	Count int
	// From is the source tableau or foundation index.
	From int
	// Position is the index within the source column where a run starts.
	Position int
	// To is the destination tableau or foundation index.
	To int

	// FlipCapable is set for moves that can leave a face-down card exposed.
	FlipCapable bool
	// Uncovered records that Apply turned the exposed source card face up.
	Uncovered bool
	// Moved records how many cards Apply transferred.
	Moved int

	applied bool
}

// NewRevealFromDraw moves count cards from the stock to the waste.
func NewRevealFromDraw(count int) *Move {
	return newMove(RevealFromDraw, func(m *Move) { m.Count = count })
}

// NewResetWaste turns the waste back over into the empty stock.
func NewResetWaste() *Move {
	return newMove(ResetWaste, nil)
}

// NewWasteToFoundation moves the waste top to a foundation.
func NewWasteToFoundation(foundation int) *Move {
	return newMove(WasteToFoundation, func(m *Move) { m.To = foundation })
}

// NewTableauToFoundation moves a column's top card to a foundation.
func NewTableauToFoundation(tableau, foundation int) *Move {
	return newMove(TableauToFoundation, func(m *Move) {
		m.From = tableau
		m.To = foundation
	})
}

// NewFoundationToTableau moves a foundation's top card back to a column.
func NewFoundationToTableau(foundation, tableau int) *Move {
	return newMove(FoundationToTableau, func(m *Move) {
		m.From = foundation
		m.To = tableau
	})
}

// NewWasteToTableau moves the waste top onto a column.
func NewWasteToTableau(tableau int) *Move {
	return newMove(WasteToTableau, func(m *Move) { m.To = tableau })
}

// NewTableauToTableau moves a single top card between columns.
func NewTableauToTableau(from, to int) *Move {
	return newMove(TableauToTableau, func(m *Move) {
		m.From = from
		m.To = to
	})
}

// NewRunToTableau moves the cards of column from, starting at position,
// onto column to.
func NewRunToTableau(from, position, to int) *Move {
	return newMove(RunToTableau, func(m *Move) {
		m.From = from
		m.Position = position
		m.To = to
	})
}

func newMove(kind MoveKind, set func(*Move)) *Move {
	m := &Move{Kind: kind, FlipCapable: moveTable[kind].flipCapable}
	if set != nil {
		set(m)
	}
	return m
}

// transfer describes how a move relocates cards.
type transfer int

const (
	// transferTop moves the source top card.
	transferTop transfer = iota
	// transferRun moves a contiguous tail of the source, keeping its order.
	transferRun
	// transferDeal pops the top Count cards one by one, so the last one
	// popped ends on top of the destination.
	transferDeal
	// transferAll pops every source card one by one, reversing their order.
	transferAll
)

// moveSpec is the per-kind row of the dispatch table.
type moveSpec struct {
	name        string
	from        PileKind
	to          PileKind
	transfer    transfer
	flipCapable bool
	valid       func(m *Move, s *State) bool
}

// moveTable is filled in init: its validators reach back into the table.
var moveTable [RunToTableau + 1]moveSpec

func init() {
	moveTable = [RunToTableau + 1]moveSpec{
		RevealFromDraw: {
			name: "RevealFromDraw", from: PileStock, to: PileWaste, transfer: transferDeal,
			valid: func(m *Move, s *State) bool {
				// An empty draw would record a move that changes nothing.
				return m.Count > 0 && m.Count <= len(s.Stock)
			},
		},
		ResetWaste: {
			name: "ResetWaste", from: PileWaste, to: PileStock, transfer: transferAll,
			valid: func(_ *Move, s *State) bool {
				return len(s.Stock) == 0 && len(s.Waste) > 0
			},
		},
		WasteToFoundation: {
			name: "WasteToFoundation", from: PileWaste, to: PileFoundation, transfer: transferTop,
			valid: validToFoundation,
		},
		TableauToFoundation: {
			name: "TableauToFoundation", from: PileTableau, to: PileFoundation, transfer: transferTop,
			flipCapable: true,
			valid:       validToFoundation,
		},
		FoundationToTableau: {
			name: "FoundationToTableau", from: PileFoundation, to: PileTableau, transfer: transferTop,
			valid: validToTableau,
		},
		WasteToTableau: {
			name: "WasteToTableau", from: PileWaste, to: PileTableau, transfer: transferTop,
			valid: validToTableau,
		},
		TableauToTableau: {
			name: "TableauToTableau", from: PileTableau, to: PileTableau, transfer: transferTop,
			flipCapable: true,
			valid:       validToTableau,
		},
		RunToTableau: {
			name: "RunToTableau", from: PileTableau, to: PileTableau, transfer: transferRun,
			flipCapable: true,
			valid:       validToTableau,
		},
	}
}

func (m *Move) spec() (moveSpec, bool) {
	if m == nil || m.Kind < 0 || int(m.Kind) >= len(moveTable) {
		return moveSpec{}, false
	}
	return moveTable[m.Kind], true
}

// piles returns the source and destination piles of m within s.
func (m *Move) piles(s *State) (from, to *[]Card) {
	sp, _ := m.spec()
	return s.pile(sp.from, m.From), s.pile(sp.to, m.To)
}

// head returns the card whose placement decides validity: the run's first
// card for RunToTableau, otherwise the source top.
func (m *Move) head(s *State) (Card, bool) {
	from, _ := m.piles(s)
	if from == nil || len(*from) == 0 {
		return Card{}, false
	}
	if m.Kind == RunToTableau {
		if m.Position < 0 || m.Position >= len(*from) {
			return Card{}, false
		}
		return (*from)[m.Position], true
	}
	return (*from)[len(*from)-1], true
}

func validToFoundation(m *Move, s *State) bool {
	card, ok := m.head(s)
	if !ok {
		return false
	}
	_, to := m.piles(s)
	if to == nil {
		return false
	}
	if card.Rank == Ace {
		return len(*to) == 0
	}
	if len(*to) == 0 {
		return false
	}
	top := (*to)[len(*to)-1]
	return top.Suit == card.Suit && card.Rank == top.Rank+1
}

func validToTableau(m *Move, s *State) bool {
	if (m.Kind == TableauToTableau || m.Kind == RunToTableau) && m.From == m.To {
		return false
	}
	card, ok := m.head(s)
	if !ok {
		return false
	}
	_, to := m.piles(s)
	if to == nil {
		return false
	}
	if card.Rank == King {
		return len(*to) == 0
	}
	if len(*to) == 0 {
		return false
	}
	top := (*to)[len(*to)-1]
	return top.Red() != card.Red() && card.Rank == top.Rank-1
}

// Valid reports whether m can be applied to s. It never modifies s.
func (m *Move) Valid(s *State) bool {
	sp, ok := m.spec()
	if !ok || s == nil {
		return false
	}
	return sp.valid(m, s)
}

// Apply returns a new state with m applied and recorded in its history.
// When m is not valid for s, or m was applied before, it returns s itself
// and false.
func (m *Move) Apply(s *State) (*State, bool) {
	if m.applied || !m.Valid(s) {
		return s, false
	}
	sp, _ := m.spec()

	next := s.Copy()
	from, to := m.piles(next)

	switch sp.transfer {
	case transferTop:
		m.Moved = 1
		moveTail(from, to, 1)
	case transferRun:
		m.Moved = len(*from) - m.Position
		moveTail(from, to, m.Moved)
	case transferDeal:
		m.Moved = m.Count
		popEach(from, to, m.Count)
	case transferAll:
		m.Moved = len(*from)
		popEach(from, to, m.Moved)
	}

	m.Uncovered = false
	if sp.flipCapable && len(*from) > 0 {
		exposed := &(*from)[len(*from)-1]
		if !exposed.FaceUp {
			exposed.Flip()
			m.Uncovered = true
		}
	}

	m.applied = true
	next.History = append(next.History, m)
	return next, true
}

// Reverse undoes m, which must be the last entry of s's history.
// On error s is returned unchanged.
func (m *Move) Reverse(s *State) (*State, error) {
	sp, ok := m.spec()
	if !ok {
		return s, fmt.Errorf("reverse: unknown move kind %d", m.Kind)
	}
	if len(s.History) == 0 || s.History[len(s.History)-1] != m {
		return s, fmt.Errorf("reverse %s: %w", m, ErrHistoryMismatch)
	}

	next := s.Copy()
	from, to := m.piles(next)
	if from == nil || to == nil || len(*to) < m.Moved {
		return s, fmt.Errorf("reverse %s: destination holds %d cards: %w", m, pileLen(to), ErrHistoryMismatch)
	}

	if m.Uncovered && len(*from) > 0 {
		(*from)[len(*from)-1].Flip()
	}

	switch sp.transfer {
	case transferTop, transferRun:
		moveTail(to, from, m.Moved)
	case transferDeal, transferAll:
		popEach(to, from, m.Moved)
	}

	next.History = next.History[:len(next.History)-1]
	return next, nil
}

// Points returns the score contribution of m under sc.
func (m *Move) Points(sc Scoring) int {
	points := 0
	switch m.Kind {
	case WasteToFoundation, TableauToFoundation:
		points += sc.ToFoundation
	case WasteToTableau:
		points += sc.WasteToTableau
	case FoundationToTableau:
		points += sc.FoundationToTableau
	}
	if m.FlipCapable && m.Uncovered {
		points += sc.Uncover
	}
	return points
}

// String describes the move, e.g. "TableauToTableau(t2 -> t5)".
func (m *Move) String() string {
	if m == nil {
		return "<nil>"
	}
	switch m.Kind {
	case RevealFromDraw:
		return fmt.Sprintf("%s(%d)", m.Kind, m.Count)
	case ResetWaste:
		return m.Kind.String()
	case WasteToFoundation:
		return fmt.Sprintf("%s(f%d)", m.Kind, m.To)
	case WasteToTableau:
		return fmt.Sprintf("%s(t%d)", m.Kind, m.To)
	case TableauToFoundation:
		return fmt.Sprintf("%s(t%d -> f%d)", m.Kind, m.From, m.To)
	case FoundationToTableau:
		return fmt.Sprintf("%s(f%d -> t%d)", m.Kind, m.From, m.To)
	case TableauToTableau:
		return fmt.Sprintf("%s(t%d -> t%d)", m.Kind, m.From, m.To)
	case RunToTableau:
		return fmt.Sprintf("%s(t%d[%d:] -> t%d)", m.Kind, m.From, m.Position, m.To)
	}
	return m.Kind.String()
}

// moveTail moves the last n cards of from onto to, keeping their order.
func moveTail(from, to *[]Card, n int) {
	start := len(*from) - n
	*to = append(*to, (*from)[start:]...)
	*from = (*from)[:start]
}

// popEach pops n cards off from and pushes each onto to.
func popEach(from, to *[]Card, n int) {
	for i := 0; i < n; i++ {
		last := len(*from) - 1
		*to = append(*to, (*from)[last])
		*from = (*from)[:last]
	}
}

func pileLen(p *[]Card) int {
	if p == nil {
		return 0
	}
	return len(*p)
}

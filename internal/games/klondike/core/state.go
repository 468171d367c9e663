package core

import (
	"fmt"
	"strings"
)

// Table dimensions.
const (
	TableauCount    = 7
	FoundationCount = 4
)

// PileKind identifies one of the four kinds of pile on the table.
type PileKind int

const (
	PileStock PileKind = iota
	PileWaste
	PileTableau
	PileFoundation
)

// String returns the pile kind name.
func (p PileKind) String() string {
	switch p {
	case PileStock:
		return "stock"
	case PileWaste:
		return "waste"
	case PileTableau:
		return "tableau"
	case PileFoundation:
		return "foundation"
	default:
		return "unknown"
	}
}

// State is a snapshot of the table plus the moves that produced it.
// The last element of every pile is its top card.
//
// A State is never mutated once a move has been applied to it: Apply and
// Reverse work on a Copy and return the copy.
type State struct {
	Stock      []Card
	Waste      []Card
	Tableau    [TableauCount][]Card
	Foundation [FoundationCount][]Card
	History    []*Move
}

// NewState returns a state with the full deck in the stock and every other
// pile empty.
func NewState() *State {
	return &State{Stock: NewDeck()}
}

// Copy returns a state with independent pile and history slices.
// Moves in the history are shared; they are not mutated after being recorded.
func (s *State) Copy() *State {
	c := &State{
		Stock:   cloneCards(s.Stock),
		Waste:   cloneCards(s.Waste),
		History: append([]*Move(nil), s.History...),
	}
	for i := range s.Tableau {
		c.Tableau[i] = cloneCards(s.Tableau[i])
	}
	for i := range s.Foundation {
		c.Foundation[i] = cloneCards(s.Foundation[i])
	}
	return c
}

func cloneCards(cards []Card) []Card {
	if len(cards) == 0 {
		return nil
	}
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

// Score folds the history with the default scoring table.
func (s *State) Score() int {
	return s.ScoreWith(DefaultScoring())
}

// ScoreWith folds the history with the given scoring table.
func (s *State) ScoreWith(sc Scoring) int {
	score := 0
	for _, m := range s.History {
		score += m.Points(sc)
	}
	return score
}

// Won reports whether every card has reached the foundations.
func (s *State) Won() bool {
	if len(s.Stock) > 0 || len(s.Waste) > 0 {
		return false
	}
	for _, col := range s.Tableau {
		if len(col) > 0 {
			return false
		}
	}
	sorted := 0
	for _, f := range s.Foundation {
		sorted += len(f)
	}
	return sorted == DeckSize
}

// Sortable reports whether the stock and waste are empty and every tableau
// card is face up, at which point the game can be finished mechanically.
func (s *State) Sortable() bool {
	if len(s.Stock)+len(s.Waste) > 0 {
		return false
	}
	for _, col := range s.Tableau {
		for _, c := range col {
			if !c.FaceUp {
				return false
			}
		}
	}
	return true
}

// Top returns the top card of a pile.
func (s *State) Top(kind PileKind, index int) (Card, bool) {
	p := s.pile(kind, index)
	if p == nil || len(*p) == 0 {
		return Card{}, false
	}
	return (*p)[len(*p)-1], true
}

// Pile returns the cards of a pile, or nil for an unknown pile.
// The returned slice belongs to the state and must not be modified.
func (s *State) Pile(kind PileKind, index int) []Card {
	p := s.pile(kind, index)
	if p == nil {
		return nil
	}
	return *p
}

// pile returns a pointer to the addressed pile slice, or nil when the index is
// out of range.
func (s *State) pile(kind PileKind, index int) *[]Card {
	switch kind {
	case PileStock:
		return &s.Stock
	case PileWaste:
		return &s.Waste
	case PileTableau:
		if index < 0 || index >= TableauCount {
			return nil
		}
		return &s.Tableau[index]
	case PileFoundation:
		if index < 0 || index >= FoundationCount {
			return nil
		}
		return &s.Foundation[index]
	}
	return nil
}

// Equal reports whether two states hold the same cards in the same piles with
// the same faces, and the same history entries.
func (s *State) Equal(other *State) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	if !equalCards(s.Stock, other.Stock) || !equalCards(s.Waste, other.Waste) {
		return false
	}
	for i := range s.Tableau {
		if !equalCards(s.Tableau[i], other.Tableau[i]) {
			return false
		}
	}
	for i := range s.Foundation {
		if !equalCards(s.Foundation[i], other.Foundation[i]) {
			return false
		}
	}
	if len(s.History) != len(other.History) {
		return false
	}
	for i := range s.History {
		if s.History[i] != other.History[i] {
			return false
		}
	}
	return true
}

func equalCards(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CheckInvariants verifies that exactly one of each card is on the table and
// that every foundation is an Ace-based, single-suit, ascending pile.
func (s *State) CheckInvariants() error {
	var seen [DeckSize]bool
	count := 0
	visit := func(where string, cards []Card) error {
		for _, c := range cards {
			if c.Rank < Ace || c.Rank > King || c.Suit < Hearts || c.Suit > Diamonds {
				return fmt.Errorf("%s: invalid card %+v", where, c)
			}
			if seen[c.index()] {
				return fmt.Errorf("%s: duplicate card %s", where, c)
			}
			seen[c.index()] = true
			count++
		}
		return nil
	}

	if err := visit("stock", s.Stock); err != nil {
		return err
	}
	if err := visit("waste", s.Waste); err != nil {
		return err
	}
	for i, col := range s.Tableau {
		if err := visit(fmt.Sprintf("tableau %d", i), col); err != nil {
			return err
		}
	}
	for i, f := range s.Foundation {
		if err := visit(fmt.Sprintf("foundation %d", i), f); err != nil {
			return err
		}
		for j, c := range f {
			if j == 0 {
				if c.Rank != Ace {
					return fmt.Errorf("foundation %d: bottom card is %s", i, c)
				}
				continue
			}
			below := f[j-1]
			if c.Suit != below.Suit || c.Rank != below.Rank+1 {
				return fmt.Errorf("foundation %d: %s on %s", i, c, below)
			}
		}
	}
	if count != DeckSize {
		return fmt.Errorf("expected %d cards, found %d", DeckSize, count)
	}
	return nil
}

// String renders the state as text, one pile per line. Face-down cards are
// shown in brackets.
func (s *State) String() string {
	var b strings.Builder
	line := func(name string, cards []Card) {
		b.WriteString(name)
		b.WriteString(":")
		for _, c := range cards {
			b.WriteByte(' ')
			if c.FaceUp {
				b.WriteString(c.String())
			} else {
				b.WriteString("[" + c.String() + "]")
			}
		}
		b.WriteByte('\n')
	}
	line("stock", s.Stock)
	line("waste", s.Waste)
	for i, f := range s.Foundation {
		line(fmt.Sprintf("foundation %d", i), f)
	}
	for i, col := range s.Tableau {
		line(fmt.Sprintf("tableau %d", i), col)
	}
	return b.String()
}

// Location is where a card sits: its pile, the pile index for tableau and
// foundation piles, and its position within the pile.
type Location struct {
	Pile     PileKind
	Index    int
	Position int
}

// Locate finds the card with the same identity as c.
func (s *State) Locate(c Card) (Location, bool) {
	find := func(kind PileKind, index int, cards []Card) (Location, bool) {
		for i, other := range cards {
			if other.Same(c) {
				return Location{Pile: kind, Index: index, Position: i}, true
			}
		}
		return Location{}, false
	}
	if loc, ok := find(PileStock, 0, s.Stock); ok {
		return loc, true
	}
	if loc, ok := find(PileWaste, 0, s.Waste); ok {
		return loc, true
	}
	for i, col := range s.Tableau {
		if loc, ok := find(PileTableau, i, col); ok {
			return loc, true
		}
	}
	for i, f := range s.Foundation {
		if loc, ok := find(PileFoundation, i, f); ok {
			return loc, true
		}
	}
	return Location{}, false
}

// At returns the card at loc.
func (s *State) At(loc Location) (Card, bool) {
	cards := s.Pile(loc.Pile, loc.Index)
	if loc.Position < 0 || loc.Position >= len(cards) {
		return Card{}, false
	}
	return cards[loc.Position], true
}

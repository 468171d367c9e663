package core

import (
	"math/rand"
	"strings"
	"testing"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("NewDeck() has %d cards, want %d", len(deck), DeckSize)
	}
	seen := map[Card]bool{}
	for _, c := range deck {
		if !c.FaceUp {
			t.Errorf("%s is face down", c)
		}
		if seen[c] {
			t.Errorf("%s appears twice", c)
		}
		seen[c] = true
	}
	if deck[0] != up(Hearts, Ace) || deck[DeckSize-1] != up(Diamonds, King) {
		t.Errorf("deck order: first %s, last %s", deck[0], deck[DeckSize-1])
	}
}

func TestCardFlip(t *testing.T) {
	c := up(Spades, Queen)
	c.Flip()
	if c.FaceUp {
		t.Error("Flip() left the card face up")
	}
	c.Flip()
	if !c.FaceUp {
		t.Error("double Flip() did not restore the face")
	}
	if !c.Same(c.Flipped()) {
		t.Error("Same() should ignore the face")
	}
}

func TestCardString(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{up(Hearts, Ace), "A♥"},
		{up(Clubs, Ten), "10♣"},
		{up(Spades, Jack), "J♠"},
		{up(Diamonds, King), "K♦"},
	}
	for _, tt := range tests {
		if got := tt.card.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCopyIsIndependent(t *testing.T) {
	s := Deal(false, rand.New(rand.NewSource(7)))
	c := s.Copy()
	if !c.Equal(s) {
		t.Fatal("copy differs from source")
	}

	c.Tableau[6][0].Flip()
	c.Stock = c.Stock[:len(c.Stock)-1]
	c.History = append(c.History, NewResetWaste())

	if s.Tableau[6][0].FaceUp {
		t.Error("flip in copy visible in source")
	}
	if len(s.Stock) != DeckSize-DealtCount {
		t.Errorf("source stock has %d cards", len(s.Stock))
	}
	if len(s.History) != 0 {
		t.Error("history append in copy visible in source")
	}
}

func TestSolvableDeal(t *testing.T) {
	s := Deal(true, nil)
	if err := s.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants() = %v", err)
	}

	if len(s.Tableau[0]) != 1 || !s.Tableau[0][0].FaceUp {
		t.Errorf("column 0 = %v, want one face-up card", s.Tableau[0])
	}
	if len(s.Stock) != 24 {
		t.Errorf("stock has %d cards, want 24", len(s.Stock))
	}
	if len(s.Waste) != 0 {
		t.Errorf("waste has %d cards, want 0", len(s.Waste))
	}

	wantTops := []Card{
		up(Hearts, Ace), up(Hearts, Two), up(Hearts, Four), up(Hearts, Seven),
		up(Hearts, Jack), up(Clubs, Three), up(Clubs, Nine),
	}
	for i, want := range wantTops {
		top, _ := s.Top(PileTableau, i)
		if top != want {
			t.Errorf("column %d top = %s, want %s", i, top, want)
		}
	}
	if top, _ := s.Top(PileStock, 0); !top.Same(up(Spades, Three)) {
		t.Errorf("stock top = %s, want 3♠", top)
	}
}

func TestDealLayout(t *testing.T) {
	for _, solvable := range []bool{true, false} {
		s := Deal(solvable, rand.New(rand.NewSource(42)))
		for i, col := range s.Tableau {
			if len(col) != i+1 {
				t.Errorf("solvable=%v column %d has %d cards, want %d", solvable, i, len(col), i+1)
			}
			for j, c := range col {
				if wantUp := j == len(col)-1; c.FaceUp != wantUp {
					t.Errorf("solvable=%v column %d card %d FaceUp = %v", solvable, i, j, c.FaceUp)
				}
			}
		}
		if len(s.Stock) != DeckSize-DealtCount {
			t.Errorf("solvable=%v stock has %d cards", solvable, len(s.Stock))
		}
	}
}

func TestShuffledDealIsSeeded(t *testing.T) {
	a := Deal(false, rand.New(rand.NewSource(99)))
	b := Deal(false, rand.New(rand.NewSource(99)))
	c := Deal(false, rand.New(rand.NewSource(100)))
	if !a.Equal(b) {
		t.Error("same seed produced different deals")
	}
	if a.Equal(c) {
		t.Error("different seeds produced the same deal")
	}
}

func wonState() *State {
	s := &State{}
	for i, suit := range Suits {
		for r := Ace; r <= King; r++ {
			s.Foundation[i] = append(s.Foundation[i], up(suit, r))
		}
	}
	return s
}

func TestWon(t *testing.T) {
	s := wonState()
	if !s.Won() {
		t.Fatal("Won() = false with every card on the foundations")
	}
	if err := s.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants() = %v", err)
	}

	next, ok := NewFoundationToTableau(0, 0).Apply(s)
	if !ok {
		t.Fatal("king back to empty column rejected")
	}
	if next.Won() {
		t.Error("Won() = true with a king on the tableau")
	}
	if got := next.Score(); got != -15 {
		t.Errorf("Score() = %d, want -15", got)
	}
}

func TestSortable(t *testing.T) {
	s := Deal(true, nil)
	if s.Sortable() {
		t.Error("fresh deal reported sortable")
	}

	s = wonState()
	s.Tableau[3] = []Card{up(Hearts, King)}
	s.Foundation[0] = s.Foundation[0][:12]
	if !s.Sortable() {
		t.Error("face-up king on the tableau should be sortable")
	}
	s.Tableau[3][0].Flip()
	if s.Sortable() {
		t.Error("face-down card should block sortable")
	}
}

func TestCheckInvariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *State)
		want   string
	}{
		{"duplicate", func(s *State) { s.Waste = append(s.Waste, s.Tableau[0][0]) }, "duplicate"},
		{"missing", func(s *State) { s.Stock = s.Stock[1:] }, "expected 52"},
		{"bad foundation base", func(s *State) {
			s.Foundation[0] = []Card{s.Stock[len(s.Stock)-1]}
			s.Stock = s.Stock[:len(s.Stock)-1]
		}, "bottom card"},
		{"invalid rank", func(s *State) { s.Stock[0].Rank = 14 }, "invalid card"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Deal(true, nil)
			tt.mutate(s)
			err := s.CheckInvariants()
			if err == nil {
				t.Fatal("CheckInvariants() = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("CheckInvariants() = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLocate(t *testing.T) {
	s := Deal(true, nil)
	loc, ok := s.Locate(up(Hearts, Three))
	if !ok {
		t.Fatal("3♥ not found")
	}
	want := Location{Pile: PileTableau, Index: 1, Position: 0}
	if loc != want {
		t.Errorf("Locate(3♥) = %+v, want %+v", loc, want)
	}
	card, ok := s.At(loc)
	if !ok || !card.Same(up(Hearts, Three)) || card.FaceUp {
		t.Errorf("At() = %s, %v", card, ok)
	}

	if _, ok := (&State{}).Locate(up(Hearts, Three)); ok {
		t.Error("Locate() found a card on an empty table")
	}
}

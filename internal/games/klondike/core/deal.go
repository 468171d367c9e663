package core

import "math/rand"

// Deal lays out a new game. A solvable deal keeps the deck in factory order,
// so the tableau and stock come out in a fixed, winnable arrangement. Any
// other deal shuffles the stock with rng first.
//
// Column i receives i+1 cards from the stock top, face down; then the top
// card of every column is turned up. Cards left in the stock keep FaceUp set.
func Deal(solvable bool, rng *rand.Rand) *State {
	s := NewState()
	if solvable {
		reverse(s.Stock)
	} else {
		Shuffle(s.Stock, rng)
	}

	for i := range s.Tableau {
		col := make([]Card, 0, i+1)
		for n := 0; n <= i; n++ {
			last := len(s.Stock) - 1
			col = append(col, s.Stock[last].Flipped())
			s.Stock = s.Stock[:last]
		}
		if solvable {
			reverse(col)
		}
		col[len(col)-1].Flip()
		s.Tableau[i] = col
	}
	return s
}

// DealtCount is the number of cards the initial layout puts on the tableau.
const DealtCount = TableauCount * (TableauCount + 1) / 2

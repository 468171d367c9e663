package core

import "math/rand"

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// NewDeck returns the 52 cards of a standard deck, face up, grouped by suit
// and ordered Ace to King within each suit.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			deck = append(deck, NewCard(s, r))
		}
	}
	return deck
}

// Shuffle permutes cards uniformly in place using rng.
func Shuffle(cards []Card, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// reverse reverses cards in place.
func reverse(cards []Card) {
	for i, j := 0, len(cards)-1; i < j; i, j = i+1, j-1 {
		cards[i], cards[j] = cards[j], cards[i]
	}
}

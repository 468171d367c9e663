// Package core implements the Klondike move/state engine.
// It has no dependency on the platform layer: states are plain values, moves are
// validated and applied against them, and every applied move is recorded so it
// can be reversed.
package core

import "fmt"

// Suit is a card suit.
type Suit int

// Suits in deck order.
const (
	Hearts Suit = iota
	Clubs
	Spades
	Diamonds
)

// Suits lists every suit in deck order.
var Suits = [4]Suit{Hearts, Clubs, Spades, Diamonds}

// String returns the suit name.
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Clubs:
		return "Clubs"
	case Spades:
		return "Spades"
	case Diamonds:
		return "Diamonds"
	default:
		return "Unknown"
	}
}

// Symbol returns the single-rune suit glyph used by the renderer.
func (s Suit) Symbol() rune {
	switch s {
	case Hearts:
		return '♥'
	case Clubs:
		return '♣'
	case Spades:
		return '♠'
	case Diamonds:
		return '♦'
	default:
		return '?'
	}
}

// Red reports whether the suit is red (Hearts, Diamonds).
func (s Suit) Red() bool {
	return s == Hearts || s == Diamonds
}

// Rank is a card rank, Ace=1 through King=13.
type Rank int

// Ranks.
const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// String returns the short rank label ("A", "2".."10", "J", "Q", "K").
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		if r > Ace && r < Jack {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card is a playing card. Cards are values: a State owns its own copies, so
// flipping a card in one state is never visible from another.
type Card struct {
	Suit   Suit
	Rank   Rank
	FaceUp bool
}

// NewCard returns a face-up card.
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank, FaceUp: true}
}

// Flip toggles the card's face.
func (c *Card) Flip() {
	c.FaceUp = !c.FaceUp
}

// Flipped returns a copy of the card with its face toggled.
func (c Card) Flipped() Card {
	c.FaceUp = !c.FaceUp
	return c
}

// Same reports whether two cards have the same identity, ignoring the face.
func (c Card) Same(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// Red reports whether the card is a red suit.
func (c Card) Red() bool {
	return c.Suit.Red()
}

// String returns a label such as "10♥".
func (c Card) String() string {
	return c.Rank.String() + string(c.Suit.Symbol())
}

// index maps a card identity to 0..51.
func (c Card) index() int {
	return int(c.Suit)*13 + int(c.Rank) - 1
}

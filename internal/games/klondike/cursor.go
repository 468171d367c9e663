package klondike

import (
	platformcore "github.com/vovakirdan/klondike/internal/core"
	"github.com/vovakirdan/klondike/internal/games/klondike/core"
)

// Cursor is the keyboard focus on the table. Depth is the card position in
// a tableau column; the other piles always focus their top card.
type Cursor struct {
	Pile  core.PileKind
	Index int
	Depth int
}

// topRow lists the piles of the upper row from left to right.
var topRow = []Cursor{
	{Pile: core.PileStock},
	{Pile: core.PileWaste},
	{Pile: core.PileFoundation, Index: 0},
	{Pile: core.PileFoundation, Index: 1},
	{Pile: core.PileFoundation, Index: 2},
	{Pile: core.PileFoundation, Index: 3},
}

// CursorAt returns a cursor on loc.
func CursorAt(loc core.Location) Cursor {
	c := Cursor{Pile: loc.Pile, Index: loc.Index}
	if loc.Pile == core.PileTableau {
		c.Depth = loc.Position
	}
	return c
}

// Location resolves the cursor to a card position. Empty piles resolve to
// position -1.
func (c Cursor) Location(st *core.State) core.Location {
	loc := core.Location{Pile: c.Pile, Index: c.Index}
	if c.Pile == core.PileTableau {
		loc.Position = c.Depth
		return loc
	}
	loc.Position = len(st.Pile(c.Pile, c.Index)) - 1
	return loc
}

// Column returns the table column the cursor sits over.
func (c Cursor) Column() int {
	switch c.Pile {
	case core.PileStock:
		return 0
	case core.PileWaste:
		return 1
	case core.PileFoundation:
		return core.TableauCount - core.FoundationCount + c.Index
	default:
		return c.Index
	}
}

func (c Cursor) topSlot() int {
	for i, t := range topRow {
		if t.Pile == c.Pile && t.Index == c.Index {
			return i
		}
	}
	return 0
}

// Left moves to the previous pile in the row, wrapping around.
func (c Cursor) Left(st *core.State) Cursor {
	return c.shift(st, -1)
}

// Right moves to the next pile in the row, wrapping around.
func (c Cursor) Right(st *core.State) Cursor {
	return c.shift(st, 1)
}

func (c Cursor) shift(st *core.State, d int) Cursor {
	if c.Pile == core.PileTableau {
		return onColumn(st, platformcore.Wrap(c.Index+d, core.TableauCount))
	}
	return topRow[platformcore.Wrap(c.topSlot()+d, len(topRow))]
}

// Up moves deeper into a column while cards there can be picked up, then to
// the upper row.
func (c Cursor) Up(st *core.State, faceDown bool) Cursor {
	if c.Pile != core.PileTableau {
		return c
	}
	col := st.Pile(core.PileTableau, c.Index)
	if c.Depth > 0 && c.Depth-1 < len(col) && (faceDown || col[c.Depth-1].FaceUp) {
		c.Depth--
		return c
	}
	switch col := c.Index; {
	case col == 0:
		return topRow[0]
	case col < core.TableauCount-core.FoundationCount:
		return topRow[1]
	default:
		return Cursor{Pile: core.PileFoundation, Index: col - (core.TableauCount - core.FoundationCount)}
	}
}

// Down moves towards the top card of a column, or from the upper row into
// the tableau.
func (c Cursor) Down(st *core.State) Cursor {
	if c.Pile != core.PileTableau {
		return onColumn(st, c.Column())
	}
	if c.Depth < len(st.Pile(core.PileTableau, c.Index))-1 {
		c.Depth++
	}
	return c
}

// Clamp keeps a tableau cursor on a card that exists, after the column
// shrank or grew.
func (c Cursor) Clamp(st *core.State) Cursor {
	if c.Pile != core.PileTableau {
		return c
	}
	n := len(st.Pile(core.PileTableau, c.Index))
	c.Depth = platformcore.Clamp(c.Depth, 0, max(n-1, 0))
	return c
}

func onColumn(st *core.State, col int) Cursor {
	return Cursor{Pile: core.PileTableau, Index: col, Depth: max(len(st.Pile(core.PileTableau, col))-1, 0)}
}

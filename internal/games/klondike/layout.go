package klondike

import (
	platformcore "github.com/vovakirdan/klondike/internal/core"
	"github.com/vovakirdan/klondike/internal/games/klondike/core"
)

const (
	cardW   = 5 // "[10♥]"
	slotW   = 7 // card plus gap, the gap holds the cursor marker
	fanStep = 4 // waste cards overlap by one cell
	boardW  = core.TableauCount*slotW - (slotW - cardW)

	hudY      = 0
	topY      = 2
	tabY      = 4
	minW      = boardW + 2
	minH      = 20
	wasteSlot = 1
)

// layout places the piles on the screen.
type layout struct {
	x0   int
	w, h int
	fits bool
}

func newLayout(w, h int) layout {
	return layout{
		x0:   max((w-boardW)/2, 1),
		w:    w,
		h:    h,
		fits: w >= minW && h >= minH,
	}
}

// slotX returns the left edge of table column col.
func (l layout) slotX(col int) int {
	return l.x0 + col*slotW
}

// pileRect returns the screen area of an upper-row pile.
func (l layout) pileRect(kind core.PileKind, index int) platformcore.Rect {
	switch kind {
	case core.PileStock:
		return platformcore.NewRect(l.slotX(0), topY, cardW, 1)
	case core.PileWaste:
		return platformcore.NewRect(l.slotX(wasteSlot), topY, 2*fanStep+cardW, 1)
	default:
		return platformcore.NewRect(l.slotX(core.TableauCount-core.FoundationCount+index), topY, cardW, 1)
	}
}

// columnRect returns the screen area of tableau column col.
func (l layout) columnRect(col int) platformcore.Rect {
	return platformcore.NewRect(l.slotX(col), tabY, cardW, max(l.h-2-tabY, 1))
}

// hit maps a screen cell to the pile and card under it. Clicks below a
// column land on its top card; empty piles resolve to position -1.
func (l layout) hit(st *core.State, x, y int) (core.Location, bool) {
	if !l.fits {
		return core.Location{}, false
	}
	if y == topY {
		for _, c := range topRow {
			if l.pileRect(c.Pile, c.Index).Contains(x, y) {
				return c.Location(st), true
			}
		}
		return core.Location{}, false
	}
	for col := range core.TableauCount {
		if !l.columnRect(col).Contains(x, y) {
			continue
		}
		n := len(st.Pile(core.PileTableau, col))
		pos := min(y-tabY, n-1)
		return core.Location{Pile: core.PileTableau, Index: col, Position: pos}, true
	}
	return core.Location{}, false
}

package klondike

import "github.com/vovakirdan/klondike/internal/games/klondike/core"

// Snapshot captures the table for determinism testing and replay.
type Snapshot struct {
	Variant    string
	Phase      string
	Score      int
	Moves      int
	Stock      int
	Waste      []string
	Tableau    [core.TableauCount][]string
	Foundation [core.FoundationCount]int
	Sortable   bool
	Cursor     Cursor
	Held       string // empty when nothing is held
}

// Snapshot returns the current game snapshot. Face-down cards read "##".
func (g *Game) Snapshot() Snapshot {
	st := g.session.State()
	snap := Snapshot{
		Variant:  g.ID(),
		Phase:    g.session.Phase().String(),
		Score:    g.session.Score(),
		Moves:    g.session.MoveCount(),
		Stock:    len(st.Stock),
		Waste:    labels(st.Waste),
		Sortable: st.Sortable(),
		Cursor:   g.cursor,
	}
	for i := range st.Tableau {
		snap.Tableau[i] = labels(st.Tableau[i])
	}
	for i := range st.Foundation {
		snap.Foundation[i] = len(st.Foundation[i])
	}
	if g.holding {
		snap.Held = g.held.String()
	}
	return snap
}

func labels(cards []core.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		if !c.FaceUp {
			out[i] = "##"
			continue
		}
		out[i] = c.String()
	}
	return out
}

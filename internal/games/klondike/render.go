package klondike

import (
	"fmt"
	"time"

	platformcore "github.com/vovakirdan/klondike/internal/core"
	"github.com/vovakirdan/klondike/internal/games/klondike/core"
)

// Render draws the table to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.session == nil {
		return
	}

	st := g.session.State()
	g.renderHUD(dst, st)
	g.renderTopRow(dst, st)
	g.renderTableau(dst, st)
	g.renderCursor(dst, st)
	g.renderFooter(dst, st)
	g.renderOverlays(dst)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *platformcore.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", platformcore.ColorBrightWhite)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", minW, minH), platformcore.ColorDefault)
}

func (g *Game) renderHUD(dst *platformcore.Screen, st *core.State) {
	l := g.layout
	dst.DrawTextColor(l.x0, hudY, g.Title(), platformcore.ColorBrightWhite)

	info := fmt.Sprintf("Score %d  Moves %d  %s", g.session.Score(), g.session.MoveCount(), clock(g.session.Elapsed()))
	dst.DrawText(l.x0+boardW-len([]rune(info)), hudY, info)

	draw := fmt.Sprintf("Draw %d  Stock %d", g.session.Options().DrawCount, len(st.Stock))
	dst.DrawTextColor(l.x0, hudY+1, draw, platformcore.ColorGray)
}

func (g *Game) renderTopRow(dst *platformcore.Screen, st *core.State) {
	l := g.layout

	// Stock
	switch {
	case len(st.Stock) > 0:
		dst.DrawTextColor(l.slotX(0), topY, "[###]", platformcore.ColorBlue)
	case len(st.Waste) > 0:
		dst.DrawTextColor(l.slotX(0), topY, "[ ↺ ]", platformcore.ColorGreen)
	default:
		dst.DrawTextColor(l.slotX(0), topY, "[   ]", platformcore.ColorGreen)
	}

	// Waste, fanned so the last draw is visible
	shown := min(g.session.Options().DrawCount, len(st.Waste))
	for i, c := range st.Waste[len(st.Waste)-shown:] {
		g.drawCard(dst, l.slotX(wasteSlot)+i*fanStep, topY, c)
	}

	for f := range core.FoundationCount {
		x := l.slotX(core.TableauCount - core.FoundationCount + f)
		if top, ok := st.Top(core.PileFoundation, f); ok {
			g.drawCard(dst, x, topY, top)
			continue
		}
		dst.DrawTextColor(x, topY, "[ A ]", platformcore.ColorGreen)
	}
}

func (g *Game) renderTableau(dst *platformcore.Screen, st *core.State) {
	l := g.layout
	bottom := l.h - 2
	for col := range core.TableauCount {
		x := l.slotX(col)
		cards := st.Pile(core.PileTableau, col)
		if len(cards) == 0 {
			dst.DrawTextColor(x, tabY, "[   ]", platformcore.ColorGreen)
			continue
		}
		for i, c := range cards {
			y := tabY + i
			if y >= bottom {
				// Column runs off the screen; keep the top card visible.
				g.drawCard(dst, x, bottom-1, cards[len(cards)-1])
				break
			}
			g.drawCard(dst, x, y, c)
		}
	}
}

// drawCard draws one card. Held cards and the cards carried with them are
// highlighted.
func (g *Game) drawCard(dst *platformcore.Screen, x, y int, c core.Card) {
	label := fmt.Sprintf("[%-3s]", c.String())
	color := platformcore.ColorWhite
	if c.Red() {
		color = platformcore.ColorRed
	}
	if !c.FaceUp {
		if !g.session.Options().Thoughtful {
			dst.DrawTextColor(x, y, "[###]", platformcore.ColorBlue)
			return
		}
		color = platformcore.ColorGray
	}
	if g.carried(c) {
		color = platformcore.ColorCyan
	}
	dst.DrawTextColor(x, y, label, color)
}

// carried reports whether c moves along with the held card.
func (g *Game) carried(c core.Card) bool {
	if !g.holding {
		return false
	}
	st := g.session.State()
	held, ok := st.Locate(g.held)
	if !ok {
		return false
	}
	at, ok := st.Locate(c)
	if !ok || at.Pile != held.Pile || at.Index != held.Index {
		return false
	}
	if held.Pile == core.PileTableau {
		return at.Position >= held.Position
	}
	return at.Position == held.Position
}

func (g *Game) renderCursor(dst *platformcore.Screen, st *core.State) {
	if g.session.Phase() != core.PhasePlaying {
		return
	}
	l := g.layout
	x := l.slotX(g.cursor.Column()) - 1
	y := topY
	if g.cursor.Pile == core.PileTableau {
		y = min(tabY+g.cursor.Depth, l.h-3)
	} else if g.cursor.Pile == core.PileWaste {
		shown := min(g.session.Options().DrawCount, len(st.Waste))
		x += max(shown-1, 0) * fanStep
	}
	dst.SetColor(x, y, '▶', platformcore.ColorYellow)
}

func (g *Game) renderFooter(dst *platformcore.Screen, st *core.State) {
	status := g.status
	if status == "" && g.session.Phase() == core.PhasePlaying && st.Sortable() {
		status = "Every card is uncovered: press F to finish"
	}
	if g.holding && status == "" {
		status = "Holding " + g.held.String()
	}
	dst.DrawTextCentered(g.layout.h-2, status, platformcore.ColorYellow)
	dst.DrawTextCentered(g.layout.h-1, g.Controls(), platformcore.ColorGray)
}

// renderOverlays draws the pause and win boxes.
func (g *Game) renderOverlays(dst *platformcore.Screen) {
	centerX := g.layout.x0 + boardW/2
	centerY := tabY + 6

	switch g.session.Phase() {
	case core.PhasePaused:
		g.drawOverlay(dst, centerX, centerY, platformcore.ColorBrightWhite,
			"PAUSED", "Press P to resume")
	case core.PhaseWon:
		g.drawOverlay(dst, centerX, centerY, platformcore.ColorBrightGreen,
			"YOU WON!",
			fmt.Sprintf("Score %d in %d moves, %s", g.session.Score(), g.session.MoveCount(), clock(g.session.Elapsed())),
			"N: new game  R: replay deal  Q: quit")
	}
}

// drawOverlay draws a centered text box.
func (g *Game) drawOverlay(dst *platformcore.Screen, centerX, centerY int, color platformcore.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := platformcore.NewRect(centerX-boxW/2, centerY-boxH/2, boxW, boxH)

	dst.DrawRect(box, ' ', platformcore.ColorDefault)
	dst.DrawBox(box, platformcore.BoxRounded, color)

	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawTextColor(x, box.Y+1+i, line, color)
	}
}

// clock formats a play time as mm:ss, or h:mm:ss past an hour.
func clock(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

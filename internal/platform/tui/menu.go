package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/klondike/internal/config"
	"github.com/vovakirdan/klondike/internal/core"
	"github.com/vovakirdan/klondike/internal/registry"
	"github.com/vovakirdan/klondike/internal/storage"
)

// MenuItem represents a selectable game in the menu.
type MenuItem struct {
	GameID string
	Title  string
	Best   int // high score, 0 when unknown
}

// optionRow is an adjustable setting below the game list.
type optionRow int

const (
	optionPreset optionRow = iota
	optionDraw
	optionThoughtful
	optionCheat
	optionCount
)

// MenuModel is the Bubble Tea model for the game picker menu.
type MenuModel struct {
	items          []MenuItem
	cursor         int // rows: games first, then options
	width          int
	height         int
	store          *storage.Store
	config         core.RuntimeConfig
	game           config.KlondikeConfig
	preset         int // index into config.Presets, -1 after manual changes
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem // Set when user selects a game
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, game config.KlondikeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))

	for _, g := range games {
		item := MenuItem{GameID: g.ID, Title: g.Title}
		if store != nil {
			if best, err := store.HighScore(g.ID); err == nil {
				item.Best = best
			}
		}
		items = append(items, item)
	}

	return MenuModel{
		items:     items,
		cursor:    0,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		config:    cfg,
		game:      game,
		preset:    -1,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

func (m MenuModel) rows() int {
	return len(m.items) + int(optionCount)
}

// option returns the option under the cursor, if the cursor is on one.
func (m MenuModel) option() (optionRow, bool) {
	if m.cursor < len(m.items) {
		return 0, false
	}
	return optionRow(m.cursor - len(m.items)), true
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < m.rows()-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.adjust(-1)

	case MenuActionRight:
		m.adjust(1)

	case MenuActionSelect:
		if _, ok := m.option(); ok {
			m.adjust(1)
			return m, nil
		}
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start game
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit // Exit menu to show scoreboard
	}

	return m, nil
}

// adjust changes the option under the cursor by d steps.
func (m *MenuModel) adjust(d int) {
	opt, ok := m.option()
	if !ok {
		return
	}
	switch opt {
	case optionPreset:
		m.preset = core.Wrap(m.preset+d, len(config.Presets))
		//nolint:errcheck // Presets only lists known values
		config.ApplyPreset(&m.game, config.Presets[m.preset])
	case optionDraw:
		m.game.Deal.DrawCount = core.Wrap(m.game.Deal.DrawCount-1+d, 3) + 1
		m.preset = -1
	case optionThoughtful:
		m.game.Options.Thoughtful = !m.game.Options.Thoughtful
		m.preset = -1
	case optionCheat:
		m.game.Options.AllowFaceDownCheat = !m.game.Options.AllowFaceDownCheat
		m.preset = -1
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (m MenuModel) optionLabel(opt optionRow) string {
	switch opt {
	case optionPreset:
		name := "custom"
		if m.preset >= 0 {
			name = string(config.Presets[m.preset])
		}
		return "Preset: " + name
	case optionDraw:
		return fmt.Sprintf("Draw: %d", m.game.Deal.DrawCount)
	case optionThoughtful:
		return "Show face-down cards: " + onOff(m.game.Options.Thoughtful)
	case optionCheat:
		return "Move face-down cards: " + onOff(m.game.Options.AllowFaceDownCheat)
	}
	return ""
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	// Title
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("♠ ♥  K L O N D I K E  ♣ ♦"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a game", m.width))
	b.WriteString("\n\n")

	// Game list
	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := cursor + item.Title
		if item.Best != 0 {
			line += dim.Render(fmt.Sprintf("  best %d", item.Best))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	// Options
	b.WriteString("\n")
	for opt := optionRow(0); opt < optionCount; opt++ {
		cursor := "  "
		if m.cursor == len(m.items)+int(opt) {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+"◀ "+m.optionLabel(opt)+" ▶", m.width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Change  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(dim.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// GameConfig returns the game options as adjusted in the menu.
func (m MenuModel) GameConfig() config.KlondikeConfig {
	return m.game
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	Game            config.KlondikeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, game config.KlondikeConfig) (MenuResult, error) {
	model := NewMenuModel(store, cfg, game)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg, Game: game}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Game: game, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
		Game:   m.GameConfig(),
	}

	if m.WantsScoreboard() {
		result.WantsScoreboard = true
		return result, nil
	}

	if m.IsQuitting() {
		result.Quit = true
		return result, nil
	}

	if m.Selected() != nil {
		result.GameID = m.Selected().GameID
	} else {
		result.Quit = true
	}

	return result, nil
}

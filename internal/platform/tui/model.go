package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/klondike/internal/config"
	"github.com/vovakirdan/klondike/internal/core"
	kcore "github.com/vovakirdan/klondike/internal/games/klondike/core"
	"github.com/vovakirdan/klondike/internal/registry"
	"github.com/vovakirdan/klondike/internal/storage"
)

// Optional game capabilities the model uses when present.
type (
	resizer interface{ Resize(w, h int) }
	loggable interface{ SetLogger(l *log.Logger) }
	optioned interface{ Options() kcore.Options }
)

// ModelOptions carries everything a game model needs besides the game.
type ModelOptions struct {
	Store   *storage.Store
	Runtime core.RuntimeConfig
	Game    config.KlondikeConfig
	Logger  *log.Logger
	Player  string
	// Embedded models hand control back to a parent instead of quitting
	// the program on Esc.
	Embedded bool
}

// Model is the Bubble Tea model for running a table game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	player     string
	logger     *log.Logger
	embedded   bool
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	showHelp   bool
	quitting   bool
	backToMenu bool
	recorded   bool // Whether the current deal has been written to the store
	err        error
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, opts ModelOptions) Model {
	cfg := opts.Runtime
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		// stderr belongs to the alternate screen while the game runs
		logger = log.New(io.Discard)
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      opts.Store,
		config:     cfg,
		player:     opts.Player,
		logger:     logger,
		embedded:   opts.Embedded,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
	}
	m.help.ShowAll = true

	if c, ok := game.(registry.Configurable); ok {
		if err := c.Configure(opts.Game); err != nil {
			m.err = err
		}
	}
	if l, ok := game.(loggable); ok && opts.Logger != nil {
		l.SetLogger(opts.Logger)
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	// Initialize the game
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	// Start the tick loop
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if !m.showHelp {
			m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys
	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case m.showHelp:
		// Any other key closes the help page.
		m.showHelp = false
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.recordAbandoned()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.help.Width = msg.Width

	// Card games keep their table; others are redealt at the new size.
	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes one frame of input.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionNewGame) || m.inputFrame.Has(core.ActionRestart) {
		m.recordAbandoned()
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if m.gameState.Moves == 0 && !m.gameState.GameOver {
		m.recorded = false
	}
	if m.gameState.GameOver && !m.recorded {
		m.record(true)
	}

	if result.Quit {
		m.recordAbandoned()
		if m.embedded {
			m.backToMenu = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// recordAbandoned stores a deal the player leaves after moving cards.
func (m *Model) recordAbandoned() {
	if !m.recorded && !m.gameState.GameOver && m.gameState.Moves > 0 {
		m.record(false)
	}
}

// record writes the current deal to the store, once.
func (m *Model) record(won bool) {
	m.recorded = true
	if m.store == nil {
		return
	}

	rec := storage.GameRecord{
		Variant:  m.game.ID(),
		Won:      won,
		Score:    m.gameState.Score,
		Moves:    m.gameState.Moves,
		Duration: m.gameState.Elapsed,
		Player:   m.player,
	}
	if o, ok := m.game.(optioned); ok {
		opts := o.Options()
		rec.Solvable = opts.Solvable
		rec.DrawCount = opts.DrawCount
	}

	id, err := m.store.SaveGame(rec)
	if err != nil {
		m.logger.Warn("could not save game", "error", err)
		return
	}
	m.logger.Info("game finished",
		"id", id,
		"game", rec.Variant,
		"won", won,
		"score", rec.Score,
		"moves", rec.Moves,
		"duration", rec.Duration.Round(time.Second),
	)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	// Create screenshots directory
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".klondike", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	// Save screenshot
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	if m.showHelp {
		title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Render(m.game.Title() + " keys")
		return "\n" + title + "\n\n" + m.help.View(m.keyMapper.Keys) + "\n\nPress any key to return"
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	// Convert screen to string
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Err returns the configuration error the game rejected, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, opts ModelOptions) error {
	model := NewModel(game, opts)
	if err := model.Err(); err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks pick up and drop cards
	)

	_, err := p.Run()
	return err
}

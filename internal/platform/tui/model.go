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

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/grid"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// GameOptions configures a terminal game.
type GameOptions struct {
	Rows         int
	Cols         int
	Start        *grid.Coord
	Seed         int64 // 0 = time-based
	TickInterval time.Duration

	// OnFinish receives every finished game, e.g. to store its replay.
	OnFinish func(session.Result)

	// ScreenshotDir is where ctrl+s writes the board. Empty disables it.
	ScreenshotDir string

	Logger *log.Logger
}

// GameModel is the Bubble Tea model for one snake session. The tick loop
// starts on the first steering key and stops when the game ends.
type GameModel struct {
	sess     *session.Session
	opts     GameOptions
	frame    session.Frame
	keys     KeyMap
	help     help.Model
	width    int
	height   int
	gen      int  // tick loop generation
	ticking  bool // a tick for gen is in flight
	paused   bool
	quitting bool
	back     bool
}

// NewGameModel creates the session and wraps it in a model.
func NewGameModel(opts GameOptions) (GameModel, error) {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 100 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	sess, err := session.New(session.Config{
		Rows:     opts.Rows,
		Cols:     opts.Cols,
		Seed:     opts.Seed,
		Start:    opts.Start,
		OnFinish: opts.OnFinish,
		Logger:   opts.Logger,
	})
	if err != nil {
		return GameModel{}, err
	}

	return GameModel{
		sess:  sess,
		opts:  opts,
		frame: sess.Frame(),
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}, nil
}

// Init implements tea.Model. Nothing ticks until the first key.
func (m GameModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.frame.GameOver || m.paused {
			m.back = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		if m.frame.Started && !m.frame.GameOver {
			m.paused = !m.paused
		}
		return m, m.ensureTicking()

	case key.Matches(msg, m.keys.Restart):
		if m.frame.GameOver {
			if err := m.sess.Restart(0); err != nil {
				m.opts.Logger.Error("restart failed", "error", err)
				return m, nil
			}
			m.gen++
			m.ticking = false
			m.paused = false
			m.frame = m.sess.Frame()
		}
		return m, nil
	}

	if dir, ok := m.keys.Direction(msg); ok && !m.paused {
		m.sess.Steer(dir)
		m.frame = m.sess.Frame()
		return m, m.ensureTicking()
	}
	return m, nil
}

// ensureTicking starts the tick loop once the game is live.
func (m *GameModel) ensureTicking() tea.Cmd {
	if m.ticking || !m.sess.Started() || m.paused || m.frame.GameOver {
		return nil
	}
	m.ticking = true
	return tickCmd(m.opts.TickInterval, m.gen)
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}
	m.ticking = false
	if m.paused {
		return m, nil
	}

	m.frame, _ = m.sess.Tick()
	if m.frame.GameOver {
		return m, nil
	}
	return m, m.ensureTicking()
}

// saveScreenshot writes the current board as plain text.
func (m GameModel) saveScreenshot() {
	if m.opts.ScreenshotDir == "" {
		return
	}
	b, err := grid.New(m.frame.Rows, m.frame.Cols)
	if err != nil {
		return
	}
	for r := range m.frame.Rows {
		for c := range m.frame.Cols {
			b.Set(grid.C(r, c), m.frame.Cells[r][c])
		}
	}

	if err := os.MkdirAll(m.opts.ScreenshotDir, 0o755); err != nil {
		m.opts.Logger.Warn("screenshot dir", "error", err)
		return
	}
	name := fmt.Sprintf("snake_%s.txt", time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(m.opts.ScreenshotDir, name), []byte(b.String()+"\n"), 0o600); err != nil {
		m.opts.Logger.Warn("screenshot", "error", err)
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	needW, needH := BoardSize(m.frame.Rows, m.frame.Cols)
	if m.width > 0 && (m.width < needW || m.height < needH+2) {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			renderOverlay("Window too small", fmt.Sprintf("Need %dx%d", needW, needH+2)))
	}

	parts := []string{renderHUD(m.frame, m.paused), RenderBoard(m.frame)}
	switch {
	case m.frame.Won:
		parts = append(parts, renderOverlay("You filled the board!", fmt.Sprintf("Final score: %d", m.frame.Score), "r: restart  esc: back"))
	case m.frame.GameOver:
		parts = append(parts, renderOverlay("Game Over", fmt.Sprintf("Score: %d", m.frame.Score), "r: restart  esc: back"))
	case m.paused:
		parts = append(parts, renderOverlay("Paused", "p: continue"))
	}
	parts = append(parts, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Frame returns the last frame the model rendered.
func (m GameModel) Frame() session.Frame {
	return m.frame
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.back
}

// Run starts a Bubble Tea program for a single game.
func Run(opts GameOptions) error {
	model, err := NewGameModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// RunMenu starts a local program with the preset menu in front of the game.
func RunMenu(cfg *config.Config, onFinish func(session.Result), logger *log.Logger) error {
	model := NewSessionModel(cfg, onFinish, logger, 0, 0)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

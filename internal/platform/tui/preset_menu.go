package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/config"
)

// PresetChoice is one entry in the board preset menu.
type PresetChoice struct {
	Name string
	config.Preset
}

// PresetChoices flattens the configured presets in name order.
func PresetChoices(cfg *config.Config) []PresetChoice {
	names := cfg.PresetNames()
	out := make([]PresetChoice, 0, len(names))
	for _, name := range names {
		out = append(out, PresetChoice{Name: name, Preset: cfg.Presets[name]})
	}
	return out
}

// PresetMenuModel lets users choose a board size before playing.
type PresetMenuModel struct {
	choices  []PresetChoice
	cursor   int
	width    int
	height   int
	keys     menuKeys
	help     help.Model
	selected *PresetChoice
	quitting bool
}

// NewPresetMenuModel creates a menu over choices. The cursor starts on
// the entry named current, if present.
func NewPresetMenuModel(choices []PresetChoice, current string, width, height int) PresetMenuModel {
	m := PresetMenuModel{
		choices: choices,
		width:   width,
		height:  height,
		keys:    menuKeys{DefaultKeyMap()},
		help:    help.New(),
	}
	for i, c := range choices {
		if c.Name == current {
			m.cursor = i
		}
	}
	return m
}

// Init initializes the model.
func (m PresetMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m PresetMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m PresetMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if len(m.choices) > 0 {
			c := m.choices[m.cursor]
			m.selected = &c
		}
	}
	return m, nil
}

// View renders the preset list.
func (m PresetMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("S N A K E"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select board:", m.width))
	b.WriteString("\n\n")

	for i, c := range m.choices {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-8s %3dx%-3d %s", cursor, c.Name, c.Rows, c.Cols, dimStyle.Render(c.Description))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))

	return b.String()
}

// Selected returns the chosen preset, or nil if still choosing.
func (m PresetMenuModel) Selected() *PresetChoice {
	return m.selected
}

// IsQuitting returns true if user wants to quit.
func (m PresetMenuModel) IsQuitting() bool {
	return m.quitting
}

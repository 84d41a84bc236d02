package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/grid"
	"github.com/vovakirdan/tui-snake/internal/session"
)

// cellWidth is the number of terminal columns per board cell; two columns
// keep cells roughly square.
const cellWidth = 2

// kindStyles maps cell kinds to lipgloss styles.
var kindStyles = map[grid.CellKind]lipgloss.Style{
	grid.Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
	grid.Food:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	grid.SnakeBody: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	grid.Wall:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var kindGlyphs = map[grid.CellKind]string{
	grid.Empty:     "  ",
	grid.Food:      "<>",
	grid.SnakeBody: "██",
	grid.Wall:      "▓▓",
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	hudStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(0, 2).
			Align(lipgloss.Center)
)

// RenderBoard converts a frame to styled text, one terminal line per row.
// Adjacent cells of the same kind share a single style run to keep the
// number of ANSI sequences down.
func RenderBoard(f session.Frame) string {
	var sb strings.Builder
	sb.Grow(f.Rows * (f.Cols*cellWidth + 1) * 2)

	for r := range f.Rows {
		if r > 0 {
			sb.WriteRune('\n')
		}

		c := 0
		for c < f.Cols {
			kind := f.Kind(r, c)
			var run strings.Builder
			for c < f.Cols && f.Kind(r, c) == kind {
				run.WriteString(kindGlyphs[kind])
				c++
			}
			sb.WriteString(kindStyles[kind].Render(run.String()))
		}
	}
	return sb.String()
}

// BoardSize returns the terminal columns and lines a frame needs.
func BoardSize(rows, cols int) (width, height int) {
	return cols * cellWidth, rows
}

// renderHUD draws the status line above the board.
func renderHUD(f session.Frame, paused bool) string {
	state := "running"
	switch {
	case f.Won:
		state = "board full"
	case f.GameOver:
		state = "game over"
	case paused:
		state = "paused"
	case !f.Started:
		state = "press an arrow key"
	}

	return titleStyle.Render("SNAKE") + hudStyle.Render(fmt.Sprintf(
		"  Score: %d  Length: %d  Ticks: %d  ", f.Score, f.Length, f.Tick,
	)) + dimStyle.Render(state)
}

// renderOverlay draws a bordered message box.
func renderOverlay(lines ...string) string {
	return overlayStyle.Render(strings.Join(lines, "\n"))
}

// centerText pads text so it appears centered in width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

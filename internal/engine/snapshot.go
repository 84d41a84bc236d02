package engine

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-snake/internal/grid"
)

// Snapshot captures the scalar game state for determinism checks and logs.
type Snapshot struct {
	Tick    uint64
	Score   int
	Length  int
	Head    grid.Coord
	Food    grid.Coord
	HasFood bool
	Heading Direction
	Status  Status
}

// Snapshot returns the current scalar state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Tick:    e.ticks,
		Score:   e.Score(),
		Length:  len(e.snake),
		Head:    e.Head(),
		Food:    e.food,
		HasFood: e.hasFood,
		Heading: e.heading,
		Status:  e.status,
	}
}

// DebugState returns a multi-line dump of the game, board included.
func (e *Engine) DebugState() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tick: %d, Score: %d, Status: %s\n", e.ticks, e.Score(), e.status)
	fmt.Fprintf(&b, "Snake len: %d, Heading: %s, Head: %v, Food: %v\n", len(e.snake), e.heading, e.Head(), e.food)
	b.WriteString(e.board.String())
	return b.String()
}

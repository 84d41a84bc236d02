package session

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/engine"
	"github.com/vovakirdan/tui-snake/internal/grid"
)

// Journal is everything needed to reproduce a game: the board, the RNG seed
// and one letter per tick (U, D, L, R, or '.' for no input).
type Journal struct {
	Seed  int64
	Rows  int
	Cols  int
	Start grid.Coord
	Moves string
}

// Replay re-runs a journal on a fresh engine and returns it in its final
// state.
func Replay(j Journal, opts ...engine.Option) (*engine.Engine, error) {
	opts = append([]engine.Option{engine.WithSeed(j.Seed), engine.WithStart(j.Start)}, opts...)
	eng, err := engine.New(j.Rows, j.Cols, opts...)
	if err != nil {
		return nil, fmt.Errorf("session: replay: %w", err)
	}

	for i := 0; i < len(j.Moves); i++ {
		dir, err := engine.DirectionFromLetter(j.Moves[i])
		if err != nil {
			return nil, fmt.Errorf("session: replay move %d: %w", i, err)
		}
		eng.Advance(dir)
	}
	return eng, nil
}

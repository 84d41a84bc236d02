package session

import (
	"github.com/vovakirdan/tui-snake/internal/engine"
	"github.com/vovakirdan/tui-snake/internal/grid"
)

// Frame is a complete, self-contained view of the game after a tick. It
// shares no memory with the engine.
type Frame struct {
	Version  uint64            `json:"version"`
	Rows     int               `json:"rows"`
	Cols     int               `json:"cols"`
	Cells    [][]grid.CellKind `json:"cells"`
	Score    int               `json:"score"`
	Length   int               `json:"length"`
	Tick     uint64            `json:"tick"`
	Heading  engine.Direction  `json:"heading"`
	Status   string            `json:"status"`
	Started  bool              `json:"started"`
	GameOver bool              `json:"gameOver"`
	Won      bool              `json:"won"`
}

func (s *Session) frameLocked() Frame {
	board := s.eng.Cells()
	return Frame{
		Version:  s.version,
		Rows:     board.Rows(),
		Cols:     board.Cols(),
		Cells:    board.Kinds(),
		Score:    s.eng.Score(),
		Length:   s.eng.Len(),
		Tick:     s.eng.Ticks(),
		Heading:  s.eng.Heading(),
		Status:   s.eng.Status().String(),
		Started:  s.started,
		GameOver: s.eng.IsGameOver(),
		Won:      s.eng.Won(),
	}
}

// Kind returns the cell kind at (row, col), or Wall outside the frame.
func (f Frame) Kind(row, col int) grid.CellKind {
	if row < 0 || row >= f.Rows || col < 0 || col >= f.Cols {
		return grid.Wall
	}
	return f.Cells[row][col]
}

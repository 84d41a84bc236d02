// Package grid provides the snake board storage: a fixed-shape rectangular
// matrix of cell kinds with a wall border. It carries no game rules.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

// MinSize is the smallest row or column count that still leaves one
// interior cell inside the wall border.
const MinSize = 3

// MaxCells caps rows*cols so the backing slice stays allocatable and the
// product cannot overflow int.
const MaxCells = 1 << 24

// ErrInvalidDimensions is returned by New when the board cannot hold a
// border and at least one playable cell.
var ErrInvalidDimensions = errors.New("grid: invalid dimensions")

// CellKind is the occupant type of a single board position.
type CellKind uint8

const (
	Empty CellKind = iota
	Food
	SnakeBody
	Wall
)

// String returns the lowercase name of the kind.
func (k CellKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Food:
		return "food"
	case SnakeBody:
		return "snake"
	case Wall:
		return "wall"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name, which also keeps a []CellKind row
// a JSON array instead of a base64 string.
func (k CellKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *CellKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "empty":
		*k = Empty
	case "food":
		*k = Food
	case "snake":
		*k = SnakeBody
	case "wall":
		*k = Wall
	default:
		return fmt.Errorf("grid: unknown cell kind %q", b)
	}
	return nil
}

// Glyph returns the ASCII character used by String and debug dumps.
func (k CellKind) Glyph() byte {
	switch k {
	case Food:
		return '*'
	case SnakeBody:
		return 'o'
	case Wall:
		return '#'
	default:
		return '.'
	}
}

// Coord addresses a cell. Row grows downward, Col grows to the right.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// C is a convenience constructor for Coord.
func C(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// Add returns the coordinate offset by (dr, dc).
func (c Coord) Add(dr, dc int) Coord {
	return Coord{Row: c.Row + dr, Col: c.Col + dc}
}

// Adjacent reports whether two coordinates differ by one unit on exactly
// one axis.
func (c Coord) Adjacent(o Coord) bool {
	dr, dc := c.Row-o.Row, c.Col-o.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid is a rows×cols matrix stored row-major: index = row*cols + col.
type Grid struct {
	rows  int
	cols  int
	cells []CellKind
}

// New allocates a board, stamps the border with Wall and leaves the interior
// Empty.
func New(rows, cols int) (*Grid, error) {
	if rows < MinSize || cols < MinSize {
		return nil, fmt.Errorf("%w: %dx%d (minimum %dx%d)", ErrInvalidDimensions, rows, cols, MinSize, MinSize)
	}
	if rows > MaxCells/cols {
		return nil, fmt.Errorf("%w: %dx%d (at most %d cells)", ErrInvalidDimensions, rows, cols, MaxCells)
	}

	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]CellKind, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if g.IsBorder(C(r, c)) {
				g.cells[r*cols+c] = Wall
			}
		}
	}
	return g, nil
}

// Rows returns the row count.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the column count.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether c addresses a cell of this grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// IsBorder reports whether c lies on the outer ring.
func (g *Grid) IsBorder(c Coord) bool {
	return c.Row == 0 || c.Row == g.rows-1 || c.Col == 0 || c.Col == g.cols-1
}

// IsInterior reports whether c is inside the grid and off the border.
func (g *Grid) IsInterior(c Coord) bool {
	return g.InBounds(c) && !g.IsBorder(c)
}

func (g *Grid) index(c Coord) int {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("grid: coordinate %v out of range for %dx%d grid", c, g.rows, g.cols))
	}
	return c.Row*g.cols + c.Col
}

// Get returns the kind at c. Panics when c is out of range.
func (g *Grid) Get(c Coord) CellKind {
	return g.cells[g.index(c)]
}

// Set overwrites the kind at c. Panics when c is out of range.
func (g *Grid) Set(c Coord, k CellKind) {
	g.cells[g.index(c)] = k
}

// Snapshot returns a deep copy that never observes later mutations.
func (g *Grid) Snapshot() *Grid {
	cells := make([]CellKind, len(g.cells))
	copy(cells, g.cells)
	return &Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// Interior lists every non-border coordinate in row-major order.
func (g *Grid) Interior() []Coord {
	coords := make([]Coord, 0, (g.rows-2)*(g.cols-2))
	for r := 1; r < g.rows-1; r++ {
		for c := 1; c < g.cols-1; c++ {
			coords = append(coords, C(r, c))
		}
	}
	return coords
}

// InteriorSize returns the number of playable cells.
func (g *Grid) InteriorSize() int {
	return (g.rows - 2) * (g.cols - 2)
}

// Count returns how many cells currently hold kind k.
func (g *Grid) Count(k CellKind) int {
	n := 0
	for _, cell := range g.cells {
		if cell == k {
			n++
		}
	}
	return n
}

// Kinds returns the board as a fresh [row][col] matrix.
func (g *Grid) Kinds() [][]CellKind {
	out := make([][]CellKind, g.rows)
	for r := range out {
		row := make([]CellKind, g.cols)
		copy(row, g.cells[r*g.cols:(r+1)*g.cols])
		out[r] = row
	}
	return out
}

// Equal reports whether both grids have the same shape and contents.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i, cell := range g.cells {
		if cell != o.cells[i] {
			return false
		}
	}
	return true
}

// String renders the board one line per row using CellKind glyphs.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < g.cols; c++ {
			sb.WriteByte(g.cells[r*g.cols+c].Glyph())
		}
	}
	return sb.String()
}

package engine

import (
	"fmt"
	"strings"
)

// Direction is a steering input. None is the "no key pressed yet" sentinel.
type Direction uint8

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the four movement directions.
var Directions = [...]Direction{Up, Down, Left, Right}

// Delta returns the (row, col) offset of one step. Up decreases the row.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction. None is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return None
	}
}

// Valid reports whether d is one of the four movement directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Letter is the one-byte journal encoding: U, D, L, R or '.' for None.
func (d Direction) Letter() byte {
	switch d {
	case Up:
		return 'U'
	case Down:
		return 'D'
	case Left:
		return 'L'
	case Right:
		return 'R'
	default:
		return '.'
	}
}

// DirectionFromLetter decodes a journal byte.
func DirectionFromLetter(b byte) (Direction, error) {
	switch b {
	case 'U':
		return Up, nil
	case 'D':
		return Down, nil
	case 'L':
		return Left, nil
	case 'R':
		return Right, nil
	case '.':
		return None, nil
	}
	return None, fmt.Errorf("engine: invalid direction letter %q", b)
}

// ParseDirection accepts the String form case-insensitively, plus the
// single letters u/d/l/r.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	case "none", "":
		return None, nil
	}
	return None, fmt.Errorf("engine: unknown direction %q", s)
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

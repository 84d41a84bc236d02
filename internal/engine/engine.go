// Package engine implements the snake simulation: it owns the board, the
// snake body and the food, and advances them one step per Advance call.
// The engine is single-threaded; callers that read from another goroutine
// must go through Cells, which hands out a copy.
package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/grid"
)

// ErrInvalidStart is returned when a start or food coordinate is not a free
// interior cell.
var ErrInvalidStart = errors.New("engine: invalid start position")

// DefaultStart is the head position of a new snake, clamped into the
// interior on boards too small to contain it.
var DefaultStart = grid.C(2, 2)

// sampleFactor bounds rejection sampling to sampleFactor*interior attempts
// before PlaceFood falls back to scanning the free cells.
const sampleFactor = 4

// Status is the engine state machine position.
type Status uint8

const (
	Running Status = iota
	GameOver
	Won
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case GameOver:
		return "game_over"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further mutation is accepted.
func (s Status) Terminal() bool {
	return s != Running
}

// Outcome describes what a single Advance call did.
type Outcome uint8

const (
	Idle     Outcome = iota // nothing moved: terminal, or no heading yet
	Moved                   // head advanced onto an empty cell, tail vacated
	Ate                     // head advanced onto food, snake grew
	Collided                // wall or body hit, game over
	Filled                  // snake grew and no free cell is left for food
)

func (o Outcome) String() string {
	switch o {
	case Idle:
		return "idle"
	case Moved:
		return "moved"
	case Ate:
		return "ate"
	case Collided:
		return "collided"
	case Filled:
		return "filled"
	default:
		return "unknown"
	}
}

// Engine is one game of snake.
type Engine struct {
	board      *grid.Grid
	snake      []grid.Coord // tail at index 0, head last
	food       grid.Coord
	hasFood    bool
	heading    Direction
	status     Status
	initialLen int
	ticks      uint64

	rng    *rand.Rand
	logger *log.Logger
}

// Option configures a new Engine.
type Option func(*options)

type options struct {
	rng    *rand.Rand
	start  *grid.Coord
	food   *grid.Coord
	logger *log.Logger
}

// WithSeed seeds the food placement RNG.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies the RNG used for food placement.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithStart places the initial single-segment snake at c.
func WithStart(c grid.Coord) Option {
	return func(o *options) {
		o.start = &c
	}
}

// WithFood places the first food item at c instead of a random cell.
func WithFood(c grid.Coord) Option {
	return func(o *options) {
		o.food = &c
	}
}

// WithLogger sets the debug logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a running game on a rows×cols board.
func New(rows, cols int, opts ...Option) (*Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	board, err := grid.New(rows, cols)
	if err != nil {
		return nil, err
	}

	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	start := grid.C(min(DefaultStart.Row, rows-2), min(DefaultStart.Col, cols-2))
	if o.start != nil {
		start = *o.start
	}
	if !board.IsInterior(start) {
		return nil, fmt.Errorf("%w: start %v outside interior of %dx%d board", ErrInvalidStart, start, rows, cols)
	}

	e := &Engine{
		board:  board,
		snake:  []grid.Coord{start},
		rng:    o.rng,
		logger: o.logger,
	}
	e.initialLen = len(e.snake)
	board.Set(start, grid.SnakeBody)

	if o.food != nil {
		f := *o.food
		if !board.IsInterior(f) || board.Get(f) != grid.Empty {
			return nil, fmt.Errorf("%w: food %v is not a free interior cell", ErrInvalidStart, f)
		}
		e.putFood(f)
	} else {
		e.placeFood()
	}

	e.logger.Debug("game created", "rows", rows, "cols", cols, "start", start, "food", e.food)
	return e, nil
}

// Advance moves the snake one step. dir None keeps the current heading; a
// direction exactly opposite to the heading is ignored. Calls after the game
// has ended are no-ops.
func (e *Engine) Advance(dir Direction) Outcome {
	if e.status.Terminal() {
		return Idle
	}

	next := e.resolve(dir)
	if next == None {
		return Idle
	}

	dr, dc := next.Delta()
	head := e.Head().Add(dr, dc)

	switch e.board.Get(head) {
	case grid.Wall, grid.SnakeBody:
		e.status = GameOver
		e.logger.Debug("collision", "at", head, "kind", e.board.Get(head), "score", e.Score())
		return Collided

	case grid.Food:
		e.heading = next
		e.ticks++
		e.snake = append(e.snake, head)
		e.board.Set(head, grid.SnakeBody)
		e.hasFood = false
		if _, ok := e.placeFood(); !ok {
			return Filled
		}
		e.logger.Debug("food eaten", "at", head, "score", e.Score(), "next", e.food)
		return Ate

	default:
		e.heading = next
		e.ticks++
		tail := e.snake[0]
		e.snake = append(e.snake[1:], head)
		e.board.Set(tail, grid.Empty)
		e.board.Set(head, grid.SnakeBody)
		return Moved
	}
}

// resolve applies the heading rules to a requested direction.
func (e *Engine) resolve(dir Direction) Direction {
	if !dir.Valid() {
		return e.heading
	}
	if e.heading != None && dir == e.heading.Opposite() {
		return e.heading
	}
	return dir
}

// PlaceFood moves the food item to a uniformly chosen empty interior cell.
// When no free cell is left the engine moves to Won and ok is false. After
// the game has ended it changes nothing and returns the current food.
func (e *Engine) PlaceFood() (c grid.Coord, ok bool) {
	if e.status.Terminal() {
		return e.food, false
	}
	return e.placeFood()
}

func (e *Engine) placeFood() (c grid.Coord, ok bool) {
	if e.hasFood {
		e.board.Set(e.food, grid.Empty)
		e.hasFood = false
	}

	rows, cols := e.board.Rows()-2, e.board.Cols()-2
	attempts := sampleFactor * e.board.InteriorSize()
	for range attempts {
		c = grid.C(1+e.rng.Intn(rows), 1+e.rng.Intn(cols))
		if e.board.Get(c) == grid.Empty {
			e.putFood(c)
			return c, true
		}
	}

	var free []grid.Coord
	for _, cand := range e.board.Interior() {
		if e.board.Get(cand) == grid.Empty {
			free = append(free, cand)
		}
	}
	if len(free) == 0 {
		e.status = Won
		e.logger.Debug("board filled", "length", len(e.snake))
		return grid.Coord{}, false
	}

	c = free[e.rng.Intn(len(free))]
	e.putFood(c)
	return c, true
}

func (e *Engine) putFood(c grid.Coord) {
	e.board.Set(c, grid.Food)
	e.food = c
	e.hasFood = true
}

// IsGameOver reports whether the game has reached a terminal state,
// either by collision or by filling the board.
func (e *Engine) IsGameOver() bool { return e.status.Terminal() }

// Won reports whether the snake filled the whole interior.
func (e *Engine) Won() bool { return e.status == Won }

// Status returns the state machine position.
func (e *Engine) Status() Status { return e.status }

// Score is the number of food items eaten.
func (e *Engine) Score() int { return len(e.snake) - e.initialLen }

// Cells returns a copy of the board safe to hand to a renderer.
func (e *Engine) Cells() *grid.Grid { return e.board.Snapshot() }

// Snake returns a copy of the body, tail first.
func (e *Engine) Snake() []grid.Coord {
	out := make([]grid.Coord, len(e.snake))
	copy(out, e.snake)
	return out
}

// Head returns the head coordinate.
func (e *Engine) Head() grid.Coord { return e.snake[len(e.snake)-1] }

// Len returns the snake length.
func (e *Engine) Len() int { return len(e.snake) }

// Food returns the current food coordinate. ok is false once the board is
// full.
func (e *Engine) Food() (c grid.Coord, ok bool) { return e.food, e.hasFood }

// Heading is the direction in effect; None until the first move.
func (e *Engine) Heading() Direction { return e.heading }

// Ticks counts the steps that moved the snake.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Rows returns the board height.
func (e *Engine) Rows() int { return e.board.Rows() }

// Cols returns the board width.
func (e *Engine) Cols() int { return e.board.Cols() }

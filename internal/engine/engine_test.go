package engine

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/grid"
)

// newFiveByFive builds the 5x5 board used by the scenario tests: snake at
// (2,2), food moved to the given cell.
func newFiveByFive(t *testing.T, food grid.Coord) *Engine {
	t.Helper()
	e, err := New(5, 5, WithSeed(1), WithStart(grid.C(2, 2)), WithFood(food))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e
}

// setBody replaces the snake with the given body (tail first) and stamps it
// on the board.
func setBody(e *Engine, body []grid.Coord, heading Direction) {
	for _, c := range e.snake {
		e.board.Set(c, grid.Empty)
	}
	e.snake = append([]grid.Coord(nil), body...)
	for _, c := range body {
		e.board.Set(c, grid.SnakeBody)
	}
	e.initialLen = 1
	e.heading = heading
}

func checkInvariants(t *testing.T, e *Engine) {
	t.Helper()

	for r := 0; r < e.board.Rows(); r++ {
		for c := 0; c < e.board.Cols(); c++ {
			coord := grid.C(r, c)
			if e.board.IsBorder(coord) && e.board.Get(coord) != grid.Wall {
				t.Fatalf("border cell %v is %v, want wall", coord, e.board.Get(coord))
			}
		}
	}

	if e.Score() != e.Len()-e.initialLen {
		t.Fatalf("score %d != length %d - initial %d", e.Score(), e.Len(), e.initialLen)
	}

	if e.status == Running {
		seen := make(map[grid.Coord]bool, len(e.snake))
		for i, c := range e.snake {
			if seen[c] {
				t.Fatalf("snake overlaps itself at %v", c)
			}
			seen[c] = true
			if e.board.Get(c) != grid.SnakeBody {
				t.Fatalf("snake segment %v is %v on board", c, e.board.Get(c))
			}
			if i > 0 && !c.Adjacent(e.snake[i-1]) {
				t.Fatalf("segments %v and %v are not adjacent", e.snake[i-1], c)
			}
		}
		if e.board.Count(grid.SnakeBody) != len(e.snake) {
			t.Fatalf("board has %d snake cells, snake has %d", e.board.Count(grid.SnakeBody), len(e.snake))
		}
		if e.hasFood && e.board.Get(e.food) != grid.Food {
			t.Fatalf("food %v is %v on board", e.food, e.board.Get(e.food))
		}
	}
}

func TestNewInitialState(t *testing.T) {
	e, err := New(30, 30, WithSeed(42))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if e.IsGameOver() {
		t.Error("game should start running")
	}
	if e.Head() != DefaultStart {
		t.Errorf("expected head at %v, got %v", DefaultStart, e.Head())
	}
	if e.Heading() != None {
		t.Errorf("expected no heading, got %v", e.Heading())
	}
	if e.Score() != 0 {
		t.Errorf("expected score 0, got %d", e.Score())
	}
	food, ok := e.Food()
	if !ok {
		t.Fatal("expected food to be placed")
	}
	if !e.board.IsInterior(food) {
		t.Errorf("food %v not in interior", food)
	}
	if e.board.Count(grid.Food) != 1 {
		t.Errorf("expected exactly one food cell, got %d", e.board.Count(grid.Food))
	}
	checkInvariants(t, e)
}

func TestNewInvalid(t *testing.T) {
	if _, err := New(2, 10); !errors.Is(err, grid.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
	if _, err := New(5, 5, WithStart(grid.C(0, 2))); !errors.Is(err, ErrInvalidStart) {
		t.Errorf("expected ErrInvalidStart for wall start, got %v", err)
	}
	if _, err := New(5, 5, WithStart(grid.C(2, 2)), WithFood(grid.C(2, 2))); !errors.Is(err, ErrInvalidStart) {
		t.Errorf("expected ErrInvalidStart for food on snake, got %v", err)
	}
}

func TestStartClampedOnTinyBoard(t *testing.T) {
	e, err := New(3, 3, WithSeed(7))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if e.Head() != grid.C(1, 1) {
		t.Errorf("expected head at (1,1), got %v", e.Head())
	}
	// The only interior cell is the snake, so there is nowhere for food.
	if !e.Won() {
		t.Error("expected a 3x3 board to start in the won state")
	}
	if e.Advance(Right) != Idle {
		t.Error("advance on a finished game should be idle")
	}
}

func TestMoveRightNoFood(t *testing.T) {
	e := newFiveByFive(t, grid.C(1, 1))

	if got := e.Advance(Right); got != Moved {
		t.Fatalf("expected Moved, got %v", got)
	}

	if e.Head() != grid.C(2, 3) {
		t.Errorf("expected head at (2,3), got %v", e.Head())
	}
	if e.board.Get(grid.C(2, 2)) != grid.Empty {
		t.Errorf("expected (2,2) empty, got %v", e.board.Get(grid.C(2, 2)))
	}
	if e.board.Get(grid.C(2, 3)) != grid.SnakeBody {
		t.Errorf("expected (2,3) snake, got %v", e.board.Get(grid.C(2, 3)))
	}
	if e.Score() != 0 {
		t.Errorf("expected score 0, got %d", e.Score())
	}
	checkInvariants(t, e)
}

func TestEatFood(t *testing.T) {
	e := newFiveByFive(t, grid.C(2, 3))

	if got := e.Advance(Right); got != Ate {
		t.Fatalf("expected Ate, got %v", got)
	}

	if e.Len() != 2 {
		t.Errorf("expected length 2, got %d", e.Len())
	}
	for _, c := range []grid.Coord{grid.C(2, 2), grid.C(2, 3)} {
		if e.board.Get(c) != grid.SnakeBody {
			t.Errorf("expected %v to be snake, got %v", c, e.board.Get(c))
		}
	}
	if e.Score() != 1 {
		t.Errorf("expected score 1, got %d", e.Score())
	}

	food, ok := e.Food()
	if !ok {
		t.Fatal("expected new food")
	}
	if food == grid.C(2, 2) || food == grid.C(2, 3) || !e.board.IsInterior(food) {
		t.Errorf("new food at invalid cell %v", food)
	}
	checkInvariants(t, e)
}

func TestWallCollision(t *testing.T) {
	e := newFiveByFive(t, grid.C(3, 3))
	setBody(e, []grid.Coord{grid.C(1, 2)}, None)

	before := e.Cells()
	if got := e.Advance(Up); got != Collided {
		t.Fatalf("expected Collided, got %v", got)
	}

	if !e.IsGameOver() {
		t.Fatal("expected game over after hitting the wall")
	}
	if e.Won() {
		t.Error("wall collision is not a win")
	}
	if !e.Cells().Equal(before) {
		t.Error("board changed on collision")
	}

	snap := e.Snapshot()
	for _, d := range []Direction{Up, Down, Left, Right, None} {
		if got := e.Advance(d); got != Idle {
			t.Errorf("Advance(%v) after game over returned %v", d, got)
		}
	}
	if e.Snapshot() != snap {
		t.Error("state changed after game over")
	}
	if !e.Cells().Equal(before) {
		t.Error("board changed after game over")
	}
}

func TestSelfCollision(t *testing.T) {
	e, err := New(7, 7, WithSeed(3), WithStart(grid.C(3, 3)), WithFood(grid.C(5, 5)))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	// Tail (2,2) -> (2,3) -> (3,3) -> head (3,2); moving up lands on the tail.
	setBody(e, []grid.Coord{grid.C(2, 2), grid.C(2, 3), grid.C(3, 3), grid.C(3, 2)}, Left)
	if got := e.Advance(Up); got != Collided {
		t.Fatalf("expected Collided moving into the tail, got %v", got)
	}
	if !e.IsGameOver() {
		t.Error("expected game over on self collision")
	}
}

func TestSelfCollisionSegmentTwo(t *testing.T) {
	e := newFiveByFive(t, grid.C(3, 3))
	// Three segments bent in an L: tail (1,1), (1,2), head (2,2). Moving up
	// from (2,2) lands on segment two at (1,2).
	setBody(e, []grid.Coord{grid.C(1, 1), grid.C(1, 2), grid.C(2, 2)}, Right)

	before := e.Cells()
	if got := e.Advance(Up); got != Collided {
		t.Fatalf("expected Collided, got %v", got)
	}
	if !e.IsGameOver() {
		t.Fatal("expected game over")
	}
	if !e.Cells().Equal(before) {
		t.Error("board changed on self collision")
	}
}

func TestNoneDirectionWaits(t *testing.T) {
	e := newFiveByFive(t, grid.C(1, 1))
	before := e.Cells()

	for range 5 {
		if got := e.Advance(None); got != Idle {
			t.Fatalf("expected Idle, got %v", got)
		}
	}
	if !e.Cells().Equal(before) || e.Ticks() != 0 {
		t.Error("None before any heading should not move the snake")
	}

	e.Advance(Right)
	if got := e.Advance(None); got != Collided {
		t.Errorf("None should keep heading right into the wall, got %v", got)
	}
}

func TestReversalIgnored(t *testing.T) {
	e, err := New(10, 10, WithSeed(5), WithStart(grid.C(5, 3)), WithFood(grid.C(5, 4)))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	e.Advance(Right) // eats, length 2, head (5,4)
	if e.Len() != 2 {
		t.Fatalf("expected length 2, got %d", e.Len())
	}

	if got := e.Advance(Left); got == Collided {
		t.Fatal("reverse input should be ignored, not collide")
	}
	if e.Heading() != Right {
		t.Errorf("expected heading to stay right, got %v", e.Heading())
	}
	if e.Head() != grid.C(5, 5) {
		t.Errorf("expected head to continue to (5,5), got %v", e.Head())
	}
	checkInvariants(t, e)
}

func TestPlaceFoodValidity(t *testing.T) {
	e, err := New(12, 9, WithSeed(999))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	for range 200 {
		c, ok := e.PlaceFood()
		if !ok {
			t.Fatal("PlaceFood() found no cell on an almost empty board")
		}
		if !e.board.IsInterior(c) {
			t.Fatalf("food placed outside interior at %v", c)
		}
		if e.board.Get(c) != grid.Food {
			t.Fatalf("food cell %v has kind %v", c, e.board.Get(c))
		}
		if e.board.Count(grid.Food) != 1 {
			t.Fatalf("expected one food cell, got %d", e.board.Count(grid.Food))
		}
	}
}

func TestPlaceFoodFallbackFindsLastCell(t *testing.T) {
	e := newFiveByFive(t, grid.C(3, 3))
	// Fill every interior cell but (3,3) with snake.
	body := []grid.Coord{
		grid.C(1, 1), grid.C(1, 2), grid.C(1, 3),
		grid.C(2, 3), grid.C(2, 2), grid.C(2, 1),
		grid.C(3, 1), grid.C(3, 2),
	}
	setBody(e, body, Down)
	e.board.Set(grid.C(3, 3), grid.Empty)
	e.hasFood = false

	c, ok := e.PlaceFood()
	if !ok || c != grid.C(3, 3) {
		t.Fatalf("expected food at (3,3), got %v ok=%v", c, ok)
	}

	// Eating the last free cell fills the board.
	e.heading = Right
	if got := e.Advance(Right); got != Filled {
		t.Fatalf("expected Filled, got %v", got)
	}
	if !e.Won() || !e.IsGameOver() {
		t.Error("expected the won terminal state")
	}
	if e.Score() != 9-1 {
		t.Errorf("expected score 8, got %d", e.Score())
	}
	if _, ok := e.Food(); ok {
		t.Error("no food should remain on a full board")
	}
}

func TestPlaceFoodAfterGameOver(t *testing.T) {
	e, err := New(10, 10, WithStart(grid.C(1, 2)), WithFood(grid.C(5, 5)))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if got := e.Advance(Up); got != Collided {
		t.Fatalf("expected Collided, got %v", got)
	}

	before := e.Cells()
	c, ok := e.PlaceFood()
	if ok {
		t.Errorf("PlaceFood() after game over reported a placement at %v", c)
	}
	if c != grid.C(5, 5) {
		t.Errorf("expected current food (5,5), got %v", c)
	}
	if !e.Cells().Equal(before) {
		t.Error("board changed after game over")
	}
	if f, has := e.Food(); !has || f != grid.C(5, 5) {
		t.Errorf("food moved after game over: %v has=%v", f, has)
	}
}

func TestWithRandMatchesWithSeed(t *testing.T) {
	a, err := New(15, 15, WithRand(rand.New(rand.NewSource(7))))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	b, err := New(15, 15, WithSeed(7))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	for range 20 {
		fa, _ := a.PlaceFood()
		fb, _ := b.PlaceFood()
		if fa != fb {
			t.Fatalf("food differs: WithRand %v, WithSeed %v", fa, fb)
		}
	}
}

func TestDebugState(t *testing.T) {
	e := newFiveByFive(t, grid.C(3, 3))
	e.Advance(Right)

	got := e.DebugState()
	for _, want := range []string{
		"Tick: 1, Score: 0, Status: running",
		"Heading: right, Head: (2,3), Food: (3,3)",
		e.Cells().String(),
	} {
		if !strings.Contains(got, want) {
			t.Errorf("DebugState() missing %q:\n%s", want, got)
		}
	}
}

func TestDeterminism(t *testing.T) {
	moves := []Direction{Right, Right, Down, Down, Left, None, Down, Right, Right, Up, Up, Up, Left, Left}

	run := func() *Engine {
		e, err := New(12, 12, WithSeed(12345))
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		for _, d := range moves {
			e.Advance(d)
		}
		return e
	}

	a, b := run(), run()
	if a.Snapshot() != b.Snapshot() {
		t.Errorf("snapshots differ:\n%+v\n%+v", a.Snapshot(), b.Snapshot())
	}
	if !a.Cells().Equal(b.Cells()) {
		t.Error("boards differ for the same seed and moves")
	}
}

func TestRandomWalkInvariants(t *testing.T) {
	e, err := New(8, 8, WithSeed(2024))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	prevLen := e.Len()
	for i := 0; i < 500 && !e.IsGameOver(); i++ {
		d := Directions[e.rng.Intn(len(Directions))]
		wasFood := false
		if d != e.Heading().Opposite() || e.Heading() == None {
			dr, dc := d.Delta()
			wasFood = e.board.Get(e.Head().Add(dr, dc)) == grid.Food
		}

		out := e.Advance(d)
		checkInvariants(t, e)

		if e.Len() < prevLen {
			t.Fatalf("length shrank from %d to %d", prevLen, e.Len())
		}
		grew := e.Len() == prevLen+1
		if grew != (out == Ate || out == Filled) {
			t.Fatalf("step %d: outcome %v but grew=%v", i, out, grew)
		}
		if wasFood && out != Ate && out != Filled {
			t.Fatalf("step %d: moved onto food but outcome %v", i, out)
		}
		prevLen = e.Len()
	}
}

func TestCellsIsCopy(t *testing.T) {
	e := newFiveByFive(t, grid.C(1, 1))
	view := e.Cells()
	view.Set(grid.C(3, 3), grid.Wall)

	if e.board.Get(grid.C(3, 3)) == grid.Wall {
		t.Error("mutating Cells() result changed engine state")
	}

	body := e.Snake()
	body[0] = grid.C(0, 0)
	if e.snake[0] == grid.C(0, 0) {
		t.Error("mutating Snake() result changed engine state")
	}
}

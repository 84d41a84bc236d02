// Package session drives one engine for a front-end: it applies the input
// contract (same and reverse keys are ignored, the first key starts the
// game), keeps a move journal for replays and hands out whole frames that
// are safe to read from another goroutine.
package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/engine"
	"github.com/vovakirdan/tui-snake/internal/grid"
)

// Config describes the game a session creates.
type Config struct {
	Rows  int
	Cols  int
	Seed  int64 // 0 means time-based
	Start *grid.Coord

	// OnFinish is called once per game when it reaches a terminal state.
	OnFinish func(Result)

	Logger *log.Logger
}

// Result is what a finished game leaves behind.
type Result struct {
	Journal Journal
	Final   engine.Snapshot
}

// Session owns one engine at a time.
type Session struct {
	mu       sync.Mutex
	cfg      Config
	eng      *engine.Engine
	seed     int64
	start    grid.Coord
	pending  engine.Direction
	started  bool
	finished bool
	moves    []byte
	version  uint64
	logger   *log.Logger
}

// New creates a session and its first game.
func New(cfg Config) (*Session, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	s := &Session{cfg: cfg, logger: cfg.Logger}
	if err := s.reset(cfg.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// reset builds a fresh engine. Callers hold s.mu or own s exclusively.
func (s *Session) reset(seed int64) error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := []engine.Option{engine.WithSeed(seed), engine.WithLogger(s.logger)}
	if s.cfg.Start != nil {
		opts = append(opts, engine.WithStart(*s.cfg.Start))
	}
	eng, err := engine.New(s.cfg.Rows, s.cfg.Cols, opts...)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	s.eng = eng
	s.seed = seed
	s.start = eng.Head()
	s.pending = engine.None
	s.started = false
	s.finished = eng.IsGameOver()
	s.moves = s.moves[:0]
	s.version++
	return nil
}

// Restart discards the current game and starts a new one.
func (s *Session) Restart(seed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reset(seed)
}

// Steer records a direction for the next tick. Inputs equal to the last
// accepted direction or its reverse are dropped, as are inputs after the
// game ended. Returns whether the input was accepted.
func (s *Session) Steer(dir engine.Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !dir.Valid() || s.eng.IsGameOver() {
		return false
	}
	if dir == s.pending || dir == s.pending.Opposite() {
		return false
	}

	s.pending = dir
	if !s.started {
		s.started = true
		s.version++
		s.logger.Debug("game started", "dir", dir)
	}
	return true
}

// Tick advances the game one step. Before the first key and after the game
// ended it only returns the current frame.
func (s *Session) Tick() (Frame, engine.Outcome) {
	s.mu.Lock()

	if !s.started || s.eng.IsGameOver() {
		f := s.frameLocked()
		s.mu.Unlock()
		return f, engine.Idle
	}

	out := s.eng.Advance(s.pending)
	s.moves = append(s.moves, s.pending.Letter())
	s.version++

	var result *Result
	if s.eng.IsGameOver() && !s.finished {
		s.finished = true
		r := Result{Journal: s.journalLocked(), Final: s.eng.Snapshot()}
		result = &r
		s.logger.Info("game finished",
			"status", s.eng.Status(),
			"score", s.eng.Score(),
			"ticks", len(s.moves),
		)
	}
	f := s.frameLocked()
	s.mu.Unlock()

	if result != nil && s.cfg.OnFinish != nil {
		s.cfg.OnFinish(*result)
	}
	return f, out
}

// Frame returns the current frame without advancing.
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

// Journal returns the moves of the current game so far.
func (s *Session) Journal() Journal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.journalLocked()
}

// Started reports whether a direction has been accepted in this game.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// GameOver reports whether the current game has ended.
func (s *Session) GameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.IsGameOver()
}

func (s *Session) journalLocked() Journal {
	return Journal{
		Seed:  s.seed,
		Rows:  s.eng.Rows(),
		Cols:  s.eng.Cols(),
		Start: s.start,
		Moves: string(s.moves),
	}
}

// Run ticks the session every interval until ctx is done, calling onFrame
// whenever the frame changed since the last call.
func (s *Session) Run(ctx context.Context, interval time.Duration, onFrame func(Frame) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var sent uint64
	emit := func(f Frame) error {
		if f.Version == sent {
			return nil
		}
		sent = f.Version
		return onFrame(f)
	}

	if err := emit(s.Frame()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f, _ := s.Tick()
			if err := emit(f); err != nil {
				return err
			}
		}
	}
}

package storage

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/session"
)

// Recorder returns a session finish callback that stores each game as a
// replay. Saves are best-effort: failures are logged, never returned.
// A nil store yields a nil callback.
func (s *Store) Recorder(logger *log.Logger) func(session.Result) {
	if s == nil {
		return nil
	}
	return func(res session.Result) {
		r := FromResult(res)
		id, err := s.SaveReplay(r)
		if err != nil {
			if logger != nil {
				logger.Warn("replay not saved", "error", err)
			}
			return
		}
		if logger != nil {
			logger.Debug("replay saved", "id", id, "ticks", r.Ticks, "outcome", r.Outcome)
		}
	}
}

package panwrap

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Guard admits at most one build at a time. A build started while another
// is in flight is rejected, not queued.
type Guard struct {
	current atomic.Pointer[Session]
}

// Session is an admitted build. End must be called on every exit path.
type Session struct {
	ID      string
	Started time.Time

	guard *Guard
	ended atomic.Bool
}

// Start admits a new session, or fails with ErrBuildInProgress.
func (g *Guard) Start() (*Session, error) {
	s := &Session{ID: uuid.NewString(), Started: time.Now(), guard: g}
	if !g.current.CompareAndSwap(nil, s) {
		return nil, ErrBuildInProgress
	}
	return s, nil
}

// Busy reports whether a session is outstanding.
func (g *Guard) Busy() bool { return g.current.Load() != nil }

// End releases the guard. Calling it again is a no-op.
func (s *Session) End() {
	if s.ended.CompareAndSwap(false, true) {
		s.guard.current.CompareAndSwap(s, nil)
	}
}

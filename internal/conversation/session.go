// Package conversation holds per-session chat history. A session lives from
// its creation until it is reset or sits idle past the store's timeout.
package conversation

import (
	"sync"
	"time"

	"github.com/cortexai/datachat/internal/models"
)

// Session is the append-only turn log of one interactive session.
type Session struct {
	ID        string
	CreatedAt time.Time

	turn sync.Mutex // held for the duration of one turn

	mu    sync.RWMutex
	turns []models.Turn
}

func newSession(id string) *Session {
	return &Session{ID: id, CreatedAt: time.Now()}
}

// BeginTurn serializes turns within the session. Call the returned function
// when the turn is finished.
func (s *Session) BeginTurn() (end func()) {
	s.turn.Lock()
	return s.turn.Unlock
}

// Append adds a turn stamped with the current time.
func (s *Session) Append(role models.Role, content string) models.Turn {
	t := models.Turn{Role: role, Content: content, CreatedAt: time.Now()}
	s.mu.Lock()
	s.turns = append(s.turns, t)
	s.mu.Unlock()
	return t
}

// Turns returns a copy of the log in chronological order.
func (s *Session) Turns() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

package conversation

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// Store keeps live sessions in memory. Nothing is persisted: a session that
// expires or is reset is gone.
type Store struct {
	idle  time.Duration
	items *cache.Cache
}

// NewStore creates a store whose sessions end after idle without access.
func NewStore(idle time.Duration) *Store {
	c := cache.New(idle, idle/2+time.Minute)
	c.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			log.Debug().Str("session_id", id).Int("turns", s.Len()).Msg("conversation ended")
		}
	})
	return &Store{idle: idle, items: c}
}

// Create starts a new, empty session.
func (st *Store) Create() *Session {
	s := newSession(uuid.NewString())
	st.items.Set(s.ID, s, st.idle)
	log.Debug().Str("session_id", s.ID).Msg("conversation started")
	return s
}

// Get returns the live session id and extends its idle deadline.
func (st *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := st.items.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	st.items.Set(id, s, st.idle)
	return s, true
}

// GetOrCreate returns the session for id, or a fresh one when id is unknown
// or expired.
func (st *Store) GetOrCreate(id string) *Session {
	if s, ok := st.Get(id); ok {
		return s
	}
	return st.Create()
}

// Reset ends session id and returns a fresh one.
func (st *Store) Reset(id string) *Session {
	st.End(id)
	return st.Create()
}

// End discards session id.
func (st *Store) End(id string) {
	st.items.Delete(id)
}

// Count returns the number of live sessions.
func (st *Store) Count() int {
	return st.items.ItemCount()
}

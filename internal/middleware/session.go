package middleware

import (
	"context"
	"crypto/sha256"
	"net/http"

	"github.com/cortexai/datachat/internal/conversation"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

// SessionName is the browser session cookie.
const SessionName = "datachat-session"

// Session value keys.
const (
	sessionKeyConversation  = "conversation_id"
	sessionKeyAuthenticated = "authenticated"
)

// SessionManager binds the signed browser cookie to a live conversation.
type SessionManager struct {
	cookies       *sessions.CookieStore
	conversations *conversation.Store
}

// NewSessionManager signs cookies with a key derived from secret. An empty
// secret gets a random key, so sessions do not survive a restart.
func NewSessionManager(secret string, secure bool, conversations *conversation.Store) *SessionManager {
	var key []byte
	if secret != "" {
		sum := sha256.Sum256([]byte(secret))
		key = sum[:]
	} else {
		key = securecookie.GenerateRandomKey(32)
		log.Warn().Msg("no session secret configured, using an ephemeral cookie key")
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{cookies: store, conversations: conversations}
}

// Conversations returns the underlying conversation store.
func (m *SessionManager) Conversations() *conversation.Store { return m.conversations }

// cookie returns the browser session. A cookie that fails verification is
// replaced by a fresh session.
func (m *SessionManager) cookie(r *http.Request) *sessions.Session {
	s, err := m.cookies.Get(r, SessionName)
	if err != nil {
		log.Debug().Err(err).Msg("discarding unreadable session cookie")
		if s == nil {
			s = sessions.NewSession(m.cookies, SessionName)
			opts := *m.cookies.Options
			s.Options = &opts
			s.IsNew = true
		}
	}
	return s
}

// Middleware resolves the caller's conversation, starting one when the cookie
// has none or it has expired, and puts it in the request context.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.cookie(r)
		id, _ := s.Values[sessionKeyConversation].(string)

		conv := m.conversations.GetOrCreate(id)
		if conv.ID != id {
			s.Values[sessionKeyConversation] = conv.ID
			if err := s.Save(r, w); err != nil {
				log.Error().Err(err).Msg("save session cookie")
			}
		}

		ctx := context.WithValue(r.Context(), conversationKey, conv)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ConversationFrom returns the conversation resolved by Middleware.
func ConversationFrom(ctx context.Context) *conversation.Session {
	s, _ := ctx.Value(conversationKey).(*conversation.Session)
	return s
}

// Reset ends the caller's conversation and binds a new empty one. It must be
// called before the response body is written.
func (m *SessionManager) Reset(w http.ResponseWriter, r *http.Request) (*conversation.Session, error) {
	s := m.cookie(r)
	id, _ := s.Values[sessionKeyConversation].(string)
	conv := m.conversations.Reset(id)
	s.Values[sessionKeyConversation] = conv.ID
	return conv, s.Save(r, w)
}

// IsAuthenticated reports whether the login gate was passed in this browser.
func (m *SessionManager) IsAuthenticated(r *http.Request) bool {
	ok, _ := m.cookie(r).Values[sessionKeyAuthenticated].(bool)
	return ok
}

// Login marks the browser session authenticated.
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request) error {
	s := m.cookie(r)
	s.Values[sessionKeyAuthenticated] = true
	return s.Save(r, w)
}

// Logout clears the browser session and ends its conversation.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	s := m.cookie(r)
	if id, ok := s.Values[sessionKeyConversation].(string); ok {
		m.conversations.End(id)
	}
	s.Values = map[interface{}]interface{}{}
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

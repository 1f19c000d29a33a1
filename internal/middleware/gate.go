package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/cortexai/datachat/internal/models"
)

// APIKeyHeader lets non-browser clients present an access key directly.
const APIKeyHeader = "X-API-Key"

var publicPaths = map[string]bool{
	"/login":  true,
	"/health": true,
}

var publicPrefixes = []string{"/static/"}

// AccessKeys is the set of keys accepted by the login gate.
type AccessKeys struct {
	keys [][]byte
}

func NewAccessKeys(keys []string) AccessKeys {
	ak := AccessKeys{}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			ak.keys = append(ak.keys, []byte(k))
		}
	}
	return ak
}

// Valid compares key against every configured key in constant time.
func (ak AccessKeys) Valid(key string) bool {
	ok := 0
	for _, k := range ak.keys {
		ok |= subtle.ConstantTimeCompare(k, []byte(key))
	}
	return ok == 1
}

// LoginGate admits requests whose browser session passed the login page, or
// that carry a valid X-API-Key. Other API calls get 401 JSON (403 for a wrong
// key) and page requests are redirected to /login.
func LoginGate(m *SessionManager, keys AccessKeys, apiPrefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path, apiPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			if key := r.Header.Get(APIKeyHeader); key != "" {
				if !keys.Valid(key) {
					models.WriteError(w, http.StatusForbidden, "invalid API key")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if m.IsAuthenticated(r) {
				next.ServeHTTP(w, r)
				return
			}

			if strings.HasPrefix(r.URL.Path, apiPrefix+"/") {
				models.WriteError(w, http.StatusUnauthorized, "login required")
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		})
	}
}

func isPublic(path, apiPrefix string) bool {
	if publicPaths[path] || path == apiPrefix+"/health" {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

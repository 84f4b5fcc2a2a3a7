// Package auth keeps the demo site's accounts and cookie sessions.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

// CookieName is the cookie carrying the session ID.
const CookieName = "auth_session"

// Account is a login the site accepts.
type Account struct {
	Email    string
	Password string
}

// Session is a logged-in user.
type Session struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// Initial is the upper-cased first letter of the email, or "U".
func (s *Session) Initial() string {
	if s == nil || s.Email == "" {
		return "U"
	}
	return strings.ToUpper(s.Email[:1])
}

// Store holds accounts and live sessions.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]string
	sessions map[string]*Session
}

// NewStore returns a store that accepts the given accounts. Emails are
// matched case-insensitively.
func NewStore(accounts ...Account) *Store {
	s := &Store{
		accounts: make(map[string]string, len(accounts)),
		sessions: make(map[string]*Session),
	}
	for _, a := range accounts {
		s.accounts[strings.ToLower(a.Email)] = a.Password
	}
	return s
}

// Authenticate reports whether email and password match an account.
func (s *Store) Authenticate(email, password string) bool {
	s.mu.RLock()
	want, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok || password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(password)) == 1
}

// Create starts a session for email.
func (s *Store) Create(email string) *Session {
	sess := &Session{
		ID:        GenerateSessionID(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Lookup returns the session with id.
func (s *Store) Lookup(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Delete ends the session with id. Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// FromRequest resolves the session named by the request cookie.
func (s *Store) FromRequest(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return s.Lookup(cookie.Value)
}

type authContextKey struct{}

// AuthContext holds authentication data for a request lifecycle.
type AuthContext struct {
	Session         *Session
	IsAuthenticated bool
}

// GetAuthContext extracts authentication context from the request.
func GetAuthContext(r *http.Request) AuthContext {
	if ctx, ok := r.Context().Value(authContextKey{}).(AuthContext); ok {
		return ctx
	}
	return AuthContext{}
}

// SetAuthContext returns a new context with the given AuthContext attached.
func SetAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

// GenerateSessionID creates a secure random session ID.
func GenerateSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

package auth

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried inside a signed bearer token. The
// username lives in the registered "sub" claim; the rest are custom
// claims matching what the backend gateway expects.
type Claims struct {
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// NewClaims builds identity claims for the given user. Timestamps are
// filled in by the provider at signing time.
func NewClaims(username, email, name string, roles []string) *Claims {
	return &Claims{
		Email: email,
		Name:  name,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: username,
		},
	}
}

// Username returns the subject claim.
func (c *Claims) Username() string { return c.Subject }

// Session holds the credential state for one logical user connection.
// There is no ambient global: a Session is created per connection and
// passed by reference into the Provider. The credential is replaced
// wholesale on refresh, never edited in place, and consumers only
// ever receive the token string, not a handle on this state.
type Session struct {
	mu        sync.Mutex
	token     string
	claims    *Claims
	issuedAt  time.Time
	expiresAt time.Time
}

// NewSession returns an empty session with no credential.
func NewSession() *Session { return &Session{} }

func (s *Session) snapshot() (token string, claims *Claims, issuedAt, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.claims, s.issuedAt, s.expiresAt
}

func (s *Session) replace(token string, claims *Claims, issuedAt, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.claims = claims
	s.issuedAt = issuedAt
	s.expiresAt = expiresAt
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.claims = nil
	s.issuedAt = time.Time{}
	s.expiresAt = time.Time{}
}

// Package auth supplies valid bearer credentials for every outgoing
// protocol request, minting HS256-signed tokens from identity claims
// and proactively refreshing them before expiry so the request path
// never blocks on token renewal.
package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/violentutf/vmcp/internal/clock"
)

const (
	// tokenLifetime is the validity window of a freshly minted token.
	tokenLifetime = time.Hour

	// refreshBuffer is how far before expiry a proactive refresh is
	// kicked off. The current token is still returned to callers.
	refreshBuffer = 10 * time.Minute

	// hardExpiryBuffer is how far before expiry a token stops being
	// usable. Inside this window the credential is cleared and the
	// caller must re-authenticate.
	hardExpiryBuffer = 5 * time.Minute

	refreshAttempts   = 3
	refreshRetryDelay = 2 * time.Second

	// minRefreshGap debounces refresh attempts: a new attempt within
	// this window of the previous one is a no-op.
	minRefreshGap = 30 * time.Second
)

// State describes the credential from the host UI's point of view.
type State int

const (
	StateNoToken State = iota
	StateRefreshing
	StateExpired
	StateExpiringSoon
	StateActive
)

func (s State) String() string {
	switch s {
	case StateNoToken:
		return "no_token"
	case StateRefreshing:
		return "refreshing"
	case StateExpired:
		return "expired"
	case StateExpiringSoon:
		return "expiring_soon"
	case StateActive:
		return "active"
	}
	return "unknown"
}

// Provider hands back a currently valid bearer token for a session,
// transparently refreshing before expiry. Safe for concurrent use.
type Provider struct {
	session *Session
	clock   clock.Clock
	log     zerolog.Logger
	secrets *secretSource

	mu          sync.Mutex
	refreshing  bool
	lastAttempt time.Time
	lastError   error
}

// Option configures a Provider.
type Option func(*Provider)

// WithClock replaces the wall clock, for tests.
func WithClock(c clock.Clock) Option {
	return func(p *Provider) {
		p.clock = c
		p.secrets.clock = c
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// WithSecretPaths overrides the secrets file scan locations.
func WithSecretPaths(paths ...string) Option {
	return func(p *Provider) { p.secrets.paths = paths }
}

// NewProvider creates a credential provider for the given session.
func NewProvider(session *Session, opts ...Option) *Provider {
	p := &Provider{
		session: session,
		clock:   clock.Real(),
		log:     zlog.Logger,
	}
	p.secrets = newSecretSource(p.clock)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetValidToken returns the current bearer token, or ok=false when no
// usable credential exists. A token inside the refresh buffer is still
// returned while a background refresh is kicked off; a token inside
// the hard-expiry buffer is cleared and not returned. Callers are
// never blocked on renewal.
func (p *Provider) GetValidToken() (string, bool) {
	token, claims, _, expiresAt := p.session.snapshot()
	if token == "" {
		return "", false
	}

	remaining := expiresAt.Sub(p.clock.Now())
	if remaining <= hardExpiryBuffer {
		p.session.clear()
		return "", false
	}

	if _, err := p.verify(token); err != nil {
		// The signing secret rotated under a live session. Discard the
		// stored token and mint a fresh one from the last known claims.
		if claims == nil {
			p.session.clear()
			return "", false
		}
		p.log.Warn().Err(err).Msg("stored token failed verification, re-minting")
		fresh, mintErr := p.CreateToken(claims)
		if mintErr != nil {
			p.session.clear()
			return "", false
		}
		return fresh, true
	}

	if remaining <= refreshBuffer {
		go p.refresh()
	}
	return token, true
}

// BearerToken implements the transport's credential interface.
func (p *Provider) BearerToken() (string, bool) { return p.GetValidToken() }

// CreateToken mints a signed token from the given identity claims and
// stores it as the session's current credential. Secret resolution
// failure is non-fatal for the caller: operations degrade to "no auth
// available" rather than panicking.
func (p *Provider) CreateToken(identity *Claims) (string, error) {
	secret, ok := p.secrets.resolve()
	if !ok {
		return "", ErrNoSigningSecret
	}

	now := p.clock.Now()
	expiresAt := now.Add(tokenLifetime)
	claims := &Claims{
		Email: identity.Email,
		Name:  identity.Name,
		Roles: identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	p.session.replace(signed, claims, now, expiresAt)
	return signed, nil
}

// refresh re-mints the current token from its verified claims. It is
// single-flight (a refresh already in progress makes this a no-op)
// and debounced (attempts closer together than minRefreshGap are
// dropped). The flag is cleared on every exit path.
func (p *Provider) refresh() {
	p.mu.Lock()
	if p.refreshing {
		p.mu.Unlock()
		return
	}
	now := p.clock.Now()
	if !p.lastAttempt.IsZero() && now.Sub(p.lastAttempt) < minRefreshGap {
		p.mu.Unlock()
		return
	}
	p.refreshing = true
	p.lastAttempt = now
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.refreshing = false
		p.mu.Unlock()
	}()

	token, _, _, _ := p.session.snapshot()
	claims, err := p.verify(token)
	if err != nil {
		// Refusing to refresh from a token that does not verify keeps a
		// forged or stale credential from laundering itself into a
		// fresh one.
		p.setLastError(fmt.Errorf("auth: refresh source token did not verify: %w", err))
		return
	}

	var lastErr error
	for attempt := 1; attempt <= refreshAttempts; attempt++ {
		if attempt > 1 {
			p.clock.Sleep(refreshRetryDelay)
		}
		if _, err := p.CreateToken(claims); err != nil {
			lastErr = err
			p.log.Warn().Err(err).Int("attempt", attempt).Msg("token refresh attempt failed")
			continue
		}
		p.setLastError(nil)
		p.log.Debug().Msg("token refreshed")
		return
	}
	p.setLastError(lastErr)
}

func (p *Provider) setLastError(err error) {
	p.mu.Lock()
	p.lastError = err
	p.mu.Unlock()
}

// LastError returns the most recent refresh failure, if any. Surfaced
// through Status display only, never raised into the request path.
func (p *Provider) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastError
}

// Status reports the credential state and the time remaining until
// expiry, for a non-blocking indicator in the host UI.
func (p *Provider) Status() (State, time.Duration) {
	p.mu.Lock()
	refreshing := p.refreshing
	p.mu.Unlock()

	token, _, _, expiresAt := p.session.snapshot()
	if token == "" {
		return StateNoToken, 0
	}
	remaining := expiresAt.Sub(p.clock.Now())
	if refreshing {
		return StateRefreshing, remaining
	}
	if remaining <= 0 {
		return StateExpired, 0
	}
	if remaining <= refreshBuffer {
		return StateExpiringSoon, remaining
	}
	return StateActive, remaining
}

// verify parses the token against the current signing secret and
// returns its claims. Expiry is checked against the provider's clock.
func (p *Provider) verify(token string) (*Claims, error) {
	secret, ok := p.secrets.resolve()
	if !ok {
		return nil, ErrNoSigningSecret
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(p.clock.Now))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("auth: unexpected claims type %T", parsed.Claims)
	}
	return claims, nil
}

package auth

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/violentutf/vmcp/internal/clock"
)

// ErrNoSigningSecret is returned when no signing secret can be
// resolved from the environment, the known secrets files, or the
// in-memory cache.
var ErrNoSigningSecret = errors.New("auth: no signing secret available")

// EnvSecret is the environment variable holding the symmetric JWT
// signing secret. It takes precedence over secrets files.
const EnvSecret = "VIOLENTUTF_JWT_SECRET"

// secretCacheTTL bounds how long a previously resolved secret is
// served from memory after the environment and files stop yielding
// one. Keeps a live session working across a transient config outage
// without caching a rotated-away secret forever.
const secretCacheTTL = 5 * time.Minute

// secretFile is the YAML shape of a secrets file.
type secretFile struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// secretPaths returns the known secrets file locations, scanned in
// order: the working directory, then the user config directory.
func secretPaths() []string {
	paths := []string{"violentutf.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".violentutf", "secrets.yaml"))
	}
	return paths
}

// secretSource resolves the signing secret with fallback order:
// environment variable, secrets file scan, short-lived in-memory
// cache of the last successful resolution.
type secretSource struct {
	clock clock.Clock
	paths []string

	mu       sync.Mutex
	cached   []byte
	cachedAt time.Time
}

func newSecretSource(c clock.Clock) *secretSource {
	return &secretSource{clock: c, paths: secretPaths()}
}

func (s *secretSource) resolve() ([]byte, bool) {
	if v := os.Getenv(EnvSecret); v != "" {
		return s.remember([]byte(v)), true
	}
	for _, path := range s.paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var file secretFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			continue
		}
		if file.JWTSecret != "" {
			return s.remember([]byte(file.JWTSecret)), true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil && s.clock.Now().Sub(s.cachedAt) < secretCacheTTL {
		return s.cached, true
	}
	return nil, false
}

func (s *secretSource) remember(secret []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = secret
	s.cachedAt = s.clock.Now()
	return secret
}

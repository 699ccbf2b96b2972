// Package session persists the ActAI access token between CLI runs.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/ports"
)

var _ ports.SessionStore = (*FileStore)(nil)

// FileStore keeps the token in a single file readable only by the owner.
// The token is not verified locally; only its exp claim is inspected so an
// expired session fails before a request is sent.
type FileStore struct {
	path string
	now  func() time.Time

	mu     sync.Mutex
	token  string
	loaded bool
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path is where the token is stored.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		b, err := os.ReadFile(s.path)
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrNoSession
		}
		if err != nil {
			return "", fmt.Errorf("read session: %w", err)
		}
		s.token = strings.TrimSpace(string(b))
		s.loaded = true
	}
	if s.token == "" {
		return "", domain.ErrNoSession
	}
	if exp, ok := Expiry(s.token); ok && !s.now().Before(exp) {
		return "", domain.ErrSessionExpired
	}
	return s.token, nil
}

func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	s.token, s.loaded = token, true
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.loaded = "", true
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Expiry reports the exp claim of a JWT access token. ok is false for opaque
// tokens and tokens without exp.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

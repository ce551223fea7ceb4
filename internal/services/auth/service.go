package auth

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/mahjonggame-go/internal/dependencies/clock"
	"github.com/mcoot/mahjonggame-go/internal/model"
)

const sessionPrefix = "adm_"

// Session is an admin session issued in exchange for the shared secret
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service guards admin operations with a single shared secret. The secret
// is only kept as a bcrypt hash.
type Service struct {
	clock clock.Clock
	hash  []byte

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	// Secret is the admin credential. Empty leaves admin operations open.
	Secret          string
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: time.Hour,
	}
}

// New creates a new AuthService
func New(clock clock.Clock, cfg Config) (*Service, error) {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}

	s := &Service{
		clock:           clock,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
	if cfg.Secret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		s.hash = hash
	}
	return s, nil
}

// Enabled reports whether an admin secret is configured
func (s *Service) Enabled() bool {
	return len(s.hash) > 0
}

// Verify accepts either the shared secret or a live session token.
// When no secret is configured every credential is accepted.
func (s *Service) Verify(credential string) error {
	if !s.Enabled() {
		return nil
	}
	if credential == "" {
		return model.ErrUnauthorized
	}
	if strings.HasPrefix(credential, sessionPrefix) {
		if _, err := s.ValidateSession(credential); err == nil {
			return nil
		}
	}
	return s.checkSecret(credential)
}

// Login exchanges the shared secret for a session token
func (s *Service) Login(secret string) (*Session, error) {
	if s.Enabled() {
		if err := s.checkSecret(secret); err != nil {
			return nil, err
		}
	}
	return s.createSession(), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, model.ErrUnauthorized
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, model.ErrUnauthorized
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// CleanExpiredSessions removes expired sessions and returns how many went
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *Service) checkSecret(secret string) error {
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(secret)); err != nil {
		return model.ErrUnauthorized
	}
	return nil
}

func (s *Service) createSession() *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     s.generateID(sessionPrefix),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

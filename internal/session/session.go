package session

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/shared"
)

// SlotName is the fixed key under which the bearer token is persisted.
const SlotName = "access_token"

// TokenSlot is the durable home of the bearer token. It survives process
// restarts and is written only on login/signup (store) and logout or detected
// authentication failure (clear).
//
// Load returns an empty string when no token is persisted.
type TokenSlot interface {
	Load() (string, error)
	Store(token string) error
	Clear() error
}

// Session holds the bearer token and derived identity for the current user.
//
// All mutation goes through the mutex; the four writers (login, signup, logout,
// 401 detection) are mutually exclusive and last write wins. The user record is
// cleared whenever the token is cleared, never the other way around.
type Session struct {
	mu     sync.Mutex
	token  string
	user   *models.User
	slot   TokenSlot
	logger *log.Logger
}

// Restore creates a Session, reading any previously persisted token from the
// durable slot. A slot read failure is logged and treated as no token; slot may
// be nil for a purely in-memory session.
func Restore(slot TokenSlot, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	s := &Session{slot: slot, logger: logger}

	if slot != nil {
		tok, err := slot.Load()
		if err != nil {
			logger.Warn("failed to restore token from durable slot", "err", err)
		} else {
			s.token = tok
		}
	}

	return s
}

// Token returns the current bearer token and whether one is present.
// Implements gateway.TokenSource.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// IsAuthenticated reports whether a bearer token is present. It is derived from
// the token and never set independently.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// User returns the fetched account record, or nil when not yet fetched or not
// authenticated.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Invalidate clears the token, the user record and the durable slot. Called on
// logout and by the gateway when the backend rejects the session. Implements
// gateway.TokenSource.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil

	if s.slot != nil {
		if err := s.slot.Clear(); err != nil {
			s.logger.Warn("failed to clear durable token slot", "err", err)
		}
	}
}

// setToken installs a freshly issued token and persists it. A durable write
// failure downgrades to an in-memory session for this process and is logged.
func (s *Session) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token

	if s.slot != nil {
		if err := s.slot.Store(token); err != nil {
			s.logger.Warn("failed to persist token to durable slot", "err", err)
		}
	}
}

// setUser records the fetched account. Dropped when the session lost its token
// in the meantime, preserving the no-user-without-token invariant.
func (s *Session) setUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return
	}
	s.user = user
}

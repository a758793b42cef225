package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var ErrInvalidToken = errors.New("invalid token")

// User is the identity carried by the token. It is never edited locally.
type User struct {
	Username string
	Role     string
}

func (u User) IsAdmin() bool { return u.Role == "admin" }

// Session holds the signed-in user and the bearer token backing it.
type Session struct {
	mu     sync.RWMutex
	store  TokenStore
	token  string
	user   *User
	logger zerolog.Logger
}

func New(store TokenStore, logger zerolog.Logger) *Session {
	return &Session{
		store:  store,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// DecodeUser reads sub and role from a token without checking its signature.
// The server verifies tokens; the client only needs them for display.
func DecodeUser(token string) (User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	return User{Username: sub, Role: role}, nil
}

// Login adopts token and persists it. A token that does not decode clears
// the session.
func (s *Session) Login(token string) error {
	user, err := DecodeUser(token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Discarding undecodable token")
		if lerr := s.Logout(); lerr != nil {
			return errors.Join(err, lerr)
		}
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	return nil
}

// Logout clears the in-memory identity and the persisted token.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	return nil
}

// Restore picks up a token persisted by an earlier Login.
func (s *Session) Restore() error {
	token, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("loading token: %w", err)
	}
	if token == "" {
		return nil
	}
	return s.Login(token)
}

// Token is the current bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Session) IsAuthenticated() bool {
	_, ok := s.User()
	return ok
}

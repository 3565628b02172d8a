package auth

import (
	"errors"
	"fmt"

	"notas/internal/store"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrValidation         = errors.New("username and password are required")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// bcryptCost trades registration latency for resistance to offline
// brute-force attacks.
const bcryptCost = 10

// Service implements registration, login and logout on top of the
// credential store and the session store.
type Service struct {
	store    store.Store
	sessions Sessions
}

func NewService(st store.Store, sessions Sessions) *Service {
	return &Service{store: st, sessions: sessions}
}

// Register hashes the password and creates the user. Uniqueness is
// enforced by the store at insert time, never by a lookup first.
func (s *Service) Register(username, password string) (int, error) {
	if username == "" || password == "" {
		return 0, ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hashing password: %w", err)
	}

	id, err := s.store.CreateUser(username, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	return id, nil
}

// Login verifies the credentials and creates a session. An unknown
// username and a wrong password both return ErrInvalidCredentials so the
// response cannot be used to enumerate usernames.
func (s *Service) Login(username, password string) (string, error) {
	user, hash, err := s.store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.sessions.Create(user.ID), nil
}

// Logout destroys the session. Destroying an absent token is not an error.
func (s *Service) Logout(token string) {
	s.sessions.Destroy(token)
}

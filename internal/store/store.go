package store

import (
	"errors"

	"notas/internal/models"
)

var (
	// ErrDuplicateUsername is returned by CreateUser when the username is
	// already registered. The unique index enforces this atomically, so a
	// race between two registrations yields exactly one success.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrNotFound covers both a missing row and a row owned by another
	// user. Callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrEmptyContent is returned by CreateNote for empty note content.
	ErrEmptyContent = errors.New("note content is empty")
)

// Store defines the interface for all database operations
type Store interface {
	// Users
	CreateUser(username, passwordHash string) (int, error)
	GetUserByUsername(username string) (*models.User, string, error)

	// Notes
	CreateNote(ownerID int, content string) (*models.Note, error)
	ListNotes(ownerID int) ([]models.Note, error)
	DeleteNote(noteID, ownerID int) error

	Close() error
}

package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"notas/internal/models"
	"notas/internal/store"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// DBType represents the type of database
type DBType string

const (
	SQLite   DBType = "sqlite3"
	Postgres DBType = "postgres"
)

// SQLStore implements the Store interface for SQL databases
type SQLStore struct {
	db     *sql.DB
	dbType DBType
}

// New creates a new SQLStore with the given driver and connection string
func New(driver, connStr string) (*SQLStore, error) {
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, err
	}

	s := &SQLStore{
		db:     db,
		dbType: DBType(driver),
	}

	if s.dbType == SQLite {
		// The sqlite3 driver allows one writer at a time; a single
		// connection avoids SQLITE_BUSY under concurrent registrations.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := s.initSchema(); err != nil {
		return nil, err
	}

	return s, nil
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.dbType == SQLite {
		return query
	}
	var result strings.Builder
	argNum := 1
	for _, c := range query {
		if c == '?' {
			result.WriteString(fmt.Sprintf("$%d", argNum))
			argNum++
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

func (s *SQLStore) initSchema() error {
	var createUsersTable, createNotesTable string

	if s.dbType == Postgres {
		createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);`

		createNotesTable = `
		CREATE TABLE IF NOT EXISTS notes (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);`
	} else {
		createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);`

		createNotesTable = `
		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id)
		);`
	}

	for _, stmt := range []string{createUsersTable, createNotesTable} {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// isDuplicate reports whether err is a unique-constraint violation.
func isDuplicate(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.Code == sqlite3.ErrConstraint
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" // unique_violation
	}
	return false
}

// User functions

func (s *SQLStore) CreateUser(username, passwordHash string) (int, error) {
	if s.dbType == Postgres {
		var id int
		err := s.db.QueryRow(s.rebind("INSERT INTO users (username, password_hash) VALUES (?, ?) RETURNING id"), username, passwordHash).Scan(&id)
		if err != nil {
			if isDuplicate(err) {
				return 0, store.ErrDuplicateUsername
			}
			return 0, err
		}
		return id, nil
	}

	result, err := s.db.Exec(s.rebind("INSERT INTO users (username, password_hash) VALUES (?, ?)"), username, passwordHash)
	if err != nil {
		if isDuplicate(err) {
			return 0, store.ErrDuplicateUsername
		}
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (s *SQLStore) GetUserByUsername(username string) (*models.User, string, error) {
	var u models.User
	var hash string
	err := s.db.QueryRow(s.rebind("SELECT id, username, password_hash FROM users WHERE username = ?"), username).Scan(&u.ID, &u.Username, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", store.ErrNotFound
		}
		return nil, "", err
	}
	return &u, hash, nil
}

// Note functions

func (s *SQLStore) CreateNote(ownerID int, content string) (*models.Note, error) {
	if content == "" {
		return nil, store.ErrEmptyContent
	}

	n := &models.Note{
		UserID:    ownerID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if s.dbType == Postgres {
		err := s.db.QueryRow(s.rebind("INSERT INTO notes (user_id, content, created_at) VALUES (?, ?, ?) RETURNING id"), ownerID, content, n.CreatedAt).Scan(&n.ID)
		if err != nil {
			return nil, err
		}
		return n, nil
	}

	result, err := s.db.Exec(s.rebind("INSERT INTO notes (user_id, content, created_at) VALUES (?, ?, ?)"), ownerID, content, n.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	n.ID = int(id)
	return n, nil
}

// ListNotes returns every note owned by ownerID in creation order.
func (s *SQLStore) ListNotes(ownerID int) ([]models.Note, error) {
	rows, err := s.db.Query(s.rebind("SELECT id, content, created_at FROM notes WHERE user_id = ? ORDER BY id ASC"), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		n.UserID = ownerID
		if err := rows.Scan(&n.ID, &n.Content, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *SQLStore) DeleteNote(noteID, ownerID int) error {
	result, err := s.db.Exec(s.rebind("DELETE FROM notes WHERE id = ? AND user_id = ?"), noteID, ownerID)
	if err != nil {
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

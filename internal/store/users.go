package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type User struct {
	ID           string    `db:"id"`
	Provider     string    `db:"provider"`
	Subject      string    `db:"subject"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a locally registered user. The password hash is computed by
// the caller; this layer never sees plaintext passwords.
// Returns ErrUsernameTaken when the username is already in use.
func (s *UserStore) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	// Local users carry their username as the identity subject so that the
	// (provider, subject) pair stays unique across providers.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, provider, subject, username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, "local", username, username, email, passwordHash, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Upsert creates or refreshes a user record for an externally verified
// identity (OIDC). Role-free: every account has the same capabilities.
func (s *UserStore) Upsert(ctx context.Context, provider, subject, username, email string) (*User, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	// TODO: ON CONFLICT ... DO UPDATE works in SQLite and PostgreSQL but not
	// MySQL, which needs INSERT ... ON DUPLICATE KEY UPDATE.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, provider, subject, username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '', ?, ?)
		ON CONFLICT (provider, subject) DO UPDATE SET
			email = excluded.email,
			updated_at = excluded.updated_at
	`, id, provider, subject, username, email, now, now)
	if err != nil {
		return nil, err
	}

	var u User
	err = s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE provider = ? AND subject = ?`, provider, subject)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername returns the user with the given username, or ErrNotFound.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListAll returns all users ordered by username.
func (s *UserStore) ListAll(ctx context.Context) ([]*User, error) {
	var users []*User
	err := s.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// isUniqueConstraintError checks whether err indicates a unique constraint violation.
// Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}

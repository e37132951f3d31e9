package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when creating a user whose username already exists.
	ErrUsernameTaken = errors.New("username is already taken")
)

// PostStoreIface exposes all post data operations.
// No handler may query the DB directly; all access goes through this interface.
type PostStoreIface interface {
	Create(ctx context.Context, title, content, authorID string) (*Post, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	ListAll(ctx context.Context) ([]*PostWithAuthor, error)
	UpdateTitle(ctx context.Context, id, title string) (*Post, error)
	Delete(ctx context.Context, id string) error
}

// UserStoreIface exposes user record operations.
type UserStoreIface interface {
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Upsert(ctx context.Context, provider, subject, username, email string) (*User, error)
	ListAll(ctx context.Context) ([]*User, error)
}

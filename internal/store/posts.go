package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Post struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	AuthorID  string    `db:"author_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PostWithAuthor is the public listing projection: the full post plus the
// author's username. Identity-management fields (email, password hash,
// provider subject) are never projected.
type PostWithAuthor struct {
	Post
	AuthorUsername string `db:"author_username"`
}

type PostStore struct {
	db *sqlx.DB
}

func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{db: db}
}

// Create allocates a new id and persists the post. The author is fixed here
// and has no update path anywhere in this store.
func (s *PostStore) Create(ctx context.Context, title, content, authorID string) (*Post, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, title, content, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, title, content, authorID, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*Post, error) {
	var p Post
	err := s.db.GetContext(ctx, &p, `SELECT * FROM posts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAll returns every post in insertion order with the author's username
// joined in. Each call is a fresh snapshot.
func (s *PostStore) ListAll(ctx context.Context) ([]*PostWithAuthor, error) {
	var posts []*PostWithAuthor
	err := s.db.SelectContext(ctx, &posts, `
		SELECT p.*, u.username AS author_username
		FROM posts p
		INNER JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at ASC, p.id ASC
	`)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateTitle overwrites the title in place. Content, author, and id are
// untouched. Returns ErrNotFound when no post has the given id.
func (s *PostStore) UpdateTitle(ctx context.Context, id, title string) (*Post, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET title = ?, updated_at = ? WHERE id = ?
	`, title, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes the post. A second delete for the same id returns
// ErrNotFound.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

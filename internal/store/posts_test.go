package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkwell-sh/inkwell/internal/store"
	"github.com/inkwell-sh/inkwell/internal/testutil"
)

// newTestEnv creates post and user stores sharing the same DB, plus one
// seeded user to own posts.
func newTestEnv(t *testing.T) (*store.PostStore, *store.UserStore, *store.User) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ps := store.NewPostStore(db)
	us := store.NewUserStore(db)

	u := seedUser(t, us, "alice")
	return ps, us, u
}

func seedUser(t *testing.T, us *store.UserStore, username string) *store.User {
	t.Helper()
	u, err := us.Create(context.Background(), username, username+"@example.com", "x")
	if err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return u
}

func TestPostStore_Create(t *testing.T) {
	ps, _, u := newTestEnv(t)
	ctx := context.Background()

	post, err := ps.Create(ctx, "Hello", "First post", u.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.ID == "" {
		t.Error("expected non-empty ID")
	}
	if post.Title != "Hello" {
		t.Errorf("title = %q, want %q", post.Title, "Hello")
	}
	if post.Content != "First post" {
		t.Errorf("content = %q, want %q", post.Content, "First post")
	}
	if post.AuthorID != u.ID {
		t.Errorf("author = %q, want %q", post.AuthorID, u.ID)
	}
}

func TestPostStore_GetByID_NotFound(t *testing.T) {
	ps, _, _ := newTestEnv(t)

	_, err := ps.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID(nonexistent) = %v, want ErrNotFound", err)
	}
}

func TestPostStore_UpdateTitle(t *testing.T) {
	ps, _, u := newTestEnv(t)
	ctx := context.Background()

	created, err := ps.Create(ctx, "Before", "Body", u.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := ps.UpdateTitle(ctx, created.ID, "After")
	if err != nil {
		t.Fatalf("UpdateTitle: %v", err)
	}
	if updated.Title != "After" {
		t.Errorf("title = %q, want %q", updated.Title, "After")
	}
	// Title is the only mutable field.
	if updated.ID != created.ID {
		t.Errorf("id changed: %q -> %q", created.ID, updated.ID)
	}
	if updated.Content != created.Content {
		t.Errorf("content changed: %q -> %q", created.Content, updated.Content)
	}
	if updated.AuthorID != created.AuthorID {
		t.Errorf("author changed: %q -> %q", created.AuthorID, updated.AuthorID)
	}
}

func TestPostStore_UpdateTitle_NotFound(t *testing.T) {
	ps, _, _ := newTestEnv(t)

	_, err := ps.UpdateTitle(context.Background(), "nonexistent", "New")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateTitle(nonexistent) = %v, want ErrNotFound", err)
	}
}

func TestPostStore_Delete(t *testing.T) {
	ps, _, u := newTestEnv(t)
	ctx := context.Background()

	post, err := ps.Create(ctx, "Doomed", "Body", u.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := ps.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := ps.GetByID(ctx, post.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrNotFound", err)
	}

	// Second delete for the same id reports ErrNotFound.
	if err := ps.Delete(ctx, post.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestPostStore_Delete_NotFound(t *testing.T) {
	ps, _, _ := newTestEnv(t)

	if err := ps.Delete(context.Background(), "nonexistent"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete(nonexistent) = %v, want ErrNotFound", err)
	}
}

func TestPostStore_ListAll(t *testing.T) {
	ps, us, alice := newTestEnv(t)
	ctx := context.Background()
	bob := seedUser(t, us, "bob")

	first, err := ps.Create(ctx, "First", "By alice", alice.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Distinct timestamps keep the insertion order observable.
	time.Sleep(5 * time.Millisecond)
	second, err := ps.Create(ctx, "Second", "By bob", bob.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	posts, err := ps.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len = %d, want 2", len(posts))
	}
	if posts[0].ID != first.ID || posts[1].ID != second.ID {
		t.Errorf("order = [%s, %s], want [%s, %s]", posts[0].ID, posts[1].ID, first.ID, second.ID)
	}
	if posts[0].AuthorUsername != "alice" {
		t.Errorf("author username = %q, want %q", posts[0].AuthorUsername, "alice")
	}
	if posts[1].AuthorUsername != "bob" {
		t.Errorf("author username = %q, want %q", posts[1].AuthorUsername, "bob")
	}
}

func TestPostStore_ListAll_Empty(t *testing.T) {
	ps, _, _ := newTestEnv(t)

	posts, err := ps.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("len = %d, want 0", len(posts))
	}
}

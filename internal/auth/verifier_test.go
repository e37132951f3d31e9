package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkwell-sh/inkwell/internal/auth"
	"github.com/inkwell-sh/inkwell/internal/store"
	"github.com/inkwell-sh/inkwell/internal/testutil"
)

func TestAPITokenVerifier_Valid(t *testing.T) {
	db := testutil.NewTestDB(t)
	ts := auth.NewSQLTokenStore(db)
	us := store.NewUserStore(db)
	ctx := context.Background()

	u, err := us.Create(ctx, "alice", "alice@example.com", "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	plaintext, hash, _ := auth.GenerateToken()
	if _, err := ts.Create(ctx, u.ID, "test", hash, nil); err != nil {
		t.Fatalf("create token: %v", err)
	}

	v := auth.NewAPITokenVerifier(ts, us)
	got, err := v.Verify(ctx, plaintext)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("user = %q, want %q", got.ID, u.ID)
	}
}

func TestAPITokenVerifier_Unknown(t *testing.T) {
	db := testutil.NewTestDB(t)
	v := auth.NewAPITokenVerifier(auth.NewSQLTokenStore(db), store.NewUserStore(db))

	_, err := v.Verify(context.Background(), "ink_bogus")
	if !errors.Is(err, auth.ErrInvalidCredential) {
		t.Errorf("Verify(bogus) = %v, want ErrInvalidCredential", err)
	}
}

func TestAPITokenVerifier_Revoked(t *testing.T) {
	db := testutil.NewTestDB(t)
	ts := auth.NewSQLTokenStore(db)
	us := store.NewUserStore(db)
	ctx := context.Background()

	u, err := us.Create(ctx, "alice", "alice@example.com", "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	plaintext, hash, _ := auth.GenerateToken()
	rec, err := ts.Create(ctx, u.ID, "test", hash, nil)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	if err := ts.Revoke(ctx, rec.ID, u.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	v := auth.NewAPITokenVerifier(ts, us)
	if _, err := v.Verify(ctx, plaintext); !errors.Is(err, auth.ErrInvalidCredential) {
		t.Errorf("Verify(revoked) = %v, want ErrInvalidCredential", err)
	}
}

func TestAPITokenVerifier_Expired(t *testing.T) {
	db := testutil.NewTestDB(t)
	ts := auth.NewSQLTokenStore(db)
	us := store.NewUserStore(db)
	ctx := context.Background()

	u, err := us.Create(ctx, "alice", "alice@example.com", "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	plaintext, hash, _ := auth.GenerateToken()
	past := time.Now().UTC().Add(-time.Hour)
	if _, err := ts.Create(ctx, u.ID, "stale", hash, &past); err != nil {
		t.Fatalf("create token: %v", err)
	}

	v := auth.NewAPITokenVerifier(ts, us)
	if _, err := v.Verify(ctx, plaintext); !errors.Is(err, auth.ErrInvalidCredential) {
		t.Errorf("Verify(expired) = %v, want ErrInvalidCredential", err)
	}
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ctx := context.Background()

	u, err := us.Create(ctx, "alice", "alice@example.com", "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	issuer := auth.NewJWTIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	v := auth.NewJWTVerifier("test-secret", us)
	got, err := v.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("user = %q, want %q", got.ID, u.ID)
	}
}

func TestJWTVerifier_WrongSecret(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ctx := context.Background()

	u, err := us.Create(ctx, "alice", "alice@example.com", "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := auth.NewJWTIssuer("secret-a", time.Hour).Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	v := auth.NewJWTVerifier("secret-b", us)
	if _, err := v.Verify(ctx, token); !errors.Is(err, auth.ErrInvalidCredential) {
		t.Errorf("Verify(wrong secret) = %v, want ErrInvalidCredential", err)
	}
}

func TestJWTVerifier_Expired(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ctx := context.Background()

	u, err := us.Create(ctx, "alice", "alice@example.com", "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := auth.NewJWTIssuer("test-secret", -time.Minute).Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	v := auth.NewJWTVerifier("test-secret", us)
	if _, err := v.Verify(ctx, token); !errors.Is(err, auth.ErrInvalidCredential) {
		t.Errorf("Verify(expired) = %v, want ErrInvalidCredential", err)
	}
}

func TestJWTVerifier_Garbage(t *testing.T) {
	db := testutil.NewTestDB(t)
	v := auth.NewJWTVerifier("test-secret", store.NewUserStore(db))

	if _, err := v.Verify(context.Background(), "not-a-jwt"); !errors.Is(err, auth.ErrInvalidCredential) {
		t.Errorf("Verify(garbage) = %v, want ErrInvalidCredential", err)
	}
}

func TestBearerMiddleware_RequireUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ctx := context.Background()

	u, err := us.Create(ctx, "alice", "alice@example.com", "x")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	issuer := auth.NewJWTIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	mw := auth.NewBearerMiddleware(auth.NewJWTVerifier("test-secret", us))
	var seen *store.User
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No Authorization header: 401, handler never runs.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if seen != nil {
		t.Error("handler ran without a credential")
	}

	// Valid credential: user lands in the context.
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if seen == nil || seen.ID != u.ID {
		t.Errorf("context user = %v, want %q", seen, u.ID)
	}
}

func TestBearerMiddleware_OptionalUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)

	mw := auth.NewBearerMiddleware(auth.NewJWTVerifier("test-secret", us))
	handler := mw.OptionalUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFromContext(r.Context()) != nil {
			t.Error("expected no user in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !auth.CheckPassword(hash, "s3cret") {
		t.Error("CheckPassword rejected the correct password")
	}
	if auth.CheckPassword(hash, "wrong") {
		t.Error("CheckPassword accepted a wrong password")
	}
}

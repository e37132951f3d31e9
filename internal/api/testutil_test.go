package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/inkwell-sh/inkwell/internal/api"
	"github.com/inkwell-sh/inkwell/internal/auth"
	"github.com/inkwell-sh/inkwell/internal/store"
	"github.com/inkwell-sh/inkwell/internal/testutil"
)

const testJWTSecret = "test-secret"

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	Router     http.Handler
	PostStore  *store.PostStore
	UserStore  *store.UserStore
	TokenStore *auth.SQLTokenStore
	Issuer     *auth.JWTIssuer
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full router with real stores and the jwt verifier.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	ps := store.NewPostStore(db)
	us := store.NewUserStore(db)
	ts := auth.NewSQLTokenStore(db)
	issuer := auth.NewJWTIssuer(testJWTSecret, time.Hour)

	router := api.NewRouter(api.Deps{
		Bearer:     auth.NewBearerMiddleware(auth.NewJWTVerifier(testJWTSecret, us)),
		PostStore:  ps,
		UserStore:  us,
		TokenStore: ts,
		JWTIssuer:  issuer,
	})

	return &testEnv{
		Router:     router,
		PostStore:  ps,
		UserStore:  us,
		TokenStore: ts,
		Issuer:     issuer,
	}
}

// seedUser creates a user and returns the record.
func seedUser(t *testing.T, env *testEnv, username string) *store.User {
	t.Helper()
	u, err := env.UserStore.Create(context.Background(), username, username+"@example.com", "x")
	if err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return u
}

// seedToken mints a bearer credential for the given user.
func seedToken(t *testing.T, env *testEnv, u *store.User) string {
	t.Helper()
	token, err := env.Issuer.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// seedPost creates a post directly through the store.
func seedPost(t *testing.T, env *testEnv, title, content, authorID string) *store.Post {
	t.Helper()
	p, err := env.PostStore.Create(context.Background(), title, content, authorID)
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return p
}

// authRequest adds a Bearer token to the request.
func authRequest(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

package auth

import (
	"context"
	"errors"

	"github.com/inkwell-sh/inkwell/internal/store"
)

// ErrInvalidCredential is returned by every Verifier for credentials that are
// missing, malformed, expired, revoked, or fail verification. Callers map it
// to 401 without distinguishing the sub-cases.
var ErrInvalidCredential = errors.New("invalid credential")

// Verifier validates an opaque bearer credential and resolves the user it
// identifies. Implementations must not touch post data.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*store.User, error)
}

type contextKey string

const UserContextKey contextKey = "user"

// UserFromContext retrieves the authenticated user from the context, or nil.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}

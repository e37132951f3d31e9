package auth

import (
	"context"
	"time"

	"github.com/inkwell-sh/inkwell/internal/store"
)

// APITokenVerifier resolves personal access tokens ("ink_..." plaintext,
// SHA-256 hash at rest) to their owning user.
type APITokenVerifier struct {
	tokens TokenStore
	users  store.UserStoreIface
}

func NewAPITokenVerifier(tokens TokenStore, users store.UserStoreIface) *APITokenVerifier {
	return &APITokenVerifier{tokens: tokens, users: users}
}

// Verify hashes the plaintext credential, looks it up, and rejects revoked
// and expired tokens. On success the token's last_used_at is bumped
// asynchronously to keep reads write-free.
func (v *APITokenVerifier) Verify(ctx context.Context, credential string) (*store.User, error) {
	rec, err := v.tokens.GetByHash(ctx, HashToken(credential))
	if err != nil {
		return nil, ErrInvalidCredential
	}

	if rec.RevokedAt.Valid {
		return nil, ErrInvalidCredential
	}
	if rec.ExpiresAt.Valid && rec.ExpiresAt.Time.Before(time.Now()) {
		return nil, ErrInvalidCredential
	}

	user, err := v.users.GetByID(ctx, rec.UserID)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	go v.tokens.UpdateLastUsed(context.Background(), rec.ID)

	return user, nil
}

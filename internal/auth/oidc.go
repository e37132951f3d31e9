package auth

import (
	"context"
	"fmt"
	"log"

	gooidc "github.com/coreos/go-oidc/v3/oidc"

	"github.com/inkwell-sh/inkwell/internal/store"
)

// OIDCVerifier validates ID tokens issued by an external OIDC provider and
// maps them to local user records, provisioning a record on first sight.
// Token issuance (login, consent, refresh) happens entirely at the provider.
type OIDCVerifier struct {
	verifier *gooidc.IDTokenVerifier
	users    store.UserStoreIface
	issuer   string
}

// NewOIDCVerifier performs OIDC discovery against the issuer and returns a
// configured verifier.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string, users store.UserStoreIface) (*OIDCVerifier, error) {
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("OIDC provider discovery failed for %s: %w", issuer, err)
	}
	return &OIDCVerifier{
		verifier: provider.Verifier(&gooidc.Config{ClientID: clientID}),
		users:    users,
		issuer:   issuer,
	}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, credential string) (*store.User, error) {
	idToken, err := v.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	var claims struct {
		Email             string `json:"email"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, ErrInvalidCredential
	}

	username := claims.PreferredUsername
	if username == "" {
		username = idToken.Subject
	}

	user, err := v.users.Upsert(ctx, "oidc", idToken.Subject, username, claims.Email)
	if err != nil {
		log.Printf("auth: provision oidc user %q: %v", idToken.Subject, err)
		return nil, ErrInvalidCredential
	}
	return user, nil
}

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// BearerMiddleware authenticates requests by extracting a Bearer credential
// from the Authorization header and handing it to the configured Verifier.
type BearerMiddleware struct {
	verifier Verifier
}

// NewBearerMiddleware creates a new BearerMiddleware.
func NewBearerMiddleware(v Verifier) *BearerMiddleware {
	return &BearerMiddleware{verifier: v}
}

// RequireUser rejects requests without a valid credential with a 401 before
// any handler or store code runs. On success the verified *store.User is
// injected into the request context.
func (m *BearerMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credential, ok := bearerCredential(r)
		if !ok {
			writeUnauthorized(w)
			return
		}

		user, err := m.verifier.Verify(r.Context(), credential)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalUser injects the verified user when a valid credential is present
// and passes the request through untouched otherwise.
func (m *BearerMiddleware) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if credential, ok := bearerCredential(r); ok {
			if user, err := m.verifier.Verify(r.Context(), credential); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserContextKey, user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerCredential(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	credential := strings.TrimPrefix(authHeader, "Bearer ")
	if credential == "" {
		return "", false
	}
	return credential, true
}

// writeUnauthorized writes a 401 JSON response with {"error": "unauthorized"}.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}

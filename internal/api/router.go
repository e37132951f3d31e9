package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/inkwell-sh/inkwell/docs/swagger"
	"github.com/inkwell-sh/inkwell/internal/auth"
	"github.com/inkwell-sh/inkwell/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Bearer     *auth.BearerMiddleware
	PostStore  store.PostStoreIface
	UserStore  store.UserStoreIface
	TokenStore auth.TokenStore
	// JWTIssuer backs /auth/login. Nil with the oidc provider, in which
	// case the register/login routes are not mounted.
	JWTIssuer *auth.JWTIssuer
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI — no auth required.
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	// Local account registration and login. Absent when an external
	// identity provider owns the accounts.
	if deps.JWTIssuer != nil {
		registerAuthRoutes(r, deps.UserStore, deps.JWTIssuer)
	}

	r.Mount("/api/v1", newAPIRouter(deps))

	return r
}

// newAPIRouter creates the /api/v1 sub-router. All responses are JSON;
// authentication is applied per-route because the post listing is public.
func newAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(jsonContentType)

	r.Route("/posts", func(r chi.Router) {
		registerPostRoutes(r, deps.Bearer, deps.PostStore)
	})
	registerTokenRoutes(r, deps.Bearer, deps.TokenStore)

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/inkwell-sh/inkwell/internal/api"
	"github.com/inkwell-sh/inkwell/internal/auth"
	"github.com/inkwell-sh/inkwell/internal/config"
	"github.com/inkwell-sh/inkwell/internal/db"
	"github.com/inkwell-sh/inkwell/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			userStore := store.NewUserStore(database)
			postStore := store.NewPostStore(database)
			tokenStore := auth.NewSQLTokenStore(database)

			deps := api.Deps{
				PostStore:  postStore,
				UserStore:  userStore,
				TokenStore: tokenStore,
			}

			var verifier auth.Verifier
			switch cfg.Auth.Provider {
			case "token":
				// Tokens are issued via `inkwell user token`; there is no
				// login endpoint in this mode.
				verifier = auth.NewAPITokenVerifier(tokenStore, userStore)
			case "jwt":
				verifier = auth.NewJWTVerifier(cfg.Auth.JWTSecret, userStore)
				deps.JWTIssuer = auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
			case "oidc":
				verifier, err = auth.NewOIDCVerifier(cmd.Context(), cfg.OIDC.Issuer, cfg.OIDC.ClientID, userStore)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
			}

			deps.Bearer = auth.NewBearerMiddleware(verifier)

			router := api.NewRouter(deps)

			log.Printf("listening on %s (auth provider: %s)", cfg.HTTP.Addr, cfg.Auth.Provider)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}

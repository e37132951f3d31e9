package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-sh/inkwell/internal/auth"
	"github.com/inkwell-sh/inkwell/internal/config"
	"github.com/inkwell-sh/inkwell/internal/db"
	"github.com/inkwell-sh/inkwell/internal/store"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserTokenCmd())
	return cmd
}

// newUserCreateCmd bootstraps an account without going through the HTTP API,
// which is handy for fresh deployments and for the oidc provider where
// /auth/register is not mounted.
func newUserCreateCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
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

			hash, err := auth.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			users := store.NewUserStore(database)
			u, err := users.Create(cmd.Context(), username, email, hash)
			if err != nil {
				return err
			}

			fmt.Printf("created user %s (%s)\n", u.Username, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username (required)")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// newUserTokenCmd issues a personal access token for a user. The plaintext is
// printed once; only its hash is stored.
func newUserTokenCmd() *cobra.Command {
	var username, name, expiresIn string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a personal access token for a user",
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

			users := store.NewUserStore(database)
			u, err := users.GetByUsername(cmd.Context(), username)
			if err != nil {
				return fmt.Errorf("look up user %q: %w", username, err)
			}

			var expiresAt *time.Time
			if expiresIn != "" {
				d, err := time.ParseDuration(expiresIn)
				if err != nil {
					return fmt.Errorf("invalid --expires-in: %w", err)
				}
				t := time.Now().UTC().Add(d)
				expiresAt = &t
			}

			plaintext, hash, err := auth.GenerateToken()
			if err != nil {
				return err
			}

			tokens := auth.NewSQLTokenStore(database)
			if _, err := tokens.Create(cmd.Context(), u.ID, name, hash, expiresAt); err != nil {
				return err
			}

			fmt.Printf("token for %s (store this now, it is not shown again):\n%s\n", u.Username, plaintext)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username (required)")
	cmd.Flags().StringVar(&name, "name", "cli", "token name")
	cmd.Flags().StringVar(&expiresIn, "expires-in", "", "token lifetime, e.g. 720h (default: no expiry)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

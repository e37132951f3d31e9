package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Auth struct {
		// Provider selects the credential verifier: "token" (personal
		// access tokens), "jwt" (HS256 tokens minted by /auth/login),
		// or "oidc" (ID tokens from an external issuer).
		Provider string
		// JWTSecret signs and verifies HS256 tokens. Required for
		// provider "jwt" and for /auth/login.
		JWTSecret string
		JWTTTL    time.Duration
	}
	OIDC struct {
		Issuer   string
		ClientID string
	}
}

var validProviders = map[string]bool{
	"token": true,
	"jwt":   true,
	"oidc":  true,
}

// Load reads config from environment (INKWELL_ prefix) and optional inkwell.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INKWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("inkwell")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("auth.provider", "jwt")
	v.SetDefault("auth.jwt_ttl", "24h")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Auth.Provider = v.GetString("auth.provider")
	cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")

	ttl, err := time.ParseDuration(v.GetString("auth.jwt_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid INKWELL_AUTH_JWT_TTL: %w", err)
	}
	cfg.Auth.JWTTTL = ttl

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("INKWELL_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("INKWELL_DB_DSN is required")
	}
	if !validProviders[cfg.Auth.Provider] {
		return nil, fmt.Errorf("unknown INKWELL_AUTH_PROVIDER %q: must be token, jwt, or oidc", cfg.Auth.Provider)
	}
	if cfg.Auth.Provider == "jwt" && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("INKWELL_AUTH_JWT_SECRET is required for the jwt auth provider")
	}
	if cfg.Auth.Provider == "oidc" {
		if cfg.OIDC.Issuer == "" {
			return nil, fmt.Errorf("INKWELL_OIDC_ISSUER is required for the oidc auth provider")
		}
		if cfg.OIDC.ClientID == "" {
			return nil, fmt.Errorf("INKWELL_OIDC_CLIENT_ID is required for the oidc auth provider")
		}
	}

	return cfg, nil
}

package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	AppURL      string
	FrontendURL string
	Port        string
	CORSOrigin  string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security: one signing secret per token kind so a compromised secret
	// cannot be replayed across flows.
	AccessTokenSecret        string
	RefreshTokenSecret       string
	EmailVerifyTokenSecret   string
	PasswordResetTokenSecret string
	AccessTokenExpiry        time.Duration
	RefreshTokenExpiry       time.Duration
	EmailVerifyTokenExpiry   time.Duration
	PasswordResetTokenExpiry time.Duration

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName:     envString("APP_NAME", "Translate Quran App"),
		AppEnv:      envRequired("APP_ENV"), // 'development' or 'production'
		AppURL:      envRequired("APP_URL"), // base URL for email verification links
		FrontendURL: envString("FRONTEND_URL", "http://localhost:5173"),
		Port:        envString("PORT", "8000"),
		CORSOrigin:  envString("CORS_ORIGIN", "http://localhost:5173"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/versehub.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		AccessTokenSecret:        envRequired("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:       envRequired("REFRESH_TOKEN_SECRET"),
		EmailVerifyTokenSecret:   envRequired("EMAIL_VERIFY_TOKEN_SECRET"),
		PasswordResetTokenSecret: envRequired("PASSWORD_RESET_TOKEN_SECRET"),
		AccessTokenExpiry:        envDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTokenExpiry:       envDuration("REFRESH_TOKEN_EXPIRY", 168*time.Hour),       // 7 days
		EmailVerifyTokenExpiry:   envDuration("EMAIL_VERIFY_TOKEN_EXPIRY", 24*time.Hour),   // 24 hours
		PasswordResetTokenExpiry: envDuration("PASSWORD_RESET_TOKEN_EXPIRY", 30*time.Minute), // 30 minutes

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for
// production deployments. Development lets email fall back to log mode.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

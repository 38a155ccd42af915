// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ClassHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: CLASSHUB_MONGO_URI, CLASSHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "classhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Token signing
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Token signing secret (must be strong in production)"},
	{Name: "access_token_ttl", Default: "30m", Desc: "Access token lifetime (e.g., 30m, 1h)"},
	{Name: "refresh_token_ttl", Default: "168h", Desc: "Refresh token lifetime (e.g., 168h for 7 days)"},
	{Name: "wallet_nonce_expiry", Default: "10m", Desc: "Wallet sign-in challenge lifetime"},
	{Name: "login_code_expiry", Default: "10m", Desc: "Email login code lifetime"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@globalclassrooms.org", Desc: "From email address"},

	// Base URL for email links and OAuth callbacks
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for email links and OAuth callbacks"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the superadmin user (promotes/creates on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CLASSHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CLASSHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:       appValues.String("jwt_secret"),
		AccessTokenTTL:  appValues.Duration("access_token_ttl", 30*time.Minute),
		RefreshTokenTTL: appValues.Duration("refresh_token_ttl", 7*24*time.Hour),

		WalletNonceExpiry: appValues.Duration("wallet_nonce_expiry", 10*time.Minute),
		LoginCodeExpiry:   appValues.Duration("login_code_expiry", 10*time.Minute),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),

		BaseURL: appValues.String("base_url"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		SuperAdminEmail: appValues.String("superadmin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// ClassHub validates the MongoDB URI format to catch configuration errors
// early, before attempting to connect, and refuses the dev signing secret
// outside dev mode.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env == "prod" && appCfg.JWTSecret == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("jwt_secret must be set in production")
	}

	return nil
}

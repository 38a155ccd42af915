// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request body limits. Everything
// specific to ClassHub lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Token signing configuration
	JWTSecret       string        // Secret for signing access/refresh tokens (must be strong in production)
	AccessTokenTTL  time.Duration // Access token lifetime
	RefreshTokenTTL time.Duration // Refresh token lifetime

	// Login challenge lifetimes
	WalletNonceExpiry time.Duration // Wallet sign-in challenge lifetime
	LoginCodeExpiry   time.Duration // Email login code lifetime

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@globalclassrooms.org)

	// Base URL for links in email and the Google OAuth callback
	BaseURL string // e.g., "https://classhub.globalclassrooms.org"

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// SuperAdmin bootstrap
	SuperAdminEmail string // Email of the superadmin user (promotes/creates on startup)
}

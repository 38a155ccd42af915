// internal/app/features/auth/handler.go
package auth

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/globalclassrooms/classhub/internal/app/store/logintokens"
	"github.com/globalclassrooms/classhub/internal/app/store/userstore"
	"github.com/globalclassrooms/classhub/internal/app/system/auth"
	"github.com/globalclassrooms/classhub/internal/app/system/mailer"
	"github.com/globalclassrooms/classhub/internal/app/system/ratelimit"
)

const siteName = "Global Classrooms"

// Handler is the shared dependency container for the auth feature: every
// way into the platform (password, wallet signature, email code, Google)
// plus token refresh and the signed-in user's own profile.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	Users   *userstore.Store
	Tokens  *logintokens.Store
	Issuer  *auth.Issuer
	Mail    *mailer.Mailer
	Limiter *ratelimit.LoginLimiter

	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string
}

// NewHandler constructs the auth Handler. Called from bootstrap where the
// DB, issuer, and mailer are already initialized.
func NewHandler(db *mongo.Database, issuer *auth.Issuer, mail *mailer.Mailer, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		Users:   userstore.New(db),
		Tokens:  logintokens.New(db),
		Issuer:  issuer,
		Mail:    mail,
		Limiter: ratelimit.NewLoginLimiter(),
	}
}

// oauth2Config returns the Google sign-in configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleClientSecret,
		RedirectURL:  h.BaseURL + "/auth/google/callback",
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// googleConfigured reports whether Google sign-in is usable.
func (h *Handler) googleConfigured() bool {
	return h.GoogleClientID != "" && h.GoogleClientSecret != ""
}

// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authfeature "github.com/globalclassrooms/classhub/internal/app/features/auth"
	certificatesfeature "github.com/globalclassrooms/classhub/internal/app/features/certificates"
	donationsfeature "github.com/globalclassrooms/classhub/internal/app/features/donations"
	healthfeature "github.com/globalclassrooms/classhub/internal/app/features/health"
	projectsfeature "github.com/globalclassrooms/classhub/internal/app/features/projects"
	reportsfeature "github.com/globalclassrooms/classhub/internal/app/features/reports"
	schoolsfeature "github.com/globalclassrooms/classhub/internal/app/features/schools"
	searchfeature "github.com/globalclassrooms/classhub/internal/app/features/search"
	subjectsfeature "github.com/globalclassrooms/classhub/internal/app/features/subjects"
	"github.com/globalclassrooms/classhub/internal/app/system/auth"
	"github.com/globalclassrooms/classhub/internal/app/system/mailer"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// ClassHub builds the token issuer and mailer from app config, installs
// the bearer-token middleware globally so every handler can see the
// current user, and mounts the feature routers for each area of the JSON
// API: auth, schools, subjects, projects, donations, certificates,
// search, and reports.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	issuer := auth.NewIssuer(appCfg.JWTSecret, appCfg.AccessTokenTTL, appCfg.RefreshTokenTTL)

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
	}, logger)

	r := chi.NewRouter()

	// Global auth middleware: resolves the bearer token into a TokenUser in
	// the request context when one is present. Routes that require a signed-in
	// user add auth.RequireSignedIn on top of this in their own routers.
	r.Use(auth.LoadBearerUser(issuer))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication and account management
	authHandler := authfeature.NewHandler(db, issuer, mail, logger)
	authHandler.GoogleClientID = appCfg.GoogleClientID
	authHandler.GoogleClientSecret = appCfg.GoogleClientSecret
	authHandler.BaseURL = appCfg.BaseURL
	if appCfg.WalletNonceExpiry > 0 {
		authHandler.Tokens.NonceExpiry = appCfg.WalletNonceExpiry
	}
	if appCfg.LoginCodeExpiry > 0 {
		authHandler.Tokens.CodeExpiry = appCfg.LoginCodeExpiry
	}
	r.Mount("/auth", authfeature.Routes(authHandler))

	// Schools, memberships, classes, and teacher/student profiles
	schoolsHandler := schoolsfeature.NewHandler(db, logger)
	r.Mount("/schools", schoolsfeature.Routes(schoolsHandler))

	// Subject catalog
	subjectsHandler := subjectsfeature.NewHandler(db, logger)
	r.Mount("/subjects", subjectsfeature.Routes(subjectsHandler))

	// Projects with goals, files, participation, updates, and impacts
	projectsHandler := projectsfeature.NewHandler(db, logger)
	r.Mount("/projects", projectsfeature.Routes(projectsHandler))

	// Donations and payment status tracking
	donationsHandler := donationsfeature.NewHandler(db, logger)
	r.Mount("/donations", donationsfeature.Routes(donationsHandler))

	// Certificate issuance and public verification
	certificatesHandler := certificatesfeature.NewHandler(db, logger)
	r.Mount("/certificates", certificatesfeature.Routes(certificatesHandler))

	// Cross-entity search
	searchHandler := searchfeature.NewHandler(db, logger)
	r.Mount("/search", searchfeature.Routes(searchHandler))

	// Platform statistics and CSV exports
	reportsHandler := reportsfeature.NewHandler(db, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler))

	return r, nil
}

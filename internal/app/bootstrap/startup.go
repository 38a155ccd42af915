// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/store/userstore"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to seed required accounts, warm caches, or perform any app-wide
// setup that depends on config and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps, appCfg.SuperAdminEmail, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureSuperAdmin guarantees that a staff account with the super_admin
// role exists for the given email. An existing account is promoted in
// place; a missing one is created without a password (the owner signs in
// with an email code and sets a password afterwards).
func ensureSuperAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		created, err := users.Create(ctx, models.User{
			Email:        email,
			FirstName:    "Super",
			LastName:     "Admin",
			Role:         models.RoleSuperAdmin,
			IsStaff:      true,
			SignupMethod: models.SignupOTP,
		})
		if err != nil {
			return fmt.Errorf("create superadmin: %w", err)
		}
		logger.Info("created superadmin account",
			zap.String("email", email),
			zap.String("user_id", created.ID.Hex()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up superadmin: %w", err)
	}

	if u.Role == models.RoleSuperAdmin && u.IsStaff && u.IsActive {
		return nil
	}

	_, err = deps.MongoDatabase.Collection("users").UpdateByID(ctx, u.ID, bson.M{
		"$set": bson.M{
			"role":       models.RoleSuperAdmin,
			"is_staff":   true,
			"is_active":  true,
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("promote superadmin: %w", err)
	}
	logger.Info("promoted existing account to superadmin",
		zap.String("email", email),
		zap.String("user_id", u.ID.Hex()))
	return nil
}

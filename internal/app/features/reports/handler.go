// internal/app/features/reports/handler.go
//
// Package reports aggregates platform-wide numbers: the public dashboard
// stats, the verified environmental impact totals, and a CSV export of
// impact records for offline analysis.
package reports

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/store/donationstore"
	"github.com/globalclassrooms/classhub/internal/app/store/impactstore"
	"github.com/globalclassrooms/classhub/internal/app/store/projectstore"
	"github.com/globalclassrooms/classhub/internal/app/store/schoolstore"
	"github.com/globalclassrooms/classhub/internal/app/store/userstore"
)

type Handler struct {
	DB        *mongo.Database
	Log       *zap.Logger
	Users     *userstore.Store
	Schools   *schoolstore.Store
	Projects  *projectstore.Store
	Donations *donationstore.Store
	Impacts   *impactstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		Users:     userstore.New(db),
		Schools:   schoolstore.New(db),
		Projects:  projectstore.New(db),
		Donations: donationstore.New(db),
		Impacts:   impactstore.New(db),
	}
}

// internal/domain/models/impact.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Impact metric types.
const (
	ImpactTreesPlanted    = "trees_planted"
	ImpactWasteRecycled   = "waste_recycled"
	ImpactWaterSaved      = "water_saved"
	ImpactEnergySaved     = "energy_saved"
	ImpactCarbonReduced   = "carbon_reduced"
	ImpactStudentsEngaged = "students_engaged"
)

// EnvironmentalImpact records one measured metric contributed by a school
// to a project. Only verified impacts count toward public statistics.
type EnvironmentalImpact struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID       primitive.ObjectID `bson:"project_id" json:"project_id"`
	SchoolID        primitive.ObjectID `bson:"school_id" json:"school_id"`
	ImpactType      string             `bson:"impact_type" json:"impact_type"`
	Value           float64            `bson:"value" json:"value"`
	Unit            string             `bson:"unit" json:"unit"`
	MeasurementDate time.Time          `bson:"measurement_date" json:"measurement_date"`
	Verified        bool               `bson:"verified" json:"verified"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

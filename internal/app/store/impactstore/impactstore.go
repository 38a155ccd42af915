// internal/app/store/impactstore/impactstore.go
package impactstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globalclassrooms/classhub/internal/domain/models"
)

var ErrNotFound = errors.New("impact record not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("environmental_impacts")}
}

// Create records an impact measurement. New records always start
// unverified; only staff flip the flag.
func (s *Store) Create(ctx context.Context, im models.EnvironmentalImpact) (models.EnvironmentalImpact, error) {
	im.ID = primitive.NewObjectID()
	im.Verified = false
	if im.MeasurementDate.IsZero() {
		im.MeasurementDate = time.Now().UTC()
	}

	now := time.Now().UTC()
	im.CreatedAt = now
	im.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, im); err != nil {
		return models.EnvironmentalImpact{}, fmt.Errorf("insert impact: %w", err)
	}
	return im, nil
}

// GetByID loads an impact record.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.EnvironmentalImpact, error) {
	var im models.EnvironmentalImpact
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&im); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &im, nil
}

// Update rewrites the measured value and notes.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, value float64, unit, notes string, measuredAt time.Time) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"value":            value,
		"unit":             unit,
		"notes":            notes,
		"measurement_date": measuredAt,
		"updated_at":       time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetVerified is a staff-only toggle; only verified impacts count toward
// public statistics.
func (s *Store) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"verified":   verified,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilter narrows List results.
type ListFilter struct {
	ProjectID    *primitive.ObjectID
	SchoolID     *primitive.ObjectID
	ImpactType   string
	VerifiedOnly bool
}

// List returns impact records matching the filter, newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.EnvironmentalImpact, error) {
	filter := bson.M{}
	if f.ProjectID != nil {
		filter["project_id"] = *f.ProjectID
	}
	if f.SchoolID != nil {
		filter["school_id"] = *f.SchoolID
	}
	if f.ImpactType != "" {
		filter["impact_type"] = f.ImpactType
	}
	if f.VerifiedOnly {
		filter["verified"] = true
	}

	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "measurement_date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EnvironmentalImpact
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TypeTotal is one row of a verified-impact aggregation.
type TypeTotal struct {
	ImpactType string  `bson:"_id" json:"impact_type"`
	Total      float64 `bson:"total" json:"total"`
	Count      int64   `bson:"count" json:"count"`
}

// VerifiedTotals aggregates verified impact values by type, optionally
// narrowed to one project.
func (s *Store) VerifiedTotals(ctx context.Context, projectID *primitive.ObjectID) ([]TypeTotal, error) {
	match := bson.M{"verified": true}
	if projectID != nil {
		match["project_id"] = *projectID
	}

	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$impact_type",
			"total": bson.M{"$sum": "$value"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []TypeTotal
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

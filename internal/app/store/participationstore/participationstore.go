// Package participationstore tracks school-level participation in projects.
// One document per (project, school), reactivated on rejoin.
package participationstore

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

var ErrNotFound = errors.New("participation not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("project_participations")}
}

// Join creates or reactivates the participation for (project, school).
func (s *Store) Join(ctx context.Context, projectID, schoolID primitive.ObjectID, contribution string) (models.ProjectParticipation, error) {
	now := time.Now().UTC()
	var p models.ProjectParticipation
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"project_id": projectID, "school_id": schoolID},
		bson.M{
			"$set": bson.M{
				"is_active":                true,
				"contribution_description": contribution,
				"joined_at":                now,
			},
			"$setOnInsert": bson.M{"project_id": projectID, "school_id": schoolID},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return models.ProjectParticipation{}, fmt.Errorf("upsert participation: %w", err)
	}
	return p, nil
}

// Withdraw deactivates a school's participation.
func (s *Store) Withdraw(ctx context.Context, projectID, schoolID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"project_id": projectID, "school_id": schoolID, "is_active": true},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Get loads the participation for (project, school) regardless of its
// active flag.
func (s *Store) Get(ctx context.Context, projectID, schoolID primitive.ObjectID) (*models.ProjectParticipation, error) {
	var p models.ProjectParticipation
	err := s.c.FindOne(ctx, bson.M{"project_id": projectID, "school_id": schoolID}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByProject returns the active participations of a project.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectParticipation, error) {
	return s.list(ctx, bson.M{"project_id": projectID, "is_active": true})
}

// ListBySchool returns the active participations of a school.
func (s *Store) ListBySchool(ctx context.Context, schoolID primitive.ObjectID) ([]models.ProjectParticipation, error) {
	return s.list(ctx, bson.M{"school_id": schoolID, "is_active": true})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.ProjectParticipation, error) {
	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "joined_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProjectParticipation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

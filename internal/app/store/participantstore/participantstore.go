// Package participantstore tracks individual students explicitly added to
// projects. One document per (project, student), reactivated on re-add.
package participantstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

var ErrNotFound = errors.New("participant not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("project_participants")}
}

// Add creates or reactivates the participant record for (project, student).
func (s *Store) Add(ctx context.Context, projectID, studentID, classID, addedBy primitive.ObjectID) (models.ProjectParticipant, error) {
	now := time.Now().UTC()
	var p models.ProjectParticipant
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"project_id": projectID, "student_id": studentID},
		bson.M{
			"$set": bson.M{
				"is_active": true,
				"class_id":  classID,
				"added_by":  addedBy,
				"joined_at": now,
			},
			"$setOnInsert": bson.M{"project_id": projectID, "student_id": studentID},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return models.ProjectParticipant{}, fmt.Errorf("upsert participant: %w", err)
	}
	return p, nil
}

// Remove deactivates a participant record.
func (s *Store) Remove(ctx context.Context, projectID, studentID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"project_id": projectID, "student_id": studentID, "is_active": true},
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

// Get loads the participant record for (project, student).
func (s *Store) Get(ctx context.Context, projectID, studentID primitive.ObjectID) (*models.ProjectParticipant, error) {
	var p models.ProjectParticipant
	err := s.c.FindOne(ctx, bson.M{"project_id": projectID, "student_id": studentID}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByProject pages through the active participants of a project.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID, page paging.Page) ([]models.ProjectParticipant, int64, error) {
	filter := bson.M{"project_id": projectID, "is_active": true}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().SetSort(bson.D{{Key: "joined_at", Value: -1}, {Key: "_id", Value: 1}})
	page.ApplyToFind(find)
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.ProjectParticipant
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListByStudent returns the projects a student actively participates in.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.ProjectParticipant, error) {
	cur, err := s.c.Find(ctx, bson.M{"student_id": studentID, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProjectParticipant
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

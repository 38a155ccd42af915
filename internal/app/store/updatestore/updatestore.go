// internal/app/store/updatestore/updatestore.go
package updatestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globalclassrooms/classhub/internal/app/system/htmlsanitize"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

var ErrNotFound = errors.New("project update not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("project_updates")}
}

// Create records a progress update. The description is sanitized on the
// way in since updates render as rich text.
func (s *Store) Create(ctx context.Context, u models.ProjectUpdate) (models.ProjectUpdate, error) {
	u.ID = primitive.NewObjectID()
	u.Description = htmlsanitize.Sanitize(u.Description)
	u.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return models.ProjectUpdate{}, fmt.Errorf("insert update: %w", err)
	}
	return u, nil
}

// GetByID loads an update.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ProjectUpdate, error) {
	var u models.ProjectUpdate
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Delete removes an update.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByProject pages through a project's updates, newest first.
func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID, page paging.Page) ([]models.ProjectUpdate, int64, error) {
	filter := bson.M{"project_id": projectID}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	page.ApplyToFind(find)
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.ProjectUpdate
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

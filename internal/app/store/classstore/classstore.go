// Package classstore owns the subjects and classes collections. Subjects
// are shared across schools; classes belong to one school.
package classstore

import (
	"context"
	"errors"
	"fmt"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globalclassrooms/classhub/internal/app/system/normalize"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

var (
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrClassNotFound    = errors.New("class not found")
	ErrDuplicateSubject = errors.New("a subject with this name already exists")
)

type Store struct {
	subjects *mongo.Collection
	classes  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		subjects: db.Collection("subjects"),
		classes:  db.Collection("classes"),
	}
}

// CreateSubject inserts a subject; names are globally unique.
func (s *Store) CreateSubject(ctx context.Context, name, description string) (models.Subject, error) {
	sub := models.Subject{
		ID:          primitive.NewObjectID(),
		Name:        normalize.Name(name),
		Description: description,
		IsActive:    true,
	}
	if _, err := s.subjects.InsertOne(ctx, sub); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Subject{}, ErrDuplicateSubject
		}
		return models.Subject{}, fmt.Errorf("insert subject: %w", err)
	}
	return sub, nil
}

// GetSubject loads a subject by id.
func (s *Store) GetSubject(ctx context.Context, id primitive.ObjectID) (*models.Subject, error) {
	var sub models.Subject
	if err := s.subjects.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ListSubjects returns all active subjects sorted by name.
func (s *Store) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	cur, err := s.subjects.Find(ctx, bson.M{"is_active": true},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Subject
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeactivateSubject soft-deletes a subject.
func (s *Store) DeactivateSubject(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.subjects.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

// CreateClass inserts a class for a school.
func (s *Store) CreateClass(ctx context.Context, schoolID primitive.ObjectID, name, description string) (models.Class, error) {
	cl := models.Class{
		ID:          primitive.NewObjectID(),
		Name:        normalize.Name(name),
		SchoolID:    schoolID,
		Description: description,
	}
	if _, err := s.classes.InsertOne(ctx, cl); err != nil {
		return models.Class{}, fmt.Errorf("insert class: %w", err)
	}
	return cl, nil
}

// GetClass loads a class by id.
func (s *Store) GetClass(ctx context.Context, id primitive.ObjectID) (*models.Class, error) {
	var cl models.Class
	if err := s.classes.FindOne(ctx, bson.M{"_id": id}).Decode(&cl); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &cl, nil
}

// ListClasses returns a school's classes sorted by name.
func (s *Store) ListClasses(ctx context.Context, schoolID primitive.ObjectID) ([]models.Class, error) {
	cur, err := s.classes.Find(ctx, bson.M{"school_id": schoolID},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Class
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountClasses returns the number of classes at a school.
func (s *Store) CountClasses(ctx context.Context, schoolID primitive.ObjectID) (int64, error) {
	return s.classes.CountDocuments(ctx, bson.M{"school_id": schoolID})
}

// UpdateClass renames a class or changes its description.
func (s *Store) UpdateClass(ctx context.Context, id primitive.ObjectID, name, description string) error {
	res, err := s.classes.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":        normalize.Name(name),
		"description": description,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrClassNotFound
	}
	return nil
}

// DeleteClass removes a class.
func (s *Store) DeleteClass(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.classes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrClassNotFound
	}
	return nil
}

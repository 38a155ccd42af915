// Package membershipstore owns the school_memberships collection, the
// authoritative join between users and schools. It also provides the
// Resolver the policy engine uses to answer membership questions.
package membershipstore

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

var ErrNotFound = errors.New("membership not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("school_memberships")}
}

// Join creates or reactivates the membership for (user, school). The unique
// index on the pair means there is at most one document to upsert, so a
// user who left and rejoins gets the same document back with a fresh
// joined_at.
func (s *Store) Join(ctx context.Context, userID, schoolID primitive.ObjectID) (models.SchoolMembership, error) {
	now := time.Now().UTC()
	var m models.SchoolMembership
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "school_id": schoolID},
		bson.M{
			"$set":         bson.M{"is_active": true, "joined_at": now},
			"$setOnInsert": bson.M{"user_id": userID, "school_id": schoolID},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		return models.SchoolMembership{}, fmt.Errorf("upsert membership: %w", err)
	}
	return m, nil
}

// Get loads the membership document for (user, school) regardless of its
// active flag.
func (s *Store) Get(ctx context.Context, userID, schoolID primitive.ObjectID) (*models.SchoolMembership, error) {
	var m models.SchoolMembership
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "school_id": schoolID}).Decode(&m)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Deactivate soft-deletes a membership. The document is kept so a rejoin
// reuses it.
func (s *Store) Deactivate(ctx context.Context, userID, schoolID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "school_id": schoolID, "is_active": true},
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

// ListMembers pages through the active memberships of one school.
func (s *Store) ListMembers(ctx context.Context, schoolID primitive.ObjectID, page paging.Page) ([]models.SchoolMembership, int64, error) {
	filter := bson.M{"school_id": schoolID, "is_active": true}

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

	var out []models.SchoolMembership
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CountMembers returns the number of active memberships at a school.
func (s *Store) CountMembers(ctx context.Context, schoolID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"school_id": schoolID, "is_active": true})
}

// ListSchools returns the school ids the user is actively a member of.
func (s *Store) ListSchools(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.SchoolMembership
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m.SchoolID)
	}
	return out, cur.Err()
}

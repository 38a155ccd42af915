// internal/domain/models/schoolmembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SchoolMembership is the authoritative join between users and schools.
// Exactly one document per (user_id, school_id); membership is soft-deleted
// by clearing IsActive, never removed, so authorization checks must always
// filter on is_active.
type SchoolMembership struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	SchoolID primitive.ObjectID `bson:"school_id" json:"school_id"`
	IsActive bool               `bson:"is_active" json:"is_active"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

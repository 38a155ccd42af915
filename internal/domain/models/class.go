// internal/domain/models/class.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Subject is a topic that can be taught or studied, shared across schools.
type Subject struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"` // unique
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
}

// Class is a grade level within a school ("Grade 5", "Undergraduate", …).
type Class struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	SchoolID    primitive.ObjectID `bson:"school_id" json:"school_id"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// internal/domain/models/profiles.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Teacher roles within a school.
const (
	TeacherRoleClass       = "class_teacher"
	TeacherRoleSubject     = "subject_teacher"
	TeacherRoleAdmin       = "admin"
	TeacherRoleCoordinator = "coordinator"
)

// TeacherProfile is the extended per-school profile for a teacher.
// One per (user, school).
type TeacherProfile struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID   `bson:"user_id" json:"user_id"`
	SchoolID         primitive.ObjectID   `bson:"school_id" json:"school_id"`
	TeacherRole      string               `bson:"teacher_role" json:"teacher_role"`
	AssignedSubjects []primitive.ObjectID `bson:"assigned_subjects,omitempty" json:"assigned_subjects,omitempty"`
	AssignedClasses  []primitive.ObjectID `bson:"assigned_classes,omitempty" json:"assigned_classes,omitempty"`
	Status           string               `bson:"status" json:"status"`       // active | inactive | on_leave
	JoinLink         string               `bson:"join_link" json:"join_link"` // uuid used for teacher invitation
}

// StudentProfile is the extended per-school profile for a student.
type StudentProfile struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID  `bson:"user_id" json:"user_id"`
	SchoolID       primitive.ObjectID  `bson:"school_id" json:"school_id"`
	StudentID      string              `bson:"student_id" json:"student_id"` // school's internal student id
	CurrentClassID *primitive.ObjectID `bson:"current_class_id,omitempty" json:"current_class_id,omitempty"`
	ParentName     string              `bson:"parent_name,omitempty" json:"parent_name,omitempty"`
	ParentEmail    string              `bson:"parent_email,omitempty" json:"parent_email,omitempty"`
	ParentPhone    string              `bson:"parent_phone,omitempty" json:"parent_phone,omitempty"`
	EnrollmentDate time.Time           `bson:"enrollment_date" json:"enrollment_date"`
}

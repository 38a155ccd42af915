// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project lifecycle. Projects are never hard-deleted; they move through
// soft-state transitions only.
const (
	ProjectDraft           = "draft"
	ProjectPendingApproval = "pending_approval"
	ProjectActive          = "active"
	ProjectCompleted       = "completed"
	ProjectCancelled       = "cancelled"
)

// Environmental themes a project can address.
var EnvironmentalThemes = []string{
	"water_conservation",
	"waste_management",
	"renewable_energy",
	"biodiversity",
	"climate_change",
	"sustainable_agriculture",
	"air_quality",
	"ocean_conservation",
}

// Project is an environmental project led by one school. Other schools join
// through ProjectParticipation documents; individual students join through
// ProjectParticipant documents.
type Project struct {
	ID                  primitive.ObjectID `bson:"_id" json:"id"`
	Title               string             `bson:"title" json:"title"`
	TitleCI             string             `bson:"title_ci" json:"-"`
	ShortDescription    string             `bson:"short_description" json:"short_description"`
	DetailedDescription string             `bson:"detailed_description" json:"detailed_description"`

	EnvironmentalThemes []string `bson:"environmental_themes,omitempty" json:"environmental_themes,omitempty"`

	StartDate              time.Time `bson:"start_date" json:"start_date"`
	EndDate                time.Time `bson:"end_date" json:"end_date"`
	IsOpenForCollaboration bool      `bson:"is_open_for_collaboration" json:"is_open_for_collaboration"`

	OfferRewards    bool   `bson:"offer_rewards" json:"offer_rewards"`
	RecognitionType string `bson:"recognition_type,omitempty" json:"recognition_type,omitempty"`
	AwardCriteria   string `bson:"award_criteria,omitempty" json:"award_criteria,omitempty"`

	LeadSchoolID primitive.ObjectID `bson:"lead_school_id" json:"lead_school_id"`

	ContactPersonName  string `bson:"contact_person_name" json:"contact_person_name"`
	ContactPersonEmail string `bson:"contact_person_email" json:"contact_person_email"`
	ContactPersonRole  string `bson:"contact_person_role" json:"contact_person_role"`
	ContactCountry     string `bson:"contact_country" json:"contact_country"`
	ContactCity        string `bson:"contact_city" json:"contact_city"`

	Status     string             `bson:"status" json:"status"`
	IsFeatured bool               `bson:"is_featured,omitempty" json:"is_featured,omitempty"`
	CreatedBy  primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProjectGoal is a single goal or target for a project.
type ProjectGoal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"project_id"`
	Description string             `bson:"description" json:"description"`
	IsCompleted bool               `bson:"is_completed" json:"is_completed"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// ProjectFile is a supporting document linked to a project at creation time,
// not an ongoing update.
type ProjectFile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"project_id"`
	FileName    string             `bson:"file_name" json:"file_name"`
	FileURL     string             `bson:"file_url" json:"file_url"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	UploadedAt  time.Time          `bson:"uploaded_at" json:"uploaded_at"`
}

// ProjectParticipation tracks school-level participation in a project.
// One document per (project, school); deactivated rather than deleted.
// A school participating in a project does not automatically add its students.
type ProjectParticipation struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID               primitive.ObjectID `bson:"project_id" json:"project_id"`
	SchoolID                primitive.ObjectID `bson:"school_id" json:"school_id"`
	IsActive                bool               `bson:"is_active" json:"is_active"`
	ContributionDescription string             `bson:"contribution_description,omitempty" json:"contribution_description,omitempty"`
	JoinedAt                time.Time          `bson:"joined_at" json:"joined_at"`
}

// ProjectParticipant tracks an individual student explicitly added to a
// project by a teacher or admin. One document per (project, student).
type ProjectParticipant struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	ClassID   primitive.ObjectID `bson:"class_id" json:"class_id"`
	AddedBy   primitive.ObjectID `bson:"added_by" json:"added_by"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	JoinedAt  time.Time          `bson:"joined_at" json:"joined_at"`
}

// ProjectUpdate is a progress submission to a project from a specific school.
type ProjectUpdate struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"project_id"`
	SchoolID    primitive.ObjectID `bson:"school_id" json:"school_id"`
	UploadedBy  primitive.ObjectID `bson:"uploaded_by" json:"uploaded_by"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Media       []UpdateMedia      `bson:"media,omitempty" json:"media,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// UpdateMedia is a single media reference attached to a project update.
type UpdateMedia struct {
	URL       string `bson:"url" json:"url"`
	MediaType string `bson:"media_type" json:"media_type"` // image | video | file
}

// internal/app/store/projectstore/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/system/normalize"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

var (
	ErrNotFound      = errors.New("project not found")
	ErrGoalNotFound  = errors.New("project goal not found")
	ErrFileNotFound  = errors.New("project file not found")
	ErrBadTransition = errors.New("invalid project status transition")
)

// transitions maps each status to the statuses it may move to. Projects
// are never hard-deleted; cancellation is the terminal escape hatch.
var transitions = map[string][]string{
	models.ProjectDraft:           {models.ProjectPendingApproval, models.ProjectCancelled},
	models.ProjectPendingApproval: {models.ProjectActive, models.ProjectDraft, models.ProjectCancelled},
	models.ProjectActive:          {models.ProjectCompleted, models.ProjectCancelled},
	models.ProjectCompleted:       {},
	models.ProjectCancelled:       {},
}

type Store struct {
	projects       *mongo.Collection
	goals          *mongo.Collection
	files          *mongo.Collection
	participations *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		projects:       db.Collection("projects"),
		goals:          db.Collection("project_goals"),
		files:          db.Collection("project_files"),
		participations: db.Collection("project_participations"),
	}
}

// GetByID loads a project by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	if err := s.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CountByLeadSchool returns the number of projects a school leads.
func (s *Store) CountByLeadSchool(ctx context.Context, schoolID primitive.ObjectID) (int64, error) {
	return s.projects.CountDocuments(ctx, bson.M{"lead_school_id": schoolID})
}

// Create inserts a new project in draft status.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = primitive.NewObjectID()
	p.Title = normalize.Name(p.Title)
	p.TitleCI = text.Fold(p.Title)
	p.Status = models.ProjectDraft

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.projects.InsertOne(ctx, p); err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// Update holds the editable project fields.
type Update struct {
	Title                  string
	ShortDescription       string
	DetailedDescription    string
	EnvironmentalThemes    []string
	StartDate              time.Time
	EndDate                time.Time
	IsOpenForCollaboration bool
	OfferRewards           bool
	RecognitionType        string
	AwardCriteria          string
	ContactPersonName      string
	ContactPersonEmail     string
	ContactPersonRole      string
	ContactCountry         string
	ContactCity            string
}

// Apply writes an update and bumps updated_at.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, up Update) error {
	title := normalize.Name(up.Title)
	res, err := s.projects.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":                     title,
		"title_ci":                  text.Fold(title),
		"short_description":         up.ShortDescription,
		"detailed_description":      up.DetailedDescription,
		"environmental_themes":      up.EnvironmentalThemes,
		"start_date":                up.StartDate,
		"end_date":                  up.EndDate,
		"is_open_for_collaboration": up.IsOpenForCollaboration,
		"offer_rewards":             up.OfferRewards,
		"recognition_type":          up.RecognitionType,
		"award_criteria":            up.AwardCriteria,
		"contact_person_name":       up.ContactPersonName,
		"contact_person_email":      up.ContactPersonEmail,
		"contact_person_role":       up.ContactPersonRole,
		"contact_country":           up.ContactCountry,
		"contact_city":              up.ContactCity,
		"updated_at":                time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Transition moves a project to a new status, enforcing the lifecycle. The
// current status is part of the filter so concurrent transitions cannot
// race past each other.
func (s *Store) Transition(ctx context.Context, id primitive.ObjectID, to string) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	allowed := false
	for _, next := range transitions[p.Status] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, p.Status, to)
	}

	res, err := s.projects.UpdateOne(ctx,
		bson.M{"_id": id, "status": p.Status},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: status changed concurrently", ErrBadTransition)
	}
	return nil
}

// SetFeatured is a staff-only toggle.
func (s *Store) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) error {
	res, err := s.projects.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_featured": featured,
		"updated_at":  time.Now().UTC(),
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
	Query        string // title prefix, case-insensitive
	Status       string
	Theme        string
	LeadSchoolID *primitive.ObjectID
	FeaturedOnly bool
	OpenOnly     bool
}

// List returns a page of projects plus the total for the filter.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.Project, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Theme != "" {
		filter["environmental_themes"] = f.Theme
	}
	if f.LeadSchoolID != nil {
		filter["lead_school_id"] = *f.LeadSchoolID
	}
	if f.FeaturedOnly {
		filter["is_featured"] = true
	}
	if f.OpenOnly {
		filter["is_open_for_collaboration"] = true
	}
	if q := normalize.Query(f.Query); q != "" {
		filter["title_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(q))}
	}

	total, err := s.projects.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	page.ApplyToFind(find)
	cur, err := s.projects.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// AddGoal appends a goal to a project.
func (s *Store) AddGoal(ctx context.Context, projectID primitive.ObjectID, description string) (models.ProjectGoal, error) {
	g := models.ProjectGoal{
		ID:          primitive.NewObjectID(),
		ProjectID:   projectID,
		Description: description,
	}
	if _, err := s.goals.InsertOne(ctx, g); err != nil {
		return models.ProjectGoal{}, fmt.Errorf("insert goal: %w", err)
	}
	return g, nil
}

// CompleteGoal marks a goal done with a completion timestamp.
func (s *Store) CompleteGoal(ctx context.Context, goalID primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.goals.UpdateOne(ctx, bson.M{"_id": goalID}, bson.M{"$set": bson.M{
		"is_completed": true,
		"completed_at": now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// ListGoals returns a project's goals.
func (s *Store) ListGoals(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectGoal, error) {
	cur, err := s.goals.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProjectGoal
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFile links a supporting document to a project.
func (s *Store) AddFile(ctx context.Context, f models.ProjectFile) (models.ProjectFile, error) {
	f.ID = primitive.NewObjectID()
	f.UploadedAt = time.Now().UTC()
	if _, err := s.files.InsertOne(ctx, f); err != nil {
		return models.ProjectFile{}, fmt.Errorf("insert file: %w", err)
	}
	return f, nil
}

// ListFiles returns a project's supporting documents.
func (s *Store) ListFiles(ctx context.Context, projectID primitive.ObjectID) ([]models.ProjectFile, error) {
	cur, err := s.files.Find(ctx, bson.M{"project_id": projectID},
		options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProjectFile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveFile deletes a file reference.
func (s *Store) RemoveFile(ctx context.Context, fileID primitive.ObjectID) error {
	res, err := s.files.DeleteOne(ctx, bson.M{"_id": fileID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrFileNotFound
	}
	return nil
}

// Scope loads the school scope used by authorization decisions: the lead
// school plus every school with an active participation.
func (s *Store) Scope(ctx context.Context, projectID primitive.ObjectID) (policy.ProjectScope, error) {
	p, err := s.GetByID(ctx, projectID)
	if err != nil {
		return policy.ProjectScope{}, err
	}

	cur, err := s.participations.Find(ctx,
		bson.M{"project_id": projectID, "is_active": true})
	if err != nil {
		return policy.ProjectScope{}, err
	}
	defer cur.Close(ctx)

	scope := policy.ProjectScope{ProjectID: p.ID, LeadSchoolID: p.LeadSchoolID}
	for cur.Next(ctx) {
		var part models.ProjectParticipation
		if err := cur.Decode(&part); err != nil {
			return policy.ProjectScope{}, err
		}
		scope.ParticipatingSchools = append(scope.ParticipatingSchools, part.SchoolID)
	}
	return scope, cur.Err()
}

// StatusCounts returns the number of projects per lifecycle status.
func (s *Store) StatusCounts(ctx context.Context) (map[string]int64, error) {
	cur, err := s.projects.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Status] = row.Count
	}
	return out, cur.Err()
}

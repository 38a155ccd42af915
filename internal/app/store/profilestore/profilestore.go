// Package profilestore owns the per-school teacher and student profiles.
// One profile per (user, school), enforced by unique indexes.
package profilestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globalclassrooms/classhub/internal/domain/models"
)

var (
	ErrNotFound         = errors.New("profile not found")
	ErrDuplicateProfile = errors.New("a profile for this user and school already exists")
)

type Store struct {
	teachers *mongo.Collection
	students *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		teachers: db.Collection("teacher_profiles"),
		students: db.Collection("student_profiles"),
	}
}

// CreateTeacher inserts a teacher profile with a fresh invitation link.
func (s *Store) CreateTeacher(ctx context.Context, p models.TeacherProfile) (models.TeacherProfile, error) {
	p.ID = primitive.NewObjectID()
	if p.TeacherRole == "" {
		p.TeacherRole = models.TeacherRoleSubject
	}
	p.Status = "active"
	p.JoinLink = uuid.NewString()

	if _, err := s.teachers.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.TeacherProfile{}, ErrDuplicateProfile
		}
		return models.TeacherProfile{}, fmt.Errorf("insert teacher profile: %w", err)
	}
	return p, nil
}

// GetTeacher loads the teacher profile for (user, school).
func (s *Store) GetTeacher(ctx context.Context, userID, schoolID primitive.ObjectID) (*models.TeacherProfile, error) {
	var p models.TeacherProfile
	err := s.teachers.FindOne(ctx, bson.M{"user_id": userID, "school_id": schoolID}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetTeacherByJoinLink resolves a teacher invitation link.
func (s *Store) GetTeacherByJoinLink(ctx context.Context, link string) (*models.TeacherProfile, error) {
	var p models.TeacherProfile
	err := s.teachers.FindOne(ctx, bson.M{"join_link": link}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateTeacher sets the mutable teacher profile fields.
func (s *Store) UpdateTeacher(ctx context.Context, id primitive.ObjectID, teacherRole, status string, subjects, classes []primitive.ObjectID) error {
	res, err := s.teachers.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"teacher_role":      teacherRole,
		"status":            status,
		"assigned_subjects": subjects,
		"assigned_classes":  classes,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTeachers returns all teacher profiles at a school.
func (s *Store) ListTeachers(ctx context.Context, schoolID primitive.ObjectID) ([]models.TeacherProfile, error) {
	cur, err := s.teachers.Find(ctx, bson.M{"school_id": schoolID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.TeacherProfile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountTeachers returns the number of teacher profiles at a school.
func (s *Store) CountTeachers(ctx context.Context, schoolID primitive.ObjectID) (int64, error) {
	return s.teachers.CountDocuments(ctx, bson.M{"school_id": schoolID})
}

// CreateStudent inserts a student profile.
func (s *Store) CreateStudent(ctx context.Context, p models.StudentProfile) (models.StudentProfile, error) {
	p.ID = primitive.NewObjectID()
	if p.EnrollmentDate.IsZero() {
		p.EnrollmentDate = time.Now().UTC()
	}

	if _, err := s.students.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.StudentProfile{}, ErrDuplicateProfile
		}
		return models.StudentProfile{}, fmt.Errorf("insert student profile: %w", err)
	}
	return p, nil
}

// GetStudent loads the student profile for (user, school).
func (s *Store) GetStudent(ctx context.Context, userID, schoolID primitive.ObjectID) (*models.StudentProfile, error) {
	var p models.StudentProfile
	err := s.students.FindOne(ctx, bson.M{"user_id": userID, "school_id": schoolID}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// AssignClass moves a student into a class.
func (s *Store) AssignClass(ctx context.Context, id, classID primitive.ObjectID) error {
	res, err := s.students.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"current_class_id": classID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountStudents returns the number of student profiles at a school.
func (s *Store) CountStudents(ctx context.Context, schoolID primitive.ObjectID) (int64, error) {
	return s.students.CountDocuments(ctx, bson.M{"school_id": schoolID})
}

// ListStudents returns student profiles at a school, optionally narrowed to
// one class.
func (s *Store) ListStudents(ctx context.Context, schoolID primitive.ObjectID, classID *primitive.ObjectID) ([]models.StudentProfile, error) {
	filter := bson.M{"school_id": schoolID}
	if classID != nil {
		filter["current_class_id"] = *classID
	}

	cur, err := s.students.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "enrollment_date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.StudentProfile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// internal/app/store/schoolstore/schoolstore.go
package schoolstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/globalclassrooms/classhub/internal/app/system/normalize"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

var (
	ErrNotFound              = errors.New("school not found")
	ErrDuplicateSchool       = errors.New("a school with this name already exists in this city")
	ErrDuplicateRegistration = errors.New("a school with this registration number already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("schools")}
}

// GetByID loads a school by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.School, error) {
	var sc models.School
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sc, nil
}

// GetByAdmin returns the school administered by the given user, if any.
func (s *Store) GetByAdmin(ctx context.Context, adminID primitive.ObjectID) (*models.School, error) {
	var sc models.School
	err := s.c.FindOne(ctx, bson.M{"admin_id": adminID, "is_active": true}).Decode(&sc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sc, nil
}

// Create inserts a new school. The creating user becomes its admin. Name
// uniqueness is case-insensitive within (city, country); registration
// number is globally unique. Which unique index fired is distinguished by
// re-checking the name after a duplicate error.
func (s *Store) Create(ctx context.Context, sc models.School) (models.School, error) {
	sc.ID = primitive.NewObjectID()
	sc.Name = normalize.Name(sc.Name)
	sc.NameCI = text.Fold(sc.Name)
	sc.CityCI = text.Fold(sc.City)
	sc.CountryCI = text.Fold(sc.Country)
	sc.IsActive = true

	now := time.Now().UTC()
	sc.CreatedAt = now
	sc.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, sc); err != nil {
		if wafflemongo.IsDup(err) {
			n, cerr := s.c.CountDocuments(ctx, bson.M{
				"name_ci":    sc.NameCI,
				"city_ci":    sc.CityCI,
				"country_ci": sc.CountryCI,
			})
			if cerr == nil && n > 0 {
				return models.School{}, ErrDuplicateSchool
			}
			return models.School{}, ErrDuplicateRegistration
		}
		return models.School{}, fmt.Errorf("insert school: %w", err)
	}
	return sc, nil
}

// Update holds the editable school fields.
type Update struct {
	Name                string
	Overview            string
	InstitutionType     string
	Affiliation         string
	YearOfEstablishment int
	AddressLine1        string
	AddressLine2        string
	City                string
	State               string
	PostalCode          string
	Country             string
	PhoneNumber         string
	Email               string
	Website             string
	PrincipalName       string
	PrincipalEmail      string
	PrincipalPhone      string
	NumberOfStudents    int
	NumberOfTeachers    int
	MediumOfInstruction string
}

// Apply writes an update and bumps updated_at.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, up Update) error {
	name := normalize.Name(up.Name)
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":                  name,
		"name_ci":               text.Fold(name),
		"overview":              up.Overview,
		"institution_type":      up.InstitutionType,
		"affiliation":           up.Affiliation,
		"year_of_establishment": up.YearOfEstablishment,
		"address_line_1":        up.AddressLine1,
		"address_line_2":        up.AddressLine2,
		"city":                  up.City,
		"city_ci":               text.Fold(up.City),
		"state":                 up.State,
		"postal_code":           up.PostalCode,
		"country":               up.Country,
		"country_ci":            text.Fold(up.Country),
		"phone_number":          up.PhoneNumber,
		"email":                 up.Email,
		"website":               up.Website,
		"principal_name":        up.PrincipalName,
		"principal_email":       up.PrincipalEmail,
		"principal_phone":       up.PrincipalPhone,
		"number_of_students":    up.NumberOfStudents,
		"number_of_teachers":    up.NumberOfTeachers,
		"medium_of_instruction": up.MediumOfInstruction,
		"updated_at":            time.Now().UTC(),
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateSchool
		}
		return err
	}
	return nil
}

// SetVerified is a staff-only toggle.
func (s *Store) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_verified": verified,
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

// Deactivate soft-deletes a school.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
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
	Query    string // name prefix, case-insensitive
	Country  string
	Verified *bool
}

// List returns a page of active schools plus the total for the filter.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.School, int64, error) {
	filter := bson.M{"is_active": true}
	if f.Country != "" {
		filter["country_ci"] = text.Fold(f.Country)
	}
	if f.Verified != nil {
		filter["is_verified"] = *f.Verified
	}
	if q := normalize.Query(f.Query); q != "" {
		filter["name_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(q))}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	page.ApplyToFind(find)
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.School
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CountActive returns the number of active schools, optionally restricted
// to verified ones.
func (s *Store) CountActive(ctx context.Context, verifiedOnly bool) (int64, error) {
	filter := bson.M{"is_active": true}
	if verifiedOnly {
		filter["is_verified"] = true
	}
	return s.c.CountDocuments(ctx, filter)
}

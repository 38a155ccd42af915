// internal/domain/models/school.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Institution types.
const (
	InstitutionPrimary    = "primary"
	InstitutionSecondary  = "secondary"
	InstitutionHighSchool = "high_school"
	InstitutionUniversity = "university"
	InstitutionCollege    = "college"
	InstitutionAcademy    = "academy"
	InstitutionOther      = "other"
)

// School is owned by exactly one admin user (the creator). Name is unique
// within the same city/country; registration number is globally unique.
// Includes case/diacritic-insensitive fields for search/sort.
type School struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci" json:"-"`
	Overview string             `bson:"overview,omitempty" json:"overview,omitempty"`

	InstitutionType     string `bson:"institution_type" json:"institution_type"`
	Affiliation         string `bson:"affiliation" json:"affiliation"` // government | private | semi_private | ngo | international
	RegistrationNumber  string `bson:"registration_number" json:"registration_number"`
	YearOfEstablishment int    `bson:"year_of_establishment" json:"year_of_establishment"`

	AddressLine1 string `bson:"address_line_1" json:"address_line_1"`
	AddressLine2 string `bson:"address_line_2,omitempty" json:"address_line_2,omitempty"`
	City         string `bson:"city" json:"city"`
	CityCI       string `bson:"city_ci" json:"-"`
	State        string `bson:"state" json:"state"`
	PostalCode   string `bson:"postal_code" json:"postal_code"`
	Country      string `bson:"country" json:"country"`
	CountryCI    string `bson:"country_ci" json:"-"`

	PhoneNumber string `bson:"phone_number" json:"phone_number"`
	Email       string `bson:"email" json:"email"`
	Website     string `bson:"website,omitempty" json:"website,omitempty"`

	PrincipalName  string `bson:"principal_name" json:"principal_name"`
	PrincipalEmail string `bson:"principal_email" json:"principal_email"`
	PrincipalPhone string `bson:"principal_phone" json:"principal_phone"`

	NumberOfStudents    int    `bson:"number_of_students" json:"number_of_students"`
	NumberOfTeachers    int    `bson:"number_of_teachers" json:"number_of_teachers"`
	MediumOfInstruction string `bson:"medium_of_instruction" json:"medium_of_instruction"`

	IsVerified bool `bson:"is_verified" json:"is_verified"`
	IsActive   bool `bson:"is_active" json:"is_active"`

	// AdminID is the single user who manages this school (creator becomes admin).
	AdminID primitive.ObjectID `bson:"admin_id" json:"admin_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. A user may have no role at all (empty string): such users get
// no role-gated permissions, only owner/admin/staff paths apply.
const (
	RoleStudent     = "student"
	RoleTeacher     = "teacher"
	RoleSchoolAdmin = "school_admin"
	RoleSuperAdmin  = "super_admin"
	RoleDonor       = "donor"
)

// Signup methods.
const (
	SignupEmail  = "email"
	SignupWallet = "wallet"
	SignupOTP    = "otp"
	SignupGoogle = "google"
)

// User represents every account on the platform: students, teachers,
// school admins, platform staff, and donors.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Username     string             `bson:"username" json:"username"`
	FirstName    string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName     string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	FullNameCI   string             `bson:"full_name_ci,omitempty" json:"-"` // lowercase, diacritics-stripped
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`

	Role         string `bson:"role,omitempty" json:"role,omitempty"` // student | teacher | school_admin | super_admin | donor | ""
	IsStaff      bool   `bson:"is_staff,omitempty" json:"is_staff,omitempty"`
	IsActive     bool   `bson:"is_active" json:"is_active"`
	SignupMethod string `bson:"signup_method,omitempty" json:"signup_method,omitempty"`

	MobileNumber string     `bson:"mobile_number,omitempty" json:"mobile_number,omitempty"`
	Gender       string     `bson:"gender,omitempty" json:"gender,omitempty"`
	DateOfBirth  *time.Time `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`

	AddressLine1 string `bson:"address_line_1,omitempty" json:"address_line_1,omitempty"`
	AddressLine2 string `bson:"address_line_2,omitempty" json:"address_line_2,omitempty"`
	City         string `bson:"city,omitempty" json:"city,omitempty"`
	State        string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode   string `bson:"postal_code,omitempty" json:"postal_code,omitempty"`
	Country      string `bson:"country,omitempty" json:"country,omitempty"`

	WalletAddress   string `bson:"wallet_address,omitempty" json:"wallet_address,omitempty"`
	GoogleAccountID string `bson:"google_account_id,omitempty" json:"-"`

	DateJoinedSchool *time.Time `bson:"date_joined_school,omitempty" json:"date_joined_school,omitempty"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
}

// HasElevatedRole reports whether the role participates in role-gated
// permission checks at all.
func (u User) HasElevatedRole() bool {
	switch u.Role {
	case RoleTeacher, RoleSchoolAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// internal/app/policy/rules.go
package policy

import "github.com/globalclassrooms/classhub/internal/domain/models"

// ReadPolicy selects who may read a resource before any relationship
// checks run.
type ReadPolicy int

const (
	// ReadAuthenticated allows any signed-in actor.
	ReadAuthenticated ReadPolicy = iota
	// ReadPublic allows anyone, including anonymous visitors.
	ReadPublic
	// ReadCompleted allows reads only while the resource reports itself
	// publicly visible (staff see everything).
	ReadCompleted
	// ReadRecipient allows the award recipient and issuer only.
	ReadRecipient
)

// Relationship selects which link an actor must hold to a resource for a
// role-gated write to succeed.
type Relationship int

const (
	// RelNone requires no link beyond the role itself.
	RelNone Relationship = iota
	// RelOwningSchool requires an active membership in one of the
	// resource's owning schools.
	RelOwningSchool
	// RelAnySchool requires an active membership in at least one school,
	// any school.
	RelAnySchool
)

// Rule is one row of the authorization table. The engine consults exactly
// one rule per decision, keyed by the resource type.
type Rule struct {
	Read ReadPolicy

	// WriteRoles are the roles eligible for the role+relationship write
	// path. A nil slice disables that path entirely: only the owner,
	// school admin, or staff may write.
	WriteRoles []string

	// Relationship qualifies WriteRoles. Ignored when WriteRoles is nil.
	Relationship Relationship

	// StudentParticipant additionally requires students to hold an active
	// participant entry for the scoping project. Membership in an owning
	// school is not enough for them.
	StudentParticipant bool

	// CreateRoles are the roles allowed to create new instances. A nil
	// slice means creation follows the write path on a prospective
	// instance instead of a role list.
	CreateRoles []string

	// AnonymousCreate permits creation without authentication.
	AnonymousCreate bool
}

var elevated = []string{models.RoleTeacher, models.RoleSchoolAdmin, models.RoleSuperAdmin}

// rules is the complete authorization table. Changing who may do what to a
// resource type means changing its row here, nowhere else.
var rules = map[string]Rule{
	"user": {
		Read: ReadAuthenticated,
		// Writes reach users only through ownership or staff.
	},
	"school": {
		Read:        ReadPublic,
		CreateRoles: elevated,
		// Modification is reserved for the school admin and staff.
	},
	"membership": {
		Read: ReadAuthenticated,
		// Owner path lets members leave on their own; the school admin
		// manages everyone else.
	},
	"subject": {
		Read:         ReadPublic,
		WriteRoles:   elevated,
		Relationship: RelNone,
	},
	"class": {
		Read:         ReadAuthenticated,
		WriteRoles:   elevated,
		Relationship: RelOwningSchool,
	},
	"profile": {
		Read:         ReadAuthenticated,
		WriteRoles:   elevated,
		Relationship: RelOwningSchool,
	},
	"project": {
		Read:         ReadPublic,
		WriteRoles:   elevated,
		Relationship: RelOwningSchool,
		CreateRoles:  elevated,
	},
	"participation": {
		Read:         ReadPublic,
		WriteRoles:   elevated,
		Relationship: RelOwningSchool,
	},
	"participant": {
		Read:         ReadAuthenticated,
		WriteRoles:   elevated,
		Relationship: RelOwningSchool,
	},
	"project_update": {
		Read: ReadPublic,
		WriteRoles: []string{
			models.RoleStudent, models.RoleTeacher,
			models.RoleSchoolAdmin, models.RoleSuperAdmin,
		},
		Relationship:       RelOwningSchool,
		StudentParticipant: true,
	},
	"impact": {
		Read:         ReadPublic,
		WriteRoles:   elevated,
		Relationship: RelOwningSchool,
	},
	"donation": {
		Read:            ReadCompleted,
		AnonymousCreate: true,
		// Status transitions are staff-only.
	},
	"certificate": {
		Read:        ReadRecipient,
		CreateRoles: elevated,
		// The issuer owns the certificate; the recipient only reads it.
	},
}

// RuleFor returns the table row for a resource type. The engine denies
// everything except staff when ok is false.
func RuleFor(resourceType string) (Rule, bool) {
	r, ok := rules[resourceType]
	return r, ok
}

// internal/app/policy/scopes.go
package policy

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource is anything the engine can authorize against. Implementations
// declare their relationships through the optional capability interfaces
// below; the engine type-asserts instead of guessing at field names.
type Resource interface {
	ResourceType() string
}

// Owned is a resource with a single owning user. Ownership grants full
// access regardless of role.
type Owned interface {
	OwnerID() primitive.ObjectID
}

// SchoolAdministered is a resource managed by the admin of one school.
type SchoolAdministered interface {
	AdministeringSchoolID() primitive.ObjectID
}

// SchoolScoped is a resource that belongs to one or more schools. Role-gated
// writes require an active membership in at least one of them.
type SchoolScoped interface {
	OwningSchoolIDs() []primitive.ObjectID
}

// RecipientReadable is a resource awarded to a user who may read it but
// never modify it.
type RecipientReadable interface {
	AwardRecipientID() primitive.ObjectID
	AwardIssuerID() primitive.ObjectID
}

// CompletionVisible is a resource whose public visibility depends on its
// own lifecycle state rather than on who is asking.
type CompletionVisible interface {
	PubliclyVisible() bool
}

// ProjectScoped is a resource tied to a specific project. Needed for the
// student participant gate.
type ProjectScoped interface {
	ScopingProjectID() primitive.ObjectID
}

// EntityClass stands in for "a new instance of this resource type" in
// create checks, before any concrete document exists.
type EntityClass string

func (e EntityClass) ResourceType() string { return string(e) }

// MembershipResolver answers the relationship questions the engine needs.
// It is the only place authorization touches persistent state, which keeps
// the engine itself pure and testable.
//
// Contract:
//   - ActiveSchoolIDs returns the set of schools where the user has an
//     active membership document. Deactivated memberships never appear.
//   - IsSchoolAdmin reports whether the user is the admin of the school,
//     independent of any membership document.
//   - IsProjectParticipant reports whether the user has an active
//     participant entry for the project.
type MembershipResolver interface {
	ActiveSchoolIDs(ctx context.Context, userID primitive.ObjectID) (map[primitive.ObjectID]struct{}, error)
	IsSchoolAdmin(ctx context.Context, userID, schoolID primitive.ObjectID) (bool, error)
	IsProjectParticipant(ctx context.Context, userID, projectID primitive.ObjectID) (bool, error)
}

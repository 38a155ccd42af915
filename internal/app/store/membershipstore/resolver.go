package membershipstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// Resolver answers the membership questions the policy engine asks. It
// reads three collections directly rather than going through the stores so
// the policy package stays free of store dependencies.
type Resolver struct {
	memberships  *mongo.Collection
	schools      *mongo.Collection
	participants *mongo.Collection
}

// NewResolver builds a Resolver over the live database.
func NewResolver(db *mongo.Database) *Resolver {
	return &Resolver{
		memberships:  db.Collection("school_memberships"),
		schools:      db.Collection("schools"),
		participants: db.Collection("project_participants"),
	}
}

// ActiveSchoolIDs returns the set of schools the user is actively a member
// of. Deactivated memberships never count.
func (r *Resolver) ActiveSchoolIDs(ctx context.Context, userID primitive.ObjectID) (map[primitive.ObjectID]struct{}, error) {
	cur, err := r.memberships.Find(ctx, bson.M{"user_id": userID, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[primitive.ObjectID]struct{})
	for cur.Next(ctx) {
		var m models.SchoolMembership
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out[m.SchoolID] = struct{}{}
	}
	return out, cur.Err()
}

// IsSchoolAdmin reports whether the user is the admin of the school. Admin
// standing comes from the school document itself, not from a membership,
// so an admin keeps control even without an active membership row.
func (r *Resolver) IsSchoolAdmin(ctx context.Context, userID, schoolID primitive.ObjectID) (bool, error) {
	n, err := r.schools.CountDocuments(ctx, bson.M{
		"_id":       schoolID,
		"admin_id":  userID,
		"is_active": true,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// School roles as reported by RoleInSchool.
const (
	SchoolRoleAdmin  = "admin"
	SchoolRoleMember = "member"
	SchoolRoleNone   = "none"
)

// RoleInSchool reports the user's standing at a school. Admin standing wins
// over membership and is independent of membership rows.
func (r *Resolver) RoleInSchool(ctx context.Context, userID, schoolID primitive.ObjectID) (string, error) {
	admin, err := r.IsSchoolAdmin(ctx, userID, schoolID)
	if err != nil {
		return "", err
	}
	if admin {
		return SchoolRoleAdmin, nil
	}

	n, err := r.memberships.CountDocuments(ctx, bson.M{
		"user_id":   userID,
		"school_id": schoolID,
		"is_active": true,
	})
	if err != nil {
		return "", err
	}
	if n > 0 {
		return SchoolRoleMember, nil
	}
	return SchoolRoleNone, nil
}

// IsProjectParticipant reports whether the user is an active explicit
// participant of the project.
func (r *Resolver) IsProjectParticipant(ctx context.Context, userID, projectID primitive.ObjectID) (bool, error) {
	n, err := r.participants.CountDocuments(ctx, bson.M{
		"project_id": projectID,
		"student_id": userID,
		"is_active":  true,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

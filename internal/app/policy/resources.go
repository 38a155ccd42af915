// internal/app/policy/resources.go
//
// Adapters that wrap domain models in the capability interfaces the engine
// understands. Handlers build these, loading whatever related state a
// resource's scope needs (for projects, the active participating schools).
package policy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// ProjectScope is the school footprint of a project: the lead school plus
// every school with an active participation. Built once per request by the
// handler and shared by all project-scoped resources.
type ProjectScope struct {
	ProjectID            primitive.ObjectID
	LeadSchoolID         primitive.ObjectID
	ParticipatingSchools []primitive.ObjectID
}

func (s ProjectScope) schoolIDs() []primitive.ObjectID {
	return append([]primitive.ObjectID{s.LeadSchoolID}, s.ParticipatingSchools...)
}

// UserRes wraps a user account. Only the user themselves (or staff) may
// modify it.
type UserRes struct{ U models.User }

func (UserRes) ResourceType() string          { return "user" }
func (r UserRes) OwnerID() primitive.ObjectID { return r.U.ID }

// SchoolRes wraps a school. Writable by its admin only.
type SchoolRes struct{ S models.School }

func (SchoolRes) ResourceType() string { return "school" }
func (r SchoolRes) AdministeringSchoolID() primitive.ObjectID {
	return r.S.ID
}

// MembershipRes wraps a school membership. The member may deactivate their
// own membership (leave); the school admin manages the rest.
type MembershipRes struct{ M models.SchoolMembership }

func (MembershipRes) ResourceType() string { return "membership" }
func (r MembershipRes) OwnerID() primitive.ObjectID {
	return r.M.UserID
}
func (r MembershipRes) AdministeringSchoolID() primitive.ObjectID {
	return r.M.SchoolID
}

// SubjectRes wraps a global subject.
type SubjectRes struct{ S models.Subject }

func (SubjectRes) ResourceType() string { return "subject" }

// ClassRes wraps a class within a school.
type ClassRes struct{ C models.Class }

func (ClassRes) ResourceType() string { return "class" }
func (r ClassRes) AdministeringSchoolID() primitive.ObjectID {
	return r.C.SchoolID
}
func (r ClassRes) OwningSchoolIDs() []primitive.ObjectID {
	return []primitive.ObjectID{r.C.SchoolID}
}

// TeacherProfileRes wraps a teacher profile.
type TeacherProfileRes struct{ P models.TeacherProfile }

func (TeacherProfileRes) ResourceType() string { return "profile" }
func (r TeacherProfileRes) OwnerID() primitive.ObjectID {
	return r.P.UserID
}
func (r TeacherProfileRes) AdministeringSchoolID() primitive.ObjectID {
	return r.P.SchoolID
}
func (r TeacherProfileRes) OwningSchoolIDs() []primitive.ObjectID {
	return []primitive.ObjectID{r.P.SchoolID}
}

// StudentProfileRes wraps a student profile.
type StudentProfileRes struct{ P models.StudentProfile }

func (StudentProfileRes) ResourceType() string { return "profile" }
func (r StudentProfileRes) OwnerID() primitive.ObjectID {
	return r.P.UserID
}
func (r StudentProfileRes) AdministeringSchoolID() primitive.ObjectID {
	return r.P.SchoolID
}
func (r StudentProfileRes) OwningSchoolIDs() []primitive.ObjectID {
	return []primitive.ObjectID{r.P.SchoolID}
}

// ProjectRes wraps a project together with its school footprint. Covers
// the project document itself and its structure (goals, files), which
// share the same write rule.
type ProjectRes struct {
	P     models.Project
	Scope ProjectScope
}

func (ProjectRes) ResourceType() string { return "project" }
func (r ProjectRes) OwnerID() primitive.ObjectID {
	return r.P.CreatedBy
}
func (r ProjectRes) AdministeringSchoolID() primitive.ObjectID {
	return r.P.LeadSchoolID
}
func (r ProjectRes) OwningSchoolIDs() []primitive.ObjectID {
	return r.Scope.schoolIDs()
}
func (r ProjectRes) ScopingProjectID() primitive.ObjectID {
	return r.P.ID
}

// ParticipationRes wraps a school's participation in a project. Scoped to
// the joining school, not the whole project footprint: a teacher at one
// participating school cannot withdraw another school.
type ParticipationRes struct{ P models.ProjectParticipation }

func (ParticipationRes) ResourceType() string { return "participation" }
func (r ParticipationRes) AdministeringSchoolID() primitive.ObjectID {
	return r.P.SchoolID
}
func (r ParticipationRes) OwningSchoolIDs() []primitive.ObjectID {
	return []primitive.ObjectID{r.P.SchoolID}
}
func (r ParticipationRes) ScopingProjectID() primitive.ObjectID {
	return r.P.ProjectID
}

// ParticipantRes wraps a student's participant entry. Managed by elevated
// roles across the project footprint; own-school restrictions for
// non-lead-school actors are enforced by the handler, which knows both
// schools.
type ParticipantRes struct {
	P     models.ProjectParticipant
	Scope ProjectScope
}

func (ParticipantRes) ResourceType() string { return "participant" }
func (r ParticipantRes) OwningSchoolIDs() []primitive.ObjectID {
	return r.Scope.schoolIDs()
}
func (r ParticipantRes) AdministeringSchoolID() primitive.ObjectID {
	return r.Scope.LeadSchoolID
}
func (r ParticipantRes) ScopingProjectID() primitive.ObjectID {
	return r.P.ProjectID
}

// UpdateRes wraps a project update. Deliberately not Owned: every write,
// including by the author, must pass the role and relationship checks so
// the student participant gate cannot be sidestepped.
type UpdateRes struct {
	U     models.ProjectUpdate
	Scope ProjectScope
}

func (UpdateRes) ResourceType() string { return "project_update" }
func (r UpdateRes) OwningSchoolIDs() []primitive.ObjectID {
	return r.Scope.schoolIDs()
}
func (r UpdateRes) AdministeringSchoolID() primitive.ObjectID {
	return r.Scope.LeadSchoolID
}
func (r UpdateRes) ScopingProjectID() primitive.ObjectID {
	return r.U.ProjectID
}

// ImpactRes wraps an environmental impact record, scoped to the school
// that contributed it.
type ImpactRes struct{ I models.EnvironmentalImpact }

func (ImpactRes) ResourceType() string { return "impact" }
func (r ImpactRes) AdministeringSchoolID() primitive.ObjectID {
	return r.I.SchoolID
}
func (r ImpactRes) OwningSchoolIDs() []primitive.ObjectID {
	return []primitive.ObjectID{r.I.SchoolID}
}
func (r ImpactRes) ScopingProjectID() primitive.ObjectID {
	return r.I.ProjectID
}

// DonationRes wraps a donation. Visibility tracks payment status, not the
// identity of the reader.
type DonationRes struct{ D models.Donation }

func (DonationRes) ResourceType() string { return "donation" }
func (r DonationRes) PubliclyVisible() bool {
	return r.D.PaymentStatus == models.PaymentCompleted
}

// CertificateRes wraps a certificate. Issuer owns it, recipient reads it.
type CertificateRes struct{ C models.Certificate }

func (CertificateRes) ResourceType() string { return "certificate" }
func (r CertificateRes) OwnerID() primitive.ObjectID {
	return r.C.IssuedBy
}
func (r CertificateRes) AwardRecipientID() primitive.ObjectID {
	return r.C.RecipientID
}
func (r CertificateRes) AwardIssuerID() primitive.ObjectID {
	return r.C.IssuedBy
}

// Package policy is the single authorization engine for the platform.
//
// Every permission question is answered by one call, Authorize, evaluated
// against the declarative rule table in rules.go. Checks run in a fixed
// precedence order and the first match wins:
//
//  1. staff override (is_staff or super_admin role)
//  2. read rules (public, authenticated, completion-gated, recipient)
//  3. ownership match
//  4. administrative match (actor admins a school the resource belongs to)
//  5. role + relationship match from the rule table
//  6. deny
//
// The engine itself never touches the database; relationship questions go
// through a MembershipResolver. Authorization is read-only and calling
// Authorize twice with the same state always yields the same decision.
package policy

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// Action is what the actor wants to do. Reads never mutate; everything
// else is a write.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// Actor is the requesting principal. Anonymous visitors are represented by
// the zero Actor.
type Actor struct {
	ID            primitive.ObjectID
	Role          string
	IsStaff       bool
	Authenticated bool
}

// Staff reports whether the actor bypasses all other checks.
func (a Actor) Staff() bool {
	return a.Authenticated && (a.IsStaff || a.Role == models.RoleSuperAdmin)
}

// Decision is an allow/deny outcome with a stable, human-readable reason.
// Reasons surface in 403 responses and in audit logs; handlers must not
// invent their own.
type Decision struct {
	Allowed bool
	Reason  string
}

// Deny reasons. Keep these stable: clients and tests match on them.
const (
	ReasonStaff       = "staff override"
	ReasonOwner       = "resource owner"
	ReasonSchoolAdmin = "school admin"
	ReasonRoleMatch   = "role and relationship"
	ReasonPublic      = "publicly readable"
	ReasonRecipient   = "certificate recipient"

	ReasonNotAuthenticated = "authentication required"
	ReasonUnknownResource  = "unknown resource type"
	ReasonInsufficientRole = "insufficient role"
	ReasonNoRelationship   = "no relationship to resource"
	ReasonNotParticipant   = "student not an explicit participant"
	ReasonReadOnly         = "read-only access"
	ReasonNotVisible       = "donation not completed"
)

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// Engine evaluates authorization decisions against the rule table.
type Engine struct {
	resolver MembershipResolver
}

// NewEngine returns an engine backed by the given resolver.
func NewEngine(resolver MembershipResolver) *Engine {
	return &Engine{resolver: resolver}
}

// Authorize decides whether actor may perform action on res. The returned
// error reports resolver failures only; policy outcomes are always carried
// in the Decision.
func (e *Engine) Authorize(ctx context.Context, actor Actor, action Action, res Resource) (Decision, error) {
	rule, known := RuleFor(res.ResourceType())

	if actor.Staff() {
		return allow(ReasonStaff), nil
	}

	// A type with no table row has no read policy or write path; nobody
	// but staff gets anywhere with it.
	if !known {
		return deny(ReasonUnknownResource), nil
	}

	if ec, ok := res.(EntityClass); ok {
		return e.authorizeCreate(actor, ec, rule), nil
	}

	if action == ActionRead {
		return e.authorizeRead(actor, res, rule), nil
	}

	if !actor.Authenticated {
		return deny(ReasonNotAuthenticated), nil
	}

	// Ownership grants full access regardless of role.
	if o, ok := res.(Owned); ok && o.OwnerID() == actor.ID {
		return allow(ReasonOwner), nil
	}

	// A recipient who is not the issuer never writes.
	if rr, ok := res.(RecipientReadable); ok && rr.AwardRecipientID() == actor.ID {
		return deny(ReasonReadOnly), nil
	}

	// Administrative match: the actor admins a school the resource
	// belongs to.
	adminOK, err := e.actorAdminsResource(ctx, actor, res)
	if err != nil {
		return Decision{}, err
	}
	if adminOK {
		return allow(ReasonSchoolAdmin), nil
	}

	return e.authorizeRoleWrite(ctx, actor, res, rule)
}

func (e *Engine) authorizeCreate(actor Actor, ec EntityClass, rule Rule) Decision {
	if rule.AnonymousCreate {
		return allow(ReasonPublic)
	}
	if !actor.Authenticated {
		return deny(ReasonNotAuthenticated)
	}
	if containsRole(rule.CreateRoles, actor.Role) {
		return allow(ReasonRoleMatch)
	}
	return deny(ReasonInsufficientRole)
}

func (e *Engine) authorizeRead(actor Actor, res Resource, rule Rule) Decision {
	switch rule.Read {
	case ReadPublic:
		return allow(ReasonPublic)
	case ReadAuthenticated:
		if actor.Authenticated {
			return allow(ReasonPublic)
		}
		return deny(ReasonNotAuthenticated)
	case ReadCompleted:
		if cv, ok := res.(CompletionVisible); ok && cv.PubliclyVisible() {
			return allow(ReasonPublic)
		}
		return deny(ReasonNotVisible)
	case ReadRecipient:
		rr, ok := res.(RecipientReadable)
		if !ok {
			return deny(ReasonNoRelationship)
		}
		if !actor.Authenticated {
			return deny(ReasonNotAuthenticated)
		}
		if rr.AwardRecipientID() == actor.ID {
			return allow(ReasonRecipient)
		}
		if rr.AwardIssuerID() == actor.ID {
			return allow(ReasonOwner)
		}
		return deny(ReasonNoRelationship)
	}
	return deny(ReasonNoRelationship)
}

func (e *Engine) actorAdminsResource(ctx context.Context, actor Actor, res Resource) (bool, error) {
	if sa, ok := res.(SchoolAdministered); ok {
		ok, err := e.resolver.IsSchoolAdmin(ctx, actor.ID, sa.AdministeringSchoolID())
		if err != nil || ok {
			return ok, err
		}
	}
	if ss, ok := res.(SchoolScoped); ok {
		for _, sid := range ss.OwningSchoolIDs() {
			ok, err := e.resolver.IsSchoolAdmin(ctx, actor.ID, sid)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

func (e *Engine) authorizeRoleWrite(ctx context.Context, actor Actor, res Resource, rule Rule) (Decision, error) {
	if rule.WriteRoles == nil || !containsRole(rule.WriteRoles, actor.Role) {
		return deny(ReasonInsufficientRole), nil
	}

	switch rule.Relationship {
	case RelNone:
		return allow(ReasonRoleMatch), nil

	case RelAnySchool:
		schools, err := e.resolver.ActiveSchoolIDs(ctx, actor.ID)
		if err != nil {
			return Decision{}, err
		}
		if len(schools) == 0 {
			return deny(ReasonNoRelationship), nil
		}

	case RelOwningSchool:
		ss, ok := res.(SchoolScoped)
		if !ok {
			return deny(ReasonNoRelationship), nil
		}
		schools, err := e.resolver.ActiveSchoolIDs(ctx, actor.ID)
		if err != nil {
			return Decision{}, err
		}
		member := false
		for _, sid := range ss.OwningSchoolIDs() {
			if _, ok := schools[sid]; ok {
				member = true
				break
			}
		}
		if !member {
			return deny(ReasonNoRelationship), nil
		}
	}

	// Students need an explicit participant entry on top of membership.
	if rule.StudentParticipant && actor.Role == models.RoleStudent {
		ps, ok := res.(ProjectScoped)
		if !ok {
			return deny(ReasonNotParticipant), nil
		}
		in, err := e.resolver.IsProjectParticipant(ctx, actor.ID, ps.ScopingProjectID())
		if err != nil {
			return Decision{}, err
		}
		if !in {
			return deny(ReasonNotParticipant), nil
		}
	}

	return allow(ReasonRoleMatch), nil
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

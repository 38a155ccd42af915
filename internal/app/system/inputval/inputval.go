// Package inputval validates request payloads before handlers act on
// them. Rules live in struct tags (`validate:"required,max=200"`); the
// optional `label` tag controls how the field is named in messages.
package inputval

import (
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/domain/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		return IsValidRole(fl.Field().String())
	})
	mustRegister(v, "walletaddr", func(fl validator.FieldLevel) bool {
		return IsValidWalletAddress(fl.Field().String())
	})
	mustRegister(v, "httpurl", func(fl validator.FieldLevel) bool {
		return IsValidHTTPURL(fl.Field().String())
	})
	mustRegister(v, "objectid", func(fl validator.FieldLevel) bool {
		return IsValidObjectID(fl.Field().String())
	})
	mustRegister(v, "impacttype", func(fl validator.FieldLevel) bool {
		return IsValidImpactType(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("inputval: register %q: %v", tag, err))
	}
}

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation errors for a payload.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether validation failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Details returns a field→message map for the error envelope.
func (r *Result) Details() map[string]string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, dup := out[e.Field]; !dup {
			out[e.Field] = e.Message
		}
	}
	return out
}

// Validate runs the struct's tag rules and returns the collected errors.
func Validate(v any) *Result {
	err := validate.Struct(v)
	if err == nil {
		return &Result{}
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &Result{Errors: []FieldError{{Message: "invalid input"}}}
	}
	res := &Result{}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", fe.Field(), fe.Param())
	case "email":
		return "A valid email address is required."
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "role":
		return fe.Field() + " must be a recognized role."
	case "walletaddr":
		return fe.Field() + " must be a 0x-prefixed hex address."
	case "httpurl":
		return fe.Field() + " must be an http or https URL."
	case "objectid":
		return fe.Field() + " must be a valid id."
	case "impacttype":
		return fe.Field() + " must be a recognized impact type."
	default:
		return fe.Field() + " is invalid."
	}
}

// IsValidEmail reports whether s is a bare RFC 5322 address (no display
// name).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// IsValidRole reports whether s is one of the platform roles.
func IsValidRole(s string) bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case models.RoleStudent, models.RoleTeacher, models.RoleSchoolAdmin,
		models.RoleSuperAdmin, models.RoleDonor:
		return true
	}
	return false
}

// IsValidWalletAddress reports whether s looks like a 20-byte hex address
// with the 0x prefix.
func IsValidWalletAddress(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// IsValidHTTPURL reports whether s is an absolute http(s) URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s is a 24-char hex Mongo ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// IsValidImpactType reports whether s is one of the impact metric kinds.
func IsValidImpactType(s string) bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case models.ImpactTreesPlanted, models.ImpactWasteRecycled, models.ImpactWaterSaved,
		models.ImpactEnergySaved, models.ImpactCarbonReduced, models.ImpactStudentsEngaged:
		return true
	}
	return false
}

// internal/domain/models/certificate.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Certificate types.
const (
	CertProjectCompletion   = "project_completion"
	CertEnvironmentalImpact = "environmental_impact"
	CertCollaboration       = "collaboration"
	CertLeadership          = "leadership"
	CertHonor               = "honor"
)

// Certificate is awarded to a user. The recipient gets read-only access;
// the issuer keeps full access.
type Certificate struct {
	ID              primitive.ObjectID  `bson:"_id" json:"id"`
	RecipientID     primitive.ObjectID  `bson:"recipient_id" json:"recipient_id"`
	CertificateType string              `bson:"certificate_type" json:"certificate_type"`
	Title           string              `bson:"title" json:"title"`
	Description     string              `bson:"description" json:"description"`
	ProjectID       *primitive.ObjectID `bson:"project_id,omitempty" json:"project_id,omitempty"`

	TemplateURL     string `bson:"template_url,omitempty" json:"template_url,omitempty"`
	BackgroundColor string `bson:"background_color" json:"background_color"`

	// VerificationCode is a UUID anyone can use to verify authenticity.
	VerificationCode string             `bson:"verification_code" json:"verification_code"`
	IssuedAt         time.Time          `bson:"issued_at" json:"issued_at"`
	IssuedBy         primitive.ObjectID `bson:"issued_by" json:"issued_by"`
}

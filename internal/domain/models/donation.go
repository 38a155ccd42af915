// internal/domain/models/donation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment lifecycle for donations. Visibility to non-staff is governed by
// this state, not by identity: only completed donations are public.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Donation has no strict owner; anyone (including anonymous visitors) can
// create one.
type Donation struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	DonorName     string             `bson:"donor_name" json:"donor_name"`
	DonorEmail    string             `bson:"donor_email" json:"donor_email"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"` // card | paypal | bank_transfer | goodcollective
	Purpose       string             `bson:"purpose" json:"purpose"`               // general | trees | water_conservation | education | technology

	RecipientName  string `bson:"recipient_name,omitempty" json:"recipient_name,omitempty"` // honor/memory donations
	SendECard      bool   `bson:"send_ecard,omitempty" json:"send_ecard,omitempty"`
	RecipientEmail string `bson:"recipient_email,omitempty" json:"recipient_email,omitempty"`
	Message        string `bson:"message,omitempty" json:"message,omitempty"`

	PaymentID     string     `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	PaymentStatus string     `bson:"payment_status" json:"payment_status"`
	ProcessedAt   *time.Time `bson:"processed_at,omitempty" json:"processed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

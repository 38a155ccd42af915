// internal/domain/models/logintokens.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Nonce purposes for wallet login challenges. The purpose is echoed in the
// message the wallet signs.
const (
	NoncePurposeSignIn   = "Sign in"
	NoncePurposeRegister = "Register"
)

// LoginNonce is a one-time wallet login challenge. It is deleted on first
// successful use and expires via a TTL index; there is no reuse path, a
// fresh nonce must be requested after either outcome.
type LoginNonce struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WalletAddress string             `bson:"wallet_address" json:"wallet_address"` // lowercased
	Nonce         string             `bson:"nonce" json:"nonce"`
	Purpose       string             `bson:"purpose" json:"purpose"`
	ExpiresAt     time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// EmailLoginCode is a one-time 6-digit email login code. Same single-use and
// expiry discipline as LoginNonce; the code itself is stored bcrypt-hashed.
type EmailLoginCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	CodeHash  string             `bson:"code_hash" json:"-"`
	Attempts  int                `bson:"attempts" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

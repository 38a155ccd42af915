// Package logintokens stores the two short-lived login challenges: wallet
// nonces and 6-digit email codes. Both are single use and expire via a TTL
// index on expires_at.
package logintokens

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/globalclassrooms/classhub/internal/app/system/normalize"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

const (
	// DefaultNonceExpiry bounds how long a wallet challenge stays valid.
	DefaultNonceExpiry = 10 * time.Minute

	// DefaultCodeExpiry bounds how long an email login code stays valid.
	DefaultCodeExpiry = 10 * time.Minute

	// MaxCodeAttempts is how many wrong codes we tolerate before the code
	// is burned and a fresh one must be requested.
	MaxCodeAttempts = 5

	bcryptCost = 10
)

var (
	ErrNonceNotFound   = errors.New("login nonce not found or expired")
	ErrCodeNotFound    = errors.New("login code not found or expired")
	ErrCodeMismatch    = errors.New("login code does not match")
	ErrTooManyAttempts = errors.New("too many failed attempts")
)

type Store struct {
	nonces *mongo.Collection
	codes  *mongo.Collection

	// NonceExpiry and CodeExpiry may be overridden before the store is
	// used; bootstrap sets them from config.
	NonceExpiry time.Duration
	CodeExpiry  time.Duration
}

func New(db *mongo.Database) *Store {
	return &Store{
		nonces:      db.Collection("login_nonces"),
		codes:       db.Collection("email_login_codes"),
		NonceExpiry: DefaultNonceExpiry,
		CodeExpiry:  DefaultCodeExpiry,
	}
}

// CreateNonce issues a fresh wallet challenge, replacing any outstanding
// nonce for the same address.
func (s *Store) CreateNonce(ctx context.Context, walletAddress, purpose string) (models.LoginNonce, error) {
	addr := normalize.WalletAddress(walletAddress)

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return models.LoginNonce{}, fmt.Errorf("generate nonce: %w", err)
	}

	now := time.Now().UTC()
	n := models.LoginNonce{
		ID:            primitive.NewObjectID(),
		WalletAddress: addr,
		Nonce:         hex.EncodeToString(raw),
		Purpose:       purpose,
		ExpiresAt:     now.Add(s.NonceExpiry),
		CreatedAt:     now,
	}

	if _, err := s.nonces.DeleteMany(ctx, bson.M{"wallet_address": addr}); err != nil {
		return models.LoginNonce{}, fmt.Errorf("clear old nonces: %w", err)
	}
	if _, err := s.nonces.InsertOne(ctx, n); err != nil {
		return models.LoginNonce{}, fmt.Errorf("insert nonce: %w", err)
	}
	return n, nil
}

// ConsumeNonce atomically fetches and deletes the outstanding nonce for a
// wallet. The TTL index lags actual expiry, so the filter re-checks it.
func (s *Store) ConsumeNonce(ctx context.Context, walletAddress string) (models.LoginNonce, error) {
	var n models.LoginNonce
	err := s.nonces.FindOneAndDelete(ctx, bson.M{
		"wallet_address": normalize.WalletAddress(walletAddress),
		"expires_at":     bson.M{"$gt": time.Now().UTC()},
	}).Decode(&n)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.LoginNonce{}, ErrNonceNotFound
		}
		return models.LoginNonce{}, err
	}
	return n, nil
}

// CreateCode issues a 6-digit email login code and returns the plaintext
// digits for delivery. Only the bcrypt hash is stored. Any outstanding code
// for the address is replaced.
func (s *Store) CreateCode(ctx context.Context, email string) (string, error) {
	addr := normalize.Email(email)

	code, err := generateCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}

	now := time.Now().UTC()
	doc := models.EmailLoginCode{
		ID:        primitive.NewObjectID(),
		Email:     addr,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.CodeExpiry),
		CreatedAt: now,
	}

	if _, err := s.codes.DeleteMany(ctx, bson.M{"email": addr}); err != nil {
		return "", fmt.Errorf("clear old codes: %w", err)
	}
	if _, err := s.codes.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert code: %w", err)
	}
	return code, nil
}

// VerifyCode checks a submitted code. The attempt counter is incremented
// before the hash compare so a flood of wrong guesses burns the code even
// when the caller retries. A correct code deletes the document.
func (s *Store) VerifyCode(ctx context.Context, email, code string) error {
	addr := normalize.Email(email)
	now := time.Now().UTC()

	var doc models.EmailLoginCode
	err := s.codes.FindOneAndUpdate(ctx,
		bson.M{"email": addr, "expires_at": bson.M{"$gt": now}},
		bson.M{"$inc": bson.M{"attempts": 1}},
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrCodeNotFound
		}
		return err
	}

	if doc.Attempts >= MaxCodeAttempts {
		_, _ = s.codes.DeleteOne(ctx, bson.M{"_id": doc.ID})
		return ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(doc.CodeHash), []byte(code)) != nil {
		return ErrCodeMismatch
	}

	if _, err := s.codes.DeleteOne(ctx, bson.M{"_id": doc.ID}); err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	return nil
}

// generateCode produces a uniform 6-digit code from crypto/rand.
func generateCode() (string, error) {
	var raw [4]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	n := binary.BigEndian.Uint32(raw[:])
	return fmt.Sprintf("%06d", (n%900000)+100000), nil
}

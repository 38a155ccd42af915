// internal/app/system/auth/tokens.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// Token types carried in the token_type claim. Access tokens authenticate
// requests; refresh tokens are only good for the refresh endpoint.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Default lifetimes, used when config leaves the TTLs zero.
const (
	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// ErrInvalidToken covers every parse failure: bad signature, expiry,
// wrong token type. Callers get no more detail than that.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload. Subject is the user's ObjectID hex.
type Claims struct {
	Role      string `json:"role,omitempty"`
	Staff     bool   `json:"staff,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID decodes the subject claim.
func (c *Claims) UserID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Subject)
}

// TokenPair is what login endpoints hand out.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Issuer signs and verifies bearer tokens with a single HS256 secret.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer builds an issuer. Zero TTLs fall back to the defaults.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue returns a fresh access+refresh pair for the user.
func (i *Issuer) Issue(u models.User) (TokenPair, error) {
	access, err := i.sign(u, TokenAccess, i.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := i.sign(u, TokenRefresh, i.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (i *Issuer) sign(u models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      u.Role,
		Staff:     u.IsStaff,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse verifies raw and checks it carries the wanted token type.
func (i *Issuer) Parse(raw, wantType string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

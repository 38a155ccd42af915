// internal/app/features/auth/types.go
package auth

import (
	"time"

	"github.com/globalclassrooms/classhub/internal/app/system/auth"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

type registerRequest struct {
	Email     string `json:"email" validate:"required,email" label:"Email"`
	Password  string `json:"password" validate:"required,min=8,max=128" label:"Password"`
	FirstName string `json:"first_name" validate:"required,max=100" label:"First name"`
	LastName  string `json:"last_name" validate:"required,max=100" label:"Last name"`
	Role      string `json:"role" validate:"omitempty,role" label:"Role"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required" label:"Current password"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128" label:"New password"`
}

type nonceRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,walletaddr" label:"Wallet address"`
	Purpose       string `json:"purpose" validate:"omitempty,oneof=sign_in register" label:"Purpose"`
}

type nonceResponse struct {
	Message   string    `json:"message"`
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
}

type walletVerifyRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,walletaddr" label:"Wallet address"`
	Signature     string `json:"signature" validate:"required" label:"Signature"`
}

type otpRequest struct {
	Email string `json:"email" validate:"required,email" label:"Email"`
}

type otpVerifyRequest struct {
	Email string `json:"email" validate:"required,email" label:"Email"`
	Code  string `json:"code" validate:"required,len=6,numeric" label:"Code"`
}

type googleLoginRequest struct {
	Code string `json:"code" validate:"required" label:"Authorization code"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required" label:"Refresh token"`
}

type updateProfileRequest struct {
	FirstName    string     `json:"first_name" validate:"required,max=100" label:"First name"`
	LastName     string     `json:"last_name" validate:"required,max=100" label:"Last name"`
	MobileNumber string     `json:"mobile_number" validate:"omitempty,max=20" label:"Mobile number"`
	Gender       string     `json:"gender" validate:"omitempty,oneof=male female other" label:"Gender"`
	DateOfBirth  *time.Time `json:"date_of_birth" label:"Date of birth"`
	AddressLine1 string     `json:"address_line_1" validate:"omitempty,max=200" label:"Address line 1"`
	AddressLine2 string     `json:"address_line_2" validate:"omitempty,max=200" label:"Address line 2"`
	City         string     `json:"city" validate:"omitempty,max=100" label:"City"`
	State        string     `json:"state" validate:"omitempty,max=100" label:"State"`
	PostalCode   string     `json:"postal_code" validate:"omitempty,max=20" label:"Postal code"`
	Country      string     `json:"country" validate:"omitempty,max=100" label:"Country"`
}

// tokenResponse is what every successful login hands back.
type tokenResponse struct {
	Tokens auth.TokenPair `json:"tokens"`
	User   models.User    `json:"user"`
}

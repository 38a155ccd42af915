// internal/app/features/auth/routes.go
package auth

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/globalclassrooms/classhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// open endpoints
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/wallet/nonce", h.HandleWalletNonce)
	r.Post("/wallet/verify", h.HandleWalletVerify)
	r.Post("/otp/request", h.HandleOTPRequest)
	r.Post("/otp/verify", h.HandleOTPVerify)
	r.Post("/google", h.HandleGoogleLogin)
	r.Post("/refresh", h.HandleRefresh)

	// signed-in account management
	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
		pr.Put("/me", h.HandleUpdateMe)
		pr.Post("/password", h.HandleChangePassword)
	})

	return r
}

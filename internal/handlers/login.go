package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-firebase-auth/internal/auth"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, idToken string) (*auth.Claims, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Firebase ID token
	// required: true
	// default: ID_TOKEN
	IDToken string `json:"idToken"`
}

// LoginResponse represents a successful login response
// swagger:model LoginResponse
type LoginResponse struct {
	// Success message
	// default: Login successful
	Message string `json:"message"`

	// Firebase uid of the authenticated user
	UID string `json:"uid"`
}

// LoginErrorResponse represents an error response for login
// swagger:model LoginErrorResponse
type LoginErrorResponse struct {
	// Error message
	// default: Authentication failed
	Error string `json:"error"`
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Verifies a Firebase ID token and sets it as the HTTP-only session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login request"
// @Success 200 {object} handlers.LoginResponse "Session cookie set"
// @Failure 400 {object} handlers.LoginErrorResponse "Missing ID token"
// @Failure 401 {object} handlers.LoginErrorResponse "Authentication failed"
// @Router /auth/login [post]
func NewLoginHandler(svc Loginer, production bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(LoginErrorResponse{
				Error: "Firebase ID token is required",
			})
			return
		}

		claims, err := svc.Login(r.Context(), req.IDToken)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(LoginErrorResponse{
				Error: "Authentication failed",
			})
			return
		}

		setSessionCookie(w, req.IDToken, http.SameSiteStrictMode, production)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LoginResponse{
			Message: "Login successful",
			UID:     claims.UID,
		})
	}
}

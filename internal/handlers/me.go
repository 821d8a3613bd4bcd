package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-firebase-auth/internal/logger"
	"github.com/sbilibin2017/gw-firebase-auth/internal/models"
)

// Mer defines the interface that the profile service must implement.
type Mer interface {
	Me(ctx context.Context, token string) (*models.User, error)
}

// MeFallbackResponse is returned for authenticated users that have no
// persisted profile row yet
// swagger:model MeFallbackResponse
type MeFallbackResponse struct {
	// Firebase uid
	FirebaseUID string `json:"firebaseUid"`

	// Email from the token claims
	Email string `json:"email"`

	// Username derived from the email local part
	Username string `json:"username"`
}

// MeErrorResponse represents an error response for the profile endpoint
// swagger:model MeErrorResponse
type MeErrorResponse struct {
	// Error message
	// default: Authentication failed
	Error string `json:"error"`
}

// NewMeHandler returns an HTTP handler for the current-user profile.
// Every failure is reported as 401: this endpoint never distinguishes
// internal errors from authentication errors.
// @Summary Current user profile
// @Description Returns the profile of the authenticated user, identified by the session cookie or bearer token.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User "Persisted profile, or a synthesized one for not-yet-persisted users"
// @Failure 401 {object} handlers.MeErrorResponse "Missing or invalid credentials"
// @Router /auth/me [get]
func NewMeHandler(svc Mer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(MeErrorResponse{
				Error: "Not authenticated",
			})
			return
		}

		user, err := svc.Me(r.Context(), token)
		if err != nil {
			logger.Log.Errorw("me endpoint failed", "err", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(MeErrorResponse{
				Error: "Authentication failed",
			})
			return
		}

		// ID 0 marks a synthesized profile for a user that is
		// authenticated but not persisted yet.
		if user.ID == 0 {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(MeFallbackResponse{
				FirebaseUID: user.FirebaseUID,
				Email:       user.Email,
				Username:    user.Username,
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(user)
	}
}

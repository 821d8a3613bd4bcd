package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-firebase-auth/internal/auth"
	"github.com/sbilibin2017/gw-firebase-auth/internal/logger"
	"github.com/sbilibin2017/gw-firebase-auth/internal/models"
	"github.com/sbilibin2017/gw-firebase-auth/internal/repositories"
)

// TokenSyncer defines the interface that the token-sync service must implement.
type TokenSyncer interface {
	SyncToken(ctx context.Context, idToken string) (*models.User, error)
}

// TokenRequest represents the JSON body for token sync
// swagger:model TokenRequest
type TokenRequest struct {
	// Firebase ID token
	// required: true
	// default: ID_TOKEN
	IDToken string `json:"idToken"`
}

// TokenResponse represents a successful token-sync response
// swagger:model TokenResponse
type TokenResponse struct {
	// default: true
	Success bool `json:"success"`

	// Upserted user
	User models.User `json:"user"`
}

// TokenErrorResponse represents an error response for token sync
// swagger:model TokenErrorResponse
type TokenErrorResponse struct {
	// Error message
	// default: Username already exists, please choose another
	Error string `json:"error"`
}

// NewTokenHandler returns an HTTP handler for token sync. It verifies the ID
// token, lazily upserts the profile row (deriving a username for first-time
// OAuth users) and sets the session cookie. Also serves the OAuth callback.
// @Summary Sync an ID token
// @Description Verifies a Firebase ID token, upserts the user profile and sets the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param tokenRequest body handlers.TokenRequest true "Token sync request"
// @Success 200 {object} handlers.TokenResponse "User synced"
// @Failure 400 {object} handlers.TokenErrorResponse "Missing ID token / username taken"
// @Failure 401 {object} handlers.TokenErrorResponse "Authentication failed"
// @Failure 500 {object} handlers.TokenErrorResponse "Internal server error"
// @Router /auth/token [post]
func NewTokenHandler(svc TokenSyncer, production bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TokenErrorResponse{
				Error: "No ID token provided",
			})
			return
		}

		user, err := svc.SyncToken(r.Context(), req.IDToken)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrTokenInvalid):
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(TokenErrorResponse{
					Error: "Authentication failed",
				})
			case errors.Is(err, repositories.ErrDuplicateUsername):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TokenErrorResponse{
					Error: "Username already exists, please choose another",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TokenErrorResponse{
					Error: internalErrorMessage(err, production),
				})
			}
			return
		}

		setSessionCookie(w, req.IDToken, http.SameSiteLaxMode, production)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TokenResponse{
			Success: true,
			User:    *user,
		})
	}
}

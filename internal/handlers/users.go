package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-firebase-auth/internal/logger"
	"github.com/sbilibin2017/gw-firebase-auth/internal/models"
)

// UserLister defines the interface that the listing service must implement.
type UserLister interface {
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
}

// UsersErrorResponse represents an error response for the user listing
// swagger:model UsersErrorResponse
type UsersErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewUsersHandler returns an HTTP handler for the user listing. The route is
// expected to sit behind the auth middleware.
// @Summary List users
// @Description Returns all user profiles sorted by username.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserProfile "User profiles"
// @Failure 401 {object} handlers.UsersErrorResponse "Missing or invalid token"
// @Failure 500 {object} handlers.UsersErrorResponse "Internal server error"
// @Router /auth/users [get]
func NewUsersHandler(svc UserLister, production bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.ListUsers(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(UsersErrorResponse{
				Error: internalErrorMessage(err, production),
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(users)
	}
}

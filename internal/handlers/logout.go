package handlers

import (
	"encoding/json"
	"net/http"
)

// LogoutResponse represents a successful logout response
// swagger:model LogoutResponse
type LogoutResponse struct {
	// Success message
	// default: Logged out successfully
	Message string `json:"message"`
}

// NewLogoutHandler returns an HTTP handler for logout.
// Only the client-side cookie is cleared; the underlying ID token is not
// revoked and stays valid until it expires.
// @Summary User logout
// @Description Clears the session cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.LogoutResponse "Session cookie cleared"
// @Router /auth/logout [post]
func NewLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearSessionCookie(w)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LogoutResponse{
			Message: "Logged out successfully",
		})
	}
}

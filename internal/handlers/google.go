package handlers

import (
	"encoding/json"
	"net/http"
)

// GoogleAuthResponse represents the Google OAuth instruction payload
// swagger:model GoogleAuthResponse
type GoogleAuthResponse struct {
	// default: Google OAuth should be handled on the client side using Firebase SDK
	Message string `json:"message"`

	// default: Use signInWithPopup(auth, googleProvider) on the frontend
	Instructions string `json:"instructions"`
}

// NewGoogleAuthHandler returns an HTTP handler that tells clients to run the
// Google OAuth flow with the Firebase client SDK and sync the resulting ID
// token through the token endpoint.
// @Summary Google OAuth entry point
// @Description Google OAuth is a client-side flow; this endpoint only documents it.
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.GoogleAuthResponse "Instructions"
// @Router /auth/google [get]
func NewGoogleAuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(GoogleAuthResponse{
			Message:      "Google OAuth should be handled on the client side using Firebase SDK",
			Instructions: "Use signInWithPopup(auth, googleProvider) on the frontend",
		})
	}
}

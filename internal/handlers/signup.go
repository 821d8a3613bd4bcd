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

// SignUpper defines the interface that the signup service must implement.
type SignUpper interface {
	SignUp(ctx context.Context, email, password, username string, firstname, lastname *string) (*models.User, error)
}

// SignupRequest represents the JSON body for user signup
// swagger:model SignupRequest
type SignupRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`

	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// First name
	Firstname *string `json:"firstname,omitempty"`

	// Last name
	Lastname *string `json:"lastname,omitempty"`
}

// SignupResponse represents a successful signup response
// swagger:model SignupResponse
type SignupResponse struct {
	// Success message
	// default: User created successfully
	Message string `json:"message"`

	// Created user
	User models.User `json:"user"`
}

// SignupErrorResponse represents an error response for signup
// swagger:model SignupErrorResponse
type SignupErrorResponse struct {
	// Error message
	// default: Email already in use
	Error string `json:"error"`
}

// NewSignupHandler returns an HTTP handler for user signup.
// @Summary Sign up a new user
// @Description Creates a Firebase account and persists the user profile. Email and username must be unique.
// @Tags auth
// @Accept json
// @Produce json
// @Param signupRequest body handlers.SignupRequest true "User signup request"
// @Success 201 {object} handlers.SignupResponse "User successfully created"
// @Failure 400 {object} handlers.SignupErrorResponse "Missing fields / email or username taken"
// @Failure 500 {object} handlers.SignupErrorResponse "Internal server error"
// @Router /auth/signup [post]
func NewSignupHandler(svc SignUpper, production bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		if req.Email == "" || req.Password == "" || req.Username == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Error: "Email, password, and username are required",
			})
			return
		}

		user, err := svc.SignUp(r.Context(), req.Email, req.Password, req.Username, req.Firstname, req.Lastname)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrEmailExists):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(SignupErrorResponse{
					Error: "Email already in use",
				})
			case errors.Is(err, repositories.ErrDuplicateUsername):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(SignupErrorResponse{
					Error: "Username already exists",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(SignupErrorResponse{
					Error: internalErrorMessage(err, production),
				})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SignupResponse{
			Message: "User created successfully",
			User:    *user,
		})
	}
}

package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sbilibin2017/gw-firebase-auth/internal/auth"
	"github.com/sbilibin2017/gw-firebase-auth/internal/logger"
)

// TokenVerifier defines the minimal interface needed by the middleware
type TokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*auth.Claims, error)
}

// AuthMiddleware returns a middleware that verifies the bearer token and
// attaches the decoded claims to the request context. Expired and invalid
// tokens answer 401; any other verifier failure answers 500.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := bearerToken(r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				writeAuthError(w, http.StatusUnauthorized, "No Firebase ID token provided")
				return
			}

			claims, err := verifier.VerifyToken(ctx, token)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					writeAuthError(w, http.StatusUnauthorized, "Firebase ID token expired")
				case errors.Is(err, auth.ErrTokenInvalid):
					writeAuthError(w, http.StatusUnauthorized, "Invalid Firebase ID token")
				default:
					writeAuthError(w, http.StatusInternalServerError, "Internal server error during authentication")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(setClaimsToContext(ctx, claims)))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// claimsContextKey is an unexported type for keys in context
type claimsContextKey struct{}

var claimsKey = claimsContextKey{}

// setClaimsToContext stores verified claims in the context
func setClaimsToContext(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaimsFromContext retrieves the verified claims from the context.
// Returns nil if the request did not pass the auth middleware.
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

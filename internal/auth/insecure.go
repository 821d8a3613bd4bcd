package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// InsecureAuth decodes ID tokens without verifying their signature, so the
// service can run against the Firebase Auth emulator. Token expiry is still
// enforced. Must never be selected in production.
type InsecureAuth struct{}

// NewInsecureAuth creates a new InsecureAuth instance.
func NewInsecureAuth() *InsecureAuth {
	return &InsecureAuth{}
}

// CreateUser returns a generated uid without contacting any provider.
func (a *InsecureAuth) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	return uuid.New().String(), nil
}

// VerifyToken decodes the token payload and checks its expiry.
func (a *InsecureAuth) VerifyToken(ctx context.Context, idToken string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(idToken, jwt.MapClaims{})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	claims := &Claims{}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.UID = sub
	}
	if claims.UID == "" {
		return nil, ErrTokenInvalid
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := mapClaims["name"].(string); ok {
		claims.Name = name
	}

	return claims, nil
}

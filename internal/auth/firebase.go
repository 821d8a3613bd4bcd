package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Error variables
var (
	ErrEmailExists  = errors.New("email already in use")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims carries the identity attributes extracted from a verified ID token.
type Claims struct {
	UID   string
	Email string
	Name  string
}

// FirebaseAuth creates accounts and verifies ID tokens using the Firebase Admin SDK.
type FirebaseAuth struct {
	client *firebaseauth.Client
}

// NewFirebaseAuth initializes the Firebase app and returns an authenticator.
// credentialsFile may be empty, in which case application default credentials are used.
func NewFirebaseAuth(ctx context.Context, projectID, credentialsFile string) (*FirebaseAuth, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	return &FirebaseAuth{client: client}, nil
}

// CreateUser registers a new Firebase account and returns its uid.
func (a *FirebaseAuth) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&firebaseauth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	rec, err := a.client.CreateUser(ctx, params)
	if err != nil {
		if firebaseauth.IsEmailAlreadyExists(err) {
			return "", ErrEmailExists
		}
		return "", err
	}

	return rec.UID, nil
}

// VerifyToken validates a Firebase ID token and returns its claims.
func (a *FirebaseAuth) VerifyToken(ctx context.Context, idToken string) (*Claims, error) {
	token, err := a.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		if firebaseauth.IsIDTokenExpired(err) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims := &Claims{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		claims.Name = name
	}

	return claims, nil
}

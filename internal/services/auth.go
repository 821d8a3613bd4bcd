package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sbilibin2017/gw-firebase-auth/internal/auth"
	"github.com/sbilibin2017/gw-firebase-auth/internal/logger"
	"github.com/sbilibin2017/gw-firebase-auth/internal/models"
)

// ErrUserNotPersisted means a write reported success but returned no row.
var ErrUserNotPersisted = errors.New("user row not persisted")

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUID(ctx context.Context, uid string) (*models.User, error)
	GetAll(ctx context.Context) ([]models.UserProfile, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Create(ctx context.Context, user models.User) (*models.User, error)
	Upsert(ctx context.Context, user models.User) (*models.User, error)
}

// Verifier defines the identity-provider operations the service needs.
type Verifier interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, idToken string) (*auth.Claims, error)
}

// AuthService bridges the identity provider with the users table.
type AuthService struct {
	verifier Verifier
	reader   UserReader
	writer   UserWriter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(verifier Verifier, reader UserReader, writer UserWriter) *AuthService {
	return &AuthService{
		verifier: verifier,
		reader:   reader,
		writer:   writer,
	}
}

// SignUp creates an identity-provider account and persists the profile row.
func (svc *AuthService) SignUp(ctx context.Context, email, password, username string, firstname, lastname *string) (*models.User, error) {
	uid, err := svc.verifier.CreateUser(ctx, email, password, username)
	if err != nil {
		logger.Log.Errorw("failed to create identity account", "email", email, "err", err)
		return nil, err
	}

	user, err := svc.writer.Create(ctx, models.User{
		FirebaseUID: uid,
		Username:    username,
		Email:       email,
		Firstname:   firstname,
		Lastname:    lastname,
	})
	if err != nil {
		logger.Log.Errorw("failed to save user", "uid", uid, "username", username, "err", err)
		return nil, err
	}

	return user, nil
}

// Login verifies an ID token and returns its claims.
func (svc *AuthService) Login(ctx context.Context, idToken string) (*auth.Claims, error) {
	claims, err := svc.verifier.VerifyToken(ctx, idToken)
	if err != nil {
		logger.Log.Errorw("token verification failed", "err", err)
		return nil, err
	}
	return claims, nil
}

// Me verifies the token and returns the persisted profile. For an
// authenticated user without a row yet it returns a synthesized profile with
// ID 0 and does not create anything.
func (svc *AuthService) Me(ctx context.Context, token string) (*models.User, error) {
	claims, err := svc.verifier.VerifyToken(ctx, token)
	if err != nil {
		logger.Log.Errorw("token verification failed", "err", err)
		return nil, err
	}

	user, err := svc.reader.GetByUID(ctx, claims.UID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "uid", claims.UID, "err", err)
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	username := "user"
	if claims.Email != "" {
		username = emailLocalPart(claims.Email)
	}

	return &models.User{
		FirebaseUID: claims.UID,
		Username:    username,
		Email:       claims.Email,
	}, nil
}

// SyncToken verifies the token and upserts the profile row keyed on the
// firebase uid. The username is derived from the claims and only takes effect
// on first insert; existing rows keep theirs.
func (svc *AuthService) SyncToken(ctx context.Context, idToken string) (*models.User, error) {
	claims, err := svc.verifier.VerifyToken(ctx, idToken)
	if err != nil {
		logger.Log.Errorw("token verification failed", "err", err)
		return nil, err
	}

	firstname, lastname := splitDisplayName(claims.Name)

	user, err := svc.writer.Upsert(ctx, models.User{
		FirebaseUID: claims.UID,
		Username:    deriveUsername(claims),
		Email:       claims.Email,
		Firstname:   firstname,
		Lastname:    lastname,
	})
	if err != nil {
		logger.Log.Errorw("failed to upsert user", "uid", claims.UID, "err", err)
		return nil, err
	}
	if user == nil {
		logger.Log.Errorw("upsert returned no user", "uid", claims.UID)
		return nil, ErrUserNotPersisted
	}

	return user, nil
}

// ListUsers returns all user profiles sorted by username.
func (svc *AuthService) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	users, err := svc.reader.GetAll(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}
	return users, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// deriveUsername picks a default username for token-sync users, in order:
// sanitized display name, email local part, "user_" + first 8 chars of uid.
func deriveUsername(claims *auth.Claims) string {
	if claims.Name != "" {
		return strings.ToLower(whitespace.ReplaceAllString(claims.Name, "_"))
	}
	if claims.Email != "" {
		return emailLocalPart(claims.Email)
	}
	uid := claims.UID
	if len(uid) > 8 {
		uid = uid[:8]
	}
	return "user_" + uid
}

// splitDisplayName splits "First Rest Of Name" into firstname and lastname.
func splitDisplayName(name string) (*string, *string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return nil, nil
	}

	firstname := fields[0]
	if len(fields) == 1 {
		return &firstname, nil
	}

	lastname := strings.Join(fields[1:], " ")
	return &firstname, &lastname
}

func emailLocalPart(email string) string {
	return strings.SplitN(email, "@", 2)[0]
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-firebase-auth/internal/logger"
	"github.com/sbilibin2017/gw-firebase-auth/internal/models"
)

// PostgresUserRepository stores user profiles in PostgreSQL.
type PostgresUserRepository struct {
	db *sqlx.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository instance.
func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Create inserts a new user row and returns it.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) (*models.User, error) {
	const query = `
		INSERT INTO users (firebase_uid, username, email, firstname, lastname)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, firebase_uid, username, email, firstname, lastname
	`
	args := []any{user.FirebaseUID, user.Username, user.Email, user.Firstname, user.Lastname}

	var created models.User
	err := r.db.GetContext(ctx, &created, query, args...)

	// Log with query in single line
	logger.Log.Infow("create user",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, translatePostgresError(err)
	}

	return &created, nil
}

// Upsert inserts the user or, when the firebase uid already exists, updates
// email, firstname and lastname in a single statement. The stored username is
// never changed on conflict.
func (r *PostgresUserRepository) Upsert(ctx context.Context, user models.User) (*models.User, error) {
	const query = `
		INSERT INTO users (firebase_uid, username, email, firstname, lastname)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (firebase_uid) DO UPDATE SET
			email = EXCLUDED.email,
			firstname = EXCLUDED.firstname,
			lastname = EXCLUDED.lastname
		RETURNING id, firebase_uid, username, email, firstname, lastname
	`
	args := []any{user.FirebaseUID, user.Username, user.Email, user.Firstname, user.Lastname}

	var upserted models.User
	err := r.db.GetContext(ctx, &upserted, query, args...)

	// Log with query in single line
	logger.Log.Infow("upsert user",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, translatePostgresError(err)
	}

	return &upserted, nil
}

// GetByUID returns the user with the given firebase uid, or nil if absent.
func (r *PostgresUserRepository) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	const query = `
		SELECT id, firebase_uid, username, email, firstname, lastname
		FROM users
		WHERE firebase_uid = $1
	`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetAll returns all user profiles ordered by username.
func (r *PostgresUserRepository) GetAll(ctx context.Context) ([]models.UserProfile, error) {
	const query = `
		SELECT username, email, firstname, lastname
		FROM users
		ORDER BY username ASC
	`

	users := make([]models.UserProfile, 0)
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}

	return users, nil
}

// translatePostgresError maps unique-violation errors to sentinel errors.
func translatePostgresError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "firebase_uid") {
			return ErrDuplicateUID
		}
		return ErrDuplicateUsername
	}
	return err
}

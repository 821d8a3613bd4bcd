package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-firebase-auth/internal/logger"
	"github.com/sbilibin2017/gw-firebase-auth/internal/models"
)

// MySQLUserRepository stores user profiles in MySQL. It is observably
// identical to PostgresUserRepository: same fields, same ordering, same
// conflict semantics.
type MySQLUserRepository struct {
	db *sqlx.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository instance.
func NewMySQLUserRepository(db *sqlx.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new user row and returns it.
func (r *MySQLUserRepository) Create(ctx context.Context, user models.User) (*models.User, error) {
	const query = `
		INSERT INTO users (firebase_uid, username, email, firstname, lastname)
		VALUES (?, ?, ?, ?, ?)
	`
	args := []any{user.FirebaseUID, user.Username, user.Email, user.Firstname, user.Lastname}

	res, err := r.db.ExecContext(ctx, query, args...)

	// Log with query in single line
	logger.Log.Infow("create user",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, translateMySQLError(err)
	}

	created := user
	created.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Upsert inserts the user or, when the firebase uid already exists, updates
// email, firstname and lastname. MySQL's ON DUPLICATE KEY UPDATE fires on any
// unique key, which would let a username collision update the other user's
// row, so the upsert is an explicit select-then-insert-or-update keyed only
// on the uid, inside a transaction.
func (r *MySQLUserRepository) Upsert(ctx context.Context, user models.User) (*models.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const selectQuery = `
		SELECT id, firebase_uid, username, email, firstname, lastname
		FROM users
		WHERE firebase_uid = ?
		FOR UPDATE
	`

	var existing models.User
	err = tx.GetContext(ctx, &existing, selectQuery, user.FirebaseUID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if errors.Is(err, sql.ErrNoRows) {
		const insertQuery = `
			INSERT INTO users (firebase_uid, username, email, firstname, lastname)
			VALUES (?, ?, ?, ?, ?)
		`
		args := []any{user.FirebaseUID, user.Username, user.Email, user.Firstname, user.Lastname}

		res, err := tx.ExecContext(ctx, insertQuery, args...)

		// Log with query in single line
		logger.Log.Infow("upsert user (insert)",
			"query", strings.Join(strings.Fields(insertQuery), " "),
			"args", args,
			"error", err,
		)

		if err != nil {
			return nil, translateMySQLError(err)
		}

		created := user
		created.ID, err = res.LastInsertId()
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}

		return &created, nil
	}

	const updateQuery = `
		UPDATE users
		SET email = ?, firstname = ?, lastname = ?
		WHERE firebase_uid = ?
	`
	args := []any{user.Email, user.Firstname, user.Lastname, user.FirebaseUID}

	_, err = tx.ExecContext(ctx, updateQuery, args...)

	// Log with query in single line
	logger.Log.Infow("upsert user (update)",
		"query", strings.Join(strings.Fields(updateQuery), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, translateMySQLError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	updated := existing
	updated.Email = user.Email
	updated.Firstname = user.Firstname
	updated.Lastname = user.Lastname

	return &updated, nil
}

// GetByUID returns the user with the given firebase uid, or nil if absent.
func (r *MySQLUserRepository) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	const query = `
		SELECT id, firebase_uid, username, email, firstname, lastname
		FROM users
		WHERE firebase_uid = ?
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
func (r *MySQLUserRepository) GetAll(ctx context.Context) ([]models.UserProfile, error) {
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

// translateMySQLError maps duplicate-entry errors (1062) to sentinel errors.
// The driver message names the violated key, e.g.
// "Duplicate entry 'bob' for key 'users.username'".
func translateMySQLError(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		if strings.Contains(myErr.Message, "firebase_uid") {
			return ErrDuplicateUID
		}
		return ErrDuplicateUsername
	}
	return err
}

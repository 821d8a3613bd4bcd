package repositories

import "errors"

// Error variables returned when a unique constraint rejects a write.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateUID      = errors.New("firebase uid already exists")
)

package models

// User represents a user record in the database
type User struct {
	ID          int64   `json:"id" db:"id"`                    // Primary key
	FirebaseUID string  `json:"firebaseUid" db:"firebase_uid"` // Firebase subject id, unique
	Username    string  `json:"username" db:"username"`        // Unique username
	Email       string  `json:"email" db:"email"`              // User email
	Firstname   *string `json:"firstname" db:"firstname"`      // Optional first name
	Lastname    *string `json:"lastname" db:"lastname"`        // Optional last name
}

// UserProfile is the projection returned by the user listing.
// It deliberately excludes id and firebase_uid.
type UserProfile struct {
	Username  string  `json:"username" db:"username"`
	Email     string  `json:"email" db:"email"`
	Firstname *string `json:"firstname" db:"firstname"`
	Lastname  *string `json:"lastname" db:"lastname"`
}

package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrEmptyToken    = errors.New("token cannot be empty")
	ErrInvalidStatus = errors.New("invalid user status")
)

// UserStatus describes whether a user currently holds an active session.
type UserStatus string

const (
	// UserStatusOnline is set on successful registration and login.
	UserStatusOnline UserStatus = "ONLINE"

	// UserStatusOffline is set when the user is explicitly logged out.
	UserStatusOffline UserStatus = "OFFLINE"
)

// IsValid reports whether the status is one of the known values.
func (s UserStatus) IsValid() bool {
	return s == UserStatusOnline || s == UserStatusOffline
}

// BirthDateLayout is the calendar-date format accepted for birth dates.
const BirthDateLayout = "2006-01-02"

// User represents a registered account.
// The session token is opaque: it is generated once at registration,
// never changes, and is never derived from other fields.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Password     string     `json:"-"` // Plaintext in this core; never serialized
	Token        string     `json:"-"` // Opaque session token, exposed only to its owner
	Status       UserStatus `json:"status"`
	CreationDate time.Time  `json:"creation_date"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
}

// NewUser creates a new User with the given username and password.
// The username is trimmed, a fresh opaque token is generated, the status
// is set to ONLINE and the creation date is fixed to the current time.
// The ID is left zero; the store assigns it on insert.
func NewUser(username, password string) (*User, error) {
	user := &User{
		Username:     strings.TrimSpace(username),
		Password:     password,
		Token:        uuid.NewString(),
		Status:       UserStatusOnline,
		CreationDate: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}

	if u.Password == "" {
		return ErrEmptyPassword
	}

	if u.Token == "" {
		return ErrEmptyToken
	}

	if !u.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}

// PasswordMatches compares the stored password with the supplied one by
// exact string equality after trimming surrounding whitespace on both sides.
func (u *User) PasswordMatches(password string) bool {
	return strings.TrimSpace(u.Password) == strings.TrimSpace(password)
}

// ParseBirthDate parses a calendar date in the 2006-01-02 layout.
// Returns a ValidationError wrapping ErrValidation if the value is not
// a valid date.
func ParseBirthDate(value string) (time.Time, error) {
	date, err := time.Parse(BirthDateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, NewValidationError("birth_date", "is not a valid date", ErrValidation)
	}
	return date, nil
}

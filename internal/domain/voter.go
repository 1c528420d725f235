package domain

import (
	"fmt"
	"strings"
	"time"
)

// Voter identity bounds, matching the persisted column constraints.
const (
	MinUsernameChars = 5
	MaxUsernameChars = 20
	MinPasswordChars = 8
)

// Voter is a registered account. Email and username are globally unique.
type Voter struct {
	ID           int64     `json:"-"`
	Code         string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	TimeCreated  time.Time `json:"timeCreated"`
	TimeUpdated  time.Time `json:"timeUpdated"`
}

// ValidateUsername checks the username length bounds.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameChars || len(username) > MaxUsernameChars {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrValidation, MinUsernameChars, MaxUsernameChars)
	}
	return nil
}

// ValidateEmail performs a structural check; full syntax validation belongs
// to the transport layer.
func ValidateEmail(email string) error {
	at := strings.IndexByte(email, '@')
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return nil
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordChars {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordChars)
	}
	return nil
}

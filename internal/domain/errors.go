package domain

import "errors"

// Sentinel errors for the poll/vote consistency rules. Services return these
// (possibly wrapped); the transport layer maps each kind to a status code.
var (
	// ErrNotFound means a referenced poll, voter or option does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the actor lacks rights over the target, e.g. a
	// non-creator inviting or a private poll accessed without participation.
	ErrForbidden = errors.New("resource forbidden")

	// ErrConflict means a participation or vote already exists for the
	// (voter, poll) pair, or a voter email/username is already taken.
	ErrConflict = errors.New("resource conflict")

	// ErrExpired means the action was attempted after the poll expiration.
	ErrExpired = errors.New("poll has expired")

	// ErrValidation means structurally well-formed but semantically invalid
	// input (wrong option count for the mode, oversized page, bad enum).
	ErrValidation = errors.New("validation failed")

	// ErrCodeSpaceExhausted means the code assigner could not find a free
	// code within its retry bound.
	ErrCodeSpaceExhausted = errors.New("code generation exhausted")

	// ErrUnauthorized means the credentials did not match a voter.
	ErrUnauthorized = errors.New("invalid credentials")
)

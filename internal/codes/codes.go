// Package codes produces the short human-facing identifiers carried by every
// entity next to its numeric key.
package codes

import (
	"context"
	"crypto/rand"
	"fmt"

	"ballotbox/internal/domain"
)

// Kind selects the code namespace; uniqueness holds per kind.
type Kind string

const (
	KindVoter         Kind = "voter"
	KindPoll          Kind = "poll"
	KindOption        Kind = "option"
	KindParticipation Kind = "participation"
	KindVote          Kind = "vote"
)

const (
	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	CodeLength = 5

	// maxAttempts bounds the collision retry loop. Collisions are negligible
	// for a 62^5 space, but the loop must terminate under pathological
	// contention instead of spinning.
	maxAttempts = 5
)

// ExistsFunc reports whether a code is already taken within one kind.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Assigner hands out codes that are free at the moment of assignment. The
// storage layer additionally carries a unique index per code column, so a
// racing duplicate fails its insert rather than landing twice.
type Assigner struct {
	exists map[Kind]ExistsFunc
}

// NewAssigner builds an assigner from per-kind existence checks.
func NewAssigner(exists map[Kind]ExistsFunc) *Assigner {
	return &Assigner{exists: exists}
}

// Assign returns a free code for the kind or domain.ErrCodeSpaceExhausted
// after the bounded number of attempts.
func (a *Assigner) Assign(ctx context.Context, kind Kind) (string, error) {
	check, ok := a.exists[kind]
	if !ok {
		return "", fmt.Errorf("no existence check registered for kind %q", kind)
	}
	for i := 0; i < maxAttempts; i++ {
		code, err := randomCode(CodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		taken, err := check(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no free %s code after %d attempts", domain.ErrCodeSpaceExhausted, kind, maxAttempts)
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}

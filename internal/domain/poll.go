package domain

import (
	"fmt"
	"time"
)

// Visibility controls who may view and vote in a poll.
type Visibility string

const (
	VisibilityPublic  Visibility = "Public"
	VisibilityPrivate Visibility = "Private"
)

// Mode controls how many options a single vote may select.
type Mode string

const (
	ModeSingle   Mode = "Single"
	ModeMultiple Mode = "Multiple"
)

// Poll validation bounds. Field-syntax checks happen at the transport layer,
// but the service re-checks them before persisting.
const (
	MinQuestionChars  = 8
	MaxQuestionChars  = 250
	MinOptions        = 2
	MinOptionChars    = 1
	MaxOptionChars    = 100
	MinExpirationDays = 1
	MaxExpirationDays = 30
	DefaultPageSize   = 10
	MaxPageSize       = 100
)

// Poll is a question with a fixed option set, owned by its creator.
// Status is set once at creation; expiry is a pure function of time.
type Poll struct {
	ID          int64      `json:"-"`
	Code        string     `json:"id"`
	CreatorID   int64      `json:"-"`
	CreatorCode string     `json:"creator"`
	Visibility  Visibility `json:"visibility"`
	Mode        Mode       `json:"mode"`
	Question    string     `json:"question"`
	Options     []Option   `json:"options"`
	Status      string     `json:"status"`
	Expiration  time.Time  `json:"expiration"`
	TimeCreated time.Time  `json:"timeCreated"`
	TimeUpdated time.Time  `json:"timeUpdated"`
}

// Option belongs to exactly one poll. Votes only ever increments, by exactly
// one per accepted vote that selected it.
type Option struct {
	ID          int64     `json:"-"`
	Code        string    `json:"id"`
	PollID      int64     `json:"-"`
	Text        string    `json:"option"`
	Votes       int       `json:"votes"`
	TimeCreated time.Time `json:"timeCreated"`
	TimeUpdated time.Time `json:"timeUpdated"`
}

// IsExpired reports whether the poll expiration lies strictly before now.
// Evaluated at the moment of each mutating action, never cached.
func (p *Poll) IsExpired(now time.Time) bool {
	return now.After(p.Expiration)
}

// OptionByCode returns the poll option with the given code, or nil if the
// code is unknown or belongs to another poll.
func (p *Poll) OptionByCode(code string) *Option {
	for i := range p.Options {
		if p.Options[i].Code == code {
			return &p.Options[i]
		}
	}
	return nil
}

// ParseVisibility validates the visibility enum.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityPrivate:
		return Visibility(s), nil
	}
	return "", fmt.Errorf("%w: invalid visibility %q", ErrValidation, s)
}

// ParseMode validates the mode enum.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSingle, ModeMultiple:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: invalid mode %q", ErrValidation, s)
}

// ValidateQuestion checks the question length bounds.
func ValidateQuestion(q string) error {
	if len(q) < MinQuestionChars || len(q) > MaxQuestionChars {
		return fmt.Errorf("%w: question must be %d-%d characters", ErrValidation, MinQuestionChars, MaxQuestionChars)
	}
	return nil
}

// ValidateOptionTexts checks the option count and each option text length.
func ValidateOptionTexts(texts []string) error {
	if len(texts) < MinOptions {
		return fmt.Errorf("%w: a poll needs at least %d options", ErrValidation, MinOptions)
	}
	for _, t := range texts {
		if len(t) < MinOptionChars || len(t) > MaxOptionChars {
			return fmt.Errorf("%w: option text must be %d-%d characters", ErrValidation, MinOptionChars, MaxOptionChars)
		}
	}
	return nil
}

// ValidateExpirationDays checks the expiration window bounds.
func ValidateExpirationDays(days int) error {
	if days < MinExpirationDays || days > MaxExpirationDays {
		return fmt.Errorf("%w: expiration must be %d-%d days", ErrValidation, MinExpirationDays, MaxExpirationDays)
	}
	return nil
}

// ValidateChosenOptionCount enforces the poll mode: exactly one option for
// Single, one to all options for Multiple.
func ValidateChosenOptionCount(mode Mode, chosen, total int) error {
	if mode == ModeSingle {
		if chosen != 1 {
			return fmt.Errorf("%w: invalid option count", ErrValidation)
		}
		return nil
	}
	if chosen < 1 || chosen > total {
		return fmt.Errorf("%w: invalid option count", ErrValidation)
	}
	return nil
}

// NormalizePageSize applies the default for a zero size and rejects sizes
// above the maximum instead of clamping them.
func NormalizePageSize(size int) (int, error) {
	if size == 0 {
		return DefaultPageSize, nil
	}
	if size < 0 || size > MaxPageSize {
		return 0, fmt.Errorf("%w: page size must be 1-%d", ErrValidation, MaxPageSize)
	}
	return size, nil
}

// Page is one page of a descending-by-creation-time poll listing.
type Page struct {
	Polls      []Poll `json:"polls"`
	PageIndex  int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalCount int    `json:"totalCount"`
}

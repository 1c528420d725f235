package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question string
		wantErr  bool
	}{
		{"minimum length", strings.Repeat("q", 8), false},
		{"maximum length", strings.Repeat("q", 250), false},
		{"too short", "short?", true},
		{"too long", strings.Repeat("q", 251), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(tt.question)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOptionTexts(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		wantErr bool
	}{
		{"two options", []string{"A", "B"}, false},
		{"one option", []string{"A"}, true},
		{"no options", nil, true},
		{"empty option text", []string{"A", ""}, true},
		{"option text at limit", []string{strings.Repeat("x", 100), "B"}, false},
		{"option text over limit", []string{strings.Repeat("x", 101), "B"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOptionTexts(tt.options)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateExpirationDays(t *testing.T) {
	assert.NoError(t, ValidateExpirationDays(1))
	assert.NoError(t, ValidateExpirationDays(30))
	assert.ErrorIs(t, ValidateExpirationDays(0), ErrValidation)
	assert.ErrorIs(t, ValidateExpirationDays(31), ErrValidation)
	assert.ErrorIs(t, ValidateExpirationDays(-1), ErrValidation)
}

func TestParseVisibilityAndMode(t *testing.T) {
	v, err := ParseVisibility("Public")
	require.NoError(t, err)
	assert.Equal(t, VisibilityPublic, v)

	_, err = ParseVisibility("public")
	assert.ErrorIs(t, err, ErrValidation)

	m, err := ParseMode("Multiple")
	require.NoError(t, err)
	assert.Equal(t, ModeMultiple, m)

	_, err = ParseMode("Ranked")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateChosenOptionCount(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		chosen  int
		total   int
		wantErr bool
	}{
		{"single exactly one", ModeSingle, 1, 3, false},
		{"single two options", ModeSingle, 2, 3, true},
		{"single zero options", ModeSingle, 0, 3, true},
		{"multiple one option", ModeMultiple, 1, 3, false},
		{"multiple all options", ModeMultiple, 3, 3, false},
		{"multiple too many", ModeMultiple, 4, 3, true},
		{"multiple zero", ModeMultiple, 0, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChosenOptionCount(tt.mode, tt.chosen, tt.total)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizePageSize(t *testing.T) {
	size, err := NormalizePageSize(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, size)

	size, err = NormalizePageSize(100)
	require.NoError(t, err)
	assert.Equal(t, 100, size)

	_, err = NormalizePageSize(101)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NormalizePageSize(-1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPollIsExpired(t *testing.T) {
	now := time.Now().UTC()

	expired := &Poll{Expiration: now.Add(-time.Second)}
	assert.True(t, expired.IsExpired(now))

	active := &Poll{Expiration: now.Add(time.Second)}
	assert.False(t, active.IsExpired(now))

	// Exactly at the expiration instant the poll is still active.
	boundary := &Poll{Expiration: now}
	assert.False(t, boundary.IsExpired(now))
}

func TestOptionByCode(t *testing.T) {
	poll := &Poll{Options: []Option{
		{ID: 1, Code: "aaaaa"},
		{ID: 2, Code: "bbbbb"},
	}}

	opt := poll.OptionByCode("bbbbb")
	require.NotNil(t, opt)
	assert.Equal(t, int64(2), opt.ID)

	assert.Nil(t, poll.OptionByCode("zzzzz"))
}

func TestValidateVoterFields(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice01"))
	assert.ErrorIs(t, ValidateUsername("abc"), ErrValidation)
	assert.ErrorIs(t, ValidateUsername(strings.Repeat("a", 21)), ErrValidation)

	assert.NoError(t, ValidateEmail("a@b.co"))
	assert.ErrorIs(t, ValidateEmail("not-an-email"), ErrValidation)
	assert.ErrorIs(t, ValidateEmail("@b.co"), ErrValidation)
	assert.ErrorIs(t, ValidateEmail("a@nodot"), ErrValidation)

	assert.NoError(t, ValidatePassword("longenough"))
	assert.ErrorIs(t, ValidatePassword("short"), ErrValidation)
}

package repository

import (
	"context"

	"ballotbox/internal/domain"
)

// VoterRepository defines voter account persistence.
type VoterRepository interface {
	// Create inserts a voter; a duplicate email or username yields
	// domain.ErrConflict.
	Create(ctx context.Context, voter *domain.Voter) error

	// GetByCode retrieves a voter by code, (nil, nil) when absent.
	GetByCode(ctx context.Context, code string) (*domain.Voter, error)

	// GetByUsername retrieves a voter by username, (nil, nil) when absent.
	GetByUsername(ctx context.Context, username string) (*domain.Voter, error)

	// GetByEmail retrieves a voter by email, (nil, nil) when absent.
	GetByEmail(ctx context.Context, email string) (*domain.Voter, error)

	// CodeExists reports whether a voter code is taken.
	CodeExists(ctx context.Context, code string) (bool, error)
}

// PollRepository owns polls and their options.
type PollRepository interface {
	// Create persists the poll, its options and the creator participation as
	// one atomic unit. IDs are filled in on success.
	Create(ctx context.Context, poll *domain.Poll, creatorParticipation *domain.Participation) error

	// GetByCode retrieves a poll with its options, (nil, nil) when absent.
	GetByCode(ctx context.Context, code string) (*domain.Poll, error)

	// ListPublic pages public polls, newest first.
	ListPublic(ctx context.Context, page, size int) (*domain.Page, error)

	// ListPrivateFor pages private polls the voter participates in, newest first.
	ListPrivateFor(ctx context.Context, voterID int64, page, size int) (*domain.Page, error)

	// ListCreatedBy pages polls created by the voter, newest first.
	ListCreatedBy(ctx context.Context, voterID int64, page, size int) (*domain.Page, error)

	// CodeExists reports whether a poll code is taken.
	CodeExists(ctx context.Context, code string) (bool, error)

	// OptionCodeExists reports whether an option code is taken.
	OptionCodeExists(ctx context.Context, code string) (bool, error)
}

// ParticipationRepository enforces at-most-one participation per (voter, poll).
type ParticipationRepository interface {
	// Create inserts a participation; a duplicate (voter, poll) pair yields
	// domain.ErrConflict.
	Create(ctx context.Context, p *domain.Participation) error

	// Ensure inserts the participation if none exists for the pair and is a
	// no-op otherwise. Safe under concurrent calls for the same pair.
	Ensure(ctx context.Context, p *domain.Participation) error

	// Find retrieves the participation for the pair, (nil, nil) when absent.
	Find(ctx context.Context, voterID, pollID int64) (*domain.Participation, error)

	// CodeExists reports whether a participation code is taken.
	CodeExists(ctx context.Context, code string) (bool, error)
}

// VoteRepository enforces at-most-one vote per (voter, poll) and owns the
// option tallies.
type VoteRepository interface {
	// Cast persists the vote, optionally the implicit public-poll
	// participation, and increments the tally of every chosen option, as one
	// atomic unit. A duplicate (voter, poll) pair yields domain.ErrConflict
	// and leaves no partial state.
	Cast(ctx context.Context, vote *domain.Vote, optionIDs []int64, autoParticipation *domain.Participation) error

	// Find retrieves the vote for the pair, (nil, nil) when absent.
	Find(ctx context.Context, voterID, pollID int64) (*domain.Vote, error)

	// CodeExists reports whether a vote code is taken.
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Repositories aggregates the persistence interfaces handed to services.
type Repositories struct {
	Voters         VoterRepository
	Polls          PollRepository
	Participations ParticipationRepository
	Votes          VoteRepository
}

package repository

import (
	"context"
	"fmt"

	"ballotbox/internal/domain"
	"ballotbox/pkg/database"
	"github.com/jackc/pgx/v5"
)

type PgVoteRepository struct {
	db *database.PostgresDB
}

func NewPgVoteRepository(db *database.PostgresDB) *PgVoteRepository {
	return &PgVoteRepository{db: db}
}

// Cast runs the accept-vote unit in one transaction: the optional implicit
// participation, the vote insert guarded by the (voter_id, poll_id) primary
// key, and an atomic votes = votes + 1 per chosen option. A duplicate vote
// rolls everything back and surfaces as Conflict.
func (r *PgVoteRepository) Cast(ctx context.Context, vote *domain.Vote, optionIDs []int64, autoParticipation *domain.Participation) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if autoParticipation != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO participations (voter_id, poll_id, code, time_created, time_updated)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (voter_id, poll_id) DO NOTHING
		`,
			autoParticipation.VoterID,
			autoParticipation.PollID,
			autoParticipation.Code,
			autoParticipation.TimeCreated,
			autoParticipation.TimeUpdated,
		)
		if err != nil {
			return fmt.Errorf("failed to ensure participation: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO votes (voter_id, poll_id, code, time_created, time_updated)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.VoterID, vote.PollID, vote.Code, vote.TimeCreated, vote.TimeUpdated)

	if isUniqueViolation(err, "votes_pkey") {
		return fmt.Errorf("%w: vote already exists", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create vote: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE options
		SET votes = votes + 1, time_updated = $2
		WHERE id = ANY($1)
	`, optionIDs, vote.TimeCreated)
	if err != nil {
		return fmt.Errorf("failed to increment tallies: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}
	return nil
}

func (r *PgVoteRepository) Find(ctx context.Context, voterID, pollID int64) (*domain.Vote, error) {
	var vote domain.Vote
	err := r.db.Pool.QueryRow(ctx, `
		SELECT vt.voter_id, vt.poll_id, vt.code, v.code, po.code, vt.time_created, vt.time_updated
		FROM votes vt
		JOIN voters v ON v.id = vt.voter_id
		JOIN polls po ON po.id = vt.poll_id
		WHERE vt.voter_id = $1 AND vt.poll_id = $2
	`, voterID, pollID).Scan(
		&vote.VoterID,
		&vote.PollID,
		&vote.Code,
		&vote.VoterCode,
		&vote.PollCode,
		&vote.TimeCreated,
		&vote.TimeUpdated,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}
	return &vote, nil
}

func (r *PgVoteRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, r.db.Pool, "votes", code)
}

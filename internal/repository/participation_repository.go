package repository

import (
	"context"
	"fmt"

	"ballotbox/internal/domain"
	"ballotbox/pkg/database"
	"github.com/jackc/pgx/v5"
)

type PgParticipationRepository struct {
	db *database.PostgresDB
}

func NewPgParticipationRepository(db *database.PostgresDB) *PgParticipationRepository {
	return &PgParticipationRepository{db: db}
}

// Create inserts against the (voter_id, poll_id) primary key; the duplicate
// outcome is the Conflict error, never an overwrite.
func (r *PgParticipationRepository) Create(ctx context.Context, p *domain.Participation) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO participations (voter_id, poll_id, code, time_created, time_updated)
		VALUES ($1, $2, $3, $4, $5)
	`, p.VoterID, p.PollID, p.Code, p.TimeCreated, p.TimeUpdated)

	if isUniqueViolation(err, "participations_pkey") {
		return fmt.Errorf("%w: participation already exists", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create participation: %w", err)
	}
	return nil
}

// Ensure is the idempotent variant used for public-poll auto-join. The
// conflict target makes concurrent calls for the same pair persist exactly
// one row.
func (r *PgParticipationRepository) Ensure(ctx context.Context, p *domain.Participation) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO participations (voter_id, poll_id, code, time_created, time_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (voter_id, poll_id) DO NOTHING
	`, p.VoterID, p.PollID, p.Code, p.TimeCreated, p.TimeUpdated)
	if err != nil {
		return fmt.Errorf("failed to ensure participation: %w", err)
	}
	return nil
}

func (r *PgParticipationRepository) Find(ctx context.Context, voterID, pollID int64) (*domain.Participation, error) {
	var p domain.Participation
	err := r.db.Pool.QueryRow(ctx, `
		SELECT pa.voter_id, pa.poll_id, pa.code, v.code, po.code, pa.time_created, pa.time_updated
		FROM participations pa
		JOIN voters v ON v.id = pa.voter_id
		JOIN polls po ON po.id = pa.poll_id
		WHERE pa.voter_id = $1 AND pa.poll_id = $2
	`, voterID, pollID).Scan(
		&p.VoterID,
		&p.PollID,
		&p.Code,
		&p.VoterCode,
		&p.PollCode,
		&p.TimeCreated,
		&p.TimeUpdated,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find participation: %w", err)
	}
	return &p, nil
}

func (r *PgParticipationRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, r.db.Pool, "participations", code)
}

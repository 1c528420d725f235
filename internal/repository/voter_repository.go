package repository

import (
	"context"
	"fmt"

	"ballotbox/internal/domain"
	"ballotbox/pkg/database"
	"github.com/jackc/pgx/v5"
)

type PgVoterRepository struct {
	db *database.PostgresDB
}

func NewPgVoterRepository(db *database.PostgresDB) *PgVoterRepository {
	return &PgVoterRepository{db: db}
}

func (r *PgVoterRepository) Create(ctx context.Context, voter *domain.Voter) error {
	query := `
		INSERT INTO voters (code, email, username, password_hash, role, status, time_created, time_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		voter.Code,
		voter.Email,
		voter.Username,
		voter.PasswordHash,
		voter.Role,
		voter.Status,
		voter.TimeCreated,
		voter.TimeUpdated,
	).Scan(&voter.ID)

	if isUniqueViolation(err, "email") {
		return fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}
	if isUniqueViolation(err, "username") {
		return fmt.Errorf("%w: username already taken", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create voter: %w", err)
	}
	return nil
}

func (r *PgVoterRepository) GetByCode(ctx context.Context, code string) (*domain.Voter, error) {
	return r.getBy(ctx, "code", code)
}

func (r *PgVoterRepository) GetByUsername(ctx context.Context, username string) (*domain.Voter, error) {
	return r.getBy(ctx, "username", username)
}

func (r *PgVoterRepository) GetByEmail(ctx context.Context, email string) (*domain.Voter, error) {
	return r.getBy(ctx, "email", email)
}

func (r *PgVoterRepository) getBy(ctx context.Context, column, value string) (*domain.Voter, error) {
	var voter domain.Voter
	query := `
		SELECT id, code, email, username, password_hash, role, status, time_created, time_updated
		FROM voters
		WHERE ` + column + ` = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, value).Scan(
		&voter.ID,
		&voter.Code,
		&voter.Email,
		&voter.Username,
		&voter.PasswordHash,
		&voter.Role,
		&voter.Status,
		&voter.TimeCreated,
		&voter.TimeUpdated,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get voter by %s: %w", column, err)
	}
	return &voter, nil
}

func (r *PgVoterRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, r.db.Pool, "voters", code)
}

package repository

import (
	"context"
	"fmt"

	"ballotbox/internal/domain"
	"ballotbox/pkg/database"
	"github.com/jackc/pgx/v5"
)

type PgPollRepository struct {
	db *database.PostgresDB
}

func NewPgPollRepository(db *database.PostgresDB) *PgPollRepository {
	return &PgPollRepository{db: db}
}

// Create writes the poll, its options and the creator participation in one
// transaction. Nothing is visible until commit.
func (r *PgPollRepository) Create(ctx context.Context, poll *domain.Poll, creatorParticipation *domain.Participation) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO polls (code, creator_id, visibility, mode, question, status, expiration, time_created, time_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		poll.Code,
		poll.CreatorID,
		poll.Visibility,
		poll.Mode,
		poll.Question,
		poll.Status,
		poll.Expiration,
		poll.TimeCreated,
		poll.TimeUpdated,
	).Scan(&poll.ID)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	for i := range poll.Options {
		opt := &poll.Options[i]
		opt.PollID = poll.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO options (code, poll_id, text, votes, time_created, time_updated)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, opt.Code, opt.PollID, opt.Text, opt.Votes, opt.TimeCreated, opt.TimeUpdated).Scan(&opt.ID)
		if err != nil {
			return fmt.Errorf("failed to create option: %w", err)
		}
	}

	creatorParticipation.PollID = poll.ID
	_, err = tx.Exec(ctx, `
		INSERT INTO participations (voter_id, poll_id, code, time_created, time_updated)
		VALUES ($1, $2, $3, $4, $5)
	`,
		creatorParticipation.VoterID,
		creatorParticipation.PollID,
		creatorParticipation.Code,
		creatorParticipation.TimeCreated,
		creatorParticipation.TimeUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to create creator participation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit poll creation: %w", err)
	}
	return nil
}

const pollColumns = `p.id, p.code, p.creator_id, v.code, p.visibility, p.mode, p.question, p.status, p.expiration, p.time_created, p.time_updated`

func scanPoll(row pgx.Row) (*domain.Poll, error) {
	var poll domain.Poll
	err := row.Scan(
		&poll.ID,
		&poll.Code,
		&poll.CreatorID,
		&poll.CreatorCode,
		&poll.Visibility,
		&poll.Mode,
		&poll.Question,
		&poll.Status,
		&poll.Expiration,
		&poll.TimeCreated,
		&poll.TimeUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *PgPollRepository) GetByCode(ctx context.Context, code string) (*domain.Poll, error) {
	query := `
		SELECT ` + pollColumns + `
		FROM polls p
		JOIN voters v ON v.id = p.creator_id
		WHERE p.code = $1
	`

	poll, err := scanPoll(r.db.Pool.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := r.attachOptions(ctx, []*domain.Poll{poll}); err != nil {
		return nil, err
	}
	return poll, nil
}

func (r *PgPollRepository) ListPublic(ctx context.Context, page, size int) (*domain.Page, error) {
	return r.list(ctx, `
		SELECT `+pollColumns+`
		FROM polls p
		JOIN voters v ON v.id = p.creator_id
		WHERE p.visibility = 'Public'
		ORDER BY p.time_created DESC
		LIMIT $1 OFFSET $2
	`, `
		SELECT COUNT(*) FROM polls WHERE visibility = 'Public'
	`, nil, page, size)
}

func (r *PgPollRepository) ListPrivateFor(ctx context.Context, voterID int64, page, size int) (*domain.Page, error) {
	return r.list(ctx, `
		SELECT `+pollColumns+`
		FROM polls p
		JOIN voters v ON v.id = p.creator_id
		JOIN participations pa ON pa.poll_id = p.id AND pa.voter_id = $3
		WHERE p.visibility = 'Private'
		ORDER BY p.time_created DESC
		LIMIT $1 OFFSET $2
	`, `
		SELECT COUNT(*)
		FROM polls p
		JOIN participations pa ON pa.poll_id = p.id AND pa.voter_id = $1
		WHERE p.visibility = 'Private'
	`, []any{voterID}, page, size)
}

func (r *PgPollRepository) ListCreatedBy(ctx context.Context, voterID int64, page, size int) (*domain.Page, error) {
	return r.list(ctx, `
		SELECT `+pollColumns+`
		FROM polls p
		JOIN voters v ON v.id = p.creator_id
		WHERE p.creator_id = $3
		ORDER BY p.time_created DESC
		LIMIT $1 OFFSET $2
	`, `
		SELECT COUNT(*) FROM polls WHERE creator_id = $1
	`, []any{voterID}, page, size)
}

func (r *PgPollRepository) list(ctx context.Context, query, countQuery string, extra []any, page, size int) (*domain.Page, error) {
	args := append([]any{size, page * size}, extra...)
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []*domain.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read poll rows: %w", err)
	}

	if err := r.attachOptions(ctx, polls); err != nil {
		return nil, err
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, countQuery, extra...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count polls: %w", err)
	}

	result := &domain.Page{
		Polls:      make([]domain.Poll, 0, len(polls)),
		PageIndex:  page,
		PageSize:   size,
		TotalCount: total,
	}
	for _, p := range polls {
		result.Polls = append(result.Polls, *p)
	}
	return result, nil
}

func (r *PgPollRepository) attachOptions(ctx context.Context, polls []*domain.Poll) error {
	if len(polls) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(polls))
	byID := make(map[int64]*domain.Poll, len(polls))
	for _, p := range polls {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, code, poll_id, text, votes, time_created, time_updated
		FROM options
		WHERE poll_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt domain.Option
		err := rows.Scan(&opt.ID, &opt.Code, &opt.PollID, &opt.Text, &opt.Votes, &opt.TimeCreated, &opt.TimeUpdated)
		if err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		if poll, ok := byID[opt.PollID]; ok {
			poll.Options = append(poll.Options, opt)
		}
	}
	return rows.Err()
}

func (r *PgPollRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, r.db.Pool, "polls", code)
}

func (r *PgPollRepository) OptionCodeExists(ctx context.Context, code string) (bool, error) {
	return codeExists(ctx, r.db.Pool, "options", code)
}

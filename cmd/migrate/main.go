package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS votes CASCADE`,
		`DROP TABLE IF EXISTS participations CASCADE`,
		`DROP TABLE IF EXISTS options CASCADE`,
		`DROP TABLE IF EXISTS polls CASCADE`,
		`DROP TABLE IF EXISTS voters CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS voters (
			id BIGSERIAL PRIMARY KEY,
			code VARCHAR(5) NOT NULL,
			email VARCHAR(255) NOT NULL,
			username VARCHAR(20) NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'Voter',
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			time_created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			time_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT voters_code_key UNIQUE (code),
			CONSTRAINT voters_email_key UNIQUE (email),
			CONSTRAINT voters_username_key UNIQUE (username)
		)`,

		`CREATE TABLE IF NOT EXISTS polls (
			id BIGSERIAL PRIMARY KEY,
			code VARCHAR(5) NOT NULL,
			creator_id BIGINT NOT NULL REFERENCES voters(id),
			visibility VARCHAR(10) NOT NULL,
			mode VARCHAR(10) NOT NULL,
			question VARCHAR(250) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			expiration TIMESTAMPTZ NOT NULL,
			time_created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			time_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT polls_code_key UNIQUE (code)
		)`,

		`CREATE TABLE IF NOT EXISTS options (
			id BIGSERIAL PRIMARY KEY,
			code VARCHAR(5) NOT NULL,
			poll_id BIGINT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
			text VARCHAR(100) NOT NULL,
			votes INTEGER NOT NULL DEFAULT 0,
			time_created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			time_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT options_code_key UNIQUE (code)
		)`,

		// The composite primary key is the at-most-one-participation guarantee.
		`CREATE TABLE IF NOT EXISTS participations (
			voter_id BIGINT NOT NULL REFERENCES voters(id),
			poll_id BIGINT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
			code VARCHAR(5) NOT NULL,
			time_created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			time_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT participations_pkey PRIMARY KEY (voter_id, poll_id),
			CONSTRAINT participations_code_key UNIQUE (code)
		)`,

		// Same shape for votes: one vote per (voter, poll).
		`CREATE TABLE IF NOT EXISTS votes (
			voter_id BIGINT NOT NULL REFERENCES voters(id),
			poll_id BIGINT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
			code VARCHAR(5) NOT NULL,
			time_created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			time_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT votes_pkey PRIMARY KEY (voter_id, poll_id),
			CONSTRAINT votes_code_key UNIQUE (code)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_polls_visibility_created ON polls(visibility, time_created DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_polls_creator ON polls(creator_id)`,
		`CREATE INDEX IF NOT EXISTS idx_options_poll ON options(poll_id)`,
		`CREATE INDEX IF NOT EXISTS idx_participations_poll ON participations(poll_id)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
		fmt.Printf("  Created: %s\n", shortQuery(query))
	}

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	var creatorID int64
	err = conn.QueryRow(ctx, `
		INSERT INTO voters (code, email, username, password_hash)
		VALUES ('SEED1', 'alice@example.com', 'alice01', $1)
		ON CONFLICT (username) DO UPDATE SET time_updated = NOW()
		RETURNING id
	`, string(hash)).Scan(&creatorID)
	if err != nil {
		return fmt.Errorf("failed to seed voter: %w", err)
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO voters (code, email, username, password_hash)
		VALUES ('SEED2', 'bob@example.com', 'bob0001', $1)
		ON CONFLICT (username) DO NOTHING
	`, string(hash))
	if err != nil {
		return fmt.Errorf("failed to seed voter: %w", err)
	}

	var pollID int64
	err = conn.QueryRow(ctx, `
		INSERT INTO polls (code, creator_id, visibility, mode, question, expiration)
		VALUES ('SEEDP', $1, 'Public', 'Single', 'Which option should we ship first?', $2)
		ON CONFLICT (code) DO UPDATE SET time_updated = NOW()
		RETURNING id
	`, creatorID, time.Now().UTC().AddDate(0, 0, 7)).Scan(&pollID)
	if err != nil {
		return fmt.Errorf("failed to seed poll: %w", err)
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO options (code, poll_id, text) VALUES
		('SEDO1', $1, 'Dark mode'),
		('SEDO2', $1, 'Offline support')
		ON CONFLICT (code) DO NOTHING
	`, pollID)
	if err != nil {
		return fmt.Errorf("failed to seed options: %w", err)
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO participations (voter_id, poll_id, code)
		VALUES ($1, $2, 'SEDPA')
		ON CONFLICT (voter_id, poll_id) DO NOTHING
	`, creatorID, pollID)
	if err != nil {
		return fmt.Errorf("failed to seed creator participation: %w", err)
	}

	fmt.Println("  Seeded 2 voters and 1 public poll")
	return nil
}

func shortQuery(query string) string {
	if len(query) > 50 {
		return query[:50] + "..."
	}
	return query
}

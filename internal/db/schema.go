package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrMissingSchema marks a fatal setup condition: the database is
// reachable but the tables were never created. Retrying does not help,
// external intervention (running Migrate) does.
var ErrMissingSchema = errors.New("database schema missing")

const undefinedTableCode = "42P01"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id uuid PRIMARY KEY,
		email text UNIQUE NOT NULL,
		username text NOT NULL,
		password_hash text NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now(),
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id uuid PRIMARY KEY,
		user_id uuid NOT NULL,
		token text NOT NULL,
		expires_at timestamptz NOT NULL,
		revoked_at timestamptz
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id uuid PRIMARY KEY,
		name text NOT NULL,
		handle text UNIQUE NOT NULL,
		avatar_url text NOT NULL DEFAULT '',
		region text NOT NULL DEFAULT 'GLOBAL',
		location text NOT NULL DEFAULT 'Unknown',
		friends jsonb NOT NULL DEFAULT '[]'::jsonb,
		incoming_requests jsonb NOT NULL DEFAULT '[]'::jsonb,
		outgoing_requests jsonb NOT NULL DEFAULT '[]'::jsonb,
		settings jsonb NOT NULL DEFAULT '{"theme":"dark","language":"en","privateAccount":true}'::jsonb
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id uuid NOT NULL REFERENCES profiles(id),
		image_src text NOT NULL,
		mood jsonb NOT NULL,
		region text NOT NULL DEFAULT 'GLOBAL',
		location text NOT NULL DEFAULT 'Unknown',
		is_public boolean NOT NULL DEFAULT false,
		likes jsonb NOT NULL DEFAULT '[]'::jsonb,
		comments jsonb NOT NULL DEFAULT '[]'::jsonb,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		sender_id uuid NOT NULL REFERENCES profiles(id),
		receiver_id uuid NOT NULL REFERENCES profiles(id),
		content text NOT NULL,
		shared_post_id uuid REFERENCES posts(id),
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
}

// Migrate creates all tables idempotently.
func Migrate(ctx context.Context, q Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// CheckSchema probes the profiles table and distinguishes a missing
// schema from transient connectivity failures.
func CheckSchema(ctx context.Context, q Querier) error {
	var count int
	err := q.QueryRow(ctx, `SELECT count(*) FROM profiles`).Scan(&count)
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode {
		return ErrMissingSchema
	}
	return err
}

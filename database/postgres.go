package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

const uniqueViolation = "23505"

// ErrDuplicateKey is returned when a unique constraint (user email) rejects a write.
var ErrDuplicateKey = errors.New("duplicate key")

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id             TEXT PRIMARY KEY,
	first_name     TEXT NOT NULL,
	last_name      TEXT NOT NULL,
	email          TEXT NOT NULL UNIQUE,
	password       TEXT NOT NULL,
	picture_path   TEXT NOT NULL DEFAULT '',
	friends        TEXT[] NOT NULL DEFAULT '{}',
	location       TEXT NOT NULL DEFAULT '',
	occupation     TEXT NOT NULL DEFAULT '',
	viewed_profile INTEGER NOT NULL DEFAULT 0,
	impressions    INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS posts (
	seq               BIGSERIAL,
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	first_name        TEXT NOT NULL,
	last_name         TEXT NOT NULL,
	location          TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL DEFAULT '',
	picture_path      TEXT NOT NULL DEFAULT '',
	user_picture_path TEXT NOT NULL DEFAULT '',
	likes             JSONB NOT NULL DEFAULT '{}',
	comments          JSONB NOT NULL DEFAULT '[]',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS posts_user_id_idx ON posts (user_id);
`

// ConnectDB opens and pings a Postgres connection pool.
func ConnectDB(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// PostgresStore keeps users and posts as rows; friend lists are TEXT[] and
// likes/comments are JSONB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the tables if they are missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	log.Debug("postgres schema ready")
	return nil
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pqErr.Message)
	}
	return err
}

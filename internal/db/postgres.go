package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/javiermolinar/agenda/internal/schedule"
)

// PgxDB abstracts the pgx calls used by Postgres so tests can use pgxmock.
type PgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS schedules (
		key        TEXT PRIMARY KEY,
		state      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`

// Postgres implements schedule.Repository with a JSONB column per key.
type Postgres struct {
	db PgxDB
}

// NewPostgres wraps db and creates the schedules table if needed.
func NewPostgres(ctx context.Context, db PgxDB) (*Postgres, error) {
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return &Postgres{db: db}, nil
}

// DialPostgres opens a connection pool for url.
func DialPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	p, err := NewPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// Load retrieves the state stored under key. Returns nil if there is none.
func (p *Postgres) Load(ctx context.Context, key string) (*schedule.State, error) {
	var data []byte
	err := p.db.QueryRow(ctx, `SELECT state FROM schedules WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: load %s: %w", key, err)
	}
	return schedule.DecodeState(data)
}

// Save upserts the state under key.
func (p *Postgres) Save(ctx context.Context, key string, state *schedule.State) error {
	data, err := schedule.EncodeState(state)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(ctx, `
		INSERT INTO schedules (key, state, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`,
		key, data, state.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("postgres: save %s: %w", key, err)
	}
	return nil
}

// Close closes the pool.
func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}

// Package db provides storage implementations of schedule.Repository.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/agenda/internal/schedule"
)

// SQLite implements schedule.Repository using SQLite.
// Settings live in the schedules table and blocks in their own table.
type SQLite struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite repository and runs migrations.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Load retrieves the state stored under key. Returns nil if there is none.
func (s *SQLite) Load(ctx context.Context, key string) (*schedule.State, error) {
	state := schedule.NewState(schedule.DefaultSettings())

	var updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT duration_online, duration_in_person, buffer_minutes, updated_at
		FROM schedules WHERE key = ?
	`, key).Scan(
		&state.Settings.DurationOnline,
		&state.Settings.DurationInPerson,
		&state.Settings.BufferMinutes,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}

	if updatedAt != "" {
		state.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: updated_at %q", schedule.ErrMalformedState, updatedAt)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, weekday, modality, start_min, end_min
		FROM blocks WHERE schedule_key = ?
		ORDER BY weekday, start_min
	`, key)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var b schedule.Block
		var modality string
		if err := rows.Scan(&b.ID, &b.Weekday, &modality, &b.StartMin, &b.EndMin); err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		b.Modality = schedule.Modality(modality)
		state.Blocks = append(state.Blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}

	return state, nil
}

// Save replaces the state stored under key in a single transaction.
func (s *SQLite) Save(ctx context.Context, key string, state *schedule.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schedules (key, duration_online, duration_in_person, buffer_minutes, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			duration_online = excluded.duration_online,
			duration_in_person = excluded.duration_in_person,
			buffer_minutes = excluded.buffer_minutes,
			updated_at = excluded.updated_at
	`,
		key,
		state.Settings.DurationOnline,
		state.Settings.DurationInPerson,
		state.Settings.BufferMinutes,
		state.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting schedule: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE schedule_key = ?`, key); err != nil {
		return fmt.Errorf("clearing blocks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO blocks (id, schedule_key, weekday, modality, start_min, end_min)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing block insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range state.Blocks {
		if _, err := stmt.ExecContext(ctx, b.ID, key, int(b.Weekday), string(b.Modality), b.StartMin, b.EndMin); err != nil {
			return fmt.Errorf("inserting block %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schedule: %w", err)
	}
	return nil
}

// Keys returns every stored schedule key, sorted.
func (s *SQLite) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM schedules ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

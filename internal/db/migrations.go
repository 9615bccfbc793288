package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS schedules (
			key                TEXT PRIMARY KEY,
			duration_online    INTEGER NOT NULL,
			duration_in_person INTEGER NOT NULL,
			buffer_minutes     INTEGER NOT NULL DEFAULT 0,
			updated_at         TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS blocks (
			id           TEXT NOT NULL,
			schedule_key TEXT NOT NULL REFERENCES schedules(key) ON DELETE CASCADE,
			weekday      INTEGER NOT NULL CHECK(weekday BETWEEN 0 AND 6),
			modality     TEXT NOT NULL CHECK(modality IN ('online', 'in_person')),
			start_min    INTEGER NOT NULL CHECK(start_min BETWEEN 0 AND 1440),
			end_min      INTEGER NOT NULL CHECK(end_min BETWEEN 0 AND 1440),
			PRIMARY KEY (schedule_key, id)
		);

		CREATE INDEX IF NOT EXISTS idx_blocks_day ON blocks(schedule_key, weekday);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schedule tables: %w", err)
	}

	return nil
}

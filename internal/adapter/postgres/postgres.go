// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"cutcoach/internal/domain"
)

var (
	_ domain.WeightLogRepository = (*DB)(nil)
	_ domain.IntakeRepository    = (*DB)(nil)
	_ domain.ProfileRepository   = (*DB)(nil)
	_ domain.UserRepository      = (*DB)(nil)
	_ domain.SessionRepository   = (*SessionRepo)(nil)
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

var migrations = []string{
	"CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY, username TEXT UNIQUE NOT NULL, password_hash TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
	"CREATE TABLE IF NOT EXISTS sessions (token TEXT PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE, expires_at TIMESTAMPTZ NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
	"ALTER TABLE sessions ADD COLUMN IF NOT EXISTS user_agent TEXT NOT NULL DEFAULT '';",
	"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);",
	`CREATE TABLE IF NOT EXISTS weight_logs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		ts TIMESTAMPTZ NOT NULL,
		weight_lbs DOUBLE PRECISION NOT NULL CHECK (weight_lbs > 0),
		type TEXT NOT NULL,
		duration_minutes INTEGER,
		sleep_hours DOUBLE PRECISION
	);`,
	"CREATE INDEX IF NOT EXISTS idx_weight_logs_user_ts ON weight_logs(user_id, ts);",
	`CREATE TABLE IF NOT EXISTS intake_events (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		kind TEXT NOT NULL CHECK (kind IN ('water','carbs','protein')),
		amount DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	"CREATE INDEX IF NOT EXISTS idx_intake_events_user_created ON intake_events(user_id, created_at);",
	`CREATE TABLE IF NOT EXISTS athlete_profiles (
		user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		current_weight_lbs DOUBLE PRECISION NOT NULL DEFAULT 0,
		target_weight_class_lbs DOUBLE PRECISION NOT NULL DEFAULT 0,
		protocol SMALLINT NOT NULL DEFAULT 0,
		weigh_in_date TEXT NOT NULL DEFAULT '',
		weigh_in_time TEXT NOT NULL DEFAULT '',
		time_zone TEXT NOT NULL DEFAULT '',
		practice_days SMALLINT[] NOT NULL DEFAULT '{}',
		practice_minutes INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
}

func (d *DB) migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// dayBounds returns the UTC half-open range covering localDay in loc.
func dayBounds(localDay string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation("2006-01-02", localDay, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start.UTC(), start.AddDate(0, 0, 1).UTC(), nil
}

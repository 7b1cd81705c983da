package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cutcoach/internal/domain"
)

const weightLogColumns = "id, user_id, ts, weight_lbs, type, duration_minutes, sleep_hours"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWeightLog(r rowScanner) (domain.WeightLogEntry, error) {
	var (
		e     domain.WeightLogEntry
		typ   string
		dur   sql.NullInt64
		sleep sql.NullFloat64
	)
	if err := r.Scan(&e.ID, &e.UserID, &e.Timestamp, &e.WeightLbs, &typ, &dur, &sleep); err != nil {
		return e, err
	}
	e.Timestamp = e.Timestamp.UTC()
	e.Type = domain.LogType(typ)
	if dur.Valid {
		m := int(dur.Int64)
		e.DurationMinutes = &m
	}
	if sleep.Valid {
		h := sleep.Float64
		e.SleepHours = &h
	}
	return e, nil
}

// AddWeightLog inserts a new weight log.
func (d *DB) AddWeightLog(ctx context.Context, e domain.WeightLogEntry) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO weight_logs(user_id, ts, weight_lbs, type, duration_minutes, sleep_hours) VALUES($1, $2, $3, $4, $5, $6) RETURNING id;",
		e.UserID, e.Timestamp.UTC(), e.WeightLbs, string(e.Type), e.DurationMinutes, e.SleepHours,
	).Scan(&id)
	return id, err
}

// UpdateWeightLog applies an edit and returns the stored row, or nil when the
// log does not belong to the user.
func (d *DB) UpdateWeightLog(ctx context.Context, userID, id int64, p domain.WeightLogPatch) (*domain.WeightLogEntry, error) {
	var ts any
	if p.Timestamp != nil {
		ts = p.Timestamp.UTC()
	}
	row := d.sql.QueryRowContext(ctx,
		"UPDATE weight_logs SET weight_lbs = COALESCE($3, weight_lbs), ts = COALESCE($4, ts) WHERE id=$1 AND user_id=$2 RETURNING "+weightLogColumns+";",
		id, userID, p.WeightLbs, ts,
	)
	e, err := scanWeightLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// DeleteWeightLog removes one log, scoped to a user.
func (d *DB) DeleteWeightLog(ctx context.Context, userID, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM weight_logs WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteLatestWeightLog removes the user's most recent weight log.
func (d *DB) DeleteLatestWeightLog(ctx context.Context, userID int64) (bool, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"SELECT id FROM weight_logs WHERE user_id=$1 ORDER BY ts DESC, id DESC LIMIT 1;", userID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return d.DeleteWeightLog(ctx, userID, id)
}

// LatestWeightForLocalDay returns the most recent log for a local calendar day.
func (d *DB) LatestWeightForLocalDay(ctx context.Context, userID int64, localDay string, loc *time.Location) (*domain.WeightLogEntry, error) {
	start, end, err := dayBounds(localDay, loc)
	if err != nil {
		return nil, err
	}

	row := d.sql.QueryRowContext(ctx,
		"SELECT "+weightLogColumns+" FROM weight_logs WHERE user_id=$1 AND ts >= $2 AND ts < $3 ORDER BY ts DESC, id DESC LIMIT 1;",
		userID, start, end,
	)
	e, err := scanWeightLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ListRecentWeightLogs returns the most recent logs up to limit, newest first.
func (d *DB) ListRecentWeightLogs(ctx context.Context, userID int64, limit int) ([]domain.WeightLogEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+weightLogColumns+" FROM weight_logs WHERE user_id=$1 ORDER BY ts DESC, id DESC LIMIT $2;", userID, limit)
	if err != nil {
		return nil, err
	}
	return collectWeightLogs(rows, limit)
}

// ListWeightLogsSince returns logs at or after since, oldest first.
func (d *DB) ListWeightLogsSince(ctx context.Context, userID int64, since time.Time) ([]domain.WeightLogEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+weightLogColumns+" FROM weight_logs WHERE user_id=$1 AND ts >= $2 ORDER BY ts ASC, id ASC;", userID, since.UTC())
	if err != nil {
		return nil, err
	}
	return collectWeightLogs(rows, 0)
}

func collectWeightLogs(rows *sql.Rows, capacity int) ([]domain.WeightLogEntry, error) {
	defer rows.Close() //nolint:errcheck

	out := make([]domain.WeightLogEntry, 0, capacity)
	for rows.Next() {
		e, err := scanWeightLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

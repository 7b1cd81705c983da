package postgres

import (
	"context"
	"time"

	"cutcoach/internal/domain"
)

// AddIntakeEvent inserts a new intake event.
func (d *DB) AddIntakeEvent(ctx context.Context, userID int64, kind domain.IntakeKind, amount float64, createdAt time.Time) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO intake_events(user_id, kind, amount, created_at) VALUES($1, $2, $3, $4) RETURNING id;",
		userID, string(kind), amount, createdAt.UTC(),
	).Scan(&id)
	return id, err
}

// DeleteIntakeEvent removes an intake event by ID, scoped to a user.
func (d *DB) DeleteIntakeEvent(ctx context.Context, userID int64, id int64) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM intake_events WHERE id=$1 AND user_id=$2;", id, userID)
	return err
}

// ListRecentIntakeEvents returns the most recent intake events up to limit for a user.
func (d *DB) ListRecentIntakeEvents(ctx context.Context, userID int64, limit int) ([]domain.IntakeEvent, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, kind, amount, created_at FROM intake_events WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2;", userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.IntakeEvent, 0, limit)
	for rows.Next() {
		var (
			e    domain.IntakeEvent
			kind string
		)
		if err := rows.Scan(&e.ID, &kind, &e.Amount, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.UserID = userID
		e.Kind = domain.IntakeKind(kind)
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// IntakeForLocalDay sums a user's intake per kind for a local calendar day.
func (d *DB) IntakeForLocalDay(ctx context.Context, userID int64, localDay string, loc *time.Location) (domain.DailyTracking, error) {
	t := domain.DailyTracking{Day: localDay}
	start, end, err := dayBounds(localDay, loc)
	if err != nil {
		return t, err
	}

	rows, err := d.sql.QueryContext(ctx,
		"SELECT kind, COALESCE(SUM(amount), 0) FROM intake_events WHERE user_id=$1 AND created_at >= $2 AND created_at < $3 GROUP BY kind;",
		userID, start, end,
	)
	if err != nil {
		return t, err
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var (
			kind  string
			total float64
		)
		if err := rows.Scan(&kind, &total); err != nil {
			return t, err
		}
		t.Add(domain.IntakeKind(kind), total)
	}
	return t, rows.Err()
}

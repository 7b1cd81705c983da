package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"cutcoach/internal/domain"
)

// GetProfile returns the user's athlete profile, or nil when none is saved.
func (d *DB) GetProfile(ctx context.Context, userID int64) (*domain.AthleteProfile, error) {
	var (
		p    domain.AthleteProfile
		days pq.Int64Array
	)
	err := d.sql.QueryRowContext(ctx,
		`SELECT user_id, current_weight_lbs, target_weight_class_lbs, protocol, weigh_in_date,
			weigh_in_time, time_zone, practice_days, practice_minutes, updated_at
		FROM athlete_profiles WHERE user_id=$1;`, userID,
	).Scan(&p.UserID, &p.CurrentWeightLbs, &p.TargetWeightClassLbs, &p.Protocol, &p.WeighInDate,
		&p.WeighInTime, &p.TimeZone, &days, &p.PracticeMinutes, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.PracticeDays = weekdaysFromInts(days)
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// UpsertProfile inserts or replaces the user's athlete profile.
func (d *DB) UpsertProfile(ctx context.Context, p domain.AthleteProfile) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO athlete_profiles(user_id, current_weight_lbs, target_weight_class_lbs, protocol, weigh_in_date,
			weigh_in_time, time_zone, practice_days, practice_minutes, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			current_weight_lbs = EXCLUDED.current_weight_lbs,
			target_weight_class_lbs = EXCLUDED.target_weight_class_lbs,
			protocol = EXCLUDED.protocol,
			weigh_in_date = EXCLUDED.weigh_in_date,
			weigh_in_time = EXCLUDED.weigh_in_time,
			time_zone = EXCLUDED.time_zone,
			practice_days = EXCLUDED.practice_days,
			practice_minutes = EXCLUDED.practice_minutes,
			updated_at = EXCLUDED.updated_at;`,
		p.UserID, p.CurrentWeightLbs, p.TargetWeightClassLbs, int(p.Protocol), p.WeighInDate,
		p.WeighInTime, p.TimeZone, intsFromWeekdays(p.PracticeDays), p.PracticeMinutes, p.UpdatedAt.UTC(),
	)
	return err
}

func intsFromWeekdays(days []time.Weekday) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(days))
	for _, d := range days {
		out = append(out, int64(d))
	}
	return out
}

// weekdaysFromInts drops values outside Sunday..Saturday.
func weekdaysFromInts(days pq.Int64Array) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d >= int64(time.Sunday) && d <= int64(time.Saturday) {
			out = append(out, time.Weekday(d))
		}
	}
	return out
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutcoach/internal/domain"
)

func TestDayBounds(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	start, end, err := dayBounds("2026-03-05", ny)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 5, 5, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 6, 5, 0, 0, 0, time.UTC), end)

	// DST starts on 2026-03-08 in New York, so that day is 23 hours long.
	start, end, err = dayBounds("2026-03-08", ny)
	require.NoError(t, err)
	assert.Equal(t, 23*time.Hour, end.Sub(start))

	start, _, err = dayBounds("2026-03-05", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), start)

	_, _, err = dayBounds("03/05/2026", time.UTC)
	assert.Error(t, err)
}

func TestWeekdayArrays(t *testing.T) {
	days := []time.Weekday{time.Monday, time.Wednesday, time.Saturday}
	assert.Equal(t, pq.Int64Array{1, 3, 6}, intsFromWeekdays(days))
	assert.Equal(t, days, weekdaysFromInts(pq.Int64Array{1, 3, 6}))
	assert.Equal(t, []time.Weekday{time.Sunday}, weekdaysFromInts(pq.Int64Array{0, 7, -1}))
	assert.Empty(t, intsFromWeekdays(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

// openTestDB connects to CUTCOACH_TEST_DATABASE_URL or skips.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("CUTCOACH_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CUTCOACH_TEST_DATABASE_URL not set")
	}
	db, err := Open(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRepositories_Integration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, err := db.Create(ctx, fmt.Sprintf("it-%d", time.Now().UnixNano()), "")
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = db.sql.ExecContext(ctx, "DELETE FROM users WHERE id=$1", u.ID) })

	_, err = db.Create(ctx, u.Username, "")
	assert.True(t, isUniqueViolation(err))

	ts := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	mins := 60
	id, err := db.AddWeightLog(ctx, domain.WeightLogEntry{
		UserID: u.ID, Timestamp: ts, WeightLbs: 160, Type: domain.LogPostPractice, DurationMinutes: &mins,
	})
	require.NoError(t, err)

	latest, err := db.LatestWeightForLocalDay(ctx, u.ID, "2026-03-05", time.UTC)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, id, latest.ID)
	require.NotNil(t, latest.DurationMinutes)
	assert.Equal(t, 60, *latest.DurationMinutes)
	assert.Nil(t, latest.SleepHours)

	w := 159.5
	updated, err := db.UpdateWeightLog(ctx, u.ID, id, domain.WeightLogPatch{WeightLbs: &w})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 159.5, updated.WeightLbs)
	assert.True(t, ts.Equal(updated.Timestamp))

	_, err = db.AddIntakeEvent(ctx, u.ID, domain.IntakeWater, 16, ts)
	require.NoError(t, err)
	_, err = db.AddIntakeEvent(ctx, u.ID, domain.IntakeCarbs, 50, ts)
	require.NoError(t, err)
	day, err := db.IntakeForLocalDay(ctx, u.ID, "2026-03-05", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, domain.DailyTracking{Day: "2026-03-05", WaterOz: 16, CarbsG: 50}, day)

	p := domain.AthleteProfile{
		UserID: u.ID, CurrentWeightLbs: 160, TargetWeightClassLbs: 157,
		Protocol: domain.ProtocolMakeWeight, WeighInDate: "2026-03-07", WeighInTime: "07:00",
		TimeZone: "UTC", PracticeDays: []time.Weekday{time.Monday}, PracticeMinutes: 90,
		UpdatedAt: ts,
	}
	require.NoError(t, db.UpsertProfile(ctx, p))
	got, err := db.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.PracticeDays, got.PracticeDays)
	assert.Equal(t, p.Protocol, got.Protocol)

	sessions := NewSessionRepo(db)
	require.NoError(t, sessions.Create(ctx, u.ID, "tok-"+u.Username, "go-test", time.Now().Add(time.Hour)))
	s, err := sessions.GetByToken(ctx, "tok-"+u.Username)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "go-test", s.UserAgent)

	ok, err := db.DeleteLatestWeightLog(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

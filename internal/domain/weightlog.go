package domain

import (
	"context"
	"time"
)

// LogType tags what a weight observation represents in the athlete's day.
type LogType string

const (
	LogMorning      LogType = "morning"
	LogPrePractice  LogType = "pre-practice"
	LogPostPractice LogType = "post-practice"
	LogBeforeBed    LogType = "before-bed"
	LogExtraBefore  LogType = "extra-before"
	LogExtraAfter   LogType = "extra-after"
	LogCheckIn      LogType = "check-in"
)

// Valid reports whether t is one of the known log types.
func (t LogType) Valid() bool {
	switch t {
	case LogMorning, LogPrePractice, LogPostPractice, LogBeforeBed,
		LogExtraBefore, LogExtraAfter, LogCheckIn:
		return true
	}
	return false
}

// WeightLogEntry is a single timestamped weight observation. Entries are
// immutable apart from explicit edits to weight or time.
type WeightLogEntry struct {
	ID              int64     `json:"id" yaml:"id"`
	UserID          int64     `json:"userId" yaml:"-"`
	Timestamp       time.Time `json:"timestamp" yaml:"timestamp"`
	WeightLbs       float64   `json:"weightLbs" yaml:"weightLbs"`
	Type            LogType   `json:"type" yaml:"type"`
	DurationMinutes *int      `json:"durationMinutes" yaml:"durationMinutes,omitempty"`
	SleepHours      *float64  `json:"sleepHours" yaml:"sleepHours,omitempty"`
}

// WeightLogPatch carries an explicit user edit. Nil fields are left as-is.
type WeightLogPatch struct {
	WeightLbs *float64
	Timestamp *time.Time
}

// WeightLogRepository is the port for weight-log persistence.
type WeightLogRepository interface {
	AddWeightLog(ctx context.Context, e WeightLogEntry) (int64, error)
	UpdateWeightLog(ctx context.Context, userID, id int64, p WeightLogPatch) (*WeightLogEntry, error)
	DeleteWeightLog(ctx context.Context, userID, id int64) (bool, error)
	DeleteLatestWeightLog(ctx context.Context, userID int64) (bool, error)
	LatestWeightForLocalDay(ctx context.Context, userID int64, localDay string, loc *time.Location) (*WeightLogEntry, error)
	ListRecentWeightLogs(ctx context.Context, userID int64, limit int) ([]WeightLogEntry, error)
	ListWeightLogsSince(ctx context.Context, userID int64, since time.Time) ([]WeightLogEntry, error)
}

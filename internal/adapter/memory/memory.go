// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"cutcoach/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	logs     []domain.WeightLogEntry
	intake   []domain.IntakeEvent
	profiles map[int64]domain.AthleteProfile
	users    []domain.User
	sessions map[string]domain.Session

	logIDCounter    int64
	intakeIDCounter int64
	userIDCounter   int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		profiles: make(map[int64]domain.AthleteProfile),
		sessions: make(map[string]domain.Session),
	}
}

// Ensure interfaces are met.
var (
	_ domain.WeightLogRepository = (*DB)(nil)
	_ domain.IntakeRepository    = (*DB)(nil)
	_ domain.ProfileRepository   = (*DB)(nil)
	_ domain.UserRepository      = (*DB)(nil)
	_ domain.SessionRepository   = (*SessionRepo)(nil)
)

func dayBounds(localDay string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation("2006-01-02", localDay, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// newestFirst orders by timestamp descending, breaking ties on id.
func newestFirst(a, b domain.WeightLogEntry) int {
	if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func cloneLog(e domain.WeightLogEntry) domain.WeightLogEntry {
	if e.DurationMinutes != nil {
		d := *e.DurationMinutes
		e.DurationMinutes = &d
	}
	if e.SleepHours != nil {
		h := *e.SleepHours
		e.SleepHours = &h
	}
	return e
}

// --- WeightLogRepository ---

// AddWeightLog stores a weight log.
func (db *DB) AddWeightLog(ctx context.Context, e domain.WeightLogEntry) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.logIDCounter++
	e = cloneLog(e)
	e.ID = db.logIDCounter
	e.Timestamp = e.Timestamp.UTC()
	db.logs = append(db.logs, e)
	return e.ID, nil
}

// UpdateWeightLog applies a patch; it returns nil when the log is not the user's.
func (db *DB) UpdateWeightLog(ctx context.Context, userID, id int64, p domain.WeightLogPatch) (*domain.WeightLogEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.logs {
		e := &db.logs[i]
		if e.ID != id || e.UserID != userID {
			continue
		}
		if p.WeightLbs != nil {
			e.WeightLbs = *p.WeightLbs
		}
		if p.Timestamp != nil {
			e.Timestamp = p.Timestamp.UTC()
		}
		out := cloneLog(*e)
		return &out, nil
	}
	return nil, nil
}

// DeleteWeightLog removes one log.
func (db *DB) DeleteWeightLog(ctx context.Context, userID, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	before := len(db.logs)
	db.logs = slices.DeleteFunc(db.logs, func(e domain.WeightLogEntry) bool {
		return e.ID == id && e.UserID == userID
	})
	return len(db.logs) < before, nil
}

// DeleteLatestWeightLog deletes the user's most recent log.
func (db *DB) DeleteLatestWeightLog(ctx context.Context, userID int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	lastIdx := -1
	for i, e := range db.logs {
		if e.UserID != userID {
			continue
		}
		if lastIdx == -1 || newestFirst(e, db.logs[lastIdx]) < 0 {
			lastIdx = i
		}
	}
	if lastIdx == -1 {
		return false, nil
	}
	db.logs = slices.Delete(db.logs, lastIdx, lastIdx+1)
	return true, nil
}

// LatestWeightForLocalDay returns the latest log within the local day.
func (db *DB) LatestWeightForLocalDay(ctx context.Context, userID int64, localDay string, loc *time.Location) (*domain.WeightLogEntry, error) {
	start, end, err := dayBounds(localDay, loc)
	if err != nil {
		return nil, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	var latest *domain.WeightLogEntry
	for i := range db.logs {
		e := &db.logs[i]
		if e.UserID != userID || !within(e.Timestamp, start, end) {
			continue
		}
		if latest == nil || newestFirst(*e, *latest) < 0 {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := cloneLog(*latest)
	return &out, nil
}

// ListRecentWeightLogs lists the user's logs, newest first.
func (db *DB) ListRecentWeightLogs(ctx context.Context, userID int64, limit int) ([]domain.WeightLogEntry, error) {
	out := db.userLogs(userID, time.Time{})
	slices.SortFunc(out, newestFirst)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListWeightLogsSince lists the user's logs at or after since, oldest first.
func (db *DB) ListWeightLogsSince(ctx context.Context, userID int64, since time.Time) ([]domain.WeightLogEntry, error) {
	out := db.userLogs(userID, since)
	slices.SortFunc(out, func(a, b domain.WeightLogEntry) int { return newestFirst(b, a) })
	return out, nil
}

func (db *DB) userLogs(userID int64, since time.Time) []domain.WeightLogEntry {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.WeightLogEntry, 0)
	for _, e := range db.logs {
		if e.UserID == userID && !e.Timestamp.Before(since) {
			out = append(out, cloneLog(e))
		}
	}
	return out
}

// --- IntakeRepository ---

// AddIntakeEvent adds an intake event.
func (db *DB) AddIntakeEvent(ctx context.Context, userID int64, kind domain.IntakeKind, amount float64, createdAt time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.intakeIDCounter++
	db.intake = append(db.intake, domain.IntakeEvent{
		ID:        db.intakeIDCounter,
		UserID:    userID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: createdAt.UTC(),
	})
	return db.intakeIDCounter, nil
}

// DeleteIntakeEvent deletes an intake event by ID. Unknown ids are ignored.
func (db *DB) DeleteIntakeEvent(ctx context.Context, userID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.intake = slices.DeleteFunc(db.intake, func(e domain.IntakeEvent) bool {
		return e.ID == id && e.UserID == userID
	})
	return nil
}

// ListRecentIntakeEvents lists the most recent intake events.
func (db *DB) ListRecentIntakeEvents(ctx context.Context, userID int64, limit int) ([]domain.IntakeEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.IntakeEvent, 0)
	for _, e := range db.intake {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	slices.SortFunc(result, func(a, b domain.IntakeEvent) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// IntakeForLocalDay sums the day's intake by kind.
func (db *DB) IntakeForLocalDay(ctx context.Context, userID int64, localDay string, loc *time.Location) (domain.DailyTracking, error) {
	t := domain.DailyTracking{Day: localDay}
	start, end, err := dayBounds(localDay, loc)
	if err != nil {
		return t, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	for _, e := range db.intake {
		if e.UserID == userID && within(e.CreatedAt, start, end) {
			t.Add(e.Kind, e.Amount)
		}
	}
	return t, nil
}

// --- ProfileRepository ---

// GetProfile returns the user's profile or nil.
func (db *DB) GetProfile(ctx context.Context, userID int64) (*domain.AthleteProfile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[userID]
	if !ok {
		return nil, nil
	}
	p.PracticeDays = slices.Clone(p.PracticeDays)
	return &p, nil
}

// UpsertProfile replaces the user's profile.
func (db *DB) UpsertProfile(ctx context.Context, p domain.AthleteProfile) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p.PracticeDays = slices.Clone(p.PracticeDays)
	db.profiles[p.UserID] = p
	return nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return &u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		return &s, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}

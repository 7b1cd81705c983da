package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coocood/freecache"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"cutcoach/internal/domain"
	"cutcoach/internal/engine"
	"cutcoach/internal/metrics"
)

// InsightsOptions configures an InsightsService. Zero values are usable.
type InsightsOptions struct {
	// CacheMB sizes the result cache; 0 disables caching.
	CacheMB  int
	CacheTTL time.Duration
	Metrics  *metrics.Manager
	// Location is the zone for profiles that do not name one.
	Location *time.Location
}

// InsightsService loads an athlete's data and runs the projection engine.
//
// Results are cached per user, data generation and minute of "now". Every
// change to a user's logs, intake or profile must go through Invalidate so a
// stale projection is never served.
type InsightsService struct {
	profiles domain.ProfileRepository
	logs     domain.WeightLogRepository
	intake   domain.IntakeRepository
	engine   *engine.Engine

	cache   *freecache.Cache
	ttl     time.Duration
	metrics *metrics.Manager
	loc     *time.Location

	mu   sync.Mutex
	gens map[int64]uint64
}

// NewInsightsService wires the repositories to an engine.
func NewInsightsService(
	profiles domain.ProfileRepository,
	logs domain.WeightLogRepository,
	intake domain.IntakeRepository,
	eng *engine.Engine,
	opts InsightsOptions,
) *InsightsService {
	s := &InsightsService{
		profiles: profiles,
		logs:     logs,
		intake:   intake,
		engine:   eng,
		ttl:      opts.CacheTTL,
		metrics:  opts.Metrics,
		loc:      opts.Location,
		gens:     make(map[int64]uint64),
	}
	if s.engine == nil {
		s.engine = engine.New(engine.DefaultConfig())
	}
	if s.metrics == nil {
		s.metrics = metrics.NewManager("cutcoach", "insights", prometheus.NewRegistry())
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.ttl <= 0 {
		s.ttl = time.Minute
	}
	if opts.CacheMB > 0 {
		s.cache = freecache.NewCache(opts.CacheMB * 1024 * 1024)
	}
	return s
}

// Invalidate drops every cached result for the user.
func (s *InsightsService) Invalidate(userID int64) {
	s.mu.Lock()
	s.gens[userID]++
	s.mu.Unlock()
}

func (s *InsightsService) generation(userID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[userID]
}

// Get computes insights for the user at now, which may be a simulated date.
// A missing or incomplete profile yields an error wrapping
// engine.ErrNotConfigured.
func (s *InsightsService) Get(ctx context.Context, userID int64, now time.Time) (*engine.Insights, error) {
	key := s.cacheKey(userID, now)
	if out, ok := s.fromCache(key); ok {
		return out, nil
	}

	in, err := s.load(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := s.engine.Compute(*in)
	s.metrics.HistComputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, engine.ErrNotConfigured) {
			s.metrics.CounterNotConfigured.Inc()
		}
		return nil, err
	}

	s.metrics.CounterInsights.WithLabelValues(string(out.Phase.Phase), string(out.Safety.Level)).Inc()
	for _, n := range out.Notes {
		s.metrics.CounterOutliers.WithLabelValues(n.Kind).Inc()
		log.WithFields(log.Fields{
			"user_id": userID,
			"kind":    n.Kind,
			"at":      n.At,
		}).Debug(n.Message)
	}
	s.toCache(key, out)
	return out, nil
}

// load gathers the engine input. Logs are read from one day before the rate
// window so the latest weight is still found when the window is sparse.
func (s *InsightsService) load(ctx context.Context, userID int64, now time.Time) (*engine.Input, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		s.metrics.CounterNotConfigured.Inc()
		return nil, &engine.ProfileError{Field: "profile", Reason: "has not been set up"}
	}
	profile := *p
	if profile.TimeZone == "" {
		profile.TimeZone = s.loc.String()
	}

	since := now.AddDate(0, 0, -(s.engine.Config().WindowDays + 1))
	logs, err := s.logs.ListWeightLogsSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load weight logs: %w", err)
	}

	loc := profile.Location()
	day := now.In(loc).Format(dayLayout)
	t, err := s.intake.IntakeForLocalDay(ctx, userID, day, loc)
	if err != nil {
		return nil, fmt.Errorf("load intake: %w", err)
	}
	var tracking *domain.DailyTracking
	if t != (domain.DailyTracking{Day: day}) {
		tracking = &t
	}

	return &engine.Input{Profile: profile, Logs: logs, Tracking: tracking, Now: now}, nil
}

func (s *InsightsService) cacheKey(userID int64, now time.Time) []byte {
	return fmt.Appendf(nil, "%d:%d:%d", userID, s.generation(userID), now.Truncate(time.Minute).Unix())
}

func (s *InsightsService) fromCache(key []byte) (*engine.Insights, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(key)
	if err != nil {
		s.metrics.CounterCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	var out engine.Insights
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warnf("insights cache: decode: %s", err)
		s.cache.Del(key)
		return nil, false
	}
	s.metrics.CounterCache.WithLabelValues("hit").Inc()
	return &out, true
}

func (s *InsightsService) toCache(key []byte, out *engine.Insights) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		log.Warnf("insights cache: encode: %s", err)
		return
	}
	if err := s.cache.Set(key, raw, int(s.ttl.Seconds())); err != nil {
		log.Debugf("insights cache: set: %s", err)
	}
}

package adapthttp

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutcoach/internal/adapter/memory"
	"cutcoach/internal/app"
	"cutcoach/internal/metrics"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := log.StandardLogger().Out
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(original) })
	return &buf
}

func TestLoggingMiddleware(t *testing.T) {
	buf := captureLogs(t)
	s := &Server{}
	handler := requestIDMiddleware(s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/test-path", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	out := buf.String()
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "path=/test-path")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "request_id="+w.Header().Get(requestIDHeader))
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFrom(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get(requestIDHeader))

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, given)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, given, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "not a uuid\nforged=1")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid\nforged=1", seen)
}

func TestRecoverer(t *testing.T) {
	captureLogs(t)
	s := &Server{}
	handler := s.recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal error")
}

func newAuthServer(t *testing.T) (*Server, *memory.DB) {
	t.Helper()
	db := memory.New()
	insights := app.NewInsightsService(db, db, db, nil, app.InsightsOptions{})
	s := New(Services{
		Weight:   app.NewWeightService(db, insights, time.UTC).WithProfiles(db),
		Intake:   app.NewIntakeService(db, insights, time.UTC).WithProfiles(db),
		Profile:  app.NewProfileService(db, insights, time.UTC),
		Charts:   app.NewChartsService(db, db, time.UTC).WithProfiles(db),
		Insights: insights,
		Auth:     app.NewAuthService(db, db.NewSessionRepo()),
	}, t.TempDir())
	return s, db
}

func TestMetricsEndpointAndCounters(t *testing.T) {
	captureLogs(t)
	s, _ := newAuthServer(t)
	m, reg := metrics.NewTestManagerAndRegistry()
	h := s.WithoutAuth().WithMetrics(m, reg).Handler()

	for range 2 {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues(http.MethodGet, "/api/health", "200")))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "requests_total"), w.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	captureLogs(t)
	s, db := newAuthServer(t)
	h := s.Handler()
	ctx := context.Background()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "no cookie")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code, "health is public")

	require.NoError(t, app.NewAuthService(db, db.NewSessionRepo()).CreateInitialUser(ctx, "coach", "s3cret-pass"))

	login := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"coach","password":"s3cret-pass"}`))
	login.Header.Set("User-Agent", "test-agent")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, login)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/weight/logs", nil)
	req.Header.Set("User-Agent", "test-agent")
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "valid session")

	req = httptest.NewRequest(http.MethodGet, "/api/weight/logs", nil)
	req.Header.Set("User-Agent", "other-agent")
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "session bound to user agent")

	bad := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"coach","password":"wrong-pass"}`))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, bad)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForwardAuthRequiresTrust(t *testing.T) {
	captureLogs(t)
	ctx := context.Background()
	proxied := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/weight/logs", nil)
		req.Header.Set("Remote-User", "proxied")
		return req
	}

	s, db := newAuthServer(t)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, proxied())
	assert.Equal(t, http.StatusUnauthorized, w.Code, "header ignored by default")
	u, err := db.GetByUsername(ctx, "proxied")
	require.NoError(t, err)
	assert.Nil(t, u, "no user provisioned from an untrusted header")

	s, db = newAuthServer(t)
	w = httptest.NewRecorder()
	s.WithForwardAuth().Handler().ServeHTTP(w, proxied())
	assert.Equal(t, http.StatusOK, w.Code, "trusted proxy")
	u, err = db.GetByUsername(ctx, "proxied")
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestSetupAndConfig(t *testing.T) {
	captureLogs(t)
	s, _ := newAuthServer(t)
	h := s.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/config", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sso_enabled":false,"setup_required":true}`, w.Body.String())

	setup := func(body string) int {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/setup", strings.NewReader(body)))
		return w.Code
	}
	assert.Equal(t, http.StatusBadRequest, setup(`{"username":"coach","password":"short"}`))
	assert.Equal(t, http.StatusOK, setup(`{"username":"coach","password":"long-enough"}`))
	assert.Equal(t, http.StatusConflict, setup(`{"username":"other","password":"long-enough"}`))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/sso/login", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

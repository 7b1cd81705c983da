package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cutcoach/internal/app"
	"cutcoach/internal/metrics"
)

// Services bundles the application services the HTTP adapter drives.
type Services struct {
	Weight   *app.WeightService
	Intake   *app.IntakeService
	Profile  *app.ProfileService
	Charts   *app.ChartsService
	Insights *app.InsightsService
	Auth     *app.AuthService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	weight   *app.WeightService
	intake   *app.IntakeService
	profile  *app.ProfileService
	charts   *app.ChartsService
	insights *app.InsightsService
	authSvc  *app.AuthService

	oidcConfig  *OIDCConfig
	metrics     *metrics.Manager
	gatherer    prometheus.Gatherer
	validate    *validator.Validate
	webDir      string
	disableAuth bool
	// Remote-User is honoured only behind a proxy that sets it.
	trustForwardAuth bool
}

// New creates a Server wired to the given application services.
func New(svc Services, webDir string) *Server {
	return &Server{
		weight:     svc.Weight,
		intake:     svc.Intake,
		profile:    svc.Profile,
		charts:     svc.Charts,
		insights:   svc.Insights,
		authSvc:    svc.Auth,
		oidcConfig: &OIDCConfig{},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		webDir:     webDir,
	}
}

// WithoutAuth disables authentication; every request acts as user 1.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// WithForwardAuth trusts the Remote-User header set by an auth proxy.
func (s *Server) WithForwardAuth() *Server {
	s.trustForwardAuth = true
	return s
}

// WithOIDC enables SSO login.
func (s *Server) WithOIDC(cfg *OIDCConfig) *Server {
	if cfg != nil {
		s.oidcConfig = cfg
	}
	return s
}

// WithMetrics records request metrics into m and serves g on /metrics.
// A nil gatherer records without exposing the endpoint.
func (s *Server) WithMetrics(m *metrics.Manager, g prometheus.Gatherer) *Server {
	s.metrics = m
	s.gatherer = g
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverer)
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(withNoCache)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})

		api.Route("/auth", func(a chi.Router) {
			a.Post("/login", s.handleLogin)
			a.Post("/logout", s.handleLogout)
			a.Post("/setup", s.handleSetupUser)
			a.Get("/config", s.handleConfig)
			a.Get("/sso/login", s.handleSSOLogin)
			a.Get("/sso/callback", s.handleSSOCallback)
		})

		api.Group(func(p chi.Router) {
			p.Use(s.authMiddleware)

			p.Get("/profile", s.handleProfileGet)
			p.Put("/profile", s.handleProfilePut)

			p.Route("/weight", func(wr chi.Router) {
				wr.Get("/today", s.handleWeightToday)
				wr.Post("/logs", s.handleWeightAdd)
				wr.Get("/logs", s.handleWeightRecent)
				wr.Patch("/logs/{id}", s.handleWeightEdit)
				wr.Delete("/logs/{id}", s.handleWeightDelete)
				wr.Post("/undo-last", s.handleWeightUndoLast)
			})

			p.Route("/intake", func(ir chi.Router) {
				ir.Get("/today", s.handleIntakeToday)
				ir.Post("/events", s.handleIntakeEvent)
				ir.Get("/recent", s.handleIntakeRecent)
				ir.Post("/undo-last", s.handleIntakeUndoLast)
			})

			p.Get("/charts/daily", s.handleChartsDaily)
			p.Get("/insights", s.handleInsights)
		})
	})

	r.Handle("/*", spaFromDisk(s.webDir))
	return r
}

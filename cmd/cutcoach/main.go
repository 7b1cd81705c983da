package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	adapthttp "cutcoach/internal/adapter/http"
	"cutcoach/internal/adapter/memory"
	"cutcoach/internal/adapter/postgres"
	"cutcoach/internal/app"
	"cutcoach/internal/config"
	"cutcoach/internal/domain"
	"cutcoach/internal/engine"
	"cutcoach/internal/logging"
	"cutcoach/internal/metrics"
)

const sessionCleanupEvery = time.Hour

// store is what both storage backends provide.
type store interface {
	domain.WeightLogRepository
	domain.IntakeRepository
	domain.ProfileRepository
	domain.UserRepository
}

func main() {
	fmt.Println("starting ...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %s", err)
	}

	logging.Setup(logging.SetupParams{
		Level:      cfg.Log.Level,
		FormatJSON: cfg.Log.FormatJSON,
		FileName:   cfg.Log.File,
		ToStdout:   cfg.Log.ToStdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, sessions, closeDB, err := openStore(cfg)
	if err != nil {
		log.Fatalf("storage: %s", err)
	}
	defer closeDB()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewManager("cutcoach", "", reg)

	loc := cfg.Location()
	eng := engine.New(engine.Config{
		Decay:      cfg.Engine.EMADecay,
		WindowDays: cfg.Engine.WindowDays,
	})

	insightsSvc := app.NewInsightsService(db, db, db, eng, app.InsightsOptions{
		CacheMB:  cfg.Cache.SizeMB,
		CacheTTL: cfg.Cache.TTL,
		Metrics:  m,
		Location: loc,
	})
	authSvc := app.NewAuthService(db, sessions)

	srv := adapthttp.New(adapthttp.Services{
		Weight:   app.NewWeightService(db, insightsSvc, loc).WithProfiles(db),
		Intake:   app.NewIntakeService(db, insightsSvc, loc).WithProfiles(db),
		Profile:  app.NewProfileService(db, insightsSvc, loc),
		Charts:   app.NewChartsService(db, db, loc).WithProfiles(db),
		Insights: insightsSvc,
		Auth:     authSvc,
	}, cfg.WebDir)

	if cfg.Metrics.Enabled {
		srv.WithMetrics(m, reg)
	} else {
		srv.WithMetrics(m, nil)
	}

	if cfg.TrustForwardAuth {
		srv.WithForwardAuth()
		log.Info("trusting Remote-User from the auth proxy")
	}

	if cfg.OIDC.Enabled() {
		oidcCfg, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		if err != nil {
			log.Fatalf("sso: %s", err)
		}
		srv.WithOIDC(oidcCfg)
		log.Infof("sso enabled via %s", cfg.OIDC.Issuer)
	}

	go cleanupSessions(ctx, authSvc)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown: %s", err)
		}
	}()

	log.WithFields(log.Fields{
		"addr":     cfg.Addr,
		"storage":  cfg.Storage,
		"timezone": loc.String(),
	}).Info("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Info("server stopped")
}

func openStore(cfg *config.Config) (store, domain.SessionRepository, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		db := memory.New()
		return db, db.NewSessionRepo(), func() {}, nil
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("db open: %w", err)
	}
	return db, postgres.NewSessionRepo(db), func() { _ = db.Close() }, nil
}

func cleanupSessions(ctx context.Context, auth *app.AuthService) {
	ticker := time.NewTicker(sessionCleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.CleanupExpired(ctx); err != nil {
				log.Warnf("session cleanup: %s", err)
			}
		}
	}
}

// Package server is the composition root: it opens the snapshot backend,
// builds the stores, mounts the HTTP routes and runs the server until a
// shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/brightday/internal/auth"
	"github.com/sakif/brightday/internal/calendar"
	"github.com/sakif/brightday/internal/config"
	"github.com/sakif/brightday/internal/handler"
	"github.com/sakif/brightday/internal/middleware"
	"github.com/sakif/brightday/internal/repository"
	postgresRepo "github.com/sakif/brightday/internal/repository/postgres"
	redisRepo "github.com/sakif/brightday/internal/repository/redis"
	sqliteRepo "github.com/sakif/brightday/internal/repository/sqlite"
	"github.com/sakif/brightday/internal/scheduler"
	"github.com/sakif/brightday/internal/service"
)

// Server owns the router, the storage backend and the rollover scheduler.
// The backend is closed when Start returns.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	repo   repository.SnapshotRepository
	sched  *scheduler.Scheduler // nil when the rollover is disabled
}

// New wires every dependency described by cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, fmt.Errorf("resolving timezone: %w", err)
	}
	clock := calendar.NewClock(loc)

	repo, err := openRepository(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		repo:   repo,
	}

	if err := s.setup(ctx, clock); err != nil {
		repo.Close()
		return nil, err
	}
	return s, nil
}

// openRepository opens the backend selected by storage.driver.
func openRepository(ctx context.Context, cfg config.StorageConfig) (repository.SnapshotRepository, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if cfg.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := sqliteRepo.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return db, nil

	case config.DriverRedis:
		store, err := redisRepo.New(ctx, redisRepo.Config{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("opening redis: %w", err)
		}
		return store, nil

	case config.DriverPostgres:
		store, err := postgresRepo.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// setup builds the stores and mounts the routes.
//
// ROUTES:
// GET    /health
// POST   /auth/login, /auth/logout         (auth enabled only)
// GET    /api/events[?date=]               list
// GET    /api/events/upcoming[?limit=]     next incomplete events
// GET    /api/events.ics                   iCalendar export
// POST   /api/events                       create
// GET    /api/events/{id}                  read
// PATCH  /api/events/{id}                  partial update
// DELETE /api/events/{id}                  delete
// POST   /api/events/{id}/complete         complete
// GET    /api/calendar/{year}/{month}      month grid
// GET    /api/profile, PATCH /api/profile
// GET    /api/achievement, DELETE /api/achievement
func (s *Server) setup(ctx context.Context, clock calendar.Clock) error {
	presenter := service.NewAchievementPresenter(s.cfg.Achievements.HideDelay, s.logger)

	profiles, err := service.NewProfileService(ctx, s.repo, presenter, clock, s.logger)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	events, err := service.NewEventService(ctx, s.repo, profiles, presenter, clock, s.logger)
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	if !s.cfg.Streak.Disabled {
		s.sched, err = scheduler.New(s.cfg.Streak.RolloverCron, profiles, clock, s.logger)
		if err != nil {
			return err
		}
	}

	// Middleware runs in the order it is added.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger, "/health"))

	s.router.Method(http.MethodGet, "/health",
		handler.NewHealth(s.cfg.Storage.Driver, s.cfg.Auth.Enabled(), time.Now))

	var requireAuth func(http.Handler) http.Handler
	if s.cfg.Auth.Enabled() {
		tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenTTL)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
		authService := service.NewAuthService(profiles, tokens,
			auth.NewPasscodeService(auth.DefaultCost), s.cfg.Auth.PasscodeHash, s.logger)
		authHandler := handler.NewAuthHandler(authService, tokens.TTL(), s.cfg.Auth.SecureCookie, s.logger)

		s.router.Post("/auth/login", authHandler.HandleLogin)
		s.router.Post("/auth/logout", authHandler.HandleLogout)
		requireAuth = auth.RequireAuth(tokens)
	} else {
		s.logger.Warn("auth.jwt_secret not set, API is open to anyone who can reach it")
	}

	eventHandler := handler.NewEventHandler(events, clock, s.logger)
	calendarHandler := handler.NewCalendarHandler(events, s.cfg.Calendar.FirstWeekday(), s.logger)
	profileHandler := handler.NewProfileHandler(profiles, s.logger)
	achievementHandler := handler.NewAchievementHandler(presenter)

	s.router.Route("/api", func(r chi.Router) {
		if requireAuth != nil {
			r.Use(requireAuth)
		}

		r.Get("/events", eventHandler.HandleList)
		r.Get("/events/upcoming", eventHandler.HandleUpcoming)
		r.Get("/events.ics", eventHandler.HandleExportICS)
		r.Post("/events", eventHandler.HandleCreate)
		r.Get("/events/{id}", eventHandler.HandleGet)
		r.Patch("/events/{id}", eventHandler.HandleUpdate)
		r.Delete("/events/{id}", eventHandler.HandleDelete)
		r.Post("/events/{id}/complete", eventHandler.HandleComplete)

		r.Get("/calendar/{year}/{month}", calendarHandler.HandleMonth)

		r.Get("/profile", profileHandler.HandleGet)
		r.Patch("/profile", profileHandler.HandleUpdate)

		r.Get("/achievement", achievementHandler.HandleGet)
		r.Delete("/achievement", achievementHandler.HandleDismiss)
	})

	return nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the storage backend. Start calls it on the way out.
func (s *Server) Close() error {
	return s.repo.Close()
}

// Start serves HTTP until SIGINT/SIGTERM, then drains in-flight requests,
// stops the scheduler and closes the backend.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	if s.sched != nil {
		s.sched.Start()
	}

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("storage", s.cfg.Storage.Driver),
			slog.Bool("auth", s.cfg.Auth.Enabled()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		s.stopScheduler(ctx)
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.stopScheduler(shutdownCtx)
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func (s *Server) stopScheduler(ctx context.Context) {
	if s.sched != nil {
		s.sched.Stop(ctx)
	}
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/taskpulse/taskpulse-api/internal/cache"
	"github.com/taskpulse/taskpulse-api/internal/config"
	"github.com/taskpulse/taskpulse-api/internal/notify"
	"github.com/taskpulse/taskpulse-api/internal/platform/postgres"
	"github.com/taskpulse/taskpulse-api/internal/platform/redisconn"
	"github.com/taskpulse/taskpulse-api/internal/realtime"
	"github.com/taskpulse/taskpulse-api/internal/service"
	"github.com/taskpulse/taskpulse-api/internal/service/auth"
	"github.com/taskpulse/taskpulse-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	// Stores
	userStore store.UserStore
	taskStore store.TaskStore

	// Mutation pipeline
	queryCache  cache.QueryCache
	hub         *realtime.Hub
	broadcaster *realtime.RedisBroadcaster
	producer    notify.Producer

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	taskService      service.TaskService
	analyticsService service.AnalyticsService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(auth.Config{
		Secret:        cfg.Auth.JWTSecret,
		TokenLifetime: time.Duration(cfg.Auth.TokenLifetimeMinutes) * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	bcryptCost := cfg.Auth.BcryptCost
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	app.userStore = postgres.NewPostgresUserStore(db, bcryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	// A nil Redis client puts the process in degraded mode: the cache
	// no-ops, notifications are skipped, and fan-out stays local.
	app.redis = redisconn.New(ctx, cfg.Redis, logger)
	opTimeout := redisconn.OpTimeout(cfg.Redis)
	cacheTTL := time.Duration(cfg.Redis.CacheTTL) * time.Second

	app.queryCache = cache.New(app.redis, cacheTTL, opTimeout, logger)
	app.hub = realtime.NewHub(logger)
	app.broadcaster = realtime.NewBroadcaster(app.redis, cfg.Redis.Channel, app.hub, opTimeout, logger)
	app.producer = notify.NewProducer(app.redis, cfg.Redis.Queue, opTimeout, logger)

	app.userService, err = service.NewUserService(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(
		app.taskStore,
		app.queryCache,
		app.broadcaster,
		app.producer,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.analyticsService, err = service.NewAnalyticsService(app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application: the pub/sub subscriber loop feeding the
// local hub, and the HTTP server. It blocks until shutdown completes.
func (app *application) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		if err := app.broadcaster.Run(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return app.startHTTPServer(gCtx, app.setupRouter())
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

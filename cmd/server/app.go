package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/pklenglish/study-api/internal/config"
	"github.com/pklenglish/study-api/internal/platform/postgres"
	"github.com/pklenglish/study-api/internal/platform/session"
	"github.com/pklenglish/study-api/internal/service/auth"
	"github.com/pklenglish/study-api/internal/service/catalog"
	"github.com/pklenglish/study-api/internal/service/notebook"
	"github.com/pklenglish/study-api/internal/service/stats"
	"github.com/pklenglish/study-api/internal/service/study"
	"github.com/pklenglish/study-api/internal/store"
)

// application holds the shared application dependencies so wiring and
// cleanup live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	validate *validator.Validate

	// Stores
	userStore      store.UserStore
	topicStore     store.TopicStore
	vocabStore     store.VocabularyStore
	flashcardStore store.FlashcardStore
	studyLogStore  store.StudyLogStore
	notebookStore  store.NotebookStore
	sessions       session.Store

	// Services
	jwtService      auth.JWTService
	userService     auth.UserService
	studyService    study.Service
	notebookService notebook.Service
	statsService    stats.Service
	catalogService  catalog.Service
}

// newApplication creates an application instance with all dependencies
// initialized. Core dependencies (config, logger, database) must already
// be established.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		validate: validator.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Stores
	app.userStore = postgres.NewUserStore(db, logger)
	app.topicStore = postgres.NewTopicStore(db, logger)
	app.vocabStore = postgres.NewVocabularyStore(db, logger)
	app.flashcardStore = postgres.NewFlashcardStore(db, logger)
	app.studyLogStore = postgres.NewStudyLogStore(db, logger)
	app.notebookStore = postgres.NewNotebookStore(db, logger)

	// Sitting store
	app.redis = redis.NewClient(&redis.Options{
		Addr: cfg.Session.RedisAddr,
		DB:   cfg.Session.RedisDB,
	})
	if err := app.redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	app.sessions = session.NewRedisStore(app.redis, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	logger.Info("Session store initialized", "ttl_minutes", cfg.Session.TTLMinutes)

	// Services
	app.userService = auth.NewUserService(
		app.userStore,
		app.jwtService,
		auth.NewBcryptHasher(0),
		auth.NewBcryptVerifier(),
		logger,
	)
	app.studyService = study.NewService(db, app.vocabStore, app.flashcardStore, app.studyLogStore, nil, logger)
	app.notebookService = notebook.NewService(app.notebookStore, app.vocabStore, nil, logger)
	app.statsService = stats.NewService(app.flashcardStore, app.studyLogStore, app.topicStore, nil, logger)
	app.catalogService = catalog.NewService(app.topicStore, app.vocabStore, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

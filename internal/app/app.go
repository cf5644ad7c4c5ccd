// Package app wires configuration, storage, the AI client and all HTTP
// modules into a runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/careertrail/core/internal/config"
	"github.com/careertrail/core/internal/database"
	"github.com/careertrail/core/internal/modules/ai"
	"github.com/careertrail/core/internal/modules/credits"
	"github.com/careertrail/core/internal/modules/extraction"
	"github.com/careertrail/core/internal/modules/interview"
	"github.com/careertrail/core/internal/modules/lock"
	"github.com/careertrail/core/internal/modules/topics"
	"github.com/careertrail/core/internal/modules/user"
	"github.com/careertrail/core/internal/modules/workflow"
	"github.com/careertrail/core/internal/pkg/jwt"
	pkgredis "github.com/careertrail/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	cfg    *config.AppConfig
	logger *zap.Logger
	db     *gorm.DB
	ai     *ai.Client
	server *http.Server
}

// New builds the application. It connects to MySQL (running migrations),
// optionally to Redis for the distributed workflow lock, and probes the AI
// backend once.
func New(cfg *config.AppConfig, logger *zap.Logger) (*App, error) {
	jwt.SetSecret(cfg.JWTSecret)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, err
	}

	locker, err := buildLocker(cfg, logger)
	if err != nil {
		return nil, err
	}

	backend, err := ai.NewProviderBackend(cfg.AI)
	if err != nil {
		return nil, err
	}
	aiClient := ai.NewClient(backend, cfg.AI, logger)

	rates := credits.NewRates(cfg.Credits)
	creditsSvc := credits.NewService(credits.NewStore(db), rates)
	interviewSvc := interview.NewService(db)
	extractionSvc := extraction.NewService(aiClient, extraction.NewStore(db), cfg.Workflow, logger)
	topicsSvc := topics.NewService(aiClient, topics.NewStore(db), cfg.Workflow, logger)
	userSvc := user.NewService(db)
	workflowSvc := workflow.NewService(
		locker, creditsSvc, extractionSvc, topicsSvc,
		workflow.NewRepository(db), rates, logger,
	)

	a := &App{cfg: cfg, logger: logger, db: db, ai: aiClient}

	engine := a.buildRouter(routerDeps{
		userHandler:      user.NewHandler(userSvc),
		interviewHandler: interview.NewHandler(interviewSvc, db),
		creditsHandler:   credits.NewHandler(creditsSvc, db),
		workflowHandler:  workflow.NewHandler(workflowSvc),
	})
	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// buildLocker picks the Redis lock when Redis is configured, otherwise the
// in-process one.
func buildLocker(cfg *config.AppConfig, logger *zap.Logger) (lock.Locker, error) {
	if cfg.RedisURL == "" {
		logger.Info("redis not configured, using in-process workflow lock")
		return lock.NewMemoryLocker(), nil
	}

	client, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(cfg.Workflow.LockTTLSeconds) * time.Second
	return lock.NewRedisLocker(client, ttl), nil
}

// Run serves HTTP until the listener fails or Shutdown is called.
func (a *App) Run() error {
	a.logger.Info("server listening",
		zap.String("addr", a.server.Addr),
		zap.String("env", a.cfg.Env))
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

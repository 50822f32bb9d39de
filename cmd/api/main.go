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

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-fasting-planner/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-fasting-planner/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-fasting-planner/internal/config"
	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/services"
	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/workers"
	"github.com/comitanigiacomo/kanso-fasting-planner/internal/metrics"
)

// @title                      Kanso Fasting Planner API
// @version                    1.0
// @description                Weekly intermittent-fasting window plans.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	startTime := time.Now()

	cfg, err := config.Load(".env")
	if err != nil {
		bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		bootstrap.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger, startTime)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	metrics.Register()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("storage", cfg.Storage).Msg("kanso fasting planner listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return
	}

	logger.Info().Msg("server stopped gracefully")
}

func newLogger(format, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if format == "json" {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger.Level(lvl).With().Timestamp().Logger()
}

type app struct {
	router *gin.Engine
	repo   domain.PlanRepository
	worker *workers.SummaryWorker
	db     *sqlx.DB
	redis  *redis.Client
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// buildApp wires storage, cache, worker and router from cfg. The summary
// worker runs until ctx is cancelled.
func buildApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, startTime time.Time) (*app, error) {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	a := &app{}

	var repo domain.PlanRepository
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn().Msg("using in-memory storage, plans are lost on restart")
		repo = repository.NewInMemoryPlanRepository()

	default:
		db, err := sqlx.ConnectContext(ctx, "pgx", cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxOpenConns)
		db.SetConnMaxLifetime(5 * time.Minute)

		logger.Info().Str("host", cfg.Database.Host).Msg("database connected")
		a.db = db
		repo = repository.NewPostgresPlanRepository(db)
	}

	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, running without cache and rate limiting")
		} else {
			a.redis = rdb
			repo = repository.NewCachedPlanRepository(repo, rdb, cfg.CacheTTL, logger)
		}
	}
	a.repo = repo

	a.worker = workers.NewSummaryWorker(repo, logger)
	a.worker.Start(ctx)

	tokens := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	planService := services.NewPlanService(repo, a.worker)

	deps := adapterHTTP.RouterDependencies{
		PlanHandler:  adapterHTTP.NewPlanHandler(planService, logger),
		TokenService: tokens,
		Redis:        a.redis,
		Logger:       logger,
		RateLimit:    cfg.RateLimit,
		RateWindow:   cfg.RateWindow,
		StartTime:    startTime,
	}
	if a.db != nil {
		deps.DB = a.db
	}
	a.router = adapterHTTP.NewRouter(deps)

	return a, nil
}

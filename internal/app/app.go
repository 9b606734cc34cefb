package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/external/openligadb"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/config"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/infrastructure/redislock"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/interfaces/httpapi"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/id"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/lock"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/resilience"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/scheduler"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/usecase"
	"github.com/redis/go-redis/v9"
)

// App owns the HTTP server, the optional cron scheduler and the resources
// they share.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler
	Sync      *usecase.SyncService

	logger  *logging.Logger
	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}
	repos, closeRepos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeRepos)

	locker, closeLocker, err := newLocker(ctx, cfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeLocker)

	source := openligadb.NewClient(openligadb.ClientConfig{
		BaseURL:    cfg.OpenLigaBaseURL,
		League:     cfg.OpenLigaLeague,
		LeagueID:   cfg.OpenLigaLeagueID,
		Season:     cfg.OpenLigaSeason,
		TeamID:     cfg.OpenLigaTeamID,
		TeamName:   cfg.OpenLigaTeamName,
		Location:   cfg.OpenLigaLocation,
		Timeout:    cfg.OpenLigaTimeout,
		MaxRetries: cfg.OpenLigaMaxRetries,
		Logger:     logger.Named("openligadb"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.OpenLigaCircuitEnabled,
			FailureThreshold: cfg.OpenLigaCircuitFailureCount,
			OpenTimeout:      cfg.OpenLigaCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.OpenLigaCircuitHalfOpenMaxReq,
		},
	})

	reconciler := usecase.NewMatchReconciler(source, repos.matches, cfg.ReconcileWorkers, logger)
	refresher := usecase.NewLeagueTableRefresher(source, repos.teams, logger)
	detector := usecase.NewStalenessDetector(source, repos.teams, repos.matches, reconciler, usecase.StalenessOptions{
		MatchdayLag: cfg.MatchdayLag,
	}, logger)
	scorer := usecase.NewScoringEngine(repos.matches, repos.predictions, repos.scoring, logger)
	a.Sync = usecase.NewSyncService(
		usecase.SyncConfig{
			League:   cfg.OpenLigaLeague,
			Season:   cfg.OpenLigaSeason,
			LockWait: cfg.SyncLockWait,
			Timeout:  cfg.SyncTimeout,
		},
		detector,
		reconciler,
		refresher,
		scorer,
		locker,
		id.NewUUIDGenerator(),
		logger,
	)

	handler := httpapi.NewHandler(
		usecase.NewLeagueTableService(repos.teams, a.Sync, cfg.AutomaticUpdates, logger),
		usecase.NewMatchService(repos.matches, repos.teams, a.Sync, cfg.AutomaticUpdates, logger),
		usecase.NewLeaderboardService(repos.users, repos.predictions, repos.matches, cfg.LeaderboardTendencyDesc),
		usecase.NewInsightsService(repos.users, repos.matches, repos.predictions),
		usecase.NewPredictionService(repos.users, repos.matches, repos.predictions),
		a.Sync,
		logger,
	)

	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
	a.Scheduler = scheduler.New(a.Sync, scheduler.Config{Spec: cfg.SyncCron, RunTimeout: cfg.SyncTimeout}, logger)

	return a, nil
}

// Close releases storage and lock connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newLocker(ctx context.Context, cfg config.Config, logger *logging.Logger) (lock.Locker, func() error, error) {
	if cfg.LockDriver != config.LockRedis {
		return lock.NewLocalLocker(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("redis season lock enabled", "addr", cfg.RedisAddr, "db", cfg.RedisDB, "ttl", cfg.LockTTL)

	locker := redislock.NewRedisLocker(client, redislock.RedisLockerConfig{
		TTL:    cfg.LockTTL,
		Logger: logger,
	})
	return locker, client.Close, nil
}

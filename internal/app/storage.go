package app

import (
	"context"
	"fmt"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/config"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/scoring"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"
	cacherepo "github.com/1olp1/fch-tippspiel-23-local-version/internal/infrastructure/repository/cache"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/infrastructure/repository/memory"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/infrastructure/repository/postgres"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/cache"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

type repositories struct {
	teams       team.Repository
	matches     match.Repository
	predictions prediction.Repository
	users       user.Repository
	scoring     scoring.Repository
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	var (
		repos   repositories
		closeFn = func() error { return nil }
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, nil, err
		}
		logger.Info("postgres storage ready", "dsn", redactDBURL(cfg.DBURL))

		repos = repositories{
			teams:       postgres.NewTeamRepository(db),
			matches:     postgres.NewMatchRepository(db),
			predictions: postgres.NewPredictionRepository(db),
			users:       postgres.NewUserRepository(db),
			scoring:     postgres.NewScoringRepository(db),
		}
		closeFn = db.Close
	default:
		store := memory.NewStore()
		store.AddUsers(memory.SeedUsers()...)
		logger.Info("in-memory storage ready", "users", len(memory.SeedUsers()))

		repos = repositories{
			teams:       store.Teams(),
			matches:     store.Matches(),
			predictions: store.Predictions(),
			users:       store.Users(),
			scoring:     store.Scoring(),
		}
	}

	if cfg.CacheEnabled {
		repos = repos.cached(cache.NewStore(cfg.CacheTTL))
		logger.Info("read cache enabled", "ttl", cfg.CacheTTL)
	}
	return repos, closeFn, nil
}

// cached wraps every repository with the same store so writes through one
// decorator invalidate reads served by the others.
func (r repositories) cached(store *cache.Store) repositories {
	return repositories{
		teams:       cacherepo.NewTeamRepository(r.teams, store),
		matches:     cacherepo.NewMatchRepository(r.matches, store),
		predictions: cacherepo.NewPredictionRepository(r.predictions, store),
		users:       cacherepo.NewUserRepository(r.users, store),
		scoring:     cacherepo.NewScoringRepository(r.scoring, store),
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.ServiceName)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(max(cfg.DBMaxOpenConns/2, 1))
	db.SetConnMaxIdleTime(5 * time.Minute)
	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(dbNameFromURL(dsn)))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/id"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/lock"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	syncStatusSuccess  = "success"
	syncStatusSkipped  = "skipped"
	syncStatusDegraded = "degraded"
	syncStatusFailed   = "failed"
)

type TableSyncReport struct {
	Status    string    `json:"status"`
	Decision  *Decision `json:"decision,omitempty"`
	Refreshed int       `json:"refreshed"`
	Message   string    `json:"message,omitempty"`
}

type MatchSyncReport struct {
	Status    string           `json:"status"`
	Decision  *Decision        `json:"decision,omitempty"`
	Reconcile *ReconcileReport `json:"reconcile,omitempty"`
	Scoring   *ScoringReport   `json:"scoring,omitempty"`
	Message   string           `json:"message,omitempty"`
}

type SyncReport struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Table      *TableSyncReport `json:"table,omitempty"`
	Matches    *MatchSyncReport `json:"matches,omitempty"`
}

const (
	defaultLockWait    = 5 * time.Second
	defaultSyncTimeout = 2 * time.Minute
)

type SyncConfig struct {
	League string
	Season int
	// LockWait bounds how long a manual trigger queues behind a running pass.
	LockWait time.Duration
	// Timeout caps one pass once the season lock is held.
	Timeout time.Duration
}

func (c SyncConfig) lockKey() string {
	return "season:" + c.League + ":" + strconv.Itoa(c.Season)
}

// SyncService runs one detect/refresh/score pass per trigger while holding the
// season lock.
type SyncService struct {
	cfg        SyncConfig
	detector   *StalenessDetector
	reconciler *MatchReconciler
	refresher  *LeagueTableRefresher
	scorer     *ScoringEngine
	locker     lock.Locker
	ids        id.Generator
	now        func() time.Time
	logger     *logging.Logger
}

func NewSyncService(
	cfg SyncConfig,
	detector *StalenessDetector,
	reconciler *MatchReconciler,
	refresher *LeagueTableRefresher,
	scorer *ScoringEngine,
	locker lock.Locker,
	ids id.Generator,
	logger *logging.Logger,
) *SyncService {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.LockWait <= 0 {
		cfg.LockWait = defaultLockWait
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSyncTimeout
	}
	return &SyncService{
		cfg:        cfg,
		detector:   detector,
		reconciler: reconciler,
		refresher:  refresher,
		scorer:     scorer,
		locker:     locker,
		ids:        ids,
		now:        time.Now,
		logger:     logger.Named("sync"),
	}
}

// syncScope selects the steps of one pass and whether it queues for the lock.
type syncScope struct {
	span    string
	table   bool
	matches bool
	wait    bool
}

func (s *SyncService) SyncAll(ctx context.Context) (SyncReport, error) {
	return s.run(ctx, syncScope{span: "usecase.SyncService.SyncAll", table: true, matches: true, wait: true})
}

func (s *SyncService) SyncLeagueTable(ctx context.Context) (SyncReport, error) {
	return s.run(ctx, syncScope{span: "usecase.SyncService.SyncLeagueTable", table: true, wait: true})
}

func (s *SyncService) SyncMatches(ctx context.Context) (SyncReport, error) {
	return s.run(ctx, syncScope{span: "usecase.SyncService.SyncMatches", matches: true, wait: true})
}

// SyncLeagueTableIfIdle refreshes the table unless a pass already holds the
// season lock, in which case it returns lock.ErrNotAcquired at once.
func (s *SyncService) SyncLeagueTableIfIdle(ctx context.Context) (SyncReport, error) {
	return s.run(ctx, syncScope{span: "usecase.SyncService.SyncLeagueTableIfIdle", table: true})
}

func (s *SyncService) SyncMatchesIfIdle(ctx context.Context) (SyncReport, error) {
	return s.run(ctx, syncScope{span: "usecase.SyncService.SyncMatchesIfIdle", matches: true})
}

func (s *SyncService) run(ctx context.Context, scope syncScope) (SyncReport, error) {
	runID, err := s.ids.NewID()
	if err != nil {
		return SyncReport{}, err
	}
	ctx, span := startUsecaseSpan(ctx, scope.span, attribute.String("sync.run_id", runID))
	defer span.End()

	release, err := s.acquire(ctx, scope.wait)
	if err != nil {
		return SyncReport{}, fmt.Errorf("acquire season lock: %w", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	logger := s.logger.With("run_id", runID)
	report := SyncReport{RunID: runID, StartedAt: s.now().UTC()}

	if scope.table {
		started := time.Now()
		step, err := s.syncTable(ctx, logger)
		metrics.RecordSync("table", step.Status, time.Since(started))
		report.Table = &step
		if err != nil {
			return report, err
		}
	}
	if scope.matches {
		started := time.Now()
		step, err := s.syncMatches(ctx, logger)
		metrics.RecordSync("matches", step.Status, time.Since(started))
		report.Matches = &step
		if err != nil {
			return report, err
		}
	}

	report.FinishedAt = s.now().UTC()
	logger.InfoContext(ctx, "sync finished", "duration", report.FinishedAt.Sub(report.StartedAt))
	return report, nil
}

func (s *SyncService) acquire(ctx context.Context, wait bool) (func(), error) {
	if !wait {
		return s.locker.TryAcquire(ctx, s.cfg.lockKey())
	}
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.LockWait)
	defer cancel()
	return s.locker.Acquire(waitCtx, s.cfg.lockKey())
}

func (s *SyncService) syncTable(ctx context.Context, logger *logging.Logger) (TableSyncReport, error) {
	decision, err := s.detector.LeagueTable(ctx)
	if err != nil {
		return degradeOrFail[TableSyncReport](ctx, logger, "league table staleness check", err,
			func(status, msg string) TableSyncReport { return TableSyncReport{Status: status, Message: msg} })
	}
	step := TableSyncReport{Status: syncStatusSkipped, Decision: &decision}
	if !decision.NeedsUpdate {
		return step, nil
	}

	refreshed, err := s.refresher.Refresh(ctx)
	if err != nil {
		out, outErr := degradeOrFail[TableSyncReport](ctx, logger, "league table refresh", err,
			func(status, msg string) TableSyncReport { return TableSyncReport{Status: status, Message: msg} })
		out.Decision = &decision
		return out, outErr
	}
	step.Status = syncStatusSuccess
	step.Refreshed = refreshed
	return step, nil
}

// syncMatches scores even when the provider is down so that results stored by
// an earlier pass are never left ungraded.
func (s *SyncService) syncMatches(ctx context.Context, logger *logging.Logger) (MatchSyncReport, error) {
	step := MatchSyncReport{Status: syncStatusSkipped}

	decision, err := s.detector.Matches(ctx)
	switch {
	case err == nil:
		step.Decision = &decision
	case errors.Is(err, ErrDependencyUnavailable):
		logger.WarnContext(ctx, "match staleness check skipped", "error", err)
		step.Status = syncStatusDegraded
		step.Message = err.Error()
	default:
		step.Status = syncStatusFailed
		step.Message = err.Error()
		return step, fmt.Errorf("match staleness check: %w", err)
	}

	if step.Decision != nil && step.Decision.NeedsUpdate {
		reconciled, err := s.reconciler.Reconcile(ctx)
		step.Reconcile = &reconciled
		if err != nil {
			step.Status = syncStatusFailed
			step.Message = err.Error()
			return step, fmt.Errorf("reconcile matches: %w", err)
		}
		step.Status = syncStatusSuccess
		if reconciled.Failed > 0 {
			step.Status = syncStatusDegraded
		}
	}

	scored, err := s.scorer.EvaluateFinishedMatches(ctx)
	step.Scoring = &scored
	if err != nil {
		step.Status = syncStatusFailed
		step.Message = err.Error()
		return step, fmt.Errorf("evaluate finished matches: %w", err)
	}
	if scored.MatchesEvaluated > 0 && step.Status == syncStatusSkipped {
		step.Status = syncStatusSuccess
	}
	return step, nil
}

// degradeOrFail keeps cached state on provider errors and surfaces everything else.
func degradeOrFail[T any](ctx context.Context, logger *logging.Logger, what string, err error, build func(status, msg string) T) (T, error) {
	if errors.Is(err, ErrDependencyUnavailable) {
		logger.WarnContext(ctx, what+" skipped", "error", err)
		return build(syncStatusDegraded, err.Error()), nil
	}
	return build(syncStatusFailed, err.Error()), fmt.Errorf("%s: %w", what, err)
}

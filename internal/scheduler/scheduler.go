package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/usecase"
	"github.com/robfig/cron/v3"
)

const defaultRunTimeout = 2 * time.Minute

type syncRunner interface {
	SyncAll(ctx context.Context) (usecase.SyncReport, error)
}

type Config struct {
	Spec       string
	RunTimeout time.Duration
}

// Scheduler triggers a full sync pass on a cron spec. Overlapping runs are skipped.
type Scheduler struct {
	runner  syncRunner
	spec    string
	timeout time.Duration
	logger  *logging.Logger
	cron    *cron.Cron
}

func New(runner syncRunner, cfg Config, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")

	timeout := cfg.RunTimeout
	if timeout <= 0 {
		timeout = defaultRunTimeout
	}

	cronLogger := cronLogAdapter{logger: logger}
	return &Scheduler{
		runner:  runner,
		spec:    strings.TrimSpace(cfg.Spec),
		timeout: timeout,
		logger:  logger,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}
}

// Start registers the sync job and starts the cron loop. An empty spec disables it.
func (s *Scheduler) Start(ctx context.Context) (bool, error) {
	if s.spec == "" {
		return false, nil
	}

	if _, err := s.cron.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return false, fmt.Errorf("schedule sync %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("sync scheduled", "spec", s.spec, "timeout", s.timeout.String())
	return true, nil
}

// Stop waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out", "error", ctx.Err())
	}
}

func (s *Scheduler) runOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	report, err := s.runner.SyncAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled sync failed", "run_id", report.RunID, "error", err)
		return
	}
	args := []any{"run_id", report.RunID}
	if report.Table != nil {
		args = append(args, "table", report.Table.Status)
	}
	if report.Matches != nil {
		args = append(args, "matches", report.Matches.Status)
	}
	s.logger.InfoContext(ctx, "scheduled sync finished", args...)
}

type cronLogAdapter struct {
	logger *logging.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, append(keysAndValues, "error", err)...)
}

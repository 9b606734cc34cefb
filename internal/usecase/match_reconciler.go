package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/footballdata"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/metrics"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
)

const defaultReconcileWorkers = 4

type ReconcileReport struct {
	Checked  int `json:"checked"`
	Applied  int `json:"applied"`
	UpToDate int `json:"up_to_date"`
	// Frozen counts matches that became evaluated between listing and writing.
	Frozen int `json:"frozen"`
	Failed int `json:"failed"`
}

type MatchReconciler struct {
	source  footballdata.Source
	matches match.Repository
	workers int
	logger  *logging.Logger
}

func NewMatchReconciler(source footballdata.Source, matches match.Repository, workers int, logger *logging.Logger) *MatchReconciler {
	if workers <= 0 {
		workers = defaultReconcileWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchReconciler{
		source:  source,
		matches: matches,
		workers: workers,
		logger:  logger,
	}
}

// ImportSeason inserts every season match of the tracked team. Existing ids are kept.
func (r *MatchReconciler) ImportSeason(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchReconciler.ImportSeason")
	defer span.End()

	items, found, err := r.source.SeasonMatches(ctx).Get()
	if err != nil {
		return 0, fmt.Errorf("%w: season matches: %w", ErrDependencyUnavailable, err)
	}
	if !found || len(items) == 0 {
		r.logger.WarnContext(ctx, "provider returned no season matches")
		return 0, nil
	}

	valid := make([]match.Match, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			r.logger.WarnContext(ctx, "skip invalid season match", "match_id", item.ID, "error", err)
			continue
		}
		valid = append(valid, item)
	}
	if err := r.matches.InsertMany(ctx, valid); err != nil {
		return 0, fmt.Errorf("insert season matches: %w", err)
	}

	span.SetAttributes(attribute.Int("matches", len(valid)))
	return len(valid), nil
}

type reconcileFetch struct {
	local  match.Match
	result footballdata.Result[match.Match]
}

// Reconcile refreshes every unfinished, unevaluated match from the provider.
// Fetches run on a bounded pool; writes are applied sequentially in listing order.
// A failed fetch only skips that match; a storage error aborts the pass.
func (r *MatchReconciler) Reconcile(ctx context.Context) (ReconcileReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchReconciler.Reconcile")
	defer span.End()

	locals, err := r.matches.ListReconcilable(ctx)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("list reconcilable matches: %w", err)
	}
	report := ReconcileReport{Checked: len(locals)}
	if len(locals) == 0 {
		return report, nil
	}

	fetched, err := r.fetchAll(ctx, locals)
	if err != nil {
		return report, err
	}

	for _, item := range fetched {
		external, found, fetchErr := item.result.Get()
		switch {
		case fetchErr != nil:
			report.Failed++
			metrics.RecordReconcileOutcome("failed")
			r.logger.WarnContext(ctx, "fetch match failed", "match_id", item.local.ID, "error", fetchErr)
			continue
		case !found || external.ID != item.local.ID:
			report.Failed++
			metrics.RecordReconcileOutcome("failed")
			r.logger.WarnContext(ctx, "provider returned no usable match", "match_id", item.local.ID)
			continue
		}

		if !shouldApplyUpdate(item.local.SourceUpdatedAt, external.SourceUpdatedAt) {
			report.UpToDate++
			metrics.RecordReconcileOutcome("up_to_date")
			continue
		}

		applied, err := r.matches.ApplyUpdate(ctx, item.local.ID, external.Update())
		if err != nil {
			return report, fmt.Errorf("apply update to match %d: %w", item.local.ID, err)
		}
		if !applied {
			report.Frozen++
			metrics.RecordReconcileOutcome("frozen")
			continue
		}
		report.Applied++
		metrics.RecordReconcileOutcome("applied")
		r.logger.InfoContext(ctx, "match updated",
			"match_id", item.local.ID,
			"matchday", item.local.Matchday,
			"finished", external.Finished,
			"source_updated_at", external.SourceUpdatedAt,
		)
	}

	span.SetAttributes(
		attribute.Int("checked", report.Checked),
		attribute.Int("applied", report.Applied),
		attribute.Int("failed", report.Failed),
	)
	return report, nil
}

func (r *MatchReconciler) fetchAll(ctx context.Context, locals []match.Match) ([]reconcileFetch, error) {
	out := make([]reconcileFetch, len(locals))
	workers := min(r.workers, len(locals))

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for idx, local := range locals {
		out[idx].local = local
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if ctxErr := ctx.Err(); ctxErr != nil {
				out[idx].result = footballdata.Failed[match.Match](ctxErr)
				return
			}
			out[idx].result = r.source.Match(ctx, local.ID)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit fetch to worker pool: %w", err)
		}
	}
	wg.Wait()

	return out, nil
}

// shouldApplyUpdate gates on timestamps only when both sides are usable.
func shouldApplyUpdate(local, external timestamp.Timestamp) bool {
	if local.Valid() && external.Valid() {
		return external.After(local)
	}
	return true
}

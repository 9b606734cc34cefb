package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/usecase"
)

func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	h.runSync(ctx, w, "all", SyncRunner.SyncAll)
}

func (h *Handler) RunTableSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunTableSync")
	defer span.End()

	h.runSync(ctx, w, "table", SyncRunner.SyncLeagueTable)
}

func (h *Handler) RunMatchSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunMatchSync")
	defer span.End()

	h.runSync(ctx, w, "matches", SyncRunner.SyncMatches)
}

func (h *Handler) runSync(ctx context.Context, w http.ResponseWriter, scope string, run func(SyncRunner, context.Context) (usecase.SyncReport, error)) {
	if h.syncRunner == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err := run(h.syncRunner, ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "manual sync failed", "scope", scope, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "manual sync finished", "scope", scope, "run_id", report.RunID)
	writeSuccess(w, http.StatusOK, report)
}

package httpapi

import (
	"net/http"
)

func (h *Handler) GetUserInsights(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserInsights")
	defer span.End()

	userID, err := pathUserID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	insights, err := h.insightsService.Get(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get insights failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, insights)
}

func (h *Handler) ListUserPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserPredictions")
	defer span.End()

	userID, err := pathUserID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.predictionService.ListByUser(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, predictionsToDTO(items))
}

// SubmitUserPredictions stores a batch of tips. Any invalid or closed entry
// rejects the whole batch.
func (h *Handler) SubmitUserPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitUserPredictions")
	defer span.End()

	userID, err := pathUserID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req predictionSubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.predictionService.Submit(ctx, userID, req.toInputs())
	if err != nil {
		h.logger.WarnContext(ctx, "submit predictions failed", "user_id", userID, "count", len(req.Predictions), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, predictionSubmitDTO{
		Saved:     predictionsToDTO(result.Saved),
		Unchanged: result.Unchanged,
	})
}

package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/usecase"
	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

const maxRequestBodyBytes = 1 << 20

// SyncRunner triggers sync passes. Implemented by usecase.SyncService.
type SyncRunner interface {
	SyncAll(ctx context.Context) (usecase.SyncReport, error)
	SyncLeagueTable(ctx context.Context) (usecase.SyncReport, error)
	SyncMatches(ctx context.Context) (usecase.SyncReport, error)
}

type Handler struct {
	tableService       *usecase.LeagueTableService
	matchService       *usecase.MatchService
	leaderboardService *usecase.LeaderboardService
	insightsService    *usecase.InsightsService
	predictionService  *usecase.PredictionService
	syncRunner         SyncRunner
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	tableService *usecase.LeagueTableService,
	matchService *usecase.MatchService,
	leaderboardService *usecase.LeaderboardService,
	insightsService *usecase.InsightsService,
	predictionService *usecase.PredictionService,
	syncRunner SyncRunner,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tableService:       tableService,
		matchService:       matchService,
		leaderboardService: leaderboardService,
		insightsService:    insightsService,
		predictionService:  predictionService,
		syncRunner:         syncRunner,
		logger:             logger.Named("httpapi"),
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathUserID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("userID"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid user id %q", usecase.ErrInvalidInput, raw)
	}
	return id, nil
}

package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/scoring"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

type ScoringReport struct {
	MatchesEvaluated    int `json:"matches_evaluated"`
	PredictionsGraded   int `json:"predictions_graded"`
	MatchesMissingScore int `json:"matches_missing_score"`
	UsersRecomputed     int `json:"users_recomputed"`
}

type ScoringEngine struct {
	matches     match.Repository
	predictions prediction.Repository
	scoring     scoring.Repository
	now         func() time.Time
	logger      *logging.Logger
}

func NewScoringEngine(matches match.Repository, predictions prediction.Repository, scoringRepo scoring.Repository, logger *logging.Logger) *ScoringEngine {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringEngine{
		matches:     matches,
		predictions: predictions,
		scoring:     scoringRepo,
		now:         time.Now,
		logger:      logger,
	}
}

// EvaluateFinishedMatches grades every finished, unevaluated match and then
// rebuilds all user aggregates from the prediction rows. Running it again
// without newly finished matches changes nothing.
func (e *ScoringEngine) EvaluateFinishedMatches(ctx context.Context) (ScoringReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringEngine.EvaluateFinishedMatches")
	defer span.End()

	pending, err := e.matches.ListPendingEvaluation(ctx)
	if err != nil {
		return ScoringReport{}, fmt.Errorf("list matches pending evaluation: %w", err)
	}

	var report ScoringReport
	for _, m := range pending {
		actual, ok := m.Result()
		if !ok {
			report.MatchesMissingScore++
			e.logger.WarnContext(ctx, "finished match without final score", "match_id", m.ID)
			continue
		}

		preds, err := e.predictions.ListByMatch(ctx, m.ID)
		if err != nil {
			return report, fmt.Errorf("list predictions for match %d: %w", m.ID, err)
		}

		evaluation := buildEvaluation(m.ID, actual, preds, e.now().UTC())
		saved, err := e.scoring.SaveEvaluation(ctx, evaluation)
		if err != nil {
			return report, fmt.Errorf("save evaluation for match %d: %w", m.ID, err)
		}
		if !saved {
			continue
		}

		report.MatchesEvaluated++
		report.PredictionsGraded += len(evaluation.Awards)
		for _, award := range evaluation.Awards {
			metrics.RecordPredictionScored(strconv.Itoa(award.Points))
		}
		e.logger.InfoContext(ctx, "match evaluated",
			"match_id", m.ID,
			"matchday", m.Matchday,
			"predictions", len(evaluation.Awards),
		)
	}

	users, err := e.scoring.RecomputeUserTotals(ctx)
	if err != nil {
		return report, fmt.Errorf("recompute user totals: %w", err)
	}
	report.UsersRecomputed = users

	span.SetAttributes(
		attribute.Int("matches_evaluated", report.MatchesEvaluated),
		attribute.Int("predictions_graded", report.PredictionsGraded),
	)
	return report, nil
}

func buildEvaluation(matchID int64, actual scoring.Outcome, preds []prediction.Prediction, at time.Time) scoring.Evaluation {
	awards := make([]scoring.Award, 0, len(preds))
	for _, p := range preds {
		awards = append(awards, scoring.Award{
			PredictionID: p.ID,
			UserID:       p.UserID,
			Points:       scoring.Grade(p.Outcome(), actual),
		})
	}
	return scoring.Evaluation{
		MatchID:     matchID,
		Actual:      actual,
		EvaluatedAt: at,
		Awards:      awards,
	}
}

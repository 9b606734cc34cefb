package postgres

import (
	"context"
	"fmt"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/scoring"
	qb "github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

// SaveEvaluation claims the match first. Losing the claim means another
// run graded it already and nothing is written.
func (r *ScoringRepository) SaveEvaluation(ctx context.Context, evaluation scoring.Evaluation) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx save evaluation: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	claimQuery, claimArgs, err := qb.Update("matches").
		Set("predictions_evaluated", true).
		Set("evaluated_at", evaluation.EvaluatedAt.UTC()).
		Where(
			qb.Eq("id", evaluation.MatchID),
			qb.Eq("predictions_evaluated", false),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build claim match evaluation query: %w", err)
	}
	res, err := tx.ExecContext(ctx, claimQuery, claimArgs...)
	if err != nil {
		return false, fmt.Errorf("claim match evaluation id=%d: %w", evaluation.MatchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected claim match id=%d: %w", evaluation.MatchID, err)
	}
	if affected == 0 {
		return false, nil
	}

	for _, award := range evaluation.Awards {
		query, args, err := qb.Update("predictions").
			Set("points", award.Points).
			Where(
				qb.Eq("id", award.PredictionID),
				qb.Eq("match_id", evaluation.MatchID),
			).
			ToSQL()
		if err != nil {
			return false, fmt.Errorf("build award prediction query: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return false, fmt.Errorf("award prediction id=%d: %w", award.PredictionID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return false, fmt.Errorf("prediction %d not found", award.PredictionID)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit save evaluation tx: %w", err)
	}
	return true, nil
}

const recomputeUserTotalsSQL = `
UPDATE users u
SET total_points = agg.total_points,
    correct_result = agg.correct_result,
    correct_goal_diff = agg.correct_goal_diff,
    correct_tendency = agg.correct_tendency
FROM (
    SELECT user_id,
           COALESCE(SUM(points), 0) AS total_points,
           COUNT(*) FILTER (WHERE points = $1) AS correct_result,
           COUNT(*) FILTER (WHERE points = $2) AS correct_goal_diff,
           COUNT(*) FILTER (WHERE points = $3) AS correct_tendency
    FROM predictions
    GROUP BY user_id
) AS agg
WHERE u.id = agg.user_id`

func (r *ScoringRepository) RecomputeUserTotals(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, recomputeUserTotalsSQL,
		scoring.PointsExact,
		scoring.PointsGoalDiff,
		scoring.PointsTendency,
	)
	if err != nil {
		return 0, fmt.Errorf("recompute user totals: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected recompute user totals: %w", err)
	}
	return int(affected), nil
}

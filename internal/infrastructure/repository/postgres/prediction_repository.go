package postgres

import (
	"context"
	"fmt"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
	qb "github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) selectPredictions(ctx context.Context, label string, orderBy []string, conditions ...qb.Condition) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(conditions...).
		OrderBy(orderBy...).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s query: %w", label, err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", label, err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID int64) ([]prediction.Prediction, error) {
	return r.selectPredictions(ctx, "predictions by match", []string{"id"}, qb.Eq("match_id", matchID))
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID int64) ([]prediction.Prediction, error) {
	return r.selectPredictions(ctx, "predictions by user", []string{"matchday", "match_id"}, qb.Eq("user_id", userID))
}

func (r *PredictionRepository) ListAll(ctx context.Context) ([]prediction.Prediction, error) {
	return r.selectPredictions(ctx, "predictions", []string{"user_id", "matchday", "match_id"})
}

func (r *PredictionRepository) Get(ctx context.Context, userID, matchID int64) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_id", matchID),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction user=%d match=%d: %w", userID, matchID, err)
	}
	return row.toDomain(), true, nil
}

// Upsert keeps awarded points; a changed tip is only possible before kickoff.
func (r *PredictionRepository) Upsert(ctx context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	return upsertPrediction(ctx, r.db, p)
}

func (r *PredictionRepository) UpsertMany(ctx context.Context, items []prediction.Prediction) ([]prediction.Prediction, error) {
	if len(items) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx upsert predictions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	out := make([]prediction.Prediction, 0, len(items))
	for _, p := range items {
		saved, err := upsertPrediction(ctx, tx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert predictions tx: %w", err)
	}
	return out, nil
}

func upsertPrediction(ctx context.Context, q sqlx.QueryerContext, p prediction.Prediction) (prediction.Prediction, error) {
	insertModel := predictionInsertModel{
		UserID:      p.UserID,
		MatchID:     p.MatchID,
		Matchday:    p.Matchday,
		Team1Score:  p.Team1Score,
		Team2Score:  p.Team2Score,
		GoalDiff:    p.GoalDiff,
		Tendency:    int(p.Tendency),
		SubmittedAt: p.SubmittedAt.UTC(),
	}
	query, args, err := qb.InsertModel("predictions", insertModel, `ON CONFLICT (user_id, match_id)
DO UPDATE SET
    matchday = EXCLUDED.matchday,
    team1_score = EXCLUDED.team1_score,
    team2_score = EXCLUDED.team2_score,
    goal_diff = EXCLUDED.goal_diff,
    tendency = EXCLUDED.tendency,
    submitted_at = EXCLUDED.submitted_at
RETURNING *`)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build upsert prediction query: %w", err)
	}

	var row predictionTableModel
	if err := q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction user=%d match=%d: %w", p.UserID, p.MatchID, err)
	}
	return row.toDomain(), nil
}

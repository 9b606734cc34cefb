package scoring

import "context"

type Repository interface {
	// SaveEvaluation persists awarded points and marks the match evaluated in one
	// transaction. It reports false when the match was already evaluated.
	SaveEvaluation(ctx context.Context, evaluation Evaluation) (bool, error)
	// RecomputeUserTotals rebuilds aggregates for every user with at least one prediction.
	RecomputeUserTotals(ctx context.Context) (int, error)
}

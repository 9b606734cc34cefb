package match

import (
	"context"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
)

type Repository interface {
	Count(ctx context.Context) (int, error)
	// InsertMany skips ids that already exist.
	InsertMany(ctx context.Context, matches []Match) error
	List(ctx context.Context) ([]Match, error)
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	ListReconcilable(ctx context.Context) ([]Match, error)
	ListPendingEvaluation(ctx context.Context) ([]Match, error)
	// NextUnfinishedMatchday returns false when every match is finished.
	NextUnfinishedMatchday(ctx context.Context) (int, bool, error)
	SourceUpdatedAt(ctx context.Context, matchday int) (timestamp.Timestamp, error)
	// ApplyUpdate writes u unless the match is already evaluated and reports whether a row changed.
	ApplyUpdate(ctx context.Context, id int64, u Update) (bool, error)
	LatestEvaluationAt(ctx context.Context) (*time.Time, error)
}

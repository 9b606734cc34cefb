package prediction

import "context"

type Repository interface {
	ListByMatch(ctx context.Context, matchID int64) ([]Prediction, error)
	// ListByUser is ordered by matchday ascending.
	ListByUser(ctx context.Context, userID int64) ([]Prediction, error)
	// ListAll is ordered by user id, then matchday ascending.
	ListAll(ctx context.Context) ([]Prediction, error)
	Get(ctx context.Context, userID, matchID int64) (Prediction, bool, error)
	// Upsert inserts or overwrites the (user, match) row and returns it with its id.
	Upsert(ctx context.Context, p Prediction) (Prediction, error)
	// UpsertMany writes every row or none.
	UpsertMany(ctx context.Context, items []Prediction) ([]Prediction, error)
}

package team

import (
	"context"
	"time"
)

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListByRank(ctx context.Context) ([]Team, error)
	Count(ctx context.Context) (int, error)
	TableState(ctx context.Context) (TableState, error)
	// InsertTeams stores clubs that do not exist yet and leaves existing rows untouched.
	InsertTeams(ctx context.Context, teams []Team, at time.Time) error
	// ReplaceStandings overwrites every given row and stamps all teams with refreshedAt.
	ReplaceStandings(ctx context.Context, standings []Standing, refreshedAt time.Time) error
}

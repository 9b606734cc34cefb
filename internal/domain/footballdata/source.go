package footballdata

import (
	"context"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
)

// Source is the authoritative provider for one league, season and tracked team.
// Implementations never return transport errors directly; every call yields a Result.
type Source interface {
	CurrentMatchday(ctx context.Context) Result[int]
	// LastChange reports when the provider last modified any match of matchday.
	// A successful result may carry an invalid timestamp when the value could not be parsed.
	LastChange(ctx context.Context, matchday int) Result[timestamp.Timestamp]
	// NextMatch is Absent once the tracked team has no upcoming match.
	NextMatch(ctx context.Context) Result[match.Match]
	Match(ctx context.Context, id int64) Result[match.Match]
	SeasonMatches(ctx context.Context) Result[[]match.Match]
	// Table returns standings in provider order. Ranks are not set.
	Table(ctx context.Context) Result[[]team.Standing]
	Teams(ctx context.Context) Result[[]team.Team]
}

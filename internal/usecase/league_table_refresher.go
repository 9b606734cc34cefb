package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/footballdata"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type LeagueTableRefresher struct {
	source footballdata.Source
	teams  team.Repository
	now    func() time.Time
	logger *logging.Logger
}

func NewLeagueTableRefresher(source footballdata.Source, teams team.Repository, logger *logging.Logger) *LeagueTableRefresher {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueTableRefresher{
		source: source,
		teams:  teams,
		now:    time.Now,
		logger: logger,
	}
}

// ImportTeams stores the league's clubs when the team table is empty.
func (r *LeagueTableRefresher) ImportTeams(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueTableRefresher.ImportTeams")
	defer span.End()

	count, err := r.teams.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	items, found, err := r.source.Teams(ctx).Get()
	if err != nil {
		return 0, fmt.Errorf("%w: teams: %w", ErrDependencyUnavailable, err)
	}
	if !found || len(items) == 0 {
		return 0, fmt.Errorf("%w: provider returned no teams", ErrDependencyUnavailable)
	}

	valid := make([]team.Team, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			r.logger.WarnContext(ctx, "skip invalid team", "team_id", item.ID, "error", err)
			continue
		}
		valid = append(valid, item)
	}
	if err := r.teams.InsertTeams(ctx, valid, r.now().UTC()); err != nil {
		return 0, fmt.Errorf("insert teams: %w", err)
	}

	r.logger.InfoContext(ctx, "imported league teams", "count", len(valid))
	return len(valid), nil
}

// Refresh overwrites every standing from the provider's ranked table and stamps
// all teams with one refresh time. An empty snapshot never clears the table.
func (r *LeagueTableRefresher) Refresh(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueTableRefresher.Refresh")
	defer span.End()

	if _, err := r.ImportTeams(ctx); err != nil {
		return 0, err
	}

	rows, found, err := r.source.Table(ctx).Get()
	if err != nil {
		return 0, fmt.Errorf("%w: table: %w", ErrDependencyUnavailable, err)
	}
	if !found || len(rows) == 0 {
		return 0, fmt.Errorf("%w: provider returned an empty table", ErrDependencyUnavailable)
	}

	ranked := team.RankStandings(rows)
	refreshedAt := r.now().UTC()
	if err := r.teams.ReplaceStandings(ctx, ranked, refreshedAt); err != nil {
		return 0, fmt.Errorf("replace standings: %w", err)
	}

	span.SetAttributes(attribute.Int("teams", len(ranked)))
	r.logger.InfoContext(ctx, "league table refreshed", "teams", len(ranked), "refreshed_at", refreshedAt)
	return len(ranked), nil
}

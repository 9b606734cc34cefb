package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/lock"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
)

// Reads never queue behind a running pass; they serve stored state instead.
type leagueTableSyncer interface {
	SyncLeagueTableIfIdle(ctx context.Context) (SyncReport, error)
}

type matchSyncer interface {
	SyncMatchesIfIdle(ctx context.Context) (SyncReport, error)
}

type LeagueTableService struct {
	teams      team.Repository
	syncer     leagueTableSyncer
	autoUpdate bool
	logger     *logging.Logger
}

// NewLeagueTableService refreshes the table before each read when autoUpdate is set.
func NewLeagueTableService(teams team.Repository, syncer leagueTableSyncer, autoUpdate bool, logger *logging.Logger) *LeagueTableService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueTableService{teams: teams, syncer: syncer, autoUpdate: autoUpdate, logger: logger}
}

func (s *LeagueTableService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueTableService.List")
	defer span.End()

	if s.autoUpdate && s.syncer != nil {
		_, err := s.syncer.SyncLeagueTableIfIdle(ctx)
		logAutoUpdate(ctx, s.logger, "table", err)
	}

	items, err := s.teams.ListByRank(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams by rank: %w", err)
	}
	return items, nil
}

type MatchView struct {
	Match match.Match
	Team1 team.Team
	Team2 team.Team
}

type MatchService struct {
	matches    match.Repository
	teams      team.Repository
	syncer     matchSyncer
	autoUpdate bool
	logger     *logging.Logger
}

func NewMatchService(matches match.Repository, teams team.Repository, syncer matchSyncer, autoUpdate bool, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{matches: matches, teams: teams, syncer: syncer, autoUpdate: autoUpdate, logger: logger}
}

// List returns every stored match with both clubs joined, ordered by matchday.
func (s *MatchService) List(ctx context.Context) ([]MatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	if s.autoUpdate && s.syncer != nil {
		_, err := s.syncer.SyncMatchesIfIdle(ctx)
		logAutoUpdate(ctx, s.logger, "matches", err)
	}

	matches, err := s.matches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	teams, err := s.teams.ListByRank(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	byID := make(map[int64]team.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}

	out := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchView{
			Match: m,
			Team1: teamOrPlaceholder(byID, m.Team1ID),
			Team2: teamOrPlaceholder(byID, m.Team2ID),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Match.Matchday != out[j].Match.Matchday {
			return out[i].Match.Matchday < out[j].Match.Matchday
		}
		return out[i].Match.ID < out[j].Match.ID
	})
	return out, nil
}

func logAutoUpdate(ctx context.Context, logger *logging.Logger, dataset string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, lock.ErrNotAcquired):
		logger.DebugContext(ctx, "sync already running, serving stored data", "dataset", dataset)
	default:
		logger.WarnContext(ctx, "automatic update failed, serving stored data", "dataset", dataset, "error", err)
	}
}

func teamOrPlaceholder(byID map[int64]team.Team, id int64) team.Team {
	if t, ok := byID[id]; ok {
		return t
	}
	return team.Team{ID: id}
}

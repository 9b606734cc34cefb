package usecase

import (
	"context"
	"fmt"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/footballdata"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/metrics"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
	"go.opentelemetry.io/otel/attribute"
)

type Dataset string

const (
	DatasetTable   Dataset = "table"
	DatasetMatches Dataset = "matches"
)

type StaleReason string

const (
	ReasonLocalEmpty              StaleReason = "local_empty"
	ReasonMatchdayBehind          StaleReason = "matchday_behind"
	ReasonLocalAhead              StaleReason = "local_ahead"
	ReasonSourceNewer             StaleReason = "source_newer"
	ReasonLocalTimestampMissing   StaleReason = "local_timestamp_missing"
	ReasonSourceTimestampUnusable StaleReason = "source_timestamp_unusable"
	ReasonUpToDate                StaleReason = "up_to_date"
	ReasonSeasonOver              StaleReason = "season_over"
	ReasonSeasonOverUnfinished    StaleReason = "season_over_unfinished"
)

// Decision is the outcome of one staleness check.
type Decision struct {
	Dataset          Dataset     `json:"dataset"`
	NeedsUpdate      bool        `json:"needs_update"`
	Reason           StaleReason `json:"reason"`
	ExternalMatchday int         `json:"external_matchday,omitempty"`
	LocalMatchday    int         `json:"local_matchday,omitempty"`
}

// SeasonImporter fills an empty match table.
type SeasonImporter interface {
	ImportSeason(ctx context.Context) (int, error)
}

type StalenessOptions struct {
	// MatchdayLag is how far the provider's current matchday may run ahead of
	// the local matches-played count before timestamps are skipped.
	MatchdayLag   int
	FinalMatchday int
}

func (o StalenessOptions) normalize() StalenessOptions {
	if o.MatchdayLag <= 0 {
		o.MatchdayLag = 1
	}
	if o.FinalMatchday <= 0 {
		o.FinalMatchday = match.FinalMatchday
	}
	return o
}

type StalenessDetector struct {
	source   footballdata.Source
	teams    team.Repository
	matches  match.Repository
	importer SeasonImporter
	opts     StalenessOptions
	logger   *logging.Logger
}

func NewStalenessDetector(
	source footballdata.Source,
	teams team.Repository,
	matches match.Repository,
	importer SeasonImporter,
	opts StalenessOptions,
	logger *logging.Logger,
) *StalenessDetector {
	if logger == nil {
		logger = logging.Default()
	}
	return &StalenessDetector{
		source:   source,
		teams:    teams,
		matches:  matches,
		importer: importer,
		opts:     opts.normalize(),
		logger:   logger,
	}
}

// LeagueTable decides whether the local table lags behind the provider.
// Provider failures return ErrDependencyUnavailable and no decision.
func (d *StalenessDetector) LeagueTable(ctx context.Context) (Decision, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StalenessDetector.LeagueTable")
	defer span.End()

	local, err := d.teams.TableState(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("load table state: %w", err)
	}

	current, ok, err := d.source.CurrentMatchday(ctx).Get()
	if err != nil {
		return Decision{}, fmt.Errorf("%w: current matchday: %w", ErrDependencyUnavailable, err)
	}
	if !ok {
		return Decision{}, fmt.Errorf("%w: current matchday missing", ErrDependencyUnavailable)
	}

	decision, decided := decideTableByMatchday(current, local, d.opts.MatchdayLag)
	if !decided {
		lastChange, _, err := d.source.LastChange(ctx, current).Get()
		if err != nil {
			return Decision{}, fmt.Errorf("%w: last change for matchday %d: %w", ErrDependencyUnavailable, current, err)
		}
		decision = decideByTimestamp(DatasetTable, lastChange, timestamp.FromPtr(local.LastRefreshedAt))
		decision.ExternalMatchday = current
		decision.LocalMatchday = local.MaxMatchesPlayed
	}

	d.record(ctx, decision)
	span.SetAttributes(attribute.Bool("stale", decision.NeedsUpdate), attribute.String("reason", string(decision.Reason)))
	return decision, nil
}

// Matches decides whether unfinished local matches need reconciling. An empty
// match table is imported first.
func (d *StalenessDetector) Matches(ctx context.Context) (Decision, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StalenessDetector.Matches")
	defer span.End()

	count, err := d.matches.Count(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("count matches: %w", err)
	}
	if count == 0 && d.importer != nil {
		imported, err := d.importer.ImportSeason(ctx)
		if err != nil {
			return Decision{}, fmt.Errorf("import season: %w", err)
		}
		d.logger.InfoContext(ctx, "imported season matches", "count", imported)
	}

	next, found, err := d.source.NextMatch(ctx).Get()
	if err != nil {
		return Decision{}, fmt.Errorf("%w: next match: %w", ErrDependencyUnavailable, err)
	}

	localNext, hasUnfinished, err := d.matches.NextUnfinishedMatchday(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("next unfinished matchday: %w", err)
	}
	if !hasUnfinished {
		localNext = d.opts.FinalMatchday
	}

	var decision Decision
	switch {
	case !found:
		decision = Decision{Dataset: DatasetMatches, Reason: ReasonSeasonOver, LocalMatchday: localNext}
		if hasUnfinished {
			decision.NeedsUpdate = true
			decision.Reason = ReasonSeasonOverUnfinished
		}
	case next.Matchday > localNext:
		decision = Decision{Dataset: DatasetMatches, NeedsUpdate: true, Reason: ReasonMatchdayBehind}
	case next.Matchday < localNext:
		decision = Decision{Dataset: DatasetMatches, Reason: ReasonLocalAhead}
	default:
		local, err := d.matches.SourceUpdatedAt(ctx, localNext)
		if err != nil {
			return Decision{}, fmt.Errorf("source timestamp for matchday %d: %w", localNext, err)
		}
		decision = decideByTimestamp(DatasetMatches, next.SourceUpdatedAt, local)
	}
	if found {
		decision.ExternalMatchday = next.Matchday
		decision.LocalMatchday = localNext
	}

	d.record(ctx, decision)
	span.SetAttributes(attribute.Bool("stale", decision.NeedsUpdate), attribute.String("reason", string(decision.Reason)))
	return decision, nil
}

func (d *StalenessDetector) record(ctx context.Context, decision Decision) {
	metrics.RecordStalenessDecision(string(decision.Dataset), string(decision.Reason))
	d.logger.DebugContext(ctx, "staleness decision",
		"dataset", decision.Dataset,
		"needs_update", decision.NeedsUpdate,
		"reason", decision.Reason,
		"external_matchday", decision.ExternalMatchday,
		"local_matchday", decision.LocalMatchday,
	)
}

// decideTableByMatchday is the coarse filter. It reports false when the
// timestamps have to be compared.
func decideTableByMatchday(external int, local team.TableState, lag int) (Decision, bool) {
	decision := Decision{
		Dataset:          DatasetTable,
		ExternalMatchday: external,
		LocalMatchday:    local.MaxMatchesPlayed,
	}
	if local.Teams == 0 {
		decision.NeedsUpdate = true
		decision.Reason = ReasonLocalEmpty
		return decision, true
	}
	if external > local.MaxMatchesPlayed+lag {
		decision.NeedsUpdate = true
		decision.Reason = ReasonMatchdayBehind
		return decision, true
	}
	return decision, false
}

// decideByTimestamp prefers a spurious refresh over serving stale data.
func decideByTimestamp(dataset Dataset, external, local timestamp.Timestamp) Decision {
	decision := Decision{Dataset: dataset, NeedsUpdate: true}
	switch {
	case !local.Valid():
		decision.Reason = ReasonLocalTimestampMissing
	case !external.Valid():
		decision.Reason = ReasonSourceTimestampUnusable
	case external.After(local):
		decision.Reason = ReasonSourceNewer
	default:
		decision.NeedsUpdate = false
		decision.Reason = ReasonUpToDate
	}
	return decision
}

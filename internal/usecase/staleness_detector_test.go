package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/footballdata"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	footballdatamock "github.com/1olp1/fch-tippspiel-23-local-version/internal/mocks/domain/footballdata"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
	"github.com/stretchr/testify/mock"
)

func TestDecideTableByMatchday(t *testing.T) {
	t.Parallel()

	populated := team.TableState{Teams: 18, MaxMatchesPlayed: 10}
	tests := []struct {
		name     string
		external int
		local    team.TableState
		decided  bool
		stale    bool
		reason   StaleReason
	}{
		{name: "empty local table", external: 1, local: team.TableState{}, decided: true, stale: true, reason: ReasonLocalEmpty},
		{name: "two matchdays behind", external: 12, local: populated, decided: true, stale: true, reason: ReasonMatchdayBehind},
		{name: "within lag", external: 11, local: populated, decided: false},
		{name: "same matchday", external: 10, local: populated, decided: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, decided := decideTableByMatchday(tc.external, tc.local, 1)
			if decided != tc.decided {
				t.Fatalf("unexpected decided flag: got=%v want=%v", decided, tc.decided)
			}
			if !decided {
				return
			}
			if got.NeedsUpdate != tc.stale || got.Reason != tc.reason {
				t.Fatalf("unexpected decision: %+v", got)
			}
		})
	}
}

func TestDecideByTimestamp(t *testing.T) {
	t.Parallel()

	older := ts("2023-10-01T10:00:00Z")
	newer := ts("2023-10-01T10:00:00.000001Z")

	tests := []struct {
		name     string
		external timestamp.Timestamp
		local    timestamp.Timestamp
		stale    bool
		reason   StaleReason
	}{
		{name: "local missing", external: newer, local: timestamp.Timestamp{}, stale: true, reason: ReasonLocalTimestampMissing},
		{name: "external unusable", external: timestamp.Timestamp{}, local: older, stale: true, reason: ReasonSourceTimestampUnusable},
		{name: "external newer", external: newer, local: older, stale: true, reason: ReasonSourceNewer},
		{name: "equal", external: older, local: older, stale: false, reason: ReasonUpToDate},
		{name: "external older", external: older, local: newer, stale: false, reason: ReasonUpToDate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := decideByTimestamp(DatasetMatches, tc.external, tc.local)
			if got.NeedsUpdate != tc.stale || got.Reason != tc.reason {
				t.Fatalf("unexpected decision: got=%+v want stale=%v reason=%s", got, tc.stale, tc.reason)
			}
		})
	}
}

func TestStalenessDetector_LeagueTable_TwoMatchdaysBehindSkipsTimestamp(t *testing.T) {
	t.Parallel()

	store := seedStore(t, nil, nil)
	seedTable(t, store, 10, time.Now().UTC())

	src := footballdatamock.NewSource(t)
	src.On("CurrentMatchday", mock.Anything).Return(footballdata.Succeeded(12)).Once()

	detector := NewStalenessDetector(src, store.Teams(), store.Matches(), nil, StalenessOptions{}, logging.NewNop())
	got, err := detector.LeagueTable(context.Background())
	if err != nil {
		t.Fatalf("league table decision: %v", err)
	}
	if !got.NeedsUpdate || got.Reason != ReasonMatchdayBehind {
		t.Fatalf("unexpected decision: %+v", got)
	}
	src.AssertNotCalled(t, "LastChange", mock.Anything, mock.Anything)
}

func TestStalenessDetector_LeagueTable_ComparesLastChange(t *testing.T) {
	t.Parallel()

	refreshedAt := time.Date(2023, 10, 8, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		lastChange footballdata.Result[timestamp.Timestamp]
		stale      bool
		reason     StaleReason
	}{
		{name: "provider changed later", lastChange: footballdata.Succeeded(timestamp.FromTime(refreshedAt.Add(time.Hour))), stale: true, reason: ReasonSourceNewer},
		{name: "provider unchanged", lastChange: footballdata.Succeeded(timestamp.FromTime(refreshedAt.Add(-time.Hour))), stale: false, reason: ReasonUpToDate},
		{name: "provider timestamp missing", lastChange: footballdata.Absent[timestamp.Timestamp](), stale: true, reason: ReasonSourceTimestampUnusable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := seedStore(t, nil, nil)
			seedTable(t, store, 7, refreshedAt)

			src := footballdatamock.NewSource(t)
			src.On("CurrentMatchday", mock.Anything).Return(footballdata.Succeeded(8)).Once()
			src.On("LastChange", mock.Anything, 8).Return(tc.lastChange).Once()

			detector := NewStalenessDetector(src, store.Teams(), store.Matches(), nil, StalenessOptions{}, logging.NewNop())
			got, err := detector.LeagueTable(context.Background())
			if err != nil {
				t.Fatalf("league table decision: %v", err)
			}
			if got.NeedsUpdate != tc.stale || got.Reason != tc.reason {
				t.Fatalf("unexpected decision: %+v", got)
			}
		})
	}
}

func TestStalenessDetector_LeagueTable_ProviderDown(t *testing.T) {
	t.Parallel()

	store := seedStore(t, nil, nil)
	src := footballdatamock.NewSource(t)
	src.On("CurrentMatchday", mock.Anything).Return(footballdata.Failed[int](errors.New("timeout"))).Once()

	detector := NewStalenessDetector(src, store.Teams(), store.Matches(), nil, StalenessOptions{}, logging.NewNop())
	_, err := detector.LeagueTable(context.Background())
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestStalenessDetector_Matches_MissingLocalTimestamp(t *testing.T) {
	t.Parallel()

	store := seedStore(t, nil, []match.Match{
		finishedMatch(1, 4, 1, 0),
		openMatch(2, 5),
	})

	next := openMatch(2, 5)
	next.SourceUpdatedAt = ts("2023-09-20T09:00:00Z")

	src := footballdatamock.NewSource(t)
	src.On("NextMatch", mock.Anything).Return(footballdata.Succeeded(next)).Once()

	detector := NewStalenessDetector(src, store.Teams(), store.Matches(), nil, StalenessOptions{}, logging.NewNop())
	got, err := detector.Matches(context.Background())
	if err != nil {
		t.Fatalf("match decision: %v", err)
	}
	if !got.NeedsUpdate || got.Reason != ReasonLocalTimestampMissing {
		t.Fatalf("unexpected decision: %+v", got)
	}
	if got.ExternalMatchday != 5 || got.LocalMatchday != 5 {
		t.Fatalf("unexpected matchdays: external=%d local=%d", got.ExternalMatchday, got.LocalMatchday)
	}
}

func TestStalenessDetector_Matches_ComparesMatchdays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		external  int
		stale     bool
		reason    StaleReason
		localNext int
	}{
		{name: "provider ahead", external: 6, stale: true, reason: ReasonMatchdayBehind, localNext: 5},
		{name: "provider behind", external: 4, stale: false, reason: ReasonLocalAhead, localNext: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := seedStore(t, nil, []match.Match{openMatch(2, 5), openMatch(3, 6)})

			src := footballdatamock.NewSource(t)
			src.On("NextMatch", mock.Anything).Return(footballdata.Succeeded(openMatch(9, tc.external))).Once()

			detector := NewStalenessDetector(src, store.Teams(), store.Matches(), nil, StalenessOptions{}, logging.NewNop())
			got, err := detector.Matches(context.Background())
			if err != nil {
				t.Fatalf("match decision: %v", err)
			}
			if got.NeedsUpdate != tc.stale || got.Reason != tc.reason || got.LocalMatchday != tc.localNext {
				t.Fatalf("unexpected decision: %+v", got)
			}
		})
	}
}

func TestStalenessDetector_Matches_SeasonOver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		matches []match.Match
		stale   bool
		reason  StaleReason
	}{
		{name: "all finished", matches: []match.Match{finishedMatch(1, 33, 1, 1), finishedMatch(2, 34, 2, 0)}, stale: false, reason: ReasonSeasonOver},
		{name: "last match unfinished", matches: []match.Match{finishedMatch(1, 33, 1, 1), openMatch(2, 34)}, stale: true, reason: ReasonSeasonOverUnfinished},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := seedStore(t, nil, tc.matches)

			src := footballdatamock.NewSource(t)
			src.On("NextMatch", mock.Anything).Return(footballdata.Absent[match.Match]()).Once()

			detector := NewStalenessDetector(src, store.Teams(), store.Matches(), nil, StalenessOptions{}, logging.NewNop())
			got, err := detector.Matches(context.Background())
			if err != nil {
				t.Fatalf("match decision: %v", err)
			}
			if got.NeedsUpdate != tc.stale || got.Reason != tc.reason {
				t.Fatalf("unexpected decision: %+v", got)
			}
		})
	}
}

func TestStalenessDetector_Matches_ImportsEmptySeason(t *testing.T) {
	t.Parallel()

	store := seedStore(t, nil, nil)
	season := []match.Match{finishedMatch(1, 1, 2, 2), openMatch(2, 2), openMatch(3, 3)}
	season[1].SourceUpdatedAt = ts("2023-08-25T08:00:00Z")

	src := footballdatamock.NewSource(t)
	src.On("SeasonMatches", mock.Anything).Return(footballdata.Succeeded(season)).Once()
	src.On("NextMatch", mock.Anything).Return(footballdata.Succeeded(season[1])).Once()

	reconciler := NewMatchReconciler(src, store.Matches(), 2, logging.NewNop())
	detector := NewStalenessDetector(src, store.Teams(), store.Matches(), reconciler, StalenessOptions{}, logging.NewNop())

	got, err := detector.Matches(context.Background())
	if err != nil {
		t.Fatalf("match decision: %v", err)
	}
	if got.NeedsUpdate || got.Reason != ReasonUpToDate {
		t.Fatalf("unexpected decision after import: %+v", got)
	}

	count, _ := store.Matches().Count(context.Background())
	if count != len(season) {
		t.Fatalf("unexpected imported count: got=%d want=%d", count, len(season))
	}
}

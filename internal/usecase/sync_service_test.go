package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/footballdata"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/infrastructure/repository/memory"
	footballdatamock "github.com/1olp1/fch-tippspiel-23-local-version/internal/mocks/domain/footballdata"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/lock"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedIDs struct{ id string }

func (f fixedIDs) NewID() (string, error) { return f.id, nil }

type recordingLocker struct {
	inner *lock.LocalLocker
	keys  []string
}

func (l *recordingLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.keys = append(l.keys, key)
	return l.inner.Acquire(ctx, key)
}

func (l *recordingLocker) TryAcquire(ctx context.Context, key string) (func(), error) {
	l.keys = append(l.keys, key)
	return l.inner.TryAcquire(ctx, key)
}

func newSyncFixture(t *testing.T, store *memory.Store, src footballdata.Source, locker lock.Locker) *SyncService {
	t.Helper()

	logger := logging.NewNop()
	reconciler := NewMatchReconciler(src, store.Matches(), 2, logger)
	detector := NewStalenessDetector(src, store.Teams(), store.Matches(), reconciler, StalenessOptions{}, logger)
	refresher := NewLeagueTableRefresher(src, store.Teams(), logger)
	scorer := NewScoringEngine(store.Matches(), store.Predictions(), store.Scoring(), logger)

	return NewSyncService(SyncConfig{League: "bl1", Season: 2023}, detector, reconciler, refresher, scorer, locker, fixedIDs{id: "run-1"}, logger)
}

func TestSyncService_SyncAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	local := openMatch(1, 1)
	store := seedStore(t, []user.User{{ID: 1, Username: "demo"}}, []match.Match{local, openMatch(2, 2)})
	seedPrediction(t, store, 1, local, 3, 1)

	finished := finishedMatch(1, 1, 2, 0)
	finished.SourceUpdatedAt = ts("2023-08-19T15:25:00Z")
	next := openMatch(2, 2)

	src := footballdatamock.NewSource(t)
	src.On("CurrentMatchday", mock.Anything).Return(footballdata.Succeeded(2)).Once()
	src.On("Teams", mock.Anything).Return(footballdata.Succeeded([]team.Team{
		{ID: 199, Name: "1. FC Heidenheim 1846", ShortName: "Heidenheim"},
		{ID: 101, Name: "VfL Wolfsburg", ShortName: "Wolfsburg"},
	})).Once()
	src.On("Table", mock.Anything).Return(footballdata.Succeeded([]team.Standing{
		{TeamID: 199, Points: 3, Matches: 1, Won: 1, Goals: 2, GoalDiff: 2},
		{TeamID: 101, Points: 0, Matches: 1, Lost: 1, OpponentGoals: 2, GoalDiff: -2},
	})).Once()
	// provider already moved to matchday 2 while local still waits on matchday 1
	src.On("NextMatch", mock.Anything).Return(footballdata.Succeeded(next)).Once()
	src.On("Match", mock.Anything, int64(1)).Return(footballdata.Succeeded(finished)).Once()
	src.On("Match", mock.Anything, int64(2)).Return(footballdata.Succeeded(next)).Once()

	locker := &recordingLocker{inner: lock.NewLocalLocker()}
	report, err := newSyncFixture(t, store, src, locker).SyncAll(ctx)
	require.NoError(t, err)

	require.Equal(t, "run-1", report.RunID)
	require.Equal(t, []string{"season:bl1:2023"}, locker.keys)
	require.NotNil(t, report.Table)
	require.Equal(t, syncStatusSuccess, report.Table.Status)
	require.Equal(t, 2, report.Table.Refreshed)
	require.NotNil(t, report.Matches)
	require.Equal(t, syncStatusSuccess, report.Matches.Status)
	require.Equal(t, 2, report.Matches.Reconcile.Applied)
	require.Equal(t, 1, report.Matches.Scoring.MatchesEvaluated)

	teams, err := store.Teams().ListByRank(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(199), teams[0].ID)
	require.Equal(t, 1, teams[0].Standing.Rank)

	u, _, _ := store.Users().GetByID(ctx, 1)
	require.Equal(t, user.Stats{TotalPoints: 3, CorrectGoalDiffs: 1}, u.Stats)
}

func TestSyncService_ProviderDownKeepsCachedStateAndStillScores(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := finishedMatch(1, 1, 1, 1)
	store := seedStore(t, []user.User{{ID: 1, Username: "demo"}}, []match.Match{m, openMatch(2, 2)})
	seedTable(t, store, 1, time.Date(2023, 8, 20, 0, 0, 0, 0, time.UTC))
	seedPrediction(t, store, 1, m, 1, 1)

	down := errors.New("connection refused")
	src := footballdatamock.NewSource(t)
	src.On("CurrentMatchday", mock.Anything).Return(footballdata.Failed[int](down)).Once()
	src.On("NextMatch", mock.Anything).Return(footballdata.Failed[match.Match](down)).Once()

	report, err := newSyncFixture(t, store, src, nil).SyncAll(ctx)
	require.NoError(t, err)
	require.Equal(t, syncStatusDegraded, report.Table.Status)
	require.Equal(t, syncStatusDegraded, report.Matches.Status)
	require.Nil(t, report.Matches.Reconcile)
	require.Equal(t, 1, report.Matches.Scoring.MatchesEvaluated)

	state, err := store.Teams().TableState(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, state.Teams)

	u, _, _ := store.Users().GetByID(ctx, 1)
	require.Equal(t, 4, u.Stats.TotalPoints)
}

func TestSyncService_LockTimeout(t *testing.T) {
	t.Parallel()

	store := seedStore(t, nil, nil)
	locker := lock.NewLocalLocker()
	release, err := locker.Acquire(context.Background(), "season:bl1:2023")
	require.NoError(t, err)
	defer release()

	src := footballdatamock.NewSource(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = newSyncFixture(t, store, src, locker).SyncLeagueTable(ctx)
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSyncService_HeldLockFailsFastWithBoundedWait(t *testing.T) {
	t.Parallel()

	store := seedStore(t, nil, nil)
	locker := lock.NewLocalLocker()
	release, err := locker.Acquire(context.Background(), "season:bl1:2023")
	require.NoError(t, err)
	defer release()

	svc := newSyncFixture(t, store, footballdatamock.NewSource(t), locker)
	svc.cfg.LockWait = 20 * time.Millisecond

	started := time.Now()
	_, err = svc.SyncLeagueTable(context.Background())
	require.ErrorIs(t, err, lock.ErrNotAcquired)
	require.Less(t, time.Since(started), time.Second)
}

func TestSyncService_IfIdleDoesNotQueue(t *testing.T) {
	t.Parallel()

	store := seedStore(t, nil, nil)
	locker := lock.NewLocalLocker()
	release, err := locker.Acquire(context.Background(), "season:bl1:2023")
	require.NoError(t, err)
	defer release()

	svc := newSyncFixture(t, store, footballdatamock.NewSource(t), locker)
	started := time.Now()
	_, err = svc.SyncLeagueTableIfIdle(context.Background())
	require.ErrorIs(t, err, lock.ErrNotAcquired)
	_, err = svc.SyncMatchesIfIdle(context.Background())
	require.ErrorIs(t, err, lock.ErrNotAcquired)
	require.Less(t, time.Since(started), 100*time.Millisecond)
}

func TestSyncService_PassIsCappedByTimeout(t *testing.T) {
	t.Parallel()

	store := seedStore(t, nil, nil)
	seedTable(t, store, 1, time.Date(2023, 8, 20, 0, 0, 0, 0, time.UTC))

	src := footballdatamock.NewSource(t)
	src.On("CurrentMatchday", mock.Anything).
		Run(func(args mock.Arguments) {
			// a provider that never answers
			<-args.Get(0).(context.Context).Done()
		}).
		Return(footballdata.Failed[int](context.DeadlineExceeded)).Once()

	svc := newSyncFixture(t, store, src, nil)
	svc.cfg.Timeout = 20 * time.Millisecond

	started := time.Now()
	report, err := svc.SyncLeagueTable(context.Background())
	require.NoError(t, err)
	require.Equal(t, syncStatusDegraded, report.Table.Status)
	require.Less(t, time.Since(started), time.Second)
}

func TestLeagueTableService_ServesStoredTableWhileSyncRuns(t *testing.T) {
	t.Parallel()

	store := seedStore(t, nil, nil)
	seedTable(t, store, 1, time.Date(2023, 8, 20, 0, 0, 0, 0, time.UTC))
	locker := lock.NewLocalLocker()
	release, err := locker.Acquire(context.Background(), "season:bl1:2023")
	require.NoError(t, err)
	defer release()

	// no provider expectations: the read must not start a second pass
	svc := newSyncFixture(t, store, footballdatamock.NewSource(t), locker)
	reads := NewLeagueTableService(store.Teams(), svc, true, logging.NewNop())

	started := time.Now()
	teams, err := reads.List(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	require.Less(t, time.Since(started), 100*time.Millisecond)
}

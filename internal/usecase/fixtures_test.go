package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/infrastructure/repository/memory"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
)

var testKickoff = time.Date(2023, 8, 19, 13, 30, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func ts(raw string) timestamp.Timestamp {
	return timestamp.MustParse(raw)
}

func openMatch(id int64, matchday int) match.Match {
	return match.Match{
		ID:        id,
		Matchday:  matchday,
		Team1ID:   199,
		Team2ID:   int64(100 + matchday),
		KickoffAt: testKickoff.AddDate(0, 0, 7*(matchday-1)),
	}
}

func finishedMatch(id int64, matchday, s1, s2 int) match.Match {
	m := openMatch(id, matchday)
	m.Finished = true
	m.Team1Score = intPtr(s1)
	m.Team2Score = intPtr(s2)
	return m
}

func seedStore(t *testing.T, users []user.User, matches []match.Match) *memory.Store {
	t.Helper()

	store := memory.NewStore()
	store.AddUsers(users...)
	if err := store.Matches().InsertMany(context.Background(), matches); err != nil {
		t.Fatalf("seed matches: %v", err)
	}
	return store
}

func seedPrediction(t *testing.T, store *memory.Store, userID int64, m match.Match, s1, s2 int) prediction.Prediction {
	t.Helper()

	p, err := prediction.New(userID, m.ID, m.Matchday, s1, s2, testKickoff.Add(-time.Hour))
	if err != nil {
		t.Fatalf("new prediction: %v", err)
	}
	saved, err := store.Predictions().Upsert(context.Background(), p)
	if err != nil {
		t.Fatalf("seed prediction: %v", err)
	}
	return saved
}

func seedTable(t *testing.T, store *memory.Store, matchesPlayed int, refreshedAt time.Time) {
	t.Helper()

	ctx := context.Background()
	teams := []team.Team{
		{ID: 199, Name: "1. FC Heidenheim 1846"},
		{ID: 40, Name: "FC Bayern München"},
	}
	if err := store.Teams().InsertTeams(ctx, teams, refreshedAt); err != nil {
		t.Fatalf("seed teams: %v", err)
	}
	rows := []team.Standing{
		{TeamID: 40, Matches: matchesPlayed, Points: 3 * matchesPlayed},
		{TeamID: 199, Matches: matchesPlayed, Points: matchesPlayed},
	}
	if err := store.Teams().ReplaceStandings(ctx, team.RankStandings(rows), refreshedAt); err != nil {
		t.Fatalf("seed standings: %v", err)
	}
}

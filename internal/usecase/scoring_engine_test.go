package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/scoring"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/infrastructure/repository/memory"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
)

func newScoringFixture(t *testing.T) (*memory.Store, *ScoringEngine) {
	t.Helper()

	users := []user.User{
		{ID: 1, Username: "exact"},
		{ID: 2, Username: "diff"},
		{ID: 3, Username: "tendency"},
		{ID: 4, Username: "miss"},
		{ID: 5, Username: "lurker"},
	}
	m1 := finishedMatch(1, 1, 2, 1)
	m2 := finishedMatch(2, 2, 0, 0)
	m3 := openMatch(3, 3)
	store := seedStore(t, users, []match.Match{m1, m2, m3})

	seedPrediction(t, store, 1, m1, 2, 1)
	seedPrediction(t, store, 2, m1, 3, 2)
	seedPrediction(t, store, 3, m1, 4, 0)
	seedPrediction(t, store, 4, m1, 0, 1)
	seedPrediction(t, store, 1, m2, 0, 0)
	seedPrediction(t, store, 2, m2, 1, 1)
	seedPrediction(t, store, 3, m3, 1, 0)

	engine := NewScoringEngine(store.Matches(), store.Predictions(), store.Scoring(), logging.NewNop())
	engine.now = func() time.Time { return time.Date(2023, 8, 27, 20, 0, 0, 0, time.UTC) }
	return store, engine
}

func TestScoringEngine_EvaluateFinishedMatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, engine := newScoringFixture(t)

	report, err := engine.EvaluateFinishedMatches(ctx)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.MatchesEvaluated != 2 || report.PredictionsGraded != 6 {
		t.Fatalf("unexpected report: %+v", report)
	}

	want := map[int64]user.Stats{
		1: {TotalPoints: 8, ExactResults: 2},
		2: {TotalPoints: 6, CorrectGoalDiffs: 2},
		3: {TotalPoints: 2, CorrectTendencies: 1},
		4: {},
		5: {},
	}
	for id, stats := range want {
		got, _, _ := store.Users().GetByID(ctx, id)
		if got.Stats != stats {
			t.Fatalf("unexpected stats for user %d: got=%+v want=%+v", id, got.Stats, stats)
		}
	}

	open, _, _ := store.Matches().GetByID(ctx, 3)
	if open.PredictionsEvaluated {
		t.Fatalf("unfinished match must stay unevaluated")
	}
	for _, id := range []int64{1, 2} {
		m, _, _ := store.Matches().GetByID(ctx, id)
		if !m.PredictionsEvaluated || m.EvaluatedAt == nil {
			t.Fatalf("match %d not marked evaluated: %+v", id, m)
		}
	}
}

func TestScoringEngine_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, engine := newScoringFixture(t)

	if _, err := engine.EvaluateFinishedMatches(ctx); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	before, _ := store.Users().List(ctx)
	predsBefore, _ := store.Predictions().ListAll(ctx)

	report, err := engine.EvaluateFinishedMatches(ctx)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if report.MatchesEvaluated != 0 || report.PredictionsGraded != 0 {
		t.Fatalf("second pass changed state: %+v", report)
	}

	after, _ := store.Users().List(ctx)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("user changed on replay: before=%+v after=%+v", before[i], after[i])
		}
	}
	predsAfter, _ := store.Predictions().ListAll(ctx)
	for i := range predsBefore {
		if predsBefore[i].Points != predsAfter[i].Points {
			t.Fatalf("prediction %d changed on replay", predsBefore[i].ID)
		}
	}
}

func TestScoringEngine_AggregatesMatchPredictionRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, engine := newScoringFixture(t)
	if _, err := engine.EvaluateFinishedMatches(ctx); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	users, _ := store.Users().List(ctx)
	for _, u := range users {
		preds, _ := store.Predictions().ListByUser(ctx, u.ID)
		var want user.Stats
		for _, p := range preds {
			want.TotalPoints += p.Points
			switch p.Points {
			case scoring.PointsExact:
				want.ExactResults++
			case scoring.PointsGoalDiff:
				want.CorrectGoalDiffs++
			case scoring.PointsTendency:
				want.CorrectTendencies++
			}
		}
		if u.Stats != want {
			t.Fatalf("aggregate drift for user %d: got=%+v want=%+v", u.ID, u.Stats, want)
		}
	}
}

func TestScoringEngine_SkipsFinishedMatchWithoutScore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := openMatch(1, 1)
	m.Finished = true
	store := seedStore(t, []user.User{{ID: 1, Username: "demo"}}, []match.Match{m})
	seedPrediction(t, store, 1, m, 1, 0)

	engine := NewScoringEngine(store.Matches(), store.Predictions(), store.Scoring(), logging.NewNop())
	report, err := engine.EvaluateFinishedMatches(ctx)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.MatchesMissingScore != 1 || report.MatchesEvaluated != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	got, _, _ := store.Matches().GetByID(ctx, 1)
	if got.PredictionsEvaluated {
		t.Fatalf("match without score must stay unevaluated")
	}
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"
)

// LeaderboardTip is a prediction as shown to other users. Revealed is set once
// the match has kicked off, so scorelines of open matches stay private.
type LeaderboardTip struct {
	prediction.Prediction
	Revealed bool
}

type LeaderboardEntry struct {
	Rank        int
	User        user.User
	Predictions []LeaderboardTip
}

type Leaderboard struct {
	Entries         []LeaderboardEntry
	LastEvaluatedAt *time.Time
}

type LeaderboardService struct {
	users       user.Repository
	predictions prediction.Repository
	matches     match.Repository
	// tendencyDescending flips the last tie-break, which ranks fewer correct
	// tendencies higher by default.
	tendencyDescending bool
	now                func() time.Time
}

func NewLeaderboardService(users user.Repository, predictions prediction.Repository, matches match.Repository, tendencyDescending bool) *LeaderboardService {
	return &LeaderboardService{
		users:              users,
		predictions:        predictions,
		matches:            matches,
		tendencyDescending: tendencyDescending,
		now:                time.Now,
	}
}

func (s *LeaderboardService) Get(ctx context.Context) (Leaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Get")
	defer span.End()

	users, err := s.users.List(ctx)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("list users: %w", err)
	}
	preds, err := s.predictions.ListAll(ctx)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("list predictions: %w", err)
	}
	matches, err := s.matches.List(ctx)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("list matches: %w", err)
	}
	lastEvaluatedAt, err := s.matches.LatestEvaluationAt(ctx)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("latest evaluation time: %w", err)
	}

	now := s.now().UTC()
	revealed := make(map[int64]bool, len(matches))
	for _, m := range matches {
		revealed[m.ID] = !m.OpenForPredictions(now)
	}

	byUser := make(map[int64][]LeaderboardTip, len(users))
	for _, p := range preds {
		byUser[p.UserID] = append(byUser[p.UserID], LeaderboardTip{Prediction: p, Revealed: revealed[p.MatchID]})
	}

	ranked := RankUsers(users, s.tendencyDescending)
	entries := make([]LeaderboardEntry, 0, len(ranked))
	for idx, u := range ranked {
		own := byUser[u.ID]
		sort.SliceStable(own, func(i, j int) bool { return own[i].Matchday < own[j].Matchday })
		entries = append(entries, LeaderboardEntry{
			Rank:        idx + 1,
			User:        u,
			Predictions: own,
		})
	}

	return Leaderboard{Entries: entries, LastEvaluatedAt: lastEvaluatedAt}, nil
}

// RankUsers orders by total points, exact results and goal differences
// descending, then correct tendencies, then user id.
func RankUsers(users []user.User, tendencyDescending bool) []user.User {
	out := append([]user.User(nil), users...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Stats, out[j].Stats
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.ExactResults != b.ExactResults {
			return a.ExactResults > b.ExactResults
		}
		if a.CorrectGoalDiffs != b.CorrectGoalDiffs {
			return a.CorrectGoalDiffs > b.CorrectGoalDiffs
		}
		if a.CorrectTendencies != b.CorrectTendencies {
			if tendencyDescending {
				return a.CorrectTendencies > b.CorrectTendencies
			}
			return a.CorrectTendencies < b.CorrectTendencies
		}
		return out[i].ID < out[j].ID
	})
	return out
}

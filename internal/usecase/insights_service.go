package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"
)

type Insights struct {
	Username             string  `json:"username"`
	PredictionsRated     int     `json:"predictions_rated"`
	TotalPredicted       int     `json:"total_games_predicted"`
	MissedGames          int     `json:"missed_games"`
	TotalPoints          int     `json:"total_points"`
	Rank                 int     `json:"rank"`
	Users                int     `json:"no_users"`
	ExactResults         int     `json:"corr_result"`
	CorrectGoalDiffs     int     `json:"corr_goal_diff"`
	CorrectTendencies    int     `json:"corr_tendency"`
	WrongPredictions     int     `json:"wrong_predictions"`
	ExactResultsPct      int     `json:"corr_result_p"`
	CorrectGoalDiffsPct  int     `json:"corr_goal_diff_p"`
	CorrectTendenciesPct int     `json:"corr_tendency_p"`
	WrongPredictionsPct  int     `json:"wrong_predictions_p"`
	PointsPerTip         float64 `json:"points_per_tip"`
}

type InsightsService struct {
	users       user.Repository
	matches     match.Repository
	predictions prediction.Repository
}

func NewInsightsService(users user.Repository, matches match.Repository, predictions prediction.Repository) *InsightsService {
	return &InsightsService{users: users, matches: matches, predictions: predictions}
}

func (s *InsightsService) Get(ctx context.Context, userID int64) (Insights, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InsightsService.Get")
	defer span.End()

	if userID <= 0 {
		return Insights{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	u, found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Insights{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return Insights{}, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return Insights{}, fmt.Errorf("list users: %w", err)
	}
	matches, err := s.matches.List(ctx)
	if err != nil {
		return Insights{}, fmt.Errorf("list matches: %w", err)
	}
	preds, err := s.predictions.ListByUser(ctx, userID)
	if err != nil {
		return Insights{}, fmt.Errorf("list predictions by user: %w", err)
	}

	finished := make(map[int64]struct{}, len(matches))
	for _, m := range matches {
		if m.Finished {
			finished[m.ID] = struct{}{}
		}
	}
	rated := 0
	for _, p := range preds {
		if _, ok := finished[p.MatchID]; ok {
			rated++
		}
	}

	out := Insights{
		Username:          u.Username,
		PredictionsRated:  rated,
		TotalPredicted:    len(preds),
		MissedGames:       len(finished) - rated,
		TotalPoints:       u.Stats.TotalPoints,
		Rank:              pointsRank(users, userID),
		Users:             len(users),
		ExactResults:      u.Stats.ExactResults,
		CorrectGoalDiffs:  u.Stats.CorrectGoalDiffs,
		CorrectTendencies: u.Stats.CorrectTendencies,
	}
	out.WrongPredictions = rated - out.ExactResults - out.CorrectGoalDiffs - out.CorrectTendencies
	if rated > 0 {
		out.ExactResultsPct = percent(out.ExactResults, rated)
		out.CorrectGoalDiffsPct = percent(out.CorrectGoalDiffs, rated)
		out.CorrectTendenciesPct = percent(out.CorrectTendencies, rated)
		out.WrongPredictionsPct = percent(out.WrongPredictions, rated)
		out.PointsPerTip = math.Round(float64(out.TotalPoints)/float64(rated)*100) / 100
	}
	return out, nil
}

// pointsRank is the 1-based row number ordered by total points only.
func pointsRank(users []user.User, userID int64) int {
	ordered := append([]user.User(nil), users...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Stats.TotalPoints != ordered[j].Stats.TotalPoints {
			return ordered[i].Stats.TotalPoints > ordered[j].Stats.TotalPoints
		}
		return ordered[i].ID < ordered[j].ID
	})
	for idx, u := range ordered {
		if u.ID == userID {
			return idx + 1
		}
	}
	return 0
}

func percent(part, total int) int {
	return int(math.RoundToEven(float64(part) / float64(total) * 100))
}

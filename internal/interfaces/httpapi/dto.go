package httpapi

import (
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/scoring"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/usecase"
)

type tableRowDTO struct {
	Rank          int        `json:"rank"`
	TeamID        int64      `json:"team_id"`
	Name          string     `json:"name"`
	ShortName     string     `json:"short_name,omitempty"`
	IconURL       string     `json:"icon_url,omitempty"`
	Points        int        `json:"points"`
	Matches       int        `json:"matches"`
	Won           int        `json:"won"`
	Draw          int        `json:"draw"`
	Lost          int        `json:"lost"`
	Goals         int        `json:"goals"`
	OpponentGoals int        `json:"opponent_goals"`
	GoalDiff      int        `json:"goal_diff"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type teamRefDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	ShortName string `json:"short_name,omitempty"`
	IconURL   string `json:"icon_url,omitempty"`
}

type matchDTO struct {
	ID                   int64      `json:"id"`
	Matchday             int        `json:"matchday"`
	KickoffAt            time.Time  `json:"kickoff_at"`
	Team1                teamRefDTO `json:"team1"`
	Team2                teamRefDTO `json:"team2"`
	Team1Score           *int       `json:"team1_score"`
	Team2Score           *int       `json:"team2_score"`
	Finished             bool       `json:"finished"`
	PredictionsEvaluated bool       `json:"predictions_evaluated"`
	OpenForPredictions   bool       `json:"open_for_predictions"`
}

type predictionDTO struct {
	ID          int64     `json:"id"`
	MatchID     int64     `json:"match_id"`
	Matchday    int       `json:"matchday"`
	Team1Score  int       `json:"team1_score"`
	Team2Score  int       `json:"team2_score"`
	GoalDiff    int       `json:"goal_diff"`
	Tendency    string    `json:"tendency"`
	SubmittedAt time.Time `json:"submitted_at"`
	Points      int       `json:"points"`
}

type leaderboardDTO struct {
	LastEvaluatedAt *time.Time            `json:"last_evaluated_at"`
	Entries         []leaderboardEntryDTO `json:"entries"`
}

type leaderboardEntryDTO struct {
	Rank              int                `json:"rank"`
	UserID            int64              `json:"user_id"`
	Username          string             `json:"username"`
	TotalPoints       int                `json:"total_points"`
	ExactResults      int                `json:"corr_result"`
	CorrectGoalDiffs  int                `json:"corr_goal_diff"`
	CorrectTendencies int                `json:"corr_tendency"`
	Matchdays         []matchdayPointDTO `json:"matchdays"`
}

// matchdayPointDTO omits the scoreline until the match kicks off.
type matchdayPointDTO struct {
	MatchID    int64 `json:"match_id"`
	Matchday   int   `json:"matchday"`
	Team1Score *int  `json:"team1_score,omitempty"`
	Team2Score *int  `json:"team2_score,omitempty"`
	Points     int   `json:"points"`
}

type predictionSubmitRequest struct {
	Predictions []predictionInputRequest `json:"predictions" validate:"required,min=1,max=34,dive"`
}

type predictionInputRequest struct {
	MatchID    int64 `json:"match_id" validate:"required,gt=0"`
	Team1Score *int  `json:"team1_score" validate:"required,gte=0,lte=99"`
	Team2Score *int  `json:"team2_score" validate:"required,gte=0,lte=99"`
}

type predictionSubmitDTO struct {
	Saved     []predictionDTO `json:"saved"`
	Unchanged int             `json:"unchanged"`
}

func (r predictionSubmitRequest) toInputs() []usecase.PredictionInput {
	out := make([]usecase.PredictionInput, 0, len(r.Predictions))
	for _, p := range r.Predictions {
		out = append(out, usecase.PredictionInput{
			MatchID:    p.MatchID,
			Team1Score: *p.Team1Score,
			Team2Score: *p.Team2Score,
		})
	}
	return out
}

func tableRowsToDTO(items []team.Team) []tableRowDTO {
	out := make([]tableRowDTO, 0, len(items))
	for _, t := range items {
		out = append(out, tableRowDTO{
			Rank:          t.Standing.Rank,
			TeamID:        t.ID,
			Name:          t.Name,
			ShortName:     t.ShortName,
			IconURL:       t.IconURL,
			Points:        t.Standing.Points,
			Matches:       t.Standing.Matches,
			Won:           t.Standing.Won,
			Draw:          t.Standing.Draw,
			Lost:          t.Standing.Lost,
			Goals:         t.Standing.Goals,
			OpponentGoals: t.Standing.OpponentGoals,
			GoalDiff:      t.Standing.GoalDiff,
			UpdatedAt:     t.UpdatedAt,
		})
	}
	return out
}

func teamRefToDTO(t team.Team) teamRefDTO {
	return teamRefDTO{ID: t.ID, Name: t.Name, ShortName: t.ShortName, IconURL: t.IconURL}
}

func matchesToDTO(items []usecase.MatchView, now time.Time) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, v := range items {
		m := v.Match
		out = append(out, matchDTO{
			ID:                   m.ID,
			Matchday:             m.Matchday,
			KickoffAt:            m.KickoffAt.UTC(),
			Team1:                teamRefToDTO(v.Team1),
			Team2:                teamRefToDTO(v.Team2),
			Team1Score:           m.Team1Score,
			Team2Score:           m.Team2Score,
			Finished:             m.Finished,
			PredictionsEvaluated: m.PredictionsEvaluated,
			OpenForPredictions:   m.OpenForPredictions(now),
		})
	}
	return out
}

func predictionToDTO(p prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:          p.ID,
		MatchID:     p.MatchID,
		Matchday:    p.Matchday,
		Team1Score:  p.Team1Score,
		Team2Score:  p.Team2Score,
		GoalDiff:    p.GoalDiff,
		Tendency:    tendencyLabel(p.Tendency),
		SubmittedAt: p.SubmittedAt.UTC(),
		Points:      p.Points,
	}
}

func predictionsToDTO(items []prediction.Prediction) []predictionDTO {
	out := make([]predictionDTO, 0, len(items))
	for _, p := range items {
		out = append(out, predictionToDTO(p))
	}
	return out
}

func leaderboardToDTO(board usecase.Leaderboard) leaderboardDTO {
	entries := make([]leaderboardEntryDTO, 0, len(board.Entries))
	for _, e := range board.Entries {
		points := make([]matchdayPointDTO, 0, len(e.Predictions))
		for _, p := range e.Predictions {
			point := matchdayPointDTO{MatchID: p.MatchID, Matchday: p.Matchday, Points: p.Points}
			if p.Revealed {
				team1, team2 := p.Team1Score, p.Team2Score
				point.Team1Score, point.Team2Score = &team1, &team2
			}
			points = append(points, point)
		}
		entries = append(entries, leaderboardEntryDTO{
			Rank:              e.Rank,
			UserID:            e.User.ID,
			Username:          e.User.Username,
			TotalPoints:       e.User.Stats.TotalPoints,
			ExactResults:      e.User.Stats.ExactResults,
			CorrectGoalDiffs:  e.User.Stats.CorrectGoalDiffs,
			CorrectTendencies: e.User.Stats.CorrectTendencies,
			Matchdays:         points,
		})
	}
	return leaderboardDTO{LastEvaluatedAt: board.LastEvaluatedAt, Entries: entries}
}

func tendencyLabel(t scoring.Tendency) string {
	switch t {
	case scoring.TendencyTeam1:
		return "team1"
	case scoring.TendencyTeam2:
		return "team2"
	default:
		return "draw"
	}
}

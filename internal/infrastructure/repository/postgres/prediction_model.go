package postgres

import (
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/scoring"
)

type predictionTableModel struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	MatchID     int64     `db:"match_id"`
	Matchday    int       `db:"matchday"`
	Team1Score  int       `db:"team1_score"`
	Team2Score  int       `db:"team2_score"`
	GoalDiff    int       `db:"goal_diff"`
	Tendency    int       `db:"tendency"`
	SubmittedAt time.Time `db:"submitted_at"`
	Points      int       `db:"points"`
}

type predictionInsertModel struct {
	UserID      int64     `db:"user_id"`
	MatchID     int64     `db:"match_id"`
	Matchday    int       `db:"matchday"`
	Team1Score  int       `db:"team1_score"`
	Team2Score  int       `db:"team2_score"`
	GoalDiff    int       `db:"goal_diff"`
	Tendency    int       `db:"tendency"`
	SubmittedAt time.Time `db:"submitted_at"`
}

func (row predictionTableModel) toDomain() prediction.Prediction {
	return prediction.Prediction{
		ID:          row.ID,
		UserID:      row.UserID,
		MatchID:     row.MatchID,
		Matchday:    row.Matchday,
		Team1Score:  row.Team1Score,
		Team2Score:  row.Team2Score,
		GoalDiff:    row.GoalDiff,
		Tendency:    scoring.Tendency(row.Tendency),
		SubmittedAt: row.SubmittedAt.UTC(),
		Points:      row.Points,
	}
}

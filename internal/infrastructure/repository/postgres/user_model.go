package postgres

import "github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"

type userTableModel struct {
	ID                int64  `db:"id"`
	Username          string `db:"username"`
	TotalPoints       int    `db:"total_points"`
	ExactResults      int    `db:"correct_result"`
	CorrectGoalDiffs  int    `db:"correct_goal_diff"`
	CorrectTendencies int    `db:"correct_tendency"`
}

func (row userTableModel) toDomain() user.User {
	return user.User{
		ID:       row.ID,
		Username: row.Username,
		Stats: user.Stats{
			TotalPoints:       row.TotalPoints,
			ExactResults:      row.ExactResults,
			CorrectGoalDiffs:  row.CorrectGoalDiffs,
			CorrectTendencies: row.CorrectTendencies,
		},
	}
}

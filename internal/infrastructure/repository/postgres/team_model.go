package postgres

import (
	"database/sql"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
)

type teamTableModel struct {
	ID            int64        `db:"id"`
	Name          string       `db:"name"`
	ShortName     string       `db:"short_name"`
	IconURL       string       `db:"icon_url"`
	IconPath      string       `db:"icon_path"`
	TableRank     int          `db:"table_rank"`
	Points        int          `db:"points"`
	Goals         int          `db:"goals"`
	OpponentGoals int          `db:"opponent_goals"`
	GoalDiff      int          `db:"goal_diff"`
	Matches       int          `db:"matches"`
	Won           int          `db:"won"`
	Lost          int          `db:"lost"`
	Draw          int          `db:"draw"`
	UpdatedAt     sql.NullTime `db:"updated_at"`
}

type teamInsertModel struct {
	ID        int64        `db:"id"`
	Name      string       `db:"name"`
	ShortName string       `db:"short_name"`
	IconURL   string       `db:"icon_url"`
	IconPath  string       `db:"icon_path"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

type tableStateModel struct {
	Teams           int          `db:"teams"`
	MaxMatches      int          `db:"max_matches"`
	LastRefreshedAt sql.NullTime `db:"last_refreshed_at"`
}

func (row teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        row.ID,
		Name:      row.Name,
		ShortName: row.ShortName,
		IconURL:   row.IconURL,
		IconPath:  row.IconPath,
		Standing: team.Standing{
			TeamID:        row.ID,
			Rank:          row.TableRank,
			Points:        row.Points,
			Goals:         row.Goals,
			OpponentGoals: row.OpponentGoals,
			GoalDiff:      row.GoalDiff,
			Matches:       row.Matches,
			Won:           row.Won,
			Lost:          row.Lost,
			Draw:          row.Draw,
		},
		UpdatedAt: nullTimeToPtr(row.UpdatedAt),
	}
}

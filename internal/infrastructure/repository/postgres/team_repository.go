package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	qb "github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByRank(ctx context.Context) ([]team.Team, error) {
	// unranked clubs sort last
	query, args, err := qb.Select("*").From("teams").
		OrderBy("table_rank = 0", "table_rank", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by rank query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by rank: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams`); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return count, nil
}

func (r *TeamRepository) TableState(ctx context.Context) (team.TableState, error) {
	query, args, err := qb.Select(
		"COUNT(1) AS teams",
		"COALESCE(MAX(matches), 0) AS max_matches",
		"MAX(updated_at) AS last_refreshed_at",
	).From("teams").ToSQL()
	if err != nil {
		return team.TableState{}, fmt.Errorf("build table state query: %w", err)
	}

	var row tableStateModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return team.TableState{}, fmt.Errorf("get table state: %w", err)
	}
	return team.TableState{
		Teams:            row.Teams,
		MaxMatchesPlayed: row.MaxMatches,
		LastRefreshedAt:  nullTimeToPtr(row.LastRefreshedAt),
	}, nil
}

func (r *TeamRepository) InsertTeams(ctx context.Context, teams []team.Team, at time.Time) error {
	if len(teams) == 0 {
		return nil
	}

	models := make([]teamInsertModel, 0, len(teams))
	for _, item := range teams {
		models = append(models, teamInsertModel{
			ID:        item.ID,
			Name:      item.Name,
			ShortName: item.ShortName,
			IconURL:   item.IconURL,
			IconPath:  item.IconPath,
			UpdatedAt: timeToNull(at),
		})
	}
	query, args, err := qb.InsertModels("teams", models, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert teams query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert teams: %w", err)
	}
	return nil
}

func (r *TeamRepository) ReplaceStandings(ctx context.Context, standings []team.Standing, refreshedAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, row := range standings {
		query, args, err := qb.Update("teams").
			Set("table_rank", row.Rank).
			Set("points", row.Points).
			Set("goals", row.Goals).
			Set("opponent_goals", row.OpponentGoals).
			Set("goal_diff", row.GoalDiff).
			Set("matches", row.Matches).
			Set("won", row.Won).
			Set("lost", row.Lost).
			Set("draw", row.Draw).
			Where(qb.Eq("id", row.TeamID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update standing team=%d: %w", row.TeamID, err)
		}
	}

	query, args, err := qb.Update("teams").Set("updated_at", refreshedAt.UTC()).ToSQL()
	if err != nil {
		return fmt.Errorf("build stamp teams query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("stamp teams: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}

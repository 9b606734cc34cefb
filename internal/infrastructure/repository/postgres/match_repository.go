package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	qb "github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/querybuilder"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
	"github.com/jmoiron/sqlx"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) selectMatches(ctx context.Context, label string, conditions ...qb.Condition) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(conditions...).
		OrderBy("matchday", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s query: %w", label, err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", label, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM matches`); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

func (r *MatchRepository) InsertMany(ctx context.Context, matches []match.Match) error {
	if len(matches) == 0 {
		return nil
	}

	models := make([]matchInsertModel, 0, len(matches))
	for _, m := range matches {
		models = append(models, newMatchInsertModel(m))
	}
	query, args, err := qb.InsertModels("matches", models, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert matches query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert matches: %w", err)
	}
	return nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	return r.selectMatches(ctx, "matches")
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match id=%d: %w", id, err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListReconcilable(ctx context.Context) ([]match.Match, error) {
	return r.selectMatches(ctx, "reconcilable matches",
		qb.Eq("finished", false),
		qb.Eq("predictions_evaluated", false),
	)
}

func (r *MatchRepository) ListPendingEvaluation(ctx context.Context) ([]match.Match, error) {
	return r.selectMatches(ctx, "matches pending evaluation",
		qb.Eq("finished", true),
		qb.Eq("predictions_evaluated", false),
	)
}

func (r *MatchRepository) NextUnfinishedMatchday(ctx context.Context) (int, bool, error) {
	query, args, err := qb.Select("MIN(matchday)").From("matches").
		Where(qb.Eq("finished", false)).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build next unfinished matchday query: %w", err)
	}

	var next *int
	if err := r.db.GetContext(ctx, &next, query, args...); err != nil {
		return 0, false, fmt.Errorf("get next unfinished matchday: %w", err)
	}
	if next == nil {
		return 0, false, nil
	}
	return *next, true, nil
}

func (r *MatchRepository) SourceUpdatedAt(ctx context.Context, matchday int) (timestamp.Timestamp, error) {
	query, args, err := qb.Select("MAX(source_updated_at)").From("matches").
		Where(qb.Eq("matchday", matchday)).
		ToSQL()
	if err != nil {
		return timestamp.Timestamp{}, fmt.Errorf("build source updated at query: %w", err)
	}

	var latest *time.Time
	if err := r.db.GetContext(ctx, &latest, query, args...); err != nil {
		return timestamp.Timestamp{}, fmt.Errorf("get source updated at matchday=%d: %w", matchday, err)
	}
	return timestamp.FromPtr(latest), nil
}

// ApplyUpdate is guarded in SQL so a concurrent evaluation wins.
func (r *MatchRepository) ApplyUpdate(ctx context.Context, id int64, u match.Update) (bool, error) {
	builder := qb.Update("matches").
		Set("team1_score", intPtrToNull(u.Team1Score)).
		Set("team2_score", intPtrToNull(u.Team2Score)).
		Set("finished", u.Finished).
		Set("source_updated_at", timestampToNull(u.SourceUpdatedAt))
	if !u.KickoffAt.IsZero() {
		builder.Set("kickoff_at", u.KickoffAt.UTC())
	}
	query, args, err := builder.
		Where(
			qb.Eq("id", id),
			qb.Eq("predictions_evaluated", false),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build apply match update query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("apply match update id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected match update id=%d: %w", id, err)
	}
	return affected > 0, nil
}

func (r *MatchRepository) LatestEvaluationAt(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	if err := r.db.GetContext(ctx, &latest, `SELECT MAX(evaluated_at) FROM matches`); err != nil {
		return nil, fmt.Errorf("get latest evaluation: %w", err)
	}
	if latest != nil {
		v := latest.UTC()
		latest = &v
	}
	return latest, nil
}

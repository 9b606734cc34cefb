package postgres

import (
	"database/sql"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
)

type matchTableModel struct {
	ID                   int64         `db:"id"`
	Matchday             int           `db:"matchday"`
	Team1ID              int64         `db:"team1_id"`
	Team2ID              int64         `db:"team2_id"`
	Team1Score           sql.NullInt64 `db:"team1_score"`
	Team2Score           sql.NullInt64 `db:"team2_score"`
	KickoffAt            time.Time     `db:"kickoff_at"`
	Finished             bool          `db:"finished"`
	SourceUpdatedAt      sql.NullTime  `db:"source_updated_at"`
	PredictionsEvaluated bool          `db:"predictions_evaluated"`
	EvaluatedAt          sql.NullTime  `db:"evaluated_at"`
}

type matchInsertModel struct {
	ID              int64         `db:"id"`
	Matchday        int           `db:"matchday"`
	Team1ID         int64         `db:"team1_id"`
	Team2ID         int64         `db:"team2_id"`
	Team1Score      sql.NullInt64 `db:"team1_score"`
	Team2Score      sql.NullInt64 `db:"team2_score"`
	KickoffAt       time.Time     `db:"kickoff_at"`
	Finished        bool          `db:"finished"`
	SourceUpdatedAt sql.NullTime  `db:"source_updated_at"`
}

func newMatchInsertModel(m match.Match) matchInsertModel {
	return matchInsertModel{
		ID:              m.ID,
		Matchday:        m.Matchday,
		Team1ID:         m.Team1ID,
		Team2ID:         m.Team2ID,
		Team1Score:      intPtrToNull(m.Team1Score),
		Team2Score:      intPtrToNull(m.Team2Score),
		KickoffAt:       m.KickoffAt.UTC(),
		Finished:        m.Finished,
		SourceUpdatedAt: timestampToNull(m.SourceUpdatedAt),
	}
}

func (row matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:                   row.ID,
		Matchday:             row.Matchday,
		Team1ID:              row.Team1ID,
		Team2ID:              row.Team2ID,
		Team1Score:           nullInt64ToIntPtr(row.Team1Score),
		Team2Score:           nullInt64ToIntPtr(row.Team2Score),
		KickoffAt:            row.KickoffAt.UTC(),
		Finished:             row.Finished,
		SourceUpdatedAt:      timestamp.FromPtr(nullTimeToPtr(row.SourceUpdatedAt)),
		PredictionsEvaluated: row.PredictionsEvaluated,
		EvaluatedAt:          nullTimeToPtr(row.EvaluatedAt),
	}
}

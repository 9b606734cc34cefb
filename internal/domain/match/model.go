package match

import (
	"fmt"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/scoring"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
)

// FinalMatchday is assumed when every local match is finished.
const FinalMatchday = 34

// Match is one fixture of the tracked team.
type Match struct {
	ID                   int64
	Matchday             int
	Team1ID              int64
	Team2ID              int64
	Team1Score           *int
	Team2Score           *int
	KickoffAt            time.Time
	Finished             bool
	SourceUpdatedAt      timestamp.Timestamp
	PredictionsEvaluated bool
	EvaluatedAt          *time.Time
}

// Update carries provider fields that reconciliation may overwrite.
type Update struct {
	Team1Score      *int
	Team2Score      *int
	Finished        bool
	KickoffAt       time.Time
	SourceUpdatedAt timestamp.Timestamp
}

func (m Match) Validate() error {
	if m.ID <= 0 {
		return fmt.Errorf("match id is required")
	}
	if m.Matchday < 1 || m.Matchday > FinalMatchday {
		return fmt.Errorf("matchday %d out of range", m.Matchday)
	}
	if m.Team1ID <= 0 || m.Team2ID <= 0 {
		return fmt.Errorf("match %d: team ids are required", m.ID)
	}
	return nil
}

// Result returns the final score once both sides are known.
func (m Match) Result() (scoring.Outcome, bool) {
	if m.Team1Score == nil || m.Team2Score == nil {
		return scoring.Outcome{}, false
	}
	return scoring.Outcome{Team1: *m.Team1Score, Team2: *m.Team2Score}, true
}

// OpenForPredictions reports whether predictions may still be placed at now.
func (m Match) OpenForPredictions(now time.Time) bool {
	return !m.Finished && m.KickoffAt.After(now)
}

// Reconcilable matches may still be changed by the provider.
func (m Match) Reconcilable() bool {
	return !m.Finished && !m.PredictionsEvaluated
}

// PendingEvaluation matches are finished but not yet graded.
func (m Match) PendingEvaluation() bool {
	return m.Finished && !m.PredictionsEvaluated
}

// Apply overwrites the provider-owned fields.
func (m Match) Apply(u Update) Match {
	m.Team1Score = u.Team1Score
	m.Team2Score = u.Team2Score
	m.Finished = u.Finished
	if !u.KickoffAt.IsZero() {
		m.KickoffAt = u.KickoffAt
	}
	m.SourceUpdatedAt = u.SourceUpdatedAt
	return m
}

func (m Match) Update() Update {
	return Update{
		Team1Score:      m.Team1Score,
		Team2Score:      m.Team2Score,
		Finished:        m.Finished,
		KickoffAt:       m.KickoffAt,
		SourceUpdatedAt: m.SourceUpdatedAt,
	}
}

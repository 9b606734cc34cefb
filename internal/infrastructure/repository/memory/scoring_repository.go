package memory

import (
	"context"
	"fmt"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/scoring"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"
)

type ScoringRepository struct {
	store *Store
}

func (r *ScoringRepository) SaveEvaluation(_ context.Context, evaluation scoring.Evaluation) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.matches[evaluation.MatchID]
	if !ok {
		return false, fmt.Errorf("match %d not found", evaluation.MatchID)
	}
	if m.PredictionsEvaluated {
		return false, nil
	}

	for _, award := range evaluation.Awards {
		if _, ok := r.store.predictions[award.PredictionID]; !ok {
			return false, fmt.Errorf("prediction %d not found", award.PredictionID)
		}
	}
	for _, award := range evaluation.Awards {
		p := r.store.predictions[award.PredictionID]
		p.Points = award.Points
		r.store.predictions[award.PredictionID] = p
	}

	at := evaluation.EvaluatedAt
	m.PredictionsEvaluated = true
	m.EvaluatedAt = &at
	r.store.matches[m.ID] = m
	return true, nil
}

func (r *ScoringRepository) RecomputeUserTotals(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	totals := make(map[int64]user.Stats)
	for _, p := range r.store.predictions {
		stats := totals[p.UserID]
		stats.TotalPoints += p.Points
		switch p.Points {
		case scoring.PointsExact:
			stats.ExactResults++
		case scoring.PointsGoalDiff:
			stats.CorrectGoalDiffs++
		case scoring.PointsTendency:
			stats.CorrectTendencies++
		}
		totals[p.UserID] = stats
	}

	updated := 0
	for userID, stats := range totals {
		item, ok := r.store.users[userID]
		if !ok {
			continue
		}
		item.Stats = stats
		r.store.users[userID] = item
		updated++
	}
	return updated, nil
}

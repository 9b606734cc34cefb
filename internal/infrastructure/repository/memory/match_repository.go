package memory

import (
	"context"
	"sort"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
)

type MatchRepository struct {
	store *Store
}

func cloneMatch(m match.Match) match.Match {
	m.Team1Score = cloneInt(m.Team1Score)
	m.Team2Score = cloneInt(m.Team2Score)
	m.EvaluatedAt = cloneTime(m.EvaluatedAt)
	return m
}

func (r *MatchRepository) filter(keep func(match.Match) bool) []match.Match {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0, len(r.store.matches))
	for _, m := range r.store.matches {
		if keep == nil || keep(m) {
			out = append(out, cloneMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Matchday != out[j].Matchday {
			return out[i].Matchday < out[j].Matchday
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *MatchRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.matches), nil
}

func (r *MatchRepository) InsertMany(_ context.Context, items []match.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, m := range items {
		if _, exists := r.store.matches[m.ID]; exists {
			continue
		}
		r.store.matches[m.ID] = cloneMatch(m)
	}
	return nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	return r.filter(nil), nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.matches[id]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(m), true, nil
}

func (r *MatchRepository) ListReconcilable(_ context.Context) ([]match.Match, error) {
	return r.filter(match.Match.Reconcilable), nil
}

func (r *MatchRepository) ListPendingEvaluation(_ context.Context) ([]match.Match, error) {
	return r.filter(match.Match.PendingEvaluation), nil
}

func (r *MatchRepository) NextUnfinishedMatchday(_ context.Context) (int, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	next, found := 0, false
	for _, m := range r.store.matches {
		if m.Finished {
			continue
		}
		if !found || m.Matchday < next {
			next, found = m.Matchday, true
		}
	}
	return next, found, nil
}

func (r *MatchRepository) SourceUpdatedAt(_ context.Context, matchday int) (timestamp.Timestamp, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var latest timestamp.Timestamp
	for _, m := range r.store.matches {
		if m.Matchday != matchday || !m.SourceUpdatedAt.Valid() {
			continue
		}
		if !latest.Valid() || m.SourceUpdatedAt.After(latest) {
			latest = m.SourceUpdatedAt
		}
	}
	return latest, nil
}

func (r *MatchRepository) ApplyUpdate(_ context.Context, id int64, u match.Update) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m, ok := r.store.matches[id]
	if !ok || m.PredictionsEvaluated {
		return false, nil
	}
	u.Team1Score = cloneInt(u.Team1Score)
	u.Team2Score = cloneInt(u.Team2Score)
	r.store.matches[id] = m.Apply(u)
	return true, nil
}

func (r *MatchRepository) LatestEvaluationAt(_ context.Context) (*time.Time, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var latest *time.Time
	for _, m := range r.store.matches {
		if m.EvaluatedAt != nil && (latest == nil || m.EvaluatedAt.After(*latest)) {
			latest = cloneTime(m.EvaluatedAt)
		}
	}
	return latest, nil
}

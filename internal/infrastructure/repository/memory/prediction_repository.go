package memory

import (
	"context"
	"sort"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
)

type PredictionRepository struct {
	store *Store
}

func (r *PredictionRepository) collect(keep func(prediction.Prediction) bool) []prediction.Prediction {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, p := range r.store.predictions {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		if out[i].Matchday != out[j].Matchday {
			return out[i].Matchday < out[j].Matchday
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID int64) ([]prediction.Prediction, error) {
	return r.collect(func(p prediction.Prediction) bool { return p.MatchID == matchID }), nil
}

func (r *PredictionRepository) ListByUser(_ context.Context, userID int64) ([]prediction.Prediction, error) {
	return r.collect(func(p prediction.Prediction) bool { return p.UserID == userID }), nil
}

func (r *PredictionRepository) ListAll(_ context.Context) ([]prediction.Prediction, error) {
	return r.collect(func(prediction.Prediction) bool { return true }), nil
}

func (r *PredictionRepository) Get(_ context.Context, userID, matchID int64) (prediction.Prediction, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.predictions {
		if p.UserID == userID && p.MatchID == matchID {
			return p, true, nil
		}
	}
	return prediction.Prediction{}, false, nil
}

func (r *PredictionRepository) Upsert(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.upsertLocked(p), nil
}

func (r *PredictionRepository) UpsertMany(_ context.Context, items []prediction.Prediction) ([]prediction.Prediction, error) {
	if len(items) == 0 {
		return nil, nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]prediction.Prediction, 0, len(items))
	for _, p := range items {
		out = append(out, r.upsertLocked(p))
	}
	return out, nil
}

func (r *PredictionRepository) upsertLocked(p prediction.Prediction) prediction.Prediction {
	for id, existing := range r.store.predictions {
		if existing.UserID == p.UserID && existing.MatchID == p.MatchID {
			p.ID = id
			r.store.predictions[id] = p
			return p
		}
	}
	r.store.nextPredictionID++
	p.ID = r.store.nextPredictionID
	r.store.predictions[p.ID] = p
	return p
}

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func (r *TeamRepository) ListByRank(_ context.Context) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0, len(r.store.teams))
	for _, item := range r.store.teams {
		item.UpdatedAt = cloneTime(item.UpdatedAt)
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Standing.Rank, out[j].Standing.Rank
		if ri != rj {
			// unranked teams last
			if ri == 0 || rj == 0 {
				return rj == 0
			}
			return ri < rj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *TeamRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.teams), nil
}

func (r *TeamRepository) TableState(_ context.Context) (team.TableState, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	state := team.TableState{Teams: len(r.store.teams)}
	for _, item := range r.store.teams {
		if item.Standing.Matches > state.MaxMatchesPlayed {
			state.MaxMatchesPlayed = item.Standing.Matches
		}
		if item.UpdatedAt != nil && (state.LastRefreshedAt == nil || item.UpdatedAt.After(*state.LastRefreshedAt)) {
			state.LastRefreshedAt = cloneTime(item.UpdatedAt)
		}
	}
	return state, nil
}

func (r *TeamRepository) InsertTeams(_ context.Context, items []team.Team, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range items {
		if _, exists := r.store.teams[item.ID]; exists {
			continue
		}
		item.Standing.TeamID = item.ID
		stamp := at
		item.UpdatedAt = &stamp
		r.store.teams[item.ID] = item
	}
	return nil
}

func (r *TeamRepository) ReplaceStandings(_ context.Context, standings []team.Standing, refreshedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, row := range standings {
		item, ok := r.store.teams[row.TeamID]
		if !ok {
			continue
		}
		item.Standing = row
		r.store.teams[row.TeamID] = item
	}
	for id, item := range r.store.teams {
		stamp := refreshedAt
		item.UpdatedAt = &stamp
		r.store.teams[id] = item
	}
	return nil
}

package memory

import (
	"sync"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"
)

// Store holds every table behind one lock so multi-table writes stay atomic.
type Store struct {
	mu               sync.RWMutex
	teams            map[int64]team.Team
	matches          map[int64]match.Match
	predictions      map[int64]prediction.Prediction
	users            map[int64]user.User
	nextPredictionID int64
}

func NewStore() *Store {
	return &Store{
		teams:       make(map[int64]team.Team),
		matches:     make(map[int64]match.Match),
		predictions: make(map[int64]prediction.Prediction),
		users:       make(map[int64]user.User),
	}
}

func (s *Store) Teams() *TeamRepository { return &TeamRepository{store: s} }
func (s *Store) Matches() *MatchRepository { return &MatchRepository{store: s} }
func (s *Store) Predictions() *PredictionRepository { return &PredictionRepository{store: s} }
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }
func (s *Store) Scoring() *ScoringRepository { return &ScoringRepository{store: s} }

// AddUsers registers participants. Aggregates are kept as given.
func (s *Store) AddUsers(items ...user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.users[item.ID] = item
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

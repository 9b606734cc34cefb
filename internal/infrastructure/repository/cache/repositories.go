package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/scoring"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/team"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"
	basecache "github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/cache"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
)

const (
	prefixTeam       = "team:"
	prefixMatch      = "match:"
	prefixPrediction = "prediction:"
	prefixUser       = "user:"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListByRank(ctx context.Context) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, prefixTeam+"list", func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.ListByRank(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

// Count and TableState feed staleness checks and always hit the store.
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	return r.next.Count(ctx)
}

func (r *TeamRepository) TableState(ctx context.Context) (team.TableState, error) {
	return r.next.TableState(ctx)
}

func (r *TeamRepository) InsertTeams(ctx context.Context, teams []team.Team, at time.Time) error {
	defer r.cache.DeletePrefix(ctx, prefixTeam)
	return r.next.InsertTeams(ctx, teams, at)
}

func (r *TeamRepository) ReplaceStandings(ctx context.Context, standings []team.Standing, refreshedAt time.Time) error {
	defer r.cache.DeletePrefix(ctx, prefixTeam)
	return r.next.ReplaceStandings(ctx, standings, refreshedAt)
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	items, err := basecache.Load(ctx, r.cache, prefixMatch+"list", func(ctx context.Context) ([]match.Match, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	key := prefixMatch + "id:" + strconv.FormatInt(id, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedMatchByID, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedMatchByID{}, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}
	return cached.value, cached.exists, nil
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	return r.next.Count(ctx)
}

func (r *MatchRepository) InsertMany(ctx context.Context, matches []match.Match) error {
	defer r.cache.DeletePrefix(ctx, prefixMatch)
	return r.next.InsertMany(ctx, matches)
}

func (r *MatchRepository) ListReconcilable(ctx context.Context) ([]match.Match, error) {
	return r.next.ListReconcilable(ctx)
}

func (r *MatchRepository) ListPendingEvaluation(ctx context.Context) ([]match.Match, error) {
	return r.next.ListPendingEvaluation(ctx)
}

func (r *MatchRepository) NextUnfinishedMatchday(ctx context.Context) (int, bool, error) {
	return r.next.NextUnfinishedMatchday(ctx)
}

func (r *MatchRepository) SourceUpdatedAt(ctx context.Context, matchday int) (timestamp.Timestamp, error) {
	return r.next.SourceUpdatedAt(ctx, matchday)
}

func (r *MatchRepository) ApplyUpdate(ctx context.Context, id int64, u match.Update) (bool, error) {
	changed, err := r.next.ApplyUpdate(ctx, id, u)
	if changed {
		r.cache.DeletePrefix(ctx, prefixMatch)
	}
	return changed, err
}

func (r *MatchRepository) LatestEvaluationAt(ctx context.Context) (*time.Time, error) {
	return r.next.LatestEvaluationAt(ctx)
}

type PredictionRepository struct {
	next  prediction.Repository
	cache *basecache.Store
}

func NewPredictionRepository(next prediction.Repository, cache *basecache.Store) *PredictionRepository {
	return &PredictionRepository{next: next, cache: cache}
}

func (r *PredictionRepository) ListAll(ctx context.Context) ([]prediction.Prediction, error) {
	items, err := basecache.Load(ctx, r.cache, prefixPrediction+"all", func(ctx context.Context) ([]prediction.Prediction, error) {
		items, err := r.next.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return append([]prediction.Prediction(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]prediction.Prediction(nil), items...), nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID int64) ([]prediction.Prediction, error) {
	key := prefixPrediction + "user:" + strconv.FormatInt(userID, 10)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]prediction.Prediction, error) {
		items, err := r.next.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return append([]prediction.Prediction(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]prediction.Prediction(nil), items...), nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID int64) ([]prediction.Prediction, error) {
	return r.next.ListByMatch(ctx, matchID)
}

func (r *PredictionRepository) Get(ctx context.Context, userID, matchID int64) (prediction.Prediction, bool, error) {
	return r.next.Get(ctx, userID, matchID)
}

func (r *PredictionRepository) Upsert(ctx context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	defer r.cache.DeletePrefix(ctx, prefixPrediction)
	return r.next.Upsert(ctx, p)
}

func (r *PredictionRepository) UpsertMany(ctx context.Context, items []prediction.Prediction) ([]prediction.Prediction, error) {
	defer r.cache.DeletePrefix(ctx, prefixPrediction)
	return r.next.UpsertMany(ctx, items)
}

type UserRepository struct {
	next  user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	items, err := basecache.Load(ctx, r.cache, prefixUser+"list", func(ctx context.Context) ([]user.User, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]user.User(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]user.User(nil), items...), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (user.User, bool, error) {
	key := prefixUser + "id:" + strconv.FormatInt(id, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedUserByID, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedUserByID{}, err
		}
		return cachedUserByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return user.User{}, false, err
	}
	return cached.value, cached.exists, nil
}

type cachedUserByID struct {
	value  user.User
	exists bool
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return r.next.Count(ctx)
}

// ScoringRepository drops every view that embeds points or evaluation state.
type ScoringRepository struct {
	next  scoring.Repository
	cache *basecache.Store
}

func NewScoringRepository(next scoring.Repository, cache *basecache.Store) *ScoringRepository {
	return &ScoringRepository{next: next, cache: cache}
}

func (r *ScoringRepository) SaveEvaluation(ctx context.Context, evaluation scoring.Evaluation) (bool, error) {
	saved, err := r.next.SaveEvaluation(ctx, evaluation)
	if saved {
		r.cache.DeletePrefix(ctx, prefixMatch)
		r.cache.DeletePrefix(ctx, prefixPrediction)
	}
	return saved, err
}

func (r *ScoringRepository) RecomputeUserTotals(ctx context.Context) (int, error) {
	defer r.cache.DeletePrefix(ctx, prefixUser)
	return r.next.RecomputeUserTotals(ctx)
}

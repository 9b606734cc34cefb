package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/prediction"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/user"
)

type PredictionInput struct {
	MatchID    int64
	Team1Score int
	Team2Score int
}

type SubmitResult struct {
	Saved     []prediction.Prediction `json:"saved"`
	Unchanged int                     `json:"unchanged"`
}

type PredictionService struct {
	users       user.Repository
	matches     match.Repository
	predictions prediction.Repository
	now         func() time.Time
}

func NewPredictionService(users user.Repository, matches match.Repository, predictions prediction.Repository) *PredictionService {
	return &PredictionService{
		users:       users,
		matches:     matches,
		predictions: predictions,
		now:         time.Now,
	}
}

// Submit stores a batch of tips in one write. The whole batch is rejected when
// any entry is invalid or targets a match that already kicked off.
func (s *PredictionService) Submit(ctx context.Context, userID int64, inputs []PredictionInput) (SubmitResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	if userID <= 0 {
		return SubmitResult{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if len(inputs) == 0 {
		return SubmitResult{}, fmt.Errorf("%w: at least one prediction is required", ErrInvalidInput)
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return SubmitResult{}, err
	}

	now := s.now().UTC()
	seen := make(map[int64]struct{}, len(inputs))
	targets := make([]match.Match, 0, len(inputs))
	for _, input := range inputs {
		if input.Team1Score < 0 || input.Team2Score < 0 {
			return SubmitResult{}, fmt.Errorf("%w: match %d: %w", ErrInvalidInput, input.MatchID, prediction.ErrNegativeScore)
		}
		if _, dup := seen[input.MatchID]; dup {
			return SubmitResult{}, fmt.Errorf("%w: duplicate prediction for match %d", ErrInvalidInput, input.MatchID)
		}
		seen[input.MatchID] = struct{}{}

		m, found, err := s.matches.GetByID(ctx, input.MatchID)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("get match %d: %w", input.MatchID, err)
		}
		if !found {
			return SubmitResult{}, fmt.Errorf("%w: match %d", ErrNotFound, input.MatchID)
		}
		if !m.OpenForPredictions(now) {
			return SubmitResult{}, fmt.Errorf("%w: match %d", ErrMatchClosed, input.MatchID)
		}
		targets = append(targets, m)
	}

	var (
		result  SubmitResult
		pending []prediction.Prediction
	)
	for idx, input := range inputs {
		m := targets[idx]
		existing, found, err := s.predictions.Get(ctx, userID, m.ID)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("get prediction for match %d: %w", m.ID, err)
		}

		var next prediction.Prediction
		if found {
			if existing.SameScore(input.Team1Score, input.Team2Score) {
				result.Unchanged++
				continue
			}
			next = existing.WithScore(input.Team1Score, input.Team2Score)
			next.SubmittedAt = now
		} else {
			next, err = prediction.New(userID, m.ID, m.Matchday, input.Team1Score, input.Team2Score, now)
			if err != nil {
				return SubmitResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
		}
		pending = append(pending, next)
	}

	saved, err := s.predictions.UpsertMany(ctx, pending)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("save predictions: %w", err)
	}
	result.Saved = saved
	return result, nil
}

func (s *PredictionService) ListByUser(ctx context.Context, userID int64) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByUser")
	defer span.End()

	if userID <= 0 {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	items, err := s.predictions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by user: %w", err)
	}
	return items, nil
}

func (s *PredictionService) ensureUser(ctx context.Context, userID int64) error {
	_, found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}

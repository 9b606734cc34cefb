package prediction

import (
	"errors"
	"fmt"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/scoring"
)

var ErrNegativeScore = errors.New("predicted score must not be negative")

// Prediction is one user's tip for one match. There is at most one per (user, match).
type Prediction struct {
	ID          int64
	UserID      int64
	MatchID     int64
	Matchday    int
	Team1Score  int
	Team2Score  int
	GoalDiff    int
	Tendency    scoring.Tendency
	SubmittedAt time.Time
	Points      int
}

// New derives goal difference and tendency from the scoreline.
func New(userID, matchID int64, matchday, team1, team2 int, at time.Time) (Prediction, error) {
	if team1 < 0 || team2 < 0 {
		return Prediction{}, fmt.Errorf("%w: %d:%d", ErrNegativeScore, team1, team2)
	}
	p := Prediction{
		UserID:      userID,
		MatchID:     matchID,
		Matchday:    matchday,
		SubmittedAt: at,
	}
	return p.WithScore(team1, team2), nil
}

func (p Prediction) Outcome() scoring.Outcome {
	return scoring.Outcome{Team1: p.Team1Score, Team2: p.Team2Score}
}

func (p Prediction) WithScore(team1, team2 int) Prediction {
	p.Team1Score = team1
	p.Team2Score = team2
	p.GoalDiff = p.Outcome().GoalDiff()
	p.Tendency = p.Outcome().Tendency()
	return p
}

func (p Prediction) SameScore(team1, team2 int) bool {
	return p.Team1Score == team1 && p.Team2Score == team2
}

package scoring

import "time"

// Tendency is the coarse outcome of a match.
type Tendency int

const (
	TendencyDraw  Tendency = 0
	TendencyTeam1 Tendency = 1
	TendencyTeam2 Tendency = 2
)

// Outcome is a scoreline, either predicted or real.
type Outcome struct {
	Team1 int
	Team2 int
}

func (o Outcome) GoalDiff() int {
	return o.Team1 - o.Team2
}

func (o Outcome) Tendency() Tendency {
	switch {
	case o.Team1 > o.Team2:
		return TendencyTeam1
	case o.Team1 < o.Team2:
		return TendencyTeam2
	default:
		return TendencyDraw
	}
}

// Award is the graded result for one prediction.
type Award struct {
	PredictionID int64
	UserID       int64
	Points       int
}

// Evaluation grades every prediction of one finished match.
type Evaluation struct {
	MatchID     int64
	Actual      Outcome
	EvaluatedAt time.Time
	Awards      []Award
}

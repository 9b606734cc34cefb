package team

import (
	"fmt"
	"time"
)

// Team is a club in the tracked league together with its current table row.
type Team struct {
	ID        int64
	Name      string
	ShortName string
	IconURL   string
	IconPath  string
	Standing  Standing
	UpdatedAt *time.Time
}

// Standing is one row of the league table. Rank is the 1-based position in
// the provider's ordering.
type Standing struct {
	TeamID        int64
	Rank          int
	Points        int
	Goals         int
	OpponentGoals int
	GoalDiff      int
	Matches       int
	Won           int
	Lost          int
	Draw          int
}

// TableState summarizes the local table for staleness checks.
type TableState struct {
	Teams            int
	MaxMatchesPlayed int
	LastRefreshedAt  *time.Time
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}

// RankStandings assigns ranks from slice order.
func RankStandings(rows []Standing) []Standing {
	out := make([]Standing, len(rows))
	for i, row := range rows {
		row.Rank = i + 1
		out[i] = row
	}
	return out
}

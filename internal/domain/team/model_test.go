package team

import "testing"

func TestRankStandings_UsesPosition(t *testing.T) {
	rows := []Standing{{TeamID: 40, Rank: 9}, {TeamID: 7}, {TeamID: 199}}
	ranked := RankStandings(rows)

	for i, row := range ranked {
		if row.Rank != i+1 {
			t.Fatalf("unexpected rank for team %d: got=%d want=%d", row.TeamID, row.Rank, i+1)
		}
	}
	if rows[0].Rank != 9 {
		t.Fatalf("input must not be mutated")
	}
}

func TestTeam_Validate(t *testing.T) {
	if err := (Team{ID: 199, Name: "1. FC Heidenheim 1846"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Team{Name: "x"}).Validate(); err == nil {
		t.Fatalf("expected error for missing id")
	}
	if err := (Team{ID: 1}).Validate(); err == nil {
		t.Fatalf("expected error for missing name")
	}
}

package scoring

import "testing"

func TestGrade(t *testing.T) {
	tests := []struct {
		name      string
		predicted Outcome
		actual    Outcome
		want      int
	}{
		{name: "goal diff beats tendency", predicted: Outcome{2, 1}, actual: Outcome{3, 2}, want: PointsGoalDiff},
		{name: "one goal margin", predicted: Outcome{1, 0}, actual: Outcome{2, 1}, want: PointsGoalDiff},
		{name: "draw with different score", predicted: Outcome{0, 0}, actual: Outcome{1, 1}, want: PointsGoalDiff},
		{name: "exact score", predicted: Outcome{1, 1}, actual: Outcome{1, 1}, want: PointsExact},
		{name: "opposite tendency", predicted: Outcome{1, 0}, actual: Outcome{0, 1}, want: PointsMiss},
		{name: "tendency only", predicted: Outcome{3, 0}, actual: Outcome{1, 0}, want: PointsTendency},
		{name: "away tendency only", predicted: Outcome{0, 1}, actual: Outcome{0, 3}, want: PointsTendency},
		{name: "draw vs win", predicted: Outcome{2, 2}, actual: Outcome{2, 1}, want: PointsMiss},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Grade(tc.predicted, tc.actual); got != tc.want {
				t.Fatalf("unexpected points: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestOutcome_Tendency(t *testing.T) {
	if got := (Outcome{2, 0}).Tendency(); got != TendencyTeam1 {
		t.Fatalf("unexpected tendency: %d", got)
	}
	if got := (Outcome{0, 2}).Tendency(); got != TendencyTeam2 {
		t.Fatalf("unexpected tendency: %d", got)
	}
	if got := (Outcome{1, 1}).Tendency(); got != TendencyDraw {
		t.Fatalf("unexpected tendency: %d", got)
	}
}

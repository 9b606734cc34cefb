package prediction

import (
	"errors"
	"testing"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/scoring"
)

func TestNew_DerivesFields(t *testing.T) {
	at := time.Date(2023, 8, 18, 20, 0, 0, 0, time.UTC)
	p, err := New(7, 66, 1, 1, 3, at)
	if err != nil {
		t.Fatalf("new prediction: %v", err)
	}
	if p.GoalDiff != -2 || p.Tendency != scoring.TendencyTeam2 {
		t.Fatalf("unexpected derived fields: diff=%d tendency=%d", p.GoalDiff, p.Tendency)
	}
	if p.Points != 0 || !p.SubmittedAt.Equal(at) {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestNew_RejectsNegative(t *testing.T) {
	if _, err := New(7, 66, 1, -1, 0, time.Now()); !errors.Is(err, ErrNegativeScore) {
		t.Fatalf("expected ErrNegativeScore, got %v", err)
	}
}

func TestWithScore_Recomputes(t *testing.T) {
	p, _ := New(7, 66, 1, 1, 0, time.Now())
	p = p.WithScore(2, 2)
	if p.GoalDiff != 0 || p.Tendency != scoring.TendencyDraw || !p.SameScore(2, 2) {
		t.Fatalf("unexpected prediction: %+v", p)
	}
}

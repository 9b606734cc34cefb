package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/domain/match"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/timestamp"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get match: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(errors.New("pq: relation matches does not exist")) {
		t.Fatalf("expected unrelated error to be ignored")
	}
}

func TestNullConversions(t *testing.T) {
	if nullInt64ToIntPtr(sql.NullInt64{}) != nil {
		t.Fatalf("expected nil for NULL score")
	}
	three := 3
	if got := nullInt64ToIntPtr(intPtrToNull(&three)); got == nil || *got != 3 {
		t.Fatalf("unexpected score round trip: %v", got)
	}

	if timestampToNull(timestamp.Timestamp{}).Valid {
		t.Fatalf("absent timestamp must map to NULL")
	}
	berlin := time.FixedZone("CEST", 2*60*60)
	at := time.Date(2023, 8, 19, 17, 25, 57, 870000000, berlin)
	got := nullTimeToPtr(timestampToNull(timestamp.FromTime(at)))
	if got == nil || !got.Equal(at) || got.Location() != time.UTC {
		t.Fatalf("unexpected time round trip: %v", got)
	}
}

func TestMatchTableModel_ToDomain(t *testing.T) {
	kickoff := time.Date(2023, 8, 19, 13, 30, 0, 0, time.UTC)
	row := matchTableModel{
		ID:                   66350,
		Matchday:             1,
		Team1ID:              6,
		Team2ID:              199,
		Team1Score:           sql.NullInt64{Int64: 3, Valid: true},
		Team2Score:           sql.NullInt64{Int64: 2, Valid: true},
		KickoffAt:            kickoff,
		Finished:             true,
		SourceUpdatedAt:      sql.NullTime{Time: kickoff.Add(2 * time.Hour), Valid: true},
		PredictionsEvaluated: true,
	}

	got := row.toDomain()
	if !got.PredictionsEvaluated || got.PendingEvaluation() {
		t.Fatalf("unexpected evaluation flags: %+v", got)
	}
	result, ok := got.Result()
	if !ok || result.Team1 != 3 || result.Team2 != 2 {
		t.Fatalf("unexpected result: %+v ok=%v", result, ok)
	}
	if !got.SourceUpdatedAt.Valid() || got.EvaluatedAt != nil {
		t.Fatalf("unexpected timestamps: source=%s evaluated=%v", got.SourceUpdatedAt, got.EvaluatedAt)
	}

	insert := newMatchInsertModel(match.Match{ID: 1, Matchday: 2, Team1ID: 3, Team2ID: 4, KickoffAt: kickoff})
	if insert.Team1Score.Valid || insert.SourceUpdatedAt.Valid {
		t.Fatalf("open match must insert NULL score and timestamp: %+v", insert)
	}
}

func TestUserColumns_ExcludeCredentials(t *testing.T) {
	joined := strings.Join(userColumns, ",")
	if strings.Contains(joined, "hash") {
		t.Fatalf("user columns must not select credentials: %s", joined)
	}
	if len(userColumns) != 6 {
		t.Fatalf("unexpected user column count: got=%d want=6", len(userColumns))
	}
}

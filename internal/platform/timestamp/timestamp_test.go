package timestamp

import (
	"errors"
	"testing"
	"time"
)

func TestParse_PadsFractionToMicroseconds(t *testing.T) {
	t.Parallel()

	short, err := Parse("2024-01-01T10:00:00.5")
	if err != nil {
		t.Fatalf("parse short fraction: %v", err)
	}
	full, err := Parse("2024-01-01T10:00:00.500000")
	if err != nil {
		t.Fatalf("parse full fraction: %v", err)
	}
	if !short.Equal(full) {
		t.Fatalf("expected equal timestamps: got=%s want=%s", short, full)
	}
	if short.After(full) || full.After(short) {
		t.Fatalf("equal timestamps must not compare as newer")
	}
}

func TestParse_AcceptedForms(t *testing.T) {
	t.Parallel()

	want := time.Date(2023, 8, 19, 13, 30, 0, 123000000, time.UTC)
	cases := []string{
		"2023-08-19T13:30:00.123",
		"2023-08-19T13:30:00.123000",
		"2023-08-19T13:30:00.123000999",
		"2023-08-19T13:30:00.123Z",
		"2023-08-19T15:30:00.123+02:00",
		"2023-08-19 13:30:00.123",
	}
	for _, raw := range cases {
		ts, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !ts.Time().Equal(want) {
			t.Fatalf("parse %q: got=%s want=%s", raw, ts.Time(), want)
		}
	}
}

func TestParse_WithoutFraction(t *testing.T) {
	t.Parallel()

	ts, err := Parse("2023-08-19T13:30:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !ts.Valid() || ts.Time().Nanosecond() != 0 {
		t.Fatalf("unexpected timestamp: %s", ts)
	}
}

func TestParse_RejectsMalformed(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not a date",
		"2023-08-19T13:30:00.",
		"2023-08-19T13:30:00.abc",
		"2023-08-19T13:30:00.12x",
		"2023-08-19T13:30:00.1234567890",
		"2023-13-19T13:30:00",
		"2023-08-19T13:30:00+25:00",
	}
	for _, raw := range cases {
		ts, err := Parse(raw)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("parse %q: expected ErrMalformed, got %v", raw, err)
		}
		if ts.Valid() {
			t.Fatalf("parse %q: expected invalid timestamp", raw)
		}
	}
}

func TestParseIn_NaiveUsesLocation(t *testing.T) {
	t.Parallel()

	berlin := time.FixedZone("CEST", 2*3600)
	ts, err := ParseIn("2023-08-19T15:30:00", berlin)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2023, 8, 19, 13, 30, 0, 0, time.UTC)
	if !ts.Time().Equal(want) {
		t.Fatalf("unexpected instant: got=%s want=%s", ts.Time(), want)
	}
}

func TestTimestamp_AbsentNeverNewer(t *testing.T) {
	t.Parallel()

	present := MustParse("2023-08-19T13:30:00")
	var absent Timestamp

	if present.After(absent) || absent.After(present) {
		t.Fatalf("absent timestamps must not compare")
	}
	if absent.Equal(present) {
		t.Fatalf("absent must not equal present")
	}
	if absent.Ptr() != nil {
		t.Fatalf("expected nil pointer for absent timestamp")
	}
	if got, _ := absent.MarshalJSON(); string(got) != "null" {
		t.Fatalf("unexpected json: %s", got)
	}
}

func TestFromTime_TruncatesToMicroseconds(t *testing.T) {
	t.Parallel()

	raw := time.Date(2024, 1, 1, 10, 0, 0, 500000999, time.UTC)
	if !FromTime(raw).Equal(MustParse("2024-01-01T10:00:00.5")) {
		t.Fatalf("expected truncation to microseconds")
	}
	if FromTime(time.Time{}).Valid() {
		t.Fatalf("zero time must be absent")
	}
}

package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrMalformed = errors.New("malformed timestamp")

const (
	layoutSeconds = "2006-01-02T15:04:05"
	fractionWidth = 6
)

// Timestamp is a point in time normalized to microsecond precision.
// The zero value is an absent timestamp.
type Timestamp struct {
	t     time.Time
	valid bool
}

// Parse reads an ISO-8601 timestamp. Naive values are treated as UTC.
func Parse(raw string) (Timestamp, error) {
	return ParseIn(raw, time.UTC)
}

// ParseIn reads YYYY-MM-DDTHH:MM:SS with an optional fraction of up to nine
// digits and an optional Z or numeric offset. Naive values are interpreted in loc.
// The fraction is right-padded to six digits; extra digits are truncated.
func ParseIn(raw string, loc *time.Location) (Timestamp, error) {
	if loc == nil {
		loc = time.UTC
	}

	value := strings.TrimSpace(raw)
	if len(value) < len(layoutSeconds) {
		return Timestamp{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}

	head := []byte(value[:len(layoutSeconds)])
	if head[10] == ' ' {
		head[10] = 'T'
	}
	rest := value[len(layoutSeconds):]

	micros := 0
	if strings.HasPrefix(rest, ".") {
		digits := 0
		for digits < len(rest)-1 && rest[1+digits] >= '0' && rest[1+digits] <= '9' {
			digits++
		}
		if digits == 0 || digits > 9 {
			return Timestamp{}, fmt.Errorf("%w: fractional seconds in %q", ErrMalformed, raw)
		}
		fraction := rest[1 : 1+digits]
		if len(fraction) > fractionWidth {
			fraction = fraction[:fractionWidth]
		}
		fraction += strings.Repeat("0", fractionWidth-len(fraction))
		parsed, err := strconv.Atoi(fraction)
		if err != nil {
			return Timestamp{}, fmt.Errorf("%w: fractional seconds in %q", ErrMalformed, raw)
		}
		micros = parsed
		rest = rest[1+digits:]
	}

	zone, err := parseZone(rest, loc)
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: zone in %q", ErrMalformed, raw)
	}

	base, err := time.ParseInLocation(layoutSeconds, string(head), zone)
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}

	return Timestamp{
		t:     base.Add(time.Duration(micros) * time.Microsecond).UTC(),
		valid: true,
	}, nil
}

func parseZone(suffix string, loc *time.Location) (*time.Location, error) {
	switch {
	case suffix == "":
		return loc, nil
	case suffix == "Z" || suffix == "z":
		return time.UTC, nil
	case suffix[0] != '+' && suffix[0] != '-':
		return nil, ErrMalformed
	}

	offset := strings.ReplaceAll(suffix[1:], ":", "")
	if len(offset) != 4 {
		return nil, ErrMalformed
	}
	hours, err := strconv.Atoi(offset[:2])
	if err != nil {
		return nil, err
	}
	minutes, err := strconv.Atoi(offset[2:])
	if err != nil {
		return nil, err
	}
	if hours > 23 || minutes > 59 {
		return nil, ErrMalformed
	}

	seconds := hours*3600 + minutes*60
	if suffix[0] == '-' {
		seconds = -seconds
	}
	return time.FixedZone("", seconds), nil
}

// MustParse is for fixtures and tests.
func MustParse(raw string) Timestamp {
	ts, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return ts
}

// FromTime normalizes t to UTC microseconds. A zero time yields an absent timestamp.
func FromTime(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{t: t.UTC().Truncate(time.Microsecond), valid: true}
}

// FromPtr converts an optional time.
func FromPtr(t *time.Time) Timestamp {
	if t == nil {
		return Timestamp{}
	}
	return FromTime(*t)
}

func (ts Timestamp) Valid() bool {
	return ts.valid
}

func (ts Timestamp) Time() time.Time {
	return ts.t
}

// Ptr returns nil for an absent timestamp.
func (ts Timestamp) Ptr() *time.Time {
	if !ts.valid {
		return nil
	}
	t := ts.t
	return &t
}

// After reports whether ts is strictly newer than other. Absent values never compare.
func (ts Timestamp) After(other Timestamp) bool {
	return ts.valid && other.valid && ts.t.After(other.t)
}

func (ts Timestamp) Equal(other Timestamp) bool {
	if !ts.valid || !other.valid {
		return ts.valid == other.valid
	}
	return ts.t.Equal(other.t)
}

func (ts Timestamp) String() string {
	if !ts.valid {
		return ""
	}
	return ts.t.Format("2006-01-02T15:04:05.000000Z07:00")
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(ts.String())), nil
}

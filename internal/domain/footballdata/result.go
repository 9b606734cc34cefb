package footballdata

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable = errors.New("football data unavailable")
	ErrMalformed   = errors.New("malformed football data")
)

type Status int

const (
	StatusSucceeded Status = iota
	StatusAbsent
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusAbsent:
		return "absent"
	default:
		return "failed"
	}
}

// Result separates "no data" from "fetch failed" so callers can keep cached state.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

func Succeeded[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusSucceeded}
}

func Absent[T any]() Result[T] {
	return Result[T]{Status: StatusAbsent}
}

// Failed wraps err with ErrUnavailable unless it already is.
func Failed[T any](err error) Result[T] {
	if err == nil {
		err = ErrUnavailable
	} else if !errors.Is(err, ErrUnavailable) {
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return Result[T]{Status: StatusFailed, Err: err}
}

func (r Result[T]) Ok() bool {
	return r.Status == StatusSucceeded
}

// Get returns the value, false when absent, or the failure error.
func (r Result[T]) Get() (T, bool, error) {
	switch r.Status {
	case StatusSucceeded:
		return r.Value, true, nil
	case StatusAbsent:
		var zero T
		return zero, false, nil
	default:
		var zero T
		err := r.Err
		if err == nil {
			err = ErrUnavailable
		}
		return zero, false, err
	}
}

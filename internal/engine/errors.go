package engine

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned when there is nothing to draw from.
var ErrEmptySelection = errors.New("no items to draw from")

// InvalidRangeError is returned when a number range has Min > Max or a bound
// outside ±MaxNumber.
type InvalidRangeError struct {
	Min int
	Max int
}

func (e *InvalidRangeError) Error() string {
	if e.Min > e.Max {
		return fmt.Sprintf("invalid range: min %d is greater than max %d", e.Min, e.Max)
	}
	return fmt.Sprintf("invalid range: min and max must lie within ±%d, got [%d, %d]", int64(MaxNumber), e.Min, e.Max)
}

// RangeExhaustedError is returned when more unique values are requested than
// the range holds.
type RangeExhaustedError struct {
	Count     int
	Available int
}

func (e *RangeExhaustedError) Error() string {
	return fmt.Sprintf("cannot draw %d unique numbers from a range of %d values", e.Count, e.Available)
}

// InvalidCountError is returned when fewer than one result is requested, or
// more than Max when the draw has an upper bound.
type InvalidCountError struct {
	Count int
	Max   int // zero when unbounded
}

func (e *InvalidCountError) Error() string {
	if e.Max > 0 && e.Count > e.Max {
		return fmt.Sprintf("count must be at most %d, got %d", e.Max, e.Count)
	}
	return fmt.Sprintf("count must be at least 1, got %d", e.Count)
}

package greatcircle

import (
	"fmt"
	"github.com/paulmach/orb"
)

// LengthError is returned when the two input sequences differ in length.
type LengthError struct {
	A, B int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("mismatched lengths: %d and %d", e.A, e.B)
}

// RangeError is returned for a coordinate outside valid degree ranges.
type RangeError struct {
	Index int
	Point orb.Point
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("row %d: coordinate out of range: lng %v, lat %v", e.Index, e.Point.Lon(), e.Point.Lat())
}

// Package attempt runs an operation and, when it fails, either substitutes a
// coerced value with a warning or halts by returning the error.
package attempt

import (
	"errors"
	"fmt"
	"geonotes/metrics"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Fallback decides whether a failure can be replaced. Returning false halts.
type Fallback[T any] func(err error) (T, bool)

// Coerce runs op. If it fails and fallback supplies a value, the failure is
// logged as a warning and the value returned. Otherwise the error is
// returned wrapped with name.
func Coerce[T any](name string, op func() (T, error), fallback Fallback[T]) (T, error) {
	v, err := op()
	if err == nil {
		return v, nil
	}

	if fallback != nil {
		if c, ok := fallback(err); ok {
			slog.Warn("coerced failed operation", "op", name, "err", err, "value", c)
			metrics.CoercedValues.WithLabelValues(name).Inc()
			return c, nil
		}
	}

	var zero T
	return zero, fmt.Errorf("%s: %w", name, err)
}

// Always returns a fallback that substitutes v for any error.
func Always[T any](v T) Fallback[T] {
	return func(error) (T, bool) { return v, true }
}

// Never returns a fallback that halts on every error.
func Never[T any]() Fallback[T] {
	return func(error) (T, bool) {
		var zero T
		return zero, false
	}
}

// Float parses a numeric cell. Text that is not a number is coerced to NaN
// with a warning, so a bad cell poisons only its own row. Out of range values
// (overflow) still halt.
func Float(s string) (float64, error) {
	s = strings.TrimSpace(s)
	return Coerce("parse float", func() (float64, error) {
		return strconv.ParseFloat(s, 64)
	}, nanForSyntax)
}

func nanForSyntax(err error) (float64, bool) {
	if errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return math.NaN(), true
}

// StrictFloat parses a numeric cell and halts on any failure.
func StrictFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	return Coerce("parse float", func() (float64, error) {
		return strconv.ParseFloat(s, 64)
	}, Never[float64]())
}

// Must panics if err is non-nil.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Warning is one coerced failure kept by a Recorder.
type Warning struct {
	Op  string
	Row int
	Err error
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: %s: %v", w.Row, w.Op, w.Err)
}

// Recorder collects warnings so a caller can report a summary once a batch
// is done. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	warnings []Warning
}

// RecordFallback wraps fb so that every substitution is recorded against row.
func RecordFallback[T any](r *Recorder, op string, row int, fb Fallback[T]) Fallback[T] {
	return func(err error) (T, bool) {
		v, ok := fb(err)
		if ok {
			r.mu.Lock()
			r.warnings = append(r.warnings, Warning{Op: op, Row: row, Err: err})
			r.mu.Unlock()
		}
		return v, ok
	}
}

func (r *Recorder) Warnings() []Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings)
}

// Float is like the package level Float but records the coercion against row.
func (r *Recorder) Float(row int, s string) (float64, error) {
	s = strings.TrimSpace(s)
	return Coerce("parse float", func() (float64, error) {
		return strconv.ParseFloat(s, 64)
	}, RecordFallback(r, "parse float", row, nanForSyntax))
}

package greatcircle

import (
	"context"
	"geonotes/metrics"
	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"
	"math"
)

const defaultChunkSize = 4096

type options struct {
	method    Method
	radius    float64
	workers   int
	chunkSize int
	validate  bool
	nanBad    bool
}

type Option func(*options)

func WithMethod(m Method) Option {
	return func(o *options) { o.method = m }
}

// WithRadius overrides EarthRadiusMeters. The unit of the result follows the
// unit of the radius.
func WithRadius(r float64) Option {
	return func(o *options) { o.radius = r }
}

// WithWorkers splits the input into chunks computed on n goroutines.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func WithChunkSize(n int) Option {
	return func(o *options) { o.chunkSize = n }
}

// WithoutValidation skips range checks. Invalid rows then produce NaN or
// meaningless values instead of a RangeError.
func WithoutValidation() Option {
	return func(o *options) { o.validate = false }
}

// WithInvalidAsNaN returns NaN for rows with a coordinate outside valid
// degree ranges instead of a RangeError.
func WithInvalidAsNaN() Option {
	return func(o *options) {
		o.validate = false
		o.nanBad = true
	}
}

// Distances computes the distance between from[i] and to[i] for every i.
//
// Rows are independent: the output for row i depends only on from[i] and
// to[i], whatever the worker count.
func Distances(from, to []orb.Point, opts ...Option) ([]float64, error) {
	o := options{
		method:    Atan2,
		radius:    EarthRadiusMeters,
		workers:   1,
		chunkSize: defaultChunkSize,
		validate:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.chunkSize <= 0 {
		o.chunkSize = defaultChunkSize
	}

	if len(from) != len(to) {
		return nil, &LengthError{A: len(from), B: len(to)}
	}

	if o.validate {
		for i := range from {
			if !Valid(from[i]) {
				return nil, &RangeError{Index: i, Point: from[i]}
			}
			if !Valid(to[i]) {
				return nil, &RangeError{Index: i, Point: to[i]}
			}
		}
	}

	out := make([]float64, len(from))
	if o.workers <= 1 || len(from) <= o.chunkSize {
		fill(out, from, to, o)
	} else {
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(o.workers)
		for start := 0; start < len(from); start += o.chunkSize {
			end := min(start+o.chunkSize, len(from))
			g.Go(func() error {
				fill(out[start:end], from[start:end], to[start:end], o)
				return nil
			})
		}
		_ = g.Wait()
	}

	metrics.DistanceRows.WithLabelValues(o.method.String()).Add(float64(len(out)))
	return out, nil
}

func fill(out []float64, from, to []orb.Point, o options) {
	for i := range out {
		if o.nanBad && !(Valid(from[i]) && Valid(to[i])) {
			out[i] = math.NaN()
			continue
		}
		out[i] = Angle(from[i], to[i], o.method) * o.radius
	}
}

package greatcircle

import "github.com/paulmach/orb"

// Pair is one row of a distance table.
type Pair struct {
	From orb.Point
	To   orb.Point
}

// Split returns the From and To columns of pairs.
func Split(pairs []Pair) (from, to []orb.Point) {
	from = make([]orb.Point, len(pairs))
	to = make([]orb.Point, len(pairs))
	for i, p := range pairs {
		from[i] = p.From
		to[i] = p.To
	}
	return from, to
}

// PairDistances is Distances over a slice of pairs.
func PairDistances(pairs []Pair, opts ...Option) ([]float64, error) {
	from, to := Split(pairs)
	return Distances(from, to, opts...)
}

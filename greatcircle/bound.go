package greatcircle

import (
	"errors"
	"fmt"
	"github.com/paulmach/orb"
	"strconv"
	"strings"
)

var ErrBound = errors.New("bbox must be minLng,minLat,maxLng,maxLat")

// ParseBound parses "minLng,minLat,maxLng,maxLat" in degrees.
func ParseBound(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, ErrBound
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("%w: %s", ErrBound, err)
		}
		v[i] = f
	}
	b := orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}
	if !Valid(b.Min) || !Valid(b.Max) || b.Min.Lon() > b.Max.Lon() || b.Min.Lat() > b.Max.Lat() {
		return orb.Bound{}, fmt.Errorf("%w: got %s", ErrBound, s)
	}
	return b, nil
}

package osmextract

import (
	"geonotes/greatcircle"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"math"
)

// Nearest returns the distance in meters from p to the closest feature in t,
// measuring to every segment of every way. ok is false for an empty table.
func Nearest(p orb.Point, t *Table) (meters float64, key Key, ok bool) {
	x := toS2(p)
	best := math.Inf(1)
	for k, f := range t.features {
		var angle float64
		switch {
		case len(f.Coords) == 0:
			continue
		case len(f.Coords) == 1:
			angle = x.Distance(toS2(f.Coords[0])).Radians()
		default:
			angle = math.Inf(1)
			for i := 0; i < len(f.Coords)-1; i++ {
				a := toS2(f.Coords[i])
				b := toS2(f.Coords[i+1])
				if d := s2.DistanceFromSegment(x, a, b).Radians(); d < angle {
					angle = d
				}
			}
		}
		if angle < best || (angle == best && less(k, key)) {
			best = angle
			key = k
			ok = true
		}
	}
	if !ok {
		return 0, Key{}, false
	}
	return best * greatcircle.EarthRadiusMeters, key, true
}

func less(a, b Key) bool {
	if a.Kind != b.Kind {
		return a.Kind == NodeKind
	}
	return a.ID < b.ID
}

func toS2(p orb.Point) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat(), p.Lon()))
}

// Package greatcircle computes great-circle distances between coordinate
// pairs on a spherical Earth.
//
// Points are orb.Point values, i.e. [lng, lat] in degrees.
package greatcircle

import (
	"fmt"
	"github.com/paulmach/orb"
	"math"
)

// EarthRadiusMeters is the IUGG mean radius of the Earth.
const EarthRadiusMeters = 6371009.0

// Method selects how the central angle is recovered from the numerator and
// denominator of the Vincenty formula.
type Method int

const (
	// Atan2 uses atan2(num, den) and is correct over the whole sphere.
	Atan2 Method = iota
	// AtanRatio uses atan(num/den). It drops quadrant information, so for
	// points more than a quarter circumference apart (den < 0) the angle comes
	// out negative. Only useful for reproducing results computed that way
	// elsewhere.
	AtanRatio
)

func (m Method) String() string {
	switch m {
	case Atan2:
		return "atan2"
	case AtanRatio:
		return "atan-ratio"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod is the inverse of Method.String.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "atan2", "":
		return Atan2, nil
	case "atan-ratio", "atan":
		return AtanRatio, nil
	default:
		return 0, fmt.Errorf("unknown method %q", s)
	}
}

// Angle returns the central angle in radians between a and b.
func Angle(a, b orb.Point, m Method) float64 {
	lng1, lat1 := radians(a.Lon()), radians(a.Lat())
	lng2, lat2 := radians(b.Lon()), radians(b.Lat())
	dLng := lng2 - lng1

	sinLat1, cosLat1 := math.Sincos(lat1)
	sinLat2, cosLat2 := math.Sincos(lat2)
	sinDLng, cosDLng := math.Sincos(dLng)

	x := cosLat2 * sinDLng
	y := cosLat1*sinLat2 - sinLat1*cosLat2*cosDLng
	num := math.Sqrt(x*x + y*y)
	den := sinLat1*sinLat2 + cosLat1*cosLat2*cosDLng

	if m == AtanRatio {
		return math.Atan(num / den)
	}
	return math.Atan2(num, den)
}

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b orb.Point) float64 {
	return Angle(a, b, Atan2) * EarthRadiusMeters
}

// Matrix returns the all-pairs distance matrix for points. The result is
// symmetric with a zero diagonal.
func Matrix(points []orb.Point) [][]float64 {
	out := make([][]float64, len(points))
	for i := range out {
		out[i] = make([]float64, len(points))
	}
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			d := Distance(points[i], points[j])
			out[i][j] = d
			out[j][i] = d
		}
	}
	return out
}

// Valid reports whether p lies within [-180, 180] longitude and [-90, 90]
// latitude.
func Valid(p orb.Point) bool {
	lng, lat := p.Lon(), p.Lat()
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

package greatcircle

import (
	"errors"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"math/rand"
	"testing"
)

var london = orb.Point{-0.1278, 51.5074}
var paris = orb.Point{2.3522, 48.8566}
var denali = orb.Point{-151.0063, 63.0692}
var sydney = orb.Point{151.2093, -33.8688}

func TestDistanceToSelfIsZero(t *testing.T) {
	for _, p := range []orb.Point{london, paris, denali, sydney, {0, 90}, {180, -90}} {
		assert.Equal(t, 0.0, Distance(p, p), "%v", p)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	points := []orb.Point{london, paris, denali, sydney, {0, 0}, {179.9, 0.1}}
	for _, a := range points {
		for _, b := range points {
			ab := Distance(a, b)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.InDelta(t, ab, Distance(b, a), 1e-6, "%v %v", a, b)
		}
	}
}

func TestDistanceOneDegreeOnEquator(t *testing.T) {
	exp := EarthRadiusMeters * math.Pi / 180
	assert.InDelta(t, exp, Distance(orb.Point{0, 0}, orb.Point{1, 0}), 1e-6)
	assert.InDelta(t, exp, Distance(orb.Point{-120.5, 0}, orb.Point{-119.5, 0}), 1e-6)
}

func TestDistanceLondonParis(t *testing.T) {
	// ~343.5km on a sphere of mean radius
	assert.InDelta(t, 343_500, Distance(london, paris), 2000)
}

func TestAgreesWithS2(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		a := randomPoint(rng)
		b := randomPoint(rng)
		exp := s2.LatLngFromDegrees(a.Lat(), a.Lon()).Distance(s2.LatLngFromDegrees(b.Lat(), b.Lon()))
		assert.InDelta(t, exp.Radians(), Angle(a, b, Atan2), 1e-9, "%v %v", a, b)
	}
}

func TestAtanRatio(t *testing.T) {
	// Within a quarter circumference the two methods agree
	assert.InDelta(t, Angle(london, paris, Atan2), Angle(london, paris, AtanRatio), 1e-12)

	// Beyond it atan(num/den) loses the quadrant
	a, b := orb.Point{0, 0}, orb.Point{120, 0}
	assert.InDelta(t, 2*math.Pi/3, Angle(a, b, Atan2), 1e-12)
	assert.InDelta(t, -math.Pi/3, Angle(a, b, AtanRatio), 1e-12)
}

func TestDistances(t *testing.T) {
	from := []orb.Point{london, denali, {0, 0}}
	to := []orb.Point{paris, denali, {1, 0}}

	got, err := Distances(from, to)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, Distance(london, paris), got[0])
	assert.Equal(t, 0.0, got[1])
	assert.InDelta(t, EarthRadiusMeters*math.Pi/180, got[2], 1e-6)
}

func TestDistancesEmpty(t *testing.T) {
	got, err := Distances(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDistancesPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 200
	from := make([]orb.Point, n)
	to := make([]orb.Point, n)
	for i := range from {
		from[i] = randomPoint(rng)
		to[i] = randomPoint(rng)
	}
	base, err := Distances(from, to)
	require.NoError(t, err)

	perm := rng.Perm(n)
	pFrom := make([]orb.Point, n)
	pTo := make([]orb.Point, n)
	for i, j := range perm {
		pFrom[i] = from[j]
		pTo[i] = to[j]
	}
	permuted, err := Distances(pFrom, pTo)
	require.NoError(t, err)

	for i, j := range perm {
		assert.Equal(t, base[j], permuted[i])
	}
}

func TestDistancesParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 10_007
	from := make([]orb.Point, n)
	to := make([]orb.Point, n)
	for i := range from {
		from[i] = randomPoint(rng)
		to[i] = randomPoint(rng)
	}

	seq, err := Distances(from, to)
	require.NoError(t, err)
	par, err := Distances(from, to, WithWorkers(4), WithChunkSize(100))
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

func TestDistancesRadius(t *testing.T) {
	got, err := Distances([]orb.Point{{0, 0}}, []orb.Point{{90, 0}}, WithRadius(1))
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, got[0], 1e-12)
}

func TestDistancesLengthMismatch(t *testing.T) {
	_, err := Distances([]orb.Point{london}, nil)
	var lengthErr *LengthError
	require.True(t, errors.As(err, &lengthErr))
	assert.Equal(t, 1, lengthErr.A)
	assert.Equal(t, 0, lengthErr.B)
}

func TestDistancesOutOfRange(t *testing.T) {
	from := []orb.Point{london, {0, 91}}
	to := []orb.Point{paris, paris}

	_, err := Distances(from, to)
	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 1, rangeErr.Index)

	_, err = Distances([]orb.Point{{math.NaN(), 0}}, []orb.Point{paris})
	assert.True(t, errors.As(err, &rangeErr))
}

func TestDistancesWithoutValidation(t *testing.T) {
	got, err := Distances([]orb.Point{{0, math.NaN()}, london}, []orb.Point{paris, paris}, WithoutValidation())
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got[0]))
	assert.Equal(t, Distance(london, paris), got[1])
}

func TestDistancesInvalidAsNaN(t *testing.T) {
	from := []orb.Point{{0, 95}, london, {math.NaN(), 0}, {181, 0}}
	to := []orb.Point{{0, 0}, paris, paris, paris}

	for _, workers := range []int{1, 3} {
		got, err := Distances(from, to, WithInvalidAsNaN(), WithWorkers(workers), WithChunkSize(1))
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.True(t, math.IsNaN(got[0]), "latitude 95")
		assert.Equal(t, Distance(london, paris), got[1])
		assert.True(t, math.IsNaN(got[2]))
		assert.True(t, math.IsNaN(got[3]), "longitude 181")
	}

	// Without validation the out of range row still yields a number.
	got, err := Distances(from[:1], to[:1], WithoutValidation())
	require.NoError(t, err)
	assert.False(t, math.IsNaN(got[0]))
}

func TestMatrix(t *testing.T) {
	points := []orb.Point{london, paris, sydney}
	m := Matrix(points)
	require.Len(t, m, 3)
	for i := range points {
		assert.Equal(t, 0.0, m[i][i])
		for j := range points {
			assert.Equal(t, m[i][j], m[j][i])
		}
	}
	assert.Equal(t, Distance(london, sydney), m[0][2])
}

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{Atan2, AtanRatio} {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMethod("haversine")
	assert.Error(t, err)
}

func BenchmarkDistances(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	n := 100_000
	from := make([]orb.Point, n)
	to := make([]orb.Point, n)
	for i := range from {
		from[i] = randomPoint(rng)
		to[i] = randomPoint(rng)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Distances(from, to, WithWorkers(4)); err != nil {
			b.Fatal(err)
		}
	}
}

func randomPoint(rng *rand.Rand) orb.Point {
	return orb.Point{rng.Float64()*360 - 180, rng.Float64()*180 - 90}
}

func TestPairDistances(t *testing.T) {
	got, err := PairDistances([]Pair{{From: london, To: paris}, {From: paris, To: paris}})
	require.NoError(t, err)
	assert.Equal(t, []float64{Distance(london, paris), 0}, got)
}

func TestParseBound(t *testing.T) {
	b, err := ParseBound("-3.3, 55.9,-3.1,56")
	require.NoError(t, err)
	assert.Equal(t, orb.Bound{Min: orb.Point{-3.3, 55.9}, Max: orb.Point{-3.1, 56}}, b)

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "1,1,0,0", "-181,0,0,1", "0,0,1,91", "NaN,0,1,1"} {
		_, err := ParseBound(bad)
		assert.ErrorIs(t, err, ErrBound, bad)
	}
}

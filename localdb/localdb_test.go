package localdb

import (
	"context"
	"geonotes/greatcircle"
	"github.com/gofrs/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"path/filepath"
	"testing"
)

var samplePairs = []greatcircle.Pair{
	{From: orb.Point{-0.1278, 51.5074}, To: orb.Point{2.3522, 48.8566}},
	{From: orb.Point{0, 0}, To: orb.Point{1, 0}},
	{From: orb.Point{-73.9857, 40.7484}, To: orb.Point{-118.2437, 34.0522}},
}

func openTest(t *testing.T, path string) *DB {
	t.Helper()
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.CreateSchema(context.Background()))
	return db
}

func TestInsertAndList(t *testing.T) {
	ctx := context.Background()
	db := openTest(t, ":memory:")

	run, err := db.InsertPointPairs(ctx, "sample", samplePairs)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, run)

	got, err := db.ListPointPairs(ctx, run)
	require.NoError(t, err)
	assert.Equal(t, samplePairs, got)
}

func TestRunsAreSeparate(t *testing.T) {
	ctx := context.Background()
	db := openTest(t, ":memory:")

	a, err := db.InsertPointPairs(ctx, "a", samplePairs[:1])
	require.NoError(t, err)
	b, err := db.InsertPointPairs(ctx, "b", samplePairs[1:])
	require.NoError(t, err)

	got, err := db.ListPointPairs(ctx, a)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	got, err = db.ListPointPairs(ctx, b)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSaveDistances(t *testing.T) {
	ctx := context.Background()
	db := openTest(t, filepath.Join(t.TempDir(), "points.db"))

	run, err := db.InsertPointPairs(ctx, "sample", samplePairs)
	require.NoError(t, err)

	dist, err := greatcircle.PairDistances(samplePairs)
	require.NoError(t, err)
	dist[1] = math.NaN()
	require.NoError(t, db.SaveDistances(ctx, run, dist))

	got, err := db.Distances(ctx, run)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, dist[0], got[0])
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, dist[2], got[2])
}

func TestSaveDistancesLengthMismatch(t *testing.T) {
	ctx := context.Background()
	db := openTest(t, ":memory:")

	run, err := db.InsertPointPairs(ctx, "sample", samplePairs)
	require.NoError(t, err)

	err = db.SaveDistances(ctx, run, []float64{1})
	var lenErr *greatcircle.LengthError
	require.ErrorAs(t, err, &lenErr)
	assert.Equal(t, 3, lenErr.A)
	assert.Equal(t, 1, lenErr.B)
}

func TestEmptyInsert(t *testing.T) {
	ctx := context.Background()
	db := openTest(t, ":memory:")

	run, err := db.InsertPointPairs(ctx, "empty", nil)
	require.NoError(t, err)
	got, err := db.ListPointPairs(ctx, run)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNaNCoordinatesRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTest(t, ":memory:")

	pairs := []greatcircle.Pair{
		{From: orb.Point{math.NaN(), 0}, To: orb.Point{1, 0}},
		{From: orb.Point{0, 0}, To: orb.Point{1, math.NaN()}},
	}
	run, err := db.InsertPointPairs(ctx, "lenient", pairs)
	require.NoError(t, err)

	got, err := db.ListPointPairs(ctx, run)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, math.IsNaN(got[0].From[0]))
	assert.Equal(t, 0.0, got[0].From[1])
	assert.Equal(t, orb.Point{1, 0}, got[0].To)
	assert.Equal(t, orb.Point{0, 0}, got[1].From)
	assert.True(t, math.IsNaN(got[1].To[1]))
}

package repos

import (
	"context"
	"geonotes/greatcircle"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"math"
)

// CopyPointPairs bulk loads pairs with COPY. distances may be nil; otherwise
// it must be as long as pairs, and NaN entries are stored as NULL.
func (r *Repo) CopyPointPairs(ctx context.Context, run uuid.UUID, pairs []greatcircle.Pair, distances []float64) (int64, error) {
	if distances != nil && len(distances) != len(pairs) {
		return 0, &greatcircle.LengthError{A: len(pairs), B: len(distances)}
	}
	return r.db.CopyFrom(ctx,
		pgx.Identifier{"point_pairs"},
		[]string{"run_id", "row_num", "from_lng", "from_lat", "to_lng", "to_lat", "distance_m"},
		pgx.CopyFromSlice(len(pairs), func(i int) ([]any, error) {
			p := pairs[i]
			var dist *float64
			if distances != nil && !math.IsNaN(distances[i]) {
				dist = &distances[i]
			}
			return []any{run, i, p.From.Lon(), p.From.Lat(), p.To.Lon(), p.To.Lat(), dist}, nil
		}),
	)
}

// ListPointPairs returns a run's pairs in load order.
func (r *Repo) ListPointPairs(ctx context.Context, run uuid.UUID) ([]greatcircle.Pair, error) {
	rows, err := r.db.Query(ctx, `
		SELECT from_lng, from_lat, to_lng, to_lat
		FROM point_pairs
		WHERE run_id = $1
		ORDER BY row_num
	`, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []greatcircle.Pair
	for rows.Next() {
		var p greatcircle.Pair
		if err := rows.Scan(&p.From[0], &p.From[1], &p.To[0], &p.To[1]); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// PointPairDistances computes each pair's distance on the server with
// ST_Distance on the sphere, for comparison with greatcircle. Pairs with an
// out of range or NaN coordinate have no geography and come back as NaN.
func (r *Repo) PointPairDistances(ctx context.Context, run uuid.UUID) ([]float64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(ST_Distance(from_geog, to_geog, false), 'NaN'::float8)
		FROM point_pairs
		WHERE run_id = $1
		ORDER BY row_num
	`, run)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[float64])
}

package repos

import (
	"context"
	"fmt"
	"geonotes/osmextract"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/ewkb"
)

// SaveFeatures upserts features by (osm_type, osm_id) in one transaction.
// Ways with fewer than two resolved vertices have no usable geometry and
// are skipped; the count saved is returned. On error the transaction is
// rolled back and nothing is saved.
func (r *Repo) SaveFeatures(ctx context.Context, run uuid.UUID, features []*osmextract.Feature) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, f := range features {
		if !f.Drawable() {
			continue
		}
		tags := f.Tags
		if tags == nil {
			tags = map[string]string{}
		}
		batch.Queue(`
			INSERT INTO osm_features (osm_type, osm_id, run_id, tags, geom)
			VALUES ($1, $2, $3, $4, ST_GeomFromEWKB($5))
			ON CONFLICT (osm_type, osm_id) DO UPDATE
			SET run_id = EXCLUDED.run_id,
			    tags = EXCLUDED.tags,
			    geom = EXCLUDED.geom
		`, string(f.Kind), f.ID, run, tags, ewkb.Value(f.Geometry(), 4326))
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("save feature %d of %d: %w", i+1, batch.Len(), err)
		}
	}
	_ = results.Close()

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return batch.Len(), nil
}

// ListFeatures returns the stored features whose geometry intersects bound.
func (r *Repo) ListFeatures(ctx context.Context, bound orb.Bound) ([]*osmextract.Feature, error) {
	rows, err := r.db.Query(ctx, `
		SELECT osm_type, osm_id, tags, ST_AsBinary(geom)
		FROM osm_features
		WHERE geom && ST_MakeEnvelope($1, $2, $3, $4, 4326)
		ORDER BY osm_type, osm_id
	`, bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []*osmextract.Feature
	for rows.Next() {
		var (
			kind string
			f    osmextract.Feature
		)
		geom := ewkb.Scanner(nil)
		if err := rows.Scan(&kind, &f.ID, &f.Tags, geom); err != nil {
			return nil, err
		}
		f.Kind = osmextract.Kind(kind)
		coords, err := coordsOf(geom.Geometry)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Key(), err)
		}
		f.Coords = coords
		features = append(features, &f)
	}
	return features, rows.Err()
}

// coordsOf inverts Feature.Geometry.
func coordsOf(g orb.Geometry) ([]orb.Point, error) {
	switch g := g.(type) {
	case orb.Point:
		return []orb.Point{g}, nil
	case orb.LineString:
		return []orb.Point(g), nil
	case orb.Polygon:
		if len(g) == 0 {
			return nil, nil
		}
		return []orb.Point(g[0]), nil
	default:
		return nil, fmt.Errorf("unexpected geometry type %T", g)
	}
}

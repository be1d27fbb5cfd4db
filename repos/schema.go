package repos

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE TABLE IF NOT EXISTS load_runs (
		id         UUID PRIMARY KEY,
		source     TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS point_pairs (
		run_id     UUID NOT NULL REFERENCES load_runs (id) ON DELETE CASCADE,
		row_num    INTEGER NOT NULL,
		from_lng   DOUBLE PRECISION NOT NULL,
		from_lat   DOUBLE PRECISION NOT NULL,
		to_lng     DOUBLE PRECISION NOT NULL,
		to_lat     DOUBLE PRECISION NOT NULL,
		distance_m DOUBLE PRECISION,
		from_geog  GEOGRAPHY(Point, 4326) GENERATED ALWAYS AS (CASE
			WHEN from_lng BETWEEN -180 AND 180 AND from_lat BETWEEN -90 AND 90
			THEN ST_SetSRID(ST_MakePoint(from_lng, from_lat), 4326)::geography END) STORED,
		to_geog    GEOGRAPHY(Point, 4326) GENERATED ALWAYS AS (CASE
			WHEN to_lng BETWEEN -180 AND 180 AND to_lat BETWEEN -90 AND 90
			THEN ST_SetSRID(ST_MakePoint(to_lng, to_lat), 4326)::geography END) STORED,
		PRIMARY KEY (run_id, row_num)
	)`,
	`CREATE TABLE IF NOT EXISTS osm_features (
		osm_type TEXT NOT NULL,
		osm_id   BIGINT NOT NULL,
		run_id   UUID REFERENCES load_runs (id) ON DELETE SET NULL,
		tags     JSONB NOT NULL DEFAULT '{}',
		geom     GEOMETRY(Geometry, 4326) NOT NULL,
		PRIMARY KEY (osm_type, osm_id)
	)`,
	`CREATE INDEX IF NOT EXISTS osm_features_geom_idx ON osm_features USING GIST (geom)`,
}

// CreateSchema creates the tables if they don't already exist.
func (r *Repo) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Package localdb stores point pairs in an embedded SQLite file, for when
// there's no PostGIS server to hand.
package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"geonotes/greatcircle"
	"github.com/gofrs/uuid"
	"github.com/paulmach/orb"
	"math"
	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory database that lives until Close.
func Open(path string) (*DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?mode=rwc&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	} else {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// one writer, and an in-memory database is per connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS load_runs (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS point_pairs (
	run_id     TEXT NOT NULL REFERENCES load_runs (id) ON DELETE CASCADE,
	row_num    INTEGER NOT NULL,
	from_lng   REAL,
	from_lat   REAL,
	to_lng     REAL,
	to_lat     REAL,
	distance_m REAL,
	PRIMARY KEY (run_id, row_num)
);
`

func (d *DB) CreateSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertPointPairs starts a run and inserts pairs under it in a single
// transaction; either every row lands or none do.
func (d *DB) InsertPointPairs(ctx context.Context, source string, pairs []greatcircle.Pair) (uuid.UUID, error) {
	run, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate run id: %w", err)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO load_runs (id, source) VALUES (?, ?)`, run.String(), source); err != nil {
		return uuid.Nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO point_pairs (run_id, row_num, from_lng, from_lat, to_lng, to_lat)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return uuid.Nil, err
	}
	defer stmt.Close()

	for i, p := range pairs {
		if _, err := stmt.ExecContext(ctx, run.String(), i, p.From.Lon(), p.From.Lat(), p.To.Lon(), p.To.Lat()); err != nil {
			return uuid.Nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	return run, nil
}

func (d *DB) ListPointPairs(ctx context.Context, run uuid.UUID) ([]greatcircle.Pair, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT from_lng, from_lat, to_lng, to_lat
		FROM point_pairs
		WHERE run_id = ?
		ORDER BY row_num
	`, run.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// SQLite stores NaN as NULL
	var pairs []greatcircle.Pair
	for rows.Next() {
		var c [4]sql.NullFloat64
		if err := rows.Scan(&c[0], &c[1], &c[2], &c[3]); err != nil {
			return nil, err
		}
		pairs = append(pairs, greatcircle.Pair{
			From: orb.Point{nanIfNull(c[0]), nanIfNull(c[1])},
			To:   orb.Point{nanIfNull(c[2]), nanIfNull(c[3])},
		})
	}
	return pairs, rows.Err()
}

func nanIfNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// SaveDistances stores one distance per pair of run, in row order. NaN is
// stored as NULL.
func (d *DB) SaveDistances(ctx context.Context, run uuid.UUID, distances []float64) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM point_pairs WHERE run_id = ?`, run.String()).Scan(&n); err != nil {
		return err
	}
	if n != len(distances) {
		return &greatcircle.LengthError{A: n, B: len(distances)}
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE point_pairs SET distance_m = ? WHERE run_id = ? AND row_num = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, dist := range distances {
		var v sql.NullFloat64
		if !math.IsNaN(dist) {
			v = sql.NullFloat64{Float64: dist, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, v, run.String(), i); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Distances returns the stored distances of run in row order, NaN where
// none was saved.
func (d *DB) Distances(ctx context.Context, run uuid.UUID) ([]float64, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT distance_m FROM point_pairs WHERE run_id = ? ORDER BY row_num
	`, run.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var v sql.NullFloat64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v.Valid {
			out = append(out, v.Float64)
		} else {
			out = append(out, math.NaN())
		}
	}
	return out, rows.Err()
}

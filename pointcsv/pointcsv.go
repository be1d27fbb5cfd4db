// Package pointcsv reads and writes tables of coordinate pairs laid out as
// lng1,lat1,lng2,lat2 followed by any number of passthrough columns.
package pointcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"geonotes/attempt"
	"geonotes/greatcircle"
	"github.com/paulmach/orb"
	"io"
	"math"
	"strconv"
)

// ParseFunc parses one cell. row is 1-based and counts data rows only.
type ParseFunc func(row int, s string) (float64, error)

// Strict halts on the first cell that isn't a number.
func Strict(_ int, s string) (float64, error) {
	return attempt.StrictFloat(s)
}

// Lenient coerces unparseable cells to NaN and records them on rec.
func Lenient(rec *attempt.Recorder) ParseFunc {
	return rec.Float
}

type Table struct {
	Header  []string
	Records [][]string
	Pairs   []greatcircle.Pair
}

var ErrColumns = errors.New("need at least 4 columns: lng1,lat1,lng2,lat2")

// Read reads every row of r. If header is set the first row is kept as
// column names instead of being parsed.
func Read(r io.Reader, header bool, parse ParseFunc) (*Table, error) {
	if parse == nil {
		parse = Strict
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	t := &Table{}
	row := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("line %d: %w", row+1, ErrColumns)
		}
		if header && t.Header == nil {
			t.Header = rec
			continue
		}
		row++

		var v [4]float64
		for i := range v {
			v[i], err = parse(row, rec[i])
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", row, i+1, err)
			}
		}
		t.Records = append(t.Records, rec)
		t.Pairs = append(t.Pairs, greatcircle.Pair{
			From: orb.Point{v[0], v[1]},
			To:   orb.Point{v[2], v[3]},
		})
	}
	return t, nil
}

// Write writes t back out with a distance_m column appended. NaN distances
// are written as NA.
func (t *Table) Write(w io.Writer, distances []float64) error {
	if len(distances) != len(t.Records) {
		return &greatcircle.LengthError{A: len(t.Records), B: len(distances)}
	}
	cw := csv.NewWriter(w)
	if t.Header != nil {
		if err := cw.Write(append(append([]string{}, t.Header...), "distance_m")); err != nil {
			return err
		}
	}
	for i, rec := range t.Records {
		out := append(append([]string{}, rec...), FormatMeters(distances[i]))
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func FormatMeters(d float64) string {
	if math.IsNaN(d) {
		return "NA"
	}
	return strconv.FormatFloat(d, 'f', 3, 64)
}

// Package osmextract turns OpenStreetMap data into a table of tagged
// features and from there into GeoJSON.
package osmextract

import (
	"fmt"
	"geonotes/greatcircle"
	"geonotes/osmtags"
	"geonotes/overpass"
	"github.com/paulmach/orb"
	"log/slog"
	"sort"
)

type Kind string

const (
	NodeKind Kind = "node"
	WayKind  Kind = "way"
)

type Key struct {
	Kind Kind
	ID   int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Kind, k.ID)
}

type Feature struct {
	ID     int64
	Kind   Kind
	Tags   map[string]string
	Coords []orb.Point
}

func (f *Feature) Key() Key {
	return Key{Kind: f.Kind, ID: f.ID}
}

// Table holds tagged nodes and ways. Untagged nodes are kept only as way
// vertices.
type Table struct {
	nodes    map[int64]orb.Point
	features map[Key]*Feature
}

func NewTable() *Table {
	return &Table{
		nodes:    make(map[int64]orb.Point),
		features: make(map[Key]*Feature),
	}
}

// AddNode records a node position and, if it is tagged, a node feature.
// Nodes outside valid degree ranges are dropped.
func (t *Table) AddNode(id int64, p orb.Point, tags map[string]string) bool {
	if !greatcircle.Valid(p) {
		slog.Warn("dropping node with invalid coordinate", "id", id, "lng", p.Lon(), "lat", p.Lat())
		return false
	}
	t.nodes[id] = p
	if len(tags) > 0 {
		t.features[Key{NodeKind, id}] = &Feature{ID: id, Kind: NodeKind, Tags: tags, Coords: []orb.Point{p}}
	}
	return true
}

// AddWay adds a way whose vertices are looked up among nodes added so far.
// It returns how many refs could not be resolved; those are skipped.
func (t *Table) AddWay(id int64, refs []int64, tags map[string]string) int {
	coords := make([]orb.Point, 0, len(refs))
	missing := 0
	for _, ref := range refs {
		p, ok := t.nodes[ref]
		if !ok {
			missing++
			continue
		}
		coords = append(coords, p)
	}
	t.AddWayCoords(id, coords, tags)
	return missing
}

// AddWayCoords adds a way with already resolved vertices.
func (t *Table) AddWayCoords(id int64, coords []orb.Point, tags map[string]string) {
	if tags == nil {
		tags = map[string]string{}
	}
	t.features[Key{WayKind, id}] = &Feature{ID: id, Kind: WayKind, Tags: tags, Coords: coords}
}

func (t *Table) Get(k Key) (*Feature, bool) {
	f, ok := t.features[k]
	return f, ok
}

func (t *Table) Len() int {
	return len(t.features)
}

// Features returns the features ordered nodes first, then by id.
func (t *Table) Features() []*Feature {
	out := make([]*Feature, 0, len(t.features))
	for _, f := range t.features {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind == NodeKind
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Filter returns a table of the features matching any of filters. It shares
// node positions with t.
func (t *Table) Filter(filters ...osmtags.Filter) *Table {
	out := &Table{nodes: t.nodes, features: make(map[Key]*Feature)}
	for k, f := range t.features {
		if osmtags.MatchAny(f.Tags, filters) {
			out.features[k] = f
		}
	}
	return out
}

// Ways returns a table of just the way features of t, sharing node positions.
func (t *Table) Ways() *Table {
	out := &Table{nodes: t.nodes, features: make(map[Key]*Feature)}
	for k, f := range t.features {
		if f.Kind == WayKind {
			out.features[k] = f
		}
	}
	return out
}

// Merge copies other's nodes and features into t, replacing duplicates.
func (t *Table) Merge(other *Table) {
	for id, p := range other.nodes {
		t.nodes[id] = p
	}
	for k, f := range other.features {
		t.features[k] = f
	}
}

// Bound is the bounding box of every feature.
func (t *Table) Bound() orb.Bound {
	var b orb.Bound
	first := true
	for _, f := range t.features {
		for _, p := range f.Coords {
			if first {
				b = p.Bound()
				first = false
				continue
			}
			b = b.Extend(p)
		}
	}
	return b
}

// FromOverpass builds a table from an Overpass response.
func FromOverpass(resp *overpass.Response) *Table {
	t := NewTable()
	for id, n := range resp.Nodes {
		t.AddNode(id, orb.Point{n.Lon, n.Lat}, n.Tags)
	}
	for id, w := range resp.Ways {
		coords := make([]orb.Point, 0, len(w.Nodes))
		for _, n := range w.Nodes {
			coords = append(coords, orb.Point{n.Lon, n.Lat})
		}
		t.AddWayCoords(id, coords, w.Tags)
	}
	return t
}

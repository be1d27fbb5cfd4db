package osmextract

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Geometry returns a Point for nodes, a Polygon for closed ways that
// describe areas and a LineString for every other way.
func (f *Feature) Geometry() orb.Geometry {
	if f.Kind == NodeKind {
		return f.Coords[0]
	}
	if f.IsArea() {
		ring := make(orb.Ring, len(f.Coords))
		copy(ring, f.Coords)
		return orb.Polygon{ring}
	}
	ls := make(orb.LineString, len(f.Coords))
	copy(ls, f.Coords)
	return ls
}

// IsArea reports whether a way is a closed ring meant as an area. Closed
// highways and barriers are lines unless tagged area=yes.
func (f *Feature) IsArea() bool {
	if f.Kind != WayKind || len(f.Coords) < 4 || f.Coords[0] != f.Coords[len(f.Coords)-1] {
		return false
	}
	switch f.Tags["area"] {
	case "yes":
		return true
	case "no":
		return false
	}
	if _, ok := f.Tags["highway"]; ok {
		return false
	}
	if _, ok := f.Tags["barrier"]; ok {
		return false
	}
	return true
}

// GeoJSON returns f as a GeoJSON feature with its tags as properties.
func (f *Feature) GeoJSON() *geojson.Feature {
	gf := geojson.NewFeature(f.Geometry())
	gf.ID = f.Key().String()
	for k, v := range f.Tags {
		gf.Properties[k] = v
	}
	gf.Properties["osm_id"] = f.ID
	gf.Properties["osm_type"] = string(f.Kind)
	return gf
}

// Drawable reports whether f has enough resolved vertices for a valid
// geometry: one for a node, two for a way.
func (f *Feature) Drawable() bool {
	if f.Kind == NodeKind {
		return len(f.Coords) == 1
	}
	return len(f.Coords) >= 2
}

// FeatureCollection returns every drawable feature in Features order.
func (t *Table) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range t.Features() {
		if !f.Drawable() {
			continue
		}
		fc.Append(f.GeoJSON())
	}
	return fc
}

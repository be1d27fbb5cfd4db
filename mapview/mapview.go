// Package mapview renders OSM features onto a Leaflet map, either as a
// standalone HTML page or from a small server.
package mapview

import (
	"embed"
	"fmt"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"html/template"
	"io"
)

//go:embed map.tmpl.html
var templateFS embed.FS

const templateName = "map.tmpl.html"

var mapTemplate = template.Must(template.ParseFS(templateFS, templateName))

type Tiles struct {
	URL         string
	Attribution string
}

var OSMTiles = Tiles{
	URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
	Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
}

func MapTilerTiles(apiKey string) Tiles {
	return Tiles{
		URL:         "https://api.maptiler.com/maps/outdoor-v2/{z}/{x}/{y}.png?key=" + apiKey,
		Attribution: `&copy; <a href="https://www.maptiler.com/copyright/">MapTiler</a> &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
	}
}

// TilesFor picks MapTiler when a key is configured and OSM otherwise.
func TilesFor(maptilerKey string) Tiles {
	if maptilerKey != "" {
		return MapTilerTiles(maptilerKey)
	}
	return OSMTiles
}

type Page struct {
	Title    string
	Tiles    Tiles
	Features *geojson.FeatureCollection
}

type pageData struct {
	Title    string
	Tiles    Tiles
	Features *geojson.FeatureCollection
	Bounds   *[2][2]float64
}

func (p Page) data() pageData {
	d := pageData{Title: p.Title, Tiles: p.Tiles, Features: p.Features}
	if d.Title == "" {
		d.Title = "Map"
	}
	if d.Tiles.URL == "" {
		d.Tiles = OSMTiles
	}
	if d.Features == nil {
		d.Features = geojson.NewFeatureCollection()
	}
	if b, ok := Bound(d.Features); ok {
		// leaflet wants [[south, west], [north, east]]
		d.Bounds = &[2][2]float64{{b.Min.Lat(), b.Min.Lon()}, {b.Max.Lat(), b.Max.Lon()}}
	}
	return d
}

// Bound is the bound of every geometry in fc. ok is false if fc has none.
func Bound(fc *geojson.FeatureCollection) (b orb.Bound, ok bool) {
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		if !ok {
			b, ok = f.Geometry.Bound(), true
			continue
		}
		b = b.Union(f.Geometry.Bound())
	}
	return b, ok
}

// Render writes page as a self-contained HTML document, with the features
// inlined.
func Render(w io.Writer, page Page) error {
	return render(w, mapTemplate, page)
}

func render(w io.Writer, tmpl *template.Template, page Page) error {
	if err := tmpl.ExecuteTemplate(w, templateName, page.data()); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return nil
}

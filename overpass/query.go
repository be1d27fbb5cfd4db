package overpass

import (
	_ "embed"
	"geonotes/osmtags"
	"github.com/paulmach/orb"
	"regexp"
	"slices"
	"strings"
	"text/template"
)

//go:embed bbox.tmpl
var bboxTmplText string
var bboxTmpl = template.Must(template.New("bbox").Parse(bboxTmplText))

//go:embed around.tmpl
var aroundTmplText string
var aroundTmpl = template.Must(template.New("around").Parse(aroundTmplText))

type tmplFilter struct {
	Key   string
	Regex string
}

// BBoxQuery returns a query for ways inside bound matching any of filters,
// recursing down to their nodes.
func BBoxQuery(bound orb.Bound, filters ...osmtags.Filter) string {
	var sb strings.Builder
	err := bboxTmpl.Execute(&sb, struct {
		South, West, North, East float64
		Filters                  []tmplFilter
	}{
		South:   bound.Bottom(),
		West:    bound.Left(),
		North:   bound.Top(),
		East:    bound.Right(),
		Filters: toTmplFilters(filters),
	})
	if err != nil {
		panic(err)
	}
	return sb.String()
}

// AroundQuery returns a query for ways within radius meters of p that carry
// the key tag.
func AroundQuery(p orb.Point, radius int, key string) string {
	var sb strings.Builder
	err := aroundTmpl.Execute(&sb, struct {
		Lng, Lat float64
		Radius   int
		Key      string
	}{p.Lon(), p.Lat(), radius, key})
	if err != nil {
		panic(err)
	}
	return sb.String()
}

// toTmplFilters mirrors osmtags.Filter.Matches server side: a "*" value
// matches any value, and a wanted value may appear anywhere in a semicolon
// list, optionally with a ":suffix".
func toTmplFilters(filters []osmtags.Filter) []tmplFilter {
	out := make([]tmplFilter, 0, len(filters))
	for _, f := range filters {
		tf := tmplFilter{Key: quoteString(f.Key)}
		if len(f.Values) > 0 && !slices.Contains(f.Values, "*") {
			quoted := make([]string, len(f.Values))
			for i, v := range f.Values {
				quoted[i] = regexp.QuoteMeta(v)
			}
			re := "(^|;)[ ]*(" + strings.Join(quoted, "|") + ")(:[^;]*)?[ ]*(;|$)"
			tf.Regex = quoteString(re)
		}
		out = append(out, tf)
	}
	return out
}

// quoteString escapes s for use inside a double quoted Overpass string.
func quoteString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

package overpass

import (
	"geonotes/osmtags"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"regexp"
	"strings"
	"testing"
)

func TestBBoxQuery(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{-3.25, 55.9}, Max: orb.Point{-3.1, 56}}

	assert.Equal(t, `[out:json];
(
  way(55.9,-3.25,56,-3.1)["highway"~"(^|;)[ ]*(primary|living_street)(:[^;]*)?[ ]*(;|$)"];
  way(55.9,-3.25,56,-3.1)["building"];
);
(._;>;);
out;
`, BBoxQuery(bound,
		osmtags.Filter{Key: "highway", Values: []string{"primary", "living_street"}},
		osmtags.Filter{Key: "building"},
	))

	assert.Equal(t, `[out:json];
(
  way(55.9,-3.25,56,-3.1);
);
(._;>;);
out;
`, BBoxQuery(bound))
}

func TestBBoxQueryWildcardValue(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}
	got := BBoxQuery(bound,
		osmtags.Filter{Key: "amenity", Values: []string{"bench", "*"}},
		osmtags.Filter{Key: "leisure", Values: []string{"park"}},
	)
	assert.Contains(t, got, `way(0,0,1,1)["amenity"];`)
	assert.Contains(t, got, `way(0,0,1,1)["leisure"~"(^|;)[ ]*(park)(:[^;]*)?[ ]*(;|$)"];`)
}

func TestBBoxQueryEscapesValues(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}
	got := BBoxQuery(bound, osmtags.Filter{Key: "name", Values: []string{`St. "Mary"`}})
	assert.Contains(t, got, `["name"~"(^|;)[ ]*(St\\. \"Mary\")(:[^;]*)?[ ]*(;|$)"]`)
}

// The generated regex must accept exactly the values osmtags.Filter.Matches
// accepts.
func TestFilterRegexAgreesWithMatches(t *testing.T) {
	f := osmtags.Filter{Key: "highway", Values: []string{"primary", "living_street"}}
	re := regexp.MustCompile(toRawRegex(t, f))
	for _, v := range []string{
		"primary",
		"living_street",
		"primary;secondary",
		"footway; living_street",
		"primary:link",
		"secondary;primary:disused",
		"secondary",
		"primary_link",
		"xprimary",
		"",
	} {
		want := f.Matches(map[string]string{"highway": v})
		assert.Equal(t, want, re.MatchString(v), "value %q", v)
	}
}

func toRawRegex(t *testing.T, f osmtags.Filter) string {
	t.Helper()
	tf := toTmplFilters([]osmtags.Filter{f})
	require.Len(t, tf, 1)
	return strings.NewReplacer(`\\`, `\`, `\"`, `"`).Replace(tf[0].Regex)
}

func TestAroundQuery(t *testing.T) {
	assert.Equal(t, `[out:json];
way(around:1000,39.778578,-105.494735)["highway"];
(._;>;);
out;
`, AroundQuery(orb.Point{-105.494735, 39.778578}, 1000, "highway"))
}

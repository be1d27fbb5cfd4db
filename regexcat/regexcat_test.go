package regexcat

import (
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestExamplesMatch(t *testing.T) {
	for _, name := range Names() {
		p, ok := Lookup(name)
		require.True(t, ok)
		require.NotEmpty(t, p.Examples, name)
		for _, ex := range p.Examples {
			assert.True(t, Match(name, ex), "%s should match %q", name, ex)
		}
	}
}

func TestNonMatches(t *testing.T) {
	cases := map[string][]string{
		"email":       {"not an email", "a@b"},
		"ipv4":        {"256.1.1.1", "1.2.3"},
		"iso_date":    {"2024-13-01", "2024-1-1"},
		"uk_postcode": {"sw1a 1aa"},
		"hex_colour":  {"#ggg", "fff"},
		"lat_lng":     {"51, 0", "version 1.2,3"},
		"phone_e164":  {"+0123456789", "12345"},
	}
	for name, inputs := range cases {
		for _, s := range inputs {
			assert.False(t, Match(name, s), "%s should not match %q", name, s)
		}
	}
}

func TestUnknownName(t *testing.T) {
	assert.False(t, Match("nope", "anything"))
	assert.Nil(t, FindAll("nope", "anything"))
	_, ok := Lookup("nope")
	assert.False(t, ok)
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "lat_lng")
}

func TestFindAll(t *testing.T) {
	got := FindAll("email", "contact a@example.com or b@example.org today")
	assert.Equal(t, []string{"a@example.com", "b@example.org"}, got)
}

func TestExtractLatLng(t *testing.T) {
	text := `Summit at 63.0692, -151.0063; trailhead (63.7337,-148.9146). Bogus 95.0, 10.0.`
	got := ExtractLatLng(text)
	assert.Equal(t, []orb.Point{{-151.0063, 63.0692}, {-148.9146, 63.7337}}, got)
}

func TestExtractOSMWayIDs(t *testing.T) {
	text := `see https://www.openstreetmap.org/way/4707064 and
		http://openstreetmap.org/way/12 and again https://www.openstreetmap.org/way/4707064`
	assert.Equal(t, []int64{4707064, 12}, ExtractOSMWayIDs(text))
}

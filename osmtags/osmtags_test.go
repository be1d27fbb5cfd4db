package osmtags

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestValueContains(t *testing.T) {
	assert.True(t, ValueContains("primary", "primary"))
	assert.True(t, ValueContains("track;residential", "residential"))
	assert.True(t, ValueContains("asphalt:lanes", "asphalt"))
	assert.False(t, ValueContains("primary_link", "primary"))
	assert.False(t, ValueContains("", "primary"))
}

func TestFilterMatches(t *testing.T) {
	tags := map[string]string{"highway": "secondary", "name": "High St"}

	assert.True(t, Filter{Key: "highway"}.Matches(tags))
	assert.True(t, Filter{Key: "highway", Values: []string{"primary", "secondary"}}.Matches(tags))
	assert.True(t, Filter{Key: "highway", Values: []string{"*"}}.Matches(tags))
	assert.False(t, Filter{Key: "highway", Values: []string{"primary"}}.Matches(tags))
	assert.False(t, Filter{Key: "building"}.Matches(tags))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("highway=primary, secondary")
	require.NoError(t, err)
	assert.Equal(t, Filter{Key: "highway", Values: []string{"primary", "secondary"}}, f)
	assert.Equal(t, "highway=primary,secondary", f.String())

	f, err = ParseFilter("building")
	require.NoError(t, err)
	assert.Equal(t, Filter{Key: "building"}, f)

	_, err = ParseFilter("=x")
	assert.Error(t, err)
	_, err = ParseFilter("highway=")
	assert.Error(t, err)
}

func TestMatchAny(t *testing.T) {
	assert.True(t, MatchAny(map[string]string{}, nil))
	assert.True(t, MatchAny(map[string]string{"waterway": "river"}, Presets["water"]))
	assert.False(t, MatchAny(map[string]string{"highway": "path"}, Presets["water"]))
}

func TestIsRoad(t *testing.T) {
	assert.True(t, IsRoad(map[string]string{"highway": "residential"}))
	assert.True(t, IsRoad(map[string]string{"highway": "track", "surface": "asphalt"}))
	assert.False(t, IsRoad(map[string]string{"highway": "path", "surface": "gravel"}))
	assert.False(t, IsRoad(map[string]string{"natural": "peak"}))
}

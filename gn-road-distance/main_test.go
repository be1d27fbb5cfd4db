package main

import (
	"github.com/paulmach/orb"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNegativeLongitudeArgs(t *testing.T) {
	fs := flag.NewFlagSet("gn-road-distance", flag.ContinueOnError)
	radius, points := registerFlags(fs)

	err := fs.Parse([]string{"-r", "500", "--point", "-3.2,55.9", "-p=-0.1,51.5", "--", "-105.4,39.7", "2.35,48.85"})
	require.NoError(t, err)
	assert.Equal(t, 500, *radius)
	assert.Equal(t, []string{"-3.2,55.9", "-0.1,51.5"}, *points)
	assert.Equal(t, []string{"-105.4,39.7", "2.35,48.85"}, fs.Args())

	p, err := parsePoint(fs.Args()[0])
	require.NoError(t, err)
	assert.Equal(t, orb.Point{-105.4, 39.7}, p)
}

func TestNegativeLongitudeWithoutSeparatorIsAFlag(t *testing.T) {
	fs := flag.NewFlagSet("gn-road-distance", flag.ContinueOnError)
	registerFlags(fs)
	assert.Error(t, fs.Parse([]string{"-3.2,55.9"}))
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint(" -3.2 , 55.9 ")
	require.NoError(t, err)
	assert.Equal(t, orb.Point{-3.2, 55.9}, p)

	_, err = parsePoint("-3.2")
	assert.ErrorContains(t, err, "want lng,lat")
	_, err = parsePoint("-3.2,95")
	assert.ErrorContains(t, err, "out of range")
	_, err = parsePoint("x,1")
	assert.Error(t, err)
}

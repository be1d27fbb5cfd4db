package osmextract

import (
	"context"
	"fmt"
	"geonotes/osmtags"
	"geonotes/overpass"
	"github.com/paulmach/orb"
)

type Querier interface {
	Query(ctx context.Context, query string) (*overpass.Response, error)
}

// DistanceToRoad returns the distance in meters from p to the nearest road
// way (see osmtags.Roads) within radius meters, and radius if there is none.
// Tagged highway nodes such as bus stops and rest areas aren't roads.
func DistanceToRoad(ctx context.Context, q Querier, p orb.Point, radius int) (float64, error) {
	resp, err := q.Query(ctx, overpass.AroundQuery(p, radius, "highway"))
	if err != nil {
		return 0, fmt.Errorf("query overpass: %w", err)
	}

	// querying dominates, so a linear scan is fine
	roads := FromOverpass(resp).Ways().Filter(osmtags.Roads...)
	d, _, ok := Nearest(p, roads)
	if !ok || d > float64(radius) {
		return float64(radius), nil
	}
	return d, nil
}

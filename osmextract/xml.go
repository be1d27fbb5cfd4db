package osmextract

import (
	"context"
	"fmt"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"io"
	"log/slog"
)

// ReadXML reads an .osm XML document. Ways are resolved against the nodes
// that precede them, which is the order both planet extracts and the API
// use.
func ReadXML(ctx context.Context, r io.Reader) (*Table, error) {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	t := NewTable()
	missing := 0
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			t.AddNode(int64(o.ID), orb.Point{o.Lon, o.Lat}, o.Tags.Map())
		case *osm.Way:
			refs := make([]int64, len(o.Nodes))
			for i, wn := range o.Nodes {
				refs[i] = int64(wn.ID)
			}
			missing += t.AddWay(int64(o.ID), refs, o.Tags.Map())
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm xml: %w", err)
	}
	if missing > 0 {
		slog.Warn("ways reference nodes not in the document", "missing_refs", missing)
	}
	return t, nil
}

package osmextract

import (
	"bytes"
	"context"
	"fmt"
)

const DefaultAPIBase = "https://api.openstreetmap.org/api/0.6"

type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// FetchWay downloads a way with all its nodes from the OSM editing API.
func FetchWay(ctx context.Context, f Fetcher, apiBase string, id int64) (*Table, error) {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	body, err := f.Get(ctx, fmt.Sprintf("%s/way/%d/full", apiBase, id))
	if err != nil {
		return nil, fmt.Errorf("fetch way %d: %w", id, err)
	}
	t, err := ReadXML(ctx, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("read way %d: %w", id, err)
	}
	if _, ok := t.Get(Key{WayKind, id}); !ok {
		return nil, fmt.Errorf("way %d missing from response", id)
	}
	return t, nil
}

package overpass

import (
	"encoding/json"
	"io"
)

type rawResponse struct {
	Generator string
	Elements  []rawElement
}

type rawElement struct {
	Type string

	// meta
	ID   int64
	Tags map[string]string

	// node
	Lat float64
	Lon float64

	// way
	Nodes []int64

	// relation
	Members []struct {
		Type string
		Ref  int64
		Role string
	}
}

func ParseJSON(v io.Reader) (*Response, error) {
	var resp rawResponse
	err := json.NewDecoder(v).Decode(&resp)
	if err != nil {
		return nil, err
	}

	response := &Response{
		Generator: resp.Generator,
		Count:     len(resp.Elements),
		Nodes:     make(map[int64]*Node),
		Ways:      make(map[int64]*Way),
		Relations: make(map[int64]*Relation),
	}

	// Overpass emits ways before the nodes they reference when recursing
	// down with (._;>;), so nodes are indexed in a first pass.
	for _, el := range resp.Elements {
		if el.Type != "node" {
			continue
		}
		response.Nodes[el.ID] = &Node{
			Meta: Meta{
				ID:   el.ID,
				Tags: el.Tags,
			},
			Lat: el.Lat,
			Lon: el.Lon,
		}
	}

	for _, el := range resp.Elements {
		switch el.Type {
		case "way":
			way := &Way{
				Meta: Meta{
					ID:   el.ID,
					Tags: el.Tags,
				},
				Nodes: make([]*Node, 0, len(el.Nodes)),
			}
			for _, nodeID := range el.Nodes {
				node, ok := response.Nodes[nodeID]
				if !ok {
					response.MissingNodes++
					continue
				}
				way.Nodes = append(way.Nodes, node)
			}
			response.Ways[el.ID] = way
		case "relation":
			rel := &Relation{
				Meta: Meta{
					ID:   el.ID,
					Tags: el.Tags,
				},
			}
			for _, m := range el.Members {
				rel.Members = append(rel.Members, Member{Type: m.Type, Ref: m.Ref, Role: m.Role})
			}
			response.Relations[el.ID] = rel
		}
	}

	return response, nil
}

// Package mapdata reads and writes floor-plan datasets in the file formats
// the map editors produce: GeoJSON feature collections and OSM XML.
package mapdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/campusnav/wayfinder/internal/domain"
)

// ErrMalformedDocument is returned when a file is not a GeoJSON feature collection.
var ErrMalformedDocument = errors.New("malformed map document")

// Skipped counts features that could not be turned into nodes or edges.
type Skipped struct {
	Nodes int
	Edges int
}

// Total returns the number of skipped features.
func (s Skipped) Total() int { return s.Nodes + s.Edges }

// FileSource loads a dataset from a pair of GeoJSON files.
type FileSource struct {
	NodesPath string
	EdgesPath string
}

// LoadDataset reads both files. It is safe to call repeatedly; each call
// rereads the files.
func (s FileSource) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	nodes, err := os.ReadFile(s.NodesPath)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read nodes: %w", err)
	}
	edges, err := os.ReadFile(s.EdgesPath)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read edges: %w", err)
	}
	ds, _, err := DecodeGeoJSON(nodes, edges)
	return ds, err
}

// DecodeGeoJSON parses node and edge feature collections. Node features must
// be points with a properties.id; edge features need properties.id, from and
// to. Anything else is skipped and counted.
func DecodeGeoJSON(nodesDoc, edgesDoc []byte) (domain.Dataset, Skipped, error) {
	var skipped Skipped

	nodeFC, err := geojson.UnmarshalFeatureCollection(nodesDoc)
	if err != nil {
		return domain.Dataset{}, skipped, fmt.Errorf("%w: nodes: %v", ErrMalformedDocument, err)
	}
	edgeFC, err := geojson.UnmarshalFeatureCollection(edgesDoc)
	if err != nil {
		return domain.Dataset{}, skipped, fmt.Errorf("%w: edges: %v", ErrMalformedDocument, err)
	}

	ds := domain.Dataset{
		Nodes: make([]domain.Node, 0, len(nodeFC.Features)),
		Edges: make([]domain.Edge, 0, len(edgeFC.Features)),
	}
	for _, f := range nodeFC.Features {
		n, ok := nodeFromFeature(f)
		if !ok {
			skipped.Nodes++
			continue
		}
		ds.Nodes = append(ds.Nodes, n)
	}
	for _, f := range edgeFC.Features {
		e, ok := edgeFromFeature(f)
		if !ok {
			skipped.Edges++
			continue
		}
		ds.Edges = append(ds.Edges, e)
	}
	return ds, skipped, nil
}

func nodeFromFeature(f *geojson.Feature) (domain.Node, bool) {
	if f == nil {
		return domain.Node{}, false
	}
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		return domain.Node{}, false
	}
	props := f.Properties
	id := props.MustString("id", "")
	if id == "" {
		return domain.Node{}, false
	}
	return domain.Node{
		ID:         id,
		Name:       props.MustString("name", ""),
		Category:   domain.Category(props.MustString("category", "")),
		Kind:       props.MustString("type", ""),
		Floor:      props.MustInt("floor", 0),
		Coordinate: domain.Coordinate{X: pt.X(), Y: pt.Y()},
	}, true
}

// Edge geometry is ignored: weights always come from the endpoint nodes.
func edgeFromFeature(f *geojson.Feature) (domain.Edge, bool) {
	if f == nil {
		return domain.Edge{}, false
	}
	props := f.Properties
	e := domain.Edge{
		ID:         props.MustString("id", ""),
		From:       props.MustString("from", ""),
		To:         props.MustString("to", ""),
		Accessible: props.MustBool("accessible", false),
		Type:       domain.EdgeType(props.MustString("type", string(domain.EdgeCorridor))),
	}
	if e.ID == "" || e.From == "" || e.To == "" {
		return domain.Edge{}, false
	}
	return e, true
}

// EncodeGeoJSON renders ds as the two feature collections DecodeGeoJSON reads.
// Edges are written as two-point line strings. Edges naming unknown nodes have
// no geometry to draw and are left out; the graph builder would drop them anyway.
func EncodeGeoJSON(ds domain.Dataset) (nodesDoc, edgesDoc []byte, err error) {
	coords := make(map[string]orb.Point, len(ds.Nodes))

	nodeFC := geojson.NewFeatureCollection()
	for _, n := range ds.Nodes {
		pt := orb.Point{n.Coordinate.X, n.Coordinate.Y}
		if _, seen := coords[n.ID]; !seen {
			coords[n.ID] = pt
		}
		f := geojson.NewFeature(pt)
		f.Properties["id"] = n.ID
		if n.Name != "" {
			f.Properties["name"] = n.Name
		}
		if n.Category != "" {
			f.Properties["category"] = string(n.Category)
		}
		if n.Kind != "" {
			f.Properties["type"] = n.Kind
		}
		f.Properties["floor"] = n.Floor
		nodeFC.Append(f)
	}

	edgeFC := geojson.NewFeatureCollection()
	for _, e := range ds.Edges {
		from, okFrom := coords[e.From]
		to, okTo := coords[e.To]
		if !okFrom || !okTo {
			continue
		}
		f := geojson.NewFeature(orb.LineString{from, to})
		f.Properties["id"] = e.ID
		f.Properties["from"] = e.From
		f.Properties["to"] = e.To
		f.Properties["accessible"] = e.Accessible
		f.Properties["type"] = string(e.Type)
		edgeFC.Append(f)
	}

	if nodesDoc, err = nodeFC.MarshalJSON(); err != nil {
		return nil, nil, fmt.Errorf("encode nodes: %w", err)
	}
	if edgesDoc, err = edgeFC.MarshalJSON(); err != nil {
		return nil, nil, fmt.Errorf("encode edges: %w", err)
	}
	return nodesDoc, edgesDoc, nil
}

// WriteGeoJSON encodes ds into the two writers.
func WriteGeoJSON(ds domain.Dataset, nodesW, edgesW io.Writer) error {
	nodesDoc, edgesDoc, err := EncodeGeoJSON(ds)
	if err != nil {
		return err
	}
	if _, err := nodesW.Write(nodesDoc); err != nil {
		return fmt.Errorf("write nodes: %w", err)
	}
	if _, err := edgesW.Write(edgesDoc); err != nil {
		return fmt.Errorf("write edges: %w", err)
	}
	return nil
}

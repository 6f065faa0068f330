package mapdata

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"github.com/campusnav/wayfinder/internal/domain"
)

// DecodeOSM reads an OSM XML document drawn in floor-plan pixel space
// (lon is x, lat is y). Nodes take their id from the ref tag, falling back to
// "n<osm id>". Each way tagged highway becomes one edge per consecutive node
// pair.
func DecodeOSM(ctx context.Context, r io.Reader) (domain.Dataset, error) {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	var ds domain.Dataset
	ids := make(map[osm.NodeID]string)
	var ways []*osm.Way

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			n := nodeFromOSM(o)
			ids[o.ID] = n.ID
			ds.Nodes = append(ds.Nodes, n)
		case *osm.Way:
			if o.Tags.Find("highway") != "" {
				ways = append(ways, o)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: osm: %v", ErrMalformedDocument, err)
	}

	for _, w := range ways {
		typ, accessible := classifyWay(w.Tags)
		for i := 1; i < len(w.Nodes); i++ {
			ds.Edges = append(ds.Edges, domain.Edge{
				ID:         fmt.Sprintf("w%d-%d", w.ID, i),
				From:       osmNodeID(ids, w.Nodes[i-1].ID),
				To:         osmNodeID(ids, w.Nodes[i].ID),
				Accessible: accessible,
				Type:       typ,
			})
		}
	}
	return ds, nil
}

// OSMFileSource loads a dataset from an OSM XML file.
type OSMFileSource struct {
	Path string
}

// LoadDataset implements the map source contract.
func (s OSMFileSource) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open osm file: %w", err)
	}
	defer f.Close()
	return DecodeOSM(ctx, f)
}

func nodeFromOSM(n *osm.Node) domain.Node {
	id := n.Tags.Find("ref")
	if id == "" {
		id = "n" + strconv.FormatInt(int64(n.ID), 10)
	}
	floor, _ := strconv.Atoi(n.Tags.Find("level"))
	return domain.Node{
		ID:         id,
		Name:       n.Tags.Find("name"),
		Category:   domain.Category(n.Tags.Find("category")),
		Kind:       n.Tags.Find("type"),
		Floor:      floor,
		Coordinate: domain.Coordinate{X: n.Lon, Y: n.Lat},
	}
}

func osmNodeID(ids map[osm.NodeID]string, id osm.NodeID) string {
	if mapped, ok := ids[id]; ok {
		return mapped
	}
	return "n" + strconv.FormatInt(int64(id), 10)
}

func classifyWay(tags osm.Tags) (domain.EdgeType, bool) {
	highway := tags.Find("highway")
	typ, accessible := domain.EdgeCorridor, true
	switch {
	case highway == "steps":
		typ, accessible = domain.EdgeStairs, false
	case highway == "elevator" || tags.Find("elevator") == "yes":
		typ = domain.EdgeElevator
	case tags.Find("ramp") == "yes":
		typ = domain.EdgeRamp
	case highway == "footway" || highway == "path" || highway == "pedestrian":
		typ = domain.EdgePathway
	}
	if strings.EqualFold(tags.Find("wheelchair"), "no") {
		accessible = false
	}
	return typ, accessible
}

package routing

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/campusnav/wayfinder/internal/domain"
)

// Arc is one directed adjacency entry. Every undirected edge produces two arcs
// with identical weight.
type Arc struct {
	To         string
	Weight     float64
	Accessible bool
	Type       domain.EdgeType
}

// Graph is an adjacency structure keyed by node id. It is read-only once built.
type Graph struct {
	adjacency      map[string][]Arc
	coords         map[string]domain.Coordinate
	accessibleOnly bool
	edgeCount      int
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	if g == nil {
		return false
	}
	_, ok := g.adjacency[id]
	return ok
}

// Neighbors returns the arcs leaving id. The slice must not be modified.
func (g *Graph) Neighbors(id string) []Arc {
	if g == nil {
		return nil
	}
	return g.adjacency[id]
}

// Coordinate returns the pixel position of id.
func (g *Graph) Coordinate(id string) (domain.Coordinate, bool) {
	if g == nil {
		return domain.Coordinate{}, false
	}
	c, ok := g.coords[id]
	return c, ok
}

// NodeCount returns the number of nodes, isolated ones included.
func (g *Graph) NodeCount() int {
	if g == nil {
		return 0
	}
	return len(g.adjacency)
}

// EdgeCount returns the number of undirected edges kept by the builder.
func (g *Graph) EdgeCount() int {
	if g == nil {
		return 0
	}
	return g.edgeCount
}

// AccessibleOnly reports whether non-accessible edges were filtered out.
func (g *Graph) AccessibleOnly() bool {
	return g != nil && g.accessibleOnly
}

// DropReason explains why the builder ignored a record.
type DropReason string

const (
	DropUnknownEndpoint DropReason = "unknown endpoint"
	DropNotAccessible   DropReason = "not accessible"
	DropDuplicateNode   DropReason = "duplicate node id"
	DropEmptyNodeID     DropReason = "empty node id"
)

// Dropped records one ignored node or edge.
type Dropped struct {
	ID     string
	From   string
	To     string
	Reason DropReason
}

// BuildReport lists everything the builder discarded.
type BuildReport struct {
	Dropped []Dropped
}

// Malformed counts dropped records that indicate bad data, as opposed to edges
// filtered out by the accessibility mode.
func (r BuildReport) Malformed() int {
	n := 0
	for _, d := range r.Dropped {
		if d.Reason != DropNotAccessible {
			n++
		}
	}
	return n
}

// Build converts raw nodes and edges into a Graph. Malformed edges are dropped
// silently; use BuildWithReport to see them.
func Build(nodes []domain.Node, edges []domain.Edge, accessibleOnly bool) *Graph {
	g, _ := BuildWithReport(nodes, edges, accessibleOnly)
	return g
}

// BuildWithReport converts raw nodes and edges into a Graph and reports every
// record it ignored. When accessibleOnly is set, non-accessible edges are left
// out entirely rather than penalised.
func BuildWithReport(nodes []domain.Node, edges []domain.Edge, accessibleOnly bool) (*Graph, BuildReport) {
	var report BuildReport
	g := &Graph{
		adjacency:      make(map[string][]Arc, len(nodes)),
		coords:         make(map[string]domain.Coordinate, len(nodes)),
		accessibleOnly: accessibleOnly,
	}

	for _, n := range nodes {
		if n.ID == "" {
			report.Dropped = append(report.Dropped, Dropped{Reason: DropEmptyNodeID})
			continue
		}
		if _, dup := g.adjacency[n.ID]; dup {
			report.Dropped = append(report.Dropped, Dropped{ID: n.ID, Reason: DropDuplicateNode})
			continue
		}
		g.adjacency[n.ID] = []Arc{}
		g.coords[n.ID] = n.Coordinate
	}

	for _, e := range edges {
		from, okFrom := g.coords[e.From]
		to, okTo := g.coords[e.To]
		if !okFrom || !okTo {
			report.Dropped = append(report.Dropped, Dropped{ID: e.ID, From: e.From, To: e.To, Reason: DropUnknownEndpoint})
			continue
		}
		if accessibleOnly && !e.Accessible {
			report.Dropped = append(report.Dropped, Dropped{ID: e.ID, From: e.From, To: e.To, Reason: DropNotAccessible})
			continue
		}

		w := planar.Distance(toPoint(from), toPoint(to))
		g.adjacency[e.From] = append(g.adjacency[e.From], Arc{To: e.To, Weight: w, Accessible: e.Accessible, Type: e.Type})
		g.adjacency[e.To] = append(g.adjacency[e.To], Arc{To: e.From, Weight: w, Accessible: e.Accessible, Type: e.Type})
		g.edgeCount++
	}

	return g, report
}

func toPoint(c domain.Coordinate) orb.Point {
	return orb.Point{c.X, c.Y}
}

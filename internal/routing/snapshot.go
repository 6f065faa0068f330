package routing

import (
	"time"

	"github.com/campusnav/wayfinder/internal/domain"
)

// Snapshot is an immutable view of one map dataset with both graph variants,
// the coordinate lookup and the spatial index prebuilt. It is safe for
// concurrent use.
type Snapshot struct {
	version  uint64
	loadedAt time.Time
	nodes    []domain.Node // kept nodes in input order
	byID     map[string]domain.Node
	coords   map[string]domain.Coordinate
	index    *Index

	full             *Graph
	fullReport       BuildReport
	accessible       *Graph
	accessibleReport BuildReport
}

// NewSnapshot builds a snapshot of ds. The dataset slices are copied.
func NewSnapshot(version uint64, ds domain.Dataset) *Snapshot {
	nodes := append([]domain.Node(nil), ds.Nodes...)
	edges := append([]domain.Edge(nil), ds.Edges...)

	s := &Snapshot{
		version:  version,
		loadedAt: time.Now().UTC(),
		nodes:    make([]domain.Node, 0, len(nodes)),
		byID:     make(map[string]domain.Node, len(nodes)),
		coords:   make(map[string]domain.Coordinate, len(nodes)),
	}
	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		if _, dup := s.byID[n.ID]; dup {
			continue
		}
		s.nodes = append(s.nodes, n)
		s.byID[n.ID] = n
		s.coords[n.ID] = n.Coordinate
	}

	// Snapping only ever lands on nodes the graph builder keeps.
	s.index = NewIndex(s.nodes)
	s.full, s.fullReport = BuildWithReport(nodes, edges, false)
	s.accessible, s.accessibleReport = BuildWithReport(nodes, edges, true)
	return s
}

// Version identifies the snapshot. Later loads have larger versions.
func (s *Snapshot) Version() uint64 { return s.version }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// NodeCount returns the number of nodes kept after dropping empty and
// duplicate ids.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// Node looks a node up by id.
func (s *Snapshot) Node(id string) (domain.Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// Graph returns the full graph, or the accessible-only one.
func (s *Snapshot) Graph(accessibleOnly bool) *Graph {
	if accessibleOnly {
		return s.accessible
	}
	return s.full
}

// Report returns what the builder dropped for the chosen graph variant.
func (s *Snapshot) Report(accessibleOnly bool) BuildReport {
	if accessibleOnly {
		return s.accessibleReport
	}
	return s.fullReport
}

// Index returns the spatial index over the snapshot nodes.
func (s *Snapshot) Index() *Index { return s.index }

func (s *Snapshot) label(id string) string {
	if n, ok := s.byID[id]; ok {
		return n.Label()
	}
	return id
}

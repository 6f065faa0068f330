package routing

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/campusnav/wayfinder/internal/domain"
)

// ClosestNode returns the id of the node nearest to point by Euclidean
// distance. Ties go to the node that appears first in nodes. ok is false only
// when nodes is empty; there is no distance threshold.
func ClosestNode(point domain.Coordinate, nodes []domain.Node) (id string, ok bool) {
	best := math.Inf(1)
	for _, n := range nodes {
		d := point.SquaredDistanceTo(n.Coordinate)
		if d < best {
			best = d
			id = n.ID
			ok = true
		}
	}
	return id, ok
}

// pointTolerance is the half-size of the degenerate rectangle stored for a node.
const pointTolerance = 1e-6

type indexEntry struct {
	node  domain.Node
	order int
	rect  rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *indexEntry) Bounds() rtreego.Rect {
	return e.rect
}

// Match is a node found by a spatial query together with its pixel distance.
type Match struct {
	Node     domain.Node
	Distance float64
}

// Index is an R-tree over node coordinates. Closest gives the same answer as
// ClosestNode over the slice the index was built from, including the tie-break.
type Index struct {
	tree *rtreego.Rtree
	size int
}

// NewIndex builds a spatial index. Input order is remembered for tie-breaks.
func NewIndex(nodes []domain.Node) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	for i, n := range nodes {
		tree.Insert(&indexEntry{
			node:  n,
			order: i,
			rect:  rtreego.Point{n.Coordinate.X, n.Coordinate.Y}.ToRect(pointTolerance),
		})
	}
	return &Index{tree: tree, size: len(nodes)}
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.size
}

// Closest returns the node nearest to point.
func (ix *Index) Closest(point domain.Coordinate) (domain.Node, bool) {
	if ix.Len() == 0 {
		return domain.Node{}, false
	}
	nn, _ := ix.tree.NearestNeighbor(rtreego.Point{point.X, point.Y}).(*indexEntry)
	if nn == nil {
		return domain.Node{}, false
	}

	// The R-tree answer is only approximate on ties, so rescan every node that
	// is no farther than the candidate and apply the input-order rule.
	radius := point.DistanceTo(nn.node.Coordinate)
	best := nn
	bestDist := point.SquaredDistanceTo(nn.node.Coordinate)
	for _, e := range ix.search(point, radius) {
		d := point.SquaredDistanceTo(e.node.Coordinate)
		if d < bestDist || (d == bestDist && e.order < best.order) {
			best, bestDist = e, d
		}
	}
	return best.node, true
}

// Within returns the nodes no farther than radius from point, nearest first.
func (ix *Index) Within(point domain.Coordinate, radius float64) []Match {
	if ix.Len() == 0 || radius < 0 {
		return nil
	}
	limit := radius * radius
	entries := ix.search(point, radius)
	sort.Slice(entries, func(i, j int) bool {
		di := point.SquaredDistanceTo(entries[i].node.Coordinate)
		dj := point.SquaredDistanceTo(entries[j].node.Coordinate)
		if di != dj {
			return di < dj
		}
		return entries[i].order < entries[j].order
	})

	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		if point.SquaredDistanceTo(e.node.Coordinate) > limit {
			continue
		}
		matches = append(matches, Match{Node: e.node, Distance: point.DistanceTo(e.node.Coordinate)})
	}
	return matches
}

func (ix *Index) search(point domain.Coordinate, radius float64) []*indexEntry {
	r := radius + 2*pointTolerance
	box, err := rtreego.NewRect(rtreego.Point{point.X - r, point.Y - r}, []float64{2 * r, 2 * r})
	if err != nil {
		return nil
	}
	hits := ix.tree.SearchIntersect(box)
	entries := make([]*indexEntry, 0, len(hits))
	for _, h := range hits {
		if e, ok := h.(*indexEntry); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

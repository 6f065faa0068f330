package routing

import (
	"container/heap"
	"math"
)

// ShortestPath returns the node ids of a minimum-weight path from startID to
// endID, both included. It returns an empty slice when either id is absent
// from g or when the two nodes are disconnected; it never returns a partial
// path. ShortestPath(g, a, a) is [a] for any node a of g.
func ShortestPath(g *Graph, startID, endID string) []string {
	path, _ := ShortestPathCost(g, startID, endID)
	return path
}

// ShortestPathCost is ShortestPath that also returns the total path weight in
// pixels. The cost is +Inf when no path exists.
//
// The frontier is a binary heap with lazy decrease-key: an improved distance
// pushes a new entry and stale entries are skipped when popped. The search
// stops as soon as endID is popped, which is already optimal for
// non-negative weights.
func ShortestPathCost(g *Graph, startID, endID string) ([]string, float64) {
	if !g.HasNode(startID) || !g.HasNode(endID) {
		return []string{}, math.Inf(1)
	}
	if startID == endID {
		return []string{startID}, 0
	}

	s := &solver{
		g:       g,
		dist:    make(map[string]float64, g.NodeCount()),
		prev:    make(map[string]string, g.NodeCount()),
		visited: make(map[string]bool, g.NodeCount()),
	}
	if !s.run(startID, endID) {
		return []string{}, math.Inf(1)
	}

	path := s.reconstruct(startID, endID)
	if len(path) == 0 || path[0] != startID {
		return []string{}, math.Inf(1)
	}
	return path, s.dist[endID]
}

// solver holds the mutable state of one search. A missing dist entry means +Inf.
type solver struct {
	g       *Graph
	dist    map[string]float64
	prev    map[string]string
	visited map[string]bool
	pq      frontier
}

func (s *solver) distance(id string) float64 {
	if d, ok := s.dist[id]; ok {
		return d
	}
	return math.Inf(1)
}

// run expands the frontier until endID is finalised. It reports whether endID was reached.
func (s *solver) run(startID, endID string) bool {
	s.dist[startID] = 0
	heap.Init(&s.pq)
	heap.Push(&s.pq, &frontierItem{id: startID, dist: 0})

	for s.pq.Len() > 0 {
		item := heap.Pop(&s.pq).(*frontierItem)
		u := item.id
		if s.visited[u] {
			continue
		}
		s.visited[u] = true

		if u == endID {
			return true
		}

		for _, arc := range s.g.Neighbors(u) {
			if s.visited[arc.To] {
				continue
			}
			nd := item.dist + arc.Weight
			if nd < s.distance(arc.To) {
				s.dist[arc.To] = nd
				s.prev[arc.To] = u
				heap.Push(&s.pq, &frontierItem{id: arc.To, dist: nd})
			}
		}
	}
	return false
}

func (s *solver) reconstruct(startID, endID string) []string {
	var reversed []string
	for cur := endID; ; {
		reversed = append(reversed, cur)
		if cur == startID {
			break
		}
		p, ok := s.prev[cur]
		if !ok {
			break
		}
		cur = p
	}

	path := make([]string, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path
}

type frontierItem struct {
	id   string
	dist float64
}

// frontier is a min-heap ordered by distance, then by node id so that equal
// distances pop in a reproducible order.
type frontier []*frontierItem

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].id < pq[j].id
}

func (pq frontier) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *frontier) Push(x any) { *pq = append(*pq, x.(*frontierItem)) }

func (pq *frontier) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

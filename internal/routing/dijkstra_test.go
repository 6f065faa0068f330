package routing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnav/wayfinder/internal/domain"
)

func TestShortestPath_SquareWithoutShortcut(t *testing.T) {
	ds := square()
	g := Build(ds.Nodes, ds.Edges, false)

	path, cost := ShortestPathCost(g, "A", "D")
	assert.Equal(t, []string{"A", "B", "C", "D"}, path)
	assert.InDelta(t, 30.0, cost, 1e-9)
}

func TestShortestPath_AccessibilityToggle(t *testing.T) {
	ds := squareWithStairs()

	path, cost := ShortestPathCost(Build(ds.Nodes, ds.Edges, false), "A", "D")
	assert.Equal(t, []string{"A", "D"}, path)
	assert.InDelta(t, 10.0, cost, 1e-9)

	path, cost = ShortestPathCost(Build(ds.Nodes, ds.Edges, true), "A", "D")
	assert.Equal(t, []string{"A", "B", "C", "D"}, path)
	assert.InDelta(t, 30.0, cost, 1e-9)
}

func TestShortestPath_SameNode(t *testing.T) {
	ds := square()
	g := Build(ds.Nodes, ds.Edges, false)
	for _, n := range ds.Nodes {
		path, cost := ShortestPathCost(g, n.ID, n.ID)
		assert.Equal(t, []string{n.ID}, path)
		assert.Zero(t, cost)
	}
}

func TestShortestPath_UnknownIDs(t *testing.T) {
	ds := square()
	g := Build(ds.Nodes, ds.Edges, false)

	assert.NotNil(t, ShortestPath(g, "A", "nowhere"))
	assert.Empty(t, ShortestPath(g, "A", "nowhere"))
	assert.Empty(t, ShortestPath(g, "nowhere", "A"))
	assert.Empty(t, ShortestPath(nil, "A", "B"))

	_, cost := ShortestPathCost(g, "A", "nowhere")
	assert.True(t, math.IsInf(cost, 1))
}

func TestShortestPath_Disconnected(t *testing.T) {
	ds := square()
	ds.Nodes = append(ds.Nodes, node("island", 100, 100))
	g := Build(ds.Nodes, ds.Edges, false)

	assert.Empty(t, ShortestPath(g, "A", "island"))
	assert.Empty(t, ShortestPath(g, "island", "A"))
}

func TestShortestPath_PinnedTieBreak(t *testing.T) {
	// Two equal-length routes S-X-T and S-Y-T; X sorts first.
	nodes := []domain.Node{node("S", 0, 0), node("Y", 5, -5), node("X", 5, 5), node("T", 10, 0)}
	edges := []domain.Edge{edge("S", "Y", true), edge("Y", "T", true), edge("S", "X", true), edge("X", "T", true)}
	g := Build(nodes, edges, false)

	for i := 0; i < 20; i++ {
		assert.Equal(t, []string{"S", "X", "T"}, ShortestPath(g, "S", "T"))
	}
}

func TestShortestPath_Symmetry(t *testing.T) {
	ds := randomDataset(42, 80, 220)
	g := Build(ds.Nodes, ds.Edges, false)

	for i := 0; i < len(ds.Nodes); i += 7 {
		for j := 1; j < len(ds.Nodes); j += 11 {
			a, b := ds.Nodes[i].ID, ds.Nodes[j].ID
			ab, costAB := ShortestPathCost(g, a, b)
			ba, costBA := ShortestPathCost(g, b, a)
			require.Equal(t, len(ab) == 0, len(ba) == 0, "%s<->%s", a, b)
			if len(ab) == 0 {
				continue
			}
			assert.InDelta(t, costAB, costBA, 1e-6, "%s<->%s", a, b)
			assert.Equal(t, a, ab[0])
			assert.Equal(t, b, ab[len(ab)-1])
			assert.Equal(t, b, ba[0])
			assert.Equal(t, a, ba[len(ba)-1])
		}
	}
}

func TestShortestPath_AccessibleNeverShorter(t *testing.T) {
	ds := randomDataset(99, 60, 160)
	full := Build(ds.Nodes, ds.Edges, false)
	acc := Build(ds.Nodes, ds.Edges, true)

	for i := 0; i < len(ds.Nodes); i += 5 {
		for j := 0; j < len(ds.Nodes); j += 9 {
			a, b := ds.Nodes[i].ID, ds.Nodes[j].ID
			fullPath, fullCost := ShortestPathCost(full, a, b)
			accPath, accCost := ShortestPathCost(acc, a, b)
			if len(accPath) > 0 {
				require.NotEmpty(t, fullPath)
				assert.GreaterOrEqual(t, accCost+1e-9, fullCost)
			}
		}
	}
}

func TestShortestPath_MatchesPathLength(t *testing.T) {
	ds := randomDataset(5, 50, 150)
	g := Build(ds.Nodes, ds.Edges, false)
	coords := make(map[string]domain.Coordinate)
	for _, n := range ds.Nodes {
		coords[n.ID] = n.Coordinate
	}

	path, cost := ShortestPathCost(g, ds.Nodes[0].ID, ds.Nodes[len(ds.Nodes)-1].ID)
	if len(path) == 0 {
		t.Skip("random graph left endpoints disconnected")
	}
	sum := 0.0
	for i := 0; i+1 < len(path); i++ {
		sum += coords[path[i]].DistanceTo(coords[path[i+1]])
	}
	assert.InDelta(t, cost, sum, 1e-6)
}

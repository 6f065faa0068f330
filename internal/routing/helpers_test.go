package routing

import (
	"fmt"
	"math/rand"

	"github.com/campusnav/wayfinder/internal/domain"
)

func node(id string, x, y float64) domain.Node {
	return domain.Node{ID: id, Coordinate: domain.Coordinate{X: x, Y: y}}
}

func edge(from, to string, accessible bool) domain.Edge {
	return domain.Edge{ID: from + "-" + to, From: from, To: to, Accessible: accessible, Type: domain.EdgeCorridor}
}

func pt(x, y float64) *domain.Coordinate {
	return &domain.Coordinate{X: x, Y: y}
}

// square is A(0,0) B(10,0) C(10,10) D(0,10) joined A-B-C-D with no A-D edge.
func square() domain.Dataset {
	return domain.Dataset{
		Nodes: []domain.Node{node("A", 0, 0), node("B", 10, 0), node("C", 10, 10), node("D", 0, 10)},
		Edges: []domain.Edge{edge("A", "B", true), edge("B", "C", true), edge("C", "D", true)},
	}
}

// squareWithStairs adds a non-accessible A-D shortcut to square.
func squareWithStairs() domain.Dataset {
	ds := square()
	ds.Edges = append(ds.Edges, domain.Edge{ID: "A-D", From: "A", To: "D", Accessible: false, Type: domain.EdgeStairs})
	return ds
}

// randomDataset scatters n nodes and joins random pairs; roughly a third of the edges are stairs.
func randomDataset(seed int64, n, m int) domain.Dataset {
	r := rand.New(rand.NewSource(seed))
	ds := domain.Dataset{}
	for i := 0; i < n; i++ {
		ds.Nodes = append(ds.Nodes, node(fmt.Sprintf("n%03d", i), float64(r.Intn(1000)), float64(r.Intn(800))))
	}
	for i := 0; i < m; i++ {
		a, b := r.Intn(n), r.Intn(n)
		ds.Edges = append(ds.Edges, domain.Edge{
			ID:         fmt.Sprintf("e%03d", i),
			From:       ds.Nodes[a].ID,
			To:         ds.Nodes[b].ID,
			Accessible: r.Intn(3) != 0,
		})
	}
	return ds
}

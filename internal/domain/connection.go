package domain

// EdgeType tags the physical kind of a connection. Only Accessible matters for routing.
type EdgeType string

const (
	EdgeCorridor EdgeType = "corridor"
	EdgeRamp     EdgeType = "ramp"
	EdgeStairs   EdgeType = "stairs"
	EdgeElevator EdgeType = "elevator"
	EdgePathway  EdgeType = "pathway"
)

// Edge is an undirected connection between two nodes. Its weight is derived
// from the endpoint coordinates when a graph is built.
type Edge struct {
	ID         string
	From       string
	To         string
	Accessible bool
	Type       EdgeType
}

// Dataset is an immutable snapshot of the floor-plan graph as supplied by a map source.
// Node order is significant: nearest-node resolution breaks ties by position.
type Dataset struct {
	Nodes []Node
	Edges []Edge
}

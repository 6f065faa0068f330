package domain

import "math"

// Coordinate is a position in the pixel space of the floor-plan image.
// X grows to the right and Y grows downwards.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the Euclidean distance to other in pixels.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	return math.Sqrt(c.SquaredDistanceTo(other))
}

// SquaredDistanceTo returns the squared Euclidean distance to other.
func (c Coordinate) SquaredDistanceTo(other Coordinate) float64 {
	dx := c.X - other.X
	dy := c.Y - other.Y
	return dx*dx + dy*dy
}

// Category classifies a node for callers. The route engine ignores it.
type Category string

const (
	CategoryOffice     Category = "office"
	CategoryClassroom  Category = "classroom"
	CategoryLaboratory Category = "laboratory"
	CategoryAmenity    Category = "amenity"
	CategoryLibrary    Category = "library"
	CategoryStructural Category = "structural"
)

// Node is a named point of interest or a structural waypoint on the floor plan.
type Node struct {
	ID         string
	Name       string
	Category   Category
	Kind       string
	Floor      int
	Coordinate Coordinate
}

// Label returns a human readable name for instructions.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

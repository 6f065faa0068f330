package routing

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/campusnav/wayfinder/internal/domain"
)

// Assembler converts a node path into a RouteResult.
type Assembler struct {
	Params Params
	// Label names a node in instructions. Nil means the node id is used.
	Label func(id string) string
}

// NewAssembler returns an Assembler using p, with zero fields set to defaults.
func NewAssembler(p Params) Assembler {
	return Assembler{Params: p.orDefault()}
}

// Assemble maps path to coordinates, sums its length and writes the
// instructions. Coordinates come from coords, falling back to g. An empty path,
// or one naming a node without a coordinate, yields the empty result.
func (a Assembler) Assemble(path []string, g *Graph, coords map[string]domain.Coordinate) domain.RouteResult {
	if len(path) == 0 {
		return domain.RouteResult{}
	}
	p := a.Params.orDefault()

	points := make([]domain.Coordinate, 0, len(path))
	line := make(orb.LineString, 0, len(path))
	for _, id := range path {
		c, ok := coords[id]
		if !ok {
			c, ok = g.Coordinate(id)
		}
		if !ok {
			return domain.RouteResult{}
		}
		points = append(points, c)
		line = append(line, toPoint(c))
	}

	pixels := planar.Length(line)
	meters := pixels / p.PixelsPerMeter

	return domain.RouteResult{
		PathNodeIDs:      append([]string(nil), path...),
		PathCoordinates:  points,
		DistancePixels:   pixels,
		DistanceMeters:   meters,
		EstimatedMinutes: meters / p.WalkingSpeedMPS / 60,
		Instructions:     a.instructions(path, points, g, p),
	}
}

// instructions emits a start line, one line per edge and an arrival line.
func (a Assembler) instructions(path []string, points []domain.Coordinate, g *Graph, p Params) []string {
	dest := a.label(path[len(path)-1])
	out := make([]string, 0, len(path)+1)

	if len(path) == 1 {
		out = append(out, fmt.Sprintf("Start at %s.", a.label(path[0])))
		return append(out, fmt.Sprintf("You have arrived at %s.", dest))
	}

	if h := Heading(points[0], points[1]); h != "" {
		out = append(out, fmt.Sprintf("Start at %s and head %s toward %s.", a.label(path[0]), h, dest))
	} else {
		out = append(out, fmt.Sprintf("Start at %s and head toward %s.", a.label(path[0]), dest))
	}

	for i := 0; i+1 < len(path); i++ {
		meters := points[i].DistanceTo(points[i+1]) / p.PixelsPerMeter
		via := viaPhrase(edgeType(g, path[i], path[i+1]))
		next := a.label(path[i+1])

		if i == 0 {
			out = append(out, fmt.Sprintf("Walk %.1f m%s to %s.", meters, via, next))
			continue
		}
		turn := ClassifyTurn(TurnAngle(points[i-1], points[i], points[i+1]), p)
		out = append(out, fmt.Sprintf("%s and walk %.1f m%s to %s.", capitalize(turn.String()), meters, via, next))
	}

	return append(out, fmt.Sprintf("You have arrived at %s.", dest))
}

func (a Assembler) label(id string) string {
	if a.Label != nil {
		if l := a.Label(id); l != "" {
			return l
		}
	}
	return id
}

// edgeType returns the type of the lightest arc from -> to.
func edgeType(g *Graph, from, to string) domain.EdgeType {
	var (
		t     domain.EdgeType
		found bool
		best  float64
	)
	for _, arc := range g.Neighbors(from) {
		if arc.To != to {
			continue
		}
		if !found || arc.Weight < best {
			t, best, found = arc.Type, arc.Weight, true
		}
	}
	return t
}

func viaPhrase(t domain.EdgeType) string {
	switch t {
	case domain.EdgeRamp:
		return " via the ramp"
	case domain.EdgeStairs:
		return " via the stairs"
	case domain.EdgeElevator:
		return " via the elevator"
	default:
		return ""
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

package routing

import (
	"math"

	"github.com/campusnav/wayfinder/internal/domain"
)

// Turn is the classified change of direction at a node.
type Turn int

const (
	TurnStraight Turn = iota
	TurnLeft
	TurnRight
	TurnAround
)

func (t Turn) String() string {
	switch t {
	case TurnLeft:
		return "turn left"
	case TurnRight:
		return "turn right"
	case TurnAround:
		return "turn around"
	default:
		return "continue straight"
	}
}

// TurnAngle returns the signed angle in degrees between segment a→b and
// segment b→c. Image y points down, so positive values are right turns.
// Degenerate segments give 0.
func TurnAngle(a, b, c domain.Coordinate) float64 {
	v1x, v1y := b.X-a.X, b.Y-a.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y
	if (v1x == 0 && v1y == 0) || (v2x == 0 && v2y == 0) {
		return 0
	}
	cross := v1x*v2y - v1y*v2x
	dot := v1x*v2x + v1y*v2y
	return math.Atan2(cross, dot) * 180 / math.Pi
}

// ClassifyTurn maps a signed turn angle onto a Turn using the thresholds in p.
func ClassifyTurn(angle float64, p Params) Turn {
	abs := math.Abs(angle)
	switch {
	case abs < p.StraightDegrees:
		return TurnStraight
	case abs > p.TurnAroundDegrees:
		return TurnAround
	case angle > 0:
		return TurnRight
	default:
		return TurnLeft
	}
}

var compassPoints = [...]string{"north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"}

// Heading names the compass direction of travel from a to b, with north at
// the top of the image. It returns "" for a zero-length segment.
func Heading(a, b domain.Coordinate) string {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return ""
	}
	bearing := math.Atan2(dx, -dy) * 180 / math.Pi
	if bearing < 0 {
		bearing += 360
	}
	sector := int(math.Floor((bearing+22.5)/45)) % len(compassPoints)
	return compassPoints[sector]
}

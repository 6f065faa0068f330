package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnav/wayfinder/internal/domain"
)

func squareCoords() map[string]domain.Coordinate {
	coords := map[string]domain.Coordinate{}
	for _, n := range square().Nodes {
		coords[n.ID] = n.Coordinate
	}
	return coords
}

func TestAssemble_EmptyPath(t *testing.T) {
	ds := square()
	res := NewAssembler(DefaultParams()).Assemble(nil, Build(ds.Nodes, ds.Edges, false), squareCoords())

	assert.False(t, res.Found())
	assert.Empty(t, res.PathCoordinates)
	assert.Empty(t, res.Instructions)
	assert.Zero(t, res.DistanceMeters)
	assert.Zero(t, res.EstimatedMinutes)
}

func TestAssemble_SquareRoute(t *testing.T) {
	ds := square()
	g := Build(ds.Nodes, ds.Edges, false)
	res := NewAssembler(DefaultParams()).Assemble([]string{"A", "B", "C", "D"}, g, squareCoords())

	require.True(t, res.Found())
	assert.Equal(t, []domain.Coordinate{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, res.PathCoordinates)
	assert.InDelta(t, 30.0, res.DistancePixels, 1e-9)
	assert.InDelta(t, 0.6, res.DistanceMeters, 1e-9)
	assert.InDelta(t, 0.6/1.4/60, res.EstimatedMinutes, 1e-12)

	assert.Equal(t, []string{
		"Start at A and head east toward D.",
		"Walk 0.2 m to B.",
		"Turn right and walk 0.2 m to C.",
		"Turn right and walk 0.2 m to D.",
		"You have arrived at D.",
	}, res.Instructions)
}

func TestAssemble_InstructionCount(t *testing.T) {
	ds := randomDataset(3, 40, 120)
	g := Build(ds.Nodes, ds.Edges, false)
	asm := NewAssembler(DefaultParams())

	for i := 1; i < len(ds.Nodes); i++ {
		path := ShortestPath(g, ds.Nodes[0].ID, ds.Nodes[i].ID)
		if len(path) == 0 {
			continue
		}
		res := asm.Assemble(path, g, nil)
		assert.Len(t, res.Instructions, (len(path)-1)+2)
		assert.Len(t, res.PathCoordinates, len(path))
	}
}

func TestAssemble_SingleNode(t *testing.T) {
	ds := square()
	res := NewAssembler(Params{}).Assemble([]string{"C"}, Build(ds.Nodes, ds.Edges, false), nil)

	require.True(t, res.Found())
	assert.Zero(t, res.DistanceMeters)
	assert.Equal(t, []string{"Start at C.", "You have arrived at C."}, res.Instructions)
}

func TestAssemble_UsesLabelsAndEdgeTypes(t *testing.T) {
	ds := squareWithStairs()
	g := Build(ds.Nodes, ds.Edges, false)
	asm := NewAssembler(DefaultParams())
	asm.Label = func(id string) string {
		if id == "D" {
			return "Library"
		}
		return ""
	}

	res := asm.Assemble([]string{"A", "D"}, g, nil)
	assert.Equal(t, []string{
		"Start at A and head south toward Library.",
		"Walk 0.2 m via the stairs to Library.",
		"You have arrived at Library.",
	}, res.Instructions)
}

func TestAssemble_MissingCoordinate(t *testing.T) {
	ds := square()
	res := NewAssembler(DefaultParams()).Assemble([]string{"A", "ghost"}, Build(ds.Nodes, ds.Edges, false), nil)
	assert.False(t, res.Found())
}

func TestClassifyTurn(t *testing.T) {
	p := DefaultParams()
	o := domain.Coordinate{X: 0, Y: 0}
	east := domain.Coordinate{X: 10, Y: 0}

	cases := []struct {
		name string
		next domain.Coordinate
		want Turn
	}{
		{"straight", domain.Coordinate{X: 20, Y: 0}, TurnStraight},
		{"slight bend is straight", domain.Coordinate{X: 20, Y: 1}, TurnStraight},
		{"south is right", domain.Coordinate{X: 10, Y: 10}, TurnRight},
		{"north is left", domain.Coordinate{X: 10, Y: -10}, TurnLeft},
		{"back is around", domain.Coordinate{X: 0, Y: 0}, TurnAround},
		{"sharp left is around", domain.Coordinate{X: 0, Y: -1}, TurnAround},
		{"degenerate is straight", east, TurnStraight},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyTurn(TurnAngle(o, east, tc.next), p))
		})
	}
}

func TestClassifyTurn_Thresholds(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, TurnStraight, ClassifyTurn(14.9, p))
	assert.Equal(t, TurnRight, ClassifyTurn(15, p))
	assert.Equal(t, TurnLeft, ClassifyTurn(-90, p))
	assert.Equal(t, TurnRight, ClassifyTurn(135, p))
	assert.Equal(t, TurnAround, ClassifyTurn(135.1, p))
	assert.Equal(t, TurnAround, ClassifyTurn(-170, p))
}

func TestHeading(t *testing.T) {
	o := domain.Coordinate{}
	assert.Equal(t, "north", Heading(o, domain.Coordinate{X: 0, Y: -5}))
	assert.Equal(t, "east", Heading(o, domain.Coordinate{X: 5, Y: 0}))
	assert.Equal(t, "southeast", Heading(o, domain.Coordinate{X: 5, Y: 5}))
	assert.Equal(t, "west", Heading(o, domain.Coordinate{X: -5, Y: 0}))
	assert.Equal(t, "northwest", Heading(o, domain.Coordinate{X: -5, Y: -5}))
	assert.Equal(t, "", Heading(o, o))
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	bad := []Params{
		{PixelsPerMeter: 0, WalkingSpeedMPS: 1, StraightDegrees: 15, TurnAroundDegrees: 135},
		{PixelsPerMeter: 50, WalkingSpeedMPS: -1, StraightDegrees: 15, TurnAroundDegrees: 135},
		{PixelsPerMeter: 50, WalkingSpeedMPS: 1, StraightDegrees: 90, TurnAroundDegrees: 45},
		{PixelsPerMeter: 50, WalkingSpeedMPS: 1, StraightDegrees: 15, TurnAroundDegrees: 200},
	}
	for _, p := range bad {
		assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
	}
}

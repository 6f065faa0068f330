package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/campusnav/wayfinder/internal/domain"
)

const (
	margin     = 100.0
	noiseScale = 0.004
)

var roomKinds = []struct {
	category domain.Category
	prefix   string
}{
	{domain.CategoryOffice, "Office"},
	{domain.CategoryClassroom, "Classroom"},
	{domain.CategoryLaboratory, "Lab"},
	{domain.CategoryAmenity, "Cafe"},
	{domain.CategoryLibrary, "Reading Room"},
}

// Generator produces synthetic floor plans.
type Generator struct {
	cfg   Config
	rand  *rand.Rand
	noise opensimplex.Noise
}

// New returns a configured Generator instance. Zero sizes take defaults;
// a zero StairsChance or Jitter is kept.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Rows <= 0 {
		cfg.Rows = def.Rows
	}
	if cfg.Columns <= 0 {
		cfg.Columns = def.Columns
	}
	if cfg.Spacing <= 0 {
		cfg.Spacing = def.Spacing
	}
	if cfg.RoomsPerSegment <= 0 {
		cfg.RoomsPerSegment = def.RoomsPerSegment
	}
	if cfg.RoomDepth <= 0 {
		cfg.RoomDepth = def.RoomDepth
	}
	if cfg.StairsChance < 0 || cfg.StairsChance > 1 {
		cfg.StairsChance = def.StairsChance
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:   cfg,
		rand:  rand.New(rand.NewSource(cfg.Seed)),
		noise: opensimplex.New(cfg.Seed),
	}
}

// Generate builds the floor. Every node is reachable over accessible edges:
// horizontal corridors are always step-free, the first column of vertical
// corridors is never stairs and the last column is ramps.
func (g *Generator) Generate(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset
	rows, cols := g.cfg.Rows, g.cfg.Columns

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			ds.Nodes = append(ds.Nodes, domain.Node{
				ID:         intersectionID(r, c),
				Category:   domain.CategoryStructural,
				Kind:       "intersection",
				Floor:      g.cfg.Floor,
				Coordinate: g.place(margin+float64(c)*g.cfg.Spacing, margin+float64(r)*g.cfg.Spacing),
			})
		}
	}

	room := 0
	for r := 0; r < rows; r++ {
		if err := ctx.Err(); err != nil {
			return domain.Dataset{}, err
		}
		for c := 0; c+1 < cols; c++ {
			room = g.corridor(&ds, r, c, room)
		}
	}

	for r := 0; r+1 < rows; r++ {
		for c := 0; c < cols; c++ {
			typ, accessible := domain.EdgeCorridor, true
			switch {
			case c == cols-1 && cols > 1:
				typ = domain.EdgeRamp
			case c > 0 && g.rand.Float64() < g.cfg.StairsChance:
				typ, accessible = domain.EdgeStairs, false
			}
			ds.Edges = append(ds.Edges, domain.Edge{
				ID:         fmt.Sprintf("v_r%d_c%d", r, c),
				From:       intersectionID(r, c),
				To:         intersectionID(r+1, c),
				Accessible: accessible,
				Type:       typ,
			})
		}
	}
	return ds, nil
}

// corridor lays out the horizontal segment from (r,c) to (r,c+1) with one
// corridor node per room and a door edge to each room.
func (g *Generator) corridor(ds *domain.Dataset, r, c, room int) int {
	from := intersectionID(r, c)
	a := ds.Nodes[r*g.cfg.Columns+c].Coordinate
	b := ds.Nodes[r*g.cfg.Columns+c+1].Coordinate
	k := g.cfg.RoomsPerSegment

	prev := from
	for i := 1; i <= k; i++ {
		t := float64(i) / float64(k+1)
		cn := fmt.Sprintf("cn_r%d_c%d_%d", r, c, i)
		pos := domain.Coordinate{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
		ds.Nodes = append(ds.Nodes, domain.Node{
			ID: cn, Category: domain.CategoryStructural, Kind: "corridor_node", Floor: g.cfg.Floor, Coordinate: pos,
		})
		ds.Edges = append(ds.Edges, corridorEdge(prev, cn))
		prev = cn

		room++
		kind := roomKinds[g.rand.Intn(len(roomKinds))]
		roomID := fmt.Sprintf("room_%03d", room)
		ds.Nodes = append(ds.Nodes, domain.Node{
			ID:         roomID,
			Name:       fmt.Sprintf("%s %d.%02d", kind.prefix, g.cfg.Floor, room),
			Category:   kind.category,
			Kind:       "room",
			Floor:      g.cfg.Floor,
			Coordinate: g.place(pos.X, pos.Y+g.cfg.RoomDepth),
		})
		ds.Edges = append(ds.Edges, domain.Edge{
			ID: "door_" + roomID, From: cn, To: roomID, Accessible: true, Type: domain.EdgePathway,
		})
	}
	ds.Edges = append(ds.Edges, corridorEdge(prev, intersectionID(r, c+1)))
	return room
}

// place displaces a grid position with smooth noise so corridors are not
// perfectly straight.
func (g *Generator) place(x, y float64) domain.Coordinate {
	if g.cfg.Jitter == 0 {
		return domain.Coordinate{X: x, Y: y}
	}
	dx := g.noise.Eval2(x*noiseScale, y*noiseScale)
	dy := g.noise.Eval2(x*noiseScale+31.7, y*noiseScale-17.3)
	return domain.Coordinate{X: x + dx*g.cfg.Jitter, Y: y + dy*g.cfg.Jitter}
}

func corridorEdge(from, to string) domain.Edge {
	return domain.Edge{ID: "h_" + from + "_" + to, From: from, To: to, Accessible: true, Type: domain.EdgeCorridor}
}

func intersectionID(r, c int) string {
	return fmt.Sprintf("int_r%d_c%d", r, c)
}

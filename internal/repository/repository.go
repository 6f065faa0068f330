package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusnav/wayfinder/internal/domain"
	"github.com/campusnav/wayfinder/internal/graph"
)

var (
	// ErrMissingID is returned when a node or edge has no id.
	ErrMissingID = errors.New("id is required")
	// ErrMissingEndpoint is returned for edges without both endpoints.
	ErrMissingEndpoint = errors.New("edge endpoints are required")
)

// Repository stores the campus map as (:Place)-[:CONNECTS]->(:Place).
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// EnsureSchema creates the uniqueness constraints the upserts rely on.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaCypher {
		if _, err := r.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// UpsertNode creates or refreshes a place.
func (r *Repository) UpsertNode(ctx context.Context, n domain.Node) error {
	if n.ID == "" {
		return fmt.Errorf("upsert place: %w", ErrMissingID)
	}
	params := map[string]any{
		"placeId": n.ID,
		"props":   placeProperties(n),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertPlaceCypher, params); err != nil {
		return fmt.Errorf("upsert place %s: %w", n.ID, err)
	}
	return nil
}

// UpsertEdge creates or refreshes a connection. Missing endpoint places are
// created as bare placeholders so edges can be loaded before their nodes; the
// route engine drops any edge whose endpoint has no coordinates.
func (r *Repository) UpsertEdge(ctx context.Context, e domain.Edge) error {
	if e.ID == "" {
		return fmt.Errorf("upsert connection: %w", ErrMissingID)
	}
	if e.From == "" || e.To == "" {
		return fmt.Errorf("upsert connection %s: %w", e.ID, ErrMissingEndpoint)
	}
	params := map[string]any{
		"edgeId":     e.ID,
		"fromId":     e.From,
		"toId":       e.To,
		"accessible": e.Accessible,
		"type":       string(e.Type),
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertConnectionCypher, params); err != nil {
		return fmt.Errorf("upsert connection %s: %w", e.ID, err)
	}
	return nil
}

// CountPlaces returns the number of stored places.
func (r *Repository) CountPlaces(ctx context.Context) (int, error) {
	res, err := r.client.ExecuteRead(ctx, countPlacesCypher, nil)
	if err != nil {
		return 0, fmt.Errorf("count places: %w", err)
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	return int(toInt64(res.Records[0]["total"])), nil
}

// LoadDataset reads the whole map. Places come back ordered by id so that
// nearest-node tie-breaks are stable across reloads. Placeholder places
// without coordinates are left out.
func (r *Repository) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	placeRes, err := r.client.ExecuteRead(ctx, loadPlacesCypher, nil)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load places: %w", err)
	}
	edgeRes, err := r.client.ExecuteRead(ctx, loadConnectionsCypher, nil)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load connections: %w", err)
	}

	ds := domain.Dataset{
		Nodes: make([]domain.Node, 0, len(placeRes.Records)),
		Edges: make([]domain.Edge, 0, len(edgeRes.Records)),
	}
	for _, rec := range placeRes.Records {
		x, okX := toFloat64(rec["x"])
		y, okY := toFloat64(rec["y"])
		id := toString(rec["id"])
		if id == "" || !okX || !okY {
			continue
		}
		ds.Nodes = append(ds.Nodes, domain.Node{
			ID:         id,
			Name:       toString(rec["name"]),
			Category:   domain.Category(toString(rec["category"])),
			Kind:       toString(rec["kind"]),
			Floor:      int(toInt64(rec["floor"])),
			Coordinate: domain.Coordinate{X: x, Y: y},
		})
	}
	for _, rec := range edgeRes.Records {
		accessible, _ := rec["accessible"].(bool)
		ds.Edges = append(ds.Edges, domain.Edge{
			ID:         toString(rec["id"]),
			From:       toString(rec["from"]),
			To:         toString(rec["to"]),
			Accessible: accessible,
			Type:       domain.EdgeType(toString(rec["type"])),
		})
	}
	return ds, nil
}

func placeProperties(n domain.Node) map[string]any {
	return map[string]any{
		"name":     n.Name,
		"category": string(n.Category),
		"kind":     n.Kind,
		"floor":    int64(n.Floor),
		"x":        n.Coordinate.X,
		"y":        n.Coordinate.Y,
	}
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

var schemaCypher = []string{
	`CREATE CONSTRAINT place_id IF NOT EXISTS FOR (p:Place) REQUIRE p.id IS UNIQUE`,
	`CREATE CONSTRAINT connection_id IF NOT EXISTS FOR ()-[c:CONNECTS]-() REQUIRE c.id IS UNIQUE`,
}

const upsertPlaceCypher = `
MERGE (p:Place {id: $placeId})
SET p += $props
`

const upsertConnectionCypher = `
MERGE (a:Place {id: $fromId})
MERGE (b:Place {id: $toId})
WITH a, b
OPTIONAL MATCH ()-[old:CONNECTS {id: $edgeId}]-()
DELETE old
WITH a, b
CREATE (a)-[c:CONNECTS {id: $edgeId}]->(b)
SET c.accessible = $accessible, c.type = $type
`

const countPlacesCypher = `
MATCH (p:Place)
RETURN count(p) AS total
`

const loadPlacesCypher = `
MATCH (p:Place)
RETURN p.id AS id, p.name AS name, p.category AS category, p.kind AS kind,
       p.floor AS floor, p.x AS x, p.y AS y
ORDER BY p.id
`

const loadConnectionsCypher = `
MATCH (a:Place)-[c:CONNECTS]->(b:Place)
RETURN c.id AS id, a.id AS from, b.id AS to, c.accessible AS accessible, c.type AS type
ORDER BY c.id
`

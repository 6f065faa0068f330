package service

import (
	"regexp"
	"strings"

	"github.com/campusnav/wayfinder/internal/domain"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeDataset returns a copy of ds with ids trimmed, names collapsed to
// single spaces and enumerations lowercased. Order is preserved.
func NormalizeDataset(ds domain.Dataset) domain.Dataset {
	out := domain.Dataset{
		Nodes: make([]domain.Node, len(ds.Nodes)),
		Edges: make([]domain.Edge, len(ds.Edges)),
	}
	for i, n := range ds.Nodes {
		out.Nodes[i] = normalizeNode(n)
	}
	for i, e := range ds.Edges {
		out.Edges[i] = normalizeEdge(e)
	}
	return out
}

func normalizeNode(n domain.Node) domain.Node {
	n.ID = strings.TrimSpace(n.ID)
	n.Name = normalizeName(n.Name)
	n.Category = domain.Category(normalizeEnum(string(n.Category)))
	n.Kind = normalizeEnum(n.Kind)
	return n
}

func normalizeEdge(e domain.Edge) domain.Edge {
	e.ID = strings.TrimSpace(e.ID)
	e.From = strings.TrimSpace(e.From)
	e.To = strings.TrimSpace(e.To)
	e.Type = domain.EdgeType(normalizeEnum(string(e.Type)))
	if e.Type == "" {
		e.Type = domain.EdgeCorridor
	}
	return e
}

// normalizeName collapses runs of whitespace.
func normalizeName(name string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(name, " "))
}

func normalizeEnum(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return whitespaceRegex.ReplaceAllString(v, "_")
}

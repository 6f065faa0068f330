package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/campusnav/wayfinder/internal/domain"
	"github.com/campusnav/wayfinder/internal/mapdata"
)

// File names written by WriteDataset.
const (
	NodesFile = "nodes.geojson"
	EdgesFile = "edges.geojson"
)

// WriteDataset writes nodes.geojson and edges.geojson under dir.
func WriteDataset(ds domain.Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	nodesPath := filepath.Join(dir, NodesFile)
	nodesFile, err := os.Create(nodesPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", nodesPath, err)
	}
	defer nodesFile.Close()

	edgesPath := filepath.Join(dir, EdgesFile)
	edgesFile, err := os.Create(edgesPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", edgesPath, err)
	}
	defer edgesFile.Close()

	if err := mapdata.WriteGeoJSON(ds, nodesFile, edgesFile); err != nil {
		return err
	}
	if err := nodesFile.Close(); err != nil {
		return fmt.Errorf("close %s: %w", nodesPath, err)
	}
	if err := edgesFile.Close(); err != nil {
		return fmt.Errorf("close %s: %w", edgesPath, err)
	}
	return nil
}

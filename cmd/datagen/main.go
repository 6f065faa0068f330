package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/campusnav/wayfinder/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		rows         = flag.Int("rows", cfg.Rows, "corridor rows")
		columns      = flag.Int("columns", cfg.Columns, "corridor columns")
		spacing      = flag.Float64("spacing", cfg.Spacing, "pixels between corridor intersections")
		rooms        = flag.Int("rooms", cfg.RoomsPerSegment, "rooms per corridor segment")
		stairsChance = flag.Float64("stairs-chance", cfg.StairsChance, "probability that an inner vertical corridor is stairs")
		jitter       = flag.Float64("jitter", cfg.Jitter, "max coordinate noise in pixels")
		floor        = flag.Int("floor", cfg.Floor, "floor number written on every node")
		seed         = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir    = flag.String("output-dir", "data", "directory to write nodes.geojson and edges.geojson")
	)
	flag.Parse()

	genCfg := generator.Config{
		Rows:            *rows,
		Columns:         *columns,
		Spacing:         *spacing,
		RoomsPerSegment: *rooms,
		RoomDepth:       cfg.RoomDepth,
		StairsChance:    clampProbability(*stairsChance),
		Jitter:          *jitter,
		Floor:           *floor,
		Seed:            *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d nodes and %d edges into %s\n", len(dataset.Nodes), len(dataset.Edges), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/campusnav/wayfinder/internal/config"
	"github.com/campusnav/wayfinder/internal/graph"
	"github.com/campusnav/wayfinder/internal/logging"
	"github.com/campusnav/wayfinder/internal/mapdata"
	"github.com/campusnav/wayfinder/internal/repository"
	"github.com/campusnav/wayfinder/internal/service"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir = flag.String("dataset-dir", "./data", "Directory containing nodes.geojson and edges.geojson")
		nodesPath  = flag.String("nodes", "", "Path to nodes.geojson (overrides dataset-dir)")
		edgesPath  = flag.String("edges", "", "Path to edges.geojson (overrides dataset-dir)")
		osmPath    = flag.String("osm", "", "Import an OSM XML file instead of GeoJSON")
		workers    = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
		skipSchema = flag.Bool("skip-schema", false, "Do not create uniqueness constraints")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source, err := resolveSource(*datasetDir, *nodesPath, *edgesPath, *osmPath)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	ds, err := source.LoadDataset(ctx)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	if len(ds.Nodes) == 0 {
		logger.Error("dataset has no nodes")
		os.Exit(1)
	}

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	if !*skipSchema {
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
	}

	ingestor := service.NewBulkIngestor(repo, *workers)

	start := time.Now()
	logger.Info("ingesting map", "nodes", len(ds.Nodes), "edges", len(ds.Edges), "workers", *workers)
	if err := ingestor.IngestDataset(ctx, ds); err != nil {
		logger.Error("map ingestion failed", "error", err)
		os.Exit(1)
	}

	total, err := repo.CountPlaces(ctx)
	if err != nil {
		logger.Warn("could not count stored places", "error", err)
	}
	logger.Info("ingestion complete", "duration", time.Since(start).String(), "places", total)
}

func resolveSource(baseDir, nodesPath, edgesPath, osmPath string) (service.MapSource, error) {
	if osmPath != "" {
		if _, err := os.Stat(osmPath); err != nil {
			return nil, fmt.Errorf("stat %s: %w", osmPath, err)
		}
		return mapdata.OSMFileSource{Path: osmPath}, nil
	}

	resolve := func(explicitPath, fallbackFile string) (string, error) {
		if explicitPath != "" {
			if _, err := os.Stat(explicitPath); err != nil {
				return "", fmt.Errorf("stat %s: %w", explicitPath, err)
			}
			return explicitPath, nil
		}
		path := filepath.Join(baseDir, fallbackFile)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", errMissingDataset, path)
		}
		return path, nil
	}

	nodesFile, err := resolve(nodesPath, "nodes.geojson")
	if err != nil {
		return nil, err
	}
	edgesFile, err := resolve(edgesPath, "edges.geojson")
	if err != nil {
		return nil, err
	}
	return mapdata.FileSource{NodesPath: nodesFile, EdgesPath: edgesFile}, nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion: %w", graph.ErrMissingURI)
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}

// Command route answers one route query against map files and prints the
// result as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/campusnav/wayfinder/internal/config"
	"github.com/campusnav/wayfinder/internal/domain"
	"github.com/campusnav/wayfinder/internal/logging"
	"github.com/campusnav/wayfinder/internal/mapdata"
	"github.com/campusnav/wayfinder/internal/routing"
	"github.com/campusnav/wayfinder/internal/service"
)

type output struct {
	Found             bool                `json:"found"`
	Reason            string              `json:"reason,omitempty"`
	StartNodeID       string              `json:"startNodeId,omitempty"`
	DestinationNodeID string              `json:"destinationNodeId,omitempty"`
	PathNodeIDs       []string            `json:"pathNodeIds"`
	PathCoordinates   []domain.Coordinate `json:"pathCoordinates"`
	DistancePixels    float64             `json:"distancePixels"`
	DistanceMeters    float64             `json:"distanceMeters"`
	EstimatedMinutes  float64             `json:"estimatedMinutes"`
	Instructions      []string            `json:"instructions"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		nodesPath  = flag.String("nodes", cfg.Map.NodesFile, "Path to nodes.geojson")
		edgesPath  = flag.String("edges", cfg.Map.EdgesFile, "Path to edges.geojson")
		osmPath    = flag.String("osm", "", "Read the map from an OSM XML file instead")
		from       = flag.String("from", "", "Start node id")
		fromXY     = flag.String("from-xy", "", "Start pixel coordinate as x,y")
		to         = flag.String("to", "", "Destination node id")
		toXY       = flag.String("to-xy", "", "Destination pixel coordinate as x,y")
		accessible = flag.Bool("accessible", false, "Avoid stairs and other non-accessible edges")
	)
	flag.Parse()

	logger := logging.NewWithWriter(os.Stderr, cfg.Logging).With("component", "route")

	start, err := parsePoint(*fromXY)
	if err != nil {
		logger.Error("invalid -from-xy", "error", err)
		os.Exit(2)
	}
	destination, err := parsePoint(*toXY)
	if err != nil {
		logger.Error("invalid -to-xy", "error", err)
		os.Exit(2)
	}

	var source service.MapSource = mapdata.FileSource{NodesPath: *nodesPath, EdgesPath: *edgesPath}
	if *osmPath != "" {
		source = mapdata.OSMFileSource{Path: *osmPath}
	}
	ds, err := source.LoadDataset(context.Background())
	if err != nil {
		logger.Error("failed to load map", "error", err)
		os.Exit(1)
	}

	engine, err := routing.NewEngine(routing.Params{
		PixelsPerMeter:    cfg.Routing.PixelsPerMeter,
		WalkingSpeedMPS:   cfg.Routing.WalkingSpeedMPS,
		StraightDegrees:   cfg.Routing.StraightDegrees,
		TurnAroundDegrees: cfg.Routing.TurnAroundDegrees,
	}, routing.WithObserver(func(s routing.State) {
		logger.Debug("query state", "state", s.String())
	}))
	if err != nil {
		logger.Error("invalid routing configuration", "error", err)
		os.Exit(1)
	}

	snap := engine.Load(service.NormalizeDataset(ds))
	if report := snap.Report(*accessible); len(report.Dropped) > 0 {
		logger.Info("map records ignored", "count", len(report.Dropped), "malformed", report.Malformed())
	}

	res, err := engine.Route(routing.Query{
		Start:             start,
		StartNodeID:       *from,
		Destination:       destination,
		DestinationNodeID: *to,
		AccessibleOnly:    *accessible,
	})
	if err != nil {
		logger.Error("invalid query", "error", err)
		os.Exit(2)
	}

	out := output{
		Found:             res.Outcome == routing.OutcomeSuccess,
		Reason:            string(res.Reason),
		StartNodeID:       res.StartNodeID,
		DestinationNodeID: res.DestinationNodeID,
		PathNodeIDs:       nonNil(res.PathNodeIDs),
		PathCoordinates:   res.PathCoordinates,
		DistancePixels:    res.DistancePixels,
		DistanceMeters:    res.DistanceMeters,
		EstimatedMinutes:  res.EstimatedMinutes,
		Instructions:      nonNil(res.Instructions),
	}
	if out.PathCoordinates == nil {
		out.PathCoordinates = []domain.Coordinate{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("failed to write result", "error", err)
		os.Exit(1)
	}
	if !out.Found {
		os.Exit(3)
	}
}

func parsePoint(v string) (*domain.Coordinate, error) {
	if v == "" {
		return nil, nil
	}
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return nil, errors.New("expected x,y")
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("parse x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("parse y: %w", err)
	}
	return &domain.Coordinate{X: x, Y: y}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

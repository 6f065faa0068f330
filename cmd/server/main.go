package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/campusnav/wayfinder/internal/config"
	"github.com/campusnav/wayfinder/internal/graph"
	"github.com/campusnav/wayfinder/internal/logging"
	"github.com/campusnav/wayfinder/internal/mapdata"
	"github.com/campusnav/wayfinder/internal/repository"
	"github.com/campusnav/wayfinder/internal/routing"
	"github.com/campusnav/wayfinder/internal/server"
	"github.com/campusnav/wayfinder/internal/service"
)

func main() {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	graphClient, err := buildGraphClient(ctx, cfg)
	if err != nil && !errors.Is(err, graph.ErrMissingURI) {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if graphClient != nil {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}
	}()

	source := buildMapSource(logger, cfg, graphClient)

	var (
		registry *prometheus.Registry
		opts     = []service.Option{service.WithSnapRadius(cfg.Routing.SnapRadiusPixels)}
	)
	if cfg.HTTP.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, service.WithMetrics(service.NewMetrics(registry)))
	}

	routeService, err := service.NewRouteService(logger, source, routing.Params{
		PixelsPerMeter:    cfg.Routing.PixelsPerMeter,
		WalkingSpeedMPS:   cfg.Routing.WalkingSpeedMPS,
		StraightDegrees:   cfg.Routing.StraightDegrees,
		TurnAroundDegrees: cfg.Routing.TurnAroundDegrees,
	}, opts...)
	if err != nil {
		logger.Error("invalid routing configuration", "error", err)
		os.Exit(1)
	}

	if _, err := routeService.Reload(ctx); err != nil {
		logger.Warn("initial map load failed; serving 503 until a reload succeeds", "error", err)
	}
	go routeService.Watch(ctx, cfg.Map.RefreshInterval)

	deps := server.RouterDependencies{
		Health: server.HealthChecks{
			server.GraphHealthService{Client: graphClient},
			server.MapHealthService{Routes: routeService},
		},
		API:              server.NewAPIHandlers(logger, routeService),
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	}
	if registry != nil {
		deps.Metrics = registry
	}
	router := server.NewRouter(logger, deps)

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// buildMapSource prefers the graph database and falls back to GeoJSON files.
func buildMapSource(logger *slog.Logger, cfg config.Config, client graph.Client) service.MapSource {
	if client != nil {
		logger.Info("loading map from graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
		return repository.New(client)
	}
	logger.Info("loading map from files", "nodes", cfg.Map.NodesFile, "edges", cfg.Map.EdgesFile)
	return mapdata.FileSource{NodesPath: cfg.Map.NodesFile, EdgesPath: cfg.Map.EdgesFile}
}

func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	return graph.NewNeo4jClient(ctx, opts)
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}

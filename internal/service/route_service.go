package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/campusnav/wayfinder/internal/domain"
	"github.com/campusnav/wayfinder/internal/routing"
)

const tracerName = "github.com/campusnav/wayfinder/internal/service"

// MapSource supplies the dataset the engine serves.
type MapSource interface {
	LoadDataset(ctx context.Context) (domain.Dataset, error)
}

// RouteService loads map snapshots into the route engine and answers queries.
type RouteService struct {
	source     MapSource
	engine     *routing.Engine
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
	snapRadius float64
	newID      func() string
}

// Option customises a RouteService.
type Option func(*RouteService)

// WithMetrics records query and reload metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *RouteService) { s.metrics = m }
}

// WithSnapRadius warns when a coordinate endpoint is farther than px pixels
// from every node. Zero disables the warning.
func WithSnapRadius(px float64) Option {
	return func(s *RouteService) { s.snapRadius = px }
}

// WithIDGenerator overrides how query ids are produced.
func WithIDGenerator(fn func() string) Option {
	return func(s *RouteService) { s.newID = fn }
}

// NewRouteService wires a route engine configured with params to source.
// Nothing is loaded until Reload is called.
func NewRouteService(logger *slog.Logger, source MapSource, params routing.Params, opts ...Option) (*RouteService, error) {
	engine, err := routing.NewEngine(params)
	if err != nil {
		return nil, err
	}
	s := &RouteService{
		source: source,
		engine: engine,
		logger: logger.With("component", "route_service"),
		tracer: otel.Tracer(tracerName),
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Reload pulls a fresh dataset from the map source and publishes it. A failed
// load leaves the current snapshot in place.
func (s *RouteService) Reload(ctx context.Context) (MapStatus, error) {
	ctx, span := s.tracer.Start(ctx, "RouteService.Reload")
	defer span.End()

	started := time.Now()
	ds, err := s.source.LoadDataset(ctx)
	if err != nil {
		err = fmt.Errorf("load map dataset: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		s.metrics.observeReload(MapStatus{}, err)
		s.logger.Error("map reload failed", "error", err)
		return s.Status(), err
	}

	snap := s.engine.Load(NormalizeDataset(ds))
	status := statusOf(snap)
	s.metrics.observeReload(status, nil)

	for _, d := range snap.Report(false).Dropped {
		s.logger.Debug("map record dropped", "id", d.ID, "from", d.From, "to", d.To, "reason", string(d.Reason))
	}
	if status.Dropped > 0 {
		s.logger.Warn("map contains malformed records", "dropped", status.Dropped, "version", status.Version)
	}
	s.logger.Info("map snapshot loaded",
		"version", status.Version,
		"nodes", status.Nodes,
		"edges", status.Edges,
		"accessible_edges", status.AccessibleEdges,
		"duration", time.Since(started),
	)
	span.SetAttributes(
		attribute.Int64("map.version", int64(status.Version)),
		attribute.Int("map.nodes", status.Nodes),
		attribute.Int("map.edges", status.Edges),
	)
	return status, nil
}

// Watch reloads every interval until ctx is done. Failed reloads are logged
// and retried on the next tick. A non-positive interval disables watching.
func (s *RouteService) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Reload(ctx)
		}
	}
}

// Status reports the snapshot currently served.
func (s *RouteService) Status() MapStatus {
	return statusOf(s.engine.Snapshot())
}

// Params returns the route parameters in use.
func (s *RouteService) Params() routing.Params {
	return s.engine.Params()
}

// Route answers a route request. Invalid requests return an error wrapping
// routing.ErrInvalidQuery; a service that has never loaded a map returns
// routing.ErrNoSnapshot. Every other failure is a response with Found false.
func (s *RouteService) Route(ctx context.Context, req RouteRequest) (RouteResponse, error) {
	queryID := s.newID()
	_, span := s.tracer.Start(ctx, "RouteService.Route", trace.WithAttributes(
		attribute.String("query.id", queryID),
		attribute.Bool("query.accessible_only", req.AccessibleOnly),
	))
	defer span.End()

	logger := s.logger.With("query_id", queryID)
	query := routing.Query{
		Start:             req.Start,
		StartNodeID:       req.StartNodeID,
		Destination:       req.Destination,
		DestinationNodeID: req.DestinationNodeID,
		AccessibleOnly:    req.AccessibleOnly,
	}

	snap := s.engine.Snapshot()
	if snap == nil {
		span.SetStatus(codes.Error, "no snapshot")
		return RouteResponse{QueryID: queryID}, routing.ErrNoSnapshot
	}

	started := time.Now()
	res, err := snap.Route(query, routing.NewAssembler(s.engine.Params()), func(st routing.State) {
		logger.Debug("route query state", "state", st.String())
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid query")
		logger.Info("route query rejected", "error", err)
		return RouteResponse{QueryID: queryID}, err
	}
	s.metrics.observeQuery(res.Outcome.String(), string(res.Reason), req.AccessibleOnly, time.Since(started).Seconds())

	resp := RouteResponse{
		QueryID:           queryID,
		Found:             res.Outcome == routing.OutcomeSuccess,
		Reason:            string(res.Reason),
		StartNodeID:       res.StartNodeID,
		DestinationNodeID: res.DestinationNodeID,
		SnapshotVersion:   res.SnapshotVersion,
		Route:             res.RouteResult,
		Warnings:          s.warnings(snap, req, res),
	}

	span.SetAttributes(
		attribute.String("route.outcome", res.Outcome.String()),
		attribute.Int("route.nodes", len(res.PathNodeIDs)),
		attribute.Float64("route.meters", res.DistanceMeters),
	)
	logger.Info("route query answered",
		"outcome", res.Outcome.String(),
		"reason", resp.Reason,
		"start", res.StartNodeID,
		"destination", res.DestinationNodeID,
		"meters", res.DistanceMeters,
		"snapshot", res.SnapshotVersion,
	)
	return resp, nil
}

// Navigate routes between two node ids.
func (s *RouteService) Navigate(ctx context.Context, fromID, toID string, accessibleOnly bool) (RouteResponse, error) {
	return s.Route(ctx, RouteRequest{
		StartNodeID:       fromID,
		DestinationNodeID: toID,
		AccessibleOnly:    accessibleOnly,
	})
}

func (s *RouteService) warnings(snap *routing.Snapshot, req RouteRequest, res routing.Result) []string {
	var out []string
	if s.snapRadius > 0 {
		meters := s.snapRadius / s.engine.Params().PixelsPerMeter
		if req.Start != nil && len(snap.Index().Within(*req.Start, s.snapRadius)) == 0 {
			out = append(out, fmt.Sprintf("start point is more than %.1f m from any mapped location", meters))
		}
		if req.Destination != nil && len(snap.Index().Within(*req.Destination, s.snapRadius)) == 0 {
			out = append(out, fmt.Sprintf("destination point is more than %.1f m from any mapped location", meters))
		}
	}
	if req.AccessibleOnly && res.Reason == routing.ReasonUnreachable {
		if len(routing.ShortestPath(snap.Graph(false), res.StartNodeID, res.DestinationNodeID)) > 0 {
			out = append(out, "no step-free route exists; a route using stairs is available")
		}
	}
	return out
}

func statusOf(snap *routing.Snapshot) MapStatus {
	if snap == nil {
		return MapStatus{}
	}
	return MapStatus{
		Loaded:          true,
		Version:         snap.Version(),
		LoadedAt:        snap.LoadedAt(),
		Nodes:           snap.NodeCount(),
		Edges:           snap.Graph(false).EdgeCount(),
		AccessibleEdges: snap.Graph(true).EdgeCount(),
		Dropped:         snap.Report(false).Malformed(),
	}
}

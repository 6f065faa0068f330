package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/campusnav/wayfinder/internal/domain"
	"github.com/campusnav/wayfinder/internal/routing"
)

type stubSource struct {
	mu    sync.Mutex
	ds    domain.Dataset
	err   error
	calls int
}

func (s *stubSource) LoadDataset(context.Context) (domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.ds, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// corridor is lobby(0,0) - hall(100,0) - lab(100,100), with a stairs-only
// link hall - roof(200,0).
func corridor() domain.Dataset {
	return domain.Dataset{
		Nodes: []domain.Node{
			{ID: "lobby", Name: "Main  Lobby", Coordinate: domain.Coordinate{X: 0, Y: 0}},
			{ID: "hall", Coordinate: domain.Coordinate{X: 100, Y: 0}},
			{ID: "lab", Name: "Robotics Lab", Category: "Laboratory", Coordinate: domain.Coordinate{X: 100, Y: 100}},
			{ID: "roof", Coordinate: domain.Coordinate{X: 200, Y: 0}},
		},
		Edges: []domain.Edge{
			{ID: "e1", From: "lobby", To: "hall", Accessible: true, Type: domain.EdgeCorridor},
			{ID: "e2", From: "hall", To: "lab", Accessible: true, Type: domain.EdgeCorridor},
			{ID: "e3", From: "hall", To: "roof", Accessible: false, Type: domain.EdgeStairs},
			{ID: "e4", From: "hall", To: "ghost", Accessible: true},
		},
	}
}

func newTestService(t *testing.T, src MapSource, opts ...Option) *RouteService {
	t.Helper()
	svc, err := NewRouteService(discardLogger(), src, routing.DefaultParams(), opts...)
	if err != nil {
		t.Fatalf("new route service: %v", err)
	}
	return svc
}

func TestRouteService_RouteBeforeReload(t *testing.T) {
	svc := newTestService(t, &stubSource{ds: corridor()})

	_, err := svc.Navigate(context.Background(), "lobby", "lab", false)
	if !errors.Is(err, routing.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
	if svc.Status().Loaded {
		t.Fatalf("status must report not loaded")
	}
}

func TestRouteService_ReloadAndRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := newTestService(t, &stubSource{ds: corridor()},
		WithMetrics(NewMetrics(reg)),
		WithIDGenerator(func() string { return "q-1" }),
	)

	status, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !status.Loaded || status.Version != 1 || status.Nodes != 4 {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.Edges != 3 || status.AccessibleEdges != 2 || status.Dropped != 1 {
		t.Fatalf("unexpected edge counts %+v", status)
	}

	resp, err := svc.Route(context.Background(), RouteRequest{
		Start:             &domain.Coordinate{X: 3, Y: 4},
		DestinationNodeID: "lab",
	})
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if resp.QueryID != "q-1" || !resp.Found {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got := strings.Join(resp.Route.PathNodeIDs, ","); got != "lobby,hall,lab" {
		t.Fatalf("unexpected path %s", got)
	}
	if resp.Route.DistanceMeters != 4 {
		t.Fatalf("expected 4 m, got %v", resp.Route.DistanceMeters)
	}
	if !strings.Contains(resp.Route.Instructions[0], "Main Lobby") {
		t.Fatalf("expected normalized name in %q", resp.Route.Instructions[0])
	}

	if got := testutil.ToFloat64(svc.metrics.queries.WithLabelValues("success", "")); got != 1 {
		t.Fatalf("expected 1 successful query metric, got %v", got)
	}
	if got := testutil.ToFloat64(svc.metrics.snapshotVersion); got != 1 {
		t.Fatalf("expected snapshot version gauge 1, got %v", got)
	}
}

func TestRouteService_NoRouteAndWarnings(t *testing.T) {
	svc := newTestService(t, &stubSource{ds: corridor()}, WithSnapRadius(50))
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	resp, err := svc.Navigate(context.Background(), "lobby", "roof", true)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if resp.Found || resp.Reason != string(routing.ReasonUnreachable) {
		t.Fatalf("expected unreachable, got %+v", resp)
	}
	if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "stairs") {
		t.Fatalf("expected stairs warning, got %v", resp.Warnings)
	}

	resp, err = svc.Route(context.Background(), RouteRequest{
		Start:             &domain.Coordinate{X: -500, Y: -500},
		DestinationNodeID: "hall",
	})
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if !resp.Found {
		t.Fatalf("far start still snaps to the closest node: %+v", resp)
	}
	if len(resp.Warnings) != 1 || !strings.Contains(resp.Warnings[0], "1.0 m") {
		t.Fatalf("expected snap warning, got %v", resp.Warnings)
	}

	resp, err = svc.Navigate(context.Background(), "nowhere", "hall", false)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if resp.Reason != string(routing.ReasonUnknownStart) {
		t.Fatalf("expected unknown_start, got %q", resp.Reason)
	}
}

func TestRouteService_InvalidRequest(t *testing.T) {
	svc := newTestService(t, &stubSource{ds: corridor()})
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	_, err := svc.Route(context.Background(), RouteRequest{StartNodeID: "lobby"})
	if !errors.Is(err, routing.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestRouteService_FailedReloadKeepsSnapshot(t *testing.T) {
	src := &stubSource{ds: corridor()}
	svc := newTestService(t, src)
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	src.mu.Lock()
	src.err = errors.New("disk on fire")
	src.mu.Unlock()

	status, err := svc.Reload(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
	if status.Version != 1 {
		t.Fatalf("expected previous snapshot to stay, got %+v", status)
	}
	if _, err := svc.Navigate(context.Background(), "lobby", "lab", false); err != nil {
		t.Fatalf("route after failed reload: %v", err)
	}
}

func TestRouteService_WatchStopsOnCancel(t *testing.T) {
	src := &stubSource{ds: corridor()}
	svc := newTestService(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Watch(ctx, 1)
		close(done)
	}()

	for {
		src.mu.Lock()
		calls := src.calls
		src.mu.Unlock()
		if calls >= 2 {
			break
		}
	}
	cancel()
	<-done

	if !svc.Status().Loaded {
		t.Fatalf("expected watch to load a snapshot")
	}
	svc.Watch(context.Background(), 0)
}

func TestNewRouteService_RejectsBadParams(t *testing.T) {
	_, err := NewRouteService(discardLogger(), &stubSource{}, routing.Params{WalkingSpeedMPS: -1})
	if !errors.Is(err, routing.ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
}

package service

import (
	"time"

	"github.com/campusnav/wayfinder/internal/domain"
)

// RouteRequest is the inbound payload accepted by the route service. Each
// endpoint is either a pixel coordinate or a node id.
type RouteRequest struct {
	Start             *domain.Coordinate
	StartNodeID       string
	Destination       *domain.Coordinate
	DestinationNodeID string
	AccessibleOnly    bool
}

// RouteResponse carries the route plus query bookkeeping for API clients.
type RouteResponse struct {
	QueryID           string
	Found             bool
	Reason            string
	StartNodeID       string
	DestinationNodeID string
	SnapshotVersion   uint64
	Route             domain.RouteResult
	Warnings          []string
}

// MapStatus describes the snapshot currently served.
type MapStatus struct {
	Loaded          bool
	Version         uint64
	LoadedAt        time.Time
	Nodes           int
	Edges           int
	AccessibleEdges int
	Dropped         int
}

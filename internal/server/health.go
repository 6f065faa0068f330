package server

import (
	"context"
	"errors"

	"github.com/campusnav/wayfinder/internal/graph"
	"github.com/campusnav/wayfinder/internal/service"
)

// ErrMapNotLoaded is reported by readiness probes before the first snapshot.
var ErrMapNotLoaded = errors.New("map snapshot not loaded")

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies graph connectivity as part of health checks.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}

// MapHealthService fails until the route service has a snapshot.
type MapHealthService struct {
	Routes *service.RouteService
}

// Probe implements the HealthService interface.
func (s MapHealthService) Probe(context.Context) error {
	if s.Routes == nil || !s.Routes.Status().Loaded {
		return ErrMapNotLoaded
	}
	return nil
}

// HealthChecks runs every probe and returns the first failure.
type HealthChecks []HealthService

// Probe implements the HealthService interface.
func (hc HealthChecks) Probe(ctx context.Context) error {
	for _, check := range hc {
		if check == nil {
			continue
		}
		if err := check.Probe(ctx); err != nil {
			return err
		}
	}
	return nil
}

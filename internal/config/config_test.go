package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != defaultPort {
		t.Fatalf("expected port %d, got %d", defaultPort, cfg.HTTP.Port)
	}
	if cfg.Routing.PixelsPerMeter != 50 || cfg.Routing.WalkingSpeedMPS != 1.4 {
		t.Fatalf("unexpected routing defaults: %+v", cfg.Routing)
	}
	if cfg.Map.RefreshInterval != 0 {
		t.Fatalf("expected refresh disabled by default, got %s", cfg.Map.RefreshInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ROUTE_WALKING_SPEED_MPS", "1.2")
	t.Setenv("ROUTE_SNAP_RADIUS_PX", "80")
	t.Setenv("MAP_REFRESH_INTERVAL", "30s")
	t.Setenv("MAP_NODES_FILE", "/tmp/n.geojson")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Routing.WalkingSpeedMPS != 1.2 {
		t.Errorf("expected walking speed 1.2, got %v", cfg.Routing.WalkingSpeedMPS)
	}
	if cfg.Routing.SnapRadiusPixels != 80 {
		t.Errorf("expected snap radius 80, got %v", cfg.Routing.SnapRadiusPixels)
	}
	if cfg.Map.RefreshInterval != 30*time.Second {
		t.Errorf("expected 30s refresh, got %s", cfg.Map.RefreshInterval)
	}
	if cfg.Map.NodesFile != "/tmp/n.geojson" {
		t.Errorf("unexpected nodes file %q", cfg.Map.NodesFile)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"SERVER_PORT":            "70000",
		"ROUTE_PIXELS_PER_METER": "abc",
		"ROUTE_STRAIGHT_DEGREES": "-4",
		"MAP_REFRESH_INTERVAL":   "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

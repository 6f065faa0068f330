package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/campusnav/wayfinder/internal/domain"
	"github.com/campusnav/wayfinder/internal/routing"
	"github.com/campusnav/wayfinder/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.RouteService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.RouteService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

type pointPayload struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type routeRequest struct {
	Start             *pointPayload `json:"start"`
	StartNodeID       string        `json:"startNodeId"`
	Destination       *pointPayload `json:"destination"`
	DestinationNodeID string        `json:"destinationNodeId"`
	AccessibleOnly    bool          `json:"accessibleOnly"`
}

type routeResponse struct {
	QueryID           string              `json:"queryId"`
	Found             bool                `json:"found"`
	Reason            string              `json:"reason,omitempty"`
	StartNodeID       string              `json:"startNodeId,omitempty"`
	DestinationNodeID string              `json:"destinationNodeId,omitempty"`
	SnapshotVersion   uint64              `json:"snapshotVersion"`
	PathNodeIDs       []string            `json:"pathNodeIds"`
	PathCoordinates   []domain.Coordinate `json:"pathCoordinates"`
	DistancePixels    float64             `json:"distancePixels"`
	DistanceMeters    float64             `json:"distanceMeters"`
	EstimatedMinutes  float64             `json:"estimatedMinutes"`
	Instructions      []string            `json:"instructions"`
	Warnings          []string            `json:"warnings"`
}

type mapStatusResponse struct {
	Loaded          bool   `json:"loaded"`
	Version         uint64 `json:"version"`
	LoadedAt        string `json:"loadedAt,omitempty"`
	Nodes           int    `json:"nodes"`
	Edges           int    `json:"edges"`
	AccessibleEdges int    `json:"accessibleEdges"`
	Dropped         int    `json:"dropped"`
}

func (h *APIHandlers) handleRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload routeRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
		return
	}
	start, err := payload.Start.coordinate("start")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	destination, err := payload.Destination.coordinate("destination")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Route(r.Context(), service.RouteRequest{
		Start:             start,
		StartNodeID:       strings.TrimSpace(payload.StartNodeID),
		Destination:       destination,
		DestinationNodeID: strings.TrimSpace(payload.DestinationNodeID),
		AccessibleOnly:    payload.AccessibleOnly,
	})
	h.writeRoute(w, resp, err)
}

// handleNavigate serves the id-to-id form: /navigate?from_id=&to_id=&accessible_only=
func (h *APIHandlers) handleNavigate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	fromID := strings.TrimSpace(q.Get("from_id"))
	toID := strings.TrimSpace(q.Get("to_id"))
	if fromID == "" || toID == "" {
		writeError(w, http.StatusBadRequest, "from_id and to_id are required")
		return
	}
	accessible, err := parseBool(q.Get("accessible_only"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "accessible_only must be a boolean")
		return
	}

	resp, err := h.service.Navigate(r.Context(), fromID, toID, accessible)
	h.writeRoute(w, resp, err)
}

func (h *APIHandlers) handleMapStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	respondJSON(w, http.StatusOK, toStatusResponse(h.service.Status()))
}

func (h *APIHandlers) handleMapReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	status, err := h.service.Reload(r.Context())
	if err != nil {
		h.logger.Error("map reload failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to reload map data")
		return
	}
	respondJSON(w, http.StatusOK, toStatusResponse(status))
}

func (h *APIHandlers) writeRoute(w http.ResponseWriter, resp service.RouteResponse, err error) {
	switch {
	case errors.Is(err, routing.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, routing.ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, "map data is not loaded yet")
		return
	case err != nil:
		h.logger.Error("route query failed", "error", err, "queryId", resp.QueryID)
		writeError(w, http.StatusInternalServerError, "failed to compute route")
		return
	}
	respondJSON(w, http.StatusOK, toRouteResponse(resp))
}

func toRouteResponse(resp service.RouteResponse) routeResponse {
	out := routeResponse{
		QueryID:           resp.QueryID,
		Found:             resp.Found,
		Reason:            resp.Reason,
		StartNodeID:       resp.StartNodeID,
		DestinationNodeID: resp.DestinationNodeID,
		SnapshotVersion:   resp.SnapshotVersion,
		PathNodeIDs:       resp.Route.PathNodeIDs,
		PathCoordinates:   resp.Route.PathCoordinates,
		DistancePixels:    resp.Route.DistancePixels,
		DistanceMeters:    resp.Route.DistanceMeters,
		EstimatedMinutes:  resp.Route.EstimatedMinutes,
		Instructions:      resp.Route.Instructions,
		Warnings:          resp.Warnings,
	}
	if out.PathNodeIDs == nil {
		out.PathNodeIDs = []string{}
	}
	if out.PathCoordinates == nil {
		out.PathCoordinates = []domain.Coordinate{}
	}
	if out.Instructions == nil {
		out.Instructions = []string{}
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	return out
}

func toStatusResponse(s service.MapStatus) mapStatusResponse {
	return mapStatusResponse{
		Loaded:          s.Loaded,
		Version:         s.Version,
		LoadedAt:        formatTime(s.LoadedAt),
		Nodes:           s.Nodes,
		Edges:           s.Edges,
		AccessibleEdges: s.AccessibleEdges,
		Dropped:         s.Dropped,
	}
}

func (p *pointPayload) coordinate(name string) (*domain.Coordinate, error) {
	if p == nil {
		return nil, nil
	}
	if p.X == nil || p.Y == nil {
		return nil, errors.New(name + " requires both x and y")
	}
	return &domain.Coordinate{X: *p.X, Y: *p.Y}, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func parseBool(value string, fallback bool) (bool, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

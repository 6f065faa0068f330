package routing

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/campusnav/wayfinder/internal/domain"
)

// State is a step of a route query.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateSolving
	StateAssembling
	StateDone
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateSolving:
		return "solving"
	case StateAssembling:
		return "assembling"
	case StateDone:
		return "done"
	default:
		return "idle"
	}
}

// Outcome is the terminal result of a query.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeNoRoute
)

func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "no_route"
}

// NoRouteReason says why a query ended without a path.
type NoRouteReason string

const (
	ReasonNone               NoRouteReason = ""
	ReasonEmptyNodeSet       NoRouteReason = "empty_node_set"
	ReasonUnknownStart       NoRouteReason = "unknown_start"
	ReasonUnknownDestination NoRouteReason = "unknown_destination"
	ReasonUnreachable        NoRouteReason = "unreachable"
)

// Query is one route request. The start is either a pixel coordinate or a node
// id, and so is the destination; exactly one form must be set for each.
type Query struct {
	Start             *domain.Coordinate
	StartNodeID       string
	Destination       *domain.Coordinate
	DestinationNodeID string
	AccessibleOnly    bool
}

// Validate reports caller-contract violations.
func (q Query) Validate() error {
	if err := validateEndpoint("start", q.Start, q.StartNodeID); err != nil {
		return err
	}
	return validateEndpoint("destination", q.Destination, q.DestinationNodeID)
}

func validateEndpoint(name string, point *domain.Coordinate, id string) error {
	switch {
	case point == nil && id == "":
		return fmt.Errorf("%w: %s is required", ErrInvalidQuery, name)
	case point != nil && id != "":
		return fmt.Errorf("%w: %s must be a coordinate or a node id, not both", ErrInvalidQuery, name)
	case point != nil && !finite(*point):
		return fmt.Errorf("%w: %s coordinate is not finite", ErrInvalidQuery, name)
	}
	return nil
}

func finite(c domain.Coordinate) bool {
	return !math.IsNaN(c.X) && !math.IsNaN(c.Y) && !math.IsInf(c.X, 0) && !math.IsInf(c.Y, 0)
}

// Result is the engine output for one query.
type Result struct {
	domain.RouteResult
	Outcome           Outcome
	Reason            NoRouteReason
	StartNodeID       string
	DestinationNodeID string
	SnapshotVersion   uint64
}

// Observer is told about every state a query enters.
type Observer func(State)

// Route runs q against the snapshot. Only invalid queries return an error;
// every other failure is an OutcomeNoRoute result.
func (s *Snapshot) Route(q Query, asm Assembler, observe Observer) (Result, error) {
	if observe == nil {
		observe = func(State) {}
	}
	observe(StateIdle)
	if err := q.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{SnapshotVersion: s.version}
	noRoute := func(reason NoRouteReason) (Result, error) {
		res.Outcome = OutcomeNoRoute
		res.Reason = reason
		observe(StateDone)
		return res, nil
	}

	observe(StateResolving)
	if len(s.byID) == 0 {
		return noRoute(ReasonEmptyNodeSet)
	}
	startID, ok := s.resolve(q.Start, q.StartNodeID)
	if !ok {
		return noRoute(ReasonUnknownStart)
	}
	res.StartNodeID = startID
	destID, ok := s.resolve(q.Destination, q.DestinationNodeID)
	if !ok {
		return noRoute(ReasonUnknownDestination)
	}
	res.DestinationNodeID = destID

	observe(StateSolving)
	g := s.Graph(q.AccessibleOnly)
	path := ShortestPath(g, startID, destID)
	if len(path) == 0 {
		return noRoute(ReasonUnreachable)
	}

	observe(StateAssembling)
	if asm.Label == nil {
		asm.Label = s.label
	}
	res.RouteResult = asm.Assemble(path, g, s.coords)
	if !res.Found() {
		return noRoute(ReasonUnreachable)
	}
	res.Outcome = OutcomeSuccess
	observe(StateDone)
	return res, nil
}

func (s *Snapshot) resolve(point *domain.Coordinate, id string) (string, bool) {
	if id != "" {
		_, ok := s.byID[id]
		return id, ok
	}
	n, ok := s.index.Closest(*point)
	if !ok || n.ID == "" {
		return "", false
	}
	return n.ID, true
}

// FindRoute answers one query without caching: the graph is built from ds for
// this call only.
func FindRoute(ds domain.Dataset, q Query, p Params) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}
	p = p.orDefault()
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	return NewSnapshot(0, ds).Route(q, NewAssembler(p), nil)
}

// Engine answers route queries against the latest loaded snapshot. Load swaps
// snapshots atomically; a query reads one snapshot from start to finish.
type Engine struct {
	current  atomic.Pointer[Snapshot]
	versions atomic.Uint64
	params   Params
	observer Observer
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithObserver registers a state observer for every query.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		e.observer = o
	}
}

// NewEngine returns an empty engine. Zero fields of p take their defaults.
func NewEngine(p Params, opts ...EngineOption) (*Engine, error) {
	p = p.orDefault()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{params: p}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Params returns the route parameters in use.
func (e *Engine) Params() Params { return e.params }

// Load builds a snapshot of ds and publishes it unless a newer one has been
// published concurrently. It returns the snapshot it built.
func (e *Engine) Load(ds domain.Dataset) *Snapshot {
	snap := NewSnapshot(e.versions.Add(1), ds)
	for {
		cur := e.current.Load()
		if cur != nil && cur.version > snap.version {
			return snap
		}
		if e.current.CompareAndSwap(cur, snap) {
			return snap
		}
	}
}

// Snapshot returns the current snapshot, or nil before the first Load.
func (e *Engine) Snapshot() *Snapshot {
	return e.current.Load()
}

// Route answers q against the current snapshot.
func (e *Engine) Route(q Query) (Result, error) {
	snap := e.current.Load()
	if snap == nil {
		return Result{}, ErrNoSnapshot
	}
	return snap.Route(q, NewAssembler(e.params), e.observer)
}

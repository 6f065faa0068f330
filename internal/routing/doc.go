// Package routing turns a floor-plan graph into walkable routes.
//
// The pipeline for one query is:
//
//	Build       nodes + edges → adjacency lists (optionally accessible edges only)
//	ClosestNode pixel coordinate → nearest node id
//	ShortestPath Dijkstra over the adjacency lists
//	Assemble    node ids → coordinates, distance, time and instructions
//
// Engine wraps the pipeline around an immutable, versioned Snapshot that is
// swapped atomically when the map data changes. Queries already running keep
// the snapshot they started with.
//
// Everything in this package is CPU-bound and deterministic. Nothing blocks on
// I/O and nothing takes a context; cancellation belongs to the caller.
//
// Tie-breaks:
//
//   - ClosestNode: first node in input order among equidistant nodes.
//   - ShortestPath: the frontier is ordered by (distance, node id), so among
//     equal-cost paths the one reached through lexically smaller ids wins.
package routing

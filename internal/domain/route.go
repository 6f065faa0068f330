package domain

// RouteResult is the outcome of a single route query. The zero value is the
// "no route" variant: no path, no coordinates, zero distance and time.
type RouteResult struct {
	PathNodeIDs      []string
	PathCoordinates  []Coordinate
	DistancePixels   float64
	DistanceMeters   float64
	EstimatedMinutes float64
	Instructions     []string
}

// Found reports whether the result carries a path.
func (r RouteResult) Found() bool {
	return len(r.PathNodeIDs) > 0
}

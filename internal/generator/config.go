package generator

// Config drives the synthetic floor-plan generator. The floor is a grid of
// corridor intersections with rooms opening off the horizontal corridors.
type Config struct {
	Rows            int
	Columns         int
	Spacing         float64 // pixels between neighbouring intersections
	RoomsPerSegment int
	RoomDepth       float64 // pixels from the corridor to a room's door node
	StairsChance    float64 // share of vertical corridors replaced by stairs
	Jitter          float64 // max noise displacement in pixels
	Floor           int
	Seed            int64
}

// DefaultConfig returns a floor roughly the size of the campus asset.
func DefaultConfig() Config {
	return Config{
		Rows:            4,
		Columns:         6,
		Spacing:         400,
		RoomsPerSegment: 3,
		RoomDepth:       60,
		StairsChance:    0.3,
		Jitter:          12,
		Floor:           1,
		Seed:            42,
	}
}

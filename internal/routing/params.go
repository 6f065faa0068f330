package routing

import "fmt"

// Default route parameters. The scale matches the campus floor-plan asset
// (0.02 m per pixel) and the speed is an average indoor walking pace.
const (
	DefaultPixelsPerMeter    = 50.0
	DefaultWalkingSpeedMPS   = 1.4
	DefaultStraightDegrees   = 15.0
	DefaultTurnAroundDegrees = 135.0
)

// Params holds the constants used to turn a node path into a RouteResult.
type Params struct {
	// PixelsPerMeter converts image distances into meters.
	PixelsPerMeter float64
	// WalkingSpeedMPS is the assumed walking speed in meters per second.
	WalkingSpeedMPS float64
	// StraightDegrees: turns smaller than this are "continue straight".
	StraightDegrees float64
	// TurnAroundDegrees: turns larger than this are "turn around".
	TurnAroundDegrees float64
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		PixelsPerMeter:    DefaultPixelsPerMeter,
		WalkingSpeedMPS:   DefaultWalkingSpeedMPS,
		StraightDegrees:   DefaultStraightDegrees,
		TurnAroundDegrees: DefaultTurnAroundDegrees,
	}
}

// Validate checks that every parameter is usable.
func (p Params) Validate() error {
	switch {
	case p.PixelsPerMeter <= 0:
		return fmt.Errorf("%w: pixels per meter must be positive, got %v", ErrInvalidParams, p.PixelsPerMeter)
	case p.WalkingSpeedMPS <= 0:
		return fmt.Errorf("%w: walking speed must be positive, got %v", ErrInvalidParams, p.WalkingSpeedMPS)
	case p.StraightDegrees < 0 || p.StraightDegrees >= 180:
		return fmt.Errorf("%w: straight threshold must be in [0,180), got %v", ErrInvalidParams, p.StraightDegrees)
	case p.TurnAroundDegrees <= p.StraightDegrees || p.TurnAroundDegrees > 180:
		return fmt.Errorf("%w: turn-around threshold must be in (%v,180], got %v", ErrInvalidParams, p.StraightDegrees, p.TurnAroundDegrees)
	}
	return nil
}

// orDefault fills zero fields with defaults.
func (p Params) orDefault() Params {
	d := DefaultParams()
	if p.PixelsPerMeter == 0 {
		p.PixelsPerMeter = d.PixelsPerMeter
	}
	if p.WalkingSpeedMPS == 0 {
		p.WalkingSpeedMPS = d.WalkingSpeedMPS
	}
	if p.StraightDegrees == 0 && p.TurnAroundDegrees == 0 {
		p.StraightDegrees = d.StraightDegrees
		p.TurnAroundDegrees = d.TurnAroundDegrees
	}
	return p
}

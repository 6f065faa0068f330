package routing

import "errors"

var (
	// ErrInvalidQuery marks a caller-contract violation such as a missing start.
	ErrInvalidQuery = errors.New("routing: invalid query")

	// ErrNoSnapshot is returned by Engine.Route before the first Load.
	ErrNoSnapshot = errors.New("routing: no map snapshot loaded")

	// ErrInvalidParams is returned when assembler parameters are out of range.
	ErrInvalidParams = errors.New("routing: invalid route parameters")
)

package simulation

import "errors"

var (
	// ErrInterpolationRange is returned when a query time lies outside the
	// bracketing waypoints or the flight path's time span.
	ErrInterpolationRange = errors.New("time outside interpolation range")
	ErrInvalidSpeed       = errors.New("speed must be positive")
	ErrEmptyFlightPath    = errors.New("flight path has no samples")
)

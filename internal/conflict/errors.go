package conflict

import "errors"

// ErrMissingTrajectory is returned when a mission has no flight path;
// missions must be simulated before detection.
var ErrMissingTrajectory = errors.New("no flight path for mission")

var ErrDuplicateDrone = errors.New("drone id used by more than one mission")

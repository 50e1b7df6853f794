package conflict

import (
	"fmt"
	"time"

	"uav-deconfliction/pkg/types"
)

// RawConflict is a single pair of samples that violate separation.
// Time and Location are always those of Drone1's sample.
type RawConflict struct {
	Drone1, Drone2 types.DroneID
	Time           time.Time
	Location       types.Vec3
	Distance       float64
	TimeOffset     time.Duration // Drone1's sample time minus Drone2's
}

// Conflict summarizes a run of raw conflicts between one pair of drones.
type Conflict struct {
	Drone1, Drone2 types.DroneID
	Time           time.Time  // start of the interval
	Location       types.Vec3 // closest approach
	Distance       float64    // minimum distance
	Duration       time.Duration
}

// Pair identifies two drones independently of their order.
type Pair struct {
	A, B types.DroneID
}

func MakePair(a, b types.DroneID) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

func (p Pair) Compare(q Pair) int {
	switch {
	case p.A < q.A:
		return -1
	case p.A > q.A:
		return 1
	case p.B < q.B:
		return -1
	case p.B > q.B:
		return 1
	default:
		return 0
	}
}

func (p Pair) String() string {
	return string(p.A) + "/" + string(p.B)
}

func (rc RawConflict) Pair() Pair {
	return MakePair(rc.Drone1, rc.Drone2)
}

func (c Conflict) Pair() Pair {
	return MakePair(c.Drone1, c.Drone2)
}

func (c Conflict) End() time.Time {
	return c.Time.Add(c.Duration)
}

// Active reports whether t falls within the conflict interval.
func (c Conflict) Active(t time.Time) bool {
	return !t.Before(c.Time) && !t.After(c.End())
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s & %s at %s: %.2fm at (%.2f, %.2f, %.2f) for %s", c.Drone1, c.Drone2,
		c.Time.Format(time.RFC3339Nano), c.Distance, c.Location.X, c.Location.Y, c.Location.Z, c.Duration)
}

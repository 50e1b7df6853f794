package mission

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"uav-deconfliction/pkg/types"
)

var (
	ErrNoWaypoints    = errors.New("mission has no waypoints")
	ErrTimestampOrder = errors.New("waypoint timestamps must be non-decreasing")
	ErrEmptyDroneID   = errors.New("mission has no drone id")
)

type Waypoint struct {
	Position  types.Vec3
	Timestamp time.Time
	Speed     float64 // m/s used to reach this waypoint from the previous one
}

// Mission is a drone's planned, timed route. It is read-only once built.
type Mission struct {
	DroneID   types.DroneID
	StartTime time.Time
	EndTime   time.Time

	waypoints []Waypoint
}

// New validates the waypoints and returns the mission. The start and end
// times are taken from the first and last waypoint.
func New(id types.DroneID, waypoints []Waypoint) (*Mission, error) {
	if id == "" {
		return nil, ErrEmptyDroneID
	}
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrNoWaypoints)
	}
	for i := 1; i < len(waypoints); i++ {
		if waypoints[i].Timestamp.Before(waypoints[i-1].Timestamp) {
			return nil, fmt.Errorf("%s: waypoint %d: %w", id, i, ErrTimestampOrder)
		}
	}

	return &Mission{
		DroneID:   id,
		StartTime: waypoints[0].Timestamp,
		EndTime:   waypoints[len(waypoints)-1].Timestamp,
		waypoints: slices.Clone(waypoints),
	}, nil
}

// Waypoints returns a copy of the mission's waypoints.
func (m *Mission) Waypoints() []Waypoint {
	return slices.Clone(m.waypoints)
}

func (m *Mission) NumWaypoints() int {
	return len(m.waypoints)
}

func (m *Mission) Waypoint(i int) Waypoint {
	return m.waypoints[i]
}

func (m *Mission) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

// Positions returns just the waypoint positions, in order.
func (m *Mission) Positions() []types.Vec3 {
	p := make([]types.Vec3, len(m.waypoints))
	for i, wp := range m.waypoints {
		p[i] = wp.Position
	}
	return p
}

func (m *Mission) String() string {
	return fmt.Sprintf("%s: %d waypoints %s - %s", m.DroneID, len(m.waypoints),
		m.StartTime.Format(time.RFC3339Nano), m.EndTime.Format(time.RFC3339Nano))
}

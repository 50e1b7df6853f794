package playback

import (
	"uav-deconfliction/internal/simulation"
	"uav-deconfliction/pkg/types"
)

type DroneStatus int

const (
	PENDING DroneStatus = iota
	AIRBORNE
	COMPLETE
)

var StatusStringMap = map[DroneStatus]string{
	PENDING:  "PENDING",
	AIRBORNE: "AIRBORNE",
	COMPLETE: "COMPLETE",
}

// Drone is the displayed state of one drone at the playback clock.
type Drone struct {
	ID       types.DroneID
	Position types.Vec3
	Velocity types.Vec3
	Heading  float64 // degrees, +y is north
	Speed    float64 // m/s
	Status   DroneStatus

	IsConflicting bool
}

func (d *Drone) update(st simulation.DroneState, status DroneStatus) {
	d.Position = st.Position
	d.Velocity = st.Velocity
	d.Status = status
	d.Speed = st.Velocity.Length()
	if d.Speed > 0 {
		d.Heading = types.Vec3{}.HeadingTo(st.Velocity)
	}
}

package simulation

import (
	"fmt"
	"time"

	"uav-deconfliction/internal/logging"
	"uav-deconfliction/internal/mission"
	"uav-deconfliction/pkg/types"

	"github.com/labstack/gommon/log"
)

const DefaultTimeStep = 100 * time.Millisecond

// Simulator turns missions into dense flight paths sampled every
// TimeStep.
type Simulator struct {
	TimeStep time.Duration

	lg *log.Logger
}

type DroneState struct {
	DroneID   types.DroneID
	Timestamp time.Time
	Position  types.Vec3
	Velocity  types.Vec3 // m/s, constant over the bracketing segment
}

func NewSimulator(timeStep time.Duration, lg *log.Logger) *Simulator {
	lg = logging.Or(lg)
	if timeStep <= 0 {
		lg.Warnf("invalid time step %s, using %s", timeStep, DefaultTimeStep)
		timeStep = DefaultTimeStep
	}
	return &Simulator{TimeStep: timeStep, lg: lg}
}

func segmentDistances(positions []types.Vec3) []float64 {
	d := make([]float64, 0, max(len(positions)-1, 0))
	for i := 0; i+1 < len(positions); i++ {
		d = append(d, positions[i].DistanceTo(positions[i+1]))
	}
	return d
}

// interpolateTimestamps assigns a time to each position at the given
// speed, anchored at start. If maxDuration is positive and the flight
// would take longer, the speed is reduced so it takes exactly
// maxDuration. The speed actually used is returned.
func interpolateTimestamps(positions []types.Vec3, speed float64, start time.Time,
	maxDuration time.Duration) ([]time.Time, float64, error) {
	distances := segmentDistances(positions)
	var totalDistance float64
	for _, d := range distances {
		totalDistance += d
	}

	stamps := make([]time.Time, len(positions))
	if totalDistance == 0 {
		for i := range stamps {
			stamps[i] = start
		}
		return stamps, speed, nil
	}
	if speed <= 0 {
		return nil, 0, fmt.Errorf("%g m/s: %w", speed, ErrInvalidSpeed)
	}

	capped := false
	if maxDuration > 0 && totalDistance/speed > maxDuration.Seconds() {
		speed = totalDistance / maxDuration.Seconds()
		capped = true
	}

	// Accumulate in seconds and convert each stamp from the start so
	// that rounding does not build up along the route.
	var elapsed float64
	stamps[0] = start
	for i, d := range distances {
		elapsed += d / speed
		stamps[i+1] = start.Add(types.Seconds(elapsed))
	}
	if capped {
		stamps[len(stamps)-1] = start.Add(maxDuration)
	}

	return stamps, speed, nil
}

// CreateMission builds a timed mission from bare positions. startOffset
// and endOffset are seconds from globalStart; an endOffset that is not
// after startOffset places no limit on the mission's duration.
func (s *Simulator) CreateMission(id types.DroneID, positions []types.Vec3, startOffset, endOffset float64,
	speed float64, globalStart time.Time) (*mission.Mission, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("%s: %w", id, mission.ErrNoWaypoints)
	}

	start := globalStart.Add(types.Seconds(startOffset))
	var maxDuration time.Duration
	if endOffset > startOffset {
		maxDuration = types.Seconds(endOffset - startOffset)
	}

	stamps, usedSpeed, err := interpolateTimestamps(positions, speed, start, maxDuration)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	if usedSpeed != speed {
		s.lg.Infof("%s: speed reduced from %.2f to %.2f m/s to finish within %s", id, speed, usedSpeed, maxDuration)
	}

	waypoints := make([]mission.Waypoint, len(positions))
	for i, p := range positions {
		waypoints[i] = mission.Waypoint{Position: p, Timestamp: stamps[i], Speed: usedSpeed}
	}
	return mission.New(id, waypoints)
}

// InterpolatePosition returns the position at time t on the straight
// segment between wp1 and wp2.
func (s *Simulator) InterpolatePosition(wp1, wp2 mission.Waypoint, t time.Time) (types.Vec3, error) {
	if t.Before(wp1.Timestamp) || t.After(wp2.Timestamp) {
		return types.Vec3{}, fmt.Errorf("%s not in [%s, %s]: %w", t.Format(time.RFC3339Nano),
			wp1.Timestamp.Format(time.RFC3339Nano), wp2.Timestamp.Format(time.RFC3339Nano), ErrInterpolationRange)
	}
	return types.Lerp(wp1.Position, wp2.Position, ratio(t.Sub(wp1.Timestamp), wp2.Timestamp.Sub(wp1.Timestamp))), nil
}

func ratio(elapsed, total time.Duration) float64 {
	if total == 0 {
		return 0
	}
	return float64(elapsed) / float64(total)
}

func velocity(p1, p2 types.Vec3, dt time.Duration) types.Vec3 {
	if dt <= 0 {
		return types.Vec3{}
	}
	return p2.Sub(p1).Scale(1 / dt.Seconds())
}

// SimulateFlightPath samples the mission every TimeStep along each
// segment. The first and last waypoints always appear with their exact
// time and position.
func (s *Simulator) SimulateFlightPath(m *mission.Mission) FlightPath {
	n := m.NumWaypoints()
	first := m.Waypoint(0)
	fp := FlightPath{
		DroneID: m.DroneID,
		Samples: []Sample{{Time: first.Timestamp, Position: first.Position}},
	}

	for i := 0; i+1 < n; i++ {
		wp1, wp2 := m.Waypoint(i), m.Waypoint(i+1)
		segment := wp2.Timestamp.Sub(wp1.Timestamp)
		steps := int(segment / s.TimeStep)

		for k := 1; k <= steps; k++ {
			t := wp1.Timestamp.Add(time.Duration(k) * s.TimeStep)
			p := types.Lerp(wp1.Position, wp2.Position, ratio(t.Sub(wp1.Timestamp), segment))
			fp.Samples = append(fp.Samples, Sample{Time: t, Position: p})
		}
		s.lg.Debugf("%s: segment %d: %s, %d samples", m.DroneID, i, segment, steps)
	}

	last := m.Waypoint(n - 1)
	if tail := &fp.Samples[len(fp.Samples)-1]; tail.Time.Equal(last.Timestamp) {
		// A zero-length final segment can leave the previous waypoint's
		// position at this time.
		tail.Position = last.Position
	} else {
		fp.Samples = append(fp.Samples, Sample{Time: last.Timestamp, Position: last.Position})
	}

	s.lg.Debugf("%s: %d samples from %s to %s", m.DroneID, len(fp.Samples),
		fp.Start().Format(time.RFC3339Nano), fp.End().Format(time.RFC3339Nano))
	return fp
}

// SimulateAll simulates every mission, keyed by drone id.
func (s *Simulator) SimulateAll(missions []*mission.Mission) map[types.DroneID]FlightPath {
	paths := make(map[types.DroneID]FlightPath, len(missions))
	for _, m := range missions {
		if _, ok := paths[m.DroneID]; ok {
			s.lg.Warnf("%s: duplicate drone id, replacing earlier flight path", m.DroneID)
		}
		paths[m.DroneID] = s.SimulateFlightPath(m)
	}
	return paths
}

// StateAt returns the drone's interpolated state at time t.
func (s *Simulator) StateAt(fp FlightPath, t time.Time, id types.DroneID) (DroneState, error) {
	if len(fp.Samples) == 0 {
		return DroneState{}, fmt.Errorf("%s: %w: %w", id, ErrEmptyFlightPath, ErrInterpolationRange)
	}
	if !fp.Contains(t) {
		return DroneState{}, fmt.Errorf("%s: %s not in [%s, %s]: %w", id, t.Format(time.RFC3339Nano),
			fp.Start().Format(time.RFC3339Nano), fp.End().Format(time.RFC3339Nano), ErrInterpolationRange)
	}
	if len(fp.Samples) == 1 {
		return DroneState{DroneID: id, Timestamp: t, Position: fp.Samples[0].Position}, nil
	}

	i := fp.bracket(t)
	a, b := fp.Samples[i], fp.Samples[i+1]
	dt := b.Time.Sub(a.Time)

	return DroneState{
		DroneID:   id,
		Timestamp: t,
		Position:  types.Lerp(a.Position, b.Position, ratio(t.Sub(a.Time), dt)),
		Velocity:  velocity(a.Position, b.Position, dt),
	}, nil
}

package scene

import (
	"time"

	"uav-deconfliction/internal/conflict"
	"uav-deconfliction/internal/mission"
	"uav-deconfliction/internal/simulation"
	"uav-deconfliction/pkg/types"
)

// Track is everything a renderer needs to draw one drone: its planned
// waypoints and its sampled flight path.
type Track struct {
	DroneID   types.DroneID
	Waypoints []types.Vec3
	Path      simulation.FlightPath
}

// Scene is a complete, self-contained description of what to draw.
// Renderers take a Scene as input and hold no other state about it.
type Scene struct {
	Tracks    []Track
	Conflicts []conflict.Conflict

	Min, Max   types.Vec3 // bounding box over all samples and waypoints
	Start, End time.Time  // span of all flight paths
}

// Build assembles a scene. Tracks follow the order of missions; missions
// without a flight path are drawn from their waypoints alone.
func Build(missions []*mission.Mission, paths map[types.DroneID]simulation.FlightPath,
	conflicts []conflict.Conflict) Scene {
	sc := Scene{Conflicts: conflicts}

	first := true
	extend := func(p types.Vec3) {
		if first {
			sc.Min, sc.Max = p, p
			first = false
			return
		}
		sc.Min = types.Vec3{X: min(sc.Min.X, p.X), Y: min(sc.Min.Y, p.Y), Z: min(sc.Min.Z, p.Z)}
		sc.Max = types.Vec3{X: max(sc.Max.X, p.X), Y: max(sc.Max.Y, p.Y), Z: max(sc.Max.Z, p.Z)}
	}
	extendTime := func(start, end time.Time) {
		if sc.Start.IsZero() || start.Before(sc.Start) {
			sc.Start = start
		}
		if sc.End.IsZero() || end.After(sc.End) {
			sc.End = end
		}
	}

	for _, m := range missions {
		tr := Track{DroneID: m.DroneID, Waypoints: m.Positions()}
		for _, p := range tr.Waypoints {
			extend(p)
		}
		extendTime(m.StartTime, m.EndTime)

		if fp, ok := paths[m.DroneID]; ok && fp.Len() > 0 {
			tr.Path = fp
			lo, hi := fp.Bounds()
			extend(lo)
			extend(hi)
			extendTime(fp.Start(), fp.End())
		}
		sc.Tracks = append(sc.Tracks, tr)
	}
	return sc
}

func (sc Scene) Duration() time.Duration {
	return sc.End.Sub(sc.Start)
}

func (sc Scene) Track(id types.DroneID) (Track, bool) {
	for _, tr := range sc.Tracks {
		if tr.DroneID == id {
			return tr, true
		}
	}
	return Track{}, false
}

// ConflictsAt returns the conflicts whose interval contains t.
func (sc Scene) ConflictsAt(t time.Time) []conflict.Conflict {
	var active []conflict.Conflict
	for _, c := range sc.Conflicts {
		if c.Active(t) {
			active = append(active, c)
		}
	}
	return active
}

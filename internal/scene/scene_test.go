package scene

import (
	"testing"
	"time"

	"uav-deconfliction/internal/conflict"
	"uav-deconfliction/internal/logging"
	"uav-deconfliction/internal/mission"
	"uav-deconfliction/internal/simulation"
	"uav-deconfliction/pkg/types"
)

var epoch = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func TestBuild(t *testing.T) {
	sim := simulation.NewSimulator(100*time.Millisecond, logging.Discard())
	a, err := sim.CreateMission("a", []types.Vec3{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 5}}, 0, 0, 5, epoch)
	if err != nil {
		t.Fatal(err)
	}
	b, err := sim.CreateMission("b", []types.Vec3{{X: -4, Y: 8, Z: 1}, {X: -4, Y: -2, Z: 1}}, 3, 0, 5, epoch)
	if err != nil {
		t.Fatal(err)
	}
	missions := []*mission.Mission{a, b}
	paths := sim.SimulateAll(missions)
	cs := []conflict.Conflict{{Drone1: "a", Drone2: "b", Time: epoch.Add(time.Second), Duration: time.Second}}

	sc := Build(missions, paths, cs)
	if len(sc.Tracks) != 2 || sc.Tracks[0].DroneID != "a" || sc.Tracks[1].DroneID != "b" {
		t.Fatalf("tracks %+v", sc.Tracks)
	}
	if sc.Min != (types.Vec3{X: -4, Y: -2, Z: 0}) || sc.Max != (types.Vec3{X: 10, Y: 8, Z: 5}) {
		t.Errorf("bounds %v - %v", sc.Min, sc.Max)
	}
	if !sc.Start.Equal(epoch) || !sc.End.Equal(b.EndTime) {
		t.Errorf("span %v - %v", sc.Start, sc.End)
	}
	if sc.Duration() != 5*time.Second {
		t.Errorf("duration %s, expected 5s", sc.Duration())
	}
	if tr, ok := sc.Track("b"); !ok || tr.Path.Len() == 0 {
		t.Errorf("track b: %+v, %v", tr, ok)
	}
	if _, ok := sc.Track("zz"); ok {
		t.Errorf("found nonexistent track")
	}

	for _, tc := range []struct {
		at     time.Duration
		active int
	}{
		{0, 0},
		{time.Second, 1},
		{1500 * time.Millisecond, 1},
		{2 * time.Second, 1},
		{2*time.Second + time.Nanosecond, 0},
	} {
		if n := len(sc.ConflictsAt(epoch.Add(tc.at))); n != tc.active {
			t.Errorf("at %s: %d active conflicts, expected %d", tc.at, n, tc.active)
		}
	}
}

func TestBuildWithoutPaths(t *testing.T) {
	m, err := mission.New("solo", []mission.Waypoint{
		{Position: types.Vec3{X: 1, Y: 2, Z: 3}, Timestamp: epoch},
		{Position: types.Vec3{X: 4, Y: 5, Z: 6}, Timestamp: epoch.Add(time.Second)},
	})
	if err != nil {
		t.Fatal(err)
	}
	sc := Build([]*mission.Mission{m}, nil, nil)
	if len(sc.Tracks) != 1 || sc.Tracks[0].Path.Len() != 0 {
		t.Errorf("tracks %+v", sc.Tracks)
	}
	if sc.Min != (types.Vec3{X: 1, Y: 2, Z: 3}) || sc.Max != (types.Vec3{X: 4, Y: 5, Z: 6}) {
		t.Errorf("bounds %v - %v", sc.Min, sc.Max)
	}
}

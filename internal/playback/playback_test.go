package playback

import (
	"context"
	"math"
	"testing"
	"time"

	"uav-deconfliction/internal/conflict"
	"uav-deconfliction/internal/logging"
	"uav-deconfliction/internal/mission"
	"uav-deconfliction/internal/scene"
	"uav-deconfliction/internal/simulation"
	"uav-deconfliction/pkg/types"
)

var epoch = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

// newCrossing has A and B meet head-on at (5,0,0) one second in, and C
// take off at 3s far away.
func newCrossing(t *testing.T) *Playback {
	t.Helper()
	lg := logging.Discard()
	sim := simulation.NewSimulator(100*time.Millisecond, lg)

	var missions []*mission.Mission
	for _, spec := range []struct {
		id    types.DroneID
		pos   []types.Vec3
		start float64
	}{
		{"A", []types.Vec3{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}}, 0},
		{"B", []types.Vec3{{X: 10, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}}, 0},
		{"C", []types.Vec3{{X: 0, Y: 50, Z: 0}, {X: 0, Y: 60, Z: 0}}, 3},
	} {
		m, err := sim.CreateMission(spec.id, spec.pos, spec.start, 0, 5, epoch)
		if err != nil {
			t.Fatal(err)
		}
		missions = append(missions, m)
	}
	paths := sim.SimulateAll(missions)

	det := conflict.NewDetector(conflict.Config{
		SafetyBuffer: 1.5,
		TimeBuffer:   0,
		TimeStep:     100 * time.Millisecond,
		Workers:      2,
	}, lg)
	cs, err := det.Detect(context.Background(), missions, paths)
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 1 {
		t.Fatalf("expected one conflict, got %+v", cs)
	}

	return NewPlayback(scene.Build(missions, paths, cs), sim, 1.5, lg)
}

func TestPlaybackStates(t *testing.T) {
	p := newCrossing(t)

	if !p.Clock.Equal(epoch) {
		t.Errorf("clock starts at %v, expected %v", p.Clock, epoch)
	}
	if p.Drones["A"].Status != AIRBORNE || p.Drones["C"].Status != PENDING {
		t.Errorf("initial status A %s, C %s", StatusStringMap[p.Drones["A"].Status],
			StatusStringMap[p.Drones["C"].Status])
	}
	if p.Drones["C"].Position != (types.Vec3{X: 0, Y: 50, Z: 0}) {
		t.Errorf("pending drone C at %v, expected its first waypoint", p.Drones["C"].Position)
	}

	p.Update(0.5)
	a := p.Drones["A"]
	if math.Abs(a.Position.X-2.5) > 1e-9 || math.Abs(a.Speed-5) > 1e-9 || math.Abs(a.Heading-90) > 1e-9 {
		t.Errorf("A at 0.5s: %+v", a)
	}
	if b := p.Drones["B"]; math.Abs(b.Heading-270) > 1e-9 {
		t.Errorf("B heading %f, expected 270", b.Heading)
	}

	p.Seek(epoch.Add(4 * time.Second))
	if p.Drones["A"].Status != COMPLETE || p.Drones["A"].Position != (types.Vec3{X: 10, Y: 0, Z: 0}) {
		t.Errorf("A after landing: %+v", p.Drones["A"])
	}
	if p.Drones["A"].Speed != 0 {
		t.Errorf("completed drone still moving at %f", p.Drones["A"].Speed)
	}
	if p.Drones["C"].Status != AIRBORNE {
		t.Errorf("C at 4s: %s", StatusStringMap[p.Drones["C"].Status])
	}
}

func TestPlaybackConflicts(t *testing.T) {
	p := newCrossing(t)

	p.Update(0.8)
	if p.Drones["A"].IsConflicting || len(p.AlertLog) != 0 {
		t.Errorf("conflict flagged early at %s", p.Elapsed())
	}

	p.Update(0.2)
	if !p.Drones["A"].IsConflicting || !p.Drones["B"].IsConflicting || p.Drones["C"].IsConflicting {
		t.Errorf("conflict flags at 1s: A %v B %v C %v", p.Drones["A"].IsConflicting,
			p.Drones["B"].IsConflicting, p.Drones["C"].IsConflicting)
	}
	if len(p.AlertLog) != 1 {
		t.Fatalf("got %d alerts, expected 1", len(p.AlertLog))
	}
	if al := p.AlertLog[0]; al.Pair != conflict.MakePair("A", "B") || !al.IsUrgent {
		t.Errorf("alert %+v", al)
	}

	// Staying inside the interval does not alert again.
	p.Update(0.05)
	if len(p.AlertLog) != 1 {
		t.Errorf("got %d alerts, expected 1", len(p.AlertLog))
	}

	p.Update(0.5)
	if p.Drones["A"].IsConflicting {
		t.Errorf("conflict still flagged at %s", p.Elapsed())
	}

	// Rewinding re-arms the alert.
	p.Seek(epoch)
	p.Seek(epoch.Add(time.Second))
	if len(p.AlertLog) != 2 {
		t.Errorf("got %d alerts after rewind, expected 2", len(p.AlertLog))
	}
}

func TestPlaybackEndAndRate(t *testing.T) {
	p := newCrossing(t)

	if err := p.SetRate(0); err == nil {
		t.Errorf("expected error for zero rate")
	}
	if err := p.SetRate(4); err != nil {
		t.Fatal(err)
	}
	p.Update(0.25)
	if p.Elapsed() != time.Second {
		t.Errorf("elapsed %s at 4x after 0.25s, expected 1s", p.Elapsed())
	}

	p.Update(100)
	if !p.Paused || !p.Clock.Equal(p.Scene.End) {
		t.Errorf("playback did not stop at the end: paused %v clock %v end %v", p.Paused, p.Clock, p.Scene.End)
	}
	before := p.Clock
	p.Update(1)
	if !p.Clock.Equal(before) {
		t.Errorf("paused playback advanced")
	}

	p.Seek(epoch.Add(-time.Hour))
	if !p.Clock.Equal(p.Scene.Start) {
		t.Errorf("seek before start gave %v", p.Clock)
	}
}

func TestAlertLogBounded(t *testing.T) {
	p := newCrossing(t)
	for i := 0; i < 2*p.maxAlertLogSize; i++ {
		p.AddAlert(conflict.MakePair("x", "y"), "test", false)
	}
	if len(p.AlertLog) != p.maxAlertLogSize {
		t.Errorf("alert log holds %d, expected %d", len(p.AlertLog), p.maxAlertLogSize)
	}
}

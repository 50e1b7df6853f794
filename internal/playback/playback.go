package playback

import (
	"fmt"
	"time"

	"uav-deconfliction/internal/logging"
	"uav-deconfliction/internal/report"
	"uav-deconfliction/internal/scene"
	"uav-deconfliction/internal/simulation"
	"uav-deconfliction/pkg/types"

	"github.com/labstack/gommon/log"
)

// Playback steps a clock through a scene, keeping every drone's state
// and the set of active conflicts current.
type Playback struct {
	Scene  scene.Scene
	Drones map[types.DroneID]*Drone
	Clock  time.Time
	Rate   float64 // scene seconds per wall-clock second
	Paused bool

	// SafetyBuffer the conflicts were detected with; alerts for
	// conflicts closer than half of it are urgent.
	SafetyBuffer float64

	AlertLog        []Alert
	maxAlertLogSize int
	// Conflicts (by index) already entered since the clock last moved
	// back.
	alerted map[int]bool

	sim *simulation.Simulator
	lg  *log.Logger
}

func NewPlayback(sc scene.Scene, sim *simulation.Simulator, safetyBuffer float64, lg *log.Logger) *Playback {
	p := &Playback{
		Scene:           sc,
		SafetyBuffer:    safetyBuffer,
		Drones:          make(map[types.DroneID]*Drone),
		Clock:           sc.Start,
		Rate:            1,
		maxAlertLogSize: 50,
		alerted:         make(map[int]bool),
		sim:             sim,
		lg:              logging.Or(lg),
	}
	for _, tr := range sc.Tracks {
		p.Drones[tr.DroneID] = &Drone{ID: tr.DroneID}
	}
	p.refresh()
	return p
}

// Update advances the clock by dt wall-clock seconds. Playback pauses
// when it reaches the end of the scene.
func (p *Playback) Update(dt float64) {
	if p.Paused {
		return
	}
	next := p.Clock.Add(types.Seconds(dt * p.Rate))
	if !next.Before(p.Scene.End) {
		next = p.Scene.End
		p.Paused = true
	}
	p.Clock = next
	p.refresh()
}

// Seek moves the clock to t, clamped to the scene.
func (p *Playback) Seek(t time.Time) {
	if t.Before(p.Scene.Start) {
		t = p.Scene.Start
	} else if t.After(p.Scene.End) {
		t = p.Scene.End
	}
	if t.Before(p.Clock) {
		for i, c := range p.Scene.Conflicts {
			if c.Time.After(t) {
				delete(p.alerted, i)
			}
		}
	}
	p.Clock = t
	p.refresh()
}

func (p *Playback) SetRate(rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("playback rate must be positive, got %g", rate)
	}
	p.Rate = rate
	return nil
}

func (p *Playback) Elapsed() time.Duration {
	return p.Clock.Sub(p.Scene.Start)
}

func (p *Playback) refresh() {
	for _, tr := range p.Scene.Tracks {
		d := p.Drones[tr.DroneID]
		fp := tr.Path
		if fp.Len() == 0 {
			continue
		}

		var t time.Time
		var status DroneStatus
		switch {
		case p.Clock.Before(fp.Start()):
			t, status = fp.Start(), PENDING
		case p.Clock.After(fp.End()):
			t, status = fp.End(), COMPLETE
		default:
			t, status = p.Clock, AIRBORNE
		}

		st, err := p.sim.StateAt(fp, t, tr.DroneID)
		if err != nil {
			p.lg.Errorf("%s: %v", tr.DroneID, err)
			continue
		}
		if status != AIRBORNE {
			st.Velocity = types.Vec3{}
		}
		d.update(st, status)
	}
	p.CheckForConflicts()
}

func (p *Playback) CheckForConflicts() {
	for _, d := range p.Drones {
		d.IsConflicting = false
	}

	for i, c := range p.Scene.Conflicts {
		if !c.Active(p.Clock) {
			continue
		}
		for _, id := range []types.DroneID{c.Drone1, c.Drone2} {
			if d, ok := p.Drones[id]; ok {
				d.IsConflicting = true // Mark for visual warning
			}
		}
		if !p.alerted[i] {
			p.alerted[i] = true
			urgent := report.Classify(c, p.SafetyBuffer) == report.HIGH
			p.AddAlert(c.Pair(), fmt.Sprintf("CONFLICT %s: %.2fm for %.2fs", c.Pair(), c.Distance, c.Duration.Seconds()), urgent)
			p.lg.Infof("CONFLICT: %s and %s at %s", c.Drone1, c.Drone2, p.Elapsed())
		}
	}
}

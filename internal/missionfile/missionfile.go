package missionfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"uav-deconfliction/internal/mission"
	"uav-deconfliction/internal/simulation"
	"uav-deconfliction/pkg/types"

	"github.com/klauspost/compress/zstd"
)

const DefaultSpeed = 5.0 // m/s

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DroneSpec is one drone's entry in a mission file. Offsets are seconds
// from the global start time; an end_time of 0, or one not after
// start_time, leaves the duration unconstrained.
type DroneSpec struct {
	DroneID   string   `json:"drone_id"`
	Waypoints []Point  `json:"waypoints"`
	StartTime float64  `json:"start_time"`
	EndTime   float64  `json:"end_time"`
	Speed     *float64 `json:"speed,omitempty"`
}

type File struct {
	Drones []DroneSpec `json:"drones"`
}

func (d DroneSpec) Positions() []types.Vec3 {
	p := make([]types.Vec3, len(d.Waypoints))
	for i, wp := range d.Waypoints {
		p[i] = types.Vec3{X: wp.X, Y: wp.Y, Z: wp.Z}
	}
	return p
}

// SpeedOr returns the drone's speed, or def if the file gives none.
func (d DroneSpec) SpeedOr(def float64) float64 {
	if d.Speed == nil {
		return def
	}
	return *d.Speed
}

func Parse(b []byte) (*File, error) {
	var f File
	if err := unmarshalJSON(b, &f); err != nil {
		return nil, err
	}

	var e errorLogger
	f.check(&e)
	if err := e.Err(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) check(e *errorLogger) {
	if len(f.Drones) == 0 {
		e.ErrorString("no drones specified")
		return
	}

	seen := make(map[string]int)
	for i, d := range f.Drones {
		e.Push(fmt.Sprintf("drones[%d]", i))
		if d.DroneID == "" {
			e.ErrorString("\"drone_id\" not specified")
		} else if j, ok := seen[d.DroneID]; ok {
			e.ErrorString("%q: drone id already used by drones[%d]", d.DroneID, j)
		} else {
			seen[d.DroneID] = i
		}
		if len(d.Waypoints) == 0 {
			e.Push("waypoints")
			e.ErrorString("no waypoints specified")
			e.Pop()
		}
		if d.Speed != nil && *d.Speed <= 0 {
			e.ErrorString("\"speed\" must be positive, got %g", *d.Speed)
		}
		e.Pop()
	}
}

// Missions converts every drone in the file to a timed mission.
func (f *File) Missions(sim *simulation.Simulator, globalStart time.Time, defaultSpeed float64) ([]*mission.Mission, error) {
	var e errorLogger
	var missions []*mission.Mission
	for i, d := range f.Drones {
		m, err := sim.CreateMission(types.DroneID(d.DroneID), d.Positions(), d.StartTime, d.EndTime,
			d.SpeedOr(defaultSpeed), globalStart)
		if err != nil {
			e.Push(fmt.Sprintf("drones[%d]", i))
			e.Error(err)
			e.Pop()
			continue
		}
		missions = append(missions, m)
	}
	if err := e.Err(); err != nil {
		return nil, err
	}
	return missions, nil
}

// Load reads a mission file and builds its missions.
func Load(path string, sim *simulation.Simulator, globalStart time.Time, defaultSpeed float64) ([]*mission.Mission, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	missions, err := f.Missions(sim, globalStart, defaultSpeed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return missions, nil
}

// readFile returns the contents of path; files with a .zst extension are
// decompressed.
func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil || filepath.Ext(path) != ".zst" {
		return b, err
	}

	zr, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	if b, err = zr.DecodeAll(b, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// ParsePositions parses positions written as "x,y,z;x,y,z;...".
func ParsePositions(s string) ([]types.Vec3, error) {
	var p []types.Vec3
	for i, f := range strings.Split(s, ";") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		c := strings.Split(f, ",")
		if len(c) != 3 {
			return nil, fmt.Errorf("position %d %q: expected x,y,z", i, f)
		}
		var v [3]float64
		for j := range c {
			var err error
			if v[j], err = strconv.ParseFloat(strings.TrimSpace(c[j]), 64); err != nil {
				return nil, fmt.Errorf("position %d %q: %w", i, f, err)
			}
		}
		p = append(p, types.Vec3{X: v[0], Y: v[1], Z: v[2]})
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("%q: %w", s, mission.ErrNoWaypoints)
	}
	return p, nil
}

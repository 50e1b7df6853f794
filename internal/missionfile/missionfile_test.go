package missionfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"uav-deconfliction/internal/logging"
	"uav-deconfliction/internal/simulation"
	"uav-deconfliction/pkg/types"

	"github.com/klauspost/compress/zstd"
)

var epoch = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func TestLoad(t *testing.T) {
	sim := simulation.NewSimulator(50*time.Millisecond, logging.Discard())
	missions, err := Load(filepath.Join("testdata", "waypoints.json"), sim, epoch, DefaultSpeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(missions) != 3 {
		t.Fatalf("got %d missions, expected 3", len(missions))
	}

	// drone2: 80m at 5 m/s would take 16s, under the 30s cap.
	d2 := missions[0]
	if d2.DroneID != "drone2" || d2.NumWaypoints() != 3 {
		t.Errorf("drone2: %s", d2)
	}
	if got := d2.Duration(); got != 16*time.Second {
		t.Errorf("drone2: duration %s, expected 16s", got)
	}

	// drone3 has no speed, so the default applies: 50m takes 10s.
	d3 := missions[1]
	if !d3.StartTime.Equal(epoch.Add(5 * time.Second)) {
		t.Errorf("drone3: start %v", d3.StartTime)
	}
	if d3.Duration() != 10*time.Second {
		t.Errorf("drone3: duration %s, expected 10s", d3.Duration())
	}
	if d3.Waypoint(1).Speed != DefaultSpeed {
		t.Errorf("drone3: speed %g, expected default", d3.Waypoint(1).Speed)
	}
	if d3.Waypoint(1).Position != (types.Vec3{X: 30, Y: 40, Z: 0}) {
		t.Errorf("drone3: position %v", d3.Waypoint(1).Position)
	}

	// drone4 is a single hover point.
	d4 := missions[2]
	if d4.Duration() != 0 || !d4.StartTime.Equal(epoch.Add(10*time.Second)) {
		t.Errorf("drone4: %s", d4)
	}
}

func TestLoadCompressed(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("testdata", "waypoints.json"))
	if err != nil {
		t.Fatal(err)
	}
	zw, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "waypoints.json.zst")
	if err := os.WriteFile(path, zw.EncodeAll(b, nil), 0o644); err != nil {
		t.Fatal(err)
	}
	zw.Close()

	sim := simulation.NewSimulator(50*time.Millisecond, logging.Discard())
	plain, err := Load(filepath.Join("testdata", "waypoints.json"), sim, epoch, DefaultSpeed)
	if err != nil {
		t.Fatal(err)
	}
	compressed, err := Load(path, sim, epoch, DefaultSpeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(compressed) != len(plain) {
		t.Fatalf("got %d missions, expected %d", len(compressed), len(plain))
	}
	for i := range plain {
		if compressed[i].String() != plain[i].String() {
			t.Errorf("mission %d: got %s, expected %s", i, compressed[i], plain[i])
		}
	}

	if err := os.WriteFile(path, []byte("not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, sim, epoch, DefaultSpeed); err == nil {
		t.Error("expected an error for corrupt compressed input")
	}
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name, json string
		contains   []string
	}{
		{"syntax", "{\n  \"drones\": [\n    {\"drone_id\": }\n  ]\n}", []string{"line 3"}},
		{"type", `{"drones": [{"drone_id": 7}]}`, []string{"line 1", "drone_id"}},
		{"empty", `{"drones": []}`, []string{"no drones"}},
		{"fields", `{"drones": [
			{"drone_id": "a", "waypoints": [{"x": 1}]},
			{"drone_id": "a", "waypoints": [{"x": 1}]},
			{"waypoints": [], "speed": -1}]}`,
			[]string{"drones[1]: \"a\": drone id already used by drones[0]",
				"drones[2]: \"drone_id\" not specified",
				"drones[2] / waypoints: no waypoints specified",
				"drones[2]: \"speed\" must be positive"}},
	} {
		_, err := Parse([]byte(tc.json))
		if !errors.Is(err, ErrInvalidMissionFile) {
			t.Errorf("%s: got %v, expected ErrInvalidMissionFile", tc.name, err)
			continue
		}
		for _, c := range tc.contains {
			if !strings.Contains(err.Error(), c) {
				t.Errorf("%s: error %q does not mention %q", tc.name, err, c)
			}
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	sim := simulation.NewSimulator(50*time.Millisecond, logging.Discard())
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), sim, epoch, DefaultSpeed)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, expected not-exist error", err)
	}
}

func TestParsePositions(t *testing.T) {
	p, err := ParsePositions("37,1,2; 5,5,34 ;11.5,-50,6;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []types.Vec3{{X: 37, Y: 1, Z: 2}, {X: 5, Y: 5, Z: 34}, {X: 11.5, Y: -50, Z: 6}}
	if len(p) != len(expected) {
		t.Fatalf("got %v, expected %v", p, expected)
	}
	for i := range p {
		if p[i] != expected[i] {
			t.Errorf("position %d: got %v, expected %v", i, p[i], expected[i])
		}
	}

	for _, bad := range []string{"", ";", "1,2", "1,2,x", "1,2,3,4"} {
		if _, err := ParsePositions(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

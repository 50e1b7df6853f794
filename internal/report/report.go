package report

import (
	"fmt"
	"io"
	"time"

	"uav-deconfliction/internal/conflict"

	"github.com/google/uuid"
	"github.com/labstack/gommon/color"
)

type Severity int

const (
	MEDIUM Severity = iota
	HIGH
)

var severityStringMap = map[Severity]string{
	MEDIUM: "MEDIUM",
	HIGH:   "HIGH",
}

func (s Severity) String() string {
	return severityStringMap[s]
}

// Classify rates a conflict HIGH when the drones came within half the
// safety buffer of each other.
func Classify(c conflict.Conflict, safetyBuffer float64) Severity {
	if c.Distance <= safetyBuffer/2 {
		return HIGH
	}
	return MEDIUM
}

type ConflictReport struct {
	conflict.Conflict
	Severity    Severity
	Description string
}

type Report struct {
	RunID        string
	Generated    time.Time
	Missions     int
	SafetyBuffer float64
	TimeBuffer   time.Duration
	Conflicts    []ConflictReport
}

func New(conflicts []conflict.Conflict, missions int, safetyBuffer float64, timeBuffer time.Duration) *Report {
	r := &Report{
		RunID:        uuid.New().String(),
		Generated:    time.Now(),
		Missions:     missions,
		SafetyBuffer: safetyBuffer,
		TimeBuffer:   timeBuffer,
	}
	for _, c := range conflicts {
		sev := Classify(c, safetyBuffer)
		r.Conflicts = append(r.Conflicts, ConflictReport{
			Conflict: c,
			Severity: sev,
			Description: fmt.Sprintf("%s and %s within %.2fm (buffer %.2fm) for %.2fs",
				c.Drone1, c.Drone2, c.Distance, safetyBuffer, c.Duration.Seconds()),
		})
	}
	return r
}

func (r *Report) CountBySeverity() map[Severity]int {
	n := make(map[Severity]int)
	for _, c := range r.Conflicts {
		n[c.Severity]++
	}
	return n
}

// Write prints the report in human-readable form. Colors are applied
// through clr, which may be disabled for plain output.
func (r *Report) Write(w io.Writer, clr *color.Color) {
	fmt.Fprintf(w, "Run %s: %d missions, safety buffer %.2fm, time buffer %s\n",
		r.RunID, r.Missions, r.SafetyBuffer, r.TimeBuffer)

	total := fmt.Sprintf("%d", len(r.Conflicts))
	if len(r.Conflicts) == 0 {
		total = clr.Green(total)
	} else {
		total = clr.Red(total, color.B)
	}
	fmt.Fprintf(w, "\nTotal Conflicts Detected: %s\n", total)
	if len(r.Conflicts) == 0 {
		return
	}

	fmt.Fprintln(w, "\nUnique Conflict Events:")
	for _, c := range r.Conflicts {
		sev := c.Severity.String()
		if c.Severity == HIGH {
			sev = clr.Red(sev, color.B)
		} else {
			sev = clr.Yellow(sev)
		}
		fmt.Fprintf(w, "\nDrones: %s & %s [%s]\n", c.Drone1, c.Drone2, sev)
		fmt.Fprintf(w, "Start Time: %s\n", c.Time.Format(time.RFC3339Nano))
		fmt.Fprintf(w, "Closest Approach: (%.2f, %.2f, %.2f)\n", c.Location.X, c.Location.Y, c.Location.Z)
		fmt.Fprintf(w, "Minimum Distance: %.2fm\n", c.Distance)
		fmt.Fprintf(w, "Conflict Duration: %.2fs\n", c.Duration.Seconds())
	}
}

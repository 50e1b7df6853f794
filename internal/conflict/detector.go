package conflict

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"uav-deconfliction/internal/logging"
	"uav-deconfliction/internal/mission"
	"uav-deconfliction/internal/simulation"
	"uav-deconfliction/pkg/types"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	SafetyBuffer float64       // meters; closer than or equal to this is a conflict
	TimeBuffer   time.Duration // max time offset between compared samples
	TimeStep     time.Duration // sampling step, sets the interval merge tolerance
	Workers      int           // concurrent mission pair scans; <= 0 means NumCPU
}

type Detector struct {
	Config

	lg *log.Logger
}

func NewDetector(cfg Config, lg *log.Logger) *Detector {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Detector{Config: cfg, lg: logging.Or(lg)}
}

// mergeGap is the largest time gap between consecutive raw conflicts of
// the same pair that still joins them into one interval.
func (d *Detector) mergeGap() time.Duration {
	return time.Duration(1.5 * float64(d.TimeStep))
}

// Detect finds all conflict intervals between every pair of missions.
func (d *Detector) Detect(ctx context.Context, missions []*mission.Mission,
	paths map[types.DroneID]simulation.FlightPath) ([]Conflict, error) {
	raw, err := d.Scan(ctx, missions, paths)
	if err != nil {
		return nil, err
	}
	conflicts := d.GroupIntervals(raw)
	d.lg.Infof("%d missions: %d raw conflicts in %d intervals", len(missions), len(raw), len(conflicts))
	return conflicts, nil
}

// Scan compares every sample of each mission against every sample of
// each later mission and returns the violations. Mission pairs are
// scanned concurrently; the result is ordered as a sequential scan
// would produce it.
func (d *Detector) Scan(ctx context.Context, missions []*mission.Mission,
	paths map[types.DroneID]simulation.FlightPath) ([]RawConflict, error) {
	seen := make(map[types.DroneID]bool, len(missions))
	for _, m := range missions {
		if seen[m.DroneID] {
			return nil, fmt.Errorf("%s: %w", m.DroneID, ErrDuplicateDrone)
		}
		seen[m.DroneID] = true
		if _, ok := paths[m.DroneID]; !ok {
			return nil, fmt.Errorf("%s: %w", m.DroneID, ErrMissingTrajectory)
		}
	}

	type pair struct{ i, j int }
	var pairs []pair
	for i := range missions {
		for j := i + 1; j < len(missions); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	results := make([][]RawConflict, len(pairs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(d.Workers)
	for idx, p := range pairs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			id1, id2 := missions[p.i].DroneID, missions[p.j].DroneID
			results[idx] = d.scanPair(id1, id2, paths[id1], paths[id2])
			d.lg.Debugf("%s/%s: %d raw conflicts", id1, id2, len(results[idx]))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var n int
	for _, r := range results {
		n += len(r)
	}
	raw := make([]RawConflict, 0, n)
	for _, r := range results {
		raw = append(raw, r...)
	}
	return raw, nil
}

// scanPair is the full temporal cross join of two paths. Samples of
// path2 outside [t1-TimeBuffer, t1+TimeBuffer] can never match, so only
// that window of the time-sorted path is visited.
func (d *Detector) scanPair(id1, id2 types.DroneID, path1, path2 simulation.FlightPath) []RawConflict {
	if d.TimeBuffer < 0 {
		// |t1-t2| is never negative.
		return nil
	}

	var raw []RawConflict
	for _, s1 := range path1.Samples {
		lo, hi := path2.Window(s1.Time.Add(-d.TimeBuffer), s1.Time.Add(d.TimeBuffer))
		for _, s2 := range path2.Samples[lo:hi] {
			offset := s1.Time.Sub(s2.Time)
			if offset.Abs() > d.TimeBuffer {
				continue
			}
			if dist := s1.Position.DistanceTo(s2.Position); dist <= d.SafetyBuffer {
				raw = append(raw, RawConflict{
					Drone1:     id1,
					Drone2:     id2,
					Time:       s1.Time,
					Location:   s1.Position,
					Distance:   dist,
					TimeOffset: offset,
				})
			}
		}
	}
	return raw
}

// GroupIntervals merges raw conflicts into intervals: per drone pair,
// consecutive records no more than 1.5 time steps apart form one
// interval. The input slice is not modified.
func (d *Detector) GroupIntervals(raw []RawConflict) []Conflict {
	if len(raw) == 0 {
		return nil
	}

	sorted := slices.Clone(raw)
	slices.SortStableFunc(sorted, func(a, b RawConflict) int {
		if c := a.Pair().Compare(b.Pair()); c != 0 {
			return c
		}
		return a.Time.Compare(b.Time)
	})

	gap := d.mergeGap()
	var grouped []Conflict
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && sorted[i].Pair() == sorted[i-1].Pair() &&
			sorted[i].Time.Sub(sorted[i-1].Time) <= gap {
			continue
		}
		grouped = append(grouped, summarize(sorted[start:i]))
		start = i
	}
	return grouped
}

// summarize reduces a time-sorted, non-empty group to one conflict. The
// first record with the minimum distance gives the location.
func summarize(group []RawConflict) Conflict {
	first, last := group[0], group[len(group)-1]
	closest := first
	for _, rc := range group[1:] {
		if rc.Distance < closest.Distance {
			closest = rc
		}
	}

	return Conflict{
		Drone1:   first.Drone1,
		Drone2:   first.Drone2,
		Time:     first.Time,
		Location: closest.Location,
		Distance: closest.Distance,
		Duration: last.Time.Sub(first.Time),
	}
}

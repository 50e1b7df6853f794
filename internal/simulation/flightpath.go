package simulation

import (
	"sort"
	"time"

	"uav-deconfliction/pkg/types"
)

type Sample struct {
	Time     time.Time
	Position types.Vec3
}

// FlightPath is the dense trajectory of one drone: samples in strictly
// increasing time order. It is not modified after SimulateFlightPath
// returns it, so it may be shared between goroutines.
type FlightPath struct {
	DroneID types.DroneID
	Samples []Sample
}

func (fp FlightPath) Len() int {
	return len(fp.Samples)
}

func (fp FlightPath) Start() time.Time {
	return fp.Samples[0].Time
}

func (fp FlightPath) End() time.Time {
	return fp.Samples[len(fp.Samples)-1].Time
}

// Contains reports whether t lies within the path's time span.
func (fp FlightPath) Contains(t time.Time) bool {
	return len(fp.Samples) > 0 && !t.Before(fp.Start()) && !t.After(fp.End())
}

// Window returns the half-open index range [lo, hi) of samples with
// times in [from, to]. The range is empty when to is before from.
func (fp FlightPath) Window(from, to time.Time) (lo, hi int) {
	lo = sort.Search(len(fp.Samples), func(i int) bool {
		return !fp.Samples[i].Time.Before(from)
	})
	hi = sort.Search(len(fp.Samples), func(i int) bool {
		return fp.Samples[i].Time.After(to)
	})
	hi = max(lo, hi)
	return
}

// bracket returns the index i such that Samples[i] and Samples[i+1]
// straddle t. When t falls exactly on an interior sample the earlier
// segment is returned. The path must hold at least two samples and t
// must be within its span.
func (fp FlightPath) bracket(t time.Time) int {
	j := sort.Search(len(fp.Samples), func(i int) bool {
		return !fp.Samples[i].Time.Before(t)
	})
	return max(j-1, 0)
}

// Bounds returns the axis-aligned box holding every sample.
func (fp FlightPath) Bounds() (lo, hi types.Vec3) {
	if len(fp.Samples) == 0 {
		return
	}
	lo, hi = fp.Samples[0].Position, fp.Samples[0].Position
	for _, s := range fp.Samples[1:] {
		p := s.Position
		lo = types.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = types.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"uav-deconfliction/internal/config"
	"uav-deconfliction/internal/conflict"
	"uav-deconfliction/internal/logging"
	"uav-deconfliction/internal/mission"
	"uav-deconfliction/internal/missionfile"
	"uav-deconfliction/internal/simulation"
	"uav-deconfliction/pkg/types"

	"github.com/labstack/gommon/log"
)

// Primary describes a drone given on the command line rather than in
// the mission file.
type Primary struct {
	DroneID     types.DroneID
	Positions   []types.Vec3
	StartOffset float64
	EndOffset   float64
	Speed       float64
}

type Result struct {
	Missions  []*mission.Mission
	Paths     map[types.DroneID]simulation.FlightPath
	Conflicts []conflict.Conflict
}

type Pipeline struct {
	Config    *config.Config
	Simulator *simulation.Simulator
	Detector  *conflict.Detector

	lg *log.Logger
}

func New(cfg *config.Config, lg *log.Logger) *Pipeline {
	lg = logging.Or(lg)
	return &Pipeline{
		Config:    cfg,
		Simulator: simulation.NewSimulator(cfg.TimeStep, lg),
		Detector: conflict.NewDetector(conflict.Config{
			SafetyBuffer: cfg.SafetyBuffer,
			TimeBuffer:   cfg.TimeBuffer,
			TimeStep:     cfg.TimeStep,
			Workers:      cfg.Workers,
		}, lg),
		lg: lg,
	}
}

// LoadMissions builds the primary mission, if any, followed by those in
// the mission file, if one is given.
func (p *Pipeline) LoadMissions(path string, primary *Primary, globalStart time.Time) ([]*mission.Mission, error) {
	var missions []*mission.Mission
	if primary != nil {
		speed := primary.Speed
		if speed == 0 {
			speed = p.Config.DefaultSpeed
		}
		m, err := p.Simulator.CreateMission(primary.DroneID, primary.Positions, primary.StartOffset,
			primary.EndOffset, speed, globalStart)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}

	if path != "" {
		fm, err := missionfile.Load(path, p.Simulator, globalStart, p.Config.DefaultSpeed)
		if err != nil {
			return nil, err
		}
		p.lg.Infof("%s: loaded %d missions", path, len(fm))
		if primary != nil {
			for _, m := range fm {
				if m.DroneID == primary.DroneID {
					return nil, fmt.Errorf("%s: drone id %s is also used by the primary mission", path, m.DroneID)
				}
			}
		}
		missions = append(missions, fm...)
	}
	return missions, nil
}

// Analyze simulates the missions and detects conflicts between them.
func (p *Pipeline) Analyze(ctx context.Context, missions []*mission.Mission) (*Result, error) {
	start := time.Now()
	paths := p.Simulator.SimulateAll(missions)

	var samples int
	for _, fp := range paths {
		samples += fp.Len()
	}
	p.lg.Infof("simulated %d missions, %d samples in %s", len(missions), samples, time.Since(start))

	start = time.Now()
	conflicts, err := p.Detector.Detect(ctx, missions, paths)
	if err != nil {
		return nil, err
	}
	p.lg.Infof("detected %d conflicts in %s", len(conflicts), time.Since(start))

	return &Result{Missions: missions, Paths: paths, Conflicts: conflicts}, nil
}

// ParsePrimary builds a Primary from command line values; positions are
// written "x,y,z;x,y,z;...". An empty spec yields nil.
func ParsePrimary(id, spec string, startOffset, endOffset, speed float64) (*Primary, error) {
	if spec == "" {
		return nil, nil
	}
	pos, err := missionfile.ParsePositions(spec)
	if err != nil {
		return nil, err
	}
	return &Primary{
		DroneID:     types.DroneID(id),
		Positions:   pos,
		StartOffset: startOffset,
		EndOffset:   endOffset,
		Speed:       speed,
	}, nil
}

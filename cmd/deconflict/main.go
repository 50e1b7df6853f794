package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"uav-deconfliction/internal/config"
	"uav-deconfliction/internal/logging"
	"uav-deconfliction/internal/pipeline"
	"uav-deconfliction/internal/report"
	"uav-deconfliction/pkg/types"

	"github.com/goforj/godump"
	"github.com/labstack/gommon/color"
	"github.com/labstack/gommon/log"
)

func main() {
	var (
		configFile   = flag.String("config", "", "JSON configuration file")
		missionsFile = flag.String("missions", "", "JSON mission file")
		primary      = flag.String("primary", "", "primary drone waypoints as \"x,y,z;x,y,z;...\"")
		primaryID    = flag.String("primary-id", "drone1", "primary drone id")
		primaryStart = flag.Float64("primary-start", 0, "primary drone start offset in seconds")
		primaryEnd   = flag.Float64("primary-end", 0, "primary drone end offset in seconds (0: no limit)")
		primarySpeed = flag.Float64("primary-speed", 0, "primary drone speed in m/s (0: default speed)")
		timeStep     = flag.Float64("time-step", 0, "sampling step in seconds (overrides config)")
		safety       = flag.Float64("safety-buffer", 0, "safety buffer in meters (overrides config)")
		timeBuffer   = flag.Float64("time-buffer", -1, "time buffer in seconds (overrides config)")
		workers      = flag.Int("workers", 0, "concurrent pair scans (overrides config)")
		logLevel     = flag.String("loglevel", "", "log level: debug, info, warn, error, off")
		logFile      = flag.String("logfile", "", "write logs to this file instead of stdout")
		noColor      = flag.Bool("no-color", false, "disable colored output")
		dump         = flag.Bool("dump", false, "dump missions and conflicts for debugging")
	)
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			log.Fatal(err)
		}
	}
	if *timeStep > 0 {
		cfg.TimeStep = types.Seconds(*timeStep)
	}
	if *safety > 0 {
		cfg.SafetyBuffer = *safety
	}
	if *timeBuffer >= 0 {
		cfg.TimeBuffer = types.Seconds(*timeBuffer)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	lg := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	prim, err := pipeline.ParsePrimary(*primaryID, *primary, *primaryStart, *primaryEnd, *primarySpeed)
	if err != nil {
		lg.Fatalf("-primary: %v", err)
	}
	if prim == nil && *missionsFile == "" {
		fmt.Fprintln(os.Stderr, "usage: deconflict [-missions file.json] [-primary x,y,z;...] [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	p := pipeline.New(cfg, lg)
	missions, err := p.LoadMissions(*missionsFile, prim, time.Now())
	if err != nil {
		lg.Fatal(err)
	}

	res, err := p.Analyze(ctx, missions)
	if err != nil {
		lg.Fatal(err)
	}

	if *dump {
		godump.Dump(cfg)
		for _, m := range res.Missions {
			godump.Dump(m.DroneID, m.Waypoints())
		}
		godump.Dump(res.Conflicts)
	}

	clr := color.New()
	if *noColor {
		clr.Disable()
	}
	report.New(res.Conflicts, len(res.Missions), cfg.SafetyBuffer, cfg.TimeBuffer).Write(os.Stdout, clr)
}

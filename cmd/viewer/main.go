package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"uav-deconfliction/internal/config"
	"uav-deconfliction/internal/logging"
	"uav-deconfliction/internal/pipeline"
	"uav-deconfliction/internal/playback"
	"uav-deconfliction/internal/scene"
	"uav-deconfliction/internal/ui"
	"uav-deconfliction/pkg/types"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/labstack/gommon/log"
)

type Game struct {
	width, height int
	camera        *Camera
	playback      *playback.Playback
	lg            *log.Logger

	selectedDroneID types.DroneID
	commandInput    *ui.TextInput
}

func NewGame(pb *playback.Playback, screenWidth, screenHeight int, lg *log.Logger) *Game {
	game := &Game{
		playback: pb,
		camera:   &Camera{Scale: 1},
		width:    screenWidth,
		height:   screenHeight,
		lg:       lg,
	}
	game.camera.Fit(pb.Scene, screenWidth, screenHeight)

	game.commandInput = ui.NewTextInput(10, screenHeight-40, screenWidth/2, 30, func(cmd string) {
		game.parseAndExecuteCommand(cmd)
	})

	return game
}

func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	g.playback.Update(dt)

	g.handleInput()
	g.commandInput.Update()

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	Render(screen, Frame{
		Scene:    g.playback.Scene,
		Camera:   *g.camera,
		Clock:    g.playback.Clock,
		Rate:     g.playback.Rate,
		Paused:   g.playback.Paused,
		Drones:   g.playback.Drones,
		Alerts:   g.playback.AlertLog,
		Selected: g.selectedDroneID,
		Width:    g.width,
		Height:   g.height,
	})
	g.commandInput.Draw(screen)
	ebitenutil.DebugPrint(screen, "FPS: "+strconv.FormatFloat(ebiten.ActualFPS(), 'f', 2, 64))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}

func (g *Game) handleInput() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()

		if g.commandInput.IsClicked(x, y) {
			g.commandInput.IsActive = true
			return
		}
		g.commandInput.IsActive = false

		g.selectedDroneID = "" // Clear current selection
		for id, d := range g.playback.Drones {
			sx, sy := g.camera.WorldToScreen(d.Position)
			if dx, dy := float64(sx)-float64(x), float64(sy)-float64(y); dx*dx+dy*dy <= 10*10 {
				g.selectedDroneID = id
				g.lg.Debugf("Selected drone: %s", id)
				break
			}
		}
	}

	if !g.commandInput.IsActive && inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.playback.Paused = !g.playback.Paused
	}

	_, wy := ebiten.Wheel()
	if wy != 0 {
		cursorX, cursorY := ebiten.CursorPosition()
		worldX, worldY := g.camera.ScreenToWorld(float64(cursorX), float64(cursorY))

		scale := g.camera.Scale
		if wy > 0 {
			scale *= 1.1
		} else {
			scale /= 1.1
		}
		g.camera.Scale = max(0.01, min(1000, scale))

		newWorldX, newWorldY := g.camera.ScreenToWorld(float64(cursorX), float64(cursorY))
		g.camera.X -= newWorldX - worldX
		g.camera.Y -= newWorldY - worldY
	}

	// Right mouse button for pan
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		dx, dy := ebiten.CursorPosition()
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		} else {
			g.camera.X -= float64(dx-g.camera.PanStartX) / g.camera.Scale
			g.camera.Y += float64(dy-g.camera.PanStartY) / g.camera.Scale
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		}
	}
}

func (g *Game) parseAndExecuteCommand(line string) {
	cmd, err := parseCommand(line)
	if err != nil {
		g.lg.Warnf("%v", err)
		return
	}

	pb := g.playback
	switch cmd.Type {
	case cmdSeek:
		pb.Seek(pb.Scene.Start.Add(types.Seconds(cmd.Value)))
		g.lg.Infof("Seek to T+%.2fs", pb.Elapsed().Seconds())
	case cmdPlay:
		if !pb.Clock.Before(pb.Scene.End) {
			pb.Seek(pb.Scene.Start)
		}
		pb.Paused = false
	case cmdPause:
		pb.Paused = true
	case cmdRate:
		if err := pb.SetRate(cmd.Value); err != nil {
			g.lg.Warnf("%v", err)
		}
	case cmdSelect:
		if cmd.Drone != "" {
			if _, ok := pb.Drones[cmd.Drone]; !ok {
				g.lg.Warnf("Drone %s not found.", cmd.Drone)
				return
			}
		}
		g.selectedDroneID = cmd.Drone
	case cmdFit:
		g.camera.Fit(pb.Scene, g.width, g.height)
	}
}

func main() {
	var (
		configFile   = flag.String("config", "", "JSON configuration file")
		missionsFile = flag.String("missions", "", "JSON mission file")
		primary      = flag.String("primary", "", "primary drone waypoints as \"x,y,z;x,y,z;...\"")
		primaryID    = flag.String("primary-id", "drone1", "primary drone id")
		primaryStart = flag.Float64("primary-start", 0, "primary drone start offset in seconds")
		primaryEnd   = flag.Float64("primary-end", 0, "primary drone end offset in seconds (0: no limit)")
		primarySpeed = flag.Float64("primary-speed", 0, "primary drone speed in m/s (0: default speed)")
		logLevel     = flag.String("loglevel", "", "log level: debug, info, warn, error, off")
		width        = flag.Int("width", 1024, "window width")
		height       = flag.Int("height", 768, "window height")
	)
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			log.Fatal(err)
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	lg := logging.New(logging.Options{Prefix: "viewer", Level: cfg.LogLevel, File: cfg.LogFile})

	prim, err := pipeline.ParsePrimary(*primaryID, *primary, *primaryStart, *primaryEnd, *primarySpeed)
	if err != nil {
		lg.Fatalf("-primary: %v", err)
	}
	if prim == nil && *missionsFile == "" {
		fmt.Fprintln(os.Stderr, "usage: viewer [-missions file.json] [-primary x,y,z;...] [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	p := pipeline.New(cfg, lg)
	missions, err := p.LoadMissions(*missionsFile, prim, time.Now())
	if err != nil {
		lg.Fatal(err)
	}
	res, err := p.Analyze(context.Background(), missions)
	if err != nil {
		lg.Fatal(err)
	}

	sc := scene.Build(res.Missions, res.Paths, res.Conflicts)
	pb := playback.NewPlayback(sc, p.Simulator, cfg.SafetyBuffer, lg)

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("UAV Deconfliction")
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(NewGame(pb, *width, *height, lg)); err != nil {
		log.Fatal(err)
	}
}

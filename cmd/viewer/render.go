package main

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"uav-deconfliction/internal/conflict"
	"uav-deconfliction/internal/playback"
	"uav-deconfliction/internal/scene"
	"uav-deconfliction/pkg/types"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Camera maps the x/y plane to the screen; (X, Y) is the world position
// at the screen's top-left corner and +y points up.
type Camera struct {
	X, Y                 float64
	PanStartX, PanStartY int
	Scale                float64 // pixels per meter
}

func (c *Camera) WorldToScreen(p types.Vec3) (sx, sy float32) {
	return float32((p.X - c.X) * c.Scale), float32((c.Y - p.Y) * c.Scale)
}

func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return sx/c.Scale + c.X, c.Y - sy/c.Scale
}

// Fit centers the camera on the scene's bounds inside a w x h area.
func (c *Camera) Fit(sc scene.Scene, w, h int) {
	const margin = 60
	dx, dy := max(sc.Max.X-sc.Min.X, 10), max(sc.Max.Y-sc.Min.Y, 10)
	c.Scale = min((float64(w)-2*margin)/dx, (float64(h)-2*margin-timelineHeight)/dy)
	c.X = (sc.Min.X+sc.Max.X)/2 - float64(w)/2/c.Scale
	c.Y = (sc.Min.Y+sc.Max.Y)/2 + (float64(h)-timelineHeight)/2/c.Scale
}

// Frame is everything drawn in one frame.
type Frame struct {
	Scene    scene.Scene
	Camera   Camera
	Clock    time.Time
	Rate     float64
	Paused   bool
	Drones   map[types.DroneID]*playback.Drone
	Alerts   []playback.Alert
	Selected types.DroneID
	Width    int
	Height   int
}

const timelineHeight = 90

var palette = []color.RGBA{
	{255, 80, 80, 255},
	{0, 191, 255, 255},
	{50, 205, 50, 255},
	{255, 165, 0, 255},
	{186, 85, 211, 255},
	{165, 42, 42, 255},
	{255, 215, 0, 255},
	{64, 224, 208, 255},
}

// Render draws f; it keeps no state between calls.
func Render(screen *ebiten.Image, f Frame) {
	screen.Fill(color.RGBA{0, 0, 0, 255})

	for i, tr := range f.Scene.Tracks {
		drawTrack(screen, &f.Camera, tr, palette[i%len(palette)], tr.DroneID == f.Selected)
	}
	for _, c := range f.Scene.Conflicts {
		drawConflict(screen, &f.Camera, c, c.Active(f.Clock))
	}
	for i, tr := range f.Scene.Tracks {
		if d, ok := f.Drones[tr.DroneID]; ok {
			drawDrone(screen, &f.Camera, d, palette[i%len(palette)], d.ID == f.Selected)
		}
	}

	drawTimeline(screen, f)
	drawAlerts(screen, f)
}

func drawTrack(screen *ebiten.Image, cam *Camera, tr scene.Track, clr color.RGBA, selected bool) {
	width := float32(1)
	if selected {
		width = 2
	}

	// Dense paths can hold many thousands of samples; a few hundred
	// segments per track is plenty on screen.
	samples := tr.Path.Samples
	stride := max(1, len(samples)/500)
	for i := stride; i < len(samples)+stride-1; i += stride {
		j := min(i, len(samples)-1)
		x0, y0 := cam.WorldToScreen(samples[i-stride].Position)
		x1, y1 := cam.WorldToScreen(samples[j].Position)
		vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
	}

	faded := color.RGBA{clr.R / 2, clr.G / 2, clr.B / 2, 255}
	for i, wp := range tr.Waypoints {
		x, y := cam.WorldToScreen(wp)
		vector.DrawFilledCircle(screen, x, y, 3, faded, true)
		if i == 0 {
			vector.StrokeCircle(screen, x, y, 6, 1, faded, true)
		}
	}
}

func drawConflict(screen *ebiten.Image, cam *Camera, c conflict.Conflict, active bool) {
	x, y := cam.WorldToScreen(c.Location)
	clr := color.RGBA{200, 0, 0, 255}
	if active {
		vector.DrawFilledCircle(screen, x, y, 12, color.RGBA{255, 0, 0, 90}, true)
		clr = color.RGBA{255, 60, 60, 255}
	}
	const r = 6
	vector.StrokeLine(screen, x-r, y-r, x+r, y+r, 2, clr, true)
	vector.StrokeLine(screen, x-r, y+r, x+r, y-r, 2, clr, true)
	ebitenutil.DebugPrintAt(screen, c.Pair().String(), int(x)+8, int(y)+4)
}

func drawDrone(screen *ebiten.Image, cam *Camera, d *playback.Drone, clr color.RGBA, selected bool) {
	x, y := cam.WorldToScreen(d.Position)

	if d.IsConflicting {
		vector.DrawFilledCircle(screen, x, y, 14, color.RGBA{255, 0, 0, 100}, true)
	}
	if d.Status != playback.AIRBORNE {
		clr = color.RGBA{clr.R / 2, clr.G / 2, clr.B / 2, 255}
	}
	vector.DrawFilledCircle(screen, x, y, 5, clr, true)
	if selected {
		vector.StrokeRect(screen, x-10, y-10, 20, 20, 1, color.White, false)
	}

	if d.Speed > 0 {
		const lineLength = 25.0
		radians := d.Heading * math.Pi / 180.0
		ex := x + float32(lineLength*math.Sin(radians))
		ey := y - float32(lineLength*math.Cos(radians))
		vector.StrokeLine(screen, x, y, ex, ey, 1, color.RGBA{100, 100, 255, 255}, false)
	}

	tagText := fmt.Sprintf("%s\nALT:%.1f\nSPD:%.1f\nHDG:%.0f\nSTS: %s",
		d.ID, d.Position.Z, d.Speed, d.Heading, playback.StatusStringMap[d.Status])
	ebitenutil.DebugPrintAt(screen, tagText, int(x)+10, int(y)-20)
}

func drawTimeline(screen *ebiten.Image, f Frame) {
	top := float32(f.Height - timelineHeight)
	vector.DrawFilledRect(screen, 0, top, float32(f.Width), timelineHeight, color.RGBA{20, 20, 20, 255}, false)

	const left = 10
	barW := float32(f.Width - 2*left)
	barY := top + 8
	vector.DrawFilledRect(screen, left, barY, barW, 6, color.RGBA{70, 70, 70, 255}, false)

	span := f.Scene.Duration().Seconds()
	frac := func(t time.Time) float32 {
		if span <= 0 {
			return 0
		}
		return float32(t.Sub(f.Scene.Start).Seconds() / span)
	}
	for _, c := range f.Scene.Conflicts {
		x0, x1 := left+barW*frac(c.Time), left+barW*frac(c.End())
		vector.DrawFilledRect(screen, x0, barY, max(x1-x0, 2), 6, color.RGBA{255, 0, 0, 255}, false)
	}
	cx := left + barW*frac(f.Clock)
	vector.StrokeLine(screen, cx, barY-4, cx, barY+10, 2, color.White, false)

	state := fmt.Sprintf("x%.2f", f.Rate)
	if f.Paused {
		state += " PAUSED"
	}
	selected := "Selected: None"
	if f.Selected != "" {
		selected = "Selected: " + string(f.Selected)
	}
	status := fmt.Sprintf("T+%.2fs / %.2fs  %s   %s   Conflicts: %d",
		f.Clock.Sub(f.Scene.Start).Seconds(), span, state, selected, len(f.Scene.Conflicts))
	ebitenutil.DebugPrintAt(screen, status, left, int(barY)+12)
}

func drawAlerts(screen *ebiten.Image, f Frame) {
	const n = 8
	alerts := f.Alerts[max(0, len(f.Alerts)-n):]
	x := f.Width - 330
	for i, al := range alerts {
		msg := fmt.Sprintf("T+%.2fs %s", al.Timestamp.Sub(f.Scene.Start).Seconds(), al.Message)
		if al.IsUrgent {
			msg = "! " + msg
		}
		ebitenutil.DebugPrintAt(screen, msg, x, 20+16*i)
	}
}

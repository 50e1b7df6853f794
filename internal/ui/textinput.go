package ui

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// TextInput is a single-line command prompt with a history of submitted
// commands that can be recalled with the arrow keys.
type TextInput struct {
	Text     string
	IsActive bool
	X, Y     int
	Width    int
	Height   int
	OnSubmit func(string)

	history    []string
	historyPos int
}

func NewTextInput(x, y, width, height int, onSubmit func(string)) *TextInput {
	return &TextInput{
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		OnSubmit: onSubmit,
	}
}

func (ti *TextInput) Update() {
	if !ti.IsActive {
		return
	}

	ti.Text += string(ebiten.AppendInputChars(nil))

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		ti.Backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		ti.Recall(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		ti.Recall(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ti.Text = ""
		ti.IsActive = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		ti.Submit()
	}
}

func (ti *TextInput) Backspace() {
	if len(ti.Text) > 0 {
		r := []rune(ti.Text)
		ti.Text = string(r[:len(r)-1])
	}
}

// Submit hands the trimmed text to OnSubmit, records it in the history
// and deactivates the input.
func (ti *TextInput) Submit() {
	cmd := strings.TrimSpace(ti.Text)
	if cmd != "" {
		ti.history = append(ti.history, cmd)
		if ti.OnSubmit != nil {
			ti.OnSubmit(cmd)
		}
	}
	ti.historyPos = len(ti.history)
	ti.Text = ""
	ti.IsActive = false
}

// Recall moves through the history; delta -1 is the previous command.
func (ti *TextInput) Recall(delta int) {
	if len(ti.history) == 0 {
		return
	}
	ti.historyPos = max(0, min(len(ti.history), ti.historyPos+delta))
	if ti.historyPos == len(ti.history) {
		ti.Text = ""
	} else {
		ti.Text = ti.history[ti.historyPos]
	}
}

func (ti *TextInput) Draw(screen *ebiten.Image) {
	x, y, width, height := float32(ti.X), float32(ti.Y), float32(ti.Width), float32(ti.Height)

	bgColor := color.RGBA{50, 50, 50, 255}
	if ti.IsActive {
		bgColor = color.RGBA{80, 80, 80, 255}
	}
	vector.DrawFilledRect(screen, x, y, width, height, bgColor, false)
	vector.StrokeRect(screen, x, y, width, height, 1, color.White, false)

	displayTxt := ti.Text
	if ti.IsActive {
		displayTxt += "_" // Cursor
	}
	ebitenutil.DebugPrintAt(screen, "> "+displayTxt, ti.X+5, ti.Y+(ti.Height-16)/2)
}

// IsClicked checks if the mouse click is within the text input bounds
func (ti *TextInput) IsClicked(mouseX, mouseY int) bool {
	return mouseX >= ti.X && mouseX <= ti.X+ti.Width &&
		mouseY >= ti.Y && mouseY <= ti.Y+ti.Height
}

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button calls OnClick when the left mouse button is pressed and released over it.
// Releasing elsewhere cancels the click.
type Button struct {
	Label         string
	X, Y          float64
	Width, Height float64
	OnClick       func()

	armed bool // pressed over the button, waiting for release

	BGColor      color.RGBA
	HoverColor   color.RGBA
	PressedColor color.RGBA
}

// NewButton creates a new button instance
func NewButton(x, y, width, height float64, label string, onClick func()) *Button {
	return &Button{
		Label:        label,
		X:            x,
		Y:            y,
		Width:        width,
		Height:       height,
		OnClick:      onClick,
		BGColor:      color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor:   color.RGBA{R: 100, G: 150, B: 220, A: 255},
		PressedColor: color.RGBA{R: 50, G: 80, B: 130, A: 255},
	}
}

func (b *Button) contains(mx, my float64) bool {
	return mx >= b.X && mx <= b.X+b.Width && my >= b.Y && my <= b.Y+b.Height
}

// Update checks for mouse interaction
func (b *Button) Update() {
	mx, my := ebiten.CursorPosition()
	b.handle(float64(mx), float64(my),
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft))
}

// handle advances the click state machine for one frame.
func (b *Button) handle(mx, my float64, pressed, released bool) {
	over := b.contains(mx, my)
	if pressed && over {
		b.armed = true
	}
	if released {
		if b.armed && over && b.OnClick != nil {
			b.OnClick()
		}
		b.armed = false
	}
}

// Draw renders the button
func (b *Button) Draw(screen *ebiten.Image) {
	mx, my := ebiten.CursorPosition()
	bg := b.BGColor
	switch {
	case b.armed:
		bg = b.PressedColor
	case b.contains(float64(mx), float64(my)):
		bg = b.HoverColor
	}

	vector.FillRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), bg, true)
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height),
		2, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
	ebitenutil.DebugPrintAt(screen, b.Label, int(b.X+8), int(b.Y+(b.Height-16)/2))
}

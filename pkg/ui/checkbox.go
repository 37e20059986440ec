package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox is a simple UI widget for boolean values
type Checkbox struct {
	Label   string
	Value   bool
	X, Y    float64
	Size    float64
	clicked bool // Track if already clicked this frame
	changed bool
}

// NewCheckbox creates a new checkbox instance
func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{
		Label: label,
		Value: value,
		X:     x,
		Y:     y,
		Size:  16,
	}
}

// Toggle flips the value
func (c *Checkbox) Toggle() {
	c.Value = !c.Value
	c.changed = true
}

// Changed reports whether the value flipped since the previous call.
func (c *Checkbox) Changed() bool {
	ch := c.changed
	c.changed = false
	return ch
}

func (c *Checkbox) isOver(mx, my int) bool {
	return float64(mx) >= c.X && float64(mx) <= c.X+c.Size &&
		float64(my) >= c.Y && float64(my) <= c.Y+c.Size
}

// Update toggles the value once per click
func (c *Checkbox) Update() {
	mx, my := ebiten.CursorPosition()
	if c.isOver(mx, my) && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !c.clicked {
			c.Toggle()
			c.clicked = true
		}
	} else {
		c.clicked = false
	}
}

// Draw renders the checkbox
func (c *Checkbox) Draw(screen *ebiten.Image) {
	border := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	mx, my := ebiten.CursorPosition()
	if c.isOver(mx, my) {
		border = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.Size), float32(c.Size),
		2, border, true)

	if c.Value {
		vector.FillRect(screen,
			float32(c.X+3), float32(c.Y+3),
			float32(c.Size-6), float32(c.Size-6),
			color.RGBA{R: 100, G: 200, B: 255, A: 255},
			true)
	}
}

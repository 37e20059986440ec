package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Selector is a button cycling through a fixed list of options on each click
type Selector struct {
	Options []string
	Index   int
	X, Y    float64
	Width   float64
	Height  float64
	clicked bool // Track if already clicked this frame
	changed bool

	BGColor    color.RGBA
	HoverColor color.RGBA
}

// NewSelector creates a selector showing options[index]
func NewSelector(x, y, width float64, options []string, index int) *Selector {
	if index < 0 || index >= len(options) {
		index = 0
	}
	return &Selector{
		Options:    options,
		Index:      index,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     18,
		BGColor:    color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor: color.RGBA{R: 100, G: 150, B: 220, A: 255},
	}
}

// Value returns the selected option, or "" when there are none
func (s *Selector) Value() string {
	if len(s.Options) == 0 {
		return ""
	}
	return s.Options[s.Index]
}

// Next selects the following option, wrapping around
func (s *Selector) Next() {
	if len(s.Options) == 0 {
		return
	}
	s.Index = (s.Index + 1) % len(s.Options)
	s.changed = true
}

// Changed reports whether the selection moved since the previous call.
func (s *Selector) Changed() bool {
	c := s.changed
	s.changed = false
	return c
}

func (s *Selector) isOver(mx, my int) bool {
	return float64(mx) >= s.X && float64(mx) <= s.X+s.Width &&
		float64(my) >= s.Y && float64(my) <= s.Y+s.Height
}

// Update checks for mouse interaction
func (s *Selector) Update() {
	mx, my := ebiten.CursorPosition()
	if s.isOver(mx, my) && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !s.clicked {
			s.Next()
			s.clicked = true
		}
	} else {
		s.clicked = false
	}
}

// Draw renders the selector
func (s *Selector) Draw(screen *ebiten.Image) {
	mx, my := ebiten.CursorPosition()
	bgColor := s.BGColor
	if s.isOver(mx, my) {
		bgColor = s.HoverColor
	}
	vector.FillRect(screen,
		float32(s.X), float32(s.Y),
		float32(s.Width), float32(s.Height),
		bgColor, true)
	ebitenutil.DebugPrintAt(screen, "< "+s.Value()+" >", int(s.X+6), int(s.Y+1))
}

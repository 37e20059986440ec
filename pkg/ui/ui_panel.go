package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelOffset   = 15.0
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
	SetY(y float64)
}

// SliderWrapper wraps Slider to implement UIWidget
type SliderWrapper struct {
	*Slider
}

func (s *SliderWrapper) GetHeight() float64 { return s.H + 25 } // bar + label space
func (s *SliderWrapper) SetY(y float64)     { s.Y = y }

// CheckboxWrapper wraps Checkbox to implement UIWidget
type CheckboxWrapper struct {
	*Checkbox
}

func (c *CheckboxWrapper) GetHeight() float64 { return c.Size + 20 }
func (c *CheckboxWrapper) SetY(y float64)     { c.Y = y }

// SelectorWrapper wraps Selector to implement UIWidget
type SelectorWrapper struct {
	*Selector
}

func (s *SelectorWrapper) GetHeight() float64 { return s.Height + 22 }
func (s *SelectorWrapper) SetY(y float64)     { s.Y = y }

// UIPanel is a scrollable column of widgets grouped in collapsible sections.
type UIPanel struct {
	X, Y          float64 // Panel position
	Width, Height float64 // Panel dimensions
	Title         string
	Widgets       []UIWidget
	Labels        []string // Labels for widgets
	ScrollOffset  float64  // Current scroll position

	// Styling
	BGColor      color.RGBA
	BorderColor  color.RGBA
	SectionColor color.RGBA

	sections []PanelSection
}

// PanelSection groups the widgets in [StartIndex, EndIndex) under a header.
// Clicking the header collapses or expands it.
type PanelSection struct {
	Title      string
	StartIndex int
	EndIndex   int
	Collapsed  bool
	headerY    float64 // screen position computed by the last layout
}

// NewUIPanel creates a new UI panel
func NewUIPanel(x, y, width, height float64) *UIPanel {
	return &UIPanel{
		X:            x,
		Y:            y,
		Width:        width,
		Height:       height,
		Title:        "Flock Parameters",
		BGColor:      color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor:  color.RGBA{R: 100, G: 100, B: 110, A: 255},
		SectionColor: color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection opens a section; widgets added until EndSection belong to it.
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   len(p.Widgets),
	})
}

// EndSection closes the current section
func (p *UIPanel) EndSection() {
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	}
}

func (p *UIPanel) add(label string, w UIWidget) {
	p.Widgets = append(p.Widgets, w)
	p.Labels = append(p.Labels, label)
	if n := len(p.sections); n > 0 {
		p.sections[n-1].EndIndex = len(p.Widgets)
	}
	p.layout()
}

// AddSlider adds a slider widget to the panel
func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	slider := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(label, &SliderWrapper{slider})
	return slider
}

// AddCheckbox adds a checkbox widget to the panel
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	checkbox := NewCheckbox(p.X+10, 0, label, value)
	p.add(label, &CheckboxWrapper{checkbox})
	return checkbox
}

// AddSelector adds a selector cycling through options to the panel
func (p *UIPanel) AddSelector(label string, options []string, index int) *Selector {
	selector := NewSelector(p.X+10, 0, p.Width-20, options, index)
	p.add(label, &SelectorWrapper{selector})
	return selector
}

// visible reports whether widget i is shown, i.e. not inside a collapsed section.
func (p *UIPanel) visible(i int) bool {
	for _, s := range p.sections {
		if i >= s.StartIndex && i < s.EndIndex {
			return !s.Collapsed
		}
	}
	return true
}

// layout places section headers and widgets top to bottom, honoring scroll and
// collapsed sections. It returns the total content height.
func (p *UIPanel) layout() float64 {
	y := p.Y + titleHeight - p.ScrollOffset
	placed := make([]bool, len(p.Widgets))

	place := func(i int) {
		placed[i] = true
		if !p.visible(i) {
			return
		}
		p.Widgets[i].SetY(y + labelOffset)
		y += p.Widgets[i].GetHeight()
	}

	for si := range p.sections {
		s := &p.sections[si]
		s.headerY = y
		y += sectionHeight
		for i := s.StartIndex; i < s.EndIndex && i < len(p.Widgets); i++ {
			place(i)
		}
	}
	// widgets added outside any section go last
	for i := range p.Widgets {
		if !placed[i] {
			place(i)
		}
	}
	return y + p.ScrollOffset - p.Y
}

// Contains reports whether the point is over the panel.
func (p *UIPanel) Contains(x, y float64) bool {
	return x >= p.X && x <= p.X+p.Width && y >= p.Y && y <= p.Y+p.Height
}

// ToggleSection collapses or expands section i.
func (p *UIPanel) ToggleSection(i int) {
	if i < 0 || i >= len(p.sections) {
		return
	}
	p.sections[i].Collapsed = !p.sections[i].Collapsed
	p.clampScroll()
	p.layout()
}

func (p *UIPanel) clampScroll() {
	maxScroll := p.layout() - p.Height + 40
	if maxScroll < 0 {
		maxScroll = 0
	}
	p.ScrollOffset = min(max(p.ScrollOffset, 0), maxScroll)
}

// Update handles scrolling, section headers and widget input
func (p *UIPanel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		p.ScrollOffset -= dy * 20
		p.clampScroll()
	}
	p.layout()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		for i, s := range p.sections {
			if p.Contains(float64(mx), float64(my)) &&
				float64(my) >= s.headerY && float64(my) < s.headerY+sectionHeight-5 {
				p.ToggleSection(i)
				break
			}
		}
	}

	for i, widget := range p.Widgets {
		if p.visible(i) {
			widget.Update()
		}
	}
}

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	p.layout()
	inside := func(y, h float64) bool { return y >= p.Y+titleHeight-5 && y+h <= p.Y+p.Height }

	for _, s := range p.sections {
		if !inside(s.headerY, sectionHeight) {
			continue
		}
		vector.FillRect(screen,
			float32(p.X+5), float32(s.headerY),
			float32(p.Width-10), sectionHeight-5,
			p.SectionColor, true)
		marker := "- "
		if s.Collapsed {
			marker = "+ "
		}
		ebitenutil.DebugPrintAt(screen, marker+s.Title, int(p.X+10), int(s.headerY+2))
	}

	for i, widget := range p.Widgets {
		if !p.visible(i) {
			continue
		}
		top := widgetTop(widget)
		if !inside(top, widget.GetHeight()) {
			continue
		}
		ebitenutil.DebugPrintAt(screen, p.Labels[i], int(p.X+10), int(top))
		widget.Draw(screen)
	}
}

// widgetTop returns the y of the label line above the widget.
func widgetTop(w UIWidget) float64 {
	switch w := w.(type) {
	case *SliderWrapper:
		return w.Y - labelOffset
	case *CheckboxWrapper:
		return w.Y - labelOffset
	case *SelectorWrapper:
		return w.Y - labelOffset
	}
	return 0
}

// GetSliderValue gets the value of a slider by index
func (p *UIPanel) GetSliderValue(index int) float64 {
	if index < 0 || index >= len(p.Widgets) {
		return 0
	}
	if sw, ok := p.Widgets[index].(*SliderWrapper); ok {
		return sw.Value
	}
	return 0
}

// GetSelectorValue gets the selected option of a selector by index
func (p *UIPanel) GetSelectorValue(index int) string {
	if index < 0 || index >= len(p.Widgets) {
		return ""
	}
	if sw, ok := p.Widgets[index].(*SelectorWrapper); ok {
		return sw.Value()
	}
	return ""
}

// GetCheckboxValue gets the value of a checkbox by index
func (p *UIPanel) GetCheckboxValue(index int) bool {
	if index < 0 || index >= len(p.Widgets) {
		return false
	}
	if cw, ok := p.Widgets[index].(*CheckboxWrapper); ok {
		return cw.Value
	}
	return false
}

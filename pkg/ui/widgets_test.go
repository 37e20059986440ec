package ui

import "testing"

func TestNewSlider_ClampsValue(t *testing.T) {
	tests := []struct {
		value, want float64
	}{
		{5, 5},
		{-3, 0},
		{42, 10},
	}
	for _, tt := range tests {
		s := NewSlider(0, 0, 100, "x", 0, 10, tt.value)
		if s.Value != tt.want {
			t.Errorf("NewSlider(value=%v).Value = %v, want %v", tt.value, s.Value, tt.want)
		}
	}
}

func TestSlider_SetFromCursor(t *testing.T) {
	s := NewSlider(10, 20, 100, "radius", 0, 50, 0)

	s.SetFromCursor(60, 25)
	if s.Value != 25 {
		t.Errorf("Value = %v, want 25", s.Value)
	}
	if !s.Changed() {
		t.Error("Changed() = false after a move")
	}
	if s.Changed() {
		t.Error("Changed() must reset after being read")
	}

	// outside the bar: ignored
	s.SetFromCursor(500, 25)
	s.SetFromCursor(60, 100)
	if s.Value != 25 || s.Changed() {
		t.Errorf("cursor outside the bar moved the slider to %v", s.Value)
	}

	// same value: not a change
	s.SetFromCursor(60, 25)
	if s.Changed() {
		t.Error("Changed() = true without a new value")
	}
}

func TestSelector_Next(t *testing.T) {
	s := NewSelector(0, 0, 100, []string{"a", "b", "c"}, 1)
	if s.Value() != "b" {
		t.Fatalf("Value() = %q, want b", s.Value())
	}
	s.Next()
	s.Next()
	if s.Value() != "a" {
		t.Errorf("Value() = %q after wrapping, want a", s.Value())
	}
	if !s.Changed() || s.Changed() {
		t.Error("Changed() must report once per change")
	}

	if NewSelector(0, 0, 100, []string{"a"}, 7).Index != 0 {
		t.Error("out of range index must fall back to 0")
	}
	empty := NewSelector(0, 0, 100, nil, 0)
	empty.Next()
	if empty.Value() != "" {
		t.Errorf("empty selector Value() = %q", empty.Value())
	}
}

func TestUIPanel_Layout(t *testing.T) {
	p := NewUIPanel(10, 10, 280, 500)
	p.AddSection("Flock")
	slider := p.AddSlider("View Radius", 0, 50, 10)
	selector := p.AddSelector("Policy", []string{"wrap", "soft-repulsion"}, 1)
	box := p.AddCheckbox("Show Cube", true)
	p.EndSection()

	if !(slider.Y < selector.Y && selector.Y < box.Y) {
		t.Errorf("widgets must stack downwards: %v, %v, %v", slider.Y, selector.Y, box.Y)
	}
	if got := p.GetSliderValue(0); got != 10 {
		t.Errorf("GetSliderValue(0) = %v, want 10", got)
	}
	if got := p.GetSelectorValue(1); got != "soft-repulsion" {
		t.Errorf("GetSelectorValue(1) = %q", got)
	}
	if !p.GetCheckboxValue(2) {
		t.Error("GetCheckboxValue(2) = false")
	}
	if p.GetSelectorValue(0) != "" || p.GetSliderValue(9) != 0 {
		t.Error("wrong widget type or index must return the zero value")
	}
}

func TestCheckbox_Toggle(t *testing.T) {
	c := NewCheckbox(0, 0, "cube", false)
	c.Toggle()
	if !c.Value {
		t.Error("Toggle() did not set the value")
	}
	if !c.Changed() || c.Changed() {
		t.Error("Changed() must report once per toggle")
	}
}

func TestUIPanel_CollapseSection(t *testing.T) {
	p := NewUIPanel(0, 0, 200, 400)
	p.AddSection("A")
	first := p.AddSlider("a", 0, 1, 0)
	p.EndSection()
	p.AddSection("B")
	second := p.AddSlider("b", 0, 1, 0)
	p.EndSection()

	before := second.Y
	p.ToggleSection(0)
	if second.Y >= before {
		t.Errorf("collapsing A should move B's widgets up: %v -> %v", before, second.Y)
	}
	p.ToggleSection(0)
	if second.Y != before {
		t.Errorf("expanding A should restore the layout: got %v, want %v", second.Y, before)
	}
	if first.Y >= second.Y {
		t.Errorf("section order not kept: %v, %v", first.Y, second.Y)
	}
	p.ToggleSection(5) // ignored
}

func TestUIPanel_Contains(t *testing.T) {
	p := NewUIPanel(10, 10, 100, 50)
	if !p.Contains(50, 30) || p.Contains(5, 30) || p.Contains(50, 70) {
		t.Error("Contains() does not match the panel rectangle")
	}
}

func TestButton_ClickOnRelease(t *testing.T) {
	clicks := 0
	b := NewButton(0, 0, 100, 30, "Pause", func() { clicks++ })

	tests := []struct {
		name              string
		x, y              float64
		pressed, released bool
		want              int
	}{
		{"press over", 50, 15, true, false, 0},
		{"release over", 50, 15, false, true, 1},
		{"release without press", 50, 15, false, true, 1},
		{"press over again", 50, 15, true, false, 1},
		{"release outside cancels", 500, 15, false, true, 1},
		{"press outside", 500, 15, true, false, 1},
		{"release over after outside press", 50, 15, false, true, 1},
	}
	for _, tt := range tests {
		b.handle(tt.x, tt.y, tt.pressed, tt.released)
		if clicks != tt.want {
			t.Fatalf("%s: clicks = %d, want %d", tt.name, clicks, tt.want)
		}
	}
}

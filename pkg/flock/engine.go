// Package flock advances a boids.Set by one tick: alignment, cohesion and separation
// computed by a brute-force scan of the whole flock, integrated into velocity and
// position, followed by the configured boundary policy.
package flock

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/boids"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/geometry"
)

// Engine holds the parameters of the flocking rules.
// It keeps no per-boid state between ticks, only a scratch buffer reused by
// Synchronous steps. An Engine must not be shared by concurrent Step calls.
type Engine struct {
	params  Params
	scratch []boids.Boid
}

// New validates p and returns an Engine.
func New(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: p}, nil
}

// Params returns the current parameters.
func (e *Engine) Params() Params {
	return e.params
}

// SetParams replaces the parameters. Invalid parameters are rejected and the
// previous ones are kept.
func (e *Engine) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.params = p
	return nil
}

// Align returns the steering force matching boid i's velocity with the average
// velocity of its neighbors within ViewRadius.
func (e *Engine) Align(set *boids.Set, i int) (geometry.Vector3, error) {
	if err := checkIndex(set, i); err != nil {
		return geometry.Zero, err
	}
	return e.align(set.Boids(), i), nil
}

// Cohere returns the steering force pulling boid i toward the average position of
// its neighbors within ViewRadius.
func (e *Engine) Cohere(set *boids.Set, i int) (geometry.Vector3, error) {
	if err := checkIndex(set, i); err != nil {
		return geometry.Zero, err
	}
	return e.cohere(set.Boids(), i), nil
}

// Separate returns the steering force pushing boid i away from its neighbors within
// SeparationRadius, each contributing its offset divided by its distance.
func (e *Engine) Separate(set *boids.Set, i int) (geometry.Vector3, error) {
	if err := checkIndex(set, i); err != nil {
		return geometry.Zero, err
	}
	return e.separate(set.Boids(), i), nil
}

func checkIndex(set *boids.Set, i int) error {
	if i < 0 || i >= set.Len() {
		return fmt.Errorf("%w: %d not in [0, %d)", boids.ErrOutOfBounds, i, set.Len())
	}
	return nil
}

// excluded reports whether boid j stays out of boid i's neighbor sums.
func (e *Engine) excluded(view []boids.Boid, i, j int) bool {
	if e.params.Exclusion == ByIndex {
		return i == j
	}
	return view[i].Position == view[j].Position
}

func (e *Engine) align(view []boids.Boid, i int) geometry.Vector3 {
	me := view[i]
	sum := geometry.Zero
	n := 0
	for j := range view {
		if e.excluded(view, i, j) {
			continue
		}
		if me.Position.DistanceTo(view[j].Position) < e.params.ViewRadius {
			sum = sum.Add(view[j].Velocity)
			n++
		}
	}
	if n == 0 {
		return geometry.Zero
	}
	avg, _ := sum.Div(float32(n))
	return avg.Sub(me.Velocity).ClampMagnitude(0, e.params.MaxSteeringForce)
}

func (e *Engine) cohere(view []boids.Boid, i int) geometry.Vector3 {
	me := view[i]
	sum := geometry.Zero
	n := 0
	for j := range view {
		if e.excluded(view, i, j) {
			continue
		}
		if me.Position.DistanceTo(view[j].Position) < e.params.ViewRadius {
			sum = sum.Add(view[j].Position)
			n++
		}
	}
	if n == 0 {
		return geometry.Zero
	}
	center, _ := sum.Div(float32(n))
	return center.Sub(me.Position).ClampMagnitude(0, e.params.MaxSteeringForce)
}

func (e *Engine) separate(view []boids.Boid, i int) geometry.Vector3 {
	me := view[i]
	sum := geometry.Zero
	n := 0
	for j := range view {
		if e.excluded(view, i, j) {
			continue
		}
		distance := me.Position.DistanceTo(view[j].Position)
		// distance is only zero for a shared position, which ByPosition already
		// excluded; ByIndex must skip it explicitly.
		if distance == 0 || distance >= e.params.SeparationRadius {
			continue
		}
		away, _ := me.Position.Sub(view[j].Position).Div(distance)
		sum = sum.Add(away)
		n++
	}
	if n == 0 {
		return geometry.Zero
	}
	avg, _ := sum.Div(float32(n))
	return avg.ClampMagnitude(0, e.params.MaxSteeringForce)
}

// BoundaryForce returns the SoftRepulsion force at position p in a world of
// half-extent h. On each axis it grows linearly from 0 at h-BoundaryThreshold to
// MaxSteeringForce at the face, pointing inward, and stays at MaxSteeringForce beyond it.
func (e *Engine) BoundaryForce(p geometry.Vector3, h float32) geometry.Vector3 {
	band, limit := e.params.BoundaryThreshold, e.params.MaxSteeringForce
	return geometry.Vector3{
		X: axisRepulsion(p.X, h, band, limit),
		Y: axisRepulsion(p.Y, h, band, limit),
		Z: axisRepulsion(p.Z, h, band, limit),
	}
}

func axisRepulsion(c, h, band, limit float32) float32 {
	if band <= 0 {
		return 0
	}
	inner := h - band
	var f float32
	if c > inner {
		f -= limit * ramp(c, inner, h, band)
	}
	if -c > inner {
		f += limit * ramp(-c, inner, h, band)
	}
	return f
}

// ramp maps c in [inner, h] to [0, 1], saturating at the face.
func ramp(c, inner, h, band float32) float32 {
	if c >= h {
		return 1
	}
	return (c - inner) / band
}

// Step advances the whole flock by one tick.
func (e *Engine) Step(set *boids.Set) {
	live := set.Boids()
	view := live
	if e.params.Order == Synchronous {
		e.scratch = set.Snapshot(e.scratch)
		view = e.scratch
	}
	h := set.WorldHalfExtent()

	for i := range live {
		acceleration := e.align(view, i).Add(e.cohere(view, i)).Add(e.separate(view, i))
		if e.params.Boundary == SoftRepulsion {
			acceleration = acceleration.Add(e.BoundaryForce(view[i].Position, h))
		}

		b := &live[i]
		b.Velocity = b.Velocity.Add(acceleration).ClampMagnitude(0, e.params.MaxSpeed)
		b.Position = b.Position.Add(b.Velocity)

		switch e.params.Boundary {
		case Wrap:
			b.Position = wrap(b.Position, h)
		case ReverseOnSpeed:
			if b.Velocity.Len() > e.params.ReverseSpeed {
				b.Velocity = b.Velocity.Neg()
			}
		}
	}
}

// Run calls Step ticks times.
func (e *Engine) Run(set *boids.Set, ticks int) {
	for range ticks {
		e.Step(set)
	}
}

func wrap(p geometry.Vector3, h float32) geometry.Vector3 {
	return geometry.Vector3{X: wrapAxis(p.X, h), Y: wrapAxis(p.Y, h), Z: wrapAxis(p.Z, h)}
}

func wrapAxis(c, h float32) float32 {
	if c > h {
		return -h
	}
	if c < -h {
		return h
	}
	return c
}

package flock

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned when engine parameters are out of their domain.
var ErrInvalidParams = errors.New("invalid flocking parameters")

// BoundaryPolicy selects what happens to a boid near or beyond the world faces.
type BoundaryPolicy int

const (
	// Wrap teleports a coordinate beyond ±h to the opposite face, per axis.
	Wrap BoundaryPolicy = iota
	// ReverseOnSpeed negates the velocity when its magnitude exceeds Params.ReverseSpeed.
	// Speed is checked after the MaxSpeed clamp, so ReverseSpeed must stay below MaxSpeed.
	ReverseOnSpeed
	// SoftRepulsion adds an inward force that ramps up inside a band near each face.
	// There is no hard clamp: a fast boid can still leave the world.
	SoftRepulsion
)

var boundaryNames = map[BoundaryPolicy]string{
	Wrap:           "wrap",
	ReverseOnSpeed: "reverse-on-speed",
	SoftRepulsion:  "soft-repulsion",
}

func (p BoundaryPolicy) String() string {
	if s, ok := boundaryNames[p]; ok {
		return s
	}
	return fmt.Sprintf("BoundaryPolicy(%d)", int(p))
}

// ParseBoundaryPolicy is the inverse of BoundaryPolicy.String.
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	for p, name := range boundaryNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown boundary policy %q", ErrInvalidParams, s)
}

// UpdateOrder selects how boids observe each other during a Step.
type UpdateOrder int

const (
	// Sequential updates boids in place, in index order: boid i sees the
	// already-updated state of boids 0..i-1 within the same tick.
	Sequential UpdateOrder = iota
	// Synchronous computes every boid from the previous tick's state, then writes.
	// The result does not depend on iteration order.
	Synchronous
)

func (o UpdateOrder) String() string {
	switch o {
	case Sequential:
		return "sequential"
	case Synchronous:
		return "synchronous"
	}
	return fmt.Sprintf("UpdateOrder(%d)", int(o))
}

// ParseUpdateOrder is the inverse of UpdateOrder.String.
func ParseUpdateOrder(s string) (UpdateOrder, error) {
	switch s {
	case "sequential":
		return Sequential, nil
	case "synchronous":
		return Synchronous, nil
	}
	return 0, fmt.Errorf("%w: unknown update order %q", ErrInvalidParams, s)
}

// Exclusion selects how a boid is left out of its own neighbor sums.
type Exclusion int

const (
	// ByPosition skips every boid whose position is exactly equal to the reference
	// boid's. Two distinct boids sharing a position ignore each other.
	ByPosition Exclusion = iota
	// ByIndex skips only the reference boid itself.
	ByIndex
)

func (x Exclusion) String() string {
	switch x {
	case ByPosition:
		return "position"
	case ByIndex:
		return "index"
	}
	return fmt.Sprintf("Exclusion(%d)", int(x))
}

// ParseExclusion is the inverse of Exclusion.String.
func ParseExclusion(s string) (Exclusion, error) {
	switch s {
	case "position":
		return ByPosition, nil
	case "index":
		return ByIndex, nil
	}
	return 0, fmt.Errorf("%w: unknown self exclusion %q", ErrInvalidParams, s)
}

// Params controls the physics constants of the flock.
type Params struct {
	ViewRadius       float32 // neighbor distance for alignment and cohesion
	SeparationRadius float32 // neighbor distance for separation
	MaxSteeringForce float32 // cap applied to each rule before they are combined
	MaxSpeed         float32

	Boundary          BoundaryPolicy
	BoundaryThreshold float32 // band width for SoftRepulsion
	ReverseSpeed      float32 // speed above which ReverseOnSpeed bounces a boid

	Order     UpdateOrder
	Exclusion Exclusion
}

// DefaultParams returns the constants of the reference flock: 200 boids in a
// 200 units wide cube wrapping at the faces.
func DefaultParams() Params {
	return Params{
		ViewRadius:        10,
		SeparationRadius:  15,
		MaxSteeringForce:  0.1,
		MaxSpeed:          3,
		Boundary:          Wrap,
		BoundaryThreshold: 20,
		ReverseSpeed:      2,
		Order:             Sequential,
		Exclusion:         ByPosition,
	}
}

// Validate checks that every field is within its domain.
func (p Params) Validate() error {
	checks := []struct {
		name     string
		value    float32
		positive bool
	}{
		{"viewRadius", p.ViewRadius, true},
		{"separationRadius", p.SeparationRadius, true},
		{"maxSteeringForce", p.MaxSteeringForce, true},
		{"maxSpeed", p.MaxSpeed, true},
		{"boundaryThreshold", p.BoundaryThreshold, p.Boundary == SoftRepulsion},
		{"reverseSpeed", p.ReverseSpeed, p.Boundary == ReverseOnSpeed},
	}
	for _, c := range checks {
		f := float64(c.value)
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || (c.positive && f == 0) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidParams, c.name, c.value)
		}
	}
	if _, ok := boundaryNames[p.Boundary]; !ok {
		return fmt.Errorf("%w: %v", ErrInvalidParams, p.Boundary)
	}
	// a clamped velocity never exceeds MaxSpeed, the policy would never fire
	if p.Boundary == ReverseOnSpeed && p.ReverseSpeed >= p.MaxSpeed {
		return fmt.Errorf("%w: reverseSpeed %v must be below maxSpeed %v", ErrInvalidParams, p.ReverseSpeed, p.MaxSpeed)
	}
	if p.Order != Sequential && p.Order != Synchronous {
		return fmt.Errorf("%w: %v", ErrInvalidParams, p.Order)
	}
	if p.Exclusion != ByPosition && p.Exclusion != ByIndex {
		return fmt.Errorf("%w: %v", ErrInvalidParams, p.Exclusion)
	}
	return nil
}

package simulation

import (
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/boids"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/flock"
)

// WorldSnapshot is a copy of the flock handed to the renderer.
// It does not share memory with the live simulation.
type WorldSnapshot struct {
	Tick       uint64
	HalfExtent float32
	Boids      []boids.Boid
}

// TunableUpdate carries the parameters the viewer may change while running.
// A nil field keeps its current value.
type TunableUpdate struct {
	ViewRadius        *float32
	SeparationRadius  *float32
	MaxSteeringForce  *float32
	MaxSpeed          *float32
	BoundaryThreshold *float32
	ReverseSpeed      *float32
	BoundaryPolicy    *flock.BoundaryPolicy
}

// Flock owns the authoritative state of the simulation: the boid set, the engine
// and the tick counter. It is not safe for concurrent use; FlockActor serializes access.
type Flock struct {
	set    *boids.Set
	engine *flock.Engine
	tick   uint64
	seed   uint64
}

// NewFlock validates cfg, scatters cfg.NumBoids boids with the configured seed and
// prepares the engine.
func NewFlock(cfg *Config) (*Flock, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", boids.ErrInvalidArgument)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := cfg.EngineParams()
	if err != nil {
		return nil, err
	}
	engine, err := flock.New(params)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	set, err := boids.InitializeWithSpeed(cfg.NumBoids, cfg.WorldHalfExtent, cfg.InitialSpeed, boids.NewRand(seed))
	if err != nil {
		return nil, err
	}
	return &Flock{set: set, engine: engine, seed: seed}, nil
}

// Tick advances the flock by one step and returns the new tick count.
func (f *Flock) Tick() uint64 {
	f.engine.Step(f.set)
	f.tick++
	return f.tick
}

// Advance runs n steps.
func (f *Flock) Advance(n uint64) uint64 {
	for range n {
		f.Tick()
	}
	return f.tick
}

// Ticks returns the number of steps run so far.
func (f *Flock) Ticks() uint64 { return f.tick }

// Seed returns the seed the initial layout was drawn from.
func (f *Flock) Seed() uint64 { return f.seed }

// Len returns the number of boids.
func (f *Flock) Len() int { return f.set.Len() }

// Params returns the engine parameters currently in effect.
func (f *Flock) Params() flock.Params { return f.engine.Params() }

// Fingerprint hashes the current state, see boids.Set.Fingerprint.
func (f *Flock) Fingerprint() uint64 { return f.set.Fingerprint() }

// Snapshot copies the current state into a fresh WorldSnapshot.
func (f *Flock) Snapshot() *WorldSnapshot {
	return &WorldSnapshot{
		Tick:       f.tick,
		HalfExtent: f.set.WorldHalfExtent(),
		Boids:      f.set.Snapshot(nil),
	}
}

// Apply merges u into the current parameters. An update that would leave the
// engine with invalid parameters is rejected as a whole.
func (f *Flock) Apply(u TunableUpdate) error {
	p := f.engine.Params()
	if u.ViewRadius != nil {
		p.ViewRadius = *u.ViewRadius
	}
	if u.SeparationRadius != nil {
		p.SeparationRadius = *u.SeparationRadius
	}
	if u.MaxSteeringForce != nil {
		p.MaxSteeringForce = *u.MaxSteeringForce
	}
	if u.MaxSpeed != nil {
		p.MaxSpeed = *u.MaxSpeed
	}
	if u.BoundaryThreshold != nil {
		p.BoundaryThreshold = *u.BoundaryThreshold
	}
	if u.ReverseSpeed != nil {
		p.ReverseSpeed = *u.ReverseSpeed
	}
	if u.BoundaryPolicy != nil {
		p.Boundary = *u.BoundaryPolicy
	}
	return f.engine.SetParams(p)
}

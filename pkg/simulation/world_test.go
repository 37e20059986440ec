package simulation

import (
	"errors"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/boids"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededConfig(seed uint64) *Config {
	cfg := DefaultConfig()
	cfg.Seed = seed
	return cfg
}

func f32(v float32) *float32 { return &v }

func TestNewFlock(t *testing.T) {
	f, err := NewFlock(seededConfig(7))
	require.NoError(t, err)

	assert.Equal(t, 200, f.Len())
	assert.Equal(t, uint64(0), f.Ticks())
	assert.Equal(t, uint64(7), f.Seed())
	assert.Equal(t, flock.DefaultParams(), f.Params())

	snap := f.Snapshot()
	assert.Equal(t, float32(100), snap.HalfExtent)
	for _, b := range snap.Boids {
		assert.LessOrEqual(t, b.Position.X, float32(100))
		assert.GreaterOrEqual(t, b.Position.X, float32(-100))
		assert.InDelta(t, 0.3, b.Velocity.Len(), 1e-5)
	}
}

func TestNewFlock_Invalid(t *testing.T) {
	_, err := NewFlock(nil)
	assert.True(t, errors.Is(err, boids.ErrInvalidArgument))

	cfg := DefaultConfig()
	cfg.MaxSpeed = -1
	_, err = NewFlock(cfg)
	assert.True(t, errors.Is(err, flock.ErrInvalidParams))

	cfg = DefaultConfig()
	cfg.NumBoids = -1
	_, err = NewFlock(cfg)
	assert.Error(t, err)
}

func TestNewFlock_ClockSeed(t *testing.T) {
	f, err := NewFlock(seededConfig(0))
	require.NoError(t, err)
	assert.NotZero(t, f.Seed())
}

func TestFlock_TickAndAdvance(t *testing.T) {
	f, err := NewFlock(seededConfig(1))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), f.Tick())
	assert.Equal(t, uint64(11), f.Advance(10))
	assert.Equal(t, uint64(11), f.Advance(0))
	assert.Equal(t, uint64(11), f.Snapshot().Tick)
}

func TestFlock_SnapshotIsACopy(t *testing.T) {
	f, err := NewFlock(seededConfig(3))
	require.NoError(t, err)

	snap := f.Snapshot()
	before := f.Fingerprint()
	snap.Boids[0].Position = geometry.NewVector(1000, 1000, 1000)
	assert.Equal(t, before, f.Fingerprint(), "mutating a snapshot must not touch the flock")

	f.Tick()
	assert.Equal(t, uint64(0), snap.Tick)
}

func TestFlock_Deterministic(t *testing.T) {
	run := func(seed uint64) uint64 {
		f, err := NewFlock(seededConfig(seed))
		require.NoError(t, err)
		f.Advance(50)
		return f.Fingerprint()
	}
	assert.Equal(t, run(11), run(11))
	assert.NotEqual(t, run(11), run(12))
}

func TestFlock_Apply(t *testing.T) {
	f, err := NewFlock(seededConfig(5))
	require.NoError(t, err)

	policy := flock.SoftRepulsion
	require.NoError(t, f.Apply(TunableUpdate{
		ViewRadius:     f32(25),
		MaxSpeed:       f32(1.5),
		BoundaryPolicy: &policy,
	}))
	p := f.Params()
	assert.Equal(t, float32(25), p.ViewRadius)
	assert.Equal(t, float32(1.5), p.MaxSpeed)
	assert.Equal(t, flock.SoftRepulsion, p.Boundary)
	assert.Equal(t, flock.DefaultParams().SeparationRadius, p.SeparationRadius, "untouched fields keep their value")

	// rejected as a whole
	err = f.Apply(TunableUpdate{ViewRadius: f32(30), MaxSpeed: f32(0)})
	assert.True(t, errors.Is(err, flock.ErrInvalidParams))
	assert.Equal(t, p, f.Params())

	// the band may not vanish while soft repulsion is active
	err = f.Apply(TunableUpdate{BoundaryThreshold: f32(0)})
	assert.Error(t, err)
	assert.Equal(t, p, f.Params())
}

func TestFlock_ApplyReverseSpeed(t *testing.T) {
	f, err := NewFlock(seededConfig(5))
	require.NoError(t, err)

	reverse := flock.ReverseOnSpeed
	require.NoError(t, f.Apply(TunableUpdate{BoundaryPolicy: &reverse}), "default constants must allow the policy")
	require.NoError(t, f.Apply(TunableUpdate{ReverseSpeed: f32(1.5)}))
	assert.Equal(t, float32(1.5), f.Params().ReverseSpeed)

	// a threshold at or above the speed cap would never fire
	err = f.Apply(TunableUpdate{ReverseSpeed: f32(f.Params().MaxSpeed)})
	assert.True(t, errors.Is(err, flock.ErrInvalidParams))
	err = f.Apply(TunableUpdate{MaxSpeed: f32(1)})
	assert.True(t, errors.Is(err, flock.ErrInvalidParams))
	assert.Equal(t, float32(1.5), f.Params().ReverseSpeed)
}

func BenchmarkFlock_Tick(b *testing.B) {
	f, err := NewFlock(seededConfig(1))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for range b.N {
		f.Tick()
	}
}

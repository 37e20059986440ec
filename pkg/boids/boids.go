// Package boids holds the flock population: a fixed-size, contiguous set of boids
// confined to a cube of half-extent h centered at the origin.
//
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// The name "boid" corresponds to a shortened version of "bird-oid object".
// https://en.wikipedia.org/wiki/Boids
package boids

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/geometry"
)

// DefaultInitialSpeed scales the random unit velocity given to every boid at startup.
const DefaultInitialSpeed = 0.3

var (
	// ErrInvalidArgument is returned when a set is built with a negative count or a
	// non-positive world half-extent.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfBounds is returned on index access outside [0, Len()).
	ErrOutOfBounds = errors.New("index out of bounds")
)

// Boid is a single agent. It has no identity beyond its index in the Set.
type Boid struct {
	Position geometry.Vector3 `json:"position"`
	Velocity geometry.Vector3 `json:"velocity"`
}

// Set owns every boid of the simulation in one contiguous slice.
// The population is fixed once the set is built: there is no insertion or removal.
type Set struct {
	boids      []Boid
	halfExtent float32
}

// NewRand returns a deterministic generator for Initialize.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Initialize builds count boids at uniformly random positions inside
// [-worldHalfExtent, worldHalfExtent]³, each moving along a random direction of the
// unit sphere at DefaultInitialSpeed.
func Initialize(count int, worldHalfExtent float32, rng *rand.Rand) (*Set, error) {
	return InitializeWithSpeed(count, worldHalfExtent, DefaultInitialSpeed, rng)
}

// InitializeWithSpeed is Initialize with an explicit initial speed factor.
func InitializeWithSpeed(count int, worldHalfExtent, speed float32, rng *rand.Rand) (*Set, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: boid count must not be negative, got %d", ErrInvalidArgument, count)
	}
	if err := checkExtent(worldHalfExtent); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalidArgument)
	}

	s := &Set{
		boids:      make([]Boid, count),
		halfExtent: worldHalfExtent,
	}
	for i := range s.boids {
		s.boids[i] = Boid{
			Position: geometry.Vector3{
				X: randomIn(rng, -worldHalfExtent, worldHalfExtent),
				Y: randomIn(rng, -worldHalfExtent, worldHalfExtent),
				Z: randomIn(rng, -worldHalfExtent, worldHalfExtent),
			},
			Velocity: randomUnit(rng).Mul(speed),
		}
	}
	return s, nil
}

// New builds a set from a fixed layout. The slice is copied.
func New(layout []Boid, worldHalfExtent float32) (*Set, error) {
	if err := checkExtent(worldHalfExtent); err != nil {
		return nil, err
	}
	s := &Set{
		boids:      make([]Boid, len(layout)),
		halfExtent: worldHalfExtent,
	}
	copy(s.boids, layout)
	return s, nil
}

func checkExtent(h float32) error {
	if !(h > 0) || math.IsInf(float64(h), 0) {
		return fmt.Errorf("%w: world half-extent must be a positive number, got %v", ErrInvalidArgument, h)
	}
	return nil
}

// randomIn returns a uniform value in [min, max].
func randomIn(rng *rand.Rand, min, max float32) float32 {
	return rng.Float32()*(max-min) + min
}

// randomUnit samples the unit sphere uniformly: azimuth in [0, 2π), z in [-1, 1].
func randomUnit(rng *rand.Rand) geometry.Vector3 {
	azimuth := rng.Float32() * 2 * math.Pi
	z := rng.Float32()*2 - 1
	return geometry.NewVectorSpherical(azimuth, z)
}

// Len returns the population size.
func (s *Set) Len() int {
	return len(s.boids)
}

// WorldHalfExtent returns h, the world being the cube [-h, h]³.
func (s *Set) WorldHalfExtent() float32 {
	return s.halfExtent
}

// At returns a copy of boid i.
func (s *Set) At(i int) (Boid, error) {
	if i < 0 || i >= len(s.boids) {
		return Boid{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfBounds, i, len(s.boids))
	}
	return s.boids[i], nil
}

// Set overwrites boid i.
func (s *Set) Set(i int, b Boid) error {
	if i < 0 || i >= len(s.boids) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfBounds, i, len(s.boids))
	}
	s.boids[i] = b
	return nil
}

// Boids exposes the backing slice. The flocking engine mutates it in place;
// renderers must only read it, and only between two steps.
func (s *Set) Boids() []Boid {
	return s.boids
}

// Snapshot copies the boids into dst, growing it only when its capacity is too small,
// and returns the filled slice.
func (s *Set) Snapshot(dst []Boid) []Boid {
	if cap(dst) < len(s.boids) {
		dst = make([]Boid, len(s.boids))
	}
	dst = dst[:len(s.boids)]
	copy(dst, s.boids)
	return dst
}

// Fingerprint hashes the exact bit pattern of every position and velocity, in index order.
// Two sets have the same fingerprint only if their trajectories are bit-identical.
func (s *Set) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [24]byte
	for _, b := range s.boids {
		putVector(buf[:12], b.Position)
		putVector(buf[12:], b.Velocity)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

func putVector(buf []byte, v geometry.Vector3) {
	for i, c := range [3]float32{v.X, v.Y, v.Z} {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(c))
	}
}

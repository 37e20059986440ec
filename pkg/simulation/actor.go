package simulation

import (
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Keys of the *structpb.Struct accepted by FlockActor as a live update.
const (
	KeyViewRadius        = "viewRadius"
	KeySeparationRadius  = "separationRadius"
	KeyMaxSteeringForce  = "maxSteeringForce"
	KeyMaxSpeed          = "maxSpeed"
	KeyBoundaryThreshold = "boundaryThreshold"
	KeyReverseSpeed      = "reverseSpeed"
	KeyBoundaryPolicy    = "boundaryPolicy"
)

// FlockActor is the single writer of the simulation state.
//
//   - *emptypb.Empty runs one tick and offers a snapshot to the UI channel
//   - *wrapperspb.UInt64Value runs that many ticks and responds with the tick count
//   - *structpb.Struct updates the tunables (see the Key constants)
type FlockActor struct {
	cfg        *Config
	flock      *Flock
	snapshotCh chan<- *WorldSnapshot

	// --- Benchmark Stats ---
	ticksSinceLog int
	skippedFrames int
	lastLogTime   time.Time
}

var _ actor.Actor = (*FlockActor)(nil)

// NewFlockActor creates the simulation actor. snapshotCh may be nil for a headless flock.
func NewFlockActor(cfg *Config, snapshotCh chan<- *WorldSnapshot) *FlockActor {
	return &FlockActor{
		cfg:         cfg,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (a *FlockActor) PreStart(ctx *actor.Context) error {
	f, err := NewFlock(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to create flock: %w", err)
	}
	a.flock = f
	return nil
}

func (a *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("Flock started: %d boids, seed %d, %s boundary",
			a.flock.Len(), a.flock.Seed(), a.flock.Params().Boundary)

	case *emptypb.Empty:
		a.flock.Tick()
		a.ticksSinceLog++
		a.logBenchmarks(ctx)
		a.pushSnapshot()

	case *wrapperspb.UInt64Value:
		n := a.flock.Advance(msg.GetValue())
		ctx.Response(wrapperspb.UInt64(n))

	case *structpb.Struct:
		u, err := UpdateFromStruct(msg)
		if err == nil {
			err = a.flock.Apply(u)
		}
		if err != nil {
			ctx.Logger().Warnf("update rejected: %v", err)
		}

	default:
		ctx.Unhandled()
	}
}

func (a *FlockActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Flock stopped after %d ticks", a.flock.Ticks())
	return nil
}

func (a *FlockActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(a.lastLogTime) >= time.Second {
		ctx.Logger().Debugf("📊 TICK RATE: %d/sec | Skipped frames: %d | Boids: %d",
			a.ticksSinceLog, a.skippedFrames, a.flock.Len())
		a.ticksSinceLog = 0
		a.skippedFrames = 0
		a.lastLogTime = time.Now()
	}
}

func (a *FlockActor) pushSnapshot() {
	if a.snapshotCh == nil {
		return
	}
	select {
	case a.snapshotCh <- a.flock.Snapshot():
	default:
		// UI busy, skip frame
		a.skippedFrames++
	}
}

// TunableStruct encodes params as the update message understood by FlockActor.
func TunableStruct(p flock.Params) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		KeyViewRadius:        float64(p.ViewRadius),
		KeySeparationRadius:  float64(p.SeparationRadius),
		KeyMaxSteeringForce:  float64(p.MaxSteeringForce),
		KeyMaxSpeed:          float64(p.MaxSpeed),
		KeyBoundaryThreshold: float64(p.BoundaryThreshold),
		KeyReverseSpeed:      float64(p.ReverseSpeed),
		KeyBoundaryPolicy:    p.Boundary.String(),
	})
}

// UpdateFromStruct decodes an update message. Unknown keys and values of the wrong
// kind are errors, missing keys are left unchanged.
func UpdateFromStruct(s *structpb.Struct) (TunableUpdate, error) {
	var u TunableUpdate
	for key, v := range s.GetFields() {
		if key == KeyBoundaryPolicy {
			sv, ok := v.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return TunableUpdate{}, fmt.Errorf("%w: %s must be a string", flock.ErrInvalidParams, key)
			}
			policy, err := flock.ParseBoundaryPolicy(sv.StringValue)
			if err != nil {
				return TunableUpdate{}, err
			}
			u.BoundaryPolicy = &policy
			continue
		}

		nv, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return TunableUpdate{}, fmt.Errorf("%w: %s must be a number", flock.ErrInvalidParams, key)
		}
		f := float32(nv.NumberValue)
		switch key {
		case KeyViewRadius:
			u.ViewRadius = &f
		case KeySeparationRadius:
			u.SeparationRadius = &f
		case KeyMaxSteeringForce:
			u.MaxSteeringForce = &f
		case KeyMaxSpeed:
			u.MaxSpeed = &f
		case KeyBoundaryThreshold:
			u.BoundaryThreshold = &f
		case KeyReverseSpeed:
			u.ReverseSpeed = &f
		default:
			return TunableUpdate{}, fmt.Errorf("%w: unknown tunable %q", flock.ErrInvalidParams, key)
		}
	}
	return u, nil
}

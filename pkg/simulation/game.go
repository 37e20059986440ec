package simulation

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-3d/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	cameraMoveSpeed   = 2.0
	cameraTurnSpeed   = 0.02
	mouseSensitivity  = 0.005
	boidScreenSize    = 600.0 // pixel size of a boid at depth 1, before clamping
	maxBatchVertices  = 3 * 10000
	panelWidth        = 280.0
	snapshotQueueSize = 10
)

var whiteImage = ebiten.NewImage(3, 3)

func init() {
	whiteImage.Fill(color.White)
}

type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	flockPID   *actor.PID
	snapshotCh chan *WorldSnapshot
	lastState  *WorldSnapshot

	camera *Camera
	paused bool

	// UI Controls
	panel       *ui.UIPanel
	pauseButton *ui.Button

	// Widget references for easy access
	widgetViewRadius        *ui.Slider
	widgetSeparationRadius  *ui.Slider
	widgetMaxSteeringForce  *ui.Slider
	widgetMaxSpeed          *ui.Slider
	widgetBoundaryThreshold *ui.Slider
	widgetReverseSpeed      *ui.Slider
	widgetBoundaryPolicy    *ui.Selector
	widgetDisplayCube       *ui.Checkbox
	widgetDisplayPanel      *ui.Checkbox

	cfg *Config

	// mouse drag state for camera rotation
	dragging     bool
	lastCursorX  int
	lastCursorY  int
	vertices     []ebiten.Vertex
	indices      []uint16
	updateErrors int

	// Timing instrumentation
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
	updateAvg          float64 // Rolling average in ms
	drawAvg            float64 // Rolling average in ms
}

// NewGame spawns the FlockActor in system and builds the viewer around it.
func NewGame(ctx context.Context, cfg *Config, system actor.ActorSystem) (*Game, error) {
	params, err := cfg.EngineParams()
	if err != nil {
		return nil, err
	}

	// 1. Create Channels for communication
	snapshotCh := make(chan *WorldSnapshot, snapshotQueueSize) // Buffer to avoid blocking

	// 2. Spawn Flock Actor
	// The actor pushes a snapshot on the channel after every tick.
	flockPID, err := system.Spawn(ctx, "flock", NewFlockActor(cfg, snapshotCh))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn flock: %w", err)
	}

	// 3. Initialize UI Panel with the live tunables
	panel := ui.NewUIPanel(10, 10, panelWidth, float64(cfg.ScreenHeight)-60)

	panel.AddSection("Neighborhood")
	widgetViewRadius := panel.AddSlider("View Radius", 1, 50, float64(params.ViewRadius))
	widgetSeparationRadius := panel.AddSlider("Separation Radius", 1, 50, float64(params.SeparationRadius))
	panel.EndSection()

	panel.AddSection("Physics")
	widgetMaxSteeringForce := panel.AddSlider("Max Steering Force", 0.01, 1, float64(params.MaxSteeringForce))
	widgetMaxSpeed := panel.AddSlider("Max Speed", 0.1, 10, float64(params.MaxSpeed))
	panel.EndSection()

	panel.AddSection("Boundary")
	policies := []string{flock.Wrap.String(), flock.ReverseOnSpeed.String(), flock.SoftRepulsion.String()}
	widgetBoundaryPolicy := panel.AddSelector("Policy", policies, int(params.Boundary))
	widgetBoundaryThreshold := panel.AddSlider("Repulsion Band", 0, float64(cfg.WorldHalfExtent), float64(params.BoundaryThreshold))
	widgetReverseSpeed := panel.AddSlider("Reverse Speed", 0, 10, float64(params.ReverseSpeed))
	panel.EndSection()

	panel.AddSection("Visualization")
	widgetDisplayCube := panel.AddCheckbox("Show World Cube", true)
	widgetDisplayPanel := panel.AddCheckbox("Show Panel (Tab)", true)
	panel.EndSection()

	g := &Game{
		ctx:                     ctx,
		System:                  system,
		flockPID:                flockPID,
		snapshotCh:              snapshotCh,
		lastState:               &WorldSnapshot{HalfExtent: cfg.WorldHalfExtent}, // Avoid nil pointer
		camera:                  NewCamera(),
		panel:                   panel,
		widgetViewRadius:        widgetViewRadius,
		widgetSeparationRadius:  widgetSeparationRadius,
		widgetMaxSteeringForce:  widgetMaxSteeringForce,
		widgetMaxSpeed:          widgetMaxSpeed,
		widgetBoundaryThreshold: widgetBoundaryThreshold,
		widgetReverseSpeed:      widgetReverseSpeed,
		widgetBoundaryPolicy:    widgetBoundaryPolicy,
		widgetDisplayCube:       widgetDisplayCube,
		widgetDisplayPanel:      widgetDisplayPanel,
		cfg:                     cfg,
	}
	g.pauseButton = ui.NewButton(10, float64(cfg.ScreenHeight)-40, 120, 30, "Pause", g.togglePause)
	return g, nil
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if g.paused {
		g.pauseButton.Label = "Resume"
	} else {
		g.pauseButton.Label = "Pause"
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.lastUpdateDuration = time.Since(start)
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(g.lastUpdateDuration.Microseconds())/1000.0*0.05
	}()

	// 1. Update UI
	if g.widgetDisplayPanel.Value {
		g.panel.Update()
	}
	g.pauseButton.Update()
	g.handleKeys()

	// 2. Retrieve Latest State (Non-blocking)
	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
		// Use previous state if new one isn't ready
	}

	// 3. Send the tunables edited this frame
	if fields := g.changedTunables(); len(fields) > 0 {
		if err := g.sendTunables(fields); err != nil {
			g.updateErrors++
		}
	}

	// 4. Trigger Simulation Step
	if !g.paused {
		if err := actor.Tell(g.ctx, g.flockPID, &emptypb.Empty{}); err != nil {
			return fmt.Errorf("failed to tick flock: %w", err)
		}
	}
	return nil
}

// changedTunables returns the widgets edited since the previous call, keyed as
// UpdateFromStruct expects. Untouched tunables are left out.
func (g *Game) changedTunables() map[string]interface{} {
	fields := map[string]interface{}{}
	for _, t := range []struct {
		key    string
		slider *ui.Slider
	}{
		{KeyViewRadius, g.widgetViewRadius},
		{KeySeparationRadius, g.widgetSeparationRadius},
		{KeyMaxSteeringForce, g.widgetMaxSteeringForce},
		{KeyMaxSpeed, g.widgetMaxSpeed},
		{KeyBoundaryThreshold, g.widgetBoundaryThreshold},
		{KeyReverseSpeed, g.widgetReverseSpeed},
	} {
		if t.slider.Changed() {
			fields[t.key] = t.slider.Value
		}
	}
	if g.widgetBoundaryPolicy.Changed() {
		fields[KeyBoundaryPolicy] = g.widgetBoundaryPolicy.Value()
	}
	return fields
}

func (g *Game) sendTunables(fields map[string]interface{}) error {
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return err
	}
	return actor.Tell(g.ctx, g.flockPID, msg)
}

// handleKeys moves the camera: W/S forward, A/D sideways, E/Q up and down,
// arrows or right mouse drag to look around. R resets the camera, Space pauses.
func (g *Game) handleKeys() {
	axis := func(pos, neg ebiten.Key) float32 {
		var v float32
		if ebiten.IsKeyPressed(pos) {
			v++
		}
		if ebiten.IsKeyPressed(neg) {
			v--
		}
		return v
	}
	g.camera.Move(
		axis(ebiten.KeyW, ebiten.KeyS)*cameraMoveSpeed,
		axis(ebiten.KeyD, ebiten.KeyA)*cameraMoveSpeed,
		axis(ebiten.KeyE, ebiten.KeyQ)*cameraMoveSpeed,
	)
	g.camera.Rotate(
		axis(ebiten.KeyArrowRight, ebiten.KeyArrowLeft)*cameraTurnSpeed,
		axis(ebiten.KeyArrowUp, ebiten.KeyArrowDown)*cameraTurnSpeed,
	)

	mx, my := ebiten.CursorPosition()
	overPanel := g.widgetDisplayPanel.Value && g.panel.Contains(float64(mx), float64(my))
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) && !overPanel {
		if g.dragging {
			g.camera.Rotate(float32(mx-g.lastCursorX)*mouseSensitivity, -float32(my-g.lastCursorY)*mouseSensitivity)
		}
		g.dragging = true
	} else {
		g.dragging = false
	}
	g.lastCursorX, g.lastCursorY = mx, my

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.camera = NewCamera()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.widgetDisplayPanel.Value = !g.widgetDisplayPanel.Value
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePause()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.lastDrawDuration = time.Since(start)
		g.drawAvg = g.drawAvg*0.95 + float64(g.lastDrawDuration.Microseconds())/1000.0*0.05
	}()

	screen.Fill(color.RGBA{R: 10, G: 10, B: 30, A: 255})
	proj := g.camera.Projection(g.cfg.ScreenWidth, g.cfg.ScreenHeight)

	// 1. World bounds
	if g.widgetDisplayCube.Value {
		drawCube(screen, proj, g.lastState.HalfExtent)
	}

	// 2. Draw all boids from the last known snapshot
	g.drawBoids(screen, proj)

	// 3. Draw UI
	if g.widgetDisplayPanel.Value {
		g.panel.Draw(screen)
	}
	g.pauseButton.Draw(screen)

	// Display performance stats on the right side to avoid overlap with panel
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nTick:   %d\nBoids:  %d\nUpdate: %.2fms\nDraw:   %.2fms\nErrors: %d",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.lastState.Tick,
		len(g.lastState.Boids),
		g.updateAvg,
		g.drawAvg,
		g.updateErrors)
	ebitenutil.DebugPrintAt(screen, msg, g.cfg.ScreenWidth-150, 10)
}

// drawBoids renders every boid as a triangle pointing along its projected velocity,
// tinted by heading. Triangles are batched into as few DrawTriangles calls as possible.
func (g *Game) drawBoids(screen *ebiten.Image, proj Projection) {
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]
	flush := func() {
		if len(g.indices) > 0 {
			screen.DrawTriangles(g.vertices, g.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
		}
		g.vertices = g.vertices[:0]
		g.indices = g.indices[:0]
	}

	for _, b := range g.lastState.Boids {
		x, y, depth, ok := proj.Project(b.Position)
		if !ok {
			continue
		}
		angle := float32(0)
		if tx, ty, _, ok := proj.Project(b.Position.Add(b.Velocity.Normalize())); ok {
			angle = float32(math.Atan2(float64(ty-y), float64(tx-x)))
		}
		size := min(max(boidScreenSize/depth, 2), 12)
		r, gr, bl := headingColor(b.Velocity.Yaw())

		base := uint16(len(g.vertices))
		for _, v := range boidTriangle(x, y, angle, size) {
			g.vertices = append(g.vertices, ebiten.Vertex{
				DstX: v[0], DstY: v[1],
				SrcX: 1, SrcY: 1,
				ColorR: r, ColorG: gr, ColorB: bl, ColorA: 1,
			})
		}
		g.indices = append(g.indices, base, base+1, base+2)

		if len(g.vertices) >= maxBatchVertices {
			flush()
		}
	}
	flush()
}

// boidTriangle returns the tip, right and left corners of a boid marker centered on x, y.
func boidTriangle(x, y, angle, size float32) [3][2]float32 {
	corner := func(a, r float32) [2]float32 {
		s, c := math.Sincos(float64(a))
		return [2]float32{x + float32(c)*r, y + float32(s)*r}
	}
	return [3][2]float32{
		corner(angle, size),
		corner(angle+2.5, size*0.8),
		corner(angle-2.5, size*0.8),
	}
}

// headingColor maps a heading angle to a color wheel, so that aligned boids share a tint.
func headingColor(yaw float32) (r, g, b float32) {
	const third = 2 * math.Pi / 3
	y := float64(yaw)
	return float32(0.5 + 0.5*math.Cos(y)),
		float32(0.5 + 0.5*math.Cos(y-third)),
		float32(0.5 + 0.5*math.Cos(y+third))
}

// cubeEdges lists the 12 edges of the cube [-h, h]³.
func cubeEdges(h float32) [12][2]geometry.Vector3 {
	corner := func(i int) geometry.Vector3 {
		c := geometry.Vector3{X: -h, Y: -h, Z: -h}
		if i&1 != 0 {
			c.X = h
		}
		if i&2 != 0 {
			c.Y = h
		}
		if i&4 != 0 {
			c.Z = h
		}
		return c
	}
	var edges [12][2]geometry.Vector3
	n := 0
	for i := range 8 {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				edges[n] = [2]geometry.Vector3{corner(i), corner(i | bit)}
				n++
			}
		}
	}
	return edges
}

func drawCube(screen *ebiten.Image, proj Projection, h float32) {
	clr := color.RGBA{R: 120, G: 120, B: 140, A: 255}
	for _, e := range cubeEdges(h) {
		x0, y0, _, ok0 := proj.Project(e[0])
		x1, y1, _, ok1 := proj.Project(e[1])
		if ok0 && ok1 {
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, true)
		}
	}
}

func (g *Game) Layout(w, h int) (int, int) { return g.cfg.ScreenWidth, g.cfg.ScreenHeight }

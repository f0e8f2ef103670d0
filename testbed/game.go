package testbed

import (
	"github.com/spaghettifunk/prelight/engine"
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/scene"
)

const (
	cameraSpeed    float32 = 8
	cameraTurnRate float32 = 1.5
	mouseLookRate  float32 = 0.003
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	world *engine.World

	width  uint32
	height uint32

	spinning []*scene.Node
	orbiting []*scene.Node
	elapsed  float32
}

func NewTestGame() *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				StartPosX:          100,
				StartPosY:          100,
				StartWidth:         1280,
				StartHeight:        720,
				Name:               "prelight testbed",
				LogLevel:           core.DebugLevel,
				PipelineConfigPath: engine.DEFAULT_PIPELINE_CONFIG_PATH,
				TargetFPS:          60,
			},
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize(world *engine.World) error {
	core.LogInfo("initializing testbed...")
	state := g.state()
	state.world = world

	world.Camera.SetPosition(math.NewVec3(0, 5, 16))
	world.Camera.SetEulerRotation(math.NewVec3(-0.3, 0, 0))

	b := &sceneBuilder{world: world}
	b.build(state)
	if b.err != nil {
		return b.err
	}
	core.LogInfo("testbed scene ready: %d nodes", len(world.Scene.Nodes()))
	core.LogInfo("F1 mesh bounds, F2 light bounds, F3 custom bounds, F4 cascaded shadows")
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	dt := float32(deltaTime)
	state.elapsed += dt

	camera := state.world.Camera
	speed := cameraSpeed * dt
	if core.InputIsKeyDown(core.KEY_LSHIFT) {
		speed *= 3
	}
	if core.InputIsKeyDown(core.KEY_W) {
		camera.MoveForward(speed)
	}
	if core.InputIsKeyDown(core.KEY_S) {
		camera.MoveForward(-speed)
	}
	if core.InputIsKeyDown(core.KEY_D) {
		camera.MoveRight(speed)
	}
	if core.InputIsKeyDown(core.KEY_A) {
		camera.MoveRight(-speed)
	}
	if core.InputIsKeyDown(core.KEY_E) {
		camera.MoveUp(speed)
	}
	if core.InputIsKeyDown(core.KEY_Q) {
		camera.MoveUp(-speed)
	}
	turn := cameraTurnRate * dt
	if core.InputIsKeyDown(core.KEY_LEFT) {
		camera.Yaw(turn)
	}
	if core.InputIsKeyDown(core.KEY_RIGHT) {
		camera.Yaw(-turn)
	}
	if core.InputIsKeyDown(core.KEY_UP) {
		camera.Pitch(turn)
	}
	if core.InputIsKeyDown(core.KEY_DOWN) {
		camera.Pitch(-turn)
	}
	// hold the right button to look around
	if core.InputIsButtonDown(core.BUTTON_RIGHT) {
		dx, dy := core.InputGetMouseDelta()
		camera.Yaw(-float32(dx) * mouseLookRate)
		camera.Pitch(-float32(dy) * mouseLookRate)
	}
	if core.InputKeyPressed(core.KEY_R) {
		camera.SetPosition(math.NewVec3(0, 5, 16))
		camera.SetEulerRotation(math.NewVec3(-0.3, 0, 0))
	}

	spin := math.NewQuatFromAxisAngle(math.NewVec3Up(), 0.5*dt, false)
	for _, n := range state.spinning {
		n.Transform.Rotate(spin)
	}
	for i, n := range state.orbiting {
		phase := state.elapsed*0.6 + float32(i)*math.K_PI
		n.Transform.SetPosition(math.NewVec3(6*math.Cos(phase), 2, 6*math.Sin(phase)))
	}
	return nil
}

func (g *TestGame) Render(packet *renderer.RenderPacket, deltaTime float64) error {
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed...")
	return nil
}

// sceneBuilder stops at the first error, later calls become no-ops.
type sceneBuilder struct {
	world *engine.World
	err   error
}

func (b *sceneBuilder) mesh(m *metadata.Mesh) *metadata.Mesh {
	if b.err != nil {
		return nil
	}
	b.err = b.world.Systems.MeshSystem.Register(m)
	return m
}

func (b *sceneBuilder) material(name string, colour math.Vec4, transparent bool) *metadata.Material {
	if b.err != nil {
		return nil
	}
	m, err := b.world.Systems.MaterialSystem.Create(name)
	if err != nil {
		b.err = err
		return nil
	}
	m.DiffuseColour = colour
	m.Transparent = transparent
	return m
}

func (b *sceneBuilder) unit(name string, position math.Vec3, mesh *metadata.Mesh, materials ...*metadata.Material) *scene.Node {
	n := scene.NewNode(name)
	n.Transform.SetPosition(position)
	n.MeshRenderer = &scene.MeshRenderer{Mesh: mesh, Materials: materials}
	b.world.Scene.AddNode(n, nil)
	return n
}

func (b *sceneBuilder) light(name string, position math.Vec3, rotation math.Quaternion, light *metadata.Light) *scene.Node {
	n := scene.NewNode(name)
	n.Transform.SetPositionRotationScale(position, rotation, math.NewVec3One())
	n.Light = light
	b.world.Scene.AddNode(n, nil)
	return n
}

func (b *sceneBuilder) builtin(name string) *metadata.Mesh {
	if b.err != nil {
		return nil
	}
	m, err := b.world.Systems.MeshSystem.Get(name)
	b.err = err
	return m
}

func (b *sceneBuilder) build(state *gameState) {
	cube := b.mesh(newBoxMesh("cube", math.NewVec3One()))
	crate := b.mesh(newSplitBoxMesh("crate", math.NewVec3(1.5, 1.5, 1.5)))
	floor := b.mesh(newBoxMesh("floor", math.NewVec3(40, 0.2, 40)))
	const spotRadius, spotAngle = float32(14), float32(0.9)
	cone := b.mesh(newSpotConeMesh("spot_cone", spotRadius, spotAngle))
	quad := b.builtin(metadata.BUILTIN_MESH_QUAD)
	sphere := b.builtin(metadata.BUILTIN_MESH_SPHERE)

	white := b.material("white", math.NewVec4(0.9, 0.9, 0.9, 1), false)
	red := b.material("red", math.NewVec4(0.8, 0.15, 0.1, 1), false)
	blue := b.material("blue", math.NewVec4(0.1, 0.3, 0.8, 1), false)
	glass := b.material("glass", math.NewVec4(0.4, 0.8, 0.9, 0.35), true)
	if b.err != nil {
		return
	}

	b.unit("floor", math.NewVec3(0, -0.1, 0), floor, white)
	for i, x := range []float32{-4, 0, 4} {
		mat := red
		if i == 1 {
			mat = blue
		}
		n := b.unit("cube", math.NewVec3(x, 1, 0), cube, mat)
		n.Transform.SetScale(math.NewVec3(1.5, 2, 1.5))
		state.spinning = append(state.spinning, n)
	}
	c := b.unit("crate", math.NewVec3(0, 0.75, -5), crate, red, white)
	custom := math.NewExtents3D(math.NewVec3(-1.5, -0.75, -1.5), math.NewVec3(1.5, 2, 1.5))
	c.CustomBounds = &custom
	for i, z := range []float32{3, 5} {
		n := b.unit("glass", math.NewVec3(float32(i*2)-1, 1, z), cube, glass)
		state.spinning = append(state.spinning, n)
	}

	sunTilt := math.NewQuatFromAxisAngle(math.NewVec3(1, 0, 0.4), 0.7, true)
	b.light("sun", math.NewVec3Zero(), sunTilt, &metadata.Light{
		Type:        metadata.LIGHT_TYPE_DIRECTIONAL,
		CastShadows: true,
		Mesh:        quad,
		Colour:      math.NewVec4(1, 0.95, 0.85, 1),
		Intensity:   0.8,
	})
	for i, colour := range []math.Vec4{math.NewVec4(1, 0.4, 0.2, 1), math.NewVec4(0.2, 0.5, 1, 1)} {
		n := b.light([]string{"orbiter_warm", "orbiter_cool"}[i], math.NewVec3(0, 2, 0), math.NewQuatIdentity(), &metadata.Light{
			Type:        metadata.LIGHT_TYPE_POINT,
			Radius:      7,
			CastShadows: i == 0,
			Mesh:        sphere,
			Colour:      colour,
			Intensity:   2,
		})
		state.orbiting = append(state.orbiting, n)
	}
	b.light("spot", math.NewVec3(-6, 8, -4), math.NewQuatFromAxisAngle(math.NewVec3(1, 0, -1), 0.5, true), &metadata.Light{
		Type:        metadata.LIGHT_TYPE_SPOT,
		Radius:      spotRadius,
		OuterAngle:  spotAngle,
		CastShadows: true,
		Mesh:        cone,
		Colour:      math.NewVec4(1, 1, 0.8, 1),
		Intensity:   3,
	})
}

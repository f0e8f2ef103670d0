package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/components"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/scene"
	"github.com/stretchr/testify/require"
)

type drawCall struct {
	topology   metadata.PrimitiveTopology
	indexCount uint32
}

// recordingBackend keeps an ordered log of every state change.
type recordingBackend struct {
	events      []string
	draws       []drawCall
	failTargets bool
}

func (b *recordingBackend) log(format string, args ...interface{}) {
	b.events = append(b.events, fmt.Sprintf(format, args...))
}

func (b *recordingBackend) RenderPassBegin(pass *metadata.Pass, clear bool) {
	b.log("begin %s clear=%t", pass.Name, clear)
}

func (b *recordingBackend) RenderPassEnd(pass *metadata.Pass) {
	b.log("end %s", pass.Name)
}

func (b *recordingBackend) SetDepthTest(enabled bool) {
	b.log("depth %t", enabled)
}

func (b *recordingBackend) SetCullFace(face metadata.CullFace) {
	if face == metadata.CULL_FACE_FRONT {
		b.log("cull front")
		return
	}
	b.log("cull back")
}

func (b *recordingBackend) SetFramebufferSRGB(enabled bool) {
	b.log("srgb %t", enabled)
}

func (b *recordingBackend) DrawIndexed(topology metadata.PrimitiveTopology, indexCount uint32) {
	b.draws = append(b.draws, drawCall{topology, indexCount})
	b.log("draw %s %d", topology, indexCount)
}

func (b *recordingBackend) RenderTargetBegin(texture *metadata.Texture, layer uint32) error {
	if b.failTargets {
		return fmt.Errorf("framebuffer incomplete")
	}
	b.log("target %s layer %d", texture.Name, layer)
	return nil
}

func (b *recordingBackend) RenderTargetEnd(texture *metadata.Texture) {
	b.log("target end %s", texture.Name)
}

func (b *recordingBackend) count(event string) int {
	n := 0
	for _, e := range b.events {
		if e == event {
			n++
		}
	}
	return n
}

func (b *recordingBackend) indexOf(event string) int {
	for i, e := range b.events {
		if e == event {
			return i
		}
	}
	return -1
}

// instrumentedShader counts binds so tests can check redundant state changes.
type instrumentedShader struct {
	name      string
	binds     int
	unbinds   int
	cameras   int
	materials []*metadata.Material
	meshes    []*metadata.Mesh
	subMeshes []int
	worlds    []math.Mat4
	matrices  map[string][]math.Mat4
	arrays    map[string][]math.Mat4
	textures  map[string]*metadata.Texture
	floats    map[string][]float32
	lights    []*metadata.Light
}

func newShader(name string) *instrumentedShader {
	return &instrumentedShader{
		name:     name,
		matrices: make(map[string][]math.Mat4),
		arrays:   make(map[string][]math.Mat4),
		textures: make(map[string]*metadata.Texture),
		floats:   make(map[string][]float32),
	}
}

func (s *instrumentedShader) Name() string { return s.name }
func (s *instrumentedShader) Bind()        { s.binds++ }
func (s *instrumentedShader) UnBind()      { s.unbinds++ }

func (s *instrumentedShader) BindCamera(camera *components.Camera) {
	s.cameras++
}

func (s *instrumentedShader) BindMatrix(name string, matrix math.Mat4) {
	if name == metadata.UNIFORM_WORLD_MATRIX {
		s.worlds = append(s.worlds, matrix)
		return
	}
	s.matrices[name] = append(s.matrices[name], matrix)
}

func (s *instrumentedShader) BindMatrices(name string, matrices []math.Mat4) {
	s.arrays[name] = append([]math.Mat4(nil), matrices...)
}

func (s *instrumentedShader) BindMaterial(material *metadata.Material) {
	s.materials = append(s.materials, material)
}

func (s *instrumentedShader) BindMesh(mesh *metadata.Mesh) {
	s.meshes = append(s.meshes, mesh)
}

func (s *instrumentedShader) BindSubMesh(mesh *metadata.Mesh, index int) {
	s.subMeshes = append(s.subMeshes, index)
}

func (s *instrumentedShader) BindTexture(name string, texture *metadata.Texture) {
	s.textures[name] = texture
}

func (s *instrumentedShader) BindLight(light *metadata.Light, world math.Mat4) {
	s.lights = append(s.lights, light)
}

func (s *instrumentedShader) BindFloat(name string, values ...float32) {
	s.floats[name] = append([]float32(nil), values...)
}

type shaderMap map[string]metadata.Shader

func (m shaderMap) GetShader(name string) (metadata.Shader, error) {
	sh, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("shader '%s': %w", name, core.ErrShaderNotFound)
	}
	return sh, nil
}

func (m shaderMap) add(names ...string) {
	for _, n := range names {
		m[n] = newShader(n)
	}
}

func (m shaderMap) get(name string) *instrumentedShader {
	return m[name].(*instrumentedShader)
}

// trackingPool records how many textures are out at once.
type trackingPool struct {
	mutex          sync.Mutex
	outstanding    int
	maxOutstanding int
	acquired       []*metadata.Texture
	collected      int
	exhausted      bool
}

func (p *trackingPool) Acquire(spec metadata.TextureSpec) (*metadata.Texture, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.exhausted {
		return nil, core.ErrTexturePoolExhausted
	}
	t := metadata.NewTexture(fmt.Sprintf("shadow%d", len(p.acquired)), spec)
	p.acquired = append(p.acquired, t)
	p.outstanding++
	p.maxOutstanding = max(p.maxOutstanding, p.outstanding)
	return t, nil
}

func (p *trackingPool) Collect(texture *metadata.Texture) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.outstanding--
	p.collected++
}

// captureLogs redirects the engine logger for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	core.SetLogOutput(&buf)
	t.Cleanup(func() {
		core.SetLogOutput(os.Stderr)
	})
	return &buf
}

type fixture struct {
	pipeline *Pipeline
	backend  *recordingBackend
	shaders  shaderMap
	pool     *trackingPool
	stats    *core.RenderStats
	scene    *scene.Manager
	camera   *components.Camera
}

// newFixture builds a pipeline with a camera at the origin looking down -Z, near 1 and far 101.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend: &recordingBackend{},
		shaders: shaderMap{},
		pool:    &trackingPool{},
		stats:   core.NewRenderStats(),
		scene:   scene.NewManager(),
		camera:  components.NewCamera("main"),
	}
	f.camera.SetPerspective(math.DegToRad(90), 1, 1, 101)
	p, err := NewPipeline(&PipelineOptions{
		Name:      "test",
		Backend:   f.backend,
		Shaders:   f.shaders,
		Pool:      f.pool,
		Telemetry: f.stats,
	})
	require.NoError(t, err)
	p.SetCamera(f.camera)
	f.pipeline = p
	return f
}

func (f *fixture) addPass(name string, mode metadata.DrawMode, index int, shaders ...string) *metadata.Pass {
	pass := metadata.NewPass(name, mode, index)
	for _, s := range shaders {
		if _, ok := f.shaders[s]; !ok {
			f.shaders.add(s)
		}
		pass.AddShader(f.shaders[s], metadata.MESH_KIND_STATIC, metadata.TEXTURE_FLAG_NONE)
	}
	f.pipeline.AddPass(pass)
	return pass
}

var nextMeshID uint32 = 100

func cubeMesh() *metadata.Mesh {
	nextMeshID++
	corners := math.NewExtents3D(math.NewVec3(-0.5, -0.5, -0.5), math.NewVec3(0.5, 0.5, 0.5)).Corners()
	indices := make([]uint32, 36)
	return metadata.NewMesh(nextMeshID, "cube", corners[:], indices)
}

func (f *fixture) addUnit(name string, position math.Vec3, mesh *metadata.Mesh, material *metadata.Material) *scene.Node {
	n := scene.NewNode(name)
	n.Transform.SetPosition(position)
	n.MeshRenderer = &scene.MeshRenderer{Mesh: mesh, Materials: []*metadata.Material{material}}
	f.scene.AddNode(n, nil)
	return n
}

func (f *fixture) addLight(name string, position math.Vec3, light *metadata.Light) *scene.Node {
	n := scene.NewNode(name)
	n.Transform.SetPosition(position)
	if light.Mesh == nil {
		light.Mesh = metadata.NewSphereMesh()
	}
	n.Light = light
	f.scene.AddNode(n, nil)
	return n
}

func math3(x, y, z float32) math.Vec3 {
	return math.NewVec3(x, y, z)
}

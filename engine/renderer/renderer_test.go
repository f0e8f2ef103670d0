package renderer

import (
	"fmt"
	"testing"

	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/renderer/components"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/renderer/pipeline"
	"github.com/spaghettifunk/prelight/engine/scene"
	"github.com/spaghettifunk/prelight/engine/systems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frameBackend logs frame brackets and passes, the rest is a no-op.
type frameBackend struct {
	calls     []string
	failBegin bool
}

func (b *frameBackend) Initialize(config *metadata.RendererBackendConfig) error {
	b.calls = append(b.calls, fmt.Sprintf("init %s %dx%d", config.ApplicationName, config.Width, config.Height))
	return nil
}
func (b *frameBackend) Shutdown() error { return nil }
func (b *frameBackend) Resized(width, height uint32) error {
	b.calls = append(b.calls, fmt.Sprintf("resize %dx%d", width, height))
	return nil
}
func (b *frameBackend) BeginFrame(deltaTime float64) error {
	if b.failBegin {
		return fmt.Errorf("device lost")
	}
	b.calls = append(b.calls, "begin frame")
	return nil
}
func (b *frameBackend) EndFrame(deltaTime float64) error {
	b.calls = append(b.calls, "end frame")
	return nil
}
func (b *frameBackend) RenderPassBegin(pass *metadata.Pass, clear bool) {
	b.calls = append(b.calls, "pass "+pass.Name)
}
func (b *frameBackend) RenderPassEnd(pass *metadata.Pass)                             {}
func (b *frameBackend) SetDepthTest(enabled bool)                                     {}
func (b *frameBackend) SetCullFace(face metadata.CullFace)                            {}
func (b *frameBackend) SetFramebufferSRGB(enabled bool)                               {}
func (b *frameBackend) DrawIndexed(topology metadata.PrimitiveTopology, count uint32) {}
func (b *frameBackend) RenderTargetBegin(texture *metadata.Texture, layer uint32) error {
	return nil
}
func (b *frameBackend) RenderTargetEnd(texture *metadata.Texture) {}
func (b *frameBackend) RenderTargetCreate(spec metadata.TextureSpec, name string) (*metadata.Texture, error) {
	return metadata.NewTexture(name, spec), nil
}
func (b *frameBackend) RenderTargetDestroy(texture *metadata.Texture) {}
func (b *frameBackend) PassTargetCreate(name string, attachments []*metadata.Texture) (*metadata.RenderTarget, error) {
	return &metadata.RenderTarget{Name: name, Attachments: attachments}, nil
}
func (b *frameBackend) PassTargetDestroy(target *metadata.RenderTarget) {}
func (b *frameBackend) MeshUpload(mesh *metadata.Mesh) error            { return nil }
func (b *frameBackend) MeshDestroy(mesh *metadata.Mesh)                 {}
func (b *frameBackend) ShaderCreate(name string, sources map[metadata.ShaderStage]string) (metadata.Shader, error) {
	return nil, fmt.Errorf("no compiler")
}
func (b *frameBackend) ShaderDestroy(shader metadata.Shader) {}

func newTestPipeline(t *testing.T, backend *frameBackend, camera *components.Camera) *pipeline.Pipeline {
	t.Helper()
	ss, err := systems.NewShaderSystem(&systems.ShaderSystemConfig{MaxShaderCount: 4}, backend)
	require.NoError(t, err)
	pool, err := systems.NewTexturePool(&systems.TexturePoolConfig{MaxTextures: 2}, backend)
	require.NoError(t, err)
	p, err := pipeline.NewPipeline(&pipeline.PipelineOptions{
		Name:    "test",
		Backend: backend,
		Shaders: ss,
		Pool:    pool,
	})
	require.NoError(t, err)
	p.AddPass(metadata.NewPass("gbuffer", metadata.DRAW_MODE_OPAQUE, 0))
	p.SetCamera(camera)
	return p
}

func TestDrawFrameBracketsPipeline(t *testing.T) {
	backend := &frameBackend{}
	r := NewRendererWithBackend(backend)
	require.NoError(t, r.Initialize("test", 320, 200))
	r.SetPipeline(newTestPipeline(t, backend, components.NewCamera("main")))

	require.NoError(t, r.DrawFrame(&RenderPacket{DeltaTime: 0.016, Scene: scene.NewManager()}))
	assert.Equal(t, []string{"init test 320x200", "begin frame", "pass gbuffer", "end frame"}, backend.calls)
}

func TestDrawFrameWithoutCameraStillEndsFrame(t *testing.T) {
	backend := &frameBackend{}
	r := NewRendererWithBackend(backend)
	r.SetPipeline(newTestPipeline(t, backend, nil))

	err := r.DrawFrame(&RenderPacket{Scene: scene.NewManager()})
	assert.ErrorIs(t, err, core.ErrCameraNotSet)
	assert.Equal(t, []string{"begin frame", "end frame"}, backend.calls)
}

func TestDrawFrameErrors(t *testing.T) {
	backend := &frameBackend{failBegin: true}
	r := NewRendererWithBackend(backend)
	assert.Error(t, r.DrawFrame(&RenderPacket{}))

	r.SetPipeline(newTestPipeline(t, backend, components.NewCamera("main")))
	assert.Error(t, r.DrawFrame(&RenderPacket{Scene: scene.NewManager()}))
	assert.Empty(t, backend.calls)
}

func TestNewRendererRejectsUnsupportedBackends(t *testing.T) {
	for _, rt := range []RendererType{Vulkan, DirectX, Metal} {
		_, err := NewRenderer(rt, nil)
		assert.Error(t, err, rt.String())
	}
}

package systems

import (
	"fmt"

	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/components"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

type stubShader struct {
	name    string
	sources map[metadata.ShaderStage]string
}

func (s *stubShader) Name() string                                   { return s.name }
func (s *stubShader) Bind()                                          {}
func (s *stubShader) UnBind()                                        {}
func (s *stubShader) BindCamera(camera *components.Camera)           {}
func (s *stubShader) BindMatrix(name string, matrix math.Mat4)       {}
func (s *stubShader) BindMatrices(name string, matrices []math.Mat4) {}
func (s *stubShader) BindMaterial(material *metadata.Material)       {}
func (s *stubShader) BindMesh(mesh *metadata.Mesh)                   {}
func (s *stubShader) BindSubMesh(mesh *metadata.Mesh, index int)     {}
func (s *stubShader) BindTexture(name string, texture *metadata.Texture) {
}
func (s *stubShader) BindLight(light *metadata.Light, world math.Mat4) {}
func (s *stubShader) BindFloat(name string, values ...float32)         {}

// stubBackend records what the systems ask of the renderer.
type stubBackend struct {
	created        []*metadata.Texture
	destroyed      []*metadata.Texture
	targets        []*metadata.RenderTarget
	targetsFreed   int
	uploaded       []*metadata.Mesh
	meshesFreed    int
	shadersFreed   []string
	failCreate     bool
	failCompile    bool
	compiledShader []string
}

func (b *stubBackend) RenderTargetCreate(spec metadata.TextureSpec, name string) (*metadata.Texture, error) {
	if b.failCreate {
		return nil, fmt.Errorf("out of video memory")
	}
	t := metadata.NewTexture(name, spec)
	b.created = append(b.created, t)
	return t, nil
}

func (b *stubBackend) RenderTargetDestroy(texture *metadata.Texture) {
	b.destroyed = append(b.destroyed, texture)
}

func (b *stubBackend) PassTargetCreate(name string, attachments []*metadata.Texture) (*metadata.RenderTarget, error) {
	t := &metadata.RenderTarget{Name: name, Attachments: attachments}
	b.targets = append(b.targets, t)
	return t, nil
}

func (b *stubBackend) PassTargetDestroy(target *metadata.RenderTarget) {
	b.targetsFreed++
}

func (b *stubBackend) MeshUpload(mesh *metadata.Mesh) error {
	b.uploaded = append(b.uploaded, mesh)
	return nil
}

func (b *stubBackend) MeshDestroy(mesh *metadata.Mesh) {
	b.meshesFreed++
}

func (b *stubBackend) ShaderCreate(name string, sources map[metadata.ShaderStage]string) (metadata.Shader, error) {
	if b.failCompile {
		return nil, fmt.Errorf("syntax error")
	}
	b.compiledShader = append(b.compiledShader, name)
	return &stubShader{name: name, sources: sources}, nil
}

func (b *stubBackend) ShaderDestroy(shader metadata.Shader) {
	b.shadersFreed = append(b.shadersFreed, shader.Name())
}

package metadata

import (
	"testing"

	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedShader string

func (s namedShader) Name() string                                   { return string(s) }
func (s namedShader) Bind()                                          {}
func (s namedShader) UnBind()                                        {}
func (s namedShader) BindCamera(camera *components.Camera)           {}
func (s namedShader) BindMatrix(name string, matrix math.Mat4)       {}
func (s namedShader) BindMatrices(name string, matrices []math.Mat4) {}
func (s namedShader) BindMaterial(material *Material)                {}
func (s namedShader) BindMesh(mesh *Mesh)                            {}
func (s namedShader) BindSubMesh(mesh *Mesh, index int)              {}
func (s namedShader) BindTexture(name string, texture *Texture)      {}
func (s namedShader) BindLight(light *Light, world math.Mat4)        {}
func (s namedShader) BindFloat(name string, values ...float32)       {}

func TestPassFirstShader(t *testing.T) {
	p := NewPass("gbuffer", DRAW_MODE_OPAQUE, 0)
	assert.Nil(t, p.FirstShader())

	p.AddShader(namedShader("a"), MESH_KIND_STATIC, TEXTURE_FLAG_NONE)
	p.AddShader(namedShader("b"), MESH_KIND_SKINNED, TEXTURE_FLAG_NONE)
	require.NotNil(t, p.FirstShader())
	assert.Equal(t, "a", p.FirstShader().Name())
}

func TestPassGetShaderVariants(t *testing.T) {
	p := NewPass("gbuffer", DRAW_MODE_OPAQUE, 0)
	p.AddShader(namedShader("static"), MESH_KIND_STATIC, TEXTURE_FLAG_NONE)
	p.AddShader(namedShader("static_diffuse"), MESH_KIND_STATIC, TEXTURE_FLAG_DIFFUSE)
	p.AddShader(namedShader("static_diffuse_normal"), MESH_KIND_STATIC, TEXTURE_FLAG_DIFFUSE|TEXTURE_FLAG_NORMAL)
	p.AddShader(namedShader("skinned"), MESH_KIND_SKINNED, TEXTURE_FLAG_NONE)

	cases := []struct {
		kind     MeshKind
		flags    TextureFlagBits
		expected string
	}{
		{MESH_KIND_STATIC, TEXTURE_FLAG_NONE, "static"},
		{MESH_KIND_STATIC, TEXTURE_FLAG_DIFFUSE, "static_diffuse"},
		{MESH_KIND_STATIC, TEXTURE_FLAG_DIFFUSE | TEXTURE_FLAG_NORMAL, "static_diffuse_normal"},
		{MESH_KIND_STATIC, TEXTURE_FLAG_DIFFUSE | TEXTURE_FLAG_SPECULAR, "static_diffuse"},
		{MESH_KIND_SKINNED, TEXTURE_FLAG_DIFFUSE, "skinned"},
	}
	for _, c := range cases {
		s := p.GetShader(c.kind, c.flags)
		require.NotNil(t, s)
		assert.Equal(t, c.expected, s.Name())
	}
}

func TestPassGetShaderNoMatch(t *testing.T) {
	p := NewPass("gbuffer", DRAW_MODE_OPAQUE, 0)
	p.AddShader(namedShader("static_normal"), MESH_KIND_STATIC, TEXTURE_FLAG_NORMAL)

	assert.Nil(t, p.GetShader(MESH_KIND_STATIC, TEXTURE_FLAG_DIFFUSE))
	assert.Nil(t, p.GetShader(MESH_KIND_SKINNED, TEXTURE_FLAG_NORMAL))
}

func TestParseDrawMode(t *testing.T) {
	for _, d := range []DrawMode{DRAW_MODE_OPAQUE, DRAW_MODE_TRANSPARENT, DRAW_MODE_QUAD, DRAW_MODE_LIGHT} {
		parsed, ok := ParseDrawMode(d.String())
		assert.True(t, ok)
		assert.Equal(t, d, parsed)
	}
	_, ok := ParseDrawMode("deferred")
	assert.False(t, ok)
}

func TestBuiltinMeshes(t *testing.T) {
	quad := NewQuadMesh()
	assert.Len(t, quad.Indices, 6)
	assert.Equal(t, PRIMITIVE_TOPOLOGY_TRIANGLES, quad.Topology)

	cube := NewLineCubeMesh()
	assert.Len(t, cube.Indices, 24)
	assert.Equal(t, PRIMITIVE_TOPOLOGY_LINES, cube.Topology)
	assert.InDelta(t, 1, cube.Bounds.Size().X(), 1e-6)

	sphere := NewSphereMesh()
	assert.Zero(t, len(sphere.Indices)%3)
	assert.InDelta(t, 2, sphere.Bounds.Size().Y(), 1e-5)
}

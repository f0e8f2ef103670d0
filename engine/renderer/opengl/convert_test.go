package opengl

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
)

func TestGLTopology(t *testing.T) {
	assert.Equal(t, uint32(gl.TRIANGLES), glTopology(metadata.PRIMITIVE_TOPOLOGY_TRIANGLES))
	assert.Equal(t, uint32(gl.LINES), glTopology(metadata.PRIMITIVE_TOPOLOGY_LINES))
}

func TestGLCullFace(t *testing.T) {
	assert.Equal(t, uint32(gl.BACK), glCullFace(metadata.CULL_FACE_BACK))
	assert.Equal(t, uint32(gl.FRONT), glCullFace(metadata.CULL_FACE_FRONT))
}

func TestClearMask(t *testing.T) {
	assert.Zero(t, clearMask(metadata.RENDERPASS_CLEAR_NONE_FLAG))
	assert.Equal(t, uint32(gl.COLOR_BUFFER_BIT), clearMask(metadata.RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG))
	all := metadata.RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG | metadata.RENDERPASS_CLEAR_DEPTH_BUFFER_FLAG | metadata.RENDERPASS_CLEAR_STENCIL_BUFFER_FLAG
	assert.Equal(t, uint32(gl.COLOR_BUFFER_BIT|gl.DEPTH_BUFFER_BIT|gl.STENCIL_BUFFER_BIT), clearMask(all))
}

func TestTextureTargetAndFormat(t *testing.T) {
	assert.Equal(t, uint32(gl.TEXTURE_2D), textureTarget(metadata.TEXTURE_TYPE_2D))
	assert.Equal(t, uint32(gl.TEXTURE_2D_ARRAY), textureTarget(metadata.TEXTURE_TYPE_2D_ARRAY))
	assert.Equal(t, uint32(gl.TEXTURE_CUBE_MAP), textureTarget(metadata.TEXTURE_TYPE_CUBE))

	internal, format, xtype := textureFormat(metadata.TEXTURE_FORMAT_DEPTH)
	assert.Equal(t, int32(gl.DEPTH_COMPONENT32F), internal)
	assert.Equal(t, uint32(gl.DEPTH_COMPONENT), format)
	assert.Equal(t, uint32(gl.FLOAT), xtype)

	internal, format, _ = textureFormat(metadata.TEXTURE_FORMAT_RGBA)
	assert.Equal(t, int32(gl.RGBA16F), internal)
	assert.Equal(t, uint32(gl.RGBA), format)
}

func TestAttachmentPoints(t *testing.T) {
	colour := metadata.TextureSpec{Width: 4, Height: 4, Layers: 1, Format: metadata.TEXTURE_FORMAT_RGBA}
	depth := colour
	depth.Format = metadata.TEXTURE_FORMAT_DEPTH

	attachments := []*metadata.Texture{
		metadata.NewTexture("albedo", colour),
		metadata.NewTexture("depth", depth),
		metadata.NewTexture("normal", colour),
	}
	points, drawBuffers := attachmentPoints(attachments)
	assert.Equal(t, []uint32{gl.COLOR_ATTACHMENT0, gl.DEPTH_ATTACHMENT, gl.COLOR_ATTACHMENT1}, points)
	assert.Equal(t, []uint32{gl.COLOR_ATTACHMENT0, gl.COLOR_ATTACHMENT1}, drawBuffers)

	points, drawBuffers = attachmentPoints(attachments[1:2])
	assert.Equal(t, []uint32{gl.DEPTH_ATTACHMENT}, points)
	assert.Empty(t, drawBuffers)
}

func TestUniformBaseName(t *testing.T) {
	assert.Equal(t, "shadow_far", uniformBaseName("shadow_far[0]"))
	assert.Equal(t, "world_matrix", uniformBaseName("world_matrix"))
}

func TestFloatUploadFor(t *testing.T) {
	tests := []struct {
		name  string
		xtype uint32
		size  int32
		count int
		want  floatUpload
	}{
		{"array", gl.FLOAT, 4, 4, uploadArray},
		{"scalar", gl.FLOAT, 1, 1, uploadFloat},
		{"vec3", gl.FLOAT_VEC3, 1, 3, uploadVec3},
		{"vec4", gl.FLOAT_VEC4, 1, 4, uploadVec4},
		{"reflected type wins", gl.FLOAT_VEC2, 1, 4, uploadVec2},
		{"unknown type by count", 0, 1, 3, uploadVec3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, floatUploadFor(tt.xtype, tt.size, tt.count))
		})
	}
}

func TestProgramIgnoresUnknownUniforms(t *testing.T) {
	p := &Program{name: "empty", uniforms: map[string]uniform{}}
	assert.Equal(t, "empty", p.Name())
	// no uniform, so no GL call is made
	assert.NotPanics(t, func() {
		p.BindFloat("missing", 1, 2, 3)
		p.BindTexture("missing", nil)
		p.BindMatrices("missing", nil)
	})
}

func TestProgramSkipsMissingMaterial(t *testing.T) {
	p := &Program{name: "empty", uniforms: map[string]uniform{}}
	assert.NotPanics(t, func() {
		p.BindMaterial(nil)
	})
}

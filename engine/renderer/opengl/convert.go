package opengl

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

func glTopology(t metadata.PrimitiveTopology) uint32 {
	if t == metadata.PRIMITIVE_TOPOLOGY_LINES {
		return gl.LINES
	}
	return gl.TRIANGLES
}

func glCullFace(face metadata.CullFace) uint32 {
	if face == metadata.CULL_FACE_FRONT {
		return gl.FRONT
	}
	return gl.BACK
}

func clearMask(flags metadata.RenderpassClearFlag) uint32 {
	var mask uint32
	if flags&metadata.RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG != 0 {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if flags&metadata.RENDERPASS_CLEAR_DEPTH_BUFFER_FLAG != 0 {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if flags&metadata.RENDERPASS_CLEAR_STENCIL_BUFFER_FLAG != 0 {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	return mask
}

func textureTarget(t metadata.TextureType) uint32 {
	switch t {
	case metadata.TEXTURE_TYPE_2D_ARRAY:
		return gl.TEXTURE_2D_ARRAY
	case metadata.TEXTURE_TYPE_CUBE:
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

// textureFormat returns the internal format, pixel format and pixel type. Colour targets are half float for HDR light accumulation.
func textureFormat(f metadata.TextureFormat) (int32, uint32, uint32) {
	if f == metadata.TEXTURE_FORMAT_DEPTH {
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT
	}
	return gl.RGBA16F, gl.RGBA, gl.FLOAT
}

/**
 * @brief Assigns framebuffer attachment points. Colour textures take
 * consecutive colour attachments in order, a depth texture the depth one.
 */
func attachmentPoints(attachments []*metadata.Texture) ([]uint32, []uint32) {
	points := make([]uint32, len(attachments))
	var drawBuffers []uint32
	for i, t := range attachments {
		if t.Spec.Format == metadata.TEXTURE_FORMAT_DEPTH {
			points[i] = gl.DEPTH_ATTACHMENT
			continue
		}
		points[i] = gl.COLOR_ATTACHMENT0 + uint32(len(drawBuffers))
		drawBuffers = append(drawBuffers, points[i])
	}
	return points, drawBuffers
}

// uniformBaseName strips the array suffix GL reports for array uniforms.
func uniformBaseName(name string) string {
	return strings.TrimSuffix(name, "[0]")
}

type floatUpload int

const (
	uploadFloat floatUpload = iota
	uploadVec2
	uploadVec3
	uploadVec4
	uploadArray
)

// floatUploadFor picks the glUniform call for values given the reflected uniform.
func floatUploadFor(xtype uint32, size int32, count int) floatUpload {
	if size > 1 {
		return uploadArray
	}
	switch xtype {
	case gl.FLOAT_VEC2:
		return uploadVec2
	case gl.FLOAT_VEC3:
		return uploadVec3
	case gl.FLOAT_VEC4:
		return uploadVec4
	case gl.FLOAT:
		return uploadFloat
	}
	switch count {
	case 2:
		return uploadVec2
	case 3:
		return uploadVec3
	case 4:
		return uploadVec4
	}
	return uploadFloat
}

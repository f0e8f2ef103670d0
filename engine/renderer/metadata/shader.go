package metadata

import (
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/components"
)

/** @brief Names of the uniforms the pipeline binds. */
const (
	UNIFORM_WORLD_MATRIX  string = "world_matrix"
	UNIFORM_SHADOW_BUFFER string = "shadow_buffer"
	UNIFORM_SHADOW_MATRIX string = "shadow_matrix"
	UNIFORM_SHADOW_FAR    string = "shadow_far"
	UNIFORM_DEBUG_COLOUR  string = "debug_colour"
)

/**
 * @brief A compiled shader program on the frontend. Binding calls are only
 * valid between Bind and UnBind.
 */
type Shader interface {
	Name() string
	Bind()
	UnBind()
	/** @brief Uploads the view, projection and camera position. */
	BindCamera(camera *components.Camera)
	BindMatrix(name string, matrix math.Mat4)
	BindMatrices(name string, matrices []math.Mat4)
	BindMaterial(material *Material)
	/** @brief Binds the vertex data and whole index buffer of the mesh. */
	BindMesh(mesh *Mesh)
	/** @brief Binds the index buffer of one submesh. BindMesh must precede it. */
	BindSubMesh(mesh *Mesh, index int)
	BindTexture(name string, texture *Texture)
	BindLight(light *Light, world math.Mat4)
	/** @brief Uploads a float or vector uniform by value count, or a whole float array. */
	BindFloat(name string, values ...float32)
}

type ShaderStage int

const (
	SHADER_STAGE_VERTEX ShaderStage = iota
	SHADER_STAGE_FRAGMENT
)

// Extension is the file suffix the stage source is loaded from.
func (s ShaderStage) Extension() string {
	switch s {
	case SHADER_STAGE_VERTEX:
		return ".vert.glsl"
	case SHADER_STAGE_FRAGMENT:
		return ".frag.glsl"
	}
	return ""
}

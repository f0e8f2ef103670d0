package pipeline

import (
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/scene"
)

/**
 * @brief The graphics state the pipeline drives. Every pass begin resets
 * depth testing to on and culling to back faces.
 */
type Backend interface {
	RenderPassBegin(pass *metadata.Pass, clear bool)
	RenderPassEnd(pass *metadata.Pass)
	SetDepthTest(enabled bool)
	SetCullFace(face metadata.CullFace)
	SetFramebufferSRGB(enabled bool)
	DrawIndexed(topology metadata.PrimitiveTopology, indexCount uint32)
	RenderTargetBegin(texture *metadata.Texture, layer uint32) error
	RenderTargetEnd(texture *metadata.Texture)
}

/** @brief Temporary render textures for shadow maps. */
type TexturePool interface {
	Acquire(spec metadata.TextureSpec) (*metadata.Texture, error)
	Collect(texture *metadata.Texture)
}

type ShaderProvider interface {
	GetShader(name string) (metadata.Shader, error)
}

type Telemetry interface {
	IncreaseDrawCall()
	IncreaseTriangleCount(indexCount uint32)
	IncreaseMeshCount()
	IncreaseSkinnedMeshCount()
	IncreaseLightCount()
	ResetFrame()
}

/** @brief Answers visibility queries against the scene. */
type SceneManager interface {
	GetRenderQuery(frustum math.Frustum, query *scene.RenderQuery)
}

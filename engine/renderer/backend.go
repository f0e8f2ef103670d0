package renderer

import (
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/renderer/pipeline"
	"github.com/spaghettifunk/prelight/engine/systems"
)

/**
 * @brief A graphics API implementation. It drives the pipeline state and
 * owns the GPU resources the systems create.
 */
type RendererBackend interface {
	pipeline.Backend
	systems.Backend

	Initialize(config *metadata.RendererBackendConfig) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame(deltaTime float64) error
	EndFrame(deltaTime float64) error
}

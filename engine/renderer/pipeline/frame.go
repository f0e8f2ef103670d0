package pipeline

import (
	"github.com/spaghettifunk/prelight/engine/renderer/components"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

// frameContext tracks the bound state of one Execute call so that
// consecutive units sharing a shader, material or mesh skip rebinding.
type frameContext struct {
	camera *components.Camera
	// last shader Bind was called on, nil when none is bound
	shader   metadata.Shader
	material *metadata.Material
	mesh     *metadata.Mesh
}

func newFrameContext(camera *components.Camera) *frameContext {
	return &frameContext{camera: camera}
}

func (f *frameContext) reset() {
	f.shader = nil
	f.material = nil
	f.mesh = nil
}

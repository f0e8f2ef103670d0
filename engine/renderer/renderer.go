package renderer

import (
	"fmt"

	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/platform"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/renderer/opengl"
	"github.com/spaghettifunk/prelight/engine/renderer/pipeline"
)

type RendererType uint8

const (
	Vulkan RendererType = iota
	DirectX
	Metal
	OpenGL
)

func (t RendererType) String() string {
	switch t {
	case Vulkan:
		return "vulkan"
	case DirectX:
		return "directx"
	case Metal:
		return "metal"
	case OpenGL:
		return "opengl"
	}
	return "unknown"
}

/** @brief Everything needed to draw one frame. */
type RenderPacket struct {
	DeltaTime float64
	Scene     pipeline.SceneManager
}

// Renderer is the frontend the engine talks to. It brackets each pipeline execution with the backend frame.
type Renderer struct {
	backend  RendererBackend
	pipeline *pipeline.Pipeline
}

// NewRenderer creates the backend for the given graphics API. Only OpenGL is implemented.
func NewRenderer(rendererType RendererType, p *platform.Platform) (*Renderer, error) {
	switch rendererType {
	case OpenGL:
		return NewRendererWithBackend(opengl.New(p)), nil
	}
	err := fmt.Errorf("renderer backend '%s' is not supported", rendererType)
	core.LogError(err.Error())
	return nil, err
}

func NewRendererWithBackend(backend RendererBackend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Initialize(appName string, width, height uint32) error {
	return r.backend.Initialize(&metadata.RendererBackendConfig{
		ApplicationName: appName,
		Width:           width,
		Height:          height,
	})
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) Backend() RendererBackend {
	return r.backend
}

func (r *Renderer) SetPipeline(p *pipeline.Pipeline) {
	r.pipeline = p
}

func (r *Renderer) Pipeline() *pipeline.Pipeline {
	return r.pipeline
}

func (r *Renderer) OnResize(width, height uint32) error {
	return r.backend.Resized(width, height)
}

/**
 * @brief Runs the pipeline over the packet scene between BeginFrame and
 * EndFrame. A pipeline error still ends the frame.
 */
func (r *Renderer) DrawFrame(packet *RenderPacket) error {
	if r.pipeline == nil {
		return fmt.Errorf("renderer has no pipeline")
	}
	if err := r.backend.BeginFrame(packet.DeltaTime); err != nil {
		core.LogError(err.Error())
		return err
	}
	execErr := r.pipeline.Execute(packet.Scene)
	if err := r.backend.EndFrame(packet.DeltaTime); err != nil {
		core.LogError("RendererEndFrame failed. Application shutting down...")
		return err
	}
	return execErr
}

package engine

import (
	"github.com/spaghettifunk/prelight/engine/renderer"
	"github.com/spaghettifunk/prelight/engine/renderer/components"
	"github.com/spaghettifunk/prelight/engine/renderer/pipeline"
	"github.com/spaghettifunk/prelight/engine/scene"
	"github.com/spaghettifunk/prelight/engine/systems"
)

// World is what a game gets to build its scene with.
type World struct {
	Scene    *scene.Manager
	Systems  *systems.SystemManager
	Pipeline *pipeline.Pipeline
	Camera   *components.Camera
}

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func(world *World) error
type Update func(deltaTime float64) error
type Render func(packet *renderer.RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error

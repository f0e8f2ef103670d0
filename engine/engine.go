package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/spaghettifunk/prelight/engine/config"
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/platform"
	"github.com/spaghettifunk/prelight/engine/renderer"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/renderer/pipeline"
	"github.com/spaghettifunk/prelight/engine/scene"
	"github.com/spaghettifunk/prelight/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

const DEFAULT_PIPELINE_CONFIG_PATH string = "assets/pipeline.toml"

type Engine struct {
	currentStage Stage
	gameInstance *Game
	// set from signal and event handlers
	isRunning     atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	renderer      *renderer.Renderer
	systemManager *systems.SystemManager
	pipeline      *pipeline.Pipeline
	scene         *scene.Manager
	stats         *core.RenderStats
	watcher       *config.Watcher
	configPath    string
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64
}

func New(g *Game) (*Engine, error) {
	core.SetLogLevel(g.ApplicationConfig.LogLevel)

	p := platform.New()
	r, err := renderer.NewRenderer(renderer.OpenGL, p)
	if err != nil {
		return nil, err
	}

	path := g.ApplicationConfig.PipelineConfigPath
	if path == "" {
		path = DEFAULT_PIPELINE_CONFIG_PATH
	}

	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     p,
		renderer:     r,
		scene:        scene.NewManager(),
		stats:        core.NewRenderStats(),
		configPath:   path,
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
	}
	e.isRunning.Store(true)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	if err := core.InputInitialize(); err != nil {
		return err
	}
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)
	core.EventRegister(core.EVENT_CODE_PIPELINE_CONFIG_CHANGED, e.onPipelineConfigChanged)

	appConfig := e.gameInstance.ApplicationConfig
	if err := e.platform.Startup(appConfig.Name, appConfig.StartPosX, appConfig.StartPosY, appConfig.StartWidth, appConfig.StartHeight); err != nil {
		return err
	}
	if w, h := e.platform.GetFramebufferSize(); w > 0 && h > 0 {
		e.width, e.height = w, h
	}

	if err := e.renderer.Initialize(appConfig.Name, e.width, e.height); err != nil {
		return err
	}

	cfg, err := loadOrCreatePipelineConfig(e.configPath)
	if err != nil {
		return err
	}

	sm, err := systems.NewSystemManager(cfg, e.renderer.Backend(), e.width, e.height)
	if err != nil {
		return err
	}
	e.systemManager = sm
	if err := sm.Initialize(cfg, pipelineShaderNames(cfg)); err != nil {
		return err
	}

	quad, err := sm.MeshSystem.Get(metadata.BUILTIN_MESH_QUAD)
	if err != nil {
		return err
	}
	lineCube, err := sm.MeshSystem.Get(metadata.BUILTIN_MESH_LINE_CUBE)
	if err != nil {
		return err
	}

	e.pipeline, err = pipeline.NewPipeline(&pipeline.PipelineOptions{
		Name:         cfg.Name,
		Backend:      e.renderer.Backend(),
		Shaders:      sm.ShaderSystem,
		Pool:         sm.TexturePool,
		Telemetry:    e.stats,
		QuadMesh:     quad,
		LineCubeMesh: lineCube,

		DefaultMaterial: sm.MaterialSystem.GetDefault(),
	})
	if err != nil {
		return err
	}
	e.pipeline.ApplyConfig(cfg)
	e.pipeline.SetPasses(sm.PassSystem.Passes())

	camera := sm.CameraSystem.GetDefault()
	camera.SetPerspective(camera.FOV, float32(e.width)/float32(e.height), camera.NearClip, camera.FarClip)
	e.pipeline.SetCamera(camera)
	e.renderer.SetPipeline(e.pipeline)

	e.watcher, err = config.NewWatcher(e.configPath, func(c *config.PipelineConfig) {
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_PIPELINE_CONFIG_CHANGED,
			Data: c,
		})
	})
	if err != nil {
		// the engine still runs, only without hot reload
		core.LogWarn("pipeline config '%s' is not watched: %s", e.configPath, err.Error())
	}

	world := &World{
		Scene:    e.scene,
		Systems:  sm,
		Pipeline: e.pipeline,
		Camera:   camera,
	}
	if err := e.gameInstance.FnInitialize(world); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// loadOrCreatePipelineConfig reads the pipeline file, writing the default one first when there is none.
func loadOrCreatePipelineConfig(path string) (*config.PipelineConfig, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	cfg = config.Default()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := config.Save(cfg, path); err != nil {
		return nil, err
	}
	core.LogInfo("wrote default pipeline config to '%s'", path)
	return cfg, nil
}

func pipelineShaderNames(cfg *config.PipelineConfig) []string {
	return append(cfg.ShaderNames(), pipeline.BuiltinShaderNames()...)
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64
	if fps := e.gameInstance.ApplicationConfig.TargetFPS; fps > 0 {
		targetFrameSeconds = 1.0 / fps
	}
	var sinceReport float64

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
		}
		if e.isSuspended {
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := platform.GetAbsoluteTime()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogFatal("Game update failed, shutting down.")
			e.isRunning.Store(false)
			break
		}

		packet := &renderer.RenderPacket{
			DeltaTime: delta,
			Scene:     e.scene,
		}
		if err := e.gameInstance.FnRender(packet, delta); err != nil {
			core.LogFatal("Game render failed, shutting down.")
			e.isRunning.Store(false)
			break
		}
		if err := e.renderer.DrawFrame(packet); err != nil && !errors.Is(err, core.ErrCameraNotSet) {
			core.LogFatal("Frame failed, shutting down: %s", err.Error())
			e.isRunning.Store(false)
			break
		}

		frameElapsedTime := platform.GetAbsoluteTime() - frameStartTime
		if remaining := targetFrameSeconds - frameElapsedTime; remaining > 0 {
			e.platform.Sleep(remaining * 1000)
		}

		sinceReport += delta
		if sinceReport >= 1 {
			s := e.stats.Snapshot()
			fps, frameTime := core.MetricsFrame()
			core.LogDebug("fps %.0f, %.2fms, %d draw calls, %d triangles, %d lights", fps, frameTime, s.DrawCalls, s.Triangles, s.LightCount)
			sinceReport = 0
		}

		if err := core.InputUpdate(delta); err != nil {
			core.LogError(err.Error())
		}
		e.lastTime = currentTime
	}
	e.clock.Stop()
	return nil
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			core.LogWarn(err.Error())
		}
	}
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			return err
		}
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	return e.platform.Shutdown()
}

func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

// debugToggles maps function keys to the pipeline switch they flip.
var debugToggles = map[core.KeyCode]pipeline.PipelineSwitch{
	core.KEY_F1: pipeline.SWITCH_MESH_BOUNDS,
	core.KEY_F2: pipeline.SWITCH_LIGHT_BOUNDS,
	core.KEY_F3: pipeline.SWITCH_CUSTOM_BOUNDS,
	core.KEY_F4: pipeline.SWITCH_CASCADED_SHADOW_MAP,
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		return true
	}
	if s, ok := debugToggles[ke.KeyCode]; ok && e.pipeline != nil {
		on := !e.pipeline.IsSwitchOn(s)
		e.pipeline.SetSwitch(s, on)
		core.LogInfo("pipeline switch %d set to %t", s, on)
		return true
	}
	// let the game see the key too
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	width, height := se.WindowWidth, se.WindowHeight
	if width == e.width && height == e.height {
		return false
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}

	if err := e.renderer.OnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	if e.systemManager != nil {
		if err := e.systemManager.PassSystem.Resize(width, height); err != nil {
			core.LogError(err.Error())
		}
		e.pipeline.SetPasses(e.systemManager.PassSystem.Passes())
	}
	if camera := e.pipeline.GetCamera(); camera != nil {
		camera.SetPerspective(camera.FOV, float32(width)/float32(height), camera.NearClip, camera.FarClip)
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	return true
}

/**
 * @brief Runs on the watcher goroutine. The reload itself is queued and
 * happens on the render goroutine at the start of the next frame.
 */
func (e *Engine) onPipelineConfigChanged(context core.EventContext) bool {
	cfg, ok := context.Data.(*config.PipelineConfig)
	if !ok || e.pipeline == nil {
		return false
	}
	e.pipeline.Enqueue(func(p *pipeline.Pipeline) {
		e.reloadPipeline(p, cfg)
	})
	return true
}

// reloadPipeline recompiles the shaders and rebuilds the passes. On failure the previous passes stay.
func (e *Engine) reloadPipeline(p *pipeline.Pipeline, cfg *config.PipelineConfig) {
	sm := e.systemManager
	sm.ShaderSystem.Config.ShaderDir = cfg.ShaderDir
	loaded := sm.ShaderSystem.LoadAll(pipelineShaderNames(cfg))

	previous := sm.PassSystem.Passes()
	if err := sm.PassSystem.Build(cfg.Passes); err != nil {
		core.LogError("pipeline '%s' not reloaded: %s", cfg.Name, err.Error())
		if rerr := sm.PassSystem.Build(sm.PassSystem.LastConfig()); rerr != nil {
			core.LogError(rerr.Error())
		}
		p.SetPasses(sm.PassSystem.Passes())
		return
	}
	p.ApplyConfig(cfg)
	p.SetPasses(sm.PassSystem.Passes())
	core.LogInfo("pipeline '%s' reloaded: %d shaders, %d passes (was %d)", cfg.Name, loaded, len(sm.PassSystem.Passes()), len(previous))
}

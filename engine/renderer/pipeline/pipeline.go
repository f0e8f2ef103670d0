package pipeline

import (
	"cmp"
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/prelight/engine/config"
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/renderer/components"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/scene"
	"golang.org/x/exp/slices"
)

type PipelineSwitch int

const (
	SWITCH_MESH_BOUNDS PipelineSwitch = iota
	SWITCH_LIGHT_BOUNDS
	SWITCH_CUSTOM_BOUNDS
	SWITCH_CASCADED_SHADOW_MAP
)

type ShadowSettings struct {
	/** @brief Width and height of every shadow texture. */
	Resolution uint32
	/** @brief Near plane of point and spot light shadow projections. */
	Near float32
}

/** @brief Collaborators of a pipeline. Telemetry and the meshes are optional. */
type PipelineOptions struct {
	Name      string
	Backend   Backend
	Shaders   ShaderProvider
	Pool      TexturePool
	Telemetry Telemetry
	/** @brief Full-screen quad drawn by quad passes. */
	QuadMesh *metadata.Mesh
	/** @brief Unit line cube drawn by the debug overlay. */
	LineCubeMesh *metadata.Mesh
	/** @brief Drawn in place of a missing material. */
	DefaultMaterial *metadata.Material
}

/**
 * @brief A light pre-pass pipeline: geometry passes fill buffers, light
 * passes accumulate one light volume per visible light, later passes
 * compose the result.
 */
type Pipeline struct {
	Name string

	backend Backend
	shaders ShaderProvider
	pool    TexturePool
	stats   Telemetry

	camera       *components.Camera
	passes       []*metadata.Pass
	sortedPasses []*metadata.Pass
	switches     map[PipelineSwitch]bool
	shadow       ShadowSettings

	quadMesh     *metadata.Mesh
	lineCubeMesh *metadata.Mesh
	debugPass    *metadata.Pass
	material     *metadata.Material

	query       *scene.RenderQuery
	shadowQuery *scene.RenderQuery

	mutex   sync.Mutex
	pending []func(*Pipeline)
}

func NewPipeline(opts *PipelineOptions) (*Pipeline, error) {
	if opts.Backend == nil || opts.Shaders == nil || opts.Pool == nil {
		err := fmt.Errorf("func NewPipeline - backend, shaders and pool are required")
		core.LogError(err.Error())
		return nil, err
	}
	p := &Pipeline{
		Name:         opts.Name,
		backend:      opts.Backend,
		shaders:      opts.Shaders,
		pool:         opts.Pool,
		stats:        opts.Telemetry,
		switches:     make(map[PipelineSwitch]bool),
		quadMesh:     opts.QuadMesh,
		lineCubeMesh: opts.LineCubeMesh,
		material:     opts.DefaultMaterial,
		query:        scene.NewRenderQuery(),
		shadowQuery:  scene.NewRenderQuery(),
		shadow: ShadowSettings{
			Resolution: config.DEFAULT_SHADOW_RESOLUTION,
			Near:       config.DEFAULT_SHADOW_NEAR,
		},
	}
	if p.stats == nil {
		p.stats = core.NewRenderStats()
	}
	if p.quadMesh == nil {
		p.quadMesh = metadata.NewQuadMesh()
	}
	if p.lineCubeMesh == nil {
		p.lineCubeMesh = metadata.NewLineCubeMesh()
	}
	if p.material == nil {
		p.material = metadata.NewMaterial(0, metadata.DefaultMaterialName)
	}
	p.debugPass = metadata.NewPass("debug", metadata.DRAW_MODE_OPAQUE, 0)
	p.debugPass.ClearFlags = metadata.RENDERPASS_CLEAR_NONE_FLAG
	p.SetSwitch(SWITCH_CASCADED_SHADOW_MAP, true)
	return p, nil
}

// ApplyConfig takes the switches and shadow settings of a pipeline configuration.
func (p *Pipeline) ApplyConfig(cfg *config.PipelineConfig) {
	if cfg.Name != "" {
		p.Name = cfg.Name
	}
	p.SetSwitch(SWITCH_CASCADED_SHADOW_MAP, cfg.IsCascaded())
	p.SetSwitch(SWITCH_MESH_BOUNDS, cfg.Debug.MeshBounds)
	p.SetSwitch(SWITCH_LIGHT_BOUNDS, cfg.Debug.LightBounds)
	p.SetSwitch(SWITCH_CUSTOM_BOUNDS, cfg.Debug.CustomBounds)
	if cfg.Shadow.Resolution > 0 {
		p.shadow.Resolution = cfg.Shadow.Resolution
	}
	if cfg.Shadow.Near > 0 {
		p.shadow.Near = cfg.Shadow.Near
	}
}

// Enqueue schedules fn to run on the render goroutine at the start of the next Execute.
func (p *Pipeline) Enqueue(fn func(*Pipeline)) {
	p.mutex.Lock()
	p.pending = append(p.pending, fn)
	p.mutex.Unlock()
}

func (p *Pipeline) applyPending() {
	p.mutex.Lock()
	fns := p.pending
	p.pending = nil
	p.mutex.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

func (p *Pipeline) SetCamera(camera *components.Camera) {
	p.camera = camera
}

func (p *Pipeline) GetCamera() *components.Camera {
	return p.camera
}

func (p *Pipeline) SetSwitch(s PipelineSwitch, on bool) {
	p.switches[s] = on
}

// IsSwitchOn reports whether any of the given switches is on.
func (p *Pipeline) IsSwitchOn(switches ...PipelineSwitch) bool {
	for _, s := range switches {
		if p.switches[s] {
			return true
		}
	}
	return false
}

func (p *Pipeline) ShadowSettings() ShadowSettings {
	return p.shadow
}

func (p *Pipeline) AddPass(pass *metadata.Pass) {
	p.passes = append(p.passes, pass)
}

// SetPasses replaces the pass list. Insertion order breaks render index ties.
func (p *Pipeline) SetPasses(passes []*metadata.Pass) {
	p.passes = append([]*metadata.Pass(nil), passes...)
}

func (p *Pipeline) Passes() []*metadata.Pass {
	return p.passes
}

func (p *Pipeline) sortPasses() []*metadata.Pass {
	p.sortedPasses = append(p.sortedPasses[:0], p.passes...)
	slices.SortStableFunc(p.sortedPasses, func(a, b *metadata.Pass) int {
		return cmp.Compare(a.RenderIndex, b.RenderIndex)
	})
	return p.sortedPasses
}

/**
 * @brief Renders one frame of the scene through every pass.
 * Returns core.ErrCameraNotSet, without drawing, when no camera is set.
 */
func (p *Pipeline) Execute(sm SceneManager) error {
	if p.camera == nil {
		core.LogError("pipeline '%s': %s", p.Name, core.ErrCameraNotSet.Error())
		return core.ErrCameraNotSet
	}
	p.applyPending()

	start := time.Now()
	frame := newFrameContext(p.camera)
	p.stats.ResetFrame()

	passes := p.sortPasses()

	sm.GetRenderQuery(p.camera.GetFrustum(), p.query)
	p.query.Sort(p.camera.GetWorldPosition())

	for i, pass := range passes {
		last := i == len(passes)-1

		// gamma correction on the pass that reaches the screen
		if last {
			p.backend.SetFramebufferSRGB(true)
		}

		switch pass.DrawMode {
		case metadata.DRAW_MODE_OPAQUE:
			p.backend.RenderPassBegin(pass, true)
			for _, unit := range p.query.OpaqueUnits {
				p.drawUnit(frame, pass, unit)
			}
			p.backend.RenderPassEnd(pass)
		case metadata.DRAW_MODE_TRANSPARENT:
			p.backend.RenderPassBegin(pass, true)
			for _, unit := range p.query.TransparentUnits {
				p.drawUnit(frame, pass, unit)
			}
			p.backend.RenderPassEnd(pass)
		case metadata.DRAW_MODE_QUAD:
			p.backend.RenderPassBegin(pass, true)
			p.drawQuad(frame, pass)
			p.backend.RenderPassEnd(pass)
		case metadata.DRAW_MODE_LIGHT:
			// clear once, every light then draws on top
			p.backend.RenderPassBegin(pass, true)
			p.backend.RenderPassEnd(pass)
			for _, node := range p.query.LightNodes {
				p.drawLight(frame, sm, pass, node)
			}
		default:
			core.LogWarn("pass '%s': %s %d", pass.Name, core.ErrUnknownDrawMode.Error(), pass.DrawMode)
		}

		if last {
			p.backend.SetFramebufferSRGB(false)
		}
		if frame.shader != nil {
			frame.shader.UnBind()
		}
		frame.reset()
	}

	if p.IsSwitchOn(SWITCH_MESH_BOUNDS, SWITCH_LIGHT_BOUNDS, SWITCH_CUSTOM_BOUNDS) {
		p.drawDebug(frame)
	}

	frame.reset()
	p.query.Reset()
	p.shadowQuery.Reset()
	core.MetricsUpdate(time.Since(start).Seconds())
	return nil
}

package systems

import (
	"fmt"

	"github.com/spaghettifunk/prelight/engine/config"
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

/** @brief Creates the framebuffers passes render into. */
type PassTargetAllocator interface {
	RenderTargetAllocator
	PassTargetCreate(name string, attachments []*metadata.Texture) (*metadata.RenderTarget, error)
	PassTargetDestroy(target *metadata.RenderTarget)
}

type PassSystemConfig struct {
	MaxPassCount uint16
	/** @brief Size of the textures passes render into. */
	Width  uint32
	Height uint32
}

/**
 * @brief Builds render passes from configuration. Outputs of a pass are
 * registered by name so that later passes can bind them as inputs.
 */
type PassSystem struct {
	Config   *PassSystemConfig
	passes   []*metadata.Pass
	outputs  map[string]*metadata.Texture
	shaders  *ShaderSystem
	allocate PassTargetAllocator
	configs  []config.PassConfig
}

func NewPassSystem(config *PassSystemConfig, shaders *ShaderSystem, allocator PassTargetAllocator) (*PassSystem, error) {
	if config.MaxPassCount == 0 {
		err := fmt.Errorf("func NewPassSystem - config.MaxPassCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if config.Width == 0 || config.Height == 0 {
		return nil, fmt.Errorf("func NewPassSystem - target size must be > 0, got %dx%d", config.Width, config.Height)
	}
	return &PassSystem{
		Config:   config,
		outputs:  make(map[string]*metadata.Texture),
		shaders:  shaders,
		allocate: allocator,
	}, nil
}

var textureFlagNames = map[string]metadata.TextureFlagBits{
	"diffuse":  metadata.TEXTURE_FLAG_DIFFUSE,
	"specular": metadata.TEXTURE_FLAG_SPECULAR,
	"normal":   metadata.TEXTURE_FLAG_NORMAL,
}

/**
 * @brief Replaces the current passes with the ones described by configs.
 * Inputs must name outputs of passes declared earlier in the list. Pass
 * shaders that are not registered are logged and left out.
 */
func (ps *PassSystem) Build(configs []config.PassConfig) error {
	if len(configs) > int(ps.Config.MaxPassCount) {
		return fmt.Errorf("%d passes configured, max is %d", len(configs), ps.Config.MaxPassCount)
	}
	ps.destroyPasses()

	for _, pc := range configs {
		pass, err := ps.buildPass(pc)
		if err != nil {
			ps.destroyPasses()
			return err
		}
		ps.passes = append(ps.passes, pass)
	}
	ps.configs = configs
	core.LogDebug("built %d render passes", len(ps.passes))
	return nil
}

func (ps *PassSystem) buildPass(pc config.PassConfig) (*metadata.Pass, error) {
	mode, ok := metadata.ParseDrawMode(pc.DrawMode)
	if !ok {
		return nil, fmt.Errorf("pass '%s' draw mode '%s': %w", pc.Name, pc.DrawMode, core.ErrUnknownDrawMode)
	}
	pass := metadata.NewPass(pc.Name, mode, pc.RenderIndex)
	clearFlags, err := pc.ClearFlags()
	if err != nil {
		return nil, err
	}
	pass.ClearFlags = clearFlags
	pass.ClearColour = math.Vec4(pc.ClearColour)

	for _, sc := range pc.Shaders {
		sh, err := ps.shaders.GetShader(sc.Name)
		if err != nil {
			core.LogWarn("pass '%s': %s", pc.Name, err.Error())
			continue
		}
		flags := metadata.TEXTURE_FLAG_NONE
		for _, name := range sc.Textures {
			flag, ok := textureFlagNames[name]
			if !ok {
				return nil, fmt.Errorf("pass '%s' shader '%s': unknown texture '%s'", pc.Name, sc.Name, name)
			}
			flags |= flag
		}
		kind := metadata.MESH_KIND_STATIC
		if sc.Skinned {
			kind = metadata.MESH_KIND_SKINNED
		}
		pass.AddShader(sh, kind, flags)
	}

	for _, input := range pc.Inputs {
		t, ok := ps.outputs[input]
		if !ok {
			return nil, fmt.Errorf("pass '%s' input '%s' is not the output of an earlier pass", pc.Name, input)
		}
		pass.AddTexture(t)
	}

	if len(pc.Outputs) > 0 {
		attachments := make([]*metadata.Texture, 0, len(pc.Outputs))
		for _, oc := range pc.Outputs {
			if _, exists := ps.outputs[oc.Name]; exists {
				return nil, fmt.Errorf("pass '%s' output '%s' is already produced by another pass", pc.Name, oc.Name)
			}
			format := metadata.TEXTURE_FORMAT_RGBA
			if oc.Format == "depth" {
				format = metadata.TEXTURE_FORMAT_DEPTH
			}
			t, err := ps.allocate.RenderTargetCreate(metadata.TextureSpec{
				Width:  ps.Config.Width,
				Height: ps.Config.Height,
				Layers: 1,
				Type:   metadata.TEXTURE_TYPE_2D,
				Format: format,
			}, oc.Name)
			if err != nil {
				return nil, fmt.Errorf("pass '%s' output '%s': %w", pc.Name, oc.Name, err)
			}
			ps.outputs[oc.Name] = t
			attachments = append(attachments, t)
		}
		target, err := ps.allocate.PassTargetCreate(pc.Name, attachments)
		if err != nil {
			return nil, fmt.Errorf("pass '%s' target: %w", pc.Name, err)
		}
		pass.Target = target
	}
	return pass, nil
}

// Resize rebuilds the passes of the last Build with targets of the new size.
func (ps *PassSystem) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("pass targets cannot be resized to %dx%d", width, height)
	}
	if width == ps.Config.Width && height == ps.Config.Height {
		return nil
	}
	ps.Config.Width = width
	ps.Config.Height = height
	return ps.Build(ps.configs)
}

// LastConfig returns the pass list of the last successful Build.
func (ps *PassSystem) LastConfig() []config.PassConfig {
	return ps.configs
}

// Passes returns the passes in configuration order.
func (ps *PassSystem) Passes() []*metadata.Pass {
	return ps.passes
}

func (ps *PassSystem) GetPass(name string) *metadata.Pass {
	for _, p := range ps.passes {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// GetOutput returns a texture produced by one of the passes.
func (ps *PassSystem) GetOutput(name string) *metadata.Texture {
	return ps.outputs[name]
}

func (ps *PassSystem) destroyPasses() {
	for _, p := range ps.passes {
		if p.Target != nil {
			ps.allocate.PassTargetDestroy(p.Target)
		}
	}
	for _, t := range ps.outputs {
		ps.allocate.RenderTargetDestroy(t)
	}
	ps.passes = nil
	ps.outputs = make(map[string]*metadata.Texture)
}

func (ps *PassSystem) Shutdown() error {
	ps.destroyPasses()
	return nil
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

const (
	DEFAULT_SHADOW_RESOLUTION uint32  = 1024
	DEFAULT_SHADOW_NEAR       float32 = 0.1
	DEFAULT_SHADOW_POOL_SIZE  uint32  = 4
)

/** @brief A texture produced by a pass. */
type OutputConfig struct {
	Name string `toml:"name"`
	/** @brief "rgba" or "depth". */
	Format string `toml:"format"`
}

/** @brief A shader variant registered on a pass. */
type PassShaderConfig struct {
	Name    string `toml:"name"`
	Skinned bool   `toml:"skinned,omitempty"`
	/** @brief Any of "diffuse", "specular", "normal". */
	Textures []string `toml:"textures,omitempty"`
}

type PassConfig struct {
	Name        string             `toml:"name"`
	DrawMode    string             `toml:"draw_mode"`
	RenderIndex int                `toml:"render_index"`
	Shaders     []PassShaderConfig `toml:"shaders,omitempty"`
	/** @brief Outputs of earlier passes bound to this pass' shaders. */
	Inputs []string `toml:"inputs,omitempty"`
	/** @brief Textures rendered by this pass. None renders to the screen. */
	Outputs []OutputConfig `toml:"outputs,omitempty"`
	/** @brief Any of "colour", "depth", "stencil", or "none". Absent clears colour and depth. */
	Clear       []string   `toml:"clear,omitempty"`
	ClearColour [4]float32 `toml:"clear_colour,omitempty"`
}

var clearFlagNames = map[string]metadata.RenderpassClearFlag{
	"none":    metadata.RENDERPASS_CLEAR_NONE_FLAG,
	"colour":  metadata.RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG,
	"depth":   metadata.RENDERPASS_CLEAR_DEPTH_BUFFER_FLAG,
	"stencil": metadata.RENDERPASS_CLEAR_STENCIL_BUFFER_FLAG,
}

// ClearFlags resolves the clear list of the pass.
func (pc PassConfig) ClearFlags() (metadata.RenderpassClearFlag, error) {
	if len(pc.Clear) == 0 {
		return metadata.RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG | metadata.RENDERPASS_CLEAR_DEPTH_BUFFER_FLAG, nil
	}
	flags := metadata.RENDERPASS_CLEAR_NONE_FLAG
	for _, name := range pc.Clear {
		f, ok := clearFlagNames[name]
		if !ok {
			return flags, fmt.Errorf("pass '%s': unknown clear target '%s'", pc.Name, name)
		}
		flags |= f
	}
	return flags, nil
}

type ShadowConfig struct {
	Resolution uint32  `toml:"resolution"`
	Near       float32 `toml:"near"`
	/** @brief Maximum number of shadow textures alive at once. */
	PoolSize uint32 `toml:"pool_size"`
}

type DebugConfig struct {
	MeshBounds   bool `toml:"mesh_bounds"`
	LightBounds  bool `toml:"light_bounds"`
	CustomBounds bool `toml:"custom_bounds"`
}

/**
 * @brief The on-disk description of a pipeline.
 */
type PipelineConfig struct {
	Name      string `toml:"name"`
	ShaderDir string `toml:"shader_dir"`
	/** @brief nil means the key was absent, which enables cascades. */
	CascadedShadowMap *bool        `toml:"cascaded_shadow_map"`
	Debug             DebugConfig  `toml:"debug"`
	Shadow            ShadowConfig `toml:"shadow"`
	Passes            []PassConfig `toml:"passes"`
}

// Default returns the configuration of the standard prelight pipeline.
func Default() *PipelineConfig {
	c := &PipelineConfig{
		Name:      "prelight",
		ShaderDir: "assets/shaders",
		Passes: []PassConfig{
			{
				Name:        "gbuffer",
				DrawMode:    metadata.DRAW_MODE_OPAQUE.String(),
				RenderIndex: 0,
				Shaders: []PassShaderConfig{
					{Name: "gbuffer_static_shader"},
					{Name: "gbuffer_skinned_shader", Skinned: true},
				},
				Outputs: []OutputConfig{
					{Name: "gbuffer_normal", Format: "rgba"},
					{Name: "gbuffer_depth", Format: "depth"},
				},
			},
			{
				Name:        "light",
				DrawMode:    metadata.DRAW_MODE_LIGHT.String(),
				RenderIndex: 1,
				Inputs:      []string{"gbuffer_normal", "gbuffer_depth"},
				Outputs: []OutputConfig{
					{Name: "light_buffer", Format: "rgba"},
				},
			},
			{
				Name:        "main",
				DrawMode:    metadata.DRAW_MODE_OPAQUE.String(),
				RenderIndex: 2,
				Shaders: []PassShaderConfig{
					{Name: "main_static_shader"},
					{Name: "main_skinned_shader", Skinned: true},
				},
				Inputs: []string{"light_buffer"},
			},
			{
				Name:        "transparent",
				DrawMode:    metadata.DRAW_MODE_TRANSPARENT.String(),
				RenderIndex: 3,
				Clear:       []string{"none"},
				Shaders: []PassShaderConfig{
					{Name: "transparent_static_shader"},
				},
			},
		},
	}
	c.applyDefaults()
	return c
}

func (c *PipelineConfig) applyDefaults() {
	if c.CascadedShadowMap == nil {
		on := true
		c.CascadedShadowMap = &on
	}
	if c.Shadow.Resolution == 0 {
		c.Shadow.Resolution = DEFAULT_SHADOW_RESOLUTION
	}
	if c.Shadow.Near <= 0 {
		c.Shadow.Near = DEFAULT_SHADOW_NEAR
	}
	if c.Shadow.PoolSize == 0 {
		c.Shadow.PoolSize = DEFAULT_SHADOW_POOL_SIZE
	}
}

// IsCascaded reports the cascaded_shadow_map switch. Absent means on.
func (c *PipelineConfig) IsCascaded() bool {
	return c.CascadedShadowMap == nil || *c.CascadedShadowMap
}

func (c *PipelineConfig) SetCascaded(on bool) {
	c.CascadedShadowMap = &on
}

// ShaderNames lists the shaders used by the passes, each once, in declaration order.
func (c *PipelineConfig) ShaderNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range c.Passes {
		for _, s := range p.Shaders {
			if !seen[s.Name] {
				seen[s.Name] = true
				names = append(names, s.Name)
			}
		}
	}
	return names
}

// Validate checks the pass list for problems that would make it unbuildable.
func (c *PipelineConfig) Validate() error {
	var errs []error
	names := make(map[string]bool, len(c.Passes))
	for _, p := range c.Passes {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("pass with render index %d has no name", p.RenderIndex))
		}
		if names[p.Name] {
			errs = append(errs, fmt.Errorf("pass '%s' is declared twice", p.Name))
		}
		names[p.Name] = true
		if _, ok := metadata.ParseDrawMode(p.DrawMode); !ok {
			errs = append(errs, fmt.Errorf("pass '%s': draw mode '%s': %w", p.Name, p.DrawMode, errUnknownDrawMode))
		}
		if _, err := p.ClearFlags(); err != nil {
			errs = append(errs, err)
		}
		for _, o := range p.Outputs {
			if o.Format != "rgba" && o.Format != "depth" {
				errs = append(errs, fmt.Errorf("pass '%s': output '%s' has unknown format '%s'", p.Name, o.Name, o.Format))
			}
		}
	}
	return errors.Join(errs...)
}

var errUnknownDrawMode = errors.New("unknown draw mode")

// Decode parses a TOML document. Unknown keys are rejected.
func Decode(data []byte) (*PipelineConfig, error) {
	c := &PipelineConfig{}
	d := toml.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	if err := d.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("pipeline config: %s", strict.String())
		}
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	return c, nil
}

// Encode writes the configuration as TOML. The cascade switch is always written.
func Encode(c *PipelineConfig) ([]byte, error) {
	out := *c
	if out.CascadedShadowMap == nil {
		out.SetCascaded(true)
	}
	data, err := toml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	return data, nil
}

func Load(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline config '%s': %w", path, err)
	}
	return Decode(data)
}

func Save(c *PipelineConfig, path string) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write pipeline config '%s': %w", path, err)
	}
	return nil
}

package metadata

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/prelight/engine/math"
)

/**
 * @brief Decides what a pass draws.
 */
type DrawMode int

const (
	/** @brief Opaque units of the visibility query. */
	DRAW_MODE_OPAQUE DrawMode = iota
	/** @brief Transparent units, back to front. */
	DRAW_MODE_TRANSPARENT
	/** @brief A single full-screen quad. */
	DRAW_MODE_QUAD
	/** @brief One light volume per visible light. */
	DRAW_MODE_LIGHT
)

func (d DrawMode) String() string {
	switch d {
	case DRAW_MODE_OPAQUE:
		return "opaque"
	case DRAW_MODE_TRANSPARENT:
		return "transparent"
	case DRAW_MODE_QUAD:
		return "quad"
	case DRAW_MODE_LIGHT:
		return "light"
	}
	return "unknown"
}

// ParseDrawMode maps the configuration name of a draw mode back to its value.
func ParseDrawMode(s string) (DrawMode, bool) {
	for _, d := range []DrawMode{DRAW_MODE_OPAQUE, DRAW_MODE_TRANSPARENT, DRAW_MODE_QUAD, DRAW_MODE_LIGHT} {
		if d.String() == s {
			return d, true
		}
	}
	return DRAW_MODE_OPAQUE, false
}

/**
 * @brief A shader registered on a pass for a mesh kind and set of
 * material texture flags.
 */
type PassShader struct {
	Shader       Shader
	MeshKind     MeshKind
	TextureFlags TextureFlagBits
}

/**
 * @brief Represents a single render pass of the pipeline.
 */
type Pass struct {
	ID   uuid.UUID
	Name string
	/** @brief What the pass draws. */
	DrawMode DrawMode
	/** @brief Passes execute in ascending render index. */
	RenderIndex int
	/** @brief Textures bound to every shader used in the pass, by texture name. */
	Textures []*Texture
	Shaders  []*PassShader
	/** @brief Where the pass renders to. nil renders to the default framebuffer. */
	Target      *RenderTarget
	ClearFlags  RenderpassClearFlag
	ClearColour math.Vec4
}

func NewPass(name string, drawMode DrawMode, renderIndex int) *Pass {
	return &Pass{
		ID:          uuid.New(),
		Name:        name,
		DrawMode:    drawMode,
		RenderIndex: renderIndex,
		ClearFlags:  RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG | RENDERPASS_CLEAR_DEPTH_BUFFER_FLAG,
	}
}

func (p *Pass) AddShader(shader Shader, meshKind MeshKind, flags TextureFlagBits) {
	p.Shaders = append(p.Shaders, &PassShader{Shader: shader, MeshKind: meshKind, TextureFlags: flags})
}

func (p *Pass) AddTexture(texture *Texture) {
	p.Textures = append(p.Textures, texture)
}

// FirstShader returns the first registered shader or nil.
func (p *Pass) FirstShader() Shader {
	if len(p.Shaders) == 0 {
		return nil
	}
	return p.Shaders[0].Shader
}

/**
 * @brief Finds the shader for a mesh kind and material texture flags.
 * An exact flag match wins. Otherwise the variant of the same mesh kind
 * using the most of the material's maps is returned, nil if none fits.
 */
func (p *Pass) GetShader(meshKind MeshKind, flags TextureFlagBits) Shader {
	var best *PassShader
	bestBits := -1
	for _, ps := range p.Shaders {
		if ps.MeshKind != meshKind {
			continue
		}
		if ps.TextureFlags == flags {
			return ps.Shader
		}
		if ps.TextureFlags&^flags != 0 {
			// needs a map the material does not have
			continue
		}
		if bits := popCount(ps.TextureFlags); bits > bestBits {
			best = ps
			bestBits = bits
		}
	}
	if best == nil {
		return nil
	}
	return best.Shader
}

func popCount(f TextureFlagBits) int {
	n := 0
	for f != 0 {
		n += int(f & 1)
		f >>= 1
	}
	return n
}

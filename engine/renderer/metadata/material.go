package metadata

import "github.com/spaghettifunk/prelight/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief A material, which represents various properties
 * of a surface in the world such as texture and colour.
 */
type Material struct {
	/** @brief The material id. */
	ID uint32
	/** @brief The material name. */
	Name string
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4
	/** @brief Texture maps bound by the material, keyed by sampler name. */
	Textures map[string]*Texture
	/** @brief Which maps the material provides. Selects the pass shader variant. */
	TextureFlags TextureFlagBits
	/** @brief Transparent materials are drawn back to front in transparent passes. */
	Transparent bool
	/**
	 * @brief Shaders overriding the pass shader, keyed by pass render index.
	 */
	PassShaders map[int]Shader
}

func NewMaterial(id uint32, name string) *Material {
	return &Material{
		ID:            id,
		Name:          name,
		DiffuseColour: math.NewVec4(1, 1, 1, 1),
		Textures:      make(map[string]*Texture),
		PassShaders:   make(map[int]Shader),
	}
}

// GetShaderForPass returns the override registered for the render index, or nil.
func (m *Material) GetShaderForPass(renderIndex int) Shader {
	if m == nil || m.PassShaders == nil {
		return nil
	}
	return m.PassShaders[renderIndex]
}

func (m *Material) SetTexture(sampler string, texture *Texture, flag TextureFlagBits) {
	if m.Textures == nil {
		m.Textures = make(map[string]*Texture)
	}
	m.Textures[sampler] = texture
	m.TextureFlags |= flag
}

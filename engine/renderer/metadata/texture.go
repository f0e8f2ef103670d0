package metadata

import "github.com/google/uuid"

/**
 * @brief Represents various types of textures.
 */
type TextureType int

const (
	/** @brief A standard two-dimensional texture. */
	TEXTURE_TYPE_2D TextureType = iota
	/** @brief A layered two-dimensional texture, one layer per cascade. */
	TEXTURE_TYPE_2D_ARRAY
	/** @brief A cube texture, used for point light shadows. */
	TEXTURE_TYPE_CUBE
)

type TextureFormat int

const (
	TEXTURE_FORMAT_RGBA TextureFormat = iota
	TEXTURE_FORMAT_DEPTH
)

/** @brief Holds bit flags describing which maps a material provides. */
type TextureFlagBits uint8

const (
	TEXTURE_FLAG_NONE     TextureFlagBits = 0x0
	TEXTURE_FLAG_DIFFUSE  TextureFlagBits = 0x1
	TEXTURE_FLAG_SPECULAR TextureFlagBits = 0x2
	TEXTURE_FLAG_NORMAL   TextureFlagBits = 0x4
)

/**
 * @brief Everything needed to create a texture. Two specs that compare
 * equal describe interchangeable textures.
 */
type TextureSpec struct {
	Width  uint32
	Height uint32
	/** @brief Number of layers. 6 for cube textures, one per cascade for arrays. */
	Layers uint32
	Type   TextureType
	Format TextureFormat
}

/**
 * @brief Represents a texture.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uuid.UUID
	/** @brief The texture Name. Shaders bind textures by this name. */
	Name string
	Spec TextureSpec
	/** @brief Backend specific data, a GL texture/framebuffer pair for the opengl backend. */
	InternalData interface{}
}

func NewTexture(name string, spec TextureSpec) *Texture {
	return &Texture{
		ID:   uuid.New(),
		Name: name,
		Spec: spec,
	}
}

package metadata

type RendererBackendConfig struct {
	/** @brief The name of the application */
	ApplicationName string
	Width           uint32
	Height          uint32
}

/** @brief Represents a render target, which is used for rendering to a texture or set of textures. */
type RenderTarget struct {
	Name string
	/** @brief Colour and depth attachments, in attachment order. */
	Attachments []*Texture
	/** @brief The renderer API internal framebuffer object. nil means the default framebuffer. */
	InternalFramebuffer interface{}
}

/**
 * @brief The types of clearing to be done on a renderpass.
 * Can be combined together for multiple clearing functions.
 */
type RenderpassClearFlag uint32

const (
	/** @brief No clearing should be done. */
	RENDERPASS_CLEAR_NONE_FLAG RenderpassClearFlag = 0x0
	/** @brief Clear the colour buffer. */
	RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG RenderpassClearFlag = 0x1
	/** @brief Clear the depth buffer. */
	RENDERPASS_CLEAR_DEPTH_BUFFER_FLAG RenderpassClearFlag = 0x2
	/** @brief Clear the stencil buffer. */
	RENDERPASS_CLEAR_STENCIL_BUFFER_FLAG RenderpassClearFlag = 0x4
)

type CullFace int

const (
	CULL_FACE_BACK CullFace = iota
	CULL_FACE_FRONT
)

type PrimitiveTopology int

const (
	PRIMITIVE_TOPOLOGY_TRIANGLES PrimitiveTopology = iota
	PRIMITIVE_TOPOLOGY_LINES
)

func (t PrimitiveTopology) String() string {
	switch t {
	case PRIMITIVE_TOPOLOGY_TRIANGLES:
		return "triangles"
	case PRIMITIVE_TOPOLOGY_LINES:
		return "lines"
	}
	return "unknown"
}

package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/platform"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

type OpenGLRenderer struct {
	platform    *platform.Platform
	FrameNumber uint64

	framebufferWidth  uint32
	framebufferHeight uint32

	// shadow maps are rendered through one framebuffer, re-attached per layer
	shadowFramebuffer uint32
}

func New(p *platform.Platform) *OpenGLRenderer {
	return &OpenGLRenderer{
		platform: p,
	}
}

func (r *OpenGLRenderer) Initialize(config *metadata.RendererBackendConfig) error {
	if err := gl.Init(); err != nil {
		core.LogFatal("failed to initialize OpenGL: %s", err)
		return err
	}
	core.LogInfo("OpenGL %s, %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	r.framebufferWidth = config.Width
	r.framebufferHeight = config.Height
	if r.platform != nil {
		if w, h := r.platform.GetFramebufferSize(); w > 0 && h > 0 {
			r.framebufferWidth = w
			r.framebufferHeight = h
		}
	}

	gl.GenFramebuffers(1, &r.shadowFramebuffer)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Viewport(0, 0, int32(r.framebufferWidth), int32(r.framebufferHeight))

	if err := checkError("initialize"); err != nil {
		return err
	}
	core.LogInfo("OpenGL renderer initialized (%dx%d).", r.framebufferWidth, r.framebufferHeight)
	return nil
}

func (r *OpenGLRenderer) Shutdown() error {
	if r.shadowFramebuffer != 0 {
		gl.DeleteFramebuffers(1, &r.shadowFramebuffer)
		r.shadowFramebuffer = 0
	}
	return nil
}

func (r *OpenGLRenderer) Resized(width, height uint32) error {
	r.framebufferWidth = width
	r.framebufferHeight = height
	gl.Viewport(0, 0, int32(width), int32(height))
	return nil
}

func (r *OpenGLRenderer) BeginFrame(deltaTime float64) error {
	if r.framebufferWidth == 0 || r.framebufferHeight == 0 {
		return fmt.Errorf("framebuffer has no area, frame skipped")
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.framebufferWidth), int32(r.framebufferHeight))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (r *OpenGLRenderer) EndFrame(deltaTime float64) error {
	if err := checkError("frame"); err != nil {
		core.LogWarn(err.Error())
	}
	if r.platform != nil {
		r.platform.SwapBuffers()
	}
	r.FrameNumber++
	return nil
}

/**
 * @brief Binds the pass target and resets depth testing and culling. Light
 * passes add every light on top, transparent passes alpha blend.
 */
func (r *OpenGLRenderer) RenderPassBegin(pass *metadata.Pass, clear bool) {
	width, height := r.framebufferWidth, r.framebufferHeight
	var fbo uint32
	if pass.Target != nil {
		if fb, ok := pass.Target.InternalFramebuffer.(*framebuffer); ok {
			fbo = fb.id
			width, height = fb.width, fb.height
		}
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, int32(width), int32(height))

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	switch pass.DrawMode {
	case metadata.DRAW_MODE_LIGHT:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ONE, gl.ONE)
		gl.DepthMask(false)
	case metadata.DRAW_MODE_TRANSPARENT:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	default:
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}

	if !clear {
		return
	}
	if mask := clearMask(pass.ClearFlags); mask != 0 {
		// depth writes must be on for the clear to reach the depth buffer
		gl.DepthMask(true)
		c := pass.ClearColour
		gl.ClearColor(c[0], c[1], c[2], c[3])
		gl.Clear(mask)
		if pass.DrawMode == metadata.DRAW_MODE_LIGHT || pass.DrawMode == metadata.DRAW_MODE_TRANSPARENT {
			gl.DepthMask(false)
		}
	}
}

func (r *OpenGLRenderer) RenderPassEnd(pass *metadata.Pass) {
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
}

func (r *OpenGLRenderer) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
		return
	}
	gl.Disable(gl.DEPTH_TEST)
}

func (r *OpenGLRenderer) SetCullFace(face metadata.CullFace) {
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(glCullFace(face))
}

func (r *OpenGLRenderer) SetFramebufferSRGB(enabled bool) {
	if enabled {
		gl.Enable(gl.FRAMEBUFFER_SRGB)
		return
	}
	gl.Disable(gl.FRAMEBUFFER_SRGB)
}

// DrawIndexed draws from the index buffer bound by the last BindMesh or BindSubMesh.
func (r *OpenGLRenderer) DrawIndexed(topology metadata.PrimitiveTopology, indexCount uint32) {
	gl.DrawElements(glTopology(topology), int32(indexCount), gl.UNSIGNED_INT, nil)
}

/**
 * @brief Attaches one layer of a depth texture to the shadow framebuffer,
 * clears it and sets the viewport to the texture size.
 */
func (r *OpenGLRenderer) RenderTargetBegin(texture *metadata.Texture, layer uint32) error {
	gt, ok := texture.InternalData.(*glTexture)
	if !ok {
		return fmt.Errorf("texture '%s' has no GL storage", texture.Name)
	}
	if texture.Spec.Format != metadata.TEXTURE_FORMAT_DEPTH {
		return fmt.Errorf("texture '%s' is not a depth texture", texture.Name)
	}
	if layer >= max(texture.Spec.Layers, 1) {
		return fmt.Errorf("texture '%s' has no layer %d", texture.Name, layer)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, r.shadowFramebuffer)
	switch texture.Spec.Type {
	case metadata.TEXTURE_TYPE_CUBE:
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_CUBE_MAP_POSITIVE_X+layer, gt.id, 0)
	case metadata.TEXTURE_TYPE_2D_ARRAY:
		gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gt.id, 0, int32(layer))
	default:
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, gt.id, 0)
	}
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return fmt.Errorf("shadow framebuffer incomplete: 0x%x", status)
	}

	gl.Viewport(0, 0, int32(texture.Spec.Width), int32(texture.Spec.Height))
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	return nil
}

func (r *OpenGLRenderer) RenderTargetEnd(texture *metadata.Texture) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.framebufferWidth), int32(r.framebufferHeight))
}

func checkError(where string) error {
	var codes []uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		codes = append(codes, code)
		if len(codes) > 8 {
			break
		}
	}
	if len(codes) == 0 {
		return nil
	}
	return fmt.Errorf("%s: gl errors %#x", where, codes)
}

package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

type glTexture struct {
	id     uint32
	target uint32
}

type framebuffer struct {
	id     uint32
	width  uint32
	height uint32
	// depth storage for targets without a depth texture
	depthRenderbuffer uint32
}

/**
 * @brief Allocates GPU storage for a render texture. Nothing is uploaded,
 * the texture is only ever rendered into and sampled.
 */
func (r *OpenGLRenderer) RenderTargetCreate(spec metadata.TextureSpec, name string) (*metadata.Texture, error) {
	if spec.Width == 0 || spec.Height == 0 {
		return nil, fmt.Errorf("texture '%s' has no area", name)
	}
	if spec.Type == metadata.TEXTURE_TYPE_CUBE && spec.Layers != 6 {
		return nil, fmt.Errorf("cube texture '%s' needs 6 layers, got %d", name, spec.Layers)
	}

	t := &glTexture{target: textureTarget(spec.Type)}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(t.target, t.id)

	internal, format, xtype := textureFormat(spec.Format)
	w, h := int32(spec.Width), int32(spec.Height)
	switch spec.Type {
	case metadata.TEXTURE_TYPE_2D_ARRAY:
		gl.TexImage3D(t.target, 0, internal, w, h, int32(max(spec.Layers, 1)), 0, format, xtype, nil)
	case metadata.TEXTURE_TYPE_CUBE:
		for face := uint32(0); face < 6; face++ {
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, internal, w, h, 0, format, xtype, nil)
		}
		gl.TexParameteri(t.target, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	default:
		gl.TexImage2D(t.target, 0, internal, w, h, 0, format, xtype, nil)
	}

	gl.TexParameteri(t.target, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(t.target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(t.target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(t.target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(t.target, 0)

	if err := checkError("texture " + name); err != nil {
		gl.DeleteTextures(1, &t.id)
		return nil, err
	}

	texture := metadata.NewTexture(name, spec)
	texture.InternalData = t
	return texture, nil
}

func (r *OpenGLRenderer) RenderTargetDestroy(texture *metadata.Texture) {
	if texture == nil {
		return
	}
	if t, ok := texture.InternalData.(*glTexture); ok {
		gl.DeleteTextures(1, &t.id)
	}
	texture.InternalData = nil
}

/**
 * @brief Creates the framebuffer a pass renders into. Attachments must be
 * 2D textures of the same size.
 */
func (r *OpenGLRenderer) PassTargetCreate(name string, attachments []*metadata.Texture) (*metadata.RenderTarget, error) {
	if len(attachments) == 0 {
		return nil, fmt.Errorf("pass target '%s' has no attachments", name)
	}
	fb := &framebuffer{
		width:  attachments[0].Spec.Width,
		height: attachments[0].Spec.Height,
	}
	gl.GenFramebuffers(1, &fb.id)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.id)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	points, drawBuffers := attachmentPoints(attachments)
	hasDepth := false
	for i, t := range attachments {
		gt, ok := t.InternalData.(*glTexture)
		if !ok || gt.target != gl.TEXTURE_2D {
			gl.DeleteFramebuffers(1, &fb.id)
			return nil, fmt.Errorf("pass target '%s' attachment '%s' is not a 2D render texture", name, t.Name)
		}
		if t.Spec.Width != fb.width || t.Spec.Height != fb.height {
			gl.DeleteFramebuffers(1, &fb.id)
			return nil, fmt.Errorf("pass target '%s' attachment '%s' size differs", name, t.Name)
		}
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, points[i], gl.TEXTURE_2D, gt.id, 0)
		hasDepth = hasDepth || points[i] == gl.DEPTH_ATTACHMENT
	}

	if !hasDepth {
		gl.GenRenderbuffers(1, &fb.depthRenderbuffer)
		gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRenderbuffer)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(fb.width), int32(fb.height))
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depthRenderbuffer)
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	}

	if len(drawBuffers) > 0 {
		gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		r.destroyFramebuffer(fb)
		return nil, fmt.Errorf("pass target '%s' incomplete: 0x%x", name, status)
	}
	core.LogDebug("pass target '%s' created (%dx%d, %d colour attachments)", name, fb.width, fb.height, len(drawBuffers))

	return &metadata.RenderTarget{
		Name:                name,
		Attachments:         attachments,
		InternalFramebuffer: fb,
	}, nil
}

// PassTargetDestroy deletes the framebuffer. The attachments are owned by the caller.
func (r *OpenGLRenderer) PassTargetDestroy(target *metadata.RenderTarget) {
	if target == nil {
		return
	}
	if fb, ok := target.InternalFramebuffer.(*framebuffer); ok {
		r.destroyFramebuffer(fb)
	}
	target.InternalFramebuffer = nil
}

func (r *OpenGLRenderer) destroyFramebuffer(fb *framebuffer) {
	if fb.depthRenderbuffer != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthRenderbuffer)
		fb.depthRenderbuffer = 0
	}
	gl.DeleteFramebuffers(1, &fb.id)
	fb.id = 0
}

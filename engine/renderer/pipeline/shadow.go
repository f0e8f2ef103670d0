package pipeline

import (
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/scene"
)

/** @brief Number of cascades a directional light shadow is split into. */
const CascadeCount = 4

const (
	SHADOW_DEPTH_SHADER         string = "shadow_depth_shader"
	SHADOW_DEPTH_SKINNED_SHADER string = "shadow_depth_skinned_shader"
)

/**
 * @brief A rendered shadow map. The texture belongs to the pool until
 * Release is called, which is safe to call more than once.
 */
type ShadowResult struct {
	Texture *metadata.Texture
	/** @brief Light view-projection, or the cube projection for point lights. */
	Matrix math.Mat4
	/** @brief One view-projection per cascade, nearest first. */
	Cascades []math.Mat4
	Cascaded bool

	pool     TexturePool
	released bool
}

func (s *ShadowResult) Valid() bool {
	return s != nil && s.Texture != nil && !s.released
}

func (s *ShadowResult) Release() {
	if s == nil || s.released || s.Texture == nil {
		return
	}
	s.pool.Collect(s.Texture)
	s.released = true
}

/**
 * @brief The far distance of each cascade. The camera depth range is
 * split into CascadeCount equal slices.
 */
func CascadeSplits(near, far float32) [CascadeCount]float32 {
	var splits [CascadeCount]float32
	step := (far - near) / CascadeCount
	for i := range splits {
		splits[i] = step * float32(i+1)
	}
	return splits
}

/**
 * @brief Positions of the cascade boundaries along the frustum, 0 at the
 * near plane and 1 at the far plane. Cascade i spans [i, i+1]. Inner
 * boundaries sit at the CascadeSplits view depths the lighting shader
 * compares against; the last cascade reaches the far plane.
 */
func cascadeFractions(near, far float32) [CascadeCount + 1]float32 {
	var out [CascadeCount + 1]float32
	out[CascadeCount] = 1
	if far <= near {
		return out
	}
	splits := CascadeSplits(near, far)
	for i := 1; i < CascadeCount; i++ {
		out[i] = math.Clamp((splits[i-1]-near)/(far-near), 0, 1)
	}
	return out
}

type cubeFace struct {
	direction math.Vec3
	up        math.Vec3
}

// Standard cube map face order: +X, -X, +Y, -Y, +Z, -Z.
var cubeFaces = [6]cubeFace{
	{math.Vec3{1, 0, 0}, math.Vec3{0, -1, 0}},
	{math.Vec3{-1, 0, 0}, math.Vec3{0, -1, 0}},
	{math.Vec3{0, 1, 0}, math.Vec3{0, 0, 1}},
	{math.Vec3{0, -1, 0}, math.Vec3{0, 0, -1}},
	{math.Vec3{0, 0, 1}, math.Vec3{0, -1, 0}},
	{math.Vec3{0, 0, -1}, math.Vec3{0, -1, 0}},
}

// upFor returns an up vector that is not parallel to direction.
func upFor(direction math.Vec3) math.Vec3 {
	up := math.NewVec3Up()
	if math.Abs(direction.Dot(up)) > 0.99 {
		up = math.Vec3{0, 0, 1}
	}
	return up
}

/**
 * @brief Fits an orthographic projection looking along direction around
 * the given world corners. The near plane is pulled back by the bounding
 * radius so that casters between the light and the volume are kept.
 */
func fitOrthographic(corners []math.Vec3, direction math.Vec3) math.Mat4 {
	center := math.NewVec3Zero()
	for _, c := range corners {
		center = center.Add(c)
	}
	center = center.Mul(1 / float32(len(corners)))

	var radius float32
	for _, c := range corners {
		radius = max(radius, math.Distance(c, center))
	}

	eye := center.Sub(direction.Mul(radius))
	view := math.NewMat4LookAt(eye, center, upFor(direction))

	local := make([]math.Vec3, len(corners))
	for i, c := range corners {
		local[i] = math.TransformPoint(view, c)
	}
	bounds := math.NewExtents3DFromPoints(local)

	// view space looks down -Z
	near := -bounds.Max.Z() - radius
	far := -bounds.Min.Z()
	proj := math.NewMat4Orthographic(bounds.Min.X(), bounds.Max.X(), bounds.Min.Y(), bounds.Max.Y(), near, far)
	return proj.Mul4(view)
}

type depthShaders struct {
	static  metadata.Shader
	skinned metadata.Shader
}

func (p *Pipeline) lookupDepthShaders() (depthShaders, bool) {
	static, err := p.shaders.GetShader(SHADOW_DEPTH_SHADER)
	if err != nil {
		core.LogWarn("shadow map not drawn: %s", err.Error())
		return depthShaders{}, false
	}
	shaders := depthShaders{static: static}
	if skinned, err := p.shaders.GetShader(SHADOW_DEPTH_SKINNED_SHADER); err == nil {
		shaders.skinned = skinned
	}
	return shaders, true
}

// acquireShadow checks out a texture and the depth shaders, or returns nil.
func (p *Pipeline) acquireShadow(spec metadata.TextureSpec, owner string) (*ShadowResult, depthShaders) {
	tex, err := p.pool.Acquire(spec)
	if err != nil {
		core.LogWarn("light '%s' drawn without shadow: %s", owner, err.Error())
		return nil, depthShaders{}
	}
	result := &ShadowResult{Texture: tex, pool: p.pool}
	shaders, ok := p.lookupDepthShaders()
	if !ok {
		result.Release()
		return nil, depthShaders{}
	}
	return result, shaders
}

/**
 * @brief Draws the opaque units seen through viewProjection into one layer
 * of the texture.
 */
func (p *Pipeline) renderDepth(sm SceneManager, shaders depthShaders, tex *metadata.Texture, layer uint32, viewProjection math.Mat4) bool {
	if err := p.backend.RenderTargetBegin(tex, layer); err != nil {
		core.LogWarn("failed to begin shadow target '%s' layer %d: %s", tex.Name, layer, err.Error())
		return false
	}
	p.backend.SetDepthTest(true)
	p.backend.SetCullFace(metadata.CULL_FACE_BACK)

	sm.GetRenderQuery(math.NewFrustumFromMatrix(viewProjection), p.shadowQuery)

	var current metadata.Shader
	var currentMesh *metadata.Mesh
	for _, unit := range p.shadowQuery.OpaqueUnits {
		shader := shaders.static
		if unit.Mesh.Skinned {
			shader = shaders.skinned
		}
		if shader == nil {
			continue
		}
		if shader != current {
			if current != nil {
				current.UnBind()
			}
			shader.Bind()
			shader.BindMatrix(metadata.UNIFORM_SHADOW_MATRIX, viewProjection)
			current = shader
			currentMesh = nil
		}
		shader.BindMatrix(metadata.UNIFORM_WORLD_MATRIX, unit.Node.GetWorldMatrix())
		if unit.Mesh != currentMesh {
			shader.BindMesh(unit.Mesh)
			currentMesh = unit.Mesh
		}
		indexCount := uint32(len(unit.Mesh.Indices))
		if len(unit.Mesh.SubMeshes) > 0 && unit.SubMesh < len(unit.Mesh.SubMeshes) {
			shader.BindSubMesh(unit.Mesh, unit.SubMesh)
			indexCount = uint32(len(unit.Mesh.SubMeshes[unit.SubMesh].Indices))
		}
		p.backend.DrawIndexed(unit.Mesh.Topology, indexCount)
		p.stats.IncreaseDrawCall()
	}
	if current != nil {
		current.UnBind()
	}
	p.shadowQuery.Reset()
	p.backend.RenderTargetEnd(tex)
	return true
}

// finishShadow releases the texture when any layer failed to render.
func finishShadow(result *ShadowResult, ok bool) *ShadowResult {
	if !ok {
		result.Release()
		return nil
	}
	return result
}

// drawPointLightShadowMap renders the six faces of a cube shadow map around the light.
func (p *Pipeline) drawPointLightShadowMap(sm SceneManager, node *scene.Node) *ShadowResult {
	light := node.Light
	if light.Radius <= p.shadow.Near {
		core.LogWarn("light '%s' radius %.2f is inside the shadow near plane, no shadow drawn", node.Name, light.Radius)
		return nil
	}
	result, shaders := p.acquireShadow(metadata.TextureSpec{
		Width:  p.shadow.Resolution,
		Height: p.shadow.Resolution,
		Layers: 6,
		Type:   metadata.TEXTURE_TYPE_CUBE,
		Format: metadata.TEXTURE_FORMAT_DEPTH,
	}, node.Name)
	if result == nil {
		return nil
	}

	position := node.GetWorldPosition()
	projection := math.NewMat4Perspective(math.K_HALF_PI, 1, p.shadow.Near, light.Radius)
	ok := true
	for i, face := range cubeFaces {
		view := math.NewMat4LookAt(position, position.Add(face.direction), face.up)
		if !p.renderDepth(sm, shaders, result.Texture, uint32(i), projection.Mul4(view)) {
			ok = false
			break
		}
	}
	result.Matrix = projection
	return finishShadow(result, ok)
}

// drawSpotLightShadowMap renders a perspective shadow map covering the light cone.
func (p *Pipeline) drawSpotLightShadowMap(sm SceneManager, node *scene.Node) *ShadowResult {
	light := node.Light
	if light.Radius <= p.shadow.Near || light.OuterAngle <= 0 {
		core.LogWarn("light '%s' has no shadow volume, no shadow drawn", node.Name)
		return nil
	}
	result, shaders := p.acquireShadow(metadata.TextureSpec{
		Width:  p.shadow.Resolution,
		Height: p.shadow.Resolution,
		Layers: 1,
		Type:   metadata.TEXTURE_TYPE_2D,
		Format: metadata.TEXTURE_FORMAT_DEPTH,
	}, node.Name)
	if result == nil {
		return nil
	}

	position := node.GetWorldPosition()
	direction := node.LightDirection()
	view := math.NewMat4LookAt(position, position.Add(direction), upFor(direction))
	projection := math.NewMat4Perspective(light.OuterAngle, 1, p.shadow.Near, light.Radius)
	result.Matrix = projection.Mul4(view)
	return finishShadow(result, p.renderDepth(sm, shaders, result.Texture, 0, result.Matrix))
}

// drawDirLightShadowMap fits one orthographic shadow map around the whole camera frustum.
func (p *Pipeline) drawDirLightShadowMap(frame *frameContext, sm SceneManager, node *scene.Node) *ShadowResult {
	result, shaders := p.acquireShadow(metadata.TextureSpec{
		Width:  p.shadow.Resolution,
		Height: p.shadow.Resolution,
		Layers: 1,
		Type:   metadata.TEXTURE_TYPE_2D,
		Format: metadata.TEXTURE_FORMAT_DEPTH,
	}, node.Name)
	if result == nil {
		return nil
	}

	corners := frame.camera.GetFrustum().Corners
	result.Matrix = fitOrthographic(corners[:], node.LightDirection())
	return finishShadow(result, p.renderDepth(sm, shaders, result.Texture, 0, result.Matrix))
}

/**
 * @brief Splits the camera frustum at the cascade split depths and renders
 * each slice into its own layer of an array texture.
 */
func (p *Pipeline) drawCascadedShadowMap(frame *frameContext, sm SceneManager, node *scene.Node) *ShadowResult {
	result, shaders := p.acquireShadow(metadata.TextureSpec{
		Width:  p.shadow.Resolution,
		Height: p.shadow.Resolution,
		Layers: CascadeCount,
		Type:   metadata.TEXTURE_TYPE_2D_ARRAY,
		Format: metadata.TEXTURE_FORMAT_DEPTH,
	}, node.Name)
	if result == nil {
		return nil
	}

	frustum := frame.camera.GetFrustum()
	direction := node.LightDirection()
	fractions := cascadeFractions(frame.camera.GetNear(), frame.camera.GetFar())
	result.Cascaded = true
	result.Cascades = make([]math.Mat4, 0, CascadeCount)
	ok := true
	for i := 0; i < CascadeCount; i++ {
		slice := frustum.SliceCorners(fractions[i], fractions[i+1])
		matrix := fitOrthographic(slice[:], direction)
		if !p.renderDepth(sm, shaders, result.Texture, uint32(i), matrix) {
			ok = false
			break
		}
		result.Cascades = append(result.Cascades, matrix)
	}
	return finishShadow(result, ok)
}

package pipeline

import (
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/scene"
)

const (
	POINT_LIGHT_SHADER        string = "pointlight_shader"
	POINT_LIGHT_SHADOW_SHADER string = "pointlight_shadow_shader"
	DIR_LIGHT_SHADER          string = "dirlight_shader"
	DIR_LIGHT_SHADOW_SHADER   string = "dirlight_shadow_shader"
	DIR_LIGHT_CSM_SHADER      string = "dirlight_csm_shader"
	SPOT_LIGHT_SHADER         string = "spotlight_shader"
	SPOT_LIGHT_SHADOW_SHADER  string = "spotlight_shadow_shader"
)

// BuiltinShaderNames lists the shaders the pipeline looks up by name on its own.
func BuiltinShaderNames() []string {
	return []string{
		POINT_LIGHT_SHADER, POINT_LIGHT_SHADOW_SHADER,
		DIR_LIGHT_SHADER, DIR_LIGHT_SHADOW_SHADER, DIR_LIGHT_CSM_SHADER,
		SPOT_LIGHT_SHADER, SPOT_LIGHT_SHADOW_SHADER,
		SHADOW_DEPTH_SHADER, SHADOW_DEPTH_SKINNED_SHADER,
		DEBUG_LINE_SHADER,
	}
}

// LightShaderName returns the shader variant for a light. cascaded only matters for shadowed directional lights.
func LightShaderName(lightType metadata.LightType, castShadows, cascaded bool) string {
	switch lightType {
	case metadata.LIGHT_TYPE_POINT:
		if castShadows {
			return POINT_LIGHT_SHADOW_SHADER
		}
		return POINT_LIGHT_SHADER
	case metadata.LIGHT_TYPE_DIRECTIONAL:
		if !castShadows {
			return DIR_LIGHT_SHADER
		}
		if cascaded {
			return DIR_LIGHT_CSM_SHADER
		}
		return DIR_LIGHT_SHADOW_SHADER
	case metadata.LIGHT_TYPE_SPOT:
		if castShadows {
			return SPOT_LIGHT_SHADOW_SHADER
		}
		return SPOT_LIGHT_SHADER
	}
	return ""
}

/**
 * @brief Reports whether the camera sits inside a point light volume,
 * grown by camNear so the near plane cannot clip the front faces.
 */
func InsidePointLightVolume(center math.Vec3, radius, camNear float32, cameraPosition math.Vec3) bool {
	return math.Sphere{Center: center, Radius: radius + camNear}.Contains(cameraPosition)
}

/**
 * @brief Reports whether the camera sits inside a spot light cone. The apex
 * is moved back along the axis so that the cone surface lies camNear
 * outside the original one, and the height grows to match.
 */
func InsideSpotLightVolume(apex, direction math.Vec3, radius, outerAngle, camNear float32, cameraPosition math.Vec3) bool {
	theta := outerAngle * 0.5
	sinTheta := math.Sin(theta)
	if sinTheta <= math.K_FLOAT_EPSILON {
		return false
	}
	extra := camNear / sinTheta
	apex = apex.Sub(direction.Mul(extra))
	height := radius + camNear + extra
	return math.PointInCone(apex, direction, height, theta, cameraPosition)
}

// setVolumeState draws back faces without depth test when the camera is inside the volume.
func (p *Pipeline) setVolumeState(inside bool) {
	if inside {
		p.backend.SetDepthTest(false)
		p.backend.SetCullFace(metadata.CULL_FACE_FRONT)
		return
	}
	p.backend.SetDepthTest(true)
	p.backend.SetCullFace(metadata.CULL_FACE_BACK)
}

// drawLight resolves one light node into the light pass.
func (p *Pipeline) drawLight(frame *frameContext, sm SceneManager, pass *metadata.Pass, node *scene.Node) {
	if node.Light == nil {
		return
	}
	switch node.Light.Type {
	case metadata.LIGHT_TYPE_DIRECTIONAL:
		p.drawDirLight(frame, sm, pass, node)
	case metadata.LIGHT_TYPE_POINT:
		p.drawPointLight(frame, sm, pass, node)
	case metadata.LIGHT_TYPE_SPOT:
		p.drawSpotLight(frame, sm, pass, node)
	default:
		core.LogWarn("light '%s' has unknown type %d", node.Name, node.Light.Type)
	}
	frame.reset()
}

// lightShader returns the shader for the light or logs why there is none.
func (p *Pipeline) lightShader(node *scene.Node, cascaded bool) metadata.Shader {
	if node.Light.Mesh == nil {
		core.LogWarn("Mesh for light %s not found!", node.Name)
		return nil
	}
	name := LightShaderName(node.Light.Type, node.Light.CastShadows, cascaded)
	shader, err := p.shaders.GetShader(name)
	if err != nil {
		core.LogWarn("Shader for light %s not found! %s", node.Name, err.Error())
		return nil
	}
	return shader
}

/**
 * @brief Binds everything a light volume needs and draws it inside the
 * pass. The pass is begun without clearing so lights accumulate.
 */
func (p *Pipeline) drawLightVolume(frame *frameContext, pass *metadata.Pass, node *scene.Node, shader metadata.Shader, world math.Mat4, shadow *ShadowResult, inside bool) {
	p.backend.RenderPassBegin(pass, false)
	p.setVolumeState(inside)

	frame.shader = shader
	shader.Bind()
	shader.BindCamera(frame.camera)
	shader.BindMatrix(metadata.UNIFORM_WORLD_MATRIX, world)

	if shadow.Valid() {
		shader.BindTexture(metadata.UNIFORM_SHADOW_BUFFER, shadow.Texture)
		if shadow.Cascaded {
			shader.BindMatrices(metadata.UNIFORM_SHADOW_MATRIX, shadow.Cascades)
			splits := CascadeSplits(frame.camera.GetNear(), frame.camera.GetFar())
			shader.BindFloat(metadata.UNIFORM_SHADOW_FAR, splits[:]...)
		} else {
			shader.BindMatrix(metadata.UNIFORM_SHADOW_MATRIX, shadow.Matrix)
		}
	}

	mesh := node.Light.Mesh
	shader.BindLight(node.Light, node.GetWorldMatrix())
	shader.BindMesh(mesh)
	p.bindPassTextures(shader, pass)

	p.backend.DrawIndexed(mesh.Topology, uint32(len(mesh.Indices)))

	shader.UnBind()

	p.stats.IncreaseDrawCall()
	p.stats.IncreaseLightCount()

	p.backend.RenderPassEnd(pass)
}

func (p *Pipeline) drawPointLight(frame *frameContext, sm SceneManager, pass *metadata.Pass, node *scene.Node) {
	shader := p.lightShader(node, false)
	if shader == nil {
		return
	}
	light := node.Light

	var shadow *ShadowResult
	if light.CastShadows {
		shadow = p.drawPointLightShadowMap(sm, node)
		defer shadow.Release()
	}

	camNear := frame.camera.NearPlaneDistance()
	inside := InsidePointLightVolume(node.GetWorldPosition(), light.Radius, camNear, frame.camera.GetWorldPosition())
	world := math.Mat4AppendScale(node.GetWorldMatrix(), math.NewVec3(light.Radius, light.Radius, light.Radius))

	p.drawLightVolume(frame, pass, node, shader, world, shadow, inside)
}

func (p *Pipeline) drawSpotLight(frame *frameContext, sm SceneManager, pass *metadata.Pass, node *scene.Node) {
	shader := p.lightShader(node, false)
	if shader == nil {
		return
	}
	light := node.Light

	var shadow *ShadowResult
	if light.CastShadows {
		shadow = p.drawSpotLightShadowMap(sm, node)
		defer shadow.Release()
	}

	camNear := frame.camera.NearPlaneDistance()
	inside := InsideSpotLightVolume(node.GetWorldPosition(), node.LightDirection(), light.Radius, light.OuterAngle, camNear, frame.camera.GetWorldPosition())

	p.drawLightVolume(frame, pass, node, shader, node.GetWorldMatrix(), shadow, inside)
}

func (p *Pipeline) drawDirLight(frame *frameContext, sm SceneManager, pass *metadata.Pass, node *scene.Node) {
	cascaded := p.IsSwitchOn(SWITCH_CASCADED_SHADOW_MAP)
	shader := p.lightShader(node, cascaded)
	if shader == nil {
		return
	}

	var shadow *ShadowResult
	if node.Light.CastShadows {
		if cascaded {
			shadow = p.drawCascadedShadowMap(frame, sm, node)
		} else {
			shadow = p.drawDirLightShadowMap(frame, sm, node)
		}
		defer shadow.Release()
	}

	// directional volumes cover the screen, the camera is never inside
	p.drawLightVolume(frame, pass, node, shader, node.GetWorldMatrix(), shadow, false)
}

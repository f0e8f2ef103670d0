package pipeline

import (
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/scene"
)

func (p *Pipeline) bindPassTextures(shader metadata.Shader, pass *metadata.Pass) {
	for _, t := range pass.Textures {
		shader.BindTexture(t.Name, t)
	}
}

// unitShader picks the material override for the pass, then the pass variant for the mesh.
func unitShader(pass *metadata.Pass, unit scene.RenderUnit) metadata.Shader {
	if sh := unit.Material.GetShaderForPass(pass.RenderIndex); sh != nil {
		return sh
	}
	flags := metadata.TEXTURE_FLAG_NONE
	if unit.Material != nil {
		flags = unit.Material.TextureFlags
	}
	return pass.GetShader(unit.Mesh.Kind(), flags)
}

/**
 * @brief Draws one unit, rebinding only what differs from the previous
 * unit. A shader switch, including one caused by a material switch,
 * forces the material and mesh to be bound again.
 */
func (p *Pipeline) drawUnit(frame *frameContext, pass *metadata.Pass, unit scene.RenderUnit) {
	if unit.Mesh == nil {
		core.LogWarn("Failed to draw %s, mesh not found!", unit.Node.Name)
		return
	}
	if unit.Material == nil {
		unit.Material = p.material
	}
	shader := unitShader(pass, unit)
	if shader == nil {
		core.LogWarn("Failed to draw %s, shader not found!", unit.Node.Name)
		return
	}

	materialChanged := unit.Material != frame.material
	frame.material = unit.Material

	meshChanged := unit.Mesh != frame.mesh
	frame.mesh = unit.Mesh

	shaderChanged := materialChanged || shader != frame.shader
	frame.shader = shader

	if shaderChanged {
		materialChanged = true
		meshChanged = true

		shader.Bind()
		shader.BindCamera(frame.camera)
		p.bindPassTextures(shader, pass)
	}

	if materialChanged {
		shader.BindMaterial(unit.Material)
	}

	shader.BindMatrix(metadata.UNIFORM_WORLD_MATRIX, unit.Node.GetWorldMatrix())

	if meshChanged {
		shader.BindMesh(unit.Mesh)
	}

	var indexCount uint32
	if len(unit.Mesh.SubMeshes) > 0 && unit.SubMesh < len(unit.Mesh.SubMeshes) {
		shader.BindSubMesh(unit.Mesh, unit.SubMesh)
		indexCount = uint32(len(unit.Mesh.SubMeshes[unit.SubMesh].Indices))
	} else {
		indexCount = uint32(len(unit.Mesh.Indices))
	}
	p.backend.DrawIndexed(unit.Mesh.Topology, indexCount)

	p.stats.IncreaseTriangleCount(indexCount)
	if unit.Mesh.Skinned {
		p.stats.IncreaseSkinnedMeshCount()
	} else {
		p.stats.IncreaseMeshCount()
	}
	p.stats.IncreaseDrawCall()
}

// drawQuad draws the full-screen quad with the first shader of the pass.
func (p *Pipeline) drawQuad(frame *frameContext, pass *metadata.Pass) {
	shader := pass.FirstShader()
	if shader == nil {
		core.LogWarn("Failed to draw full screen quad for pass '%s', shader not found!", pass.Name)
		return
	}
	mesh := p.quadMesh

	frame.shader = shader
	shader.Bind()
	shader.BindMesh(mesh)
	shader.BindCamera(frame.camera)
	p.bindPassTextures(shader, pass)

	indexCount := uint32(len(mesh.Indices))
	p.backend.DrawIndexed(mesh.Topology, indexCount)

	p.stats.IncreaseDrawCall()
	p.stats.IncreaseTriangleCount(indexCount)
}

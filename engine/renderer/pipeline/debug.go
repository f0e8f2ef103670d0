package pipeline

import (
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/scene"
)

const DEBUG_LINE_SHADER string = "debug_line_shader"

var (
	meshBoundsColour   = math.NewVec4(0, 1, 0, 1)
	lightBoundsColour  = math.NewVec4(1, 1, 0, 1)
	customBoundsColour = math.NewVec4(1, 0, 1, 1)
)

// drawDebug outlines the bounds selected by the debug switches on top of the frame.
func (p *Pipeline) drawDebug(frame *frameContext) {
	shader, err := p.shaders.GetShader(DEBUG_LINE_SHADER)
	if err != nil {
		core.LogWarn("debug bounds not drawn: %s", err.Error())
		return
	}

	p.backend.RenderPassBegin(p.debugPass, false)
	frame.shader = shader
	shader.Bind()
	shader.BindCamera(frame.camera)
	shader.BindMesh(p.lineCubeMesh)

	if p.IsSwitchOn(SWITCH_MESH_BOUNDS) {
		shader.BindFloat(metadata.UNIFORM_DEBUG_COLOUR, meshBoundsColour[:]...)
		for _, unit := range p.query.OpaqueUnits {
			p.drawUnitBounds(shader, unit)
		}
		for _, unit := range p.query.TransparentUnits {
			p.drawUnitBounds(shader, unit)
		}
	}

	if p.IsSwitchOn(SWITCH_LIGHT_BOUNDS) {
		shader.BindFloat(metadata.UNIFORM_DEBUG_COLOUR, lightBoundsColour[:]...)
		for _, node := range p.query.LightNodes {
			if node.Light.Type == metadata.LIGHT_TYPE_DIRECTIONAL {
				continue
			}
			sphere := math.Sphere{Center: node.GetWorldPosition(), Radius: node.Light.Radius}
			p.drawBox(shader, sphere.Extents())
		}
	}

	if p.IsSwitchOn(SWITCH_CUSTOM_BOUNDS) {
		shader.BindFloat(metadata.UNIFORM_DEBUG_COLOUR, customBoundsColour[:]...)
		seen := make(map[*scene.Node]bool)
		visit := func(n *scene.Node) {
			if n.CustomBounds == nil || seen[n] {
				return
			}
			seen[n] = true
			p.drawBox(shader, n.CustomBounds.Transform(n.GetWorldMatrix()))
		}
		for _, unit := range p.query.OpaqueUnits {
			visit(unit.Node)
		}
		for _, unit := range p.query.TransparentUnits {
			visit(unit.Node)
		}
		for _, node := range p.query.LightNodes {
			visit(node)
		}
	}

	shader.UnBind()
	frame.reset()
	p.backend.RenderPassEnd(p.debugPass)
}

func (p *Pipeline) drawUnitBounds(shader metadata.Shader, unit scene.RenderUnit) {
	if bounds, ok := unit.Node.WorldBounds(); ok {
		p.drawBox(shader, bounds)
	}
}

// drawBox stretches the unit line cube over the box.
func (p *Pipeline) drawBox(shader metadata.Shader, bounds math.Extents3D) {
	world := math.NewMat4Translation(bounds.Center()).Mul4(math.NewMat4Scale(bounds.Size()))
	shader.BindMatrix(metadata.UNIFORM_WORLD_MATRIX, world)
	p.backend.DrawIndexed(p.lineCubeMesh.Topology, uint32(len(p.lineCubeMesh.Indices)))
	p.stats.IncreaseDrawCall()
}

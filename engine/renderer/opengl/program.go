package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/components"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

/** @brief Uniform names uploaded by BindCamera, BindMaterial and BindLight. */
const (
	UNIFORM_PROJECTION              string = "projection"
	UNIFORM_VIEW                    string = "view"
	UNIFORM_VIEW_POSITION           string = "view_position"
	UNIFORM_INVERSE_VIEW_PROJECTION string = "inverse_view_projection"
	UNIFORM_DIFFUSE_COLOUR          string = "diffuse_colour"
	UNIFORM_LIGHT_COLOUR            string = "light_colour"
	UNIFORM_LIGHT_POSITION          string = "light_position"
	UNIFORM_LIGHT_DIRECTION         string = "light_direction"
	UNIFORM_LIGHT_RADIUS            string = "light_radius"
	UNIFORM_LIGHT_COS_OUTER         string = "light_cos_outer"
)

type uniform struct {
	location int32
	xtype    uint32
	size     int32
	// texture unit of sampler uniforms, -1 otherwise
	unit int32
}

/**
 * @brief A linked GL program. Uniforms are reflected at link time and
 * every sampler gets a fixed texture unit.
 */
type Program struct {
	name     string
	id       uint32
	uniforms map[string]uniform
}

func (p *Program) Name() string {
	return p.name
}

func (p *Program) Bind() {
	gl.UseProgram(p.id)
}

func (p *Program) UnBind() {
	gl.UseProgram(0)
}

func (p *Program) lookup(name string) (uniform, bool) {
	u, ok := p.uniforms[name]
	return u, ok
}

func (p *Program) BindCamera(camera *components.Camera) {
	projection := camera.GetProjection()
	view := camera.GetView()
	p.BindMatrix(UNIFORM_PROJECTION, projection)
	p.BindMatrix(UNIFORM_VIEW, view)
	p.BindMatrix(UNIFORM_INVERSE_VIEW_PROJECTION, projection.Mul4(view).Inv())
	pos := camera.GetWorldPosition()
	p.BindFloat(UNIFORM_VIEW_POSITION, pos[:]...)
}

func (p *Program) BindMatrix(name string, matrix math.Mat4) {
	if u, ok := p.lookup(name); ok {
		gl.UniformMatrix4fv(u.location, 1, false, &matrix[0])
	}
}

func (p *Program) BindMatrices(name string, matrices []math.Mat4) {
	u, ok := p.lookup(name)
	if !ok || len(matrices) == 0 {
		return
	}
	count := min(int32(len(matrices)), u.size)
	gl.UniformMatrix4fv(u.location, count, false, &matrices[0][0])
}

func (p *Program) BindMaterial(material *metadata.Material) {
	if material == nil {
		core.LogWarn("shader '%s': no material to bind", p.name)
		return
	}
	c := material.DiffuseColour
	p.BindFloat(UNIFORM_DIFFUSE_COLOUR, c[:]...)
	for sampler, t := range material.Textures {
		p.BindTexture(sampler, t)
	}
}

func (p *Program) BindMesh(mesh *metadata.Mesh) {
	m, ok := mesh.InternalData.(*glMesh)
	if !ok {
		core.LogWarn("mesh '%s' is not uploaded", mesh.Name)
		return
	}
	gl.BindVertexArray(m.vao)
	// a previous BindSubMesh may have replaced the index buffer
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
}

func (p *Program) BindSubMesh(mesh *metadata.Mesh, index int) {
	if index < 0 || index >= len(mesh.SubMeshes) {
		core.LogWarn("mesh '%s' has no submesh %d", mesh.Name, index)
		return
	}
	if s, ok := mesh.SubMeshes[index].InternalData.(*glSubMesh); ok {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.ebo)
	}
}

func (p *Program) BindTexture(name string, texture *metadata.Texture) {
	u, ok := p.lookup(name)
	if !ok || u.unit < 0 || texture == nil {
		return
	}
	t, ok := texture.InternalData.(*glTexture)
	if !ok {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(u.unit))
	gl.BindTexture(t.target, t.id)
}

func (p *Program) BindLight(light *metadata.Light, world math.Mat4) {
	colour := light.Colour.Vec3().Mul(light.Intensity)
	p.BindFloat(UNIFORM_LIGHT_COLOUR, colour[:]...)
	pos := math.Mat4Position(world)
	p.BindFloat(UNIFORM_LIGHT_POSITION, pos[:]...)
	dir := math.TransformDirection(world, metadata.LocalDirection).Normalize()
	p.BindFloat(UNIFORM_LIGHT_DIRECTION, dir[:]...)
	p.BindFloat(UNIFORM_LIGHT_RADIUS, light.Radius)
	p.BindFloat(UNIFORM_LIGHT_COS_OUTER, math.Cos(light.OuterAngle/2))
}

func (p *Program) BindFloat(name string, values ...float32) {
	u, ok := p.lookup(name)
	if !ok || len(values) == 0 {
		return
	}
	switch floatUploadFor(u.xtype, u.size, len(values)) {
	case uploadArray:
		gl.Uniform1fv(u.location, min(int32(len(values)), u.size), &values[0])
	case uploadVec2:
		if len(values) >= 2 {
			gl.Uniform2f(u.location, values[0], values[1])
		}
	case uploadVec3:
		if len(values) >= 3 {
			gl.Uniform3f(u.location, values[0], values[1], values[2])
		}
	case uploadVec4:
		if len(values) >= 4 {
			gl.Uniform4f(u.location, values[0], values[1], values[2], values[3])
		}
	default:
		gl.Uniform1f(u.location, values[0])
	}
}

func isSampler(xtype uint32) bool {
	switch xtype {
	case gl.SAMPLER_2D, gl.SAMPLER_2D_ARRAY, gl.SAMPLER_CUBE,
		gl.SAMPLER_2D_SHADOW, gl.SAMPLER_2D_ARRAY_SHADOW, gl.SAMPLER_CUBE_SHADOW:
		return true
	}
	return false
}

// reflect reads the active uniforms of a linked program and assigns sampler units.
func reflectUniforms(program uint32) map[string]uniform {
	var count int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	uniforms := make(map[string]uniform, count)

	gl.UseProgram(program)
	defer gl.UseProgram(0)

	buf := make([]uint8, 256)
	var unit int32
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, i, int32(len(buf)), &length, &size, &xtype, &buf[0])
		raw := string(buf[:length])
		name := uniformBaseName(raw)

		u := uniform{
			location: gl.GetUniformLocation(program, gl.Str(raw+"\x00")),
			xtype:    xtype,
			size:     size,
			unit:     -1,
		}
		if isSampler(xtype) {
			u.unit = unit
			gl.Uniform1i(u.location, unit)
			unit++
		}
		uniforms[name] = u
	}
	return uniforms
}

func glStage(stage metadata.ShaderStage) uint32 {
	if stage == metadata.SHADER_STAGE_FRAGMENT {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

/**
 * @brief Compiles and links the stage sources into a Program. Compile and
 * link failures carry the GL info log.
 */
func (r *OpenGLRenderer) ShaderCreate(name string, sources map[metadata.ShaderStage]string) (metadata.Shader, error) {
	if _, ok := sources[metadata.SHADER_STAGE_VERTEX]; !ok {
		return nil, fmt.Errorf("shader '%s' has no vertex stage", name)
	}
	if _, ok := sources[metadata.SHADER_STAGE_FRAGMENT]; !ok {
		return nil, fmt.Errorf("shader '%s' has no fragment stage", name)
	}

	program := gl.CreateProgram()
	var stages []uint32
	for _, stage := range []metadata.ShaderStage{metadata.SHADER_STAGE_VERTEX, metadata.SHADER_STAGE_FRAGMENT} {
		s, err := compileShader(sources[stage], glStage(stage))
		if err != nil {
			for _, done := range stages {
				gl.DeleteShader(done)
			}
			gl.DeleteProgram(program)
			return nil, fmt.Errorf("shader '%s' %s stage: %w", name, strings.TrimSuffix(stage.Extension()[1:], ".glsl"), err)
		}
		gl.AttachShader(program, s)
		stages = append(stages, s)
	}
	gl.LinkProgram(program)
	for _, s := range stages {
		gl.DeleteShader(s)
	}

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("failed to link shader '%s': %v", name, log)
	}

	return &Program{
		name:     name,
		id:       program,
		uniforms: reflectUniforms(program),
	}, nil
}

func (r *OpenGLRenderer) ShaderDestroy(shader metadata.Shader) {
	if p, ok := shader.(*Program); ok && p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		log := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile: %v", log)
	}
	return shader, nil
}

func infoLog(object uint32, getiv func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var length int32
	getiv(object, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	getLog(object, length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

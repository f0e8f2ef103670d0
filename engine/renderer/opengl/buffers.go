package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

// positions only, attribute 0
const positionAttribute uint32 = 0

type glMesh struct {
	vao uint32
	vbo uint32
	ebo uint32
}

type glSubMesh struct {
	ebo uint32
}

func uploadIndices(indices []uint32) uint32 {
	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	return ebo
}

/**
 * @brief Uploads the positions and indices of a mesh and every submesh.
 * Each submesh gets its own index buffer over the shared vertices.
 */
func (r *OpenGLRenderer) MeshUpload(mesh *metadata.Mesh) error {
	if len(mesh.Positions) == 0 || len(mesh.Indices) == 0 {
		return fmt.Errorf("mesh '%s' has no geometry", mesh.Name)
	}
	for i, sm := range mesh.SubMeshes {
		if len(sm.Indices) == 0 {
			return fmt.Errorf("mesh '%s' submesh %d has no indices", mesh.Name, i)
		}
	}

	m := &glMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Positions)*3*4, gl.Ptr(mesh.Positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(positionAttribute)
	gl.VertexAttribPointerWithOffset(positionAttribute, 3, gl.FLOAT, false, 3*4, 0)

	m.ebo = uploadIndices(mesh.Indices)
	gl.BindVertexArray(0)

	for _, sm := range mesh.SubMeshes {
		sm.InternalData = &glSubMesh{ebo: uploadIndices(sm.Indices)}
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	mesh.InternalData = m
	return checkError("mesh " + mesh.Name)
}

func (r *OpenGLRenderer) MeshDestroy(mesh *metadata.Mesh) {
	for _, sm := range mesh.SubMeshes {
		if s, ok := sm.InternalData.(*glSubMesh); ok {
			gl.DeleteBuffers(1, &s.ebo)
		}
		sm.InternalData = nil
	}
	if m, ok := mesh.InternalData.(*glMesh); ok {
		gl.DeleteBuffers(1, &m.ebo)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteVertexArrays(1, &m.vao)
	}
	mesh.InternalData = nil
}

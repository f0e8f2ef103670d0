package metadata

import (
	"github.com/spaghettifunk/prelight/engine/math"
)

/** @brief Mesh kinds used to pick a pass shader variant. */
type MeshKind int

const (
	MESH_KIND_STATIC MeshKind = iota
	MESH_KIND_SKINNED
)

/** @brief A contiguous range of a mesh drawn with its own material. */
type SubMesh struct {
	Indices []uint32
	/** @brief Backend index buffer, set on upload. */
	InternalData interface{}
}

type Mesh struct {
	ID        uint32
	Name      string
	Skinned   bool
	Positions []math.Vec3
	Indices   []uint32
	SubMeshes []*SubMesh
	/** @brief Local space bounds of Positions. */
	Bounds math.Extents3D
	/** @brief Primitive topology used to draw Indices. */
	Topology PrimitiveTopology
	/** @brief Backend vertex array, set on upload. */
	InternalData interface{}
}

func NewMesh(id uint32, name string, positions []math.Vec3, indices []uint32) *Mesh {
	return &Mesh{
		ID:        id,
		Name:      name,
		Positions: positions,
		Indices:   indices,
		Bounds:    math.NewExtents3DFromPoints(positions),
		Topology:  PRIMITIVE_TOPOLOGY_TRIANGLES,
	}
}

func (m *Mesh) Kind() MeshKind {
	if m.Skinned {
		return MESH_KIND_SKINNED
	}
	return MESH_KIND_STATIC
}

// AddSubMesh registers a range of the mesh indices as a separately drawn part.
func (m *Mesh) AddSubMesh(indices []uint32) *SubMesh {
	sm := &SubMesh{Indices: indices}
	m.SubMeshes = append(m.SubMeshes, sm)
	return sm
}

/** @brief Names of the meshes the pipeline creates for itself. */
const (
	BUILTIN_MESH_QUAD      string = "builtin_quad"
	BUILTIN_MESH_LINE_CUBE string = "builtin_line_cube"
	BUILTIN_MESH_SPHERE    string = "builtin_sphere"
	BUILTIN_MESH_CONE      string = "builtin_cone"
)

func meshFromPrimitive(id uint32, name string, p math.Primitive, topology PrimitiveTopology) *Mesh {
	m := NewMesh(id, name, p.Positions, p.Indices)
	m.Topology = topology
	return m
}

// NewQuadMesh returns the full-screen quad drawn by quad passes.
func NewQuadMesh() *Mesh {
	return meshFromPrimitive(0, BUILTIN_MESH_QUAD, math.GenerateQuad(), PRIMITIVE_TOPOLOGY_TRIANGLES)
}

// NewLineCubeMesh returns the unit line cube drawn by the debug overlay.
func NewLineCubeMesh() *Mesh {
	return meshFromPrimitive(0, BUILTIN_MESH_LINE_CUBE, math.GenerateLineCube(), PRIMITIVE_TOPOLOGY_LINES)
}

// NewSphereMesh returns a unit sphere used as a point light volume.
func NewSphereMesh() *Mesh {
	return meshFromPrimitive(0, BUILTIN_MESH_SPHERE, math.GenerateSphere(16, 24), PRIMITIVE_TOPOLOGY_TRIANGLES)
}

// NewConeMesh returns a unit cone opening along -Y used as a spot light volume.
func NewConeMesh() *Mesh {
	return meshFromPrimitive(0, BUILTIN_MESH_CONE, math.GenerateCone(24), PRIMITIVE_TOPOLOGY_TRIANGLES)
}

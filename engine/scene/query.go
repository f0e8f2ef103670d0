package scene

import (
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"golang.org/x/exp/slices"
)

/**
 * @brief One drawable piece of a node: a mesh (or one of its submeshes)
 * with the material it is drawn with. Only valid for the frame it was
 * produced in.
 */
type RenderUnit struct {
	Node     *Node
	Mesh     *metadata.Mesh
	Material *metadata.Material
	/** @brief Index into Mesh.SubMeshes, ignored when the mesh has none. */
	SubMesh int
}

/**
 * @brief The visible set of a frame, split by category.
 */
type RenderQuery struct {
	OpaqueUnits      []RenderUnit
	TransparentUnits []RenderUnit
	LightNodes       []*Node
}

func NewRenderQuery() *RenderQuery {
	return &RenderQuery{}
}

// Reset empties the query while keeping the allocated capacity.
func (q *RenderQuery) Reset() {
	clear(q.OpaqueUnits)
	clear(q.TransparentUnits)
	clear(q.LightNodes)
	q.OpaqueUnits = q.OpaqueUnits[:0]
	q.TransparentUnits = q.TransparentUnits[:0]
	q.LightNodes = q.LightNodes[:0]
}

func (q *RenderQuery) AddUnit(unit RenderUnit) {
	if unit.Material != nil && unit.Material.Transparent {
		q.TransparentUnits = append(q.TransparentUnits, unit)
		return
	}
	q.OpaqueUnits = append(q.OpaqueUnits, unit)
}

func (q *RenderQuery) AddLight(node *Node) {
	q.LightNodes = append(q.LightNodes, node)
}

/**
 * @brief Orders the units against a reference point, normally the camera.
 * Opaque units are batched by material, then mesh, then front to back.
 * Transparent units are strictly back to front.
 */
func (q *RenderQuery) Sort(ref math.Vec3) {
	distance := func(u RenderUnit) float32 {
		return math.DistanceSquared(u.Node.GetWorldPosition(), ref)
	}

	slices.SortStableFunc(q.OpaqueUnits, func(a, b RenderUnit) int {
		if c := compareID(materialID(a.Material), materialID(b.Material)); c != 0 {
			return c
		}
		if c := compareID(meshID(a.Mesh), meshID(b.Mesh)); c != 0 {
			return c
		}
		return compareFloat(distance(a), distance(b))
	})
	slices.SortStableFunc(q.TransparentUnits, func(a, b RenderUnit) int {
		return compareFloat(distance(b), distance(a))
	})
}

func materialID(m *metadata.Material) uint32 {
	if m == nil {
		return 0
	}
	return m.ID
}

func meshID(m *metadata.Mesh) uint32 {
	if m == nil {
		return 0
	}
	return m.ID
}

func compareID(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

package scene

import (
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

/**
 * @brief A flat scene manager. Every query walks the whole graph from the
 * root, which is fine for the scene sizes the testbed uses.
 */
type Manager struct {
	Root *Node
}

func NewManager() *Manager {
	return &Manager{
		Root: NewNode("root"),
	}
}

// AddNode attaches node under parent, or under the root when parent is nil.
func (m *Manager) AddNode(node *Node, parent *Node) {
	if parent == nil {
		parent = m.Root
	}
	parent.AddChild(node)
}

func (m *Manager) RemoveNode(node *Node) {
	if node.Parent == nil {
		core.LogWarn("node '%s' is not attached to the scene", node.Name)
		return
	}
	node.Parent.RemoveChild(node)
}

// FindNode returns the first node with the given name, depth first.
func (m *Manager) FindNode(name string) *Node {
	var found *Node
	m.Root.Walk(func(n *Node) {
		if found == nil && n.Name == name {
			found = n
		}
	})
	return found
}

// Nodes returns every node below the root.
func (m *Manager) Nodes() []*Node {
	var nodes []*Node
	for _, c := range m.Root.Children {
		c.Walk(func(n *Node) {
			nodes = append(nodes, n)
		})
	}
	return nodes
}

/**
 * @brief Fills query with everything that intersects the frustum. The
 * query is reset first.
 */
func (m *Manager) GetRenderQuery(frustum math.Frustum, query *RenderQuery) {
	query.Reset()
	for _, c := range m.Root.Children {
		c.Walk(func(n *Node) {
			if n.MeshRenderer != nil {
				collectUnits(frustum, n, query)
			}
			if n.Light != nil && lightVisible(frustum, n) {
				query.AddLight(n)
			}
		})
	}
}

func collectUnits(frustum math.Frustum, n *Node, query *RenderQuery) {
	mr := n.MeshRenderer
	if mr.Mesh == nil {
		core.LogWarn("node '%s' has a mesh renderer without a mesh", n.Name)
		return
	}
	bounds, _ := n.WorldBounds()
	if !frustum.IntersectsExtents(bounds) {
		return
	}
	if len(mr.Mesh.SubMeshes) == 0 {
		query.AddUnit(RenderUnit{Node: n, Mesh: mr.Mesh, Material: mr.MaterialAt(0)})
		return
	}
	for i := range mr.Mesh.SubMeshes {
		query.AddUnit(RenderUnit{Node: n, Mesh: mr.Mesh, Material: mr.MaterialAt(i), SubMesh: i})
	}
}

func lightVisible(frustum math.Frustum, n *Node) bool {
	switch n.Light.Type {
	case metadata.LIGHT_TYPE_DIRECTIONAL:
		return true
	case metadata.LIGHT_TYPE_POINT, metadata.LIGHT_TYPE_SPOT:
		return frustum.IntersectsSphere(math.Sphere{Center: n.GetWorldPosition(), Radius: n.Light.Radius})
	}
	return false
}

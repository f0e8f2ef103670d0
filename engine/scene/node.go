package scene

import (
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

/**
 * @brief Draws a mesh with one material per submesh. When there are fewer
 * materials than submeshes the last material is reused.
 */
type MeshRenderer struct {
	Mesh      *metadata.Mesh
	Materials []*metadata.Material
}

// MaterialAt returns the material used by the given submesh.
func (mr *MeshRenderer) MaterialAt(index int) *metadata.Material {
	if len(mr.Materials) == 0 {
		return nil
	}
	if index >= len(mr.Materials) {
		return mr.Materials[len(mr.Materials)-1]
	}
	return mr.Materials[index]
}

/**
 * @brief A node of the scene graph. A node can carry a mesh renderer,
 * a light, both or neither.
 */
type Node struct {
	Name      string
	Transform *math.Transform
	Parent    *Node
	Children  []*Node

	MeshRenderer *MeshRenderer
	Light        *metadata.Light
	/** @brief Optional bounds drawn by the debug overlay, in local space. */
	CustomBounds *math.Extents3D
}

func NewNode(name string) *Node {
	return &Node{
		Name:      name,
		Transform: math.TransformCreate(),
	}
}

// AddChild reparents child under n.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	child.Transform.Parent = n.Transform
	n.Children = append(n.Children, child)
}

func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			child.Transform.Parent = nil
			return true
		}
	}
	return false
}

func (n *Node) GetWorldMatrix() math.Mat4 {
	return n.Transform.GetWorld()
}

func (n *Node) GetWorldPosition() math.Vec3 {
	return math.Mat4Position(n.GetWorldMatrix())
}

// LightDirection returns the normalized world direction a light on this node shines along.
func (n *Node) LightDirection() math.Vec3 {
	return math.TransformDirection(n.GetWorldMatrix(), metadata.LocalDirection).Normalize()
}

// WorldBounds returns the world space box of the mesh, or false when the node has none.
func (n *Node) WorldBounds() (math.Extents3D, bool) {
	if n.MeshRenderer == nil || n.MeshRenderer.Mesh == nil {
		return math.Extents3D{}, false
	}
	return n.MeshRenderer.Mesh.Bounds.Transform(n.GetWorldMatrix()), true
}

// Walk visits n and all of its descendants depth first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

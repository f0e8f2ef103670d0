package testbed

import (
	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

// cubeIndices winds every face counter clockwise seen from outside.
var cubeIndices = []uint32{
	0, 3, 2, 2, 1, 0, // -z
	4, 5, 6, 6, 7, 4, // +z
	0, 4, 7, 7, 3, 0, // -x
	5, 1, 2, 2, 6, 5, // +x
	7, 6, 2, 2, 3, 7, // +y
	0, 1, 5, 5, 4, 0, // -y
}

// newBoxMesh returns a box of the given size centered on the origin.
func newBoxMesh(name string, size math.Vec3) *metadata.Mesh {
	half := size.Mul(0.5)
	corners := math.NewExtents3D(half.Mul(-1), half).Corners()
	indices := make([]uint32, len(cubeIndices))
	copy(indices, cubeIndices)
	return metadata.NewMesh(0, name, corners[:], indices)
}

// newSplitBoxMesh returns a box whose side faces and caps are separate submeshes.
func newSplitBoxMesh(name string, size math.Vec3) *metadata.Mesh {
	m := newBoxMesh(name, size)
	m.AddSubMesh(m.Indices[:24])
	m.AddSubMesh(m.Indices[24:])
	return m
}

// newSpotConeMesh returns a cone reaching radius along -Y with the light's outer angle.
func newSpotConeMesh(name string, radius, outerAngle float32) *metadata.Mesh {
	p := math.GenerateCone(24)
	spread := radius * math.Tan(outerAngle*0.5)
	positions := make([]math.Vec3, len(p.Positions))
	for i, v := range p.Positions {
		positions[i] = math.NewVec3(v.X()*spread, v.Y()*radius, v.Z()*spread)
	}
	return metadata.NewMesh(0, name, positions, p.Indices)
}

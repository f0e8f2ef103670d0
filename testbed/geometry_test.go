package testbed

import (
	"testing"

	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxMeshFacesPointOutward(t *testing.T) {
	m := newBoxMesh("box", math.NewVec3(2, 4, 6))
	require.Len(t, m.Positions, 8)
	require.Len(t, m.Indices, 36)
	assert.Equal(t, math.NewVec3(-1, -2, -3), m.Bounds.Min)
	assert.Equal(t, math.NewVec3(1, 2, 3), m.Bounds.Max)

	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Positions[m.Indices[i]], m.Positions[m.Indices[i+1]], m.Positions[m.Indices[i+2]]
		normal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		assert.Greater(t, normal.Dot(centroid), float32(0), "triangle %d faces inward", i/3)
	}
}

func TestSplitBoxMeshSubMeshes(t *testing.T) {
	m := newSplitBoxMesh("crate", math.NewVec3One())
	require.Len(t, m.SubMeshes, 2)
	assert.Len(t, m.SubMeshes[0].Indices, 24)
	assert.Len(t, m.SubMeshes[1].Indices, 12)
}

func TestSpotConeMeshMatchesLight(t *testing.T) {
	m := newSpotConeMesh("spot", 10, math.K_HALF_PI)
	assert.InDelta(t, -10, m.Bounds.Min.Y(), 1e-4)
	assert.InDelta(t, 0, m.Bounds.Max.Y(), 1e-4)
	// tan(45°) * 10
	assert.InDelta(t, 10, m.Bounds.Max.X(), 1e-3)
}

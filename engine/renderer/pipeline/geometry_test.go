package pipeline

import (
	"testing"

	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/spaghettifunk/prelight/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedStateIsBoundOnce(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("gbuffer", metadata.DRAW_MODE_OPAQUE, 0, "gbuffer_static_shader")
	material := metadata.NewMaterial(1, "stone")
	mesh := cubeMesh()
	for i, z := range []float32{-5, -10, -15} {
		f.addUnit(string(rune('a'+i)), math3(0, 0, z), mesh, material)
	}

	require.NoError(t, f.pipeline.Execute(f.scene))

	sh := f.shaders.get("gbuffer_static_shader")
	assert.Equal(t, 1, sh.binds)
	assert.Equal(t, 1, sh.cameras)
	assert.Len(t, sh.materials, 1)
	assert.Len(t, sh.meshes, 1)
	assert.Len(t, sh.worlds, 3)
	assert.Len(t, f.backend.draws, 3)
}

func TestMaterialSwitchRebindsShaderAndMesh(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("gbuffer", metadata.DRAW_MODE_OPAQUE, 0, "gbuffer_static_shader")
	stone := metadata.NewMaterial(1, "stone")
	wood := metadata.NewMaterial(2, "wood")
	mesh := cubeMesh()
	f.addUnit("w1", math3(0, 0, -5), mesh, wood)
	f.addUnit("s1", math3(0, 0, -6), mesh, stone)
	f.addUnit("w2", math3(0, 0, -7), mesh, wood)
	f.addUnit("s2", math3(0, 0, -8), mesh, stone)

	require.NoError(t, f.pipeline.Execute(f.scene))

	sh := f.shaders.get("gbuffer_static_shader")
	assert.Equal(t, 2, sh.binds)
	require.Len(t, sh.materials, 2)
	assert.Same(t, stone, sh.materials[0])
	assert.Same(t, wood, sh.materials[1])
	assert.Len(t, sh.meshes, 2)
	assert.Len(t, f.backend.draws, 4)
}

func TestMeshSwitchRebindsMeshOnly(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("gbuffer", metadata.DRAW_MODE_OPAQUE, 0, "gbuffer_static_shader")
	material := metadata.NewMaterial(1, "stone")
	f.addUnit("a", math3(0, 0, -5), cubeMesh(), material)
	f.addUnit("b", math3(0, 0, -6), cubeMesh(), material)

	require.NoError(t, f.pipeline.Execute(f.scene))

	sh := f.shaders.get("gbuffer_static_shader")
	assert.Equal(t, 1, sh.binds)
	assert.Len(t, sh.materials, 1)
	assert.Len(t, sh.meshes, 2)
}

func TestTransparentUnitsDrawnBackToFront(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("transparent", metadata.DRAW_MODE_TRANSPARENT, 0, "transparent_static_shader")
	glass := metadata.NewMaterial(1, "glass")
	glass.Transparent = true
	mesh := cubeMesh()
	f.addUnit("near", math3(0, 0, -5), mesh, glass)
	f.addUnit("far", math3(0, 0, -20), mesh, glass)
	f.addUnit("middle", math3(0, 0, -10), mesh, glass)

	require.NoError(t, f.pipeline.Execute(f.scene))

	sh := f.shaders.get("transparent_static_shader")
	require.Len(t, sh.worlds, 3)
	var depths []float32
	for _, w := range sh.worlds {
		depths = append(depths, math.Mat4Position(w).Z())
	}
	assert.Equal(t, []float32{-20, -10, -5}, depths)
}

func TestOpaquePassIgnoresTransparentUnits(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("gbuffer", metadata.DRAW_MODE_OPAQUE, 0, "gbuffer_static_shader")
	glass := metadata.NewMaterial(1, "glass")
	glass.Transparent = true
	f.addUnit("window", math3(0, 0, -5), cubeMesh(), glass)

	require.NoError(t, f.pipeline.Execute(f.scene))
	assert.Empty(t, f.backend.draws)
}

func TestSubMeshesDrawTheirOwnIndices(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("gbuffer", metadata.DRAW_MODE_OPAQUE, 0, "gbuffer_static_shader")
	mesh := cubeMesh()
	mesh.AddSubMesh(mesh.Indices[:12])
	mesh.AddSubMesh(mesh.Indices[12:])
	material := metadata.NewMaterial(1, "stone")
	f.addUnit("split", math3(0, 0, -5), mesh, material)

	require.NoError(t, f.pipeline.Execute(f.scene))

	sh := f.shaders.get("gbuffer_static_shader")
	assert.Equal(t, []int{0, 1}, sh.subMeshes)
	assert.Equal(t, []drawCall{
		{metadata.PRIMITIVE_TOPOLOGY_TRIANGLES, 12},
		{metadata.PRIMITIVE_TOPOLOGY_TRIANGLES, 24},
	}, f.backend.draws)
}

func TestMaterialShaderOverridesPassShader(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	pass := f.addPass("gbuffer", metadata.DRAW_MODE_OPAQUE, 0, "gbuffer_static_shader")
	override := newShader("water_shader")
	material := metadata.NewMaterial(1, "water")
	material.PassShaders[pass.RenderIndex] = override
	f.addUnit("lake", math3(0, 0, -5), cubeMesh(), material)

	require.NoError(t, f.pipeline.Execute(f.scene))
	assert.Equal(t, 1, override.binds)
	assert.Equal(t, 0, f.shaders.get("gbuffer_static_shader").binds)
}

func TestUnitWithoutShaderVariantIsSkipped(t *testing.T) {
	logs := captureLogs(t)
	f := newFixture(t)
	f.addPass("gbuffer", metadata.DRAW_MODE_OPAQUE, 0, "gbuffer_static_shader")
	mesh := cubeMesh()
	mesh.Skinned = true
	f.addUnit("hero", math3(0, 0, -5), mesh, metadata.NewMaterial(1, "skin"))
	f.addUnit("crate", math3(0, 0, -6), cubeMesh(), metadata.NewMaterial(2, "wood"))

	require.NoError(t, f.pipeline.Execute(f.scene))
	assert.Len(t, f.backend.draws, 1)
	assert.Contains(t, logs.String(), "Failed to draw hero, shader not found!")
	assert.Equal(t, uint32(0), f.stats.Snapshot().SkinnedMeshCount)
}

func TestQuadPassWithoutShaderDrawsNothing(t *testing.T) {
	logs := captureLogs(t)
	f := newFixture(t)
	f.pipeline.AddPass(metadata.NewPass("compose", metadata.DRAW_MODE_QUAD, 0))

	require.NoError(t, f.pipeline.Execute(f.scene))
	assert.Empty(t, f.backend.draws)
	assert.Contains(t, logs.String(), "Failed to draw full screen quad for pass 'compose', shader not found!")
	assert.Equal(t, uint32(0), f.stats.Snapshot().DrawCalls)
}

func TestQuadPassBindsInputs(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	pass := f.addPass("compose", metadata.DRAW_MODE_QUAD, 0, "compose_shader")
	buffer := metadata.NewTexture("light_buffer", metadata.TextureSpec{Width: 4, Height: 4, Layers: 1})
	pass.AddTexture(buffer)

	require.NoError(t, f.pipeline.Execute(f.scene))

	sh := f.shaders.get("compose_shader")
	assert.Same(t, buffer, sh.textures["light_buffer"])
	assert.Equal(t, []drawCall{{metadata.PRIMITIVE_TOPOLOGY_TRIANGLES, 6}}, f.backend.draws)
	assert.Equal(t, uint32(2), f.stats.Snapshot().Triangles)
}

func TestUnitWithoutMaterialUsesDefault(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("gbuffer", metadata.DRAW_MODE_OPAQUE, 0, "gbuffer_static_shader")
	f.addUnit("bare", math3(0, 0, -10), cubeMesh(), nil)

	require.NoError(t, f.pipeline.Execute(f.scene))

	sh := f.shaders.get("gbuffer_static_shader")
	assert.Equal(t, 1, sh.binds)
	assert.Equal(t, 1, sh.cameras)
	require.Len(t, sh.materials, 1)
	require.NotNil(t, sh.materials[0])
	assert.Equal(t, metadata.DefaultMaterialName, sh.materials[0].Name)
	assert.Len(t, sh.meshes, 1)
	assert.Len(t, f.backend.draws, 1)
}

func TestUnitWithoutMaterialAfterMaterialUnit(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.shaders.add("gbuffer_static_shader")
	pass := metadata.NewPass("gbuffer", metadata.DRAW_MODE_OPAQUE, 0)
	pass.AddShader(f.shaders["gbuffer_static_shader"], metadata.MESH_KIND_STATIC, metadata.TEXTURE_FLAG_NONE)
	stone := metadata.NewMaterial(1, "stone")
	mesh := cubeMesh()

	frame := newFrameContext(f.camera)
	f.pipeline.drawUnit(frame, pass, scene.RenderUnit{Node: scene.NewNode("a"), Mesh: mesh, Material: stone})
	f.pipeline.drawUnit(frame, pass, scene.RenderUnit{Node: scene.NewNode("b"), Mesh: mesh})

	sh := f.shaders.get("gbuffer_static_shader")
	assert.Equal(t, 2, sh.binds)
	require.Len(t, sh.materials, 2)
	assert.Same(t, stone, sh.materials[0])
	require.NotNil(t, sh.materials[1])
	assert.Equal(t, metadata.DefaultMaterialName, sh.materials[1].Name)
	assert.Len(t, f.backend.draws, 2)
}

func TestQuadAfterGeometryPassBindsItsShader(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("gbuffer", metadata.DRAW_MODE_OPAQUE, 0, "gbuffer_static_shader")
	f.addPass("compose", metadata.DRAW_MODE_QUAD, 1, "compose_shader")
	f.addUnit("box", math3(0, 0, -10), cubeMesh(), metadata.NewMaterial(1, "stone"))

	require.NoError(t, f.pipeline.Execute(f.scene))

	sh := f.shaders.get("compose_shader")
	assert.Equal(t, 1, sh.binds)
	assert.Equal(t, 1, sh.unbinds)
	assert.Equal(t, 1, sh.cameras)
}

package pipeline

import (
	"testing"

	"github.com/spaghettifunk/prelight/engine/math"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLightShaderName(t *testing.T) {
	tests := []struct {
		lightType   metadata.LightType
		castShadows bool
		cascaded    bool
		want        string
	}{
		{metadata.LIGHT_TYPE_POINT, false, false, POINT_LIGHT_SHADER},
		{metadata.LIGHT_TYPE_POINT, true, true, POINT_LIGHT_SHADOW_SHADER},
		{metadata.LIGHT_TYPE_SPOT, false, true, SPOT_LIGHT_SHADER},
		{metadata.LIGHT_TYPE_SPOT, true, false, SPOT_LIGHT_SHADOW_SHADER},
		{metadata.LIGHT_TYPE_DIRECTIONAL, false, true, DIR_LIGHT_SHADER},
		{metadata.LIGHT_TYPE_DIRECTIONAL, true, false, DIR_LIGHT_SHADOW_SHADER},
		{metadata.LIGHT_TYPE_DIRECTIONAL, true, true, DIR_LIGHT_CSM_SHADER},
		{metadata.LightType(9), true, true, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LightShaderName(tt.lightType, tt.castShadows, tt.cascaded),
			"%s shadows=%t cascaded=%t", tt.lightType, tt.castShadows, tt.cascaded)
	}
}

func TestBuiltinShaderNamesCoverEveryLightVariant(t *testing.T) {
	names := BuiltinShaderNames()
	for _, lt := range []metadata.LightType{metadata.LIGHT_TYPE_DIRECTIONAL, metadata.LIGHT_TYPE_POINT, metadata.LIGHT_TYPE_SPOT} {
		for _, shadows := range []bool{false, true} {
			for _, cascaded := range []bool{false, true} {
				assert.Contains(t, names, LightShaderName(lt, shadows, cascaded))
			}
		}
	}
	assert.Contains(t, names, SHADOW_DEPTH_SHADER)
	assert.Contains(t, names, DEBUG_LINE_SHADER)
}

func TestInsidePointLightVolume(t *testing.T) {
	camNear := math.Sqrt(3)
	origin := math.NewVec3Zero()

	assert.True(t, InsidePointLightVolume(math3(0, 0, -3), 2, camNear, origin))
	assert.False(t, InsidePointLightVolume(math3(0, 0, -3), 1, camNear, origin))
	// growing by the near distance matters
	assert.False(t, InsidePointLightVolume(math3(0, 0, -3), 2, 0, origin))
}

func TestInsideSpotLightVolume(t *testing.T) {
	camNear := math.Sqrt(3)
	down := math3(0, -1, 0)
	angle := math.DegToRad(90)

	// just above the apex, inside once the cone is pushed back
	assert.True(t, InsideSpotLightVolume(math3(0, -1, 0), down, 10, angle, camNear, math.NewVec3Zero()))
	assert.False(t, InsideSpotLightVolume(math3(0, -1, 0), down, 10, angle, 0, math.NewVec3Zero()))
	// well inside the cone
	assert.True(t, InsideSpotLightVolume(math3(0, 5, 0), down, 10, angle, camNear, math.NewVec3Zero()))
	// beside the cone
	assert.False(t, InsideSpotLightVolume(math3(20, 5, 0), down, 10, angle, camNear, math.NewVec3Zero()))
	// beyond the range
	assert.False(t, InsideSpotLightVolume(math3(0, 50, 0), down, 10, angle, camNear, math.NewVec3Zero()))
	// degenerate cone
	assert.False(t, InsideSpotLightVolume(math3(0, 5, 0), down, 10, 0, camNear, math.NewVec3Zero()))
}

func pointLight(radius float32, shadows bool) *metadata.Light {
	return &metadata.Light{
		Type:        metadata.LIGHT_TYPE_POINT,
		Radius:      radius,
		CastShadows: shadows,
		Colour:      math.NewVec4(1, 1, 1, 1),
		Intensity:   1,
	}
}

func spotLight(radius, angle float32, shadows bool) *metadata.Light {
	return &metadata.Light{
		Type:        metadata.LIGHT_TYPE_SPOT,
		Radius:      radius,
		OuterAngle:  angle,
		CastShadows: shadows,
		Mesh:        metadata.NewConeMesh(),
		Colour:      math.NewVec4(1, 1, 1, 1),
		Intensity:   1,
	}
}

func dirLight(shadows bool) *metadata.Light {
	return &metadata.Light{
		Type:        metadata.LIGHT_TYPE_DIRECTIONAL,
		CastShadows: shadows,
		Mesh:        metadata.NewQuadMesh(),
		Colour:      math.NewVec4(1, 1, 1, 1),
		Intensity:   1,
	}
}

func TestLightPassClearsOnceThenAccumulates(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("light", metadata.DRAW_MODE_LIGHT, 0)
	f.shaders.add(POINT_LIGHT_SHADER)
	f.addLight("lamp1", math3(0, 0, -20), pointLight(5, false))
	f.addLight("lamp2", math3(5, 0, -20), pointLight(5, false))

	require.NoError(t, f.pipeline.Execute(f.scene))

	assert.Equal(t, 1, f.backend.count("begin light clear=true"))
	assert.Equal(t, 2, f.backend.count("begin light clear=false"))
	assert.Equal(t, 3, f.backend.count("end light"))
	assert.Equal(t, f.backend.indexOf("begin light clear=true")+1, f.backend.indexOf("end light"))
	assert.Len(t, f.backend.draws, 2)

	sh := f.shaders.get(POINT_LIGHT_SHADER)
	assert.Equal(t, 2, sh.binds)
	assert.Equal(t, 2, sh.unbinds)
	assert.Len(t, sh.lights, 2)
	assert.Equal(t, uint32(2), f.stats.Snapshot().LightCount)
}

func TestLightVolumeBindsPassInputs(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	pass := f.addPass("light", metadata.DRAW_MODE_LIGHT, 0)
	normals := metadata.NewTexture("gbuffer_normal", metadata.TextureSpec{Width: 4, Height: 4, Layers: 1})
	pass.AddTexture(normals)
	f.shaders.add(POINT_LIGHT_SHADER)
	f.addLight("lamp", math3(0, 0, -20), pointLight(5, false))

	require.NoError(t, f.pipeline.Execute(f.scene))

	sh := f.shaders.get(POINT_LIGHT_SHADER)
	assert.Same(t, normals, sh.textures["gbuffer_normal"])
	assert.Equal(t, 1, sh.cameras)
	assert.Len(t, sh.meshes, 1)
}

func TestPointLightVolumeScaledByRadius(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("light", metadata.DRAW_MODE_LIGHT, 0)
	f.shaders.add(POINT_LIGHT_SHADER)
	f.addLight("lamp", math3(0, 0, -20), pointLight(5, false))

	require.NoError(t, f.pipeline.Execute(f.scene))

	sh := f.shaders.get(POINT_LIGHT_SHADER)
	require.Len(t, sh.worlds, 1)
	w := sh.worlds[0]
	assert.InDelta(t, 5, w.At(0, 0), 1e-5)
	assert.InDelta(t, 5, w.At(1, 1), 1e-5)
	assert.InDelta(t, 5, w.At(2, 2), 1e-5)
	assert.InDelta(t, -20, math.Mat4Position(w).Z(), 1e-5)
}

func TestCameraOutsideLightVolume(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("light", metadata.DRAW_MODE_LIGHT, 0)
	f.shaders.add(POINT_LIGHT_SHADER)
	f.addLight("lamp", math3(0, 0, -20), pointLight(5, false))

	require.NoError(t, f.pipeline.Execute(f.scene))

	begin := f.backend.indexOf("begin light clear=false")
	require.GreaterOrEqual(t, begin, 0)
	assert.Equal(t, []string{"depth true", "cull back"}, f.backend.events[begin+1:begin+3])
}

func TestCameraInsidePointLightVolume(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("light", metadata.DRAW_MODE_LIGHT, 0)
	f.shaders.add(POINT_LIGHT_SHADER)
	f.addLight("lamp", math3(0, 0, -3), pointLight(2, false))

	require.NoError(t, f.pipeline.Execute(f.scene))

	begin := f.backend.indexOf("begin light clear=false")
	require.GreaterOrEqual(t, begin, 0)
	assert.Equal(t, []string{"depth false", "cull front"}, f.backend.events[begin+1:begin+3])
	assert.Len(t, f.backend.draws, 1)
}

func TestCameraInsideSpotLightVolume(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("light", metadata.DRAW_MODE_LIGHT, 0)
	f.shaders.add(SPOT_LIGHT_SHADER)
	// shines down onto the camera from above
	f.addLight("torch", math3(0, 5, 0), spotLight(10, math.DegToRad(90), false))

	require.NoError(t, f.pipeline.Execute(f.scene))

	begin := f.backend.indexOf("begin light clear=false")
	require.GreaterOrEqual(t, begin, 0)
	assert.Equal(t, []string{"depth false", "cull front"}, f.backend.events[begin+1:begin+3])
}

func TestDirectionalLightIsNeverInside(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("light", metadata.DRAW_MODE_LIGHT, 0)
	f.shaders.add(DIR_LIGHT_SHADER)
	f.addLight("sun", math3(0, 0, 0), dirLight(false))

	require.NoError(t, f.pipeline.Execute(f.scene))

	begin := f.backend.indexOf("begin light clear=false")
	require.GreaterOrEqual(t, begin, 0)
	assert.Equal(t, []string{"depth true", "cull back"}, f.backend.events[begin+1:begin+3])
	assert.Equal(t, []drawCall{{metadata.PRIMITIVE_TOPOLOGY_TRIANGLES, 6}}, f.backend.draws)
}

func TestMissingLightShaderSkipsOnlyThatLight(t *testing.T) {
	logs := captureLogs(t)
	f := newFixture(t)
	f.addPass("light", metadata.DRAW_MODE_LIGHT, 0)
	f.shaders.add(POINT_LIGHT_SHADER)
	f.addLight("torch", math3(0, 0, -10), spotLight(5, math.DegToRad(60), false))
	f.addLight("lamp", math3(0, 0, -20), pointLight(5, false))

	require.NoError(t, f.pipeline.Execute(f.scene))

	assert.Contains(t, logs.String(), "Shader for light torch not found!")
	assert.Len(t, f.backend.draws, 1)
	assert.Equal(t, 1, f.backend.count("begin light clear=false"))
	assert.Len(t, f.shaders.get(POINT_LIGHT_SHADER).lights, 1)
}

func TestLightWithoutMeshIsSkipped(t *testing.T) {
	logs := captureLogs(t)
	f := newFixture(t)
	f.addPass("light", metadata.DRAW_MODE_LIGHT, 0)
	f.shaders.add(POINT_LIGHT_SHADER)
	node := f.addLight("lamp", math3(0, 0, -20), pointLight(5, false))
	node.Light.Mesh = nil

	require.NoError(t, f.pipeline.Execute(f.scene))

	assert.Contains(t, logs.String(), "Mesh for light lamp not found!")
	assert.Empty(t, f.backend.draws)
}

func TestLightsOutsideTheFrustumAreNotDrawn(t *testing.T) {
	captureLogs(t)
	f := newFixture(t)
	f.addPass("light", metadata.DRAW_MODE_LIGHT, 0)
	f.shaders.add(POINT_LIGHT_SHADER)
	f.addLight("behind", math3(0, 0, 50), pointLight(5, false))

	require.NoError(t, f.pipeline.Execute(f.scene))
	assert.Empty(t, f.backend.draws)
}

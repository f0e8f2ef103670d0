package systems

import (
	"github.com/spaghettifunk/prelight/engine/config"
)

/** @brief Everything the systems need from the renderer backend. */
type Backend interface {
	ShaderCompiler
	MeshUploader
	PassTargetAllocator
}

type SystemManager struct {
	CameraSystem   *CameraSystem
	MaterialSystem *MaterialSystem
	MeshSystem     *MeshSystem
	PassSystem     *PassSystem
	ShaderSystem   *ShaderSystem
	TexturePool    *TexturePool
}

func NewSystemManager(cfg *config.PipelineConfig, backend Backend, width, height uint32) (*SystemManager, error) {
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: 16,
	})
	if err != nil {
		return nil, err
	}
	ssys, err := NewShaderSystem(&ShaderSystemConfig{
		MaxShaderCount: 256,
		ShaderDir:      cfg.ShaderDir,
	}, backend)
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MaxMaterialCount: 1024,
	})
	if err != nil {
		return nil, err
	}
	meshes, err := NewMeshSystem(&MeshSystemConfig{
		MaxMeshCount: 1024,
	}, backend)
	if err != nil {
		return nil, err
	}
	ps, err := NewPassSystem(&PassSystemConfig{
		MaxPassCount: 32,
		Width:        width,
		Height:       height,
	}, ssys, backend)
	if err != nil {
		return nil, err
	}
	tp, err := NewTexturePool(&TexturePoolConfig{
		MaxTextures: cfg.Shadow.PoolSize,
	}, backend)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		CameraSystem:   cs,
		MaterialSystem: ms,
		MeshSystem:     meshes,
		PassSystem:     ps,
		ShaderSystem:   ssys,
		TexturePool:    tp,
	}, nil
}

// Initialize uploads the builtin meshes, loads the pipeline shaders and builds the passes.
func (sm *SystemManager) Initialize(cfg *config.PipelineConfig, shaderNames []string) error {
	if err := sm.MeshSystem.Initialize(); err != nil {
		return err
	}
	sm.ShaderSystem.LoadAll(shaderNames)
	return sm.PassSystem.Build(cfg.Passes)
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.PassSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.TexturePool.Shutdown(); err != nil {
		return err
	}
	if err := sm.MeshSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.MaterialSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.ShaderSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.CameraSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}

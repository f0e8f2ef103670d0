package systems

import (
	"fmt"

	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

type MaterialSystemConfig struct {
	MaxMaterialCount uint32
}

type MaterialSystem struct {
	Config          *MaterialSystemConfig
	Lookup          map[string]*metadata.Material
	DefaultMaterial *metadata.Material
	nextID          uint32
}

func NewMaterialSystem(config *MaterialSystemConfig) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("func NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &MaterialSystem{
		Config:          config,
		Lookup:          make(map[string]*metadata.Material),
		DefaultMaterial: metadata.NewMaterial(0, metadata.DefaultMaterialName),
		nextID:          1,
	}, nil
}

// Create registers a new material. Ids start at 1, 0 is the default material.
func (ms *MaterialSystem) Create(name string) (*metadata.Material, error) {
	if name == metadata.DefaultMaterialName {
		return nil, fmt.Errorf("material name '%s' is reserved", name)
	}
	if _, ok := ms.Lookup[name]; ok {
		return nil, fmt.Errorf("material '%s' already exists", name)
	}
	if uint32(len(ms.Lookup)) >= ms.Config.MaxMaterialCount {
		return nil, fmt.Errorf("unable to create material '%s', max material count %d reached", name, ms.Config.MaxMaterialCount)
	}
	m := metadata.NewMaterial(ms.nextID, name)
	ms.nextID++
	ms.Lookup[name] = m
	return m, nil
}

// Get returns the named material, or the default material with a warning.
func (ms *MaterialSystem) Get(name string) *metadata.Material {
	if m, ok := ms.Lookup[name]; ok {
		return m
	}
	core.LogWarn("material '%s' not found, using default", name)
	return ms.DefaultMaterial
}

func (ms *MaterialSystem) GetDefault() *metadata.Material {
	return ms.DefaultMaterial
}

func (ms *MaterialSystem) Shutdown() error {
	ms.Lookup = make(map[string]*metadata.Material)
	return nil
}

package systems

import (
	"fmt"

	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

/** @brief Uploads mesh data to the GPU. Implemented by the renderer backend. */
type MeshUploader interface {
	MeshUpload(mesh *metadata.Mesh) error
	MeshDestroy(mesh *metadata.Mesh)
}

type MeshSystemConfig struct {
	MaxMeshCount uint32
}

/**
 * @brief Owns every mesh the scene draws, including the builtin quad,
 * line cube and light volumes.
 */
type MeshSystem struct {
	Config   *MeshSystemConfig
	Lookup   map[string]*metadata.Mesh
	nextID   uint32
	uploader MeshUploader
}

func NewMeshSystem(config *MeshSystemConfig, uploader MeshUploader) (*MeshSystem, error) {
	if config.MaxMeshCount == 0 {
		err := fmt.Errorf("func NewMeshSystem - config.MaxMeshCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &MeshSystem{
		Config:   config,
		Lookup:   make(map[string]*metadata.Mesh),
		nextID:   1,
		uploader: uploader,
	}, nil
}

// Initialize creates and uploads the builtin meshes.
func (ms *MeshSystem) Initialize() error {
	for _, m := range []*metadata.Mesh{
		metadata.NewQuadMesh(),
		metadata.NewLineCubeMesh(),
		metadata.NewSphereMesh(),
		metadata.NewConeMesh(),
	} {
		if err := ms.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// Register assigns the mesh an id and uploads it.
func (ms *MeshSystem) Register(mesh *metadata.Mesh) error {
	if _, ok := ms.Lookup[mesh.Name]; ok {
		return fmt.Errorf("mesh '%s' is already registered", mesh.Name)
	}
	if uint32(len(ms.Lookup)) >= ms.Config.MaxMeshCount {
		return fmt.Errorf("unable to register mesh '%s', max mesh count %d reached", mesh.Name, ms.Config.MaxMeshCount)
	}
	mesh.ID = ms.nextID
	ms.nextID++
	if ms.uploader != nil {
		if err := ms.uploader.MeshUpload(mesh); err != nil {
			return fmt.Errorf("failed to upload mesh '%s': %w", mesh.Name, err)
		}
	}
	ms.Lookup[mesh.Name] = mesh
	return nil
}

func (ms *MeshSystem) Get(name string) (*metadata.Mesh, error) {
	m, ok := ms.Lookup[name]
	if !ok {
		return nil, fmt.Errorf("mesh '%s': %w", name, core.ErrMeshNotFound)
	}
	return m, nil
}

func (ms *MeshSystem) Shutdown() error {
	if ms.uploader != nil {
		for _, m := range ms.Lookup {
			ms.uploader.MeshDestroy(m)
		}
	}
	ms.Lookup = make(map[string]*metadata.Mesh)
	return nil
}

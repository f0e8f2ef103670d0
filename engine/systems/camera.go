package systems

import (
	"fmt"

	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/renderer/components"
)

type cameraLookup struct {
	referenceCount uint16
	camera         *components.Camera
}

type CameraSystem struct {
	Config  *CameraSystemConfig
	cameras map[string]*cameraLookup
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *components.Camera
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/**
	 * @brief NOTE: The maximum number of cameras that can be managed by
	 * the system.
	 */
	MaxCameraCount uint16
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &CameraSystem{
		Config:        config,
		cameras:       make(map[string]*cameraLookup, config.MaxCameraCount),
		DefaultCamera: components.NewCamera(components.DEFAULT_CAMERA_NAME),
	}, nil
}

func (cs *CameraSystem) Shutdown() error {
	cs.cameras = make(map[string]*cameraLookup)
	return nil
}

/**
 * @brief Acquires a camera by name. If one is not found, a new one is
 * created. Internal reference counter is incremented.
 */
func (cs *CameraSystem) Acquire(name string) (*components.Camera, error) {
	if name == components.DEFAULT_CAMERA_NAME {
		return cs.DefaultCamera, nil
	}
	lookup, ok := cs.cameras[name]
	if !ok {
		if len(cs.cameras) >= int(cs.Config.MaxCameraCount) {
			err := fmt.Errorf("func CameraSystemAcquire failed to acquire new slot. Adjust camera system config to allow more")
			core.LogError(err.Error())
			return nil, err
		}
		core.LogDebug("Creating new camera named '%s'...", name)
		lookup = &cameraLookup{camera: components.NewCamera(name)}
		cs.cameras[name] = lookup
	}
	lookup.referenceCount++
	return lookup.camera, nil
}

/**
 * @brief Releases a camera with the given name. When the reference count
 * reaches 0 the camera is dropped.
 */
func (cs *CameraSystem) Release(name string) {
	if name == components.DEFAULT_CAMERA_NAME {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	lookup, ok := cs.cameras[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup. Nothing was done.")
		return
	}
	lookup.referenceCount--
	if lookup.referenceCount < 1 {
		delete(cs.cameras, name)
	}
}

func (cs *CameraSystem) GetDefault() *components.Camera {
	return cs.DefaultCamera
}

package systems

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

/** @brief Creates and destroys textures that can be rendered into. */
type RenderTargetAllocator interface {
	RenderTargetCreate(spec metadata.TextureSpec, name string) (*metadata.Texture, error)
	RenderTargetDestroy(texture *metadata.Texture)
}

type TexturePoolConfig struct {
	/** @brief The maximum number of textures alive at once, free or checked out. */
	MaxTextures uint32
}

/**
 * @brief A pool of temporary render textures, used for shadow maps.
 * Textures are matched by spec, so a light reuses whatever the previous
 * light of the same kind released.
 */
type TexturePool struct {
	Config *TexturePoolConfig

	mutex     sync.Mutex
	free      []*metadata.Texture
	inUse     map[uuid.UUID]*metadata.Texture
	allocator RenderTargetAllocator
}

func NewTexturePool(config *TexturePoolConfig, allocator RenderTargetAllocator) (*TexturePool, error) {
	if config.MaxTextures == 0 {
		err := fmt.Errorf("func NewTexturePool - config.MaxTextures must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	if allocator == nil {
		return nil, fmt.Errorf("func NewTexturePool - allocator is required")
	}
	return &TexturePool{
		Config:    config,
		inUse:     make(map[uuid.UUID]*metadata.Texture, config.MaxTextures),
		allocator: allocator,
	}, nil
}

/**
 * @brief Checks out a texture matching spec, creating one when no free
 * texture matches. When the pool is full a free texture of another spec
 * is destroyed to make room.
 */
func (tp *TexturePool) Acquire(spec metadata.TextureSpec) (*metadata.Texture, error) {
	tp.mutex.Lock()
	defer tp.mutex.Unlock()

	for i, t := range tp.free {
		if t.Spec == spec {
			tp.free = append(tp.free[:i], tp.free[i+1:]...)
			tp.inUse[t.ID] = t
			return t, nil
		}
	}

	if uint32(len(tp.free)+len(tp.inUse)) >= tp.Config.MaxTextures {
		if len(tp.free) == 0 {
			return nil, fmt.Errorf("%d textures checked out: %w", len(tp.inUse), core.ErrTexturePoolExhausted)
		}
		evicted := tp.free[0]
		tp.free = tp.free[1:]
		tp.allocator.RenderTargetDestroy(evicted)
	}

	t, err := tp.allocator.RenderTargetCreate(spec, "pooled_"+uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to create pooled texture: %w", err)
	}
	tp.inUse[t.ID] = t
	return t, nil
}

// Collect returns a texture to the pool. nil and unknown textures are ignored.
func (tp *TexturePool) Collect(texture *metadata.Texture) {
	if texture == nil {
		core.LogWarn("TexturePool.Collect called with a nil texture. Nothing was done.")
		return
	}
	tp.mutex.Lock()
	defer tp.mutex.Unlock()

	if _, ok := tp.inUse[texture.ID]; !ok {
		core.LogWarn("texture '%s' is not checked out of the pool. Nothing was done.", texture.Name)
		return
	}
	delete(tp.inUse, texture.ID)
	tp.free = append(tp.free, texture)
}

// Outstanding returns the number of textures currently checked out.
func (tp *TexturePool) Outstanding() int {
	tp.mutex.Lock()
	defer tp.mutex.Unlock()
	return len(tp.inUse)
}

// Live returns the number of textures owned by the pool.
func (tp *TexturePool) Live() int {
	tp.mutex.Lock()
	defer tp.mutex.Unlock()
	return len(tp.inUse) + len(tp.free)
}

func (tp *TexturePool) Shutdown() error {
	tp.mutex.Lock()
	defer tp.mutex.Unlock()

	if len(tp.inUse) > 0 {
		core.LogWarn("texture pool shut down with %d textures still checked out", len(tp.inUse))
	}
	for _, t := range tp.free {
		tp.allocator.RenderTargetDestroy(t)
	}
	for _, t := range tp.inUse {
		tp.allocator.RenderTargetDestroy(t)
	}
	tp.free = nil
	tp.inUse = make(map[uuid.UUID]*metadata.Texture)
	return nil
}

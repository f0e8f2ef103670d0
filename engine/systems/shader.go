package systems

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/engine/renderer/metadata"
)

/** @brief Compiles shader sources into programs. Implemented by the renderer backend. */
type ShaderCompiler interface {
	ShaderCreate(name string, sources map[metadata.ShaderStage]string) (metadata.Shader, error)
	ShaderDestroy(shader metadata.Shader)
}

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of shaders held in the system. */
	MaxShaderCount uint16
	/** @brief Directory holding <name>.vert.glsl and <name>.frag.glsl files. */
	ShaderDir string
}

type ShaderSystem struct {
	// This system's configuration.
	Config *ShaderSystemConfig
	// A lookup table for shader name->shader
	Lookup   map[string]metadata.Shader
	compiler ShaderCompiler
}

// NewShaderSystem creates the registry. compiler may be nil when shaders are only registered, never loaded.
func NewShaderSystem(config *ShaderSystemConfig, compiler ShaderCompiler) (*ShaderSystem, error) {
	if config.MaxShaderCount == 0 {
		err := fmt.Errorf("NewShaderSystem - config.MaxShaderCount must be greater than 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &ShaderSystem{
		Config:   config,
		Lookup:   make(map[string]metadata.Shader, config.MaxShaderCount),
		compiler: compiler,
	}, nil
}

/**
 * @brief Shuts down the shader system, destroying every shader it compiled.
 */
func (shaderSystem *ShaderSystem) Shutdown() error {
	if shaderSystem.compiler != nil {
		for _, sh := range shaderSystem.Lookup {
			shaderSystem.compiler.ShaderDestroy(sh)
		}
	}
	shaderSystem.Lookup = make(map[string]metadata.Shader)
	return nil
}

func (shaderSystem *ShaderSystem) Register(shader metadata.Shader) error {
	if shader == nil {
		return fmt.Errorf("cannot register a nil shader")
	}
	name := shader.Name()
	if _, ok := shaderSystem.Lookup[name]; ok {
		return fmt.Errorf("shader '%s': %w", name, core.ErrDuplicateShader)
	}
	if len(shaderSystem.Lookup) >= int(shaderSystem.Config.MaxShaderCount) {
		err := fmt.Errorf("unable to register shader '%s', max shader count %d reached", name, shaderSystem.Config.MaxShaderCount)
		core.LogError(err.Error())
		return err
	}
	shaderSystem.Lookup[name] = shader
	return nil
}

func (shaderSystem *ShaderSystem) Unregister(name string) {
	sh, ok := shaderSystem.Lookup[name]
	if !ok {
		core.LogWarn("shader '%s' is not registered. Nothing was done.", name)
		return
	}
	delete(shaderSystem.Lookup, name)
	if shaderSystem.compiler != nil {
		shaderSystem.compiler.ShaderDestroy(sh)
	}
}

func (shaderSystem *ShaderSystem) GetShader(name string) (metadata.Shader, error) {
	sh, ok := shaderSystem.Lookup[name]
	if !ok {
		return nil, fmt.Errorf("shader '%s': %w", name, core.ErrShaderNotFound)
	}
	return sh, nil
}

/**
 * @brief Reads the stage sources of a shader from the shader directory,
 * compiles them and registers the result. An already registered shader of
 * the same name is replaced.
 */
func (shaderSystem *ShaderSystem) Load(name string) (metadata.Shader, error) {
	if shaderSystem.compiler == nil {
		return nil, fmt.Errorf("shader system has no compiler, cannot load '%s'", name)
	}
	sources := make(map[metadata.ShaderStage]string, 2)
	for _, stage := range []metadata.ShaderStage{metadata.SHADER_STAGE_VERTEX, metadata.SHADER_STAGE_FRAGMENT} {
		path := filepath.Join(shaderSystem.Config.ShaderDir, name+stage.Extension())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read shader stage '%s': %w", path, err)
		}
		sources[stage] = string(data)
	}
	sh, err := shaderSystem.compiler.ShaderCreate(name, sources)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader '%s': %w", name, err)
	}
	if _, ok := shaderSystem.Lookup[name]; ok {
		shaderSystem.Unregister(name)
	}
	if err := shaderSystem.Register(sh); err != nil {
		shaderSystem.compiler.ShaderDestroy(sh)
		return nil, err
	}
	core.LogDebug("shader '%s' loaded", name)
	return sh, nil
}

// LoadAll loads every named shader, logging and skipping the ones that fail.
func (shaderSystem *ShaderSystem) LoadAll(names []string) int {
	loaded := 0
	for _, name := range names {
		if _, err := shaderSystem.Load(name); err != nil {
			core.LogWarn(err.Error())
			continue
		}
		loaded++
	}
	return loaded
}

package engine

import (
	"github.com/spaghettifunk/prelight/engine/core"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel core.LogLevel
	// TOML file describing the pipeline. Written with the defaults when missing,
	// reloaded whenever it changes on disk.
	PipelineConfigPath string
	// Frame cap, 0 disables it.
	TargetFPS float64
}

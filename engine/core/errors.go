package core

import (
	"errors"
)

var (
	ErrCameraNotSet         = errors.New("pipeline current camera not set")
	ErrShaderNotFound       = errors.New("shader not found")
	ErrDuplicateShader      = errors.New("shader already registered")
	ErrMeshNotFound         = errors.New("mesh not found")
	ErrTexturePoolExhausted = errors.New("texture pool exhausted")
	ErrUnknownDrawMode      = errors.New("unknown draw mode")
	ErrUnknown              = errors.New("unknown")
)

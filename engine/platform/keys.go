package platform

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/prelight/engine/core"
)

var keyTable = map[glfw.Key]core.KeyCode{
	glfw.KeyEscape:    core.KEY_ESCAPE,
	glfw.KeySpace:     core.KEY_SPACE,
	glfw.KeyLeft:      core.KEY_LEFT,
	glfw.KeyUp:        core.KEY_UP,
	glfw.KeyRight:     core.KEY_RIGHT,
	glfw.KeyDown:      core.KEY_DOWN,
	glfw.KeyA:         core.KEY_A,
	glfw.KeyC:         core.KEY_C,
	glfw.KeyD:         core.KEY_D,
	glfw.KeyE:         core.KEY_E,
	glfw.KeyQ:         core.KEY_Q,
	glfw.KeyR:         core.KEY_R,
	glfw.KeyS:         core.KEY_S,
	glfw.KeyW:         core.KEY_W,
	glfw.KeyF1:        core.KEY_F1,
	glfw.KeyF2:        core.KEY_F2,
	glfw.KeyF3:        core.KEY_F3,
	glfw.KeyF4:        core.KEY_F4,
	glfw.KeyLeftShift: core.KEY_LSHIFT,
}

// translateKey maps a glfw key to the engine key code.
func translateKey(key glfw.Key) (core.KeyCode, bool) {
	code, ok := keyTable[key]
	return code, ok
}

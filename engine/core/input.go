package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// KeyCode values follow the virtual key table the platform layer translates into.
type KeyCode uint16

const (
	KEY_ESCAPE KeyCode = 0x1B
	KEY_SPACE  KeyCode = 0x20
	KEY_LEFT   KeyCode = 0x25
	KEY_UP     KeyCode = 0x26
	KEY_RIGHT  KeyCode = 0x27
	KEY_DOWN   KeyCode = 0x28
	KEY_A      KeyCode = 0x41
	KEY_C      KeyCode = 0x43
	KEY_D      KeyCode = 0x44
	KEY_E      KeyCode = 0x45
	KEY_Q      KeyCode = 0x51
	KEY_R      KeyCode = 0x52
	KEY_S      KeyCode = 0x53
	KEY_W      KeyCode = 0x57
	KEY_F1     KeyCode = 0x70
	KEY_F2     KeyCode = 0x71
	KEY_F3     KeyCode = 0x72
	KEY_F4     KeyCode = 0x73
	KEY_LSHIFT KeyCode = 0xA0

	KEYS_MAX_KEYS KeyCode = 0x100
)

type MouseState struct {
	X       uint16
	Y       uint16
	Buttons [BUTTON_MAX_BUTTONS]bool
}

type KeyboardState struct {
	Keys [KEYS_MAX_KEYS]bool
}

// InputState holds the current and previous frame states of keyboard and mouse.
type InputState struct {
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	MouseCurrent     MouseState
	MousePrevious    MouseState
}

var inputState *InputState = nil

func InputInitialize() error {
	inputState = &InputState{}
	LogInfo("Input subsystem initialized.")
	return nil
}

func InputShutdown() error {
	inputState = nil
	return nil
}

// InputUpdate rolls the current state into the previous one. Call once per frame.
func InputUpdate(deltaTime float64) error {
	if inputState == nil {
		return nil
	}
	inputState.KeyboardPrevious = inputState.KeyboardCurrent
	inputState.MousePrevious = inputState.MouseCurrent
	return nil
}

func InputIsKeyDown(key KeyCode) bool {
	if inputState == nil || key >= KEYS_MAX_KEYS {
		return false
	}
	return inputState.KeyboardCurrent.Keys[key]
}

func InputWasKeyDown(key KeyCode) bool {
	if inputState == nil || key >= KEYS_MAX_KEYS {
		return false
	}
	return inputState.KeyboardPrevious.Keys[key]
}

// InputKeyPressed reports a key that went down since the last InputUpdate.
func InputKeyPressed(key KeyCode) bool {
	return InputIsKeyDown(key) && !InputWasKeyDown(key)
}

func InputProcessKey(key KeyCode, pressed bool) {
	if inputState == nil || key >= KEYS_MAX_KEYS {
		return
	}
	if inputState.KeyboardCurrent.Keys[key] == pressed {
		return
	}
	inputState.KeyboardCurrent.Keys[key] = pressed

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	EventFire(EventContext{Type: code, Data: &KeyEvent{KeyCode: key}})
}

func InputIsButtonDown(button Button) bool {
	if inputState == nil || button >= BUTTON_MAX_BUTTONS {
		return false
	}
	return inputState.MouseCurrent.Buttons[button]
}

// InputGetMouseDelta returns how far the mouse moved since the last InputUpdate.
func InputGetMouseDelta() (int32, int32) {
	if inputState == nil {
		return 0, 0
	}
	dx := int32(inputState.MouseCurrent.X) - int32(inputState.MousePrevious.X)
	dy := int32(inputState.MouseCurrent.Y) - int32(inputState.MousePrevious.Y)
	return dx, dy
}

func InputProcessButton(button Button, pressed bool) {
	if inputState == nil || button >= BUTTON_MAX_BUTTONS {
		return
	}
	if inputState.MouseCurrent.Buttons[button] == pressed {
		return
	}
	inputState.MouseCurrent.Buttons[button] = pressed

	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	EventFire(EventContext{Type: code, Data: &MouseEvent{Button: button}})
}

func InputProcessMouseMove(x, y uint16) {
	if inputState == nil {
		return
	}
	if inputState.MouseCurrent.X == x && inputState.MouseCurrent.Y == y {
		return
	}
	inputState.MouseCurrent.X = x
	inputState.MouseCurrent.Y = y
	EventFire(EventContext{Type: EVENT_CODE_MOUSE_MOVED, Data: &MouseEvent{PosX: x, PosY: y}})
}

func InputProcessMouseWheel(zDelta int8) {
	EventFire(EventContext{Type: EVENT_CODE_MOUSE_WHEEL, Data: &MouseEvent{Scroll: zDelta}})
}

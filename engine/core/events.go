package core

import "sync"

type EventCode int

// System internal event codes. Application should use codes beyond 255.
const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01
	// Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED EventCode = 0x02
	// Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED EventCode = 0x03
	// Data: *MouseEvent
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04
	// Data: *MouseEvent
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05
	// Data: *MouseEvent
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06
	// Data: *MouseEvent
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07
	// Data: *SystemEvent
	EVENT_CODE_RESIZED EventCode = 0x08
	// The pipeline configuration file changed on disk. Data: string path.
	EVENT_CODE_PIPELINE_CONFIG_CHANGED EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

type EventContext struct {
	Type EventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   uint16
	PosY   uint16
	Scroll int8
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type eventSystemState struct {
	mutex      sync.RWMutex
	registered map[EventCode][]FnOnEvent
}

var eventState *eventSystemState = nil

func EventSystemInitialize() bool {
	if eventState != nil {
		return false
	}
	eventState = &eventSystemState{
		registered: make(map[EventCode][]FnOnEvent),
	}
	return true
}

func EventSystemShutdown() error {
	if eventState == nil {
		return nil
	}
	eventState.mutex.Lock()
	eventState.registered = nil
	eventState.mutex.Unlock()
	eventState = nil
	return nil
}

/**
 * @brief Registers a listener for the given code. Listeners are called in
 * registration order until one reports the event as handled.
 */
func EventRegister(code EventCode, onEvent FnOnEvent) bool {
	if eventState == nil || onEvent == nil {
		return false
	}
	eventState.mutex.Lock()
	defer eventState.mutex.Unlock()
	eventState.registered[code] = append(eventState.registered[code], onEvent)
	return true
}

// EventUnregister drops every listener of the given code.
func EventUnregister(code EventCode) bool {
	if eventState == nil {
		return false
	}
	eventState.mutex.Lock()
	defer eventState.mutex.Unlock()
	if len(eventState.registered[code]) == 0 {
		return false
	}
	delete(eventState.registered, code)
	return true
}

/**
 * @brief Fires an event to the listeners of its code. Returns true if a
 * listener handled it. Safe to call from any goroutine.
 */
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mutex.RLock()
	listeners := append([]FnOnEvent(nil), eventState.registered[context.Type]...)
	eventState.mutex.RUnlock()

	for _, fn := range listeners {
		if fn(context) {
			return true
		}
	}
	return false
}

package main

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// keyState tracks held keys. Window callbacks write it and the tick goroutine reads it.
type keyState struct {
	mu   sync.Mutex
	held map[uint32]bool
}

func newKeyState() *keyState {
	return &keyState{held: make(map[uint32]bool)}
}

func (k *keyState) set(keyCode uint32, down bool) {
	k.mu.Lock()
	k.held[keyCode] = down
	k.mu.Unlock()
}

func (k *keyState) down(keyCode uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.held[keyCode]
}

// applyKeys moves the orbit controller for every held key. Called once per tick.
func applyKeys(keys *keyState, ctrl camera.CameraController) {
	if keys.down(common.KeyLeft) || keys.down(common.KeyQ) {
		ctrl.OrbitLeft()
	}
	if keys.down(common.KeyRight) || keys.down(common.KeyE) {
		ctrl.OrbitRight()
	}
	if keys.down(common.KeyUp) {
		ctrl.OrbitUp()
	}
	if keys.down(common.KeyDown) {
		ctrl.OrbitDown()
	}
	if keys.down(common.KeyW) {
		ctrl.PanForward(1)
	}
	if keys.down(common.KeyS) {
		ctrl.PanForward(-1)
	}
	if keys.down(common.KeyA) {
		ctrl.PanRight(-1)
	}
	if keys.down(common.KeyD) {
		ctrl.PanRight(1)
	}
	if keys.down(common.KeyMinus) {
		ctrl.Zoom(-1)
	}
	if keys.down(common.KeyEqual) {
		ctrl.Zoom(1)
	}
}

// setupInput wires keyboard and mouse callbacks to the camera's orbit controller. Held keys are
// applied by passing the returned state to applyKeys each tick.
//
// Parameters:
//   - eng: the engine instance providing window callbacks
//   - cam: the camera to control
//
// Returns:
//   - *keyState: the tracked key state
func setupInput(eng engine.Engine, cam camera.Camera) *keyState {
	keys := newKeyState()
	ctrl := cam.Controller()

	eng.Window().SetKeyDownCallback(func(keyCode uint32) {
		keys.set(keyCode, true)
		if keyCode == common.KeyR {
			ctrl.SetTarget(mgl32.Vec3{})
		}
	})

	eng.Window().SetKeyUpCallback(func(keyCode uint32) {
		keys.set(keyCode, false)
	})

	var dragging bool
	var lastX, lastY int32

	eng.Window().SetMiddleMouseDownCallback(func(x, y int32) {
		dragging = true
		lastX, lastY = x, y
	})

	eng.Window().SetMiddleMouseUpCallback(func(_, _ int32) {
		dragging = false
	})

	eng.Window().SetMouseMoveCallback(func(x, y int32) {
		if !dragging {
			return
		}
		ctrl.Drag(float32(x-lastX), float32(y-lastY))
		lastX, lastY = x, y
	})

	eng.Window().SetScrollCallback(func(delta float32) {
		ctrl.Zoom(delta)
	})

	return keys
}

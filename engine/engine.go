package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// engine implements the Engine interface.
// Coordinates the tick goroutine and the render callback running on the window thread.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	camera   camera.Camera

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate   time.Duration
	tickCallback     func(deltaTime float32)
	renderCallback   func(deltaTime float32)
	shutdownCallback func()

	clearColor       mgl32.Vec4
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastRender       time.Time
}

// Engine is the main entry point for the engine.
// It runs game logic on a fixed-rate tick goroutine and renders on the window thread, which
// owns the graphics context; GPU work never leaves that thread.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer drawing into the window.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Camera returns the camera whose view-projection is applied each frame, or nil.
	//
	// Returns:
	//   - camera.Camera: the camera instance
	Camera() camera.Camera

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, after the camera is
	// updated. Use this for game logic and input processing. It runs on the tick goroutine
	// and must not issue GPU commands.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame on the window thread,
	// after the frame buffer is cleared and before the frame is presented. Draw here.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetShutdownCallback registers the function called on the window thread once the message
	// loop ends, while the graphics context is still alive. Release GPU resources here.
	//
	// Parameters:
	//   - callback: function to call before the renderer shuts down
	SetShutdownCallback(callback func())

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the tick goroutine and the window message loop. Blocks until the window
	// closes or Quit is called, then shuts the renderer down. Must be called on the thread
	// that created the window.
	Run()

	// Quit signals all engine goroutines to stop and ends the message loop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, camera, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
		clearColor:      mgl32.Vec4{0, 0, 0, 1},
	}
	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.renderer != nil {
				e.renderer.Resize(width, height)
			}
			if e.camera != nil && height > 0 {
				e.camera.SetAspect(float32(width) / float32(height))
			}
		})
		if e.camera != nil && e.window.Height() > 0 {
			e.camera.SetAspect(float32(e.window.Width()) / float32(e.window.Height()))
		}
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Run() {
	if e.window == nil || e.renderer == nil {
		log.Printf("[Engine] cannot run without a window and a renderer")
		return
	}

	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.lastRender = time.Now()
	e.window.SetUpdateCallback(e.renderFrame)
	e.handle()
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	if e.shutdownCallback != nil {
		e.shutdownCallback()
	}
	if err := e.renderer.ShutDown(); err != nil {
		log.Printf("[Engine] shutdown: %v", err)
	}
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit. The message loop
// notices on its next frame. Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick goroutine, tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(1)
	go e.handleEngine()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Updates the camera and fires the tick callback at the configured tick rate, and listens for
// dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

func (e *engine) tick(dt float32) {
	if e.camera != nil {
		e.camera.Update()
	}
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
}

// renderFrame runs once per message loop iteration on the window thread. Recovers from panics
// in the render callback and quits instead of crashing the process.
func (e *engine) renderFrame() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render callback recovered from panic: %v", r)
			e.signalQuit()
			e.window.RequestClose()
		}
	}()

	select {
	case <-e.quitChannel:
		e.window.RequestClose()
		return
	default:
	}

	now := time.Now()
	dt := float32(now.Sub(e.lastRender).Seconds())
	e.lastRender = now

	minimized := e.window.Minimized()
	if !minimized {
		if e.camera != nil {
			e.renderer.SetViewProjection(e.camera.ViewProjection())
		}
		e.renderer.ClearFrameBuffer(e.clearColor)
		if e.renderCallback != nil {
			e.renderCallback(dt)
		}
	}
	e.renderer.AdvanceFrame(minimized)

	if e.profilingEnabled && e.profiler != nil && !minimized {
		e.profiler.Tick(e.renderer.Stats().DrawCalls)
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		elapsed := time.Since(now)
		if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	running := e.running
	e.mu.Unlock()
	if !running {
		e.engineTickRate = newRate
		return
	}

	// Replace any pending update so the loop always sees the latest rate.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetShutdownCallback(callback func()) {
	e.shutdownCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

// Command oxyview opens a window and draws a textured cube with an axis gizmo, driven by an
// orbit camera. Pass -config with a .toml or .yaml file to override the defaults.
package main

import (
	"errors"
	"flag"
	"log"

	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	configPath := flag.String("config", "", "path to a .toml, .yaml or .yml config file")
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			log.Fatalf("[Viewer] %v", err)
		}
	}

	if err := run(cfg); err != nil {
		log.Fatalf("[Viewer] %v", err)
	}
}

func run(cfg Config) error {
	profile, err := cfg.Window.BackendProfile()
	if err != nil {
		return err
	}

	// Decode on the worker pool before the context exists; uploads happen on this thread.
	staged, err := texture.LoadFiles(cfg.Scene.Textures, cfg.Engine.LoadWorkers)
	if err != nil {
		log.Printf("[Viewer] some textures failed to load: %v", err)
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithProfile(profile),
		window.WithVSync(*cfg.Window.VSync),
	)
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(renderer.BackendTypeGL, win,
		renderer.WithClearColor(mgl32.Vec4(cfg.Scene.ClearColor)),
	)
	if err != nil {
		_ = win.Close()
		return err
	}

	view, err := buildScene(r, cfg, profile, staged)
	if err != nil {
		return errors.Join(err, r.ShutDown())
	}

	cam := camera.NewCamera(camera.WithController(camera.NewOrbitController()))
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithCamera(cam),
		engine.WithClearColor(mgl32.Vec4(cfg.Scene.ClearColor)),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
		engine.WithProfiling(cfg.Engine.Profiling),
	)
	keys := setupInput(eng, cam)

	eng.SetTickCallback(func(deltaTime float32) {
		applyKeys(keys, cam.Controller())
		view.world.Update(deltaTime)
	})
	eng.SetRenderCallback(func(float32) {
		view.draw(r)
	})
	eng.SetShutdownCallback(view.release)

	eng.Run()
	return nil
}


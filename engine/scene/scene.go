package scene

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

type scene struct {
	mu       sync.RWMutex
	name     string
	active   bool
	renderer renderer.Renderer
	registry map[uint64]game_object.GameObject
	nextID   uint64
}

// Scene manages a registry of GameObjects and draws them through a Renderer.
// Scenes can be hot-swapped via the Active flag to switch between different views or levels.
// Thread-safe for concurrent access: Update typically runs on the tick goroutine while Draw
// runs on the window thread.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// SetRenderer replaces the scene's renderer.
	//
	// Parameters:
	//   - r: the new renderer
	SetRenderer(r renderer.Renderer)

	// Count returns the number of GameObjects in the scene.
	//
	// Returns:
	//   - int: count of registered GameObjects
	Count() int

	// Add registers a GameObject. Objects without an ID, or whose ID is held by a different
	// object, are assigned the next free one. Adding a registered object again is a no-op.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get returns the object registered under id, or nil.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove unregisters the object with id. The object's mesh is not released.
	//
	// Parameters:
	//   - id: the object ID
	Remove(id uint64)

	// Clear removes every object.
	Clear()

	// Objects returns the registered objects ordered by ID.
	//
	// Returns:
	//   - []game_object.GameObject: a snapshot of the registry
	Objects() []game_object.GameObject

	// Update advances every object's animation state.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Update(deltaTime float32)

	// Draw renders every enabled object that carries a mesh, in ID order, with its model matrix.
	// Inactive scenes and scenes without a renderer draw nothing.
	//
	// Returns:
	//   - error: every draw failure joined, or nil
	Draw() error
}

var _ Scene = &scene{}

// NewScene creates an active, empty Scene configured with the given options.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		active:   true,
		registry: make(map[uint64]game_object.GameObject),
		nextID:   1,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderer
}

func (s *scene) SetRenderer(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer = r
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(obj)
}

// add must be called with mu held.
func (s *scene) add(obj game_object.GameObject) uint64 {
	held, taken := s.registry[obj.ID()]
	if taken && held == obj {
		return obj.ID()
	}
	if obj.ID() == 0 || taken {
		for s.registry[s.nextID] != nil {
			s.nextID++
		}
		obj.SetID(s.nextID)
		s.nextID++
	}
	s.registry[obj.ID()] = obj
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registry, id)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.registry)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects := make([]game_object.GameObject, 0, len(s.registry))
	for _, obj := range s.registry {
		objects = append(objects, obj)
	}
	slices.SortFunc(objects, func(a, b game_object.GameObject) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return objects
}

func (s *scene) Update(deltaTime float32) {
	for _, obj := range s.Objects() {
		obj.Update(deltaTime)
	}
}

func (s *scene) Draw() error {
	s.mu.RLock()
	active, r := s.active, s.renderer
	s.mu.RUnlock()
	if !active || r == nil {
		return nil
	}

	var errs []error
	for _, obj := range s.Objects() {
		m := obj.Mesh()
		if !obj.Enabled() || m == nil {
			continue
		}
		if err := r.DrawMeshAt(m, obj.ModelMatrix()); err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", obj.ID(), err))
		}
	}
	return errors.Join(errs...)
}

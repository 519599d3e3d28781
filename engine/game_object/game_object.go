package game_object

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id      uint64
	enabled atomic.Bool
	mesh    mesh.Mesh

	// transform is written by the tick goroutine and read by the render thread
	mu            sync.RWMutex
	position      mgl32.Vec3
	rotation      mgl32.Vec3
	rotationSpeed mgl32.Vec3
	scale         mgl32.Vec3
}

// GameObject defines the interface for a scene entity drawing a Mesh with its own transform.
// Rotation is stored as Euler angles in radians applied in X, Y, Z order; rotation speed is in
// radians per second and is integrated by Update.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Mesh returns the Mesh drawn for this object, or nil if not set.
	//
	// Returns:
	//   - mesh.Mesh: the associated mesh or nil
	Mesh() mesh.Mesh

	// Position returns the object's position in world space.
	Position() mgl32.Vec3

	// Rotation returns the object's Euler rotation in radians.
	Rotation() mgl32.Vec3

	// RotationSpeed returns the object's angular velocity in radians per second.
	RotationSpeed() mgl32.Vec3

	// Scale returns the object's per-axis scale.
	Scale() mgl32.Vec3

	// ModelMatrix composes translation, rotation and scale into the model-to-world matrix.
	//
	// Returns:
	//   - mgl32.Mat4: translate * rotateZ * rotateY * rotateX * scale
	ModelMatrix() mgl32.Mat4

	// Update advances the rotation by the rotation speed.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Update(deltaTime float32)

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetMesh assigns the Mesh to draw.
	//
	// Parameters:
	//   - m: the Mesh to associate
	SetMesh(m mesh.Mesh)

	// SetPosition moves the object.
	//
	// Parameters:
	//   - position: new world-space position
	SetPosition(position mgl32.Vec3)

	// SetRotation sets the Euler rotation.
	//
	// Parameters:
	//   - rotation: new rotation angles in radians
	SetRotation(rotation mgl32.Vec3)

	// SetRotationSpeed sets the angular velocity integrated by Update.
	//
	// Parameters:
	//   - speed: radians per second around each axis
	SetRotationSpeed(speed mgl32.Vec3)

	// SetScale sets the per-axis scale.
	//
	// Parameters:
	//   - scale: new scale factors
	SetScale(scale mgl32.Vec3)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject with unit scale, configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Mesh() mesh.Mesh {
	return g.mesh
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotation
}

func (g *gameObject) RotationSpeed() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotationSpeed
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rotation := mgl32.HomogRotate3DZ(g.rotation.Z()).
		Mul4(mgl32.HomogRotate3DY(g.rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(g.rotation.X()))
	return mgl32.Translate3D(g.position.Elem()).
		Mul4(rotation).
		Mul4(mgl32.Scale3D(g.scale.Elem()))
}

func (g *gameObject) Update(deltaTime float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rotationSpeed == (mgl32.Vec3{}) {
		return
	}
	g.rotation = wrapAngles(g.rotation.Add(g.rotationSpeed.Mul(deltaTime)))
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetMesh(m mesh.Mesh) {
	g.mesh = m
}

func (g *gameObject) SetPosition(position mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = position
}

func (g *gameObject) SetRotation(rotation mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = rotation
}

func (g *gameObject) SetRotationSpeed(speed mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotationSpeed = speed
}

func (g *gameObject) SetScale(scale mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = scale
}

// wrapAngles keeps each angle in (-2π, 2π) so long-running rotations do not lose precision.
func wrapAngles(v mgl32.Vec3) mgl32.Vec3 {
	const fullTurn = 2 * math.Pi
	for i := range v {
		for v[i] >= fullTurn {
			v[i] -= fullTurn
		}
		for v[i] <= -fullTurn {
			v[i] += fullTurn
		}
	}
	return v
}

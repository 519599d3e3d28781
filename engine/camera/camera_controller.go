package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController owns the positional state of a camera. The camera reads the position and
// target each Update and derives its view matrix from them. The position is kept on a sphere
// around the target described by radius, azimuth and elevation; panning moves target and
// position together so the orbit is preserved.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the pivot point and recomputes the position from the orbit.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// Zoom moves the camera along the orbit radius. Positive delta moves closer to the target.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	OrbitLeft()
	OrbitRight()
	OrbitUp()
	OrbitDown()

	// Drag orbits by a pointer movement in pixels, scaled by the mouse sensitivity.
	//
	// Parameters:
	//   - dx: horizontal movement, positive to the right
	//   - dy: vertical movement, positive downward
	Drag(dx, dy float32)

	// PanRight translates target and position along the camera's right axis.
	//
	// Parameters:
	//   - delta: distance scaled by the pan speed
	PanRight(delta float32)

	// PanForward translates target and position along the view direction projected on the
	// ground plane.
	//
	// Parameters:
	//   - delta: distance scaled by the pan speed
	PanForward(delta float32)

	Radius() float32
	SetRadius(radius float32)
	Azimuth() float32
	SetAzimuth(azimuth float32)
	Elevation() float32
	SetElevation(elevation float32)
}

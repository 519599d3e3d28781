package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*orbitController)

// WithOrbit sets the initial spherical coordinates of the camera around its target.
//
// Parameters:
//   - radius: distance from the target
//   - azimuth: angle around +Y in radians, 0 places the camera on +Z
//   - elevation: angle above the XZ plane in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the orbit
func WithOrbit(radius, azimuth, elevation float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.radius = radius
		cc.azimuth = azimuth
		cc.elevation = elevation
	}
}

// WithTarget sets the look-at/pivot point.
//
// Parameters:
//   - target: world-space pivot
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(target mgl32.Vec3) CameraControllerOption {
	return func(cc *orbitController) {
		cc.target = target
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius. The initial radius is clamped
// into the bounds.
//
// Parameters:
//   - minRadius: closest zoom distance
//   - maxRadius: farthest zoom distance
//
// Returns:
//   - CameraControllerOption: functional option to set radius bounds
func WithRadiusBounds(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithElevationBounds sets the minimum and maximum elevation angles. Keep both inside
// (-Pi/2, Pi/2) so the view never flips over the pole.
func WithElevationBounds(minElevation, maxElevation float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.minElevation = minElevation
		cc.maxElevation = maxElevation
	}
}

// WithSpeeds sets the input multipliers.
//
// Parameters:
//   - orbit: radians per OrbitLeft/Right/Up/Down call
//   - mouse: radians per dragged pixel
//   - zoom: radius change per unit of Zoom delta
//   - pan: distance per unit of pan delta
//
// Returns:
//   - CameraControllerOption: functional option to set the speeds
func WithSpeeds(orbit, mouse, zoom, pan float32) CameraControllerOption {
	return func(cc *orbitController) {
		cc.orbitSpeed = orbit
		cc.mouseSensitivity = mouse
		cc.zoomSpeed = zoom
		cc.panSpeed = pan
	}
}

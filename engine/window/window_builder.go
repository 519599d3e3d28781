package window

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithMaxWidth sets the maximum allowed window width.
//
// Parameters:
//   - maxWidth: maximum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxWidth(maxWidth int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = maxWidth
	}
}

// WithMaxHeight sets the maximum allowed window height.
//
// Parameters:
//   - maxHeight: maximum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMaxHeight(maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxHeight = maxHeight
	}
}

// WithMinWidth sets the minimum allowed window width.
//
// Parameters:
//   - minWidth: minimum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinWidth(minWidth int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = minWidth
	}
}

// WithMinHeight sets the minimum allowed window height.
//
// Parameters:
//   - minHeight: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinHeight(minHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minHeight = minHeight
	}
}

// WithWidth sets the initial window width.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithProfile selects the context API: an OpenGL 2.1 compatibility context for
// backend.ProfileDesktop or an undecorated OpenGL ES 2.0 context for backend.ProfileEmbedded.
//
// Parameters:
//   - profile: the API family to request
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithProfile(profile backend.Profile) WindowBuilderOption {
	return func(w *engineWindow) {
		w.profile = profile
	}
}

// WithVSync sets whether buffer swaps wait for the vertical blank. Enabled by default.
//
// Parameters:
//   - vsync: true for swap interval 1, false for 0
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithVSync(vsync bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.vsync = vsync
	}
}

// WithRequiredExtensions replaces the extensions checked after context creation. Desktop
// windows default to DesktopExtensions; pass an empty list to skip the check.
//
// Parameters:
//   - extensions: the extension names
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithRequiredExtensions(extensions ...string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.extensions = append([]string{}, extensions...)
	}
}

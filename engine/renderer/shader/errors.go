package shader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

var (
	// ErrUnknownInclude is returned when an #include directive names a snippet that is not registered.
	ErrUnknownInclude = errors.New("unknown include")

	// ErrMalformedInclude is returned for an #include directive without a quoted name.
	ErrMalformedInclude = errors.New("malformed include directive")

	// ErrIncludeCycle is returned when a snippet includes itself directly or indirectly.
	ErrIncludeCycle = errors.New("include cycle")

	// ErrReleased is returned when a released program is used.
	ErrReleased = errors.New("shader program already released")
)

// CompileError reports a shader stage that failed to compile. Log holds the driver's diagnostic text.
type CompileError struct {
	Label string
	Stage backend.ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: %s shader compile failed: %s", e.Label, e.Stage, e.Log)
	}
	return fmt.Sprintf("%s shader compile failed: %s", e.Stage, e.Log)
}

// LinkError reports a program whose stages compiled but failed to link together.
type LinkError struct {
	Label string
	Log   string
}

func (e *LinkError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s: program link failed: %s", e.Label, e.Log)
	}
	return fmt.Sprintf("program link failed: %s", e.Log)
}

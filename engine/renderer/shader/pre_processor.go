// pre_processor.go implements the GLSL source pre-processor. It prepends the profile preamble
// and expands `#include "name"` lines from a registry of named snippets before the source
// reaches the driver.
//
// Two snippets are always registered:
//   - oxy_attributes: declarations for the four fixed vertex attributes (aPosition, aNormal,
//     aTexCoord, aColor). Only valid in vertex shaders.
//   - oxy_uniforms: declarations for the standard uniforms looked up on link
//     (model_view_projection, color, texture_unit_0).
package shader

import (
	_ "embed"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

//go:embed assets/oxy_attributes.glsl
var attributesSource string

//go:embed assets/oxy_uniforms.glsl
var uniformsSource string

const (
	// IncludeAttributes is the registry name of the fixed vertex attribute declarations.
	IncludeAttributes = "oxy_attributes"

	// IncludeUniforms is the registry name of the standard uniform declarations.
	IncludeUniforms = "oxy_uniforms"
)

const (
	desktopPreamble  = "#version 120\n"
	embeddedPreamble = "#ifdef GL_ES\nprecision highp float;\n#endif\n"
)

var includeDirective = regexp.MustCompile(`^\s*#include\s+"([^"]+)"\s*$`)

// Preamble returns the text prepended to every shader source for the given profile.
//
// Parameters:
//   - profile: the API family the source is compiled for
//
// Returns:
//   - string: the preamble, ending in a newline
func Preamble(profile backend.Profile) string {
	if profile == backend.ProfileEmbedded {
		return embeddedPreamble
	}
	return desktopPreamble
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	profile  backend.Profile
	includes map[string]string
}

// PreProcessor turns raw GLSL into the exact text handed to the driver.
type PreProcessor interface {
	// Process prepends the profile preamble and replaces every `#include "name"` line with the
	// registered snippet, recursively.
	//
	// Parameters:
	//   - source: the raw GLSL source
	//
	// Returns:
	//   - string: the processed source
	//   - error: ErrUnknownInclude, ErrMalformedInclude or ErrIncludeCycle, prefixed with the line number
	Process(source string) (string, error)

	// Includes returns the registered snippet names in sorted order.
	//
	// Returns:
	//   - []string: the snippet names
	Includes() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor for a profile. The built-in snippets are always
// registered; entries in includes are added on top and may replace them.
//
// Parameters:
//   - profile: the API family selecting the preamble
//   - includes: additional named GLSL snippets, may be nil
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(profile backend.Profile, includes map[string]string) PreProcessor {
	registry := map[string]string{
		IncludeAttributes: attributesSource,
		IncludeUniforms:   uniformsSource,
	}
	maps.Copy(registry, includes)
	return &preProcessor{profile: profile, includes: registry}
}

func (p *preProcessor) Process(source string) (string, error) {
	body, err := p.expand(source, nil)
	if err != nil {
		return "", err
	}
	return Preamble(p.profile) + body, nil
}

func (p *preProcessor) Includes() []string {
	return slices.Sorted(maps.Keys(p.includes))
}

// expand resolves the include directives of source. stack holds the snippet names currently
// being expanded.
func (p *preProcessor) expand(source string, stack []string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "#include") {
			out = append(out, line)
			continue
		}

		m := includeDirective.FindStringSubmatch(line)
		if m == nil {
			return "", p.lineError(stack, i+1, fmt.Errorf("%w: %q", ErrMalformedInclude, strings.TrimSpace(line)))
		}
		name := m[1]
		if slices.Contains(stack, name) {
			return "", p.lineError(stack, i+1, fmt.Errorf("%w: %s -> %s", ErrIncludeCycle, strings.Join(stack, " -> "), name))
		}
		snippet, ok := p.includes[name]
		if !ok {
			return "", p.lineError(stack, i+1, fmt.Errorf("%w %q", ErrUnknownInclude, name))
		}

		expanded, err := p.expand(strings.TrimRight(snippet, "\n"), append(stack, name))
		if err != nil {
			return "", err
		}
		out = append(out, expanded)
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) lineError(stack []string, line int, err error) error {
	if len(stack) == 0 {
		return fmt.Errorf("line %d: %w", line, err)
	}
	return fmt.Errorf("%s line %d: %w", stack[len(stack)-1], line, err)
}

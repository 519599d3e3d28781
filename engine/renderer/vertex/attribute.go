// Package vertex describes per-vertex layouts and binds them to the fixed attribute slots of
// the pipeline. A Format is declared once per layout and bound around every draw that reads
// vertices with that layout.
package vertex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// Slot is a fixed pipeline input index. Slots are global pipeline state shared by every
// mesh, so each Bind must be paired with a release before another format is bound.
type Slot uint32

const (
	SlotPosition Slot = iota
	SlotNormal
	SlotTexCoord
	SlotColor

	// SlotCount is the number of fixed attribute slots.
	SlotCount = 4
)

// Name returns the vertex shader attribute name bound to the slot at link time.
//
// Returns:
//   - string: the GLSL attribute name
func (s Slot) Name() string {
	switch s {
	case SlotPosition:
		return "aPosition"
	case SlotNormal:
		return "aNormal"
	case SlotTexCoord:
		return "aTexCoord"
	case SlotColor:
		return "aColor"
	default:
		return ""
	}
}

// Slots returns every fixed slot in index order.
func Slots() []Slot {
	return []Slot{SlotPosition, SlotNormal, SlotTexCoord, SlotColor}
}

// Attribute is one per-vertex field. Each variant has a fixed size, slot and component
// encoding.
type Attribute int

const (
	// Position3f is three 32-bit floats bound to SlotPosition.
	Position3f Attribute = iota

	// Normal3f is three 32-bit floats bound to SlotNormal.
	Normal3f

	// TexCoord2f is two 32-bit floats bound to SlotTexCoord.
	TexCoord2f

	// Color4ub is four unsigned bytes bound to SlotColor, normalized to [0, 1].
	Color4ub
)

type attributeInfo struct {
	slot       Slot
	components int32
	typ        backend.ComponentType
	normalized bool
	size       int
	name       string
}

var attributeTable = [...]attributeInfo{
	Position3f: {slot: SlotPosition, components: 3, typ: backend.ComponentFloat, size: 3 * 4, name: "Position3f"},
	Normal3f:   {slot: SlotNormal, components: 3, typ: backend.ComponentFloat, size: 3 * 4, name: "Normal3f"},
	TexCoord2f: {slot: SlotTexCoord, components: 2, typ: backend.ComponentFloat, size: 2 * 4, name: "TexCoord2f"},
	Color4ub:   {slot: SlotColor, components: 4, typ: backend.ComponentUnsignedByte, normalized: true, size: 4, name: "Color4ub"},
}

func (a Attribute) valid() bool {
	return a >= 0 && int(a) < len(attributeTable)
}

// Slot returns the fixed slot the attribute binds to.
func (a Attribute) Slot() Slot { return attributeTable[a].slot }

// Components returns the number of components per vertex.
func (a Attribute) Components() int32 { return attributeTable[a].components }

// Type returns the component scalar type.
func (a Attribute) Type() backend.ComponentType { return attributeTable[a].typ }

// Normalized reports whether integer components are normalized when read.
func (a Attribute) Normalized() bool { return attributeTable[a].normalized }

// Size returns the attribute's byte size inside a vertex.
func (a Attribute) Size() int { return attributeTable[a].size }

func (a Attribute) String() string {
	if !a.valid() {
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
	return attributeTable[a].name
}

var (
	// ErrEmptyFormat is returned when a format is declared without attributes.
	ErrEmptyFormat = errors.New("vertex: format has no attributes")

	// ErrUnknownAttribute is returned for an attribute value outside the defined variants.
	ErrUnknownAttribute = errors.New("vertex: unknown attribute")

	// ErrDuplicateAttribute is returned when an attribute appears twice in one format.
	ErrDuplicateAttribute = errors.New("vertex: duplicate attribute")
)

// Format is an immutable, ordered vertex layout. Attribute offsets are the cumulative sizes
// of the attributes declared before them.
type Format struct {
	attributes []Attribute
}

// NewFormat validates and builds a Format from the attributes in declaration order.
//
// Parameters:
//   - attributes: the per-vertex fields, in the order they appear in memory
//
// Returns:
//   - Format: the layout
//   - error: ErrEmptyFormat, ErrUnknownAttribute or ErrDuplicateAttribute
func NewFormat(attributes ...Attribute) (Format, error) {
	if len(attributes) == 0 {
		return Format{}, ErrEmptyFormat
	}
	var seen [SlotCount]bool
	for i, a := range attributes {
		if !a.valid() {
			return Format{}, fmt.Errorf("%w at index %d: %d", ErrUnknownAttribute, i, int(a))
		}
		if seen[a.Slot()] {
			return Format{}, fmt.Errorf("%w at index %d: %s", ErrDuplicateAttribute, i, a)
		}
		seen[a.Slot()] = true
	}
	return Format{attributes: append([]Attribute(nil), attributes...)}, nil
}

// MustFormat is like NewFormat but panics on an invalid layout. Intended for package-level
// format declarations.
func MustFormat(attributes ...Attribute) Format {
	f, err := NewFormat(attributes...)
	if err != nil {
		panic(err)
	}
	return f
}

// Attributes returns a copy of the attributes in declaration order.
func (f Format) Attributes() []Attribute {
	return append([]Attribute(nil), f.attributes...)
}

// Len returns the number of attributes.
func (f Format) Len() int {
	return len(f.attributes)
}

// Size returns the byte size of one vertex with this layout when tightly packed.
func (f Format) Size() int {
	size := 0
	for _, a := range f.attributes {
		size += a.Size()
	}
	return size
}

// Offset returns the byte offset of attribute a, or false if the format does not contain it.
//
// Parameters:
//   - a: the attribute to locate
//
// Returns:
//   - int: the byte offset inside a vertex
//   - bool: whether the attribute is part of the format
func (f Format) Offset(a Attribute) (int, bool) {
	offset := 0
	for _, attr := range f.attributes {
		if attr == a {
			return offset, true
		}
		offset += attr.Size()
	}
	return 0, false
}

// Has reports whether the format contains attribute a.
func (f Format) Has(a Attribute) bool {
	_, ok := f.Offset(a)
	return ok
}

func (f Format) String() string {
	names := make([]string, len(f.attributes))
	for i, a := range f.attributes {
		names[i] = a.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

package mesh

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/vertex"
)

// VertexFormat is the layout produced by Vertex.Marshal.
var VertexFormat = vertex.MustFormat(vertex.Position3f, vertex.Normal3f, vertex.TexCoord2f, vertex.Color4ub)

// ColorVertexFormat is the layout produced by ColorVertex.Marshal.
var ColorVertexFormat = vertex.MustFormat(vertex.Position3f, vertex.Color4ub)

// Vertex is a fully attributed mesh vertex laid out as VertexFormat.
// Size: 36 bytes, tightly packed.
type Vertex struct {
	Position [3]float32 // offset  0: position in model space (12 bytes)
	Normal   [3]float32 // offset 12: surface normal (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
	Color    [4]uint8   // offset 32: RGBA color, normalized on read (4 bytes)
}

// Size returns the size of a marshaled Vertex in bytes.
//
// Returns:
//   - int: the size of the vertex in bytes.
func (v *Vertex) Size() int {
	return VertexFormat.Size()
}

// Marshal serializes the vertex into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 36-byte buffer ready for GPU upload.
func (v *Vertex) Marshal() []byte {
	return v.appendTo(make([]byte, 0, 36))
}

func (v *Vertex) appendTo(buf []byte) []byte {
	buf = appendFloats(buf, v.Position[:]...)
	buf = appendFloats(buf, v.Normal[:]...)
	buf = appendFloats(buf, v.TexCoord[:]...)
	return append(buf, v.Color[:]...)
}

// ColorVertex is a position + color vertex laid out as ColorVertexFormat, used for debug and
// immediate-mode geometry.
// Size: 16 bytes, tightly packed.
type ColorVertex struct {
	Position [3]float32 // offset  0: position in model space (12 bytes)
	Color    [4]uint8   // offset 12: RGBA color, normalized on read (4 bytes)
}

// Size returns the size of a marshaled ColorVertex in bytes.
//
// Returns:
//   - int: the size of the vertex in bytes.
func (v *ColorVertex) Size() int {
	return ColorVertexFormat.Size()
}

// Marshal serializes the vertex into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (v *ColorVertex) Marshal() []byte {
	return v.appendTo(make([]byte, 0, 16))
}

func (v *ColorVertex) appendTo(buf []byte) []byte {
	buf = appendFloats(buf, v.Position[:]...)
	return append(buf, v.Color[:]...)
}

// MarshalVertices serializes a vertex slice into one contiguous buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices)*36 bytes
func MarshalVertices(vertices []Vertex) []byte {
	buf := make([]byte, 0, len(vertices)*36)
	for i := range vertices {
		buf = vertices[i].appendTo(buf)
	}
	return buf
}

// MarshalColorVertices serializes a color vertex slice into one contiguous buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices)*16 bytes
func MarshalColorVertices(vertices []ColorVertex) []byte {
	buf := make([]byte, 0, len(vertices)*16)
	for i := range vertices {
		buf = vertices[i].appendTo(buf)
	}
	return buf
}

// MarshalIndices serializes 32-bit indices little-endian.
//
// Parameters:
//   - indices: the indices to serialize
//
// Returns:
//   - []byte: len(indices)*4 bytes
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

func appendFloats(buf []byte, values ...float32) []byte {
	for _, f := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

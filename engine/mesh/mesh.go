// Package mesh draws indexed geometry: one static vertex buffer shared by any number of index
// ranges, each drawn with its own material.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/vertex"
)

var (
	// ErrReleased is returned when a released mesh is modified or drawn.
	ErrReleased = errors.New("mesh already released")

	// ErrVertexSize is returned when the vertex size is smaller than the format it must hold.
	ErrVertexSize = errors.New("vertex size smaller than format size")

	// ErrShortVertexData is returned when the vertex data holds fewer bytes than count*vertexSize.
	ErrShortVertexData = errors.New("vertex data shorter than count * vertex size")

	// ErrIndexOutOfRange is returned for an index referencing a vertex past the end of the buffer.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNilMaterial is returned when an index range is added without a material.
	ErrNilMaterial = errors.New("index range requires a material")
)

// IndexRange is one draw of a mesh: an index buffer owned by the mesh and the material it is
// drawn with, borrowed from the caller.
type IndexRange struct {
	Buffer   backend.Buffer
	Count    int32
	Material material.Material
}

// mesh is the implementation of the Mesh interface.
type mesh struct {
	b            backend.Backend
	name         string
	vertexBuffer backend.Buffer
	vertexCount  int
	vertexSize   int
	format       vertex.Format
	ranges       []IndexRange
	released     bool
}

// Mesh defines the interface for an indexed mesh. The vertex buffer is uploaded once at
// construction; index ranges are appended with AddIndices and drawn in insertion order.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// VertexBuffer returns the handle of the shared vertex buffer.
	//
	// Returns:
	//   - backend.Buffer: the buffer handle, or zero after Release
	VertexBuffer() backend.Buffer

	// VertexCount returns the number of vertices uploaded.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// VertexSize returns the stride between consecutive vertices in bytes.
	//
	// Returns:
	//   - int: the vertex size
	VertexSize() int

	// Format returns the vertex layout.
	//
	// Returns:
	//   - vertex.Format: the format
	Format() vertex.Format

	// Ranges returns a copy of the index ranges in draw order.
	//
	// Returns:
	//   - []IndexRange: the index ranges
	Ranges() []IndexRange

	// AddIndices uploads 32-bit indices into a new static index buffer and appends a range
	// drawn with mat. The mesh borrows mat and never releases it.
	//
	// Parameters:
	//   - indices: the triangle-list indices into the vertex buffer
	//   - mat: the material the range is drawn with
	//
	// Returns:
	//   - error: ErrReleased, ErrNilMaterial or ErrIndexOutOfRange
	AddIndices(indices []uint32, mat material.Material) error

	// Render binds the vertex attributes once, then activates each range's material and draws
	// its indices as a triangle list, in insertion order. The attributes are unbound before
	// returning. Ranges whose program was released are skipped.
	//
	// Parameters:
	//   - state: the frame state handed to every material
	//
	// Returns:
	//   - int: the number of draw calls issued
	//   - error: ErrReleased if the mesh was released, or shader.ErrReleased for each skipped range
	Render(state common.FrameState) (int, error)

	// Release deletes the vertex buffer and every index buffer. Calls after the first are
	// no-ops.
	Release()

	// Released reports whether Release has been called.
	//
	// Returns:
	//   - bool: true once released
	Released() bool
}

var _ Mesh = &mesh{}

// NewMesh uploads count vertices of vertexSize bytes each into a static vertex buffer.
//
// Parameters:
//   - b: the backend to create buffers on
//   - vertexData: the vertex bytes; only the first count*vertexSize are uploaded
//   - count: the number of vertices
//   - vertexSize: the stride between consecutive vertices in bytes
//   - format: the vertex layout, whose size must not exceed vertexSize
//   - options: a variadic list of MeshBuilderOption functions to configure the mesh
//
// Returns:
//   - Mesh: the new mesh
//   - error: ErrVertexSize or ErrShortVertexData
func NewMesh(b backend.Backend, vertexData []byte, count, vertexSize int, format vertex.Format, options ...MeshBuilderOption) (Mesh, error) {
	if format.Len() == 0 {
		return nil, vertex.ErrEmptyFormat
	}
	if vertexSize < format.Size() {
		return nil, fmt.Errorf("%w: %d < %d", ErrVertexSize, vertexSize, format.Size())
	}
	if count < 0 || len(vertexData) < count*vertexSize {
		return nil, fmt.Errorf("%w: %d bytes for %d vertices of %d bytes", ErrShortVertexData, len(vertexData), count, vertexSize)
	}

	m := &mesh{
		b:           b,
		vertexCount: count,
		vertexSize:  vertexSize,
		format:      format,
	}
	for _, opt := range options {
		opt(m)
	}

	m.vertexBuffer = b.CreateBuffer()
	b.BindBuffer(backend.TargetArray, m.vertexBuffer)
	b.BufferData(backend.TargetArray, vertexData[:count*vertexSize], backend.UsageStatic)
	return m, nil
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) VertexBuffer() backend.Buffer {
	return m.vertexBuffer
}

func (m *mesh) VertexCount() int {
	return m.vertexCount
}

func (m *mesh) VertexSize() int {
	return m.vertexSize
}

func (m *mesh) Format() vertex.Format {
	return m.format
}

func (m *mesh) Ranges() []IndexRange {
	return append([]IndexRange(nil), m.ranges...)
}

func (m *mesh) AddIndices(indices []uint32, mat material.Material) error {
	if m.released {
		return ErrReleased
	}
	if mat == nil {
		return ErrNilMaterial
	}
	if err := checkIndices(indices, m.vertexCount); err != nil {
		return err
	}

	buf := m.b.CreateBuffer()
	m.b.BindBuffer(backend.TargetElementArray, buf)
	m.b.BufferData(backend.TargetElementArray, MarshalIndices(indices), backend.UsageStatic)
	m.ranges = append(m.ranges, IndexRange{Buffer: buf, Count: int32(len(indices)), Material: mat})
	return nil
}

func (m *mesh) Render(state common.FrameState) (int, error) {
	if m.released {
		return 0, ErrReleased
	}
	binding := vertex.Bind(m.b, m.vertexBuffer, m.format, m.vertexSize)
	defer binding.Release()

	var errs []error
	drawn := 0
	for i, r := range m.ranges {
		if p := r.Material.Program(); p != nil && p.Released() {
			errs = append(errs, fmt.Errorf("range %d: %w", i, shader.ErrReleased))
			continue
		}
		r.Material.Activate(state)
		m.b.BindBuffer(backend.TargetElementArray, r.Buffer)
		m.b.DrawElements(backend.PrimitiveTriangles, r.Count, 0)
		drawn++
	}
	return drawn, errors.Join(errs...)
}

func (m *mesh) Release() {
	if m.released {
		return
	}
	m.released = true
	m.b.DeleteBuffer(m.vertexBuffer)
	for _, r := range m.ranges {
		m.b.DeleteBuffer(r.Buffer)
	}
	m.vertexBuffer = 0
	m.ranges = nil
}

func (m *mesh) Released() bool {
	return m.released
}

func checkIndices(indices []uint32, vertexCount int) error {
	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return fmt.Errorf("%w: indices[%d] = %d with %d vertices", ErrIndexOutOfRange, i, idx, vertexCount)
		}
	}
	return nil
}

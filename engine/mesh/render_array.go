package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/vertex"
)

// RenderArray draws caller-owned geometry once without keeping any GPU buffer alive. Go memory
// cannot be handed to the driver for use after the call returns, so the vertices and indices
// are streamed into transient buffers that are deleted before RenderArray returns. The
// currently active program is used; callers activate a material or program first.
//
// Parameters:
//   - b: the backend to draw on
//   - primitive: the topology the indices describe
//   - indexCount: the number of indices to draw from the start of indices
//   - format: the vertex layout
//   - vertexSize: the stride between consecutive vertices in bytes
//   - vertices: the vertex bytes
//   - indices: the 32-bit indices
//
// Returns:
//   - error: ErrVertexSize, ErrIndexOutOfRange or an error for an index count past the end of indices
func RenderArray(b backend.Backend, primitive backend.Primitive, indexCount int, format vertex.Format, vertexSize int, vertices []byte, indices []uint32) error {
	if format.Len() == 0 {
		return vertex.ErrEmptyFormat
	}
	if vertexSize < format.Size() {
		return fmt.Errorf("%w: %d < %d", ErrVertexSize, vertexSize, format.Size())
	}
	if indexCount < 0 || indexCount > len(indices) {
		return fmt.Errorf("%w: index count %d with %d indices", ErrIndexOutOfRange, indexCount, len(indices))
	}
	if err := checkIndices(indices[:indexCount], len(vertices)/vertexSize); err != nil {
		return err
	}
	if indexCount == 0 {
		return nil
	}

	vbo := b.CreateBuffer()
	ibo := b.CreateBuffer()
	defer func() {
		b.DeleteBuffer(ibo)
		b.DeleteBuffer(vbo)
	}()

	b.BindBuffer(backend.TargetArray, vbo)
	b.BufferData(backend.TargetArray, vertices, backend.UsageStream)
	b.BindBuffer(backend.TargetElementArray, ibo)
	b.BufferData(backend.TargetElementArray, MarshalIndices(indices[:indexCount]), backend.UsageStream)

	binding := vertex.Bind(b, vbo, format, vertexSize)
	defer binding.Release()

	b.DrawElements(primitive, int32(indexCount), 0)
	return nil
}

package vertex

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// Binding is the scope guard returned by Bind. Release disables the slots the bind enabled;
// it is safe to call more than once, so `defer binding.Release()` covers early returns.
type Binding struct {
	b        backend.Backend
	format   Format
	consumed int
	released bool
}

// Bind makes buffer the array buffer and registers every attribute of format against its
// fixed slot, walking the layout from offset zero.
//
// Parameters:
//   - b: the backend to issue calls on
//   - buffer: the vertex buffer holding the data
//   - format: the vertex layout
//   - stride: the byte distance between consecutive vertices
//
// Returns:
//   - *Binding: the guard that unbinds the slots
func Bind(b backend.Backend, buffer backend.Buffer, format Format, stride int) *Binding {
	b.BindBuffer(backend.TargetArray, buffer)
	offset := 0
	for _, a := range format.attributes {
		slot := uint32(a.Slot())
		b.EnableVertexAttribArray(slot)
		b.VertexAttribPointer(slot, a.Components(), a.Type(), a.Normalized(), int32(stride), offset)
		offset += a.Size()
	}
	return &Binding{b: b, format: format, consumed: offset}
}

// Consumed returns the number of vertex bytes the bound attributes cover. Always equal to
// the format's Size.
func (bd *Binding) Consumed() int {
	return bd.consumed
}

// Release disables every slot enabled by the Bind that produced this guard.
func (bd *Binding) Release() {
	if bd == nil || bd.released {
		return
	}
	bd.released = true
	Unbind(bd.b, bd.format)
}

// Unbind disables the slot of every attribute in format, independent of offsets.
//
// Parameters:
//   - b: the backend to issue calls on
//   - format: the vertex layout previously bound
func Unbind(b backend.Backend, format Format) {
	for _, a := range format.attributes {
		b.DisableVertexAttribArray(uint32(a.Slot()))
	}
}

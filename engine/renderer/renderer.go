package renderer

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/vertex"
	"github.com/go-gl/mathgl/mgl32"
)

// minimizedFrameDelay is how long AdvanceFrame yields instead of presenting while the surface
// is minimized.
var minimizedFrameDelay = 10 * time.Millisecond

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     backend.Backend
	surface     Surface

	frameState common.FrameState
	clearColor mgl32.Vec4

	drawCalls int
	frame     uint64
	lastStats FrameStats

	lastErr  error
	shutDown bool
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the backend and the per-frame state read by shader programs, marks frame
// boundaries on its Surface and creates GPU resources against its backend. Every method that
// issues GPU commands must be called on the thread owning the graphics context. The frame
// state setters and Stats may be called from any goroutine.
type Renderer interface {
	// Backend returns the backend GPU commands are issued on.
	//
	// Returns:
	//   - backend.Backend: the backend
	Backend() backend.Backend

	// FrameState returns a copy of the state handed to programs when they are activated.
	//
	// Returns:
	//   - common.FrameState: the current frame state
	FrameState() common.FrameState

	// SetViewProjection replaces the view-projection matrix of the frame state.
	//
	// Parameters:
	//   - m: the combined view-projection matrix
	SetViewProjection(m mgl32.Mat4)

	// SetColor replaces the flat color of the frame state.
	//
	// Parameters:
	//   - color: the RGBA color
	SetColor(color mgl32.Vec4)

	// ClearFrameBuffer clears the color and depth buffers, the color buffer to color.
	//
	// Parameters:
	//   - color: the RGBA clear color
	ClearFrameBuffer(color mgl32.Vec4)

	// AdvanceFrame ends the current frame. A minimized surface is not presented; the call
	// sleeps briefly instead so a hidden window does not spin. Otherwise the back buffer is
	// swapped. Either way the viewport is reset to the surface size and the frame counters
	// roll over.
	//
	// Parameters:
	//   - minimized: whether the surface is currently minimized
	AdvanceFrame(minimized bool)

	// Resize sets the viewport to the new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// CompileAndLinkShader compiles and links a program on the renderer's backend.
	//
	// Parameters:
	//   - vsSource: the vertex stage source
	//   - fsSource: the fragment stage source
	//   - options: ShaderBuilderOption functions forwarded to shader.CompileAndLink
	//
	// Returns:
	//   - shader.Program: the linked and initialized program
	//   - error: a *shader.CompileError, a *shader.LinkError or a pre-processing error
	CompileAndLinkShader(vsSource, fsSource string, options ...shader.ShaderBuilderOption) (shader.Program, error)

	// CreateTexture uploads decoded pixels as a texture.
	//
	// Parameters:
	//   - staging: the decoded RGBA8 pixels
	//   - options: TextureBuilderOption functions forwarded to texture.NewTexture
	//
	// Returns:
	//   - texture.Texture: the GPU texture
	//   - error: texture.ErrInvalidStaging for malformed pixel data
	CreateTexture(staging common.TextureStagingData, options ...texture.TextureBuilderOption) (texture.Texture, error)

	// CreateTextureFromTGAMemory decodes an uncompressed TGA image held in memory and uploads it.
	//
	// Parameters:
	//   - buf: the complete TGA file contents
	//   - options: TextureBuilderOption functions forwarded to texture.NewTexture
	//
	// Returns:
	//   - texture.Texture: the GPU texture
	//   - error: a TGA decode error
	CreateTextureFromTGAMemory(buf []byte, options ...texture.TextureBuilderOption) (texture.Texture, error)

	// NewMesh uploads vertex data into a new mesh.
	//
	// Parameters:
	//   - vertexData: the vertex bytes
	//   - count: the number of vertices
	//   - vertexSize: the stride between consecutive vertices in bytes
	//   - format: the vertex layout
	//   - options: MeshBuilderOption functions forwarded to mesh.NewMesh
	//
	// Returns:
	//   - mesh.Mesh: the mesh
	//   - error: a mesh validation error
	NewMesh(vertexData []byte, count, vertexSize int, format vertex.Format, options ...mesh.MeshBuilderOption) (mesh.Mesh, error)

	// DrawMesh renders every index range of m with the current frame state.
	//
	// Parameters:
	//   - m: the mesh to draw
	//
	// Returns:
	//   - error: mesh.ErrReleased if m was released
	DrawMesh(m mesh.Mesh) error

	// DrawMeshAt renders m with the frame's view-projection multiplied by a model matrix.
	//
	// Parameters:
	//   - m: the mesh to draw
	//   - model: the model-to-world transform
	//
	// Returns:
	//   - error: mesh.ErrReleased if m was released
	DrawMeshAt(m mesh.Mesh, model mgl32.Mat4) error

	// RenderArray draws caller-owned geometry once with the currently active program.
	//
	// Parameters:
	//   - primitive: the topology the indices describe
	//   - indexCount: the number of indices to draw
	//   - format: the vertex layout
	//   - vertexSize: the stride between consecutive vertices in bytes
	//   - vertices: the vertex bytes
	//   - indices: the 32-bit indices
	//
	// Returns:
	//   - error: a mesh validation error
	RenderArray(primitive backend.Primitive, indexCount int, format vertex.Format, vertexSize int, vertices []byte, indices []uint32) error

	// LastError returns the most recent error reported by a renderer operation, or nil.
	//
	// Returns:
	//   - error: the last error
	LastError() error

	// Stats returns the counters of the last completed frame.
	//
	// Returns:
	//   - FrameStats: the frame counters
	Stats() FrameStats

	// ShutDown closes the surface when it can be closed. Calls after the first are no-ops.
	//
	// Returns:
	//   - error: the error returned by the surface's Close
	ShutDown() error
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer drawing into surface. Unless a backend is injected with
// WithBackend, the backend selected by backendType is built for the surface's profile on the
// calling thread, which must own the surface's current context.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - surface: the presentation target
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if the backend could not be initialized
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		surface:     surface,
		frameState:  common.DefaultFrameState(),
		clearColor:  mgl32.Vec4{0, 0, 0, 1},
	}
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		b, err := newBackend(backendType, surface.Profile())
		if err != nil {
			return nil, fmt.Errorf("failed to create %s backend: %w", backendType, err)
		}
		r.backend = b
	}

	r.backend.Enable(backend.CapabilityDepthTest)
	r.backend.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], r.clearColor[3])
	r.Resize(surface.Width(), surface.Height())
	return r, nil
}

func (r *renderer) Backend() backend.Backend {
	return r.backend
}

func (r *renderer) FrameState() common.FrameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameState
}

func (r *renderer) SetViewProjection(m mgl32.Mat4) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frameState.ViewProjection = m
}

func (r *renderer) SetColor(color mgl32.Vec4) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frameState.Color = color
}

func (r *renderer) ClearFrameBuffer(color mgl32.Vec4) {
	if color != r.clearColor {
		r.backend.ClearColor(color[0], color[1], color[2], color[3])
		r.clearColor = color
	}
	r.backend.Clear(backend.ClearColor | backend.ClearDepth)
}

func (r *renderer) AdvanceFrame(minimized bool) {
	if minimized {
		time.Sleep(minimizedFrameDelay)
	} else {
		r.surface.SwapBuffers()
	}
	r.Resize(r.surface.Width(), r.surface.Height())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame++
	r.lastStats = FrameStats{Frame: r.frame, DrawCalls: r.drawCalls, Skipped: minimized}
	r.drawCalls = 0
}

func (r *renderer) Resize(width, height int) {
	r.backend.Viewport(0, 0, int32(width), int32(height))
}

func (r *renderer) CompileAndLinkShader(vsSource, fsSource string, options ...shader.ShaderBuilderOption) (shader.Program, error) {
	p, err := shader.CompileAndLink(r.backend, vsSource, fsSource, options...)
	return p, r.report(err)
}

func (r *renderer) CreateTexture(staging common.TextureStagingData, options ...texture.TextureBuilderOption) (texture.Texture, error) {
	t, err := texture.NewTexture(r.backend, staging, options...)
	return t, r.report(err)
}

func (r *renderer) CreateTextureFromTGAMemory(buf []byte, options ...texture.TextureBuilderOption) (texture.Texture, error) {
	t, err := texture.NewTextureFromTGA(r.backend, buf, options...)
	return t, r.report(err)
}

func (r *renderer) NewMesh(vertexData []byte, count, vertexSize int, format vertex.Format, options ...mesh.MeshBuilderOption) (mesh.Mesh, error) {
	m, err := mesh.NewMesh(r.backend, vertexData, count, vertexSize, format, options...)
	return m, r.report(err)
}

func (r *renderer) DrawMesh(m mesh.Mesh) error {
	return r.drawMesh(m, r.FrameState())
}

func (r *renderer) DrawMeshAt(m mesh.Mesh, model mgl32.Mat4) error {
	state := r.FrameState()
	state.ViewProjection = state.ViewProjection.Mul4(model)
	return r.drawMesh(m, state)
}

func (r *renderer) drawMesh(m mesh.Mesh, state common.FrameState) error {
	n, err := m.Render(state)
	r.countDraws(n)
	return r.report(err)
}

func (r *renderer) RenderArray(primitive backend.Primitive, indexCount int, format vertex.Format, vertexSize int, vertices []byte, indices []uint32) error {
	err := mesh.RenderArray(r.backend, primitive, indexCount, format, vertexSize, vertices, indices)
	if err == nil && indexCount > 0 {
		r.countDraws(1)
	}
	return r.report(err)
}

func (r *renderer) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastStats
}

func (r *renderer) ShutDown() error {
	r.mu.Lock()
	if r.shutDown {
		r.mu.Unlock()
		return nil
	}
	r.shutDown = true
	r.mu.Unlock()

	if c, ok := r.surface.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// report stores a non-nil err as the last error and logs it, returning err unchanged.
func (r *renderer) report(err error) error {
	if err == nil {
		return nil
	}
	log.Printf("[Renderer] %v", err)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err
	return err
}

func (r *renderer) countDraws(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawCalls += n
}

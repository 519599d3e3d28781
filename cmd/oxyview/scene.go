package main

import (
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// viewerScene holds the GPU resources the render callback draws.
type viewerScene struct {
	textured, flat shader.Program
	tex            texture.Texture
	cube           mesh.Mesh
	world          scene.Scene

	gizmo        bool
	gizmoData    []byte
	gizmoIndices []uint32

	failed bool
}

// buildScene uploads the texture, links the programs and builds the cube mesh with one
// textured range for the sides and one flat range for the caps.
func buildScene(r renderer.Renderer, cfg Config, profile backend.Profile, staged []common.TextureStagingData) (*viewerScene, error) {
	s := &viewerScene{gizmo: *cfg.Scene.Gizmo}

	var err error
	s.textured, s.flat, err = loadPrograms(r, cfg.Shaders)
	if err != nil {
		return nil, err
	}

	pixels, ok := firstValid(staged)
	if !ok {
		pixels = texture.FromImage(checkerImage(64, 8))
	}
	if profile == backend.ProfileEmbedded {
		pixels = texture.ResizePowerOfTwo(pixels)
	}
	s.tex, err = r.CreateTexture(pixels, texture.WithLabel("cube"))
	if err != nil {
		s.release()
		return nil, err
	}

	vertices, sides, caps := buildCube()
	s.cube, err = r.NewMesh(mesh.MarshalVertices(vertices), len(vertices), mesh.VertexFormat.Size(), mesh.VertexFormat, mesh.WithName("cube"))
	if err != nil {
		s.release()
		return nil, err
	}

	sideMaterial := material.NewMaterial(
		material.WithName("sides"),
		material.WithProgram(s.textured),
		material.WithTexture(s.tex),
	)
	capMaterial := material.NewMaterial(
		material.WithName("caps"),
		material.WithProgram(s.flat),
		material.WithBaseColor(cfg.Scene.FlatColor),
	)
	if err := s.cube.AddIndices(sides, sideMaterial); err != nil {
		s.release()
		return nil, err
	}
	if err := s.cube.AddIndices(caps, capMaterial); err != nil {
		s.release()
		return nil, err
	}

	s.world = scene.NewScene(
		scene.WithName("viewer"),
		scene.WithRenderer(r),
		scene.WithObjects(game_object.NewGameObject(
			game_object.WithMesh(s.cube),
			game_object.WithRotationSpeed(mgl32.Vec3(cfg.Scene.Spin)),
		)),
	)

	gizmoVertices, gizmoIndices := buildGizmo(1.5)
	s.gizmoData = mesh.MarshalColorVertices(gizmoVertices)
	s.gizmoIndices = gizmoIndices
	return s, nil
}

// draw renders the world and the gizmo. The renderer records a failed draw; the viewer stops
// drawing after the first one.
func (s *viewerScene) draw(r renderer.Renderer) {
	if s.failed {
		return
	}
	if err := s.world.Draw(); err != nil {
		s.failed = true
		return
	}
	if !s.gizmo {
		return
	}
	state := r.FrameState()
	state.Color = mgl32.Vec4{1, 1, 1, 1}
	s.flat.Activate(state)
	if err := r.RenderArray(backend.PrimitiveLines, len(s.gizmoIndices), mesh.ColorVertexFormat,
		mesh.ColorVertexFormat.Size(), s.gizmoData, s.gizmoIndices); err != nil {
		s.failed = true
	}
}

func (s *viewerScene) release() {
	if s.world != nil {
		s.world.Clear()
	}
	if s.cube != nil {
		s.cube.Release()
	}
	if s.tex != nil {
		s.tex.Release()
	}
	if s.textured != nil {
		s.textured.Release()
	}
	if s.flat != nil {
		s.flat.Release()
	}
}

// cubeFace is one side of the unit cube. U cross V equals Normal so corners wind counter-clockwise
// seen from outside.
type cubeFace struct {
	Normal, U, V mgl32.Vec3
	Color        [4]uint8
}

// Side faces come first; the last two are the caps.
var cubeFaces = [6]cubeFace{
	{Normal: mgl32.Vec3{1, 0, 0}, U: mgl32.Vec3{0, 0, -1}, V: mgl32.Vec3{0, 1, 0}, Color: [4]uint8{255, 200, 200, 255}},
	{Normal: mgl32.Vec3{-1, 0, 0}, U: mgl32.Vec3{0, 0, 1}, V: mgl32.Vec3{0, 1, 0}, Color: [4]uint8{200, 255, 255, 255}},
	{Normal: mgl32.Vec3{0, 0, 1}, U: mgl32.Vec3{1, 0, 0}, V: mgl32.Vec3{0, 1, 0}, Color: [4]uint8{200, 200, 255, 255}},
	{Normal: mgl32.Vec3{0, 0, -1}, U: mgl32.Vec3{-1, 0, 0}, V: mgl32.Vec3{0, 1, 0}, Color: [4]uint8{255, 255, 200, 255}},
	{Normal: mgl32.Vec3{0, 1, 0}, U: mgl32.Vec3{1, 0, 0}, V: mgl32.Vec3{0, 0, -1}, Color: [4]uint8{255, 255, 255, 255}},
	{Normal: mgl32.Vec3{0, -1, 0}, U: mgl32.Vec3{1, 0, 0}, V: mgl32.Vec3{0, 0, 1}, Color: [4]uint8{160, 160, 160, 255}},
}

const sideFaceCount = 4

// buildCube returns a unit cube centered on the origin with four vertices per face.
//
// Returns:
//   - []mesh.Vertex: 24 vertices
//   - []uint32: triangle indices of the four side faces
//   - []uint32: triangle indices of the top and bottom faces
func buildCube() ([]mesh.Vertex, []uint32, []uint32) {
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	vertices := make([]mesh.Vertex, 0, len(cubeFaces)*4)
	var sides, caps []uint32
	for i, face := range cubeFaces {
		base := uint32(len(vertices))
		for _, c := range corners {
			pos := face.Normal.Add(face.U.Mul(c[0])).Add(face.V.Mul(c[1])).Mul(0.5)
			vertices = append(vertices, mesh.Vertex{
				Position: pos,
				Normal:   face.Normal,
				TexCoord: [2]float32{(c[0] + 1) / 2, (c[1] + 1) / 2},
				Color:    face.Color,
			})
		}
		quad := []uint32{base, base + 1, base + 2, base, base + 2, base + 3}
		if i < sideFaceCount {
			sides = append(sides, quad...)
		} else {
			caps = append(caps, quad...)
		}
	}
	return vertices, sides, caps
}

// buildGizmo returns three axis lines from the origin, colored red, green and blue for X, Y and Z.
//
// Parameters:
//   - length: the length of each axis line
//
// Returns:
//   - []mesh.ColorVertex: two vertices per axis
//   - []uint32: line indices
func buildGizmo(length float32) ([]mesh.ColorVertex, []uint32) {
	axes := [3]struct {
		dir   [3]float32
		color [4]uint8
	}{
		{[3]float32{length, 0, 0}, [4]uint8{255, 0, 0, 255}},
		{[3]float32{0, length, 0}, [4]uint8{0, 255, 0, 255}},
		{[3]float32{0, 0, length}, [4]uint8{0, 0, 255, 255}},
	}
	vertices := make([]mesh.ColorVertex, 0, 6)
	indices := make([]uint32, 0, 6)
	for _, axis := range axes {
		indices = append(indices, uint32(len(vertices)), uint32(len(vertices)+1))
		vertices = append(vertices,
			mesh.ColorVertex{Color: axis.color},
			mesh.ColorVertex{Position: axis.dir, Color: axis.color},
		)
	}
	return vertices, indices
}

// checkerImage draws a two-tone checkerboard used when no texture file loads.
func checkerImage(size, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	light := color.RGBA{R: 230, G: 230, B: 230, A: 255}
	dark := color.RGBA{R: 60, G: 60, B: 70, A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, light)
			} else {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	return img
}

// firstValid returns the first usable staging entry.
func firstValid(staged []common.TextureStagingData) (common.TextureStagingData, bool) {
	for _, s := range staged {
		if s.Valid() {
			return s, true
		}
	}
	return common.TextureStagingData{}, false
}

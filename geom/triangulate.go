package geom

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/scene"
)

// FanTriangulate splits an n-gon corner list into n-2 triangles fanned
// from corner 0. Lists shorter than 3 yield nothing.
func FanTriangulate(corners []int) [][3]int {
	if len(corners) < 3 {
		return nil
	}
	tris := make([][3]int, 0, len(corners)-2)
	for i := 2; i < len(corners); i++ {
		tris = append(tris, [3]int{corners[0], corners[i-1], corners[i]})
	}
	return tris
}

// TriangulateFace fans one face into triangle faces carrying the same
// texture, flags and per-corner UVs. A triangle input is returned as-is.
func TriangulateFace(f scene.Face) []scene.Face {
	if len(f.Vertices) < 3 {
		return nil
	}
	if len(f.Vertices) == 3 {
		return []scene.Face{f}
	}
	out := make([]scene.Face, 0, len(f.Vertices)-2)
	for i := 2; i < len(f.Vertices); i++ {
		tri := f
		tri.Vertices = []int{f.Vertices[0], f.Vertices[i-1], f.Vertices[i]}
		if len(f.UVs) == len(f.Vertices) {
			tri.UVs = []mgl32.Vec2{f.UVs[0], f.UVs[i-1], f.UVs[i]}
		} else {
			tri.UVs = nil
		}
		out = append(out, tri)
	}
	return out
}

// TriangulateSolid fans every n-gon face of a solid in place. Faces with
// fewer than 3 corners are dropped.
func TriangulateSolid(s *scene.Solid) {
	out := make([]scene.Face, 0, len(s.Faces))
	for _, f := range s.Faces {
		out = append(out, TriangulateFace(f)...)
	}
	s.Faces = out
}

package v3d

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/scene"
)

// stripBrush builds a triangle strip of n quads along the X axis, all on
// one material.
func stripBrush(quads int) *scene.Brush {
	b := &scene.Brush{
		RotationBasis: mgl32.Ident3(),
		Solid:         scene.Solid{Textures: []string{"mtl_steel2.tga"}},
	}
	for i := 0; i <= quads; i++ {
		x := float32(i)
		b.Vertices = append(b.Vertices, mgl32.Vec3{x, 0, 0}, mgl32.Vec3{x, 1, 0})
		b.UVs = append(b.UVs, mgl32.Vec2{x, 0}, mgl32.Vec2{x, 1})
	}
	for i := 0; i < quads; i++ {
		a := i * 2
		b.Solid.Faces = append(b.Solid.Faces, scene.Face{
			Vertices: []int{a, a + 2, a + 3, a + 1},
			UVs:      []mgl32.Vec2{b.UVs[a], b.UVs[a+2], b.UVs[a+3], b.UVs[a+1]},
		})
	}
	return b
}

// batchTriangleKeys de-remaps a batch's local triangles back to global
// position keys so splits can be compared against the unbatched input.
func batchTriangleKeys(batch Batch) []string {
	keys := make([]string, 0, len(batch.Triangles))
	for _, tri := range batch.Triangles {
		key := ""
		for _, li := range tri {
			p := batch.Positions[li]
			key += fmt.Sprintf("(%v,%v,%v)", p[0], p[1], p[2])
		}
		keys = append(keys, key)
	}
	return keys
}

func TestSplitTrianglesHonorsCeilings(t *testing.T) {
	b := stripBrush(8) // 16 triangles over 18 vertices
	var tris [][3]int
	for _, f := range b.Solid.Faces {
		tris = append(tris, [3]int{f.Vertices[0], f.Vertices[1], f.Vertices[2]})
		tris = append(tris, [3]int{f.Vertices[0], f.Vertices[2], f.Vertices[3]})
	}

	tests := []struct {
		name     string
		maxVerts int
		maxTris  int
	}{
		{"vertex bound", 6, 1000},
		{"triangle bound", 1000, 5},
		{"both loose", 1000, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := splitTriangles(b, 0, tris, tt.maxVerts, tt.maxTris)

			total := 0
			var keys []string
			for _, batch := range batches {
				if len(batch.Positions) > tt.maxVerts {
					t.Errorf("batch holds %d vertices, ceiling %d", len(batch.Positions), tt.maxVerts)
				}
				if len(batch.Triangles) > tt.maxTris {
					t.Errorf("batch holds %d triangles, ceiling %d", len(batch.Triangles), tt.maxTris)
				}
				if batch.MaterialIndex != 0 {
					t.Errorf("batch material %d, want 0", batch.MaterialIndex)
				}
				total += len(batch.Triangles)
				keys = append(keys, batchTriangleKeys(batch)...)
			}
			if total != len(tris) {
				t.Fatalf("split yields %d triangles, want %d", total, len(tris))
			}

			// Order and geometry are preserved across batch boundaries.
			for i, tri := range tris {
				want := ""
				for _, vi := range tri {
					p := b.Vertices[vi]
					want += fmt.Sprintf("(%v,%v,%v)", p[0], p[1], p[2])
				}
				if keys[i] != want {
					t.Errorf("triangle %d = %s, want %s", i, keys[i], want)
				}
			}
		})
	}
}

func TestBrushBatchesPerMaterial(t *testing.T) {
	b := stripBrush(3)
	b.Solid.Textures = []string{"rck_brown2.tga", "mtl_steel2.tga", MissingTexture}
	b.Solid.Faces[0].TextureIndex = 1
	b.Solid.Faces[1].TextureIndex = 0
	b.Solid.Faces[2].TextureIndex = 99 // out of range, falls back to last slot

	batches := brushBatches(b, b.Solid.Textures)
	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	// First-seen material order.
	wantMats := []int{1, 0, 2}
	for i, batch := range batches {
		if batch.MaterialIndex != wantMats[i] {
			t.Errorf("batch %d material %d, want %d", i, batch.MaterialIndex, wantMats[i])
		}
		if len(batch.Triangles) != 2 {
			t.Errorf("batch %d holds %d triangles, want 2", i, len(batch.Triangles))
		}
	}
}

package v3d

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/geom"
	"github.com/GooberRF/redux-sub001/logger"
	"github.com/GooberRF/redux-sub001/scene"
)

// Batch is one per-material triangle run with locally renumbered vertices,
// small enough for the runtime's fixed geometry buffers.
type Batch struct {
	MaterialIndex int

	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Joints    [][4]uint8
	Weights   [][4]float32

	Triangles [][3]uint16
}

// splitTriangles walks triangles in their original order and opens a new
// batch (with fresh, locally renumbered vertices) whenever adding the next
// triangle would overflow the vertex or triangle ceiling. A single
// triangle is never split across batches.
func splitTriangles(b *scene.Brush, material int, tris [][3]int, maxVerts, maxTris int) []Batch {
	var batches []Batch

	var cur Batch
	var remap map[int]int

	open := func() {
		cur = Batch{MaterialIndex: material}
		remap = make(map[int]int)
	}
	closeBatch := func() {
		if len(cur.Triangles) > 0 {
			batches = append(batches, cur)
		}
	}
	open()

	localIndex := func(global int) int {
		if li, ok := remap[global]; ok {
			return li
		}
		li := len(cur.Positions)
		remap[global] = li
		var pos mgl32.Vec3
		var uv mgl32.Vec2
		if global >= 0 && global < len(b.Vertices) {
			pos = b.Vertices[global]
			if global < len(b.UVs) {
				uv = b.UVs[global]
			}
		} else {
			logger.Sugar.Warnf("triangle references vertex %d of %d, substituting origin", global, len(b.Vertices))
		}
		cur.Positions = append(cur.Positions, pos)
		cur.UVs = append(cur.UVs, uv)
		if b.Skinned() {
			var joints [4]uint8
			var weights [4]float32
			if global >= 0 && global < len(b.JointWeights) {
				joints = b.JointIndices[global]
				weights = b.JointWeights[global]
			}
			cur.Joints = append(cur.Joints, joints)
			cur.Weights = append(cur.Weights, weights)
		}
		return li
	}

	for _, tri := range tris {
		needed := 0
		for _, v := range tri {
			if _, ok := remap[v]; !ok {
				needed++
			}
		}
		if len(cur.Triangles)+1 > maxTris || len(cur.Positions)+needed > maxVerts {
			closeBatch()
			open()
		}
		var local [3]uint16
		for i, v := range tri {
			local[i] = uint16(localIndex(v))
		}
		cur.Triangles = append(cur.Triangles, local)
	}
	closeBatch()
	return batches
}

// brushBatches triangulates a brush and splits it into per-material
// batches capped at the engine ceilings. Face texture slots out of range
// fall back to the missing-texture material.
func brushBatches(b *scene.Brush, materials []string) []Batch {
	// Triangles per material slot, in face order.
	perMaterial := make(map[int][][3]int)
	var order []int

	for _, face := range b.Solid.Faces {
		mat := face.TextureIndex
		if mat < 0 || mat >= len(materials) {
			mat = len(materials) - 1 // missing-texture slot, appended by caller
		}
		tris := geom.FanTriangulate(face.Vertices)
		if len(tris) == 0 {
			continue
		}
		if _, ok := perMaterial[mat]; !ok {
			order = append(order, mat)
		}
		perMaterial[mat] = append(perMaterial[mat], tris...)
	}

	var batches []Batch
	for _, mat := range order {
		batches = append(batches, splitTriangles(b, mat, perMaterial[mat], MaxBatchVertices, MaxBatchTriangles)...)
	}
	return batches
}

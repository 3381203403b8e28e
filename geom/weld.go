// Package geom holds the reconciliation routines shared by the binary
// codecs: vertex welding, n-gon triangulation, the left/right handedness
// bridge and export-time mirroring.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/scene"
)

// weldQuantum is the position quantization step used as the weld equality
// key: 1/1000 of a world unit suppresses floating-point noise without
// collapsing real geometry.
const weldQuantum = 1000.0

type weldKey struct {
	px, py, pz int32
	u, v       int32
	joints     [4]uint8
	weights    [4]int32
}

func quantize(f float32) int32 {
	return int32(math.Round(float64(f) * weldQuantum))
}

// Welder is a per-brush (or per-batch) vertex arena with a disposable
// deduplication index. Faces reference arena indices; the first-seen
// vertex for a key is the one retained, so welding an already-welded set
// is a no-op.
type Welder struct {
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Joints    [][4]uint8
	Weights   [][4]float32

	index map[weldKey]int
}

func NewWelder() *Welder {
	return &Welder{index: make(map[weldKey]int)}
}

// Add welds a (position, UV) pair into the arena and returns its index.
func (w *Welder) Add(pos mgl32.Vec3, uv mgl32.Vec2) int {
	return w.AddSkinned(pos, uv, [4]uint8{}, [4]float32{})
}

// AddSkinned welds a vertex extended with joint data into the arena.
func (w *Welder) AddSkinned(pos mgl32.Vec3, uv mgl32.Vec2, joints [4]uint8, weights [4]float32) int {
	key := weldKey{
		px: quantize(pos[0]), py: quantize(pos[1]), pz: quantize(pos[2]),
		u: quantize(uv[0]), v: quantize(uv[1]),
		joints: joints,
	}
	for i, wt := range weights {
		key.weights[i] = quantize(wt)
	}
	if idx, ok := w.index[key]; ok {
		return idx
	}
	idx := len(w.Positions)
	w.index[key] = idx
	w.Positions = append(w.Positions, pos)
	w.UVs = append(w.UVs, uv)
	w.Joints = append(w.Joints, joints)
	w.Weights = append(w.Weights, weights)
	return idx
}

// Len returns the number of distinct vertices in the arena.
func (w *Welder) Len() int {
	return len(w.Positions)
}

// ApplyToBrush moves the arena into a brush, dropping the joint layers
// when no vertex carries weights.
func (w *Welder) ApplyToBrush(b *scene.Brush) {
	b.Vertices = w.Positions
	b.UVs = w.UVs
	for _, wt := range w.Weights {
		if wt != ([4]float32{}) {
			b.JointIndices = w.Joints
			b.JointWeights = w.Weights
			return
		}
	}
	b.JointIndices = nil
	b.JointWeights = nil
}

// WeldBrush re-welds a brush's vertex set in place and remaps its face
// indices. Welding an already-welded brush leaves it unchanged.
func WeldBrush(b *scene.Brush) {
	w := NewWelder()
	remap := make([]int, len(b.Vertices))
	for i, pos := range b.Vertices {
		var uv mgl32.Vec2
		if i < len(b.UVs) {
			uv = b.UVs[i]
		}
		var joints [4]uint8
		var weights [4]float32
		if i < len(b.JointWeights) {
			joints = b.JointIndices[i]
			weights = b.JointWeights[i]
		}
		remap[i] = w.AddSkinned(pos, uv, joints, weights)
	}
	for fi := range b.Solid.Faces {
		face := &b.Solid.Faces[fi]
		for ci, vi := range face.Vertices {
			if vi >= 0 && vi < len(remap) {
				face.Vertices[ci] = remap[vi]
			}
		}
	}
	skinned := b.Skinned()
	w.ApplyToBrush(b)
	if !skinned {
		b.JointIndices = nil
		b.JointWeights = nil
	}
}

package geom

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/scene"
)

// The native formats are left-handed, the interchange formats right-handed.
// Crossing the boundary negates the X component of positions and of
// rotation vector parts, and reverses triangle winding to compensate.
// Applying the bridge twice returns the original value.

// BridgeVec3 flips a position or direction across the handedness boundary.
func BridgeVec3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{-v[0], v[1], v[2]}
}

// BridgeQuat flips a rotation across the handedness boundary.
func BridgeQuat(q mgl32.Quat) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{-q.V[0], q.V[1], q.V[2]}}
}

// BridgeMat3 conjugates a rotation basis with the X reflection.
func BridgeMat3(m mgl32.Mat3) mgl32.Mat3 {
	f := mgl32.Diag3(mgl32.Vec3{-1, 1, 1})
	return f.Mul3(m).Mul3(f)
}

// ReverseWinding reverses a corner list keeping the first corner fixed, so
// the face normal flips while fan triangulation still starts at the same
// vertex.
func ReverseWinding(corners []int) {
	for i, j := 1, len(corners)-1; i < j; i, j = i+1, j-1 {
		corners[i], corners[j] = corners[j], corners[i]
	}
}

func reverseUVs(uvs []mgl32.Vec2) {
	for i, j := 1, len(uvs)-1; i < j; i, j = i+1, j-1 {
		uvs[i], uvs[j] = uvs[j], uvs[i]
	}
}

// ReverseFaceWinding reverses one face's winding (first corner fixed) and
// recomputes its plane normal from the new winding.
func ReverseFaceWinding(f *scene.Face, verts []mgl32.Vec3) {
	ReverseWinding(f.Vertices)
	if len(f.UVs) == len(f.Vertices) {
		reverseUVs(f.UVs)
	}
	RecomputeNormal(f, verts)
}

// RecomputeNormal re-derives the face plane normal from its winding.
func RecomputeNormal(f *scene.Face, verts []mgl32.Vec3) {
	if len(f.Vertices) < 3 {
		return
	}
	a, b, c := f.Vertices[0], f.Vertices[1], f.Vertices[2]
	if a >= len(verts) || b >= len(verts) || c >= len(verts) || a < 0 || b < 0 || c < 0 {
		return
	}
	n := verts[b].Sub(verts[a]).Cross(verts[c].Sub(verts[a]))
	if n.Len() > 1e-12 {
		f.Normal = n.Normalize()
	}
}

// BridgeBrush converts one brush between handedness conventions in place.
func BridgeBrush(b *scene.Brush) {
	b.Position = BridgeVec3(b.Position)
	b.RotationBasis = BridgeMat3(b.RotationBasis)
	for i := range b.Vertices {
		b.Vertices[i] = BridgeVec3(b.Vertices[i])
	}
	for i := range b.Solid.Faces {
		ReverseFaceWinding(&b.Solid.Faces[i], b.Vertices)
	}
	for i := range b.PropPoints {
		b.PropPoints[i].Position = BridgeVec3(b.PropPoints[i].Position)
		b.PropPoints[i].Orientation = BridgeQuat(b.PropPoints[i].Orientation)
	}
}

// BridgeScene converts a whole scene between handedness conventions in
// place: every boundary crossing runs exactly one bridge pass.
func BridgeScene(s *scene.Scene) {
	for _, b := range s.Brushes {
		BridgeBrush(b)
	}
	for gi := range s.Groups {
		for ki := range s.Groups[gi].Keyframes {
			kf := &s.Groups[gi].Keyframes[ki]
			kf.Position = BridgeVec3(kf.Position)
			kf.Rotation = BridgeQuat(kf.Rotation)
		}
	}
	for kind := range s.Objects {
		for i := range s.Objects[kind] {
			o := &s.Objects[kind][i]
			o.Position = BridgeVec3(o.Position)
			o.Rotation = BridgeMat3(o.Rotation)
		}
	}
	for i := range s.Bones {
		s.Bones[i].Translation = BridgeVec3(s.Bones[i].Translation)
		s.Bones[i].Rotation = BridgeQuat(s.Bones[i].Rotation)
	}
	for i := range s.CollisionSpheres {
		s.CollisionSpheres[i].Position = BridgeVec3(s.CollisionSpheres[i].Position)
	}
}

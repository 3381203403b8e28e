package geom

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/scene"
	"github.com/GooberRF/redux-sub001/utils"
)

// ReflectionMatrix returns the world-axis reflection for a mirror axis,
// or the identity for MirrorNone.
func ReflectionMatrix(axis config.MirrorAxis) mgl32.Mat3 {
	d := mgl32.Vec3{1, 1, 1}
	switch axis {
	case config.MirrorX:
		d[0] = -1
	case config.MirrorY:
		d[1] = -1
	case config.MirrorZ:
		d[2] = -1
	}
	return mgl32.Diag3(d)
}

// mirrorBasis reflects a standalone orientation basis. Rows are local axes
// in world coordinates, so right-multiplying by the reflection negates the
// mirrored world component of every row. Reflection alone would invert
// handedness; rebuilding the right row from the reflected forward and up
// rows keeps the basis a right-handed rotation.
func mirrorBasis(m mgl32.Mat3, axis config.MirrorAxis) mgl32.Mat3 {
	if axis == config.MirrorNone {
		return m
	}
	return utils.OrthonormalizeBasis(m.Mul3(ReflectionMatrix(axis)))
}

// MirrorBrush reflects one brush about the origin on a world axis.
//
// The brush position and standalone rotation are reflected directly. Local
// vertex geometry is instead mirrored by conjugation
// (R^T * M * R * v): brush shape is defined in local space while the
// reflection is defined in world space, so conjugating flips the visible
// world-space shape without touching the brush's own rotation basis.
// Winding is reversed afterwards to keep normals outward-facing.
func MirrorBrush(b *scene.Brush, axis config.MirrorAxis) {
	if axis == config.MirrorNone {
		return
	}
	m := ReflectionMatrix(axis)

	b.Position = m.Mul3x1(b.Position)

	conj := b.RotationBasis.Transpose().Mul3(m).Mul3(b.RotationBasis)
	for i := range b.Vertices {
		b.Vertices[i] = conj.Mul3x1(b.Vertices[i])
	}
	for i := range b.Solid.Faces {
		ReverseFaceWinding(&b.Solid.Faces[i], b.Vertices)
	}
	for i := range b.PropPoints {
		b.PropPoints[i].Position = m.Mul3x1(b.PropPoints[i].Position)
	}
}

// MirrorScene reflects a whole scene about the origin on a world axis.
// Object positions are reflected; orientation bases are reflected and
// re-orthonormalized; brush geometry is mirrored by conjugation.
func MirrorScene(s *scene.Scene, axis config.MirrorAxis) {
	if axis == config.MirrorNone {
		return
	}
	m := ReflectionMatrix(axis)

	for _, b := range s.Brushes {
		MirrorBrush(b, axis)
	}
	for gi := range s.Groups {
		for ki := range s.Groups[gi].Keyframes {
			kf := &s.Groups[gi].Keyframes[ki]
			kf.Position = m.Mul3x1(kf.Position)
		}
	}
	for kind := range s.Objects {
		for i := range s.Objects[kind] {
			o := &s.Objects[kind][i]
			o.Position = m.Mul3x1(o.Position)
			o.Rotation = mirrorBasis(o.Rotation, axis)
		}
	}
}

// FlipNormals reverses every face winding of every brush in place, used by
// the explicit normal-flip export option.
func FlipNormals(s *scene.Scene) {
	for _, b := range s.Brushes {
		for i := range b.Solid.Faces {
			ReverseFaceWinding(&b.Solid.Faces[i], b.Vertices)
		}
	}
}

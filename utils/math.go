package utils

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PlaneFromPoints derives a unit plane normal and distance from three
// winding points. Degenerate windings yield a zero normal.
func PlaneFromPoints(a, b, c mgl32.Vec3) (normal mgl32.Vec3, dist float32) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() < 1e-12 {
		return mgl32.Vec3{}, 0
	}
	n = n.Normalize()
	return n, n.Dot(a)
}

// OrthonormalizeBasis rebuilds a right-handed orthonormal basis from the
// matrix rows, keeping the forward row's direction: the forward row is
// normalized, the up row re-derived by cross products.
func OrthonormalizeBasis(m mgl32.Mat3) mgl32.Mat3 {
	fwd := Mat3Row(m, 0)
	up := Mat3Row(m, 2)
	if fwd.Len() < 1e-12 {
		fwd = mgl32.Vec3{1, 0, 0}
	}
	fwd = fwd.Normalize()
	right := up.Cross(fwd)
	if right.Len() < 1e-12 {
		right = mgl32.Vec3{0, 1, 0}
	}
	right = right.Normalize()
	up = fwd.Cross(right)
	return mgl32.Mat3FromRows(fwd, right, up)
}

// Mat3Row returns row i of a matrix as a vector.
func Mat3Row(m mgl32.Mat3, i int) mgl32.Vec3 {
	return mgl32.Vec3{m.At(i, 0), m.At(i, 1), m.At(i, 2)}
}

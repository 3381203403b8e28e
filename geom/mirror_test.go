package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/scene"
)

func TestReflectionMatrix(t *testing.T) {
	tests := []struct {
		axis config.MirrorAxis
		in   mgl32.Vec3
		want mgl32.Vec3
	}{
		{config.MirrorNone, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 3}},
		{config.MirrorX, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{-1, 2, 3}},
		{config.MirrorY, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, -2, 3}},
		{config.MirrorZ, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, -3}},
	}
	for _, tt := range tests {
		if got := ReflectionMatrix(tt.axis).Mul3x1(tt.in); got != tt.want {
			t.Errorf("axis %v: %v, want %v", tt.axis, got, tt.want)
		}
	}
}

func TestMirrorBrushReflectsWorldShape(t *testing.T) {
	b := quadBrush()
	b.Position = mgl32.Vec3{3, 1, 0}
	WeldBrush(b)

	// World-space corner before mirroring: identity basis, so local + position.
	world := b.Vertices[1].Add(b.Position)

	MirrorBrush(b, config.MirrorX)

	if b.Position != (mgl32.Vec3{-3, 1, 0}) {
		t.Fatalf("mirrored position %v", b.Position)
	}
	got := b.Vertices[1].Add(b.Position)
	want := mgl32.Vec3{-world[0], world[1], world[2]}
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("mirrored world corner %v, want %v", got, want)
	}
}

func TestMirrorBrushKeepsBasisOrthonormal(t *testing.T) {
	b := quadBrush()
	b.RotationBasis = mgl32.HomogRotate3DZ(0.6).Mat3()
	WeldBrush(b)

	MirrorBrush(b, config.MirrorY)

	m := b.RotationBasis
	prod := m.Mul3(m.Transpose())
	if !prod.ApproxEqualThreshold(mgl32.Ident3(), 1e-5) {
		t.Fatalf("basis no longer orthonormal: M*M^T = %v", prod)
	}
}

func TestMirrorNoneIsNoop(t *testing.T) {
	b := quadBrush()
	b.Position = mgl32.Vec3{1, 2, 3}
	WeldBrush(b)
	verts := append([]mgl32.Vec3(nil), b.Vertices...)

	MirrorBrush(b, config.MirrorNone)

	if b.Position != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("position changed: %v", b.Position)
	}
	for i := range verts {
		if b.Vertices[i] != verts[i] {
			t.Errorf("vertex %d changed", i)
		}
	}
}

func TestMirrorSceneReflectsObjectBasis(t *testing.T) {
	rot := mgl32.HomogRotate3DX(mgl32.DegToRad(30)).Mat3()
	for _, axis := range []config.MirrorAxis{config.MirrorX, config.MirrorY, config.MirrorZ} {
		s := &scene.Scene{}
		s.Objects[scene.KindItem] = append(s.Objects[scene.KindItem], scene.Object{
			Position: mgl32.Vec3{1, 2, 3},
			Rotation: rot,
		})

		MirrorScene(s, axis)

		got := s.Objects[scene.KindItem][0].Rotation
		if got.ApproxEqualThreshold(rot, 1e-5) {
			t.Errorf("axis %v: mirror left the object basis unchanged", axis)
		}
		if prod := got.Mul3(got.Transpose()); !prod.ApproxEqualThreshold(mgl32.Ident3(), 1e-5) {
			t.Errorf("axis %v: mirrored basis not orthonormal: M*M^T = %v", axis, prod)
		}
	}
}

func TestMirrorBasisInvolution(t *testing.T) {
	rot := mgl32.HomogRotate3DX(mgl32.DegToRad(30)).Mat3()
	for _, axis := range []config.MirrorAxis{config.MirrorX, config.MirrorY, config.MirrorZ} {
		twice := mirrorBasis(mirrorBasis(rot, axis), axis)
		if !twice.ApproxEqualThreshold(rot, 1e-5) {
			t.Errorf("axis %v: double mirror drifted: %v, want %v", axis, twice, rot)
		}
	}
}

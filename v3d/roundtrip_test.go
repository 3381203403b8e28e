package v3d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/scene"
)

// cornerGeometry flattens a brush's faces to corner (position, uv) pairs so
// meshes can be compared regardless of vertex numbering.
func cornerGeometry(b *scene.Brush) ([]mgl32.Vec3, []mgl32.Vec2) {
	var pos []mgl32.Vec3
	var uv []mgl32.Vec2
	for _, f := range b.Solid.Faces {
		for ci, vi := range f.Vertices {
			pos = append(pos, b.Vertices[vi])
			if ci < len(f.UVs) {
				uv = append(uv, f.UVs[ci])
			} else {
				uv = append(uv, mgl32.Vec2{})
			}
		}
	}
	return pos, uv
}

func TestMeshRoundtripStatic(t *testing.T) {
	src := stripBrush(2)
	src.Name = "crate1"
	src.UID = 10
	in := &scene.Scene{Brushes: []*scene.Brush{src}}

	wantFaces := 0
	for _, f := range src.Solid.Faces {
		wantFaces += len(f.Vertices) - 2
	}

	data, err := EncodeMesh(in, config.Defaults(), nil)
	if err != nil {
		t.Fatalf("EncodeMesh: %v", err)
	}
	if len(data) < 20 {
		t.Fatalf("suspiciously small container: %d bytes", len(data))
	}

	out, err := DecodeMesh(data, config.Defaults())
	if err != nil {
		t.Fatalf("DecodeMesh: %v", err)
	}
	if len(out.Brushes) != 1 {
		t.Fatalf("decoded %d brushes, want 1", len(out.Brushes))
	}
	b := out.Brushes[0]
	if b.Name != "crate1" {
		t.Errorf("submesh name %q, want crate1", b.Name)
	}
	if len(b.Solid.Faces) != wantFaces {
		t.Fatalf("decoded %d triangles, want %d", len(b.Solid.Faces), wantFaces)
	}
	if got := b.Solid.Textures[b.Solid.Faces[0].TextureIndex]; got != "mtl_steel2.tga" {
		t.Errorf("material %q, want mtl_steel2.tga", got)
	}

	// Corner geometry matches the fan triangulation of the source quads.
	srcTris := stripBrush(2)
	var want []mgl32.Vec3
	var wantUV []mgl32.Vec2
	for _, f := range srcTris.Solid.Faces {
		for _, tri := range [][3]int{
			{f.Vertices[0], f.Vertices[1], f.Vertices[2]},
			{f.Vertices[0], f.Vertices[2], f.Vertices[3]},
		} {
			for _, vi := range tri {
				want = append(want, srcTris.Vertices[vi])
				wantUV = append(wantUV, srcTris.UVs[vi])
			}
		}
	}
	gotPos, gotUV := cornerGeometry(b)
	if len(gotPos) != len(want) {
		t.Fatalf("decoded %d corners, want %d", len(gotPos), len(want))
	}
	for i := range want {
		if !gotPos[i].ApproxEqualThreshold(want[i], 1e-6) {
			t.Errorf("corner %d position %v, want %v", i, gotPos[i], want[i])
		}
		if gotUV[i] != wantUV[i] {
			t.Errorf("corner %d UV %v, want %v", i, gotUV[i], wantUV[i])
		}
	}
}

func TestMeshRoundtripSkinned(t *testing.T) {
	src := stripBrush(1)
	src.Name = "soldier"
	for range src.Vertices {
		src.JointIndices = append(src.JointIndices, [4]uint8{1, 0, 0, 0})
		src.JointWeights = append(src.JointWeights, [4]float32{1, 0, 0, 0})
	}
	in := &scene.Scene{
		Brushes: []*scene.Brush{src},
		Bones: []scene.Bone{
			{Name: "root", Rotation: mgl32.QuatIdent(), Parent: -1},
			{Name: "spine", Rotation: mgl32.QuatIdent(), Translation: mgl32.Vec3{0, 1, 0}, Parent: 0},
		},
		CollisionSpheres: []scene.CollisionSphere{
			{Name: "head", Parent: 1, Position: mgl32.Vec3{0, 2, 0}, Radius: 0.3},
		},
	}

	data, err := EncodeMesh(in, config.Defaults(), nil)
	if err != nil {
		t.Fatalf("EncodeMesh: %v", err)
	}

	out, err := DecodeMesh(data, config.Defaults())
	if err != nil {
		t.Fatalf("DecodeMesh: %v", err)
	}
	if len(out.Bones) != 2 {
		t.Fatalf("decoded %d bones, want 2", len(out.Bones))
	}
	if out.Bones[1].Name != "spine" || out.Bones[1].Parent != 0 {
		t.Errorf("bone 1 = %+v", out.Bones[1])
	}
	if len(out.CollisionSpheres) != 1 || out.CollisionSpheres[0].Name != "head" {
		t.Fatalf("collision spheres %+v", out.CollisionSpheres)
	}
	if out.CollisionSpheres[0].Radius != 0.3 {
		t.Errorf("sphere radius %v, want 0.3", out.CollisionSpheres[0].Radius)
	}

	b := out.Brushes[0]
	if !b.Skinned() {
		t.Fatalf("decoded brush lost its skin")
	}
	for i, w := range b.JointWeights {
		if w[0] < 0.999 || w[0] > 1.001 {
			t.Errorf("vertex %d weight %v, want 1 on slot 0", i, w)
		}
		if b.JointIndices[i][0] != 1 {
			t.Errorf("vertex %d joint %d, want 1", i, b.JointIndices[i][0])
		}
	}
}

func TestMeshBadMagic(t *testing.T) {
	if _, err := DecodeMesh([]byte{1, 2, 3, 4, 5, 6, 7, 8}, config.Defaults()); err == nil {
		t.Fatal("bad magic accepted")
	}
}

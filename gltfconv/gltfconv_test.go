package gltfconv

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/scene"
)

func quadBrush(uid int32, name string) *scene.Brush {
	return &scene.Brush{
		UID:           uid,
		Name:          name,
		Position:      mgl32.Vec3{2, 1, 0},
		RotationBasis: mgl32.Ident3(),
		Vertices: []mgl32.Vec3{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		},
		UVs: []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Solid: scene.Solid{
			Textures: []string{"rck_brown2.tga"},
			Faces: []scene.Face{
				{Vertices: []int{0, 1, 2, 3}, UVs: []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
			},
		},
	}
}

func TestGlbRoundtrip(t *testing.T) {
	in := &scene.Scene{Brushes: []*scene.Brush{quadBrush(9, "crate")}}

	cfg := config.Defaults()
	cfg.DecoratedNames = true

	var buf bytes.Buffer
	if err := Encode(&buf, in, cfg, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty glb output")
	}

	out, err := Decode(buf.Bytes(), config.Defaults())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out.Brushes) != 1 {
		t.Fatalf("decoded %d brushes, want 1", len(out.Brushes))
	}
	b := out.Brushes[0]
	if b.Name != "crate" || b.UID != 9 {
		t.Errorf("decorated identity lost: %q uid %d", b.Name, b.UID)
	}
	if b.Position != (mgl32.Vec3{2, 1, 0}) {
		t.Errorf("position %v after double bridge, want {2 1 0}", b.Position)
	}
	if len(b.Solid.Faces) != 2 {
		t.Fatalf("quad roundtripped to %d faces, want 2 triangles", len(b.Solid.Faces))
	}
	if len(b.Vertices) != 4 {
		t.Errorf("welded to %d vertices, want 4", len(b.Vertices))
	}
	if b.Solid.Textures[b.Solid.Faces[0].TextureIndex] != "rck_brown2.tga" {
		t.Errorf("material lost: %v", b.Solid.Textures)
	}

	// Both boundaries bridged once, so local geometry matches the source.
	src := quadBrush(9, "crate")
	for _, want := range src.Vertices {
		found := false
		for _, got := range b.Vertices {
			if got.ApproxEqualThreshold(want, 1e-5) {
				found = true
			}
		}
		if !found {
			t.Errorf("source corner %v missing after roundtrip", want)
		}
	}
}

func TestGlbRoundtripSkinned(t *testing.T) {
	src := quadBrush(1, "soldier")
	for i := range src.Vertices {
		src.JointIndices = append(src.JointIndices, [4]uint8{uint8(i % 3), 0, 0, 0})
		src.JointWeights = append(src.JointWeights, [4]float32{0.75, 0.25, 0, 0})
	}
	in := &scene.Scene{
		Brushes: []*scene.Brush{src},
		Bones: []scene.Bone{
			{Name: "root", Rotation: mgl32.QuatIdent(), Parent: -1},
			{Name: "spine", Rotation: mgl32.QuatIdent(), Translation: mgl32.Vec3{0, 1, 0}, Parent: 0},
			{Name: "head", Rotation: mgl32.QuatIdent(), Translation: mgl32.Vec3{0, 2, 0}, Parent: 1},
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, in, config.Defaults(), nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(buf.Bytes(), config.Defaults())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out.Brushes) != 1 || len(out.Brushes[0].Solid.Faces) != 2 {
		t.Fatalf("skinned mesh roundtrip lost geometry: %+v", out.Brushes)
	}

	b := out.Brushes[0]
	if !b.Skinned() {
		t.Fatal("roundtrip dropped the skin attributes")
	}
	if len(b.JointWeights) != len(b.Vertices) || len(b.JointIndices) != len(b.Vertices) {
		t.Fatalf("skin layers not parallel: %d weights, %d joints, %d vertices",
			len(b.JointWeights), len(b.JointIndices), len(b.Vertices))
	}
	for i, w := range b.JointWeights {
		want := [4]float32{0.75, 0.25, 0, 0}
		for c := range w {
			if diff := w[c] - want[c]; diff > 1e-5 || diff < -1e-5 {
				t.Fatalf("vertex %d weights %v, want %v", i, w, want)
			}
		}
	}

	if len(out.Bones) != 3 {
		t.Fatalf("roundtrip kept %d bones, want 3", len(out.Bones))
	}
	for i, want := range []struct {
		name   string
		parent int32
	}{{"root", -1}, {"spine", 0}, {"head", 1}} {
		if out.Bones[i].Name != want.name || out.Bones[i].Parent != want.parent {
			t.Errorf("bone %d = %q parent %d, want %q parent %d",
				i, out.Bones[i].Name, out.Bones[i].Parent, want.name, want.parent)
		}
	}
	if got := out.Bones[1].Translation; !got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Errorf("spine translation %v, want {0 1 0}", got)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte("not a gltf document"), config.Defaults()); err == nil {
		t.Fatal("garbage accepted")
	}
}

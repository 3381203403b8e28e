package rfl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/scene"
	"github.com/GooberRF/redux-sub001/utils"
)

// writeQuadSolid writes one extended-dialect solid: a unit quad with the
// given face flags on texture slot 0.
func writeQuadSolid(w *utils.BufWriter, flags uint16) {
	w.WriteU32(1) // textures
	_ = w.WriteVString("rck_brown2.tga")
	w.WriteU32(0) // scroll animations
	w.WriteU32(0) // rooms

	w.WriteU32(4) // vertex pool
	w.WriteVec3(mgl32.Vec3{0, 0, 0})
	w.WriteVec3(mgl32.Vec3{1, 0, 0})
	w.WriteVec3(mgl32.Vec3{1, 1, 0})
	w.WriteVec3(mgl32.Vec3{0, 1, 0})

	w.WriteU32(1) // faces
	w.WriteVec3(mgl32.Vec3{0, 0, 1})
	w.WriteF32(0)     // plane distance
	w.WriteI32(0)     // texture slot
	w.WriteI32(7)     // face id
	w.WriteI32(-1)    // portal index
	w.WriteU16(flags) // face flags
	w.WriteU8(0)      // lightmap resolution
	w.WriteU8(0)
	w.WriteU32(0)  // smoothing groups
	w.WriteI32(-1) // room index
	w.WriteU32(4)  // corners
	for i, uv := range []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		w.WriteU32(uint32(i))
		w.WriteVec2(uv)
	}
}

// levelFixture builds an extended-dialect level holding one editor brush
// with a quad face carrying the given flags.
func levelFixture(t *testing.T, faceFlags uint16) []byte {
	t.Helper()

	brush := utils.NewBufWriter()
	brush.WriteU32(1) // brush count
	brush.WriteI32(42)
	brush.WriteVec3(mgl32.Vec3{5, 0, 0})
	brush.WriteMat3(mgl32.Ident3())
	writeQuadSolid(brush, faceFlags)
	brush.WriteU32(0)  // solid flags
	brush.WriteI32(-1) // life
	brush.WriteI32(0)  // state

	w := utils.NewBufWriter()
	w.WriteU32(LevelMagic)
	w.WriteU32(VersionExtendedMin)
	w.WriteU32(0) // timestamp
	w.WriteU32(0) // player start offset
	w.WriteU32(0) // level info offset
	w.WriteU32(8) // declared section count, terminated early by a zero tag
	if err := w.WriteVString("dm test arena"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteVString(""); err != nil {
		t.Fatal(err)
	}

	payload := brush.Bytes()
	w.WriteU32(sectBrushes)
	w.WriteU32(uint32(len(payload)))
	w.WriteBytes(payload)

	w.WriteU32(sectEnd)
	return w.Bytes()
}

func TestDecodeLevelTriangulates(t *testing.T) {
	s, err := DecodeLevel(levelFixture(t, 0), config.Defaults())
	if err != nil {
		t.Fatalf("DecodeLevel: %v", err)
	}
	if s.Name != "dm test arena" {
		t.Errorf("level name %q", s.Name)
	}
	if len(s.Brushes) != 1 {
		t.Fatalf("decoded %d brushes, want 1", len(s.Brushes))
	}
	b := s.Brushes[0]
	if b.UID != 42 {
		t.Errorf("brush UID %d, want 42", b.UID)
	}
	if b.Position != (mgl32.Vec3{5, 0, 0}) {
		t.Errorf("brush position %v", b.Position)
	}
	if len(b.Solid.Faces) != 2 {
		t.Fatalf("quad decoded to %d faces, want 2 triangles", len(b.Solid.Faces))
	}
	if len(b.Vertices) != 4 {
		t.Errorf("welded to %d vertices, want 4", len(b.Vertices))
	}
	if b.Solid.Life != -1 {
		t.Errorf("brush life %d, want -1", b.Solid.Life)
	}
}

func TestDecodeLevelNgonPassthrough(t *testing.T) {
	cfg := config.Defaults()
	cfg.NgonPassthrough = true

	s, err := DecodeLevel(levelFixture(t, 0), cfg)
	if err != nil {
		t.Fatalf("DecodeLevel: %v", err)
	}
	faces := s.Brushes[0].Solid.Faces
	if len(faces) != 1 || len(faces[0].Vertices) != 4 {
		t.Fatalf("passthrough decoded to %d faces (%d corners)", len(faces), len(faces[0].Vertices))
	}
}

func TestDecodeLevelFacePolicy(t *testing.T) {
	cfg := config.Defaults()
	cfg.IncludeDetailFaces = false

	// The only face is a detail face; the brush decodes empty.
	s, err := DecodeLevel(levelFixture(t, scene.FaceFlagDetail), cfg)
	if err != nil {
		t.Fatalf("DecodeLevel: %v", err)
	}
	if len(s.Brushes) != 1 {
		t.Fatalf("decoded %d brushes", len(s.Brushes))
	}
	if n := len(s.Brushes[0].Solid.Faces); n != 0 {
		t.Errorf("excluded detail face still decoded (%d faces)", n)
	}
	if n := len(s.Brushes[0].Vertices); n != 0 {
		t.Errorf("excluded face still contributed %d weld vertices", n)
	}
}

func TestDecodeLevelBadMagic(t *testing.T) {
	data := make([]byte, 16)
	if _, err := DecodeLevel(data, config.Defaults()); err == nil {
		t.Fatal("bad magic accepted")
	}
}

func TestDecodeLevelUnsupportedVersion(t *testing.T) {
	w := utils.NewBufWriter()
	w.WriteU32(LevelMagic)
	w.WriteU32(0x129) // between the alternate and extended dialects
	if _, err := DecodeLevel(w.Bytes(), config.Defaults()); err == nil {
		t.Fatal("version gap accepted")
	}
}

func TestDecodeLevelTruncatedSection(t *testing.T) {
	data := levelFixture(t, 0)
	// Chop the file mid-brush: decoding stops but still returns the scene.
	s, err := DecodeLevel(data[:len(data)-40], config.Defaults())
	if err != nil {
		t.Fatalf("truncated level rejected outright: %v", err)
	}
	if s.Name != "dm test arena" {
		t.Errorf("header lost on truncation: %q", s.Name)
	}
}

// legacyLevelFixture builds a legacy-dialect level: no extended header
// fields, no mod name, shorter face records.
func legacyLevelFixture(t *testing.T) []byte {
	t.Helper()

	geo := utils.NewBufWriter()
	geo.WriteU32(1) // textures
	if err := geo.WriteVString("rck_gray3.tga"); err != nil {
		t.Fatal(err)
	}
	geo.WriteU32(3) // vertex pool
	geo.WriteVec3(mgl32.Vec3{0, 0, 0})
	geo.WriteVec3(mgl32.Vec3{1, 0, 0})
	geo.WriteVec3(mgl32.Vec3{0, 1, 0})
	geo.WriteU32(1) // faces
	geo.WriteVec3(mgl32.Vec3{0, 0, 1})
	geo.WriteF32(0)  // plane distance
	geo.WriteI32(0)  // texture slot
	geo.WriteI32(-1) // portal index
	geo.WriteU16(0)  // face flags
	geo.WriteU32(0)  // smoothing groups
	geo.WriteU32(3)  // corners
	for i, uv := range []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}} {
		geo.WriteU32(uint32(i))
		geo.WriteVec2(uv)
	}

	w := utils.NewBufWriter()
	w.WriteU32(LevelMagic)
	w.WriteU32(VersionLegacyMax)
	w.WriteU32(2) // sections
	if err := w.WriteVString("old level"); err != nil {
		t.Fatal(err)
	}
	payload := geo.Bytes()
	w.WriteU32(sectStaticGeometry)
	w.WriteU32(uint32(len(payload)))
	w.WriteBytes(payload)
	w.WriteU32(sectEnd)
	return w.Bytes()
}

func TestDecodeLevelLegacyDialect(t *testing.T) {
	s, err := DecodeLevel(legacyLevelFixture(t), config.Defaults())
	if err != nil {
		t.Fatalf("DecodeLevel: %v", err)
	}
	if s.Name != "old level" || s.ModName != "" {
		t.Errorf("header: name %q mod %q", s.Name, s.ModName)
	}
	if len(s.Brushes) != 1 {
		t.Fatalf("decoded %d brushes, want static geometry pseudo-brush", len(s.Brushes))
	}
	b := s.Brushes[0]
	if b.Name != "Static Geometry" {
		t.Errorf("pseudo-brush name %q", b.Name)
	}
	if len(b.Solid.Faces) != 1 || len(b.Vertices) != 3 {
		t.Errorf("geometry: %d faces, %d vertices", len(b.Solid.Faces), len(b.Vertices))
	}
}

func TestDecodeLevelAlternateDialect(t *testing.T) {
	geo := utils.NewBufWriter()
	geo.WriteU32(1) // textures
	if err := geo.WriteVString("snd_dune3.tga"); err != nil {
		t.Fatal(err)
	}
	// No vertex pool: corners carry inline positions and colors.
	geo.WriteU32(1) // faces
	geo.WriteVec3(mgl32.Vec3{0, 0, 1})
	geo.WriteF32(0)  // plane distance
	geo.WriteI32(0)  // texture slot
	geo.WriteI32(-1) // portal index
	geo.WriteU16(0)  // face flags
	geo.WriteU32(0)  // smoothing groups
	geo.WriteU32(3)  // corners
	for _, c := range []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}} {
		geo.WriteVec3(c)
		geo.WriteVec2(mgl32.Vec2{c[0], c[1]})
		geo.WriteU32(0xFFFFFFFF) // corner color
	}

	w := utils.NewBufWriter()
	w.WriteU32(LevelMagic)
	w.WriteU32(VersionAlternate)
	w.WriteU32(2) // sections
	if err := w.WriteVString("beta level"); err != nil {
		t.Fatal(err)
	}
	payload := geo.Bytes()
	w.WriteU32(sectStaticGeometry)
	w.WriteU32(uint32(len(payload)))
	w.WriteBytes(payload)
	w.WriteU32(sectEnd)

	s, err := DecodeLevel(w.Bytes(), config.Defaults())
	if err != nil {
		t.Fatalf("DecodeLevel: %v", err)
	}
	if len(s.Brushes) != 1 {
		t.Fatalf("decoded %d brushes", len(s.Brushes))
	}
	b := s.Brushes[0]
	if len(b.Vertices) != 3 {
		t.Fatalf("inline corners welded to %d vertices, want 3", len(b.Vertices))
	}
	found := false
	for _, v := range b.Vertices {
		if v == (mgl32.Vec3{2, 0, 0}) {
			found = true
		}
	}
	if !found {
		t.Errorf("inline corner missing from %v", b.Vertices)
	}
}

package objconv

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/geom"
	"github.com/GooberRF/redux-sub001/logger"
	"github.com/GooberRF/redux-sub001/scene"
)

// Decode parses Wavefront OBJ text into a scene. Each "o" statement opens
// a brush; faces keep their polygon order and are fanned afterwards unless
// n-gon passthrough is configured. Vertex positions are global in OBJ, so
// each brush re-welds the corners it references into a local arena.
func Decode(data []byte, cfg config.Config) (*scene.Scene, error) {
	s := &scene.Scene{}
	var namer scene.Namer

	// Global streams shared by all objects.
	var positions []mgl32.Vec3
	var uvs []mgl32.Vec2

	var cur *brushBuilder
	flush := func() {
		if cur == nil {
			return
		}
		if b := cur.build(); b != nil {
			s.Brushes = append(s.Brushes, b)
		}
		cur = nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "o", "g":
			flush()
			cur = newBrushBuilder(namer.Parse(strings.Join(fields[1:], " ")))
		case "v":
			positions = append(positions, parseVec3(fields[1:]))
		case "vt":
			uvs = append(uvs, parseVec2(fields[1:]))
		case "usemtl":
			if cur == nil {
				cur = newBrushBuilder(namer.Parse(""))
			}
			cur.useMaterial(strings.Join(fields[1:], " "))
		case "f":
			if cur == nil {
				cur = newBrushBuilder(namer.Parse(""))
			}
			if !cur.addFace(fields[1:], positions, uvs) {
				logger.Sugar.Warnf("line %d: dropping malformed face %q", lineNo, line)
			}
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !cfg.NgonPassthrough {
		for _, b := range s.Brushes {
			geom.TriangulateSolid(&b.Solid)
		}
	}
	geom.BridgeScene(s)
	return s, nil
}

type brushBuilder struct {
	parsed scene.ParsedName
	welder *geom.Welder
	solid  scene.Solid
	mtl    int
}

func newBrushBuilder(parsed scene.ParsedName) *brushBuilder {
	return &brushBuilder{
		parsed: parsed,
		welder: geom.NewWelder(),
		mtl:    -1,
	}
}

func (bb *brushBuilder) useMaterial(name string) {
	for i, tex := range bb.solid.Textures {
		if tex == name {
			bb.mtl = i
			return
		}
	}
	bb.solid.Textures = append(bb.solid.Textures, name)
	bb.mtl = len(bb.solid.Textures) - 1
}

// addFace resolves "v", "v/vt" or "v/vt/vn" corner references. OBJ indices
// are 1-based; negative values count back from the end of the stream.
func (bb *brushBuilder) addFace(refs []string, positions []mgl32.Vec3, uvs []mgl32.Vec2) bool {
	if len(refs) < 3 {
		return false
	}
	face := scene.Face{TextureIndex: bb.mtl}
	for _, ref := range refs {
		parts := strings.SplitN(ref, "/", 3)
		vi, ok := resolveIndex(parts[0], len(positions))
		if !ok {
			return false
		}
		var uv mgl32.Vec2
		if len(parts) > 1 && parts[1] != "" {
			if ti, ok := resolveIndex(parts[1], len(uvs)); ok {
				uv = uvs[ti]
			}
		}
		face.Vertices = append(face.Vertices, bb.welder.Add(positions[vi], uv))
		face.UVs = append(face.UVs, uv)
	}
	bb.solid.Faces = append(bb.solid.Faces, face)
	return true
}

func (bb *brushBuilder) build() *scene.Brush {
	if len(bb.solid.Faces) == 0 {
		return nil
	}
	b := &scene.Brush{
		UID:           bb.parsed.UID,
		Name:          bb.parsed.Base,
		RotationBasis: mgl32.Ident3(),
		Solid:         bb.solid,
	}
	b.Solid.Flags = bb.parsed.Flags
	b.Solid.Life = scene.LifeIndestructible
	if len(b.Solid.Textures) == 0 {
		b.Solid.Textures = []string{MissingMaterial}
		for i := range b.Solid.Faces {
			b.Solid.Faces[i].TextureIndex = 0
		}
	}
	for i := range b.Solid.Faces {
		if b.Solid.Faces[i].TextureIndex < 0 {
			b.Solid.Faces[i].TextureIndex = 0
		}
	}
	bb.welder.ApplyToBrush(b)
	for i := range b.Solid.Faces {
		geom.RecomputeNormal(&b.Solid.Faces[i], b.Vertices)
	}
	return b
}

func resolveIndex(s string, count int) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v == 0 {
		return 0, false
	}
	if v > 0 {
		v--
	} else {
		v += count
	}
	if v < 0 || v >= count {
		return 0, false
	}
	return v, true
}

func parseVec3(fields []string) mgl32.Vec3 {
	var v mgl32.Vec3
	for i := 0; i < 3 && i < len(fields); i++ {
		f, _ := strconv.ParseFloat(fields[i], 32)
		v[i] = float32(f)
	}
	return v
}

func parseVec2(fields []string) mgl32.Vec2 {
	var v mgl32.Vec2
	for i := 0; i < 2 && i < len(fields); i++ {
		f, _ := strconv.ParseFloat(fields[i], 32)
		v[i] = float32(f)
	}
	return v
}

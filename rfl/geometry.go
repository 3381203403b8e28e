package rfl

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/geom"
	"github.com/GooberRF/redux-sub001/logger"
	"github.com/GooberRF/redux-sub001/scene"
	"github.com/GooberRF/redux-sub001/utils"
)

// faceIncluded applies the face visibility policy: a face is emitted only
// if every category it belongs to is enabled.
func faceIncluded(cfg config.Config, flags uint16, isPortal bool) bool {
	if isPortal && !cfg.IncludePortalFaces {
		return false
	}
	if flags&scene.FaceFlagDetail != 0 && !cfg.IncludeDetailFaces {
		return false
	}
	if flags&scene.FaceFlagHasAlpha != 0 && !cfg.IncludeAlphaFaces {
		return false
	}
	if flags&scene.FaceFlagHasHoles != 0 && !cfg.IncludeHoleFaces {
		return false
	}
	if flags&scene.FaceFlagLiquid != 0 && !cfg.IncludeLiquidFaces {
		return false
	}
	if flags&scene.FaceFlagShowSky != 0 && !cfg.IncludeSkyFaces {
		return false
	}
	if flags&scene.FaceFlagInvisible != 0 && !cfg.IncludeInvisibleFaces {
		return false
	}
	return true
}

type scrollAnim struct {
	faceId int32
	u, v   float32
}

// decodeSolid reads one geometry block in the given dialect into a solid
// plus the welded vertex arena its faces index. Excluded faces contribute
// nothing, not even weld entries; faces with fewer than 3 corners are
// dropped.
func decodeSolid(r *utils.BufReader, d Dialect, cfg config.Config) (scene.Solid, *geom.Welder) {
	var solid scene.Solid
	welder := geom.NewWelder()

	textureCount := int(r.ReadU32())
	for i := 0; i < textureCount && !r.Truncated(); i++ {
		solid.Textures = append(solid.Textures, r.ReadVString())
	}

	var scrolls []scrollAnim
	if d == DialectExtended {
		scrollCount := int(r.ReadU32())
		for i := 0; i < scrollCount && !r.Truncated(); i++ {
			scrolls = append(scrolls, scrollAnim{
				faceId: r.ReadI32(),
				u:      r.ReadF32(),
				v:      r.ReadF32(),
			})
		}
		skipRooms(r)
	}

	// The alternate dialect stores corner positions inline; the others
	// share a vertex pool referenced by raw index.
	var pool []mgl32.Vec3
	if d != DialectAlternate {
		vertexCount := int(r.ReadU32())
		pool = make([]mgl32.Vec3, 0, vertexCount)
		for i := 0; i < vertexCount && !r.Truncated(); i++ {
			pool = append(pool, r.ReadVec3())
		}
	}

	faceCount := int(r.ReadU32())
	for i := 0; i < faceCount && !r.Truncated(); i++ {
		face, include := decodeFace(r, d, cfg, pool, welder)
		if !include {
			continue
		}
		if len(face.Vertices) < 3 {
			logger.Sugar.Warnf("dropping degenerate face with %d corners", len(face.Vertices))
			continue
		}
		for _, s := range scrolls {
			if s.faceId == face.FaceId {
				face.ScrollU, face.ScrollV = s.u, s.v
				face.Flags |= scene.FaceFlagScrollTexture
			}
		}
		solid.Faces = append(solid.Faces, face)
	}

	if !cfg.NgonPassthrough {
		geom.TriangulateSolid(&solid)
	}
	return solid, welder
}

// decodeFace reads one face record. The plane distance is discarded after
// the read since faces store only their winding. Every corner becomes a
// welded (position, UV) arena vertex because raw pool indices are not
// shared across faces in the target model.
func decodeFace(r *utils.BufReader, d Dialect, cfg config.Config, pool []mgl32.Vec3, welder *geom.Welder) (scene.Face, bool) {
	var face scene.Face

	face.Normal = r.ReadVec3()
	r.ReadF32() // plane distance
	face.TextureIndex = int(r.ReadI32())

	if d == DialectExtended {
		face.FaceId = r.ReadI32()
	}
	portalIndex := r.ReadI32()
	face.Flags = r.ReadU16()
	if d == DialectExtended {
		r.ReadU8() // lightmap resolution
		r.ReadU8()
	}
	face.SmoothingGroups = r.ReadU32()
	if d == DialectExtended {
		r.ReadI32() // room index
	}

	include := faceIncluded(cfg, face.Flags, portalIndex >= 0)

	cornerCount := int(r.ReadU32())
	for c := 0; c < cornerCount && !r.Truncated(); c++ {
		var pos mgl32.Vec3
		if d == DialectAlternate {
			pos = r.ReadVec3()
		} else {
			idx := int(r.ReadU32())
			if idx < 0 || idx >= len(pool) {
				logger.Sugar.Warnf("face corner references vertex %d of %d, substituting origin", idx, len(pool))
			} else {
				pos = pool[idx]
			}
		}
		uv := r.ReadVec2()
		if d == DialectAlternate {
			r.ReadU32() // corner color
		}
		if include {
			face.Vertices = append(face.Vertices, welder.Add(pos, uv))
			face.UVs = append(face.UVs, uv)
		}
	}
	return face, include
}

// skipRooms consumes the extended-dialect room table. Rooms describe
// portal cells the scene model does not retain.
func skipRooms(r *utils.BufReader) {
	roomCount := int(r.ReadU32())
	for i := 0; i < roomCount && !r.Truncated(); i++ {
		r.ReadI32()  // room id
		r.ReadVec3() // aabb min
		r.ReadVec3() // aabb max
		r.Skip(8)    // skyroom/cold/outside/airlock/liquid/ambient/subroom flags + pad
		r.ReadF32()  // life
		r.ReadVString()
	}
}

// encodeSolid writes one geometry block in the extended dialect, the only
// dialect the group container uses.
func encodeSolid(w *utils.BufWriter, b *scene.Brush) error {
	solid := &b.Solid

	// The fallback slot for dangling texture references has to exist
	// before the table is written; appending it mid-face would leave the
	// file declaring fewer slots than its faces reference.
	for fi := range solid.Faces {
		if ti := solid.Faces[fi].TextureIndex; ti < 0 || ti >= len(solid.Textures) {
			missingTextureSlot(solid)
			break
		}
	}

	w.WriteU32(uint32(len(solid.Textures)))
	for _, tex := range solid.Textures {
		if err := w.WriteVString(tex); err != nil {
			return err
		}
	}

	var scrolls []scrollAnim
	for _, f := range solid.Faces {
		if f.Flags&scene.FaceFlagScrollTexture != 0 || f.ScrollU != 0 || f.ScrollV != 0 {
			scrolls = append(scrolls, scrollAnim{faceId: f.FaceId, u: f.ScrollU, v: f.ScrollV})
		}
	}
	w.WriteU32(uint32(len(scrolls)))
	for _, s := range scrolls {
		w.WriteI32(s.faceId)
		w.WriteF32(s.u)
		w.WriteF32(s.v)
	}

	// No room records: group geometry belongs to no portal cell.
	w.WriteU32(0)

	w.WriteU32(uint32(len(b.Vertices)))
	for _, v := range b.Vertices {
		w.WriteVec3(v)
	}

	w.WriteU32(uint32(len(solid.Faces)))
	for fi := range solid.Faces {
		if err := encodeFace(w, b, &solid.Faces[fi]); err != nil {
			return err
		}
	}
	return nil
}

func encodeFace(w *utils.BufWriter, b *scene.Brush, f *scene.Face) error {
	normal, dist := f.Normal, float32(0)
	if len(f.Vertices) >= 3 {
		a, bb, c := f.Vertices[0], f.Vertices[1], f.Vertices[2]
		if a < len(b.Vertices) && bb < len(b.Vertices) && c < len(b.Vertices) {
			if n, d := utils.PlaneFromPoints(b.Vertices[a], b.Vertices[bb], b.Vertices[c]); n.Len() > 0 {
				normal, dist = n, d
			}
		}
	}
	w.WriteVec3(normal)
	w.WriteF32(dist)

	textureIndex := f.TextureIndex
	if textureIndex < 0 || textureIndex >= len(b.Solid.Textures) {
		logger.Sugar.Warnf("face of brush %d references texture slot %d of %d, substituting %q",
			b.UID, textureIndex, len(b.Solid.Textures), MissingTexture)
		textureIndex = missingTextureSlot(&b.Solid)
	}
	w.WriteI32(int32(textureIndex))
	w.WriteI32(f.FaceId)
	w.WriteI32(-1) // portal index
	w.WriteU16(f.Flags)
	w.WriteU8(0) // lightmap resolution
	w.WriteU8(0)
	w.WriteU32(f.SmoothingGroups)
	w.WriteI32(-1) // room index

	w.WriteU32(uint32(len(f.Vertices)))
	for ci, vi := range f.Vertices {
		w.WriteU32(uint32(vi))
		var uv mgl32.Vec2
		if ci < len(f.UVs) {
			uv = f.UVs[ci]
		} else if vi >= 0 && vi < len(b.UVs) {
			uv = b.UVs[vi]
		}
		w.WriteVec2(uv)
	}
	return nil
}

// missingTextureSlot returns the slot of the missing-texture fallback,
// appending it to the slot table on first use.
func missingTextureSlot(s *scene.Solid) int {
	for i, tex := range s.Textures {
		if tex == MissingTexture {
			return i
		}
	}
	s.Textures = append(s.Textures, MissingTexture)
	return len(s.Textures) - 1
}

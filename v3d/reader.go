package v3d

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/geom"
	"github.com/GooberRF/redux-sub001/logger"
	"github.com/GooberRF/redux-sub001/scene"
	"github.com/GooberRF/redux-sub001/utils"
)

// DecodeMesh parses a V3M/V3C container into a scene with one brush per
// (submesh, LOD). A bad magic or signature aborts; a truncated section
// stops parsing and returns whatever was decoded.
func DecodeMesh(data []byte, cfg config.Config) (*scene.Scene, error) {
	r := utils.NewBufReader("v3d", data)

	magic := r.ReadU32()
	if magic != StaticMagic && magic != SkeletalMagic {
		return nil, errors.Errorf("bad mesh magic 0x%08x", magic)
	}
	version := r.ReadU32()
	if version != Version {
		return nil, errors.Errorf("unsupported mesh signature 0x%08x, want 0x%08x", version, Version)
	}

	s := &scene.Scene{Version: version}
	r.ReadU32() // submesh count
	r.ReadU32() // collision sphere count
	r.ReadU32() // bone count

	var nextUID int32
	for !r.Truncated() {
		tag := r.ReadU32()
		if tag == sectEnd || r.Truncated() {
			break
		}
		length := int(r.ReadU32())
		if length < 0 || r.Pos()+length > len(data) {
			logger.Sugar.Warnf("section 0x%x with length 0x%x runs past end of file, stopping", tag, length)
			break
		}
		payload := utils.NewBufReader("v3d section", data[r.Pos():r.Pos()+length])
		r.Skip(length)

		switch tag {
		case sectSubmesh:
			decodeSubmesh(payload, s, &nextUID)
		case sectBones:
			decodeBones(payload, s)
		case sectColSphere:
			s.CollisionSpheres = append(s.CollisionSpheres, scene.CollisionSphere{
				Name:     payload.ReadFixedString(colSphereNameLen),
				Parent:   payload.ReadI32(),
				Position: payload.ReadVec3(),
				Radius:   payload.ReadF32(),
			})
		default:
			logger.Sugar.Debugf("skipping mesh section 0x%08x (0x%x bytes)", tag, length)
		}
	}
	return s, nil
}

func decodeSubmesh(r *utils.BufReader, s *scene.Scene, nextUID *int32) {
	name := r.ReadFixedString(submeshNameLen)
	r.ReadFixedString(submeshNameLen) // parent name
	r.ReadU32()                       // submesh record version

	lodCount := int(r.ReadU32())
	for i := 0; i < lodCount && !r.Truncated(); i++ {
		r.ReadF32() // switch distance
	}

	materialCount := int(r.ReadU32())
	materials := make([]string, 0, materialCount)
	for i := 0; i < materialCount && !r.Truncated(); i++ {
		materials = append(materials, r.ReadFixedString(textureNameLen))
	}

	var lodBrushes []*scene.Brush
	for lod := 0; lod < lodCount && !r.Truncated(); lod++ {
		b := decodeLOD(r, materials)
		b.UID = *nextUID
		*nextUID++
		if lodCount > 1 {
			b.Name = scene.LODName(name, lod)
		} else {
			b.Name = name
		}
		s.Brushes = append(s.Brushes, b)
		lodBrushes = append(lodBrushes, b)
	}

	propCount := int(r.ReadU32())
	for i := 0; i < propCount && !r.Truncated(); i++ {
		pp := scene.PropPoint{
			Name:        r.ReadFixedString(propPointNameLen),
			Orientation: r.ReadQuat(),
			Position:    r.ReadVec3(),
			Parent:      r.ReadI32(),
		}
		if len(lodBrushes) > 0 {
			lodBrushes[0].PropPoints = append(lodBrushes[0].PropPoints, pp)
		}
	}
}

func decodeLOD(r *utils.BufReader, materials []string) *scene.Brush {
	b := &scene.Brush{
		RotationBasis: mgl32.Ident3(),
		Solid:         scene.Solid{Textures: materials, Life: scene.LifeIndestructible},
	}

	flags := r.ReadU32()
	skinned := flags&1 != 0

	type batchHeader struct {
		vertices  int
		triangles int
		material  int
	}
	batchCount := int(r.ReadU32())
	headers := make([]batchHeader, 0, batchCount)
	for i := 0; i < batchCount && !r.Truncated(); i++ {
		headers = append(headers, batchHeader{
			vertices:  int(r.ReadU32()),
			triangles: int(r.ReadU32()),
			material:  int(r.ReadU32()),
		})
	}

	// De-remap: batch-local indices are offset into the brush arena so the
	// concatenation of all batches reproduces the original triangle set.
	for _, h := range headers {
		if r.Truncated() {
			break
		}
		base := len(b.Vertices)

		r.Align(dataAlign)
		for i := 0; i < h.vertices; i++ {
			b.Vertices = append(b.Vertices, r.ReadVec3())
		}
		r.Align(dataAlign)
		for i := 0; i < h.vertices; i++ {
			b.UVs = append(b.UVs, r.ReadVec2())
		}
		r.Align(dataAlign)
		for i := 0; i < h.triangles && !r.Truncated(); i++ {
			face := scene.Face{
				Vertices: []int{
					base + int(r.ReadU16()),
					base + int(r.ReadU16()),
					base + int(r.ReadU16()),
				},
				TextureIndex: h.material,
			}
			r.ReadU16() // triangle flags
			face.UVs = cornerUVs(b, face.Vertices)
			b.Solid.Faces = append(b.Solid.Faces, face)
		}
		if skinned {
			r.Align(dataAlign)
			for i := 0; i < h.vertices && !r.Truncated(); i++ {
				var packed, joints [4]uint8
				copy(packed[:], r.Bytes(4))
				copy(joints[:], r.Bytes(4))
				j, wts := unpackWeights(joints, packed)
				b.JointIndices = append(b.JointIndices, j)
				b.JointWeights = append(b.JointWeights, wts)
			}
		}
	}
	r.Align(dataAlign)

	for fi := range b.Solid.Faces {
		geom.RecomputeNormal(&b.Solid.Faces[fi], b.Vertices)
	}
	return b
}

func cornerUVs(b *scene.Brush, verts []int) []mgl32.Vec2 {
	uvs := make([]mgl32.Vec2, 0, len(verts))
	for _, vi := range verts {
		if vi >= 0 && vi < len(b.UVs) {
			uvs = append(uvs, b.UVs[vi])
		} else {
			uvs = append(uvs, mgl32.Vec2{})
		}
	}
	return uvs
}

func decodeBones(r *utils.BufReader, s *scene.Scene) {
	count := int(r.ReadU32())
	for i := 0; i < count && !r.Truncated(); i++ {
		s.Bones = append(s.Bones, scene.Bone{
			Name:        r.ReadFixedString(boneNameLen),
			Rotation:    r.ReadQuat(),
			Translation: r.ReadVec3(),
			Parent:      r.ReadI32(),
		})
	}
}

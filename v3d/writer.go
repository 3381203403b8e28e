package v3d

import (
	"github.com/GooberRF/redux-sub001/compat"
	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/geom"
	"github.com/GooberRF/redux-sub001/logger"
	"github.com/GooberRF/redux-sub001/scene"
	"github.com/GooberRF/redux-sub001/utils"
)

// EncodeMesh serializes a scene as a V3M container, or V3C when any brush
// carries joint data. Export-time reconciliation (mirroring, normal flips,
// texture translation) mutates the scene in place before writing.
func EncodeMesh(s *scene.Scene, cfg config.Config, tex *compat.TextureTable) ([]byte, error) {
	if cfg.LegacyTextures && tex != nil {
		for _, b := range s.Brushes {
			for i, name := range b.Solid.Textures {
				b.Solid.Textures[i] = tex.Translate(name)
			}
		}
	}
	geom.MirrorScene(s, cfg.Mirror)
	if cfg.FlipNormals {
		geom.FlipNormals(s)
	}

	skinned := len(s.Bones) > 0
	for _, b := range s.Brushes {
		if b.Skinned() {
			skinned = true
		}
	}

	groups := groupSubmeshes(s.Brushes)
	if len(groups) == 0 {
		logger.Sugar.Warnf("no submeshes resolved from %d brushes", len(s.Brushes))
	}

	w := utils.NewBufWriter()
	if skinned {
		w.WriteU32(SkeletalMagic)
	} else {
		w.WriteU32(StaticMagic)
	}
	w.WriteU32(Version)
	w.WriteU32(uint32(len(groups)))
	w.WriteU32(uint32(len(s.CollisionSpheres)))
	w.WriteU32(uint32(len(s.Bones)))

	for _, g := range groups {
		payload, err := encodeSubmesh(&g, skinned)
		if err != nil {
			return nil, err
		}
		writeSection(w, sectSubmesh, payload)
	}

	if skinned {
		writeSection(w, sectBones, encodeBones(s.Bones))
		for i := range s.CollisionSpheres {
			writeSection(w, sectColSphere, encodeColSphere(&s.CollisionSpheres[i]))
		}
	}

	w.WriteU32(sectEnd)
	w.WriteU32(0)
	return w.Bytes(), nil
}

func writeSection(w *utils.BufWriter, tag uint32, payload []byte) {
	w.WriteU32(tag)
	w.WriteU32(uint32(len(payload)))
	w.WriteBytes(payload)
}

// submeshMaterials returns the brush's material slot table, with the
// missing-texture fallback appended when any face needs it.
func submeshMaterials(b *scene.Brush) []string {
	mats := append([]string(nil), b.Solid.Textures...)
	needMissing := len(mats) == 0
	for _, f := range b.Solid.Faces {
		if f.TextureIndex < 0 || f.TextureIndex >= len(mats) {
			needMissing = true
		}
	}
	if needMissing {
		mats = append(mats, MissingTexture)
	}
	return mats
}

func encodeSubmesh(g *submeshGroup, skinned bool) ([]byte, error) {
	w := utils.NewBufWriter()

	w.WriteFixedString(g.Name, submeshNameLen)
	w.WriteFixedString("None", submeshNameLen)
	w.WriteU32(7) // submesh record version

	w.WriteU32(uint32(len(g.LODs)))
	for _, lvl := range g.Lvls {
		// LOD switch distance grows with the level index.
		w.WriteF32(float32(lvl) * 10.0)
	}

	// The material table of the most detailed LOD serves the submesh;
	// coarser LODs index into it by name.
	materials := submeshMaterials(g.LODs[0])
	w.WriteU32(uint32(len(materials)))
	for _, m := range materials {
		w.WriteFixedString(m, textureNameLen)
	}

	for _, b := range g.LODs {
		if err := encodeLOD(w, b, materials, skinned); err != nil {
			return nil, err
		}
	}

	// Prop points of every LOD brush, most detailed first.
	var props []scene.PropPoint
	for _, b := range g.LODs {
		props = append(props, b.PropPoints...)
	}
	w.WriteU32(uint32(len(props)))
	for i := range props {
		w.WriteFixedString(props[i].Name, propPointNameLen)
		w.WriteQuat(props[i].Orientation)
		w.WriteVec3(props[i].Position)
		w.WriteI32(props[i].Parent)
	}
	return w.Bytes(), nil
}

func encodeLOD(w *utils.BufWriter, b *scene.Brush, submeshMats []string, skinned bool) error {
	// Remap this LOD's material slots onto the submesh table by name.
	lodMats := submeshMaterials(b)
	slotMap := make([]int, len(lodMats))
	for i, name := range lodMats {
		slotMap[i] = indexOf(submeshMats, name)
		if slotMap[i] < 0 {
			logger.Sugar.Warnf("LOD of %q uses material %q missing from submesh table, substituting slot 0", b.Name, name)
			slotMap[i] = 0
		}
	}

	batches := brushBatches(b, lodMats)

	var flags uint32
	if skinned && b.Skinned() {
		flags |= 1
	}
	w.WriteU32(flags)
	w.WriteU32(uint32(len(batches)))
	for _, batch := range batches {
		w.WriteU32(uint32(len(batch.Positions)))
		w.WriteU32(uint32(len(batch.Triangles)))
		w.WriteU32(uint32(slotMap[batch.MaterialIndex]))
	}

	// Every data block is aligned to a 16-byte boundary.
	for _, batch := range batches {
		w.Align(dataAlign)
		for _, p := range batch.Positions {
			w.WriteVec3(p)
		}
		w.Align(dataAlign)
		for _, uv := range batch.UVs {
			w.WriteVec2(uv)
		}
		w.Align(dataAlign)
		for _, tri := range batch.Triangles {
			w.WriteU16(tri[0])
			w.WriteU16(tri[1])
			w.WriteU16(tri[2])
			w.WriteU16(0) // triangle flags
		}
		if flags&1 != 0 {
			w.Align(dataAlign)
			for i := range batch.Positions {
				var joints [4]uint8
				var weights [4]float32
				if i < len(batch.Weights) {
					joints = batch.Joints[i]
					weights = batch.Weights[i]
				}
				packed := PackWeights(weights)
				idx := packJoints(joints, packed)
				w.WriteBytes(packed[:])
				w.WriteBytes(idx[:])
			}
		}
	}
	w.Align(dataAlign)
	return nil
}

func encodeBones(bones []scene.Bone) []byte {
	w := utils.NewBufWriter()
	w.WriteU32(uint32(len(bones)))
	for i := range bones {
		w.WriteFixedString(bones[i].Name, boneNameLen)
		w.WriteQuat(bones[i].Rotation)
		w.WriteVec3(bones[i].Translation)
		w.WriteI32(bones[i].Parent)
	}
	return w.Bytes()
}

func encodeColSphere(cs *scene.CollisionSphere) []byte {
	w := utils.NewBufWriter()
	w.WriteFixedString(cs.Name, colSphereNameLen)
	w.WriteI32(cs.Parent)
	w.WriteVec3(cs.Position)
	w.WriteF32(cs.Radius)
	return w.Bytes()
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

package gltfconv

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/geom"
	"github.com/GooberRF/redux-sub001/logger"
	"github.com/GooberRF/redux-sub001/scene"
)

// Decode parses a binary or JSON glTF document into a scene, bridging it
// into the native left-handed convention. One brush is produced per node
// with a mesh; decorated node names restore UIDs and flags, anything else
// falls back to sequential assignment.
func Decode(data []byte, cfg config.Config) (*scene.Scene, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode gltf document")
	}

	s := &scene.Scene{}
	var namer scene.Namer

	for _, node := range doc.Nodes {
		if node.Mesh == nil || int(*node.Mesh) >= len(doc.Meshes) {
			continue
		}
		parsed := namer.Parse(node.Name)
		b := &scene.Brush{
			UID:  parsed.UID,
			Name: parsed.Base,
			Position: mgl32.Vec3{
				node.Translation[0], node.Translation[1], node.Translation[2],
			},
			RotationBasis: nodeBasis(node),
		}
		b.Solid.Flags = parsed.Flags
		b.Solid.Life = scene.LifeIndestructible

		if err := decodeMesh(doc, doc.Meshes[*node.Mesh], b); err != nil {
			logger.Sugar.Warnf("node %q: %v, skipping", node.Name, err)
			continue
		}
		if len(b.Solid.Faces) == 0 {
			continue
		}
		geom.WeldBrush(b)
		s.Brushes = append(s.Brushes, b)
	}

	decodeSkeleton(doc, s)
	geom.BridgeScene(s)
	return s, nil
}

// decodeSkeleton restores the bone hierarchy from the document's first
// skin. Joint order is the bone order; parents are recovered from the
// node hierarchy.
func decodeSkeleton(doc *gltf.Document, s *scene.Scene) {
	if len(doc.Skins) == 0 {
		return
	}
	skin := doc.Skins[0]

	slot := make(map[uint32]int, len(skin.Joints))
	for i, j := range skin.Joints {
		if int(j) < len(doc.Nodes) {
			slot[j] = i
		}
	}
	parent := make([]int32, len(skin.Joints))
	for i := range parent {
		parent[i] = -1
	}
	for j, bi := range slot {
		for _, child := range doc.Nodes[j].Children {
			if ci, ok := slot[child]; ok {
				parent[ci] = int32(bi)
			}
		}
	}

	for i, j := range skin.Joints {
		if int(j) >= len(doc.Nodes) {
			logger.Sugar.Warnf("skin joint %d references node %d of %d, skipping skeleton", i, j, len(doc.Nodes))
			s.Bones = nil
			return
		}
		node := doc.Nodes[j]
		q := mgl32.Quat{
			W: node.Rotation[3],
			V: mgl32.Vec3{node.Rotation[0], node.Rotation[1], node.Rotation[2]},
		}
		if q.Len() < 1e-6 {
			q = mgl32.QuatIdent()
		} else {
			q = q.Normalize()
		}
		s.Bones = append(s.Bones, scene.Bone{
			Name:        node.Name,
			Rotation:    q,
			Translation: mgl32.Vec3{node.Translation[0], node.Translation[1], node.Translation[2]},
			Parent:      parent[i],
		})
	}
}

func nodeBasis(node *gltf.Node) mgl32.Mat3 {
	q := mgl32.Quat{
		W: node.Rotation[3],
		V: mgl32.Vec3{node.Rotation[0], node.Rotation[1], node.Rotation[2]},
	}
	if q.Len() < 1e-6 {
		return mgl32.Ident3()
	}
	// Node rotation is local-to-world; the brush basis stores rows as
	// local axes, i.e. the transpose.
	return q.Normalize().Mat4().Mat3().Transpose()
}

func decodeMesh(doc *gltf.Document, mesh *gltf.Mesh, b *scene.Brush) error {
	for _, prim := range mesh.Primitives {
		posIdx, ok := prim.Attributes["POSITION"]
		if !ok {
			continue
		}
		positions, err := readVec3(doc, posIdx)
		if err != nil {
			return err
		}
		var uvs []mgl32.Vec2
		if uvIdx, ok := prim.Attributes["TEXCOORD_0"]; ok {
			if uvs, err = readVec2(doc, uvIdx); err != nil {
				return err
			}
		}
		if prim.Indices == nil {
			return errors.New("primitive without indices")
		}
		indices, err := readIndices(doc, *prim.Indices)
		if err != nil {
			return err
		}
		var joints [][4]uint8
		var weights [][4]float32
		if jIdx, ok := prim.Attributes["JOINTS_0"]; ok {
			if wIdx, ok := prim.Attributes["WEIGHTS_0"]; ok {
				if joints, err = readJoints(doc, jIdx); err != nil {
					return err
				}
				if weights, err = readWeights(doc, wIdx); err != nil {
					return err
				}
			}
		}

		slot := len(b.Solid.Textures)
		texName := ""
		if prim.Material != nil && int(*prim.Material) < len(doc.Materials) {
			texName = doc.Materials[*prim.Material].Name
		}
		b.Solid.Textures = append(b.Solid.Textures, texName)

		base := len(b.Vertices)
		b.Vertices = append(b.Vertices, positions...)
		for i := range positions {
			if i < len(uvs) {
				b.UVs = append(b.UVs, uvs[i])
			} else {
				b.UVs = append(b.UVs, mgl32.Vec2{})
			}
		}
		if len(weights) > 0 || len(b.JointWeights) > 0 {
			// Unskinned primitives mixed into a skinned brush pad with
			// zero influences so the layers stay parallel to the vertices.
			for len(b.JointWeights) < base {
				b.JointIndices = append(b.JointIndices, [4]uint8{})
				b.JointWeights = append(b.JointWeights, [4]float32{})
			}
			for i := range positions {
				var ji [4]uint8
				var jw [4]float32
				if i < len(weights) && i < len(joints) {
					ji, jw = joints[i], weights[i]
				}
				b.JointIndices = append(b.JointIndices, ji)
				b.JointWeights = append(b.JointWeights, jw)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			face := scene.Face{
				Vertices: []int{
					base + int(indices[i]),
					base + int(indices[i+1]),
					base + int(indices[i+2]),
				},
				TextureIndex: slot,
			}
			face.UVs = []mgl32.Vec2{
				b.UVs[face.Vertices[0]],
				b.UVs[face.Vertices[1]],
				b.UVs[face.Vertices[2]],
			}
			geom.RecomputeNormal(&face, b.Vertices)
			b.Solid.Faces = append(b.Solid.Faces, face)
		}
	}
	return nil
}

// accessorData locates an accessor's raw bytes. Sparse and interleaved
// accessors are not produced by the exporters this tool round-trips with.
func accessorData(doc *gltf.Document, idx uint32) (*gltf.Accessor, []byte, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, nil, errors.Errorf("accessor %d out of range", idx)
	}
	acc := doc.Accessors[idx]
	if acc.BufferView == nil {
		return nil, nil, errors.Errorf("accessor %d has no buffer view", idx)
	}
	bv := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[bv.Buffer].Data
	start := int(bv.ByteOffset) + int(acc.ByteOffset)
	end := int(bv.ByteOffset) + int(bv.ByteLength)
	if start > len(buf) || end > len(buf) {
		return nil, nil, errors.Errorf("accessor %d runs past buffer end", idx)
	}
	return acc, buf[start:end], nil
}

func readVec3(doc *gltf.Document, idx uint32) ([]mgl32.Vec3, error) {
	acc, data, err := accessorData(doc, idx)
	if err != nil {
		return nil, err
	}
	if acc.ComponentType != gltf.ComponentFloat || acc.Type != gltf.AccessorVec3 {
		return nil, errors.Errorf("accessor %d is not a float vec3", idx)
	}
	out := make([]mgl32.Vec3, 0, acc.Count)
	for i := 0; i < int(acc.Count) && (i+1)*12 <= len(data); i++ {
		out = append(out, mgl32.Vec3{
			f32At(data, i*12),
			f32At(data, i*12+4),
			f32At(data, i*12+8),
		})
	}
	return out, nil
}

func readVec2(doc *gltf.Document, idx uint32) ([]mgl32.Vec2, error) {
	acc, data, err := accessorData(doc, idx)
	if err != nil {
		return nil, err
	}
	if acc.ComponentType != gltf.ComponentFloat || acc.Type != gltf.AccessorVec2 {
		return nil, errors.Errorf("accessor %d is not a float vec2", idx)
	}
	out := make([]mgl32.Vec2, 0, acc.Count)
	for i := 0; i < int(acc.Count) && (i+1)*8 <= len(data); i++ {
		out = append(out, mgl32.Vec2{f32At(data, i*8), f32At(data, i*8+4)})
	}
	return out, nil
}

func readJoints(doc *gltf.Document, idx uint32) ([][4]uint8, error) {
	acc, data, err := accessorData(doc, idx)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltf.AccessorVec4 {
		return nil, errors.Errorf("accessor %d is not a vec4", idx)
	}
	out := make([][4]uint8, 0, acc.Count)
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		for i := 0; i < int(acc.Count) && (i+1)*4 <= len(data); i++ {
			out = append(out, [4]uint8{data[i*4], data[i*4+1], data[i*4+2], data[i*4+3]})
		}
	case gltf.ComponentUshort:
		// Bone slots are byte-sized in the containers this tool writes.
		for i := 0; i < int(acc.Count) && (i+1)*8 <= len(data); i++ {
			var j [4]uint8
			for c := 0; c < 4; c++ {
				j[c] = uint8(binary.LittleEndian.Uint16(data[i*8+c*2:]))
			}
			out = append(out, j)
		}
	default:
		return nil, errors.Errorf("unsupported joint component type %d", acc.ComponentType)
	}
	return out, nil
}

func readWeights(doc *gltf.Document, idx uint32) ([][4]float32, error) {
	acc, data, err := accessorData(doc, idx)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltf.AccessorVec4 {
		return nil, errors.Errorf("accessor %d is not a vec4", idx)
	}
	out := make([][4]float32, 0, acc.Count)
	switch acc.ComponentType {
	case gltf.ComponentFloat:
		for i := 0; i < int(acc.Count) && (i+1)*16 <= len(data); i++ {
			out = append(out, [4]float32{
				f32At(data, i*16), f32At(data, i*16+4),
				f32At(data, i*16+8), f32At(data, i*16+12),
			})
		}
	case gltf.ComponentUbyte:
		for i := 0; i < int(acc.Count) && (i+1)*4 <= len(data); i++ {
			var w [4]float32
			for c := 0; c < 4; c++ {
				w[c] = float32(data[i*4+c]) / 255
			}
			out = append(out, w)
		}
	default:
		return nil, errors.Errorf("unsupported weight component type %d", acc.ComponentType)
	}
	return out, nil
}

func readIndices(doc *gltf.Document, idx uint32) ([]uint32, error) {
	acc, data, err := accessorData(doc, idx)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, 0, acc.Count)
	switch acc.ComponentType {
	case gltf.ComponentUshort:
		for i := 0; i < int(acc.Count) && (i+1)*2 <= len(data); i++ {
			out = append(out, uint32(binary.LittleEndian.Uint16(data[i*2:])))
		}
	case gltf.ComponentUint:
		for i := 0; i < int(acc.Count) && (i+1)*4 <= len(data); i++ {
			out = append(out, binary.LittleEndian.Uint32(data[i*4:]))
		}
	case gltf.ComponentUbyte:
		for i := 0; i < int(acc.Count) && i < len(data); i++ {
			out = append(out, uint32(data[i]))
		}
	default:
		return nil, errors.Errorf("unsupported index component type %d", acc.ComponentType)
	}
	return out, nil
}

func f32At(data []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}

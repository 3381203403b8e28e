// Package gltfconv bridges the scene model to glTF 2.0. The binary codecs
// treat it as an external collaborator: it consumes and produces the same
// scene shape they do, with the handedness bridge applied at the boundary.
package gltfconv

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/GooberRF/redux-sub001/compat"
	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/geom"
	"github.com/GooberRF/redux-sub001/scene"
)

// Encode writes a scene as binary glTF. The scene is mutated in place:
// export-time reconciliation runs first, then the handedness bridge flips
// everything into glTF's right-handed convention.
func Encode(w io.Writer, s *scene.Scene, cfg config.Config, tex *compat.TextureTable) error {
	if cfg.StripGeoable {
		for _, b := range s.Brushes {
			compat.StripGeoableBrush(b)
		}
	}
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
	geom.BridgeScene(s)

	doc := gltf.NewDocument()
	doc.Asset.Generator = "redux"

	materialIndex := make(map[string]uint32)
	material := func(name string) *uint32 {
		if name == "" {
			return nil
		}
		if idx, ok := materialIndex[name]; ok {
			return gltf.Index(idx)
		}
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name:        name,
			DoubleSided: true,
		})
		idx := uint32(len(doc.Materials) - 1)
		materialIndex[name] = idx
		return gltf.Index(idx)
	}

	var skinnedNodes []int
	for _, b := range s.Brushes {
		mesh := brushMesh(doc, b, material)
		if mesh == nil {
			continue
		}
		doc.Meshes = append(doc.Meshes, mesh)

		name := b.Name
		if cfg.DecoratedNames {
			name = scene.DecorateName(baseName(b), b.UID, b.Solid.Flags)
		}
		rot := mgl32.Mat4ToQuat(b.RotationBasis.Transpose().Mat4())
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        name,
			Mesh:        gltf.Index(uint32(len(doc.Meshes) - 1)),
			Translation: [3]float32{b.Position[0], b.Position[1], b.Position[2]},
			Rotation:    [4]float32{rot.V[0], rot.V[1], rot.V[2], rot.W},
		})
		if b.Skinned() {
			skinnedNodes = append(skinnedNodes, len(doc.Nodes)-1)
		}
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}

	encodeSkeleton(doc, s, skinnedNodes)

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

// encodeSkeleton writes the bone hierarchy as one skin shared by every
// skinned mesh node. Joint node order matches bone order so the JOINTS_0
// slots stay valid on re-import.
func encodeSkeleton(doc *gltf.Document, s *scene.Scene, skinnedNodes []int) {
	if len(s.Bones) == 0 {
		return
	}

	joints := make([]uint32, len(s.Bones))
	for i, bone := range s.Bones {
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        bone.Name,
			Translation: [3]float32{bone.Translation[0], bone.Translation[1], bone.Translation[2]},
			Rotation:    [4]float32{bone.Rotation.V[0], bone.Rotation.V[1], bone.Rotation.V[2], bone.Rotation.W},
		})
		joints[i] = uint32(len(doc.Nodes) - 1)
	}
	for i, bone := range s.Bones {
		if bone.Parent >= 0 && int(bone.Parent) < len(s.Bones) {
			p := doc.Nodes[joints[bone.Parent]]
			p.Children = append(p.Children, joints[i])
		} else {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, joints[i])
		}
	}

	doc.Skins = append(doc.Skins, &gltf.Skin{Name: "skeleton", Joints: joints})
	skin := uint32(len(doc.Skins) - 1)
	for _, ni := range skinnedNodes {
		doc.Nodes[ni].Skin = gltf.Index(skin)
	}
}

// baseName strips an existing decoration so re-export does not stack
// tokens.
func baseName(b *scene.Brush) string {
	var n scene.Namer
	return n.Parse(b.Name).Base
}

// brushMesh builds one glTF mesh with a primitive per material slot.
func brushMesh(doc *gltf.Document, b *scene.Brush, material func(string) *uint32) *gltf.Mesh {
	if len(b.Vertices) == 0 || len(b.Solid.Faces) == 0 {
		return nil
	}

	positions := make([][3]float32, len(b.Vertices))
	for i, v := range b.Vertices {
		positions[i] = [3]float32{v[0], v[1], v[2]}
	}
	uvs := make([][2]float32, len(b.Vertices))
	for i := range b.Vertices {
		if i < len(b.UVs) {
			uvs[i] = [2]float32{b.UVs[i][0], b.UVs[i][1]}
		}
	}
	positionAccessor := modeler.WritePosition(doc, positions)
	uvAccessor := modeler.WriteTextureCoord(doc, uvs)

	var weightsAccessor, jointsAccessor uint32
	if b.Skinned() {
		weights := make([][4]float32, len(b.Vertices))
		joints := make([][4]uint8, len(b.Vertices))
		for i := range b.Vertices {
			if i < len(b.JointWeights) {
				weights[i] = b.JointWeights[i]
				joints[i] = b.JointIndices[i]
			}
		}
		weightsAccessor = modeler.WriteWeights(doc, weights)
		jointsAccessor = modeler.WriteJoints(doc, joints)
	}

	// Triangle indices per material slot; glTF primitives hold triangles
	// only, so n-gons fan here regardless of the passthrough setting.
	perSlot := make(map[int][]uint32)
	var order []int
	for _, f := range b.Solid.Faces {
		for _, tri := range geom.FanTriangulate(f.Vertices) {
			if _, ok := perSlot[f.TextureIndex]; !ok {
				order = append(order, f.TextureIndex)
			}
			perSlot[f.TextureIndex] = append(perSlot[f.TextureIndex],
				uint32(tri[0]), uint32(tri[1]), uint32(tri[2]))
		}
	}
	if len(order) == 0 {
		return nil
	}

	mesh := &gltf.Mesh{Name: b.Name}
	for _, slot := range order {
		attributes := map[string]uint32{
			"POSITION":   positionAccessor,
			"TEXCOORD_0": uvAccessor,
		}
		if b.Skinned() {
			attributes["WEIGHTS_0"] = weightsAccessor
			attributes["JOINTS_0"] = jointsAccessor
		}
		texName := ""
		if slot >= 0 && slot < len(b.Solid.Textures) {
			texName = b.Solid.Textures[slot]
		} else {
			texName = fmt.Sprintf("missing_%d", slot)
		}
		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(doc, perSlot[slot])),
			Attributes: attributes,
			Material:   material(texName),
		})
	}
	return mesh
}

// Package scene holds the in-memory model shared by all format codecs:
// brushes with their solids and faces, skeletal data, and the auxiliary
// gameplay-object lists carried by level and group files.
//
// Every entity is created fresh by a parser for one conversion, optionally
// mutated in place by the geometry-reconciliation routines, consumed once
// by an exporter and discarded.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Brush is a single solid geometry object with its own local vertex and
// face set, position and orientation.
type Brush struct {
	// UID identifies the brush within one scene. Uniqueness is not
	// enforced across files.
	UID int32

	Position mgl32.Vec3
	// RotationBasis is the orthonormal local-to-world rotation, rows are
	// the local axes expressed in world space.
	RotationBasis mgl32.Mat3

	// Vertices are local-space positions; UVs run parallel to Vertices.
	// Codecs that store UVs per face corner weld them into this parallel
	// form at decode time.
	Vertices []mgl32.Vec3
	UVs      []mgl32.Vec2

	// JointIndices/JointWeights are per-vertex skin influences, parallel
	// to Vertices and present only for skinned meshes.
	JointIndices [][4]uint8
	JointWeights [][4]float32

	Name        string
	TextureName string

	Solid      Solid
	PropPoints []PropPoint
}

// Skinned reports whether the brush carries joint data.
func (b *Brush) Skinned() bool {
	return len(b.JointWeights) > 0
}

// Solid is the face/texture/flag data owned by a brush.
type Solid struct {
	// Textures is the material slot table; a face's TextureIndex is a
	// position in this list.
	Textures []string
	Faces    []Face
	Flags    uint32
	// Life is the brush health; -1 marks it indestructible.
	Life int32
	// State is the editor selection state.
	State int32
}

// Face is one polygon of a solid. Vertices index into the owning brush's
// vertex list and per-corner UVs run parallel to them.
type Face struct {
	Vertices []int
	UVs      []mgl32.Vec2
	// TextureIndex slots into Solid.Textures. Out-of-range values are
	// tolerated and substituted with a missing-texture fallback at
	// export time.
	TextureIndex    int
	Flags           uint16
	Normal          mgl32.Vec3
	FaceId          int32
	SmoothingGroups uint32
	ScrollU         float32
	ScrollV         float32
}

// Bone is one joint of a skeletal mesh. Parents strictly precede children
// in traversal order; -1 marks a root.
type Bone struct {
	Name        string
	Rotation    mgl32.Quat
	Translation mgl32.Vec3
	Parent      int32
}

// PropPoint is a named attachment point, optionally parented to a bone.
type PropPoint struct {
	Name        string
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Parent      int32
}

// CollisionSphere is a named collision primitive of a skeletal mesh.
type CollisionSphere struct {
	Name     string
	Parent   int32
	Position mgl32.Vec3
	Radius   float32
}

// Keyframe is one sample of a moving group's motion path.
type Keyframe struct {
	Time     float32
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// Group is a named moving-brush group. Brushes not claimed by any moving
// group belong to the implicit static pseudo-group.
type Group struct {
	Name      string
	IsMoving  bool
	BrushUIDs []int32
	Keyframes []Keyframe
}

// ObjectKind distinguishes the auxiliary per-object lists a level or group
// file carries besides brushes.
type ObjectKind int

const (
	KindLight ObjectKind = iota
	KindCutsceneCamera
	KindAmbientSound
	KindEvent
	KindMPRespawn
	KindParticleEmitter
	KindGasRegion
	KindRoomEffect
	KindClimbingRegion
	KindBoltEmitter
	KindTarget
	KindDecal
	KindPushRegion
	KindEAXEffect
	KindNavPoint
	KindEntity
	KindItem
	KindClutter
	KindTrigger
	KindPlayerStart

	objectKindCount
)

// ObjectKindCount is the number of auxiliary object sections written per
// group.
const ObjectKindCount = int(objectKindCount)

var objectKindNames = [...]string{
	"light", "cutscene camera", "ambient sound", "event", "mp respawn",
	"particle emitter", "gas region", "room effect", "climbing region",
	"bolt emitter", "target", "decal", "push region", "eax effect",
	"nav point", "entity", "item", "clutter", "trigger", "player start",
}

func (k ObjectKind) String() string {
	if int(k) < len(objectKindNames) {
		return objectKindNames[k]
	}
	return "unknown"
}

// Object is one auxiliary gameplay object. All kinds share the same wire
// record in the group format.
type Object struct {
	UID       int32
	ClassName string
	Position  mgl32.Vec3
	Rotation  mgl32.Mat3
	Script    string
}

// Scene is the shared model a conversion passes from parser to exporter.
type Scene struct {
	Name    string
	ModName string
	Version uint32

	Brushes []*Brush
	Groups  []Group

	// Objects holds the auxiliary per-kind lists.
	Objects [ObjectKindCount][]Object

	// Bones and collision spheres are present only for skinned scenes.
	Bones            []Bone
	CollisionSpheres []CollisionSphere
}

// StaticBrushes returns the brushes not claimed by any moving group, in
// scene order.
func (s *Scene) StaticBrushes() []*Brush {
	claimed := make(map[int32]bool)
	for _, g := range s.Groups {
		if !g.IsMoving {
			continue
		}
		for _, uid := range g.BrushUIDs {
			claimed[uid] = true
		}
	}
	static := make([]*Brush, 0, len(s.Brushes))
	for _, b := range s.Brushes {
		if !claimed[b.UID] {
			static = append(static, b)
		}
	}
	return static
}

// BrushByUID returns the first brush with the given UID, or nil.
func (s *Scene) BrushByUID(uid int32) *Brush {
	for _, b := range s.Brushes {
		if b.UID == uid {
			return b
		}
	}
	return nil
}

// Package rfl decodes the level container and decodes/encodes the
// brush-group container. Three binary dialects of the level geometry
// layout exist, distinguished only by the header version; all of them
// decode into the same scene.Brush/Solid/Face shape.
package rfl

// Container magics and version bounds.
const (
	LevelMagic uint32 = 0xD4BADA55
	GroupMagic uint32 = 0xD43DD00D

	// GroupVersion is the only group-container version ever observed.
	GroupVersion uint32 = 0x0000012C

	// Dialect boundaries of the level version field.
	VersionLegacyMax   uint32 = 0xC8
	VersionAlternate   uint32 = 0x127
	VersionExtendedMin uint32 = 0x12C
)

// Level section type tags. Each section is prefixed by its tag and byte
// length; unrecognized tags are skipped by seeking past the length.
const (
	sectEnd              uint32 = 0x00000000
	sectStaticGeometry   uint32 = 0x00000100
	sectGeoRegions       uint32 = 0x00000200
	sectLights           uint32 = 0x00000300
	sectCutsceneCameras  uint32 = 0x00000400
	sectAmbientSounds    uint32 = 0x00000500
	sectEvents           uint32 = 0x00000600
	sectMPRespawns       uint32 = 0x00000700
	sectLevelProperties  uint32 = 0x00000900
	sectParticleEmitters uint32 = 0x00000A00
	sectGasRegions       uint32 = 0x00000B00
	sectRoomEffects      uint32 = 0x00000C00
	sectClimbingRegions  uint32 = 0x00000D00
	sectBoltEmitters     uint32 = 0x00000E00
	sectTargets          uint32 = 0x00000F00
	sectDecals           uint32 = 0x00001000
	sectPushRegions      uint32 = 0x00001100
	sectLightmaps        uint32 = 0x00001200
	sectMovers           uint32 = 0x00002000
	sectMovingGroups     uint32 = 0x00003000
	sectEAXEffects       uint32 = 0x00008000
	sectNavPoints        uint32 = 0x00020000
	sectEntities         uint32 = 0x00030000
	sectItems            uint32 = 0x00040000
	sectClutter          uint32 = 0x00050000
	sectTriggers         uint32 = 0x00060000
	sectPlayerStart      uint32 = 0x00070000
	sectLevelInfo        uint32 = 0x01000000
	sectBrushes          uint32 = 0x02000000
	sectGroups           uint32 = 0x03000000
)

// MissingTexture is the material-slot fallback substituted when a face
// references a slot the solid does not have.
const MissingTexture = "rck_default.tga"

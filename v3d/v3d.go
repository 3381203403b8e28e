// Package v3d encodes and decodes the static (V3M) and skeletal (V3C)
// mesh containers. Brushes are grouped into submeshes by the _LODn naming
// convention and emitted as per-material triangle batches sized for the
// engine's fixed geometry buffers.
package v3d

const (
	// StaticMagic is 'RF3D', SkeletalMagic is 'RFCM'. Both containers
	// share one layout; the magic records whether skin data is present.
	StaticMagic   uint32 = 0x52463344
	SkeletalMagic uint32 = 0x5246434D

	Version uint32 = 0x00040000
)

// Section tags.
const (
	sectEnd       uint32 = 0x00000000
	sectSubmesh   uint32 = 0x5355424D // 'SUBM'
	sectColSphere uint32 = 0x43535048 // 'CSPH'
	sectBones     uint32 = 0x424F4E45 // 'BONE'
)

// The runtime streams batches into fixed-size geometry buffers; a batch
// exceeding either ceiling is split before writing.
const (
	MaxBatchVertices  = 6000
	MaxBatchTriangles = 10000
)

// Fixed name-field widths. All are null-padded.
const (
	submeshNameLen   = 24
	boneNameLen      = 24
	colSphereNameLen = 24
	propPointNameLen = 68
	textureNameLen   = 32
)

// dataAlign is the alignment of every vertex/index data block.
const dataAlign = 16

// jointUnused is the joint-index sentinel for influence slots carrying no
// weight.
const jointUnused uint8 = 0xFF

// MissingTexture is substituted for out-of-range material slots.
const MissingTexture = "rck_default.tga"

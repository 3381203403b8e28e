package rfl

import (
	"github.com/pkg/errors"
)

// Dialect tags the version-specific binary layout of level geometry.
type Dialect int

const (
	// DialectLegacy is the original retail layout (version <= 0xC8):
	// shared vertex pool, short face records.
	DialectLegacy Dialect = iota
	// DialectAlternate (version == 0x127) stores inline per-corner
	// positions and colors instead of a shared vertex pool.
	DialectAlternate
	// DialectExtended (version >= 0x12C) adds scroll animations, room
	// records, face ids and lightmap resolutions.
	DialectExtended
)

func (d Dialect) String() string {
	switch d {
	case DialectLegacy:
		return "legacy"
	case DialectAlternate:
		return "alternate"
	case DialectExtended:
		return "extended"
	}
	return "unknown"
}

// DialectForVersion selects the geometry layout for a level version.
// Versions falling between the dialect bands are unsupported.
func DialectForVersion(version uint32) (Dialect, error) {
	switch {
	case version <= VersionLegacyMax:
		return DialectLegacy, nil
	case version == VersionAlternate:
		return DialectAlternate, nil
	case version >= VersionExtendedMin:
		return DialectExtended, nil
	}
	return 0, errors.Errorf("unsupported level version 0x%x", version)
}

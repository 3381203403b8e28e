// Package compat translates flags and texture names between what the
// modern editor emits and what the legacy engine can represent.
package compat

import (
	"github.com/GooberRF/redux-sub001/scene"
)

// LegacySafeMask keeps only the solid flag bits the legacy dialect
// understands. Masking is idempotent.
const LegacySafeMask = scene.SolidFlagPortal | scene.SolidFlagAir |
	scene.SolidFlagDetail | scene.SolidFlagEmitsSteam

// ApplyLegacyMask strips solid flag bits the legacy dialect cannot
// represent.
func ApplyLegacyMask(flags uint32) uint32 {
	return flags & LegacySafeMask
}

// StripGeoableFlags clears the detail+geoable combination on non-air,
// non-portal flags. The legacy engine has no equivalent representation for
// a geoable detail brush; callers must mark such brushes indestructible
// instead. Flags carrying air or portal are left unchanged.
func StripGeoableFlags(flags uint32) uint32 {
	if flags&(scene.SolidFlagAir|scene.SolidFlagPortal) != 0 {
		return flags
	}
	if flags&scene.SolidFlagDetail == 0 || flags&scene.SolidFlagGeoable == 0 {
		return flags
	}
	return flags &^ (scene.SolidFlagDetail | scene.SolidFlagGeoable)
}

// StripGeoableBrush applies StripGeoableFlags to a brush, marking it
// indestructible when the combination was stripped.
func StripGeoableBrush(b *scene.Brush) {
	stripped := StripGeoableFlags(b.Solid.Flags)
	if stripped != b.Solid.Flags {
		b.Solid.Flags = stripped
		b.Solid.Life = scene.LifeIndestructible
	}
}

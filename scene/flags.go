package scene

// Solid flag bits. The engine defines more bits than these across
// dialects; unknown bits are preserved on a round trip.
const (
	SolidFlagPortal     uint32 = 0x1
	SolidFlagAir        uint32 = 0x2
	SolidFlagDetail     uint32 = 0x4
	SolidFlagEmitsSteam uint32 = 0x10
	SolidFlagGeoable    uint32 = 0x20
)

// Face flag bits.
const (
	FaceFlagShowSky       uint16 = 0x01
	FaceFlagMirrored      uint16 = 0x02
	FaceFlagLiquid        uint16 = 0x04
	FaceFlagDetail        uint16 = 0x08
	FaceFlagScrollTexture uint16 = 0x10
	FaceFlagFullBright    uint16 = 0x20
	FaceFlagHasAlpha      uint16 = 0x40
	FaceFlagHasHoles      uint16 = 0x80
	FaceFlagInvisible     uint16 = 0x100
)

// LifeIndestructible is the Solid.Life value marking a brush that cannot
// be destroyed.
const LifeIndestructible int32 = -1

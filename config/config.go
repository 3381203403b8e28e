package config

// MirrorAxis selects an optional world-axis reflection applied at export time.
type MirrorAxis int

const (
	MirrorNone MirrorAxis = iota
	MirrorX
	MirrorY
	MirrorZ
)

func (a MirrorAxis) String() string {
	switch a {
	case MirrorX:
		return "x"
	case MirrorY:
		return "y"
	case MirrorZ:
		return "z"
	}
	return "none"
}

// ParseMirrorAxis maps a -mirror flag value to an axis. Unknown values
// disable mirroring.
func ParseMirrorAxis(s string) MirrorAxis {
	switch s {
	case "x", "X":
		return MirrorX
	case "y", "Y":
		return MirrorY
	case "z", "Z":
		return MirrorZ
	}
	return MirrorNone
}

// Config is a read-only snapshot of one conversion's settings. It is built
// before parsing begins and passed by value into every decode/encode call;
// nothing mutates it mid-conversion.
type Config struct {
	// Face visibility categories. A face is emitted only if every
	// category it belongs to is enabled.
	IncludePortalFaces    bool `yaml:"include_portal_faces"`
	IncludeDetailFaces    bool `yaml:"include_detail_faces"`
	IncludeAlphaFaces     bool `yaml:"include_alpha_faces"`
	IncludeHoleFaces      bool `yaml:"include_hole_faces"`
	IncludeLiquidFaces    bool `yaml:"include_liquid_faces"`
	IncludeSkyFaces       bool `yaml:"include_sky_faces"`
	IncludeInvisibleFaces bool `yaml:"include_invisible_faces"`

	// NgonPassthrough keeps polygons as-is instead of fan triangulation.
	NgonPassthrough bool `yaml:"ngon_passthrough"`

	Mirror      MirrorAxis `yaml:"mirror_axis"`
	FlipNormals bool       `yaml:"flip_normals"`

	// LegacyTextures runs exported texture filenames through the
	// legacy-name translation table.
	LegacyTextures bool `yaml:"legacy_textures"`
	// StripGeoable clears the detail+geoable combination the legacy
	// engine cannot represent and marks such brushes indestructible.
	StripGeoable bool `yaml:"strip_geoable"`

	// DecoratedNames encodes UID and brush flags into exported object
	// names so they survive a round trip through OBJ/glTF.
	DecoratedNames bool `yaml:"decorated_names"`
}

// Defaults favors completeness over fidelity to the original rendering:
// detail/alpha/hole faces are kept, portal/liquid/sky/invisible dropped.
func Defaults() Config {
	return Config{
		IncludeDetailFaces: true,
		IncludeAlphaFaces:  true,
		IncludeHoleFaces:   true,
	}
}

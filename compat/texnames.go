package compat

import (
	"strings"

	"github.com/GooberRF/redux-sub001/logger"
)

// Texture filenames moved between releases while keeping their apparent
// material: the category prefix ("rck_", "mtl_", ...) stayed and the body
// was renamed. The translation table maps the newer filenames back to
// legacy equivalents of the same material so a converted level still finds
// its textures on the legacy engine.

// modernTextureNames are the newer filenames known to have legacy
// equivalents.
var modernTextureNames = []string{
	"rck_darkbrown2.tga",
	"rck_lightgray3.tga",
	"rck_redcanyon1.tga",
	"mtl_platesteel2.tga",
	"mtl_riveted1.tga",
	"mtl_vent3.tga",
	"cem_smoothgray2.tga",
	"cem_cracked1.tga",
	"sld_corrugated2.tga",
	"sld_panel4.tga",
	"org_moss2.tga",
	"org_vines1.tga",
	"ice_sheet2.tga",
	"ice_frost1.tga",
	"snd_dunes3.tga",
	"snd_packed1.tga",
}

// legacyTextureNames are the candidate legacy filenames matched by suffix.
var legacyTextureNames = []string{
	"rck_brown2.tga",
	"rck_gray3.tga",
	"rck_canyon1.tga",
	"mtl_steel2.tga",
	"mtl_rivet1.tga",
	"mtl_vent1.tga",
	"cem_gray2.tga",
	"cem_crack1.tga",
	"sld_corrug2.tga",
	"sld_panel1.tga",
	"org_moss1.tga",
	"org_vine1.tga",
	"ice_sheet1.tga",
	"ice_frost1.tga",
	"snd_dune3.tga",
	"snd_pack1.tga",
}

// textureOverrides are hand-kept exceptions applied after suffix matching.
var textureOverrides = map[string]string{
	"mtl_platesteel2.tga": "mtl_plate1.tga",
	"org_vines1.tga":      "org_ivy1.tga",
	"rfx_glass_blue1.tga": "gls_blue1.tga",
}

// stripCategoryPrefix removes the three-letter material-category prefix.
// Names without one are returned unchanged with ok false.
func stripCategoryPrefix(name string) (string, bool) {
	if len(name) > 4 && name[3] == '_' {
		return name[4:], true
	}
	return name, false
}

// TextureTable maps newer texture filenames to legacy equivalents.
// Construct it once at startup and treat it as read-only; it is not safe
// for concurrent construction.
type TextureTable struct {
	m map[string]string
}

// NewTextureTable builds the translation table from the word lists plus
// overrides. A modern name maps to the legacy name sharing its category
// prefix and the longest common body suffix.
func NewTextureTable() *TextureTable {
	t := &TextureTable{m: make(map[string]string, len(modernTextureNames))}

	for _, modern := range modernTextureNames {
		body, ok := stripCategoryPrefix(modern)
		if !ok {
			continue
		}
		prefix := modern[:4]
		best := ""
		bestLen := 0
		for _, legacy := range legacyTextureNames {
			if !strings.HasPrefix(legacy, prefix) {
				continue
			}
			legacyBody, _ := stripCategoryPrefix(legacy)
			if n := commonSuffixLen(body, legacyBody); n > bestLen {
				best, bestLen = legacy, n
			}
		}
		if best != "" {
			t.m[modern] = best
		}
	}
	for modern, legacy := range textureOverrides {
		t.m[modern] = legacy
	}
	return t
}

func commonSuffixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}

// Translate substitutes a newer filename with its legacy equivalent.
// Unresolved names pass through unchanged. Matching ignores case, as the
// engine does for texture lookups.
func (t *TextureTable) Translate(name string) string {
	if legacy, ok := t.m[strings.ToLower(name)]; ok {
		logger.Sugar.Debugf("texture %q translated to legacy %q", name, legacy)
		return legacy
	}
	return name
}

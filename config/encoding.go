package config

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// Name strings inside the containers use a single-byte codepage rather
// than UTF-8. Western builds of the game shipped Windows-1252; localized
// builds select another charmap by name with -encoding.
var nameCharMap = charmap.Windows1252

// SetEncoding selects the charmap applied to every name string read or
// written after the call. Matching is case-insensitive over the charmap's
// display name.
func SetEncoding(name string) error {
	for _, cm := range charmaps() {
		if strings.EqualFold(cm.String(), name) {
			nameCharMap = cm
			return nil
		}
	}
	return errors.Errorf("unknown name encoding %q", name)
}

// ListEncodings returns the selectable charmap names, for error messages.
func ListEncodings() []string {
	maps := charmaps()
	names := make([]string, len(maps))
	for i, cm := range maps {
		names[i] = cm.String()
	}
	return names
}

// GetEncoding returns the charmap name strings are currently decoded with.
func GetEncoding() *charmap.Charmap {
	return nameCharMap
}

func charmaps() []*charmap.Charmap {
	out := make([]*charmap.Charmap, 0, len(charmap.All))
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			out = append(out, cm)
		}
	}
	return out
}

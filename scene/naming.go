package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GooberRF/redux-sub001/logger"
)

// Decorated object names carry brush identity through formats that have no
// place for it. The grammar is a sequence of underscore-separated tokens
// after the base name:
//
//	name     = base *( "_" token )
//	token    = "uid" 1*DIGIT      brush UID
//	         / "f" 1*HEXDIG       solid flags
//	         / "LOD" 1*DIGIT      level-of-detail index (mesh codec)
//
// Unrecognized trailing tokens stay part of the base name. A name with no
// uid token falls back to sequential UID assignment, which is logged.

// DecorateName encodes UID and solid flags into a display name.
func DecorateName(base string, uid int32, flags uint32) string {
	name := fmt.Sprintf("%s_uid%d", base, uid)
	if flags != 0 {
		name += fmt.Sprintf("_f%x", flags)
	}
	return name
}

// ParsedName is the result of decoding a decorated display name.
type ParsedName struct {
	Base  string
	UID   int32
	Flags uint32
	// HasUID is false when the name did not match the grammar and the
	// UID came from the sequential fallback.
	HasUID bool
}

// Namer assigns UIDs to imported brushes, honoring decorated names and
// falling back to sequential assignment.
type Namer struct {
	nextUID int32
}

// Parse decodes a decorated name. Tokens are consumed from the end of the
// name while they match the grammar; the remainder is the base name.
func (n *Namer) Parse(name string) ParsedName {
	p := ParsedName{Base: name}

	tokens := strings.Split(name, "_")
	end := len(tokens)
	for end > 1 {
		tok := tokens[end-1]
		switch {
		case strings.HasPrefix(tok, "uid"):
			v, err := strconv.ParseInt(tok[3:], 10, 32)
			if err != nil {
				goto done
			}
			p.UID = int32(v)
			p.HasUID = true
		case strings.HasPrefix(tok, "f") && len(tok) > 1:
			v, err := strconv.ParseUint(tok[1:], 16, 32)
			if err != nil {
				goto done
			}
			p.Flags = uint32(v)
		default:
			goto done
		}
		end--
	}
done:
	p.Base = strings.Join(tokens[:end], "_")

	if !p.HasUID {
		p.UID = n.nextUID
		if name != "" {
			logger.Sugar.Debugf("name %q carries no uid token, assigned %d", name, p.UID)
		}
	}
	if p.UID >= n.nextUID {
		n.nextUID = p.UID + 1
	}
	return p
}

// lodSuffix splits a trailing _LODn token off a submesh name.
func lodSuffix(name string) (base string, lod int, ok bool) {
	i := strings.LastIndex(name, "_LOD")
	if i < 0 {
		return name, 0, false
	}
	v, err := strconv.Atoi(name[i+4:])
	if err != nil || v < 0 {
		return name, 0, false
	}
	return name[:i], v, true
}

// SplitLODName splits a trailing _LODn suffix off a brush name. ok is
// false when the name carries no LOD token.
func SplitLODName(name string) (base string, lod int, ok bool) {
	return lodSuffix(name)
}

// LODName builds the decorated name of one LOD of a submesh.
func LODName(base string, lod int) string {
	return fmt.Sprintf("%s_LOD%d", base, lod)
}

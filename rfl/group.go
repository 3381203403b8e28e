package rfl

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/GooberRF/redux-sub001/compat"
	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/geom"
	"github.com/GooberRF/redux-sub001/logger"
	"github.com/GooberRF/redux-sub001/scene"
	"github.com/GooberRF/redux-sub001/utils"
)

// The group container always stores extended-dialect geometry: its version
// field is fixed at 0x12C.

// DecodeGroup parses a brush-group container into a scene. The first group
// is the static pseudo-group; its auxiliary objects populate the scene's
// per-kind lists. Moving groups contribute their brushes plus a membership
// entry with keyframes.
func DecodeGroup(data []byte, cfg config.Config) (*scene.Scene, error) {
	r := utils.NewBufReader("rfg", data)

	if magic := r.ReadU32(); magic != GroupMagic {
		return nil, errors.Errorf("bad group magic 0x%08x, want 0x%08x", magic, GroupMagic)
	}
	version := r.ReadU32()
	if version != GroupVersion {
		return nil, errors.Errorf("unsupported group version 0x%x, want 0x%x", version, GroupVersion)
	}

	s := &scene.Scene{Version: version}

	groupCount := int(r.ReadU32())
	for gi := 0; gi < groupCount && !r.Truncated(); gi++ {
		g := scene.Group{
			Name:     r.ReadVString(),
			IsMoving: r.ReadU8() != 0,
		}
		if g.IsMoving {
			g.Keyframes = decodeKeyframes(r)
		}

		brushCount := int(r.ReadU32())
		for bi := 0; bi < brushCount && !r.Truncated(); bi++ {
			b := decodeGroupBrush(r, cfg)
			g.BrushUIDs = append(g.BrushUIDs, b.UID)
			s.Brushes = append(s.Brushes, b)
		}

		if gi == 0 && !g.IsMoving {
			// Static pseudo-group: brushes are unclaimed, auxiliary
			// objects belong to the scene itself.
			decodeObjectSections(r, s)
			continue
		}
		// Moving groups carry zero-count placeholder sections.
		decodeObjectSections(r, nil)
		s.Groups = append(s.Groups, g)
	}
	if r.Truncated() {
		logger.Sugar.Warnf("group file is truncated, decoded %d brushes", len(s.Brushes))
	}
	return s, nil
}

func decodeGroupBrush(r *utils.BufReader, cfg config.Config) *scene.Brush {
	b := &scene.Brush{
		UID:           r.ReadI32(),
		Position:      r.ReadVec3(),
		RotationBasis: r.ReadMat3(),
	}
	solid, welder := decodeSolid(r, DialectExtended, cfg)
	b.Solid = solid
	welder.ApplyToBrush(b)
	b.Solid.Flags = r.ReadU32()
	b.Solid.Life = r.ReadI32()
	b.Solid.State = r.ReadI32()
	b.Name = fmt.Sprintf("Brush_%d", b.UID)
	return b
}

// EncodeGroup serializes a scene as a brush-group container: exactly one
// static pseudo-group holding every brush not claimed by a moving group,
// followed by the named moving groups.
//
// Export-time reconciliation (mirroring, normal flips, geoable stripping,
// legacy texture translation) mutates the scene in place before writing;
// scenes are single-use by contract. tex may be nil to skip translation
// regardless of cfg.
func EncodeGroup(s *scene.Scene, cfg config.Config, tex *compat.TextureTable) ([]byte, error) {
	if cfg.StripGeoable {
		for _, b := range s.Brushes {
			compat.StripGeoableBrush(b)
		}
	}
	if cfg.LegacyTextures && tex != nil {
		for _, b := range s.Brushes {
			for i, name := range b.Solid.Textures {
				b.Solid.Textures[i] = tex.Translate(name)
			}
		}
	}
	geom.MirrorScene(s, cfg.Mirror)
	if cfg.FlipNormals {
		geom.FlipNormals(s)
	}

	w := utils.NewBufWriter()
	w.WriteU32(GroupMagic)
	w.WriteU32(GroupVersion)

	moving := make([]scene.Group, 0, len(s.Groups))
	for _, g := range s.Groups {
		if g.IsMoving {
			moving = append(moving, g)
		}
	}
	w.WriteU32(uint32(1 + len(moving)))

	// Static pseudo-group.
	if err := w.WriteVString("static"); err != nil {
		return nil, err
	}
	w.WriteU8(0)
	static := s.StaticBrushes()
	w.WriteU32(uint32(len(static)))
	for _, b := range static {
		if err := encodeGroupBrush(w, b); err != nil {
			return nil, err
		}
	}
	if err := encodeObjectSections(w, s); err != nil {
		return nil, err
	}

	for _, g := range moving {
		if err := w.WriteVString(g.Name); err != nil {
			return nil, err
		}
		w.WriteU8(1)
		encodeKeyframes(w, g.Keyframes)

		members := make([]*scene.Brush, 0, len(g.BrushUIDs))
		for _, uid := range g.BrushUIDs {
			if b := s.BrushByUID(uid); b != nil {
				members = append(members, b)
			} else {
				logger.Sugar.Warnf("moving group %q references missing brush %d", g.Name, uid)
			}
		}
		w.WriteU32(uint32(len(members)))
		for _, b := range members {
			if err := encodeGroupBrush(w, b); err != nil {
				return nil, err
			}
		}
		// Every section except brushes and the group's own keyframes is
		// an empty placeholder for moving groups.
		if err := encodeObjectSections(w, nil); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

func encodeGroupBrush(w *utils.BufWriter, b *scene.Brush) error {
	w.WriteI32(b.UID)
	w.WriteVec3(b.Position)
	w.WriteMat3(b.RotationBasis)
	if err := encodeSolid(w, b); err != nil {
		return err
	}
	w.WriteU32(b.Solid.Flags)
	w.WriteI32(b.Solid.Life)
	w.WriteI32(b.Solid.State)
	return nil
}

func encodeKeyframes(w *utils.BufWriter, frames []scene.Keyframe) {
	w.WriteU32(uint32(len(frames)))
	for _, kf := range frames {
		w.WriteF32(kf.Time)
		w.WriteVec3(kf.Position)
		w.WriteQuat(kf.Rotation)
	}
}

package rfl

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/logger"
	"github.com/GooberRF/redux-sub001/scene"
	"github.com/GooberRF/redux-sub001/utils"
)

// DecodeLevel parses a level container into a scene. A bad magic number or
// an unsupported version aborts the whole read; a truncated or malformed
// section stops parsing at that point and returns whatever was decoded.
func DecodeLevel(data []byte, cfg config.Config) (*scene.Scene, error) {
	r := utils.NewBufReader("rfl", data)

	if magic := r.ReadU32(); magic != LevelMagic {
		return nil, errors.Errorf("bad level magic 0x%08x, want 0x%08x", magic, LevelMagic)
	}
	version := r.ReadU32()
	d, err := DialectForVersion(version)
	if err != nil {
		return nil, err
	}

	s := &scene.Scene{Version: version}

	if d == DialectExtended {
		r.ReadU32() // timestamp
		r.ReadU32() // player start offset
		r.ReadU32() // level info offset
	}
	sectionCount := int(r.ReadU32())
	s.Name = r.ReadVString()
	if version >= VersionExtendedMin {
		s.ModName = r.ReadVString()
	}
	if r.Truncated() {
		return s, nil
	}

	logger.Sugar.Infof("level %q version 0x%x (%s dialect), %d sections",
		s.Name, version, d, sectionCount)

	for i := 0; i < sectionCount; i++ {
		sectType := r.ReadU32()
		if sectType == sectEnd {
			// Encoders emit a zero tag to terminate the section list
			// even when the declared count has not been reached.
			break
		}
		sectLen := int(r.ReadU32())
		if r.Truncated() || sectLen < 0 || r.Pos()+sectLen > len(data) {
			logger.Sugar.Warnf("section 0x%x with length 0x%x runs past end of file, stopping", sectType, sectLen)
			break
		}
		end := r.Pos() + sectLen

		switch sectType {
		case sectStaticGeometry:
			decodeStaticGeometry(r, d, cfg, s)
		case sectBrushes:
			decodeBrushes(r, d, cfg, s)
		case sectGroups:
			decodeMovingGroups(r, s)
		default:
			logger.Sugar.Debugf("skipping section 0x%08x (0x%x bytes)", sectType, sectLen)
		}

		if r.Truncated() {
			logger.Sugar.Warnf("section 0x%x is truncated, stopping after %d brushes", sectType, len(s.Brushes))
			break
		}
		r.SeekTo(end)
	}
	return s, nil
}

// decodeStaticGeometry reads the level's world geometry into a pseudo-brush
// at the origin with an identity basis.
func decodeStaticGeometry(r *utils.BufReader, d Dialect, cfg config.Config, s *scene.Scene) {
	solid, welder := decodeSolid(r, d, cfg)
	b := &scene.Brush{
		UID:           staticGeometryUID(s),
		RotationBasis: identityBasis(),
		Name:          "Static Geometry",
		Solid:         solid,
	}
	welder.ApplyToBrush(b)
	if len(b.Solid.Faces) == 0 {
		return
	}
	s.Brushes = append(s.Brushes, b)
}

// decodeBrushes reads the editor brush list.
func decodeBrushes(r *utils.BufReader, d Dialect, cfg config.Config, s *scene.Scene) {
	count := int(r.ReadU32())
	for i := 0; i < count && !r.Truncated(); i++ {
		b := &scene.Brush{
			UID:           r.ReadI32(),
			Position:      r.ReadVec3(),
			RotationBasis: r.ReadMat3(),
		}
		solid, welder := decodeSolid(r, d, cfg)
		b.Solid = solid
		welder.ApplyToBrush(b)
		b.Solid.Flags = r.ReadU32()
		b.Solid.Life = r.ReadI32()
		b.Solid.State = r.ReadI32()
		b.Name = fmt.Sprintf("Brush_%d", b.UID)
		s.Brushes = append(s.Brushes, b)
	}
}

// decodeMovingGroups reads the moving-group membership table.
func decodeMovingGroups(r *utils.BufReader, s *scene.Scene) {
	count := int(r.ReadU32())
	for i := 0; i < count && !r.Truncated(); i++ {
		g := scene.Group{
			Name:     r.ReadVString(),
			IsMoving: r.ReadU8() != 0,
		}
		if g.IsMoving {
			g.Keyframes = decodeKeyframes(r)
		}
		memberCount := int(r.ReadU32())
		for m := 0; m < memberCount && !r.Truncated(); m++ {
			g.BrushUIDs = append(g.BrushUIDs, r.ReadI32())
		}
		s.Groups = append(s.Groups, g)
	}
}

func identityBasis() mgl32.Mat3 {
	return mgl32.Ident3()
}

// staticGeometryUID picks a UID above every brush already in the scene so
// the world pseudo-brush never collides with an editor brush.
func staticGeometryUID(s *scene.Scene) int32 {
	var uid int32
	for _, b := range s.Brushes {
		if b.UID >= uid {
			uid = b.UID + 1
		}
	}
	return uid
}

func decodeKeyframes(r *utils.BufReader) []scene.Keyframe {
	count := int(r.ReadU32())
	frames := make([]scene.Keyframe, 0, count)
	for i := 0; i < count && !r.Truncated(); i++ {
		frames = append(frames, scene.Keyframe{
			Time:     r.ReadF32(),
			Position: r.ReadVec3(),
			Rotation: r.ReadQuat(),
		})
	}
	return frames
}

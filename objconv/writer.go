// Package objconv bridges the scene model to Wavefront OBJ. Like the glTF
// collaborator, it applies the handedness bridge at the boundary and
// understands decorated object names.
package objconv

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/GooberRF/redux-sub001/compat"
	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/geom"
	"github.com/GooberRF/redux-sub001/scene"
)

// Encode writes a scene as Wavefront OBJ text. Indices are global and
// 1-based; vertex and UV streams stay parallel so a face corner cites the
// same index for both. The scene is mutated in place by the export-time
// reconciliation passes.
func Encode(w io.Writer, s *scene.Scene, cfg config.Config, tex *compat.TextureTable) error {
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
	geom.BridgeScene(s)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# redux scene %q\n", s.Name)

	offset := 1
	for _, b := range s.Brushes {
		name := b.Name
		if cfg.DecoratedNames {
			var namer scene.Namer
			name = scene.DecorateName(namer.Parse(b.Name).Base, b.UID, b.Solid.Flags)
		}
		fmt.Fprintf(bw, "o %s\n", name)

		for i, v := range b.Vertices {
			world := b.RotationBasis.Transpose().Mul3x1(v).Add(b.Position)
			fmt.Fprintf(bw, "v %g %g %g\n", world[0], world[1], world[2])
			var uv [2]float32
			if i < len(b.UVs) {
				uv = b.UVs[i]
			}
			fmt.Fprintf(bw, "vt %g %g\n", uv[0], uv[1])
		}

		lastMtl := ""
		for _, f := range b.Solid.Faces {
			mtl := MissingMaterial
			if f.TextureIndex >= 0 && f.TextureIndex < len(b.Solid.Textures) {
				mtl = b.Solid.Textures[f.TextureIndex]
			}
			if mtl != lastMtl {
				fmt.Fprintf(bw, "usemtl %s\n", mtl)
				lastMtl = mtl
			}
			bw.WriteString("f")
			for _, vi := range f.Vertices {
				fmt.Fprintf(bw, " %d/%d", offset+vi, offset+vi)
			}
			bw.WriteString("\n")
		}
		offset += len(b.Vertices)
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write obj")
	}
	return nil
}

// MissingMaterial is emitted for faces whose texture slot is out of range.
const MissingMaterial = "rck_default"

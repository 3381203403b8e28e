package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/GooberRF/redux-sub001/compat"
	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/gltfconv"
	"github.com/GooberRF/redux-sub001/logger"
	"github.com/GooberRF/redux-sub001/objconv"
	"github.com/GooberRF/redux-sub001/rfl"
	"github.com/GooberRF/redux-sub001/scene"
	"github.com/GooberRF/redux-sub001/utils"
	"github.com/GooberRF/redux-sub001/v3d"
)

func main() {
	var in, out, profile, mirror, encoding, loglevel, logfile string
	var dumpScene bool
	cfg := config.Defaults()

	flag.StringVar(&in, "in", "", "input file (.rfl .rfg .v3m .v3c .obj .glb .gltf)")
	flag.StringVar(&out, "out", "", "output file (.rfg .v3m .v3c .obj .glb)")
	flag.StringVar(&profile, "profile", "", "YAML conversion profile")
	flag.StringVar(&mirror, "mirror", "", "mirror world axis: x, y or z")
	flag.StringVar(&encoding, "encoding", "", "codepage for names in game files")
	flag.StringVar(&loglevel, "loglevel", "info", "log level: debug, info, warn, error")
	flag.StringVar(&logfile, "logfile", "", "also log to this file (rotated)")
	flag.BoolVar(&dumpScene, "dumpscene", false, "dump the decoded scene to stdout")
	flag.BoolVar(&cfg.IncludePortalFaces, "portal", cfg.IncludePortalFaces, "include portal faces")
	flag.BoolVar(&cfg.IncludeDetailFaces, "detail", cfg.IncludeDetailFaces, "include detail faces")
	flag.BoolVar(&cfg.IncludeAlphaFaces, "alpha", cfg.IncludeAlphaFaces, "include faces with alpha")
	flag.BoolVar(&cfg.IncludeHoleFaces, "holes", cfg.IncludeHoleFaces, "include faces with holes")
	flag.BoolVar(&cfg.IncludeLiquidFaces, "liquid", cfg.IncludeLiquidFaces, "include liquid surfaces")
	flag.BoolVar(&cfg.IncludeSkyFaces, "sky", cfg.IncludeSkyFaces, "include sky faces")
	flag.BoolVar(&cfg.IncludeInvisibleFaces, "invisible", cfg.IncludeInvisibleFaces, "include invisible faces")
	flag.BoolVar(&cfg.NgonPassthrough, "ngons", cfg.NgonPassthrough, "keep n-gons instead of triangulating")
	flag.BoolVar(&cfg.FlipNormals, "flipnormals", cfg.FlipNormals, "reverse face windings on export")
	flag.BoolVar(&cfg.LegacyTextures, "legacytextures", cfg.LegacyTextures, "translate texture names to legacy equivalents")
	flag.BoolVar(&cfg.StripGeoable, "stripgeoable", cfg.StripGeoable, "strip geoable detail flags the legacy engine rejects")
	flag.BoolVar(&cfg.DecoratedNames, "decoratednames", cfg.DecoratedNames, "encode uid/flags into exported object names")
	flag.Parse()

	if err := logger.Init(loglevel, logfile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if in == "" || out == "" {
		flag.PrintDefaults()
		os.Exit(2)
	}

	if profile != "" {
		loaded, err := config.LoadProfile(profile)
		if err != nil {
			logger.Sugar.Fatalf("%v", err)
		}
		cfg = loaded
	}
	if mirror != "" {
		cfg.Mirror = config.ParseMirrorAxis(mirror)
	}
	if encoding != "" {
		if err := config.SetEncoding(encoding); err != nil {
			logger.Sugar.Fatalf("%v (known: %s)", err, strings.Join(config.ListEncodings(), ", "))
		}
	}

	if err := convert(in, out, cfg, dumpScene); err != nil {
		logger.Sugar.Fatalf("conversion failed: %v", err)
	}
}

// convert runs one parse -> reconcile -> export pass. The texture table is
// built once up front and injected read-only into the encoders.
func convert(in, out string, cfg config.Config, dumpScene bool) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return errors.Wrapf(err, "failed to read %q", in)
	}

	s, err := decode(filepath.Ext(in), data, cfg)
	if err != nil {
		return err
	}
	logger.Sugar.Infof("decoded %d brushes, %d groups, %d bones",
		len(s.Brushes), len(s.Groups), len(s.Bones))
	if dumpScene {
		fmt.Println(utils.SDump(s))
	}

	tex := compat.NewTextureTable()
	encoded, err := encode(filepath.Ext(out), s, cfg, tex)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, encoded, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %q", out)
	}
	logger.Sugar.Infof("wrote %q (%d bytes)", out, len(encoded))
	return nil
}

func decode(ext string, data []byte, cfg config.Config) (*scene.Scene, error) {
	switch strings.ToLower(ext) {
	case ".rfl":
		return rfl.DecodeLevel(data, cfg)
	case ".rfg":
		return rfl.DecodeGroup(data, cfg)
	case ".v3m", ".v3c":
		return v3d.DecodeMesh(data, cfg)
	case ".obj":
		return objconv.Decode(data, cfg)
	case ".glb", ".gltf":
		return gltfconv.Decode(data, cfg)
	}
	return nil, errors.Errorf("unsupported input format %q", ext)
}

func encode(ext string, s *scene.Scene, cfg config.Config, tex *compat.TextureTable) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".rfg":
		return rfl.EncodeGroup(s, cfg, tex)
	case ".v3m", ".v3c":
		return v3d.EncodeMesh(s, cfg, tex)
	case ".obj":
		var buf bytes.Buffer
		if err := objconv.Encode(&buf, s, cfg, tex); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".glb":
		var buf bytes.Buffer
		if err := gltfconv.Encode(&buf, s, cfg, tex); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, errors.Errorf("unsupported output format %q", ext)
}

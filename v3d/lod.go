package v3d

import (
	"fmt"
	"sort"

	"github.com/GooberRF/redux-sub001/logger"
	"github.com/GooberRF/redux-sub001/scene"
)

// submeshGroup is one named submesh with its resolved LOD brushes, lowest
// LOD index (most detailed) first.
type submeshGroup struct {
	Name string
	LODs []*scene.Brush
	Lvls []int
}

// groupSubmeshes buckets brushes into submeshes. A trailing _LODn name
// suffix claims LOD level n of the base-named submesh; a brush without the
// suffix is its own singleton submesh keyed by UID. When two brushes claim
// the same (submesh, LOD) slot the one with more faces is kept, assuming
// it is the more complete candidate.
func groupSubmeshes(brushes []*scene.Brush) []submeshGroup {
	type slotKey struct {
		name string
		lod  int
	}
	slots := make(map[slotKey]*scene.Brush)
	names := make([]string, 0, len(brushes))
	seen := make(map[string]bool)

	for _, b := range brushes {
		base, lod, ok := scene.SplitLODName(b.Name)
		if !ok {
			base = fmt.Sprintf("uid:%d|%s", b.UID, b.Name)
			lod = 0
		}
		key := slotKey{name: base, lod: lod}
		if prev, taken := slots[key]; taken {
			if len(b.Solid.Faces) <= len(prev.Solid.Faces) {
				logger.Sugar.Warnf("brush %d loses LOD%d of submesh %q to brush %d with more faces",
					b.UID, lod, base, prev.UID)
				continue
			}
			logger.Sugar.Warnf("brush %d replaces brush %d as LOD%d of submesh %q",
				b.UID, prev.UID, lod, base)
		}
		slots[key] = b
		if !seen[base] {
			seen[base] = true
			names = append(names, base)
		}
	}

	groups := make([]submeshGroup, 0, len(names))
	for _, name := range names {
		var levels []int
		for key := range slots {
			if key.name == name {
				levels = append(levels, key.lod)
			}
		}
		if len(levels) == 0 {
			// No resolved LOD: the submesh is dropped.
			continue
		}
		sort.Ints(levels)

		g := submeshGroup{Name: displayBase(name)}
		for _, lvl := range levels {
			g.LODs = append(g.LODs, slots[slotKey{name: name, lod: lvl}])
			g.Lvls = append(g.Lvls, lvl)
		}
		groups = append(groups, g)
	}
	return groups
}

// displayBase strips the uid key prefix used for singleton submeshes.
func displayBase(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[i+1:]
		}
	}
	return key
}

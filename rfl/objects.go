package rfl

import (
	"github.com/GooberRF/redux-sub001/scene"
	"github.com/GooberRF/redux-sub001/utils"
)

// Every auxiliary object kind shares one wire record in the group
// container: uid, class name, placement and an attached script.

func decodeObject(r *utils.BufReader) scene.Object {
	return scene.Object{
		UID:       r.ReadI32(),
		ClassName: r.ReadVString(),
		Position:  r.ReadVec3(),
		Rotation:  r.ReadMat3(),
		Script:    r.ReadVString(),
	}
}

func encodeObject(w *utils.BufWriter, o *scene.Object) error {
	w.WriteI32(o.UID)
	if err := w.WriteVString(o.ClassName); err != nil {
		return err
	}
	w.WriteVec3(o.Position)
	w.WriteMat3(o.Rotation)
	return w.WriteVString(o.Script)
}

// decodeObjectSections reads the fixed run of auxiliary object sections
// following a group's brush list, appending to the scene's per-kind lists.
// A nil scene consumes and discards the records.
func decodeObjectSections(r *utils.BufReader, s *scene.Scene) {
	for kind := 0; kind < scene.ObjectKindCount && !r.Truncated(); kind++ {
		count := int(r.ReadU32())
		for i := 0; i < count && !r.Truncated(); i++ {
			o := decodeObject(r)
			if s != nil {
				s.Objects[kind] = append(s.Objects[kind], o)
			}
		}
	}
}

// encodeObjectSections writes the fixed run of auxiliary object sections.
// A nil scene writes every section as an empty placeholder, which is what
// moving groups carry.
func encodeObjectSections(w *utils.BufWriter, s *scene.Scene) error {
	for kind := 0; kind < scene.ObjectKindCount; kind++ {
		if s == nil {
			w.WriteU32(0)
			continue
		}
		objs := s.Objects[kind]
		w.WriteU32(uint32(len(objs)))
		for i := range objs {
			if err := encodeObject(w, &objs[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

package scene

import (
	"testing"
)

func TestDecorateName(t *testing.T) {
	tests := []struct {
		base  string
		uid   int32
		flags uint32
		want  string
	}{
		{"crate", 12, 0, "crate_uid12"},
		{"crate", 12, 0x24, "crate_uid12_f24"},
		{"door_frame", 3, 0, "door_frame_uid3"},
	}
	for _, tt := range tests {
		if got := DecorateName(tt.base, tt.uid, tt.flags); got != tt.want {
			t.Errorf("DecorateName(%q, %d, 0x%x) = %q, want %q",
				tt.base, tt.uid, tt.flags, got, tt.want)
		}
	}
}

func TestNamerParse(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantBase  string
		wantUID   int32
		wantFlags uint32
		wantHas   bool
	}{
		{"uid only", "crate_uid12", "crate", 12, 0, true},
		{"uid and flags", "crate_uid12_f24", "crate", 12, 0x24, true},
		{"underscored base", "door_frame_uid3", "door_frame", 3, 0, true},
		{"hex flags", "wall_uid7_fff", "wall", 7, 0xFF, true},
		{"base ending in f-token lookalike", "door_frame", "door_frame", 0, 0, false},
		{"bad uid digits", "crate_uidxy", "crate_uidxy", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Namer
			p := n.Parse(tt.in)
			if p.Base != tt.wantBase || p.UID != tt.wantUID ||
				p.Flags != tt.wantFlags || p.HasUID != tt.wantHas {
				t.Errorf("Parse(%q) = %+v", tt.in, p)
			}
		})
	}
}

func TestNamerSequentialFallback(t *testing.T) {
	var n Namer

	a := n.Parse("untitled")
	b := n.Parse("untitled")
	if a.UID != 0 || b.UID != 1 {
		t.Errorf("fallback UIDs %d, %d, want 0, 1", a.UID, b.UID)
	}

	// A decorated name advances the sequence past its own UID.
	c := n.Parse("crate_uid10")
	d := n.Parse("plain")
	if c.UID != 10 || d.UID != 11 {
		t.Errorf("UIDs after decorated name %d, %d, want 10, 11", c.UID, d.UID)
	}
}

func TestDecorateParseRoundtrip(t *testing.T) {
	var n Namer
	name := DecorateName("supply_crate", 77, 0x44)
	p := n.Parse(name)
	if p.Base != "supply_crate" || p.UID != 77 || p.Flags != 0x44 || !p.HasUID {
		t.Fatalf("roundtrip = %+v", p)
	}
}

func TestLODNames(t *testing.T) {
	base, lod, ok := SplitLODName(LODName("door", 2))
	if !ok || base != "door" || lod != 2 {
		t.Fatalf("SplitLODName = %q, %d, %v", base, lod, ok)
	}
	if _, _, ok := SplitLODName("door"); ok {
		t.Error("undecorated name parsed as LOD")
	}
	if _, _, ok := SplitLODName("door_LODx"); ok {
		t.Error("malformed LOD token accepted")
	}
}

package graph

import (
	"github.com/morozRed/gbgraph/pkg/errs"
)

// UtilType is the tag character declaring what a utility slot holds.
type UtilType byte

const (
	TypeUnused UtilType = 'Z'
	TypeInt    UtilType = 'I'
	TypeString UtilType = 'S'
	TypeVertex UtilType = 'V'
	TypeArc    UtilType = 'A'
	// TypeGraph is reserved by the file format and not supported.
	TypeGraph UtilType = 'G'
)

// Slot counts per target, and the total length of a tag string.
const (
	VertexSlots  = 6
	ArcSlots     = 2
	GraphSlots   = 6
	NumUtilTypes = VertexSlots + ArcSlots + GraphSlots
)

// TargetKind selects which record a utility slot belongs to.
type TargetKind int

const (
	TargetVertex TargetKind = iota
	TargetArc
	TargetGraph
)

func (k TargetKind) String() string {
	switch k {
	case TargetVertex:
		return "vertex"
	case TargetArc:
		return "arc"
	case TargetGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// Slots returns the number of utility slots of the target.
func (k TargetKind) Slots() int {
	switch k {
	case TargetVertex:
		return VertexSlots
	case TargetArc:
		return ArcSlots
	default:
		return GraphSlots
	}
}

// offset is the position of the target's first slot in the tag string.
func (k TargetKind) offset() int {
	switch k {
	case TargetVertex:
		return 0
	case TargetArc:
		return VertexSlots
	default:
		return VertexSlots + ArcSlots
	}
}

// UtilTypes is the utility schema of a graph: one tag per slot, slots 0-5
// for vertices, 6-7 for arcs and 8-13 for the graph itself. Unused slots
// have no storage; index maps a used slot to its position in the target's
// utility slice.
type UtilTypes struct {
	tags  [NumUtilTypes]UtilType
	index [NumUtilTypes]int8
	used  [3]int
}

// AllUnused is the schema with every slot tagged Z.
var AllUnused = mustParse("ZZZZZZZZZZZZZZ")

func mustParse(s string) UtilTypes {
	t, err := ParseUtilTypes(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseUtilTypes validates a 14-character tag string.
func ParseUtilTypes(s string) (UtilTypes, error) {
	var t UtilTypes
	if len(s) != NumUtilTypes {
		return t, errs.At(errs.TypeMalformedField, "", 0, s,
			"util_types must have %d tags, got %d", NumUtilTypes, len(s))
	}
	for _, kind := range []TargetKind{TargetVertex, TargetArc, TargetGraph} {
		for slot := 0; slot < kind.Slots(); slot++ {
			i := kind.offset() + slot
			tag := UtilType(s[i])
			switch tag {
			case TypeUnused:
				t.index[i] = -1
			case TypeInt, TypeString, TypeVertex, TypeArc:
				t.index[i] = int8(t.used[kind])
				t.used[kind]++
			case TypeGraph:
				return UtilTypes{}, errs.At(errs.TypeMalformedField, "", 0, s,
					"graph-typed utility at slot %d is not supported", i)
			default:
				return UtilTypes{}, errs.At(errs.TypeMalformedField, "", 0, s,
					"unrecognized util type %q at slot %d", s[i], i)
			}
			t.tags[i] = tag
		}
	}
	return t, nil
}

// String returns the tag string.
func (t UtilTypes) String() string {
	b := make([]byte, NumUtilTypes)
	for i, tag := range t.tags {
		if tag == 0 {
			tag = TypeUnused
		}
		b[i] = byte(tag)
	}
	return string(b)
}

// Type returns the tag of a slot. Out-of-range slots report TypeUnused.
func (t UtilTypes) Type(kind TargetKind, slot int) UtilType {
	if slot < 0 || slot >= kind.Slots() {
		return TypeUnused
	}
	tag := t.tags[kind.offset()+slot]
	if tag == 0 {
		return TypeUnused
	}
	return tag
}

// Used returns the number of non-Z slots of the target.
func (t UtilTypes) Used(kind TargetKind) int {
	return t.used[kind]
}

// storage returns the position of slot in the target's utility slice.
func (t UtilTypes) storage(kind TargetKind, slot int) (int, bool) {
	if t.Type(kind, slot) == TypeUnused {
		return 0, false
	}
	return int(t.index[kind.offset()+slot]), true
}

// zeroUtils returns a fresh utility slice for the target with every used
// slot set to the zero value of its tag.
func (t UtilTypes) zeroUtils(kind TargetKind) []Util {
	if t.used[kind] == 0 {
		return nil
	}
	utils := make([]Util, 0, t.used[kind])
	for slot := 0; slot < kind.Slots(); slot++ {
		if tag := t.Type(kind, slot); tag != TypeUnused {
			utils = append(utils, ZeroUtil(tag))
		}
	}
	return utils
}

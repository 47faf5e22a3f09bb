package graph

import (
	"github.com/morozRed/gbgraph/pkg/atom"
)

// Util is a utility value. The variants are IntUtil, StringUtil, VertexUtil
// and ArcUtil; the set is closed.
type Util interface {
	Type() UtilType
	isUtil()
}

// IntUtil is the value of an I slot.
type IntUtil int64

// StringUtil is the value of an S slot. A nil Atom is the null string.
type StringUtil struct {
	Atom *atom.Atom
}

// VertexUtil is the value of a V slot. A nil Vertex is null; True is the
// boolean-true sentinel.
type VertexUtil struct {
	Vertex *Vertex
}

// ArcUtil is the value of an A slot. A nil Arc is null.
type ArcUtil struct {
	Arc *Arc
}

func (IntUtil) Type() UtilType    { return TypeInt }
func (StringUtil) Type() UtilType { return TypeString }
func (VertexUtil) Type() UtilType { return TypeVertex }
func (ArcUtil) Type() UtilType    { return TypeArc }

func (IntUtil) isUtil()    {}
func (StringUtil) isUtil() {}
func (VertexUtil) isUtil() {}
func (ArcUtil) isUtil()    {}

// String returns the content of the string, "" when null.
func (s StringUtil) String() string {
	return s.Atom.String()
}

// ZeroUtil returns the zero value of a tag: 0, the null string, or a null
// reference. TypeUnused and unknown tags yield nil.
func ZeroUtil(tag UtilType) Util {
	switch tag {
	case TypeInt:
		return IntUtil(0)
	case TypeString:
		return StringUtil{}
	case TypeVertex:
		return VertexUtil{}
	case TypeArc:
		return ArcUtil{}
	default:
		return nil
	}
}

// True is the sentinel vertex used where a V slot holds a boolean. It never
// belongs to a graph.
var True = &Vertex{rank: -1}

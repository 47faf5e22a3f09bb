package graph

import (
	"iter"

	"github.com/morozRed/gbgraph/pkg/atom"
)

// Vertex is a vertex of a Graph. Its rank is its position in the graph's
// vertex store and never changes.
type Vertex struct {
	name  *atom.Atom
	arcs  *Arc
	rank  int
	g     *Graph
	utils []Util
}

// Name returns the vertex name, "" when absent.
func (v *Vertex) Name() string {
	return v.name.String()
}

// NameAtom returns the interned name, nil when absent.
func (v *Vertex) NameAtom() *atom.Atom {
	return v.name
}

// SetName renames the vertex. The new name is registered for Lookup unless
// another vertex already holds it.
func (v *Vertex) SetName(name *atom.Atom) {
	v.name = name
	if name != nil && v.g != nil {
		if _, taken := v.g.names.Get(name); !taken {
			v.g.names.Put(name, v)
		}
	}
}

// Rank returns the 0-based position of the vertex in its graph.
func (v *Vertex) Rank() int {
	return v.rank
}

// Graph returns the graph that owns the vertex, nil for True.
func (v *Vertex) Graph() *Graph {
	return v.g
}

// FirstArc returns the head of the adjacency list.
func (v *Vertex) FirstArc() *Arc {
	return v.arcs
}

// SetFirstArc replaces the head of the adjacency list.
func (v *Vertex) SetFirstArc(a *Arc) {
	v.arcs = a
}

// Arcs iterates over the adjacency list, head first.
func (v *Vertex) Arcs() iter.Seq[*Arc] {
	return func(yield func(*Arc) bool) {
		for a := v.arcs; a != nil; a = a.next {
			if !yield(a) {
				return
			}
		}
	}
}

// Degree returns the length of the adjacency list.
func (v *Vertex) Degree() int {
	d := 0
	for a := v.arcs; a != nil; a = a.next {
		d++
	}
	return d
}

// Util returns the value of a vertex utility slot. ok is false for Z slots.
func (v *Vertex) Util(slot int) (Util, bool) {
	return v.g.util(TargetVertex, v.utils, slot)
}

// SetUtil stores a value in a vertex utility slot.
func (v *Vertex) SetUtil(slot int, u Util) error {
	return v.g.setUtil(TargetVertex, v.utils, slot, u)
}

// Arc is a directed arc. next links it into the adjacency list of the
// vertex it leaves.
type Arc struct {
	tip   *Vertex
	next  *Arc
	len   int64
	g     *Graph
	utils []Util
}

// Tip returns the destination vertex. It may be nil or True.
func (a *Arc) Tip() *Vertex {
	return a.tip
}

// SetTip sets the destination vertex.
func (a *Arc) SetTip(v *Vertex) {
	a.tip = v
}

// Next returns the following arc in the same adjacency list.
func (a *Arc) Next() *Arc {
	return a.next
}

// SetNext sets the following arc in the adjacency list.
func (a *Arc) SetNext(next *Arc) {
	a.next = next
}

// Len returns the arc length.
func (a *Arc) Len() int64 {
	return a.len
}

// SetLen sets the arc length.
func (a *Arc) SetLen(length int64) {
	a.len = length
}

// Graph returns the graph that owns the arc.
func (a *Arc) Graph() *Graph {
	return a.g
}

// Util returns the value of an arc utility slot. ok is false for Z slots.
func (a *Arc) Util(slot int) (Util, bool) {
	return a.g.util(TargetArc, a.utils, slot)
}

// SetUtil stores a value in an arc utility slot.
func (a *Arc) SetUtil(slot int, u Util) error {
	return a.g.setUtil(TargetArc, a.utils, slot, u)
}

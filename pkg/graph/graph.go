// Package graph holds the in-memory model of a GraphBase graph: a fixed
// number of vertex slots addressed by rank, arcs linked into per-vertex
// adjacency lists, and typed utility slots declared once per graph.
//
// A Graph is not safe for concurrent use. Independent graphs share nothing
// and may be used from different goroutines.
package graph

import (
	"iter"

	"github.com/morozRed/gbgraph/pkg/atom"
	"github.com/morozRed/gbgraph/pkg/errs"
	"github.com/morozRed/gbgraph/pkg/hashmap"
	"github.com/morozRed/gbgraph/pkg/store"
)

// DefaultID names graphs created without WithID.
const DefaultID = "graph"

// Graph is a directed graph with GraphBase-style utility slots.
type Graph struct {
	id       *atom.Atom
	types    UtilTypes
	atoms    *atom.Table
	vertices *store.Store[Vertex]
	names    *hashmap.Map[*atom.Atom, *Vertex]
	n, m     int
	arcPool  *store.Pool[Arc]
	arcRuns  []*store.Store[Arc]
	utils    []Util
}

// Option configures a new Graph.
type Option func(*Graph) error

// WithUtilTypes sets the utility schema.
func WithUtilTypes(types UtilTypes) Option {
	return func(g *Graph) error {
		g.types = types
		return nil
	}
}

// WithID sets the graph id.
func WithID(id string) Option {
	return func(g *Graph) error {
		return g.SetID(id)
	}
}

// New creates a graph with room for capacity vertices, none of them present
// yet. Without options the schema is all Z and the id is DefaultID.
func New(capacity int, opts ...Option) (*Graph, error) {
	vertices, err := store.New[Vertex](capacity)
	if err != nil {
		return nil, err
	}
	g := &Graph{
		atoms:    atom.NewTable(),
		vertices: vertices,
		names:    hashmap.New[*atom.Atom, *Vertex](capacity),
		arcPool:  store.NewPool[Arc](0),
		types:    AllUnused,
	}
	if err := g.SetID(DefaultID); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	g.utils = g.types.zeroUtils(TargetGraph)
	k := g.types.Used(TargetVertex)
	var backing []Util
	if k > 0 {
		backing = make([]Util, 0, capacity*k)
	}
	for rank, v := range g.vertices.All() {
		v.rank = rank
		v.g = g
		if k > 0 {
			start := len(backing)
			backing = append(backing, g.types.zeroUtils(TargetVertex)...)
			v.utils = backing[start:len(backing):len(backing)]
		}
	}
	return g, nil
}

// ID returns the graph id.
func (g *Graph) ID() string {
	return g.id.String()
}

// IDAtom returns the interned graph id, nil when absent.
func (g *Graph) IDAtom() *atom.Atom {
	return g.id
}

// SetID sets the graph id.
func (g *Graph) SetID(id string) error {
	a, err := g.atoms.InternString(id)
	if err != nil {
		return err
	}
	g.id = a
	return nil
}

// SetIDAtom sets the graph id to an atom of this graph, or clears it.
func (g *Graph) SetIDAtom(id *atom.Atom) {
	g.id = id
}

// Types returns the utility schema.
func (g *Graph) Types() UtilTypes {
	return g.types
}

// Atoms returns the graph's string table.
func (g *Graph) Atoms() *atom.Table {
	return g.atoms
}

// Intern interns s in the graph's string table.
func (g *Graph) Intern(s string) (*atom.Atom, error) {
	return g.atoms.InternString(s)
}

// Capacity returns the number of vertex slots.
func (g *Graph) Capacity() int {
	return g.vertices.Len()
}

// Order returns the number of vertices present.
func (g *Graph) Order() int {
	return g.n
}

// Size returns the arc count. An undirected edge counts once.
func (g *Graph) Size() int {
	return g.m
}

// SetSize overrides the arc count, for loaders that read it from a file.
func (g *Graph) SetSize(m int) {
	g.m = m
}

// Vertex returns the vertex at rank.
func (g *Graph) Vertex(rank int) (*Vertex, error) {
	if rank < 0 || rank >= g.n {
		return nil, errs.New(errs.TypeIndexOutOfBounds,
			"vertex rank %d outside [0,%d)", rank, g.n)
	}
	return g.vertices.Get(rank)
}

// Vertices iterates over the present vertices in rank order.
func (g *Graph) Vertices() iter.Seq[*Vertex] {
	return func(yield func(*Vertex) bool) {
		for rank, v := range g.vertices.All() {
			if rank >= g.n || !yield(v) {
				return
			}
		}
	}
}

// Materialize marks every vertex slot as present so Order equals Capacity.
// Loaders that fill vertices by rank call it before resolving references.
func (g *Graph) Materialize() {
	g.n = g.vertices.Len()
}

// Lookup returns the vertex registered under name.
func (g *Graph) Lookup(name string) (*Vertex, bool) {
	a, ok := g.atoms.LookupString(name)
	if !ok {
		return nil, false
	}
	return g.names.Get(a)
}

// NewArcStore allocates count arcs addressed by rank, owned by the graph.
// Loaders use it to place arcs at the positions a file declares.
func (g *Graph) NewArcStore(count int) (*store.Store[Arc], error) {
	arcs, err := store.New[Arc](count)
	if err != nil {
		return nil, err
	}
	k := g.types.Used(TargetArc)
	for _, a := range arcs.All() {
		a.g = g
		if k > 0 {
			a.utils = g.types.zeroUtils(TargetArc)
		}
	}
	g.arcRuns = append(g.arcRuns, arcs)
	return arcs, nil
}

// Util returns the value of a graph utility slot. ok is false for Z slots.
func (g *Graph) Util(slot int) (Util, bool) {
	return g.util(TargetGraph, g.utils, slot)
}

// SetUtil stores a value in a graph utility slot.
func (g *Graph) SetUtil(slot int, u Util) error {
	return g.setUtil(TargetGraph, g.utils, slot, u)
}

// AddVertex returns the vertex registered under name, creating it at the
// next rank if it does not exist yet.
func (g *Graph) AddVertex(name string) (*Vertex, error) {
	a, err := g.atoms.InternString(name)
	if err != nil {
		return nil, err
	}
	if v, ok := g.names.Get(a); ok {
		return v, nil
	}
	if g.n >= g.vertices.Len() {
		return nil, errs.At(errs.TypeCapacityExceeded, "", 0, name,
			"graph holds at most %d vertices", g.vertices.Len())
	}
	return g.create(a), nil
}

// AddArc adds an arc from the vertex named from to the vertex named to,
// creating either vertex on first mention.
func (g *Graph) AddArc(from, to string, length int64) error {
	v, w, err := g.endpoints(from, to)
	if err != nil {
		return err
	}
	g.link(v, w, length)
	g.m++
	return nil
}

// AddEdge adds an undirected edge as two arcs, or one arc for a self-loop.
// Either way the arc count grows by one.
func (g *Graph) AddEdge(from, to string, length int64) error {
	v, w, err := g.endpoints(from, to)
	if err != nil {
		return err
	}
	g.link(v, w, length)
	if v != w {
		g.link(w, v, length)
	}
	g.m++
	return nil
}

// Free releases the adjacency lists, the name map and the string table.
// The graph is empty afterwards.
func (g *Graph) Free() {
	for v := range g.Vertices() {
		v.arcs = nil
		v.name = nil
	}
	g.names.Clear()
	g.atoms.Free()
	g.arcPool.Reset()
	g.arcRuns = nil
	g.vertices, _ = store.New[Vertex](0)
	g.id = nil
	g.n, g.m = 0, 0
}

// endpoints resolves both names, creating missing vertices only when all of
// them fit.
func (g *Graph) endpoints(from, to string) (*Vertex, *Vertex, error) {
	fa, err := g.atoms.InternString(from)
	if err != nil {
		return nil, nil, err
	}
	ta, err := g.atoms.InternString(to)
	if err != nil {
		return nil, nil, err
	}

	v, haveV := g.names.Get(fa)
	w, haveW := g.names.Get(ta)
	missing := 0
	if !haveV {
		missing++
	}
	if !haveW && ta != fa {
		missing++
	}
	if g.n+missing > g.vertices.Len() {
		name := from
		if haveV {
			name = to
		}
		return nil, nil, errs.At(errs.TypeCapacityExceeded, "", 0, name,
			"graph holds at most %d vertices", g.vertices.Len())
	}

	if !haveV {
		v = g.create(fa)
	}
	if !haveW {
		if ta == fa {
			w = v
		} else {
			w = g.create(ta)
		}
	}
	return v, w, nil
}

func (g *Graph) create(name *atom.Atom) *Vertex {
	v, _ := g.vertices.Get(g.n)
	g.n++
	v.SetName(name)
	return v
}

func (g *Graph) link(v, w *Vertex, length int64) {
	a := g.arcPool.Alloc()
	a.g = g
	a.utils = g.types.zeroUtils(TargetArc)
	a.tip = w
	a.len = length
	a.next = v.arcs
	v.arcs = a
}

func (g *Graph) util(kind TargetKind, utils []Util, slot int) (Util, bool) {
	if g == nil {
		return nil, false
	}
	i, ok := g.types.storage(kind, slot)
	if !ok {
		return nil, false
	}
	return utils[i], true
}

func (g *Graph) setUtil(kind TargetKind, utils []Util, slot int, u Util) error {
	if g == nil {
		return errs.New(errs.TypeMalformedField, "the boolean-true sentinel has no utility slots")
	}
	i, ok := g.types.storage(kind, slot)
	if !ok {
		return errs.New(errs.TypeMalformedField, "%s utility slot %d is unused", kind, slot)
	}
	tag := g.types.Type(kind, slot)
	if u == nil || u.Type() != tag {
		return errs.New(errs.TypeMalformedField,
			"%s utility slot %d holds %c values", kind, slot, tag)
	}
	switch val := u.(type) {
	case VertexUtil:
		if val.Vertex != nil && val.Vertex != True && val.Vertex.g != g {
			return errs.New(errs.TypeIndexOutOfBounds, "vertex belongs to another graph")
		}
	case ArcUtil:
		if val.Arc != nil && val.Arc.g != g {
			return errs.New(errs.TypeIndexOutOfBounds, "arc belongs to another graph")
		}
	case StringUtil:
		if val.Atom != nil {
			if own, ok := g.atoms.LookupString(val.Atom.String()); !ok || own != val.Atom {
				return errs.New(errs.TypeMalformedField, "string was interned by another graph")
			}
		}
	}
	utils[i] = u
	return nil
}

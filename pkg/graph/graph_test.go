package graph

import (
	"errors"
	"testing"

	"github.com/morozRed/gbgraph/pkg/errs"
)

func mustNew(t *testing.T, capacity int, opts ...Option) *Graph {
	t.Helper()
	g, err := New(capacity, opts...)
	if err != nil {
		t.Fatalf("New(%d): %v", capacity, err)
	}
	return g
}

func arcsOf(t *testing.T, g *Graph, name string) []*Arc {
	t.Helper()
	v, ok := g.Lookup(name)
	if !ok {
		t.Fatalf("vertex %q not found", name)
	}
	var arcs []*Arc
	for a := range v.Arcs() {
		arcs = append(arcs, a)
	}
	return arcs
}

func TestNewDefaults(t *testing.T) {
	g := mustNew(t, 4)
	if g.Order() != 0 || g.Size() != 0 {
		t.Fatalf("expected empty graph, got n=%d m=%d", g.Order(), g.Size())
	}
	if g.Capacity() != 4 {
		t.Fatalf("expected capacity 4, got %d", g.Capacity())
	}
	if g.Types().String() != "ZZZZZZZZZZZZZZ" {
		t.Fatalf("expected all-unused schema, got %s", g.Types())
	}
	if g.ID() != DefaultID {
		t.Fatalf("expected default id, got %q", g.ID())
	}
}

func TestNewRejectsHugeCapacity(t *testing.T) {
	_, err := New(1 << 30)
	if !errors.Is(err, errs.ErrAllocationFailure) {
		t.Fatalf("expected allocation failure, got %v", err)
	}
}

func TestAddArcCountsOne(t *testing.T) {
	g := mustNew(t, 2)
	if err := g.AddArc("A", "B", 5); err != nil {
		t.Fatalf("AddArc: %v", err)
	}
	if g.Size() != 1 || g.Order() != 2 {
		t.Fatalf("expected n=2 m=1, got n=%d m=%d", g.Order(), g.Size())
	}
	arcs := arcsOf(t, g, "A")
	if len(arcs) != 1 || arcs[0].Tip().Name() != "B" || arcs[0].Len() != 5 {
		t.Fatalf("expected one arc A->B len 5, got %+v", arcs)
	}
	if len(arcsOf(t, g, "B")) != 0 {
		t.Fatalf("B should have no outgoing arcs")
	}
}

func TestAddEdgeCreatesTwoArcsCountsOne(t *testing.T) {
	g := mustNew(t, 2)
	if err := g.AddEdge("A", "B", 5); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if g.Size() != 1 {
		t.Fatalf("expected m=1, got %d", g.Size())
	}
	for _, tc := range []struct{ from, to string }{{"A", "B"}, {"B", "A"}} {
		arcs := arcsOf(t, g, tc.from)
		if len(arcs) != 1 || arcs[0].Tip().Name() != tc.to || arcs[0].Len() != 5 {
			t.Fatalf("expected one arc %s->%s len 5", tc.from, tc.to)
		}
	}
}

func TestAddEdgeSelfLoop(t *testing.T) {
	g := mustNew(t, 1)
	if err := g.AddEdge("A", "A", 5); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if g.Size() != 1 || g.Order() != 1 {
		t.Fatalf("expected n=1 m=1, got n=%d m=%d", g.Order(), g.Size())
	}
	if arcs := arcsOf(t, g, "A"); len(arcs) != 1 {
		t.Fatalf("expected one self-loop, got %d arcs", len(arcs))
	}
}

func TestAddEdgePrefixNamesAreDistinct(t *testing.T) {
	g := mustNew(t, 2)
	if err := g.AddEdge("A", "AB", 1); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if len(arcsOf(t, g, "A")) != 1 || len(arcsOf(t, g, "AB")) != 1 {
		t.Fatalf("expected an arc in both directions between A and AB")
	}
}

func TestCapacityExceeded(t *testing.T) {
	g := mustNew(t, 2)
	if err := g.AddArc("A", "B", 1); err != nil {
		t.Fatalf("AddArc: %v", err)
	}
	err := g.AddArc("A", "C", 1)
	if !errors.Is(err, errs.ErrCapacityExceeded) {
		t.Fatalf("expected capacity exceeded, got %v", err)
	}
	if g.Order() != 2 || g.Size() != 1 {
		t.Fatalf("failed call must not change the graph, got n=%d m=%d", g.Order(), g.Size())
	}
	if len(arcsOf(t, g, "A")) != 1 {
		t.Fatalf("failed call must not add an arc")
	}

	// Both names new with one slot left: nothing is created.
	g = mustNew(t, 3)
	_ = g.AddArc("A", "B", 1)
	if err := g.AddEdge("C", "D", 1); !errors.Is(err, errs.ErrCapacityExceeded) {
		t.Fatalf("expected capacity exceeded, got %v", err)
	}
	if g.Order() != 2 {
		t.Fatalf("expected n=2 after failed call, got %d", g.Order())
	}
	if _, ok := g.Lookup("C"); ok {
		t.Fatalf("C must not be registered")
	}
}

func TestAddVertex(t *testing.T) {
	g := mustNew(t, 2)
	v, err := g.AddVertex("first")
	if err != nil {
		t.Fatalf("AddVertex: %v", err)
	}
	again, err := g.AddVertex("first")
	if err != nil || again != v {
		t.Fatalf("expected the existing vertex, got %v %v", again, err)
	}
	if _, err := g.AddVertex("second"); err != nil {
		t.Fatalf("AddVertex: %v", err)
	}
	if _, err := g.AddVertex("third"); !errors.Is(err, errs.ErrCapacityExceeded) {
		t.Fatalf("expected capacity exceeded, got %v", err)
	}
	if g.Order() != 2 || v.Rank() != 0 {
		t.Fatalf("unexpected order %d or rank %d", g.Order(), v.Rank())
	}
}

func TestVerticesInRankOrder(t *testing.T) {
	g := mustNew(t, 5)
	_ = g.AddArc("x", "y", 0)
	_ = g.AddArc("z", "x", 0)

	var names []string
	for v := range g.Vertices() {
		if v.Graph() != g {
			t.Fatalf("vertex %d not owned by graph", v.Rank())
		}
		names = append(names, v.Name())
	}
	want := []string{"x", "y", "z"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}

	if _, err := g.Vertex(3); !errors.Is(err, errs.ErrIndexOutOfBounds) {
		t.Fatalf("expected out of bounds for absent rank, got %v", err)
	}
}

func TestUtilitiesFollowSchema(t *testing.T) {
	types, err := ParseUtilTypes("SIZZZZAVISZZZZ")
	if err != nil {
		t.Fatalf("ParseUtilTypes: %v", err)
	}
	g := mustNew(t, 2, WithUtilTypes(types), WithID("utils"))
	if err := g.AddArc("a", "b", 3); err != nil {
		t.Fatalf("AddArc: %v", err)
	}
	a, _ := g.Lookup("a")
	b, _ := g.Lookup("b")
	arc := a.FirstArc()

	if u, ok := a.Util(1); !ok || u != IntUtil(0) {
		t.Fatalf("expected zero int in slot 1, got %v %v", u, ok)
	}
	if _, ok := a.Util(2); ok {
		t.Fatalf("Z slot must report no value")
	}

	label, _ := g.Intern("start")
	if err := a.SetUtil(0, StringUtil{Atom: label}); err != nil {
		t.Fatalf("SetUtil string: %v", err)
	}
	if err := a.SetUtil(1, IntUtil(-7)); err != nil {
		t.Fatalf("SetUtil int: %v", err)
	}
	if err := arc.SetUtil(0, ArcUtil{Arc: arc}); err != nil {
		t.Fatalf("SetUtil arc: %v", err)
	}
	if err := arc.SetUtil(1, VertexUtil{Vertex: True}); err != nil {
		t.Fatalf("SetUtil true: %v", err)
	}
	if err := g.SetUtil(0, IntUtil(42)); err != nil {
		t.Fatalf("graph SetUtil: %v", err)
	}
	if err := g.SetUtil(1, StringUtil{}); err != nil {
		t.Fatalf("graph SetUtil null string: %v", err)
	}

	if u, _ := a.Util(0); u.(StringUtil).String() != "start" {
		t.Fatalf("expected start, got %v", u)
	}
	if u, _ := arc.Util(1); u.(VertexUtil).Vertex != True {
		t.Fatalf("expected boolean true")
	}
	if u, _ := g.Util(0); u != IntUtil(42) {
		t.Fatalf("expected 42, got %v", u)
	}
	if u, _ := b.Util(1); u != IntUtil(0) {
		t.Fatalf("b must keep its own zero value, got %v", u)
	}
}

func TestSetUtilRejectsMismatches(t *testing.T) {
	types, _ := ParseUtilTypes("VSZZZZZZZZZZZZ")
	g := mustNew(t, 2, WithUtilTypes(types))
	other := mustNew(t, 2, WithUtilTypes(types))
	_ = g.AddArc("a", "b", 0)
	_ = other.AddArc("x", "y", 0)
	a, _ := g.Lookup("a")
	x, _ := other.Lookup("x")
	foreign, _ := other.Intern("x")

	cases := []struct {
		name string
		slot int
		u    Util
		want error
	}{
		{"wrong tag", 0, IntUtil(1), errs.ErrMalformedField},
		{"unused slot", 3, IntUtil(1), errs.ErrMalformedField},
		{"out of range slot", 9, IntUtil(1), errs.ErrMalformedField},
		{"nil value", 0, nil, errs.ErrMalformedField},
		{"foreign vertex", 0, VertexUtil{Vertex: x}, errs.ErrIndexOutOfBounds},
		{"foreign atom", 1, StringUtil{Atom: foreign}, errs.ErrMalformedField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := a.SetUtil(tc.slot, tc.u); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseUtilTypes(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"ZZZZZZZZZZZZZZ", true},
		{"IASVZZAVZZZZIS", true},
		{"ZZZZZZZZZZZZZ", false},
		{"ZZZZZZZZZZZZZZZ", false},
		{"GZZZZZZZZZZZZZ", false},
		{"XZZZZZZZZZZZZZ", false},
	}
	for _, tc := range cases {
		types, err := ParseUtilTypes(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.in, err)
			}
			if types.String() != tc.in {
				t.Fatalf("%s: round trip gave %s", tc.in, types)
			}
			continue
		}
		if !errors.Is(err, errs.ErrMalformedField) {
			t.Fatalf("%s: expected malformed field, got %v", tc.in, err)
		}
	}

	types, _ := ParseUtilTypes("IZSZZVAZZZZZZI")
	if types.Used(TargetVertex) != 3 || types.Used(TargetArc) != 1 || types.Used(TargetGraph) != 1 {
		t.Fatalf("unexpected used counts for %s", types)
	}
	if types.Type(TargetVertex, 5) != TypeVertex || types.Type(TargetArc, 1) != TypeUnused {
		t.Fatalf("unexpected slot tags for %s", types)
	}
}

func TestNewArcStore(t *testing.T) {
	types, _ := ParseUtilTypes("ZZZZZZIZZZZZZZ")
	g := mustNew(t, 2, WithUtilTypes(types))
	arcs, err := g.NewArcStore(3)
	if err != nil {
		t.Fatalf("NewArcStore: %v", err)
	}
	a, _ := arcs.Get(2)
	if a.Graph() != g {
		t.Fatalf("arc not owned by graph")
	}
	if err := a.SetUtil(0, IntUtil(9)); err != nil {
		t.Fatalf("SetUtil: %v", err)
	}
	if _, err := arcs.Get(3); !errors.Is(err, errs.ErrIndexOutOfBounds) {
		t.Fatalf("expected out of bounds, got %v", err)
	}
}

func TestFree(t *testing.T) {
	g := mustNew(t, 3)
	_ = g.AddEdge("a", "b", 1)
	g.Free()
	if g.Order() != 0 || g.Size() != 0 || g.Capacity() != 0 {
		t.Fatalf("expected empty graph after Free")
	}
	if _, ok := g.Lookup("a"); ok {
		t.Fatalf("names must be released")
	}
	if g.Atoms().Len() != 0 {
		t.Fatalf("atoms must be released")
	}
}

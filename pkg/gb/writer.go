package gb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/morozRed/gbgraph/pkg/errs"
	"github.com/morozRed/gbgraph/pkg/graph"
	"github.com/morozRed/gbgraph/pkg/hashmap"
)

// Write serializes g. Arc ranks are assigned by walking the adjacency lists
// in vertex rank order; arcs reachable only through arc utilities follow.
func Write(w io.Writer, g *graph.Graph, opts ...Option) error {
	o := newOptions(opts)
	if g.Order() == 0 {
		return errs.New(errs.TypeInvalidHeader, "a graph without vertices cannot be written")
	}
	wr := &writer{g: g, types: g.Types(), log: o.logger.With(zap.String("id", g.ID()))}
	if err := wr.rankArcs(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	wr.out = bw
	if err := wr.write(); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.TypeIO, err, "failed to flush output")
	}
	return nil
}

type writer struct {
	g     *graph.Graph
	types graph.UtilTypes
	log   *zap.Logger
	out   *bufio.Writer
	err   error

	ranks *hashmap.Map[*graph.Arc, int]
	arcs  []*graph.Arc
}

// rankArcs builds the inverse arc-to-rank map.
func (wr *writer) rankArcs() error {
	wr.ranks = hashmap.New[*graph.Arc, int](wr.g.Size())
	for v := range wr.g.Vertices() {
		for a := range v.Arcs() {
			if err := wr.enqueue(a); err != nil {
				return err
			}
		}
	}
	traversal := len(wr.arcs)

	if err := wr.enqueueUtils(graph.TargetGraph, wr.g.Util); err != nil {
		return err
	}
	for v := range wr.g.Vertices() {
		if err := wr.enqueueUtils(graph.TargetVertex, v.Util); err != nil {
			return err
		}
	}
	for i := 0; i < len(wr.arcs); i++ {
		a := wr.arcs[i]
		if err := wr.enqueue(a.Next()); err != nil {
			return err
		}
		if err := wr.enqueueUtils(graph.TargetArc, a.Util); err != nil {
			return err
		}
	}
	if extra := len(wr.arcs) - traversal; extra > 0 {
		wr.log.Debug("arcs reachable only through utilities", zap.Int("count", extra))
	}
	return nil
}

func (wr *writer) enqueue(a *graph.Arc) error {
	if a == nil {
		return nil
	}
	if a.Graph() != wr.g {
		return errs.New(errs.TypeIndexOutOfBounds, "arc belongs to another graph")
	}
	if _, ok := wr.ranks.Get(a); ok {
		return nil
	}
	wr.ranks.Put(a, len(wr.arcs))
	wr.arcs = append(wr.arcs, a)
	return nil
}

func (wr *writer) enqueueUtils(kind graph.TargetKind, get func(int) (graph.Util, bool)) error {
	for slot := 0; slot < kind.Slots(); slot++ {
		if wr.types.Type(kind, slot) != graph.TypeArc {
			continue
		}
		u, _ := get(slot)
		if au, ok := u.(graph.ArcUtil); ok {
			if err := wr.enqueue(au.Arc); err != nil {
				return err
			}
		}
	}
	return nil
}

func (wr *writer) write() error {
	g := wr.g
	wr.printf("* GraphBase graph (util_types %s,%dV,%dA)\n", wr.types, g.Order(), g.Size())

	if id := g.IDAtom(); id == nil {
		wr.printf("0")
	} else if err := wr.quoted(id.String()); err != nil {
		return fmt.Errorf("failed to write graph id: %w", err)
	}
	if wr.types.Used(graph.TargetGraph) > 0 {
		wr.printf(",\n")
		if err := wr.utils(graph.TargetGraph, g.Util); err != nil {
			return err
		}
	}
	wr.printf("\n")

	wr.printf("* %s\n", sectionVertices)
	for v := range g.Vertices() {
		if name := v.NameAtom(); name == nil {
			wr.printf("0")
		} else if err := wr.quoted(name.String()); err != nil {
			return fmt.Errorf("failed to write vertex %d: %w", v.Rank(), err)
		}
		wr.printf(",%s", wr.arcRef(v.FirstArc()))
		if wr.types.Used(graph.TargetVertex) > 0 {
			wr.printf(",")
			if err := wr.utils(graph.TargetVertex, v.Util); err != nil {
				return fmt.Errorf("failed to write vertex %d: %w", v.Rank(), err)
			}
		}
		wr.printf("\n")
	}

	wr.printf("* %s\n", sectionArcs)
	for rank, a := range wr.arcs {
		tip, err := wr.vertexRef(a.Tip())
		if err != nil {
			return fmt.Errorf("failed to write arc %d: %w", rank, err)
		}
		wr.printf("%s,%s,%d", tip, wr.arcRef(a.Next()), a.Len())
		if wr.types.Used(graph.TargetArc) > 0 {
			wr.printf(",")
			if err := wr.utils(graph.TargetArc, a.Util); err != nil {
				return fmt.Errorf("failed to write arc %d: %w", rank, err)
			}
		}
		wr.printf("\n")
	}

	wr.printf("* %s\n0\n", sectionChecksum)
	return wr.err
}

// utils writes the used slots of kind separated by commas.
func (wr *writer) utils(kind graph.TargetKind, get func(int) (graph.Util, bool)) error {
	first := true
	for slot := 0; slot < kind.Slots(); slot++ {
		u, ok := get(slot)
		if !ok {
			continue
		}
		if !first {
			wr.printf(",")
		}
		first = false
		if err := wr.util(u); err != nil {
			return err
		}
	}
	return wr.err
}

func (wr *writer) util(u graph.Util) error {
	switch val := u.(type) {
	case graph.IntUtil:
		wr.printf("\"%d\"", int64(val))
	case graph.StringUtil:
		if val.Atom == nil {
			wr.printf("0")
			return nil
		}
		return wr.quoted(val.String())
	case graph.VertexUtil:
		ref, err := wr.vertexRef(val.Vertex)
		if err != nil {
			return err
		}
		wr.printf("%s", ref)
	case graph.ArcUtil:
		wr.printf("%s", wr.arcRef(val.Arc))
	default:
		return errs.New(errs.TypeMalformedField, "unsupported utility value %T", u)
	}
	return nil
}

func (wr *writer) vertexRef(v *graph.Vertex) (string, error) {
	switch {
	case v == nil:
		return "0", nil
	case v == graph.True:
		return "1", nil
	case v.Graph() != wr.g || v.Rank() >= wr.g.Order():
		return "", errs.New(errs.TypeIndexOutOfBounds, "vertex belongs to another graph")
	}
	return "V" + strconv.Itoa(v.Rank()), nil
}

// arcRef formats an arc that rankArcs has already numbered.
func (wr *writer) arcRef(a *graph.Arc) string {
	if a == nil {
		return "0"
	}
	rank, _ := wr.ranks.Get(a)
	return "A" + strconv.Itoa(rank)
}

// quoted writes s as a string field wrapped every wrapWidth bytes.
func (wr *writer) quoted(s string) error {
	if strings.ContainsAny(s, "\"\\\n\r") {
		return errs.At(errs.TypeMalformedField, "", 0, s,
			"string contains a quote, backslash or line break")
	}
	wr.printf("\"")
	for len(s) > wrapWidth {
		wr.printf("%s%c\n", s[:wrapWidth], continuation)
		s = s[wrapWidth:]
	}
	wr.printf("%s\"", s)
	return nil
}

func (wr *writer) printf(format string, args ...any) {
	if wr.err != nil {
		return
	}
	if _, err := fmt.Fprintf(wr.out, format, args...); err != nil {
		wr.err = errs.Wrap(errs.TypeIO, err, "failed to write output")
	}
}

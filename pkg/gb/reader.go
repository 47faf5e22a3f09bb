package gb

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/morozRed/gbgraph/pkg/errs"
	"github.com/morozRed/gbgraph/pkg/graph"
	"github.com/morozRed/gbgraph/pkg/store"
)

var headerPattern = regexp.MustCompile(
	`^\* GraphBase graph \(util_types ([A-Za-z]{14}),(-?[0-9]+)V,(-?[0-9]+)A\)\s*$`)

// layout groups the records of a file by section.
type layout struct {
	header   record
	attrs    []record
	vertices []record
	arcs     []record
	checksum []record
	markers  [len(sectionNames)]*record
	lastLine int
}

// Read parses a complete GraphBase document. name labels error positions.
// On failure no graph is returned.
func Read(r io.Reader, name string, opts ...Option) (*graph.Graph, error) {
	o := newOptions(opts)
	records, err := readRecords(r, name)
	if err != nil {
		return nil, err
	}
	lay, err := splitSections(records, name)
	if err != nil {
		return nil, err
	}
	p := &reader{file: name, log: o.logger.With(zap.String("file", name))}
	g, err := p.build(lay)
	if err != nil {
		if g != nil {
			g.Free()
		}
		return nil, err
	}
	return g, nil
}

// splitSections checks section order and assigns every record to its
// section.
func splitSections(records []record, file string) (*layout, error) {
	if len(records) == 0 {
		return nil, errs.At(errs.TypeInvalidHeader, file, 1, "", "empty input")
	}
	if !strings.HasPrefix(records[0].text, "* GraphBase ") {
		return nil, errs.At(errs.TypeInvalidHeader, file, records[0].line, records[0].text,
			"first line must be the GraphBase header")
	}

	lay := &layout{header: records[0], lastLine: records[len(records)-1].line}
	lay.markers[sectionGraphBase] = &lay.header
	current := sectionGraphBase
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if rec.text[0] == sectionMark {
			next, err := sectionOf(rec, file)
			if err != nil {
				return nil, err
			}
			if next <= current {
				return nil, errs.At(errs.TypeMalformedField, file, rec.line, rec.text,
					"section %s cannot follow %s", next, current)
			}
			current = next
			lay.markers[current] = &records[i]
			if current == sectionChecksum {
				if rest := markerArgument(rec.text, sectionChecksum); rest != "" {
					lay.checksum = append(lay.checksum, record{line: rec.line, text: rest})
				}
			}
			continue
		}
		switch current {
		case sectionGraphBase:
			lay.attrs = append(lay.attrs, rec)
		case sectionVertices:
			lay.vertices = append(lay.vertices, rec)
		case sectionArcs:
			lay.arcs = append(lay.arcs, rec)
		case sectionChecksum:
			lay.checksum = append(lay.checksum, rec)
		}
	}
	return lay, nil
}

func sectionOf(rec record, file string) (section, error) {
	name, _, _ := strings.Cut(strings.TrimSpace(rec.text[1:]), " ")
	for i, s := range sectionNames {
		if name == s {
			return section(i), nil
		}
	}
	return 0, errs.At(errs.TypeUnknownSection, file, rec.line, rec.text,
		"unknown section %q", name)
}

func markerArgument(text string, s section) string {
	rest := strings.TrimSpace(strings.TrimPrefix(text[1:], " "))
	return strings.TrimSpace(strings.TrimPrefix(rest, s.String()))
}

type reader struct {
	file  string
	log   *zap.Logger
	g     *graph.Graph
	types graph.UtilTypes
	arcs  *store.Store[graph.Arc]
}

func (p *reader) build(lay *layout) (*graph.Graph, error) {
	types, n, m, err := p.parseHeader(lay.header)
	if err != nil {
		return nil, err
	}
	p.types = types
	if err := p.checkVertexRows(lay, n); err != nil {
		return nil, err
	}

	g, err := graph.New(n, graph.WithUtilTypes(types))
	if err != nil {
		return nil, errs.Locate(err, p.file, lay.header.line)
	}
	p.g = g
	g.Materialize()
	g.SetSize(m)

	if len(lay.arcs) != m {
		p.log.Warn("arc rows differ from header count",
			zap.Int("header", m), zap.Int("rows", len(lay.arcs)))
	}
	if p.arcs, err = g.NewArcStore(len(lay.arcs)); err != nil {
		return g, errs.Locate(err, p.file, lay.header.line)
	}

	if err := p.parseAttributes(lay); err != nil {
		return g, err
	}
	if err := p.parseVertices(lay); err != nil {
		return g, err
	}
	if err := p.parseArcs(lay); err != nil {
		return g, err
	}
	if err := p.parseChecksum(lay); err != nil {
		return g, err
	}
	return g, nil
}

func (p *reader) parseHeader(rec record) (graph.UtilTypes, int, int, error) {
	match := headerPattern.FindStringSubmatch(rec.text)
	if match == nil {
		return graph.UtilTypes{}, 0, 0, errs.At(errs.TypeInvalidHeader, p.file, rec.line, rec.text,
			"header does not match \"* GraphBase graph (util_types <tags>,<n>V,<m>A)\"")
	}
	n, err := strconv.Atoi(match[2])
	if err != nil || n <= 0 {
		return graph.UtilTypes{}, 0, 0, errs.At(errs.TypeInvalidHeader, p.file, rec.line, match[2],
			"vertex count must be positive")
	}
	m, err := strconv.Atoi(match[3])
	if err != nil || m < 0 {
		return graph.UtilTypes{}, 0, 0, errs.At(errs.TypeInvalidHeader, p.file, rec.line, match[3],
			"arc count must not be negative")
	}
	types, err := graph.ParseUtilTypes(match[1])
	if err != nil {
		return graph.UtilTypes{}, 0, 0, errs.Locate(err, p.file, rec.line)
	}
	p.log.Debug("header", zap.Stringer("util_types", types), zap.Int("n", n), zap.Int("m", m))
	return types, n, m, nil
}

// parseAttributes resolves the deferred GraphBase lines: the id followed by
// the graph utilities.
func (p *reader) parseAttributes(lay *layout) error {
	if len(lay.attrs) == 0 {
		p.g.SetIDAtom(nil)
		return nil
	}
	var buf strings.Builder
	for _, rec := range lay.attrs {
		buf.WriteString(rec.text)
	}
	rec := record{line: lay.attrs[0].line, text: buf.String()}
	fields, err := splitFields(rec, p.file)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		p.g.SetIDAtom(nil)
		return nil
	}
	if fields[0].isNull() {
		p.g.SetIDAtom(nil)
	} else {
		id, err := p.g.Intern(fields[0].text)
		if err != nil {
			return errs.Locate(err, p.file, rec.line)
		}
		p.g.SetIDAtom(id)
	}
	p.log.Debug("graph attributes", zap.String("id", p.g.ID()), zap.Int("line", rec.line))
	return p.fillUtils(graph.TargetGraph, fields[1:], rec, p.g.SetUtil)
}

// checkVertexRows compares the buffered vertex rows with the declared count
// before any storage is sized from it.
func (p *reader) checkVertexRows(lay *layout, n int) error {
	if len(lay.vertices) > n {
		rec := lay.vertices[n]
		return errs.At(errs.TypeIndexOutOfBounds, p.file, rec.line, rec.text,
			"vertex row %d exceeds the declared %d vertices", n, n)
	}
	if len(lay.vertices) < n {
		line := lay.lastLine
		if len(lay.vertices) > 0 {
			line = lay.vertices[len(lay.vertices)-1].line
		}
		return errs.At(errs.TypeMalformedField, p.file, line, "",
			"expected %d vertex rows, found %d", n, len(lay.vertices))
	}
	return nil
}

func (p *reader) parseVertices(lay *layout) error {
	if lay.markers[sectionVertices] != nil {
		p.log.Debug("section", zap.Stringer("section", sectionVertices),
			zap.Int("line", lay.markers[sectionVertices].line))
	}
	for rank, rec := range lay.vertices {
		fields, err := splitFields(rec, p.file)
		if err != nil {
			return err
		}
		if len(fields) < 2 {
			return errs.At(errs.TypeMalformedField, p.file, rec.line, rec.text,
				"vertex row needs a name and a first arc")
		}
		v, err := p.g.Vertex(rank)
		if err != nil {
			return errs.Locate(err, p.file, rec.line)
		}
		if !fields[0].isNull() {
			name, err := p.g.Intern(fields[0].text)
			if err != nil {
				return errs.Locate(err, p.file, rec.line)
			}
			v.SetName(name)
		}
		first, err := p.arcRef(fields[1], rec)
		if err != nil {
			return err
		}
		v.SetFirstArc(first)
		if err := p.fillUtils(graph.TargetVertex, fields[2:], rec, v.SetUtil); err != nil {
			return err
		}
	}
	return nil
}

func (p *reader) parseArcs(lay *layout) error {
	if lay.markers[sectionArcs] != nil {
		p.log.Debug("section", zap.Stringer("section", sectionArcs),
			zap.Int("line", lay.markers[sectionArcs].line))
	}
	for rank, rec := range lay.arcs {
		fields, err := splitFields(rec, p.file)
		if err != nil {
			return err
		}
		if len(fields) < 3 {
			return errs.At(errs.TypeMalformedField, p.file, rec.line, rec.text,
				"arc row needs a tip, a next arc and a length")
		}
		a, err := p.arcs.Get(rank)
		if err != nil {
			return errs.Locate(err, p.file, rec.line)
		}
		tip, err := p.vertexRef(fields[0], rec)
		if err != nil {
			return err
		}
		next, err := p.arcRef(fields[1], rec)
		if err != nil {
			return err
		}
		length, err := strconv.ParseInt(fields[2].text, 10, 64)
		if err != nil {
			return errs.At(errs.TypeMalformedField, p.file, rec.line, fields[2].text,
				"arc length is not an integer")
		}
		a.SetTip(tip)
		a.SetNext(next)
		a.SetLen(length)
		if err := p.fillUtils(graph.TargetArc, fields[3:], rec, a.SetUtil); err != nil {
			return err
		}
	}
	return nil
}

func (p *reader) parseChecksum(lay *layout) error {
	switch len(lay.checksum) {
	case 0:
		return nil
	case 1:
	default:
		rec := lay.checksum[1]
		return errs.At(errs.TypeMalformedField, p.file, rec.line, rec.text,
			"checksum section holds a single integer")
	}
	rec := lay.checksum[0]
	sum, err := strconv.ParseInt(strings.TrimSpace(rec.text), 10, 64)
	if err != nil {
		return errs.At(errs.TypeMalformedField, p.file, rec.line, rec.text,
			"checksum is not an integer")
	}
	p.log.Debug("checksum not validated", zap.Int64("checksum", sum), zap.Int("line", rec.line))
	return nil
}

// fillUtils assigns fields to the used slots of kind in slot order.
// Missing trailing fields keep their zero values.
func (p *reader) fillUtils(kind graph.TargetKind, fields []field, rec record,
	set func(slot int, u graph.Util) error) error {
	slot := 0
	for _, f := range fields {
		for slot < kind.Slots() && p.types.Type(kind, slot) == graph.TypeUnused {
			slot++
		}
		if slot >= kind.Slots() {
			return errs.At(errs.TypeMalformedField, p.file, rec.line, f.text,
				"more fields than %s utility slots", kind)
		}
		u, err := p.util(p.types.Type(kind, slot), f, rec)
		if err != nil {
			return err
		}
		if err := set(slot, u); err != nil {
			return errs.Locate(err, p.file, rec.line)
		}
		slot++
	}
	return nil
}

func (p *reader) util(tag graph.UtilType, f field, rec record) (graph.Util, error) {
	switch tag {
	case graph.TypeInt:
		i, err := strconv.ParseInt(f.text, 10, 64)
		if err != nil {
			return nil, errs.At(errs.TypeMalformedField, p.file, rec.line, f.text,
				"integer utility expected")
		}
		return graph.IntUtil(i), nil
	case graph.TypeString:
		if f.isNull() {
			return graph.StringUtil{}, nil
		}
		if !f.quoted {
			return nil, errs.At(errs.TypeMalformedField, p.file, rec.line, f.text,
				"string utility must be quoted or 0")
		}
		a, err := p.g.Intern(f.text)
		if err != nil {
			return nil, errs.Locate(err, p.file, rec.line)
		}
		return graph.StringUtil{Atom: a}, nil
	case graph.TypeVertex:
		v, err := p.vertexRef(f, rec)
		if err != nil {
			return nil, err
		}
		return graph.VertexUtil{Vertex: v}, nil
	case graph.TypeArc:
		a, err := p.arcRef(f, rec)
		if err != nil {
			return nil, err
		}
		return graph.ArcUtil{Arc: a}, nil
	default:
		return nil, errs.At(errs.TypeMalformedField, p.file, rec.line, f.text,
			"unrecognized util type %c", tag)
	}
}

// vertexRef resolves 0, 1 or V<k>.
func (p *reader) vertexRef(f field, rec record) (*graph.Vertex, error) {
	switch f.text {
	case "0":
		return nil, nil
	case "1":
		return graph.True, nil
	}
	k, err := p.rank(f, 'V', rec)
	if err != nil {
		return nil, err
	}
	if k >= p.g.Capacity() {
		return nil, errs.At(errs.TypeIndexOutOfBounds, p.file, rec.line, f.text,
			"vertex rank %d outside [0,%d)", k, p.g.Capacity())
	}
	v, err := p.g.Vertex(k)
	if err != nil {
		return nil, errs.Locate(err, p.file, rec.line)
	}
	return v, nil
}

// arcRef resolves 0 or A<k>.
func (p *reader) arcRef(f field, rec record) (*graph.Arc, error) {
	if f.text == "0" {
		return nil, nil
	}
	k, err := p.rank(f, 'A', rec)
	if err != nil {
		return nil, err
	}
	if k >= p.arcs.Len() {
		return nil, errs.At(errs.TypeIndexOutOfBounds, p.file, rec.line, f.text,
			"arc rank %d outside [0,%d)", k, p.arcs.Len())
	}
	a, err := p.arcs.Get(k)
	if err != nil {
		return nil, errs.Locate(err, p.file, rec.line)
	}
	return a, nil
}

func (p *reader) rank(f field, sigil byte, rec record) (int, error) {
	if len(f.text) < 2 || f.text[0] != sigil {
		return 0, errs.At(errs.TypeMalformedField, p.file, rec.line, f.text,
			"reference must be 0 or %c<rank>", sigil)
	}
	k, err := strconv.Atoi(f.text[1:])
	if err != nil || k < 0 {
		return 0, errs.At(errs.TypeMalformedField, p.file, rec.line, f.text,
			"bad %c rank", sigil)
	}
	return k, nil
}

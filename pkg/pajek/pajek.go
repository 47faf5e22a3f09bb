// Package pajek reads and writes the Pajek .net network format:
//
//	*network <id>
//	*vertices <n>
//	1 "name"
//	*arcs
//	1 2 [length]
//	*edges
//	2 3 [length]
//
// Vertex numbers are 1-based. Lines starting with % are comments. Edges are
// added with AddEdge, arcs with AddArc. Utility slots have no Pajek
// counterpart and are not written.
package pajek

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/morozRed/gbgraph/pkg/errs"
	"github.com/morozRed/gbgraph/pkg/graph"
)

// Extension is the file suffix of Pajek networks.
const Extension = ".net"

const defaultLength = 1

type section int

const (
	sectionNone section = iota
	sectionNetwork
	sectionVertices
	sectionArcs
	sectionEdges
)

type reader struct {
	file    string
	id      string
	g       *graph.Graph
	names   []string
	section section
}

// Read parses a Pajek network. name labels error positions.
func Read(r io.Reader, name string) (*graph.Graph, error) {
	p := &reader{file: name}
	br := bufio.NewReader(r)
	lineno := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errs.Wrap(errs.TypeIO, err, "failed to read %s", name)
		}
		if line == "" && err != nil {
			break
		}
		lineno++
		text := strings.TrimSpace(line)
		if text != "" && text[0] != '%' {
			if perr := p.line(lineno, text); perr != nil {
				return nil, perr
			}
		}
		if err != nil {
			break
		}
	}
	if p.g == nil {
		return nil, errs.At(errs.TypeInvalidHeader, name, lineno, "", "missing *vertices section")
	}
	if err := p.materialize(lineno); err != nil {
		return nil, err
	}
	return p.g, nil
}

func (p *reader) line(lineno int, text string) error {
	if text[0] == '*' {
		return p.marker(lineno, text)
	}
	switch p.section {
	case sectionVertices:
		return p.vertex(lineno, text)
	case sectionArcs, sectionEdges:
		return p.arc(lineno, text)
	default:
		return errs.At(errs.TypeMalformedField, p.file, lineno, text, "line outside any section")
	}
}

func (p *reader) marker(lineno int, text string) error {
	keyword, rest, _ := strings.Cut(text[1:], " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(keyword) {
	case "network":
		if p.g != nil {
			return errs.At(errs.TypeMalformedField, p.file, lineno, text, "*network must precede *vertices")
		}
		p.id = unquote(rest)
		p.section = sectionNetwork
	case "vertices":
		if p.g != nil {
			return errs.At(errs.TypeMalformedField, p.file, lineno, text, "repeated *vertices section")
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return errs.At(errs.TypeInvalidHeader, p.file, lineno, text, "vertex count missing")
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n <= 0 {
			return errs.At(errs.TypeInvalidHeader, p.file, lineno, text, "vertex count must be positive")
		}
		opts := []graph.Option{}
		if p.id != "" {
			opts = append(opts, graph.WithID(p.id))
		}
		g, err := graph.New(n, opts...)
		if err != nil {
			return errs.Locate(err, p.file, lineno)
		}
		p.g = g
		p.names = make([]string, n)
		p.section = sectionVertices
	case "arcs", "edges":
		if p.g == nil {
			return errs.At(errs.TypeMalformedField, p.file, lineno, text, "*%s before *vertices", keyword)
		}
		if err := p.materialize(lineno); err != nil {
			return err
		}
		p.section = sectionArcs
		if strings.EqualFold(keyword, "edges") {
			p.section = sectionEdges
		}
	default:
		return errs.At(errs.TypeUnknownSection, p.file, lineno, text, "unknown section %q", keyword)
	}
	return nil
}

func (p *reader) vertex(lineno int, text string) error {
	num, rest, _ := strings.Cut(text, " ")
	k, err := p.number(lineno, num)
	if err != nil {
		return err
	}
	name := unquote(strings.TrimSpace(rest))
	if name == "" {
		return nil
	}
	if p.names[k-1] != "" {
		return errs.At(errs.TypeMalformedField, p.file, lineno, text, "vertex %d listed twice", k)
	}
	p.names[k-1] = name
	return nil
}

// materialize creates the vertices in number order once the vertex list
// is complete. Unlisted vertices are named by their number.
func (p *reader) materialize(lineno int) error {
	if p.g.Order() > 0 {
		return nil
	}
	for i, name := range p.names {
		if name == "" {
			name = strconv.Itoa(i + 1)
			p.names[i] = name
		}
		v, err := p.g.AddVertex(name)
		if err != nil {
			return errs.Locate(err, p.file, lineno)
		}
		if v.Rank() != i {
			return errs.At(errs.TypeMalformedField, p.file, lineno, name, "duplicate vertex name")
		}
	}
	return nil
}

func (p *reader) arc(lineno int, text string) error {
	fields := strings.Fields(text)
	if len(fields) < 2 || len(fields) > 3 {
		return errs.At(errs.TypeMalformedField, p.file, lineno, text, "expected \"from to [length]\"")
	}
	v, err := p.number(lineno, fields[0])
	if err != nil {
		return err
	}
	w, err := p.number(lineno, fields[1])
	if err != nil {
		return err
	}
	length := int64(defaultLength)
	if len(fields) == 3 {
		f, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return errs.At(errs.TypeMalformedField, p.file, lineno, fields[2], "length is not a number")
		}
		// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return errs.At(errs.TypeMalformedField, p.file, lineno, fields[2], "length out of range")
		}
		length = int64(f)
	}
	from, to := p.names[v-1], p.names[w-1]
	if p.section == sectionEdges {
		err = p.g.AddEdge(from, to, length)
	} else {
		err = p.g.AddArc(from, to, length)
	}
	return errs.Locate(err, p.file, lineno)
}

func (p *reader) number(lineno int, s string) (int, error) {
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.At(errs.TypeMalformedField, p.file, lineno, s, "vertex number expected")
	}
	if k < 1 || k > len(p.names) {
		return 0, errs.At(errs.TypeIndexOutOfBounds, p.file, lineno, s,
			"vertex number outside [1,%d]", len(p.names))
	}
	return k, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Write serializes the vertices and arcs of g. Every arc is written under
// *arcs; null and boolean tips are skipped.
func Write(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)
	if id := g.ID(); id != "" {
		fmt.Fprintf(bw, "*network %s\n", id)
	}
	fmt.Fprintf(bw, "*vertices %d\n", g.Order())
	for v := range g.Vertices() {
		name := v.Name()
		if strings.Contains(name, "\"") {
			return errs.At(errs.TypeMalformedField, "", 0, name, "vertex name contains a quote")
		}
		if v.NameAtom() == nil {
			fmt.Fprintf(bw, "%d\n", v.Rank()+1)
			continue
		}
		fmt.Fprintf(bw, "%d \"%s\"\n", v.Rank()+1, name)
	}
	fmt.Fprintln(bw, "*arcs")
	for v := range g.Vertices() {
		for a := range v.Arcs() {
			tip := a.Tip()
			if tip == nil || tip == graph.True {
				continue
			}
			if tip.Graph() != g || tip.Rank() >= g.Order() {
				return errs.New(errs.TypeIndexOutOfBounds, "arc tip belongs to another graph")
			}
			fmt.Fprintf(bw, "%d %d %d\n", v.Rank()+1, tip.Rank()+1, a.Len())
		}
	}
	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.TypeIO, err, "failed to write network")
	}
	return nil
}

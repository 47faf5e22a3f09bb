// Package algo runs depth-first algorithms over a snapshot of a graph's
// adjacency lists: DFS orderings, strongly connected components and
// degree statistics.
package algo

import (
	"math"

	"github.com/morozRed/gbgraph/pkg/graph"
)

// Digraph is an adjacency snapshot indexed by vertex rank. Arcs to a null
// tip, to the boolean-true sentinel or to another graph are left out.
type Digraph struct {
	adj  [][]int
	arcs int
}

// FromGraph snapshots the adjacency lists of g in list order.
func FromGraph(g *graph.Graph) *Digraph {
	d := &Digraph{adj: make([][]int, g.Order())}
	for v := range g.Vertices() {
		for a := range v.Arcs() {
			w := a.Tip()
			if w == nil || w == graph.True || w.Graph() != g || w.Rank() >= g.Order() {
				continue
			}
			d.adj[v.Rank()] = append(d.adj[v.Rank()], w.Rank())
			d.arcs++
		}
	}
	return d
}

// V returns the number of vertices.
func (d *Digraph) V() int {
	return len(d.adj)
}

// E returns the number of arcs kept in the snapshot.
func (d *Digraph) E() int {
	return d.arcs
}

// Adj returns the tips of the arcs leaving v.
func (d *Digraph) Adj(v int) []int {
	return d.adj[v]
}

// Reverse returns a digraph with every arc turned around.
func (d *Digraph) Reverse() *Digraph {
	r := &Digraph{adj: make([][]int, len(d.adj)), arcs: d.arcs}
	for v, tips := range d.adj {
		for _, w := range tips {
			r.adj[w] = append(r.adj[w], v)
		}
	}
	return r
}

// DegreeStats returns the mean and sample standard deviation of the
// outdegrees, computed in one pass with running means.
func (d *Digraph) DegreeStats() (mean, stddev float64) {
	var sum float64
	for k, tips := range d.adj {
		x := float64(len(tips))
		prev := mean
		mean += (x - prev) / float64(k+1)
		sum += (x - prev) * (x - mean)
	}
	if len(d.adj) < 2 {
		return mean, 0
	}
	return mean, math.Sqrt(sum / float64(len(d.adj)-1))
}

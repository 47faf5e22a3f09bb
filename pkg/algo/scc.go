package algo

// Components labels each vertex with its strongly connected component.
type Components struct {
	id    []int
	sizes []int
}

// StronglyConnected finds the strongly connected components of d with the
// Kosaraju-Sharir algorithm: a search of d in the reverse postorder of the
// reversed digraph reaches exactly one component per start vertex.
func StronglyConnected(d *Digraph) *Components {
	c := &Components{id: make([]int, d.V())}
	visited := make([]bool, d.V())
	for _, s := range DepthFirstOrder(d.Reverse()).ReversePost() {
		if visited[s] {
			continue
		}
		comp := len(c.sizes)
		c.sizes = append(c.sizes, 0)
		walk(d, s, visited, func(v int) {
			c.id[v] = comp
			c.sizes[comp]++
		}, func(int) {})
	}
	return c
}

// Count returns the number of components.
func (c *Components) Count() int {
	return len(c.sizes)
}

// ID returns the component of vertex v, numbered from 0 in discovery order.
func (c *Components) ID(v int) int {
	return c.id[v]
}

// Strong reports whether v and w are mutually reachable.
func (c *Components) Strong(v, w int) bool {
	return c.id[v] == c.id[w]
}

// Sizes returns the vertex count of each component, indexed by ID.
func (c *Components) Sizes() []int {
	return c.sizes
}

// Largest returns the vertex count of the biggest component, 0 for an
// empty digraph.
func (c *Components) Largest() int {
	largest := 0
	for _, n := range c.sizes {
		largest = max(largest, n)
	}
	return largest
}

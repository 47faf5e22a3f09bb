package algo

// Order holds the preorder and postorder of a full depth-first search.
type Order struct {
	pre  []int
	post []int
}

// DepthFirstOrder visits every vertex in rank order, starting a new search
// from each vertex not reached yet. The walk uses an explicit stack, so deep
// graphs do not grow the goroutine stack.
func DepthFirstOrder(d *Digraph) *Order {
	o := &Order{
		pre:  make([]int, 0, d.V()),
		post: make([]int, 0, d.V()),
	}
	visited := make([]bool, d.V())
	for s := range d.V() {
		if !visited[s] {
			walk(d, s, visited, func(v int) { o.pre = append(o.pre, v) }, func(v int) { o.post = append(o.post, v) })
		}
	}
	return o
}

// Pre returns the vertices in the order the search first reached them.
func (o *Order) Pre() []int {
	return o.pre
}

// Post returns the vertices in the order the search finished them.
func (o *Order) Post() []int {
	return o.post
}

// ReversePost returns the postorder reversed.
func (o *Order) ReversePost() []int {
	out := make([]int, len(o.post))
	for i, v := range o.post {
		out[len(o.post)-1-i] = v
	}
	return out
}

type frame struct {
	v    int
	next int
}

// walk runs a depth-first search from s over unvisited vertices, calling
// enter and leave the way a recursive search would.
func walk(d *Digraph, s int, visited []bool, enter, leave func(int)) {
	visited[s] = true
	enter(s)
	stack := []frame{{v: s}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		tips := d.adj[top.v]
		if top.next == len(tips) {
			leave(top.v)
			stack = stack[:len(stack)-1]
			continue
		}
		w := tips[top.next]
		top.next++
		if !visited[w] {
			visited[w] = true
			enter(w)
			stack = append(stack, frame{v: w})
		}
	}
}

package store

const defaultChunk = 256

// Pool allocates elements in chunks. Allocated elements are never moved or
// reused until Reset.
type Pool[T any] struct {
	chunkSize int
	chunks    [][]T
	used      int // elements handed out from the last chunk
	count     int
}

// NewPool creates a pool allocating chunkSize elements at a time.
// A non-positive chunkSize selects a default.
func NewPool[T any](chunkSize int) *Pool[T] {
	if chunkSize <= 0 {
		chunkSize = defaultChunk
	}
	return &Pool[T]{chunkSize: chunkSize}
}

// Alloc returns a pointer to a fresh zero-valued element.
func (p *Pool[T]) Alloc() *T {
	if len(p.chunks) == 0 || p.used == p.chunkSize {
		p.chunks = append(p.chunks, make([]T, p.chunkSize))
		p.used = 0
	}
	elem := &p.chunks[len(p.chunks)-1][p.used]
	p.used++
	p.count++
	return elem
}

// Len returns the number of elements handed out since the last Reset.
func (p *Pool[T]) Len() int {
	return p.count
}

// Reset releases every chunk.
func (p *Pool[T]) Reset() {
	p.chunks = nil
	p.used = 0
	p.count = 0
}

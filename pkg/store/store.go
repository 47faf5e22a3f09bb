// Package store provides rank-addressed storage whose elements never move.
//
// Store is a fixed-capacity array addressed by 0-based rank; a GraphBase file
// encodes cross-references as these ranks, so they must stay stable for the
// lifetime of the store. Pool hands out individually allocated elements from
// fixed-size chunks.
package store

import (
	"iter"

	"github.com/morozRed/gbgraph/pkg/errs"
)

// MaxCapacity bounds the capacity of a single Store. Counts declared by an
// input file are checked against it before anything is allocated.
const MaxCapacity = 1 << 26

// Store is a fixed-capacity, rank-addressed array.
type Store[T any] struct {
	elems []T
}

// New allocates a store of exactly n zero-valued elements.
func New[T any](n int) (*Store[T], error) {
	if n < 0 || n > MaxCapacity {
		return nil, errs.New(errs.TypeAllocationFailure,
			"cannot allocate %d elements (limit %d)", n, MaxCapacity)
	}
	return &Store[T]{elems: make([]T, n)}, nil
}

// Len returns the capacity the store was created with.
func (s *Store[T]) Len() int {
	return len(s.elems)
}

// Get returns a pointer to the element at rank. The pointer stays valid for
// the lifetime of the store.
func (s *Store[T]) Get(rank int) (*T, error) {
	if rank < 0 || rank >= len(s.elems) {
		return nil, errs.New(errs.TypeIndexOutOfBounds,
			"rank %d outside [0,%d)", rank, len(s.elems))
	}
	return &s.elems[rank], nil
}

// Set overwrites the element at rank.
func (s *Store[T]) Set(rank int, value T) error {
	p, err := s.Get(rank)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// All yields every rank with a pointer to its element.
func (s *Store[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range s.elems {
			if !yield(i, &s.elems[i]) {
				return
			}
		}
	}
}

// Package hashmap implements a chained hash table with a pluggable hash and
// equality. The default equality is ==, which for pointer keys is identity:
// callers that need content equality intern their keys first.
package hashmap

import (
	"fmt"
	"hash/maphash"
	"iter"
)

// ladder lists the bucket counts a map may have. The size hint is rounded up
// to the first entry that is at least the hint.
var ladder = [...]int{509, 1021, 2053, 4093, 8191, 16381, 32771, 65521}

// maxLoad is the average chain length that triggers a rehash to the next
// ladder entry. Past the last entry chains simply get longer.
const maxLoad = 2

type binding[K comparable, V any] struct {
	link  *binding[K, V]
	key   K
	value V
}

// Map is a chained hash table. It is not safe for concurrent use.
type Map[K comparable, V any] struct {
	hash    func(K) uint64
	equal   func(a, b K) bool
	buckets []*binding[K, V]
	rung    int
	length  int
	// stamp is incremented on every modification.
	stamp uint64
}

// New returns a map keyed by identity with room for about hint entries
// before its first rehash.
func New[K comparable, V any](hint int) *Map[K, V] {
	return NewFunc[K, V](hint, nil, nil)
}

// NewFunc returns a map using the given hash and equality functions.
// A nil hash defaults to maphash.Comparable, a nil equal to ==.
func NewFunc[K comparable, V any](hint int, hash func(K) uint64, equal func(a, b K) bool) *Map[K, V] {
	if hint < 0 {
		panic(fmt.Sprintf("hashmap: negative size hint %d", hint))
	}
	if hash == nil {
		seed := maphash.MakeSeed()
		hash = func(k K) uint64 { return maphash.Comparable(seed, k) }
	}
	if equal == nil {
		equal = func(a, b K) bool { return a == b }
	}
	rung := 0
	for rung < len(ladder)-1 && ladder[rung] < hint {
		rung++
	}
	return &Map[K, V]{
		hash:    hash,
		equal:   equal,
		buckets: make([]*binding[K, V], ladder[rung]),
		rung:    rung,
	}
}

func (m *Map[K, V]) index(key K) int {
	return int(m.hash(key) % uint64(len(m.buckets)))
}

func (m *Map[K, V]) search(key K) *binding[K, V] {
	for p := m.buckets[m.index(key)]; p != nil; p = p.link {
		if m.equal(key, p.key) {
			return p
		}
	}
	return nil
}

// Get returns the value bound to key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if p := m.search(key); p != nil {
		return p.value, true
	}
	var zero V
	return zero, false
}

// Put binds key to value. It returns the previous value and true if key was
// already bound.
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	m.stamp++
	if p := m.search(key); p != nil {
		prev := p.value
		p.value = value
		return prev, true
	}
	i := m.index(key)
	m.buckets[i] = &binding[K, V]{link: m.buckets[i], key: key, value: value}
	m.length++
	if m.length > maxLoad*len(m.buckets) && m.rung < len(ladder)-1 {
		m.rehash(m.rung + 1)
	}
	var zero V
	return zero, false
}

// Remove unbinds key and returns the value it had.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	m.stamp++
	for pp := &m.buckets[m.index(key)]; *pp != nil; pp = &(*pp).link {
		if m.equal(key, (*pp).key) {
			p := *pp
			*pp = p.link
			m.length--
			return p.value, true
		}
	}
	var zero V
	return zero, false
}

// Len returns the number of bindings.
func (m *Map[K, V]) Len() int {
	return m.length
}

// Buckets returns the current number of buckets.
func (m *Map[K, V]) Buckets() int {
	return len(m.buckets)
}

// Stamp returns the modification counter.
func (m *Map[K, V]) Stamp() uint64 {
	return m.stamp
}

// Clear removes every binding and shrinks the table back to its first rung.
func (m *Map[K, V]) Clear() {
	m.stamp++
	m.buckets = make([]*binding[K, V], ladder[0])
	m.rung = 0
	m.length = 0
}

// All iterates over the bindings in bucket order. Modifying the map while
// iterating panics.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		stamp := m.stamp
		for _, head := range m.buckets {
			for p := head; p != nil; p = p.link {
				if !yield(p.key, p.value) {
					return
				}
				if m.stamp != stamp {
					panic("hashmap: map modified during iteration")
				}
			}
		}
	}
}

func (m *Map[K, V]) rehash(rung int) {
	old := m.buckets
	m.buckets = make([]*binding[K, V], ladder[rung])
	m.rung = rung
	for _, head := range old {
		for p := head; p != nil; {
			next := p.link
			i := m.index(p.key)
			p.link = m.buckets[i]
			m.buckets[i] = p
			p = next
		}
	}
}

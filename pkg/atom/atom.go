// Package atom implements a string interner. Interning the same content twice
// yields the same *Atom, so atoms compare by pointer identity.
//
// A Table is owned by a single graph; there is no process-wide table.
// Tables are not safe for concurrent use.
package atom

import (
	"github.com/cespare/xxhash/v2"

	"github.com/morozRed/gbgraph/pkg/errs"
)

const (
	// MaxLen is the longest content, in bytes, a Table accepts.
	MaxLen = 256

	numBuckets = 2048
)

// Atom is an interned string. Two atoms from the same Table are equal
// iff their pointers are equal.
type Atom struct {
	s    string
	hash uint64
	link *Atom
}

// String returns the interned content. A nil atom yields "".
func (a *Atom) String() string {
	if a == nil {
		return ""
	}
	return a.s
}

// Len returns the length of the content in bytes.
func (a *Atom) Len() int {
	if a == nil {
		return 0
	}
	return len(a.s)
}

// Table holds the atoms of one owner.
type Table struct {
	buckets []*Atom
	length  int
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{buckets: make([]*Atom, numBuckets)}
}

// Intern returns the atom for b, creating it on first use.
func (t *Table) Intern(b []byte) (*Atom, error) {
	if len(b) > MaxLen {
		return nil, errs.At(errs.TypeAtomTooLong, "", 0, truncate(string(b)),
			"string of %d bytes exceeds the %d byte limit", len(b), MaxLen)
	}
	h := xxhash.Sum64(b)
	if a := t.find(h, string(b)); a != nil {
		return a, nil
	}
	return t.insert(h, string(b)), nil
}

// InternString is Intern for a string argument.
func (t *Table) InternString(s string) (*Atom, error) {
	if len(s) > MaxLen {
		return nil, errs.At(errs.TypeAtomTooLong, "", 0, truncate(s),
			"string of %d bytes exceeds the %d byte limit", len(s), MaxLen)
	}
	h := xxhash.Sum64String(s)
	if a := t.find(h, s); a != nil {
		return a, nil
	}
	return t.insert(h, s), nil
}

// Lookup returns the atom for b without interning it.
func (t *Table) Lookup(b []byte) (*Atom, bool) {
	if len(b) > MaxLen || t.buckets == nil {
		return nil, false
	}
	a := t.find(xxhash.Sum64(b), string(b))
	return a, a != nil
}

// LookupString is Lookup for a string argument.
func (t *Table) LookupString(s string) (*Atom, bool) {
	if len(s) > MaxLen || t.buckets == nil {
		return nil, false
	}
	a := t.find(xxhash.Sum64String(s), s)
	return a, a != nil
}

// Len returns the number of distinct atoms in the table.
func (t *Table) Len() int {
	return t.length
}

// Free drops every atom. The table may be reused afterwards.
func (t *Table) Free() {
	t.buckets = make([]*Atom, numBuckets)
	t.length = 0
}

func (t *Table) find(h uint64, s string) *Atom {
	if t.buckets == nil {
		t.buckets = make([]*Atom, numBuckets)
	}
	for a := t.buckets[h%numBuckets]; a != nil; a = a.link {
		if a.hash == h && a.s == s {
			return a
		}
	}
	return nil
}

func (t *Table) insert(h uint64, s string) *Atom {
	i := h % numBuckets
	a := &Atom{s: s, hash: h, link: t.buckets[i]}
	t.buckets[i] = a
	t.length++
	return a
}

func truncate(s string) string {
	if len(s) <= 32 {
		return s
	}
	return s[:32] + "..."
}

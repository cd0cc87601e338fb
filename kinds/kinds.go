// Package kinds is a set of helpers for dealing with lists of kind numbers
// including comparisons and encoding.
package kinds

import (
	"sort"

	"evdb.lol/kind"
)

// T is an array of kind.T, used in filter.T for searches.
type T struct {
	K []*kind.T
}

// New creates a new kinds.T, if no parameter is given it just creates an empty zero kinds.T.
func New(k ...*kind.T) *T { return &T{k} }

// NewWithCap creates a new empty kinds.T with a given slice capacity.
func NewWithCap(c int) *T { return &T{make([]*kind.T, 0, c)} }

// FromIntSlice converts a []int into a kinds.T.
func FromIntSlice(is []int) (k *T) {
	k = &T{K: make([]*kind.T, 0, len(is))}
	for i := range is {
		k.K = append(k.K, kind.New(is[i]))
	}
	return
}

// Len returns the number of elements in a kinds.T.
func (k *T) Len() (l int) {
	if k == nil {
		return
	}
	return len(k.K)
}

// Less returns which of two elements of a kinds.T is lower.
func (k *T) Less(i, j int) bool { return k.K[i].K < k.K[j].K }

// Swap switches the position of two kinds.T elements.
func (k *T) Swap(i, j int) { k.K[i], k.K[j] = k.K[j], k.K[i] }

// ToUint16 returns a []uint16 version of the kinds.T.
func (k *T) ToUint16() (o []uint16) {
	if k == nil {
		return
	}
	o = make([]uint16, 0, len(k.K))
	for i := range k.K {
		o = append(o, k.K[i].ToU16())
	}
	return
}

// Clone makes a new kinds.T with the same members.
func (k *T) Clone() (c *T) {
	if k == nil {
		return
	}
	c = &T{K: make([]*kind.T, len(k.K))}
	copy(c.K, k.K)
	return
}

// Contains returns true if the provided element is found in the kinds.T.
func (k *T) Contains(s *kind.T) bool {
	if k == nil {
		return false
	}
	for i := range k.K {
		if k.K[i].Equal(s) {
			return true
		}
	}
	return false
}

// Sorted returns a copy of the kinds in ascending order with duplicates removed,
// which is the canonical form used for fingerprinting filters.
func (k *T) Sorted() (c *T) {
	c = k.Clone()
	if c == nil {
		return
	}
	sort.Sort(c)
	out := c.K[:0]
	for i := range c.K {
		if i > 0 && c.K[i].K == c.K[i-1].K {
			continue
		}
		out = append(out, c.K[i])
	}
	c.K = out
	return
}

// Marshal appends the JSON array form of the kinds to dst.
func (k *T) Marshal(dst []byte) (b []byte) {
	b = append(dst, '[')
	for i := 0; i < k.Len(); i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = k.K[i].Marshal(b)
	}
	return append(b, ']')
}

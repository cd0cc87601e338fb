// Package tags provides the list of tags of an event, with helpers to find tags
// by prefix and to extract the tags a filter can query.
package tags

import (
	"evdb.lol/tag"
)

// T is a list of T - which are lists of string elements with ordering and no
// uniqueness constraint (not a set).
type T struct {
	t []*tag.T
}

// New creates a tags.T from a list of tags.
func New(fields ...*tag.T) (t *T) {
	t = &T{t: make([]*tag.T, 0, len(fields))}
	t.t = append(t.t, fields...)
	return
}

// NewWithCap creates an empty tags.T with room for c tags.
func NewWithCap(c int) (t *T) { return &T{t: make([]*tag.T, 0, c)} }

// FromStringSlices builds a tags.T from the JSON form of a tag list.
func FromStringSlices(s ...[]string) (t *T) {
	t = NewWithCap(len(s))
	for _, fields := range s {
		t.t = append(t.t, tag.New(fields...))
	}
	return
}

// F returns the underlying list of tags.
func (t *T) F() (tt []*tag.T) {
	if t == nil {
		return
	}
	return t.t
}

// N returns the tag at position i, or nil if out of range.
func (t *T) N(i int) (tt *tag.T) {
	if t == nil || i < 0 || len(t.t) <= i {
		return
	}
	return t.t[i]
}

// Len returns the number of tags.
func (t *T) Len() (l int) {
	if t == nil {
		return
	}
	return len(t.t)
}

// AppendTags adds tags to the list, allocating the list if it is nil.
func (t *T) AppendTags(ttt ...*tag.T) (tt *T) {
	if t == nil {
		t = NewWithCap(len(ttt))
	}
	t.t = append(t.t, ttt...)
	return t
}

// ToStringSlice returns the JSON form of the tag list.
func (t *T) ToStringSlice() (b [][]string) {
	b = make([][]string, 0, t.Len())
	for _, v := range t.F() {
		b = append(b, v.ToStringSlice())
	}
	return
}

// Clone makes a deep copy of the tag list.
func (t *T) Clone() (c *T) {
	if t == nil {
		return
	}
	c = NewWithCap(len(t.t))
	for _, v := range t.t {
		c.t = append(c.t, v.Clone())
	}
	return
}

// Equal checks that two tag lists have the same tags in the same order.
func (t *T) Equal(ta *T) bool {
	if t.Len() != ta.Len() {
		return false
	}
	for i := range t.F() {
		if !t.t[i].Equal(ta.t[i]) {
			return false
		}
	}
	return true
}

// GetFirst gets the first tag in tags that matches the prefix, see [tag.T.StartsWith]
func (t *T) GetFirst(tagPrefix *tag.T) *tag.T {
	for _, v := range t.F() {
		if v.StartsWith(tagPrefix) {
			return v
		}
	}
	return nil
}

// GetAll gets all the tags that match the prefix, see [tag.T.StartsWith]
func (t *T) GetAll(tagPrefix *tag.T) *T {
	result := NewWithCap(t.Len())
	for _, v := range t.F() {
		if v.StartsWith(tagPrefix) {
			result.t = append(result.t, v)
		}
	}
	return result
}

// GetD returns the value of the first `d` tag, the identifier of an
// addressable event, or an empty string if there is none.
func (t *T) GetD() (d string) {
	for _, v := range t.F() {
		if v.Key() == "d" && v.Len() >= 2 {
			return v.Value()
		}
	}
	return
}

// Indexable returns the `x:value` keys of every single letter tag with a value,
// without duplicates, in order of first appearance.
func (t *T) Indexable() (keys []string) {
	seen := make(map[string]struct{}, t.Len())
	for _, v := range t.F() {
		if !v.IsIndexable() {
			continue
		}
		k := v.Key() + ":" + v.Value()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return
}

// ContainsAny returns true if any indexable tag with the given key has its
// value among values. Tags with an empty value never match, the same as the tag
// indexes of the store.
func (t *T) ContainsAny(tagName string, values []string) bool {
	if tagName == "" {
		return false
	}
	for _, v := range t.F() {
		if !v.IsIndexable() || v.Key() != tagName {
			continue
		}
		for _, candidate := range values {
			if v.Value() == candidate {
				return true
			}
		}
	}
	return false
}

// Marshal appends the JSON encoded form of T as [][]string to dst. String
// escaping is as described in NIP-01.
func (t *T) Marshal(dst []byte) []byte {
	dst = append(dst, '[')
	for i, tt := range t.F() {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = tt.Marshal(dst)
	}
	return append(dst, ']')
}

// Package tag provides an implementation of a nostr tag, an array of strings
// with a usually single letter first "key" field, including methods to compare,
// marshal and access elements with their proper semantics.
package tag

import (
	"strings"

	"golang.org/x/exp/constraints"

	"evdb.lol/text"
)

// The tag position meanings, so they are clear when reading.
const (
	Key = iota
	Value
	Relay
)

// T is a list of strings with a literal ordering.
//
// Not a set, there can be repeating elements.
type T struct {
	field []string
}

// New creates a new tag.T from a variadic list of fields.
func New(fields ...string) (t *T) {
	t = &T{field: make([]string, len(fields))}
	copy(t.field, fields)
	return
}

// NewWithCap creates a new empty tag.T with a pre-allocated capacity for some number of fields.
func NewWithCap[V constraints.Integer](c V) *T { return &T{make([]string, 0, c)} }

// S returns a field of a tag.T, or an empty string when out of range.
func (t *T) S(i int) (s string) {
	if t == nil || i < 0 || t.Len() <= i {
		return
	}
	return t.field[i]
}

// Len returns the number of elements in a tag.T.
func (t *T) Len() int {
	if t == nil {
		return 0
	}
	return len(t.field)
}

// Clone makes a new tag.T with the same members.
func (t *T) Clone() (c *T) {
	if t == nil {
		return
	}
	return New(t.field...)
}

// Append adds fields to the end of a tag.T.
func (t *T) Append(s ...string) (tt *T) {
	tt = t
	if t == nil {
		tt = &T{}
	}
	tt.field = append(tt.field, s...)
	return
}

// ToStringSlice converts a tag.T to a slice of strings.
func (t *T) ToStringSlice() (s []string) {
	if t == nil {
		return []string{}
	}
	s = make([]string, len(t.field))
	copy(s, t.field)
	return
}

// StartsWith checks a tag has the same initial set of elements.
//
// The last element is treated specially in that it is considered to match if
// the candidate has the same initial substring as its corresponding element.
func (t *T) StartsWith(prefix *T) bool {
	prefixLen := prefix.Len()
	if prefixLen == 0 {
		return true
	}
	if prefixLen > t.Len() {
		return false
	}
	for i := 0; i < prefixLen-1; i++ {
		if prefix.field[i] != t.field[i] {
			return false
		}
	}
	return strings.HasPrefix(t.field[prefixLen-1], prefix.field[prefixLen-1])
}

// Key returns the first element of the tag.
func (t *T) Key() string { return t.S(Key) }

// Value returns the second element of the tag.
func (t *T) Value() string { return t.S(Value) }

// Relay returns the third element of the tag if it is an e or p tag.
func (t *T) Relay() (s string) {
	if k := t.Key(); k == "e" || k == "p" {
		return t.S(Relay)
	}
	return
}

// IsIndexable reports whether the tag is a single letter key with a non-empty
// value, the only kind of tag that filters can query with the `#x` syntax.
func (t *T) IsIndexable() bool {
	return t.Len() >= 2 && len(t.field[Key]) == 1 && t.field[Value] != ""
}

// Marshal encodes a tag.T as standard minified JSON array of strings.
func (t *T) Marshal(dst []byte) (b []byte) {
	dst = append(dst, '[')
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = text.AppendQuote(dst, t.field[i])
	}
	return append(dst, ']')
}

// Contains returns true if the provided element is found in the tag.
func (t *T) Contains(s string) (b bool) {
	for i := 0; i < t.Len(); i++ {
		if t.field[i] == s {
			return true
		}
	}
	return false
}

// Equal checks that the provided tag matches.
func (t *T) Equal(ta *T) bool {
	if t.Len() != ta.Len() {
		return false
	}
	for i := 0; i < t.Len(); i++ {
		if t.field[i] != ta.field[i] {
			return false
		}
	}
	return true
}

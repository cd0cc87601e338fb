// Package filters is a set of tools for working with multiple nostr filters.
package filters

import (
	"github.com/tidwall/gjson"

	"evdb.lol/event"
	"evdb.lol/filter"
	"evdb.lol/hex"
)

// T is a wrapper around an array of pointers to filter.T.
type T struct {
	F []*filter.T
}

// New creates a new filters.T out of a variadic list of filter.T.
func New(ff ...*filter.T) (f *T) { return &T{F: ff} }

// Len returns the number of elements in a filters.T.
func (f *T) Len() int {
	if f == nil {
		return 0
	}
	return len(f.F)
}

// Match checks if a set of filters.T matches on an event.T.
func (f *T) Match(ev *event.T) bool {
	if f == nil {
		return false
	}
	for _, ff := range f.F {
		if ff.Matches(ev) {
			return true
		}
	}
	return false
}

// Clone copies every filter in the list.
func (f *T) Clone() (c *T) {
	c = &T{F: make([]*filter.T, 0, f.Len())}
	for _, ff := range f.F {
		c.F = append(c.F, ff.Clone())
	}
	return
}

// Marshal a filters.T into its canonical JSON array form, appending it to dst.
// The order of the filters is kept.
func (f *T) Marshal(dst []byte) (b []byte) {
	b = append(dst, '[')
	for i, ff := range f.F {
		if i > 0 {
			b = append(b, ',')
		}
		b = ff.Marshal(b)
	}
	return append(b, ']')
}

// String returns the canonical form of the filters.
func (f *T) String() (s string) { return string(f.Marshal(nil)) }

// Fingerprint is the hex SHA256 of the canonical form of the filter list.
func (f *T) Fingerprint() string { return hex.Enc(event.Hash(f.Marshal(nil))) }

// GetFingerprints returns the fingerprint of each filter.
func (f *T) GetFingerprints() (fps []string) {
	for _, ff := range f.F {
		fps = append(fps, ff.Fingerprint())
	}
	return
}

// Unmarshal a JSON array of filters, replacing the content of f.
func (f *T) Unmarshal(b []byte) (err error) {
	if !gjson.ValidBytes(b) {
		err = errorf.D("invalid JSON in filter list: %s", b)
		return
	}
	res := gjson.ParseBytes(b)
	if !res.IsArray() {
		err = errorf.D("filter list is not a JSON array: %s", b)
		return
	}
	f.F = f.F[:0]
	for _, item := range res.Array() {
		ff := filter.New()
		if err = ff.Unmarshal([]byte(item.Raw)); chk.D(err) {
			return
		}
		f.F = append(f.F, ff)
	}
	return
}

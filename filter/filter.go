// Package filter is the nostr filter (query) type, with a decoder for its JSON
// form, a matcher for events, and a canonical encoding so that the same set of
// criteria always produces the same fingerprint.
package filter

import (
	"sort"
	"strconv"

	"github.com/tidwall/gjson"

	"evdb.lol/event"
	"evdb.lol/hex"
	"evdb.lol/kind"
	"evdb.lol/kinds"
	"evdb.lol/tag"
	"evdb.lol/tags"
	"evdb.lol/text"
	"evdb.lol/timestamp"
)

// T is the primary query form for requesting events.
//
// Tag criteria are kept as tags whose first field is the filter key, "#" and
// one letter, followed by the accepted values:
//
//	[["#p","<pubkey1>","<pubkey3>"],["#t","hashtag","stuff"]]
//
// The ordering of fields is not meaningful, the canonical form produced by
// Marshal sorts them so that an identical set of criteria encodes identically.
type T struct {
	IDs     []string
	Kinds   *kinds.T
	Authors []string
	Tags    *tags.T
	Since   *timestamp.T
	Until   *timestamp.T
	Search  string
	Limit   *uint
}

// New creates a new empty filter, which matches every event.
func New() (f *T) { return &T{Kinds: kinds.New(), Tags: tags.New()} }

// Criterion is one tag condition of a filter: the event must carry a tag named
// Key with a value among Values.
type Criterion struct {
	Key    string
	Values []string
}

// IndexKeys returns the `x:value` keys of the tag index that satisfy the
// criterion.
func (c Criterion) IndexKeys() (keys []string) {
	keys = make([]string, 0, len(c.Values))
	for _, v := range c.Values {
		keys = append(keys, c.Key+":"+v)
	}
	return
}

// Criteria returns the tag conditions of the filter, in order of appearance.
// Entries that are not of the form "#x" are skipped.
func (f *T) Criteria() (c []Criterion) {
	for _, tg := range f.Tags.F() {
		k := tg.Key()
		if len(k) != 2 || k[0] != '#' || !isLetter(k[1]) {
			continue
		}
		c = append(c, Criterion{Key: k[1:], Values: tg.ToStringSlice()[1:]})
	}
	return
}

// AddTag appends a tag criterion for the single letter tag name.
func (f *T) AddTag(name string, values ...string) *T {
	if f.Tags == nil {
		f.Tags = tags.New()
	}
	f.Tags.AppendTags(tag.New(append([]string{"#" + name}, values...)...))
	return f
}

// HasTimeBound reports whether since or until is set.
func (f *T) HasTimeBound() bool { return f.Since != nil || f.Until != nil }

// Clone creates a copy of the filter that shares nothing mutable with it.
func (f *T) Clone() (c *T) {
	if f == nil {
		return
	}
	c = &T{
		IDs:     append([]string(nil), f.IDs...),
		Kinds:   f.Kinds.Clone(),
		Authors: append([]string(nil), f.Authors...),
		Tags:    f.Tags.Clone(),
		Search:  f.Search,
	}
	if f.Since != nil {
		c.Since = f.Since.Ptr()
	}
	if f.Until != nil {
		c.Until = f.Until.Ptr()
	}
	if f.Limit != nil {
		l := *f.Limit
		c.Limit = &l
	}
	return
}

// Matches checks a filter against an event and determines if the event matches
// the filter. The limit plays no part. A filter with a search term matches
// nothing, as full text search is not done here.
func (f *T) Matches(ev *event.T) bool {
	if ev == nil || f.Search != "" {
		return false
	}
	if len(f.IDs) > 0 && !contains(f.IDs, ev.ID) {
		return false
	}
	if f.Kinds.Len() > 0 && !f.Kinds.Contains(ev.Kind) {
		return false
	}
	if len(f.Authors) > 0 && !contains(f.Authors, ev.Pubkey) {
		return false
	}
	for _, c := range f.Criteria() {
		if !ev.Tags.ContainsAny(c.Key, c.Values) {
			return false
		}
	}
	if f.Since != nil && ev.CreatedAt < *f.Since {
		return false
	}
	if f.Until != nil && ev.CreatedAt > *f.Until {
		return false
	}
	return true
}

// Marshal appends the canonical minified JSON form of the filter to dst. Lists
// are sorted and deduplicated and tag criteria ordered by key, so that filters
// with the same criteria produce the same bytes. The filter is not modified.
func (f *T) Marshal(dst []byte) (b []byte) {
	b = append(dst, '{')
	first := true
	key := func(k string) {
		if !first {
			b = append(b, ',')
		}
		first = false
		b = text.AppendQuote(b, k)
		b = append(b, ':')
	}
	if len(f.IDs) > 0 {
		key("ids")
		b = appendStrings(b, sortedSet(f.IDs))
	}
	if f.Kinds.Len() > 0 {
		key("kinds")
		b = f.Kinds.Sorted().Marshal(b)
	}
	if len(f.Authors) > 0 {
		key("authors")
		b = appendStrings(b, sortedSet(f.Authors))
	}
	crit := f.Criteria()
	sort.SliceStable(crit, func(i, j int) bool { return crit[i].Key < crit[j].Key })
	for _, c := range crit {
		key("#" + c.Key)
		b = appendStrings(b, sortedSet(c.Values))
	}
	if f.Since != nil {
		key("since")
		b = f.Since.Marshal(b)
	}
	if f.Until != nil {
		key("until")
		b = f.Until.Marshal(b)
	}
	if f.Search != "" {
		key("search")
		b = text.AppendQuote(b, f.Search)
	}
	if f.Limit != nil {
		key("limit")
		b = strconv.AppendUint(b, uint64(*f.Limit), 10)
	}
	b = append(b, '}')
	return
}

// Serialize a filter.T into its canonical JSON form.
func (f *T) Serialize() (b []byte) { return f.Marshal(nil) }

// Fingerprint is the hex encoded SHA256 of the canonical form, identifying the
// query the filter expresses.
func (f *T) Fingerprint() string { return hex.Enc(event.Hash(f.Marshal(nil))) }

// Equal reports whether two filters express the same query.
func (f *T) Equal(b *T) bool { return string(f.Serialize()) == string(b.Serialize()) }

// Unmarshal decodes the JSON form of a filter. Unknown keys are an error, as
// are ids and authors that are not 64 character hex.
func (f *T) Unmarshal(b []byte) (err error) {
	if !gjson.ValidBytes(b) {
		err = errorf.D("invalid JSON in filter: %s", b)
		return
	}
	res := gjson.ParseBytes(b)
	if !res.IsObject() {
		err = errorf.D("filter is not a JSON object: %s", b)
		return
	}
	*f = *New()
	res.ForEach(func(k, v gjson.Result) bool {
		switch key := k.String(); {
		case key == "ids":
			f.IDs, err = hexArray(key, v)
		case key == "authors":
			f.Authors, err = hexArray(key, v)
		case key == "kinds":
			if !v.IsArray() {
				err = errorf.D("kinds must be an array, got %s", v.Raw)
				break
			}
			for _, kv := range v.Array() {
				n := kv.Int()
				if kv.Type != gjson.Number || n < 0 || n > 65535 {
					err = errorf.D("invalid kind %s", kv.Raw)
					break
				}
				f.Kinds.K = append(f.Kinds.K, kind.New(n))
			}
		case key == "since":
			f.Since, err = timeValue(key, v)
		case key == "until":
			f.Until, err = timeValue(key, v)
		case key == "search":
			if v.Type != gjson.String {
				err = errorf.D("search must be a string, got %s", v.Raw)
				break
			}
			f.Search = v.String()
		case key == "limit":
			if v.Type != gjson.Number || v.Int() < 0 {
				err = errorf.D("invalid limit %s", v.Raw)
				break
			}
			l := uint(v.Uint())
			f.Limit = &l
		case len(key) == 2 && key[0] == '#' && isLetter(key[1]):
			if !v.IsArray() {
				err = errorf.D("tag filter %s must be an array, got %s", key, v.Raw)
				break
			}
			fields := []string{key}
			for _, tv := range v.Array() {
				fields = append(fields, tv.String())
			}
			f.Tags.AppendTags(tag.New(fields...))
		default:
			err = errorf.D("unknown filter key %q", key)
		}
		return err == nil
	})
	return
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *T) UnmarshalJSON(b []byte) error { return f.Unmarshal(b) }

// MarshalJSON implements json.Marshaler with the canonical form.
func (f *T) MarshalJSON() ([]byte, error) { return f.Marshal(nil), nil }

func hexArray(key string, v gjson.Result) (out []string, err error) {
	if !v.IsArray() {
		err = errorf.D("%s must be an array, got %s", key, v.Raw)
		return
	}
	for _, s := range v.Array() {
		if !hex.Valid32(s.String()) {
			err = errorf.D("invalid value in %s: %s", key, s.Raw)
			return
		}
		out = append(out, s.String())
	}
	return
}

func timeValue(key string, v gjson.Result) (t *timestamp.T, err error) {
	if v.Type != gjson.Number {
		err = errorf.D("%s must be a number, got %s", key, v.Raw)
		return
	}
	t = timestamp.FromUnix(v.Int()).Ptr()
	return
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedSet(list []string) (out []string) {
	out = append([]string(nil), list...)
	sort.Strings(out)
	n := 0
	for i := range out {
		if i > 0 && out[i] == out[n-1] {
			continue
		}
		out[n] = out[i]
		n++
	}
	return out[:n]
}

func appendStrings(dst []byte, list []string) (b []byte) {
	b = append(dst, '[')
	for i, s := range list {
		if i > 0 {
			b = append(b, ',')
		}
		b = text.AppendQuote(b, s)
	}
	return append(b, ']')
}

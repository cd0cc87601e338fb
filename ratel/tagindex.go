package ratel

import (
	"strings"
	"time"
)

// tagIndex returns the set of events that have a tag matching key, of the form
// `x:value`. The first query for a key builds the index with a scan of the whole
// table, after which it is kept up to date by Add and Remove until it falls
// out of the LRU.
func (r *T) tagIndex(key string) (idx serials) {
	var ok bool
	if idx, ok = r.tags.Get(key); ok {
		return
	}
	started := time.Now()
	name, value, _ := strings.Cut(key, ":")
	idx = make(serials)
	for ser, ev := range r.events {
		for _, tg := range ev.Tags.F() {
			if tg.IsIndexable() && tg.Key() == name && tg.Value() == value {
				idx.add(ser)
				break
			}
		}
	}
	r.tags.Add(key, idx)
	if took := time.Since(started); took > r.slowTagScan {
		log.W.F("building tag index %s over %d events took %v", key, len(r.events), took)
	} else {
		log.T.F("built tag index %s with %d events in %v", key, len(idx), took)
	}
	return
}

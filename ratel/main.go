// Package ratel is the in-memory index engine of the event database. It owns
// the canonical table of events and every secondary index over it, by id, kind,
// author, tag, time and replaceable address, and knows nothing of the deletion
// and replacement rules of the protocol, which are applied by the layer above.
//
// Every stored event is given a monotonic serial when it is inserted, and all of
// the indexes hold serials rather than events, so there is exactly one owning
// reference to each event, in the table of serials.
package ratel

import (
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/simplelru"

	"evdb.lol/event"
	"evdb.lol/publish"
)

const (
	// DefaultTagIndexSize is the number of tag indexes kept materialized when
	// no size is configured.
	DefaultTagIndexSize = 1000
	// DefaultSlowTagScan is the time a tag index build may take before a
	// warning is logged.
	DefaultSlowTagScan = 100 * time.Millisecond
)

// Params is the configuration of a new ratel.T.
type Params struct {
	// Verify is the admission hook, run once on every event whose id is not yet
	// stored. Returning false rejects the event. Nil admits everything.
	Verify func(ev *event.T) bool
	// TagIndexSize is the capacity of the LRU of materialized tag indexes.
	TagIndexSize int
	// SlowTagScan is the threshold above which building a tag index is logged
	// as a warning.
	SlowTagScan time.Duration
}

// T is the index engine. It is not safe for concurrent mutation, writes must be
// serialized by the caller.
type T struct {
	verify      func(ev *event.T) bool
	slowTagScan time.Duration
	// seq is the last serial handed out.
	seq uint64
	// events is the owning table.
	events map[uint64]*event.T
	ids    map[string]uint64
	kinds  map[uint16]serials
	// authors is keyed by pubkey.
	authors map[string]serials
	// tags holds the materialized `x:value` indexes.
	tags *lru.Cache[string, serials]
	// timeline is every serial in descending event order.
	timeline []uint64
	// replaceables is the history of each address, in descending order, the
	// head being the current version.
	replaceables map[string][]uint64
	claims       map[uint64]map[string]struct{}
	// recency orders serials from least to most recently used.
	recency  *simplelru.LRU[uint64, struct{}]
	inserted *publish.Subject[*event.T]
	updated  *publish.Subject[*event.T]
	removed  *publish.Subject[*event.T]
}

// New creates a new empty index engine.
func New(p Params) (r *T) {
	if p.TagIndexSize <= 0 {
		p.TagIndexSize = DefaultTagIndexSize
	}
	if p.SlowTagScan <= 0 {
		p.SlowTagScan = DefaultSlowTagScan
	}
	var err error
	// one queue for all three streams, so that a mutation made by a subscriber
	// is seen by everyone after the notification it was made in
	g := publish.NewGroup()
	r = &T{
		verify:       p.Verify,
		slowTagScan:  p.SlowTagScan,
		events:       make(map[uint64]*event.T),
		ids:          make(map[string]uint64),
		kinds:        make(map[uint16]serials),
		authors:      make(map[string]serials),
		replaceables: make(map[string][]uint64),
		claims:       make(map[uint64]map[string]struct{}),
		inserted:     publish.NewIn[*event.T](g, "inserted"),
		updated:      publish.NewIn[*event.T](g, "updated"),
		removed:      publish.NewIn[*event.T](g, "removed"),
	}
	// neither constructor fails for a positive size
	if r.tags, err = lru.NewWithEvict[string, serials](p.TagIndexSize,
		func(key string, _ serials) {
			log.T.F("evicted tag index %s", key)
		}); chk.E(err) {
		panic(err)
	}
	if r.recency, err = simplelru.NewLRU[uint64, struct{}](math.MaxInt, nil); chk.E(err) {
		panic(err)
	}
	return
}

// Count is the number of stored events.
func (r *T) Count() int { return len(r.events) }

// Inserted is the stream of events that have been newly stored.
func (r *T) Inserted() publish.I[*event.T] { return r.inserted }

// Updated is the stream of stored events that have changed, such as getting
// new decoration.
func (r *T) Updated() publish.I[*event.T] { return r.updated }

// Removed is the stream of events that have been removed.
func (r *T) Removed() publish.I[*event.T] { return r.removed }

// TagIndexes is the number of tag indexes currently materialized.
func (r *T) TagIndexes() int { return r.tags.Len() }

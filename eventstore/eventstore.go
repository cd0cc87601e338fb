// Package eventstore applies the rules of nostr on top of the index engine:
// deletion requests, replaceable and addressable events where only the newest
// version counts, and the merging of decoration when an event arrives again.
package eventstore

import (
	"time"

	"evdb.lol/event"
	"evdb.lol/ratel"
	"evdb.lol/store"
	"evdb.lol/timestamp"
)

// Params is the configuration of a new eventstore.T.
type Params struct {
	// Verify is the admission hook, run once for each event id that is not yet
	// stored. Returning false rejects the event.
	Verify func(ev *event.T) bool
	// KeepOldVersions retains the superseded versions of replaceable events in
	// their address history instead of removing them.
	KeepOldVersions bool
	// TagIndexSize is the number of tag indexes the engine keeps materialized.
	TagIndexSize int
	// SlowTagScan is the time a tag index build may take before it is logged
	// as a warning.
	SlowTagScan time.Duration
}

// engine is embedded under an unexported name, its getters, claims and
// notifications are the store's own, while every mutation goes through T.
type engine = ratel.T

// T is the event store.
type T struct {
	*engine
	// verify is run here rather than in the engine, as deletion requests are
	// admitted before they take effect.
	verify  func(ev *event.T) bool
	keepOld bool
	// deletedIDs maps event ids named in deletion requests to the pubkeys that
	// requested it.
	deletedIDs map[string]map[string]struct{}
	// deletedAddrs is the newest deletion request seen for each address.
	deletedAddrs map[string]timestamp.T
}

var _ store.I = (*T)(nil)

// New creates an empty event store.
func New(p Params) (s *T) {
	s = &T{
		engine: ratel.New(ratel.Params{
			TagIndexSize: p.TagIndexSize,
			SlowTagScan:  p.SlowTagScan,
		}),
		verify:       p.Verify,
		keepOld:      p.KeepOldVersions,
		deletedIDs:   make(map[string]map[string]struct{}),
		deletedAddrs: make(map[string]timestamp.T),
	}
	return
}

// KeepOldVersions reports whether superseded versions of replaceable events are
// retained.
func (s *T) KeepOldVersions() bool { return s.keepOld }

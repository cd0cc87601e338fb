// Package models is the reactive query layer of the event store. A model is a
// live view derived from the store, such as one event, the current version of
// a replaceable event, or a timeline for a set of filters, kept up to date as
// the store changes.
//
// Models are cached by key: asking twice for the same model returns the same
// Stream, so every subscriber to it shares one derivation and one set of store
// subscriptions. When the last subscriber leaves the Stream is kept warm for a
// while, and discarded if nobody subscribes again in that time.
package models

import (
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"evdb.lol/event"
	"evdb.lol/hex"
	"evdb.lol/store"
)

// DefaultKeepWarm is how long an unused model is kept when none is configured.
const DefaultKeepWarm = 60 * time.Second

// T is the registry of models of a store.
type T struct {
	store    store.I
	keepWarm time.Duration
	entries  *xsync.MapOf[string, any]
	builds   *xsync.Counter
}

// New creates a registry of models over a store. A keepWarm of zero or less
// uses DefaultKeepWarm.
func New(s store.I, keepWarm time.Duration) (m *T) {
	if keepWarm <= 0 {
		keepWarm = DefaultKeepWarm
	}
	return &T{
		store:    s,
		keepWarm: keepWarm,
		entries:  xsync.NewMapOf[string, any](),
		builds:   xsync.NewCounter(),
	}
}

// Store is the store the models are derived from.
func (m *T) Store() store.I { return m.store }

// Builder starts the derivation of a model. It must call emit with the current
// value before it returns, if there is one, and again whenever the value
// changes. The function it returns releases everything the derivation holds on
// the store.
type Builder[V any] func(s store.I, emit func(V)) (stop func())

// Get returns the model cached under key, creating it with build if there is
// none. Events extracts the events in a value, which are claimed on behalf of
// each subscriber they are delivered to.
//
// The key must identify both the kind of model and its arguments, see Key.
func Get[V any](m *T, key string, build Builder[V], events func(V) event.Ts) (s *Stream[V]) {
	v, _ := m.entries.LoadOrCompute(key, func() any {
		return newStream(m, key, build, events)
	})
	var ok bool
	if s, ok = v.(*Stream[V]); !ok {
		panic(errorf.E("model %s is cached with a value of type %T", key, v))
	}
	return
}

// Key builds a cache key from the name of a kind of model and its arguments,
// as the name followed by the hex SHA256 of the arguments.
func Key(name string, args ...string) string {
	return name + ":" + hex.Enc(event.Hash([]byte(strings.Join(args, "\x00"))))
}

// Stats is a snapshot of the activity of a registry.
type Stats struct {
	// Models is the number of models currently cached.
	Models int
	// Builds is the number of times a derivation has been started.
	Builds int64
}

// Stats returns the current counters of the registry.
func (m *T) Stats() Stats {
	return Stats{Models: m.entries.Size(), Builds: m.builds.Value()}
}

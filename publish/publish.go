// Package publish is a synchronous broadcaster for the notifications of the
// event store. Delivery is in publish order: a value published from inside a
// subscriber callback is queued and delivered to everyone once the current
// delivery completes. Subjects in the same Group share that queue.
package publish

import (
	"fmt"
	"sync"

	"evdb.lol/lol"
)

// I is the interface the store hands out for its notification streams, so a
// different broadcaster can be put behind it without changing call sites.
type I[V any] interface {
	// Subscribe registers fn to receive every value published from now on.
	// Calling the returned function removes it, and is safe to call more than
	// once.
	Subscribe(fn func(V)) (cancel func())
	// Publish delivers v to every subscriber.
	Publish(v V)
	// Len is the number of subscribers.
	Len() int
}

type subscriber[V any] struct {
	id uint64
	fn func(V)
}

// Group serializes the deliveries of the Subjects created in it. A value
// published on any of them while a delivery is running is queued behind it, so
// every subscriber of every Subject in the group sees the values in the order
// they were published.
type Group struct {
	mx         sync.Mutex
	queue      []func()
	delivering bool
}

// NewGroup creates an empty Group.
func NewGroup() *Group { return &Group{} }

// dispatch runs fn, or queues it if a delivery of the group is running.
func (g *Group) dispatch(fn func()) {
	g.mx.Lock()
	g.queue = append(g.queue, fn)
	if g.delivering {
		g.mx.Unlock()
		return
	}
	g.delivering = true
	for len(g.queue) > 0 {
		next := g.queue[0]
		g.queue = g.queue[1:]
		g.mx.Unlock()
		next()
		g.mx.Lock()
	}
	g.queue = nil
	g.delivering = false
	g.mx.Unlock()
}

// Subject is the default implementation of I.
type Subject[V any] struct {
	// Name is used in log messages.
	Name  string
	group *Group
	mx    sync.Mutex
	next  uint64
	subs  []subscriber[V]
}

var _ I[int] = (*Subject[int])(nil)

// New creates a new Subject in a Group of its own.
func New[V any](name string) *Subject[V] { return NewIn[V](NewGroup(), name) }

// NewIn creates a new Subject that delivers in order with the other Subjects of
// g.
func NewIn[V any](g *Group, name string) *Subject[V] {
	return &Subject[V]{Name: name, group: g}
}

// Subscribe registers fn to receive every value published from now on.
func (s *Subject[V]) Subscribe(fn func(V)) (cancel func()) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.next++
	id := s.next
	// copy on write, a delivery in progress keeps its own list
	subs := make([]subscriber[V], len(s.subs), len(s.subs)+1)
	copy(subs, s.subs)
	s.subs = append(subs, subscriber[V]{id: id, fn: fn})
	return func() { s.remove(id) }
}

func (s *Subject[V]) remove(id uint64) {
	s.mx.Lock()
	defer s.mx.Unlock()
	subs := make([]subscriber[V], 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.id != id {
			subs = append(subs, sub)
		}
	}
	s.subs = subs
}

// Len is the number of subscribers.
func (s *Subject[V]) Len() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return len(s.subs)
}

// Publish delivers v to every subscriber in order of subscription. If called
// while a delivery on any Subject of the same Group is running, v is queued
// behind it and Publish returns at once.
func (s *Subject[V]) Publish(v V) { s.group.dispatch(func() { s.deliverAll(v) }) }

func (s *Subject[V]) deliverAll(v V) {
	s.mx.Lock()
	subs := s.subs
	s.mx.Unlock()
	for _, sub := range subs {
		if !s.live(sub.id) {
			continue
		}
		s.deliver(sub, v)
	}
}

// live reports whether the subscriber is still registered, so one cancelled by
// an earlier callback of the same delivery is skipped.
func (s *Subject[V]) live(id uint64) bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	for _, sub := range s.subs {
		if sub.id == id {
			return true
		}
	}
	return false
}

func (s *Subject[V]) deliver(sub subscriber[V], v V) {
	defer func() {
		if r := recover(); r != nil {
			log.E.F("subscriber %d of %s panicked: %v\n%s", sub.id, s.Name, r,
				lol.GetNLoc(8))
		}
	}()
	sub.fn(v)
}

// Values collects everything published on a subject until cancel is called,
// mostly useful in tests.
func Values[V any](s I[V]) (get func() []V, cancel func()) {
	var mx sync.Mutex
	var vals []V
	cancel = s.Subscribe(func(v V) {
		mx.Lock()
		vals = append(vals, v)
		mx.Unlock()
	})
	get = func() []V {
		mx.Lock()
		defer mx.Unlock()
		return append([]V(nil), vals...)
	}
	return
}

func (s *Subject[V]) String() string {
	return fmt.Sprintf("%s (%d subscribers)", s.Name, s.Len())
}

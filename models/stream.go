package models

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"evdb.lol/event"
)

type subscriber[V any] struct {
	id uint64
	fn func(V)
	// gone is set when the subscriber cancels.
	gone bool
	// owner is the claim token of this subscriber.
	owner string
	// claimed is what the last delivered value held.
	claimed map[string]*event.T
}

// Stream is a cached model, shared by all of its subscribers.
type Stream[V any] struct {
	m       *T
	key     string
	build   Builder[V]
	events  func(V) event.Ts
	mx      sync.Mutex
	next    uint64
	subs    []*subscriber[V]
	value   V
	has     bool
	running bool
	stop    func()
	timer   *time.Timer
	// expired is set once the Stream has been dropped from the registry.
	expired bool
}

func newStream[V any](m *T, key string, build Builder[V], events func(V) event.Ts) *Stream[V] {
	return &Stream[V]{
		m:      m,
		key:    key,
		build:  build,
		events: events,
	}
}

// Key is the key the Stream is cached under.
func (s *Stream[V]) Key() string { return s.key }

// Subscribe registers fn to receive the value of the model. If a value is
// available fn receives it before Subscribe returns, and then every new value
// until cancel is called. Cancel is safe to call more than once.
//
// Subscribing to a Stream that has been discarded after its keep-warm period
// starts it again.
func (s *Stream[V]) Subscribe(fn func(V)) (cancel func()) {
	s.mx.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.expired {
		s.expired = false
		s.m.entries.LoadOrStore(s.key, s)
	}
	s.next++
	id := s.next
	sub := &subscriber[V]{id: id, fn: fn, owner: uuid.NewString()}
	s.subs = append(s.subs, sub)
	fresh := !s.running
	s.running = true
	value, has := s.value, s.has
	s.mx.Unlock()
	if fresh {
		s.m.builds.Inc()
		log.T.F("starting model %s", s.key)
		stop, ok := s.start()
		s.mx.Lock()
		if ok {
			s.stop = stop
		} else {
			// the next subscriber tries again
			s.running = false
		}
		s.mx.Unlock()
	} else if has {
		s.deliver(sub, value)
	}
	var once sync.Once
	cancel = func() { once.Do(func() { s.unsubscribe(id) }) }
	return
}

// start runs the builder, reporting false if it panicked.
func (s *Stream[V]) start() (stop func(), ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.E.F("building model %s panicked: %v", s.key, r)
		}
	}()
	stop = s.build(s.m.store, s.emit)
	ok = true
	return
}

func (s *Stream[V]) unsubscribe(id uint64) {
	s.mx.Lock()
	var sub *subscriber[V]
	subs := make([]*subscriber[V], 0, len(s.subs))
	for _, v := range s.subs {
		if v.id == id {
			sub = v
			continue
		}
		subs = append(subs, v)
	}
	s.subs = subs
	if sub == nil {
		s.mx.Unlock()
		return
	}
	sub.gone = true
	if len(s.subs) == 0 && s.running {
		s.timer = time.AfterFunc(s.m.keepWarm, s.expire)
	}
	claimed := sub.claimed
	sub.claimed = nil
	s.mx.Unlock()
	for _, ev := range claimed {
		s.m.store.RemoveClaim(ev, sub.owner)
	}
}

// expire drops the Stream from the registry and stops its derivation, unless a
// subscriber arrived in the meantime.
func (s *Stream[V]) expire() {
	s.mx.Lock()
	if len(s.subs) > 0 || !s.running || s.timer == nil {
		s.mx.Unlock()
		return
	}
	stop := s.stop
	var zero V
	s.value, s.has, s.running, s.stop, s.timer = zero, false, false, nil, nil
	s.expired = true
	s.mx.Unlock()
	s.m.entries.Compute(s.key, func(old any, loaded bool) (any, bool) {
		// only remove this Stream, not one created since under the same key
		return old, !loaded || old == any(s)
	})
	if stop != nil {
		stop()
	}
	log.T.F("discarded model %s", s.key)
}

// emit records a new value and delivers it to every subscriber.
func (s *Stream[V]) emit(v V) {
	s.mx.Lock()
	s.value, s.has = v, true
	subs := s.subs
	s.mx.Unlock()
	for _, sub := range subs {
		s.deliver(sub, v)
	}
}

// deliver claims the events of v for the subscriber, releases the claims on
// events v no longer holds, and calls the subscriber. A panic in the subscriber
// is logged and does not reach the other subscribers.
func (s *Stream[V]) deliver(sub *subscriber[V], v V) {
	s.mx.Lock()
	gone := sub.gone
	s.mx.Unlock()
	if gone {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.E.F("subscriber of model %s panicked: %v", s.key, r)
		}
	}()
	held := make(map[string]*event.T)
	if s.events != nil {
		for _, ev := range s.events(v) {
			if ev == nil {
				continue
			}
			held[ev.ID] = ev
			s.m.store.Claim(ev, sub.owner)
		}
	}
	for id, ev := range sub.claimed {
		if _, ok := held[id]; !ok {
			s.m.store.RemoveClaim(ev, sub.owner)
		}
	}
	sub.claimed = held
	sub.fn(v)
}

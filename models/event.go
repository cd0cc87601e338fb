package models

import (
	"strconv"

	"evdb.lol/addresstag"
	"evdb.lol/event"
	"evdb.lol/kind"
	"evdb.lol/store"
)

func single(ev *event.T) event.Ts {
	if ev == nil {
		return nil
	}
	return event.Ts{ev}
}

// Event is the model of the event with the given id. It emits the event when
// it is stored or updated, and nil when it is removed, without ending.
func (m *T) Event(id string) *Stream[*event.T] {
	return Get(m, Key("event", id), func(s store.I, emit func(*event.T)) (stop func()) {
		if ev := s.GetEvent(id); ev != nil {
			emit(ev)
		}
		match := func(ev *event.T) {
			if ev.ID == id {
				emit(ev)
			}
		}
		cancels := []func(){
			s.Inserted().Subscribe(match),
			s.Updated().Subscribe(match),
			s.Removed().Subscribe(func(ev *event.T) {
				if ev.ID == id {
					emit(nil)
				}
			}),
		}
		return stopAll(cancels)
	}, single)
}

// Replaceable is the model of the current version of the replaceable or
// addressable event at an address. It follows the current version across
// replacements, removals and re-insertions, and emits nil when there is none.
func (m *T) Replaceable(k uint16, pubkey, identifier string) *Stream[*event.T] {
	addr := normalized(addresstag.New(k, pubkey, identifier))
	identifier = addr.Identifier
	key := Key("replaceable", strconv.FormatUint(uint64(k), 10), pubkey, identifier)
	return Get(m, key, func(s store.I, emit func(*event.T)) (stop func()) {
		current := s.GetReplaceable(k, pubkey, identifier)
		if current != nil {
			emit(current)
		}
		at := func(ev *event.T) bool {
			a := addresstag.FromEvent(ev)
			return a != nil && *a == *addr
		}
		// refresh follows whatever the store now holds as the current version
		refresh := func() {
			next := s.GetReplaceable(k, pubkey, identifier)
			if next != current {
				current = next
				emit(current)
			}
		}
		cancels := []func(){
			s.Inserted().Subscribe(func(ev *event.T) {
				if at(ev) {
					refresh()
				}
			}),
			s.Updated().Subscribe(func(ev *event.T) {
				if ev == current {
					emit(current)
				}
			}),
			s.Removed().Subscribe(func(ev *event.T) {
				if at(ev) {
					refresh()
				}
			}),
		}
		return stopAll(cancels)
	}, single)
}

func kindIsAddressable(k uint16) bool { return kind.New(k).IsAddressable() }

func stopAll(cancels []func()) func() {
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}

package models

import (
	"maps"
	"sort"

	"evdb.lol/addresstag"
	"evdb.lol/event"
	"evdb.lol/store"
)

// Directory is a set of events keyed by id or by address.
type Directory map[string]*event.T

func values(d Directory) (evs event.Ts) {
	for _, ev := range d {
		evs = append(evs, ev)
	}
	return
}

// Events is the model of the stored events among ids, keyed by id. Entries are
// added as the events arrive and deleted when they are removed.
func (m *T) Events(ids ...string) *Stream[Directory] {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return Get(m, Key("events", sorted...), func(s store.I, emit func(Directory)) (stop func()) {
		dir := make(Directory)
		for id := range want {
			if ev := s.GetEvent(id); ev != nil {
				dir[id] = ev
			}
		}
		emit(maps.Clone(dir))
		cancels := []func(){
			s.Inserted().Subscribe(func(ev *event.T) {
				if _, ok := want[ev.ID]; ok && dir[ev.ID] == nil {
					dir[ev.ID] = ev
					emit(maps.Clone(dir))
				}
			}),
			s.Updated().Subscribe(func(ev *event.T) {
				if dir[ev.ID] != nil {
					emit(maps.Clone(dir))
				}
			}),
			s.Removed().Subscribe(func(ev *event.T) {
				if dir[ev.ID] != nil {
					delete(dir, ev.ID)
					emit(maps.Clone(dir))
				}
			}),
		}
		return stopAll(cancels)
	}, values)
}

// Replaceables is the model of the current versions at several addresses,
// keyed by the address string. An entry is only overwritten by a strictly newer
// version, and falls back to whatever the store holds when it is removed.
func (m *T) Replaceables(addrs ...*addresstag.T) *Stream[Directory] {
	want := make(map[string]*addresstag.T, len(addrs))
	keys := make([]string, 0, len(addrs))
	for _, a := range addrs {
		n := normalized(a)
		k := n.String()
		if _, ok := want[k]; !ok {
			keys = append(keys, k)
		}
		want[k] = n
	}
	sort.Strings(keys)
	return Get(m, Key("replaceables", keys...), func(s store.I, emit func(Directory)) (stop func()) {
		dir := make(Directory)
		for k, a := range want {
			if ev := s.GetReplaceable(a.Kind, a.Pubkey, a.Identifier); ev != nil {
				dir[k] = ev
			}
		}
		emit(maps.Clone(dir))
		lookup := func(ev *event.T) (k string, ok bool) {
			a := addresstag.FromEvent(ev)
			if a == nil {
				return
			}
			k = a.String()
			_, ok = want[k]
			return
		}
		cancels := []func(){
			s.Inserted().Subscribe(func(ev *event.T) {
				k, ok := lookup(ev)
				if !ok {
					return
				}
				if have := dir[k]; have != nil && have.CreatedAt >= ev.CreatedAt {
					return
				}
				dir[k] = ev
				emit(maps.Clone(dir))
			}),
			s.Updated().Subscribe(func(ev *event.T) {
				if k, ok := lookup(ev); ok && dir[k] == ev {
					emit(maps.Clone(dir))
				}
			}),
			s.Removed().Subscribe(func(ev *event.T) {
				k, ok := lookup(ev)
				if !ok || dir[k] != ev {
					return
				}
				a := want[k]
				if head := s.GetReplaceable(a.Kind, a.Pubkey, a.Identifier); head != nil {
					dir[k] = head
				} else {
					delete(dir, k)
				}
				emit(maps.Clone(dir))
			}),
		}
		return stopAll(cancels)
	}, values)
}

// normalized drops the identifier of an address of a replaceable kind, which
// has none.
func normalized(a *addresstag.T) *addresstag.T {
	n := *a
	if !kindIsAddressable(n.Kind) {
		n.Identifier = ""
	}
	return &n
}

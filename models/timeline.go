package models

import (
	"strconv"

	"evdb.lol/addresstag"
	"evdb.lol/event"
	"evdb.lol/filters"
	"evdb.lol/store"
)

func all(evs event.Ts) event.Ts { return evs }

// Timeline is the model of the events matching any of the filters, newest
// first. It is maintained incrementally: new events are inserted at their
// position and removed ones taken out. Unless history is set only the current
// version of each replaceable event is listed.
//
// Every emitted list is a new slice, lists already delivered are never
// modified.
func (m *T) Timeline(ff *filters.T, history bool) *Stream[event.Ts] {
	ff = ff.Clone()
	key := Key("timeline", ff.Fingerprint(), strconv.FormatBool(history))
	return Get(m, key, func(s store.I, emit func(event.Ts)) (stop func()) {
		var list event.Ts
		if evs, err := s.GetTimeline(ff); !chk.E(err) {
			for _, ev := range evs {
				if history || current(s, ev) {
					list = append(list, ev)
				}
			}
		}
		emit(list)
		replace := func(next event.Ts) {
			list = next
			emit(list)
		}
		index := func(ev *event.T) int {
			i := list.Position(ev)
			if i < len(list) && list[i].ID == ev.ID {
				return i
			}
			return -1
		}
		// insert reports whether it emitted a new list
		insert := func(ev *event.T) (emitted bool) {
			if !ff.Match(ev) || index(ev) >= 0 {
				return
			}
			next := make(event.Ts, 0, len(list)+1)
			a := addresstag.FromEvent(ev)
			for _, have := range list {
				if !history && a != nil && sameAddress(a, have) {
					if event.Precedes(have, ev) {
						// a newer version is already listed
						return
					}
					continue
				}
				next = append(next, have)
			}
			replace(next.Insert(ev))
			return true
		}
		cancels := []func(){
			s.Inserted().Subscribe(func(ev *event.T) { insert(ev) }),
			s.Updated().Subscribe(func(ev *event.T) {
				if index(ev) >= 0 {
					replace(append(event.Ts(nil), list...))
				}
			}),
			s.Removed().Subscribe(func(ev *event.T) {
				i := index(ev)
				if i < 0 {
					return
				}
				next := make(event.Ts, 0, len(list))
				next = append(next, list[:i]...)
				next = append(next, list[i+1:]...)
				list = next
				if a := addresstag.FromEvent(ev); a != nil && !history {
					// an older version may now be the current one
					head := s.GetReplaceable(a.Kind, a.Pubkey, a.Identifier)
					if head != nil && insert(head) {
						return
					}
				}
				emit(list)
			}),
		}
		return stopAll(cancels)
	}, all)
}

// current reports whether ev is the newest version at its address, or has no
// address.
func current(s store.I, ev *event.T) bool {
	a := addresstag.FromEvent(ev)
	if a == nil {
		return true
	}
	return s.GetReplaceable(a.Kind, a.Pubkey, a.Identifier) == ev
}

func sameAddress(a *addresstag.T, ev *event.T) bool {
	b := addresstag.FromEvent(ev)
	return b != nil && *a == *b
}

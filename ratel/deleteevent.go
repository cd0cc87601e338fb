package ratel

import (
	"evdb.lol/addresstag"
	"evdb.lol/event"
	"evdb.lol/hex"
	"evdb.lol/store"
)

// Remove deletes the stored event with the id of ev from every index, clears its
// claims and notifies subscribers of Removed. It returns false if the event is
// not stored, and an error if ev is nil or its id is malformed.
func (r *T) Remove(ev *event.T) (found bool, err error) {
	if ev == nil {
		err = store.MalformedReference("nil event")
		return
	}
	return r.RemoveID(ev.ID)
}

// RemoveID is Remove by event id.
func (r *T) RemoveID(id string) (found bool, err error) {
	if !hex.Valid32(id) {
		err = store.MalformedReference("event id %q", id)
		return
	}
	var ser uint64
	if ser, found = r.ids[id]; !found {
		return
	}
	r.removeSerial(ser)
	return
}

func (r *T) removeSerial(ser uint64) {
	ev := r.events[ser]
	k := ev.Kind.ToU16()
	if idx := r.kinds[k]; idx != nil {
		delete(idx, ser)
		if len(idx) == 0 {
			delete(r.kinds, k)
		}
	}
	if idx := r.authors[ev.Pubkey]; idx != nil {
		delete(idx, ser)
		if len(idx) == 0 {
			delete(r.authors, ev.Pubkey)
		}
	}
	for _, key := range ev.Tags.Indexable() {
		if idx, ok := r.tags.Peek(key); ok {
			delete(idx, ser)
		}
	}
	// the sorted lists are searched by the event, so it leaves the table last
	r.timeline = r.deleteSorted(r.timeline, ser)
	if a := addresstag.FromEvent(ev); a != nil {
		addr := a.String()
		if h := r.deleteSorted(r.replaceables[addr], ser); len(h) > 0 {
			r.replaceables[addr] = h
		} else {
			delete(r.replaceables, addr)
		}
	}
	delete(r.claims, ser)
	r.recency.Remove(ser)
	delete(r.ids, ev.ID)
	delete(r.events, ser)
	log.T.F("removed event %s serial %d", ev.ID, ser)
	r.removed.Publish(ev)
}

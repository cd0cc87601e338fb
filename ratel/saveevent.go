package ratel

import (
	"sort"

	"evdb.lol/addresstag"
	"evdb.lol/event"
)

// Add stores an event and indexes it. If an event with the same id is already
// stored the stored instance is returned unchanged. Otherwise the admission hook
// is run, and if it rejects the event nil is returned. Subscribers of Inserted
// are notified once every index has been updated.
func (r *T) Add(ev *event.T) (stored *event.T) {
	if ev == nil {
		return
	}
	if ser, ok := r.ids[ev.ID]; ok {
		return r.events[ser]
	}
	if r.verify != nil && !r.verify(ev) {
		log.D.F("admission hook rejected event %s", ev.ID)
		return
	}
	r.seq++
	ser := r.seq
	r.events[ser] = ev
	r.ids[ev.ID] = ser
	k := ev.Kind.ToU16()
	if r.kinds[k] == nil {
		r.kinds[k] = make(serials)
	}
	r.kinds[k].add(ser)
	if r.authors[ev.Pubkey] == nil {
		r.authors[ev.Pubkey] = make(serials)
	}
	r.authors[ev.Pubkey].add(ser)
	// only indexes that have been asked for are kept up to date, the rest are
	// built from scratch when first queried
	for _, key := range ev.Tags.Indexable() {
		if idx, ok := r.tags.Peek(key); ok {
			idx.add(ser)
		}
	}
	r.timeline = r.insertSorted(r.timeline, ser)
	if a := addresstag.FromEvent(ev); a != nil {
		addr := a.String()
		r.replaceables[addr] = r.insertSorted(r.replaceables[addr], ser)
	}
	r.recency.Add(ser, struct{}{})
	log.T.F("stored event %s kind %d serial %d", ev.ID, k, ser)
	r.inserted.Publish(ev)
	stored = ev
	return
}

// Update notifies subscribers of Updated that the stored event with the id of ev
// has changed. It returns false if no such event is stored.
func (r *T) Update(ev *event.T) (ok bool) {
	if ev == nil {
		return
	}
	var ser uint64
	if ser, ok = r.ids[ev.ID]; !ok {
		return
	}
	r.updated.Publish(r.events[ser])
	return
}

// position is the index in the descending ordered list at which ev belongs.
func (r *T) position(list []uint64, ev *event.T) int {
	return sort.Search(len(list), func(i int) bool {
		return !event.Precedes(r.events[list[i]], ev)
	})
}

// insertSorted places ser in the descending ordered list by binary search.
func (r *T) insertSorted(list []uint64, ser uint64) []uint64 {
	i := r.position(list, r.events[ser])
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = ser
	return list
}

// deleteSorted removes ser from the descending ordered list. The event must
// still be in the table.
func (r *T) deleteSorted(list []uint64, ser uint64) []uint64 {
	i := r.position(list, r.events[ser])
	if i < len(list) && list[i] == ser {
		return append(list[:i], list[i+1:]...)
	}
	return list
}

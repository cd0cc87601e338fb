package ratel

import (
	"sort"

	"evdb.lol/event"
	"evdb.lol/filter"
	"evdb.lol/filters"
	"evdb.lol/store"
	"evdb.lol/timestamp"
)

// GetEventsForFilter returns the stored events matching f.
//
// The candidates are narrowed by intersecting the index sets, starting with the
// cheapest: ids, the time range when since is given, tags, authors, kinds, and
// the time range when only until is given. As soon as the candidates are empty
// the search stops. A limit with a time bound is applied by walking the time
// index in order, without one the candidates are sorted and truncated. A filter
// with a search term matches nothing.
func (r *T) GetEventsForFilter(f *filter.T) (evs event.Set) {
	evs = make(event.Set)
	if f == nil || f.Search != "" {
		return
	}
	var cand serials
	// narrow returns false once nothing can match
	narrow := func(s serials) bool {
		if cand == nil {
			cand = s.clone()
		} else {
			cand = cand.intersect(s)
		}
		return len(cand) > 0
	}
	if len(f.IDs) > 0 {
		s := make(serials, len(f.IDs))
		for _, id := range f.IDs {
			if ser, ok := r.ids[id]; ok {
				s.add(ser)
			}
		}
		if !narrow(s) {
			return
		}
	}
	if f.Since != nil {
		if !narrow(r.timeRange(f.Since, f.Until)) {
			return
		}
	}
	for _, c := range f.Criteria() {
		var sets []serials
		for _, key := range c.IndexKeys() {
			sets = append(sets, r.tagIndex(key))
		}
		if !narrow(union(sets...)) {
			return
		}
	}
	if len(f.Authors) > 0 {
		var sets []serials
		for _, pk := range f.Authors {
			sets = append(sets, r.authors[pk])
		}
		if !narrow(union(sets...)) {
			return
		}
	}
	if f.Kinds.Len() > 0 {
		var sets []serials
		for _, k := range f.Kinds.K {
			sets = append(sets, r.kinds[k.ToU16()])
		}
		if !narrow(union(sets...)) {
			return
		}
	}
	if f.Since == nil && f.Until != nil {
		if !narrow(r.timeRange(nil, f.Until)) {
			return
		}
	}
	switch {
	case f.Limit == nil:
		if cand == nil {
			for _, ev := range r.events {
				evs[ev.ID] = ev
			}
			return
		}
		for ser := range cand {
			ev := r.events[ser]
			evs[ev.ID] = ev
		}
	case f.HasTimeBound() || cand == nil:
		// the time index is already in order, take from the front of the range
		lo, hi := r.bounds(f.Since, f.Until)
		for _, ser := range r.timeline[lo:hi] {
			if len(evs) >= int(*f.Limit) {
				break
			}
			if cand != nil && !cand.has(ser) {
				continue
			}
			ev := r.events[ser]
			evs[ev.ID] = ev
		}
	default:
		sorted := make(event.Ts, 0, len(cand))
		for ser := range cand {
			sorted = append(sorted, r.events[ser])
		}
		sort.Sort(sorted)
		if len(sorted) > int(*f.Limit) {
			sorted = sorted[:*f.Limit]
		}
		for _, ev := range sorted {
			evs[ev.ID] = ev
		}
	}
	return
}

// bounds returns the part of the time index with created_at between since and
// until inclusive, either of which may be nil.
func (r *T) bounds(since, until *timestamp.T) (lo, hi int) {
	hi = len(r.timeline)
	if until != nil {
		lo = sort.Search(len(r.timeline), func(i int) bool {
			return r.events[r.timeline[i]].CreatedAt <= *until
		})
	}
	if since != nil {
		hi = sort.Search(len(r.timeline), func(i int) bool {
			return r.events[r.timeline[i]].CreatedAt < *since
		})
	}
	if hi < lo {
		hi = lo
	}
	return
}

func (r *T) timeRange(since, until *timestamp.T) (s serials) {
	lo, hi := r.bounds(since, until)
	s = make(serials, hi-lo)
	for _, ser := range r.timeline[lo:hi] {
		s.add(ser)
	}
	return
}

// GetByFilters returns the union of the events matching each filter.
func (r *T) GetByFilters(ff *filters.T) (evs event.Set, err error) {
	if ff.Len() == 0 {
		err = store.EmptyFilters("query needs at least one filter")
		return
	}
	evs = make(event.Set)
	for _, f := range ff.F {
		for id, ev := range r.GetEventsForFilter(f) {
			evs[id] = ev
		}
	}
	return
}

// GetTimeline returns the union of the events matching each filter, newest
// first, merged by sorted insertion.
func (r *T) GetTimeline(ff *filters.T) (evs event.Ts, err error) {
	if ff.Len() == 0 {
		err = store.EmptyFilters("timeline needs at least one filter")
		return
	}
	for _, f := range ff.F {
		for _, ev := range r.GetEventsForFilter(f) {
			evs = evs.Insert(ev)
		}
	}
	return
}

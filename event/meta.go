package event

// Meta is the bookkeeping that travels with an event object but is not part of
// the event: where it has been seen and how it was obtained. It is purely
// additive, merging never removes information.
type Meta struct {
	// SeenOn is the ordered set of sources, usually relay URLs, the event has
	// been received from.
	SeenOn []string
	// FromCache is set when the event was loaded from a secondary cache rather
	// than received live.
	FromCache bool
}

func (m Meta) clone() (c Meta) {
	c.FromCache = m.FromCache
	if len(m.SeenOn) > 0 {
		c.SeenOn = make([]string, len(m.SeenOn))
		copy(c.SeenOn, m.SeenOn)
	}
	return
}

// Meta returns a copy of the decoration of the event.
func (ev *T) Meta() Meta { return ev.meta.clone() }

// AddSeen records that the event was received from the given sources. Empty
// and already known sources are ignored.
func (ev *T) AddSeen(sources ...string) {
next:
	for _, s := range sources {
		if s == "" {
			continue
		}
		for _, have := range ev.meta.SeenOn {
			if have == s {
				continue next
			}
		}
		ev.meta.SeenOn = append(ev.meta.SeenOn, s)
	}
}

// SeenOn returns the sources the event has been received from.
func (ev *T) SeenOn() []string { return ev.meta.clone().SeenOn }

// SetFromCache marks the event as loaded from a secondary cache.
func (ev *T) SetFromCache() { ev.meta.FromCache = true }

// IsFromCache reports whether the event was loaded from a secondary cache.
func (ev *T) IsFromCache() bool { return ev.meta.FromCache }

// MergeMeta copies the decoration of src onto dst, only filling gaps: unknown
// sources are appended and FromCache is only ever switched on. It reports
// whether dst changed.
func MergeMeta(dst, src *T) (changed bool) {
	if dst == nil || src == nil || dst == src {
		return
	}
	n := len(dst.meta.SeenOn)
	dst.AddSeen(src.meta.SeenOn...)
	changed = len(dst.meta.SeenOn) != n
	if src.meta.FromCache && !dst.meta.FromCache {
		dst.meta.FromCache = true
		changed = true
	}
	return
}

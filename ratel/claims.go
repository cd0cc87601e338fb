package ratel

import (
	"evdb.lol/event"
)

// Claim marks an event as in use by owner, which keeps it from being pruned,
// and marks it as recently used. An owner holds at most one claim on an event.
func (r *T) Claim(ev *event.T, owner string) {
	ser, ok := r.serial(ev)
	if !ok {
		return
	}
	c := r.claims[ser]
	if c == nil {
		c = make(map[string]struct{})
		r.claims[ser] = c
	}
	c[owner] = struct{}{}
	r.recency.Add(ser, struct{}{})
}

// IsClaimed reports whether any owner holds a claim on the event.
func (r *T) IsClaimed(ev *event.T) bool {
	ser, ok := r.serial(ev)
	return ok && len(r.claims[ser]) > 0
}

// RemoveClaim releases the claim of owner on the event.
func (r *T) RemoveClaim(ev *event.T, owner string) {
	ser, ok := r.serial(ev)
	if !ok {
		return
	}
	if c := r.claims[ser]; c != nil {
		delete(c, owner)
		if len(c) == 0 {
			delete(r.claims, ser)
		}
	}
}

// ClearClaim releases every claim on the event.
func (r *T) ClearClaim(ev *event.T) {
	if ser, ok := r.serial(ev); ok {
		delete(r.claims, ser)
	}
}

// Touch marks the event as recently used.
func (r *T) Touch(ev *event.T) {
	if ser, ok := r.serial(ev); ok {
		r.recency.Add(ser, struct{}{})
	}
}

func (r *T) serial(ev *event.T) (ser uint64, ok bool) {
	if ev == nil {
		return
	}
	ser, ok = r.ids[ev.ID]
	return
}

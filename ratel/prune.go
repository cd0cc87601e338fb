package ratel

// Prune removes up to limit of the least recently used events that nobody has
// claimed, oldest first, and returns how many were removed. A limit of zero or
// less removes nothing.
//
// Nothing calls this automatically, how much memory may be used is for the
// caller to decide.
func (r *T) Prune(limit int) (n int) {
	if limit <= 0 {
		return
	}
	for _, ser := range r.recency.Keys() {
		if n >= limit {
			break
		}
		if len(r.claims[ser]) > 0 {
			continue
		}
		if _, ok := r.events[ser]; !ok {
			continue
		}
		r.removeSerial(ser)
		n++
	}
	if n > 0 {
		log.D.F("pruned %d events, %d remain", n, len(r.events))
	}
	return
}

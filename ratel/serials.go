package ratel

// serials is a set of event serials, the form every index takes.
type serials map[uint64]struct{}

func (s serials) add(ser uint64) { s[ser] = struct{}{} }

func (s serials) has(ser uint64) (ok bool) {
	_, ok = s[ser]
	return
}

func (s serials) clone() (c serials) {
	c = make(serials, len(s))
	for ser := range s {
		c[ser] = struct{}{}
	}
	return
}

// intersect returns a new set of the serials found in both s and o.
func (s serials) intersect(o serials) (out serials) {
	if len(o) < len(s) {
		s, o = o, s
	}
	out = make(serials, len(s))
	for ser := range s {
		if o.has(ser) {
			out[ser] = struct{}{}
		}
	}
	return
}

// union adds every set in sets to a new set.
func union(sets ...serials) (out serials) {
	var n int
	for _, s := range sets {
		n += len(s)
	}
	out = make(serials, n)
	for _, s := range sets {
		for ser := range s {
			out[ser] = struct{}{}
		}
	}
	return
}

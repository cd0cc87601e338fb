package event

import (
	"sort"
)

// Precedes reports whether a comes before b in the descending order used
// everywhere events are listed: newest created_at first, and for equal
// created_at the lexicographically smaller ID first.
func Precedes(a, b *T) bool {
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt > b.CreatedAt
	}
	return a.ID < b.ID
}

// Position returns the index at which ev belongs in the descending ordered evs.
func (evs Ts) Position(ev *T) int {
	return sort.Search(len(evs), func(i int) bool { return !Precedes(evs[i], ev) })
}

// Insert places ev at its position in the descending ordered evs, without
// re-sorting. If an event with the same ID is already there it is not added
// again.
func (evs Ts) Insert(ev *T) Ts {
	i := evs.Position(ev)
	if i < len(evs) && evs[i].ID == ev.ID {
		return evs
	}
	evs = append(evs, nil)
	copy(evs[i+1:], evs[i:])
	evs[i] = ev
	return evs
}

// Delete removes the event with the ID of ev from the descending ordered evs,
// returning whether it was found.
func (evs Ts) Delete(ev *T) (out Ts, found bool) {
	i := evs.Position(ev)
	if i < len(evs) && evs[i].ID == ev.ID {
		return append(evs[:i], evs[i+1:]...), true
	}
	return evs, false
}

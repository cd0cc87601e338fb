package ratel

import (
	"evdb.lol/addresstag"
	"evdb.lol/event"
	"evdb.lol/kind"
)

// GetEvent returns the stored event with the given id, or nil.
func (r *T) GetEvent(id string) (ev *event.T) {
	if ser, ok := r.ids[id]; ok {
		ev = r.events[ser]
	}
	return
}

// HasEvent reports whether an event with the given id is stored.
func (r *T) HasEvent(id string) (ok bool) {
	_, ok = r.ids[id]
	return
}

// address is the key of the history of an address. The identifier only counts
// for addressable kinds.
func address(k uint16, pubkey, identifier string) string {
	if !kind.New(k).IsAddressable() {
		identifier = ""
	}
	return addresstag.New(k, pubkey, identifier).String()
}

// GetReplaceable returns the current version of the event at an address, or nil.
func (r *T) GetReplaceable(k uint16, pubkey, identifier string) (ev *event.T) {
	if h := r.replaceables[address(k, pubkey, identifier)]; len(h) > 0 {
		ev = r.events[h[0]]
	}
	return
}

// HasReplaceable reports whether there is a version stored at an address.
func (r *T) HasReplaceable(k uint16, pubkey, identifier string) bool {
	return len(r.replaceables[address(k, pubkey, identifier)]) > 0
}

// GetReplaceableHistory returns every stored version at an address, newest
// first.
func (r *T) GetReplaceableHistory(k uint16, pubkey, identifier string) (evs event.Ts) {
	for _, ser := range r.replaceables[address(k, pubkey, identifier)] {
		evs = append(evs, r.events[ser])
	}
	return
}

package eventstore

import (
	"evdb.lol/addresstag"
	"evdb.lol/event"
	"evdb.lol/hex"
	"evdb.lol/kind"
	"evdb.lol/timestamp"
)

// applyDeletion records the references of a deletion request and removes what
// they refer to. Only events by the author of the request are affected.
//
// An `e` tag deletes that id for good. An `a` tag deletes every version at the
// address older than the request, newer versions are untouched.
func (s *T) applyDeletion(del *event.T) {
	for _, tg := range del.Tags.F() {
		if tg.Len() < 2 {
			continue
		}
		switch tg.Key() {
		case "e":
			s.deleteID(del, tg.Value())
		case "a":
			s.deleteAddress(del, tg.Value())
		}
	}
}

func (s *T) deleteID(del *event.T, id string) {
	if !hex.Valid32(id) {
		log.D.F("deletion %s has invalid e tag %q", del.ID, id)
		return
	}
	if s.deletedIDs[id] == nil {
		s.deletedIDs[id] = make(map[string]struct{})
	}
	s.deletedIDs[id][del.Pubkey] = struct{}{}
	target := s.engine.GetEvent(id)
	if target == nil {
		return
	}
	if target.Pubkey != del.Pubkey {
		log.D.F("deletion %s may not delete %s of another author", del.ID, id)
		return
	}
	if target.Kind.IsDeletion() {
		log.D.F("deletion %s may not delete deletion %s", del.ID, id)
		return
	}
	if _, err := s.engine.Remove(target); chk.E(err) {
		return
	}
	log.D.F("deleted %s by request %s", id, del.ID)
}

func (s *T) deleteAddress(del *event.T, value string) {
	a, err := addresstag.Decode(value)
	if chk.D(err) {
		return
	}
	k := kind.New(a.Kind)
	if !k.HasAddress() {
		log.D.F("deletion %s refers to kind %d which has no address", del.ID, a.Kind)
		return
	}
	if a.Pubkey != del.Pubkey {
		log.D.F("deletion %s may not delete address %s of another author", del.ID, value)
		return
	}
	if !k.IsAddressable() {
		a.Identifier = ""
	}
	key := a.String()
	if s.deletedAddrs[key] < del.CreatedAt {
		s.deletedAddrs[key] = del.CreatedAt
	}
	for _, v := range s.engine.GetReplaceableHistory(a.Kind, a.Pubkey, a.Identifier) {
		if v.CreatedAt >= del.CreatedAt {
			continue
		}
		if _, err = s.engine.Remove(v); chk.E(err) {
			continue
		}
		log.D.F("deleted %s at %s by request %s", v.ID, key, del.ID)
	}
}

// IsDeleted reports whether a deletion request covering ev has been seen: its
// id was named by its author, or its address was, at a later time.
func (s *T) IsDeleted(ev *event.T) bool {
	if ev == nil {
		return false
	}
	if _, ok := s.deletedIDs[ev.ID][ev.Pubkey]; ok {
		return true
	}
	if a := addresstag.FromEvent(ev); a != nil {
		if ts, ok := s.deletedAddrs[a.String()]; ok && ev.CreatedAt < ts {
			return true
		}
	}
	return false
}

// DeletedBefore returns the time of the newest deletion request for an
// address, or zero if there is none.
func (s *T) DeletedBefore(k uint16, pubkey, identifier string) timestamp.T {
	if !kind.New(k).IsAddressable() {
		identifier = ""
	}
	return s.deletedAddrs[addresstag.New(k, pubkey, identifier).String()]
}

package eventstore

import (
	"evdb.lol/addresstag"
	"evdb.lol/event"
)

// Add stores an event and returns the instance that is current for it: the
// event itself, an already stored copy of it, or the newer version at its
// address. Hints are the sources the event was received from, recorded in its
// decoration. Nil is returned when the event was rejected by the admission
// hook or has been deleted.
func (s *T) Add(ev *event.T, hints ...string) (stored *event.T) {
	if ev == nil {
		return
	}
	ev.AddSeen(hints...)
	if s.IsDeleted(ev) {
		log.D.F("not adding deleted event %s", ev.ID)
		return
	}
	var admitted bool
	if ev.Kind.IsDeletion() && !s.engine.HasEvent(ev.ID) {
		// a deletion request takes effect before it is stored, so it is
		// admitted first
		if !s.admit(ev) {
			return
		}
		admitted = true
		s.applyDeletion(ev)
	}
	if stored = s.engine.GetEvent(ev.ID); stored != nil {
		event.MergeMeta(stored, ev)
		return
	}
	a := addresstag.FromEvent(ev)
	if a != nil && !s.keepOld {
		if head := s.engine.GetReplaceable(a.Kind, a.Pubkey, a.Identifier); head != nil &&
			head.CreatedAt >= ev.CreatedAt {
			log.T.F("%s is not newer than %s at %s", ev.ID, head.ID, a)
			event.MergeMeta(head, ev)
			stored = head
			return
		}
	}
	if !admitted && !s.admit(ev) {
		return
	}
	if stored = s.engine.Add(ev); stored == nil || a == nil {
		return
	}
	history := s.engine.GetReplaceableHistory(a.Kind, a.Pubkey, a.Identifier)
	if len(history) == 0 {
		// removed by a subscriber of Inserted
		return
	}
	if !s.keepOld {
		for _, old := range history[1:] {
			log.T.F("removing %s, replaced by %s at %s", old.ID, history[0].ID, a)
			if _, err := s.engine.Remove(old); chk.E(err) {
				continue
			}
		}
	}
	stored = history[0]
	return
}

// Update runs an event through Add and then notifies the subscribers of
// Updated with the resulting instance. It returns false if nothing was stored.
func (s *T) Update(ev *event.T) (ok bool) {
	var stored *event.T
	if stored = s.Add(ev); stored == nil {
		return
	}
	return s.engine.Update(stored)
}

// admit runs the admission hook.
func (s *T) admit(ev *event.T) (ok bool) {
	if s.verify == nil || s.verify(ev) {
		return true
	}
	log.D.F("admission hook rejected event %s", ev.ID)
	return
}

package event

import (
	"encoding/json"

	"evdb.lol/hex"
	"evdb.lol/kind"
	"evdb.lol/tags"
	"evdb.lol/timestamp"
)

// T is the primary datatype of nostr. The identifiers are kept in their
// lowercase hex form, which is how they appear on the wire and how they are
// compared and ordered.
type T struct {
	// ID is the SHA256 hash of the canonical encoding of the event, in hex.
	ID string
	// Pubkey is the public key of the event creator, in hex.
	Pubkey string
	// CreatedAt is the UNIX timestamp of the event according to the event
	// creator (never trust a timestamp!)
	CreatedAt timestamp.T
	// Kind is the nostr protocol code for the type of event. See kind.T
	Kind *kind.T
	// Tags are a list of tags, which are a list of strings usually structured
	// as a 3 layer scheme indicating specific features of an event.
	Tags *tags.T
	// Content is an arbitrary string that can contain anything, but usually
	// conforming to a specification relating to the Kind and the Tags.
	Content string
	// Sig is the signature on the ID hash that validates as coming from the
	// Pubkey, in hex.
	Sig string

	// meta is bookkeeping attached by the store and producers, it is not part of
	// the signed event.
	meta Meta
}

// Ts is an array of T that sorts in reverse chronological order, with ties
// broken by ascending ID, see Precedes.
type Ts []*T

func (ev Ts) Len() int           { return len(ev) }
func (ev Ts) Less(i, j int) bool { return Precedes(ev[i], ev[j]) }
func (ev Ts) Swap(i, j int)      { ev[i], ev[j] = ev[j], ev[i] }

// Set is a collection of events keyed by their ID.
type Set map[string]*T

// Sorted returns the events of the set in descending order.
func (s Set) Sorted() (evs Ts) {
	evs = make(Ts, 0, len(s))
	for _, ev := range s {
		evs = evs.Insert(ev)
	}
	return
}

// J is the JSON form of an event.
type J struct {
	Id        string     `json:"id"`
	Pubkey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int32      `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// ToEventJ converts an event to its JSON form.
func (ev *T) ToEventJ() (j *J) {
	return &J{
		Id:        ev.ID,
		Pubkey:    ev.Pubkey,
		CreatedAt: ev.CreatedAt.I64(),
		Kind:      ev.Kind.ToI32(),
		Tags:      ev.Tags.ToStringSlice(),
		Content:   ev.Content,
		Sig:       ev.Sig,
	}
}

// ToEvent converts the JSON form to the native form, checking that the
// identifiers are well formed hex.
func (j *J) ToEvent() (ev *T, err error) {
	if !hex.Valid32(j.Id) {
		err = errorf.D("invalid event id %q", j.Id)
		return
	}
	if !hex.Valid32(j.Pubkey) {
		err = errorf.D("invalid pubkey %q in event %s", j.Pubkey, j.Id)
		return
	}
	if j.Kind < 0 || j.Kind > 65535 {
		err = errorf.D("kind %d out of range in event %s", j.Kind, j.Id)
		return
	}
	ev = &T{
		ID:        j.Id,
		Pubkey:    j.Pubkey,
		CreatedAt: timestamp.FromUnix(j.CreatedAt),
		Kind:      kind.New(j.Kind),
		Tags:      tags.FromStringSlices(j.Tags...),
		Content:   j.Content,
		Sig:       j.Sig,
	}
	return
}

// MarshalJSON renders the event in its wire form.
func (ev *T) MarshalJSON() (b []byte, err error) { return json.Marshal(ev.ToEventJ()) }

// UnmarshalJSON decodes the wire form of an event. Decoration is not touched.
func (ev *T) UnmarshalJSON(b []byte) (err error) {
	var j J
	if err = json.Unmarshal(b, &j); chk.D(err) {
		return
	}
	var e *T
	if e, err = j.ToEvent(); err != nil {
		return
	}
	ev.ID, ev.Pubkey, ev.CreatedAt, ev.Kind = e.ID, e.Pubkey, e.CreatedAt, e.Kind
	ev.Tags, ev.Content, ev.Sig = e.Tags, e.Content, e.Sig
	return
}

// Serialize renders the event as minified JSON.
func (ev *T) Serialize() (b []byte) {
	var err error
	if b, err = ev.MarshalJSON(); chk.E(err) {
		return
	}
	return
}

// Clone makes a deep copy of the event. The decoration is copied into a new
// independent Meta, so changes to the clone's bookkeeping never reach the
// original.
func (ev *T) Clone() (c *T) {
	if ev == nil {
		return
	}
	c = &T{
		ID:        ev.ID,
		Pubkey:    ev.Pubkey,
		CreatedAt: ev.CreatedAt,
		Tags:      ev.Tags.Clone(),
		Content:   ev.Content,
		Sig:       ev.Sig,
	}
	if ev.Kind != nil {
		c.Kind = kind.New(ev.Kind.K)
	}
	c.meta = ev.meta.clone()
	return
}

// Package addresstag is the address of a replaceable or addressable event, as
// found in the value of an `a` tag: kind:pubkey:identifier.
package addresstag

import (
	"strconv"
	"strings"

	"evdb.lol/event"
	"evdb.lol/hex"
)

// T is the address of a replaceable event. Replaceable kinds have an empty
// Identifier, addressable kinds use the value of their first `d` tag.
type T struct {
	Kind       uint16
	Pubkey     string
	Identifier string
}

// New creates an address from its parts.
func New(k uint16, pubkey, identifier string) *T {
	return &T{Kind: k, Pubkey: pubkey, Identifier: identifier}
}

// FromEvent returns the address of ev, or nil if the kind of ev does not have
// one.
func FromEvent(ev *event.T) (a *T) {
	if ev == nil || !ev.Kind.HasAddress() {
		return
	}
	a = &T{Kind: ev.Kind.ToU16(), Pubkey: ev.Pubkey}
	if ev.Kind.IsAddressable() {
		a.Identifier = ev.Tags.GetD()
	}
	return
}

// String renders the address in the form used in `a` tags.
func (a *T) String() string {
	return strconv.FormatUint(uint64(a.Kind), 10) + ":" + a.Pubkey + ":" + a.Identifier
}

// Decode unpacks the contents of an `a` tag. The identifier may itself contain
// colons.
func Decode(tagValue string) (a *T, err error) {
	split := strings.SplitN(tagValue, ":", 3)
	if len(split) != 3 {
		err = errorf.D("address %q does not have three fields", tagValue)
		return
	}
	var k uint64
	if k, err = strconv.ParseUint(split[0], 10, 16); chk.D(err) {
		return
	}
	if !hex.Valid32(split[1]) {
		err = errorf.D("address %q has invalid pubkey", tagValue)
		return
	}
	a = &T{Kind: uint16(k), Pubkey: split[1], Identifier: split[2]}
	return
}

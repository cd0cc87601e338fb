// Package store is the interface of the event database, composed of the query,
// mutation, claim and notification parts, and the errors it returns.
package store

import (
	"github.com/pkg/errors"

	"evdb.lol/event"
	"evdb.lol/filter"
	"evdb.lol/filters"
	"evdb.lol/publish"
)

var (
	// ErrMalformedReference is returned when an event or id given to a removal
	// cannot be resolved to an event id at all.
	ErrMalformedReference = errors.New("malformed event reference")
	// ErrEmptyFilters is returned when a query is given a filter list with no
	// filters in it.
	ErrEmptyFilters = errors.New("empty filter list")
)

// I is the event database as seen by producers and consumers of events.
type I interface {
	Querent
	Adder
	Remover
	Claimer
	Notifier
	// Prune evicts up to limit least recently used events that are not
	// claimed, and returns how many were evicted. A limit of zero or less
	// evicts nothing.
	Prune(limit int) (n int)
}

// Querent is the read side of the store.
type Querent interface {
	// GetEvent returns the stored event with the given id, or nil.
	GetEvent(id string) (ev *event.T)
	// HasEvent reports whether an event with the id is stored.
	HasEvent(id string) bool
	// GetReplaceable returns the current version of the replaceable or
	// addressable event at an address, or nil.
	GetReplaceable(k uint16, pubkey, identifier string) (ev *event.T)
	// HasReplaceable reports whether there is a current version at an address.
	HasReplaceable(k uint16, pubkey, identifier string) bool
	// GetReplaceableHistory returns every stored version at an address, newest
	// first.
	GetReplaceableHistory(k uint16, pubkey, identifier string) (evs event.Ts)
	// GetEventsForFilter returns the events matching one filter.
	GetEventsForFilter(f *filter.T) (evs event.Set)
	// GetByFilters returns the events matching any of the filters.
	GetByFilters(ff *filters.T) (evs event.Set, err error)
	// GetTimeline returns the events matching any of the filters, newest
	// first.
	GetTimeline(ff *filters.T) (evs event.Ts, err error)
	// Count is the number of stored events.
	Count() int
}

// Adder is the write side of the store.
type Adder interface {
	// Add stores an event, returning the instance that is now current for it,
	// or nil if it was rejected or has been deleted. Hints are the sources the
	// event was received from.
	Add(ev *event.T, hints ...string) (stored *event.T)
	// Update runs Add and then notifies subscribers that the event changed.
	Update(ev *event.T) (ok bool)
}

// Remover removes events from the store.
type Remover interface {
	Remove(ev *event.T) (found bool, err error)
	RemoveID(id string) (found bool, err error)
}

// Claimer keeps events in use safe from Prune.
type Claimer interface {
	Claim(ev *event.T, owner string)
	IsClaimed(ev *event.T) bool
	RemoveClaim(ev *event.T, owner string)
	ClearClaim(ev *event.T)
	// Touch marks an event as recently used without claiming it.
	Touch(ev *event.T)
}

// Notifier gives access to the notification streams of the store.
type Notifier interface {
	Inserted() publish.I[*event.T]
	Updated() publish.I[*event.T]
	Removed() publish.I[*event.T]
}

// MalformedReference wraps ErrMalformedReference with the offending value.
func MalformedReference(format string, a ...any) error {
	return errors.Wrapf(ErrMalformedReference, format, a...)
}

// EmptyFilters wraps ErrEmptyFilters with context.
func EmptyFilters(format string, a ...any) error {
	return errors.Wrapf(ErrEmptyFilters, format, a...)
}

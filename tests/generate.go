// Package tests provides tools to generate events with random keys and content
// for testing the event store. The ids are computed, there is no signature.
package tests

import (
	"encoding/base64"

	"lukechampine.com/frand"

	"evdb.lol/event"
	"evdb.lol/hex"
	"evdb.lol/kind"
	"evdb.lol/tags"
	"evdb.lol/timestamp"
)

// Pubkey returns a random 32 byte key in hex.
func Pubkey() string { return hex.Enc(frand.Bytes(32)) }

// Event creates an event with its id computed from its content. Each tag is a
// list of strings.
func Event(k uint16, pubkey string, createdAt int64, content string,
	tt ...[]string) (ev *event.T) {

	ev = &event.T{
		Pubkey:    pubkey,
		CreatedAt: timestamp.FromUnix(createdAt),
		Kind:      kind.New(k),
		Tags:      tags.FromStringSlices(tt...),
		Content:   content,
	}
	ev.ID = ev.ComputeID()
	return
}

// TextNote creates a kind 1 note with random content.
func TextNote(pubkey string, createdAt int64, tt ...[]string) *event.T {
	return Event(kind.TextNote.K, pubkey, createdAt, RandomText(64), tt...)
}

// Profile creates a kind 0 profile metadata event.
func Profile(pubkey string, createdAt int64, name string) *event.T {
	return Event(kind.ProfileMetadata.K, pubkey, createdAt, `{"name":"`+name+`"}`)
}

// Addressable creates an event of an addressable kind with the given d tag.
func Addressable(k uint16, pubkey, d string, createdAt int64) *event.T {
	return Event(k, pubkey, createdAt, RandomText(32), []string{"d", d})
}

// Deletion creates a kind 5 tombstone referring to the given event ids (e tags)
// and addresses (a tags).
func Deletion(pubkey string, createdAt int64, ids, addresses []string) *event.T {
	var tt [][]string
	for _, id := range ids {
		tt = append(tt, []string{"e", id})
	}
	for _, a := range addresses {
		tt = append(tt, []string{"a", a})
	}
	return Event(kind.Deletion.K, pubkey, createdAt, "", tt...)
}

// RandomText returns base64 of up to n random bytes.
func RandomText(n int) string {
	return base64.StdEncoding.EncodeToString(frand.Bytes(frand.Intn(n) + 1))
}

// GenerateEvent creates a text note with random author, time within the last
// span seconds of now, and content of up to maxSize bytes.
func GenerateEvent(maxSize int, span int) (ev *event.T) {
	return Event(kind.TextNote.K, Pubkey(), timestamp.Now().I64()-int64(frand.Intn(span+1)),
		RandomText(maxSize*6/8+1))
}

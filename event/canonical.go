package event

import (
	"github.com/minio/sha256-simd"

	"evdb.lol/hex"
	"evdb.lol/text"
)

// ToCanonical converts the event to the canonical encoding used to derive the
// event ID.
func (ev *T) ToCanonical(dst []byte) (b []byte) {
	b = dst
	b = append(b, "[0,"...)
	b = text.AppendQuote(b, ev.Pubkey)
	b = append(b, ',')
	b = ev.CreatedAt.Marshal(b)
	b = append(b, ',')
	b = ev.Kind.Marshal(b)
	b = append(b, ',')
	b = ev.Tags.Marshal(b)
	b = append(b, ',')
	b = text.AppendQuote(b, ev.Content)
	b = append(b, ']')
	return
}

// GetIDBytes returns the raw SHA256 hash of the canonical form of an event.T.
func (ev *T) GetIDBytes() []byte { return Hash(ev.ToCanonical(nil)) }

// ComputeID returns the hex encoded ID the event should have.
func (ev *T) ComputeID() string { return hex.Enc(ev.GetIDBytes()) }

// CheckID reports whether the ID field matches the content of the event.
func (ev *T) CheckID() (ok bool) { return ev.ID == ev.ComputeID() }

// Hash returns the SHA256 of the input.
func Hash(in []byte) (out []byte) {
	h := sha256.Sum256(in)
	return h[:]
}

// Package hex is a set of aliases and helpers for hexadecimal encoding, using a
// SIMD accelerated codec where it counts.
package hex

import (
	"encoding/hex"

	"github.com/templexxx/xhex"
)

var Enc = hex.EncodeToString
var Dec = hex.DecodeString
var DecLen = hex.DecodedLen

type InvalidByteError = hex.InvalidByteError

// EncAppend appends the hex encoding of src to dst.
func EncAppend(dst, src []byte) (b []byte) {
	l := len(dst)
	dst = append(dst, make([]byte, len(src)*2)...)
	xhex.Encode(dst[l:], src)
	return dst
}

// DecAppend appends the decoded bytes of the hex in src to dst.
func DecAppend(dst, src []byte) (b []byte, err error) {
	if len(src)%2 != 0 {
		err = errorf.D("odd length hex string: %d", len(src))
		return
	}
	l := len(dst)
	b = append(dst, make([]byte, len(src)/2)...)
	if err = xhex.Decode(b[l:], src); chk.D(err) {
		return
	}
	return
}

// Valid32 reports whether s is exactly 64 lowercase hexadecimal characters, the
// form nostr uses for event ids and public keys.
func Valid32(s string) (ok bool) {
	if len(s) != 64 {
		return
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return
		}
	}
	var buf [32]byte
	return xhex.Decode(buf[:], []byte(s)) == nil
}

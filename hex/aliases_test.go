package hex

import (
	"strings"
	"testing"

	"lukechampine.com/frand"
)

func TestEncDecAppend(t *testing.T) {
	for range 100 {
		src := frand.Bytes(frand.Intn(64))
		enc := EncAppend([]byte("x"), src)
		if string(enc[1:]) != Enc(src) {
			t.Fatalf("got %s want %s", enc[1:], Enc(src))
		}
		dec, err := DecAppend(nil, enc[1:])
		if chk.E(err) {
			t.Fatal(err)
		}
		if string(dec) != string(src) {
			t.Fatalf("got %x want %x", dec, src)
		}
	}
	if _, err := DecAppend(nil, []byte("abc")); err == nil {
		t.Fatal("expected error for odd length")
	}
}

func TestValid32(t *testing.T) {
	good := Enc(frand.Bytes(32))
	if !Valid32(good) {
		t.Fatalf("%s should be valid", good)
	}
	for _, bad := range []string{
		"",
		good[:63],
		good + "0",
		strings.ToUpper(good),
		"g" + good[1:],
	} {
		if Valid32(bad) {
			t.Fatalf("%q should not be valid", bad)
		}
	}
}

package timestamp

import (
	"testing"
	"time"
)

func TestConversions(t *testing.T) {
	now := time.Now()
	ts := FromTime(now)
	if ts.I64() != now.Unix() {
		t.Fatalf("got %d want %d", ts.I64(), now.Unix())
	}
	if !ts.Time().Equal(time.Unix(now.Unix(), 0)) {
		t.Fatal("time round trip failed")
	}
	if string(FromUnix(1700000000).Marshal([]byte("x"))) != "x1700000000" {
		t.Fatal("marshal mismatch")
	}
	p := FromUnix(5).Ptr()
	*p = 6
	if FromUnix(5).Ptr() == p || *p != 6 {
		t.Fatal("Ptr must return a fresh copy")
	}
}

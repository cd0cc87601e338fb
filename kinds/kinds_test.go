package kinds

import (
	"testing"

	"lukechampine.com/frand"

	"evdb.lol/kind"
)

func TestSortedDeduplicates(t *testing.T) {
	k := FromIntSlice([]int{30023, 1, 0, 1, 3})
	s := k.Sorted()
	if got := string(s.Marshal(nil)); got != "[0,1,3,30023]" {
		t.Fatalf("got %s", got)
	}
	// the original must not be reordered
	if k.K[0].K != 30023 || k.Len() != 5 {
		t.Fatal("Sorted mutated the receiver")
	}
}

func TestContains(t *testing.T) {
	k := &T{make([]*kind.T, 100)}
	for i := range k.K {
		k.K[i] = kind.New(uint16(frand.Intn(65535)))
	}
	for i := range k.K {
		if !k.Contains(kind.New(k.K[i].K)) {
			t.Fatalf("missing element %d", k.K[i].K)
		}
	}
	var nilKinds *T
	if nilKinds.Contains(kind.TextNote) || nilKinds.Len() != 0 {
		t.Fatal("nil kinds must be empty")
	}
}

package event

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"

	"evdb.lol/hex"
	"evdb.lol/kind"
	"evdb.lol/tag"
	"evdb.lol/tags"
	"evdb.lol/timestamp"
)

func newNote(at int64, content string) (ev *T) {
	ev = &T{
		Pubkey:    hex.Enc(frand.Bytes(32)),
		CreatedAt: timestamp.FromUnix(at),
		Kind:      kind.TextNote,
		Tags:      tags.FromStringSlices([]string{"t", "nostr"}),
		Content:   content,
	}
	ev.ID = ev.ComputeID()
	return
}

func TestCanonicalForm(t *testing.T) {
	ev := &T{
		Pubkey:    "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		CreatedAt: 1700000000,
		Kind:      kind.TextNote,
		Tags:      tags.FromStringSlices([]string{"e", "abc"}, []string{"t", "x"}),
		Content:   "hello\n\"world\"",
	}
	want := `[0,"79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",` +
		`1700000000,1,[["e","abc"],["t","x"]],"hello\n\"world\""]`
	require.Equal(t, want, string(ev.ToCanonical(nil)))
	ev.ID = ev.ComputeID()
	require.True(t, hex.Valid32(ev.ID))
	require.True(t, ev.CheckID())
	ev.Content = "tampered"
	require.False(t, ev.CheckID())
}

func TestJSONRoundTrip(t *testing.T) {
	ev := newNote(1700000000, "gm")
	b := ev.Serialize()
	var back T
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, ev.ID, back.ID)
	require.Equal(t, ev.Pubkey, back.Pubkey)
	require.Equal(t, ev.CreatedAt, back.CreatedAt)
	require.True(t, ev.Kind.Equal(back.Kind))
	require.True(t, ev.Tags.Equal(back.Tags))
	require.True(t, back.CheckID())

	bad := &J{Id: "nothex", Pubkey: ev.Pubkey}
	_, err := bad.ToEvent()
	require.Error(t, err)
}

func TestPrecedesBreaksTiesByID(t *testing.T) {
	var evs Ts
	for range 200 {
		evs = append(evs, newNote(int64(frand.Intn(5)), hex.Enc(frand.Bytes(8))))
	}
	sort.Sort(evs)
	for i := 1; i < len(evs); i++ {
		a, b := evs[i-1], evs[i]
		require.True(t, a.CreatedAt > b.CreatedAt ||
			(a.CreatedAt == b.CreatedAt && a.ID < b.ID))
	}
}

func TestInsertAndDelete(t *testing.T) {
	var sorted Ts
	var all Ts
	for range 100 {
		ev := newNote(int64(frand.Intn(10)), hex.Enc(frand.Bytes(8)))
		all = append(all, ev)
		sorted = sorted.Insert(ev)
	}
	// inserting an id that is present again is a no-op
	sorted = sorted.Insert(all[0])
	require.Len(t, sorted, 100)
	require.True(t, sort.IsSorted(sorted))
	var found bool
	sorted, found = sorted.Delete(all[10])
	require.True(t, found)
	require.Len(t, sorted, 99)
	_, found = sorted.Delete(all[10])
	require.False(t, found)
	require.True(t, sort.IsSorted(sorted))
}

func TestMergeMeta(t *testing.T) {
	stored := newNote(1, "a")
	stored.AddSeen("wss://one")
	incoming := stored.Clone()
	incoming.AddSeen("wss://two", "wss://one", "")
	incoming.SetFromCache()
	require.True(t, MergeMeta(stored, incoming))
	require.Equal(t, []string{"wss://one", "wss://two"}, stored.SeenOn())
	require.True(t, stored.IsFromCache())
	// merging again adds nothing and never switches FromCache off
	require.False(t, MergeMeta(stored, stored.Clone()))
	plain := newNote(1, "a")
	require.False(t, MergeMeta(stored, plain))
	require.True(t, stored.IsFromCache())
}

func TestCloneDoesNotShareMeta(t *testing.T) {
	ev := newNote(1, "a")
	ev.AddSeen("wss://one")
	c := ev.Clone()
	c.AddSeen("wss://two")
	c.Tags.AppendTags(tag.New("p", "x"))
	require.Equal(t, []string{"wss://one"}, ev.SeenOn())
	require.Equal(t, 1, ev.Tags.Len())
	// mutating the returned slice must not affect the event
	seen := ev.SeenOn()
	seen[0] = "changed"
	require.Equal(t, "wss://one", ev.SeenOn()[0])
}

func TestSetSorted(t *testing.T) {
	s := Set{}
	for range 50 {
		ev := newNote(int64(frand.Intn(20)), hex.Enc(frand.Bytes(8)))
		s[ev.ID] = ev
	}
	evs := s.Sorted()
	require.Len(t, evs, 50)
	require.True(t, sort.IsSorted(evs))
}

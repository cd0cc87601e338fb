package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"evdb.lol/addresstag"
	"evdb.lol/event"
	"evdb.lol/eventstore"
	"evdb.lol/filter"
	"evdb.lol/filters"
	"evdb.lol/kind"
	"evdb.lol/kinds"
	"evdb.lol/store"
	"evdb.lol/tests"
)

func newRegistry(keepWarm time.Duration) (*eventstore.T, *T) {
	s := eventstore.New(eventstore.Params{})
	return s, New(s, keepWarm)
}

// collect subscribes and returns the values received so far.
func collect[V any](st *Stream[V]) (got func() []V, cancel func()) {
	var vals []V
	cancel = st.Subscribe(func(v V) { vals = append(vals, v) })
	got = func() []V { return vals }
	return
}

func TestEventModel(t *testing.T) {
	s, m := newRegistry(time.Minute)
	ev := tests.TextNote(tests.Pubkey(), 100)
	got, cancel := collect(m.Event(ev.ID))
	defer cancel()
	// nothing to emit yet
	require.Empty(t, got())
	s.Add(ev)
	require.Equal(t, []*event.T{ev}, got())
	s.Update(ev)
	require.Len(t, got(), 2)
	_, err := s.Remove(ev)
	require.NoError(t, err)
	require.Len(t, got(), 3)
	require.Nil(t, got()[2])
	s.RemoveID(ev.ID)
	require.Len(t, got(), 3)
	// still alive after the removal
	s.Add(ev.Clone())
	require.Len(t, got(), 4)
	require.Equal(t, ev.ID, got()[3].ID)
}

func TestSameKeySameStream(t *testing.T) {
	_, m := newRegistry(time.Minute)
	pk := tests.Pubkey()
	require.Same(t, m.Event("a"), m.Event("a"))
	require.NotSame(t, m.Event("a"), m.Event("b"))
	require.Same(t, m.Replaceable(0, pk, "x"), m.Replaceable(0, pk, ""))
	require.Same(t, m.Events("a", "b"), m.Events("b", "a"))
	f1, f2 := filter.New(), filter.New()
	f1.Authors, f2.Authors = []string{pk}, []string{pk}
	require.Same(t, m.Timeline(filters.New(f1), false), m.Timeline(filters.New(f2), false))
	require.NotSame(t, m.Timeline(filters.New(f1), false), m.Timeline(filters.New(f1), true))
	require.Equal(t, 6, m.Stats().Models)
	require.EqualValues(t, 0, m.Stats().Builds)
}

func TestModelSharing(t *testing.T) {
	s, m := newRegistry(time.Minute)
	var derivations int
	build := func(st store.I, emit func(int)) (stop func()) {
		emit(st.Count())
		return st.Inserted().Subscribe(func(*event.T) {
			derivations++
			emit(st.Count())
		})
	}
	count := func(n int) event.Ts { return nil }
	a, cancelA := collect(Get(m, "count", build, count))
	b, cancelB := collect(Get(m, "count", build, count))
	defer cancelA()
	defer cancelB()
	for i := range 5 {
		s.Add(tests.TextNote(tests.Pubkey(), int64(i)))
	}
	require.Equal(t, 5, derivations)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, a())
	// the second subscriber got the replayed value first
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, b())
	require.EqualValues(t, 1, m.Stats().Builds)
}

func TestKeepWarm(t *testing.T) {
	_, m := newRegistry(50 * time.Millisecond)
	id := tests.Pubkey()
	st := m.Event(id)
	cancel := st.Subscribe(func(*event.T) {})
	cancel()
	cancel = st.Subscribe(func(*event.T) {})
	require.Same(t, st, m.Event(id))
	require.EqualValues(t, 1, m.Stats().Builds)
	cancel()
	require.Eventually(t, func() bool { return m.Stats().Models == 0 },
		time.Second, 5*time.Millisecond)
	fresh := m.Event(id)
	require.NotSame(t, st, fresh)
	cancel = fresh.Subscribe(func(*event.T) {})
	defer cancel()
	require.EqualValues(t, 2, m.Stats().Builds)

	// a discarded stream still works when subscribed to again
	cancelStale := st.Subscribe(func(*event.T) {})
	defer cancelStale()
	require.EqualValues(t, 3, m.Stats().Builds)
}

func TestClaimsFollowSubscriptions(t *testing.T) {
	s, m := newRegistry(time.Minute)
	pk := tests.Pubkey()
	var notes event.Ts
	for i := range 6 {
		ev := tests.TextNote(pk, int64(i))
		notes = append(notes, ev)
		s.Add(ev)
	}
	f := filter.New()
	f.IDs = []string{notes[0].ID, notes[1].ID}
	cancel := m.Timeline(filters.New(f), false).Subscribe(func(event.Ts) {})
	require.True(t, s.IsClaimed(notes[0]))
	require.True(t, s.IsClaimed(notes[1]))
	require.False(t, s.IsClaimed(notes[2]))
	require.Equal(t, 4, s.Prune(len(notes)))
	require.True(t, s.HasEvent(notes[0].ID))
	require.True(t, s.HasEvent(notes[1].ID))

	cancel()
	require.False(t, s.IsClaimed(notes[0]))
	require.Equal(t, 2, s.Prune(len(notes)))
	require.Equal(t, 0, s.Count())
}

func TestClaimsReleasedForDroppedEvents(t *testing.T) {
	s, m := newRegistry(time.Minute)
	pk := tests.Pubkey()
	p1 := tests.Profile(pk, 100, "one")
	s.Add(p1)
	cancel := m.Replaceable(kind.ProfileMetadata.K, pk, "").Subscribe(func(*event.T) {})
	defer cancel()
	require.True(t, s.IsClaimed(p1))
	p2 := tests.Profile(pk, 200, "two")
	s.Add(p2)
	require.True(t, s.IsClaimed(p2))
	require.False(t, s.HasEvent(p1.ID))
}

func TestReplaceableModel(t *testing.T) {
	s := eventstore.New(eventstore.Params{KeepOldVersions: true})
	m := New(s, time.Minute)
	pk := tests.Pubkey()
	got, cancel := collect(m.Replaceable(kind.ProfileMetadata.K, pk, ""))
	defer cancel()
	p1 := tests.Profile(pk, 100, "one")
	p2 := tests.Profile(pk, 200, "two")
	s.Add(p1)
	s.Add(p2)
	// an older version arriving late changes nothing
	s.Add(tests.Profile(pk, 150, "late"))
	require.Equal(t, []*event.T{p1, p2}, got())
	// removing the current version falls back to the previous one
	_, err := s.Remove(p2)
	require.NoError(t, err)
	require.Len(t, got(), 3)
	require.Equal(t, `{"name":"late"}`, got()[2].Content)
	// following across re-insertion
	s.Add(p2)
	require.Same(t, p2, got()[3])
}

func TestTimelineModel(t *testing.T) {
	s, m := newRegistry(time.Minute)
	alice, bob := tests.Pubkey(), tests.Pubkey()
	s.Add(tests.TextNote(alice, 10))
	f := filter.New()
	f.Authors = []string{alice}
	got, cancel := collect(m.Timeline(filters.New(f), false))
	defer cancel()
	require.Len(t, got(), 1)
	require.Len(t, got()[0], 1)

	n20 := tests.TextNote(alice, 20)
	n5 := tests.TextNote(alice, 5)
	s.Add(n20)
	s.Add(tests.TextNote(bob, 30))
	s.Add(n5)
	require.Len(t, got(), 3)
	last := got()[2]
	require.Len(t, last, 3)
	require.Same(t, n20, last[0])
	require.Same(t, n5, last[2])
	// earlier lists are untouched
	require.Len(t, got()[1], 2)

	_, _ = s.Remove(n20)
	last = got()[3]
	require.Len(t, last, 2)
	require.NotContains(t, last, n20)

	// replaceable entries are listed once, at their newest version
	p1 := tests.Profile(alice, 100, "one")
	p2 := tests.Profile(alice, 200, "two")
	s.Add(p1)
	s.Add(p2)
	last = got()[len(got())-1]
	require.Same(t, p2, last[0])
	require.NotContains(t, last, p1)
}

func TestDirectoryModels(t *testing.T) {
	s, m := newRegistry(time.Minute)
	pk := tests.Pubkey()
	a, b := tests.TextNote(pk, 1), tests.TextNote(pk, 2)
	s.Add(a)
	events, cancel := collect(m.Events(a.ID, b.ID))
	defer cancel()
	require.Equal(t, Directory{a.ID: a}, events()[0])
	s.Add(b)
	require.Equal(t, Directory{a.ID: a, b.ID: b}, events()[1])
	_, _ = s.Remove(a)
	require.Equal(t, Directory{b.ID: b}, events()[2])

	list := tests.Addressable(30000, pk, "list", 100)
	s.Add(list)
	addr := addresstag.FromEvent(list)
	profile := addresstag.New(0, pk, "")
	dirs, cancel2 := collect(m.Replaceables(addr, profile))
	defer cancel2()
	require.Equal(t, Directory{addr.String(): list}, dirs()[0])
	p := tests.Profile(pk, 10, "me")
	s.Add(p)
	require.Equal(t, Directory{addr.String(): list, profile.String(): p}, dirs()[1])
	newer := tests.Addressable(30000, pk, "list", 200)
	s.Add(newer)
	require.Same(t, newer, dirs()[2][addr.String()])
	require.Len(t, dirs(), 3)
	_, _ = s.Remove(p)
	require.Equal(t, Directory{addr.String(): newer}, dirs()[3])
}

func TestSubscriberPanicIsContained(t *testing.T) {
	s, m := newRegistry(time.Minute)
	ev := tests.TextNote(tests.Pubkey(), 1)
	st := m.Event(ev.ID)
	cancel1 := st.Subscribe(func(*event.T) { panic("boom") })
	defer cancel1()
	got, cancel2 := collect(st)
	defer cancel2()
	s.Add(ev)
	require.Equal(t, []*event.T{ev}, got())
}

func TestDeletionDuringInsertReachesModels(t *testing.T) {
	s, m := newRegistry(time.Minute)
	pk := tests.Pubkey()
	// deletes each note as it is stored, ahead of the models
	stopDeleting := s.Inserted().Subscribe(func(ev *event.T) {
		if ev.Kind.Equal(kind.TextNote) {
			s.Add(tests.Deletion(pk, ev.CreatedAt.I64()+1, []string{ev.ID}, nil))
		}
	})
	defer stopDeleting()
	note := tests.TextNote(pk, 100)
	f := filter.New()
	f.Kinds = kinds.New(kind.TextNote)
	timeline, cancelTimeline := collect(m.Timeline(filters.New(f), false))
	defer cancelTimeline()
	single, cancelEvent := collect(m.Event(note.ID))
	defer cancelEvent()
	s.Add(note)
	require.False(t, s.HasEvent(note.ID))
	require.Equal(t, 1, s.Count())
	tl := timeline()
	require.NotEmpty(t, tl)
	require.Empty(t, tl[len(tl)-1])
	evs := single()
	require.Len(t, evs, 2)
	require.Nil(t, evs[1])
	require.False(t, s.IsClaimed(note))
}

func TestFailedBuildIsRetried(t *testing.T) {
	_, m := newRegistry(time.Minute)
	var attempts int
	build := func(st store.I, emit func(int)) (stop func()) {
		attempts++
		if attempts == 1 {
			panic("not ready")
		}
		emit(st.Count())
		return func() {}
	}
	st := Get(m, "flaky", build, nil)
	first, cancelFirst := collect(st)
	defer cancelFirst()
	require.Empty(t, first())
	second, cancelSecond := collect(st)
	defer cancelSecond()
	require.Equal(t, 2, attempts)
	require.Equal(t, []int{0}, second())
	require.Equal(t, []int{0}, first())
	require.EqualValues(t, 2, m.Stats().Builds)
}

package publish

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedReentrantDelivery(t *testing.T) {
	s := New[int]("test")
	var got []string
	s.Subscribe(func(v int) {
		got = append(got, "a"+string(rune('0'+v)))
		if v == 1 {
			// published from inside a delivery, must come after b1
			s.Publish(2)
		}
	})
	s.Subscribe(func(v int) { got = append(got, "b"+string(rune('0'+v))) })
	s.Publish(1)
	require.Equal(t, []string{"a1", "b1", "a2", "b2"}, got)
}

func TestPanickingSubscriberIsContained(t *testing.T) {
	s := New[string]("test")
	s.Subscribe(func(string) { panic("boom") })
	get, cancel := Values[string](s)
	s.Publish("x")
	s.Publish("y")
	require.Equal(t, []string{"x", "y"}, get())
	cancel()
	cancel()
	s.Publish("z")
	require.Equal(t, []string{"x", "y"}, get())
	require.Equal(t, 1, s.Len())
}

func TestCancelDuringDelivery(t *testing.T) {
	s := New[int]("test")
	var cancelB func()
	var b []int
	s.Subscribe(func(int) { cancelB() })
	cancelB = s.Subscribe(func(v int) { b = append(b, v) })
	s.Publish(1)
	require.Empty(t, b)
	require.Equal(t, 1, s.Len())
}

func TestGroupOrdersAcrossSubjects(t *testing.T) {
	g := NewGroup()
	added := NewIn[string](g, "added")
	dropped := NewIn[string](g, "dropped")
	var got []string
	added.Subscribe(func(v string) {
		got = append(got, "first added "+v)
		// a mutation made while the others have not yet seen v
		dropped.Publish(v)
	})
	added.Subscribe(func(v string) { got = append(got, "second added "+v) })
	dropped.Subscribe(func(v string) { got = append(got, "dropped "+v) })
	added.Publish("x")
	require.Equal(t, []string{"first added x", "second added x", "dropped x"}, got)
}

package interrupt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlersRunInReverse(t *testing.T) {
	var order []int
	AddHandler(func() { order = append(order, 1) })
	AddHandler(func() { order = append(order, 2) })
	AddHandler(func() { order = append(order, 3) })
	assert.False(t, Requested())
	Request()
	select {
	case <-HandlersDone:
	case <-time.After(time.Second):
		t.Fatal("handlers did not run")
	}
	require.True(t, Requested())
	assert.Equal(t, []int{3, 2, 1}, order)
	// a second request is a no-op
	Request()
}

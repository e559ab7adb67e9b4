package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiplexer(t *testing.T) {
	m := NewMultiplexer[int]("test")
	a := make(chan int, 2)
	b := make(chan int, 2)
	m.Subscribe("a", a)
	m.SubscribeLossy("b", b)
	require.Equal(t, 2, m.Len())

	assert.Equal(t, 0, m.Send(1))
	assert.Equal(t, 1, <-a)
	assert.Equal(t, 1, <-b)

	m.Unsubscribe(b)
	assert.Equal(t, 0, m.Send(2))
	assert.Equal(t, 2, <-a)
	assert.Len(t, b, 0)

	assert.Panics(t, func() { m.Unsubscribe(b) })
}

func TestMultiplexerLossy(t *testing.T) {
	m := NewMultiplexer[string]("test")
	m.Timeout = 10 * time.Millisecond
	// nobody receives on slow
	slow := make(chan string)
	ok := make(chan string, 1)
	m.SubscribeLossy("slow", slow)
	m.Subscribe("ok", ok)
	assert.Equal(t, 1, m.Send("x"))
	assert.Equal(t, "x", <-ok)
}

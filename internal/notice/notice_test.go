package notice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	b := NewBoard(0, clock.now)

	n := b.Post("Connection", "host is shutting down")
	assert.Equal(t, clock.t.Add(DefaultTTL), n.Expires)
	require.Len(t, b.Active(), 1)

	clock.t = clock.t.Add(14 * time.Second)
	assert.Len(t, b.Active(), 1)

	clock.t = clock.t.Add(time.Second)
	assert.Empty(t, b.Active())
}

func TestDismiss(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	b := NewBoard(time.Minute, clock.now)

	a := b.Post("a", "first")
	c := b.Post("b", "second")
	assert.NotEqual(t, a.ID, c.ID)

	assert.True(t, b.Dismiss(a.ID))
	assert.False(t, b.Dismiss(a.ID))
	active := b.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)

	b.DismissAll()
	assert.Empty(t, b.Active())
}

package clients

import (
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	types    []int
	closed   bool
}

func (c *fakeConn) WriteMessage(mt int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = append(c.types, mt)
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func TestAttachReplaces(t *testing.T) {
	m := NewManager()
	assert.Nil(t, m.Current())

	first, old := m.Attach(&fakeConn{})
	assert.Nil(t, old)
	assert.Same(t, first, m.Current())

	second, old := m.Attach(&fakeConn{})
	assert.Same(t, first, old)
	assert.Same(t, second, m.Current())
	assert.NotEqual(t, first.ID, second.ID)

	// A stale detach must not evict the newer viewer.
	m.Detach(first)
	assert.Same(t, second, m.Current())
	m.Detach(second)
	assert.Nil(t, m.Current())
}

func TestViewerWrites(t *testing.T) {
	conn := &fakeConn{}
	v, _ := NewManager().Attach(conn)

	require.NoError(t, v.WriteBinary([]byte{1, 2}))
	assert.Equal(t, []int{websocket.BinaryMessage}, conn.types)

	assert.True(t, v.NeedsCursor())
	assert.False(t, v.NeedsCursor())
	v.ResetCursor()
	assert.True(t, v.NeedsCursor())

	require.NoError(t, v.Close())
	assert.True(t, conn.closed)
}

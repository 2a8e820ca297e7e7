// Package clients tracks the viewer connected to the host. Only one viewer
// is served at a time; a newcomer replaces the previous one.
package clients

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Conn is the part of *websocket.Conn a viewer needs.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Viewer is one connected viewer. Writes are serialised.
type Viewer struct {
	ID string

	mu         sync.Mutex
	conn       Conn
	cursorSent bool
}

// Write sends one message with a write deadline.
func (v *Viewer) Write(messageType int, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return v.conn.WriteMessage(messageType, data)
}

// WriteBinary sends a binary message.
func (v *Viewer) WriteBinary(data []byte) error {
	return v.Write(websocket.BinaryMessage, data)
}

// NeedsCursor reports whether the cursor image has yet to be sent, and marks
// it as sent.
func (v *Viewer) NeedsCursor() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cursorSent {
		return false
	}
	v.cursorSent = true
	return true
}

// ResetCursor forces the cursor image to be sent again.
func (v *Viewer) ResetCursor() {
	v.mu.Lock()
	v.cursorSent = false
	v.mu.Unlock()
}

// Close closes the underlying connection.
func (v *Viewer) Close() error { return v.conn.Close() }

// Manager holds the current viewer.
type Manager struct {
	mu      sync.RWMutex
	current *Viewer
}

func NewManager() *Manager {
	return &Manager{}
}

// Attach makes conn the current viewer and returns it with the viewer it
// displaced, if any. The caller closes the old one.
func (m *Manager) Attach(conn Conn) (v *Viewer, old *Viewer) {
	v = &Viewer{ID: uuid.NewString(), conn: conn}
	m.mu.Lock()
	defer m.mu.Unlock()
	old = m.current
	m.current = v
	return v, old
}

// Detach clears v if it is still the current viewer.
func (m *Manager) Detach(v *Viewer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == v {
		m.current = nil
	}
}

// Current returns the connected viewer or nil.
func (m *Manager) Current() *Viewer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

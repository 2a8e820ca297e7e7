// Package notice keeps the advisory error notices raised by the remote host.
// Notices are dismissible and expire on their own after a TTL.
package notice

import "time"

// DefaultTTL is how long a notice stays up when nobody dismisses it.
const DefaultTTL = 15 * time.Second

// Notice is one advisory message.
type Notice struct {
	ID      uint64
	Title   string
	Message string
	Posted  time.Time
	Expires time.Time
}

// Board holds the live notices for a session.
type Board struct {
	ttl    time.Duration
	now    func() time.Time
	nextID uint64
	items  []Notice
}

// NewBoard creates a board. A non-positive ttl selects DefaultTTL; a nil
// clock selects time.Now.
func NewBoard(ttl time.Duration, now func() time.Time) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Board{ttl: ttl, now: now}
}

// Post adds a notice and returns it.
func (b *Board) Post(title, message string) Notice {
	b.nextID++
	t := b.now()
	n := Notice{
		ID:      b.nextID,
		Title:   title,
		Message: message,
		Posted:  t,
		Expires: t.Add(b.ttl),
	}
	b.items = append(b.items, n)
	return n
}

// Active drops expired notices and returns the remaining ones, oldest first.
func (b *Board) Active() []Notice {
	now := b.now()
	kept := b.items[:0]
	for _, n := range b.items {
		if now.Before(n.Expires) {
			kept = append(kept, n)
		}
	}
	b.items = kept
	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}

// Dismiss removes a notice by id. It reports whether one was removed.
func (b *Board) Dismiss(id uint64) bool {
	for i, n := range b.items {
		if n.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

// DismissAll clears the board.
func (b *Board) DismissAll() {
	b.items = nil
}

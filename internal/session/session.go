// Package session owns the full-duplex websocket connection to the remote
// host. A session is created with Dial, reports its lifecycle and every
// inbound message on a single event channel, and carries outbound input
// events as JSON text frames.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"rdviewer/internal/types"
)

// State is the lifecycle of a session. It only moves forward.
type State int32

const (
	Connecting State = iota
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Close codes surfaced on EventClosed.
const (
	CodeNormal   = websocket.CloseNormalClosure
	CodeAbnormal = websocket.CloseAbnormalClosure
)

const (
	defaultReadLimit = 64 << 20
	defaultBuffer    = 64
	writeWait        = 5 * time.Second
)

// Event is anything delivered on Events.
type Event interface{ sessionEvent() }

// EventOpen is delivered once when the connection is established.
type EventOpen struct{}

// EventMessage carries one inbound websocket message.
type EventMessage struct {
	Data   []byte
	Binary bool
}

// EventError reports a transport fault. It is always followed by EventClosed.
type EventError struct{ Err error }

// EventClosed is the last event of a session.
type EventClosed struct {
	Code   int
	Reason string
}

func (EventOpen) sessionEvent()    {}
func (EventMessage) sessionEvent() {}
func (EventError) sessionEvent()   {}
func (EventClosed) sessionEvent()  {}

// Options tunes a session. The zero value is usable.
type Options struct {
	// ReadLimit caps a single inbound message. Zero selects 64 MiB.
	ReadLimit int64
	// HandshakeTimeout bounds the opening handshake. Zero means no limit
	// beyond the dial context.
	HandshakeTimeout time.Duration
	Header           http.Header
	// Buffer is the capacity of the event channel.
	Buffer int
	Log    *logrus.Entry
}

// Session is one connection attempt and its lifetime.
type Session struct {
	id       string
	endpoint string
	opts     Options
	log      *logrus.Entry

	state  atomic.Int32
	events chan Event

	writeMu sync.Mutex
	conn    *websocket.Conn

	stopOnce sync.Once
	stopped  chan struct{}
	cancel   context.CancelFunc
}

// Dial starts connecting to endpoint and returns at once in Connecting. The
// outcome is reported on Events. Cancelling ctx aborts the handshake only.
func Dial(ctx context.Context, endpoint string, opts Options) *Session {
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = defaultReadLimit
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	id := uuid.NewString()
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	dialCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		id:       id,
		endpoint: endpoint,
		opts:     opts,
		log:      log.WithFields(logrus.Fields{"component": "session", "session": id}),
		events:   make(chan Event, opts.Buffer),
		stopped:  make(chan struct{}),
		cancel:   cancel,
	}
	go s.run(dialCtx)
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Endpoint is the URL the session was dialed with.
func (s *Session) Endpoint() string { return s.endpoint }

// State returns the current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Events delivers lifecycle events and inbound messages in arrival order.
// The channel is closed after EventClosed. It must have a single consumer.
func (s *Session) Events() <-chan Event { return s.events }

// Send serialises ev and writes it as a text frame. Outside Open, or when the
// write fails, the event is dropped.
func (s *Session) Send(ev types.InputEvent) {
	if s.State() != Open {
		s.log.WithField("type", ev.Type).Debug("send dropped: session not open")
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		s.log.WithError(err).Warn("encode input event")
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.conn == nil || s.State() != Open {
		return
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.log.WithError(err).Debug("send dropped: write failed")
	}
}

// Close sends a normal close frame and tears the connection down. It is safe
// to call more than once and from any goroutine.
func (s *Session) Close() {
	s.stopOnce.Do(func() {
		close(s.stopped)
		s.cancel()
		s.state.Store(int32(Closed))

		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		if s.conn == nil {
			return
		}
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
			s.log.WithError(err).Debug("write close frame")
		}
		_ = s.conn.Close()
	})
}

func (s *Session) run(ctx context.Context) {
	defer close(s.events)

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: s.opts.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, s.endpoint, s.opts.Header)
	if err != nil {
		s.state.Store(int32(Closed))
		if s.isStopped() {
			s.emit(EventClosed{Code: CodeNormal, Reason: "closed before open"})
			return
		}
		s.log.WithError(err).WithField("endpoint", s.endpoint).Error("dial failed")
		s.emit(EventError{Err: err})
		s.emit(EventClosed{Code: CodeAbnormal, Reason: err.Error()})
		return
	}
	conn.SetReadLimit(s.opts.ReadLimit)

	s.writeMu.Lock()
	if s.isStopped() {
		s.writeMu.Unlock()
		_ = conn.Close()
		s.emit(EventClosed{Code: CodeNormal, Reason: "closed before open"})
		return
	}
	s.conn = conn
	s.state.Store(int32(Open))
	s.writeMu.Unlock()

	s.log.WithField("endpoint", s.endpoint).Info("session open")
	s.emit(EventOpen{})

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			s.finish(err)
			return
		}
		if mt != websocket.BinaryMessage && mt != websocket.TextMessage {
			continue
		}
		if !s.emit(EventMessage{Data: data, Binary: mt == websocket.BinaryMessage}) {
			s.finish(nil)
			return
		}
	}
}

func (s *Session) finish(err error) {
	s.state.Store(int32(Closed))
	if s.isStopped() {
		s.log.Info("session closed locally")
		s.emit(EventClosed{Code: CodeNormal, Reason: "closed by viewer"})
		return
	}

	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		if ce.Code == CodeAbnormal {
			s.emit(EventError{Err: err})
		}
		s.log.WithFields(logrus.Fields{"code": ce.Code, "reason": ce.Text}).Info("session closed")
		s.emit(EventClosed{Code: ce.Code, Reason: ce.Text})
		return
	}

	s.log.WithError(err).Error("connection lost")
	s.emit(EventError{Err: err})
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	s.emit(EventClosed{Code: CodeAbnormal, Reason: reason})
}

// emit delivers ev, giving up once the session has been closed locally and
// the consumer is no longer draining.
func (s *Session) emit(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.stopped:
		select {
		case s.events <- ev:
			return true
		default:
			return false
		}
	}
}

func (s *Session) isStopped() bool {
	select {
	case <-s.stopped:
		return true
	default:
		return false
	}
}

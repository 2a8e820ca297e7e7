// Package viewer is the session-scoped core of the viewer. It consumes
// transport events in arrival order, paints frames, tracks the cursor overlay
// and error notices, and gates outbound input on the session state.
//
// A Viewer is not safe for concurrent use: exactly one goroutine feeds it
// events and reads its state, which is how the UI loop drives it.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"rdviewer/internal/coords"
	"rdviewer/internal/cursor"
	"rdviewer/internal/input"
	"rdviewer/internal/metrics"
	"rdviewer/internal/notice"
	"rdviewer/internal/protocol"
	"rdviewer/internal/session"
	"rdviewer/internal/surface"
	"rdviewer/internal/types"
)

type Config struct {
	Variant   protocol.Variant
	Input     input.Config
	NoticeTTL time.Duration
	Metrics   *metrics.Metrics
	Log       *logrus.Entry
	// Now is the clock for notices; nil selects time.Now.
	Now func() time.Time
}

// Viewer holds everything one session renders and sends.
type Viewer struct {
	cfg     Config
	log     *logrus.Entry
	out     input.Sender
	rect    func() coords.Rect
	surface *surface.Surface
	cursor  cursor.State
	notices *notice.Board
	relay   *input.Relay
	state   session.State
	closed  session.EventClosed
	onFrame func(*surface.Surface)

	pos    [2]int
	hasPos bool
}

// New builds a viewer sending through out. rect reports the current display
// rectangle and is consulted on every message that needs it.
func New(out input.Sender, rect func() coords.Rect, cfg Config) *Viewer {
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if rect == nil {
		rect = func() coords.Rect { return coords.Rect{} }
	}
	v := &Viewer{
		cfg:     cfg,
		log:     log.WithField("component", "viewer"),
		out:     out,
		rect:    rect,
		surface: surface.New(),
		notices: notice.NewBoard(cfg.NoticeTTL, cfg.Now),
		state:   session.Connecting,
	}
	in := cfg.Input
	if in.Log == nil {
		in.Log = log
	}
	v.relay = input.NewRelay(gate{v}, in)
	return v
}

// gate forwards input only while the session is open. Only forwarded events
// are counted.
type gate struct{ v *Viewer }

func (g gate) Send(ev types.InputEvent) {
	if g.v.state != session.Open {
		return
	}
	g.v.cfg.Metrics.Input(string(ev.Type))
	g.v.out.Send(ev)
}

// OnFrame registers a hook called after every accepted frame, on the
// consuming goroutine.
func (v *Viewer) OnFrame(fn func(*surface.Surface)) { v.onFrame = fn }

func (v *Viewer) Surface() *surface.Surface { return v.surface }
func (v *Viewer) Cursor() *cursor.State     { return &v.cursor }
func (v *Viewer) Notices() *notice.Board    { return v.notices }
func (v *Viewer) Relay() *input.Relay       { return v.relay }
func (v *Viewer) Variant() protocol.Variant { return v.cfg.Variant }

// State is the session state as last reported by the transport.
func (v *Viewer) State() session.State { return v.state }

// CloseInfo returns the close event once the session is closed.
func (v *Viewer) CloseInfo() (session.EventClosed, bool) {
	return v.closed, v.state == session.Closed
}

// DisplayRect returns the current display rectangle.
func (v *Viewer) DisplayRect() coords.Rect { return v.rect() }

// HandleEvent processes one transport event.
func (v *Viewer) HandleEvent(ev session.Event) {
	switch e := ev.(type) {
	case session.EventOpen:
		v.state = session.Open
		v.log.Info("connected")
	case session.EventMessage:
		if !e.Binary {
			v.log.WithField("bytes", len(e.Data)).Debug("ignoring text message")
			return
		}
		v.HandleMessage(e.Data)
	case session.EventError:
		v.log.WithError(e.Err).Error("transport error")
	case session.EventClosed:
		v.state = session.Closed
		v.closed = e
		v.log.WithFields(logrus.Fields{"code": e.Code, "reason": e.Reason}).Info("disconnected")
	}
}

// HandleMessage decodes one binary message and applies it. Malformed input
// is logged and discarded.
func (v *Viewer) HandleMessage(data []byte) {
	m, err := protocol.Decode(v.cfg.Variant, data)
	if err != nil {
		if m.Type == protocol.TypeFrame {
			v.cfg.Metrics.Frame(metrics.FrameDropped)
		}
		v.log.WithError(err).WithField("bytes", len(data)).Debug("message dropped")
		return
	}
	switch m.Type {
	case protocol.TypeFrame:
		v.paint(m.Frame)
	case protocol.TypeControl:
		v.control(m.Control)
	}
}

func (v *Viewer) paint(f protocol.Frame) {
	if v.surface.Paint(f) {
		v.cfg.Metrics.Resize()
		v.log.WithFields(logrus.Fields{"width": f.Width, "height": f.Height}).Debug("surface resized")
		v.Reposition()
	}
	v.cfg.Metrics.Frame(metrics.FrameAccepted)
	if v.onFrame != nil {
		v.onFrame(v.surface)
	}
}

func (v *Viewer) control(data []byte) {
	c, err := protocol.ParseControl(data)
	if err != nil {
		v.cfg.Metrics.Control("", false)
		v.log.WithError(err).Warn("control message discarded")
		return
	}
	switch c.Type {
	case types.ControlCursorData:
		if err := v.cursor.Apply(c.CursorData()); err != nil {
			v.cfg.Metrics.Control(string(c.Type), false)
			v.log.WithError(err).Warn("cursor image discarded")
			return
		}
		v.Reposition()
	case types.ControlCursorPosition:
		v.pos = [2]int{int(c.X), int(c.Y)}
		v.hasPos = true
		v.cursor.Place(v.pos[0], v.pos[1], v.rect(), v.surface.Geometry())
	case types.ControlError:
		n := v.notices.Post(c.Title, c.Message)
		v.cfg.Metrics.Notice()
		v.log.WithFields(logrus.Fields{"title": n.Title, "message": n.Message}).Warn("host error")
	}
	v.cfg.Metrics.Control(string(c.Type), true)
}

// Reposition recomputes the cursor placement for the last known position,
// e.g. after the display rectangle changed.
func (v *Viewer) Reposition() {
	if !v.hasPos {
		return
	}
	v.cursor.Place(v.pos[0], v.pos[1], v.rect(), v.surface.Geometry())
}

// Run feeds events to the viewer until the channel closes or ctx ends.
func (v *Viewer) Run(ctx context.Context, events <-chan session.Event) error {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			v.HandleEvent(ev)
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		}
	}
}

// Drain handles every event already queued without blocking. It reports
// false once the channel is closed.
func (v *Viewer) Drain(events <-chan session.Event) bool {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			v.HandleEvent(ev)
		default:
			return true
		}
	}
}

// ErrNoFrame is returned by WaitForFrame when no frame arrives in time.
var ErrNoFrame = errors.New("viewer: no frame received")

// WaitForFrame feeds events until a frame is painted and, when the variant
// has a cursor channel, the cursor is placed or a second frame shows the host
// is not sending one. A frame already painted when ctx ends counts.
func (v *Viewer) WaitForFrame(ctx context.Context, events <-chan session.Event) error {
	ready := func() bool {
		frames := v.surface.Frames()
		if frames == 0 {
			return false
		}
		if !v.cfg.Variant.HasControl() {
			return true
		}
		_, placed := v.cursor.Placement()
		return placed || frames >= 2
	}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return fmt.Errorf("%w: session closed (code %d %s)", ErrNoFrame, v.closed.Code, v.closed.Reason)
			}
			v.HandleEvent(ev)
			if ready() {
				return nil
			}
		case <-ctx.Done():
			if v.surface.Frames() > 0 {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrNoFrame, ctx.Err())
		}
	}
}

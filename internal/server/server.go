// Package server is the host side of the wire protocol: it accepts a viewer
// over websocket, streams the captured display to it and injects the input
// events it sends back.
package server

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"rdviewer/internal/clients"
	"rdviewer/internal/cursor"
	"rdviewer/internal/metrics"
	"rdviewer/internal/protocol"
	"rdviewer/internal/types"
)

const (
	defaultFPS      = 10
	maxInputMessage = 1 << 20
)

// Source produces frames and the pointer position in frame pixels.
type Source interface {
	Frame() (*image.RGBA, error)
	CursorPos() (x, y int)
}

// Injector replays one input event on the host.
type Injector interface {
	Handle(types.InputEvent) error
}

type Config struct {
	Variant  protocol.Variant
	FPS      int
	Source   Source
	Injector Injector
	Metrics  *metrics.Metrics
	Log      *logrus.Entry
}

// Server serves one viewer at a time.
type Server struct {
	cfg      Config
	log      *logrus.Entry
	mgr      *clients.Manager
	upgrader websocket.Upgrader

	cursor   types.CursorData
	failing  atomic.Bool
	cursorID atomic.Uint64
}

func New(cfg Config) *Server {
	if cfg.FPS <= 0 {
		cfg.FPS = defaultFPS
	}
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Server{
		cfg: cfg,
		log: log.WithField("component", "server"),
		mgr: clients.NewManager(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	img, hx, hy := cursor.Arrow()
	s.cursor = cursor.Encode(s.cursorID.Add(1), img, hx, hy)
	return s
}

// Viewers exposes the connection manager.
func (s *Server) Viewers() *clients.Manager { return s.mgr }

// HandleWS upgrades the request and makes the caller the current viewer,
// disconnecting any previous one.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("upgrade failed")
		return
	}
	ws.SetReadLimit(maxInputMessage)

	v, old := s.mgr.Attach(ws)
	log := s.log.WithFields(logrus.Fields{"viewer": v.ID, "remote": r.RemoteAddr})
	if old != nil {
		log.WithField("replaced", old.ID).Info("viewer replaced")
		_ = old.Close()
	}
	log.Info("viewer connected")
	go s.readInput(v, ws, log)
}

func (s *Server) readInput(v *clients.Viewer, ws *websocket.Conn, log *logrus.Entry) {
	defer func() {
		s.mgr.Detach(v)
		_ = ws.Close()
		log.Info("viewer disconnected")
	}()

	for {
		mt, msg, err := ws.ReadMessage()
		if err != nil {
			log.WithError(err).Debug("read closed")
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var ev types.InputEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			log.WithError(err).Warn("bad input message")
			continue
		}
		s.cfg.Metrics.HostInput(string(ev.Type))
		if s.cfg.Injector == nil {
			continue
		}
		if err := s.cfg.Injector.Handle(ev); err != nil {
			log.WithError(err).WithField("type", ev.Type).Warn("inject failed")
		}
	}
}

// Stream sends a frame to the current viewer every 1/FPS until ctx ends.
func (s *Server) Stream(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-ctx.Done():
			return
		}
	}
}

// tick captures once and delivers the frame plus, in the typed variant, the
// cursor channel messages.
func (s *Server) tick() {
	v := s.mgr.Current()
	if v == nil {
		return
	}
	img, err := s.cfg.Source.Frame()
	if err != nil {
		s.captureFailed(v, err)
		return
	}
	s.failing.Store(false)

	b := img.Bounds()
	payload := protocol.EncodeFrame(s.cfg.Variant, uint32(b.Dx()), uint32(b.Dy()), protocol.PackRGBA(img))
	if err := v.WriteBinary(payload); err != nil {
		s.log.WithError(err).WithField("viewer", v.ID).Debug("frame write failed")
		return
	}
	s.cfg.Metrics.HostFrame()

	if !s.cfg.Variant.HasControl() {
		return
	}
	if v.NeedsCursor() {
		if err := s.sendControl(v, types.NewCursorData(s.cursor)); err != nil {
			v.ResetCursor()
			return
		}
	}
	x, y := s.cfg.Source.CursorPos()
	_ = s.sendControl(v, types.NewCursorPosition(x, y))
}

// captureFailed logs and, once per failure streak, tells the viewer.
func (s *Server) captureFailed(v *clients.Viewer, err error) {
	if s.failing.Swap(true) {
		return
	}
	s.log.WithError(err).Error("capture failed")
	if s.cfg.Variant.HasControl() {
		_ = s.sendControl(v, types.NewError("Capture failed", err.Error()))
	}
}

// Notify sends an error notice to the current viewer. It is a no-op without
// a viewer or a control channel.
func (s *Server) Notify(title, message string) {
	v := s.mgr.Current()
	if v == nil || !s.cfg.Variant.HasControl() {
		return
	}
	_ = s.sendControl(v, types.NewError(title, message))
}

func (s *Server) sendControl(v *clients.Viewer, msg any) error {
	payload, err := protocol.EncodeControl(s.cfg.Variant, msg)
	if err != nil {
		s.log.WithError(err).Warn("encode control")
		return err
	}
	if err := v.WriteBinary(payload); err != nil {
		s.log.WithError(err).WithField("viewer", v.ID).Debug("control write failed")
		return err
	}
	return nil
}

// Handler routes websocket upgrades on / and /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.HandleWS)
	mux.HandleFunc("/ws", s.HandleWS)
	return mux
}

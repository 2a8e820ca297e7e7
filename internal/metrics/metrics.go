// Package metrics exposes Prometheus counters for the viewer and the host.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const namespace = "rdviewer"

// Frame results.
const (
	FrameAccepted = "accepted"
	FrameDropped  = "dropped"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing,
// so components can be built without a registry in tests.
type Metrics struct {
	reg prometheus.Gatherer

	Frames          *prometheus.CounterVec
	SurfaceResizes  prometheus.Counter
	ControlMessages *prometheus.CounterVec
	ControlErrors   prometheus.Counter
	InputEvents     *prometheus.CounterVec
	Notices         prometheus.Counter

	HostFramesSent  prometheus.Counter
	HostInputEvents *prometheus.CounterVec
}

// New registers the collectors on a fresh private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWith(reg, reg)
}

// NewWith registers the collectors on r and gathers from g.
func NewWith(r prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	factory := promauto.With(r)
	return &Metrics{
		reg: g,
		Frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Inbound video frames by decode result",
		}, []string{"result"}),
		SurfaceResizes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "surface_resizes_total",
			Help:      "Render surface reallocations caused by a geometry change",
		}),
		ControlMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "control_messages_total",
			Help:      "Inbound control messages by kind",
		}, []string{"kind"}),
		ControlErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "control_errors_total",
			Help:      "Control messages discarded as malformed",
		}),
		InputEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_events_total",
			Help:      "Outbound input events by type",
		}, []string{"type"}),
		Notices: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notices_total",
			Help:      "Error notices raised by the remote host",
		}),
		HostFramesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "frames_sent_total",
			Help:      "Frames written to the connected viewer",
		}),
		HostInputEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "input_events_total",
			Help:      "Input events received from the viewer by type",
		}, []string{"type"}),
	}
}

// Frame records one inbound frame result.
func (m *Metrics) Frame(result string) {
	if m == nil {
		return
	}
	m.Frames.WithLabelValues(result).Inc()
}

// Resize records a surface reallocation.
func (m *Metrics) Resize() {
	if m == nil {
		return
	}
	m.SurfaceResizes.Inc()
}

// Control records a control message; ok=false counts it as discarded.
func (m *Metrics) Control(kind string, ok bool) {
	if m == nil {
		return
	}
	if !ok {
		m.ControlErrors.Inc()
		return
	}
	m.ControlMessages.WithLabelValues(kind).Inc()
}

// Input records an outbound input event.
func (m *Metrics) Input(eventType string) {
	if m == nil {
		return
	}
	m.InputEvents.WithLabelValues(eventType).Inc()
}

// Notice records an error notice.
func (m *Metrics) Notice() {
	if m == nil {
		return
	}
	m.Notices.Inc()
}

// HostFrame records a frame sent by the host.
func (m *Metrics) HostFrame() {
	if m == nil {
		return
	}
	m.HostFramesSent.Inc()
}

// HostInput records an input event received by the host.
func (m *Metrics) HostInput(eventType string) {
	if m == nil {
		return
	}
	m.HostInputEvents.WithLabelValues(eventType).Inc()
}

// Handler returns the scrape handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr in the background. An empty addr disables it.
func (m *Metrics) Serve(addr string, log *logrus.Entry) *http.Server {
	if addr == "" || m == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		log.WithField("addr", addr).Info("metrics server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	return srv
}

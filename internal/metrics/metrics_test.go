package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Frame(FrameAccepted)
	m.Frame(FrameAccepted)
	m.Frame(FrameDropped)
	m.Control("cursor_data", true)
	m.Control("", false)
	m.Input("mousemove")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Frames.WithLabelValues(FrameAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Frames.WithLabelValues(FrameDropped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ControlErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InputEvents.WithLabelValues("mousemove")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Frame(FrameDropped)
		m.Resize()
		m.Control("error", true)
		m.Input("keydown")
		m.Notice()
		m.HostFrame()
		m.HostInput("wheel")
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.Resize()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), "rdviewer_surface_resizes_total 1"))
}

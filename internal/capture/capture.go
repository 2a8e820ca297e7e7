// Package capture grabs the host display as raw RGBA frames and reports the
// pointer position relative to it.
package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
)

// ErrNoDisplay is returned when no active display can be captured.
var ErrNoDisplay = errors.New("capture: no active display")

// Screen captures one display.
type Screen struct {
	display int
	bounds  image.Rectangle
}

// Open selects a display by index. An out-of-range index falls back to the
// primary display.
func Open(display int) (*Screen, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, ErrNoDisplay
	}
	if display < 0 || display >= n {
		display = 0
	}
	return &Screen{display: display, bounds: screenshot.GetDisplayBounds(display)}, nil
}

// Bounds is the display rectangle in desktop coordinates.
func (s *Screen) Bounds() image.Rectangle { return s.bounds }

// Frame captures the whole display.
func (s *Screen) Frame() (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(s.bounds)
	if err != nil {
		return nil, fmt.Errorf("capture display %d: %w", s.display, err)
	}
	return img, nil
}

// CursorPos returns the pointer position in display pixels. It can lie
// outside the display when the pointer is on another screen.
func (s *Screen) CursorPos() (int, int) {
	x, y := robotgo.GetMousePos()
	return x - s.bounds.Min.X, y - s.bounds.Min.Y
}
